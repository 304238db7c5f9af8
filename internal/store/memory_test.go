package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/AlexZinkM/phantom-waitlist/internal/model"
	"github.com/AlexZinkM/phantom-waitlist/internal/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRecordsInsert(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryRecords()

	rec := model.NewWhitelistRecord("Gh9ZwEmdLJ8DscKNTkTqPbNwLNNBjuSzaG9Vp2KGtKJr", "alice_99", "Alice", time.Now())
	require.NoError(t, m.Insert(ctx, &rec))

	taken, err := m.HandleTaken(ctx, "ALICE_99")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = m.HandleTaken(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, taken)

	dup := model.NewWhitelistRecord("other", "Alice_99", "", time.Now())
	assert.ErrorIs(t, m.Insert(ctx, &dup), ErrDuplicateHandle)
	assert.Len(t, m.Records(), 1)
}

func TestMemoryRecordsConcurrentDuplicates(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryRecords()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := model.NewWhitelistRecord("addr", "racer", "", time.Now())
			errs <- m.Insert(ctx, &rec)
		}()
	}
	wg.Wait()
	close(errs)

	var ok int
	for err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, ErrDuplicateHandle)
		}
	}
	assert.Equal(t, 1, ok)
}

func TestMemoryKV(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	kv := NewMemoryKV()
	kv.now = func() time.Time { return now }

	require.NoError(t, kv.Set(ctx, "flow:a", []byte("one"), time.Minute))
	require.NoError(t, kv.Set(ctx, "flow:b", []byte("two"), 0))

	v, err := kv.Get(ctx, "flow:a")
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), v)

	now = now.Add(2 * time.Minute)
	_, err = kv.Get(ctx, "flow:a")
	assert.ErrorIs(t, err, wallet.ErrNotFound)

	v, err = kv.Get(ctx, "flow:b")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), v)

	require.NoError(t, kv.Delete(ctx, "flow:b"))
	_, err = kv.Get(ctx, "flow:b")
	assert.ErrorIs(t, err, wallet.ErrNotFound)
	require.NoError(t, kv.Delete(ctx, "flow:missing"))
}

func TestMemoryKVBacksNegotiator(t *testing.T) {
	n, err := wallet.NewNegotiator(NewMemoryKV(), wallet.Options{AppURL: "https://waitlist.example.com"})
	require.NoError(t, err)

	res, err := n.StartDeepLink(context.Background(), "s1")
	require.NoError(t, err)

	flow, err := n.Flow(context.Background(), res.FlowID)
	require.NoError(t, err)
	assert.Equal(t, wallet.FlowAwaitingRedirect, flow.State)
	assert.Empty(t, flow.SecretKey)
}
