package whitelist

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/AlexZinkM/phantom-waitlist/internal/model"
	"github.com/AlexZinkM/phantom-waitlist/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWallet = "Gh9ZwEmdLJ8DscKNTkTqPbNwLNNBjuSzaG9Vp2KGtKJr"

var fixedNow = time.Date(2026, 10, 19, 9, 30, 15, 123_000_000, time.UTC)

type fakeStore struct {
	mu           sync.Mutex
	inserted     []model.WhitelistRecord
	lookups      int
	taken        bool
	insertErr    error
	lookupErr    error
	session      *Session
	statusAtCall []Status
	block        chan struct{}
}

func (f *fakeStore) Insert(_ context.Context, rec *model.WhitelistRecord) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session != nil {
		f.statusAtCall = append(f.statusAtCall, f.session.Snapshot().Status)
	}
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, *rec)
	return nil
}

func (f *fakeStore) HandleTaken(_ context.Context, _ string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	return f.taken, f.lookupErr
}

func (f *fakeStore) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inserted) + f.lookups + len(f.statusAtCall)
}

type fakePublisher struct {
	events []model.WhitelistRecord
	err    error
}

func (p *fakePublisher) PublishJoined(_ context.Context, rec model.WhitelistRecord) error {
	p.events = append(p.events, rec)
	return p.err
}

var allRules = Rules{RequireDisplayName: true, EnforceHandlePattern: true, CheckHandleTaken: true}

func newSession(wallet, name, handle string) *Session {
	s := NewSession()
	s.SetWalletAddress(wallet)
	s.SetFields(Fields{DisplayName: name, Handle: handle})
	return s
}

func TestSubmitSuccessScenario(t *testing.T) {
	fs := &fakeStore{}
	pub := &fakePublisher{}
	c := NewController(fs, allRules, WithClock(func() time.Time { return fixedNow }), WithPublisher(pub))
	s := newSession(testWallet, "Alice", "alice_99")
	fs.session = s

	assert.Equal(t, StatusIdle, s.Snapshot().Status)

	rec, err := c.Submit(context.Background(), s)
	require.NoError(t, err)

	require.Len(t, fs.inserted, 1)
	got := fs.inserted[0]
	assert.Equal(t, testWallet, got.WalletAddress)
	assert.Equal(t, "alice_99", got.Handle)
	assert.Equal(t, "Alice", got.DisplayName)
	assert.Equal(t, "2026-10-19T09:30:15.123Z", got.Timestamp)
	assert.Equal(t, *rec, got)

	assert.Equal(t, []Status{StatusSubmitting}, fs.statusAtCall)
	snap := s.Snapshot()
	assert.Equal(t, StatusSucceeded, snap.Status)
	assert.Equal(t, Fields{}, snap.Fields)
	assert.Equal(t, ScreenSuccess, snap.Screen())
	assert.Len(t, pub.events, 1)
}

func TestSubmitTrimsFields(t *testing.T) {
	fs := &fakeStore{}
	c := NewController(fs, allRules)

	_, err := c.Submit(context.Background(), newSession(testWallet, "  Alice  ", "  @alice_99 "))
	require.NoError(t, err)
	require.Len(t, fs.inserted, 1)
	assert.Equal(t, "alice_99", fs.inserted[0].Handle)
	assert.Equal(t, "alice_99", fs.inserted[0].HandleKey)
	assert.Equal(t, "Alice", fs.inserted[0].DisplayName)
}

func TestSubmitRejectsInvalidHandles(t *testing.T) {
	handles := []string{
		"bad handle!",
		"way_too_long_handle",
		"dash-name",
		"émile",
		"a.b",
		"na me",
		"1234567890123456",
		"@",
	}

	for _, h := range handles {
		t.Run(h, func(t *testing.T) {
			fs := &fakeStore{}
			c := NewController(fs, allRules)
			s := newSession(testWallet, "Alice", h)

			_, err := c.Submit(context.Background(), s)
			assert.ErrorIs(t, err, ErrValidationFailed)
			assert.Zero(t, fs.calls(), "store must not be touched")

			snap := s.Snapshot()
			assert.Equal(t, StatusIdle, snap.Status)
			assert.NotEmpty(t, snap.ValidationError)
		})
	}
}

func TestSubmitPatternCanBeDisabled(t *testing.T) {
	fs := &fakeStore{}
	c := NewController(fs, Rules{})

	_, err := c.Submit(context.Background(), newSession(testWallet, "", "bad handle!"))
	require.NoError(t, err)
	assert.Len(t, fs.inserted, 1)
	assert.Empty(t, fs.inserted[0].DisplayName)
	assert.Zero(t, fs.lookups)
}

func TestSubmitWithoutWalletAlwaysRejects(t *testing.T) {
	inputs := []Fields{
		{DisplayName: "Alice", Handle: "alice_99"},
		{},
		{DisplayName: "Bob", Handle: "bad handle!"},
		{Handle: "x"},
	}
	for _, rules := range []Rules{allRules, {}} {
		for _, f := range inputs {
			fs := &fakeStore{}
			c := NewController(fs, rules)
			s := NewSession()
			s.SetFields(f)

			_, err := c.Submit(context.Background(), s)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "walletAddress", verr.Field)
			assert.Zero(t, fs.calls())
			assert.Equal(t, ScreenConnect, s.Screen())
		}
	}
}

func TestSubmitRequiresDisplayNameWhenConfigured(t *testing.T) {
	fs := &fakeStore{}
	c := NewController(fs, Rules{RequireDisplayName: true})

	_, err := c.Submit(context.Background(), newSession(testWallet, "   ", "alice_99"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "displayName", verr.Field)
	assert.Zero(t, fs.calls())
}

func TestSubmitRejectsOverlongFields(t *testing.T) {
	tests := []struct {
		name   string
		fields Fields
		field  string
	}{
		{"handle", Fields{DisplayName: "Alice", Handle: strings.Repeat("a", model.MaxHandleLen+1)}, "handle"},
		{"display name", Fields{DisplayName: strings.Repeat("é", model.MaxDisplayNameLen+1), Handle: "alice_99"}, "displayName"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := &fakeStore{}
			// without the pattern rule only the length limits bound the handle
			c := NewController(fs, Rules{})
			s := newSession(testWallet, tt.fields.DisplayName, tt.fields.Handle)

			_, err := c.Submit(context.Background(), s)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Zero(t, fs.calls())
			assert.Equal(t, StatusIdle, s.Snapshot().Status)
		})
	}

	fs := &fakeStore{}
	c := NewController(fs, Rules{})
	_, err := c.Submit(context.Background(),
		newSession(testWallet, strings.Repeat("é", model.MaxDisplayNameLen), strings.Repeat("a", model.MaxHandleLen)))
	require.NoError(t, err)
	assert.Len(t, fs.inserted, 1)
}

func TestSubmitAfterSuccessIsRejected(t *testing.T) {
	fs := &fakeStore{}
	c := NewController(fs, allRules)
	s := newSession(testWallet, "Alice", "alice_99")

	first, err := c.Submit(context.Background(), s)
	require.NoError(t, err)

	s.SetFields(Fields{DisplayName: "Alice", Handle: "alice_99"})
	_, err = c.Submit(context.Background(), s)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)

	s.SetFields(Fields{DisplayName: "Bob", Handle: "bob_1"})
	_, err = c.Submit(context.Background(), s)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)

	require.Len(t, fs.inserted, 1)
	assert.Equal(t, *first, fs.inserted[0])
	snap := s.Snapshot()
	assert.Equal(t, StatusSucceeded, snap.Status)
	assert.Equal(t, ScreenSuccess, snap.Screen())
	assert.Empty(t, snap.ValidationError)
	assert.Equal(t, 1, fs.lookups)
}

func TestSubmitStoreFailureKeepsFields(t *testing.T) {
	fs := &fakeStore{insertErr: errors.New("deadline exceeded")}
	c := NewController(fs, allRules)
	s := newSession(testWallet, "Alice", "alice_99")
	fs.session = s

	_, err := c.Submit(context.Background(), s)
	assert.ErrorIs(t, err, ErrPersistenceFailed)

	assert.Equal(t, []Status{StatusSubmitting}, fs.statusAtCall)
	snap := s.Snapshot()
	assert.Equal(t, StatusFailed, snap.Status)
	assert.NotEmpty(t, snap.FailureReason)
	assert.Equal(t, Fields{DisplayName: "Alice", Handle: "alice_99"}, snap.Fields)
	assert.Equal(t, ScreenForm, snap.Screen())
	assert.Empty(t, fs.inserted)

	// retry without re-entering data
	fs.insertErr = nil
	_, err = c.Submit(context.Background(), s)
	require.NoError(t, err)
	assert.Len(t, fs.inserted, 1)
}

func TestSubmitHandleTakenPreCheck(t *testing.T) {
	fs := &fakeStore{taken: true}
	c := NewController(fs, allRules)
	s := newSession(testWallet, "Alice", "alice_99")

	_, err := c.Submit(context.Background(), s)
	assert.ErrorIs(t, err, ErrHandleAlreadyTaken)
	assert.Empty(t, fs.inserted)

	snap := s.Snapshot()
	assert.Equal(t, StatusIdle, snap.Status)
	assert.Equal(t, "handle taken", snap.ValidationError)
	assert.Equal(t, "alice_99", snap.Fields.Handle)
}

func TestSubmitHandleLookupFailure(t *testing.T) {
	fs := &fakeStore{lookupErr: errors.New("unavailable")}
	c := NewController(fs, allRules)
	s := newSession(testWallet, "Alice", "alice_99")

	_, err := c.Submit(context.Background(), s)
	assert.ErrorIs(t, err, ErrPersistenceFailed)
	assert.Equal(t, StatusFailed, s.Snapshot().Status)
	assert.Empty(t, fs.inserted)
}

func TestSubmitDuplicateRejectedByStore(t *testing.T) {
	records := store.NewMemoryRecords()
	c := NewController(records, Rules{EnforceHandlePattern: true})

	_, err := c.Submit(context.Background(), newSession(testWallet, "", "alice_99"))
	require.NoError(t, err)

	s := newSession("other", "", "Alice_99")
	_, err = c.Submit(context.Background(), s)
	assert.ErrorIs(t, err, ErrHandleAlreadyTaken)
	assert.Equal(t, StatusIdle, s.Snapshot().Status)
	assert.Len(t, records.Records(), 1)
}

func TestSubmitInFlightIsRejected(t *testing.T) {
	fs := &fakeStore{block: make(chan struct{})}
	c := NewController(fs, Rules{})
	s := newSession(testWallet, "Alice", "alice_99")

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), s)
		done <- err
	}()

	require.Eventually(t, func() bool {
		return s.Snapshot().Status == StatusSubmitting
	}, time.Second, time.Millisecond)

	_, err := c.Submit(context.Background(), s)
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(fs.block)
	require.NoError(t, <-done)
	assert.Len(t, fs.inserted, 1)
}

type fakeBalance struct {
	lamports uint64
	err      error
}

func (f fakeBalance) GetSOLBalanceLamports(context.Context, string) (uint64, error) {
	return f.lamports, f.err
}

func TestSubmitEligibility(t *testing.T) {
	rule, err := NewBalanceRule(fakeBalance{lamports: 10_000_000}, "0.05")
	require.NoError(t, err)

	fs := &fakeStore{}
	c := NewController(fs, allRules, WithEligibility(rule))
	s := newSession(testWallet, "Alice", "alice_99")

	_, err = c.Submit(context.Background(), s)
	assert.ErrorIs(t, err, ErrNotEligible)
	assert.Contains(t, s.Snapshot().ValidationError, "0.050000000 SOL")
	assert.Equal(t, StatusIdle, s.Snapshot().Status)
	assert.Zero(t, fs.calls())

	rich, err := NewBalanceRule(fakeBalance{lamports: 50_000_000}, "0.05")
	require.NoError(t, err)
	c = NewController(fs, allRules, WithEligibility(rich))
	_, err = c.Submit(context.Background(), s)
	require.NoError(t, err)
}

func TestSubmitEligibilityLookupFailure(t *testing.T) {
	rule, err := NewBalanceRule(fakeBalance{err: errors.New("rpc down")}, "1")
	require.NoError(t, err)

	c := NewController(&fakeStore{}, allRules, WithEligibility(rule))
	s := newSession(testWallet, "Alice", "alice_99")

	_, err = c.Submit(context.Background(), s)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotEligible)
	assert.Equal(t, StatusFailed, s.Snapshot().Status)
}

func TestNewBalanceRuleRejectsBadAmount(t *testing.T) {
	_, err := NewBalanceRule(fakeBalance{}, "lots")
	assert.Error(t, err)
}

func TestPublisherFailureDoesNotFailSubmit(t *testing.T) {
	c := NewController(&fakeStore{}, allRules, WithPublisher(&fakePublisher{err: errors.New("broker down")}))
	s := newSession(testWallet, "Alice", "alice_99")

	_, err := c.Submit(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, s.Snapshot().Status)
}
