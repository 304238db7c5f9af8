package model

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnSizesMatchLimits(t *testing.T) {
	typ := reflect.TypeOf(WhitelistRecord{})
	for field, limit := range map[string]int{
		"Handle":      MaxHandleLen,
		"HandleKey":   MaxHandleLen,
		"DisplayName": MaxDisplayNameLen,
	} {
		f, ok := typ.FieldByName(field)
		require.True(t, ok, field)
		assert.Contains(t, strings.Split(f.Tag.Get("gorm"), ";"), fmt.Sprintf("size:%d", limit), field)
	}
}

func TestNewWhitelistRecord(t *testing.T) {
	at := time.Date(2026, 10, 19, 11, 30, 15, 123_000_000, time.FixedZone("CEST", 2*60*60))
	rec := NewWhitelistRecord("Gh9ZwEmdLJ8DscKNTkTqPbNwLNNBjuSzaG9Vp2KGtKJr", "Alice_99", "Alice", at)

	assert.Equal(t, "alice_99", rec.HandleKey)
	assert.Equal(t, "2026-10-19T09:30:15.123Z", rec.Timestamp)
	assert.Equal(t, time.UTC, rec.SubmittedAt.Location())
}
