package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRequestCreatesAndReuses(t *testing.T) {
	m := NewManager(time.Hour, false)

	rec := httptest.NewRecorder()
	id, s := m.FromRequest(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotNil(t, s)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, id, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec2 := httptest.NewRecorder()
	id2, s2 := m.FromRequest(rec2, req)
	assert.Equal(t, id, id2)
	assert.Same(t, s, s2)
	assert.Empty(t, rec2.Result().Cookies())
}

func TestSessionsExpire(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	m := NewManager(time.Minute, true)
	m.now = func() time.Time { return now }

	rec := httptest.NewRecorder()
	id, _ := m.FromRequest(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, rec.Result().Cookies()[0].Secure)
	assert.NotNil(t, m.Lookup(id))

	now = now.Add(2 * time.Minute)
	assert.Nil(t, m.Lookup(id))
	assert.Zero(t, m.Len())
}

func TestReset(t *testing.T) {
	m := NewManager(time.Hour, false)

	rec := httptest.NewRecorder()
	id, s := m.FromRequest(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	s.SetWalletAddress("Gh9ZwEmdLJ8DscKNTkTqPbNwLNNBjuSzaG9Vp2KGtKJr")

	req := httptest.NewRequest(http.MethodPost, "/api/session/reset", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	newID, fresh := m.Reset(httptest.NewRecorder(), req)

	assert.NotEqual(t, id, newID)
	assert.Nil(t, m.Lookup(id))
	assert.Empty(t, fresh.Snapshot().WalletAddress)
}
