package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/AlexZinkM/phantom-waitlist/internal/whitelist"

	"github.com/google/uuid"
)

// CookieName holds the session id.
const CookieName = "waitlist_session"

type entry struct {
	session  *whitelist.Session
	lastSeen time.Time
}

// Manager binds whitelist sessions to browsers through a cookie. Sessions live
// in memory only and expire after ttl without requests.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	secure   bool
	now      func() time.Time
}

// NewManager creates a Manager.
func NewManager(ttl time.Duration, secureCookie bool) *Manager {
	return &Manager{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		secure:   secureCookie,
		now:      time.Now,
	}
}

// FromRequest returns the caller's session, creating one (and setting the
// cookie) when the request has none or it expired.
func (m *Manager) FromRequest(w http.ResponseWriter, r *http.Request) (string, *whitelist.Session) {
	if c, err := r.Cookie(CookieName); err == nil {
		if s := m.Lookup(c.Value); s != nil {
			return c.Value, s
		}
	}
	return m.create(w)
}

// Lookup returns a live session by id or nil.
func (m *Manager) Lookup(id string) *whitelist.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil
	}
	now := m.now()
	if now.Sub(e.lastSeen) > m.ttl {
		delete(m.sessions, id)
		return nil
	}
	e.lastSeen = now
	return e.session
}

// Reset drops the caller's session and starts a fresh one.
func (m *Manager) Reset(w http.ResponseWriter, r *http.Request) (string, *whitelist.Session) {
	if c, err := r.Cookie(CookieName); err == nil {
		m.mu.Lock()
		delete(m.sessions, c.Value)
		m.mu.Unlock()
	}
	return m.create(w)
}

// Len returns the number of tracked sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) create(w http.ResponseWriter) (string, *whitelist.Session) {
	id := uuid.NewString()
	s := whitelist.NewSession()

	m.mu.Lock()
	m.sweep()
	m.sessions[id] = &entry{session: s, lastSeen: m.now()}
	m.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.ttl.Seconds()),
	})
	return id, s
}

// sweep drops expired sessions; caller holds mu.
func (m *Manager) sweep() {
	now := m.now()
	for id, e := range m.sessions {
		if now.Sub(e.lastSeen) > m.ttl {
			delete(m.sessions, id)
		}
	}
}
