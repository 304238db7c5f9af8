package store

import (
	"context"
	"sync"
	"time"

	"github.com/AlexZinkM/phantom-waitlist/internal/model"
	"github.com/AlexZinkM/phantom-waitlist/internal/wallet"
)

// MemoryRecords keeps whitelist records in process memory.
type MemoryRecords struct {
	mu      sync.Mutex
	records []model.WhitelistRecord
	handles map[string]struct{}
}

// NewMemoryRecords creates an empty record store.
func NewMemoryRecords() *MemoryRecords {
	return &MemoryRecords{handles: make(map[string]struct{})}
}

// Insert stores rec unless its handle is taken.
func (m *MemoryRecords) Insert(_ context.Context, rec *model.WhitelistRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := model.HandleKey(rec.Handle)
	if _, ok := m.handles[key]; ok {
		return ErrDuplicateHandle
	}
	m.handles[key] = struct{}{}
	rec.ID = uint(len(m.records) + 1)
	m.records = append(m.records, *rec)
	return nil
}

// HandleTaken reports whether a record with handle exists.
func (m *MemoryRecords) HandleTaken(_ context.Context, handle string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.handles[model.HandleKey(handle)]
	return ok, nil
}

// Records returns a copy of all stored records in insertion order.
func (m *MemoryRecords) Records() []model.WhitelistRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.WhitelistRecord(nil), m.records...)
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryKV is an in-process wallet.KeyValueStore with per-key expiry.
type MemoryKV struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryKV creates an empty key-value store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{entries: make(map[string]memoryEntry), now: time.Now}
}

// Get returns the value under key, or wallet.ErrNotFound once it expired.
func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, wallet.ErrNotFound
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return nil, wallet.ErrNotFound
	}
	return append([]byte(nil), e.value...), nil
}

// Set stores value under key; a non-positive ttl never expires.
func (m *MemoryKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.entries[key] = e
	m.sweep()
	return nil
}

// Delete removes key and zeroes its value.
func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[key]; ok {
		clear(e.value)
		delete(m.entries, key)
	}
	return nil
}

// sweep drops expired entries; caller holds mu.
func (m *MemoryKV) sweep() {
	now := m.now()
	for k, e := range m.entries {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			clear(e.value)
			delete(m.entries, k)
		}
	}
}
