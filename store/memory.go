package store

import (
	"context"
	"sync"
)

// MemoryStore keeps credential records in memory. It is useful for tests
// and for seeding a record before handing it to a durable store.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

// Seed installs a full record, replacing any existing one.
func (m *MemoryStore) Seed(rec Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := rec
	m.records[rec.ClientID] = &r
}

func (m *MemoryStore) Get(_ context.Context, clientID string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[clientID]
	if !ok {
		return nil, ErrNotFound
	}
	out := *rec
	return &out, nil
}

func (m *MemoryStore) Put(_ context.Context, clientID string, update Update) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[clientID]
	if !ok {
		rec = &Record{ClientID: clientID}
		m.records[clientID] = rec
	}
	update.Apply(rec)
	return nil
}
