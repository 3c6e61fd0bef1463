package session

import (
	"context"
	"sync"
)

// Store persists serialized sessions between requests. Load never
// fails on a missing id: an unknown session id yields a fresh empty
// session, which is how sessions come into existence.
type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
}

// InMemoryStore keeps encoded sessions in a map, used for tests and
// the in-memory dev server. Concurrent requests for the same session
// are last-write-wins, same as the Postgres store.
type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{data: make(map[string][]byte)}
}

func (st *InMemoryStore) Load(ctx context.Context, id string) (*Session, error) {
	st.mu.RLock()
	raw := st.data[id]
	st.mu.RUnlock()

	s := New(id)
	if err := s.Decode(raw); err != nil {
		// corrupted state starts over with an empty session
		return New(id), nil
	}
	return s, nil
}

func (st *InMemoryStore) Save(ctx context.Context, s *Session) error {
	raw, err := s.Encode()
	if err != nil {
		return err
	}

	st.mu.Lock()
	st.data[s.ID] = raw
	st.mu.Unlock()
	return nil
}
