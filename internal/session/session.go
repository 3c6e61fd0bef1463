package session

import (
	"encoding/json"
)

// Session is the per-browser state carried across requests. Values are
// kept as raw JSON so anything stored survives a store round trip
// byte-for-byte. A session is mutated through Set/Delete only, which
// also marks it dirty so the middleware knows to persist it.
type Session struct {
	ID     string
	values map[string]json.RawMessage
	dirty  bool
}

func New(id string) *Session {
	return &Session{ID: id, values: make(map[string]json.RawMessage)}
}

// Get unmarshals the value stored under key into dst. The boolean
// reports whether the key was present.
func (s *Session) Get(key string, dst any) (bool, error) {
	raw, ok := s.values[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, err
	}
	return true, nil
}

func (s *Session) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.values[key] = raw
	s.dirty = true
	return nil
}

func (s *Session) Delete(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	s.dirty = true
}

func (s *Session) Dirty() bool {
	return s.dirty
}

// Encode serializes all values for storage.
func (s *Session) Encode() ([]byte, error) {
	return json.Marshal(s.values)
}

// Decode replaces the session values with the stored form.
func (s *Session) Decode(data []byte) error {
	values := make(map[string]json.RawMessage)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &values); err != nil {
			return err
		}
	}
	s.values = values
	s.dirty = false
	return nil
}
