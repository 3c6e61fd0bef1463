package cart

import (
	"github.com/avolkov/online-shop-backend/internal/session"
)

// SessionKey is where the serialized cart lives inside a session.
const SessionKey = "cart"

// FromSession rebuilds the cart stored in the session, or an empty
// cart when none has been stored yet (lazy creation on first access).
func FromSession(s *session.Session) *Cart {
	c := New()
	if _, err := s.Get(SessionKey, c); err != nil {
		// unreadable state starts over with an empty cart
		return New()
	}
	return c
}

// SaveTo writes the cart back into the session. An empty cart is
// stored as an empty list so the persisted form reflects emptiness on
// the next load.
func (c *Cart) SaveTo(s *session.Session) error {
	return s.Set(SessionKey, c)
}
