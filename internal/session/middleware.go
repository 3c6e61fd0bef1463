package session

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// CookieName carries the session id across requests.
	CookieName = "shop_session"

	localsKey = "shop_session_state"
)

// Middleware loads the session for the request cookie (minting a new
// id when none exists yet) and saves it back after the handler ran, if
// it was mutated. A failed save is logged and does not fail the
// request, last write wins.
func Middleware(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies(CookieName)
		if sid == "" {
			sid = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     CookieName,
				Value:    sid,
				Path:     "/",
				HTTPOnly: true,
				Expires:  time.Now().Add(30 * 24 * time.Hour),
			})
		}

		sess, err := store.Load(c.UserContext(), sid)
		if err != nil {
			log.Printf("session: load %s: %v", sid, err)
			sess = New(sid)
		}
		c.Locals(localsKey, sess)

		handlerErr := c.Next()

		if sess.Dirty() {
			if err := store.Save(c.UserContext(), sess); err != nil {
				log.Printf("session: save %s: %v", sid, err)
			}
		}
		return handlerErr
	}
}

// FromCtx returns the session attached by Middleware, or nil when the
// middleware did not run for this route.
func FromCtx(c *fiber.Ctx) *Session {
	s, _ := c.Locals(localsKey).(*Session)
	return s
}
