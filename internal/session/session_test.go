package session

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestSession_RoundTrip(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	s, err := store.Load(ctx, "sid-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	type payload struct {
		Quantity int     `json:"quantity"`
		Price    float64 `json:"price"`
	}
	if err := s.Set("cart", map[string]payload{"3": {Quantity: 2, Price: 99.90}}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !s.Dirty() {
		t.Fatal("expected session to be dirty after Set")
	}
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}

	// a later request loads the same state back, exactly
	s2, err := store.Load(ctx, "sid-1")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	var got map[string]payload
	ok, err := s2.Get("cart", &got)
	if err != nil || !ok {
		t.Fatalf("get after reload: ok=%v err=%v", ok, err)
	}
	if got["3"].Quantity != 2 || got["3"].Price != 99.90 {
		t.Fatalf("round trip lost data: %+v", got)
	}

	// deleting persists emptiness, not just an empty in-memory value
	s2.Delete("cart")
	if err := store.Save(ctx, s2); err != nil {
		t.Fatalf("save after delete: %v", err)
	}
	s3, _ := store.Load(ctx, "sid-1")
	if ok, _ := s3.Get("cart", &got); ok {
		t.Fatal("expected cart key to be gone after delete+save")
	}
}

func TestMiddleware_MintsCookieAndPersists(t *testing.T) {
	store := NewInMemoryStore()
	app := fiber.New()
	app.Use(Middleware(store))
	app.Post("/touch", func(c *fiber.Ctx) error {
		sess := FromCtx(c)
		if sess == nil {
			t.Fatal("session missing from ctx")
		}
		if err := sess.Set("seen", true); err != nil {
			return err
		}
		return c.SendString(sess.ID)
	})

	req := httptest.NewRequest("POST", "/touch", nil)
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	var cookie string
	for _, sc := range res.Header.Values("Set-Cookie") {
		if strings.HasPrefix(sc, CookieName+"=") {
			cookie = strings.SplitN(strings.TrimPrefix(sc, CookieName+"="), ";", 2)[0]
		}
	}
	if cookie == "" {
		t.Fatal("expected a session cookie to be minted")
	}

	sid, _ := io.ReadAll(res.Body)
	if string(sid) != cookie {
		t.Fatalf("cookie %q does not match session id %q", cookie, sid)
	}

	s, err := store.Load(context.Background(), cookie)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var seen bool
	if ok, _ := s.Get("seen", &seen); !ok || !seen {
		t.Fatal("expected mutated session to be persisted by middleware")
	}
}
