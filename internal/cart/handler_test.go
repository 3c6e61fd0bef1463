package cart

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/avolkov/online-shop-backend/internal/product"
	"github.com/avolkov/online-shop-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

func makeCartApp(products *product.InMemoryRepository) *fiber.App {
	app := fiber.New()
	app.Use(session.Middleware(session.NewInMemoryStore()))
	NewHandler(NewService(product.NewService(products))).RegisterPublicRoutes(app)
	return app
}

func sessionCookie(t *testing.T, res *http.Response) string {
	t.Helper()
	for _, sc := range res.Header.Values("Set-Cookie") {
		if strings.HasPrefix(sc, session.CookieName+"=") {
			return strings.SplitN(sc, ";", 2)[0]
		}
	}
	t.Fatal("expected a session cookie")
	return ""
}

func doJSON(t *testing.T, app *fiber.App, method, path, body, cookie string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return res
}

func decodeView(t *testing.T, res *http.Response) View {
	t.Helper()
	var v View
	if err := json.NewDecoder(res.Body).Decode(&v); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	return v
}

func TestCartFlow(t *testing.T) {
	products := product.NewInMemoryRepository([]product.Product{
		{ID: 1, Title: "Milk", Price: 100, Available: true, Quantity: 10},
		{ID: 2, Title: "Bread", Price: 50, Available: true, Quantity: 10},
	})
	app := makeCartApp(products)

	// first add mints the session
	res := doJSON(t, app, "POST", "/api/v1/cart/items", `{"productId":1,"quantity":2}`, "")
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 on add, got %d", res.StatusCode)
	}
	cookie := sessionCookie(t, res)

	// later catalog price changes must not affect the stored line
	products.SetPrice(1, 500)

	res = doJSON(t, app, "POST", "/api/v1/cart/items", `{"productId":2,"quantity":1}`, cookie)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 on second add, got %d", res.StatusCode)
	}

	view := decodeView(t, doJSON(t, app, "GET", "/api/v1/cart", "", cookie))
	if len(view.Items) != 2 {
		t.Fatalf("expected 2 items, got %+v", view)
	}
	if view.Items[0].UnitPrice != 100 {
		t.Fatalf("expected captured price 100, got %v", view.Items[0].UnitPrice)
	}
	if view.Total != 250 {
		t.Fatalf("expected total 250, got %v", view.Total)
	}

	// unknown product is a 404
	res = doJSON(t, app, "POST", "/api/v1/cart/items", `{"productId":99,"quantity":1}`, cookie)
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", res.StatusCode)
	}

	// an update that would zero the quantity is rejected, not a delete
	res = doJSON(t, app, "POST", "/api/v1/cart/items", `{"productId":1,"quantity":-2,"update":false}`, cookie)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for non-positive quantity, got %d", res.StatusCode)
	}
	view = decodeView(t, doJSON(t, app, "GET", "/api/v1/cart", "", cookie))
	if len(view.Items) != 2 {
		t.Fatalf("rejected add must not change the cart: %+v", view)
	}

	// removing an item works; removing it again is a no-op
	res = doJSON(t, app, "DELETE", "/api/v1/cart/items/2", "", cookie)
	view = decodeView(t, res)
	if len(view.Items) != 1 || view.Items[0].Product.ID != 1 {
		t.Fatalf("expected only product 1 left, got %+v", view)
	}
	res = doJSON(t, app, "DELETE", "/api/v1/cart/items/2", "", cookie)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for repeated remove, got %d", res.StatusCode)
	}

	// clear empties the persisted cart
	res = doJSON(t, app, "DELETE", "/api/v1/cart", "", cookie)
	if res.StatusCode != fiber.StatusNoContent {
		t.Fatalf("expected 204 on clear, got %d", res.StatusCode)
	}
	view = decodeView(t, doJSON(t, app, "GET", "/api/v1/cart", "", cookie))
	if len(view.Items) != 0 || view.Total != 0 {
		t.Fatalf("expected empty cart after clear, got %+v", view)
	}
}

func TestCartView_DropsDanglingLines(t *testing.T) {
	products := product.NewInMemoryRepository([]product.Product{
		{ID: 1, Title: "Milk", Price: 100, Available: true, Quantity: 10},
		{ID: 2, Title: "Bread", Price: 50, Available: true, Quantity: 10},
	})
	app := makeCartApp(products)

	res := doJSON(t, app, "POST", "/api/v1/cart/items", `{"productId":1,"quantity":1}`, "")
	cookie := sessionCookie(t, res)
	doJSON(t, app, "POST", "/api/v1/cart/items", `{"productId":2,"quantity":1}`, cookie)

	// the product disappears from the catalog between requests
	products.Remove(2)

	view := decodeView(t, doJSON(t, app, "GET", "/api/v1/cart", "", cookie))
	if len(view.Items) != 1 || view.Items[0].Product.ID != 1 {
		t.Fatalf("expected dangling line to be dropped, got %+v", view)
	}
	if view.Total != 100 {
		t.Fatalf("expected total 100 after prune, got %v", view.Total)
	}

	// the prune is persisted, not just rendered
	view = decodeView(t, doJSON(t, app, "GET", "/api/v1/cart", "", cookie))
	if len(view.Items) != 1 {
		t.Fatalf("expected pruned cart to stay pruned, got %+v", view)
	}
}
