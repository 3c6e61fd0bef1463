package cart

import (
	"strconv"

	"github.com/avolkov/online-shop-backend/internal/product"
	"github.com/avolkov/online-shop-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

// Handler exposes the session cart over HTTP. Cart routes are public:
// a cart belongs to a browser session, not to an account.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Post("/api/v1/cart/items", h.addItem)
	app.Delete("/api/v1/cart/items/:id<[0-9]+>", h.removeItem)
	app.Delete("/api/v1/cart", h.clearCart)
}

type addItemRequest struct {
	ProductID int  `json:"productId"`
	Quantity  int  `json:"quantity"`
	Update    bool `json:"update"`
}

func (h *Handler) addItem(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	if sess == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "session unavailable"})
	}

	payload := new(addItemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ProductID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid productId"})
	}

	if err := h.service.Add(sess, payload.ProductID, payload.Quantity, payload.Update); err != nil {
		switch err {
		case product.ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
		case ErrInvalidQuantity:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}

	return h.renderCart(c, sess)
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	if sess == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "session unavailable"})
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}

	// removing an absent product is a no-op by contract
	if err := h.service.Remove(sess, id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	return h.renderCart(c, sess)
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	if sess == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "session unavailable"})
	}

	if err := h.service.Clear(sess); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	if sess == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "session unavailable"})
	}
	return h.renderCart(c, sess)
}

func (h *Handler) renderCart(c *fiber.Ctx, sess *session.Session) error {
	view, err := h.service.View(sess)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(view)
}
