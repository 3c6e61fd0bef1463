package checkout

import (
	"errors"

	"github.com/avolkov/online-shop-backend/internal/order"
	"github.com/avolkov/online-shop-backend/internal/session"
	"github.com/avolkov/online-shop-backend/internal/user"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/checkout", h.getForm)
	app.Post("/api/v1/checkout", h.placeOrder)
}

// getForm describes the order form: the accepted buying types and a
// snapshot of the cart being checked out.
func (h *Handler) getForm(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	if sess == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "session unavailable"})
	}

	view, err := h.service.CartView(sess)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{
		"buyingTypes": []order.BuyingType{order.BuyingSelfPickup, order.BuyingDelivery},
		"cart":        view,
	})
}

func (h *Handler) placeOrder(c *fiber.Ctx) error {
	customerID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	sess := session.FromCtx(c)
	if sess == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "session unavailable"})
	}

	var form OrderForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	o, err := h.service.Place(c.UserContext(), customerID, form, sess)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": verr.Fields})
		case errors.Is(err, ErrEmptyCart):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "cart is empty"})
		default:
			// transactional failure: nothing was written, safe to retry
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "could not place order"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"order": o, "total": o.TotalCost()})
}
