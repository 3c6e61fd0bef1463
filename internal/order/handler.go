package order

import (
	"strconv"

	"github.com/avolkov/online-shop-backend/internal/user"
	"github.com/gofiber/fiber/v2"
)

// Handler serves a customer's order history. Orders are created by the
// checkout flow, never directly through this handler.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/orders", h.getOrders)
	app.Get("/api/v1/orders/:id<[0-9]+>", h.getOrder)
}

func (h *Handler) getOrders(c *fiber.Ctx) error {
	customerID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	orders, err := h.service.ListByCustomer(c.UserContext(), customerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(orders)
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	customerID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order id"})
	}

	o, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		switch err {
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	// an order is only visible to its owner
	if o.CustomerID != customerID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
	}

	return c.JSON(fiber.Map{"order": o, "total": o.TotalCost()})
}
