package payment

import (
	"errors"

	"github.com/avolkov/online-shop-backend/internal/checkout"
	"github.com/avolkov/online-shop-backend/internal/order"
	"github.com/avolkov/online-shop-backend/internal/session"
	"github.com/avolkov/online-shop-backend/internal/user"
	"github.com/gofiber/fiber/v2"
)

// Handler drives the pay/done/cancel step that follows checkout. The
// order being paid is the pending order stored in the session by the
// checkout flow.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/payment/token", h.clientToken)
	app.Post("/api/v1/payment/process", h.process)
	app.Get("/api/v1/payment/done", h.done)
	app.Get("/api/v1/payment/cancel", h.cancel)
}

func (h *Handler) clientToken(c *fiber.Ctx) error {
	token, err := h.service.ClientToken(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"token": token})
}

type processRequest struct {
	Nonce string `json:"nonce"`
}

func (h *Handler) process(c *fiber.Ctx) error {
	customerID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	orderID, ok := pendingOrderID(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "no order awaiting payment"})
	}

	payload := new(processRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	o, err := h.service.Process(c.UserContext(), orderID, customerID, payload.Nonce)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		case errors.Is(err, ErrDeclined), errors.Is(err, ErrAmountMismatch):
			// the order stays payable; send the client to the cancel page
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
				"message": "payment was not accepted",
				"next":    "/api/v1/payment/cancel",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}

	// payment finished, the pending marker has served its purpose
	if sess := session.FromCtx(c); sess != nil {
		sess.Delete(checkout.PendingOrderKey)
	}

	return c.JSON(fiber.Map{"order": o, "next": "/api/v1/payment/done"})
}

func (h *Handler) done(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "payment completed"})
}

func (h *Handler) cancel(c *fiber.Ctx) error {
	orderID, ok := pendingOrderID(c)
	if !ok {
		return c.JSON(fiber.Map{"message": "payment cancelled"})
	}
	// the order is kept so payment can be retried against it
	return c.JSON(fiber.Map{"message": "payment cancelled", "orderId": orderID})
}

func pendingOrderID(c *fiber.Ctx) (int, bool) {
	sess := session.FromCtx(c)
	if sess == nil {
		return 0, false
	}
	var id int
	ok, err := sess.Get(checkout.PendingOrderKey, &id)
	if err != nil || !ok || id <= 0 {
		return 0, false
	}
	return id, true
}
