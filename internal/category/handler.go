package category

import (
	"strconv"

	"github.com/avolkov/online-shop-backend/internal/product"
	"github.com/gofiber/fiber/v2"
)

// ProductLister supplies the products shown on a category page.
type ProductLister interface {
	ListByCategory(categoryID int) []product.Product
}

type Handler struct {
	service  *Service
	products ProductLister
}

func NewHandler(s *Service, products ProductLister) *Handler {
	return &Handler{service: s, products: products}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/categories", h.getCategories)
	app.Get("/api/v1/categories/:id", h.getCategory)
}

func (h *Handler) getCategories(c *fiber.Ctx) error {
	return c.JSON(h.service.List())
}

// getCategory returns the category together with its products, the
// shape a category page renders from.
func (h *Handler) getCategory(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid category id"})
	}

	cat, err := h.service.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "category not found"})
	}

	return c.JSON(fiber.Map{
		"category": cat,
		"products": h.products.ListByCategory(cat.ID),
	})
}
