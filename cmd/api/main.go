package main

import (
	"context"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"

	"github.com/avolkov/online-shop-backend/internal/cart"
	"github.com/avolkov/online-shop-backend/internal/category"
	"github.com/avolkov/online-shop-backend/internal/checkout"
	"github.com/avolkov/online-shop-backend/internal/config"
	"github.com/avolkov/online-shop-backend/internal/mailer"
	"github.com/avolkov/online-shop-backend/internal/notification"
	"github.com/avolkov/online-shop-backend/internal/order"
	"github.com/avolkov/online-shop-backend/internal/payment"
	"github.com/avolkov/online-shop-backend/internal/product"
	"github.com/avolkov/online-shop-backend/internal/session"
	"github.com/avolkov/online-shop-backend/internal/user"
)

// main runs the storefront entirely in memory with a seeded catalog.
// No Postgres, broker or SMTP server is needed, which makes it handy
// for frontend development and manual API poking.
func main() {
	cfg := config.Load()

	categoryRepo := category.NewInMemoryRepository(seedCategories())
	productRepo := product.NewInMemoryRepository(seedProducts())
	orderRepo := order.NewInMemoryRepository()
	notificationRepo := notification.NewInMemoryRepository()
	userRepo := user.NewInMemoryRepository(nil)

	logger := log.New(os.Stdout, "[mail-worker] ", log.LstdFlags)
	worker := mailer.NewWorker(mailer.LogMailer{}, &repoDirectory{orders: orderRepo, users: userRepo}, cfg.MailFrom, logger)
	mailQueue := mailer.NewInProcessQueue(worker, 16, logger)
	mailQueue.Start(context.Background())

	productService := product.NewService(productRepo)
	categoryService := category.NewService(categoryRepo)
	cartService := cart.NewService(productService)
	orderService := order.NewService(orderRepo)
	notificationService := notification.NewService(notificationRepo)
	userService := user.NewService(userRepo, mailQueue)
	checkoutService := checkout.NewService(orderService, cartService, mailQueue)
	paymentService := payment.NewService(orderService, &payment.FakeGateway{})

	orderService.OnStatusChange(notificationService.OrderStatusHook)

	app := fiber.New()
	app.Use(session.Middleware(session.NewInMemoryStore()))

	userHandler := user.NewHandler(userService, cfg.JWTSecret)
	userHandler.RegisterPublicRoutes(app)
	category.NewHandler(categoryService, productService).RegisterPublicRoutes(app)
	product.NewHandler(productService).RegisterPublicRoutes(app)
	cart.NewHandler(cartService).RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	userHandler.RegisterProtectedRoutes(app)
	checkout.NewHandler(checkoutService).RegisterProtectedRoutes(app)
	payment.NewHandler(paymentService).RegisterProtectedRoutes(app)
	order.NewHandler(orderService).RegisterProtectedRoutes(app)
	notification.NewHandler(notificationService).RegisterProtectedRoutes(app)

	log.Printf("in-memory server listening on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

type repoDirectory struct {
	orders order.Repository
	users  user.Repository
}

func (d *repoDirectory) OrderRecipient(ctx context.Context, orderID int) (mailer.Recipient, error) {
	o, err := d.orders.GetByID(ctx, orderID)
	if err != nil {
		return mailer.Recipient{}, err
	}
	return d.CustomerRecipient(ctx, o.CustomerID)
}

func (d *repoDirectory) CustomerRecipient(_ context.Context, customerID int) (mailer.Recipient, error) {
	u, err := d.users.GetByID(customerID)
	if err != nil {
		return mailer.Recipient{}, err
	}
	return mailer.Recipient{Email: u.Email, Name: u.FullName()}, nil
}

func seedCategories() []category.Category {
	return []category.Category{
		{ID: 1, Title: "Coffee", Slug: "coffee"},
		{ID: 2, Title: "Tea", Slug: "tea"},
		{ID: 3, Title: "Accessories", Slug: "accessories"},
	}
}

func seedProducts() []product.Product {
	return []product.Product{
		{ID: 1, Title: "Colombia Supremo", Slug: "colombia-supremo", Description: "Medium roast, washed.", CategoryID: 1, Price: 14.50, Manufacturer: "Finca La Palma", Weight: 0.25, Available: true, Quantity: 40},
		{ID: 2, Title: "Ethiopia Yirgacheffe", Slug: "ethiopia-yirgacheffe", Description: "Light roast, floral.", CategoryID: 1, Price: 16.00, Manufacturer: "Kochere Coop", Weight: 0.25, Available: true, Quantity: 25},
		{ID: 3, Title: "Sencha", Slug: "sencha", Description: "First flush green tea.", CategoryID: 2, Price: 9.90, Manufacturer: "Shizuoka Gardens", Weight: 0.1, Available: true, Quantity: 60},
		{ID: 4, Title: "Ceramic Pour-Over Dripper", Slug: "ceramic-pour-over-dripper", Description: "Size 02, white.", CategoryID: 3, Price: 21.00, Manufacturer: "Kinto", Weight: 0.4, Available: true, Quantity: 12},
	}
}
