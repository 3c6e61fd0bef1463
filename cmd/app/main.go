package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/avolkov/online-shop-backend/internal/cart"
	"github.com/avolkov/online-shop-backend/internal/category"
	"github.com/avolkov/online-shop-backend/internal/checkout"
	"github.com/avolkov/online-shop-backend/internal/config"
	"github.com/avolkov/online-shop-backend/internal/db"
	"github.com/avolkov/online-shop-backend/internal/mailer"
	"github.com/avolkov/online-shop-backend/internal/notification"
	"github.com/avolkov/online-shop-backend/internal/order"
	"github.com/avolkov/online-shop-backend/internal/payment"
	"github.com/avolkov/online-shop-backend/internal/product"
	"github.com/avolkov/online-shop-backend/internal/session"
	"github.com/avolkov/online-shop-backend/internal/user"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer conn.Close()

	if err := db.Bootstrap(conn); err != nil {
		log.Fatalf("bootstrap schema: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	categoryRepo := category.NewPostgresRepository(conn)
	productRepo := product.NewPostgresRepository(conn)
	orderRepo := order.NewPostgresRepository(conn)
	notificationRepo := notification.NewPostgresRepository(conn)
	userRepo := user.NewPostgresRepository(conn)

	mailQueue, err := buildMailPipeline(ctx, cfg, orderRepo, userRepo)
	if err != nil {
		log.Fatalf("mail pipeline: %v", err)
	}

	productService := product.NewService(productRepo)
	categoryService := category.NewService(categoryRepo)
	cartService := cart.NewService(productService)
	orderService := order.NewService(orderRepo)
	notificationService := notification.NewService(notificationRepo)
	userService := user.NewService(userRepo, mailQueue)
	checkoutService := checkout.NewService(orderService, cartService, mailQueue)
	paymentService := payment.NewService(orderService, &payment.FakeGateway{})

	// every order status change leaves a note in the customer's inbox
	orderService.OnStatusChange(notificationService.OrderStatusHook)

	// a first run against an empty database gets a starter catalog
	if len(categoryService.List()) == 0 {
		if err := seedCatalog(categoryService, productService); err != nil {
			log.Printf("seed catalog: %v", err)
		}
	}

	app := fiber.New()
	setupCORS(app)
	app.Use(session.Middleware(session.NewPostgresStore(conn)))

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

	go func() {
		<-ctx.Done()
		log.Println("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("listening on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func seedCatalog(categories *category.Service, products *product.Service) error {
	seed := []struct {
		title    string
		products []product.Product
	}{
		{"Coffee", []product.Product{
			{Title: "Colombia Supremo", Slug: "colombia-supremo", Description: "Medium roast, washed.", Price: 14.50, Manufacturer: "Finca La Palma", Weight: 0.25, Available: true, Quantity: 40},
			{Title: "Ethiopia Yirgacheffe", Slug: "ethiopia-yirgacheffe", Description: "Light roast, floral.", Price: 16.00, Manufacturer: "Kochere Coop", Weight: 0.25, Available: true, Quantity: 25},
		}},
		{"Tea", []product.Product{
			{Title: "Sencha", Slug: "sencha", Description: "First flush green tea.", Price: 9.90, Manufacturer: "Shizuoka Gardens", Weight: 0.1, Available: true, Quantity: 60},
		}},
		{"Accessories", []product.Product{
			{Title: "Ceramic Pour-Over Dripper", Slug: "ceramic-pour-over-dripper", Description: "Size 02, white.", Price: 21.00, Manufacturer: "Kinto", Weight: 0.4, Available: true, Quantity: 12},
		}},
	}

	for _, s := range seed {
		cat, err := categories.Create(s.title)
		if err != nil {
			return fmt.Errorf("seed category %q: %w", s.title, err)
		}
		for _, p := range s.products {
			p.CategoryID = cat.ID
			if _, err := products.Create(p); err != nil {
				return fmt.Errorf("seed product %q: %w", p.Title, err)
			}
		}
	}
	return nil
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

// buildMailPipeline assembles the delivery side of the mail queue. With an
// AMQP broker configured, tasks go through a durable queue consumed by a
// worker on this process; otherwise an in-process channel queue is used.
// Without an SMTP address, composed mail is only logged.
func buildMailPipeline(ctx context.Context, cfg config.Config, orders order.Repository, users user.Repository) (mailer.Queue, error) {
	var m mailer.Mailer = mailer.LogMailer{}
	if cfg.SMTPAddr != "" {
		m = mailer.NewSMTPMailer(cfg.SMTPAddr)
	}

	logger := log.New(os.Stdout, "[mail-worker] ", log.LstdFlags)
	worker := mailer.NewWorker(m, &repoDirectory{orders: orders, users: users}, cfg.MailFrom, logger)

	if cfg.AMQPURL != "" {
		amqpConn, err := amqp.Dial(cfg.AMQPURL)
		if err != nil {
			return nil, fmt.Errorf("dial amqp: %w", err)
		}
		queue, err := mailer.NewAMQPQueue(amqpConn)
		if err != nil {
			return nil, fmt.Errorf("declare mail queue: %w", err)
		}
		if err := mailer.StartAMQPWorker(ctx, amqpConn, worker, logger); err != nil {
			return nil, fmt.Errorf("start mail consumer: %w", err)
		}
		return queue, nil
	}

	queue := mailer.NewInProcessQueue(worker, 64, logger)
	queue.Start(ctx)
	return queue, nil
}

// repoDirectory resolves mail recipients straight from the repositories.
// The worker only needs lookups, so wiring it below the services avoids a
// construction cycle with the user service, which itself enqueues mail.
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

func (d *repoDirectory) CustomerRecipient(ctx context.Context, customerID int) (mailer.Recipient, error) {
	u, err := d.users.GetByID(customerID)
	if err != nil {
		return mailer.Recipient{}, err
	}
	return mailer.Recipient{Email: u.Email, Name: u.FullName()}, nil
}
