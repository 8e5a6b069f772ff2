package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"chatorder/internal/config"
	"chatorder/internal/handlers"
	"chatorder/internal/repositories"
	"chatorder/internal/services"
	"chatorder/pkg/paystack"
	"chatorder/pkg/rabbitmq"
)

// dependencies are the collaborators newApp wires into handlers.
type dependencies struct {
	cfg       *config.Config
	db        *gorm.DB
	sessions  repositories.SessionStore
	menu      repositories.MenuRepository
	gateway   services.Gateway
	publisher services.EventPublisher
}

func main() {
	// --- Configuration ---
	cfg, err := config.Load(config.New())
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.PaystackSecretKey == "" {
		log.Println("Warning: PAYSTACK_SECRET_KEY is not set, checkouts will fail")
	}

	// --- Database ---
	db, err := repositories.OpenDatabase(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// --- RabbitMQ (optional) ---
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, order events disabled: %v", err)
		} else {
			defer mqClient.Close()
			publisher = mqClient
			if err := mqClient.ConsumeOrderPaid(services.HandleOrderPaid); err != nil {
				log.Printf("Failed to start kitchen consumer: %v", err)
			}
		}
	}

	// --- Sessions and catalog ---
	sessions := repositories.NewMemorySessionStore(cfg.SessionTTL)
	defer sessions.Close()

	menu := cfg.Menu
	if len(menu) == 0 {
		menu = repositories.DefaultMenu()
	}
	menuRepo, err := repositories.NewStaticMenuRepository(menu)
	if err != nil {
		log.Fatalf("Invalid menu: %v", err)
	}

	gateway := services.NewPaystackGateway(paystack.NewClient(paystack.Config{
		BaseURL:   cfg.PaystackBaseURL,
		SecretKey: cfg.PaystackSecretKey,
		Currency:  cfg.PaystackCurrency,
		Timeout:   cfg.PaystackTimeout,
	}))

	app, err := newApp(dependencies{
		cfg:       cfg,
		db:        db,
		sessions:  sessions,
		menu:      menuRepo,
		gateway:   gateway,
		publisher: publisher,
	})
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// newApp builds the services and registers every route.
func newApp(deps dependencies) (*fiber.App, error) {
	menuService := services.NewMenuService(deps.menu)
	chatService := services.NewChatService(deps.sessions, menuService, deps.gateway, deps.cfg.GuestEmailDomain)
	paymentService := services.NewPaymentService(deps.sessions, repositories.NewGORMReceiptRepository(deps.db), deps.gateway, deps.publisher)
	authService := services.NewAuthService(repositories.NewGORMStaffRepository(deps.db), deps.cfg.JWTSecret)

	if deps.cfg.StaffUsername != "" {
		if err := authService.EnsureStaff(deps.cfg.StaffUsername, deps.cfg.StaffPassword); err != nil {
			return nil, err
		}
	}

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	chatHandler := handlers.NewChatHandler(chatService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	chatHandler.RegisterWebSocket(app)
	paymentHandler.RegisterCallbackRoute(app)

	apiV1 := app.Group("/api/v1")
	chatHandler.RegisterRoutes(apiV1)
	paymentHandler.RegisterRoutes(apiV1)
	handlers.NewMenuHandler(menuService).RegisterRoutes(apiV1)
	handlers.NewStaffHandler(authService, paymentService).RegisterRoutes(apiV1)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"rabbitmq": deps.publisher != nil,
		})
	})

	return app, nil
}

// Compile-time checks that the concrete collaborators satisfy their ports.
var (
	_ services.EventPublisher        = (*rabbitmq.Client)(nil)
	_ services.Gateway               = (*services.PaystackGateway)(nil)
	_ repositories.SessionStore      = (*repositories.MemorySessionStore)(nil)
	_ repositories.ReceiptRepository = (*repositories.GORMReceiptRepository)(nil)
	_ repositories.ReceiptRepository = (*repositories.MockReceiptRepository)(nil)
	_ repositories.MenuRepository    = (*repositories.StaticMenuRepository)(nil)
	_ repositories.StaffRepository   = (*repositories.GORMStaffRepository)(nil)
)
