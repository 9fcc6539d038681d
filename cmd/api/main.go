package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vyapaar-backend/internal/agent"
	"vyapaar-backend/internal/cache"
	"vyapaar-backend/internal/config"
	"vyapaar-backend/internal/handler"
	"vyapaar-backend/internal/middleware"
	"vyapaar-backend/internal/model"
	"vyapaar-backend/internal/monitoring"
	"vyapaar-backend/internal/repository"
	"vyapaar-backend/internal/service"
	"vyapaar-backend/internal/ws"
	"vyapaar-backend/pkg/database"
	"vyapaar-backend/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

func main() {
	// 1. Config + Logging
	cfg := config.Load()
	logger.Setup(cfg.Log.Level, cfg.Log.Format)
	log := logger.WithComponent("main")

	// 2. Database
	db := database.ConnectDB(cfg.Database.URL)
	if err := db.AutoMigrate(
		&model.User{},
		&model.Customer{},
		&model.Product{},
		&model.Transaction{},
		&model.TransactionItem{},
		&model.InvoiceCounter{},
		&model.Message{},
	); err != nil {
		log.Fatal().Err(err).Msg("auto-migration failed")
	}

	// 3. Repositories
	userRepo := repository.NewUserRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	messageRepo := repository.NewMessageRepo(db)

	seedAdmin(userRepo, log)

	// 4. WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Product cache: redis when configured, noop otherwise
	var productCache cache.ProductCache = cache.NoopProductCache{}
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, product cache disabled")
		} else {
			productCache = redisCache
		}
	}

	// 6. Agent pipeline wiring
	interpreter := agent.NewInterpreterClient(
		cfg.Interpreter.BaseURL,
		time.Duration(cfg.Interpreter.TimeoutSeconds)*time.Second,
	)
	resolver := agent.NewCatalogResolver(productRepo, productCache)
	ledger := service.NewLedgerService(db, customerRepo, productRepo, txRepo, wsHub)
	orchestrator := agent.NewOrchestrator(interpreter, resolver, ledger)

	// 7. Services and handlers
	customerService := service.NewCustomerService(customerRepo)
	messageService := service.NewMessageService(messageRepo, userRepo, customerService, orchestrator, wsHub)
	invService := service.NewInventoryService(db, productRepo, txRepo, productCache, wsHub)
	dashService := service.NewDashboardService(txRepo)
	authService := service.NewAuthService(userRepo)

	authHandler := handler.NewAuthHandler(authService)
	messageHandler := handler.NewMessageHandler(messageService)
	customerHandler := handler.NewCustomerHandler(customerService)
	invHandler := handler.NewInventoryHandler(invService)
	dashHandler := handler.NewDashboardHandler(dashService)

	// 8. Fiber
	app := fiber.New(fiber.Config{
		AppName: "Vyapaar Backend v1.0",
	})

	app.Use(fiberlogger.New()) // Request logging
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())        // CORS

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Messages (the agent pipeline is triggered from here)
	protected.Get("/messages/users", messageHandler.GetSidebarUsers)
	protected.Get("/messages/:id", messageHandler.GetConversation)
	protected.Post("/messages/send/:id", messageHandler.SendMessage)

	// Customers
	protected.Get("/customers", customerHandler.GetCustomers)
	protected.Get("/customers/phone/:phone", customerHandler.GetCustomerByPhone)
	protected.Get("/customers/:id", customerHandler.GetCustomer)
	protected.Post("/customers", customerHandler.CreateCustomer)
	protected.Put("/customers/:id", customerHandler.UpdateCustomer)

	// Products
	protected.Get("/products", invHandler.GetProducts)
	protected.Get("/products/:id", invHandler.GetProduct)
	protected.Post("/products", invHandler.CreateProduct)
	protected.Put("/products/:id", invHandler.UpdateProduct)

	// Transactions (read-only: postings are immutable)
	protected.Get("/transactions", invHandler.GetTransactions)
	protected.Get("/transactions/:id", invHandler.GetTransaction)

	// Dashboard
	protected.Get("/dashboard/stats", dashHandler.GetLedgerStats)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 9. Metrics sidecar
	go func() {
		if err := monitoring.Serve(cfg.Metrics.Port); err != nil {
			log.Error().Err(err).Msg("metrics server stopped")
		}
	}()

	// 10. Graceful Shutdown
	go func() {
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
			log.Panic().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

// seedAdmin creates the default seller account if it doesn't exist
func seedAdmin(userRepo repository.UserRepository, log zerolog.Logger) {
	_, err := userRepo.FindByEmail("admin@example.com")
	if err == nil {
		return
	}

	admin := &model.User{
		Email:    "admin@example.com",
		FullName: "Administrator",
		IsActive: true,
	}
	if err := admin.SetPassword("admin123"); err != nil {
		log.Warn().Err(err).Msg("failed to hash admin password")
		return
	}
	if err := userRepo.Create(admin); err != nil {
		log.Warn().Err(err).Msg("failed to create admin user")
		return
	}
	log.Info().Str("email", admin.Email).Msg("admin user created")
}
