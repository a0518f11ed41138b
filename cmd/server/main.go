package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"limpay/internal/adapters/cache"
	"limpay/internal/adapters/http/middleware"
	"limpay/internal/adapters/http/routes"
	"limpay/internal/adapters/payment"
	"limpay/internal/adapters/persistence/models"
	"limpay/internal/adapters/persistence/repositories"
	"limpay/internal/config"
	"limpay/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "limpay/docs" // Swagger docs
)

// @title LimPay API
// @version 1.0
// @description University fee payment portal API

// @contact.name API Support
// @contact.email support@limpay.edu

// @BasePath /api
// @schemes https http

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed fee catalog and admin account
	if err := config.NewSeeder(db, cfg).Run(); err != nil {
		log.Fatalf("❌ Failed to seed database: %v", err)
	}

	// Shared rate limiter storage
	var storage fiber.Storage
	if cfg.RateLimit.RedisURL != "" {
		redisStorage, err := cache.NewRedisStorage(cfg.RateLimit.RedisURL, "limpay:limiter:")
		if err != nil {
			log.Fatalf("❌ Failed to connect to Redis: %v", err)
		}
		defer redisStorage.Close()
		storage = redisStorage
		log.Println("✅ Rate limiter using Redis storage")
	}

	if cfg.Payment.StripeSecretKey == "" {
		log.Println("⚠️ Warning: STRIPE_SECRET_KEY is not set, payment calls will fail")
	}
	gateway := payment.NewStripeGateway(cfg.Payment.StripeSecretKey, cfg.Payment.Timeout)

	// Nightly ledger audit
	audit := services.NewAuditService(repositories.NewFeeRepository(db), cfg.Audit.Schedule)
	if err := audit.Start(); err != nil {
		log.Fatalf("❌ Failed to start ledger audit: %v", err)
	}
	defer audit.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "LimPay API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg, storage)

	// Setup routes
	routes.Setup(app, db, cfg, gateway, storage)

	// Front-end files
	if cfg.Server.StaticDir != "" {
		app.Static("/", cfg.Server.StaticDir)
		log.Printf("📁 Serving static files from %s", cfg.Server.StaticDir)
	}

	// Graceful shutdown
	go gracefulShutdown(app)

	addr := ":" + cfg.Server.Port
	if fileExists(cfg.Server.TLSCert) && fileExists(cfg.Server.TLSKey) {
		log.Printf("🔒 HTTPS server starting on port %s [MODE: %s]", cfg.Server.Port, cfg.AppMode)
		err = app.ListenTLS(addr, cfg.Server.TLSCert, cfg.Server.TLSKey)
	} else {
		log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Server.Port, cfg.AppMode)
		err = app.Listen(addr)
	}
	if err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
