package routes

import (
	"limpay/internal/adapters/http/handlers"
	"limpay/internal/adapters/http/middleware"
	"limpay/internal/adapters/persistence/repositories"
	"limpay/internal/config"
	"limpay/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Setup configures all routes for the application.
// storage backs the auth rate limiter; nil keeps counters in memory.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, gateway services.PaymentGateway, storage fiber.Storage) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	feeRepo := repositories.NewFeeRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Initialize services
	feeService := services.NewFeeService(feeRepo, uow, cfg.Fees.DefaultFeeIDs)
	authService := services.NewAuthService(userRepo, uow, feeService, cfg)
	userService := services.NewUserService(userRepo)
	paymentService := services.NewPaymentService(gateway, transactionRepo, uow, cfg)
	studentService := services.NewStudentService(userRepo, transactionRepo, uow, feeService)
	dashboardService := services.NewDashboardService(db, transactionRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, cfg)
	authHandler := handlers.NewAuthHandler(authService, userService)
	feeHandler := handlers.NewFeeHandler(feeService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	adminHandler := handlers.NewAdminHandler(studentService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")
	requireAuth := middleware.AuthMiddleware(authService)

	// Auth routes
	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", middleware.AuthRateLimiter(cfg.RateLimit.AuthMax, storage), authHandler.Register)
	authRoutes.Post("/login", middleware.AuthRateLimiter(cfg.RateLimit.AuthMax, storage), authHandler.Login)
	authRoutes.Get("/me", requireAuth, authHandler.Me)
	authRoutes.Put("/me", requireAuth, authHandler.UpdateMe)

	// Fee routes (Authenticated users)
	feeRoutes := api.Group("/fees", requireAuth, middleware.NoCacheHeaders())
	feeRoutes.Get("/", feeHandler.Catalog)
	feeRoutes.Get("/outstanding", feeHandler.Outstanding)

	// Payment routes (Authenticated users)
	paymentRoutes := api.Group("/payments", requireAuth, middleware.NoCacheHeaders())
	paymentRoutes.Post("/create-payment-intent", paymentHandler.CreateIntent)
	paymentRoutes.Post("/record", paymentHandler.Record)
	paymentRoutes.Get("/transactions", paymentHandler.Transactions)

	// Admin routes (Admin only)
	adminRoutes := api.Group("/admin", requireAuth, middleware.AdminOnly(authService), middleware.NoCacheHeaders())
	adminRoutes.Get("/dashboard", dashboardHandler.GetAdminDashboard)
	adminRoutes.Get("/students", adminHandler.ListStudents)
	adminRoutes.Post("/students", adminHandler.CreateStudent)
	adminRoutes.Get("/students/:id", adminHandler.GetStudent)
	adminRoutes.Put("/students/:id", adminHandler.UpdateStudent)
	adminRoutes.Delete("/students/:id", adminHandler.DeleteStudent)
	adminRoutes.Get("/transactions", adminHandler.ListTransactions)
}
