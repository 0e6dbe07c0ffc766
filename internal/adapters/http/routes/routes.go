package routes

import (
	"peo-doctrack/internal/adapters/http/handlers"
	"peo-doctrack/internal/adapters/http/middleware"
	"peo-doctrack/internal/adapters/persistence/repositories"
	"peo-doctrack/internal/config"
	"peo-doctrack/internal/core/domain"
	"peo-doctrack/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, blobStore services.BlobStore) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	documentRepo := repositories.NewDocumentRepository(db)
	divisionRepo := repositories.NewDivisionRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, sessionRepo, cfg)
	userService := services.NewUserService(userRepo, divisionRepo)
	documentService := services.NewDocumentService(documentRepo, divisionRepo, blobStore)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	documentHandler := handlers.NewDocumentHandler(documentService)
	divisionHandler := handlers.NewDivisionHandler(divisionRepo)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, authService)

	// Document routes (authenticated)
	documentRoutes := apiV1.Group("/documents")
	documentRoutes.Use(middleware.AuthMiddleware(authService))
	setupDocumentRoutes(documentRoutes, documentHandler)

	// Division master routes (authenticated; writes are admin only)
	divisionRoutes := apiV1.Group("/divisions")
	divisionRoutes.Use(middleware.AuthMiddleware(authService))
	setupDivisionRoutes(divisionRoutes, divisionHandler)

	// User management routes (admin only, hard revocation enforced)
	userRoutes := apiV1.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(authService))
	setupUserRoutes(userRoutes, userHandler, authService)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, authService *services.AuthService) {
	// Public routes (stricter rate limit against brute force)
	router.Post("/login", middleware.AuthRateLimiter(), middleware.NoCacheHeaders(), handler.Login)

	// Protected routes
	router.Post("/logout", middleware.AuthMiddleware(authService), handler.Logout)
	router.Post("/logout-all", middleware.AuthMiddleware(authService), handler.LogoutAll)
	router.Get("/me", middleware.AuthMiddleware(authService), handler.Me)
}

// setupDocumentRoutes configures document routes
func setupDocumentRoutes(router fiber.Router, handler *handlers.DocumentHandler) {
	router.Post("/", handler.Create)
	router.Get("/", handler.List)
	router.Get("/:id", handler.GetByID)
	router.Patch("/:id", handler.Update)
	router.Delete("/:id", handler.Delete)
	router.Patch("/:id/status", handler.Transition)
	router.Post("/:id/attachment", handler.Attach)
}

// setupDivisionRoutes configures division master data routes
func setupDivisionRoutes(router fiber.Router, handler *handlers.DivisionHandler) {
	router.Get("/", middleware.MasterDataCache(), handler.ListDivisions)
	router.Get("/:id", middleware.MasterDataCache(), handler.GetDivision)

	// Writes require master data permission
	router.Post("/", middleware.RequirePermission(domain.PermManageMaster), handler.CreateDivision)
	router.Put("/:id", middleware.RequirePermission(domain.PermManageMaster), handler.UpdateDivision)
	router.Delete("/:id", middleware.RequirePermission(domain.PermManageMaster), handler.DeleteDivision)
}

// setupUserRoutes configures user management routes. These are the
// sensitive surface: besides the permission gate, the backing session
// row must still be alive (hard revocation).
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler, authService *services.AuthService) {
	// Self-service password change needs only a valid token
	router.Post("/change-password", handler.ChangePassword)

	adminRoutes := router.Group("")
	adminRoutes.Use(middleware.RequirePermission(domain.PermManageUsers))
	adminRoutes.Use(middleware.RequireSession(authService))

	adminRoutes.Get("/", handler.ListUsers)
	adminRoutes.Post("/", handler.CreateUser)
	adminRoutes.Get("/:id", handler.GetUser)
	adminRoutes.Put("/:id", handler.UpdateUser)
	adminRoutes.Delete("/:id", handler.DeleteUser)
	adminRoutes.Patch("/:id/role", handler.SetRole)
}
