package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"peo-doctrack/internal/adapters/http/middleware"
	"peo-doctrack/internal/adapters/http/routes"
	"peo-doctrack/internal/adapters/persistence/models"
	"peo-doctrack/internal/adapters/persistence/repositories"
	"peo-doctrack/internal/adapters/storage"
	"peo-doctrack/internal/config"
	"peo-doctrack/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// @title PEO DocTrack API
// @version 1.0
// @description Provincial Engineering Office document tracking API
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@peo.gov.ph

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host doctrack.peo.gov.ph
// @BasePath /api/v1
// @schemes https

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

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed division master data
	if err := config.SeedMasterData(db); err != nil {
		log.Printf("⚠️ Warning: Failed to seed master data: %v", err)
	}

	// Seed the super administrator account
	if err := config.NewSeeder(db).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed super admin: %v", err)
	}

	// Blob store for document attachments
	blobStore, err := storage.NewMinioStore(cfg.Blob)
	if err != nil {
		log.Fatalf("❌ Failed to initialize blob store: %v", err)
	}

	bucketCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := blobStore.EnsureBucket(bucketCtx); err != nil {
		log.Printf("⚠️ Warning: Failed to ensure blob bucket: %v", err)
	}
	cancel()

	// Start cron service for the session expiry sweep
	sessionRepo := repositories.NewSessionRepository(db)
	cronService := services.NewCronService(sessionRepo, cfg.Session.SweepSchedule)
	cronService.Start()
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "PEO DocTrack API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg, blobStore)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
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
