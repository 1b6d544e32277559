package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"

	"orgst/config"
	"orgst/middleware"
	"orgst/routes"
	"orgst/utils"
)

func main() {
	logger := log.New(os.Stdout, "ORGST: ", log.Ldate|log.Ltime|log.Lshortfile)

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database connection
	if err := config.ConnectDB(); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Error reporting is optional; skipped when SENTRY_DSN is unset
	if err := utils.InitSentry(); err != nil {
		logger.Printf("Sentry init failed: %v", err)
	}

	// Create Fiber app
	app := fiber.New()

	// Add CORS middleware
	app.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(app, config.DB)

	// Start server
	logger.Printf("🚀 Server starting on port %s", config.AppConfig.ServerPort)
	if err := app.Listen(":" + config.AppConfig.ServerPort); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
