package main

import (
	"log"
	"os"
	"path/filepath"

	"smartshala_go/config"
	"smartshala_go/database"
	"smartshala_go/middleware"
	"smartshala_go/routes"
	"smartshala_go/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

func init() {
	// Load configuration
	config.LoadConfig()

	// Initialize logging
	setupLogging()

	// Connect to database and Redis
	database.Connect()
}

func main() {
	// Wire the activity-log pipeline: controllers record through the
	// middleware hook, entries buffer in Redis and flush on a schedule.
	activityLogger := services.NewActivityLogger(database.Docs(), database.GetRedisClient())
	middleware.SetActivityRecorder(activityLogger)
	activityLogger.StartFlushScheduler()
	defer activityLogger.Stop()

	// Create Fiber app. BodyLimit leaves headroom above MAX_FILE_SIZE for
	// the base64 inflation of inline file payloads.
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    int(config.AppConfig.MaxFileSize) * 2,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(middleware.LoggerMiddleware())

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "SmartShala API",
			"version": "1.0.0",
		})
	})

	// API routes
	routes.SetupRoutes(app)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":  "Route not found",
			"path":   c.Path(),
			"method": c.Method(),
		})
	})

	log.Printf("Server starting on port %s", config.AppConfig.Port)
	log.Printf("Environment: %s", config.AppConfig.AppEnv)

	if err := app.Listen(":" + config.AppConfig.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// setupLogging configures the logging system
func setupLogging() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(config.AppConfig.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if config.AppConfig.AppEnv == "development" {
		logrus.SetOutput(os.Stdout)
		return
	}

	// In production, log to file
	logFile := config.AppConfig.LogFile
	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		log.Printf("Warning: Could not create logs directory: %v", err)
		return
	}
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err == nil {
		logrus.SetOutput(file)
	}
}

// customErrorHandler handles application errors
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	logrus.WithFields(logrus.Fields{
		"error":  err.Error(),
		"path":   c.Path(),
		"method": c.Method(),
		"ip":     c.IP(),
		"status": code,
	}).Error("Request error")

	return c.Status(code).JSON(fiber.Map{
		"error":  message,
		"code":   code,
		"path":   c.Path(),
		"method": c.Method(),
	})
}
