package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"mediform-service/internal/ai"
	"mediform-service/internal/config"
	"mediform-service/internal/handlers"
	"mediform-service/internal/middleware"
	"mediform-service/internal/models"
	"mediform-service/internal/repository"
	"mediform-service/internal/services"
)

// @title MediForm API
// @version 1.0.0
// @description Hospital form builder and submission workflow service

// @contact.name API Support
// @contact.url http://www.example.com/support
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8105
// @BasePath /api/v1

// @securityDefinitions.bearer BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)
	logger.SetLevel(logrus.InfoLevel)

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}

	// Run database migrations
	logger.Info("Running database migrations...")
	if err := db.AutoMigrate(
		&models.FormTemplate{},
		&models.FormField{},
		&models.FormSubmission{},
		&models.AuditLogEntry{},
	); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Database migrations completed")

	// Initialize repository
	formRepo := repository.NewFormRepository(db)

	// Initialize AI draft generator
	if cfg.AIAPIKey == "" {
		logger.Info("AI_API_KEY not configured, draft generation runs in demo mode")
	}
	generator := ai.NewGenerator(ai.Config{
		APIKey:  cfg.AIAPIKey,
		BaseURL: cfg.AIBaseURL,
		Model:   cfg.AIModel,
	}, nil, logger)

	// Initialize services
	templateService := services.NewTemplateService(formRepo, generator, logger)
	submissionService := services.NewSubmissionService(formRepo, logger)
	exportService := services.NewExportService(submissionService)

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler([]byte(cfg.JWTSecret))
	templateHandler := handlers.NewTemplateHandler(templateService)
	submissionHandler := handlers.NewSubmissionHandler(submissionService, exportService)
	dashboardHandler := handlers.NewDashboardHandler(templateService, submissionService)

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Add CORS middleware for the browser client
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	// Health check endpoints (no auth required)
	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", handlers.ReadinessCheck)

	// API routes; every request resolves a session user, falling back to the
	// default demo staff user
	api := router.Group("/api/v1")
	api.Use(middleware.Session([]byte(cfg.JWTSecret)))

	// Session endpoints
	{
		api.GET("/session", sessionHandler.GetSession)
		api.POST("/session/switch", sessionHandler.SwitchRole)
	}

	// Template endpoints
	{
		api.POST("/templates", templateHandler.CreateTemplate)
		api.GET("/templates", templateHandler.ListTemplates)
		api.POST("/templates/generate", templateHandler.GenerateFields)
		api.GET("/templates/:id", templateHandler.GetTemplate)
		api.PUT("/templates/:id", templateHandler.UpdateTemplate)
	}

	// Submission endpoints
	{
		api.POST("/submissions", submissionHandler.CreateSubmission)
		api.GET("/submissions", submissionHandler.ListSubmissions)
		api.GET("/submissions/export", submissionHandler.ExportSubmissions)
		api.GET("/submissions/:id", submissionHandler.GetSubmission)
		api.PUT("/submissions/:id", submissionHandler.UpdateSubmission)
		api.POST("/submissions/:id/approve", submissionHandler.ApproveSubmission)
		api.POST("/submissions/:id/reject", submissionHandler.RejectSubmission)
		api.GET("/submissions/:id/history", submissionHandler.GetHistory)
	}

	// Dashboard endpoints
	{
		api.GET("/dashboard/stats", dashboardHandler.GetStats)
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8105"
	}

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Infof("MediForm service starting on port %s", port)
		if err := router.Run(":" + port); err != nil {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	<-quit
	logger.Info("Shutting down server...")
	logger.Info("Server shutdown complete")
}
