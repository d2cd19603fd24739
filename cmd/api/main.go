package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"dashfinance/internal/config"
	"dashfinance/internal/database"
	"dashfinance/internal/handlers"
	"dashfinance/internal/logger"
	"dashfinance/internal/mailer"
	"dashfinance/internal/middleware"
	"dashfinance/internal/services"
	"dashfinance/internal/validator"

	_ "dashfinance/internal/docs" // Import swagger docs
)

// @title           Dash Finance API
// @version         1.0
// @description     Personal finance tracker: authentication, categories, transactions, and dashboard statistics.

// @host      localhost:3333
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	tokenIssuer := middleware.NewTokenIssuer(cfg)
	loginCodeSender := mailer.New(cfg.SMTP)
	userService := services.NewUserService(db)
	loginTokenService := services.NewLoginTokenService(db, loginCodeSender, cfg.LoginTokenLength, cfg.LoginTokenTTL)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db)
	dashboardService := services.NewDashboardService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, loginTokenService, tokenIssuer, cfg)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(cfg.AllowedOrigin))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public auth routes
	auth := router.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/login-token/request", authHandler.RequestLoginToken)
	auth.POST("/login-token/verify", authHandler.VerifyLoginToken)

	// Protected auth routes
	authProtected := auth.Group("")
	authProtected.Use(tokenIssuer.Middleware())
	authProtected.GET("/me", authHandler.Me)
	authProtected.PATCH("/profile", authHandler.UpdateProfile)
	authProtected.PATCH("/password", authHandler.UpdatePassword)

	// Category routes
	categories := router.Group("/categories")
	categories.Use(tokenIssuer.Middleware())
	categories.GET("", categoryHandler.GetUserCategories)
	categories.POST("", categoryHandler.CreateCategory)
	categories.PATCH("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Transaction routes
	transactions := router.Group("/transactions")
	transactions.Use(tokenIssuer.Middleware())
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.PATCH("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Dashboard routes
	dashboard := router.Group("/dashboard")
	dashboard.Use(tokenIssuer.Middleware())
	dashboard.GET("/summary", dashboardHandler.GetSummary)

	log.Infof("Starting Dash Finance backend server on port %s", cfg.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
	return router.Run(":" + cfg.Port)
}
