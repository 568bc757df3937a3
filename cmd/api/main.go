package main

import (
	"fmt"
	"net/http"
	"os"

	"savertounsi/internal/config"
	"savertounsi/internal/database"
	"savertounsi/internal/events"
	"savertounsi/internal/handlers"
	"savertounsi/internal/logger"
	"savertounsi/internal/middleware"
	"savertounsi/internal/services"
	"savertounsi/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "savertounsi/internal/docs" // Import swagger docs
)

// @title           SaverTounsi API
// @version         1.0
// @description     SaverTounsi helps users in Tunisia budget their money, take on savings challenges, and share local money-saving deals.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

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
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Event publisher; falls back to a no-op when no broker is configured
	var publisher events.Publisher
	if appConfig.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(appConfig.AMQPURL, appConfig.AMQPExchange, appConfig.AMQPQueue)
		if err != nil {
			return fmt.Errorf("failed to connect to event broker: %w", err)
		}
		publisher = amqpPublisher
		log.Infof("Event publisher connected to %s", appConfig.AMQPExchange)
	} else {
		publisher = events.NopPublisher{}
		log.Info("No AMQP URL configured, event publishing disabled")
	}
	defer publisher.Close()

	// Initialize services
	db := dbManager.DB()
	auditService := services.NewAuditService(db)
	userService := services.NewUserService(db)
	groupService := services.NewGroupService(db)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db, categoryService)
	challengeService := services.NewChallengeService(db)
	enrollmentService := services.NewEnrollmentService(db, groupService, publisher)
	reportService := services.NewReportService(db)
	bonPlanService := services.NewBonPlanService(db)
	feedbackService := services.NewFeedbackService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	groupHandler := handlers.NewGroupHandler(groupService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	challengeHandler := handlers.NewChallengeHandler(challengeService)
	userChallengeHandler := handlers.NewUserChallengeHandler(enrollmentService, auditService)
	reportHandler := handlers.NewReportHandler(reportService)
	bonPlanHandler := handlers.NewBonPlanHandler(bonPlanService, auditService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Public challenge catalog
	challenges := v1.Group("/challenges")
	challenges.GET("", challengeHandler.GetChallenges)
	challenges.GET("/:id", challengeHandler.GetChallengeByID)

	// Public deal browsing
	v1.GET("/bon-plans", bonPlanHandler.GetBonPlans)
	v1.GET("/bon-plans/:id", bonPlanHandler.GetBonPlanByID)
	v1.GET("/bon-plans/:id/reviews", bonPlanHandler.GetReviews)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)
	protected.POST("/profile/onboarding", authHandler.CompleteOnboarding)

	// Category group routes
	groups := protected.Group("/category-groups")
	groups.POST("", groupHandler.CreateGroup)
	groups.GET("", groupHandler.GetUserGroups)
	groups.DELETE("/:id", groupHandler.DeleteGroup)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetUserCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.PostTransaction)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)

	// Challenge enrollment routes
	userChallenges := protected.Group("/user-challenges")
	userChallenges.POST("", userChallengeHandler.JoinChallenge)
	userChallenges.GET("", userChallengeHandler.GetUserChallenges)
	userChallenges.GET("/:id", userChallengeHandler.GetUserChallengeByID)
	userChallenges.PATCH("/:id", userChallengeHandler.RecomputeProgress)
	userChallenges.POST("/:id/progress", userChallengeHandler.RecordProgress)
	userChallenges.GET("/:id/progress", userChallengeHandler.GetProgressLog)

	// Report routes
	reports := protected.Group("/reports")
	reports.GET("/summary", reportHandler.GetMonthlySummary)
	reports.GET("/challenges", reportHandler.GetChallengeReport)

	// Deal routes (mutations require auth)
	protected.POST("/bon-plans", bonPlanHandler.CreateBonPlan)
	protected.DELETE("/bon-plans/:id", bonPlanHandler.DeleteBonPlan)
	protected.POST("/bon-plans/:id/reviews", bonPlanHandler.AddReview)

	// Feedback routes
	feedback := protected.Group("/feedback")
	feedback.POST("", feedbackHandler.CreateFeedback)
	feedback.GET("", feedbackHandler.GetUserFeedback)

	log.Infof("Starting SaverTounsi backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
