package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"savertounsi/internal/events"
	"savertounsi/internal/handlers"
	"savertounsi/internal/logger"
	"savertounsi/internal/middleware"
	"savertounsi/internal/models"
	"savertounsi/internal/services"
	"savertounsi/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.CategoryGroup{},
		&models.Category{},
		&models.Transaction{},
		&models.Challenge{},
		&models.UserChallenge{},
		&models.ChallengeProgress{},
		&models.BonPlan{},
		&models.Review{},
		&models.Feedback{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	auditService := services.NewAuditService(db)
	userService := services.NewUserService(db)
	groupService := services.NewGroupService(db)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db, categoryService)
	challengeService := services.NewChallengeService(db)
	enrollmentService := services.NewEnrollmentService(db, groupService, events.NopPublisher{})
	reportService := services.NewReportService(db)
	bonPlanService := services.NewBonPlanService(db)
	feedbackService := services.NewFeedbackService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	groupHandler := handlers.NewGroupHandler(groupService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	challengeHandler := handlers.NewChallengeHandler(challengeService)
	userChallengeHandler := handlers.NewUserChallengeHandler(enrollmentService, auditService)
	reportHandler := handlers.NewReportHandler(reportService)
	bonPlanHandler := handlers.NewBonPlanHandler(bonPlanService, auditService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Public catalog and deal browsing
	challenges := v1.Group("/challenges")
	challenges.GET("", challengeHandler.GetChallenges)
	challenges.GET("/:id", challengeHandler.GetChallengeByID)
	v1.GET("/bon-plans", bonPlanHandler.GetBonPlans)
	v1.GET("/bon-plans/:id", bonPlanHandler.GetBonPlanByID)
	v1.GET("/bon-plans/:id/reviews", bonPlanHandler.GetReviews)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.POST("/profile/onboarding", authHandler.CompleteOnboarding)

	groups := protected.Group("/category-groups")
	groups.POST("", groupHandler.CreateGroup)
	groups.GET("", groupHandler.GetUserGroups)
	groups.DELETE("/:id", groupHandler.DeleteGroup)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetUserCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.PostTransaction)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)

	userChallenges := protected.Group("/user-challenges")
	userChallenges.POST("", userChallengeHandler.JoinChallenge)
	userChallenges.GET("", userChallengeHandler.GetUserChallenges)
	userChallenges.GET("/:id", userChallengeHandler.GetUserChallengeByID)
	userChallenges.PATCH("/:id", userChallengeHandler.RecomputeProgress)
	userChallenges.POST("/:id/progress", userChallengeHandler.RecordProgress)
	userChallenges.GET("/:id/progress", userChallengeHandler.GetProgressLog)

	reports := protected.Group("/reports")
	reports.GET("/summary", reportHandler.GetMonthlySummary)
	reports.GET("/challenges", reportHandler.GetChallengeReport)

	protected.POST("/bon-plans", bonPlanHandler.CreateBonPlan)
	protected.DELETE("/bon-plans/:id", bonPlanHandler.DeleteBonPlan)
	protected.POST("/bon-plans/:id/reviews", bonPlanHandler.AddReview)

	feedback := protected.Group("/feedback")
	feedback.POST("", feedbackHandler.CreateFeedback)
	feedback.GET("", feedbackHandler.GetUserFeedback)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken string, userID float64) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"name":"Test User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(float64)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// seedChallenge inserts a challenge template directly into the database.
func (app *testApp) seedChallenge(t *testing.T, title string, goal float64) *models.Challenge {
	t.Helper()
	challenge := &models.Challenge{
		Title:    title,
		Type:     models.ChallengeTypeSavings,
		Goal:     goal,
		Duration: 30,
	}
	if err := app.DB.Create(challenge).Error; err != nil {
		t.Fatalf("failed to seed challenge: %v", err)
	}
	return challenge
}
