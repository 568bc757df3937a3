package services

import (
	"time"

	"gorm.io/gorm"

	"savertounsi/internal/models"
	"savertounsi/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
	CompleteOnboarding(userID uint) (*models.User, error)
}

// GroupServicer defines the contract for category-group business logic.
type GroupServicer interface {
	CreateGroup(userID uint, name string) (*models.CategoryGroup, error)
	GetUserGroups(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.CategoryGroup], error)
	GetGroupByID(userID, groupID uint) (*models.CategoryGroup, error)
	DeleteGroup(userID, groupID uint) error
	EnsureReservedGroup(tx *gorm.DB, userID uint) (*models.CategoryGroup, error)
}

// CategoryServicer defines the contract for category business logic.
type CategoryServicer interface {
	CreateCategory(userID, groupID uint, name string, budget float64) (*models.Category, error)
	GetUserCategories(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID uint) (*models.Category, error)
	UpdateCategory(userID, categoryID uint, name string, budget *float64) (*models.Category, error)
	DeleteCategory(userID, categoryID uint) error
	ApplyTransaction(tx *gorm.DB, category *models.Category, transactionType models.TransactionType, amount float64) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *uint
}

// TransactionServicer defines the contract for the transaction ledger.
type TransactionServicer interface {
	PostTransaction(userID, categoryID uint, transactionType models.TransactionType, amount float64, description string, date time.Time) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
}

// CatalogEntry is a challenge template definition from the seed file.
type CatalogEntry struct {
	Title       string               `toml:"title"`
	Description string               `toml:"description"`
	Type        models.ChallengeType `toml:"type"`
	Goal        float64              `toml:"goal"`
	Duration    int                  `toml:"duration"`
	Reward      string               `toml:"reward"`
}

// ChallengeServicer defines the contract for the challenge catalog.
type ChallengeServicer interface {
	GetChallenges(page pagination.PageRequest) (*pagination.PageResponse[models.Challenge], error)
	GetChallengeByID(challengeID uint) (*models.Challenge, error)
	SeedCatalog(entries []CatalogEntry) (created, updated int, err error)
}

// EnrollmentServicer defines the contract for challenge enrollment and
// progress tracking.
type EnrollmentServicer interface {
	JoinChallenge(userID, challengeID uint) (*models.UserChallenge, error)
	GetUserChallenges(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.UserChallenge], error)
	GetUserChallengeByID(userID, userChallengeID uint) (*models.UserChallenge, error)
	RecordProgress(userID, userChallengeID uint, amount float64, date time.Time) (*models.ChallengeProgress, error)
	GetProgressLog(userID, userChallengeID uint, page pagination.PageRequest) (*pagination.PageResponse[models.ChallengeProgress], error)
	RecomputeProgress(userID, userChallengeID uint) (*models.UserChallenge, error)
}

// CategoryReport is the per-category slice of a monthly summary.
type CategoryReport struct {
	CategoryID uint    `json:"category_id"`
	Name       string  `json:"name"`
	GroupName  string  `json:"group_name"`
	Budget     float64 `json:"budget"`
	Spent      float64 `json:"spent"`
	Saved      float64 `json:"saved"`
}

// GroupReport is the per-group rollup of a monthly summary.
type GroupReport struct {
	Name   string  `json:"name"`
	Budget float64 `json:"budget"`
	Spent  float64 `json:"spent"`
	Saved  float64 `json:"saved"`
}

// MonthlySummary aggregates a user's budget state and the selected
// month's transaction totals.
type MonthlySummary struct {
	Year          int              `json:"year"`
	Month         int              `json:"month"`
	TotalBudget   float64          `json:"total_budget"`
	TotalSpent    float64          `json:"total_spent"`
	TotalSaved    float64          `json:"total_saved"`
	MonthIncome   float64          `json:"month_income"`
	MonthExpenses float64          `json:"month_expenses"`
	Categories    []CategoryReport `json:"categories"`
	Groups        []GroupReport    `json:"groups"`
}

// ChallengeReportEntry describes one enrollment for the challenge report:
// the synthetic goal curve for chart scaffolding plus the real progress log.
type ChallengeReportEntry struct {
	UserChallengeID uint                       `json:"user_challenge_id"`
	Title           string                     `json:"title"`
	Goal            float64                    `json:"goal"`
	Progress        float64                    `json:"progress"`
	Completed       bool                       `json:"completed"`
	Curve           []float64                  `json:"curve"`
	Log             []models.ChallengeProgress `json:"log"`
}

// ReportServicer defines the contract for read-only reporting projections.
type ReportServicer interface {
	MonthlySummary(userID uint, year int, month time.Month) (*MonthlySummary, error)
	ChallengeReport(userID uint) ([]ChallengeReportEntry, error)
}

// BonPlanServicer defines the contract for local deals and their reviews.
type BonPlanServicer interface {
	CreateBonPlan(userID uint, title, description, location, category string, expiresAt *time.Time) (*models.BonPlan, error)
	GetBonPlans(page pagination.PageRequest) (*pagination.PageResponse[models.BonPlan], error)
	GetBonPlanByID(bonPlanID uint) (*models.BonPlan, error)
	DeleteBonPlan(userID, bonPlanID uint) error
	AddReview(userID, bonPlanID uint, rating int, comment string) (*models.Review, error)
	GetReviews(bonPlanID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Review], error)
}

// FeedbackServicer defines the contract for user feedback.
type FeedbackServicer interface {
	CreateFeedback(userID uint, subject, message string) (*models.Feedback, error)
	GetUserFeedback(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Feedback], error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
