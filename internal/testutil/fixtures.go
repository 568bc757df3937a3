package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"savertounsi/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestGroup creates a category group with a unique name.
func CreateTestGroup(t *testing.T, db *gorm.DB, userID uint) *models.CategoryGroup {
	t.Helper()

	group := &models.CategoryGroup{
		UserID: userID,
		Name:   fmt.Sprintf("Test Group %d", nextID()),
	}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("failed to create test group: %v", err)
	}
	return group
}

// CreateTestCategory creates a category with the given budget.
func CreateTestCategory(t *testing.T, db *gorm.DB, groupID uint, budget float64) *models.Category {
	t.Helper()

	category := &models.Category{
		GroupID: groupID,
		Name:    fmt.Sprintf("Test Category %d", nextID()),
		Budget:  budget,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestChallenge creates a savings challenge with the given goal.
func CreateTestChallenge(t *testing.T, db *gorm.DB, goal float64) *models.Challenge {
	t.Helper()

	challenge := &models.Challenge{
		Title:    fmt.Sprintf("Test Challenge %d", nextID()),
		Type:     models.ChallengeTypeSavings,
		Goal:     goal,
		Duration: 30,
	}
	if err := db.Create(challenge).Error; err != nil {
		t.Fatalf("failed to create test challenge: %v", err)
	}
	return challenge
}

// CreateTestTransaction creates a transaction of the given type and amount.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, categoryID uint, txType models.TransactionType, amount float64) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:     userID,
		CategoryID: categoryID,
		Type:       txType,
		Amount:     amount,
		Date:       time.Now(),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBonPlan creates a deal owned by the given user.
func CreateTestBonPlan(t *testing.T, db *gorm.DB, userID uint) *models.BonPlan {
	t.Helper()

	bonPlan := &models.BonPlan{
		UserID:   userID,
		Title:    fmt.Sprintf("Test Bon Plan %d", nextID()),
		Location: "Tunis",
		Category: "food",
	}
	if err := db.Create(bonPlan).Error; err != nil {
		t.Fatalf("failed to create test bon plan: %v", err)
	}
	return bonPlan
}
