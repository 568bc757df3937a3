package services

import (
	"testing"
	"time"

	"savertounsi/internal/models"
	"savertounsi/internal/pagination"
	"savertounsi/internal/testutil"
)

func TestPostTransaction(t *testing.T) {
	t.Run("expense_raises_spent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		categorySvc := NewCategoryService(db)
		svc := NewTransactionService(db, categorySvc)
		user := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, user.ID)
		category := testutil.CreateTestCategory(t, db, group.ID, 200)

		transaction, err := svc.PostTransaction(user.ID, category.ID, models.TransactionTypeExpense, 50, "lunch", time.Time{})
		testutil.AssertNoError(t, err)

		if transaction.ID == 0 {
			t.Fatal("expected non-zero transaction ID")
		}
		if transaction.Date.IsZero() {
			t.Error("expected a default date to be assigned")
		}
		if transaction.Category.Spent != 50 {
			t.Errorf("expected attached category spent 50, got %f", transaction.Category.Spent)
		}

		var fresh models.Category
		db.First(&fresh, category.ID)
		if fresh.Spent != 50 {
			t.Errorf("expected spent 50, got %f", fresh.Spent)
		}
		if fresh.Budget != 200 {
			t.Errorf("expected budget unchanged at 200, got %f", fresh.Budget)
		}
	})

	t.Run("income_raises_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		categorySvc := NewCategoryService(db)
		svc := NewTransactionService(db, categorySvc)
		user := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, user.ID)
		category := testutil.CreateTestCategory(t, db, group.ID, 200)

		_, err := svc.PostTransaction(user.ID, category.ID, models.TransactionTypeIncome, 75, "", time.Time{})
		testutil.AssertNoError(t, err)

		var fresh models.Category
		db.First(&fresh, category.ID)
		if fresh.Budget != 275 {
			t.Errorf("expected budget 275, got %f", fresh.Budget)
		}
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		categorySvc := NewCategoryService(db)
		svc := NewTransactionService(db, categorySvc)
		user := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, user.ID)
		category := testutil.CreateTestCategory(t, db, group.ID, 100)

		_, err := svc.PostTransaction(user.ID, category.ID, models.TransactionTypeExpense, 0, "", time.Time{})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.PostTransaction(user.ID, category.ID, models.TransactionTypeExpense, -5, "", time.Time{})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("category_owned_by_other_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		categorySvc := NewCategoryService(db)
		svc := NewTransactionService(db, categorySvc)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)
		category := testutil.CreateTestCategory(t, db, group.ID, 100)

		_, err := svc.PostTransaction(other.ID, category.ID, models.TransactionTypeExpense, 10, "", time.Time{})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")

		// No ledger row and no category-side effect
		var txCount int64
		db.Model(&models.Transaction{}).Where("category_id = ?", category.ID).Count(&txCount)
		if txCount != 0 {
			t.Errorf("expected no transactions, got %d", txCount)
		}
	})

	t.Run("invalid_type_rolls_back", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		categorySvc := NewCategoryService(db)
		svc := NewTransactionService(db, categorySvc)
		user := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, user.ID)
		category := testutil.CreateTestCategory(t, db, group.ID, 100)

		_, err := svc.PostTransaction(user.ID, category.ID, "TRANSFER", 10, "", time.Time{})
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_TYPE")

		// The ledger insert must have been rolled back with the failed update
		var txCount int64
		db.Model(&models.Transaction{}).Where("category_id = ?", category.ID).Count(&txCount)
		if txCount != 0 {
			t.Errorf("expected rollback to remove the transaction row, got %d", txCount)
		}
	})
}

func TestGetUserTransactions(t *testing.T) {
	t.Run("filters_and_ordering", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		categorySvc := NewCategoryService(db)
		svc := NewTransactionService(db, categorySvc)
		user := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, user.ID)
		catA := testutil.CreateTestCategory(t, db, group.ID, 100)
		catB := testutil.CreateTestCategory(t, db, group.ID, 100)

		old := time.Now().AddDate(0, -2, 0)
		_, err := svc.PostTransaction(user.ID, catA.ID, models.TransactionTypeExpense, 10, "old", old)
		testutil.AssertNoError(t, err)
		_, err = svc.PostTransaction(user.ID, catA.ID, models.TransactionTypeExpense, 20, "recent", time.Now())
		testutil.AssertNoError(t, err)
		_, err = svc.PostTransaction(user.ID, catB.ID, models.TransactionTypeIncome, 30, "income", time.Now())
		testutil.AssertNoError(t, err)

		page := pagination.PageRequest{Page: 1, PageSize: 20}

		all, err := svc.GetUserTransactions(user.ID, page, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if all.TotalItems != 3 {
			t.Fatalf("expected 3 transactions, got %d", all.TotalItems)
		}
		if all.Data[0].Description == "old" {
			t.Error("expected newest-first ordering")
		}

		expenseType := models.TransactionTypeExpense
		expenses, err := svc.GetUserTransactions(user.ID, page, TransactionFilter{Type: &expenseType})
		testutil.AssertNoError(t, err)
		if expenses.TotalItems != 2 {
			t.Errorf("expected 2 expenses, got %d", expenses.TotalItems)
		}

		from := time.Now().AddDate(0, -1, 0)
		recent, err := svc.GetUserTransactions(user.ID, page, TransactionFilter{FromDate: &from})
		testutil.AssertNoError(t, err)
		if recent.TotalItems != 2 {
			t.Errorf("expected 2 recent transactions, got %d", recent.TotalItems)
		}

		byCategory, err := svc.GetUserTransactions(user.ID, page, TransactionFilter{CategoryID: &catB.ID})
		testutil.AssertNoError(t, err)
		if byCategory.TotalItems != 1 {
			t.Errorf("expected 1 transaction in category B, got %d", byCategory.TotalItems)
		}
	})

	t.Run("excludes_other_users", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		categorySvc := NewCategoryService(db)
		svc := NewTransactionService(db, categorySvc)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		group2 := testutil.CreateTestGroup(t, db, user2.ID)
		cat2 := testutil.CreateTestCategory(t, db, group2.ID, 100)
		testutil.CreateTestTransaction(t, db, user2.ID, cat2.ID, models.TransactionTypeExpense, 10)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetUserTransactions(user1.ID, page, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 0 {
			t.Errorf("expected no transactions for user1, got %d", result.TotalItems)
		}
	})
}

func TestGetTransactionByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	categorySvc := NewCategoryService(db)
	svc := NewTransactionService(db, categorySvc)
	owner := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	group := testutil.CreateTestGroup(t, db, owner.ID)
	category := testutil.CreateTestCategory(t, db, group.ID, 100)
	tx := testutil.CreateTestTransaction(t, db, owner.ID, category.ID, models.TransactionTypeExpense, 25)

	found, err := svc.GetTransactionByID(owner.ID, tx.ID)
	testutil.AssertNoError(t, err)
	if found.Category.ID != category.ID {
		t.Error("expected category to be preloaded")
	}

	_, err = svc.GetTransactionByID(other.ID, tx.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
}
