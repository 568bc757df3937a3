package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "savertounsi/internal/errors"
	"savertounsi/internal/models"
	"savertounsi/internal/pagination"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// userGroupIDs returns a subquery selecting the IDs of the user's groups.
// Category ownership is derived through the owning group.
func userGroupIDs(db *gorm.DB, userID uint) *gorm.DB {
	return db.Model(&models.CategoryGroup{}).Select("id").Where("user_id = ?", userID)
}

// CreateCategory creates a new category inside one of the user's groups.
func (s *categoryService) CreateCategory(userID, groupID uint, name string, budget float64) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	// Verify the group exists and belongs to the user
	var group models.CategoryGroup
	if err := s.db.Where("id = ? AND user_id = ?", groupID, userID).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	category := &models.Category{
		GroupID: groupID,
		Name:    name,
		Budget:  budget,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// GetUserCategories retrieves a paginated list of categories across all
// of the user's groups.
func (s *categoryService) GetUserCategories(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	page.Defaults()

	base := s.db.Model(&models.Category{}).Where("group_id IN (?)", userGroupIDs(s.db, userID))

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := base.Preload("Group").Scopes(pagination.Paginate(page)).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCategoryByID retrieves a category by ID for a specific user
func (s *categoryService) GetCategoryByID(userID, categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND group_id IN (?)", categoryID, userGroupIDs(s.db, userID)).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory updates a category's name and budget
func (s *categoryService) UpdateCategory(userID, categoryID uint, name string, budget *float64) (*models.Category, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if budget != nil {
		updates["budget"] = *budget
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return category, nil
}

// DeleteCategory deletes a category and its transactions.
func (s *categoryService) DeleteCategory(userID, categoryID uint) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", categoryID).Delete(&models.Transaction{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// ApplyTransaction adjusts the category's running totals for a posted
// transaction: income raises the budget, expense raises spent. Runs on
// the caller's transaction so the ledger posting stays atomic.
func (s *categoryService) ApplyTransaction(tx *gorm.DB, category *models.Category, transactionType models.TransactionType, amount float64) error {
	var column string
	switch transactionType {
	case models.TransactionTypeIncome:
		column = "budget"
	case models.TransactionTypeExpense:
		column = "spent"
	default:
		return apperrors.ErrInvalidTransactionType
	}

	if err := tx.Model(category).
		Update(column, gorm.Expr(column+" + ?", amount)).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
