package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "savertounsi/internal/errors"
	"savertounsi/internal/models"
	"savertounsi/internal/pagination"
)

// bonPlanService handles local deals and their reviews.
type bonPlanService struct {
	db *gorm.DB
}

// NewBonPlanService creates a new BonPlanServicer.
func NewBonPlanService(db *gorm.DB) BonPlanServicer {
	return &bonPlanService{db: db}
}

// CreateBonPlan publishes a new deal owned by the user.
func (s *bonPlanService) CreateBonPlan(userID uint, title, description, location, category string, expiresAt *time.Time) (*models.BonPlan, error) {
	if title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title is required")
	}

	bonPlan := &models.BonPlan{
		UserID:      userID,
		Title:       title,
		Description: description,
		Location:    location,
		Category:    category,
		ExpiresAt:   expiresAt,
	}

	if err := s.db.Create(bonPlan).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return bonPlan, nil
}

// GetBonPlans retrieves a paginated list of all deals, newest first.
func (s *bonPlanService) GetBonPlans(page pagination.PageRequest) (*pagination.PageResponse[models.BonPlan], error) {
	page.Defaults()

	base := s.db.Model(&models.BonPlan{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var bonPlans []models.BonPlan
	if err := base.Scopes(pagination.Paginate(page)).Order("created_at DESC").Find(&bonPlans).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(bonPlans, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBonPlanByID retrieves a single deal with its reviews.
func (s *bonPlanService) GetBonPlanByID(bonPlanID uint) (*models.BonPlan, error) {
	var bonPlan models.BonPlan
	if err := s.db.Preload("Reviews").First(&bonPlan, bonPlanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBonPlanNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &bonPlan, nil
}

// DeleteBonPlan deletes a deal. Only the owner may delete; an ownership
// miss reports not-found.
func (s *bonPlanService) DeleteBonPlan(userID, bonPlanID uint) error {
	var bonPlan models.BonPlan
	if err := s.db.Where("id = ? AND user_id = ?", bonPlanID, userID).First(&bonPlan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrBonPlanNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bon_plan_id = ?", bonPlanID).Delete(&models.Review{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(&bonPlan).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// AddReview records a user's rating of a deal. A user may review a given
// deal at most once.
func (s *bonPlanService) AddReview(userID, bonPlanID uint, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "rating must be between 1 and 5")
	}

	if _, err := s.GetBonPlanByID(bonPlanID); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.Review{}).
		Where("user_id = ? AND bon_plan_id = ?", userID, bonPlanID).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateReview
	}

	review := &models.Review{
		UserID:    userID,
		BonPlanID: bonPlanID,
		Rating:    rating,
		Comment:   comment,
	}

	if err := s.db.Create(review).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return review, nil
}

// GetReviews retrieves a paginated list of a deal's reviews.
func (s *bonPlanService) GetReviews(bonPlanID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Review], error) {
	if _, err := s.GetBonPlanByID(bonPlanID); err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.Review{}).Where("bon_plan_id = ?", bonPlanID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var reviews []models.Review
	if err := base.Scopes(pagination.Paginate(page)).Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(reviews, page.Page, page.PageSize, totalItems)
	return &result, nil
}
