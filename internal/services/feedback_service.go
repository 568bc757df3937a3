package services

import (
	"gorm.io/gorm"

	apperrors "savertounsi/internal/errors"
	"savertounsi/internal/models"
	"savertounsi/internal/pagination"
)

// feedbackService handles user feedback.
type feedbackService struct {
	db *gorm.DB
}

// NewFeedbackService creates a new FeedbackServicer.
func NewFeedbackService(db *gorm.DB) FeedbackServicer {
	return &feedbackService{db: db}
}

// CreateFeedback records a feedback message from a user.
func (s *feedbackService) CreateFeedback(userID uint, subject, message string) (*models.Feedback, error) {
	if message == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "message is required")
	}

	feedback := &models.Feedback{
		UserID:  userID,
		Subject: subject,
		Message: message,
	}

	if err := s.db.Create(feedback).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return feedback, nil
}

// GetUserFeedback retrieves the caller's own feedback messages.
func (s *feedbackService) GetUserFeedback(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Feedback], error) {
	page.Defaults()

	base := s.db.Model(&models.Feedback{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var feedback []models.Feedback
	if err := base.Scopes(pagination.Paginate(page)).Order("created_at DESC").Find(&feedback).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(feedback, page.Page, page.PageSize, totalItems)
	return &result, nil
}
