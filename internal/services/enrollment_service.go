package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "savertounsi/internal/errors"
	"savertounsi/internal/events"
	"savertounsi/internal/logger"
	"savertounsi/internal/models"
	"savertounsi/internal/pagination"
)

// enrollmentService handles challenge enrollment and progress tracking.
type enrollmentService struct {
	db           *gorm.DB
	groupService GroupServicer
	publisher    events.Publisher
}

// NewEnrollmentService creates a new EnrollmentServicer.
func NewEnrollmentService(db *gorm.DB, groupService GroupServicer, publisher events.Publisher) EnrollmentServicer {
	return &enrollmentService{
		db:           db,
		groupService: groupService,
		publisher:    publisher,
	}
}

// JoinChallenge enrolls a user in a challenge template. The duplicate
// check, reserved-group resolution, tracking-category creation, and join
// record all run in a single database transaction: a failure midway
// leaves no orphaned group or category.
func (s *enrollmentService) JoinChallenge(userID, challengeID uint) (*models.UserChallenge, error) {
	var userChallenge *models.UserChallenge

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// A user may enroll in a given template at most once
		var count int64
		if err := tx.Model(&models.UserChallenge{}).
			Where("user_id = ? AND challenge_id = ?", userID, challengeID).
			Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.ErrAlreadyJoined
		}

		var challenge models.Challenge
		if err := tx.First(&challenge, challengeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrChallengeNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		group, err := s.groupService.EnsureReservedGroup(tx, userID)
		if err != nil {
			return err
		}

		// Tracking category named after the challenge; the budget mirrors
		// the goal so the spent/budget ratio is meaningful immediately.
		category := &models.Category{
			GroupID: group.ID,
			Name:    challenge.Title,
			Budget:  challenge.Goal,
		}
		if err := tx.Create(category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		userChallenge = &models.UserChallenge{
			UserID:      userID,
			ChallengeID: challenge.ID,
			CategoryID:  category.ID,
			Progress:    0,
			StartDate:   time.Now(),
		}
		if err := tx.Create(userChallenge).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		userChallenge.Challenge = challenge
		userChallenge.Category = *category
		return nil
	})
	if err != nil {
		return nil, err
	}

	return userChallenge, nil
}

// GetUserChallenges retrieves a paginated list of the caller's enrollments.
func (s *enrollmentService) GetUserChallenges(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.UserChallenge], error) {
	page.Defaults()

	base := s.db.Model(&models.UserChallenge{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var userChallenges []models.UserChallenge
	if err := base.Preload("Challenge").Preload("Category").
		Scopes(pagination.Paginate(page)).
		Order("start_date DESC").
		Find(&userChallenges).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(userChallenges, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetUserChallengeByID retrieves an enrollment by ID. Ownership misses
// report not-found rather than forbidden so existence is not leaked.
func (s *enrollmentService) GetUserChallengeByID(userID, userChallengeID uint) (*models.UserChallenge, error) {
	var userChallenge models.UserChallenge
	if err := s.db.Preload("Challenge").Preload("Category").
		Where("id = ? AND user_id = ?", userChallengeID, userID).
		First(&userChallenge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserChallengeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &userChallenge, nil
}

// RecordProgress appends an increment to the progress log and adds it to
// the enrollment's cumulative total in one database transaction.
// Completion is derived here, never taken from the caller.
func (s *enrollmentService) RecordProgress(userID, userChallengeID uint, amount float64, date time.Time) (*models.ChallengeProgress, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if date.IsZero() {
		date = time.Now()
	}

	userChallenge, err := s.GetUserChallengeByID(userID, userChallengeID)
	if err != nil {
		return nil, err
	}
	if userChallenge.Completed {
		return nil, apperrors.ErrChallengeCompleted
	}

	entry := &models.ChallengeProgress{
		UserChallengeID: userChallenge.ID,
		Amount:          amount,
		Date:            date,
	}

	var justCompleted bool
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		total := userChallenge.Progress + amount
		justCompleted = s.applyProgress(userChallenge, total)
		if err := tx.Model(&models.UserChallenge{}).Where("id = ?", userChallenge.ID).
			Updates(s.progressUpdates(userChallenge)).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if justCompleted {
		s.publishCompletion(userChallenge)
	}

	return entry, nil
}

// GetProgressLog retrieves the append-only progress log for an enrollment.
func (s *enrollmentService) GetProgressLog(userID, userChallengeID uint, page pagination.PageRequest) (*pagination.PageResponse[models.ChallengeProgress], error) {
	if _, err := s.GetUserChallengeByID(userID, userChallengeID); err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.ChallengeProgress{}).Where("user_challenge_id = ?", userChallengeID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.ChallengeProgress
	if err := base.Scopes(pagination.Paginate(page)).Order("date DESC").Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// RecomputeProgress re-derives the enrollment's cumulative total from
// the progress log, repairing any drift in the denormalized field, and
// re-derives completion from the recomputed total.
func (s *enrollmentService) RecomputeProgress(userID, userChallengeID uint) (*models.UserChallenge, error) {
	userChallenge, err := s.GetUserChallengeByID(userID, userChallengeID)
	if err != nil {
		return nil, err
	}

	var justCompleted bool
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var total float64
		if err := tx.Model(&models.ChallengeProgress{}).
			Select("COALESCE(SUM(amount), 0)").
			Where("user_challenge_id = ?", userChallenge.ID).
			Scan(&total).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		justCompleted = s.applyProgress(userChallenge, total)
		if err := tx.Model(&models.UserChallenge{}).Where("id = ?", userChallenge.ID).
			Updates(s.progressUpdates(userChallenge)).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if justCompleted {
		s.publishCompletion(userChallenge)
	}

	return userChallenge, nil
}

// applyProgress sets the new total on the in-memory record and derives
// completion from the challenge goal. Returns true when the enrollment
// transitioned to completed.
func (s *enrollmentService) applyProgress(userChallenge *models.UserChallenge, total float64) bool {
	wasCompleted := userChallenge.Completed

	userChallenge.Progress = total
	userChallenge.Completed = total >= userChallenge.Challenge.Goal
	if userChallenge.Completed && userChallenge.CompletedAt == nil {
		now := time.Now()
		userChallenge.CompletedAt = &now
	}
	if !userChallenge.Completed {
		userChallenge.CompletedAt = nil
	}

	return !wasCompleted && userChallenge.Completed
}

// progressUpdates builds the column map for persisting a progress change.
func (s *enrollmentService) progressUpdates(userChallenge *models.UserChallenge) map[string]interface{} {
	return map[string]interface{}{
		"progress":     userChallenge.Progress,
		"completed":    userChallenge.Completed,
		"completed_at": userChallenge.CompletedAt,
	}
}

// publishCompletion emits a challenge-completed event. Publishing is
// best-effort: a broker failure never fails the request.
func (s *enrollmentService) publishCompletion(userChallenge *models.UserChallenge) {
	msg := events.NewChallengeCompletedMessage(userChallenge.ID, userChallenge.ChallengeID, userChallenge.UserID)
	if err := s.publisher.ChallengeCompleted(context.Background(), msg); err != nil {
		logger.Get().Errorw("failed to publish challenge completed event",
			"error", err,
			"user_challenge_id", userChallenge.ID,
		)
	}
}
