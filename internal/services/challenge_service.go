package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "savertounsi/internal/errors"
	"savertounsi/internal/models"
	"savertounsi/internal/pagination"
)

// challengeService handles the read-only challenge catalog.
type challengeService struct {
	db *gorm.DB
}

// NewChallengeService creates a new ChallengeServicer.
func NewChallengeService(db *gorm.DB) ChallengeServicer {
	return &challengeService{db: db}
}

// GetChallenges retrieves a paginated list of catalog templates.
func (s *challengeService) GetChallenges(page pagination.PageRequest) (*pagination.PageResponse[models.Challenge], error) {
	page.Defaults()

	base := s.db.Model(&models.Challenge{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var challenges []models.Challenge
	if err := base.Scopes(pagination.Paginate(page)).Order("id").Find(&challenges).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(challenges, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetChallengeByID retrieves a single catalog template.
func (s *challengeService) GetChallengeByID(challengeID uint) (*models.Challenge, error) {
	var challenge models.Challenge
	if err := s.db.First(&challenge, challengeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrChallengeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &challenge, nil
}

// SeedCatalog upserts catalog entries by title. Existing templates are
// updated in place so reseeding is idempotent.
func (s *challengeService) SeedCatalog(entries []CatalogEntry) (int, int, error) {
	var created, updated int

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			if entry.Title == "" || entry.Goal <= 0 || entry.Duration <= 0 {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "catalog entry requires title, positive goal, and positive duration")
			}

			var existing models.Challenge
			err := tx.Where("title = ?", entry.Title).First(&existing).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				challenge := &models.Challenge{
					Title:       entry.Title,
					Description: entry.Description,
					Type:        entry.Type,
					Goal:        entry.Goal,
					Duration:    entry.Duration,
					Reward:      entry.Reward,
				}
				if err := tx.Create(challenge).Error; err != nil {
					return apperrors.Wrap(apperrors.ErrInternalServer, err)
				}
				created++
			case err != nil:
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			default:
				if err := tx.Model(&existing).Updates(map[string]interface{}{
					"description": entry.Description,
					"type":        entry.Type,
					"goal":        entry.Goal,
					"duration":    entry.Duration,
					"reward":      entry.Reward,
				}).Error; err != nil {
					return apperrors.Wrap(apperrors.ErrInternalServer, err)
				}
				updated++
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	return created, updated, nil
}
