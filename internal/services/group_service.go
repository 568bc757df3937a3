package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "savertounsi/internal/errors"
	"savertounsi/internal/models"
	"savertounsi/internal/pagination"
)

// groupService handles category-group business logic.
type groupService struct {
	db *gorm.DB
}

// NewGroupService creates a new GroupServicer.
func NewGroupService(db *gorm.DB) GroupServicer {
	return &groupService{db: db}
}

// CreateGroup creates a new category group for a user. The reserved
// "Challenges" name is only ever created by the enrollment flow.
func (s *groupService) CreateGroup(userID uint, name string) (*models.CategoryGroup, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "group name is required")
	}
	if name == models.ReservedGroupName {
		return nil, apperrors.ErrReservedGroup
	}

	var count int64
	if err := s.db.Model(&models.CategoryGroup{}).
		Where("user_id = ? AND name = ?", userID, name).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateGroupName
	}

	group := &models.CategoryGroup{
		UserID: userID,
		Name:   name,
	}

	if err := s.db.Create(group).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return group, nil
}

// GetUserGroups retrieves a paginated list of the user's category groups
// with their categories.
func (s *groupService) GetUserGroups(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.CategoryGroup], error) {
	page.Defaults()

	base := s.db.Model(&models.CategoryGroup{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var groups []models.CategoryGroup
	if err := base.Preload("Categories").Scopes(pagination.Paginate(page)).Find(&groups).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(groups, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetGroupByID retrieves a group by ID for a specific user
func (s *groupService) GetGroupByID(userID, groupID uint) (*models.CategoryGroup, error) {
	var group models.CategoryGroup
	if err := s.db.Where("id = ? AND user_id = ?", groupID, userID).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &group, nil
}

// DeleteGroup deletes a group and its categories. The reserved system
// group cannot be deleted.
func (s *groupService) DeleteGroup(userID, groupID uint) error {
	group, err := s.GetGroupByID(userID, groupID)
	if err != nil {
		return err
	}

	if group.IsSystemGroup {
		return apperrors.ErrReservedGroup
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", groupID).Delete(&models.Category{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(group).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// EnsureReservedGroup returns the user's reserved "Challenges" system
// group, creating it if absent. Runs on the caller's transaction so the
// get-or-create is atomic with the rest of the enrollment flow; the
// unique (user_id, name) index backstops concurrent enrollments.
func (s *groupService) EnsureReservedGroup(tx *gorm.DB, userID uint) (*models.CategoryGroup, error) {
	group := &models.CategoryGroup{}
	err := tx.Where("user_id = ? AND name = ? AND is_system_group = ?", userID, models.ReservedGroupName, true).
		Attrs(&models.CategoryGroup{UserID: userID, Name: models.ReservedGroupName, IsSystemGroup: true}).
		FirstOrCreate(group).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return group, nil
}
