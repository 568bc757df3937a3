package models

// ReservedGroupName is the name of the per-user system group that holds
// challenge tracking categories. At most one such group exists per user.
const ReservedGroupName = "Challenges"

// CategoryGroup is a named bucket of budget categories owned by a user
type CategoryGroup struct {
	Base
	UserID        uint   `gorm:"not null;uniqueIndex:idx_group_owner_name" json:"user_id"`
	Name          string `gorm:"not null;uniqueIndex:idx_group_owner_name" json:"name"`
	IsSystemGroup bool   `gorm:"default:false" json:"is_system_group"`

	// Relationships
	Categories []Category `gorm:"foreignKey:GroupID" json:"categories,omitempty"`
}
