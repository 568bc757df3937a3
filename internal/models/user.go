package models

import "time"

// User represents the user model in the database
type User struct {
	Base
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	Password            string     `gorm:"not null" json:"-"`
	Name                string     `json:"name"`
	Onboarded           bool       `gorm:"default:false" json:"onboarded"`
	IsActive            bool       `gorm:"default:true" json:"is_active"`
	RefreshTokenHash    string     `gorm:"size:64" json:"-"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`

	CategoryGroups []CategoryGroup `gorm:"foreignKey:UserID" json:"category_groups,omitempty"`
	Transactions   []Transaction   `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
	UserChallenges []UserChallenge `gorm:"foreignKey:UserID" json:"user_challenges,omitempty"`
	Reviews        []Review        `gorm:"foreignKey:UserID" json:"reviews,omitempty"`
	Feedback       []Feedback      `gorm:"foreignKey:UserID" json:"feedback,omitempty"`
}
