package models

// Feedback is a message a user sends to the application team
type Feedback struct {
	Base
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	Subject string `gorm:"not null" json:"subject"`
	Message string `gorm:"not null" json:"message"`
}
