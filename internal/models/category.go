package models

// Category represents a budget envelope inside a category group.
// Budget and Spent are maintained by the transaction ledger: posting an
// income transaction raises Budget, posting an expense raises Spent.
type Category struct {
	Base
	GroupID uint    `gorm:"not null" json:"group_id"`
	Name    string  `gorm:"not null" json:"name"`
	Budget  float64 `gorm:"not null;default:0" json:"budget"`
	Spent   float64 `gorm:"not null;default:0" json:"spent"`

	// Relationships
	Group        CategoryGroup `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
}
