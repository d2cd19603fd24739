package models

// Category represents a transaction category. Every user owns exactly one
// system category, created at registration; it can never be deleted and is
// the reassignment target when another category is removed.
type Category struct {
	Base
	UserID   string `gorm:"type:uuid;not null;index" json:"user_id"`
	Name     string `gorm:"not null" json:"name"`
	IsSystem bool   `gorm:"not null;default:false" json:"is_system"`

	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
}

// SystemCategoryName is the name given to the default category created for
// every user at registration.
const SystemCategoryName = "Other"
