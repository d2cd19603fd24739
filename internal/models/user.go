package models

// User represents the user model in the database. AvatarURL holds either a
// base64 data URI or an external image reference and is nullable.
type User struct {
	Base
	Name         string        `gorm:"not null" json:"name"`
	Email        string        `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string        `gorm:"not null" json:"-"`
	AvatarURL    *string       `json:"avatar_url"`
	Categories   []Category    `gorm:"foreignKey:UserID" json:"categories,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
	LoginTokens  []LoginToken  `gorm:"foreignKey:UserID" json:"-"`
}
