package models

import (
	"time"

	"dashfinance/internal/uuid"

	"gorm.io/gorm"
)

// LoginToken is an ephemeral passwordless-login credential. Only the SHA-256
// hash of the numeric code is stored. Rows are hard-deleted: issuing a new
// token removes all of the user's unused tokens first, so at most one unused
// token exists per user. A token is consumed exactly once by setting UsedAt.
type LoginToken struct {
	ID        string     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string     `gorm:"type:uuid;not null;index" json:"user_id"`
	TokenHash string     `gorm:"size:64;not null" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt    *time.Time `json:"used_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (t *LoginToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New()
	}
	return nil
}
