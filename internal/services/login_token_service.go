package services

import (
	"crypto/rand"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "dashfinance/internal/errors"
	"dashfinance/internal/logger"
	"dashfinance/internal/mailer"
	"dashfinance/internal/middleware"
	"dashfinance/internal/models"
)

// loginTokenService implements the passwordless login flow: short-lived
// numeric codes, stored only as hashes, consumed exactly once.
type loginTokenService struct {
	db         *gorm.DB
	sender     mailer.Sender
	codeLength int
	ttl        time.Duration
}

// NewLoginTokenService creates a new LoginTokenServicer.
func NewLoginTokenService(db *gorm.DB, sender mailer.Sender, codeLength int, ttl time.Duration) LoginTokenServicer {
	return &loginTokenService{
		db:         db,
		sender:     sender,
		codeLength: codeLength,
		ttl:        ttl,
	}
}

// Request issues a fresh login token. Deleting the user's unused tokens and
// inserting the new row happen in one transaction, so at most one unused
// token exists per user at a time and stale codes cannot accumulate.
func (s *loginTokenService) Request(email string) (*LoginTokenIssue, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	code, err := generateNumericCode(s.codeLength)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	token := &models.LoginToken{
		UserID:    user.ID,
		TokenHash: middleware.HashLoginCode(code),
		ExpiresAt: time.Now().Add(s.ttl),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Unconditionally drop unused tokens, expired or not; a superseded
		// code simply reads as invalid on later use.
		if err := tx.Where("user_id = ? AND used_at IS NULL", user.ID).
			Delete(&models.LoginToken{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Create(token).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := s.sender.SendLoginCode(user.Email, code, s.ttl)
	if !result.Delivered {
		// Delivery is best-effort. The raw code stays server-side; operators
		// can read it from the log when no mail transport is configured.
		logger.Get().Infow("login code issued without email delivery",
			"email", user.Email,
			"code", code,
		)
	}

	return &LoginTokenIssue{RawCode: code, Delivered: result.Delivered}, nil
}

// Verify consumes a login token. Lookup and consumption run in one
// transaction with a conditional update on used_at, so two concurrent
// verifications of the same code cannot both succeed.
func (s *loginTokenService) Verify(email, code string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidLoginToken
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	hash := middleware.HashLoginCode(strings.TrimSpace(code))
	now := time.Now()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var record models.LoginToken
		// Normally exactly one row matches; if duplicates exist the most
		// recently created wins.
		if err := tx.Where("user_id = ? AND token_hash = ? AND used_at IS NULL AND expires_at > ?",
			user.ID, hash, now).
			Order("created_at DESC").
			First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrInvalidLoginToken
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		result := tx.Model(&models.LoginToken{}).
			Where("id = ? AND used_at IS NULL", record.ID).
			Update("used_at", now)
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 0 {
			// Consumed by a concurrent verification between lookup and update.
			return apperrors.ErrInvalidLoginToken
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// generateNumericCode derives each digit from one cryptographically random
// byte reduced mod 10. 256 is not a multiple of 10, so digits 0-5 are
// marginally more likely than 6-9; the skew is accepted for codes this short.
func generateNumericCode(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	digits := make([]byte, length)
	for i, b := range bytes {
		digits[i] = '0' + b%10
	}
	return string(digits), nil
}
