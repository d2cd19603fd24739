package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"dashfinance/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plaintext password all user fixtures are created with.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password, unique email, and a
// system category, mirroring what registration guarantees.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Name:         fmt.Sprintf("Test User %d", nextID()),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	system := &models.Category{
		UserID:   user.ID,
		Name:     models.SystemCategoryName,
		IsSystem: true,
	}
	if err := db.Create(system).Error; err != nil {
		t.Fatalf("failed to create system category: %v", err)
	}

	return user
}

// SystemCategory returns the user's system category.
func SystemCategory(t *testing.T, db *gorm.DB, userID string) *models.Category {
	t.Helper()

	var category models.Category
	if err := db.Where("user_id = ? AND is_system = ?", userID, true).First(&category).Error; err != nil {
		t.Fatalf("failed to find system category: %v", err)
	}
	return &category
}

// CreateTestCategory creates a non-system category.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction of the given type and amount.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, categoryID string, txType models.TransactionType, amount float64) *models.Transaction {
	t.Helper()
	return CreateTestTransactionOn(t, db, userID, categoryID, txType, amount, time.Now())
}

// CreateTestTransactionOn creates a transaction dated to the given day.
func CreateTestTransactionOn(t *testing.T, db *gorm.DB, userID, categoryID string, txType models.TransactionType, amount float64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:     userID,
		CategoryID: categoryID,
		Title:      fmt.Sprintf("Test Transaction %d", nextID()),
		Amount:     amount,
		Type:       txType,
		Date:       models.NewDateOnly(date),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestLoginToken inserts a login token row with the given hash and expiry.
func CreateTestLoginToken(t *testing.T, db *gorm.DB, userID, tokenHash string, expiresAt time.Time) *models.LoginToken {
	t.Helper()

	token := &models.LoginToken{
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
	}
	if err := db.Create(token).Error; err != nil {
		t.Fatalf("failed to create test login token: %v", err)
	}
	return token
}
