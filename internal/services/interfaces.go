package services

import (
	"dashfinance/internal/models"
	"dashfinance/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(name, email, password string) (*models.User, error)
	Authenticate(email, password string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	UpdateProfile(userID, name string, avatarURL *string) (*models.User, error)
	ChangePassword(userID, currentPassword, newPassword string) error
}

// LoginTokenIssue describes a freshly issued login token. RawCode is the
// plaintext numeric code; it exists only in memory and in the outbound email.
type LoginTokenIssue struct {
	RawCode   string
	Delivered bool
}

// LoginTokenServicer defines the contract for the passwordless login flow.
type LoginTokenServicer interface {
	// Request issues a new login token for the given email. It returns nil
	// (with no error) when no such user exists, so callers can answer
	// identically for registered and unregistered addresses.
	Request(email string) (*LoginTokenIssue, error)
	// Verify consumes a login token and returns the authenticated user.
	Verify(email, code string) (*models.User, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name string) (*models.Category, error)
	GetUserCategories(userID string) ([]models.Category, error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID, name string) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID, title string, amount float64, transactionType models.TransactionType, date models.DateOnly, categoryID string) (*models.Transaction, error)
	GetUserTransactions(userID, month string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	UpdateTransaction(userID, transactionID, title string, amount float64, transactionType models.TransactionType, date models.DateOnly, categoryID string) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// CategoryBreakdown holds per-category expense totals for a month.
type CategoryBreakdown struct {
	CategoryID string  `json:"category_id"`
	Name       string  `json:"name"`
	Total      float64 `json:"total"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// TrendPoint holds income and expense totals for one month.
type TrendPoint struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// DashboardSummary aggregates the derived statistics the dashboard renders.
type DashboardSummary struct {
	Month      string              `json:"month"`
	Income     float64             `json:"income"`
	Expense    float64             `json:"expense"`
	Balance    float64             `json:"balance"`
	Categories []CategoryBreakdown `json:"categories"`
	Trend      []TrendPoint        `json:"trend"`
}

// DashboardServicer defines the contract for dashboard statistics.
type DashboardServicer interface {
	GetSummary(userID, month string) (*DashboardSummary, error)
}
