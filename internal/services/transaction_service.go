package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "dashfinance/internal/errors"
	"dashfinance/internal/models"
	"dashfinance/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// CreateTransaction creates a new transaction. The category must exist and
// belong to the user; the client-supplied ID alone is never trusted.
func (s *transactionService) CreateTransaction(
	userID, title string,
	amount float64,
	transactionType models.TransactionType,
	date models.DateOnly,
	categoryID string,
) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	category, err := s.verifyCategory(userID, categoryID)
	if err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:     userID,
		CategoryID: category.ID,
		Title:      title,
		Amount:     amount,
		Type:       transactionType,
		Date:       date,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	transaction.Category = category
	return transaction, nil
}

// GetUserTransactions retrieves a paginated list of the user's transactions,
// newest first, optionally restricted to one calendar month (YYYY-MM, UTC).
func (s *transactionService) GetUserTransactions(userID, month string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if month != "" {
		start, end, err := monthWindow(month)
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid month")
		}
		base = base.Where("date >= ? AND date < ?", start, end)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Category").
		Scopes(pagination.Paginate(page)).
		Order("date DESC, created_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateTransaction replaces a transaction's fields, re-verifying category
// ownership.
func (s *transactionService) UpdateTransaction(
	userID, transactionID, title string,
	amount float64,
	transactionType models.TransactionType,
	date models.DateOnly,
	categoryID string,
) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	transaction, err := s.getByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	category, err := s.verifyCategory(userID, categoryID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"title":       title,
		"amount":      amount,
		"type":        transactionType,
		"date":        date,
		"category_id": category.ID,
	}
	if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	transaction.Category = category
	return transaction, nil
}

// DeleteTransaction deletes a transaction owned by the user
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.getByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *transactionService) getByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

func (s *transactionService) verifyCategory(userID, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// monthWindow returns the UTC half-open interval [start, end) for a YYYY-MM month.
func monthWindow(month string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation("2006-01", month, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q: %w", month, err)
	}
	return start, start.AddDate(0, 1, 0), nil
}
