package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "dashfinance/internal/errors"
	"dashfinance/internal/models"
)

// trendMonths is how many months the dashboard trend covers, ending at the
// selected month.
const trendMonths = 6

// dashboardService derives the statistics the dashboard renders from the
// user's transactions.
type dashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(db *gorm.DB) DashboardServicer {
	return &dashboardService{db: db}
}

// GetSummary aggregates income/expense totals, the expense breakdown by
// category, and the trailing monthly trend for the given YYYY-MM month
// (current UTC month when empty).
func (s *dashboardService) GetSummary(userID, month string) (*DashboardSummary, error) {
	if month == "" {
		month = time.Now().UTC().Format("2006-01")
	}
	start, end, err := monthWindow(month)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid month")
	}

	income, expense, err := s.totals(userID, start, end)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.expenseBreakdown(userID, start, end, expense)
	if err != nil {
		return nil, err
	}

	trend := make([]TrendPoint, 0, trendMonths)
	for i := trendMonths - 1; i >= 0; i-- {
		mStart := start.AddDate(0, -i, 0)
		mEnd := mStart.AddDate(0, 1, 0)
		mIncome, mExpense, err := s.totals(userID, mStart, mEnd)
		if err != nil {
			return nil, err
		}
		trend = append(trend, TrendPoint{
			Month:   mStart.Format("2006-01"),
			Income:  mIncome,
			Expense: mExpense,
		})
	}

	return &DashboardSummary{
		Month:      month,
		Income:     income,
		Expense:    expense,
		Balance:    income - expense,
		Categories: breakdown,
		Trend:      trend,
	}, nil
}

func (s *dashboardService) totals(userID string, start, end time.Time) (income, expense float64, err error) {
	var rows []struct {
		Type  models.TransactionType
		Total float64
	}
	if err := s.db.Model(&models.Transaction{}).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Group("type").
		Scan(&rows).Error; err != nil {
		return 0, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for _, row := range rows {
		switch row.Type {
		case models.TransactionTypeIncome:
			income = row.Total
		case models.TransactionTypeExpense:
			expense = row.Total
		}
	}
	return income, expense, nil
}

func (s *dashboardService) expenseBreakdown(userID string, start, end time.Time, totalExpense float64) ([]CategoryBreakdown, error) {
	var rows []CategoryBreakdown
	if err := s.db.Model(&models.Transaction{}).
		Select("transactions.category_id AS category_id, categories.name AS name, SUM(transactions.amount) AS total, COUNT(*) AS count").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.type = ? AND transactions.date >= ? AND transactions.date < ?",
			userID, models.TransactionTypeExpense, start, end).
		Group("transactions.category_id, categories.name").
		Order("total DESC").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if rows == nil {
		rows = []CategoryBreakdown{}
	}
	for i := range rows {
		if totalExpense > 0 {
			rows[i].Percentage = rows[i].Total / totalExpense * 100
		}
	}
	return rows, nil
}
