package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a financial transaction. CategoryID must always
// resolve; the category deletion guard reassigns transactions before their
// category is removed.
type Transaction struct {
	Base
	UserID     string          `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID string          `gorm:"type:uuid;not null;index" json:"category_id"`
	Title      string          `gorm:"not null" json:"title"`
	Amount     float64         `gorm:"type:decimal(12,2);not null" json:"amount"`
	Type       TransactionType `gorm:"not null" json:"type"`
	Date       DateOnly        `gorm:"type:date;not null" json:"date"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

const dateOnlyLayout = "2006-01-02"

// DateOnly is a calendar date with no time-of-day component. It is stored as
// a UTC-midnight instant and serialized as YYYY-MM-DD.
type DateOnly struct {
	time.Time
}

// NewDateOnly truncates t to midnight UTC.
func NewDateOnly(t time.Time) DateOnly {
	y, m, d := t.UTC().Date()
	return DateOnly{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDateOnly parses a YYYY-MM-DD string into a DateOnly.
func ParseDateOnly(s string) (DateOnly, error) {
	t, err := time.ParseInLocation(dateOnlyLayout, s, time.UTC)
	if err != nil {
		return DateOnly{}, err
	}
	return DateOnly{Time: t}, nil
}

// String returns the YYYY-MM-DD representation.
func (d DateOnly) String() string {
	return d.UTC().Format(dateOnlyLayout)
}

// MarshalJSON serializes the date as "YYYY-MM-DD".
func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON parses a "YYYY-MM-DD" string.
func (d *DateOnly) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s", s)
	}
	parsed, err := ParseDateOnly(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer.
func (d DateOnly) Value() (driver.Value, error) {
	return d.UTC(), nil
}

// Scan implements sql.Scanner. The sqlite driver used in tests hands back
// strings, postgres hands back time.Time.
func (d *DateOnly) Scan(value interface{}) error {
	switch v := value.(type) {
	case time.Time:
		*d = NewDateOnly(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	case nil:
		*d = DateOnly{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into DateOnly", value)
	}
}

func (d *DateOnly) scanString(s string) error {
	if len(s) > len(dateOnlyLayout) {
		s = s[:len(dateOnlyLayout)]
	}
	parsed, err := ParseDateOnly(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
