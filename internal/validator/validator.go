// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	dateOnlyRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	yearMonthRegex = regexp.MustCompile(`^\d{4}-\d{2}$`)
	avatarRegex    = regexp.MustCompile(`^data:image/(png|jpe?g|webp|gif);base64,[a-zA-Z0-9+/=]+$`)
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("date_only", validateDateOnly)
		_ = v.RegisterValidation("ym_month", validateYearMonth)
		_ = v.RegisterValidation("avatar_data", validateAvatarData)
	}
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validateDateOnly(fl validator.FieldLevel) bool {
	return dateOnlyRegex.MatchString(fl.Field().String())
}

func validateYearMonth(fl validator.FieldLevel) bool {
	return yearMonthRegex.MatchString(fl.Field().String())
}

// validateAvatarData accepts an inline base64 image data URI.
func validateAvatarData(fl validator.FieldLevel) bool {
	return avatarRegex.MatchString(fl.Field().String())
}
