// Package validation holds the pure input checks run before any request
// reaches the store. Every failure is a domain.KindValidation error whose
// message is safe to return to the caller verbatim.
package validation

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

const minPasswordLength = 8

var (
	ErrEmailRequired    = domain.NewValidationError("Email is required")
	ErrEmailInvalid     = domain.NewValidationError("Invalid email address")
	ErrPasswordRequired = domain.NewValidationError("Password is required")
	ErrPasswordTooShort = domain.NewValidationError("Password must be at least 8 characters long")

	ErrProductNameInvalid  = domain.NewValidationError("Product name is required and must be at least 3 characters.")
	ErrProductNameTooLong  = domain.NewValidationError("Product name cannot be longer than 100 characters.")
	ErrProductNameRequired = domain.NewValidationError("Product name is required")

	// ErrInvalidNumeric is wrapped by every numeric field failure.
	ErrInvalidNumeric = errors.New("invalid numeric input")
)

// local@domain.tld, with at least one dot in the domain and a TLD of 2+ letters.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateEmail checks raw after trimming surrounding whitespace.
func ValidateEmail(raw string) error {
	email := strings.TrimSpace(raw)
	if email == "" {
		return ErrEmailRequired
	}
	if !emailPattern.MatchString(email) {
		return ErrEmailInvalid
	}
	return nil
}

// ValidatePassword checks raw after trimming surrounding whitespace.
func ValidatePassword(raw string) error {
	password := strings.TrimSpace(raw)
	if password == "" {
		return ErrPasswordRequired
	}
	if len([]rune(password)) < minPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// ValidatePositiveNumber parses raw as a finite, non-negative number. Zero is
// accepted. fieldName only shapes the error message.
func ValidatePositiveNumber(raw, fieldName string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, InvalidNumeric(fieldName)
	}
	return v, nil
}

// InvalidNumeric is the error reported for a bad numeric field.
func InvalidNumeric(fieldName string) error {
	return &domain.Error{
		Kind:    domain.KindValidation,
		Message: fmt.Sprintf("Invalid input: '%s' must be numeric and positive value.", fieldName),
		Err:     ErrInvalidNumeric,
	}
}

// ValidateProductName checks the trimmed name is 3 to 100 characters long.
func ValidateProductName(raw string) error {
	name := strings.TrimSpace(raw)
	if err := validate.Var(name, "required,min=3"); err != nil {
		return ErrProductNameInvalid
	}
	if err := validate.Var(name, "max=100"); err != nil {
		return ErrProductNameTooLong
	}
	return nil
}

// RequireName rejects a blank path name.
func RequireName(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return ErrProductNameRequired
	}
	return nil
}
