package validator

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidDisplayName = errors.New("invalid display name")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidBookName    = errors.New("invalid book name")
	ErrInvalidCurrency    = errors.New("invalid currency")
	ErrInvalidColor       = errors.New("invalid color")
	ErrInvalidPhone       = errors.New("invalid phone number")
	ErrInvalidCategory    = errors.New("invalid category name")
)

// MaxCategoryName is the longest category name in runes.
const MaxCategoryName = 40

var (
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)
	colorRegex    = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	phoneRegex    = regexp.MustCompile(`^\+[1-9][0-9]{6,14}$`)
)

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func ValidateDisplayName(name string) error {
	if !nameLength(name, 1, 80) {
		return ErrInvalidDisplayName
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	return nil
}

// ValidateBookName rejects commas because book names are the first field of
// the comma-separated WhatsApp command.
func ValidateBookName(name string) error {
	if !nameLength(name, 1, 60) || strings.Contains(name, ",") {
		return ErrInvalidBookName
	}
	return nil
}

func ValidateCategoryName(name string) error {
	if !nameLength(name, 1, MaxCategoryName) || strings.Contains(name, ",") {
		return ErrInvalidCategory
	}
	return nil
}

func ValidateCurrency(code string) error {
	if !currencyRegex.MatchString(code) {
		return ErrInvalidCurrency
	}
	return nil
}

func ValidateColor(color string) error {
	if !colorRegex.MatchString(color) {
		return ErrInvalidColor
	}
	return nil
}

// ValidatePhone accepts E.164 numbers such as +919876543210.
func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}

func nameLength(value string, min, max int) bool {
	trimmed := strings.TrimSpace(value)
	n := utf8.RuneCountInString(trimmed)
	return n >= min && n <= max
}
