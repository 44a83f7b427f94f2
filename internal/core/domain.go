package core

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DateLayout is the only accepted calendar format for expense dates.
const DateLayout = "2006-01-02"

type (
	// Date is a calendar date without a time component.
	Date struct {
		time.Time
	}

	// Expense is a single expense row owned by one user.
	Expense struct {
		ID          int64   `json:"id"`
		Date        Date    `json:"date"`
		Category    string  `json:"category"`
		Amount      float64 `json:"amount"`
		Description string  `json:"description"`
		UserID      int64   `json:"-"`
	}

	// User is an account holder. PasswordHash is never serialized.
	User struct {
		ID           int64     `json:"id"`
		Username     string    `json:"username"`
		PasswordHash string    `json:"-"`
		CreatedAt    time.Time `json:"created_at"`
	}
)

var (
	ErrExpenseNotFound   = errors.New("expense not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
)

// ValidationKind tags a user-correctable input problem.
type ValidationKind string

const (
	KindInvalidDateFormat ValidationKind = "invalid_date_format"
	KindEmptyCategory     ValidationKind = "empty_category"
	KindAmountRequired    ValidationKind = "amount_required"
	KindAmountNotANumber  ValidationKind = "amount_not_a_number"
	KindAmountNotPositive ValidationKind = "amount_not_positive"
	KindEmptyUsername     ValidationKind = "empty_username"
	KindInvalidUsername   ValidationKind = "invalid_username"
	KindPasswordTooShort  ValidationKind = "password_too_short"
	KindMissingDigit      ValidationKind = "password_missing_digit"
	KindMissingUppercase  ValidationKind = "password_missing_uppercase"
	KindMissingLowercase  ValidationKind = "password_missing_lowercase"
)

// ValidationError is the explicit result kind for rejected input. Callers
// branch on it with errors.As instead of matching message strings.
type ValidationError struct {
	Kind    ValidationKind
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var titleCaser = cases.Title(language.Und)

// NormalizeCategory trims a category label and converts it to title case.
// Stored and compared values are always in this normalized form.
func NormalizeCategory(category string) string {
	return titleCaser.String(strings.TrimSpace(category))
}

// NewDate builds a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a strict YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, &ValidationError{Kind: KindInvalidDateFormat, Message: "Invalid date format. Use YYYY-MM-DD."}
	}
	return Date{Time: t}, nil
}

// YearMonth returns the date formatted as YYYY-MM.
func (d Date) YearMonth() string {
	return d.Format("2006-01")
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON renders the date as a plain "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON accepts the same strict format MarshalJSON emits.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
