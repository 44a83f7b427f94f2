// Package core provides the domain types, validation, and aggregation
// logic for expense tracking.
//
// This file contains the pure input validation functions. Each check fails
// fast with a tagged ValidationError; no transformation is performed here.
package core

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// MinPasswordLength is the minimum accepted password length at signup.
	MinPasswordLength = 6
)

var (
	usernamePattern  = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)
	digitPattern     = regexp.MustCompile(`\d`)
	uppercasePattern = regexp.MustCompile(`[A-Z]`)
	lowercasePattern = regexp.MustCompile(`[a-z]`)
)

// ParseAmount converts a user-supplied amount to a float. Thousands-separator
// commas and surrounding whitespace are removed before parsing.
//
// Examples:
//
//	ParseAmount("12.34")     -> 12.34, nil
//	ParseAmount(" 1,200.50") -> 1200.5, nil
//	ParseAmount("abc")       -> 0, ValidationError(amount_not_a_number)
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, &ValidationError{Kind: KindAmountRequired, Message: "Amount is required."}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ValidationError{Kind: KindAmountNotANumber, Message: "Amount must be a number."}
	}
	return v, nil
}

// ValidateExpenseInput checks a raw expense submission. Checks run in a fixed
// order (date, category, amount) and the first failure wins.
func ValidateExpenseInput(date, category, amount string) error {
	if _, err := ParseDate(date); err != nil {
		return err
	}
	if strings.TrimSpace(category) == "" {
		return &ValidationError{Kind: KindEmptyCategory, Message: "Category cannot be empty."}
	}
	if strings.TrimSpace(amount) == "" {
		return &ValidationError{Kind: KindAmountRequired, Message: "Amount is required."}
	}
	v, err := ParseAmount(amount)
	if err != nil {
		return err
	}
	if v <= 0 {
		return &ValidationError{Kind: KindAmountNotPositive, Message: "Amount must be greater than 0."}
	}
	return nil
}

// ValidateSignup checks username and password rules for account creation.
// Password checks run in a fixed order: length, digit, uppercase, lowercase.
func ValidateSignup(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return &ValidationError{Kind: KindEmptyUsername, Message: "Username cannot be empty."}
	}
	if !usernamePattern.MatchString(username) {
		return &ValidationError{
			Kind:    KindInvalidUsername,
			Message: "Username must be 3-20 characters and contain only letters, numbers, or underscores.",
		}
	}
	if len(password) < MinPasswordLength {
		return &ValidationError{Kind: KindPasswordTooShort, Message: "Password must be at least 6 characters long."}
	}
	if !digitPattern.MatchString(password) {
		return &ValidationError{Kind: KindMissingDigit, Message: "Password must contain at least one number."}
	}
	if !uppercasePattern.MatchString(password) {
		return &ValidationError{Kind: KindMissingUppercase, Message: "Password must contain at least one uppercase letter."}
	}
	if !lowercasePattern.MatchString(password) {
		return &ValidationError{Kind: KindMissingLowercase, Message: "Password must contain at least one lowercase letter."}
	}
	return nil
}
