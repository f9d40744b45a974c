package auth

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxPasswordLength is the bcrypt input ceiling in bytes.
	MaxPasswordLength = 72
	// DefaultMinPasswordLength is the minimum length when none is configured.
	DefaultMinPasswordLength = 8
)

// SpecialCharacters lists the characters that satisfy the special character rule.
const SpecialCharacters = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// Password strength messages.
const (
	msgPasswordTooLong   = "Password must not exceed 72 characters"
	msgPasswordUppercase = "Password must contain at least one uppercase letter"
	msgPasswordLowercase = "Password must contain at least one lowercase letter"
	msgPasswordNumber    = "Password must contain at least one number"
	msgPasswordSpecial   = "Password must contain at least one special character"
)

// PasswordRequirements configures ValidatePasswordStrength.
type PasswordRequirements struct {
	MinLength                int
	RequireUppercase         bool
	RequireLowercase         bool
	RequireNumbers           bool
	RequireSpecialCharacters bool
}

// DefaultPasswordRequirements returns the standard policy: 8 characters and every character class.
func DefaultPasswordRequirements() PasswordRequirements {
	return PasswordRequirements{
		MinLength:                DefaultMinPasswordLength,
		RequireUppercase:         true,
		RequireLowercase:         true,
		RequireNumbers:           true,
		RequireSpecialCharacters: true,
	}
}

// PasswordValidation is the outcome of a strength check.
type PasswordValidation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ValidatePasswordStrength evaluates every rule in req against password and
// collects a message for each failure. It never short-circuits.
func ValidatePasswordStrength(password string, req PasswordRequirements) PasswordValidation {
	minLen := req.MinLength
	if minLen <= 0 {
		minLen = DefaultMinPasswordLength
	}

	var errs []string
	if utf8.RuneCountInString(password) < minLen {
		errs = append(errs, fmt.Sprintf("Password must be at least %d characters", minLen))
	}
	if len(password) > MaxPasswordLength {
		errs = append(errs, msgPasswordTooLong)
	}

	classes := classify(password)
	if req.RequireUppercase && !classes.upper {
		errs = append(errs, msgPasswordUppercase)
	}
	if req.RequireLowercase && !classes.lower {
		errs = append(errs, msgPasswordLowercase)
	}
	if req.RequireNumbers && !classes.digit {
		errs = append(errs, msgPasswordNumber)
	}
	if req.RequireSpecialCharacters && !classes.special {
		errs = append(errs, msgPasswordSpecial)
	}

	return PasswordValidation{Valid: len(errs) == 0, Errors: errs}
}

type charClasses struct {
	upper, lower, digit, special bool
}

func classify(password string) charClasses {
	var c charClasses
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			c.upper = true
		case unicode.IsLower(r):
			c.lower = true
		case unicode.IsDigit(r):
			c.digit = true
		case strings.ContainsRune(SpecialCharacters, r):
			c.special = true
		}
	}
	return c
}
