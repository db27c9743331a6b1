package auth

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MsgFillAllFields = "Please fill in all fields"
	MsgInvalidEmail  = "Please enter a valid email address"
	MsgInvalidLogin  = "Invalid email or password"

	MsgPasswordLength    = "Password must be at least 8 characters long"
	MsgPasswordUppercase = "Password must contain at least one uppercase letter"
	MsgPasswordLowercase = "Password must contain at least one lowercase letter"
	MsgPasswordNumber    = "Password must contain at least one number"
	MsgPasswordSymbol    = "Password must contain at least one special character"
)

// MinPasswordLength is the shortest accepted password, in characters.
const MinPasswordLength = 8

// passwordSymbols is the punctuation set a password must draw at least one character from.
const passwordSymbols = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError carries the human-readable message shown above the login
// form and the individual rules that failed.
type ValidationError struct {
	Message    string
	Violations []string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateLogin checks the login form. Checks stop at the first failing
// stage: missing fields, then email shape, then every password rule at once.
func ValidateLogin(email, password string) error {
	if email == "" || password == "" {
		return &ValidationError{Message: MsgFillAllFields, Violations: []string{MsgFillAllFields}}
	}
	if !emailPattern.MatchString(email) {
		return &ValidationError{Message: MsgInvalidEmail, Violations: []string{MsgInvalidEmail}}
	}
	if violations := PasswordViolations(password); len(violations) > 0 {
		return &ValidationError{
			Message:    "Password requirements: " + strings.Join(violations, ", "),
			Violations: violations,
		}
	}
	return nil
}

// PasswordViolations lists every password rule the candidate breaks, in a
// fixed order.
func PasswordViolations(password string) []string {
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}

	var out []string
	if utf8.RuneCountInString(password) < MinPasswordLength {
		out = append(out, MsgPasswordLength)
	}
	if !upper {
		out = append(out, MsgPasswordUppercase)
	}
	if !lower {
		out = append(out, MsgPasswordLowercase)
	}
	if !digit {
		out = append(out, MsgPasswordNumber)
	}
	if !symbol {
		out = append(out, MsgPasswordSymbol)
	}
	return out
}
