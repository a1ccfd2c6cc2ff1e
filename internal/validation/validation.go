package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxClassNameLength bounds classroom names, counted in runes
const MaxClassNameLength = 100

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._\-]{3,30}$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateUsername checks a coach or learner login name
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ValidationError{Field: "username", Message: "username is required"}
	}
	if !usernameRegex.MatchString(username) {
		return ValidationError{Field: "username", Message: "username must be 3-30 letters, digits, dots, dashes or underscores"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateName checks if a person's name is valid
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	return nil
}

// ValidateClassName checks a trimmed classroom name
func ValidateClassName(name string) error {
	if name == "" {
		return ValidationError{Field: "name", Message: "class name is required"}
	}
	if utf8.RuneCountInString(name) > MaxClassNameLength {
		return ValidationError{Field: "name", Message: fmt.Sprintf("class name must be at most %d characters", MaxClassNameLength)}
	}
	return nil
}
