package validation

import (
	"fmt"
	"regexp"
)

// EmailPattern is a pragmatic email shape check; the backend performs the
// authoritative validation
var EmailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const (
	// MinPasswordLen is the minimum password length accepted client-side
	MinPasswordLen = 8
	// MaxFullNameLen caps the display name length
	MaxFullNameLen = 128
)

// ValidateEmail checks that email looks like an address before any network
// call is made
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	if !EmailPattern.MatchString(email) {
		return fmt.Errorf("email is not a valid address")
	}

	return nil
}

// ValidatePassword checks the minimum password requirements
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	return nil
}

// ValidateFullName checks the optional display name
func ValidateFullName(fullName string) error {
	if len(fullName) > MaxFullNameLen {
		return fmt.Errorf("full name must not exceed %d characters", MaxFullNameLen)
	}

	return nil
}
