package validation

import (
	"errors"
	"strings"
)

// ValidateUsername validates account usernames.
func ValidateUsername(username string) error {
	trimmed := strings.TrimSpace(username)

	if trimmed == "" {
		return errors.New("username is required")
	}

	if len(trimmed) < 3 {
		return errors.New("username must be at least 3 characters")
	}

	if len(trimmed) > 30 {
		return errors.New("username is too long (max 30 characters)")
	}

	return nil
}
