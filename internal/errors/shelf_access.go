package errors

import (
	stdErrors "errors"
	"fmt"
)

// ShelfAccessError represents a shelf service access failure (invalid
// developer key, unknown user, private shelf).
type ShelfAccessError struct {
	Message    string
	StatusCode int
	UserID     string
}

func (e *ShelfAccessError) Error() string {
	if e.UserID != "" {
		return fmt.Sprintf("%s (HTTP %d) for user %s", e.Message, e.StatusCode, e.UserID)
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
}

// NewShelfAccessError creates a shelf access error with a message derived
// from the HTTP status code.
func NewShelfAccessError(statusCode int, userID string) *ShelfAccessError {
	var message string

	switch statusCode {
	case 401:
		message = "Invalid Goodreads developer key"
	case 403:
		message = "Goodreads shelf is private or inaccessible"
	case 404:
		message = "No such Goodreads user or shelf"
	default:
		message = "Goodreads API access error"
	}

	return &ShelfAccessError{
		Message:    message,
		StatusCode: statusCode,
		UserID:     userID,
	}
}

// IsShelfAccessError checks if error is a ShelfAccessError
func IsShelfAccessError(err error) bool {
	var shelfErr *ShelfAccessError
	return stdErrors.As(err, &shelfErr)
}
