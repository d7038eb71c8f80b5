// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Precondition errors.
	ErrNoImage        = errors.New("no image selected")
	ErrNotImage       = errors.New("selected file is not an image")
	ErrSubmitInFlight = errors.New("classification already in progress")

	// Selection errors.
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrEmptyFile            = errors.New("empty file")

	// Classification errors.
	ErrClassificationFailed = errors.New("classification failed")
	ErrMalformedResponse    = errors.New("malformed classification response")
	ErrHeatmapUnavailable   = errors.New("heatmap unavailable")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// User-facing notices.
const (
	NoticeNoImage  = "Please select an image to upload."
	NoticeNotImage = "Please upload a valid image (JPEG, PNG)."
	NoticeFailure  = "An error occurred while processing your request. Please try again."
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// UserMessage extracts the user-facing message from err, falling back to the
// generic failure notice.
func UserMessage(err error) string {
	var userErr *UserError
	if errors.As(err, &userErr) && userErr.UserMessage != "" {
		return userErr.UserMessage
	}
	return NoticeFailure
}

// IsPrecondition reports whether err was raised before any network activity.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrNoImage) || errors.Is(err, ErrNotImage)
}
