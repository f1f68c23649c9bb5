package apperrors

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrNotSignedIn        = errors.New("not signed in")
	ErrConferenceRequired = errors.New("conference is required")
)
