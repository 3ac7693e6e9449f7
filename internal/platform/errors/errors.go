package apperrors

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")

	ErrValidation         = errors.New("validation failed")
	ErrProcessingFailed   = errors.New("processing failed")
	ErrSubmissionInFlight = errors.New("submission already in progress")

	ErrDuplicateEmail     = errors.New("email already registered")
	ErrEmailInUse         = errors.New("email already in use")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthenticated   = errors.New("not authenticated")
)
