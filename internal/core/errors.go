package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeInvalidUsername = "invalid_username"
	ErrCodeUnknownSession  = "unknown_session"
	ErrCodeNotInRoom       = "not_in_room"
	ErrCodeNotFound        = "not_found"
	ErrCodeBadRequest      = "bad_request"
)

var (
	ErrInvalidUsername = errors.New("invalid username")
	ErrUnknownSession  = errors.New("unknown session")
	ErrNotFound        = errors.New("not found")
	ErrHubStopped      = errors.New("hub stopped")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
