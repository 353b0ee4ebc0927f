package domain

import "errors"

// Error kinds. Match them with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrInternal     = errors.New("internal error")
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the error type returned by the core services.
type Error struct {
	Kind    error
	Message string
	Fields  []FieldError
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

func ValidationError(message string, fields ...FieldError) *Error {
	return &Error{Kind: ErrValidation, Message: message, Fields: fields}
}

func AuthError(message string) *Error {
	return &Error{Kind: ErrUnauthorized, Message: message}
}

func NotFoundError(message string) *Error {
	return &Error{Kind: ErrNotFound, Message: message}
}

// InternalError hides cause from clients; it is kept for logging only.
func InternalError(cause error) *Error {
	return &Error{Kind: ErrInternal, Message: "Server error", Cause: cause}
}
