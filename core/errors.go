package core

import "fmt"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// APIError is a well-formed backend refusal. Message carries the server's
// wording and is surfaced to the user verbatim when present.
type APIError struct {
	StatusCode int
	Message    string
}

func (err *APIError) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("request refused (HTTP %d)", err.StatusCode)
	}
	return err.Message
}

// NetworkError is a transport failure: the outcome of the attempted call is
// unknown. Client state is left untouched and the user may retry manually.
type NetworkError struct {
	Err error
}

func (err *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", err.Err)
}

func (err *NetworkError) Unwrap() error { return err.Err }
