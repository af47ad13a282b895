package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// Error is the API error contract surfaced to callers. Status maps directly
// to the HTTP status code the handler responds with.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

var (
	ErrBadRequest          = New("bad request", http.StatusBadRequest)
	ErrUnauthorized        = New("unauthorized", http.StatusUnauthorized)
	ErrForbidden           = New("forbidden", http.StatusForbidden)
	ErrNotFound            = New("not found", http.StatusNotFound)
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
)

func New(message string, status int) *Error {
	return &Error{
		Message: message,
		Status:  status,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("error: %s, status: %d", e.Message, e.Status)
}

// ValidationError carries a field-name -> problem map for 422 responses.
type ValidationError struct {
	Errors map[string]string `json:"errors"`
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Errors: fields}
}

func (v *ValidationError) Error() string {
	parts := make([]string, 0, len(v.Errors))
	for field, msg := range v.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// GetUniqueContraintError converts a postgres duplicate-key failure into a
// friendly conflict error, leaving everything else as an internal error.
func GetUniqueContraintError(err error) *Error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "duplicate key value") {
		return New("record already exists", http.StatusConflict)
	}
	return ErrInternalServerError
}
