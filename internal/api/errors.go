package api

import (
	"errors"
	"net/http"

	"github.com/Authcult/tradingagents-api/internal/analysis"
	"github.com/Authcult/tradingagents-api/internal/task"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, task.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, analysis.ErrInvalidRequest):
		return http.StatusBadRequest

	// A duplicate ID means broken identifier generation, which is an
	// internal invariant failure, not a client mistake.
	case errors.Is(err, task.ErrDuplicate):
		return http.StatusInternalServerError

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for the error.
// Validation messages originate in this codebase and are safe to echo;
// everything else collapses to a generic message.
func GetSafeErrorMessage(err error) string {
	switch {
	case errors.Is(err, task.ErrNotFound):
		return "Task not found"

	case errors.Is(err, analysis.ErrInvalidRequest):
		return err.Error()

	default:
		return "An unexpected error occurred"
	}
}
