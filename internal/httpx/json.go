// Package httpx holds the JSON response helpers shared by the router and the
// authorization middleware.
package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/observability/middleware"

	validation "github.com/go-ozzo/ozzo-validation"
)

type ErrorBody struct {
	Message    string `json:"message"`
	Error      string `json:"error"`
	StatusCode int    `json:"statusCode"`
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to write json response", "error", err)
	}
}

type errorMapping struct {
	target error
	status int
}

var errorTable = []errorMapping{
	{domain.ErrDuplicateEmail, http.StatusBadRequest},
	{domain.ErrInvalidCredentials, http.StatusBadRequest},
	{domain.ErrInvalidLink, http.StatusBadRequest},
	{domain.ErrInvalidInput, http.StatusBadRequest},
	{domain.ErrUnsupportedContentType, http.StatusBadRequest},
	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrNoVerificationPending, http.StatusNotFound},
	{domain.ErrProductNotFound, http.StatusNotFound},
	{domain.ErrReviewNotFound, http.StatusNotFound},
	{domain.ErrNoProfileImage, http.StatusBadRequest},
	{domain.ErrImageNotFound, http.StatusNotFound},
	{domain.ErrUnauthenticated, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrMailDispatchFailed, http.StatusRequestTimeout},
	{domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
}

// StatusFor maps an error to its HTTP status and client-facing message.
// Unknown errors become a generic 500 so internals never leak.
func StatusFor(err error) (int, string) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return http.StatusBadRequest, verrs.Error()
	}
	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			if m.target == domain.ErrInvalidInput || m.target == domain.ErrUnsupportedContentType {
				return m.status, err.Error()
			}
			return m.status, m.target.Error()
		}
	}
	return http.StatusInternalServerError, "internal server error"
}

func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := StatusFor(err)
	attrs := []any{
		"error", err,
		"status", status,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.RequestIDFromContext(r.Context()),
		"trace_id", middleware.TraceIDFromContext(r.Context()),
	}
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", attrs...)
	} else {
		slog.Debug("request rejected", attrs...)
	}
	WriteStatus(w, status, msg)
}

// WriteStatus writes an error body with an explicit status and message.
func WriteStatus(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorBody{
		Message:    msg,
		Error:      http.StatusText(status),
		StatusCode: status,
	})
}
