package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/VanshikaSalekar/DevBlog/internal/auth"
	"github.com/VanshikaSalekar/DevBlog/internal/middleware"
	"github.com/VanshikaSalekar/DevBlog/internal/posts"
)

type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]string) {
	writeJSON(w, status, map[string]any{
		"error": APIError{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: middleware.GetRequestID(r.Context()),
		},
	})
}

// writeServiceError maps a service or session error onto the error envelope.
// Anything unrecognised is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, posts.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "post not found", nil)
	case errors.Is(err, posts.ErrValidation), errors.Is(err, auth.ErrValidation):
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", validationDetails(err))
	case errors.Is(err, posts.ErrConflict):
		writeError(w, r, http.StatusConflict, "CONFLICT", "post was modified since it was read", nil)
	case errors.Is(err, auth.ErrUnauthorized):
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid session", nil)
	case errors.Is(err, posts.ErrForbidden):
		writeError(w, r, http.StatusForbidden, "FORBIDDEN", "not allowed to modify this post", nil)
	default:
		logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
	}
}

func validationDetails(err error) map[string]string {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make(map[string]string, len(verrs))
	for field, e := range verrs {
		if e != nil {
			details[field] = e.Error()
		}
	}
	return details
}
