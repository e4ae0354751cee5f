package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/VanshikaSalekar/DevBlog/internal/auth"
	"github.com/VanshikaSalekar/DevBlog/internal/middleware"
)

type AuthHandler struct {
	sessions *auth.Sessions
	logger   *slog.Logger
}

func NewAuthHandler(sessions *auth.Sessions, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		logger:   logger,
	}
}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) SignIn() http.HandlerFunc {
	return h.credentials(h.sessions.SignIn, http.StatusOK)
}

func (h *AuthHandler) SignUp() http.HandlerFunc {
	return h.credentials(h.sessions.SignUp, http.StatusCreated)
}

func (h *AuthHandler) credentials(fn func(email, password string) (*auth.Session, error), status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CredentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
			return
		}
		sess, err := fn(req.Email, req.Password)
		if err != nil {
			writeServiceError(w, r, h.logger, err)
			return
		}
		writeJSON(w, status, sess)
	}
}

func (h *AuthHandler) SignOut() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.sessions.SignOut(middleware.BearerToken(r)); err != nil {
			writeServiceError(w, r, h.logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *AuthHandler) UpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var upd auth.ProfileUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
			return
		}
		sess, err := h.sessions.UpdateProfile(middleware.BearerToken(r), upd)
		if err != nil {
			writeServiceError(w, r, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}
