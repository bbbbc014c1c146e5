package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the signup and login endpoints.
type Handler struct{ svc *Service }

// NewHandler wires a handler to the auth service.
func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// Routes returns a chi.Router with all auth routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/signup", h.SignUp)
	r.Post("/login", h.Login)
	return r
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "invalid body")
		return
	}

	user, err := h.svc.SignUp(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidEmail):
			writeError(w, http.StatusBadRequest, "Bad Request", err.Error())
		case errors.Is(err, ErrUsernameTaken):
			writeError(w, http.StatusConflict, "Conflict", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Internal Server Error", "could not sign up")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Signed up successfully",
		"username": user.Username,
		"id":       user.ID,
		"email":    user.Email,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "invalid body")
		return
	}

	token, err := h.svc.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Unauthorized", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Internal Server Error", "could not log in")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "Logged in successfully",
		"access_token": token,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, category, message string) {
	writeJSON(w, status, map[string]string{"error": category, "message": message})
}
