package requests

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ridemyway/pkg/tokens"
)

// Handler exposes ride-request HTTP endpoints.
type Handler struct{ svc *Service }

// NewHandler wires a handler to the request service.
func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// Create handles POST /rides/{id}/requests.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	rideID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "ride id must be an integer")
		return
	}

	req, err := h.svc.Create(r.Context(), rideID, tokens.Username(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, ErrRideNotFound), errors.Is(err, ErrUserNotFound):
			writeError(w, http.StatusNotFound, "Not Found", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Internal Server Error", "could not create ride request")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":      "Ride request created successfully",
		"request_id":   req.ID,
		"ride_request": req,
	})
}

// ListForRide handles GET /users/rides/{id}/requests.
func (h *Handler) ListForRide(w http.ResponseWriter, r *http.Request) {
	rideID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "ride id must be an integer")
		return
	}

	reqs, err := h.svc.ListForRide(r.Context(), rideID, tokens.Username(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotRideOwner):
			writeError(w, http.StatusForbidden, "Forbidden", err.Error())
		case errors.Is(err, ErrRideNotFound), errors.Is(err, ErrUserNotFound):
			writeError(w, http.StatusNotFound, "Not Found", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Internal Server Error", "could not list ride requests")
		}
		return
	}
	if reqs == nil {
		reqs = []RideRequest{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ride_requests": reqs})
}

// Resolve handles PUT /users/rides/{id}/requests/{requestID}.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	rideID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "ride id must be an integer")
		return
	}
	requestID, err := strconv.ParseInt(chi.URLParam(r, "requestID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "request id must be an integer")
		return
	}

	var body ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Decision == "" {
		writeError(w, http.StatusBadRequest, "Bad Request", "make sure you have a decision key in your request")
		return
	}

	status, err := h.svc.Resolve(r.Context(), rideID, requestID, tokens.Username(r.Context()), body.Decision)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDecision):
			writeError(w, http.StatusBadRequest, "Bad Request", err.Error())
		case errors.Is(err, ErrNotRequestOwner):
			writeError(w, http.StatusForbidden, "Forbidden", err.Error())
		case errors.Is(err, ErrRequestNotFound), errors.Is(err, ErrRideNotFound), errors.Is(err, ErrUserNotFound):
			writeError(w, http.StatusNotFound, "Not Found", err.Error())
		case errors.Is(err, ErrAlreadyResolved):
			writeError(w, http.StatusConflict, "Conflict", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Internal Server Error", "could not resolve ride request")
		}
		return
	}

	message := "You have accepted this ride request"
	if status == StatusRejected {
		message = "You have rejected this ride request"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": message,
		"status":  status,
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
