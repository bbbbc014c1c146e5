package rides

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ridemyway/pkg/tokens"
)

// Handler exposes ride-offer HTTP endpoints.
type Handler struct{ svc *Service }

// NewHandler wires a handler to the ride service.
func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// List handles GET /rides.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	rides, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error", "could not list ride offers")
		return
	}
	if rides == nil {
		rides = []Ride{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"rides": rides})
}

// GetByID handles GET /rides/{id}.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "ride id must be an integer")
		return
	}

	ride, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrRideNotFound) {
			writeError(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Internal Server Error", "could not fetch ride offer")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ride": ride})
}

// Create handles POST /users/rides.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	username := tokens.Username(r.Context())

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "invalid body")
		return
	}

	ride, err := h.svc.Create(r.Context(), username, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRide):
			writeError(w, http.StatusBadRequest, "Bad Request", err.Error())
		case errors.Is(err, ErrUserNotFound):
			writeError(w, http.StatusNotFound, "Not Found", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Internal Server Error", "could not create ride offer")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Ride offer created successfully",
		"ride_id": ride.ID,
		"ride":    ride,
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
