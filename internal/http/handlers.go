package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tvde/internal/core"
	"tvde/internal/services"
	"tvde/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// respondServiceError maps domain errors onto HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrDeclined):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrPlatformNotFound),
		errors.Is(err, store.ErrDriverNotFound),
		errors.Is(err, store.ErrVehicleNotFound),
		errors.Is(err, store.ErrBackupNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrUnknownDriver),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidRegion),
		errors.Is(err, core.ErrInvalidEntityType),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidCategory),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrMissingDriver),
		errors.Is(err, core.ErrMissingVehicle),
		errors.Is(err, core.ErrMissingPlatform),
		errors.Is(err, core.ErrMissingCategory):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// confirmFromRequest turns the confirm query parameter into a confirmation
// callback: the client acknowledges the prompt up front with confirm=true.
func confirmFromRequest(r *http.Request) services.ConfirmFunc {
	confirmed := r.URL.Query().Get("confirm") == "true"
	return func(string) bool { return confirmed }
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// The store is loaded before the server starts, so readiness reduces
	// to the collections being servable.
	checks := map[string]string{"store": "ok"}
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
		"checks": checks,
	})
}
