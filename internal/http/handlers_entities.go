package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tvde/internal/core"
)

func (s *Server) handleListPlatforms(w http.ResponseWriter, r *http.Request) {
	platforms := s.store.Platforms()
	if platforms == nil {
		platforms = []core.Platform{}
	}
	respondJSON(w, http.StatusOK, platforms)
}

func (s *Server) handleAddPlatform(w http.ResponseWriter, r *http.Request) {
	var p core.Platform
	if err := decodeJSON(r, &p); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
		return
	}

	created, err := s.ledger.AddPlatform(r.Context(), p)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdatePlatform(w http.ResponseWriter, r *http.Request) {
	var p core.Platform
	if err := decodeJSON(r, &p); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
		return
	}
	p.ID = chi.URLParam(r, "id")

	if err := s.ledger.UpdatePlatform(r.Context(), p); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePlatform(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeletePlatform(r.Context(), chi.URLParam(r, "id"), confirmFromRequest(r)); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListDrivers(w http.ResponseWriter, r *http.Request) {
	drivers := s.store.Drivers()
	if drivers == nil {
		drivers = []core.Driver{}
	}
	respondJSON(w, http.StatusOK, drivers)
}

func (s *Server) handleAddDriver(w http.ResponseWriter, r *http.Request) {
	var d core.Driver
	if err := decodeJSON(r, &d); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
		return
	}

	created, err := s.ledger.AddDriver(r.Context(), d)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	// Driver rates and region feed the tax estimates, so cached summaries
	// are stale the moment a driver changes.
	s.invalidateSummaries()
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateDriver(w http.ResponseWriter, r *http.Request) {
	var d core.Driver
	if err := decodeJSON(r, &d); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
		return
	}
	d.ID = chi.URLParam(r, "id")

	if err := s.ledger.UpdateDriver(r.Context(), d); err != nil {
		respondServiceError(w, err)
		return
	}

	s.invalidateSummaries()
	respondJSON(w, http.StatusOK, d)
}

func (s *Server) handleDeleteDriver(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteDriver(r.Context(), chi.URLParam(r, "id"), confirmFromRequest(r)); err != nil {
		respondServiceError(w, err)
		return
	}

	s.invalidateSummaries()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles := s.store.Vehicles()
	if vehicles == nil {
		vehicles = []core.Vehicle{}
	}
	respondJSON(w, http.StatusOK, vehicles)
}

func (s *Server) handleAddVehicle(w http.ResponseWriter, r *http.Request) {
	var v core.Vehicle
	if err := decodeJSON(r, &v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
		return
	}

	created, err := s.ledger.AddVehicle(r.Context(), v)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	var v core.Vehicle
	if err := decodeJSON(r, &v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
		return
	}
	v.ID = chi.URLParam(r, "id")

	if err := s.ledger.UpdateVehicle(r.Context(), v); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, v)
}

func (s *Server) handleDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteVehicle(r.Context(), chi.URLParam(r, "id"), confirmFromRequest(r)); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
