package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tvde/internal/core"
)

// filterFromQuery builds a transaction filter from driverId, vehicleId,
// startDate and endDate query parameters. Absent parameters leave the
// filter open.
func filterFromQuery(r *http.Request) (core.Filter, error) {
	q := r.URL.Query()
	f := core.Filter{
		DriverID:  q.Get("driverId"),
		VehicleID: q.Get("vehicleId"),
	}

	if v := q.Get("startDate"); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return core.Filter{}, err
		}
		f.StartDate = d
	}
	if v := q.Get("endDate"); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return core.Filter{}, err
		}
		f.EndDate = d
	}
	return f, nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	txs := core.FilterTransactions(s.store.Transactions(), f)
	if txs == nil {
		txs = []core.Transaction{}
	}
	respondJSON(w, http.StatusOK, txs)
}

func (s *Server) handleSaveTransaction(w http.ResponseWriter, r *http.Request) {
	var in core.TransactionInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
		return
	}

	tx, err := s.ledger.SaveTransaction(r.Context(), in, "")
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.invalidateSummaries()
	respondJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.store.TransactionByID(id); !ok {
		respondError(w, http.StatusNotFound, "transaction not found: "+id)
		return
	}

	var in core.TransactionInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
		return
	}

	tx, err := s.ledger.SaveTransaction(r.Context(), in, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.invalidateSummaries()
	respondJSON(w, http.StatusOK, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.ledger.DeleteTransaction(r.Context(), id, confirmFromRequest(r)); err != nil {
		respondServiceError(w, err)
		return
	}

	s.invalidateSummaries()
	w.WriteHeader(http.StatusNoContent)
}
