package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tvde/internal/core"
)

func summaryCacheKey(f core.Filter) string {
	return fmt.Sprintf("summary|%s|%s|%s|%s", f.DriverID, f.VehicleID, f.StartDate, f.EndDate)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	key := summaryCacheKey(f)
	if cached, ok := s.summaryCache.Get(key); ok {
		respondJSON(w, http.StatusOK, cached.(core.Summary))
		return
	}

	summary := s.ledger.Summarize(f)
	s.summaryCache.SetDefault(key, summary)
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handlePeriodReport(w http.ResponseWriter, r *http.Request) {
	period := core.Period(chi.URLParam(r, "period"))

	f, err := filterFromQuery(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	report, err := core.SummarizePeriod(s.store.Transactions(), s.store.Drivers(), f, period, time.Now())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, report)
}
