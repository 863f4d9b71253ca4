package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tvde/internal/core"
)

// backupView is the listing shape: snapshot metadata without the payload.
type backupView struct {
	ID           string          `json:"id"`
	Date         time.Time       `json:"date"`
	Type         core.BackupType `json:"type"`
	Transactions int             `json:"transactions"`
	Drivers      int             `json:"drivers"`
	Vehicles     int             `json:"vehicles"`
	Platforms    int             `json:"platforms"`
}

func toBackupView(b core.Backup) backupView {
	return backupView{
		ID:           b.ID,
		Date:         b.Date,
		Type:         b.Type,
		Transactions: len(b.Data.Transactions),
		Drivers:      len(b.Data.Drivers),
		Vehicles:     len(b.Data.Vehicles),
		Platforms:    len(b.Data.Platforms),
	}
}

func (s *Server) handleListBackups(w http.ResponseWriter, r *http.Request) {
	backups := s.backups.ListBackups()
	views := make([]backupView, 0, len(backups))
	for _, b := range backups {
		views = append(views, toBackupView(b))
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateBackup(w http.ResponseWriter, r *http.Request) {
	backup, err := s.backups.CreateManualSnapshot(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toBackupView(backup))
}

func (s *Server) handleRestoreBackup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.backups.RestoreBackup(r.Context(), id, confirmFromRequest(r)); err != nil {
		respondServiceError(w, err)
		return
	}

	s.invalidateSummaries()
	respondJSON(w, http.StatusOK, map[string]string{"restored": id})
}

func (s *Server) handleDeleteBackup(w http.ResponseWriter, r *http.Request) {
	if err := s.backups.DeleteBackup(r.Context(), chi.URLParam(r, "id"), confirmFromRequest(r)); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
