package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tvde/internal/amqp"
	"tvde/internal/core"
	"tvde/internal/store"
)

// Auto snapshots are taken at most once per week and only the newest four
// are retained. Manual snapshots are never pruned.
const (
	AutoSnapshotInterval = 7 * 24 * time.Hour
	MaxAutoSnapshots     = 4
)

const (
	restorePrompt = "Tem a certeza que deseja restaurar este backup? Todos os dados atuais serão substituídos e esta ação não pode ser revertida."
	deleteBackupPrompt = "Tem a certeza que deseja apagar este backup?"
)

type BackupService struct {
	store  *store.Store
	events EventPublisher
	newID  core.IDFunc
	now    func() time.Time
}

func NewBackupService(st *store.Store, events EventPublisher, newID core.IDFunc, now func() time.Time) *BackupService {
	if newID == nil {
		newID = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	return &BackupService{store: st, events: events, newID: newID, now: now}
}

// MaybeCreateAutoSnapshot creates an auto snapshot when none exists yet or
// the most recent one is older than a week, and the store holds any data.
// It is idempotent and safe to re-run on every mutation; the returned bool
// reports whether a snapshot was created.
func (s *BackupService) MaybeCreateAutoSnapshot(ctx context.Context) (bool, error) {
	data := s.store.Snapshot()
	if data.IsEmpty() {
		return false, nil
	}

	backups := s.store.Backups()
	var manual, auto []core.Backup
	for _, b := range backups {
		if b.Type == core.BackupAuto {
			auto = append(auto, b)
		} else {
			manual = append(manual, b)
		}
	}

	var latest time.Time
	for _, b := range auto {
		if b.Date.After(latest) {
			latest = b.Date
		}
	}
	if !latest.IsZero() && s.now().Sub(latest) <= AutoSnapshotInterval {
		return false, nil
	}

	snapshot := core.Backup{
		ID:   s.newID(),
		Date: s.now(),
		Type: core.BackupAuto,
		Data: data,
	}

	// Newest first, capped; manual snapshots are untouched.
	auto = append([]core.Backup{snapshot}, auto...)
	if len(auto) > MaxAutoSnapshots {
		auto = auto[:MaxAutoSnapshots]
	}

	if err := s.store.ReplaceBackups(ctx, append(manual, auto...)); err != nil {
		return false, fmt.Errorf("store auto snapshot: %w", err)
	}

	s.publish(ctx, amqp.NewEvent(amqp.EventBackupCreated, snapshot.ID))
	slog.InfoContext(ctx, "Auto snapshot created", "id", snapshot.ID, "retained", len(auto))
	return true, nil
}

// CreateManualSnapshot always creates a snapshot; manual snapshots are
// retained until explicitly deleted.
func (s *BackupService) CreateManualSnapshot(ctx context.Context) (core.Backup, error) {
	snapshot := core.Backup{
		ID:   s.newID(),
		Date: s.now(),
		Type: core.BackupManual,
		Data: s.store.Snapshot(),
	}

	if err := s.store.ReplaceBackups(ctx, append(s.store.Backups(), snapshot)); err != nil {
		return core.Backup{}, fmt.Errorf("store manual snapshot: %w", err)
	}

	s.publish(ctx, amqp.NewEvent(amqp.EventBackupCreated, snapshot.ID))
	slog.InfoContext(ctx, "Manual snapshot created", "id", snapshot.ID)
	return snapshot, nil
}

// RestoreBackup replaces the entire entity store with the snapshot's data.
// Destructive and non-mergeable.
func (s *BackupService) RestoreBackup(ctx context.Context, id string, confirm ConfirmFunc) error {
	backup, ok := s.store.BackupByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", store.ErrBackupNotFound, id)
	}
	if confirm != nil && !confirm(restorePrompt) {
		return ErrDeclined
	}

	if err := s.store.Restore(ctx, backup.Data); err != nil {
		return fmt.Errorf("restore backup %s: %w", id, err)
	}

	slog.InfoContext(ctx, "Backup restored", "id", id, "taken_at", backup.Date)
	return nil
}

// DeleteBackup removes one snapshot. Missing IDs are a no-op.
func (s *BackupService) DeleteBackup(ctx context.Context, id string, confirm ConfirmFunc) error {
	if confirm != nil && !confirm(deleteBackupPrompt) {
		return ErrDeclined
	}

	backups := s.store.Backups()
	next := make([]core.Backup, 0, len(backups))
	for _, b := range backups {
		if b.ID != id {
			next = append(next, b)
		}
	}
	if len(next) == len(backups) {
		return nil
	}
	return s.store.ReplaceBackups(ctx, next)
}

func (s *BackupService) ListBackups() []core.Backup {
	return s.store.Backups()
}

func (s *BackupService) publish(ctx context.Context, e amqp.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, e); err != nil {
		slog.ErrorContext(ctx, "Failed to publish backup event",
			"kind", e.Kind, "id", e.ID, "error", err)
	}
}
