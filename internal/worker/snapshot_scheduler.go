package worker

import (
	"context"
	"log/slog"
	"time"

	"tvde/internal/services"
	"tvde/internal/store"
)

// SnapshotScheduler periodically asks the backup service whether an auto
// snapshot is due. The service enforces the actual cadence, so the check
// interval only bounds detection latency.
type SnapshotScheduler struct {
	store    *store.Store
	backups  *services.BackupService
	interval time.Duration
}

func NewSnapshotScheduler(st *store.Store, backups *services.BackupService, interval time.Duration) *SnapshotScheduler {
	return &SnapshotScheduler{store: st, backups: backups, interval: interval}
}

// Run blocks until the context is canceled. A check runs immediately on
// start and then on every tick.
func (s *SnapshotScheduler) Run(ctx context.Context) error {
	s.check(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Snapshot scheduler stopping")
			return ctx.Err()
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

func (s *SnapshotScheduler) check(ctx context.Context) {
	if err := s.store.Load(ctx); err != nil {
		slog.ErrorContext(ctx, "Store reload failed", "error", err)
		return
	}

	created, err := s.backups.MaybeCreateAutoSnapshot(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Auto snapshot failed", "error", err)
		return
	}
	if created {
		slog.InfoContext(ctx, "Auto snapshot taken")
	}
}
