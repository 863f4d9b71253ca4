package worker

import (
	"context"
	"fmt"
	"log/slog"

	"tvde/internal/amqp"
	"tvde/internal/core"
	"tvde/internal/export"
	"tvde/internal/store"
)

// ExportWorker mirrors saved transactions to the configured spreadsheet.
// Deletions are logged but not propagated, the export is an append-only
// journal for the accountant.
type ExportWorker struct {
	store  *store.Store
	writer export.TransactionWriter
}

func NewExportWorker(st *store.Store, writer export.TransactionWriter) *ExportWorker {
	return &ExportWorker{store: st, writer: writer}
}

// HandleEvent processes one event from the queue. Unknown kinds are dropped
// without error so old messages never wedge the queue.
func (w *ExportWorker) HandleEvent(ctx context.Context, e amqp.Event) error {
	switch e.Kind {
	case amqp.EventTransactionSaved:
		return w.exportTransaction(ctx, e.ID)
	case amqp.EventTransactionDeleted:
		slog.InfoContext(ctx, "Transaction deleted upstream, export row kept", "id", e.ID)
		return nil
	case amqp.EventBackupCreated:
		slog.InfoContext(ctx, "Backup created", "id", e.ID)
		return nil
	default:
		slog.WarnContext(ctx, "Dropping event of unknown kind", "kind", e.Kind, "id", e.ID)
		return nil
	}
}

func (w *ExportWorker) exportTransaction(ctx context.Context, id string) error {
	// The worker runs in its own process, so refresh the collections from
	// the shared database before resolving the event.
	if err := w.store.Load(ctx); err != nil {
		return fmt.Errorf("reload store: %w", err)
	}

	// A missing transaction means it was deleted after the event was
	// queued; there is nothing to export.
	tx, ok := w.store.TransactionByID(id)
	if !ok {
		slog.InfoContext(ctx, "Transaction gone before export, skipping", "id", id)
		return nil
	}

	driverName := core.UnknownLabel
	if d, ok := w.store.DriverByID(tx.DriverID); ok {
		driverName = d.Name
	}

	ref, err := w.writer.Append(ctx, tx, driverName)
	if err != nil {
		return fmt.Errorf("export transaction %s: %w", id, err)
	}

	slog.InfoContext(ctx, "Transaction exported", "id", id, "sheets_ref", ref)
	return nil
}
