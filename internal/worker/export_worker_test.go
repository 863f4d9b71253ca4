package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"tvde/internal/amqp"
	"tvde/internal/core"
	"tvde/internal/storage"
	"tvde/internal/store"
)

type fakeWriter struct {
	rows []core.Transaction
	err  error
}

func (f *fakeWriter) Append(_ context.Context, tx core.Transaction, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.rows = append(f.rows, tx)
	return "Transações!A2:G2", nil
}

func newExportFixture(t *testing.T) (*ExportWorker, *store.Store, *fakeWriter) {
	t.Helper()
	ctx := context.Background()

	st := store.New(storage.NewMemoryRepository())
	if err := st.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if err := st.AddDriver(ctx, core.Driver{ID: "d1", Name: "Ana", Region: core.Continental, EntityType: core.ENI}); err != nil {
		t.Fatal(err)
	}
	if err := st.ReplaceTransactions(ctx, []core.Transaction{{
		ID:          "t1",
		Date:        core.NewDate(2025, 3, 10),
		Type:        core.Income,
		Amount:      100,
		Description: "Viagens",
		DriverID:    "d1",
		VehicleID:   "v1",
		PlatformID:  "p1",
	}}); err != nil {
		t.Fatal(err)
	}

	w := &fakeWriter{}
	return NewExportWorker(st, w), st, w
}

func TestHandleEventExportsTransaction(t *testing.T) {
	ctx := context.Background()
	worker, _, writer := newExportFixture(t)

	e := amqp.Event{Kind: amqp.EventTransactionSaved, ID: "t1", OccurredAt: time.Now()}
	if err := worker.HandleEvent(ctx, e); err != nil {
		t.Fatal(err)
	}
	if len(writer.rows) != 1 || writer.rows[0].ID != "t1" {
		t.Fatalf("exported rows: %+v", writer.rows)
	}
}

func TestHandleEventMissingTransactionIsSkipped(t *testing.T) {
	ctx := context.Background()
	worker, _, writer := newExportFixture(t)

	e := amqp.Event{Kind: amqp.EventTransactionSaved, ID: "ghost", OccurredAt: time.Now()}
	if err := worker.HandleEvent(ctx, e); err != nil {
		t.Fatalf("missing transaction must not error: %v", err)
	}
	if len(writer.rows) != 0 {
		t.Fatal("nothing should have been exported")
	}
}

func TestHandleEventWriterFailurePropagates(t *testing.T) {
	ctx := context.Background()
	worker, _, writer := newExportFixture(t)
	writer.err = errors.New("sheets unavailable")

	e := amqp.Event{Kind: amqp.EventTransactionSaved, ID: "t1", OccurredAt: time.Now()}
	if err := worker.HandleEvent(ctx, e); err == nil {
		t.Fatal("expected writer failure to propagate for requeue")
	}
}

func TestHandleEventIgnoresOtherKinds(t *testing.T) {
	ctx := context.Background()
	worker, _, writer := newExportFixture(t)

	for _, kind := range []string{amqp.EventTransactionDeleted, amqp.EventBackupCreated, "unknown_kind"} {
		e := amqp.Event{Kind: kind, ID: "t1", OccurredAt: time.Now()}
		if err := worker.HandleEvent(ctx, e); err != nil {
			t.Fatalf("kind %s: %v", kind, err)
		}
	}
	if len(writer.rows) != 0 {
		t.Fatal("non-save events must not export")
	}
}
