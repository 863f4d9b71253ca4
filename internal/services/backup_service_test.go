package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"tvde/internal/core"
	"tvde/internal/storage"
	"tvde/internal/store"
)

func newBackupFixture(t *testing.T) (*BackupService, *store.Store, *time.Time) {
	t.Helper()
	ctx := context.Background()

	st := store.New(storage.NewMemoryRepository())
	if err := st.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if err := st.AddDriver(ctx, core.Driver{ID: "d1", Name: "Ana", Region: core.Continental, EntityType: core.ENI}); err != nil {
		t.Fatal(err)
	}

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewBackupService(st, nil, seqIDs("bk"), func() time.Time { return now })
	return svc, st, &now
}

func countByType(backups []core.Backup, typ core.BackupType) int {
	n := 0
	for _, b := range backups {
		if b.Type == typ {
			n++
		}
	}
	return n
}

func TestAutoSnapshotSkipsEmptyStore(t *testing.T) {
	ctx := context.Background()
	st := store.New(storage.NewMemoryRepository())
	if err := st.Load(ctx); err != nil {
		t.Fatal(err)
	}
	svc := NewBackupService(st, nil, seqIDs("bk"), time.Now)

	created, err := svc.MaybeCreateAutoSnapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Fatal("snapshot created for an empty store")
	}
	if len(st.Backups()) != 0 {
		t.Fatal("backups list mutated")
	}
}

func TestAutoSnapshotCadence(t *testing.T) {
	ctx := context.Background()
	svc, st, now := newBackupFixture(t)

	created, err := svc.MaybeCreateAutoSnapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Fatal("first snapshot not created")
	}

	// Six days later: still inside the window.
	*now = now.Add(6 * 24 * time.Hour)
	if created, _ = svc.MaybeCreateAutoSnapshot(ctx); created {
		t.Fatal("snapshot created before the interval elapsed")
	}

	// Just past seven days: due again.
	*now = now.Add(24*time.Hour + time.Minute)
	if created, _ = svc.MaybeCreateAutoSnapshot(ctx); !created {
		t.Fatal("snapshot not created after the interval elapsed")
	}
	if n := countByType(st.Backups(), core.BackupAuto); n != 2 {
		t.Fatalf("expected 2 auto snapshots, got %d", n)
	}
}

func TestAutoSnapshotCapEvictsOldest(t *testing.T) {
	ctx := context.Background()
	svc, st, now := newBackupFixture(t)

	if _, err := svc.CreateManualSnapshot(ctx); err != nil {
		t.Fatal(err)
	}

	var firstAutoID string
	for i := 0; i < MaxAutoSnapshots+2; i++ {
		created, err := svc.MaybeCreateAutoSnapshot(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if !created {
			t.Fatalf("snapshot %d not created", i)
		}
		if i == 0 {
			for _, b := range st.Backups() {
				if b.Type == core.BackupAuto {
					firstAutoID = b.ID
				}
			}
		}
		*now = now.Add(8 * 24 * time.Hour)
	}

	backups := st.Backups()
	if n := countByType(backups, core.BackupAuto); n != MaxAutoSnapshots {
		t.Fatalf("auto snapshots not capped: got %d, want %d", n, MaxAutoSnapshots)
	}
	if n := countByType(backups, core.BackupManual); n != 1 {
		t.Fatalf("manual snapshot touched by the auto rotation: got %d", n)
	}
	for _, b := range backups {
		if b.ID == firstAutoID {
			t.Fatal("oldest auto snapshot not evicted")
		}
	}
}

func TestManualSnapshotsUncapped(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newBackupFixture(t)

	for i := 0; i < MaxAutoSnapshots+3; i++ {
		if _, err := svc.CreateManualSnapshot(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if n := countByType(st.Backups(), core.BackupManual); n != MaxAutoSnapshots+3 {
		t.Fatalf("manual snapshots must not be capped: got %d", n)
	}
}

func TestRestoreBackup(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newBackupFixture(t)

	snapshot, err := svc.CreateManualSnapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}

	// Mutate after the snapshot, then restore.
	if err := st.AddDriver(ctx, core.Driver{ID: "d2", Name: "Rui", Region: core.Madeira, EntityType: core.Empresa}); err != nil {
		t.Fatal(err)
	}

	if err := svc.RestoreBackup(ctx, snapshot.ID, func(string) bool { return true }); err != nil {
		t.Fatal(err)
	}
	if len(st.Drivers()) != 1 {
		t.Fatalf("restore did not replace the collections: %d drivers", len(st.Drivers()))
	}
	if _, ok := st.DriverByID("d2"); ok {
		t.Fatal("post-snapshot driver survived the restore")
	}
}

func TestRestoreBackupDeclined(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newBackupFixture(t)

	snapshot, err := svc.CreateManualSnapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.AddDriver(ctx, core.Driver{ID: "d2", Name: "Rui", Region: core.Acores, EntityType: core.ENI}); err != nil {
		t.Fatal(err)
	}

	err = svc.RestoreBackup(ctx, snapshot.ID, func(string) bool { return false })
	if !errors.Is(err, ErrDeclined) {
		t.Fatalf("got %v, want ErrDeclined", err)
	}
	if len(st.Drivers()) != 2 {
		t.Fatal("declined restore must not mutate")
	}
}

func TestRestoreBackupNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newBackupFixture(t)

	err := svc.RestoreBackup(ctx, "ghost", nil)
	if !errors.Is(err, store.ErrBackupNotFound) {
		t.Fatalf("got %v, want ErrBackupNotFound", err)
	}
}

func TestDeleteBackup(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newBackupFixture(t)

	snapshot, err := svc.CreateManualSnapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteBackup(ctx, snapshot.ID, func(string) bool { return true }); err != nil {
		t.Fatal(err)
	}
	if len(st.Backups()) != 0 {
		t.Fatal("backup not deleted")
	}

	// Deleting again is a no-op.
	if err := svc.DeleteBackup(ctx, snapshot.ID, nil); err != nil {
		t.Fatalf("repeated delete must be a no-op, got %v", err)
	}
}
