package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestSQLiteRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "tvde.db")

	repo, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer repo.Close()

	if _, err := repo.Load(ctx, KeyTransactions); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("empty key: got %v, want ErrKeyNotFound", err)
	}

	payload := []byte(`[{"id":"t1"}]`)
	if err := repo.Save(ctx, KeyTransactions, payload); err != nil {
		t.Fatal(err)
	}

	got, err := repo.Load(ctx, KeyTransactions)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(payload) {
		t.Fatalf("got %s, want %s", got, payload)
	}

	// Overwrite must replace, not append.
	updated := []byte(`[]`)
	if err := repo.Save(ctx, KeyTransactions, updated); err != nil {
		t.Fatal(err)
	}
	got, err = repo.Load(ctx, KeyTransactions)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(updated) {
		t.Fatalf("got %s, want %s", got, updated)
	}
}

func TestSQLiteRepositoryReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "tvde.db")

	repo, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.Save(ctx, KeyDrivers, []byte(`[{"id":"d1"}]`)); err != nil {
		t.Fatal(err)
	}
	if err := repo.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	got, err := reopened.Load(ctx, KeyDrivers)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `[{"id":"d1"}]` {
		t.Fatalf("data lost across reopen: %s", got)
	}
}

func TestMemoryRepositoryIsolation(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	payload := []byte(`[1,2,3]`)
	if err := repo.Save(ctx, KeyPlatforms, payload); err != nil {
		t.Fatal(err)
	}
	payload[0] = 'x'

	got, err := repo.Load(ctx, KeyPlatforms)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `[1,2,3]` {
		t.Fatalf("stored bytes aliased the caller's slice: %s", got)
	}

	got[0] = 'y'
	again, _ := repo.Load(ctx, KeyPlatforms)
	if string(again) != `[1,2,3]` {
		t.Fatalf("loaded bytes aliased the stored slice: %s", again)
	}
}
