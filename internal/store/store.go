// Package store owns the in-memory entity collections and binds them to the
// persistence boundary. Mutations compute the new collection fully, persist
// it, then swap it in as one unit; readers always observe a consistent set.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"tvde/internal/core"
	"tvde/internal/storage"
)

var (
	ErrPlatformNotFound = errors.New("platform not found")
	ErrDriverNotFound   = errors.New("driver not found")
	ErrVehicleNotFound  = errors.New("vehicle not found")
	ErrBackupNotFound   = errors.New("backup not found")
)

type Store struct {
	mu   sync.RWMutex
	repo storage.CollectionRepository

	platforms    []core.Platform
	drivers      []core.Driver
	vehicles     []core.Vehicle
	transactions []core.Transaction
	backups      []core.Backup
}

func New(repo storage.CollectionRepository) *Store {
	return &Store{repo: repo}
}

// Load reads every collection from the repository. Missing keys default to
// empty collections.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := loadInto(ctx, s.repo, storage.KeyPlatforms, &s.platforms); err != nil {
		return err
	}
	if err := loadInto(ctx, s.repo, storage.KeyDrivers, &s.drivers); err != nil {
		return err
	}
	if err := loadInto(ctx, s.repo, storage.KeyVehicles, &s.vehicles); err != nil {
		return err
	}
	if err := loadInto(ctx, s.repo, storage.KeyTransactions, &s.transactions); err != nil {
		return err
	}
	return loadInto(ctx, s.repo, storage.KeyBackups, &s.backups)
}

func loadInto[T any](ctx context.Context, repo storage.CollectionRepository, key string, dst *[]T) error {
	data, err := repo.Load(ctx, key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		*dst = nil
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *Store) persist(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.repo.Save(ctx, key, data)
}

// Platforms returns a copy of the platform collection.
func (s *Store) Platforms() []core.Platform {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Platform(nil), s.platforms...)
}

func (s *Store) Drivers() []core.Driver {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Driver(nil), s.drivers...)
}

func (s *Store) Vehicles() []core.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Vehicle(nil), s.vehicles...)
}

func (s *Store) Transactions() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Transaction(nil), s.transactions...)
}

func (s *Store) Backups() []core.Backup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Backup(nil), s.backups...)
}

func (s *Store) DriverByID(id string) (core.Driver, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.drivers {
		if d.ID == id {
			return d, true
		}
	}
	return core.Driver{}, false
}

func (s *Store) VehicleByID(id string) (core.Vehicle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.vehicles {
		if v.ID == id {
			return v, true
		}
	}
	return core.Vehicle{}, false
}

func (s *Store) PlatformByID(id string) (core.Platform, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.platforms {
		if p.ID == id {
			return p, true
		}
	}
	return core.Platform{}, false
}

func (s *Store) TransactionByID(id string) (core.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.transactions {
		if t.ID == id {
			return t, true
		}
	}
	return core.Transaction{}, false
}

func (s *Store) BackupByID(id string) (core.Backup, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.backups {
		if b.ID == id {
			return b, true
		}
	}
	return core.Backup{}, false
}

// ReplaceTransactions swaps in a new transaction collection after
// persisting it.
func (s *Store) ReplaceTransactions(ctx context.Context, txs []core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(ctx, storage.KeyTransactions, txs); err != nil {
		return err
	}
	s.transactions = txs
	return nil
}

// ReplaceBackups swaps in a new backup collection after persisting it.
func (s *Store) ReplaceBackups(ctx context.Context, backups []core.Backup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(ctx, storage.KeyBackups, backups); err != nil {
		return err
	}
	s.backups = backups
	return nil
}

func (s *Store) AddPlatform(ctx context.Context, p core.Platform) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(append([]core.Platform(nil), s.platforms...), p)
	if err := s.persist(ctx, storage.KeyPlatforms, next); err != nil {
		return err
	}
	s.platforms = next
	return nil
}

func (s *Store) UpdatePlatform(ctx context.Context, p core.Platform) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := append([]core.Platform(nil), s.platforms...)
	for i := range next {
		if next[i].ID == p.ID {
			next[i] = p
			if err := s.persist(ctx, storage.KeyPlatforms, next); err != nil {
				return err
			}
			s.platforms = next
			return nil
		}
	}
	return ErrPlatformNotFound
}

func (s *Store) DeletePlatform(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]core.Platform, 0, len(s.platforms))
	for _, p := range s.platforms {
		if p.ID != id {
			next = append(next, p)
		}
	}
	if err := s.persist(ctx, storage.KeyPlatforms, next); err != nil {
		return err
	}
	s.platforms = next
	return nil
}

func (s *Store) AddDriver(ctx context.Context, d core.Driver) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(append([]core.Driver(nil), s.drivers...), d)
	if err := s.persist(ctx, storage.KeyDrivers, next); err != nil {
		return err
	}
	s.drivers = next
	return nil
}

func (s *Store) UpdateDriver(ctx context.Context, d core.Driver) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := append([]core.Driver(nil), s.drivers...)
	for i := range next {
		if next[i].ID == d.ID {
			next[i] = d
			if err := s.persist(ctx, storage.KeyDrivers, next); err != nil {
				return err
			}
			s.drivers = next
			return nil
		}
	}
	return ErrDriverNotFound
}

func (s *Store) DeleteDriver(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]core.Driver, 0, len(s.drivers))
	for _, d := range s.drivers {
		if d.ID != id {
			next = append(next, d)
		}
	}
	if err := s.persist(ctx, storage.KeyDrivers, next); err != nil {
		return err
	}
	s.drivers = next
	return nil
}

func (s *Store) AddVehicle(ctx context.Context, v core.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(append([]core.Vehicle(nil), s.vehicles...), v)
	if err := s.persist(ctx, storage.KeyVehicles, next); err != nil {
		return err
	}
	s.vehicles = next
	return nil
}

func (s *Store) UpdateVehicle(ctx context.Context, v core.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := append([]core.Vehicle(nil), s.vehicles...)
	for i := range next {
		if next[i].ID == v.ID {
			next[i] = v
			if err := s.persist(ctx, storage.KeyVehicles, next); err != nil {
				return err
			}
			s.vehicles = next
			return nil
		}
	}
	return ErrVehicleNotFound
}

func (s *Store) DeleteVehicle(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]core.Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		if v.ID != id {
			next = append(next, v)
		}
	}
	if err := s.persist(ctx, storage.KeyVehicles, next); err != nil {
		return err
	}
	s.vehicles = next
	return nil
}

// Snapshot returns a deep copy of the four entity collections.
func (s *Store) Snapshot() core.AppData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return core.AppData{
		Platforms:    s.platforms,
		Drivers:      s.drivers,
		Vehicles:     s.vehicles,
		Transactions: s.transactions,
	}.Clone()
}

// Restore replaces all four entity collections with the snapshot's data.
// All collections are persisted; the in-memory swap happens only after
// every save succeeded. Backups themselves are untouched.
func (s *Store) Restore(ctx context.Context, data core.AppData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data = data.Clone()
	if err := s.persist(ctx, storage.KeyPlatforms, data.Platforms); err != nil {
		return err
	}
	if err := s.persist(ctx, storage.KeyDrivers, data.Drivers); err != nil {
		return err
	}
	if err := s.persist(ctx, storage.KeyVehicles, data.Vehicles); err != nil {
		return err
	}
	if err := s.persist(ctx, storage.KeyTransactions, data.Transactions); err != nil {
		return err
	}

	s.platforms = data.Platforms
	s.drivers = data.Drivers
	s.vehicles = data.Vehicles
	s.transactions = data.Transactions
	return nil
}
