// Package services orchestrates the domain over the entity store: the
// ledger service runs the derivation engine and mutation cascades, the
// backup service manages snapshots.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"tvde/internal/amqp"
	"tvde/internal/core"
	"tvde/internal/store"
)

// ConfirmFunc is the confirmation boundary for destructive operations.
// Returning false aborts the operation with ErrDeclined and no mutation.
type ConfirmFunc func(prompt string) bool

// EventPublisher notifies about ledger mutations. A nil publisher is valid
// and publishing failures never fail the originating request.
type EventPublisher interface {
	Publish(ctx context.Context, e amqp.Event) error
}

var ErrDeclined = errors.New("operation declined")

const deletePrompt = "Tem a certeza que deseja apagar este item? Esta ação não pode ser revertida."

type Ledger struct {
	store  *store.Store
	events EventPublisher
	newID  core.IDFunc
}

func NewLedger(st *store.Store, events EventPublisher, newID core.IDFunc) *Ledger {
	if newID == nil {
		newID = uuid.NewString
	}
	return &Ledger{store: st, events: events, newID: newID}
}

// SaveTransaction validates and persists a user entry together with its
// derived tax children. When idToReplace is set the target transaction and
// all its children are removed first and the edited transaction keeps the
// original ID. The store's transaction collection is swapped in one unit;
// nothing is mutated on a validation failure.
func (l *Ledger) SaveTransaction(ctx context.Context, in core.TransactionInput, idToReplace string) (core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}

	driver, ok := l.store.DriverByID(in.DriverID)
	if !ok {
		return core.Transaction{}, fmt.Errorf("%w: %s", core.ErrUnknownDriver, in.DriverID)
	}
	if _, ok := l.store.VehicleByID(in.VehicleID); !ok {
		return core.Transaction{}, fmt.Errorf("%w: %s", core.ErrMissingVehicle, in.VehicleID)
	}
	if in.Type == core.Income {
		if _, ok := l.store.PlatformByID(in.PlatformID); !ok {
			return core.Transaction{}, fmt.Errorf("%w: %s", core.ErrMissingPlatform, in.PlatformID)
		}
	}

	mainID := idToReplace
	if mainID == "" {
		mainID = l.newID()
	}

	derived := core.Derive(in, driver, mainID, l.newID)

	existing := l.store.Transactions()
	next := make([]core.Transaction, 0, len(existing)+len(derived))
	for _, t := range existing {
		if idToReplace != "" && (t.ID == idToReplace || t.ParentID == idToReplace) {
			continue
		}
		next = append(next, t)
	}
	next = append(next, derived...)

	if err := l.store.ReplaceTransactions(ctx, next); err != nil {
		return core.Transaction{}, fmt.Errorf("save transactions: %w", err)
	}

	l.publish(ctx, amqp.NewEvent(amqp.EventTransactionSaved, mainID))

	slog.InfoContext(ctx, "Transaction saved",
		"id", mainID,
		"type", string(in.Type),
		"amount", in.Amount,
		"children", len(derived)-1,
		"edited", idToReplace != "")

	return derived[0], nil
}

// DeleteTransaction removes a transaction and every transaction whose
// ParentID matches it. Deleting a missing ID is a no-op; deleting a child
// removes only the child.
func (l *Ledger) DeleteTransaction(ctx context.Context, id string, confirm ConfirmFunc) error {
	if confirm != nil && !confirm(deletePrompt) {
		return ErrDeclined
	}

	existing := l.store.Transactions()
	next := make([]core.Transaction, 0, len(existing))
	for _, t := range existing {
		if t.ID == id || t.ParentID == id {
			continue
		}
		next = append(next, t)
	}
	if len(next) == len(existing) {
		return nil
	}

	if err := l.store.ReplaceTransactions(ctx, next); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	l.publish(ctx, amqp.NewEvent(amqp.EventTransactionDeleted, id))

	slog.InfoContext(ctx, "Transaction deleted", "id", id, "removed", len(existing)-len(next))
	return nil
}

// Summarize aggregates the current transaction set. Read-only.
func (l *Ledger) Summarize(f core.Filter) core.Summary {
	return core.Summarize(l.store.Transactions(), l.store.Drivers(), f)
}

func (l *Ledger) AddPlatform(ctx context.Context, p core.Platform) (core.Platform, error) {
	if err := p.Validate(); err != nil {
		return core.Platform{}, err
	}
	p.ID = l.newID()
	if err := l.store.AddPlatform(ctx, p); err != nil {
		return core.Platform{}, err
	}
	return p, nil
}

func (l *Ledger) UpdatePlatform(ctx context.Context, p core.Platform) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return l.store.UpdatePlatform(ctx, p)
}

func (l *Ledger) DeletePlatform(ctx context.Context, id string, confirm ConfirmFunc) error {
	if confirm != nil && !confirm(deletePrompt) {
		return ErrDeclined
	}
	return l.store.DeletePlatform(ctx, id)
}

func (l *Ledger) AddDriver(ctx context.Context, d core.Driver) (core.Driver, error) {
	if err := d.Validate(); err != nil {
		return core.Driver{}, err
	}
	d.ID = l.newID()
	if err := l.store.AddDriver(ctx, d); err != nil {
		return core.Driver{}, err
	}
	return d, nil
}

func (l *Ledger) UpdateDriver(ctx context.Context, d core.Driver) error {
	if err := d.Validate(); err != nil {
		return err
	}
	return l.store.UpdateDriver(ctx, d)
}

// DeleteDriver removes the driver only. Historical transactions keep their
// dangling reference and resolve to "unknown" at display time.
func (l *Ledger) DeleteDriver(ctx context.Context, id string, confirm ConfirmFunc) error {
	if confirm != nil && !confirm(deletePrompt) {
		return ErrDeclined
	}
	return l.store.DeleteDriver(ctx, id)
}

func (l *Ledger) AddVehicle(ctx context.Context, v core.Vehicle) (core.Vehicle, error) {
	if err := v.Validate(); err != nil {
		return core.Vehicle{}, err
	}
	v.ID = l.newID()
	if err := l.store.AddVehicle(ctx, v); err != nil {
		return core.Vehicle{}, err
	}
	return v, nil
}

func (l *Ledger) UpdateVehicle(ctx context.Context, v core.Vehicle) error {
	if err := v.Validate(); err != nil {
		return err
	}
	return l.store.UpdateVehicle(ctx, v)
}

func (l *Ledger) DeleteVehicle(ctx context.Context, id string, confirm ConfirmFunc) error {
	if confirm != nil && !confirm(deletePrompt) {
		return ErrDeclined
	}
	return l.store.DeleteVehicle(ctx, id)
}

func (l *Ledger) publish(ctx context.Context, e amqp.Event) {
	if l.events == nil {
		return
	}
	if err := l.events.Publish(ctx, e); err != nil {
		// The mutation is already persisted; a broker outage must not
		// surface to the user.
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"kind", e.Kind, "id", e.ID, "error", err)
	}
}
