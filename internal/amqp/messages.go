package amqp

import (
	"encoding/json"
	"time"
)

// Event kinds published by the ledger.
const (
	EventTransactionSaved   = "transaction_saved"
	EventTransactionDeleted = "transaction_deleted"
	EventBackupCreated      = "backup_created"
)

// Event is a lightweight mutation notification. It carries only the entity
// ID; consumers fetch the current state from the store themselves.
type Event struct {
	Kind       string    `json:"kind"`
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(kind, id string) Event {
	return Event{Kind: kind, ID: id, OccurredAt: time.Now().UTC()}
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func EventFromJSON(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}
