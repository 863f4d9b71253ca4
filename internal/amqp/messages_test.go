package amqp

import (
	"testing"
	"time"
)

func TestNewEvent(t *testing.T) {
	e := NewEvent(EventTransactionSaved, "tx-1")

	if e.Kind != EventTransactionSaved {
		t.Errorf("Kind = %v, want %v", e.Kind, EventTransactionSaved)
	}
	if e.ID != "tx-1" {
		t.Errorf("ID = %v, want tx-1", e.ID)
	}
	if e.OccurredAt.IsZero() {
		t.Error("OccurredAt should not be zero")
	}
	if time.Since(e.OccurredAt) > time.Second {
		t.Error("OccurredAt should be recent")
	}
}

func TestEventJSONRoundTrip(t *testing.T) {
	e := Event{
		Kind:       EventBackupCreated,
		ID:         "b-9",
		OccurredAt: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := e.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := EventFromJSON(data)
	if err != nil {
		t.Fatalf("EventFromJSON() error = %v", err)
	}
	if parsed.Kind != e.Kind || parsed.ID != e.ID || !parsed.OccurredAt.Equal(e.OccurredAt) {
		t.Errorf("round trip mismatch: %+v vs %+v", parsed, e)
	}
}

func TestEventFromInvalidJSON(t *testing.T) {
	if _, err := EventFromJSON([]byte(`{"kind": 7}`)); err == nil {
		t.Error("EventFromJSON() should fail with invalid JSON")
	}
}
