package export

import (
	"context"
	"testing"

	"tvde/internal/core"
)

func TestTransactionRow(t *testing.T) {
	tx := core.Transaction{
		ID:          "t1",
		Date:        core.NewDate(2025, 3, 10),
		Type:        core.Expense,
		Amount:      20.456,
		Description: "Gasóleo",
		DriverID:    "d1",
		Category:    core.CategoryCombustivel,
	}

	row := transactionRow(tx, "Ana")
	want := []any{"2025-03-10", "Despesa", "Gasóleo", 20.46, "Combustível", "Ana", ""}
	if len(row) != len(want) {
		t.Fatalf("row has %d cells, want %d", len(row), len(want))
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("cell %d: got %v, want %v", i, row[i], want[i])
		}
	}
}

func TestTransactionRowDerived(t *testing.T) {
	tx := core.Transaction{
		ID:          "t1-vat",
		ParentID:    "t1",
		DerivedKind: core.DerivedVATOnIncome,
		Date:        core.NewDate(2025, 3, 10),
		Type:        core.Expense,
		Amount:      5.66,
		Description: "IVA (6%) sobre Viagens",
		DriverID:    "d1",
		Category:    core.CategoryImpostos,
	}

	row := transactionRow(tx, "Ana")
	if row[6] != string(core.DerivedVATOnIncome) {
		t.Errorf("derivation marker: got %v", row[6])
	}
}

func TestNewSheetsClientRequiresConfig(t *testing.T) {
	ctx := context.Background()

	if _, err := NewSheetsClient(ctx, Options{}); err == nil {
		t.Fatal("expected error for missing spreadsheet ID")
	}
	if _, err := NewSheetsClient(ctx, Options{SpreadsheetID: "sheet-id"}); err == nil {
		t.Fatal("expected error for missing credentials")
	}
}
