package core

import (
	"math"
	"strconv"
	"strings"
	"testing"
)

func seqIDs() IDFunc {
	n := 0
	return func() string {
		n++
		return "gen-" + strconv.Itoa(n)
	}
}

func approx(t *testing.T, got, want float64, label string) {
	t.Helper()
	if math.Abs(got-want) > 0.0001 {
		t.Fatalf("%s: got %.4f, want %.4f", label, got, want)
	}
}

func TestDeriveENIContinental(t *testing.T) {
	in := TransactionInput{
		Date:        NewDate(2025, 3, 10),
		Type:        Income,
		Amount:      100,
		Description: "Viagens Uber",
		DriverID:    "d1",
		VehicleID:   "v1",
		PlatformID:  "p1",
	}
	driver := Driver{ID: "d1", Region: Continental, EntityType: ENI, IRSRate: 20, SSRate: 21.4}

	txs := Derive(in, driver, "main-1", seqIDs())
	if len(txs) != 4 {
		t.Fatalf("expected main + 3 children, got %d", len(txs))
	}

	main := txs[0]
	if main.ID != "main-1" || main.ParentID != "" || main.DerivedKind != "" {
		t.Fatalf("unexpected main transaction: %+v", main)
	}

	net := 100 / 1.06
	byKind := map[DerivedKind]Transaction{}
	for _, c := range txs[1:] {
		if c.ParentID != "main-1" {
			t.Fatalf("child %s has parent %q", c.ID, c.ParentID)
		}
		if c.Type != Expense {
			t.Fatalf("child %s is not an expense", c.ID)
		}
		if !c.Date.Equal(in.Date.Time) || c.DriverID != "d1" || c.VehicleID != "v1" {
			t.Fatalf("child %s does not share date/driver/vehicle: %+v", c.ID, c)
		}
		byKind[c.DerivedKind] = c
	}

	approx(t, byKind[DerivedVATOnIncome].Amount, 100-net, "vat child")
	approx(t, byKind[DerivedIncomeTax].Amount, net*0.75*0.20, "irs child")
	approx(t, byKind[DerivedSocialSecurity].Amount, net*0.70*0.214, "ss child")

	if byKind[DerivedVATOnIncome].Category != CategoryImpostos {
		t.Fatalf("vat child category %q", byKind[DerivedVATOnIncome].Category)
	}
	if byKind[DerivedSocialSecurity].Category != CategorySegurancaSocial {
		t.Fatalf("ss child category %q", byKind[DerivedSocialSecurity].Category)
	}
	if !strings.Contains(byKind[DerivedVATOnIncome].Description, "IVA (6%) sobre Viagens Uber") {
		t.Fatalf("vat description %q", byKind[DerivedVATOnIncome].Description)
	}
	if !strings.Contains(byKind[DerivedIncomeTax].Description, "base 75%") {
		t.Fatalf("irs description %q", byKind[DerivedIncomeTax].Description)
	}
	if !strings.Contains(byKind[DerivedSocialSecurity].Description, "base 70%") {
		t.Fatalf("ss description %q", byKind[DerivedSocialSecurity].Description)
	}
}

func TestDeriveRegionRates(t *testing.T) {
	cases := []struct {
		region Region
		vat    float64
	}{
		{Continental, 0.06},
		{Acores, 0.04},
		{Madeira, 0.05},
	}
	in := TransactionInput{
		Date: NewDate(2025, 1, 1), Type: Income, Amount: 100,
		Description: "x", DriverID: "d1", VehicleID: "v1", PlatformID: "p1",
	}
	for _, tc := range cases {
		driver := Driver{ID: "d1", Region: tc.region, EntityType: Empresa}
		txs := Derive(in, driver, "m", seqIDs())
		if len(txs) != 2 {
			t.Fatalf("%s: expected main + vat child, got %d", tc.region, len(txs))
		}
		approx(t, txs[1].Amount, 100-100/(1+tc.vat), string(tc.region))
	}
}

func TestDeriveEmpresaHasNoIRSOrSS(t *testing.T) {
	in := TransactionInput{
		Date: NewDate(2025, 3, 10), Type: Income, Amount: 100,
		Description: "x", DriverID: "d1", VehicleID: "v1", PlatformID: "p1",
	}
	// Rates set on an empresa driver must be ignored.
	driver := Driver{ID: "d1", Region: Continental, EntityType: Empresa, IRSRate: 20, SSRate: 21.4}

	txs := Derive(in, driver, "m", seqIDs())
	if len(txs) != 2 {
		t.Fatalf("expected main + vat child only, got %d", len(txs))
	}
	if txs[1].DerivedKind != DerivedVATOnIncome {
		t.Fatalf("unexpected child kind %q", txs[1].DerivedKind)
	}
}

func TestDeriveZeroRatesSkipComponents(t *testing.T) {
	in := TransactionInput{
		Date: NewDate(2025, 3, 10), Type: Income, Amount: 100,
		Description: "x", DriverID: "d1", VehicleID: "v1", PlatformID: "p1",
	}
	driver := Driver{ID: "d1", Region: Continental, EntityType: ENI, IRSRate: 0, SSRate: 10}

	txs := Derive(in, driver, "m", seqIDs())
	if len(txs) != 3 {
		t.Fatalf("expected main + vat + ss, got %d", len(txs))
	}
	for _, c := range txs[1:] {
		if c.DerivedKind == DerivedIncomeTax {
			t.Fatal("irs child emitted with zero rate")
		}
	}
}

func TestDeriveExpenseProducesNothing(t *testing.T) {
	vat := 4.6
	in := TransactionInput{
		Date: NewDate(2025, 3, 10), Type: Expense, Amount: 20,
		Description: "Gasóleo", DriverID: "d1", VehicleID: "v1",
		Category: CategoryCombustivel, VATAmount: &vat,
	}
	driver := Driver{ID: "d1", Region: Continental, EntityType: ENI, IRSRate: 20, SSRate: 21.4}

	txs := Derive(in, driver, "m", seqIDs())
	if len(txs) != 1 {
		t.Fatalf("expected only the main expense, got %d", len(txs))
	}
	if txs[0].VATAmount == nil || *txs[0].VATAmount != 4.6 {
		t.Fatalf("manual VAT not carried over: %+v", txs[0])
	}
}
