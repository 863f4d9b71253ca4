package core

import "fmt"

// IDFunc produces a globally-unique string ID on demand.
type IDFunc func() string

// Derive builds the full transaction set produced by one user entry: the
// main transaction plus zero or more derived tax children. The caller
// resolves the driver beforehand; derivation itself never touches storage.
//
// Children are emitted only for income entries:
//
//   - VAT on income: gross is treated as VAT-inclusive, net = gross/(1+rate),
//     and the VAT portion becomes an impostos expense.
//   - ENI drivers additionally get an IRS estimate (75% of net times the
//     driver's IRS rate) and a social-security estimate (70% of net times
//     the SS rate). Empresa drivers get neither; IRC/TSU are recorded
//     manually.
//
// Each child shares the parent's date, driver and vehicle, carries
// ParentID = mainID and an explicit DerivedKind. Children are never
// derived from; a zero-valued component is simply not emitted.
func Derive(in TransactionInput, driver Driver, mainID string, newID IDFunc) []Transaction {
	main := Transaction{
		ID:          mainID,
		Date:        in.Date,
		Type:        in.Type,
		Amount:      in.Amount,
		Description: in.Description,
		DriverID:    in.DriverID,
		VehicleID:   in.VehicleID,
		PlatformID:  in.PlatformID,
		Category:    in.Category,
		VATAmount:   in.VATAmount,
	}
	out := []Transaction{main}
	if in.Type != Income {
		return out
	}

	vatRate := IncomeVATRate(driver.Region)
	net := in.Amount / (1 + vatRate)
	vat := in.Amount - net

	child := func(kind DerivedKind, amount float64, category ExpenseCategory, desc string) Transaction {
		return Transaction{
			ID:          newID(),
			ParentID:    mainID,
			DerivedKind: kind,
			Date:        in.Date,
			Type:        Expense,
			Amount:      amount,
			Description: desc,
			DriverID:    in.DriverID,
			VehicleID:   in.VehicleID,
			Category:    category,
		}
	}

	if vat > 0 {
		out = append(out, child(DerivedVATOnIncome, vat, CategoryImpostos,
			fmt.Sprintf("IVA (%.0f%%) sobre %s", vatRate*100, in.Description)))
	}

	if driver.EntityType == ENI {
		if irs := net * IRSCoefficient * driver.IRSRate / 100; irs > 0 {
			out = append(out, child(DerivedIncomeTax, irs, CategoryImpostos,
				fmt.Sprintf("Estimativa IRS (%.4g%% sobre base 75%%) sobre %s", driver.IRSRate, in.Description)))
		}
		if ss := net * SSCoefficient * driver.SSRate / 100; ss > 0 {
			out = append(out, child(DerivedSocialSecurity, ss, CategorySegurancaSocial,
				fmt.Sprintf("Estimativa Seg. Social (%.4g%% sobre base 70%%) sobre %s", driver.SSRate, in.Description)))
		}
	}

	return out
}
