package core

// VAT rates applied to gross income, by fiscal region. TVDE passenger
// transport is taxed at the reduced rate.
var incomeVATRates = map[Region]float64{
	Continental: 0.06,
	Acores:      0.04,
	Madeira:     0.05,
}

// Standard VAT rates used to estimate deductible VAT on expenses when no
// manual value was recorded.
var expenseVATRates = map[Region]float64{
	Continental: 0.23,
	Acores:      0.18,
	Madeira:     0.22,
}

// ENI estimation coefficients: IRS applies to 75% of net income, social
// security contributions to 70% of relevant income.
const (
	IRSCoefficient = 0.75
	SSCoefficient  = 0.70
)

// IncomeVATRate returns the fraction (e.g. 0.06) applied to income for the
// given region. Unknown regions fall back to continental.
func IncomeVATRate(r Region) float64 {
	if rate, ok := incomeVATRates[r]; ok {
		return rate
	}
	return incomeVATRates[Continental]
}

// ExpenseVATRate returns the fraction used for deductible-VAT estimation.
// Unknown regions fall back to continental.
func ExpenseVATRate(r Region) float64 {
	if rate, ok := expenseVATRates[r]; ok {
		return rate
	}
	return expenseVATRates[Continental]
}
