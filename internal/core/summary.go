package core

import (
	"errors"
	"sort"
	"time"
)

// UnknownLabel is used when a referenced driver or vehicle no longer
// exists. Dangling references are tolerated, never an error.
const UnknownLabel = "Desconhecido"

// FilterAll matches every driver or vehicle.
const FilterAll = "all"

const (
	PeriodWeek     Period = "week"
	PeriodMonth    Period = "month"
	PeriodQuarter  Period = "quarter"
	PeriodSemester Period = "semester"
	PeriodYear     Period = "year"
)

var ErrInvalidPeriod = errors.New("invalid period")

type (
	Period string

	// Filter narrows the transaction set before aggregation. Driver and
	// vehicle filters apply before the date bounds; bounds are inclusive.
	Filter struct {
		DriverID  string // "" or "all" matches every driver
		VehicleID string // "" or "all" matches every vehicle
		StartDate Date
		EndDate   Date
	}

	CategoryAmount struct {
		Category ExpenseCategory `json:"category"`
		Label    string          `json:"label"`
		Amount   float64         `json:"amount"`
	}

	DriverBreakdown struct {
		DriverID string  `json:"driverId"`
		Name     string  `json:"name"`
		Income   float64 `json:"income"`
		Expense  float64 `json:"expense"`
		Profit   float64 `json:"profit"`
	}

	// CategoryVAT pairs a manual-expense category total with its
	// deductible VAT (manual override or regional estimate).
	CategoryVAT struct {
		Category ExpenseCategory `json:"category"`
		Label    string          `json:"label"`
		Total    float64         `json:"total"`
		VAT      float64         `json:"vat"`
	}

	// TaxSummary distinguishes derived tax children from manual expenses.
	// IVAAPagar may be negative, meaning a VAT credit.
	TaxSummary struct {
		IVALiquidado float64       `json:"ivaLiquidado"`
		IRSEstimado  float64       `json:"irsEstimado"`
		SSEstimada   float64       `json:"ssEstimada"`
		IVADedutivel float64       `json:"ivaDedutivel"`
		IVAAPagar    float64       `json:"ivaAPagar"`
		ByCategory   []CategoryVAT `json:"byCategory"`
	}

	Summary struct {
		TotalIncome        float64           `json:"totalIncome"`
		TotalExpense       float64           `json:"totalExpense"`
		Profit             float64           `json:"profit"`
		ExpensesByCategory []CategoryAmount  `json:"expensesByCategory"`
		ByDriver           []DriverBreakdown `json:"byDriver"`
		Taxes              TaxSummary        `json:"taxes"`
	}

	PeriodSummary struct {
		Period       Period  `json:"period"`
		Start        Date    `json:"start"`
		End          Date    `json:"end"`
		TotalIncome  float64 `json:"totalIncome"`
		TotalExpense float64 `json:"totalExpense"`
		Profit       float64 `json:"profit"`
	}
)

func (f Filter) matches(t Transaction) bool {
	if f.DriverID != "" && f.DriverID != FilterAll && t.DriverID != f.DriverID {
		return false
	}
	if f.VehicleID != "" && f.VehicleID != FilterAll && t.VehicleID != f.VehicleID {
		return false
	}
	return t.Date.Within(f.StartDate, f.EndDate)
}

// FilterTransactions returns the transactions matching the filter, in input
// order.
func FilterTransactions(txs []Transaction, f Filter) []Transaction {
	var out []Transaction
	for _, t := range txs {
		if f.matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Summarize computes totals, breakdowns and the tax summary over the
// filtered transaction set. Pure: identical inputs yield identical output,
// and an empty set yields zeros and empty breakdowns.
func Summarize(txs []Transaction, drivers []Driver, f Filter) Summary {
	driversByID := make(map[string]Driver, len(drivers))
	for _, d := range drivers {
		driversByID[d.ID] = d
	}

	var s Summary
	byCategory := make(map[ExpenseCategory]float64)
	byDriver := make(map[string]*DriverBreakdown)
	vatByCategory := make(map[ExpenseCategory]*CategoryVAT)

	for _, t := range txs {
		if !f.matches(t) {
			continue
		}

		db, ok := byDriver[t.DriverID]
		if !ok {
			name := UnknownLabel
			if d, found := driversByID[t.DriverID]; found {
				name = d.Name
			}
			db = &DriverBreakdown{DriverID: t.DriverID, Name: name}
			byDriver[t.DriverID] = db
		}

		switch t.Type {
		case Income:
			s.TotalIncome += t.Amount
			db.Income += t.Amount
			continue
		case Expense:
			s.TotalExpense += t.Amount
			db.Expense += t.Amount
		default:
			continue
		}

		byCategory[t.Category] += t.Amount

		if t.IsDerived() {
			switch t.DerivedKind {
			case DerivedVATOnIncome:
				s.Taxes.IVALiquidado += t.Amount
			case DerivedIncomeTax:
				s.Taxes.IRSEstimado += t.Amount
			case DerivedSocialSecurity:
				s.Taxes.SSEstimada += t.Amount
			}
			continue
		}

		// Deductible VAT applies to manual expenses only: the recorded
		// value when present, otherwise the regional estimate on the
		// gross amount.
		region := Continental
		if d, found := driversByID[t.DriverID]; found {
			region = d.Region
		}
		vat := t.Amount - t.Amount/(1+ExpenseVATRate(region))
		if t.VATAmount != nil {
			vat = *t.VATAmount
		}
		s.Taxes.IVADedutivel += vat

		cv, ok := vatByCategory[t.Category]
		if !ok {
			cv = &CategoryVAT{Category: t.Category, Label: ExpenseCategoryLabels[t.Category]}
			vatByCategory[t.Category] = cv
		}
		cv.Total += t.Amount
		cv.VAT += vat
	}

	s.Profit = s.TotalIncome - s.TotalExpense
	s.Taxes.IVAAPagar = s.Taxes.IVALiquidado - s.Taxes.IVADedutivel

	for c, amount := range byCategory {
		s.ExpensesByCategory = append(s.ExpensesByCategory, CategoryAmount{
			Category: c,
			Label:    ExpenseCategoryLabels[c],
			Amount:   amount,
		})
	}
	sort.Slice(s.ExpensesByCategory, func(i, j int) bool {
		a, b := s.ExpensesByCategory[i], s.ExpensesByCategory[j]
		if a.Amount != b.Amount {
			return a.Amount > b.Amount
		}
		return a.Category < b.Category
	})

	for _, db := range byDriver {
		db.Profit = db.Income - db.Expense
		s.ByDriver = append(s.ByDriver, *db)
	}
	sort.Slice(s.ByDriver, func(i, j int) bool {
		a, b := s.ByDriver[i], s.ByDriver[j]
		if a.Profit != b.Profit {
			return a.Profit > b.Profit
		}
		return a.DriverID < b.DriverID
	})

	for _, cv := range vatByCategory {
		s.Taxes.ByCategory = append(s.Taxes.ByCategory, *cv)
	}
	sort.Slice(s.Taxes.ByCategory, func(i, j int) bool {
		a, b := s.Taxes.ByCategory[i], s.Taxes.ByCategory[j]
		if a.VAT != b.VAT {
			return a.VAT > b.VAT
		}
		return a.Category < b.Category
	})

	return s
}

// PeriodRange computes the inclusive date window for a report period
// relative to now. Weeks start on Monday; month, quarter and year are
// calendar-aligned; semester is the trailing 6 months from now.
func PeriodRange(p Period, now time.Time) (Date, Date, error) {
	today := DateOf(now)
	switch p {
	case PeriodWeek:
		offset := (int(now.Weekday()) + 6) % 7 // Monday = 0
		start := today.AddDate(0, 0, -offset)
		return Date{Time: start}, Date{Time: start.AddDate(0, 0, 6)}, nil
	case PeriodMonth:
		start := NewDate(now.Year(), int(now.Month()), 1)
		return start, Date{Time: start.AddDate(0, 1, -1)}, nil
	case PeriodQuarter:
		qm := (int(now.Month())-1)/3*3 + 1
		start := NewDate(now.Year(), qm, 1)
		return start, Date{Time: start.AddDate(0, 3, -1)}, nil
	case PeriodSemester:
		return Date{Time: today.AddDate(0, -6, 0)}, today, nil
	case PeriodYear:
		return NewDate(now.Year(), 1, 1), NewDate(now.Year(), 12, 31), nil
	}
	return Date{}, Date{}, ErrInvalidPeriod
}

// SummarizePeriod restricts the filter to the period window around now and
// computes the window's totals.
func SummarizePeriod(txs []Transaction, drivers []Driver, f Filter, p Period, now time.Time) (PeriodSummary, error) {
	start, end, err := PeriodRange(p, now)
	if err != nil {
		return PeriodSummary{}, err
	}
	f.StartDate, f.EndDate = start, end
	s := Summarize(txs, drivers, f)
	return PeriodSummary{
		Period:       p,
		Start:        start,
		End:          end,
		TotalIncome:  s.TotalIncome,
		TotalExpense: s.TotalExpense,
		Profit:       s.Profit,
	}, nil
}
