package core

import (
	"errors"
	"strings"
	"time"
)

// Fiscal region of a driver. Determines the VAT rates applied both to
// income derivation and to deductible-VAT estimation on expenses.
const (
	Continental Region = "continental"
	Acores      Region = "acores"
	Madeira     Region = "madeira"
)

// Legal entity type of a driver.
const (
	ENI     EntityType = "eni"     // Empresário em Nome Individual
	Empresa EntityType = "empresa" // Soc. Unipessoal or Lda
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Expense categories. The impostos and seguranca_social categories are also
// produced by derivation; irc and tsu are manual-only corporate categories.
const (
	CategoryCombustivel       ExpenseCategory = "combustivel"
	CategoryManutencao        ExpenseCategory = "manutencao"
	CategorySeguroAutomovel   ExpenseCategory = "seguro_automovel"
	CategoryImpostoCirculacao ExpenseCategory = "imposto_circulacao"
	CategoryLicencas          ExpenseCategory = "licencas"
	CategoryImpostos          ExpenseCategory = "impostos"
	CategorySegurancaSocial   ExpenseCategory = "seguranca_social"
	CategoryIRC               ExpenseCategory = "irc"
	CategoryTSU               ExpenseCategory = "tsu"
	CategoryOutros            ExpenseCategory = "outros"
)

// DerivedKind discriminates auto-generated tax children. It is set only by
// the derivation routine; aggregation keys on it rather than on description
// text.
const (
	DerivedVATOnIncome    DerivedKind = "vat_on_income"
	DerivedIncomeTax      DerivedKind = "income_tax_estimate"
	DerivedSocialSecurity DerivedKind = "social_security_estimate"
)

const (
	BackupManual BackupType = "manual"
	BackupAuto   BackupType = "auto"
)

type (
	Region          string
	EntityType      string
	TransactionType string
	ExpenseCategory string
	DerivedKind     string
	BackupType      string

	Platform struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		// Percentage, e.g. 25 for 25%. Informational only; derivation
		// does not consume it.
		CommissionRate float64 `json:"commissionRate"`
	}

	Vehicle struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		LicensePlate string `json:"licensePlate"`
	}

	Driver struct {
		ID         string     `json:"id"`
		Name       string     `json:"name"`
		Region     Region     `json:"region"`
		EntityType EntityType `json:"entityType"`
		// Percentages, meaningful for ENI only. Zero means no estimate
		// for that component.
		IRSRate    float64  `json:"irsRate,omitempty"`
		SSRate     float64  `json:"ssRate,omitempty"`
		VehicleIDs []string `json:"vehicleIds,omitempty"`
	}

	Transaction struct {
		ID string `json:"id"`
		// Set on derived tax children only; children never derive further.
		ParentID    string          `json:"parentId,omitempty"`
		DerivedKind DerivedKind     `json:"derivedKind,omitempty"`
		Date        Date            `json:"date"`
		Type        TransactionType `json:"type"`
		Amount      float64         `json:"amount"`
		Description string          `json:"description"`
		DriverID    string          `json:"driverId"`
		VehicleID   string          `json:"vehicleId"`
		PlatformID  string          `json:"platformId,omitempty"`
		Category    ExpenseCategory `json:"category,omitempty"`
		// Manually recorded VAT on an expense. Overrides the regional
		// estimate in the deductible-VAT summary.
		VATAmount *float64 `json:"vatAmount,omitempty"`
	}

	// AppData is a full, independent copy of the four collections.
	AppData struct {
		Platforms    []Platform    `json:"platforms"`
		Drivers      []Driver      `json:"drivers"`
		Vehicles     []Vehicle     `json:"vehicles"`
		Transactions []Transaction `json:"transactions"`
	}

	Backup struct {
		ID   string     `json:"id"`
		Date time.Time  `json:"date"`
		Type BackupType `json:"type"`
		Data AppData    `json:"data"`
	}
)

// RegionLabels maps regions to their Portuguese display names.
var RegionLabels = map[Region]string{
	Continental: "Portugal Continental",
	Acores:      "Açores",
	Madeira:     "Madeira",
}

// EntityTypeLabels maps entity types to their Portuguese display names.
var EntityTypeLabels = map[EntityType]string{
	ENI:     "Empresário em Nome Individual",
	Empresa: "Empresa (Soc. Unip. ou Lda)",
}

// ExpenseCategoryLabels maps expense categories to display names.
var ExpenseCategoryLabels = map[ExpenseCategory]string{
	CategoryCombustivel:       "Combustível",
	CategoryManutencao:        "Manutenção/Oficina",
	CategorySeguroAutomovel:   "Seguro Automóvel",
	CategoryImpostoCirculacao: "Imposto de Circulação (IUC)",
	CategoryLicencas:          "Licenças (e.g., TVDE)",
	CategoryImpostos:          "Impostos (IVA, IRS)",
	CategorySegurancaSocial:   "Segurança Social",
	CategoryIRC:               "IRC",
	CategoryTSU:               "TSU",
	CategoryOutros:            "Outros",
}

var (
	ErrInvalidRegion     = errors.New("invalid region")
	ErrInvalidEntityType = errors.New("invalid entity type")
	ErrInvalidType       = errors.New("invalid transaction type")
	ErrInvalidCategory   = errors.New("invalid expense category")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrEmptyDescription  = errors.New("empty description")
	ErrEmptyName         = errors.New("empty name")
	ErrMissingDriver     = errors.New("missing driver")
	ErrMissingVehicle    = errors.New("missing vehicle")
	ErrMissingPlatform   = errors.New("missing platform")
	ErrMissingCategory   = errors.New("missing category")
	ErrUnknownDriver     = errors.New("unknown driver")
)

func (r Region) Valid() bool {
	switch r {
	case Continental, Acores, Madeira:
		return true
	}
	return false
}

func (e EntityType) Valid() bool {
	switch e {
	case ENI, Empresa:
		return true
	}
	return false
}

func (c ExpenseCategory) Valid() bool {
	_, ok := ExpenseCategoryLabels[c]
	return ok
}

// TransactionInput is a user-supplied transaction payload, before an ID is
// assigned. Derived children are never submitted through this type.
type TransactionInput struct {
	Date        Date            `json:"date"`
	Type        TransactionType `json:"type"`
	Amount      float64         `json:"amount"`
	Description string          `json:"description"`
	DriverID    string          `json:"driverId"`
	VehicleID   string          `json:"vehicleId"`
	PlatformID  string          `json:"platformId,omitempty"`
	Category    ExpenseCategory `json:"category,omitempty"`
	VATAmount   *float64        `json:"vatAmount,omitempty"`
}

func (in TransactionInput) Validate() error {
	if err := in.Date.Validate(); err != nil {
		return err
	}
	if in.Type != Income && in.Type != Expense {
		return ErrInvalidType
	}
	if in.Amount <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(in.Description) == "" {
		return ErrEmptyDescription
	}
	if in.DriverID == "" {
		return ErrMissingDriver
	}
	if in.VehicleID == "" {
		return ErrMissingVehicle
	}
	if in.Type == Income && in.PlatformID == "" {
		return ErrMissingPlatform
	}
	if in.Type == Expense {
		if in.Category == "" {
			return ErrMissingCategory
		}
		if !in.Category.Valid() {
			return ErrInvalidCategory
		}
	}
	return nil
}

func (d Driver) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if !d.Region.Valid() {
		return ErrInvalidRegion
	}
	if !d.EntityType.Valid() {
		return ErrInvalidEntityType
	}
	return nil
}

func (v Vehicle) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (p Platform) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// IsDerived reports whether the transaction is an auto-generated tax child.
func (t Transaction) IsDerived() bool {
	return t.ParentID != ""
}

// IsEmpty reports whether all four collections are empty.
func (a AppData) IsEmpty() bool {
	return len(a.Platforms) == 0 && len(a.Drivers) == 0 &&
		len(a.Vehicles) == 0 && len(a.Transactions) == 0
}

// Clone returns a deep copy with no shared slices.
func (a AppData) Clone() AppData {
	cp := AppData{
		Platforms:    make([]Platform, len(a.Platforms)),
		Drivers:      make([]Driver, len(a.Drivers)),
		Vehicles:     make([]Vehicle, len(a.Vehicles)),
		Transactions: make([]Transaction, len(a.Transactions)),
	}
	copy(cp.Platforms, a.Platforms)
	copy(cp.Vehicles, a.Vehicles)
	copy(cp.Transactions, a.Transactions)
	for i, t := range a.Transactions {
		if t.VATAmount != nil {
			v := *t.VATAmount
			cp.Transactions[i].VATAmount = &v
		}
	}
	for i, d := range a.Drivers {
		cp.Drivers[i] = d
		if d.VehicleIDs != nil {
			cp.Drivers[i].VehicleIDs = append([]string(nil), d.VehicleIDs...)
		}
	}
	return cp
}
