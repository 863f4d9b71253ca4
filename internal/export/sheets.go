// Package export pushes saved transactions to a Google Sheets spreadsheet
// so drivers can hand their accountant a familiar document.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"tvde/internal/core"
)

// TransactionWriter is the outbound port for spreadsheet exports.
type TransactionWriter interface {
	Append(ctx context.Context, tx core.Transaction, driverName string) (rowRef string, err error)
}

// Options configures the Sheets client. Exactly one of CredentialsFile or
// CredentialsJSON must be set.
type Options struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string
	CredentialsJSON string
}

type SheetsClient struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ TransactionWriter = (*SheetsClient)(nil)

// NewSheetsClient creates a Sheets client authenticated with a service
// account.
func NewSheetsClient(ctx context.Context, opts Options) (*SheetsClient, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	sheetName := strings.TrimSpace(opts.SheetName)
	if sheetName == "" {
		sheetName = "Transações"
	}

	var credentialsJSON []byte
	switch {
	case opts.CredentialsJSON != "":
		credentialsJSON = []byte(opts.CredentialsJSON)
	case opts.CredentialsFile != "":
		b, err := os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials")
	}

	svc, err := gsheet.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created", "sheet", sheetName)

	return &SheetsClient{
		svc:           svc,
		spreadsheetID: opts.SpreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// Append writes one transaction as a row at the end of the sheet and
// returns the updated range reference.
func (c *SheetsClient) Append(ctx context.Context, tx core.Transaction, driverName string) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	vr := &gsheet.ValueRange{Values: [][]any{transactionRow(tx, driverName)}}
	rng := fmt.Sprintf("%s!A:G", c.sheetName)

	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", c.sheetName, err)
	}

	ref := rng
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}
	return ref, nil
}

// transactionRow renders a transaction as a spreadsheet row:
// date, kind, description, amount, category, driver, derivation marker.
func transactionRow(tx core.Transaction, driverName string) []any {
	kind := "Receita"
	if tx.Type == core.Expense {
		kind = "Despesa"
	}

	category := ""
	if tx.Category != "" {
		if label, ok := core.ExpenseCategoryLabels[tx.Category]; ok {
			category = label
		} else {
			category = string(tx.Category)
		}
	}

	derived := ""
	if tx.IsDerived() {
		derived = string(tx.DerivedKind)
	}

	return []any{
		tx.Date.String(),
		kind,
		tx.Description,
		core.Round2(tx.Amount),
		category,
		driverName,
		derived,
	}
}
