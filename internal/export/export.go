// Package export renders ledger data as CSV or JSON for use outside the
// application. Read-only: nothing here mutates the store.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/moisesuailab/finance-app/internal/model"
)

// DeletedPlaceholder labels references to records that no longer exist.
// Historical transactions keep rendering after their account or category is
// gone.
const DeletedPlaceholder = "(deleted)"

// Header is the CSV header row for transaction exports.
const Header = "date,description,category,account,type,status,amount"

// Row is one transaction with its references resolved to display names.
type Row struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Account     string `json:"account"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Amount      string `json:"amount"`
}

// Snapshot is the full-data JSON export.
type Snapshot struct {
	ExportedAt   time.Time           `json:"exportedAt"`
	Accounts     []model.Account     `json:"accounts"`
	Categories   []model.Category    `json:"categories"`
	Transactions []model.Transaction `json:"transactions"`
	Budgets      []model.Budget      `json:"budgets"`
}

// BuildRows resolves account and category names for each transaction, in
// the order given.
func BuildRows(ts []model.Transaction, accounts []model.Account, categories []model.Category) []Row {
	accountName := make(map[int64]string, len(accounts))
	for _, a := range accounts {
		accountName[a.ID] = a.Name
	}
	categoryName := make(map[int64]string, len(categories))
	for _, c := range categories {
		categoryName[c.ID] = c.Name
	}

	name := func(m map[int64]string, id int64) string {
		if n, ok := m[id]; ok {
			return n
		}
		return DeletedPlaceholder
	}

	rows := make([]Row, 0, len(ts))
	for _, t := range ts {
		row := Row{
			Date:        t.Date.Format(model.DateFormat),
			Description: t.Description,
			Type:        string(t.Type),
			Status:      string(t.Status),
			Amount:      t.Amount.StringFixed(2),
		}
		if t.Type == model.TypeTransfer {
			row.Category = "-"
			row.Account = name(accountName, t.FromAccountID) + " -> " + name(accountName, t.ToAccountID)
		} else {
			row.Category = name(categoryName, t.CategoryID)
			row.Account = name(accountName, t.AccountID)
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV writes rows as CSV, header first.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"date", "description", "category", "account", "type", "status", "amount"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range rows {
		record := []string{r.Date, r.Description, r.Category, r.Account, r.Type, r.Status, r.Amount}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	return cw.Error()
}

// WriteJSON writes a full-data snapshot as indented JSON.
func WriteJSON(w io.Writer, snap Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	return nil
}
