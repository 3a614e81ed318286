package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moisesuailab/finance-app/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildRows_ResolvesNames(t *testing.T) {
	accounts := []model.Account{
		{ID: 1, Name: "Wallet"},
		{ID: 2, Name: "Savings"},
	}
	categories := []model.Category{
		{ID: 10, Name: "Food"},
	}
	transactions := []model.Transaction{
		{
			AccountID:   1,
			CategoryID:  10,
			Type:        model.TypeExpense,
			Status:      model.StatusCompleted,
			Amount:      decimal.RequireFromString("42.5"),
			Description: "Groceries",
			Date:        date(2025, time.June, 1),
		},
		{
			AccountID:     1,
			Type:          model.TypeTransfer,
			Status:        model.StatusCompleted,
			Amount:        decimal.RequireFromString("100"),
			Description:   "Top-up",
			Date:          date(2025, time.June, 2),
			FromAccountID: 1,
			ToAccountID:   2,
		},
	}

	rows := BuildRows(transactions, accounts, categories)
	require.Len(t, rows, 2)

	assert.Equal(t, Row{
		Date:        "2025-06-01",
		Description: "Groceries",
		Category:    "Food",
		Account:     "Wallet",
		Type:        "expense",
		Status:      "completed",
		Amount:      "42.50",
	}, rows[0])

	assert.Equal(t, "Wallet -> Savings", rows[1].Account)
	assert.Equal(t, "-", rows[1].Category)
}

func TestBuildRows_DeletedReferences(t *testing.T) {
	transactions := []model.Transaction{
		{
			AccountID:   99,
			CategoryID:  99,
			Type:        model.TypeExpense,
			Status:      model.StatusCompleted,
			Amount:      decimal.RequireFromString("10"),
			Description: "Old purchase",
			Date:        date(2024, time.January, 1),
		},
	}

	rows := BuildRows(transactions, nil, nil)
	require.Len(t, rows, 1)
	assert.Equal(t, DeletedPlaceholder, rows[0].Account)
	assert.Equal(t, DeletedPlaceholder, rows[0].Category)
}

func TestWriteCSV(t *testing.T) {
	rows := []Row{
		{
			Date:        "2025-06-01",
			Description: "Groceries, organic",
			Category:    "Food",
			Account:     "Wallet",
			Type:        "expense",
			Status:      "completed",
			Amount:      "42.50",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, Header, lines[0])
	// The comma in the description is quoted.
	assert.Equal(t, `2025-06-01,"Groceries, organic",Food,Wallet,expense,completed,42.50`, lines[1])
}

func TestWriteJSON(t *testing.T) {
	snap := Snapshot{
		ExportedAt: date(2025, time.June, 30),
		Accounts:   []model.Account{{ID: 1, Name: "Wallet"}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, snap))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "exportedAt")
	assert.Contains(t, decoded, "accounts")
}
