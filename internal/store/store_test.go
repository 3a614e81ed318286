package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moisesuailab/finance-app/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "finance.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOpen_ReopensMigratedDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finance.db")

	st, err := Open(path)
	require.NoError(t, err)

	account := &model.Account{Name: "Wallet", InitialBalance: dec("10"), CurrentBalance: dec("10")}
	require.NoError(t, st.CreateAccount(context.Background(), account))
	require.NoError(t, st.Close())

	// Reopening an already-migrated file is a no-op, not an error.
	st, err = Open(path)
	require.NoError(t, err)
	defer st.Close()

	got, err := st.GetAccount(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wallet", got.Name)
	assert.True(t, got.CurrentBalance.Equal(dec("10")))
}

func TestAccount_RoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	account := &model.Account{
		Name:             "Savings",
		Description:      "Emergency fund",
		Color:            "#FF9800",
		Icon:             "piggy-bank",
		InitialBalance:   dec("1500.25"),
		CurrentBalance:   dec("1500.25"),
		ExcludeFromTotal: true,
	}
	require.NoError(t, st.CreateAccount(ctx, account))
	require.NotZero(t, account.ID)

	now := time.Now()
	account.IsArchived = true
	account.ArchivedAt = &now
	require.NoError(t, st.UpdateAccount(ctx, account))

	got, err := st.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.Name, got.Name)
	assert.Equal(t, account.Description, got.Description)
	assert.Equal(t, account.Color, got.Color)
	assert.True(t, got.InitialBalance.Equal(dec("1500.25")))
	assert.True(t, got.ExcludeFromTotal)
	assert.True(t, got.IsArchived)
	require.NotNil(t, got.ArchivedAt)
	assert.WithinDuration(t, now, *got.ArchivedAt, time.Second)
}

func TestGetAccount_NotFound(t *testing.T) {
	st := openTestStore(t)

	_, err := st.GetAccount(context.Background(), 42)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAdjustBalance(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	account := &model.Account{Name: "Wallet", CurrentBalance: dec("100")}
	require.NoError(t, st.CreateAccount(ctx, account))

	require.NoError(t, st.AdjustBalance(ctx, account.ID, dec("-30.50")))
	require.NoError(t, st.AdjustBalance(ctx, account.ID, dec("1")))

	got, err := st.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentBalance.Equal(dec("70.50")))

	assert.True(t, errors.Is(st.AdjustBalance(ctx, 999, dec("1")), ErrNotFound))
}

func TestTransaction_RoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	tx := &model.Transaction{
		AccountID:             1,
		CategoryID:            2,
		Type:                  model.TypeExpense,
		Status:                model.StatusPending,
		Amount:                dec("42.99"),
		Description:           "Laptop - 1/4",
		BaseDescription:       "Laptop",
		Date:                  date(2025, time.June, 15),
		IsRecurring:           true,
		RecurrenceType:        model.RecurrenceMonthly,
		RecurrenceOccurrences: 4,
		IsInstallment:         true,
		GeneratedDates:        []string{"2025-07-15"},
		Tags:                  []string{"hardware", "work"},
	}
	require.NoError(t, st.CreateTransaction(ctx, tx))

	got, err := st.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TypeExpense, got.Type)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.True(t, got.Amount.Equal(dec("42.99")))
	assert.Equal(t, "Laptop - 1/4", got.Description)
	assert.Equal(t, "Laptop", got.BaseDescription)
	assert.Equal(t, date(2025, time.June, 15), got.Date)
	assert.True(t, got.IsRecurring)
	assert.True(t, got.IsInstallment)
	assert.Equal(t, []string{"2025-07-15"}, got.GeneratedDates)
	assert.Equal(t, []string{"hardware", "work"}, got.Tags)
}

func TestUpdateTransaction_PersistsEveryField(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	tx := &model.Transaction{
		AccountID:      1,
		CategoryID:     2,
		Type:           model.TypeExpense,
		Status:         model.StatusPending,
		Amount:         dec("10"),
		Description:    "Draft",
		Date:           date(2025, time.June, 1),
		RecurrenceType: model.RecurrenceNone,
	}
	require.NoError(t, st.CreateTransaction(ctx, tx))

	tx.AccountID = 3
	tx.CategoryID = 4
	tx.Type = model.TypeIncome
	tx.Status = model.StatusCompleted
	tx.Amount = dec("99.95")
	tx.Description = "Refund - 2/3"
	tx.BaseDescription = "Refund"
	tx.Date = date(2025, time.July, 2)
	tx.IsRecurring = true
	tx.RecurrenceType = model.RecurrenceMonthly
	tx.RecurrenceOccurrences = 3
	tx.IsInstallment = true
	tx.GeneratedDates = []string{"2025-08-02"}
	tx.FromAccountID = 5
	tx.ToAccountID = 6
	tx.Tags = []string{"refund"}
	require.NoError(t, st.UpdateTransaction(ctx, tx))

	got, err := st.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.AccountID)
	assert.Equal(t, int64(4), got.CategoryID)
	assert.Equal(t, model.TypeIncome, got.Type)
	assert.Equal(t, model.StatusCompleted, got.Status)
	assert.True(t, got.Amount.Equal(dec("99.95")))
	assert.Equal(t, "Refund - 2/3", got.Description)
	assert.Equal(t, "Refund", got.BaseDescription)
	assert.Equal(t, date(2025, time.July, 2), got.Date)
	assert.True(t, got.IsRecurring)
	assert.Equal(t, model.RecurrenceMonthly, got.RecurrenceType)
	assert.Equal(t, 3, got.RecurrenceOccurrences)
	assert.True(t, got.IsInstallment)
	assert.Equal(t, []string{"2025-08-02"}, got.GeneratedDates)
	assert.Equal(t, int64(5), got.FromAccountID)
	assert.Equal(t, int64(6), got.ToAccountID)
	assert.Equal(t, []string{"refund"}, got.Tags)
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
}

func TestListTransactions_Filters(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	seed := func(accountID int64, status model.TransactionStatus, day int, recurring bool) {
		t.Helper()
		tx := &model.Transaction{
			AccountID:      accountID,
			CategoryID:     1,
			Type:           model.TypeExpense,
			Status:         status,
			Amount:         dec("10"),
			Description:    "seed",
			Date:           date(2025, time.June, day),
			RecurrenceType: model.RecurrenceNone,
		}
		if recurring {
			tx.IsRecurring = true
			tx.RecurrenceType = model.RecurrenceMonthly
			tx.RecurrenceOccurrences = 3
		}
		require.NoError(t, st.CreateTransaction(ctx, tx))
	}

	seed(1, model.StatusCompleted, 1, false)
	seed(1, model.StatusPending, 5, false)
	seed(2, model.StatusCompleted, 10, false)
	seed(2, model.StatusCompleted, 15, true)

	byAccount, err := st.ListTransactions(ctx, TransactionFilter{AccountID: 1})
	require.NoError(t, err)
	assert.Len(t, byAccount, 2)

	pending, err := st.ListTransactions(ctx, TransactionFilter{Status: model.StatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	templates, err := st.ListTransactions(ctx, TransactionFilter{TemplatesOnly: true})
	require.NoError(t, err)
	assert.Len(t, templates, 1)

	ranged, err := st.ListTransactions(ctx, TransactionFilter{
		From: date(2025, time.June, 5),
		To:   date(2025, time.June, 10),
	})
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	// Transfers are visible from either side of the account filter.
	require.NoError(t, st.CreateTransaction(ctx, &model.Transaction{
		AccountID:      3,
		Type:           model.TypeTransfer,
		Status:         model.StatusCompleted,
		Amount:         dec("10"),
		Description:    "move",
		Date:           date(2025, time.June, 20),
		RecurrenceType: model.RecurrenceNone,
		FromAccountID:  3,
		ToAccountID:    4,
	}))
	toSide, err := st.ListTransactions(ctx, TransactionFilter{AccountID: 4})
	require.NoError(t, err)
	assert.Len(t, toSide, 1)
}

func TestListTransactions_NewestFirst(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	for _, day := range []int{3, 1, 2} {
		require.NoError(t, st.CreateTransaction(ctx, &model.Transaction{
			AccountID:      1,
			CategoryID:     1,
			Type:           model.TypeExpense,
			Status:         model.StatusCompleted,
			Amount:         dec("10"),
			Description:    "seed",
			Date:           date(2025, time.June, day),
			RecurrenceType: model.RecurrenceNone,
		}))
	}

	all, err := st.ListTransactions(ctx, TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, date(2025, time.June, 3), all[0].Date)
	assert.Equal(t, date(2025, time.June, 2), all[1].Date)
	assert.Equal(t, date(2025, time.June, 1), all[2].Date)
}

func TestInTx_RollsBackOnError(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	account := &model.Account{Name: "Wallet", CurrentBalance: dec("100")}
	require.NoError(t, st.CreateAccount(ctx, account))

	boom := errors.New("boom")
	err := st.InTx(ctx, func(tx *Tx) error {
		if err := tx.AdjustBalance(ctx, account.ID, dec("-40")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := st.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentBalance.Equal(dec("100")))
}

func TestInTx_CommitsOnNil(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	account := &model.Account{Name: "Wallet", CurrentBalance: dec("100")}
	require.NoError(t, st.CreateAccount(ctx, account))

	require.NoError(t, st.InTx(ctx, func(tx *Tx) error {
		return tx.AdjustBalance(ctx, account.ID, dec("-40"))
	}))

	got, err := st.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentBalance.Equal(dec("60")))
}

func TestUpsertBudget_ReplacesSameMonth(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	b := &model.Budget{CategoryID: 1, Month: "2025-06", Amount: dec("400")}
	require.NoError(t, st.UpsertBudget(ctx, b))

	b2 := &model.Budget{CategoryID: 1, Month: "2025-06", Amount: dec("450")}
	require.NoError(t, st.UpsertBudget(ctx, b2))

	budgets, err := st.ListBudgets(ctx, "2025-06")
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.True(t, budgets[0].Amount.Equal(dec("450")))

	other := &model.Budget{CategoryID: 1, Month: "2025-07", Amount: dec("500")}
	require.NoError(t, st.UpsertBudget(ctx, other))

	all, err := st.ListBudgets(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCountReferences(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.CreateTransaction(ctx, &model.Transaction{
		AccountID:      1,
		CategoryID:     7,
		Type:           model.TypeExpense,
		Status:         model.StatusCompleted,
		Amount:         dec("10"),
		Description:    "seed",
		Date:           date(2025, time.June, 1),
		RecurrenceType: model.RecurrenceNone,
	}))
	require.NoError(t, st.CreateTransaction(ctx, &model.Transaction{
		AccountID:      2,
		Type:           model.TypeTransfer,
		Status:         model.StatusCompleted,
		Amount:         dec("10"),
		Description:    "move",
		Date:           date(2025, time.June, 2),
		RecurrenceType: model.RecurrenceNone,
		FromAccountID:  2,
		ToAccountID:    1,
	}))

	// Account 1 is referenced directly and as a transfer destination.
	n, err := st.CountAccountTransactions(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = st.CountCategoryTransactions(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
