package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moisesuailab/finance-app/internal/model"
)

func TestDeleteCategory_RefusesWhileReferenced(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	wallet := seedAccount(t, svc, "Wallet", "1000")
	food := seedCategory(t, svc, "Food", model.TypeExpense)

	_, err := svc.CreateTransaction(ctx, CreateTransactionInput{
		AccountID:   wallet.ID,
		CategoryID:  food.ID,
		Type:        model.TypeExpense,
		Status:      model.StatusPending,
		Amount:      dec("20"),
		Description: "Groceries",
		Date:        date(2025, time.June, 1),
	})
	require.NoError(t, err)

	err = svc.DeleteCategory(ctx, food.ID)
	var cerr *ConsistencyError
	require.ErrorAs(t, err, &cerr)

	unused := seedCategory(t, svc, "Unused", model.TypeExpense)
	require.NoError(t, svc.DeleteCategory(ctx, unused.ID))
}

func TestSetBudget_UpsertsPerMonth(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	food := seedCategory(t, svc, "Food", model.TypeExpense)

	b, err := svc.SetBudget(ctx, food.ID, "2025-06", dec("400"))
	require.NoError(t, err)
	assert.True(t, b.Amount.Equal(dec("400")))

	// Setting again for the same month replaces, not duplicates.
	_, err = svc.SetBudget(ctx, food.ID, "2025-06", dec("450"))
	require.NoError(t, err)

	budgets, err := svc.ListBudgets(ctx, "2025-06")
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.True(t, budgets[0].Amount.Equal(dec("450")))
}

func TestSetBudget_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	food := seedCategory(t, svc, "Food", model.TypeExpense)

	var verr *ValidationError
	_, err := svc.SetBudget(ctx, food.ID, "June 2025", dec("400"))
	require.ErrorAs(t, err, &verr)

	_, err = svc.SetBudget(ctx, food.ID, "2025-06", dec("0"))
	require.ErrorAs(t, err, &verr)

	// Unknown category.
	_, err = svc.SetBudget(ctx, 9999, "2025-06", dec("400"))
	assert.True(t, IsNotFound(err))
}

func TestSeedDefaultCategories(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.SeedDefaultCategories(ctx))

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, len(DefaultCategories()))

	// Seeding again never duplicates.
	require.NoError(t, svc.SeedDefaultCategories(ctx))
	categories, err = svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, len(DefaultCategories()))
}
