package ledger

import (
	"context"

	"github.com/moisesuailab/finance-app/internal/model"
	"github.com/moisesuailab/finance-app/internal/store"
)

// DefaultCategories returns the category set seeded into a fresh database.
func DefaultCategories() []model.Category {
	return []model.Category{
		{Name: "Food", Color: "#ef4444", Icon: "utensils", Type: model.TypeExpense},
		{Name: "Transport", Color: "#f59e0b", Icon: "car", Type: model.TypeExpense},
		{Name: "Housing", Color: "#7c3aed", Icon: "home", Type: model.TypeExpense},
		{Name: "Utilities", Color: "#0ea5e9", Icon: "zap", Type: model.TypeExpense},
		{Name: "Subscriptions", Color: "#ec4899", Icon: "credit-card", Type: model.TypeExpense},
		{Name: "Health", Color: "#10b981", Icon: "heart", Type: model.TypeExpense},
		{Name: "Education", Color: "#3b82f6", Icon: "book", Type: model.TypeExpense},
		{Name: "Leisure", Color: "#06b6d4", Icon: "gamepad", Type: model.TypeExpense},
		{Name: "Shopping", Color: "#84cc16", Icon: "shopping-bag", Type: model.TypeExpense},
		{Name: "Other Expenses", Color: "#6b7280", Icon: "more-horizontal", Type: model.TypeExpense},

		{Name: "Salary", Color: "#10b981", Icon: "briefcase", Type: model.TypeIncome},
		{Name: "Investments", Color: "#3b82f6", Icon: "trending-up", Type: model.TypeIncome},
		{Name: "Freelance", Color: "#8b5cf6", Icon: "code", Type: model.TypeIncome},
		{Name: "Other Income", Color: "#6b7280", Icon: "more-horizontal", Type: model.TypeIncome},
	}
}

// SeedDefaultCategories inserts the default categories into an empty
// category collection. It does nothing if any category already exists.
func (s *Service) SeedDefaultCategories(ctx context.Context) error {
	existing, err := s.store.ListCategories(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	return s.store.InTx(ctx, func(tx *store.Tx) error {
		for _, c := range DefaultCategories() {
			if err := tx.CreateCategory(ctx, &c); err != nil {
				return err
			}
		}
		return nil
	})
}
