package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/moisesuailab/finance-app/internal/model"
	"github.com/moisesuailab/finance-app/internal/store"
)

// CreateCategory validates and persists a new category.
func (s *Service) CreateCategory(ctx context.Context, c model.Category) (model.Category, error) {
	var violations []string
	if strings.TrimSpace(c.Name) == "" {
		violations = append(violations, "name is required")
	}
	if c.Type != model.TypeIncome && c.Type != model.TypeExpense {
		violations = append(violations, "category type must be income or expense")
	}
	if !validColor(c.Color) {
		violations = append(violations, "color must be a #RRGGBB value")
	}
	if len(violations) > 0 {
		return model.Category{}, &ValidationError{Violations: violations}
	}

	if err := s.store.CreateCategory(ctx, &c); err != nil {
		return model.Category{}, err
	}
	return c, nil
}

// DeleteCategory removes a category that no transaction references.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	return s.store.InTx(ctx, func(tx *store.Tx) error {
		c, err := tx.GetCategory(ctx, id)
		if err != nil {
			return err
		}

		refs, err := tx.CountCategoryTransactions(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return &ConsistencyError{
				Op:     "delete category",
				Reason: fmt.Sprintf("%d transactions still reference %s", refs, c.Name),
			}
		}

		return tx.DeleteCategory(ctx, id)
	})
}

// ListCategories returns all categories.
func (s *Service) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.store.ListCategories(ctx)
}

// SetBudget creates or replaces the monthly budget for a category.
func (s *Service) SetBudget(ctx context.Context, categoryID int64, month string, amount decimal.Decimal) (model.Budget, error) {
	var violations []string
	if !validMonth(month) {
		violations = append(violations, "month must be yyyy-MM")
	}
	if !amount.IsPositive() {
		violations = append(violations, "amount must be positive")
	}
	if len(violations) > 0 {
		return model.Budget{}, &ValidationError{Violations: violations}
	}

	if _, err := s.store.GetCategory(ctx, categoryID); err != nil {
		return model.Budget{}, err
	}

	b := model.Budget{CategoryID: categoryID, Month: month, Amount: amount}
	if err := s.store.UpsertBudget(ctx, &b); err != nil {
		return model.Budget{}, err
	}
	return b, nil
}

// ListBudgets returns budgets for a month, or all budgets if month is empty.
func (s *Service) ListBudgets(ctx context.Context, month string) ([]model.Budget, error) {
	return s.store.ListBudgets(ctx, month)
}

func validMonth(s string) bool {
	_, err := time.Parse("2006-01", s)
	return len(s) == 7 && err == nil
}
