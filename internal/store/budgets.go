package store

import (
	"context"
	"fmt"
	"time"

	"github.com/moisesuailab/finance-app/internal/model"
)

// UpsertBudget creates or replaces the budget for a category+month pair.
func (q queries) UpsertBudget(ctx context.Context, b *model.Budget) error {
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	res, err := q.db.ExecContext(ctx, `
		INSERT INTO budgets (category_id, amount, month, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (category_id, month)
		DO UPDATE SET amount = excluded.amount, updated_at = excluded.updated_at`,
		b.CategoryID, b.Amount.String(), b.Month,
		encodeTime(b.CreatedAt), encodeTime(b.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upserting budget: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil && id != 0 {
		b.ID = id
	}
	return nil
}

// ListBudgets returns all budgets for a month ("2006-01"), or every budget
// if month is empty.
func (q queries) ListBudgets(ctx context.Context, month string) ([]model.Budget, error) {
	query := "SELECT id, category_id, amount, month, created_at, updated_at FROM budgets"
	var args []any
	if month != "" {
		query += " WHERE month = ?"
		args = append(args, month)
	}
	query += " ORDER BY month, category_id"

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}
	defer rows.Close()

	var budgets []model.Budget
	for rows.Next() {
		var (
			b                            model.Budget
			amount, createdAt, updatedAt string
		)
		if err := rows.Scan(&b.ID, &b.CategoryID, &amount, &b.Month, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if b.Amount, err = decodeDecimal(amount); err != nil {
			return nil, err
		}
		if b.CreatedAt, err = decodeTime(createdAt); err != nil {
			return nil, err
		}
		if b.UpdatedAt, err = decodeTime(updatedAt); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// DeleteBudget removes the budget record.
func (q queries) DeleteBudget(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM budgets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting budget %d: %w", id, err)
	}
	return requireRow(res, id)
}
