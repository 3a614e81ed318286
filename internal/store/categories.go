package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/moisesuailab/finance-app/internal/model"
)

const categoryColumns = "id, name, color, icon, type, created_at, updated_at"

// CreateCategory inserts the category and fills in its ID and timestamps.
func (q queries) CreateCategory(ctx context.Context, c *model.Category) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	res, err := q.db.ExecContext(ctx, `
		INSERT INTO categories (name, color, icon, type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.Name, c.Color, c.Icon, string(c.Type),
		encodeTime(c.CreatedAt), encodeTime(c.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting category: %w", err)
	}

	c.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading category id: %w", err)
	}
	return nil
}

// GetCategory returns the category with the given id, or ErrNotFound.
func (q queries) GetCategory(ctx context.Context, id int64) (model.Category, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE id = ?", id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Category{}, fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	return c, err
}

// UpdateCategory persists the full category record and touches updated_at.
func (q queries) UpdateCategory(ctx context.Context, c *model.Category) error {
	c.UpdatedAt = time.Now()

	res, err := q.db.ExecContext(ctx, `
		UPDATE categories SET name = ?, color = ?, icon = ?, type = ?, updated_at = ?
		WHERE id = ?`,
		c.Name, c.Color, c.Icon, string(c.Type), encodeTime(c.UpdatedAt), c.ID)
	if err != nil {
		return fmt.Errorf("updating category %d: %w", c.ID, err)
	}
	return requireRow(res, c.ID)
}

// DeleteCategory removes the category record.
func (q queries) DeleteCategory(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting category %d: %w", id, err)
	}
	return requireRow(res, id)
}

// ListCategories returns all categories ordered by type then name.
func (q queries) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+categoryColumns+" FROM categories ORDER BY type, name")
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var cats []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// CountCategoryTransactions counts transactions referencing the category.
func (q queries) CountCategoryTransactions(ctx context.Context, id int64) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM transactions WHERE category_id = ?", id).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting transactions for category %d: %w", id, err)
	}
	return n, nil
}

func scanCategory(row rowScanner) (model.Category, error) {
	var (
		c                    model.Category
		typ                  string
		createdAt, updatedAt string
	)
	err := row.Scan(&c.ID, &c.Name, &c.Color, &c.Icon, &typ, &createdAt, &updatedAt)
	if err != nil {
		return model.Category{}, err
	}

	c.Type = model.TransactionType(typ)
	if c.CreatedAt, err = decodeTime(createdAt); err != nil {
		return model.Category{}, err
	}
	if c.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return model.Category{}, err
	}
	return c, nil
}
