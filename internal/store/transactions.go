package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/moisesuailab/finance-app/internal/model"
)

const transactionColumns = `id, account_id, category_id, type, status, amount,
	description, base_description, date, is_recurring, recurrence_type,
	recurrence_occurrences, is_installment, generated_dates, from_account_id,
	to_account_id, tags, created_at, updated_at`

// TransactionFilter narrows ListTransactions. Zero values mean "any".
type TransactionFilter struct {
	AccountID  int64
	CategoryID int64
	Status     model.TransactionStatus
	From       time.Time
	To         time.Time

	// TemplatesOnly selects recurring templates (is_recurring with a
	// frequency), the materializer's scan set.
	TemplatesOnly bool
}

// CreateTransaction inserts the transaction and fills in its ID and
// timestamps.
func (q queries) CreateTransaction(ctx context.Context, t *model.Transaction) error {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	args, err := transactionArgs(t)
	if err != nil {
		return err
	}

	res, err := q.db.ExecContext(ctx, insertTransactionSQL, args...)
	if err != nil {
		return fmt.Errorf("inserting transaction: %w", err)
	}

	t.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading transaction id: %w", err)
	}
	return nil
}

// BulkInsertTransactions inserts all transactions, filling in IDs and
// timestamps. Callers wanting all-or-nothing semantics run it inside InTx.
func (q queries) BulkInsertTransactions(ctx context.Context, ts []*model.Transaction) error {
	for i, t := range ts {
		if err := q.CreateTransaction(ctx, t); err != nil {
			return fmt.Errorf("bulk insert %d of %d: %w", i+1, len(ts), err)
		}
	}
	return nil
}

// GetTransaction returns the transaction with the given id, or ErrNotFound.
func (q queries) GetTransaction(ctx context.Context, id int64) (model.Transaction, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	return t, err
}

// UpdateTransaction persists the full transaction record and touches
// updated_at.
func (q queries) UpdateTransaction(ctx context.Context, t *model.Transaction) error {
	t.UpdatedAt = time.Now()

	generated, err := encodeStrings(t.GeneratedDates)
	if err != nil {
		return err
	}
	tags, err := encodeStrings(t.Tags)
	if err != nil {
		return err
	}

	res, err := q.db.ExecContext(ctx, `
		UPDATE transactions SET account_id = ?, category_id = ?, type = ?,
			status = ?, amount = ?, description = ?, base_description = ?,
			date = ?, is_recurring = ?, recurrence_type = ?,
			recurrence_occurrences = ?, is_installment = ?, generated_dates = ?,
			from_account_id = ?, to_account_id = ?, tags = ?, updated_at = ?
		WHERE id = ?`,
		t.AccountID, t.CategoryID, string(t.Type), string(t.Status),
		t.Amount.String(), t.Description, t.BaseDescription,
		encodeDate(t.Date), boolToInt(t.IsRecurring), string(t.RecurrenceType),
		t.RecurrenceOccurrences, boolToInt(t.IsInstallment), generated,
		t.FromAccountID, t.ToAccountID, tags, encodeTime(t.UpdatedAt), t.ID)
	if err != nil {
		return fmt.Errorf("updating transaction %d: %w", t.ID, err)
	}
	return requireRow(res, t.ID)
}

// SetGeneratedDates replaces a template's materialized-dates list. The list
// is append-only at the caller level; this just persists the grown list.
func (q queries) SetGeneratedDates(ctx context.Context, id int64, dates []string) error {
	encoded, err := encodeStrings(dates)
	if err != nil {
		return err
	}
	res, err := q.db.ExecContext(ctx,
		"UPDATE transactions SET generated_dates = ?, updated_at = ? WHERE id = ?",
		encoded, encodeTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("updating generated dates for transaction %d: %w", id, err)
	}
	return requireRow(res, id)
}

// DeleteTransaction removes the transaction record.
func (q queries) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting transaction %d: %w", id, err)
	}
	return requireRow(res, id)
}

// ListTransactions returns transactions matching the filter, newest first.
func (q queries) ListTransactions(ctx context.Context, f TransactionFilter) ([]model.Transaction, error) {
	var (
		conds []string
		args  []any
	)
	if f.AccountID != 0 {
		conds = append(conds, "(account_id = ? OR from_account_id = ? OR to_account_id = ?)")
		args = append(args, f.AccountID, f.AccountID, f.AccountID)
	}
	if f.CategoryID != 0 {
		conds = append(conds, "category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(f.Status))
	}
	if !f.From.IsZero() {
		conds = append(conds, "date >= ?")
		args = append(args, encodeDate(f.From))
	}
	if !f.To.IsZero() {
		conds = append(conds, "date <= ?")
		args = append(args, encodeDate(f.To))
	}
	if f.TemplatesOnly {
		conds = append(conds, "is_recurring = 1 AND recurrence_type != 'none'")
	}

	query := "SELECT " + transactionColumns + " FROM transactions"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY date DESC, id DESC"

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var ts []model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		ts = append(ts, t)
	}
	return ts, rows.Err()
}

const insertTransactionSQL = `
	INSERT INTO transactions (account_id, category_id, type, status, amount,
		description, base_description, date, is_recurring, recurrence_type,
		recurrence_occurrences, is_installment, generated_dates,
		from_account_id, to_account_id, tags, updated_at, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// transactionArgs returns the argument list for insertTransactionSQL.
func transactionArgs(t *model.Transaction) ([]any, error) {
	generated, err := encodeStrings(t.GeneratedDates)
	if err != nil {
		return nil, err
	}
	tags, err := encodeStrings(t.Tags)
	if err != nil {
		return nil, err
	}
	return []any{
		t.AccountID, t.CategoryID, string(t.Type), string(t.Status),
		t.Amount.String(), t.Description, t.BaseDescription,
		encodeDate(t.Date), boolToInt(t.IsRecurring), string(t.RecurrenceType),
		t.RecurrenceOccurrences, boolToInt(t.IsInstallment), generated,
		t.FromAccountID, t.ToAccountID, tags,
		encodeTime(t.UpdatedAt), encodeTime(t.CreatedAt),
	}, nil
}

func scanTransaction(row rowScanner) (model.Transaction, error) {
	var (
		t                               model.Transaction
		typ, status, amount, date       string
		recurring, installment          int
		recurrenceType, generated, tags string
		createdAt, updatedAt            string
	)
	err := row.Scan(&t.ID, &t.AccountID, &t.CategoryID, &typ, &status, &amount,
		&t.Description, &t.BaseDescription, &date, &recurring, &recurrenceType,
		&t.RecurrenceOccurrences, &installment, &generated, &t.FromAccountID,
		&t.ToAccountID, &tags, &createdAt, &updatedAt)
	if err != nil {
		return model.Transaction{}, err
	}

	t.Type = model.TransactionType(typ)
	t.Status = model.TransactionStatus(status)
	t.RecurrenceType = model.RecurrenceType(recurrenceType)
	t.IsRecurring = recurring != 0
	t.IsInstallment = installment != 0

	if t.Amount, err = decodeDecimal(amount); err != nil {
		return model.Transaction{}, err
	}
	if t.Date, err = decodeDate(date); err != nil {
		return model.Transaction{}, err
	}
	if t.GeneratedDates, err = decodeStrings(generated); err != nil {
		return model.Transaction{}, err
	}
	if t.Tags, err = decodeStrings(tags); err != nil {
		return model.Transaction{}, err
	}
	if t.CreatedAt, err = decodeTime(createdAt); err != nil {
		return model.Transaction{}, err
	}
	if t.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return model.Transaction{}, err
	}
	return t, nil
}
