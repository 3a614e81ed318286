package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/moisesuailab/finance-app/internal/model"
)

const accountColumns = `id, name, description, color, icon, initial_balance,
	current_balance, exclude_from_total, is_archived, archived_at, created_at, updated_at`

// CreateAccount inserts the account and fills in its ID and timestamps.
func (q queries) CreateAccount(ctx context.Context, a *model.Account) error {
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	res, err := q.db.ExecContext(ctx, `
		INSERT INTO accounts (name, description, color, icon, initial_balance,
			current_balance, exclude_from_total, is_archived, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Name, a.Description, a.Color, a.Icon,
		a.InitialBalance.String(), a.CurrentBalance.String(),
		boolToInt(a.ExcludeFromTotal), boolToInt(a.IsArchived),
		encodeTime(a.CreatedAt), encodeTime(a.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting account: %w", err)
	}

	a.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading account id: %w", err)
	}
	return nil
}

// GetAccount returns the account with the given id, or ErrNotFound.
func (q queries) GetAccount(ctx context.Context, id int64) (model.Account, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE id = ?", id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, fmt.Errorf("account %d: %w", id, ErrNotFound)
	}
	return a, err
}

// UpdateAccount persists the full account record and touches updated_at.
func (q queries) UpdateAccount(ctx context.Context, a *model.Account) error {
	a.UpdatedAt = time.Now()

	var archivedAt any
	if a.ArchivedAt != nil {
		archivedAt = encodeTime(*a.ArchivedAt)
	}

	res, err := q.db.ExecContext(ctx, `
		UPDATE accounts SET name = ?, description = ?, color = ?, icon = ?,
			initial_balance = ?, current_balance = ?, exclude_from_total = ?,
			is_archived = ?, archived_at = ?, updated_at = ?
		WHERE id = ?`,
		a.Name, a.Description, a.Color, a.Icon,
		a.InitialBalance.String(), a.CurrentBalance.String(),
		boolToInt(a.ExcludeFromTotal), boolToInt(a.IsArchived),
		archivedAt, encodeTime(a.UpdatedAt), a.ID)
	if err != nil {
		return fmt.Errorf("updating account %d: %w", a.ID, err)
	}
	return requireRow(res, a.ID)
}

// DeleteAccount removes the account record.
func (q queries) DeleteAccount(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM accounts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting account %d: %w", id, err)
	}
	return requireRow(res, id)
}

// ListAccounts returns all accounts ordered by name.
func (q queries) ListAccounts(ctx context.Context) ([]model.Account, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+accountColumns+" FROM accounts ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// AdjustBalance adds a signed delta to the account's running balance and
// touches updated_at. This is the single atomic primitive every balance
// mutation composes from. Returns ErrNotFound if the account is gone.
func (q queries) AdjustBalance(ctx context.Context, id int64, delta decimal.Decimal) error {
	a, err := q.GetAccount(ctx, id)
	if err != nil {
		return err
	}

	a.CurrentBalance = a.CurrentBalance.Add(delta)
	return q.UpdateAccount(ctx, &a)
}

// CountAccountTransactions counts transactions referencing the account as
// sole account or as either side of a transfer.
func (q queries) CountAccountTransactions(ctx context.Context, id int64) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM transactions
		WHERE account_id = ? OR from_account_id = ? OR to_account_id = ?`,
		id, id, id).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting transactions for account %d: %w", id, err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (model.Account, error) {
	var (
		a                          model.Account
		initial, current           string
		excludeFromTotal, archived int
		archivedAt                 sql.NullString
		createdAt, updatedAt       string
	)
	err := row.Scan(&a.ID, &a.Name, &a.Description, &a.Color, &a.Icon,
		&initial, &current, &excludeFromTotal, &archived, &archivedAt,
		&createdAt, &updatedAt)
	if err != nil {
		return model.Account{}, err
	}

	if a.InitialBalance, err = decodeDecimal(initial); err != nil {
		return model.Account{}, err
	}
	if a.CurrentBalance, err = decodeDecimal(current); err != nil {
		return model.Account{}, err
	}
	a.ExcludeFromTotal = excludeFromTotal != 0
	a.IsArchived = archived != 0
	if archivedAt.Valid {
		t, err := decodeTime(archivedAt.String)
		if err != nil {
			return model.Account{}, err
		}
		a.ArchivedAt = &t
	}
	if a.CreatedAt, err = decodeTime(createdAt); err != nil {
		return model.Account{}, err
	}
	if a.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return model.Account{}, err
	}
	return a, nil
}

func requireRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("record %d: %w", id, ErrNotFound)
	}
	return nil
}
