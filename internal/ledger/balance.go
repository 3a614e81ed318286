package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/moisesuailab/finance-app/internal/model"
	"github.com/moisesuailab/finance-app/internal/store"
)

// applyEffect applies (or, with reverse, undoes) a transaction's balance
// effect. Income adds to the account, expense subtracts, and a transfer
// always moves both legs explicitly: subtract from source, add to
// destination. Both legs run inside the caller's store transaction, so a
// failure on either leg rolls back the other.
func (s *Service) applyEffect(ctx context.Context, tx *store.Tx, t model.Transaction, reverse bool) error {
	amount := t.Amount
	if reverse {
		amount = amount.Neg()
	}

	switch t.Type {
	case model.TypeIncome:
		return s.adjust(ctx, tx, t.AccountID, amount)
	case model.TypeExpense:
		return s.adjust(ctx, tx, t.AccountID, amount.Neg())
	case model.TypeTransfer:
		if err := s.adjust(ctx, tx, t.FromAccountID, amount.Neg()); err != nil {
			return err
		}
		return s.adjust(ctx, tx, t.ToAccountID, amount)
	default:
		return &ValidationError{Violations: []string{"unknown transaction type " + string(t.Type)}}
	}
}

// adjust moves one account's running balance by delta. A missing account is
// not fatal: a historical transaction may reference an account that was
// since deleted, in which case the application is skipped and logged rather
// than aborting the whole operation.
func (s *Service) adjust(ctx context.Context, tx *store.Tx, accountID int64, delta decimal.Decimal) error {
	err := tx.AdjustBalance(ctx, accountID, delta)
	if errors.Is(err, store.ErrNotFound) {
		s.log.Warn("skipping balance adjustment for missing account",
			"account_id", accountID, "delta", delta)
		return nil
	}
	return err
}
