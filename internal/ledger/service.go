// Package ledger keeps account balances synchronized with the transaction
// lifecycle: a transaction affects balances if and only if it is completed,
// exactly once, and the effect is reversed exactly once when it is edited
// away, deleted, or re-pointed at different accounts.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/moisesuailab/finance-app/internal/model"
	"github.com/moisesuailab/finance-app/internal/store"
)

// Service orchestrates transaction and account mutations against the store.
type Service struct {
	store *store.Store
	log   *slog.Logger
}

// NewService creates a ledger Service.
func NewService(st *store.Store, log *slog.Logger) *Service {
	return &Service{store: st, log: log}
}

// CreateTransactionInput holds the caller-supplied fields of a new
// transaction. Amount is always positive; the sign of the balance effect is
// derived from Type.
type CreateTransactionInput struct {
	AccountID   int64
	CategoryID  int64
	Type        model.TransactionType
	Status      model.TransactionStatus
	Amount      decimal.Decimal
	Description string
	Date        time.Time

	IsRecurring           bool
	RecurrenceType        model.RecurrenceType
	RecurrenceOccurrences int
	IsInstallment         bool

	FromAccountID int64
	ToAccountID   int64

	Tags []string
}

// TransactionPatch carries the fields of an update; nil fields keep the old
// value.
type TransactionPatch struct {
	AccountID     *int64
	CategoryID    *int64
	Type          *model.TransactionType
	Status        *model.TransactionStatus
	Amount        *decimal.Decimal
	Description   *string
	Date          *time.Time
	FromAccountID *int64
	ToAccountID   *int64
	Tags          *[]string
}

// CreateTransaction validates and persists a new transaction. A completed
// transaction applies its balance effect in the same store transaction as
// the insert; a pending one touches no balances.
func (s *Service) CreateTransaction(ctx context.Context, input CreateTransactionInput) (model.Transaction, error) {
	t := model.Transaction{
		AccountID:             input.AccountID,
		CategoryID:            input.CategoryID,
		Type:                  input.Type,
		Status:                input.Status,
		Amount:                input.Amount,
		Description:           input.Description,
		Date:                  input.Date,
		IsRecurring:           input.IsRecurring,
		RecurrenceType:        input.RecurrenceType,
		RecurrenceOccurrences: input.RecurrenceOccurrences,
		IsInstallment:         input.IsInstallment,
		FromAccountID:         input.FromAccountID,
		ToAccountID:           input.ToAccountID,
		Tags:                  input.Tags,
	}
	if t.RecurrenceType == "" {
		t.RecurrenceType = model.RecurrenceNone
	}
	if t.Type == model.TypeTransfer {
		// account_id mirrors the source account for backward compatibility.
		t.AccountID = t.FromAccountID
	}
	if t.IsRecurring && t.IsInstallment {
		// The template itself is installment 1 of the series.
		t.BaseDescription = t.Description
		t.Description = installmentDescription(t.BaseDescription, 1, t.RecurrenceOccurrences)
	}

	if violations := validateTransaction(t); len(violations) > 0 {
		return model.Transaction{}, &ValidationError{Violations: violations}
	}

	err := s.store.InTx(ctx, func(tx *store.Tx) error {
		if err := s.checkAccounts(ctx, tx, t); err != nil {
			return err
		}
		if err := tx.CreateTransaction(ctx, &t); err != nil {
			return err
		}
		if t.Status == model.StatusCompleted {
			return s.applyEffect(ctx, tx, t, false)
		}
		return nil
	})
	if err != nil {
		return model.Transaction{}, err
	}
	return t, nil
}

// UpdateTransaction applies a patch to an existing transaction. If the old
// record was completed its effect is fully reversed first; if the merged
// record is completed the new effect is applied. Editing a pending
// transaction never touches balances.
func (s *Service) UpdateTransaction(ctx context.Context, id int64, patch TransactionPatch) error {
	return s.store.InTx(ctx, func(tx *store.Tx) error {
		old, err := tx.GetTransaction(ctx, id)
		if err != nil {
			return err
		}

		merged := mergePatch(old, patch)
		if violations := validateTransaction(merged); len(violations) > 0 {
			return &ValidationError{Violations: violations}
		}

		if old.Status == model.StatusCompleted {
			if err := s.applyEffect(ctx, tx, old, true); err != nil {
				return err
			}
		}
		if merged.Status == model.StatusCompleted {
			if err := s.applyEffect(ctx, tx, merged, false); err != nil {
				return err
			}
		}
		return tx.UpdateTransaction(ctx, &merged)
	})
}

// DeleteTransaction removes a transaction, reversing its balance effect if
// it was completed.
func (s *Service) DeleteTransaction(ctx context.Context, id int64) error {
	return s.store.InTx(ctx, func(tx *store.Tx) error {
		t, err := tx.GetTransaction(ctx, id)
		if err != nil {
			return err
		}
		if t.Status == model.StatusCompleted {
			if err := s.applyEffect(ctx, tx, t, true); err != nil {
				return err
			}
		}
		return tx.DeleteTransaction(ctx, id)
	})
}

// CompleteTransaction moves a pending transaction to completed and applies
// its balance effect once. Completing an already-completed transaction is a
// no-op so the effect can never double-apply.
func (s *Service) CompleteTransaction(ctx context.Context, id int64) error {
	return s.store.InTx(ctx, func(tx *store.Tx) error {
		t, err := tx.GetTransaction(ctx, id)
		if err != nil {
			return err
		}
		if t.Status != model.StatusPending {
			return nil
		}

		t.Status = model.StatusCompleted
		if err := tx.UpdateTransaction(ctx, &t); err != nil {
			return err
		}
		return s.applyEffect(ctx, tx, t, false)
	})
}

// GetTransaction returns one transaction by id.
func (s *Service) GetTransaction(ctx context.Context, id int64) (model.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

// ListTransactions returns transactions matching the filter. Read-only, no
// side effects.
func (s *Service) ListTransactions(ctx context.Context, f store.TransactionFilter) ([]model.Transaction, error) {
	return s.store.ListTransactions(ctx, f)
}

// checkAccounts verifies that the accounts a new transaction will touch
// exist, so a completed create fails cleanly instead of half-applying.
func (s *Service) checkAccounts(ctx context.Context, tx *store.Tx, t model.Transaction) error {
	ids := []int64{t.AccountID}
	if t.Type == model.TypeTransfer {
		ids = []int64{t.FromAccountID, t.ToAccountID}
	}
	for _, id := range ids {
		a, err := tx.GetAccount(ctx, id)
		if err != nil {
			return err
		}
		if t.Type == model.TypeTransfer && id == t.FromAccountID &&
			t.Status == model.StatusCompleted && a.CurrentBalance.LessThan(t.Amount) {
			return &ValidationError{Violations: []string{
				fmt.Sprintf("insufficient balance in %s: have %s, transfer needs %s",
					a.Name, a.CurrentBalance, t.Amount),
			}}
		}
	}
	return nil
}

func mergePatch(old model.Transaction, p TransactionPatch) model.Transaction {
	merged := old
	if p.AccountID != nil {
		merged.AccountID = *p.AccountID
	}
	if p.CategoryID != nil {
		merged.CategoryID = *p.CategoryID
	}
	if p.Type != nil {
		merged.Type = *p.Type
	}
	if p.Status != nil {
		merged.Status = *p.Status
	}
	if p.Amount != nil {
		merged.Amount = *p.Amount
	}
	if p.Description != nil {
		merged.Description = *p.Description
	}
	if p.Date != nil {
		merged.Date = *p.Date
	}
	if p.FromAccountID != nil {
		merged.FromAccountID = *p.FromAccountID
	}
	if p.ToAccountID != nil {
		merged.ToAccountID = *p.ToAccountID
	}
	if p.Tags != nil {
		merged.Tags = *p.Tags
	}
	if merged.Type == model.TypeTransfer && merged.FromAccountID != 0 {
		merged.AccountID = merged.FromAccountID
	}
	return merged
}

func installmentDescription(base string, n, total int) string {
	return fmt.Sprintf("%s - %d/%d", base, n, total)
}

// IsNotFound reports whether err means a referenced record no longer exists.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
