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

// CreateAccountInput holds the caller-supplied fields of a new account.
type CreateAccountInput struct {
	Name             string
	Description      string
	Color            string
	Icon             string
	InitialBalance   decimal.Decimal
	ExcludeFromTotal bool
}

// AccountPatch carries the fields of an account update; nil fields keep the
// old value.
type AccountPatch struct {
	Name             *string
	Description      *string
	Color            *string
	Icon             *string
	InitialBalance   *decimal.Decimal
	ExcludeFromTotal *bool
}

// Totals summarizes current balances across active accounts.
type Totals struct {
	// Available sums accounts that count toward the primary total.
	Available decimal.Decimal
	// Reserved sums accounts flagged exclude-from-total.
	Reserved decimal.Decimal
}

// CreateAccount validates and persists a new account with
// currentBalance = initialBalance.
func (s *Service) CreateAccount(ctx context.Context, input CreateAccountInput) (model.Account, error) {
	var violations []string
	if strings.TrimSpace(input.Name) == "" {
		violations = append(violations, "name is required")
	}
	if input.InitialBalance.IsNegative() {
		violations = append(violations, "initial balance must not be negative")
	}
	if !validColor(input.Color) {
		violations = append(violations, "color must be a #RRGGBB value")
	}
	if len(violations) > 0 {
		return model.Account{}, &ValidationError{Violations: violations}
	}

	a := model.Account{
		Name:             input.Name,
		Description:      input.Description,
		Color:            input.Color,
		Icon:             input.Icon,
		InitialBalance:   input.InitialBalance,
		CurrentBalance:   input.InitialBalance,
		ExcludeFromTotal: input.ExcludeFromTotal,
	}
	if err := s.store.CreateAccount(ctx, &a); err != nil {
		return model.Account{}, err
	}
	return a, nil
}

// UpdateAccount applies a patch to an account's attributes. Editing the
// initial balance is an explicit reconciliation: the running balance shifts
// by the same delta, so completed-transaction history stays accounted for.
func (s *Service) UpdateAccount(ctx context.Context, id int64, patch AccountPatch) error {
	return s.store.InTx(ctx, func(tx *store.Tx) error {
		a, err := tx.GetAccount(ctx, id)
		if err != nil {
			return err
		}

		if patch.Name != nil {
			if strings.TrimSpace(*patch.Name) == "" {
				return &ValidationError{Violations: []string{"name is required"}}
			}
			a.Name = *patch.Name
		}
		if patch.Description != nil {
			a.Description = *patch.Description
		}
		if patch.Color != nil {
			if !validColor(*patch.Color) {
				return &ValidationError{Violations: []string{"color must be a #RRGGBB value"}}
			}
			a.Color = *patch.Color
		}
		if patch.Icon != nil {
			a.Icon = *patch.Icon
		}
		if patch.ExcludeFromTotal != nil {
			a.ExcludeFromTotal = *patch.ExcludeFromTotal
		}
		if patch.InitialBalance != nil {
			if patch.InitialBalance.IsNegative() {
				return &ValidationError{Violations: []string{"initial balance must not be negative"}}
			}
			delta := patch.InitialBalance.Sub(a.InitialBalance)
			a.InitialBalance = *patch.InitialBalance
			a.CurrentBalance = a.CurrentBalance.Add(delta)
		}

		return tx.UpdateAccount(ctx, &a)
	})
}

// ArchiveAccount soft-archives an account. Only an account holding no money
// may be archived.
func (s *Service) ArchiveAccount(ctx context.Context, id int64) error {
	return s.store.InTx(ctx, func(tx *store.Tx) error {
		a, err := tx.GetAccount(ctx, id)
		if err != nil {
			return err
		}
		if !a.CurrentBalance.IsZero() {
			return &ConsistencyError{
				Op:     "archive account",
				Reason: fmt.Sprintf("%s still holds %s; balance must be zero", a.Name, a.CurrentBalance),
			}
		}
		if a.IsArchived {
			return nil
		}

		now := time.Now()
		a.IsArchived = true
		a.ArchivedAt = &now
		return tx.UpdateAccount(ctx, &a)
	})
}

// DeleteAccount hard-deletes an account. It must hold no money and have no
// transactions referencing it.
func (s *Service) DeleteAccount(ctx context.Context, id int64) error {
	return s.store.InTx(ctx, func(tx *store.Tx) error {
		a, err := tx.GetAccount(ctx, id)
		if err != nil {
			return err
		}
		if !a.CurrentBalance.IsZero() {
			return &ConsistencyError{
				Op:     "delete account",
				Reason: fmt.Sprintf("%s still holds %s; balance must be zero", a.Name, a.CurrentBalance),
			}
		}

		refs, err := tx.CountAccountTransactions(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return &ConsistencyError{
				Op:     "delete account",
				Reason: fmt.Sprintf("%d transactions still reference %s", refs, a.Name),
			}
		}

		return tx.DeleteAccount(ctx, id)
	})
}

// GetAccount returns one account by id.
func (s *Service) GetAccount(ctx context.Context, id int64) (model.Account, error) {
	return s.store.GetAccount(ctx, id)
}

// ListAccounts returns all accounts.
func (s *Service) ListAccounts(ctx context.Context) ([]model.Account, error) {
	return s.store.ListAccounts(ctx)
}

// AccountTotals sums current balances of non-archived accounts, split into
// the available total and the reserved (excluded) total.
func (s *Service) AccountTotals(ctx context.Context) (Totals, error) {
	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return Totals{}, err
	}

	totals := Totals{Available: decimal.Zero, Reserved: decimal.Zero}
	for _, a := range accounts {
		if a.IsArchived {
			continue
		}
		if a.ExcludeFromTotal {
			totals.Reserved = totals.Reserved.Add(a.CurrentBalance)
		} else {
			totals.Available = totals.Available.Add(a.CurrentBalance)
		}
	}
	return totals, nil
}
