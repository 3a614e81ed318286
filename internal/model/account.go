package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a money holder: wallet, bank account, savings reserve.
type Account struct {
	ID          int64
	Name        string
	Description string
	Color       string
	Icon        string

	// InitialBalance is set at creation and only changes through an explicit
	// edit-reconciliation. CurrentBalance is the running balance: it must
	// always equal InitialBalance plus the signed effects of every completed
	// transaction touching this account.
	InitialBalance decimal.Decimal
	CurrentBalance decimal.Decimal

	// ExcludeFromTotal marks a reserve account left out of the "available" total.
	ExcludeFromTotal bool

	IsArchived bool
	ArchivedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
