package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType determines how a transaction's amount affects balances.
type TransactionType string

const (
	TypeIncome   TransactionType = "income"
	TypeExpense  TransactionType = "expense"
	TypeTransfer TransactionType = "transfer"
)

// TransactionStatus is the lifecycle state of a transaction. Only completed
// transactions affect account balances.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
)

// RecurrenceType is the repetition frequency of a recurring template.
type RecurrenceType string

const (
	RecurrenceNone    RecurrenceType = "none"
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
	RecurrenceYearly  RecurrenceType = "yearly"
)

// DateFormat is the calendar-date layout used everywhere a date is stored or
// compared as a string.
const DateFormat = "2006-01-02"

// Transaction is a single ledger movement. Amount is always stored positive;
// the sign is derived from Type when the balance effect is applied.
//
// For transfers, FromAccountID and ToAccountID are both set (and differ), and
// AccountID mirrors FromAccountID for backward compatibility. CategoryID is
// zero for transfers.
type Transaction struct {
	ID          int64
	AccountID   int64
	CategoryID  int64
	Type        TransactionType
	Status      TransactionStatus
	Amount      decimal.Decimal
	Description string

	// BaseDescription is the description before any installment suffix,
	// kept so generated installments can re-derive "name - n/total".
	BaseDescription string

	Date time.Time

	IsRecurring           bool
	RecurrenceType        RecurrenceType
	RecurrenceOccurrences int
	IsInstallment         bool

	// GeneratedDates lists, as yyyy-MM-dd strings, the occurrence dates this
	// recurring template has already materialized. Append-only.
	GeneratedDates []string

	FromAccountID int64
	ToAccountID   int64

	Tags []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTemplate reports whether this transaction is a recurring template that
// spawns instances over time.
func (t Transaction) IsTemplate() bool {
	return t.IsRecurring && t.RecurrenceType != RecurrenceNone
}

// References reports whether the transaction touches the given account as
// its sole account or as either side of a transfer.
func (t Transaction) References(accountID int64) bool {
	return t.AccountID == accountID || t.FromAccountID == accountID || t.ToAccountID == accountID
}
