package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a monthly spending target for one category. It has no
// interaction with account balances.
type Budget struct {
	ID         int64
	CategoryID int64
	Amount     decimal.Decimal
	Month      string // "2006-01"
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
