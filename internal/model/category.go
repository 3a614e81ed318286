package model

import "time"

// Category labels income or expense transactions. Categories carry no
// balance state of their own.
type Category struct {
	ID        int64
	Name      string
	Color     string
	Icon      string
	Type      TransactionType // income or expense, never transfer
	CreatedAt time.Time
	UpdatedAt time.Time
}
