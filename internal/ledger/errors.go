package ledger

import (
	"fmt"
	"strings"
)

// ValidationError rejects an operation on bad input before any state
// changes. Violations are user-facing messages.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// ConsistencyError rejects an operation that would break a ledger invariant,
// such as deleting an account that still holds money.
type ConsistencyError struct {
	Op     string
	Reason string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}
