package ledger

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/moisesuailab/finance-app/internal/model"
)

// occurrenceLimits caps RecurrenceOccurrences per frequency.
var occurrenceLimits = map[model.RecurrenceType]int{
	model.RecurrenceDaily:   365,
	model.RecurrenceWeekly:  104,
	model.RecurrenceMonthly: 120,
	model.RecurrenceYearly:  20,
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// validateTransaction checks a fully-merged transaction record. It never
// touches storage; referential checks happen in the service inside the same
// store transaction as the mutation.
func validateTransaction(t model.Transaction) []string {
	var violations []string

	switch t.Type {
	case model.TypeIncome, model.TypeExpense, model.TypeTransfer:
	default:
		violations = append(violations, fmt.Sprintf("unknown transaction type %q", t.Type))
	}

	switch t.Status {
	case model.StatusPending, model.StatusCompleted:
	default:
		violations = append(violations, fmt.Sprintf("unknown status %q", t.Status))
	}

	if strings.TrimSpace(t.Description) == "" {
		violations = append(violations, "description is required")
	}
	if !t.Amount.IsPositive() {
		violations = append(violations, "amount must be positive")
	}
	if t.Date.IsZero() {
		violations = append(violations, "date is required")
	}

	if t.Type == model.TypeTransfer {
		if t.FromAccountID == 0 || t.ToAccountID == 0 {
			violations = append(violations, "transfer requires both source and destination accounts")
		} else if t.FromAccountID == t.ToAccountID {
			violations = append(violations, "transfer source and destination accounts must differ")
		}
		if t.CategoryID != 0 {
			violations = append(violations, "transfer must not carry a category")
		}
	} else if t.CategoryID == 0 {
		violations = append(violations, "category is required")
	}

	violations = append(violations, validateRecurrence(t)...)
	return violations
}

func validateRecurrence(t model.Transaction) []string {
	if !t.IsRecurring {
		if t.RecurrenceType != "" && t.RecurrenceType != model.RecurrenceNone {
			return []string{"recurrence frequency set on a non-recurring transaction"}
		}
		return nil
	}

	var violations []string
	limit, ok := occurrenceLimits[t.RecurrenceType]
	if !ok {
		violations = append(violations, fmt.Sprintf("unknown recurrence frequency %q", t.RecurrenceType))
		return violations
	}
	if t.RecurrenceOccurrences < 1 || t.RecurrenceOccurrences > limit {
		violations = append(violations, fmt.Sprintf(
			"occurrences for %s recurrence must be between 1 and %d", t.RecurrenceType, limit))
	}
	if t.IsInstallment && t.RecurrenceType != model.RecurrenceMonthly {
		violations = append(violations, "installments are only supported for monthly recurrence")
	}
	return violations
}

// validColor accepts an empty color or a #RRGGBB value.
func validColor(c string) bool {
	return c == "" || hexColor.MatchString(c)
}
