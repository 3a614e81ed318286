package recurrence

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/moisesuailab/finance-app/internal/model"
	"github.com/moisesuailab/finance-app/internal/store"
)

// Materializer scans recurring templates and creates their overdue pending
// instances. Run is idempotent: occurrence dates already recorded on the
// template are never generated again, and an attribute-level duplicate check
// guards rows written before date tracking existed.
type Materializer struct {
	store *store.Store
	log   *slog.Logger

	running atomic.Bool
	now     func() time.Time
}

// NewMaterializer creates a Materializer.
func NewMaterializer(st *store.Store, log *slog.Logger) *Materializer {
	return &Materializer{store: st, log: log, now: time.Now}
}

// Run materializes missing occurrences for every recurring template and
// returns how many instances were created. Overlapping calls collapse: if a
// run is already in flight the call returns immediately with zero work done.
func (m *Materializer) Run(ctx context.Context) (int, error) {
	if !m.running.CompareAndSwap(false, true) {
		m.log.Debug("materializer already running, skipping")
		return 0, nil
	}
	defer m.running.Store(false)

	templates, err := m.store.ListTransactions(ctx, store.TransactionFilter{TemplatesOnly: true})
	if err != nil {
		return 0, fmt.Errorf("listing recurring templates: %w", err)
	}
	if len(templates) == 0 {
		return 0, nil
	}

	existing, err := m.store.ListTransactions(ctx, store.TransactionFilter{})
	if err != nil {
		return 0, fmt.Errorf("listing transactions: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, t := range existing {
		seen[dedupKey(t.Description, t.CategoryID, t.AccountID, t.Amount.String(), t.Date.Format(model.DateFormat))] = true
	}

	now := m.now()
	created := 0
	for _, tmpl := range templates {
		n, err := m.materializeTemplate(ctx, tmpl, now, seen)
		if err != nil {
			return created, fmt.Errorf("template %d (%s): %w", tmpl.ID, tmpl.Description, err)
		}
		created += n
	}

	if created > 0 {
		m.log.Info("materialized recurring transactions", "count", created)
	}
	return created, nil
}

func (m *Materializer) materializeTemplate(ctx context.Context, tmpl model.Transaction, now time.Time, seen map[string]bool) (int, error) {
	// An installment template is itself installment 1 of the series, so a
	// series capped at N spawns N-1 instances; other templates spawn N.
	maxOccurrences := tmpl.RecurrenceOccurrences
	if tmpl.IsInstallment {
		maxOccurrences--
	}

	missing := MissingOccurrences(tmpl.Date, tmpl.RecurrenceType, maxOccurrences, tmpl.GeneratedDates, now)
	if len(missing) == 0 {
		return 0, nil
	}

	var instances []*model.Transaction
	for i, day := range missing {
		date, err := time.Parse(model.DateFormat, day)
		if err != nil {
			return 0, err
		}

		description := tmpl.Description
		if tmpl.IsInstallment {
			// Instances continue the numbering after the template and any
			// previously generated installments.
			n := len(tmpl.GeneratedDates) + i + 2
			base := tmpl.BaseDescription
			if base == "" {
				base = tmpl.Description
			}
			description = fmt.Sprintf("%s - %d/%d", base, n, tmpl.RecurrenceOccurrences)
		}

		key := dedupKey(description, tmpl.CategoryID, tmpl.AccountID, tmpl.Amount.String(), day)
		if seen[key] {
			continue
		}
		seen[key] = true

		instances = append(instances, &model.Transaction{
			AccountID:      tmpl.AccountID,
			CategoryID:     tmpl.CategoryID,
			Type:           tmpl.Type,
			Status:         model.StatusPending,
			Amount:         tmpl.Amount,
			Description:    description,
			Date:           date,
			RecurrenceType: model.RecurrenceNone,
			FromAccountID:  tmpl.FromAccountID,
			ToAccountID:    tmpl.ToAccountID,
			Tags:           tmpl.Tags,
		})
	}

	// The insert and the generated-dates append commit together, so a crash
	// cannot leave instances behind without the dates that dedup them.
	err := m.store.InTx(ctx, func(tx *store.Tx) error {
		if err := tx.BulkInsertTransactions(ctx, instances); err != nil {
			return err
		}
		return tx.SetGeneratedDates(ctx, tmpl.ID, append(tmpl.GeneratedDates, missing...))
	})
	if err != nil {
		return 0, err
	}
	return len(instances), nil
}

func dedupKey(description string, categoryID, accountID int64, amount, day string) string {
	return fmt.Sprintf("%s|%d|%d|%s|%s", description, categoryID, accountID, amount, day)
}
