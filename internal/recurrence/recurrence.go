// Package recurrence computes and materializes future occurrences of
// recurring transaction templates.
package recurrence

import (
	"time"

	"github.com/moisesuailab/finance-app/internal/model"
)

// NextOccurrence returns base advanced by n periods of the given frequency.
// Numbering starts at 1: the template itself is occurrence 0 and is never
// regenerated. Returns ok=false for RecurrenceNone.
//
// Monthly and yearly steps clamp to the last day of the target month, so a
// Jan 31 template yields Feb 28/29, Mar 31, Apr 30 rather than drifting.
func NextOccurrence(base time.Time, rt model.RecurrenceType, n int) (time.Time, bool) {
	if n < 1 {
		return time.Time{}, false
	}
	switch rt {
	case model.RecurrenceDaily:
		return base.AddDate(0, 0, n), true
	case model.RecurrenceWeekly:
		return base.AddDate(0, 0, 7*n), true
	case model.RecurrenceMonthly:
		return addMonthsClamped(base, n), true
	case model.RecurrenceYearly:
		return addMonthsClamped(base, 12*n), true
	default:
		return time.Time{}, false
	}
}

// MissingOccurrences returns, in chronological order, the occurrence dates
// (yyyy-MM-dd) of a template that are due but not yet materialized.
//
// Candidates run from occurrence 1 up to maxOccurrences, stop at the end of
// now's calendar month (future months are never pre-generated), and are
// deduplicated against alreadyGenerated by exact date-string equality.
// maxOccurrences bounds the lifetime instance count: once alreadyGenerated
// holds that many dates, nothing further is produced.
func MissingOccurrences(base time.Time, rt model.RecurrenceType, maxOccurrences int, alreadyGenerated []string, now time.Time) []string {
	if rt == model.RecurrenceNone || maxOccurrences <= 0 {
		return nil
	}
	if len(alreadyGenerated) >= maxOccurrences {
		return nil
	}

	seen := make(map[string]bool, len(alreadyGenerated))
	for _, d := range alreadyGenerated {
		seen[d] = true
	}

	horizon := endOfMonth(now)

	var missing []string
	for n := 1; n <= maxOccurrences; n++ {
		candidate, ok := NextOccurrence(base, rt, n)
		if !ok {
			return nil
		}
		// Day granularity only; the template's clock time is irrelevant.
		cy, cm, cd := candidate.Date()
		if time.Date(cy, cm, cd, 0, 0, 0, 0, candidate.Location()).After(horizon) {
			break
		}
		day := candidate.Format(model.DateFormat)
		if seen[day] {
			continue
		}
		missing = append(missing, day)
		if len(alreadyGenerated)+len(missing) >= maxOccurrences {
			break
		}
	}
	return missing
}

// addMonthsClamped adds months to t, clamping the day to the last day of the
// target month. time.Time.AddDate would normalize Jan 31 + 1 month to Mar 3.
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, t.Location())
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func endOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, daysIn(y, m), 0, 0, 0, 0, t.Location())
}
