package caderneta

import (
	"fmt"
	"time"
)

// Issue describes a data-integrity problem found during a recalculation.
// Issues are diagnostics, not failures: the offending entry is excluded
// from the sum so the rest of the computation still completes.
type Issue struct {
	Month MonthKey
	Day   int
	TxID  string
	Cause string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s-%02d tx %s: %s", i.Month, i.Day, i.TxID, i.Cause)
}

// RecalculationResult reports the outcome of a balance propagation run.
type RecalculationResult struct {
	OK       bool
	Affected []MonthKey
	Issues   []Issue
}

// YearEndBalance returns the last known balance of the year: it scans
// months December to January and, within each populated month, days last
// to first, and returns the recorded balance of the most recent day that
// carries one. A year with no data yields zero.
//
// This is deliberately a backward scan for the last known state, not a
// forward accumulation: an incompletely filled year still yields a
// meaningful inherited balance.
func (l *Ledger) YearEndBalance(year int) Money {
	yl := l.years[year]
	if yl == nil {
		return Money{}
	}
	for m := time.December; m >= time.January; m-- {
		ml := yl.Month(m)
		if ml == nil {
			continue
		}
		days := ml.sortedDays()
		for i := len(days) - 1; i >= 0; i-- {
			if balance, ok := ml.days[days[i]].Balance(); ok {
				return balance
			}
		}
	}
	return Money{}
}

// InheritedBalance returns the opening balance a year receives from the
// end of the previous year. A year with no predecessor data inherits zero.
func (l *Ledger) InheritedBalance(year int) Money {
	return l.YearEndBalance(year - 1)
}

// Balance returns the cached closing balance of (year, month) and whether
// that month has recorded data.
func (l *Ledger) Balance(year int, month time.Month) (Money, bool) {
	ml := l.month(year, month, false)
	if ml == nil {
		return Money{}, false
	}
	return ml.closing, true
}

// RecalculateFrom recomputes the opening and closing balances of the
// month containing from and of every subsequent populated month, in
// strictly ascending chronological order. Processing out of order would
// read a stale closing balance as the next opening balance, so the run
// is synchronous and not cancellable once started.
//
// Balances on visited months and days are overwritten; transactions are
// never mutated. Invalid entries are reported as Issues and excluded
// from the sums.
func (l *Ledger) RecalculateFrom(from Date) RecalculationResult {
	result := RecalculationResult{OK: true}

	start := MonthKey{Year: from.Year(), Month: from.Month()}
	var pending []MonthKey
	for _, key := range l.monthKeys() {
		if key.Year > start.Year || (key.Year == start.Year && key.Month >= start.Month) {
			pending = append(pending, key)
		}
	}
	if len(pending) == 0 {
		return result
	}

	opening := l.openingFor(pending[0])
	for _, key := range pending {
		ml := l.month(key.Year, key.Month, false)
		ml.opening = opening
		ml.closing = l.recomputeMonth(key, ml, &result)
		opening = ml.closing
		result.Affected = append(result.Affected, key)
	}
	return result
}

// openingFor resolves the opening balance of the first recomputed month:
// the closing balance of the latest populated month before it in the
// same year, or the balance inherited from the previous year.
func (l *Ledger) openingFor(key MonthKey) Money {
	if yl := l.years[key.Year]; yl != nil {
		for m := key.Month - 1; m >= time.January; m-- {
			if ml := yl.Month(m); ml != nil && !ml.IsEmpty() {
				return ml.closing
			}
		}
	}
	return l.InheritedBalance(key.Year)
}

// recomputeMonth applies the month's entries to its opening balance and
// records the running balance on every visited day. The month is updated
// atomically from the caller's point of view: no suspension point exists
// between the first and the last day.
func (l *Ledger) recomputeMonth(key MonthKey, ml *MonthLedger, result *RecalculationResult) Money {
	running := ml.opening
	for day, dl := range ml.Days() {
		for _, tx := range dl.transactions {
			if err := tx.Validate(); err != nil {
				result.OK = false
				result.Issues = append(result.Issues, Issue{
					Month: key,
					Day:   day,
					TxID:  tx.ID,
					Cause: err.Error(),
				})
				continue
			}
			running = running.Add(tx.Signed())
		}
		dl.balance = running
		dl.hasBalance = true
	}
	return running
}
