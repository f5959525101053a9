package caderneta

import (
	"iter"
	"maps"
	"slices"
	"time"
)

// DayLedger holds the entries of one calendar day, in insertion order,
// plus the running balance recorded by the last recalculation.
type DayLedger struct {
	transactions []Transaction

	// balance is the running balance at the end of this day, recorded by
	// the propagation engine. A day without a recorded balance has never
	// been visited by a recalculation.
	balance    Money
	hasBalance bool
}

// Transactions iterates over the entries of the day in insertion order.
func (d *DayLedger) Transactions() iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, tx := range d.transactions {
			if !yield(tx) {
				return
			}
		}
	}
}

// Len returns the number of entries recorded on this day.
func (d *DayLedger) Len() int { return len(d.transactions) }

// Balance returns the recorded end-of-day running balance, if any.
func (d *DayLedger) Balance() (Money, bool) { return d.balance, d.hasBalance }

// MonthLedger is one calendar month within a year. Opening and closing
// balances are derived values owned by the propagation engine; they are
// never edited independently of it.
type MonthLedger struct {
	opening Money
	closing Money
	days    map[int]*DayLedger
}

// Opening returns the cached opening balance of the month.
func (m *MonthLedger) Opening() Money { return m.opening }

// Closing returns the cached closing balance of the month.
func (m *MonthLedger) Closing() Money { return m.closing }

// Day returns the ledger of the given day, or nil if the day has no entries.
func (m *MonthLedger) Day(day int) *DayLedger {
	if m.days == nil {
		return nil
	}
	return m.days[day]
}

// Days iterates over the populated days of the month in ascending day order.
func (m *MonthLedger) Days() iter.Seq2[int, *DayLedger] {
	return func(yield func(int, *DayLedger) bool) {
		for _, day := range m.sortedDays() {
			if !yield(day, m.days[day]) {
				return
			}
		}
	}
}

func (m *MonthLedger) sortedDays() []int {
	// A month whose day map is missing is treated as empty, not fatal.
	if m.days == nil {
		return nil
	}
	days := slices.Collect(maps.Keys(m.days))
	slices.Sort(days)
	return days
}

// IsEmpty reports whether the month carries no entries at all.
func (m *MonthLedger) IsEmpty() bool { return len(m.days) == 0 }

// YearLedger maps months to their ledgers. Not every month of a year
// needs to be populated; a gap means "no data recorded", which is
// distinct from a zero balance.
type YearLedger struct {
	months map[time.Month]*MonthLedger
}

// Month returns the ledger of the given month, or nil if it has no data.
func (y *YearLedger) Month(month time.Month) *MonthLedger {
	checkMonth(month)
	if y.months == nil {
		return nil
	}
	return y.months[month]
}

// Months iterates over the populated months in ascending order.
func (y *YearLedger) Months() iter.Seq2[time.Month, *MonthLedger] {
	return func(yield func(time.Month, *MonthLedger) bool) {
		months := slices.Collect(maps.Keys(y.months))
		slices.Sort(months)
		for _, m := range months {
			if !yield(m, y.months[m]) {
				return
			}
		}
	}
}

// Ledger is the root of the year -> month -> day -> transaction
// structure for one diary. It exclusively owns every structure reachable
// from it. Recurring rules are owned by a separate RuleSet and only
// referenced by the transactions they generate.
type Ledger struct {
	years map[int]*YearLedger
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{years: make(map[int]*YearLedger)}
}

// Year returns the ledger of the given year, or nil if it has no data.
func (l *Ledger) Year(year int) *YearLedger { return l.years[year] }

// Years iterates over the populated years in ascending order.
func (l *Ledger) Years() iter.Seq2[int, *YearLedger] {
	return func(yield func(int, *YearLedger) bool) {
		years := slices.Collect(maps.Keys(l.years))
		slices.Sort(years)
		for _, y := range years {
			if !yield(y, l.years[y]) {
				return
			}
		}
	}
}

// month returns the MonthLedger for (year, month), creating the path to
// it when create is set.
func (l *Ledger) month(year int, month time.Month, create bool) *MonthLedger {
	checkMonth(month)
	yl := l.years[year]
	if yl == nil {
		if !create {
			return nil
		}
		yl = &YearLedger{months: make(map[time.Month]*MonthLedger)}
		l.years[year] = yl
	}
	if yl.months == nil {
		if !create {
			return nil
		}
		yl.months = make(map[time.Month]*MonthLedger)
	}
	ml := yl.months[month]
	if ml == nil && create {
		ml = &MonthLedger{days: make(map[int]*DayLedger)}
		yl.months[month] = ml
	}
	return ml
}

// Insert records a transaction on its date. The transaction must already
// be validated; Insert is the only way entries reach the structure.
func (l *Ledger) Insert(tx Transaction) {
	ml := l.month(tx.Date.Year(), tx.Date.Month(), true)
	if ml.days == nil {
		ml.days = make(map[int]*DayLedger)
	}
	dl := ml.days[tx.Date.Day()]
	if dl == nil {
		dl = &DayLedger{}
		ml.days[tx.Date.Day()] = dl
	}
	dl.transactions = append(dl.transactions, tx)
}

// Remove deletes the transaction with the given id from its date,
// reporting whether it was found. Emptied day ledgers are pruned so a
// day with no entries reads as a gap, not as a zero.
func (l *Ledger) Remove(day Date, id string) bool {
	ml := l.month(day.Year(), day.Month(), false)
	if ml == nil || ml.days == nil {
		return false
	}
	dl := ml.days[day.Day()]
	if dl == nil {
		return false
	}
	for i, tx := range dl.transactions {
		if tx.ID == id {
			dl.transactions = slices.Delete(dl.transactions, i, i+1)
			if len(dl.transactions) == 0 {
				delete(ml.days, day.Day())
			}
			return true
		}
	}
	return false
}

// Transactions iterates over every transaction in chronological order.
func (l *Ledger) Transactions() iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, yl := range l.Years() {
			for _, ml := range yl.Months() {
				for _, dl := range ml.Days() {
					for tx := range dl.Transactions() {
						if !yield(tx) {
							return
						}
					}
				}
			}
		}
	}
}

// HasRecurring reports whether a transaction generated by the given rule
// already exists in (year, month). Daily adjustments never carry a rule
// id, so they are naturally outside the dedup scope.
func (l *Ledger) HasRecurring(ruleID string, year int, month time.Month) bool {
	ml := l.month(year, month, false)
	if ml == nil {
		return false
	}
	for _, dl := range ml.Days() {
		for tx := range dl.Transactions() {
			if tx.Origin == Recurring && tx.RuleID == ruleID {
				return true
			}
		}
	}
	return false
}

// monthKeys returns every populated (year, month) in chronological order.
func (l *Ledger) monthKeys() []MonthKey {
	var keys []MonthKey
	for y, yl := range l.Years() {
		for m := range yl.Months() {
			keys = append(keys, MonthKey{Year: y, Month: m})
		}
	}
	return keys
}

// MonthKey identifies one calendar month of one year.
type MonthKey struct {
	Year  int
	Month time.Month
}

func (k MonthKey) String() string {
	return NewDate(k.Year, k.Month, 1).Format("2006-01")
}
