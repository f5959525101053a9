package caderneta

import (
	"fmt"
	"time"
)

// Store is the persistence collaborator. Both operations are treated as
// fallible, possibly slow; the diary calls them only at well-defined
// checkpoints, never mid-computation.
type Store interface {
	// Load returns the persisted ledger and rule registry, or nil ones
	// when nothing has been persisted yet.
	Load() (*Ledger, *RuleSet, error)
	// Save persists the ledger and rule registry.
	Save(*Ledger, *RuleSet) error
}

// Diary is the entry point of the continuity subsystem: it sequences the
// idempotency guard, the ledger store and the balance propagation engine
// for every caller-facing operation.
//
// A Diary is an explicitly constructed service object: it owns its state
// and is passed to callers, never imported as an ambient global.
type Diary struct {
	ledger *Ledger
	rules  *RuleSet
	guard  *Guard
	store  Store // optional; nil means in-memory only
}

// DiaryOption configures a Diary.
type DiaryOption func(*Diary)

// WithStore attaches a persistence collaborator. The diary saves through
// it after every committed mutation.
func WithStore(s Store) DiaryOption {
	return func(d *Diary) { d.store = s }
}

// WithGuard replaces the default idempotency guard.
func WithGuard(g *Guard) DiaryOption {
	return func(d *Diary) { d.guard = g }
}

// NewDiary creates an empty diary.
func NewDiary(opts ...DiaryOption) *Diary {
	d := &Diary{
		ledger: NewLedger(),
		rules:  NewRuleSet(),
		guard:  NewGuard(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// OpenDiary loads a diary from its store and recomputes every balance,
// since balances are derived state and are not persisted authoritatively.
func OpenDiary(store Store, opts ...DiaryOption) (*Diary, error) {
	ledger, rules, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("could not load diary: %w", err)
	}
	opts = append([]DiaryOption{WithStore(store)}, opts...)
	d := NewDiary(opts...)
	if ledger != nil {
		d.ledger = ledger
	}
	if rules != nil {
		d.rules = rules
	}
	if first, ok := d.firstRecordedDate(); ok {
		d.ledger.RecalculateFrom(first)
	}
	return d, nil
}

func (d *Diary) firstRecordedDate() (Date, bool) {
	for tx := range d.ledger.Transactions() {
		return tx.Date, true
	}
	return Date{}, false
}

// Ledger exposes the underlying ledger for read-only inspection.
func (d *Diary) Ledger() *Ledger { return d.ledger }

// Rules exposes the rule registry.
func (d *Diary) Rules() *RuleSet { return d.rules }

// AddRule registers a recurring rule.
func (d *Diary) AddRule(r *RecurringRule) error { return d.rules.Add(r) }

// RecordManualTransaction validates and records a manual or quick entry,
// then recomputes every balance from its date forward. A duplicate
// submission within the guard window is a silent no-op: recorded is
// false and err is nil, because the original action already succeeded.
func (d *Diary) RecordManualTransaction(tx Transaction) (recorded bool, result RecalculationResult, err error) {
	if err := tx.Validate(); err != nil {
		return false, result, fmt.Errorf("invalid transaction: %w", err)
	}
	if tx.Origin == Recurring {
		return false, result, fmt.Errorf("recurring entries are recorded through materialization, not manually")
	}

	fp := ManualFingerprint(tx.Date, tx.Kind, tx.Amount, tx.Origin)
	ok, _ := d.guard.TryBegin(fp)
	if !ok {
		return false, result, nil
	}

	d.ledger.Insert(tx)
	result = d.ledger.RecalculateFrom(tx.Date)
	d.guard.Finish(fp)

	if err := d.save(); err != nil {
		return true, result, err
	}
	return true, result, nil
}

// MaterializeRecurringForMonth produces and commits the concrete entry
// for one rule in one month. It is safe to invoke any number of times:
// a rule materializes at most once ever for a given month.
func (d *Diary) MaterializeRecurringForMonth(ruleID string, year int, month time.Month) (materialized bool, result RecalculationResult, err error) {
	rule := d.rules.Get(ruleID)
	if rule == nil {
		return false, result, fmt.Errorf("unknown recurring rule %q", ruleID)
	}

	day := NewDate(year, month, ClampDay(rule.DayOfMonth, year, month))
	if d.guard.IsRecurringMaterialized(ruleID, day) || d.ledger.HasRecurring(ruleID, year, month) {
		return false, result, nil
	}

	// The rule's counters are mutated by Expand only while this
	// fingerprint is admitted; no other component flips IsActive.
	fp := RecurringFingerprint(ruleID, day)
	ok, _ := d.guard.TryBegin(fp)
	if !ok {
		return false, result, nil
	}

	tx := rule.Expand(year, month)
	if tx == nil {
		// Not started yet, inactive, or exhausted: nothing to record.
		d.guard.Cancel(fp)
		return false, result, nil
	}

	d.ledger.Insert(*tx)
	d.guard.MarkRecurringMaterialized(ruleID, day)
	result = d.ledger.RecalculateFrom(tx.Date)
	d.guard.Finish(fp)

	if err := d.save(); err != nil {
		return true, result, err
	}
	return true, result, nil
}

// MaterializeMonth applies every registered rule to the target month, the
// scheduled materialization pass. It returns the number of entries
// produced and the result of the last recalculation triggered.
func (d *Diary) MaterializeMonth(year int, month time.Month) (count int, result RecalculationResult, err error) {
	for rule := range d.rules.All() {
		done, res, merr := d.MaterializeRecurringForMonth(rule.ID, year, month)
		if merr != nil {
			return count, result, merr
		}
		if done {
			count++
			result = res
		}
	}
	return count, result, nil
}

// RemoveTransaction deletes an entry and recomputes balances from its
// date forward.
func (d *Diary) RemoveTransaction(day Date, id string) (removed bool, result RecalculationResult, err error) {
	if !d.ledger.Remove(day, id) {
		return false, result, nil
	}
	result = d.ledger.RecalculateFrom(day)
	if err := d.save(); err != nil {
		return true, result, err
	}
	return true, result, nil
}

// Recalculate recomputes every balance from the given date forward.
func (d *Diary) Recalculate(from Date) RecalculationResult {
	return d.ledger.RecalculateFrom(from)
}

// Balance returns the closing balance of (year, month) and whether the
// month has recorded data.
func (d *Diary) Balance(year int, month time.Month) (Money, bool) {
	return d.ledger.Balance(year, month)
}

// YearEndBalance returns the last known balance of the year.
func (d *Diary) YearEndBalance(year int) Money { return d.ledger.YearEndBalance(year) }

// InheritedBalance returns the balance the year inherits from its
// predecessor.
func (d *Diary) InheritedBalance(year int) Money { return d.ledger.InheritedBalance(year) }

// Save persists the diary through its store, if any. Mutating operations
// already save at their commit checkpoint; Save covers out-of-band
// mutations such as registering a rule.
func (d *Diary) Save() error { return d.save() }

func (d *Diary) save() error {
	if d.store == nil {
		return nil
	}
	if err := d.store.Save(d.ledger, d.rules); err != nil {
		return fmt.Errorf("could not save diary: %w", err)
	}
	return nil
}
