package caderneta

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

// LifetimeKind is a typed string for the termination policy of a rule.
type LifetimeKind string

const (
	// Indefinite rules fire every month until deactivated by hand.
	Indefinite LifetimeKind = "indefinite"
	// FixedCount rules fire a fixed number of remaining times.
	FixedCount LifetimeKind = "count"
	// FixedDuration rules fire for a fixed number of remaining months.
	FixedDuration LifetimeKind = "months"
)

// Lifetime bounds how long a recurring rule keeps firing. Remaining is
// meaningful only for FixedCount and FixedDuration.
type Lifetime struct {
	Kind      LifetimeKind `json:"kind"`
	Remaining int          `json:"remaining,omitempty"`
}

// ParseLifetime parses "indefinite", "count:N" or "months:N".
func ParseLifetime(s string) (Lifetime, error) {
	var n int
	switch {
	case s == string(Indefinite):
		return Lifetime{Kind: Indefinite}, nil
	case len(s) > 6 && s[:6] == "count:":
		if _, err := fmt.Sscanf(s, "count:%d", &n); err == nil && n >= 0 {
			return Lifetime{Kind: FixedCount, Remaining: n}, nil
		}
	case len(s) > 7 && s[:7] == "months:":
		if _, err := fmt.Sscanf(s, "months:%d", &n); err == nil && n >= 0 {
			return Lifetime{Kind: FixedDuration, Remaining: n}, nil
		}
	}
	return Lifetime{}, fmt.Errorf("unknown lifetime %q, want %q, \"count:N\" or \"months:N\"", s, Indefinite)
}

func (l Lifetime) String() string {
	switch l.Kind {
	case Indefinite:
		return string(Indefinite)
	default:
		return fmt.Sprintf("%s:%d", l.Kind, l.Remaining)
	}
}

// bounded reports whether the lifetime counts down.
func (l Lifetime) bounded() bool { return l.Kind == FixedCount || l.Kind == FixedDuration }

// RecurringRule is a template that materializes one Transaction per
// eligible month.
type RecurringRule struct {
	ID          string   `json:"id"`
	DayOfMonth  int      `json:"dayOfMonth"`
	Kind        Kind     `json:"kind"`
	Amount      Money    `json:"amount"`
	Description string   `json:"description,omitempty"`
	StartDate   Date     `json:"startDate"`
	Lifetime    Lifetime `json:"lifetime"`
	IsActive    bool     `json:"isActive"`
}

// NewRecurringRule builds a validated recurring rule starting at start.
func NewRecurringRule(dayOfMonth int, kind Kind, amount Money, description string, start Date, lifetime Lifetime) (*RecurringRule, error) {
	r := &RecurringRule{
		ID:          uuid.NewString(),
		DayOfMonth:  dayOfMonth,
		Kind:        kind,
		Amount:      amount,
		Description: description,
		StartDate:   start,
		Lifetime:    lifetime,
		IsActive:    true,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	// A rule born exhausted is born inactive.
	if r.Lifetime.bounded() && r.Lifetime.Remaining == 0 {
		r.IsActive = false
	}
	return r, nil
}

// Validate checks the rule for correctness.
func (r *RecurringRule) Validate() error {
	if r.DayOfMonth < 1 || r.DayOfMonth > 31 {
		return fmt.Errorf("rule day of month must be in [1,31], got %d", r.DayOfMonth)
	}
	if r.Kind == Daily {
		return fmt.Errorf("daily adjustments cannot recur")
	}
	if _, err := ParseKind(string(r.Kind)); err != nil {
		return err
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("rule amount must be strictly positive, got %s", r.Amount)
	}
	if r.StartDate.IsZero() {
		return fmt.Errorf("rule start date is missing")
	}
	switch r.Lifetime.Kind {
	case Indefinite, FixedCount, FixedDuration:
	default:
		return fmt.Errorf("unknown rule lifetime kind %q", r.Lifetime.Kind)
	}
	if r.Lifetime.bounded() && r.Lifetime.Remaining < 0 {
		return fmt.Errorf("rule lifetime remaining must not be negative, got %d", r.Lifetime.Remaining)
	}
	return nil
}

// Expand decides whether a Transaction must exist for this rule in the
// target month, and constructs it if so. It returns nil when the rule is
// inactive, exhausted, or has not started yet.
//
// Expand mutates the rule: a successful materialization decrements a
// bounded lifetime, and a lifetime reaching zero deactivates the rule.
// The rule still fires for the month that brings the counter to zero.
func (r *RecurringRule) Expand(year int, month time.Month) *Transaction {
	if !r.IsActive {
		return nil
	}
	target := NewDate(year, month, ClampDay(r.DayOfMonth, year, month))
	if target.Before(r.StartDate) {
		return nil
	}
	if r.Lifetime.bounded() && r.Lifetime.Remaining == 0 {
		// Exhausted but never deactivated: enforce the invariant now.
		r.IsActive = false
		return nil
	}
	tx := &Transaction{
		ID:          uuid.NewString(),
		Date:        target,
		Kind:        r.Kind,
		Amount:      r.Amount,
		Description: r.Description,
		Origin:      Recurring,
		RuleID:      r.ID,
	}
	if r.Lifetime.bounded() {
		r.Lifetime.Remaining--
		if r.Lifetime.Remaining == 0 {
			r.IsActive = false
		}
	}
	return tx
}

// RuleSet is the registry owning all recurring rules.
type RuleSet struct {
	rules map[string]*RecurringRule
}

// NewRuleSet creates an empty rule registry.
func NewRuleSet() *RuleSet {
	return &RuleSet{rules: make(map[string]*RecurringRule)}
}

// Add registers a rule. Registering twice the same id is an error.
func (s *RuleSet) Add(r *RecurringRule) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("invalid recurring rule: %w", err)
	}
	if _, ok := s.rules[r.ID]; ok {
		return fmt.Errorf("recurring rule %q already registered", r.ID)
	}
	s.rules[r.ID] = r
	return nil
}

// Get returns the rule registered with this id, or nil if unknown.
func (s *RuleSet) Get(id string) *RecurringRule { return s.rules[id] }

// Len returns the number of registered rules.
func (s *RuleSet) Len() int { return len(s.rules) }

// All iterates over the rules in stable id order.
func (s *RuleSet) All() iter.Seq[*RecurringRule] {
	return func(yield func(*RecurringRule) bool) {
		ids := slices.Collect(maps.Keys(s.rules))
		slices.Sort(ids)
		for _, id := range ids {
			if !yield(s.rules[id]) {
				return
			}
		}
	}
}
