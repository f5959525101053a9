package caderneta

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind is a typed string identifying the direction of a ledger entry.
type Kind string

// Entry kinds. Daily is a same-day correcting entry that never takes part
// in recurring expansion.
const (
	Credit Kind = "credit"
	Debit  Kind = "debit"
	Daily  Kind = "daily"
)

// ParseKind parses a string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Credit, Debit, Daily:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown entry kind: %q", s)
	}
}

// Origin is a typed string identifying how a ledger entry was recorded.
type Origin string

const (
	Manual     Origin = "manual"
	Recurring  Origin = "recurring"
	QuickEntry Origin = "quick"
)

// ParseOrigin parses a string into an Origin.
func ParseOrigin(s string) (Origin, error) {
	switch Origin(s) {
	case Manual, Recurring, QuickEntry:
		return Origin(s), nil
	default:
		return "", fmt.Errorf("unknown entry origin: %q", s)
	}
}

// Transaction is a single ledger entry. The amount is always strictly
// positive; the sign applied to the balance is implied by the Kind.
type Transaction struct {
	ID          string `json:"id"`
	Date        Date   `json:"date"`
	Kind        Kind   `json:"kind"`
	Amount      Money  `json:"amount"`
	Description string `json:"description,omitempty"`
	Origin      Origin `json:"origin"`
	// RuleID back-references the recurring rule that materialized this
	// entry. Empty unless Origin is Recurring.
	RuleID string `json:"ruleId,omitempty"`
}

// NewTransaction builds a validated manual or quick-entry transaction.
// Invalid transactions are rejected here and never reach a ledger.
func NewTransaction(day Date, kind Kind, amount Money, description string, origin Origin) (Transaction, error) {
	tx := Transaction{
		ID:          uuid.NewString(),
		Date:        day,
		Kind:        kind,
		Amount:      amount,
		Description: description,
		Origin:      origin,
	}
	if err := tx.Validate(); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// Validate checks the transaction for correctness.
func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return fmt.Errorf("transaction date is missing")
	}
	if _, err := ParseKind(string(t.Kind)); err != nil {
		return err
	}
	if _, err := ParseOrigin(string(t.Origin)); err != nil {
		return err
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("transaction amount must be strictly positive, got %s", t.Amount)
	}
	if t.Origin == Recurring && t.RuleID == "" {
		return fmt.Errorf("recurring transaction is missing its rule id")
	}
	if t.Origin != Recurring && t.RuleID != "" {
		return fmt.Errorf("%s transaction must not reference a rule", t.Origin)
	}
	return nil
}

// Signed returns the contribution of this transaction to a balance:
// positive for credits, negative for debits and daily adjustments.
func (t Transaction) Signed() Money {
	if t.Kind == Credit {
		return t.Amount
	}
	return t.Amount.Neg()
}

// Equal reports whether two transactions describe the same entry,
// ignoring the generated id.
func (t Transaction) Equal(o Transaction) bool {
	return t.Date == o.Date &&
		t.Kind == o.Kind &&
		t.Amount.Equal(o.Amount) &&
		t.Description == o.Description &&
		t.Origin == o.Origin &&
		t.RuleID == o.RuleID
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("date", t.Date)
	w.Append("kind", t.Kind)
	w.Append("amount", t.Amount.Value())
	w.Optional("currency", t.Amount.Currency())
	w.Optional("description", t.Description)
	w.Append("origin", t.Origin)
	w.Optional("ruleId", t.RuleID)
	return w.MarshalJSON()
}
