package caderneta

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// The diary is persisted as a JSONL stream: one JSON object per line,
// with a "record" discriminator. Transactions and rules are persisted;
// balances are derived state and are recomputed after load.

// record discriminators.
const (
	recordEntry = "entry"
	recordRule  = "rule"
)

// MarshalJSON implements the json.Marshaler interface for RecurringRule.
func (r *RecurringRule) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", r.ID)
	w.Append("dayOfMonth", r.DayOfMonth)
	w.Append("kind", r.Kind)
	w.Append("amount", r.Amount.Value())
	w.Optional("currency", r.Amount.Currency())
	w.Optional("description", r.Description)
	w.Append("startDate", r.StartDate)
	w.Append("lifetime", r.Lifetime.String())
	w.Append("isActive", r.IsActive)
	return w.MarshalJSON()
}

// jentry is a specialized struct to decode a transaction line, reading
// the amount in two fields.
type jentry struct {
	ID          string          `json:"id"`
	Date        Date            `json:"date"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	Origin      string          `json:"origin"`
	RuleID      string          `json:"ruleId"`
}

// jrule is a specialized struct to decode a rule line.
type jrule struct {
	ID          string          `json:"id"`
	DayOfMonth  int             `json:"dayOfMonth"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	StartDate   Date            `json:"startDate"`
	Lifetime    string          `json:"lifetime"`
	IsActive    bool            `json:"isActive"`
}

// EncodeDiary encodes the ledger's transactions and the rule registry to
// a JSONL stream, transactions in chronological order, rules in id order.
func EncodeDiary(w io.Writer, l *Ledger, rules *RuleSet) error {
	for tx := range l.Transactions() {
		var line jsonObjectWriter
		line.Append("record", recordEntry)
		line.EmbedFrom(tx)
		data, err := line.MarshalJSON()
		if err != nil {
			return fmt.Errorf("cannot encode transaction %q: %w", tx.ID, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("cannot write diary: %w", err)
		}
	}
	for rule := range rules.All() {
		var line jsonObjectWriter
		line.Append("record", recordRule)
		line.EmbedFrom(rule)
		data, err := line.MarshalJSON()
		if err != nil {
			return fmt.Errorf("cannot encode rule %q: %w", rule.ID, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("cannot write diary: %w", err)
		}
	}
	return nil
}

// DecodeDiary decodes a JSONL stream into a ledger and a rule registry.
// Balances are not part of the stream; callers recompute them.
func DecodeDiary(r io.Reader) (*Ledger, *RuleSet, error) {
	ledger := NewLedger()
	rules := NewRuleSet()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Record string `json:"record"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, nil, fmt.Errorf("could not identify record in line %q: %w", string(lineBytes), err)
		}

		switch identifier.Record {
		case recordEntry:
			var je jentry
			if err := json.Unmarshal(lineBytes, &je); err != nil {
				return nil, nil, fmt.Errorf("could not decode entry line %q: %w", string(lineBytes), err)
			}
			tx := Transaction{
				ID:          je.ID,
				Date:        je.Date,
				Kind:        Kind(je.Kind),
				Amount:      M(je.Amount, je.Currency),
				Description: je.Description,
				Origin:      Origin(je.Origin),
				RuleID:      je.RuleID,
			}
			if err := tx.Validate(); err != nil {
				return nil, nil, fmt.Errorf("invalid entry in line %q: %w", string(lineBytes), err)
			}
			ledger.Insert(tx)
		case recordRule:
			var jr jrule
			if err := json.Unmarshal(lineBytes, &jr); err != nil {
				return nil, nil, fmt.Errorf("could not decode rule line %q: %w", string(lineBytes), err)
			}
			lifetime, err := ParseLifetime(jr.Lifetime)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid rule in line %q: %w", string(lineBytes), err)
			}
			rule := &RecurringRule{
				ID:          jr.ID,
				DayOfMonth:  jr.DayOfMonth,
				Kind:        Kind(jr.Kind),
				Amount:      M(jr.Amount, jr.Currency),
				Description: jr.Description,
				StartDate:   jr.StartDate,
				Lifetime:    lifetime,
				IsActive:    jr.IsActive,
			}
			if err := rules.Add(rule); err != nil {
				return nil, nil, fmt.Errorf("invalid rule in line %q: %w", string(lineBytes), err)
			}
		default:
			return nil, nil, fmt.Errorf("unknown record type %q in line %q", identifier.Record, string(lineBytes))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("could not read diary stream: %w", err)
	}
	return ledger, rules, nil
}
