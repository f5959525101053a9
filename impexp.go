package caderneta

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// this file contains functions to import quick entries from third-party
// JSON exports. Banks rarely agree on a schema, so the caller supplies a
// JSONPath expression selecting the entry array inside the export.

// ImportQuickEntries reads an arbitrary JSON document from 'r', selects
// an array of entries with the JSONPath expression 'path', and returns
// validated quick-entry transactions in the given currency.
//
// Each selected item must be an object with a "date" (ISO-8601 string),
// an "amount" (number), and optionally a "description" and a "kind"
// ("credit" or "debit"). Items without a kind are imported as debits,
// the common case for bank exports. Duplicate submissions are absorbed
// downstream by the idempotency guard, not here.
func ImportQuickEntries(r io.Reader, path, currency string) ([]Transaction, error) {
	var jobj any
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&jobj); err != nil {
		return nil, fmt.Errorf("cannot parse JSON export: %w", err)
	}

	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error selecting entries with %q: %w", path, err)
	}
	items, ok := jval.([]any)
	if !ok {
		// because jsonpath is never clear about whether it returns a list
		// or a single answer: accept a lone object too.
		items = []any{jval}
	}

	var txs []Transaction
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("entry %d selected by %q is not an object", i, path)
		}
		tx, err := importQuickEntry(obj, currency)
		if err != nil {
			return nil, fmt.Errorf("entry %d selected by %q: %w", i, path, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func importQuickEntry(obj map[string]any, currency string) (Transaction, error) {
	dateStr, ok := obj["date"].(string)
	if !ok {
		return Transaction{}, fmt.Errorf("missing or non-string %q field", "date")
	}
	day, err := ParseDate(dateStr)
	if err != nil {
		return Transaction{}, err
	}

	num, ok := obj["amount"].(json.Number)
	if !ok {
		return Transaction{}, fmt.Errorf("missing or non-numeric %q field", "amount")
	}
	amount, err := decimal.NewFromString(num.String())
	if err != nil {
		return Transaction{}, fmt.Errorf("invalid amount %q: %w", num, err)
	}

	kind := Debit
	if s, ok := obj["kind"].(string); ok {
		if kind, err = ParseKind(s); err != nil {
			return Transaction{}, err
		}
	}
	// Exports often encode direction as a signed amount.
	if amount.IsNegative() {
		amount = amount.Neg()
		kind = Debit
	}

	description, _ := obj["description"].(string)
	return NewTransaction(day, kind, M(amount, currency), description, QuickEntry)
}
