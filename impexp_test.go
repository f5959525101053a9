package caderneta

import (
	"strings"
	"testing"
	"time"
)

func TestImportQuickEntries(t *testing.T) {
	export := `{
	  "account": "checking",
	  "entries": [
	    {"date": "2025-03-01", "amount": 1500.50, "kind": "credit", "description": "refund"},
	    {"date": "2025-03-04", "amount": 89.90, "description": "groceries"},
	    {"date": "2025-03-05", "amount": -42.00, "description": "signed debit"}
	  ]
	}`

	txs, err := ImportQuickEntries(strings.NewReader(export), "$.entries", "BRL")
	if err != nil {
		t.Fatalf("ImportQuickEntries: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("imported %d entries, want 3", len(txs))
	}

	if txs[0].Kind != Credit || !txs[0].Amount.Equal(M(1500.50, "BRL")) {
		t.Errorf("first entry = %s %s, want credit 1500.50", txs[0].Kind, txs[0].Amount)
	}
	// No kind means debit, the common case for bank exports.
	if txs[1].Kind != Debit {
		t.Errorf("second entry kind = %s, want debit", txs[1].Kind)
	}
	// A signed amount encodes its own direction.
	if txs[2].Kind != Debit || !txs[2].Amount.Equal(M(42, "BRL")) {
		t.Errorf("third entry = %s %s, want debit 42", txs[2].Kind, txs[2].Amount)
	}
	for _, tx := range txs {
		if tx.Origin != QuickEntry {
			t.Errorf("origin = %s, want %s", tx.Origin, QuickEntry)
		}
		if tx.Date.Year() != 2025 || tx.Date.Month() != time.March {
			t.Errorf("unexpected date %s", tx.Date)
		}
	}
}

func TestImportQuickEntries_BadSelector(t *testing.T) {
	if _, err := ImportQuickEntries(strings.NewReader(`{"entries": []}`), "$.missing[*]", "BRL"); err == nil {
		t.Error("a selector matching nothing must fail, not import garbage")
	}
}

func TestImportQuickEntries_RejectsMalformedItem(t *testing.T) {
	export := `{"entries": [{"amount": 10}]}`
	if _, err := ImportQuickEntries(strings.NewReader(export), "$.entries", "BRL"); err == nil {
		t.Error("an item without a date must be rejected")
	}
}
