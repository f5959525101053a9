package caderneta

import (
	"testing"
	"time"
)

func testRule(t *testing.T, day int, start string, lifetime Lifetime) *RecurringRule {
	t.Helper()
	rule, err := NewRecurringRule(day, Debit, M(120000, "BRL"), "rent", MustParse(start), lifetime)
	if err != nil {
		t.Fatalf("NewRecurringRule: %v", err)
	}
	return rule
}

func TestExpand_DayClamping(t *testing.T) {
	testCases := []struct {
		name    string
		day     int
		year    int
		month   time.Month
		wantDay int
	}{
		{"day 31 lands on last day of a 30-day month", 31, 2025, time.April, 30},
		{"day 31 stays on 31 in a 31-day month", 31, 2025, time.May, 31},
		{"day 29 lands on 28 in non-leap February", 29, 2025, time.February, 28},
		{"day 29 stays on 29 in leap February", 29, 2024, time.February, 29},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rule := testRule(t, tc.day, "2020-01-01", Lifetime{Kind: Indefinite})
			tx := rule.Expand(tc.year, tc.month)
			if tx == nil {
				t.Fatal("Expand returned nil")
			}
			want := NewDate(tc.year, tc.month, tc.wantDay)
			if tx.Date != want {
				t.Errorf("Expand dated the entry %s, want %s", tx.Date, want)
			}
		})
	}
}

func TestExpand_BeforeStartDate(t *testing.T) {
	rule := testRule(t, 5, "2025-06-05", Lifetime{Kind: Indefinite})
	if tx := rule.Expand(2025, time.May); tx != nil {
		t.Errorf("rule expanded before its start date: %v", tx)
	}
	if tx := rule.Expand(2025, time.June); tx == nil {
		t.Error("rule should expand on its start month")
	}
}

func TestExpand_Inactive(t *testing.T) {
	rule := testRule(t, 5, "2020-01-01", Lifetime{Kind: Indefinite})
	rule.IsActive = false
	if tx := rule.Expand(2025, time.June); tx != nil {
		t.Errorf("inactive rule expanded: %v", tx)
	}
}

func TestExpand_FixedCountExhaustion(t *testing.T) {
	rule := testRule(t, 10, "2025-01-01", Lifetime{Kind: FixedCount, Remaining: 1})

	// The rule still fires for the month that brings the counter to zero.
	tx := rule.Expand(2025, time.January)
	if tx == nil {
		t.Fatal("rule with one remaining firing should expand once more")
	}
	if rule.IsActive {
		t.Error("rule should auto-deactivate once its count reaches zero")
	}
	if rule.Lifetime.Remaining != 0 {
		t.Errorf("remaining = %d, want 0", rule.Lifetime.Remaining)
	}

	// Any later month yields nothing, forever.
	if tx := rule.Expand(2025, time.February); tx != nil {
		t.Errorf("exhausted rule expanded again: %v", tx)
	}
}

func TestExpand_ExhaustedButActiveIsRepaired(t *testing.T) {
	rule := testRule(t, 10, "2025-01-01", Lifetime{Kind: FixedDuration, Remaining: 1})
	rule.Expand(2025, time.January)

	// Simulate a corrupted rule that skipped auto-deactivation.
	rule.IsActive = true
	if tx := rule.Expand(2025, time.February); tx != nil {
		t.Errorf("exhausted rule expanded: %v", tx)
	}
	if rule.IsActive {
		t.Error("expand should enforce the deactivation invariant")
	}
}

func TestExpand_GeneratedTransaction(t *testing.T) {
	rule := testRule(t, 5, "2025-01-01", Lifetime{Kind: Indefinite})
	tx := rule.Expand(2025, time.March)
	if tx == nil {
		t.Fatal("Expand returned nil")
	}
	if tx.Origin != Recurring {
		t.Errorf("origin = %s, want %s", tx.Origin, Recurring)
	}
	if tx.RuleID != rule.ID {
		t.Errorf("rule id = %q, want %q", tx.RuleID, rule.ID)
	}
	if tx.Kind != rule.Kind || !tx.Amount.Equal(rule.Amount) || tx.Description != rule.Description {
		t.Errorf("generated entry does not carry the rule's fields: %+v", tx)
	}
	if err := tx.Validate(); err != nil {
		t.Errorf("generated entry is invalid: %v", err)
	}
}

func TestNewRecurringRule_Validation(t *testing.T) {
	if _, err := NewRecurringRule(0, Debit, M(10, "BRL"), "", MustParse("2025-01-01"), Lifetime{Kind: Indefinite}); err == nil {
		t.Error("day 0 should be rejected")
	}
	if _, err := NewRecurringRule(32, Debit, M(10, "BRL"), "", MustParse("2025-01-01"), Lifetime{Kind: Indefinite}); err == nil {
		t.Error("day 32 should be rejected")
	}
	if _, err := NewRecurringRule(5, Daily, M(10, "BRL"), "", MustParse("2025-01-01"), Lifetime{Kind: Indefinite}); err == nil {
		t.Error("daily adjustments should not recur")
	}
	if _, err := NewRecurringRule(5, Debit, M(0, "BRL"), "", MustParse("2025-01-01"), Lifetime{Kind: Indefinite}); err == nil {
		t.Error("zero amount should be rejected")
	}
}

func TestNewRecurringRule_BornExhausted(t *testing.T) {
	rule := testRule(t, 5, "2025-01-01", Lifetime{Kind: FixedCount, Remaining: 0})
	if rule.IsActive {
		t.Error("a rule born with count 0 must be born inactive")
	}
}

func TestParseLifetime(t *testing.T) {
	testCases := []struct {
		in      string
		want    Lifetime
		wantErr bool
	}{
		{"indefinite", Lifetime{Kind: Indefinite}, false},
		{"count:3", Lifetime{Kind: FixedCount, Remaining: 3}, false},
		{"months:12", Lifetime{Kind: FixedDuration, Remaining: 12}, false},
		{"count:-1", Lifetime{}, true},
		{"weekly", Lifetime{}, true},
	}
	for _, tc := range testCases {
		got, err := ParseLifetime(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseLifetime(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && got != tc.want {
			t.Errorf("ParseLifetime(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}
