package caderneta

import (
	"testing"
	"time"
)

// entry builds a validated manual entry for tests.
func entry(t *testing.T, day string, kind Kind, amount float64) Transaction {
	t.Helper()
	tx, err := NewTransaction(MustParse(day), kind, M(amount, "BRL"), "", Manual)
	if err != nil {
		t.Fatalf("NewTransaction: %v", err)
	}
	return tx
}

func TestRecalculateFrom_EndToEnd(t *testing.T) {
	l := NewLedger()

	l.Insert(entry(t, "2025-01-01", Credit, 1000))
	result := l.RecalculateFrom(MustParse("2025-01-01"))
	if !result.OK {
		t.Fatalf("recalculation reported issues: %v", result.Issues)
	}
	if got, ok := l.Balance(2025, time.January); !ok || !got.Equal(M(1000, "BRL")) {
		t.Errorf("January balance = %s, want 1000", got)
	}

	l.Insert(entry(t, "2025-01-15", Debit, 300))
	l.RecalculateFrom(MustParse("2025-01-15"))
	if got, _ := l.Balance(2025, time.January); !got.Equal(M(700, "BRL")) {
		t.Errorf("January balance = %s, want 700", got)
	}

	// No entries in February: the year-end balance is carried from
	// January, not reset to zero for the empty month.
	if got := l.YearEndBalance(2025); !got.Equal(M(700, "BRL")) {
		t.Errorf("YearEndBalance(2025) = %s, want 700", got)
	}

	// Year 2026 with no January data inherits from 2025.
	if got := l.InheritedBalance(2026); !got.Equal(M(700, "BRL")) {
		t.Errorf("InheritedBalance(2026) = %s, want 700", got)
	}
}

func TestRecalculateFrom_ContinuityInvariant(t *testing.T) {
	l := NewLedger()
	l.Insert(entry(t, "2024-11-03", Credit, 500))
	l.Insert(entry(t, "2024-12-20", Debit, 120))
	l.Insert(entry(t, "2025-01-05", Credit, 1000))
	l.Insert(entry(t, "2025-03-10", Debit, 50)) // February is a gap

	result := l.RecalculateFrom(MustParse("2024-11-03"))
	if !result.OK {
		t.Fatalf("recalculation reported issues: %v", result.Issues)
	}

	// opening(next) == closing(prev) for every consecutive pair of
	// populated months, across the gap and across the year boundary.
	var prev *MonthLedger
	for _, yl := range l.Years() {
		for _, ml := range yl.Months() {
			if prev != nil && !ml.Opening().Equal(prev.Closing()) {
				t.Errorf("opening %s != previous closing %s", ml.Opening(), prev.Closing())
			}
			prev = ml
		}
	}

	if got, _ := l.Balance(2025, time.March); !got.Equal(M(1330, "BRL")) {
		t.Errorf("March 2025 closing = %s, want 1330", got)
	}
}

func TestRecalculateFrom_MidYearStartUsesPriorClosing(t *testing.T) {
	l := NewLedger()
	l.Insert(entry(t, "2025-01-10", Credit, 100))
	l.Insert(entry(t, "2025-02-10", Credit, 10))
	l.RecalculateFrom(MustParse("2025-01-01"))

	// A recalculation starting mid-year reads the preceding month's
	// closing, not the inherited balance.
	l.Insert(entry(t, "2025-02-20", Debit, 5))
	result := l.RecalculateFrom(MustParse("2025-02-01"))
	if len(result.Affected) != 1 || result.Affected[0] != (MonthKey{2025, time.February}) {
		t.Errorf("affected = %v, want only February 2025", result.Affected)
	}
	ml := l.Year(2025).Month(time.February)
	if !ml.Opening().Equal(M(100, "BRL")) {
		t.Errorf("February opening = %s, want 100", ml.Opening())
	}
	if !ml.Closing().Equal(M(105, "BRL")) {
		t.Errorf("February closing = %s, want 105", ml.Closing())
	}
}

func TestRecalculateFrom_DailyAdjustmentIsSubtracted(t *testing.T) {
	l := NewLedger()
	l.Insert(entry(t, "2025-01-01", Credit, 100))
	l.Insert(entry(t, "2025-01-02", Daily, 30))
	l.RecalculateFrom(MustParse("2025-01-01"))
	if got, _ := l.Balance(2025, time.January); !got.Equal(M(70, "BRL")) {
		t.Errorf("January closing = %s, want 70", got)
	}
}

func TestRecalculateFrom_InvalidEntryIsReportedAndExcluded(t *testing.T) {
	l := NewLedger()
	l.Insert(entry(t, "2025-01-01", Credit, 100))
	// A malformed record slipped into the structure from elsewhere.
	l.Insert(Transaction{ID: "bad", Date: MustParse("2025-01-02"), Kind: Debit, Amount: M(-5, "BRL"), Origin: Manual})
	l.Insert(entry(t, "2025-01-03", Debit, 40))

	result := l.RecalculateFrom(MustParse("2025-01-01"))
	if result.OK {
		t.Error("recalculation should flag the invalid entry")
	}
	if len(result.Issues) != 1 || result.Issues[0].TxID != "bad" {
		t.Fatalf("issues = %v, want one issue for tx bad", result.Issues)
	}
	// The rest of the computation still completes, without the bad record.
	if got, _ := l.Balance(2025, time.January); !got.Equal(M(60, "BRL")) {
		t.Errorf("January closing = %s, want 60", got)
	}
}

func TestYearEndBalance_BackwardScan(t *testing.T) {
	l := NewLedger()
	if got := l.YearEndBalance(2025); !got.IsZero() {
		t.Errorf("empty ledger year-end = %s, want zero", got)
	}

	l.Insert(entry(t, "2025-03-10", Credit, 400))
	l.Insert(entry(t, "2025-07-01", Debit, 150))
	l.RecalculateFrom(MustParse("2025-03-01"))

	// The latest month with data wins, regardless of trailing gaps.
	if got := l.YearEndBalance(2025); !got.Equal(M(250, "BRL")) {
		t.Errorf("YearEndBalance = %s, want 250", got)
	}

	// Within a month, the last day with a recorded balance wins.
	l.Insert(entry(t, "2025-07-20", Credit, 50))
	l.RecalculateFrom(MustParse("2025-07-01"))
	if got := l.YearEndBalance(2025); !got.Equal(M(300, "BRL")) {
		t.Errorf("YearEndBalance = %s, want 300", got)
	}
}

func TestInheritedBalance_NoPredecessor(t *testing.T) {
	l := NewLedger()
	l.Insert(entry(t, "2025-05-01", Credit, 10))
	l.RecalculateFrom(MustParse("2025-05-01"))
	if got := l.InheritedBalance(2025); !got.IsZero() {
		t.Errorf("InheritedBalance(2025) = %s, want zero", got)
	}
}
