package caderneta

import "testing"

func TestNewTransaction_Validation(t *testing.T) {
	day := MustParse("2025-01-01")
	testCases := []struct {
		name    string
		kind    Kind
		amount  Money
		origin  Origin
		wantErr bool
	}{
		{"valid credit", Credit, M(10, "BRL"), Manual, false},
		{"valid quick entry", Debit, M(10, "BRL"), QuickEntry, false},
		{"zero amount", Credit, M(0, "BRL"), Manual, true},
		{"negative amount", Credit, M(-10, "BRL"), Manual, true},
		{"unknown kind", Kind("transfer"), M(10, "BRL"), Manual, true},
		{"unknown origin", Credit, M(10, "BRL"), Origin("api"), true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTransaction(day, tc.kind, tc.amount, "", tc.origin)
			if (err != nil) != tc.wantErr {
				t.Errorf("NewTransaction error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestTransaction_Signed(t *testing.T) {
	credit, _ := NewTransaction(MustParse("2025-01-01"), Credit, M(10, "BRL"), "", Manual)
	debit, _ := NewTransaction(MustParse("2025-01-01"), Debit, M(10, "BRL"), "", Manual)
	daily, _ := NewTransaction(MustParse("2025-01-01"), Daily, M(10, "BRL"), "", Manual)

	if !credit.Signed().IsPositive() {
		t.Error("credit must contribute positively")
	}
	if !debit.Signed().IsNegative() {
		t.Error("debit must contribute negatively")
	}
	if !daily.Signed().IsNegative() {
		t.Error("daily adjustment must contribute negatively")
	}
}

func TestTransaction_RuleReference(t *testing.T) {
	day := MustParse("2025-01-01")
	tx := Transaction{ID: "t", Date: day, Kind: Debit, Amount: M(10, "BRL"), Origin: Recurring}
	if err := tx.Validate(); err == nil {
		t.Error("recurring entry without a rule id must be invalid")
	}
	tx.Origin, tx.RuleID = Manual, "r1"
	if err := tx.Validate(); err == nil {
		t.Error("manual entry with a rule id must be invalid")
	}
}
