package renderer

import (
	"time"

	"caderneta"
)

// MonthReview is the view model of the monthly review report.
type MonthReview struct {
	Title   string
	Opening string
	Closing string
	Empty   bool
	Entries []ReviewEntry
	Issues  []string
}

// ReviewEntry is one rendered ledger entry row.
type ReviewEntry struct {
	Day         int
	Kind        string
	Description string
	Amount      string
	Balance     string
}

// NewMonthReview builds the review of one month from the ledger and the
// diagnostics of the last recalculation.
func NewMonthReview(l *caderneta.Ledger, year int, month time.Month, issues []caderneta.Issue) *MonthReview {
	r := &MonthReview{
		Title: caderneta.NewDate(year, month, 1).Format("January 2006"),
		Empty: true,
	}
	for _, issue := range issues {
		r.Issues = append(r.Issues, issue.String())
	}

	yl := l.Year(year)
	if yl == nil {
		return r
	}
	ml := yl.Month(month)
	if ml == nil || ml.IsEmpty() {
		return r
	}

	r.Empty = false
	r.Opening = ml.Opening().String()
	r.Closing = ml.Closing().String()
	for day, dl := range ml.Days() {
		balance := "-"
		if b, ok := dl.Balance(); ok {
			balance = b.String()
		}
		for tx := range dl.Transactions() {
			r.Entries = append(r.Entries, ReviewEntry{
				Day:         day,
				Kind:        string(tx.Kind),
				Description: tx.Description,
				Amount:      tx.Signed().SignedString(),
				Balance:     balance,
			})
		}
	}
	return r
}

// RenderMonthReview renders the review to a markdown string.
func RenderMonthReview(r *MonthReview) string {
	partials := map[string]string{
		"month_review_entries": "templates/month_review_entries.md",
		"month_review_issues":  "templates/month_review_issues.md",
	}
	return renderTemplate("monthReview", "templates/month_review.md", partials, r)
}
