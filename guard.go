package caderneta

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Fingerprint identifies one logical ledger operation for deduplication
// purposes. Two legitimately distinct operations always derive distinct
// fingerprints; the same user action retried derives the same one.
type Fingerprint string

// ManualFingerprint derives the fingerprint of a manual or quick entry.
// A rule firing again in a following month has a different fingerprint
// because the date differs, so this mainly guards true double-submission.
func ManualFingerprint(day Date, kind Kind, amount Money, origin Origin) Fingerprint {
	return Fingerprint(fmt.Sprintf("%s/%s/%s/%s/%s", day, kind, amount.Value(), amount.Currency(), origin))
}

// RecurringFingerprint derives the fingerprint of a recurring
// materialization. Dedup is per rule id, not per content: two rules with
// identical day, amount and description stay independent.
func RecurringFingerprint(ruleID string, day Date) Fingerprint {
	return Fingerprint(fmt.Sprintf("rule/%s/%s", ruleID, day))
}

// Rejection explains why an operation was not admitted. Rejection is a
// normal, expected outcome meaning "someone already handled this", never
// an error to propagate to the user.
type Rejection string

const (
	// RejectedInFlight means the same fingerprint is being committed right now.
	RejectedInFlight Rejection = "operation already in flight"
	// RejectedRecentCommit means the same fingerprint committed moments ago.
	RejectedRecentCommit Rejection = "operation committed recently"
)

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithResubmitWindow overrides the window during which a committed
// fingerprint rejects re-submission.
func WithResubmitWindow(d time.Duration) GuardOption {
	return func(g *Guard) { g.resubmitWindow = d }
}

// WithRetention overrides how long committed fingerprints are kept before
// the sweep purges them.
func WithRetention(d time.Duration) GuardOption {
	return func(g *Guard) { g.retention = d }
}

// withClock overrides the time source, for tests.
func withClock(now func() time.Time) GuardOption {
	return func(g *Guard) { g.now = now }
}

// Guard is the idempotency controller: it makes "record this entry" and
// "materialize this month for this rule" safe to invoke multiple times.
// It serializes logical operations that independent callers might trigger
// twice (UI retries, scheduled materialization passes, corrective
// re-runs); it is a safety net against double-invocation, not a mutex.
type Guard struct {
	mu             sync.Mutex
	now            func() time.Time
	resubmitWindow time.Duration
	retention      time.Duration

	inFlight  map[Fingerprint]time.Time
	committed map[Fingerprint]time.Time

	// materialized is the sticky variant for recurring entries: a rule
	// must materialize at most once ever for a given month, not just
	// "not too recently", so these never expire.
	materialized map[Fingerprint]struct{}
}

// NewGuard creates a Guard with the default windows: 5s re-submission
// guard and 5m commit retention. Both are empirically tuned, hence the
// options to override them.
func NewGuard(opts ...GuardOption) *Guard {
	g := &Guard{
		now:            time.Now,
		resubmitWindow: 5 * time.Second,
		retention:      5 * time.Minute,
		inFlight:       make(map[Fingerprint]time.Time),
		committed:      make(map[Fingerprint]time.Time),
		materialized:   make(map[Fingerprint]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// TryBegin admits the operation identified by fp, or rejects it when the
// same fingerprint is in flight or committed within the re-submission
// window. It never fails in any other way.
func (g *Guard) TryBegin(fp Fingerprint) (bool, Rejection) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.inFlight[fp]; ok {
		return false, RejectedInFlight
	}
	if at, ok := g.committed[fp]; ok && g.now().Sub(at) < g.resubmitWindow {
		return false, RejectedRecentCommit
	}
	g.inFlight[fp] = g.now()
	return true, ""
}

// Finish moves fp from in-flight to committed with the current timestamp.
func (g *Guard) Finish(fp Fingerprint) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, fp)
	g.committed[fp] = g.now()
}

// Cancel removes fp from in-flight without recording a commit. Used when
// validation fails after admission.
func (g *Guard) Cancel(fp Fingerprint) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, fp)
}

// IsRecurringMaterialized reports whether the rule already materialized
// for that date.
func (g *Guard) IsRecurringMaterialized(ruleID string, day Date) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.materialized[RecurringFingerprint(ruleID, day)]
	return ok
}

// MarkRecurringMaterialized marks the rule as materialized for that date,
// forever.
func (g *Guard) MarkRecurringMaterialized(ruleID string, day Date) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.materialized[RecurringFingerprint(ruleID, day)] = struct{}{}
}

// Sweep purges committed fingerprints older than the retention window and
// in-flight fingerprints abandoned for longer than it (orphans of a
// crashed attempt).
func (g *Guard) Sweep() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for fp, at := range g.committed {
		if now.Sub(at) >= g.retention {
			delete(g.committed, fp)
		}
	}
	for fp, at := range g.inFlight {
		if now.Sub(at) >= g.retention {
			delete(g.inFlight, fp)
		}
	}
}

// RunSweeper runs Sweep at the given interval until ctx is cancelled.
func (g *Guard) RunSweeper(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.Sweep()
		}
	}
}
