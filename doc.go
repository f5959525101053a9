// Package caderneta implements a personal financial diary: day-level
// monetary entries rolled up into monthly and yearly balances, with
// open-ended recurring entries (e.g. "rent, day 5, every month").
//
// The core functionalities include:
//   - Ledger Store: the year -> month -> day -> transaction structure,
//     with cached per-month opening and closing balances.
//   - Balance Propagation: the engine keeping every month's opening
//     balance equal to the prior month's closing balance, across year
//     boundaries and across gaps in the recorded timeline.
//   - Recurring Rules: templates that materialize one concrete entry
//     per eligible month, with month-end day clamping and lifetime
//     termination.
//   - Idempotency Guard: fingerprint-based deduplication making every
//     recording operation safe to re-invoke (retries, duplicate
//     triggers, reloads) without ever double-applying an entry.
//   - Data Persistence: encoding and decoding of the diary to and from
//     a human-readable, version-controllable JSONL format.
//
// A year's balance is the last known state on a sparse timeline, not a
// running sum: looking up a year-end balance scans backward for the most
// recent day that carries a recorded balance, so an incompletely filled
// year still yields a meaningful inherited balance.
//
// This package serves as the foundational logic for the `cad`
// command-line tool.
package caderneta
