// Package repositories implements SQLite persistence for upload decisions.
//
// Each batch run can record its decisions so later runs and the history
// command can show what was skipped, uploaded, or failed and why.
//
// Key Implementations:
//   - [DecisionRepository] : decision audit log filtered by run and strategy
//
// Sequence numbers provide stable, human-readable ordering independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
// Records are soft deleted via deleted_at and excluded from queries by default.
package repositories
