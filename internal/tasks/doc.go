// Package tasks runs upload duplicate checks in batches with real-time progress reporting.
//
// # Core Operations
//
// [DuplicateChecker] exposes three operations:
//
//  1. [DuplicateChecker.CheckBatch] : decide upload or skip for each candidate
//     - Loads the library snapshot through the known-tracks cache (ForceRefresh bypasses the TTL)
//     - Runs the detection chain for each candidate on a small worker pool
//     - Captures per-candidate errors and keeps going
//     - Optionally writes every decision to the audit log
//
//  2. [DuplicateChecker.Snapshot] : the cached library listing
//
//  3. [DuplicateChecker.Status] : library health plus cache age
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Decision Recording
//
// The optional [DecisionRecorder] interface enables the audit log.
// Write failures are counted in [BatchResult.RecordErrors] and never fail the batch.
package tasks
