// package tasks implements batch duplicate checks against the remote library.
//
// The core abstraction is DuplicateChecker, which loads a library snapshot through the
// known-tracks cache and runs the detection chain for each candidate.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/libsync/internal/cache"
	"github.com/desertthunder/libsync/internal/detection"
	"github.com/desertthunder/libsync/internal/models"
	"github.com/desertthunder/libsync/internal/services"
	"github.com/desertthunder/libsync/internal/shared"
)

const (
	defaultWorkers = 4
	maxWorkers     = 10
)

// CandidateResult is the outcome of checking a single candidate.
type CandidateResult struct {
	Index     int                   // Position in the input batch
	Candidate models.Candidate      // Candidate as checked
	Decision  models.UploadDecision // Zero value when Error is set
	Error     error                 // Error scoped to this candidate
}

// BatchResult contains all data from one CheckBatch call.
type BatchResult struct {
	RunID        string            // Identifier shared by recorded decisions
	LibrarySize  int               // Number of records in the snapshot
	FetchedAt    time.Time         // When the snapshot was fetched
	Results      []CandidateResult // Results in input order
	ToUpload     int               // Uploads with no match
	Duplicates   int               // Skips
	Conflicts    int               // Uploads forced by a ReplayGain conflict
	Failed       int               // Candidates whose check errored
	RecordErrors int               // Decisions that could not be written to the audit log
}

// CheckOpts configures a batch run.
type CheckOpts struct {
	ForceRefresh bool   // Refetch the library even if the cache is fresh
	Record       bool   // Write decisions to the audit log
	RunID        string // Defaults to a generated id
	NumWorkers   int    // Concurrent checks (default: 4, max: 10)
}

// LibraryStatus summarizes the remote library and the local snapshot.
type LibraryStatus struct {
	Name         string
	Online       bool
	Error        error
	CachedTracks int
	FetchedAt    time.Time
	Expired      bool
	TTL          time.Duration
}

// DecisionRecorder persists decisions; implemented by repositories.DecisionRepository.
type DecisionRecorder interface {
	Create(record *models.DecisionRecord) error
}

// DuplicateChecker runs detection for batches of candidates.
//
// The known-tracks cache is shared by every batch the checker runs; refreshes
// happen only at batch start on the calling goroutine.
type DuplicateChecker struct {
	library  services.LibraryService
	known    *cache.KnownTracks
	chain    *detection.Chain
	recorder DecisionRecorder
	logger   *log.Logger
	mu       sync.Mutex
}

// CheckerOption configures a [DuplicateChecker].
type CheckerOption func(*DuplicateChecker)

// WithRecorder enables the audit log for runs with [CheckOpts.Record] set.
func WithRecorder(r DecisionRecorder) CheckerOption {
	return func(c *DuplicateChecker) { c.recorder = r }
}

// WithCheckerLogger sets the logger.
func WithCheckerLogger(l *log.Logger) CheckerOption {
	return func(c *DuplicateChecker) { c.logger = l }
}

// NewDuplicateChecker creates a checker. A nil chain uses [detection.NewChain] defaults.
func NewDuplicateChecker(library services.LibraryService, known *cache.KnownTracks, chain *detection.Chain, opts ...CheckerOption) *DuplicateChecker {
	if known == nil {
		known = cache.New(cache.DefaultTTL)
	}
	c := &DuplicateChecker{
		library: library,
		known:   known,
		chain:   chain,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.chain == nil {
		c.chain = detection.NewChain(detection.WithLogger(c.logger))
	}
	return c
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (c *DuplicateChecker) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Snapshot returns the library snapshot, refreshing through the cache when
// expired or forced.
func (c *DuplicateChecker) Snapshot(ctx context.Context, force bool) ([]models.RemoteTrack, error) {
	if c.library == nil {
		return nil, fmt.Errorf("%w: library service not initialized", shared.ErrServiceUnavailable)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	tracks, err := c.known.GetOrRefresh(services.Fetcher(ctx, c.library), force)
	if err != nil {
		return nil, fmt.Errorf("failed to load library snapshot: %w", err)
	}
	return tracks, nil
}

// Status probes the library and reports the cache state. Probe failures are
// reported in [LibraryStatus.Error] rather than returned.
func (c *DuplicateChecker) Status(ctx context.Context) (*LibraryStatus, error) {
	if c.library == nil {
		return nil, fmt.Errorf("%w: library service not initialized", shared.ErrServiceUnavailable)
	}

	c.mu.Lock()
	status := &LibraryStatus{
		Name:         c.library.Name(),
		CachedTracks: c.known.Len(),
		FetchedAt:    c.known.FetchedAt(),
		Expired:      c.known.IsExpired(),
		TTL:          c.known.TTL(),
	}
	c.mu.Unlock()

	health, err := c.library.Health(ctx)
	if err != nil {
		status.Error = err
		return status, nil
	}
	status.Online = health.Online
	return status, nil
}

// CheckBatch decides, for each candidate, whether it should be uploaded.
//
// Errors for a single candidate are captured in its [CandidateResult] and the
// batch continues. Only a failed snapshot fetch or cancellation aborts the run;
// when cancellation leaves candidates unchecked the partial result is returned
// with the context error.
func (c *DuplicateChecker) CheckBatch(
	ctx context.Context,
	progress chan<- ProgressUpdate,
	candidates []models.Candidate,
	opts CheckOpts,
) (*BatchResult, error) {
	if opts.RunID == "" {
		opts.RunID = shared.GenerateID()
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	if opts.NumWorkers > maxWorkers {
		opts.NumWorkers = maxWorkers
	}

	name := "library"
	if c.library != nil {
		name = c.library.Name()
	}
	c.sendProgress(progress, fetchLibraryUpdate(name, opts.ForceRefresh))

	snapshot, err := c.Snapshot(ctx, opts.ForceRefresh)
	if err != nil {
		return nil, err
	}
	c.sendProgress(progress, libraryLoadedUpdate(len(snapshot)))

	result := &BatchResult{
		RunID:       opts.RunID,
		LibrarySize: len(snapshot),
		FetchedAt:   c.known.FetchedAt(),
		Results:     make([]CandidateResult, len(candidates)),
	}

	c.logger.Info("checking candidates", "run", opts.RunID, "candidates", len(candidates), "library", len(snapshot))

	jobs := make(chan int, len(candidates))
	results := make(chan CandidateResult, len(candidates))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go c.checkWorker(ctx, &wg, snapshot, candidates, jobs, results)
	}

	go func() {
		defer close(jobs)
		for i := range candidates {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	done := make([]bool, len(candidates))
	completed := 0
	for res := range results {
		completed++
		result.Results[res.Index] = res
		done[res.Index] = true
		c.sendProgress(progress, candidateCheckedUpdate(completed, len(candidates), res))
	}

	if err := ctx.Err(); err != nil && completed < len(candidates) {
		result.Results = compactResults(result.Results, done)
		result.tally()
		return result, fmt.Errorf("batch %s interrupted after %d of %d candidates: %w", opts.RunID, completed, len(candidates), err)
	}

	result.tally()

	if opts.Record {
		c.record(progress, result)
	}

	c.sendProgress(progress, completeUpdate(result))
	c.logger.Info("batch complete", "run", opts.RunID, "upload", result.ToUpload,
		"duplicates", result.Duplicates, "conflicts", result.Conflicts, "failed", result.Failed)

	return result, nil
}

// checkWorker runs the detection chain for candidate indices from jobs.
func (c *DuplicateChecker) checkWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	snapshot []models.RemoteTrack,
	candidates []models.Candidate,
	jobs <-chan int,
	results chan<- CandidateResult,
) {
	defer wg.Done()

	for i := range jobs {
		if ctx.Err() != nil {
			return
		}

		res := CandidateResult{Index: i, Candidate: candidates[i]}
		decision, err := c.chain.CheckDuplicate(snapshot, candidates[i])
		if err != nil {
			c.logger.Warn("candidate check failed", "candidate", candidates[i].Label(), "err", err)
			res.Error = err
		} else {
			res.Decision = decision
		}
		results <- res
	}
}

// record writes every result to the audit log. Failures are counted, not returned.
func (c *DuplicateChecker) record(progress chan<- ProgressUpdate, result *BatchResult) {
	if c.recorder == nil {
		c.logger.Warn("recording requested but no decision log is configured", "run", result.RunID)
		return
	}

	total := len(result.Results)
	c.sendProgress(progress, recordDecisionsUpdate(0, total, result.RunID))

	for i, res := range result.Results {
		var record *models.DecisionRecord
		if res.Error != nil {
			record = models.NewFailedDecisionRecord(result.RunID, res.Candidate, res.Error)
		} else {
			record = models.NewDecisionRecord(result.RunID, res.Candidate, res.Decision)
		}

		if err := c.recorder.Create(record); err != nil {
			result.RecordErrors++
			c.logger.Error("failed to record decision", "candidate", res.Candidate.Label(), "err", err)
		}
		c.sendProgress(progress, recordDecisionsUpdate(i+1, total, result.RunID))
	}
}

// tally recomputes the batch counters from Results.
func (r *BatchResult) tally() {
	r.ToUpload, r.Duplicates, r.Conflicts, r.Failed = 0, 0, 0, 0
	for _, res := range r.Results {
		switch {
		case res.Error != nil:
			r.Failed++
		case res.Decision.IsConflictOverride():
			r.Conflicts++
		case res.Decision.ShouldUpload():
			r.ToUpload++
		default:
			r.Duplicates++
		}
	}
}

func compactResults(results []CandidateResult, done []bool) []CandidateResult {
	out := make([]CandidateResult, 0, len(results))
	for i, res := range results {
		if done[i] {
			out = append(out, res)
		}
	}
	return out
}
