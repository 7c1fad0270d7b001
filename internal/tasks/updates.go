package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchHealth Phase = iota
	FetchLibrary
	CheckCandidates
	RecordDecisions
	Complete
)

func (p Phase) String() string {
	switch p {
	case FetchHealth:
		return "fetch_health"
	case FetchLibrary:
		return "fetch_library"
	case CheckCandidates:
		return "check_candidates"
	case RecordDecisions:
		return "record_decisions"
	case Complete:
		return "complete"
	default:
		return ""
	}
}

func fetchLibraryUpdate(name string, force bool) ProgressUpdate {
	msg := fmt.Sprintf("Loading library snapshot (%s)...", name)
	if force {
		msg = fmt.Sprintf("Refreshing library snapshot (%s)...", name)
	}
	return ProgressUpdate{Phase: FetchLibrary, Step: 1, Total: 1, Message: msg}
}

func libraryLoadedUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLibrary,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Library snapshot has %d tracks", count),
	}
}

func candidateCheckedUpdate(step, total int, res CandidateResult) ProgressUpdate {
	label := res.Candidate.Label()
	var msg string
	switch {
	case res.Error != nil:
		msg = fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, label, res.Error)
	case res.Decision.IsConflictOverride():
		msg = fmt.Sprintf("[%d/%d] ! %s: upload (replaygain conflict)", step, total, label)
	case res.Decision.ShouldUpload():
		msg = fmt.Sprintf("[%d/%d] + %s: upload", step, total, label)
	default:
		msg = fmt.Sprintf("[%d/%d] = %s: duplicate (%s)", step, total, label, res.Decision.Strategy())
	}
	return ProgressUpdate{Phase: CheckCandidates, Step: step, Total: total, Message: msg, Data: res}
}

func recordDecisionsUpdate(step, total int, runID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RecordDecisions,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Recording decisions for run %s...", runID),
	}
}

func completeUpdate(result *BatchResult) ProgressUpdate {
	return ProgressUpdate{
		Phase: Complete,
		Step:  len(result.Results),
		Total: len(result.Results),
		Message: fmt.Sprintf("Checked %d candidates: %d to upload, %d duplicates, %d conflicts, %d failed",
			len(result.Results), result.ToUpload, result.Duplicates, result.Conflicts, result.Failed),
		Data: result,
	}
}
