package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DecisionRecord is an [UploadDecision] stored in the audit log together with
// the candidate it was made for.
type DecisionRecord struct {
	id              string
	sequence        int
	runID           string
	candidateID     string
	fields          TrackFields
	shouldUpload    bool
	reason          string
	strategy        DetectionStrategy
	matchedRemoteID string
	errMessage      string
	createdAt       time.Time
	updatedAt       time.Time
	deletedAt       *time.Time
}

var _ Model = (*DecisionRecord)(nil)

// NewDecisionRecord captures decision for candidate within the batch runID.
func NewDecisionRecord(runID string, candidate Candidate, decision UploadDecision) *DecisionRecord {
	now := time.Now()
	remoteID, _ := decision.MatchedRemoteID()
	return &DecisionRecord{
		runID:           runID,
		candidateID:     candidate.ID,
		fields:          candidate.Fields,
		shouldUpload:    decision.ShouldUpload(),
		reason:          decision.Reason(),
		strategy:        decision.Strategy(),
		matchedRemoteID: remoteID,
		createdAt:       now,
		updatedAt:       now,
	}
}

// NewFailedDecisionRecord captures a candidate whose check returned an error.
func NewFailedDecisionRecord(runID string, candidate Candidate, err error) *DecisionRecord {
	now := time.Now()
	return &DecisionRecord{
		runID:       runID,
		candidateID: candidate.ID,
		fields:      candidate.Fields,
		reason:      "check failed",
		strategy:    StrategyNone,
		errMessage:  err.Error(),
		createdAt:   now,
		updatedAt:   now,
	}
}

// RestoreDecisionRecord rebuilds a record from stored columns.
func RestoreDecisionRecord(
	id string, sequence int, runID, candidateID string, fields TrackFields,
	shouldUpload bool, reason string, strategy DetectionStrategy, matchedRemoteID, errMessage string,
	createdAt, updatedAt time.Time, deletedAt *time.Time,
) *DecisionRecord {
	return &DecisionRecord{
		id:              id,
		sequence:        sequence,
		runID:           runID,
		candidateID:     candidateID,
		fields:          fields,
		shouldUpload:    shouldUpload,
		reason:          reason,
		strategy:        strategy,
		matchedRemoteID: matchedRemoteID,
		errMessage:      errMessage,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
		deletedAt:       deletedAt,
	}
}

func (r *DecisionRecord) ID() string                  { return r.id }
func (r *DecisionRecord) Sequence() int               { return r.sequence }
func (r *DecisionRecord) RunID() string               { return r.runID }
func (r *DecisionRecord) CandidateID() string         { return r.candidateID }
func (r *DecisionRecord) Fields() TrackFields         { return r.fields }
func (r *DecisionRecord) ShouldUpload() bool          { return r.shouldUpload }
func (r *DecisionRecord) Reason() string              { return r.reason }
func (r *DecisionRecord) Strategy() DetectionStrategy { return r.strategy }
func (r *DecisionRecord) MatchedRemoteID() string     { return r.matchedRemoteID }
func (r *DecisionRecord) Error() string               { return r.errMessage }
func (r *DecisionRecord) CreatedAt() time.Time        { return r.createdAt }
func (r *DecisionRecord) UpdatedAt() time.Time        { return r.updatedAt }
func (r *DecisionRecord) DeletedAt() *time.Time       { return r.deletedAt }

func (r *DecisionRecord) SetID(id string)           { r.id = id }
func (r *DecisionRecord) SetSequence(sequence int)  { r.sequence = sequence }
func (r *DecisionRecord) SetDeletedAt(t *time.Time) { r.deletedAt = t }
func (r *DecisionRecord) SetUpdatedAt(t time.Time)  { r.updatedAt = t }

// Validate checks the decision invariant and required fields.
func (r *DecisionRecord) Validate() error {
	if r.runID == "" {
		return fmt.Errorf("run id is required")
	}
	if r.reason == "" {
		return fmt.Errorf("reason is required")
	}
	if r.errMessage == "" && !r.shouldUpload && r.matchedRemoteID == "" {
		return fmt.Errorf("skip decision without matched remote id")
	}
	return nil
}

type decisionRecordJSON struct {
	ID              string            `json:"id"`
	Sequence        int               `json:"sequence"`
	RunID           string            `json:"run_id"`
	CandidateID     string            `json:"candidate_id"`
	Artist          string            `json:"artist"`
	Album           string            `json:"album"`
	Title           string            `json:"title"`
	ShouldUpload    bool              `json:"should_upload"`
	Reason          string            `json:"reason"`
	Strategy        DetectionStrategy `json:"strategy"`
	MatchedRemoteID string            `json:"matched_remote_id,omitempty"`
	Error           string            `json:"error,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// MarshalJSON implements [json.Marshaler].
func (r *DecisionRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(decisionRecordJSON{
		ID:              r.id,
		Sequence:        r.sequence,
		RunID:           r.runID,
		CandidateID:     r.candidateID,
		Artist:          r.fields.Artist,
		Album:           r.fields.Album,
		Title:           r.fields.Title,
		ShouldUpload:    r.shouldUpload,
		Reason:          r.reason,
		Strategy:        r.strategy,
		MatchedRemoteID: r.matchedRemoteID,
		Error:           r.errMessage,
		CreatedAt:       r.createdAt,
	})
}
