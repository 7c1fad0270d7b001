package models

import (
	"encoding/json"
	"fmt"
)

// DetectionStrategy identifies the rule that produced an [UploadDecision].
type DetectionStrategy int

const (
	StrategyNone DetectionStrategy = iota
	StrategyMusicBrainzID
	StrategyNormalizedMetadata
	StrategyFilePath
)

func (s DetectionStrategy) String() string {
	switch s {
	case StrategyMusicBrainzID:
		return "musicbrainz_id"
	case StrategyNormalizedMetadata:
		return "normalized_metadata"
	case StrategyFilePath:
		return "file_path"
	default:
		return "none"
	}
}

// ParseStrategy is the inverse of [DetectionStrategy.String].
func ParseStrategy(s string) (DetectionStrategy, error) {
	switch s {
	case "musicbrainz_id":
		return StrategyMusicBrainzID, nil
	case "normalized_metadata":
		return StrategyNormalizedMetadata, nil
	case "file_path":
		return StrategyFilePath, nil
	case "none":
		return StrategyNone, nil
	}
	return StrategyNone, fmt.Errorf("unknown detection strategy %q", s)
}

// MarshalText implements [encoding.TextMarshaler].
func (s DetectionStrategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *DetectionStrategy) UnmarshalText(b []byte) error {
	parsed, err := ParseStrategy(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// UploadDecision is the immutable result of checking one candidate.
//
// A decision not to upload always carries the matched remote id. The only
// upload decision that also carries one is a ReplayGain conflict override.
type UploadDecision struct {
	shouldUpload    bool
	reason          string
	strategy        DetectionStrategy
	matchedRemoteID string
}

// NewSkipDecision reports a duplicate: do not upload, reuse remoteID.
func NewSkipDecision(strategy DetectionStrategy, remoteID, reason string) UploadDecision {
	return UploadDecision{reason: reason, strategy: strategy, matchedRemoteID: remoteID}
}

// NewUploadDecision reports that nothing in the library matched.
func NewUploadDecision(reason string) UploadDecision {
	return UploadDecision{shouldUpload: true, reason: reason, strategy: StrategyNone}
}

// NewConflictOverrideDecision reports a metadata match that must still be
// uploaded; remoteID is kept for information.
func NewConflictOverrideDecision(remoteID, reason string) UploadDecision {
	return UploadDecision{
		shouldUpload:    true,
		reason:          reason,
		strategy:        StrategyNormalizedMetadata,
		matchedRemoteID: remoteID,
	}
}

func (d UploadDecision) ShouldUpload() bool          { return d.shouldUpload }
func (d UploadDecision) Reason() string              { return d.reason }
func (d UploadDecision) Strategy() DetectionStrategy { return d.strategy }

// MatchedRemoteID returns the remote id and whether one is set.
func (d UploadDecision) MatchedRemoteID() (string, bool) {
	return d.matchedRemoteID, d.matchedRemoteID != ""
}

// IsConflictOverride reports an upload that still matched a remote record.
func (d UploadDecision) IsConflictOverride() bool {
	return d.shouldUpload && d.matchedRemoteID != ""
}

type decisionJSON struct {
	ShouldUpload    bool              `json:"should_upload"`
	Reason          string            `json:"reason"`
	StrategyUsed    DetectionStrategy `json:"strategy_used"`
	MatchedRemoteID *string           `json:"matched_remote_id"`
}

// MarshalJSON implements [json.Marshaler].
func (d UploadDecision) MarshalJSON() ([]byte, error) {
	out := decisionJSON{ShouldUpload: d.shouldUpload, Reason: d.reason, StrategyUsed: d.strategy}
	if id, ok := d.MatchedRemoteID(); ok {
		out.MatchedRemoteID = &id
	}
	return json.Marshal(out)
}
