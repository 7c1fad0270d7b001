package detection

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/libsync/internal/fingerprint"
	"github.com/desertthunder/libsync/internal/models"
)

// durationEpsilon absorbs float error from tick and second conversions.
const durationEpsilon = 1e-6

// MetadataStrategy matches on the normalized fingerprint, gated by duration.
type MetadataStrategy struct {
	logger    *log.Logger
	tolerance float64
	nearMiss  float64
}

func (s *MetadataStrategy) Kind() models.DetectionStrategy { return models.StrategyNormalizedMetadata }

func (s *MetadataStrategy) Detect(snapshot []models.RemoteTrack, candidate models.Candidate) (models.UploadDecision, bool, error) {
	meta, err := fingerprint.ForCandidate(candidate)
	if err != nil {
		return models.UploadDecision{}, false, fmt.Errorf("candidate %s: %w", candidate.Label(), err)
	}

	key := meta.Fingerprint()
	for _, remote := range s.index(snapshot)[key] {
		diff, gated := durationDiff(remote.LengthSeconds, meta.DurationSeconds)
		if gated && diff > s.tolerance+durationEpsilon {
			if diff <= s.nearMiss+durationEpsilon {
				s.logger.Info("near miss: fingerprint matched but duration differs",
					"fingerprint", key, "remote_id", remote.ID,
					"diff_seconds", fmt.Sprintf("%.2f", diff), "tolerance", s.tolerance)
			}
			continue
		}

		if ReplayGainConflict(remote, candidate) {
			s.logger.Info("replaygain conflict; uploading despite metadata match",
				"fingerprint", key, "remote_id", remote.ID)
			reason := fmt.Sprintf("metadata match %s but library copy has replaygain the candidate lacks", remote.ID)
			return models.NewConflictOverrideDecision(remote.ID, reason), true, nil
		}

		reason := fmt.Sprintf("metadata match on %q", key)
		if gated {
			reason = fmt.Sprintf("metadata match on %q (duration diff %.1fs)", key, diff)
		}
		return models.NewSkipDecision(models.StrategyNormalizedMetadata, remote.ID, reason), true, nil
	}

	return models.UploadDecision{}, false, nil
}

// index groups identifiable, fingerprintable remote records by fingerprint in snapshot order.
func (s *MetadataStrategy) index(snapshot []models.RemoteTrack) map[string][]models.RemoteTrack {
	index := make(map[string][]models.RemoteTrack, len(snapshot))
	for _, track := range snapshot {
		if track.ID == "" {
			s.logger.Debug("skipping library record without id", "path", track.Path)
			continue
		}
		key, err := fingerprint.Build(track.Fields)
		if err != nil {
			s.logger.Debug("skipping library record without usable metadata", "remote_id", track.ID, "err", err)
			continue
		}
		index[key] = append(index[key], track)
	}
	return index
}

// durationDiff returns the absolute difference when both durations are known.
// Non-positive lengths count as unknown.
func durationDiff(remote, candidate *float64) (float64, bool) {
	if remote == nil || candidate == nil || *remote <= 0 || *candidate <= 0 {
		return 0, false
	}
	return math.Abs(*remote - *candidate), true
}
