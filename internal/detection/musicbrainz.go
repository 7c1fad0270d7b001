package detection

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/libsync/internal/models"
	"github.com/desertthunder/libsync/internal/normalize"
)

// MusicBrainzStrategy matches on the MusicBrainz track id.
type MusicBrainzStrategy struct {
	logger *log.Logger
}

func (s *MusicBrainzStrategy) Kind() models.DetectionStrategy { return models.StrategyMusicBrainzID }

func (s *MusicBrainzStrategy) Detect(snapshot []models.RemoteTrack, candidate models.Candidate) (models.UploadDecision, bool, error) {
	mbid := normalize.Identifier(candidate.MusicBrainzID)
	if mbid == "" {
		return models.UploadDecision{}, false, nil
	}

	ids := s.index(snapshot)[mbid]
	if len(ids) == 0 {
		return models.UploadDecision{}, false, nil
	}

	if len(ids) > 1 {
		s.logger.Warn("duplicate musicbrainz id in library; using first record",
			"mbid", mbid, "remote_ids", ids, "chosen", ids[0])
	}

	reason := fmt.Sprintf("musicbrainz id %s already in library", mbid)
	return models.NewSkipDecision(models.StrategyMusicBrainzID, ids[0], reason), true, nil
}

// index maps normalized MusicBrainz ids to remote ids in snapshot order.
// Records without an id cannot back a skip decision and are left out.
func (s *MusicBrainzStrategy) index(snapshot []models.RemoteTrack) map[string][]string {
	index := make(map[string][]string)
	for _, track := range snapshot {
		mbid := normalize.Identifier(track.MusicBrainzID)
		if mbid == "" {
			continue
		}
		if track.ID == "" {
			s.logger.Debug("skipping library record without id", "mbid", mbid, "path", track.Path)
			continue
		}
		index[mbid] = append(index[mbid], track.ID)
	}
	return index
}
