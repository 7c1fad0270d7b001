package detection

import "github.com/desertthunder/libsync/internal/models"

// ReplayGainConflict reports whether remote carries loudness tags and the
// candidate carries none.
func ReplayGainConflict(remote models.RemoteTrack, candidate models.Candidate) bool {
	return remote.ReplayGain.Present() && !candidate.ReplayGain.Present()
}
