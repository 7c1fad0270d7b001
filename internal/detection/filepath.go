package detection

import (
	"fmt"
	"strings"

	"github.com/desertthunder/libsync/internal/models"
)

// PathMatcher locates a candidate in the library by file path.
//
// Path layouts differ between libraries, so no matcher is built in.
type PathMatcher interface {
	MatchPath(snapshot []models.RemoteTrack, candidate models.Candidate) (remoteID string, ok bool)
}

// PathMatcherFunc adapts a function to [PathMatcher].
type PathMatcherFunc func(snapshot []models.RemoteTrack, candidate models.Candidate) (string, bool)

func (f PathMatcherFunc) MatchPath(snapshot []models.RemoteTrack, candidate models.Candidate) (string, bool) {
	return f(snapshot, candidate)
}

// FilePathStrategy defers to a [PathMatcher].
type FilePathStrategy struct {
	matcher PathMatcher
}

func (s *FilePathStrategy) Kind() models.DetectionStrategy { return models.StrategyFilePath }

func (s *FilePathStrategy) Detect(snapshot []models.RemoteTrack, candidate models.Candidate) (models.UploadDecision, bool, error) {
	id, ok := s.matcher.MatchPath(snapshot, candidate)
	if !ok || id == "" {
		return models.UploadDecision{}, false, nil
	}
	reason := fmt.Sprintf("file path %s already in library", candidate.Path)
	return models.NewSkipDecision(models.StrategyFilePath, id, reason), true, nil
}

// SuffixMatcher matches when a remote path and the candidate path end with
// the same trailing segments. Segments of 0 compares whole paths.
type SuffixMatcher struct {
	Segments int
}

func (m SuffixMatcher) MatchPath(snapshot []models.RemoteTrack, candidate models.Candidate) (string, bool) {
	want := pathSuffix(candidate.Path, m.Segments)
	if want == "" {
		return "", false
	}
	for _, remote := range snapshot {
		if pathSuffix(remote.Path, m.Segments) == want {
			return remote.ID, true
		}
	}
	return "", false
}

func pathSuffix(p string, n int) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	var parts []string
	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			parts = append(parts, strings.ToLower(seg))
		}
	}
	if n > 0 && len(parts) > n {
		parts = parts[len(parts)-n:]
	}
	return strings.Join(parts, "/")
}
