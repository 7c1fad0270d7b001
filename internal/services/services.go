// package services defines interface LibraryService for the remote station library
package services

import (
	"context"

	"github.com/desertthunder/libsync/internal/models"
)

// LibraryService is a remote media library that uploads are checked against.
type LibraryService interface {
	// ListFiles retrieves every file record in the library.
	ListFiles(ctx context.Context) ([]models.StationMediaFile, error)

	// KnownTracks retrieves the library as a detection snapshot.
	KnownTracks(ctx context.Context) ([]models.RemoteTrack, error)

	// Health reports whether the library API is reachable.
	Health(ctx context.Context) (*Status, error)

	// Name returns the name of the library backend.
	Name() string
}

// Status is the library API health response.
type Status struct {
	Online    bool  `json:"online"`
	Timestamp int64 `json:"timestamp"`
}
