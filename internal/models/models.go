// package models defines the data model for the library duplicate detector
package models

import (
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// TicksPerSecond is the resolution of media server durations.
const TicksPerSecond = 10_000_000

// TrackFields holds raw, un-normalized artist/album/title values.
type TrackFields struct {
	Artist string
	Album  string
	Title  string
}

// ReplayGain records which loudness tags a track carries, as raw tag values.
type ReplayGain struct {
	TrackGain string
	AlbumGain string
}

// Present reports whether any loudness metadata is set.
func (g ReplayGain) Present() bool {
	return g.TrackGain != "" || g.AlbumGain != ""
}

// RemoteTrack is one record of the remote library snapshot.
type RemoteTrack struct {
	ID            string
	UniqueID      string
	Path          string
	Fields        TrackFields
	LengthSeconds *float64
	MusicBrainzID string
	ReplayGain    ReplayGain
}

// Candidate is a track proposed for upload.
type Candidate struct {
	ID              string
	Path            string
	Fields          TrackFields
	DurationSeconds *float64
	MusicBrainzID   string
	ReplayGain      ReplayGain
}

// Label returns "artist - title" for logs and reports.
func (c Candidate) Label() string {
	switch {
	case c.Fields.Artist == "" && c.Fields.Title == "":
		return c.ID
	case c.Fields.Artist == "":
		return c.Fields.Title
	case c.Fields.Title == "":
		return c.Fields.Artist
	}
	return c.Fields.Artist + " - " + c.Fields.Title
}
