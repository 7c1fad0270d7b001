// Package fingerprint builds the "artist|album|title" identity key used to
// recognise the same recording under differently written metadata.
package fingerprint

import (
	"fmt"
	"strings"

	"github.com/desertthunder/libsync/internal/models"
	"github.com/desertthunder/libsync/internal/normalize"
	"github.com/desertthunder/libsync/internal/shared"
)

// Separator joins the normalized fields; normalization never emits it.
const Separator = "|"

// Logical field names reported by errors, in check order.
const (
	FieldArtist = "artist"
	FieldAlbum  = "album"
	FieldTitle  = "title"
)

// MissingFieldError reports required fields that were empty before normalization.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required track fields: %s", strings.Join(e.Fields, ", "))
}

func (e *MissingFieldError) Unwrap() error { return shared.ErrInvalidTrack }

// EmptyAfterNormalizationError reports fields that had content but normalized
// to nothing, such as a title made only of punctuation. Raw holds the
// original values keyed by field name.
type EmptyAfterNormalizationError struct {
	Fields []string
	Raw    map[string]string
}

func (e *EmptyAfterNormalizationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s=%q", f, e.Raw[f])
	}
	return fmt.Sprintf("track fields empty after normalization: %s", strings.Join(parts, ", "))
}

func (e *EmptyAfterNormalizationError) Unwrap() error { return shared.ErrInvalidTrack }

// NormalizedMetadata is the canonical identity of a track.
type NormalizedMetadata struct {
	Artist          string
	Album           string
	Title           string
	DurationSeconds *float64
	MusicBrainzID   string
}

// Fingerprint returns "artist|album|title".
func (m NormalizedMetadata) Fingerprint() string {
	return m.Artist + Separator + m.Album + Separator + m.Title
}

// Build returns the fingerprint of fields.
func Build(fields models.TrackFields) (string, error) {
	m, err := normalizeFields(fields)
	if err != nil {
		return "", err
	}
	return m.Fingerprint(), nil
}

// NewMetadata normalizes fields and attaches the optional duration and MusicBrainz id.
func NewMetadata(fields models.TrackFields, durationSeconds *float64, mbid string) (NormalizedMetadata, error) {
	m, err := normalizeFields(fields)
	if err != nil {
		return NormalizedMetadata{}, err
	}
	m.DurationSeconds = durationSeconds
	m.MusicBrainzID = normalize.Identifier(mbid)
	return m, nil
}

// ForCandidate builds the metadata of a candidate track.
func ForCandidate(c models.Candidate) (NormalizedMetadata, error) {
	return NewMetadata(c.Fields, c.DurationSeconds, c.MusicBrainzID)
}

// ForRemote builds the metadata of a remote library record.
func ForRemote(r models.RemoteTrack) (NormalizedMetadata, error) {
	return NewMetadata(r.Fields, r.LengthSeconds, r.MusicBrainzID)
}

func normalizeFields(fields models.TrackFields) (NormalizedMetadata, error) {
	raw := []struct {
		name  string
		value string
	}{
		{FieldArtist, fields.Artist},
		{FieldAlbum, fields.Album},
		{FieldTitle, fields.Title},
	}

	var missing []string
	for _, f := range raw {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return NormalizedMetadata{}, &MissingFieldError{Fields: missing}
	}

	m := NormalizedMetadata{
		Artist: normalize.Artist(fields.Artist),
		Album:  normalize.Artist(fields.Album),
		Title:  normalize.String(fields.Title),
	}

	normalized := []string{m.Artist, m.Album, m.Title}
	var empty []string
	values := make(map[string]string)
	for i, f := range raw {
		if normalized[i] == "" {
			empty = append(empty, f.name)
			values[f.name] = f.value
		}
	}
	if len(empty) > 0 {
		return NormalizedMetadata{}, &EmptyAfterNormalizationError{Fields: empty, Raw: values}
	}

	return m, nil
}
