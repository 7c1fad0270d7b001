package fingerprint

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/desertthunder/libsync/internal/models"
	"github.com/desertthunder/libsync/internal/shared"
)

func TestBuild(t *testing.T) {
	tt := []struct {
		name   string
		fields models.TrackFields
		want   string
	}{
		{
			name:   "leading article rotated",
			fields: models.TrackFields{Artist: "The Beatles", Album: "Abbey Road", Title: "Come Together"},
			want:   "beatles the|abbey road|come together",
		},
		{
			name:   "case and accents",
			fields: models.TrackFields{Artist: "BEYONCÉ", Album: "Lemonade", Title: "Formation"},
			want:   "beyonce|lemonade|formation",
		},
		{
			name:   "album article rotated",
			fields: models.TrackFields{Artist: "Pink Floyd", Album: "The Wall", Title: "Hey You"},
			want:   "pink floyd|wall the|hey you",
		},
		{
			name:   "title article kept",
			fields: models.TrackFields{Artist: "Queen", Album: "Jazz", Title: "The Show Must Go On"},
			want:   "queen|jazz|the show must go on",
		},
		{
			name:   "pipes in input",
			fields: models.TrackFields{Artist: "A|B", Album: "C", Title: "D|E"},
			want:   "a b|c|d e",
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Build(tc.fields)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("Build() = %q, want %q", got, tc.want)
			}
			if strings.Count(got, Separator) != 2 {
				t.Errorf("fingerprint %q should contain exactly two separators", got)
			}
		})
	}
}

func TestBuildErrors(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		_, err := Build(models.TrackFields{Artist: "", Album: "Abbey Road", Title: ""})

		var missing *MissingFieldError
		if !errors.As(err, &missing) {
			t.Fatalf("expected MissingFieldError, got %T %v", err, err)
		}
		if want := []string{"artist", "title"}; !reflect.DeepEqual(missing.Fields, want) {
			t.Errorf("Fields = %v, want %v", missing.Fields, want)
		}
		if !errors.Is(err, shared.ErrInvalidTrack) {
			t.Error("expected error to wrap ErrInvalidTrack")
		}
	})

	t.Run("empty after normalization", func(t *testing.T) {
		_, err := Build(models.TrackFields{Artist: "Prince", Album: "…", Title: "?!"})

		var empty *EmptyAfterNormalizationError
		if !errors.As(err, &empty) {
			t.Fatalf("expected EmptyAfterNormalizationError, got %T %v", err, err)
		}
		if want := []string{"album", "title"}; !reflect.DeepEqual(empty.Fields, want) {
			t.Errorf("Fields = %v, want %v", empty.Fields, want)
		}
		if empty.Raw["title"] != "?!" || empty.Raw["album"] != "…" {
			t.Errorf("expected raw values to be echoed, got %v", empty.Raw)
		}
		if _, ok := empty.Raw["artist"]; ok {
			t.Error("raw values should only include offending fields")
		}
		if !strings.Contains(err.Error(), `title="?!"`) {
			t.Errorf("error message should echo raw title, got %q", err.Error())
		}

		var missing *MissingFieldError
		if errors.As(err, &missing) {
			t.Error("normalization failure must be distinct from missing field")
		}
	})

	t.Run("whitespace only is empty after normalization", func(t *testing.T) {
		_, err := Build(models.TrackFields{Artist: "Prince", Album: "Purple Rain", Title: " \t "})

		var empty *EmptyAfterNormalizationError
		if !errors.As(err, &empty) {
			t.Fatalf("expected EmptyAfterNormalizationError, got %T %v", err, err)
		}
		if want := []string{"title"}; !reflect.DeepEqual(empty.Fields, want) {
			t.Errorf("Fields = %v, want %v", empty.Fields, want)
		}
		if empty.Raw["title"] != " \t " {
			t.Errorf("expected raw whitespace to be echoed, got %q", empty.Raw["title"])
		}
	})
}

func TestNewMetadata(t *testing.T) {
	duration := 259.0
	fields := models.TrackFields{Artist: "The Beatles", Album: "Abbey Road", Title: "Come Together"}

	m, err := NewMetadata(fields, &duration, "  ABC ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.MusicBrainzID != "abc" {
		t.Errorf("MusicBrainzID = %q, want abc", m.MusicBrainzID)
	}
	if m.DurationSeconds == nil || *m.DurationSeconds != 259 {
		t.Errorf("DurationSeconds = %v", m.DurationSeconds)
	}
	if m.Fingerprint() != "beatles the|abbey road|come together" {
		t.Errorf("Fingerprint() = %q", m.Fingerprint())
	}

	remote, err := ForRemote(models.RemoteTrack{Fields: fields, LengthSeconds: &duration})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	candidate, err := ForCandidate(models.Candidate{Fields: models.TrackFields{Artist: "the beatles", Album: "ABBEY ROAD", Title: "come together"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if remote.Fingerprint() != candidate.Fingerprint() {
		t.Errorf("expected equal fingerprints, got %q and %q", remote.Fingerprint(), candidate.Fingerprint())
	}
}
