package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// FlexibleID accepts an identifier encoded either as a JSON string or number.
type FlexibleID string

// UnmarshalJSON implements [json.Unmarshaler].
func (f *FlexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*f = FlexibleID(n.String())
	return nil
}

// StationMediaFile is a file as listed by the station library API.
type StationMediaFile struct {
	ID                  FlexibleID     `json:"id"`
	UniqueID            string         `json:"unique_id"`
	Path                string         `json:"path"`
	Artist              string         `json:"artist"`
	Album               string         `json:"album"`
	Title               string         `json:"title"`
	Length              *float64       `json:"length"`
	CustomFields        map[string]any `json:"custom_fields"`
	ReplayGainTrackGain any            `json:"replaygain_track_gain"`
	ReplayGainAlbumGain any            `json:"replaygain_album_gain"`
}

// MediaItem is a candidate exported from the local media server.
//
// Older exports used different key names for the same logical field, so each
// of them has its own struct field; [CandidateFromItem] resolves them.
type MediaItem struct {
	ID           string            `json:"Id"`
	Name         string            `json:"Name"`
	Title        string            `json:"Title"`
	AlbumArtist  string            `json:"AlbumArtist"`
	Artist       string            `json:"Artist"`
	Artists      []string          `json:"Artists"`
	Album        string            `json:"Album"`
	AlbumTitle   string            `json:"AlbumTitle"`
	RunTimeTicks *int64            `json:"RunTimeTicks"`
	ProviderIds  map[string]string `json:"ProviderIds"`
	Path         string            `json:"Path"`

	ReplayGainTrackGain any `json:"ReplayGainTrackGain"`
	ReplayGainAlbumGain any `json:"ReplayGainAlbumGain"`
	NormalizationGain   any `json:"NormalizationGain"`
	TagTrackGain        any `json:"replaygain_track_gain"`
	TagAlbumGain        any `json:"replaygain_album_gain"`
}

// Custom field and provider keys, in lookup priority order.
var (
	remoteMBIDKeys    = []string{"musicbrainz_trackid", "musicbrainz_track_id"}
	candidateMBIDKeys = []string{"MusicBrainzTrack", "MusicBrainzRecording"}
)

// RemoteTrackFromAPI converts a station listing entry into the canonical [RemoteTrack].
func RemoteTrackFromAPI(f StationMediaFile) RemoteTrack {
	track := RemoteTrack{
		ID:       string(f.ID),
		UniqueID: f.UniqueID,
		Path:     f.Path,
		Fields: TrackFields{
			Artist: f.Artist,
			Album:  f.Album,
			Title:  f.Title,
		},
		LengthSeconds: f.Length,
		ReplayGain: ReplayGain{
			TrackGain: firstGain(f.ReplayGainTrackGain, f.CustomFields["replaygain_track_gain"]),
			AlbumGain: firstGain(f.ReplayGainAlbumGain, f.CustomFields["replaygain_album_gain"]),
		},
	}

	for _, key := range remoteMBIDKeys {
		if v := gainString(f.CustomFields[key]); v != "" {
			track.MusicBrainzID = v
			break
		}
	}

	return track
}

// CandidateFromItem converts a media server item into the canonical [Candidate].
//
// Aliases are checked in a fixed order: title Name > Title; artist
// AlbumArtist > Artist > Artists[0]; album Album > AlbumTitle.
func CandidateFromItem(item MediaItem) Candidate {
	candidate := Candidate{
		ID:   item.ID,
		Path: item.Path,
		Fields: TrackFields{
			Artist: firstNonEmpty(item.AlbumArtist, item.Artist, firstOf(item.Artists)),
			Album:  firstNonEmpty(item.Album, item.AlbumTitle),
			Title:  firstNonEmpty(item.Name, item.Title),
		},
		ReplayGain: ReplayGain{
			TrackGain: firstGain(item.ReplayGainTrackGain, item.NormalizationGain, item.TagTrackGain),
			AlbumGain: firstGain(item.ReplayGainAlbumGain, item.TagAlbumGain),
		},
	}

	if item.RunTimeTicks != nil && *item.RunTimeTicks > 0 {
		seconds := float64(*item.RunTimeTicks) / TicksPerSecond
		candidate.DurationSeconds = &seconds
	}

	for _, key := range candidateMBIDKeys {
		if v := strings.TrimSpace(item.ProviderIds[key]); v != "" {
			candidate.MusicBrainzID = v
			break
		}
	}

	return candidate
}

// DecodeMediaItems reads a JSON array of media items, or a {"Items": [...]} envelope.
func DecodeMediaItems(r io.Reader) ([]MediaItem, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var envelope struct {
			Items []MediaItem `json:"Items"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil {
			return nil, fmt.Errorf("failed to decode items: %w", err)
		}
		return envelope.Items, nil
	}

	var items []MediaItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode items: %w", err)
	}
	return items, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstOf(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func firstGain(values ...any) string {
	for _, v := range values {
		if s := gainString(v); s != "" {
			return s
		}
	}
	return ""
}

// gainString renders a decoded JSON scalar as a string; null and blank are empty.
func gainString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case bool:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}
