package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestCandidateFromItem(t *testing.T) {
	ticks := func(v int64) *int64 { return &v }

	tt := []struct {
		name     string
		item     MediaItem
		want     TrackFields
		wantMBID string
		wantDur  float64
		wantGain bool
	}{
		{
			name: "preferred keys",
			item: MediaItem{
				ID: "a1", Name: "Come Together", Title: "ignored",
				AlbumArtist: "The Beatles", Artist: "ignored", Artists: []string{"ignored"},
				Album: "Abbey Road", AlbumTitle: "ignored",
				RunTimeTicks: ticks(2_590_000_000),
				ProviderIds:  map[string]string{"MusicBrainzTrack": " abc ", "MusicBrainzRecording": "zzz"},
			},
			want:     TrackFields{Artist: "The Beatles", Album: "Abbey Road", Title: "Come Together"},
			wantMBID: "abc",
			wantDur:  259,
		},
		{
			name: "legacy keys",
			item: MediaItem{
				Title:      "Something",
				Artist:     "   ",
				Artists:    []string{"George Harrison", "The Beatles"},
				AlbumTitle: "Abbey Road",
				ProviderIds: map[string]string{
					"MusicBrainzRecording": "rec-1",
				},
				NormalizationGain: -7.5,
			},
			want:     TrackFields{Artist: "George Harrison", Album: "Abbey Road", Title: "Something"},
			wantMBID: "rec-1",
			wantGain: true,
		},
		{
			name: "tag style replaygain",
			item: MediaItem{
				Name: "x", AlbumArtist: "y", Album: "z",
				TagAlbumGain: "-3.2 dB",
			},
			want:     TrackFields{Artist: "y", Album: "z", Title: "x"},
			wantGain: true,
		},
		{
			name: "empty item",
			item: MediaItem{},
			want: TrackFields{},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got := CandidateFromItem(tc.item)
			if got.Fields != tc.want {
				t.Errorf("Fields = %+v, want %+v", got.Fields, tc.want)
			}
			if got.MusicBrainzID != tc.wantMBID {
				t.Errorf("MusicBrainzID = %q, want %q", got.MusicBrainzID, tc.wantMBID)
			}
			if tc.wantDur == 0 && got.DurationSeconds != nil {
				t.Errorf("expected no duration, got %v", *got.DurationSeconds)
			}
			if tc.wantDur != 0 && (got.DurationSeconds == nil || *got.DurationSeconds != tc.wantDur) {
				t.Errorf("DurationSeconds = %v, want %v", got.DurationSeconds, tc.wantDur)
			}
			if got.ReplayGain.Present() != tc.wantGain {
				t.Errorf("ReplayGain.Present() = %v, want %v", got.ReplayGain.Present(), tc.wantGain)
			}
		})
	}
}

func TestRemoteTrackFromAPI(t *testing.T) {
	payload := `[
		{"id": 42, "unique_id": "u42", "path": "beatles/come_together.mp3", "artist": "The Beatles",
		 "album": "Abbey Road", "title": "Come Together", "length": 259.5,
		 "custom_fields": {"musicbrainz_trackid": "abc"}, "replaygain_track_gain": "-6.1 dB"},
		{"id": "s-7", "artist": "A", "album": "B", "title": "C", "length": null,
		 "custom_fields": {"replaygain_album_gain": -2.5}},
		{"id": 8, "artist": "A", "album": "B", "title": "D", "custom_fields": null, "replaygain_track_gain": null}
	]`

	var files []StationMediaFile
	if err := json.Unmarshal([]byte(payload), &files); err != nil {
		t.Fatalf("failed to decode listing: %v", err)
	}

	tracks := make([]RemoteTrack, len(files))
	for i, f := range files {
		tracks[i] = RemoteTrackFromAPI(f)
	}

	if tracks[0].ID != "42" {
		t.Errorf("expected numeric id to become \"42\", got %q", tracks[0].ID)
	}
	if tracks[0].MusicBrainzID != "abc" {
		t.Errorf("expected mbid abc, got %q", tracks[0].MusicBrainzID)
	}
	if tracks[0].LengthSeconds == nil || *tracks[0].LengthSeconds != 259.5 {
		t.Errorf("expected length 259.5, got %v", tracks[0].LengthSeconds)
	}
	if tracks[0].ReplayGain.TrackGain != "-6.1 dB" {
		t.Errorf("expected track gain -6.1 dB, got %q", tracks[0].ReplayGain.TrackGain)
	}

	if tracks[1].ID != "s-7" {
		t.Errorf("expected string id s-7, got %q", tracks[1].ID)
	}
	if tracks[1].LengthSeconds != nil {
		t.Errorf("expected nil length, got %v", *tracks[1].LengthSeconds)
	}
	if tracks[1].ReplayGain.AlbumGain != "-2.5" {
		t.Errorf("expected album gain from custom fields, got %q", tracks[1].ReplayGain.AlbumGain)
	}

	if tracks[2].ReplayGain.Present() {
		t.Error("expected no replaygain for null values")
	}
}

func TestDecodeMediaItems(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		items, err := DecodeMediaItems(strings.NewReader(`[{"Id": "1", "Name": "A"}, {"Id": "2", "Name": "B"}]`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 2 || items[1].Name != "B" {
			t.Errorf("unexpected items: %+v", items)
		}
	})

	t.Run("envelope", func(t *testing.T) {
		items, err := DecodeMediaItems(strings.NewReader(`{"Items": [{"Id": "1", "Name": "A", "RunTimeTicks": 10000000}], "TotalRecordCount": 1}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 1 || items[0].RunTimeTicks == nil || *items[0].RunTimeTicks != 10_000_000 {
			t.Errorf("unexpected items: %+v", items)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if _, err := DecodeMediaItems(strings.NewReader(`not json`)); err == nil {
			t.Error("expected error")
		}
	})
}

func TestUploadDecision(t *testing.T) {
	t.Run("skip carries remote id", func(t *testing.T) {
		d := NewSkipDecision(StrategyMusicBrainzID, "1", "mbid match")
		if d.ShouldUpload() {
			t.Error("skip decision should not upload")
		}
		if id, ok := d.MatchedRemoteID(); !ok || id != "1" {
			t.Errorf("MatchedRemoteID() = %q, %v", id, ok)
		}
		if d.IsConflictOverride() {
			t.Error("skip decision is not a conflict override")
		}
	})

	t.Run("upload has no remote id", func(t *testing.T) {
		d := NewUploadDecision("no match")
		if !d.ShouldUpload() || d.Strategy() != StrategyNone {
			t.Errorf("unexpected decision %+v", d)
		}
		if _, ok := d.MatchedRemoteID(); ok {
			t.Error("upload decision should not carry a remote id")
		}
	})

	t.Run("conflict override", func(t *testing.T) {
		d := NewConflictOverrideDecision("9", "replaygain conflict")
		if !d.ShouldUpload() || !d.IsConflictOverride() {
			t.Error("expected conflict override to upload")
		}
		if d.Strategy() != StrategyNormalizedMetadata {
			t.Errorf("expected normalized metadata strategy, got %v", d.Strategy())
		}
	})

	t.Run("json", func(t *testing.T) {
		tt := []struct {
			name     string
			decision UploadDecision
			want     string
		}{
			{
				name:     "skip",
				decision: NewSkipDecision(StrategyNormalizedMetadata, "5", "dup"),
				want:     `{"should_upload":false,"reason":"dup","strategy_used":"normalized_metadata","matched_remote_id":"5"}`,
			},
			{
				name:     "upload",
				decision: NewUploadDecision("new"),
				want:     `{"should_upload":true,"reason":"new","strategy_used":"none","matched_remote_id":null}`,
			},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				got, err := json.Marshal(tc.decision)
				if err != nil {
					t.Fatalf("marshal failed: %v", err)
				}
				if string(got) != tc.want {
					t.Errorf("json = %s, want %s", got, tc.want)
				}
			})
		}
	})
}

func TestDetectionStrategy(t *testing.T) {
	for _, s := range []DetectionStrategy{StrategyNone, StrategyMusicBrainzID, StrategyNormalizedMetadata, StrategyFilePath} {
		parsed, err := ParseStrategy(s.String())
		if err != nil || parsed != s {
			t.Errorf("ParseStrategy(%q) = %v, %v", s.String(), parsed, err)
		}
	}

	if _, err := ParseStrategy("isrc"); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestDecisionRecord(t *testing.T) {
	candidate := Candidate{ID: "c1", Fields: TrackFields{Artist: "A", Album: "B", Title: "C"}}

	t.Run("valid skip", func(t *testing.T) {
		rec := NewDecisionRecord("run", candidate, NewSkipDecision(StrategyMusicBrainzID, "1", "mbid"))
		if err := rec.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if rec.MatchedRemoteID() != "1" || rec.CandidateID() != "c1" {
			t.Errorf("unexpected record %+v", rec)
		}
	})

	t.Run("missing run id", func(t *testing.T) {
		rec := NewDecisionRecord("", candidate, NewUploadDecision("new"))
		if err := rec.Validate(); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("failed record", func(t *testing.T) {
		rec := NewFailedDecisionRecord("run", candidate, errors.New("boom"))
		if err := rec.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if rec.Error() != "boom" {
			t.Errorf("expected error message boom, got %q", rec.Error())
		}
	})

	t.Run("marshals to JSON", func(t *testing.T) {
		rec := NewDecisionRecord("run", candidate, NewSkipDecision(StrategyMusicBrainzID, "1", "mbid"))
		data, err := json.Marshal(rec)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, want := range []string{`"run_id":"run"`, `"strategy":"musicbrainz_id"`, `"matched_remote_id":"1"`, `"artist":"A"`} {
			if !strings.Contains(string(data), want) {
				t.Errorf("expected %s in %s", want, data)
			}
		}
		if strings.Contains(string(data), `"error"`) {
			t.Errorf("expected error to be omitted, got %s", data)
		}
	})
}

func TestCandidateLabel(t *testing.T) {
	tt := []struct {
		name      string
		candidate Candidate
		want      string
	}{
		{name: "artist and title", candidate: Candidate{Fields: TrackFields{Artist: "A", Title: "T"}}, want: "A - T"},
		{name: "title only", candidate: Candidate{Fields: TrackFields{Title: "T"}}, want: "T"},
		{name: "artist only", candidate: Candidate{Fields: TrackFields{Artist: "A"}}, want: "A"},
		{name: "id fallback", candidate: Candidate{ID: "x1"}, want: "x1"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.candidate.Label(); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
