package main

import (
	"context"

	"github.com/desertthunder/libsync/internal/fingerprint"
	"github.com/desertthunder/libsync/internal/models"
	"github.com/urfave/cli/v3"
)

// Fingerprint prints the normalized identity of the given artist, album and title.
func (r *Runner) Fingerprint(ctx context.Context, cmd *cli.Command) error {
	fields := models.TrackFields{
		Artist: cmd.String("artist"),
		Album:  cmd.String("album"),
		Title:  cmd.String("title"),
	}

	meta, err := fingerprint.NewMetadata(fields, nil, cmd.String("mbid"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]string{
			"artist":         meta.Artist,
			"album":          meta.Album,
			"title":          meta.Title,
			"musicbrainz_id": meta.MusicBrainzID,
			"fingerprint":    meta.Fingerprint(),
		}, true)
	}

	r.writePlain("Artist:      %s\n", meta.Artist)
	r.writePlain("Album:       %s\n", meta.Album)
	r.writePlain("Title:       %s\n", meta.Title)
	if meta.MusicBrainzID != "" {
		r.writePlain("MBID:        %s\n", meta.MusicBrainzID)
	}
	r.writePlain("Fingerprint: %s\n", meta.Fingerprint())
	return nil
}
