package main

import (
	"context"
	"time"

	"github.com/desertthunder/libsync/internal/formatter"
	"github.com/urfave/cli/v3"
)

// LibraryList fetches (or reuses) the library snapshot and prints it.
func (r *Runner) LibraryList(ctx context.Context, cmd *cli.Command) error {
	force := cmd.Bool("force-refresh")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	checker, err := r.newChecker(false)
	if err != nil {
		return err
	}

	r.logger.Info("listing library tracks", "force_refresh", force)

	tracks, err := checker.Snapshot(ctx, force)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(tracks, pretty)
	}

	r.writePlain("Found %d tracks:\n\n", len(tracks))
	if _, err := r.output.Write(formatter.LibraryToText(tracks)); err != nil {
		return err
	}
	return nil
}

// LibraryStatus reports whether the library answers and what the cache holds.
func (r *Runner) LibraryStatus(ctx context.Context, cmd *cli.Command) error {
	checker, err := r.newChecker(false)
	if err != nil {
		return err
	}

	status, err := checker.Status(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		data := map[string]any{
			"name":          status.Name,
			"online":        status.Online,
			"cached_tracks": status.CachedTracks,
			"expired":       status.Expired,
			"ttl_seconds":   status.TTL.Seconds(),
		}
		if !status.FetchedAt.IsZero() {
			data["fetched_at"] = status.FetchedAt.Format(time.RFC3339)
		}
		if status.Error != nil {
			data["error"] = status.Error.Error()
		}
		return r.writeJSON(data, true)
	}

	r.writePlainHeader(status.Name)
	if status.Error != nil {
		r.writePlain("Status: ✗ unreachable (%v)\n", status.Error)
	} else if status.Online {
		r.writePlain("Status: ✓ online\n")
	} else {
		r.writePlain("Status: ✗ offline\n")
	}

	r.writePlain("Cached tracks: %d\n", status.CachedTracks)
	if status.FetchedAt.IsZero() {
		r.writePlain("Last fetched: never\n")
	} else {
		r.writePlain("Last fetched: %s\n", status.FetchedAt.Format(time.RFC3339))
	}
	r.writePlain("Cache TTL: %s (expired: %t)\n", status.TTL, status.Expired)
	return nil
}
