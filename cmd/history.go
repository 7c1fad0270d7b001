package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/libsync/internal/formatter"
	"github.com/desertthunder/libsync/internal/shared"
	"github.com/urfave/cli/v3"
)

// HistoryList prints recorded decisions filtered by run, strategy and action.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("uploads") && cmd.Bool("skips") {
		return fmt.Errorf("%w: cannot specify both --uploads and --skips", shared.ErrInvalidArgument)
	}

	repo, err := r.decisions()
	if err != nil {
		return err
	}

	criteria := map[string]any{
		"run_id":   cmd.String("run"),
		"strategy": cmd.String("strategy"),
		"limit":    int(cmd.Int("limit")),
	}
	switch {
	case cmd.Bool("uploads"):
		criteria["should_upload"] = true
	case cmd.Bool("skips"):
		criteria["should_upload"] = false
	}

	records, err := repo.List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(records, true)
	}

	if len(records) == 0 {
		r.writePlain("No recorded decisions\n")
		return nil
	}

	r.writePlain("Found %d decisions:\n\n", len(records))
	if _, err := r.output.Write(formatter.RecordsToText(records)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// HistoryRuns prints one summary line per recorded run.
func (r *Runner) HistoryRuns(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.decisions()
	if err != nil {
		return err
	}

	runs, err := repo.Runs()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(runs, true)
	}

	if len(runs) == 0 {
		r.writePlain("No recorded runs\n")
		return nil
	}

	if _, err := r.output.Write(formatter.RunsToText(runs)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// HistoryDelete soft-deletes a recorded decision.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: decision id", shared.ErrMissingArgument)
	}

	repo, err := r.decisions()
	if err != nil {
		return err
	}

	if err := repo.Delete(id); err != nil {
		return err
	}

	r.logger.Info("decision deleted", "id", id)
	r.writePlain("✓ Deleted decision %s\n", id)
	return nil
}
