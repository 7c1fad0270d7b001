package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/desertthunder/libsync/internal/formatter"
	"github.com/desertthunder/libsync/internal/models"
	"github.com/desertthunder/libsync/internal/shared"
	"github.com/desertthunder/libsync/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Check reads a media item export and decides, per item, whether to upload it.
func (r *Runner) Check(ctx context.Context, cmd *cli.Command) error {
	input := cmd.String("input")
	format := cmd.String("format")
	output := cmd.String("output")
	if cmd.Bool("json") {
		format = formatter.FormatJSON
	}

	candidates, err := r.readCandidates(input)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return fmt.Errorf("%w: no candidates in %s", shared.ErrInvalidInput, input)
	}

	opts := tasks.CheckOpts{
		ForceRefresh: cmd.Bool("force-refresh"),
		Record:       cmd.Bool("record"),
		RunID:        cmd.String("run"),
		NumWorkers:   int(cmd.Int("workers")),
	}

	if cmd.Bool("tui") {
		return r.runTUI(ctx, candidates, opts)
	}

	checker, err := r.newChecker(opts.Record)
	if err != nil {
		return err
	}

	r.logger.Info("checking candidates", "count", len(candidates), "force_refresh", opts.ForceRefresh)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchLibrary, tasks.Complete:
				r.logger.Info(update.Message)
			default:
				r.logger.Debug(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
			}
		}
	}()

	result, err := checker.CheckBatch(ctx, progressCh, candidates, opts)
	close(progressCh)
	<-done

	if err != nil {
		if result == nil {
			return err
		}
		r.logger.Warn("check interrupted, reporting partial results", "checked", len(result.Results), "error", err)
	}

	if reportErr := formatter.WriteReport(r.output, result, format, output); reportErr != nil {
		return reportErr
	}
	if output != "" {
		r.logger.Info("report written", "path", output, "format", format)
	}
	if result.RecordErrors > 0 {
		r.logger.Warn("some decisions were not recorded", "count", result.RecordErrors)
	}

	return err
}

func (r *Runner) readCandidates(input string) ([]models.Candidate, error) {
	var src io.Reader = r.input
	if input != "" && input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
		}
		defer f.Close()
		src = f
	}

	items, err := models.DecodeMediaItems(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	candidates := make([]models.Candidate, 0, len(items))
	for _, item := range items {
		candidates = append(candidates, models.CandidateFromItem(item))
	}
	return candidates, nil
}
