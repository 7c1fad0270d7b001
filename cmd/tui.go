package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/libsync/internal/models"
	"github.com/desertthunder/libsync/internal/shared"
	"github.com/desertthunder/libsync/internal/tasks"
	"github.com/desertthunder/libsync/internal/ui"
)

// runTUI launches the interactive candidate browser for a batch check.
func (r *Runner) runTUI(ctx context.Context, candidates []models.Candidate, opts tasks.CheckOpts) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/libsync-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	checker, err := r.newChecker(opts.Record)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, checker, candidates, opts)
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	result, err := model.Result()
	if err != nil {
		return err
	}
	if result != nil {
		r.writePlain("Run %s: %d to upload, %d duplicates, %d conflicts, %d failed\n",
			result.RunID, result.ToUpload, result.Duplicates, result.Conflicts, result.Failed)
	}
	return nil
}
