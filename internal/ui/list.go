package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/libsync/internal/formatter"
	"github.com/desertthunder/libsync/internal/models"
	"github.com/desertthunder/libsync/internal/shared"
	"github.com/desertthunder/libsync/internal/tasks"
)

var (
	_ list.Item = candidateItem{}
	_ list.Item = resultItem{}
)

// candidateItem wraps [models.Candidate] to implement [list.Item].
type candidateItem struct {
	candidate models.Candidate
}

func (i candidateItem) FilterValue() string { return i.candidate.Label() }
func (i candidateItem) Title() string       { return i.candidate.Label() }
func (i candidateItem) Description() string {
	parts := []string{shared.FormatDuration(i.candidate.DurationSeconds)}
	if i.candidate.Fields.Album != "" {
		parts = append(parts, i.candidate.Fields.Album)
	}
	if i.candidate.MusicBrainzID != "" {
		parts = append(parts, "mbid")
	}
	if i.candidate.ReplayGain.Present() {
		parts = append(parts, "replaygain")
	}
	return strings.Join(parts, " • ")
}

// resultItem wraps [tasks.CandidateResult] to implement [list.Item].
type resultItem struct {
	result tasks.CandidateResult
}

func (i resultItem) FilterValue() string {
	return formatter.Action(i.result) + " " + i.result.Candidate.Label()
}

func (i resultItem) Title() string {
	return fmt.Sprintf("%s %s", actionBadge(i.result), i.result.Candidate.Label())
}

func (i resultItem) Description() string {
	if i.result.Error != nil {
		return i.result.Error.Error()
	}
	desc := i.result.Decision.Strategy().String()
	if id, ok := i.result.Decision.MatchedRemoteID(); ok {
		desc = fmt.Sprintf("%s • remote %s", desc, id)
	}
	return desc
}

func actionBadge(res tasks.CandidateResult) string {
	action := formatter.Action(res)
	label := fmt.Sprintf("[%s]", action)
	switch action {
	case "upload":
		return styles.ok.Render(label)
	case "conflict":
		return styles.warn.Render(label)
	case "error":
		return styles.err.Render(label)
	default:
		return styles.dim.Render(label)
	}
}
