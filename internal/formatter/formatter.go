// package formatter renders duplicate check results and library listings (CSV, Markdown, JSON, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/libsync/internal/models"
	"github.com/desertthunder/libsync/internal/repositories"
	"github.com/desertthunder/libsync/internal/shared"
	"github.com/desertthunder/libsync/internal/tasks"
)

// Report formats accepted by [Render].
const (
	FormatText     = "text"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// Action is the one-word outcome shown for a candidate.
func Action(res tasks.CandidateResult) string {
	switch {
	case res.Error != nil:
		return "error"
	case res.Decision.IsConflictOverride():
		return "conflict"
	case res.Decision.ShouldUpload():
		return "upload"
	default:
		return "skip"
	}
}

func detail(res tasks.CandidateResult) string {
	if res.Error != nil {
		return res.Error.Error()
	}
	return res.Decision.Reason()
}

func remoteID(res tasks.CandidateResult) string {
	if res.Error != nil {
		return ""
	}
	id, _ := res.Decision.MatchedRemoteID()
	return id
}

func strategy(res tasks.CandidateResult) string {
	if res.Error != nil {
		return ""
	}
	return res.Decision.Strategy().String()
}

// DecisionsToCSV converts a batch result to CSV with columns: #, Candidate, Artist, Album, Title, Duration, Action, Strategy, Remote ID, Detail
func DecisionsToCSV(result *tasks.BatchResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"#", "Candidate", "Artist", "Album", "Title", "Duration", "Action", "Strategy", "Remote ID", "Detail"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, res := range result.Results {
		c := res.Candidate
		record := []string{
			strconv.Itoa(i + 1),
			c.ID,
			c.Fields.Artist,
			c.Fields.Album,
			c.Fields.Title,
			shared.FormatDuration(c.DurationSeconds),
			Action(res),
			strategy(res),
			remoteID(res),
			detail(res),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// DecisionsToMarkdown converts a batch result to a Markdown report
func DecisionsToMarkdown(result *tasks.BatchResult) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# Duplicate check %s\n\n", result.RunID)
	fmt.Fprintf(&buf, "**Library tracks**: %d\n", result.LibrarySize)
	fmt.Fprintf(&buf, "**Candidates**: %d\n", len(result.Results))
	fmt.Fprintf(&buf, "**To upload**: %d\n", result.ToUpload)
	fmt.Fprintf(&buf, "**Duplicates**: %d\n", result.Duplicates)
	fmt.Fprintf(&buf, "**ReplayGain conflicts**: %d\n", result.Conflicts)
	fmt.Fprintf(&buf, "**Failed**: %d\n\n", result.Failed)

	buf.WriteString("## Decisions\n\n")
	buf.WriteString("| # | Track | Action | Strategy | Remote ID | Detail |\n")
	buf.WriteString("|---|-------|--------|----------|-----------|--------|\n")
	for i, res := range result.Results {
		fmt.Fprintf(&buf, "| %d | %s | %s | %s | %s | %s |\n",
			i+1,
			markdownCell(trackLabel(res.Candidate)),
			Action(res),
			strategy(res),
			markdownCell(remoteID(res)),
			markdownCell(detail(res)),
		)
	}

	return buf.Bytes(), nil
}

// DecisionsToText converts a batch result to plain text
func DecisionsToText(result *tasks.BatchResult) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Run: %s\n", result.RunID)
	fmt.Fprintf(&buf, "Library: %d tracks\n", result.LibrarySize)
	fmt.Fprintf(&buf, "Upload: %d  Duplicate: %d  Conflict: %d  Failed: %d\n\n",
		result.ToUpload, result.Duplicates, result.Conflicts, result.Failed)

	for i, res := range result.Results {
		line := fmt.Sprintf("%d. [%s] %s", i+1, Action(res), trackLabel(res.Candidate))
		if id := remoteID(res); id != "" {
			line += fmt.Sprintf(" -> %s", id)
		}
		fmt.Fprintf(&buf, "%s\n   %s\n", line, detail(res))
	}

	return buf.Bytes(), nil
}

type candidateJSON struct {
	Index     int                    `json:"index"`
	Candidate string                 `json:"candidate_id,omitempty"`
	Artist    string                 `json:"artist"`
	Album     string                 `json:"album"`
	Title     string                 `json:"title"`
	Decision  *models.UploadDecision `json:"decision,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

type batchJSON struct {
	RunID       string          `json:"run_id"`
	LibrarySize int             `json:"library_size"`
	ToUpload    int             `json:"to_upload"`
	Duplicates  int             `json:"duplicates"`
	Conflicts   int             `json:"conflicts"`
	Failed      int             `json:"failed"`
	Results     []candidateJSON `json:"results"`
}

// DecisionsToJSON converts a batch result to indented JSON
func DecisionsToJSON(result *tasks.BatchResult) ([]byte, error) {
	out := batchJSON{
		RunID:       result.RunID,
		LibrarySize: result.LibrarySize,
		ToUpload:    result.ToUpload,
		Duplicates:  result.Duplicates,
		Conflicts:   result.Conflicts,
		Failed:      result.Failed,
		Results:     make([]candidateJSON, 0, len(result.Results)),
	}
	for i, res := range result.Results {
		entry := candidateJSON{
			Index:     i + 1,
			Candidate: res.Candidate.ID,
			Artist:    res.Candidate.Fields.Artist,
			Album:     res.Candidate.Fields.Album,
			Title:     res.Candidate.Fields.Title,
		}
		if res.Error != nil {
			entry.Error = res.Error.Error()
		} else {
			decision := res.Decision
			entry.Decision = &decision
		}
		out.Results = append(out.Results, entry)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Render formats result as one of [FormatText], [FormatCSV], [FormatMarkdown] or [FormatJSON]
func Render(result *tasks.BatchResult, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatText, "txt":
		return DecisionsToText(result)
	case FormatCSV:
		return DecisionsToCSV(result)
	case FormatMarkdown, "md":
		return DecisionsToMarkdown(result)
	case FormatJSON:
		return DecisionsToJSON(result)
	default:
		return nil, fmt.Errorf("%w: unknown format %q (want text, csv, markdown or json)", shared.ErrInvalidArgument, format)
	}
}

// WriteReport renders result and writes it to path, or to w when path is empty
func WriteReport(w io.Writer, result *tasks.BatchResult, format, path string) error {
	data, err := Render(result, format)
	if err != nil {
		return err
	}

	if path != "" {
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return nil
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// LibraryToText lists library records one per line
func LibraryToText(tracks []models.RemoteTrack) []byte {
	var buf bytes.Buffer
	for _, t := range tracks {
		fmt.Fprintf(&buf, "%s\t%s - %s (%s) [%s]", t.ID, t.Fields.Artist, t.Fields.Title, t.Fields.Album, shared.FormatDuration(t.LengthSeconds))
		if t.MusicBrainzID != "" {
			fmt.Fprintf(&buf, " mbid=%s", t.MusicBrainzID)
		}
		if t.ReplayGain.Present() {
			buf.WriteString(" rg")
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// RecordsToText lists stored decisions from the audit log
func RecordsToText(records []*models.DecisionRecord) []byte {
	var buf bytes.Buffer
	for _, r := range records {
		action := "skip"
		switch {
		case r.Error() != "":
			action = "error"
		case r.ShouldUpload() && r.MatchedRemoteID() != "":
			action = "conflict"
		case r.ShouldUpload():
			action = "upload"
		}

		fields := r.Fields()
		fmt.Fprintf(&buf, "#%d %s [%s] %s - %s", r.Sequence(), r.CreatedAt().Format("2006-01-02 15:04"), action, fields.Artist, fields.Title)
		if r.MatchedRemoteID() != "" {
			fmt.Fprintf(&buf, " -> %s", r.MatchedRemoteID())
		}
		msg := r.Reason()
		if r.Error() != "" {
			msg = r.Error()
		}
		fmt.Fprintf(&buf, " (%s: %s)\n", r.Strategy(), msg)
	}
	return buf.Bytes()
}

// RunsToText lists run summaries from the audit log
func RunsToText(runs []repositories.RunSummary) []byte {
	var buf bytes.Buffer
	for _, run := range runs {
		fmt.Fprintf(&buf, "%s  %s  total=%d upload=%d duplicate=%d failed=%d\n",
			run.StartedAt.Format("2006-01-02 15:04"), run.RunID, run.Total, run.ToUpload, run.Duplicates, run.Failed)
	}
	return buf.Bytes()
}

func trackLabel(c models.Candidate) string {
	label := c.Label()
	if c.Fields.Album != "" {
		label += " (" + c.Fields.Album + ")"
	}
	return label
}

func markdownCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}
