package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/libsync/internal/models"
	"github.com/desertthunder/libsync/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CandidateListView ViewState = iota
	CheckView
	ResultView
	DetailView
)

// Checker runs a batch; implemented by [tasks.DuplicateChecker].
type Checker interface {
	CheckBatch(ctx context.Context, progress chan<- tasks.ProgressUpdate, candidates []models.Candidate, opts tasks.CheckOpts) (*tasks.BatchResult, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx           context.Context
	view          ViewState
	checker       Checker
	opts          tasks.CheckOpts
	candidates    []models.Candidate
	width         int
	height        int
	candidateList list.Model
	resultList    list.Model
	selected      *tasks.CandidateResult
	progressChan  chan tasks.ProgressUpdate
	done          chan Msg
	progress      tasks.ProgressUpdate
	bar           progress.Model
	result        *tasks.BatchResult
	err           error
	help          help.Model
	keys          keyMap
}

// NewModel creates a new TUI model for checking candidates with opts.
func NewModel(ctx context.Context, checker Checker, candidates []models.Candidate, opts tasks.CheckOpts) *Model {
	items := make([]list.Item, len(candidates))
	for i, c := range candidates {
		items[i] = candidateItem{candidate: c}
	}
	candidateList := list.New(items, list.NewDefaultDelegate(), 0, 0)
	candidateList.Title = fmt.Sprintf("Candidates (%d)", len(candidates))

	return &Model{
		ctx:           ctx,
		view:          CandidateListView,
		checker:       checker,
		opts:          opts,
		candidates:    candidates,
		candidateList: candidateList,
		bar:           progress.New(progress.WithDefaultGradient()),
		help:          help.New(),
		keys:          newKeyMap(),
	}
}

// Result returns the last completed batch, if any.
func (m *Model) Result() (*tasks.BatchResult, error) {
	return m.result, m.err
}

// Init starts with the candidate preview; nothing runs until confirmed.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.candidateList.SetSize(msg.Width-4, msg.Height-8)
		if m.result != nil {
			m.resultList.SetSize(msg.Width-4, msg.Height-8)
		}
		m.bar.Width = max(msg.Width-8, 10)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case CandidateListView:
			return m.handleCandidateKeys(msg)
		case CheckView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case ResultView:
			return m.handleResultKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		}

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.progress = msg.data.(tasks.ProgressUpdate)
			return m, m.waitForProgress()
		case MsgCheckComplete:
			done := msg.data.(checkComplete)
			m.finish(done.result, done.err)
			return m, nil
		}
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case CandidateListView:
		return m.renderCandidates()
	case CheckView:
		return m.renderCheck()
	case ResultView:
		return m.renderResults()
	case DetailView:
		return m.renderDetail()
	default:
		return ""
	}
}

func (m *Model) handleCandidateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.candidateList.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.start):
			return m, m.startCheck(m.opts.ForceRefresh)
		}
	}

	var cmd tea.Cmd
	m.candidateList, cmd = m.candidateList.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.result == nil {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.refresh):
			return m, m.startCheck(true)
		}
		return m, nil
	}

	if m.resultList.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.refresh):
			return m, m.startCheck(true)
		case key.Matches(msg, m.keys.enter):
			if item, ok := m.resultList.SelectedItem().(resultItem); ok {
				res := item.result
				m.selected = &res
				m.view = DetailView
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.resultList, cmd = m.resultList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.selected = nil
		m.view = ResultView
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case CandidateListView:
		m.candidateList, cmd = m.candidateList.Update(msg)
	case ResultView:
		if m.result != nil {
			m.resultList, cmd = m.resultList.Update(msg)
		}
	}
	return m, cmd
}

// startCheck runs the batch in the background and streams its progress.
func (m *Model) startCheck(force bool) tea.Cmd {
	m.view = CheckView
	m.progress = tasks.ProgressUpdate{}
	m.err = nil

	opts := m.opts
	opts.ForceRefresh = force
	opts.RunID = ""

	progressChan := make(chan tasks.ProgressUpdate, 50)
	done := make(chan Msg, 1)
	m.progressChan = progressChan
	m.done = done

	go func() {
		result, err := m.checker.CheckBatch(m.ctx, progressChan, m.candidates, opts)
		done <- checkCompleteMsg(result, err)
		close(progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progressChan, done := m.progressChan, m.done
	return func() tea.Msg {
		if progressChan == nil {
			return checkCompleteMsg(m.result, m.err)
		}

		update, ok := <-progressChan
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) finish(result *tasks.BatchResult, err error) {
	m.progressChan = nil
	m.done = nil
	m.result = result
	m.err = err
	m.view = ResultView

	if result == nil {
		return
	}

	items := make([]list.Item, len(result.Results))
	for i, res := range result.Results {
		items[i] = resultItem{result: res}
	}
	m.resultList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.resultList.Title = fmt.Sprintf("Decisions for run %s", result.RunID)
	m.resultList.SetSize(m.width-4, m.height-8)
}

func (m *Model) renderCandidates() string {
	helpKeys := []key.Binding{m.keys.start, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.candidateList.View(), helpView)
}

func (m *Model) renderCheck() string {
	title := styles.title.Render("Checking for duplicates")

	percent := 0.0
	if m.progress.Phase == tasks.CheckCandidates && m.progress.Total > 0 {
		percent = float64(m.progress.Step) / float64(m.progress.Total)
	}

	var phase string
	switch m.progress.Phase {
	case tasks.FetchLibrary:
		phase = "Loading library snapshot..."
	case tasks.CheckCandidates:
		phase = fmt.Sprintf("Checking candidates (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.RecordDecisions:
		phase = "Recording decisions..."
		percent = 1
	case tasks.Complete:
		phase = "Done"
		percent = 1
	default:
		phase = "Starting..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s\n\n%s", title, phase, m.bar.ViewAs(percent), styles.help.Render(m.progress.Message))
}

func (m *Model) renderResults() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.refresh, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.result == nil {
		msg := "No result available"
		if m.err != nil {
			msg = fmt.Sprintf("Check failed: %v", m.err)
		}
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(msg), helpView)
	}

	summary := fmt.Sprintf("%s  %s  %s  %s",
		styles.ok.Render(fmt.Sprintf("%d to upload", m.result.ToUpload)),
		styles.dim.Render(fmt.Sprintf("%d duplicates", m.result.Duplicates)),
		styles.warn.Render(fmt.Sprintf("%d conflicts", m.result.Conflicts)),
		styles.err.Render(fmt.Sprintf("%d failed", m.result.Failed)),
	)
	if m.err != nil {
		summary += "\n" + styles.err.Render(m.err.Error())
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", summary, m.resultList.View(), helpView)
}

func (m *Model) renderDetail() string {
	if m.selected == nil {
		return ""
	}
	res := *m.selected
	c := res.Candidate

	var b strings.Builder
	b.WriteString(styles.title.Render(c.Label()))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Artist:   %s\nAlbum:    %s\nTitle:    %s\n", c.Fields.Artist, c.Fields.Album, c.Fields.Title)
	if c.Path != "" {
		fmt.Fprintf(&b, "Path:     %s\n", c.Path)
	}
	if c.MusicBrainzID != "" {
		fmt.Fprintf(&b, "MBID:     %s\n", c.MusicBrainzID)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Action:   %s\n", actionBadge(res))
	if res.Error != nil {
		fmt.Fprintf(&b, "Error:    %s\n", styles.err.Render(res.Error.Error()))
	} else {
		fmt.Fprintf(&b, "Strategy: %s\n", res.Decision.Strategy())
		if id, ok := res.Decision.MatchedRemoteID(); ok {
			fmt.Fprintf(&b, "Remote:   %s\n", id)
		}
		fmt.Fprintf(&b, "Reason:   %s\n", res.Decision.Reason())
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s", b.String(), helpView)
}
