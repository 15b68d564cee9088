// package ui is the interactive terminal front end over the generation
// engine: prompt entry, pipeline progress, track review, save and share.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/songalchemy/internal/models"
	"github.com/desertthunder/songalchemy/internal/tasks"
)

// ViewState selects which screen the model renders.
type ViewState int

const (
	PromptView ViewState = iota
	GeneratingView
	TracksView
)

type trackItem struct {
	track models.Track
}

func (t trackItem) Title() string       { return t.track.Name }
func (t trackItem) Description() string { return strings.Join(t.track.Artists, ", ") }
func (t trackItem) FilterValue() string { return t.track.Name }

type generateDoneMsg struct {
	result *tasks.GenerateResult
	err    error
}

type saveDoneMsg struct {
	saved *models.SavedPlaylist
	err   error
}

type shareDoneMsg struct {
	url string
	err error
}

type progressMsg tasks.ProgressUpdate

// Model is the bubbletea application model.
type Model struct {
	ctx    context.Context
	engine *tasks.GenerateEngine
	size   int

	view     ViewState
	prompt   textinput.Model
	tracks   list.Model
	spin     spinner.Model
	keys     keyMap
	help     help.Model
	progress chan tasks.ProgressUpdate

	status   string
	shareURL string
	err      error
	width    int
	height   int
}

// NewModel builds the TUI over an engine. size is the playlist size for every
// generation started from the UI.
func NewModel(ctx context.Context, engine *tasks.GenerateEngine, size int) Model {
	prompt := textinput.New()
	prompt.Placeholder = "Describe the playlist you want..."
	prompt.CharLimit = 280
	prompt.Width = 60
	prompt.Focus()

	tracks := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	tracks.SetShowHelp(false)
	tracks.SetShowStatusBar(false)

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return Model{
		ctx:      ctx,
		engine:   engine,
		size:     size,
		view:     PromptView,
		prompt:   prompt,
		tracks:   tracks,
		spin:     spin,
		keys:     newKeyMap(),
		help:     help.New(),
		progress: make(chan tasks.ProgressUpdate, 16),
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.tracks.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case progressMsg:
		update := tasks.ProgressUpdate(msg)
		if update.Phase == tasks.ResolvePhase {
			m.status = fmt.Sprintf("matching %d/%d: %s", update.Step, update.Total, update.Item)
		} else if update.Message != "" {
			m.status = update.Message
		}
		return m, m.waitForProgress()

	case generateDoneMsg:
		return m.handleGenerateDone(msg)

	case saveDoneMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.status = fmt.Sprintf("saved %q to your library", msg.saved.Title)
			m.err = nil
		}
		return m, nil

	case shareDoneMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.shareURL = msg.url
			m.status = "share link ready"
			m.err = nil
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m.updateChildren(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	switch m.view {
	case PromptView:
		if key.Matches(msg, m.keys.Submit) {
			prompt := strings.TrimSpace(m.prompt.Value())
			if prompt == "" {
				m.err = fmt.Errorf("enter a prompt first")
				return m, nil
			}
			return m.startGenerate(tasks.GenerateRequest{Prompt: prompt, Size: m.size})
		}

		if key.Matches(msg, m.keys.Surprise) {
			return m.startSurprise()
		}

	case TracksView:
		switch {
		case key.Matches(msg, m.keys.Save):
			return m, m.saveCmd()
		case key.Matches(msg, m.keys.Share):
			return m, m.shareCmd()
		case key.Matches(msg, m.keys.New):
			m.engine.Reset()
			m.view = PromptView
			m.status = ""
			m.shareURL = ""
			m.err = nil
			m.prompt.SetValue("")
			m.prompt.Focus()
			return m, textinput.Blink
		}
	}

	return m.updateChildren(msg)
}

func (m Model) handleGenerateDone(msg generateDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if msg.err == tasks.ErrSuperseded {
			return m, nil
		}

		m.err = msg.err
		m.view = PromptView
		m.prompt.Focus()
		return m, textinput.Blink
	}

	m.err = nil
	m.view = TracksView

	playlist := msg.result.Playlist
	items := make([]list.Item, 0, len(playlist.Tracks))
	for _, track := range playlist.Tracks {
		items = append(items, trackItem{track: track})
	}

	m.tracks.Title = playlist.Title
	m.tracks.SetItems(items)
	m.status = fmt.Sprintf("%d of %d tracks matched", len(playlist.Tracks), msg.result.Requested)

	return m, nil
}

func (m Model) updateChildren(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch m.view {
	case PromptView:
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		cmds = append(cmds, cmd)
	case TracksView:
		var cmd tea.Cmd
		m.tracks, cmd = m.tracks.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) startGenerate(req tasks.GenerateRequest) (tea.Model, tea.Cmd) {
	m.view = GeneratingView
	m.err = nil
	m.shareURL = ""
	m.status = "thinking..."

	engine := m.engine
	progress := m.progress
	ctx := m.ctx

	generate := func() tea.Msg {
		result, err := engine.Generate(ctx, progress, req)
		return generateDoneMsg{result: result, err: err}
	}

	return m, tea.Batch(m.spin.Tick, m.waitForProgress(), generate)
}

func (m Model) startSurprise() (tea.Model, tea.Cmd) {
	m.view = GeneratingView
	m.err = nil
	m.shareURL = ""
	m.status = "rolling the dice..."

	engine := m.engine
	progress := m.progress
	ctx := m.ctx
	size := m.size

	surprise := func() tea.Msg {
		result, err := engine.Surprise(ctx, progress, size, true)
		return generateDoneMsg{result: result, err: err}
	}

	return m, tea.Batch(m.spin.Tick, m.waitForProgress(), surprise)
}

func (m Model) saveCmd() tea.Cmd {
	engine := m.engine
	progress := m.progress
	ctx := m.ctx

	return func() tea.Msg {
		saved, err := engine.Save(ctx, progress)
		return saveDoneMsg{saved: saved, err: err}
	}
}

func (m Model) shareCmd() tea.Cmd {
	engine := m.engine
	progress := m.progress
	ctx := m.ctx

	return func() tea.Msg {
		url, err := engine.Share(ctx, progress)
		return shareDoneMsg{url: url, err: err}
	}
}

func (m Model) waitForProgress() tea.Cmd {
	progress := m.progress

	return func() tea.Msg {
		return progressMsg(<-progress)
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("songalchemy"))
	b.WriteString("\n")

	switch m.view {
	case PromptView:
		b.WriteString(m.prompt.View())
		b.WriteString("\n")

	case GeneratingView:
		b.WriteString(m.spin.View())
		b.WriteString(" ")
		b.WriteString(styles.warn.Render(m.status))
		b.WriteString("\n")

	case TracksView:
		b.WriteString(m.tracks.View())
		b.WriteString("\n")

		if m.status != "" {
			b.WriteString(styles.ok.Render(m.status))
			b.WriteString("\n")
		}

		if m.shareURL != "" {
			b.WriteString(styles.ok.Render(m.shareURL))
			b.WriteString("\n")
		}
	}

	if m.err != nil {
		b.WriteString(styles.err.Render(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(styles.help.Render(m.help.View(m.keys)))

	return b.String()
}
