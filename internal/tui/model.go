package tui

import (
	"context"
	"errors"
	"image"

	"github.com/Veraticus/corrosion-lens/internal/common"
	"github.com/Veraticus/corrosion-lens/internal/heatmap"
	"github.com/Veraticus/corrosion-lens/internal/selection"
	"github.com/Veraticus/corrosion-lens/internal/session"
	"github.com/Veraticus/corrosion-lens/internal/tui/themes"
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	maxHeatmapCols = 64
	maxHeatmapRows = 16
)

// Model holds the main TUI state. Session state is read through snapshots
// taken after every transition so the view never sees a partial update.
type Model struct {
	ctx        context.Context
	session    *session.Session
	fetcher    HeatmapFetcher
	loadErr    error
	heatmapErr error
	heatmapImg image.Image
	snapshot   session.View
	theme      themes.Theme
	keymap     KeyMap
	heatmapArt string
	heatmapFor string
	input      textinput.Model
	picker     filepicker.Model
	spinner    spinner.Model
	help       help.Model
	focus      Focus
	width      int
	height     int
	quitting   bool
}

// newModel creates a new model with the given configuration.
func newModel(cfg Config) Model {
	input := textinput.New()
	input.Placeholder = "drop an image here or type its path"
	input.Prompt = "› "
	input.Focus()

	picker := filepicker.New()
	picker.AllowedTypes = selection.AllowedExtensions
	picker.CurrentDirectory = cfg.StartDir
	picker.AutoHeight = true

	spin := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(cfg.Theme.StatusPending),
	)

	h := help.New()
	h.ShowAll = cfg.ShowHelp

	m := Model{
		ctx:     cfg.Context,
		session: cfg.Session,
		fetcher: cfg.Fetcher,
		theme:   cfg.Theme,
		keymap:  DefaultKeyMap(),
		input:   input,
		picker:  picker,
		spinner: spin,
		help:    h,
		focus:   FocusDrop,
		width:   cfg.Width,
		height:  cfg.Height,
	}
	m.resize()
	m.refresh()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.picker.Init())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		// Letting the tick lapse stops the animation once settled.
		if !m.snapshot.Submitting() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case selectionLoadedMsg:
		return m.handleSelection(msg), nil

	case classificationSettledMsg:
		return m.handleSettled(msg)

	case heatmapLoadedMsg:
		m.handleHeatmap(msg)
		return m, nil
	}

	// Directory listings and cursor blinks.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	cmds = append(cmds, cmd)
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		m.quitting = true
		return m, tea.Quit
	}

	submitting := m.snapshot.Submitting()

	// A drop onto the window arrives as a bracketed paste.
	if msg.Paste {
		if submitting {
			return m, nil
		}
		return m, loadDroppedCmd(pastedText(msg), sourceDrop)
	}

	switch {
	case key.Matches(msg, m.keymap.Submit):
		return m.submit()

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.Dismiss):
		m.session.DismissNotice()
		m.loadErr = nil
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keymap.Browse):
		return m.toggleFocus(), nil
	}

	if submitting {
		return m, nil
	}

	if m.focus == FocusBrowse {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		if ok, path := m.picker.DidSelectFile(msg); ok {
			return m, tea.Batch(cmd, loadPathCmd(path))
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Accept):
		text := m.input.Value()
		if text == "" {
			return m, nil
		}
		return m, loadDroppedCmd(text, sourceDrop)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) toggleFocus() Model {
	if m.focus == FocusDrop {
		m.focus = FocusBrowse
		m.input.Blur()
	} else {
		m.focus = FocusDrop
		m.input.Focus()
	}
	return m
}

func (m Model) handleSelection(msg selectionLoadedMsg) Model {
	if msg.err != nil {
		common.LogError(msg.err, "Failed to load selection", common.Fields{
			"source": msg.source,
		})
		m.loadErr = msg.err
		return m
	}

	accepted, err := m.session.Select(msg.candidates)
	if err != nil {
		common.LogDebug("Selection ignored", common.Fields{
			"reason": err.Error(),
		})
		return m
	}
	if !accepted {
		return m
	}

	m.loadErr = nil
	m.input.Reset()
	m.clearHeatmap()
	m.refresh()

	common.LogInfo("Image selected", common.Fields{
		"source": msg.source,
		"name":   m.snapshot.Pending.Name,
	})
	return m
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	ticket, err := m.session.Begin()
	if errors.Is(err, common.ErrSubmitInFlight) {
		return m, nil
	}
	m.refresh()
	if err != nil {
		return m, nil
	}

	m.clearHeatmap()
	return m, tea.Batch(m.spinner.Tick, classifyCmd(m.ctx, m.session, ticket))
}

func (m Model) handleSettled(msg classificationSettledMsg) (tea.Model, tea.Cmd) {
	if err := m.session.Settle(msg.ticket, msg.prediction, msg.err); errors.Is(err, session.ErrStaleTicket) {
		return m, nil
	}
	m.refresh()

	outcome := m.snapshot.Outcome
	if outcome == nil {
		return m, nil
	}
	common.LogInfo("Classification complete", common.Fields{
		"category": outcome.Category,
		"heatmap":  outcome.DisplayURL(),
	})

	if !outcome.HasHeatmap() || m.fetcher == nil {
		return m, nil
	}
	return m, fetchHeatmapCmd(m.ctx, m.fetcher, outcome.CacheToken, outcome.DisplayURL())
}

func (m *Model) handleHeatmap(msg heatmapLoadedMsg) {
	outcome := m.snapshot.Outcome
	if outcome == nil || outcome.CacheToken != msg.token {
		return
	}
	m.heatmapFor = msg.token
	m.heatmapImg = msg.img
	m.heatmapErr = msg.err
	m.renderHeatmap()
}

func (m *Model) clearHeatmap() {
	m.heatmapFor = ""
	m.heatmapImg = nil
	m.heatmapErr = nil
	m.heatmapArt = ""
}

// refresh re-reads the session and syncs controls that depend on status.
func (m *Model) refresh() {
	if m.session == nil {
		return
	}
	m.snapshot = m.session.Snapshot()
	m.keymap.SetSubmitting(m.snapshot.Submitting())
}

func (m *Model) resize() {
	m.help.Width = m.width
	m.input.Width = max(m.width-8, 10)
	m.renderHeatmap()
}

func (m *Model) renderHeatmap() {
	if m.heatmapImg == nil {
		m.heatmapArt = ""
		return
	}
	cols := min(max(m.width-4, 8), maxHeatmapCols)
	m.heatmapArt = heatmap.Render(m.heatmapImg, cols, maxHeatmapRows)
}
