package tui

import (
	"fmt"

	"github.com/Veraticus/corrosion-lens/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const appTitle = "Corrosion Lens"

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.theme.Title.Render(appTitle),
		m.renderAcquisition(),
		m.renderSelected(),
		m.renderButton(),
	}
	if notices := m.renderNotices(); notices != "" {
		sections = append(sections, "", notices)
	}
	if outcome := m.renderOutcome(); outcome != "" {
		sections = append(sections, "", outcome)
	}
	sections = append(sections, "", m.help.View(m.keymap))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderAcquisition renders the drop zone or the file picker.
func (m Model) renderAcquisition() string {
	width := max(m.width-2, 20)

	if m.snapshot.Submitting() {
		return m.theme.DropZone.Width(width).Render(
			m.theme.Subtitle.Render("Selection is disabled while processing."),
		)
	}

	if m.focus == FocusBrowse {
		return m.theme.DropZoneFocus.Width(width).Render(lipgloss.JoinVertical(
			lipgloss.Left,
			m.theme.Bold.Render("Choose an image (JPEG, PNG)"),
			m.theme.Subtitle.Render(m.picker.CurrentDirectory),
			m.picker.View(),
		))
	}

	return m.theme.DropZoneFocus.Width(width).Render(lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.Bold.Render("Drag and drop an image here (JPEG, PNG)"),
		m.input.View(),
	))
}

func (m Model) renderSelected() string {
	pending := m.snapshot.Pending
	if pending == nil {
		return m.theme.Subtitle.Render("No image selected.")
	}
	details := fmt.Sprintf(" (%s, %s)", pending.MediaType, humanize.Bytes(uint64(pending.Size())))
	return m.theme.Normal.Render("Selected: ") +
		m.theme.Bold.Render(pending.Name) +
		m.theme.Subtitle.Render(details)
}

func (m Model) renderButton() string {
	if m.snapshot.Submitting() {
		return m.spinner.View() + " " + m.theme.ButtonBusy.Render("Processing...")
	}
	return m.theme.Button.Render("Upload and Classify")
}

func (m Model) renderNotices() string {
	var lines []string
	if m.loadErr != nil {
		lines = append(lines, m.theme.StatusWarning.Render("Could not read file: "+m.loadErr.Error()))
	}
	if notice := m.snapshot.Notice; notice != nil {
		lines = append(lines, m.theme.StatusError.Render(notice.Message))
	}
	if len(lines) == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderOutcome renders the predicted level, its guide description and
// the heatmap.
func (m Model) renderOutcome() string {
	outcome := m.snapshot.Outcome
	if outcome == nil || !outcome.HasCategory() {
		return ""
	}

	entry, known := model.LookupGuide(outcome.Category)
	badge := m.theme.SeverityStyle(entry.Severity)

	level := m.theme.Bold.Render("Predicted Corrosion Level: ") + badge.Render(outcome.Category)
	if known {
		level += " " + badge.Render("("+entry.Severity+")")
	}

	lines := []string{
		level,
		m.theme.Normal.Width(max(m.width-2, 20)).Render(model.DescribeLevel(outcome.Category)),
	}
	if outcome.HasHeatmap() {
		lines = append(lines, "", m.renderHeatmapSection(outcome))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderHeatmapSection(outcome *model.ClassificationOutcome) string {
	lines := []string{
		m.theme.Bold.Render("Grad-CAM Heatmap"),
		m.theme.Subtitle.Render(outcome.DisplayURL()),
	}

	switch {
	case m.fetcher == nil:
	case m.heatmapFor != outcome.CacheToken:
		lines = append(lines, m.theme.StatusPending.Render("Loading heatmap..."))
	case m.heatmapErr != nil:
		lines = append(lines, m.theme.StatusWarning.Render("Heatmap unavailable."))
	case m.heatmapArt != "":
		lines = append(lines, m.heatmapArt)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
