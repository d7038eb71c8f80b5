package tui

import (
	"context"
	"strings"

	"github.com/Veraticus/corrosion-lens/internal/common"
	"github.com/Veraticus/corrosion-lens/internal/selection"
	"github.com/Veraticus/corrosion-lens/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

// loadDroppedCmd reads the first file named by a drop gesture or typed path.
func loadDroppedCmd(text, source string) tea.Cmd {
	return func() tea.Msg {
		candidates, err := selection.LoadDropped(text)
		return selectionLoadedMsg{
			source:     source,
			candidates: candidates,
			err:        err,
		}
	}
}

// loadPathCmd reads a file chosen in the file picker.
func loadPathCmd(path string) tea.Cmd {
	return func() tea.Msg {
		candidate, err := selection.LoadCandidate(path)
		if err != nil {
			return selectionLoadedMsg{source: sourcePicker, err: err}
		}
		return selectionLoadedMsg{
			source:     sourcePicker,
			candidates: []selection.Candidate{candidate},
		}
	}
}

// classifyCmd performs the network call for ticket off the event loop.
func classifyCmd(ctx context.Context, s *session.Session, ticket session.Ticket) tea.Cmd {
	return func() tea.Msg {
		prediction, err := s.Classify(ctx, ticket)
		return classificationSettledMsg{
			ticket:     ticket,
			prediction: prediction,
			err:        err,
		}
	}
}

// fetchHeatmapCmd downloads the heatmap for the outcome identified by token.
func fetchHeatmapCmd(ctx context.Context, f HeatmapFetcher, token, displayURL string) tea.Cmd {
	return func() tea.Msg {
		img, err := f.Fetch(ctx, displayURL)
		if err != nil {
			common.LogError(err, "Failed to fetch heatmap", common.Fields{
				"url": displayURL,
			})
		}
		return heatmapLoadedMsg{token: token, img: img, err: err}
	}
}

func pastedText(msg tea.KeyMsg) string {
	return strings.TrimSpace(string(msg.Runes))
}
