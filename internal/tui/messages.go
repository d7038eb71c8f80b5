package tui

import (
	"image"

	"github.com/Veraticus/corrosion-lens/internal/model"
	"github.com/Veraticus/corrosion-lens/internal/selection"
	"github.com/Veraticus/corrosion-lens/internal/session"
)

// Selection messages.
type selectionLoadedMsg struct {
	err        error
	source     string
	candidates []selection.Candidate
}

// Classification messages.
type classificationSettledMsg struct {
	err        error
	prediction model.Prediction
	ticket     session.Ticket
}

// Heatmap messages.
type heatmapLoadedMsg struct {
	err   error
	img   image.Image
	token string
}

// Focus identifies which acquisition control receives keys.
type Focus int

const (
	FocusDrop Focus = iota
	FocusBrowse
)

// Selection sources, used for logging.
const (
	sourceDrop   = "drop"
	sourcePicker = "picker"
)
