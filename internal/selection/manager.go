// Package selection holds the single pending image slot and the acceptance
// filter applied at the acquisition boundary.
package selection

import (
	"sync"

	"github.com/Veraticus/corrosion-lens/internal/common"
	"github.com/Veraticus/corrosion-lens/internal/model"
)

// Candidate is a file offered by a drop gesture or the file picker.
type Candidate struct {
	Name      string
	MediaType string
	Path      string
	Data      []byte
}

// Manager holds at most one pending image. A new accepted candidate replaces
// the previous one wholesale.
type Manager struct {
	pending   *model.PendingImage
	onReplace func(model.PendingImage)
	mu        sync.RWMutex
}

// Option configures a Manager.
type Option func(*Manager)

// WithReplaceHook registers fn to run after every accepted selection.
// fn runs while the manager lock is held and must not call back into it.
func WithReplaceHook(fn func(model.PendingImage)) Option {
	return func(m *Manager) {
		m.onReplace = fn
	}
}

// NewManager creates an empty selection manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SelectCandidate considers only the first offered file and discards the rest.
// A first file outside the accepted media types is ignored silently, the way
// a drop zone ignores payloads it does not accept. It reports whether the
// pending image was replaced.
func (m *Manager) SelectCandidate(files []Candidate) bool {
	if len(files) == 0 {
		return false
	}
	if len(files) > 1 {
		common.LogDebug("Discarding extra dropped files", common.Fields{
			"offered": len(files),
			"kept":    files[0].Name,
		})
	}

	candidate := files[0]
	if !model.IsAcceptedMediaType(candidate.MediaType) {
		common.LogDebug("Ignoring candidate with unsupported media type", common.Fields{
			"name":       candidate.Name,
			"media_type": candidate.MediaType,
		})
		return false
	}

	img := model.PendingImage{
		Name:      candidate.Name,
		MediaType: candidate.MediaType,
		Path:      candidate.Path,
		Data:      candidate.Data,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending = &img
	if m.onReplace != nil {
		m.onReplace(img)
	}

	common.LogInfo("Image selected", common.Fields{
		"name":       img.Name,
		"media_type": img.MediaType,
		"bytes":      img.Size(),
	})

	return true
}

// Pending returns a copy of the pending image, or nil when nothing is selected.
func (m *Manager) Pending() *model.PendingImage {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.pending == nil {
		return nil
	}
	img := *m.pending
	return &img
}
