package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Veraticus/corrosion-lens/internal/classifier"
	"github.com/Veraticus/corrosion-lens/internal/common"
	"github.com/Veraticus/corrosion-lens/internal/model"
	"github.com/Veraticus/corrosion-lens/internal/selection"
)

// ErrStaleTicket is returned when Settle is called for an attempt that is
// not the one in flight.
var ErrStaleTicket = errors.New("stale submission ticket")

// Ticket identifies one submission between Begin and Settle.
type Ticket struct {
	Image   model.PendingImage
	Attempt uint64
}

// View is an immutable snapshot of the session for renderers.
type View struct {
	Pending *model.PendingImage
	Outcome *model.ClassificationOutcome
	Notice  *Notice
	Status  model.SessionStatus
	Attempt uint64
}

// Submitting reports whether a request is in flight.
func (v View) Submitting() bool {
	return v.Status == model.StatusSubmitting
}

// Session coordinates selection, submission and outcome.
type Session struct {
	client    classifier.Client
	notifier  Notifier
	tokens    TokenSource
	selection imageSlot
	outcome   *model.ClassificationOutcome
	notice    *Notice
	attempt   uint64
	status    model.SessionStatus
	mu        sync.Mutex
}

// imageSlot is the pending image holder. *selection.Manager is the only
// production implementation.
type imageSlot interface {
	SelectCandidate(files []selection.Candidate) bool
	Pending() *model.PendingImage
}

// Option configures a Session.
type Option func(*Session)

// WithNotifier registers a notice receiver.
func WithNotifier(n Notifier) Option {
	return func(s *Session) {
		s.notifier = n
	}
}

// WithTokenSource overrides the cache-busting token generator.
func WithTokenSource(ts TokenSource) Option {
	return func(s *Session) {
		s.tokens = ts
	}
}

// New creates an idle session that classifies through client.
func New(client classifier.Client, opts ...Option) *Session {
	s := &Session{
		client: client,
		status: model.StatusIdle,
		tokens: NewMillisTokenSource(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.selection = selection.NewManager(selection.WithReplaceHook(func(model.PendingImage) {
		s.resetResultLocked()
	}))
	return s
}

// Select offers files to the selection manager. Only the first file is
// considered. While a request is in flight the selection control is
// disabled and ErrSubmitInFlight is returned.
func (s *Session) Select(files []selection.Candidate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == model.StatusSubmitting {
		return false, common.ErrSubmitInFlight
	}
	return s.selection.SelectCandidate(files), nil
}

// resetResultLocked clears outcome and error state together so a new
// selection is never shown beside an old result. Callers hold s.mu.
func (s *Session) resetResultLocked() {
	s.outcome = nil
	s.notice = nil
	if s.status != model.StatusSubmitting {
		s.status = model.StatusIdle
	}
}

// Begin validates preconditions and moves the session to Submitting.
// On a failed precondition a notice is raised and the status is untouched.
// The media type is checked again here even though Select filters it, so a
// slot holding a non-image can never reach the network.
func (s *Session) Begin() (Ticket, error) {
	s.mu.Lock()

	if s.status == model.StatusSubmitting {
		s.mu.Unlock()
		return Ticket{}, common.ErrSubmitInFlight
	}

	pending := s.selection.Pending()
	var precondition error
	switch {
	case pending == nil:
		precondition = common.NewUserError(common.NoticeNoImage, common.ErrNoImage)
	case !pending.IsImage():
		precondition = common.NewUserError(common.NoticeNotImage,
			fmt.Errorf("%w: %s", common.ErrNotImage, pending.MediaType))
	}
	if precondition != nil {
		notice := preconditionNotice(precondition)
		s.notice = &notice
		s.mu.Unlock()

		common.LogDebug("Submission rejected before upload", common.Fields{
			"reason": precondition.Error(),
		})
		s.notify(notice)
		return Ticket{}, precondition
	}

	s.attempt++
	s.status = model.StatusSubmitting
	s.outcome = nil
	s.notice = nil
	ticket := Ticket{Image: *pending, Attempt: s.attempt}
	s.mu.Unlock()

	common.LogDebug("Submission started", common.Fields{
		"attempt": ticket.Attempt,
		"name":    ticket.Image.Name,
	})
	return ticket, nil
}

// Classify performs the network call for ticket. It does not touch session
// state and is safe to run off the event loop.
func (s *Session) Classify(ctx context.Context, ticket Ticket) (model.Prediction, error) {
	return s.client.Classify(ctx, ticket.Image)
}

// Settle records the result of the call started by ticket. On failure the
// returned error carries the generic user notice.
func (s *Session) Settle(ticket Ticket, prediction model.Prediction, callErr error) error {
	s.mu.Lock()

	if s.status != model.StatusSubmitting || ticket.Attempt != s.attempt {
		s.mu.Unlock()
		return ErrStaleTicket
	}

	if callErr == nil && (prediction.Category == "" || prediction.HeatmapURL == "") {
		callErr = fmt.Errorf("%w: incomplete prediction", common.ErrMalformedResponse)
	}

	if callErr != nil {
		s.status = model.StatusSettledWithError
		s.outcome = nil
		notice := failureNotice(callErr)
		s.notice = &notice
		s.mu.Unlock()

		common.LogError(callErr, "Classification attempt failed", common.Fields{
			"attempt": ticket.Attempt,
		})
		s.notify(notice)
		return common.NewUserError(common.NoticeFailure, callErr)
	}

	s.outcome = &model.ClassificationOutcome{
		Category:   prediction.Category,
		HeatmapURL: prediction.HeatmapURL,
		CacheToken: s.tokens(),
	}
	s.status = model.StatusSettled
	s.notice = nil
	s.mu.Unlock()

	return nil
}

// Submit runs Begin, Classify and Settle in sequence.
func (s *Session) Submit(ctx context.Context) error {
	ticket, err := s.Begin()
	if err != nil {
		return err
	}
	prediction, callErr := s.Classify(ctx, ticket)
	return s.Settle(ticket, prediction, callErr)
}

// Snapshot returns a consistent copy of the session state.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := View{
		Status:  s.status,
		Attempt: s.attempt,
		Pending: s.selection.Pending(),
	}
	if s.outcome != nil {
		outcome := *s.outcome
		view.Outcome = &outcome
	}
	if s.notice != nil {
		notice := *s.notice
		view.Notice = &notice
	}
	return view
}

// Status returns the current lifecycle state.
func (s *Session) Status() model.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// DismissNotice clears the current notice.
func (s *Session) DismissNotice() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = nil
}

func (s *Session) notify(n Notice) {
	if s.notifier != nil {
		s.notifier.Notify(n)
	}
}
