package session

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/corrosion-lens/internal/classifier"
	"github.com/Veraticus/corrosion-lens/internal/common"
	"github.com/Veraticus/corrosion-lens/internal/config"
	"github.com/Veraticus/corrosion-lens/internal/model"
	"github.com/Veraticus/corrosion-lens/internal/selection"
	"github.com/Veraticus/corrosion-lens/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noticeRecorder counts notices raised by a session.
type noticeRecorder struct {
	notices []Notice
	mu      sync.Mutex
}

func (r *noticeRecorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *noticeRecorder) all() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// fakeClient returns canned predictions and counts calls.
type fakeClient struct {
	err        error
	release    chan struct{}
	prediction model.Prediction
	calls      int
	mu         sync.Mutex
}

func (f *fakeClient) Classify(_ context.Context, _ model.PendingImage) (model.Prediction, error) {
	f.mu.Lock()
	f.calls++
	release := f.release
	f.mu.Unlock()

	if release != nil {
		<-release
	}
	return f.prediction, f.err
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func pngCandidate(t *testing.T, name string) selection.Candidate {
	t.Helper()
	return selection.Candidate{
		Name:      name,
		MediaType: model.MediaTypePNG,
		Data:      testutil.PNGBytes(t, 4, 4),
	}
}

func newHTTPSession(t *testing.T, server *testutil.ClassifierServer, opts ...Option) *Session {
	t.Helper()

	client, err := classifier.NewHTTPClient(config.ClassifierConfig{
		Endpoint: server.Endpoint(),
		Token:    "test-token",
	})
	require.NoError(t, err)
	return New(client, opts...)
}

func fixedTokens(tokens ...string) TokenSource {
	i := 0
	return func() string {
		tok := tokens[i%len(tokens)]
		i++
		return tok
	}
}

func TestSession_SelectPopulatesPendingAndClearsOutcome(t *testing.T) {
	client := &fakeClient{prediction: model.Prediction{Category: "7", HeatmapURL: "http://x/img.png"}}
	s := New(client)

	accepted, err := s.Select([]selection.Candidate{pngCandidate(t, "first.png")})
	require.NoError(t, err)
	require.True(t, accepted)

	view := s.Snapshot()
	require.NotNil(t, view.Pending)
	assert.Equal(t, "first.png", view.Pending.Name)
	assert.Nil(t, view.Outcome)
	assert.Equal(t, model.StatusIdle, view.Status)

	require.NoError(t, s.Submit(context.Background()))
	require.NotNil(t, s.Snapshot().Outcome)

	accepted, err = s.Select([]selection.Candidate{pngCandidate(t, "second.png")})
	require.NoError(t, err)
	require.True(t, accepted)

	view = s.Snapshot()
	assert.Equal(t, "second.png", view.Pending.Name)
	assert.Nil(t, view.Outcome, "a new selection must clear the previous outcome")
	assert.Nil(t, view.Notice)
	assert.Equal(t, model.StatusIdle, view.Status)
}

func TestSession_SelectClearsErrorState(t *testing.T) {
	client := &fakeClient{err: errors.New("connection reset")}
	s := New(client)

	_, err := s.Select([]selection.Candidate{pngCandidate(t, "panel.png")})
	require.NoError(t, err)
	require.Error(t, s.Submit(context.Background()))
	require.Equal(t, model.StatusSettledWithError, s.Status())
	require.NotNil(t, s.Snapshot().Notice)

	_, err = s.Select([]selection.Candidate{pngCandidate(t, "retry.png")})
	require.NoError(t, err)

	view := s.Snapshot()
	assert.Nil(t, view.Notice)
	assert.Equal(t, model.StatusIdle, view.Status)
}

func TestSession_RejectedSelectionKeepsState(t *testing.T) {
	client := &fakeClient{prediction: model.Prediction{Category: "8", HeatmapURL: "http://x/img.png"}}
	s := New(client)

	_, err := s.Select([]selection.Candidate{pngCandidate(t, "panel.png")})
	require.NoError(t, err)
	require.NoError(t, s.Submit(context.Background()))

	accepted, err := s.Select([]selection.Candidate{{Name: "notes.txt", MediaType: "text/plain"}})
	require.NoError(t, err)
	assert.False(t, accepted)

	view := s.Snapshot()
	assert.Equal(t, "panel.png", view.Pending.Name)
	require.NotNil(t, view.Outcome)
	assert.Equal(t, "8", view.Outcome.Category)
}

func TestSession_SubmitWithoutImage(t *testing.T) {
	server := testutil.NewClassifierServer(t, nil)
	recorder := &noticeRecorder{}
	s := newHTTPSession(t, server, WithNotifier(recorder))

	err := s.Submit(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNoImage)
	assert.True(t, common.IsPrecondition(err))

	assert.Equal(t, model.StatusIdle, s.Status())
	assert.Equal(t, 0, server.Calls(), "no network call may be attempted")

	notices := recorder.all()
	require.Len(t, notices, 1)
	assert.Equal(t, NoticePrecondition, notices[0].Kind)
	assert.Equal(t, common.NoticeNoImage, notices[0].Message)
}

// plantedSlot holds a fixed pending image regardless of the acceptance filter.
type plantedSlot struct {
	image *model.PendingImage
}

func (p plantedSlot) SelectCandidate([]selection.Candidate) bool { return false }

func (p plantedSlot) Pending() *model.PendingImage { return p.image }

func TestSession_SubmitRejectsNonImagePending(t *testing.T) {
	client := &fakeClient{prediction: model.Prediction{Category: "7", HeatmapURL: "http://x/img.png"}}
	recorder := &noticeRecorder{}
	s := New(client, WithNotifier(recorder))
	s.selection = plantedSlot{image: &model.PendingImage{
		Name:      "notes.txt",
		MediaType: "text/plain",
		Data:      []byte("not an image"),
	}}

	err := s.Submit(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotImage)
	assert.True(t, common.IsPrecondition(err))

	assert.Equal(t, model.StatusIdle, s.Status())
	assert.Equal(t, 0, client.callCount(), "no network call may be attempted")

	notices := recorder.all()
	require.Len(t, notices, 1)
	assert.Equal(t, NoticePrecondition, notices[0].Kind)
	assert.Equal(t, common.NoticeNotImage, notices[0].Message)

	view := s.Snapshot()
	require.NotNil(t, view.Notice)
	assert.Equal(t, common.NoticeNotImage, view.Notice.Message)
	assert.Nil(t, view.Outcome)
}

func TestSession_SubmitSuccess(t *testing.T) {
	server := testutil.NewClassifierServer(t, nil)
	server.SetResponder(func(w http.ResponseWriter, _ *http.Request) {
		testutil.JSON(w, http.StatusOK, map[string]any{
			"predicted_corrosion_level": "7",
			"heatmap_url":               "http://x/img.png",
		})
	})
	recorder := &noticeRecorder{}
	s := newHTTPSession(t, server, WithNotifier(recorder), WithTokenSource(fixedTokens("1700000000000")))

	_, err := s.Select([]selection.Candidate{pngCandidate(t, "panel.png")})
	require.NoError(t, err)
	require.NoError(t, s.Submit(context.Background()))

	view := s.Snapshot()
	assert.Equal(t, model.StatusSettled, view.Status)
	require.NotNil(t, view.Outcome)
	assert.Equal(t, "7", view.Outcome.Category)
	assert.Equal(t, model.DescribeLevel("7"), model.DescribeLevel(view.Outcome.Category))
	assert.Contains(t, model.DescribeLevel(view.Outcome.Category), "Moderate corrosion")

	display := view.Outcome.DisplayURL()
	assert.NotEqual(t, "http://x/img.png", display)
	parsed, err := url.Parse(display)
	require.NoError(t, err)
	assert.Equal(t, "http://x/img.png", (&url.URL{Scheme: parsed.Scheme, Host: parsed.Host, Path: parsed.Path}).String())

	assert.Empty(t, recorder.all())
	assert.Equal(t, 1, server.Calls())
}

func TestSession_SubmitServerError(t *testing.T) {
	server := testutil.NewClassifierServer(t, nil)
	server.SetResponder(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})
	recorder := &noticeRecorder{}
	s := newHTTPSession(t, server, WithNotifier(recorder))

	_, err := s.Select([]selection.Candidate{pngCandidate(t, "panel.png")})
	require.NoError(t, err)

	err = s.Submit(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrClassificationFailed)
	assert.Equal(t, common.NoticeFailure, common.UserMessage(err))

	view := s.Snapshot()
	assert.Nil(t, view.Outcome)
	assert.Equal(t, model.StatusSettledWithError, view.Status)
	assert.True(t, view.Status.CanSubmit())

	notices := recorder.all()
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeFailure, notices[0].Kind)
	assert.Equal(t, common.NoticeFailure, notices[0].Message)
}

func TestSession_SubmitTwiceSequentially(t *testing.T) {
	server := testutil.NewClassifierServer(t, nil)
	s := newHTTPSession(t, server)

	_, err := s.Select([]selection.Candidate{pngCandidate(t, "panel.png")})
	require.NoError(t, err)

	require.NoError(t, s.Submit(context.Background()))
	first := s.Snapshot().Outcome
	require.NoError(t, s.Submit(context.Background()))
	second := s.Snapshot().Outcome

	assert.Equal(t, 2, server.Calls())
	assert.Equal(t, 1, server.MaxConcurrent())
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.HeatmapURL, second.HeatmapURL)
	assert.NotEqual(t, first.CacheToken, second.CacheToken)
	assert.NotEqual(t, first.DisplayURL(), second.DisplayURL())
}

func TestSession_AtMostOneInFlight(t *testing.T) {
	client := &fakeClient{
		prediction: model.Prediction{Category: "9", HeatmapURL: "http://x/img.png"},
		release:    make(chan struct{}),
	}
	s := New(client)

	_, err := s.Select([]selection.Candidate{pngCandidate(t, "panel.png")})
	require.NoError(t, err)

	ticket, err := s.Begin()
	require.NoError(t, err)
	assert.Equal(t, model.StatusSubmitting, s.Status())

	_, err = s.Begin()
	assert.ErrorIs(t, err, common.ErrSubmitInFlight)

	accepted, err := s.Select([]selection.Candidate{pngCandidate(t, "other.png")})
	assert.ErrorIs(t, err, common.ErrSubmitInFlight)
	assert.False(t, accepted)
	assert.Equal(t, "panel.png", s.Snapshot().Pending.Name)

	done := make(chan error, 1)
	go func() {
		prediction, callErr := s.Classify(context.Background(), ticket)
		done <- s.Settle(ticket, prediction, callErr)
	}()

	close(client.release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("settle did not complete")
	}

	assert.Equal(t, 1, client.callCount())
	assert.Equal(t, model.StatusSettled, s.Status())
}

func TestSession_BeginClearsPreviousOutcome(t *testing.T) {
	client := &fakeClient{prediction: model.Prediction{Category: "6", HeatmapURL: "http://x/img.png"}}
	s := New(client)

	_, err := s.Select([]selection.Candidate{pngCandidate(t, "panel.png")})
	require.NoError(t, err)
	require.NoError(t, s.Submit(context.Background()))
	require.NotNil(t, s.Snapshot().Outcome)

	ticket, err := s.Begin()
	require.NoError(t, err)

	view := s.Snapshot()
	assert.True(t, view.Submitting())
	assert.Nil(t, view.Outcome, "outcome must be cleared before the request resolves")

	require.NoError(t, s.Settle(ticket, client.prediction, nil))
}

func TestSession_SettleRejectsStaleTicket(t *testing.T) {
	client := &fakeClient{prediction: model.Prediction{Category: "6", HeatmapURL: "http://x/img.png"}}
	s := New(client)

	_, err := s.Select([]selection.Candidate{pngCandidate(t, "panel.png")})
	require.NoError(t, err)

	ticket, err := s.Begin()
	require.NoError(t, err)
	require.NoError(t, s.Settle(ticket, client.prediction, nil))

	assert.ErrorIs(t, s.Settle(ticket, client.prediction, nil), ErrStaleTicket)
	assert.ErrorIs(t, s.Settle(Ticket{Attempt: 99}, client.prediction, nil), ErrStaleTicket)
}

func TestSession_IncompletePredictionIsFailure(t *testing.T) {
	client := &fakeClient{prediction: model.Prediction{Category: "7"}}
	recorder := &noticeRecorder{}
	s := New(client, WithNotifier(recorder))

	_, err := s.Select([]selection.Candidate{pngCandidate(t, "panel.png")})
	require.NoError(t, err)

	err = s.Submit(context.Background())
	assert.ErrorIs(t, err, common.ErrMalformedResponse)
	assert.Nil(t, s.Snapshot().Outcome)
	assert.Len(t, recorder.all(), 1)
}

func TestSession_DismissNotice(t *testing.T) {
	s := New(&fakeClient{})

	require.Error(t, s.Submit(context.Background()))
	require.NotNil(t, s.Snapshot().Notice)

	s.DismissNotice()
	assert.Nil(t, s.Snapshot().Notice)
	assert.Equal(t, model.StatusIdle, s.Status())
}
