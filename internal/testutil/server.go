package testutil

import (
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// Upload is what the fake server captured from one classification request.
type Upload struct {
	Authorization string
	ContentType   string
	FieldName     string
	FileName      string
	PartType      string
	Data          []byte
}

// ClassifierServer is an httptest server that speaks the /predict contract.
type ClassifierServer struct {
	*httptest.Server
	// Respond decides the reply; the default answers level 7.
	Respond  func(w http.ResponseWriter, r *http.Request)
	uploads  []Upload
	calls    atomic.Int64
	inFlight atomic.Int64
	maxSeen  atomic.Int64
	mu       sync.Mutex
}

// NewClassifierServer starts a fake classification endpoint. Requests to
// /heatmap/* are answered with heatmap, everything else is treated as a
// prediction request.
func NewClassifierServer(t testing.TB, heatmap []byte) *ClassifierServer {
	t.Helper()

	s := &ClassifierServer{}
	s.Respond = func(w http.ResponseWriter, _ *http.Request) {
		JSON(w, http.StatusOK, map[string]any{
			"predicted_corrosion_level": 7,
			"heatmap_url":               "/heatmap/gradcam_output.jpg",
			"status":                    "returned",
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/heatmap/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(heatmap)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		current := s.inFlight.Add(1)
		defer s.inFlight.Add(-1)
		for {
			seen := s.maxSeen.Load()
			if current <= seen || s.maxSeen.CompareAndSwap(seen, current) {
				break
			}
		}
		s.calls.Add(1)

		upload := Upload{
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
		}
		if mediaType, params, err := mime.ParseMediaType(upload.ContentType); err == nil && strings.HasPrefix(mediaType, "multipart/") {
			reader := multipart.NewReader(r.Body, params["boundary"])
			if part, partErr := reader.NextPart(); partErr == nil {
				upload.FieldName = part.FormName()
				upload.FileName = part.FileName()
				upload.PartType = part.Header.Get("Content-Type")
				upload.Data, _ = io.ReadAll(part)
			}
		}

		s.mu.Lock()
		s.uploads = append(s.uploads, upload)
		respond := s.Respond
		s.mu.Unlock()

		respond(w, r)
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// SetResponder swaps the reply function.
func (s *ClassifierServer) SetResponder(fn func(w http.ResponseWriter, r *http.Request)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Respond = fn
}

// Endpoint returns the prediction URL.
func (s *ClassifierServer) Endpoint() string {
	return s.URL + "/predict"
}

// Calls returns the number of prediction requests received.
func (s *ClassifierServer) Calls() int {
	return int(s.calls.Load())
}

// MaxConcurrent returns the highest number of simultaneous prediction requests.
func (s *ClassifierServer) MaxConcurrent() int {
	return int(s.maxSeen.Load())
}

// Uploads returns the captured requests.
func (s *ClassifierServer) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
