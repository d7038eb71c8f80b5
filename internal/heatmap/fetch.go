// Package heatmap downloads the Grad-CAM visualization returned with a
// classification and renders it for the terminal.
package heatmap

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/corrosion-lens/internal/common"
	"github.com/Veraticus/corrosion-lens/internal/model"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
)

// maxHeatmapBytes bounds a heatmap download. The backend renders 224x224
// images, far below this.
const maxHeatmapBytes = 1 << 20

// Fetcher downloads heatmap images.
type Fetcher struct {
	rest   *resty.Client
	origin *url.URL
	token  string
}

// NewFetcher creates a fetcher for heatmaps returned by endpoint. The token
// is only sent to URLs on the endpoint's own scheme and host. A zero
// timeout leaves the request unbounded.
func NewFetcher(endpoint, token string, timeout time.Duration) *Fetcher {
	rc := resty.New().
		SetRetryCount(0).
		SetResponseBodyLimit(maxHeatmapBytes)
	if timeout > 0 {
		rc.SetTimeout(timeout)
	}

	f := &Fetcher{rest: rc, token: token}
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		f.origin = u
	}
	return f
}

// sameOrigin reports whether target is served by the classification endpoint.
func (f *Fetcher) sameOrigin(target *url.URL) bool {
	return f.origin != nil &&
		strings.EqualFold(target.Scheme, f.origin.Scheme) &&
		strings.EqualFold(target.Host, f.origin.Host)
}

// Fetch downloads and decodes the image at displayURL. Only JPEG and PNG
// bodies are accepted.
func (f *Fetcher) Fetch(ctx context.Context, displayURL string) (image.Image, error) {
	if displayURL == "" {
		return nil, fmt.Errorf("%w: no url", common.ErrHeatmapUnavailable)
	}
	target, err := url.Parse(displayURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrHeatmapUnavailable, err)
	}

	req := f.rest.R().
		SetContext(ctx).
		SetHeader("Accept", "image/png, image/jpeg")
	if f.token != "" && f.sameOrigin(target) {
		req.SetAuthToken(f.token)
	}

	resp, err := req.Get(displayURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrHeatmapUnavailable, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: status %d", common.ErrHeatmapUnavailable, resp.StatusCode())
	}

	body := resp.Body()
	detected := mimetype.Detect(body)
	if !detected.Is(model.MediaTypePNG) && !detected.Is(model.MediaTypeJPEG) {
		return nil, fmt.Errorf("%w: unexpected content %s", common.ErrHeatmapUnavailable, detected.String())
	}

	img, err := imaging.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrHeatmapUnavailable, err)
	}

	common.LogDebug("Heatmap fetched", common.Fields{
		"url":    displayURL,
		"width":  img.Bounds().Dx(),
		"height": img.Bounds().Dy(),
	})
	return img, nil
}
