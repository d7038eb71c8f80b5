package model

import (
	"net/url"
	"strings"
)

// CacheBustParam is the query parameter carrying the cache-busting token.
const CacheBustParam = "timestamp"

// Prediction is the decoded payload of a successful classification call.
type Prediction struct {
	Category   string
	HeatmapURL string
	Status     string
}

// ClassificationOutcome is the result of the most recently settled request.
type ClassificationOutcome struct {
	Category   string
	HeatmapURL string
	CacheToken string
}

// HasCategory reports whether the outcome carries a category label.
func (o *ClassificationOutcome) HasCategory() bool {
	return o != nil && o.Category != ""
}

// HasHeatmap reports whether the outcome carries a visualization URL.
func (o *ClassificationOutcome) HasHeatmap() bool {
	return o != nil && o.HeatmapURL != ""
}

// DisplayURL returns the heatmap URL with the cache-busting token appended,
// so a reload is forced even when the server reuses the same path. The
// server's query is kept byte for byte apart from earlier tokens.
func (o *ClassificationOutcome) DisplayURL() string {
	if !o.HasHeatmap() {
		return ""
	}
	if o.CacheToken == "" {
		return o.HeatmapURL
	}

	rest, fragment, hasFragment := strings.Cut(o.HeatmapURL, "#")
	base, query, _ := strings.Cut(rest, "?")

	var pairs []string
	for _, pair := range strings.Split(query, "&") {
		key, _, _ := strings.Cut(pair, "=")
		if pair == "" || key == CacheBustParam {
			continue
		}
		pairs = append(pairs, pair)
	}
	pairs = append(pairs, CacheBustParam+"="+url.QueryEscape(o.CacheToken))

	display := base + "?" + strings.Join(pairs, "&")
	if hasFragment {
		display += "#" + fragment
	}
	return display
}
