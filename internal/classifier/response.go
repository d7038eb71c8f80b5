package classifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/Veraticus/corrosion-lens/internal/common"
	"github.com/Veraticus/corrosion-lens/internal/model"
)

// ParsePrediction decodes a classification payload. The category may be a
// string or a number; a relative heatmap URL is resolved against base.
func ParsePrediction(body []byte, base *url.URL) (model.Prediction, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return model.Prediction{}, fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}
	if fields == nil {
		return model.Prediction{}, fmt.Errorf("%w: expected a JSON object", common.ErrMalformedResponse)
	}

	rawCategory, ok := fields[FieldCategory]
	if !ok {
		rawCategory, ok = fields[FieldCategoryLegacy]
		if ok {
			common.LogDebug("Classification response uses deprecated category field", common.Fields{
				"field": FieldCategoryLegacy,
			})
		}
	}
	if !ok {
		return model.Prediction{}, fmt.Errorf("%w: missing %q", common.ErrMalformedResponse, FieldCategory)
	}

	category, err := coerceCategory(rawCategory)
	if err != nil {
		return model.Prediction{}, err
	}

	rawHeatmap, ok := fields[FieldHeatmapURL]
	if !ok {
		return model.Prediction{}, fmt.Errorf("%w: missing %q", common.ErrMalformedResponse, FieldHeatmapURL)
	}
	var heatmap string
	if err := json.Unmarshal(rawHeatmap, &heatmap); err != nil {
		return model.Prediction{}, fmt.Errorf("%w: %q is not a string", common.ErrMalformedResponse, FieldHeatmapURL)
	}
	heatmap, err = resolveURL(strings.TrimSpace(heatmap), base)
	if err != nil {
		return model.Prediction{}, err
	}

	var status string
	if rawStatus, ok := fields[FieldStatus]; ok {
		_ = json.Unmarshal(rawStatus, &status)
	}

	return model.Prediction{
		Category:   category,
		HeatmapURL: heatmap,
		Status:     status,
	}, nil
}

func coerceCategory(raw json.RawMessage) (string, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		text = strings.TrimSpace(text)
		if text == "" {
			return "", fmt.Errorf("%w: empty %q", common.ErrMalformedResponse, FieldCategory)
		}
		return text, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var number json.Number
	if err := dec.Decode(&number); err == nil {
		return formatNumber(number), nil
	}

	return "", fmt.Errorf("%w: %q must be a string or number", common.ErrMalformedResponse, FieldCategory)
}

// formatNumber spells integral values as integers so 7, 7.0 and 7e0 all
// become "7".
func formatNumber(number json.Number) string {
	if n, err := number.Int64(); err == nil {
		return strconv.FormatInt(n, 10)
	}
	f, err := number.Float64()
	if err != nil {
		return number.String()
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func resolveURL(raw string, base *url.URL) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: empty %q", common.ErrMalformedResponse, FieldHeatmapURL)
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: invalid %q: %v", common.ErrMalformedResponse, FieldHeatmapURL, err)
	}
	if ref.IsAbs() || base == nil {
		return ref.String(), nil
	}
	return base.ResolveReference(ref).String(), nil
}
