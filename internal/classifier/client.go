// Package classifier talks to the remote corrosion classification endpoint.
package classifier

import (
	"context"

	"github.com/Veraticus/corrosion-lens/internal/model"
)

// Client classifies a single image. Implementations make exactly one
// request per call and never retry.
type Client interface {
	Classify(ctx context.Context, img model.PendingImage) (model.Prediction, error)
}

// FieldImage is the multipart field carrying the image bytes.
const FieldImage = "image"

// Response field names.
const (
	FieldCategory = "predicted_corrosion_level"
	// FieldCategoryLegacy is accepted for older deployments of the service.
	//
	// Deprecated: servers should send FieldCategory.
	FieldCategoryLegacy = "predicted corrosion level"
	FieldHeatmapURL     = "heatmap_url"
	FieldStatus         = "status"
)
