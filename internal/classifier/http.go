package classifier

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/Veraticus/corrosion-lens/internal/common"
	"github.com/Veraticus/corrosion-lens/internal/config"
	"github.com/Veraticus/corrosion-lens/internal/model"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// maxErrorBody bounds how much of a failed response ends up in logs.
const maxErrorBody = 512

// HTTPClient posts images to the classification endpoint as multipart form data.
type HTTPClient struct {
	rest     *resty.Client
	endpoint *url.URL
}

// NewHTTPClient creates a client for cfg.
func NewHTTPClient(cfg config.ClassifierConfig) (*HTTPClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	endpoint, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	c := &HTTPClient{
		rest:     resty.New(),
		endpoint: endpoint,
	}

	c.rest.
		SetAuthToken(cfg.Token).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if cfg.Timeout > 0 {
		c.rest.SetTimeout(cfg.Timeout)
	}

	return c, nil
}

// Endpoint returns the prediction URL.
func (c *HTTPClient) Endpoint() *url.URL {
	u := *c.endpoint
	return &u
}

// Classify uploads img and decodes the prediction.
func (c *HTTPClient) Classify(ctx context.Context, img model.PendingImage) (model.Prediction, error) {
	requestID := uuid.NewString()
	start := time.Now()

	common.LogInfo("Uploading image for classification", common.Fields{
		"request_id": requestID,
		"name":       img.Name,
		"media_type": img.MediaType,
		"bytes":      img.Size(),
		"endpoint":   c.endpoint.Redacted(),
	})

	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", requestID).
		SetMultipartField(FieldImage, img.Name, img.MediaType, bytes.NewReader(img.Data)).
		Post(c.endpoint.String())
	if err != nil {
		common.LogError(err, "Classification request failed", common.Fields{
			"request_id": requestID,
		})
		return model.Prediction{}, fmt.Errorf("%w: %w", common.ErrClassificationFailed, err)
	}

	common.LogDebug("Classification response received", common.Fields{
		"request_id": requestID,
		"status":     resp.StatusCode(),
		"duration":   time.Since(start),
	})

	if !resp.IsSuccess() {
		body := resp.Body()
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		err := fmt.Errorf("%w: status %d: %s", common.ErrClassificationFailed, resp.StatusCode(), bytes.TrimSpace(body))
		common.LogError(err, "Classification endpoint returned an error", common.Fields{
			"request_id": requestID,
		})
		return model.Prediction{}, err
	}

	prediction, err := ParsePrediction(resp.Body(), c.endpoint)
	if err != nil {
		common.LogError(err, "Could not decode classification response", common.Fields{
			"request_id": requestID,
		})
		return model.Prediction{}, err
	}

	common.LogInfo("Image classified", common.Fields{
		"request_id":  requestID,
		"category":    prediction.Category,
		"heatmap_url": prediction.HeatmapURL,
		"status":      prediction.Status,
		"duration":    time.Since(start),
	})

	return prediction, nil
}
