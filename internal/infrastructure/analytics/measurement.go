package analytics

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/idlink-io/idlink/internal/shared/config"
	"github.com/idlink-io/idlink/internal/shared/logger"
)

const defaultEndpointURL = "https://www.google-analytics.com/collect"

// MeasurementClient reports events to a measurement-protocol style
// collection endpoint. Sends are fire and forget: failures are logged
// and never surfaced to the caller.
type MeasurementClient struct {
	enabled     bool
	trackingID  string
	endpointURL string
	httpClient  *http.Client
	logger      logger.Interface
}

func NewMeasurementClient(cfg *config.AnalyticsConfig, log logger.Interface) *MeasurementClient {
	endpoint := cfg.EndpointURL
	if endpoint == "" {
		endpoint = defaultEndpointURL
	}
	return &MeasurementClient{
		enabled:     cfg.Enabled,
		trackingID:  cfg.TrackingID,
		endpointURL: endpoint,
		httpClient:  &http.Client{Timeout: 5 * time.Second},
		logger:      log.With("component", "analytics"),
	}
}

// RecordEvent dispatches a category/action/label event in the background.
func (c *MeasurementClient) RecordEvent(category, action, label string) {
	if !c.enabled {
		return
	}

	go func() {
		payload := url.Values{}
		payload.Set("v", "1")
		payload.Set("tid", c.trackingID)
		payload.Set("cid", "555") // server-side events share one client id
		payload.Set("t", "event")
		payload.Set("ec", category)
		payload.Set("ea", action)
		payload.Set("el", label)

		resp, err := c.httpClient.Post(c.endpointURL, "application/x-www-form-urlencoded",
			strings.NewReader(payload.Encode()))
		if err != nil {
			c.logger.Warnw("failed to send analytics event",
				"category", category,
				"action", action,
				"error", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusBadRequest {
			c.logger.Warnw("analytics endpoint rejected event",
				"category", category,
				"action", action,
				"status", resp.StatusCode)
		}
	}()
}
