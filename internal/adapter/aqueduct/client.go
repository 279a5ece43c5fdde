// Package aqueduct implements the hazard data provider against the raster
// analytics service hosting the riverine inundation layer catalog.
package aqueduct

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/flood-risk-service/internal/domain"
	"github.com/couchcryptid/flood-risk-service/internal/observability"
)

// Client implements domain.HazardProvider over the raster service REST API.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a raster service client. The timeout bounds each
// individual provider call on top of the request context.
func NewClient(baseURL, token string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Ping verifies the service is reachable and the token is accepted.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/ping", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping raster service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("raster service ping: status %d", resp.StatusCode)
	}
	return nil
}

// QueryDataset resolves a layer filter to a dataset handle.
func (c *Client) QueryDataset(ctx context.Context, filter domain.DatasetFilter) (domain.DatasetHandle, error) {
	body := queryRequest{
		FloodType:    filter.FloodType,
		Scenario:     filter.Scenario,
		ReturnPeriod: filter.ReturnPeriod,
		Year:         filter.Year,
		Model:        filter.Model,
	}

	var out queryResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/datasets/query", "query", body, &out); err != nil {
		return "", err
	}
	return domain.DatasetHandle(out.DatasetID), nil
}

// DatasetSize reports the number of layers the handle covers.
func (c *Client) DatasetSize(ctx context.Context, handle domain.DatasetHandle) (int, error) {
	var out sizeResponse
	path := fmt.Sprintf("/v1/datasets/%s/size", handle)
	if err := c.doJSON(ctx, http.MethodGet, path, "size", nil, &out); err != nil {
		return 0, err
	}
	return out.Size, nil
}

// SamplePoints reads the depth at each coordinate. Null depths in the
// response mean dry ground and map to 0.
func (c *Client) SamplePoints(ctx context.Context, handle domain.DatasetHandle, points []domain.Point) ([]domain.PointDepth, error) {
	body := sampleRequest{Points: points}

	var out pointSampleResponse
	path := fmt.Sprintf("/v1/datasets/%s/sample", handle)
	if err := c.doJSON(ctx, http.MethodPost, path, "sample_point", body, &out); err != nil {
		return nil, err
	}

	depths := make([]domain.PointDepth, len(out.Samples))
	for i, s := range out.Samples {
		depths[i] = domain.PointDepth{AssetID: s.ID, Depth: deref(s.Depth)}
	}
	return depths, nil
}

// SampleBuffered computes zonal mean/max inside a circular buffer around
// each coordinate.
func (c *Client) SampleBuffered(ctx context.Context, handle domain.DatasetHandle, points []domain.Point, radiusMeters float64) ([]domain.ZonalStats, error) {
	body := sampleRequest{Points: points, RadiusMeters: radiusMeters}

	var out zonalSampleResponse
	path := fmt.Sprintf("/v1/datasets/%s/zonal", handle)
	if err := c.doJSON(ctx, http.MethodPost, path, "sample_buffered", body, &out); err != nil {
		return nil, err
	}

	stats := make([]domain.ZonalStats, len(out.Samples))
	for i, s := range out.Samples {
		stats[i] = domain.ZonalStats{AssetID: s.ID, Mean: deref(s.Mean), Max: deref(s.Max)}
	}
	return stats, nil
}

func (c *Client) doJSON(ctx context.Context, method, path, op string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ProviderRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("%s request: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("raster service error: status %d: %s", resp.StatusCode, data)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Raster service wire types.

type queryRequest struct {
	FloodType    string `json:"flood_type"`
	Scenario     string `json:"scenario"`
	ReturnPeriod int    `json:"return_period"`
	Year         int    `json:"year"`
	Model        string `json:"model,omitempty"`
}

type queryResponse struct {
	DatasetID string `json:"dataset_id"`
}

type sizeResponse struct {
	Size int `json:"size"`
}

type sampleRequest struct {
	Points       []domain.Point `json:"points"`
	RadiusMeters float64        `json:"radius_m,omitempty"`
}

type pointSampleResponse struct {
	Samples []struct {
		ID    int      `json:"id"`
		Depth *float64 `json:"depth"`
	} `json:"samples"`
}

type zonalSampleResponse struct {
	Samples []struct {
		ID   int      `json:"id"`
		Mean *float64 `json:"mean"`
		Max  *float64 `json:"max"`
	} `json:"samples"`
}
