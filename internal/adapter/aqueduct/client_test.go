package aqueduct

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/flood-risk-service/internal/domain"
	"github.com/couchcryptid/flood-risk-service/internal/observability"
)

const testToken = "test-token"

func testClient(baseURL string) *Client {
	return &Client{
		token:      testToken,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func testFilter() domain.DatasetFilter {
	return domain.DatasetFilter{
		FloodType:    "inunriver",
		Scenario:     "rcp8p5",
		ReturnPeriod: 100,
		Year:         2050,
		Model:        "NorESM1-M",
	}
}

func TestClient_QueryDataset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/datasets/query", r.URL.Path)
		assert.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "inunriver", body["flood_type"])
		assert.Equal(t, "rcp8p5", body["scenario"])
		assert.Equal(t, float64(100), body["return_period"])
		assert.Equal(t, float64(2050), body["year"])
		assert.Equal(t, "NorESM1-M", body["model"])

		require.NoError(t, json.NewEncoder(w).Encode(queryResponse{DatasetID: "ds-42"}))
	}))
	defer srv.Close()

	handle, err := testClient(srv.URL).QueryDataset(context.Background(), testFilter())
	require.NoError(t, err)
	assert.Equal(t, domain.DatasetHandle("ds-42"), handle)
}

func TestClient_QueryDataset_OmitsEmptyModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "model")

		require.NoError(t, json.NewEncoder(w).Encode(queryResponse{DatasetID: "ds-all"}))
	}))
	defer srv.Close()

	filter := testFilter()
	filter.Model = ""
	handle, err := testClient(srv.URL).QueryDataset(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, domain.DatasetHandle("ds-all"), handle)
}

func TestClient_DatasetSize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/datasets/ds-42/size", r.URL.Path)
		require.NoError(t, json.NewEncoder(w).Encode(sizeResponse{Size: 3}))
	}))
	defer srv.Close()

	size, err := testClient(srv.URL).DatasetSize(context.Background(), "ds-42")
	require.NoError(t, err)
	assert.Equal(t, 3, size)
}

func TestClient_SamplePoints_NullDepthMeansDry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/datasets/ds-42/sample", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "radius_m")

		_, err := w.Write([]byte(`{"samples":[{"id":1,"depth":1.25},{"id":2,"depth":null}]}`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	points := []domain.Point{{AssetID: 1, Lon: 4.47, Lat: 51.92}, {AssetID: 2, Lon: 4.89, Lat: 52.37}}
	depths, err := testClient(srv.URL).SamplePoints(context.Background(), "ds-42", points)
	require.NoError(t, err)

	require.Len(t, depths, 2)
	assert.Equal(t, domain.PointDepth{AssetID: 1, Depth: 1.25}, depths[0])
	assert.Equal(t, domain.PointDepth{AssetID: 2, Depth: 0}, depths[1])
}

func TestClient_SampleBuffered(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/datasets/ds-42/zonal", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(300), body["radius_m"])

		_, err := w.Write([]byte(`{"samples":[{"id":1,"mean":0.3,"max":0.9}]}`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	points := []domain.Point{{AssetID: 1, Lon: 4.47, Lat: 51.92}}
	stats, err := testClient(srv.URL).SampleBuffered(context.Background(), "ds-42", points, 300)
	require.NoError(t, err)

	require.Len(t, stats, 1)
	assert.Equal(t, domain.ZonalStats{AssetID: 1, Mean: 0.3, Max: 0.9}, stats[0])
}

func TestClient_APIErrorSurfacesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid token"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).QueryDataset(context.Background(), testFilter())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid token")
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.QueryDataset(context.Background(), testFilter())
	require.Error(t, err)
}

func TestClient_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/ping", r.URL.Path)
		assert.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.NoError(t, testClient(srv.URL).Ping(context.Background()))
}

func TestClient_PingFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := testClient(srv.URL).Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
