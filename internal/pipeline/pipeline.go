// Package pipeline orchestrates one risk analysis: normalize the request,
// select a hazard dataset with model fallback, sample depths, and aggregate
// losses. The two provider calls are sequential and context-bound; everything
// between them is pure domain logic.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/flood-risk-service/internal/domain"
	"github.com/couchcryptid/flood-risk-service/internal/observability"
)

// ErrNoValidAssets means every input row failed ingestion validation (or the
// request carried none). No provider call is made in that case.
var ErrNoValidAssets = errors.New("no valid assets in request")

// ErrTooManyAssets means the request exceeded the configured portfolio cap.
var ErrTooManyAssets = errors.New("too many assets in request")

// ProviderError wraps a failure from the hazard data provider so transports
// can distinguish it from validation errors. The provider's message is
// preserved verbatim.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string { return fmt.Sprintf("hazard provider %s: %v", e.Op, e.Err) }
func (e *ProviderError) Unwrap() error { return e.Err }

// ResultPublisher forwards a completed analysis to downstream consumers.
// Publishing is best-effort: failures are logged and counted, never surfaced
// to the caller.
type ResultPublisher interface {
	Publish(ctx context.Context, analysis domain.Analysis) error
}

// Request is one unvalidated analysis request.
type Request struct {
	Params domain.RawParams
	Rows   []domain.AssetRow
}

// Analyzer runs the risk-calculation pipeline against a hazard provider.
type Analyzer struct {
	provider  domain.HazardProvider
	publisher ResultPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	maxAssets int
}

// New creates an Analyzer. Pass a nil publisher to disable result publishing.
func New(provider domain.HazardProvider, publisher ResultPublisher, logger *slog.Logger, metrics *observability.Metrics, maxAssets int) *Analyzer {
	return &Analyzer{
		provider:  provider,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		maxAssets: maxAssets,
	}
}

// Analyze executes the full pipeline for one request. It returns
// ErrNoValidAssets/ErrTooManyAssets for validation failures, a *ProviderError
// when the hazard provider fails, and a complete Analysis otherwise. A
// coverage gap (empty dataset) is not an error: the analysis carries sentinel
// "No Data" records.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (domain.Analysis, error) {
	start := time.Now()

	if a.maxAssets > 0 && len(req.Rows) > a.maxAssets {
		a.metrics.AnalysesTotal.WithLabelValues("validation_error").Inc()
		return domain.Analysis{}, fmt.Errorf("%w: %d rows, limit %d", ErrTooManyAssets, len(req.Rows), a.maxAssets)
	}

	params := domain.NormalizeParams(req.Params)
	assets, rejected := domain.ParseAssets(req.Rows)
	a.metrics.RowsRejected.Add(float64(len(rejected)))
	for _, r := range rejected {
		a.logger.Warn("asset row rejected", "index", r.Index, "name", r.Name, "reason", r.Reason)
	}
	if len(assets) == 0 {
		a.metrics.AnalysesTotal.WithLabelValues("validation_error").Inc()
		return domain.Analysis{}, ErrNoValidAssets
	}

	handle, size, modelUsed, err := a.selectDataset(ctx, params)
	if err != nil {
		a.metrics.AnalysesTotal.WithLabelValues("provider_error").Inc()
		return domain.Analysis{}, err
	}

	var analysis domain.Analysis
	if size == 0 {
		a.metrics.CoverageGaps.Inc()
		a.logger.Info("no hazard coverage for requested combination",
			"scenario", params.Scenario,
			"year", params.Year,
			"return_period", params.ReturnPeriod,
			"model", params.Model,
		)
		analysis = domain.NewAnalysis(params, domain.ModelUsedNone, true,
			len(req.Rows), len(rejected), domain.NoDataRecords(assets, params))
	} else {
		samples, mode, err := a.sample(ctx, handle, assets, params)
		if err != nil {
			a.metrics.AnalysesTotal.WithLabelValues("provider_error").Inc()
			return domain.Analysis{}, err
		}
		records := domain.AggregateRisk(assets, samples, mode, params, modelUsed)
		analysis = domain.NewAnalysis(params, modelUsed, false, len(req.Rows), len(rejected), records)
	}

	a.metrics.AnalysesTotal.WithLabelValues("ok").Inc()
	a.metrics.AssetsAnalyzed.Add(float64(len(analysis.Records)))
	a.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())

	a.publish(ctx, analysis)

	return analysis, nil
}

// selectDataset applies the model-fallback policy: prefer the model-filtered
// layer set, fall back to the full set when the model has no coverage for
// the combination. A zero size on the full set is a coverage gap, reported
// to the caller via size, not as an error.
func (a *Analyzer) selectDataset(ctx context.Context, params domain.Params) (domain.DatasetHandle, int, string, error) {
	filter := domain.DatasetFilter{
		FloodType:    domain.FloodType,
		Scenario:     params.Scenario,
		ReturnPeriod: params.ReturnPeriod,
		Year:         params.Year,
		Model:        params.Model,
	}

	handle, size, err := a.queryWithSize(ctx, filter)
	if err != nil {
		return "", 0, "", err
	}
	if size > 0 {
		return handle, size, params.Model, nil
	}

	a.metrics.ModelFallbacks.Inc()
	a.logger.Info("model has no coverage, falling back to full set", "model", params.Model)

	filter.Model = ""
	handle, size, err = a.queryWithSize(ctx, filter)
	if err != nil {
		return "", 0, "", err
	}
	return handle, size, domain.ModelUsedAll, nil
}

func (a *Analyzer) queryWithSize(ctx context.Context, filter domain.DatasetFilter) (domain.DatasetHandle, int, error) {
	handle, err := a.provider.QueryDataset(ctx, filter)
	if err != nil {
		return "", 0, &ProviderError{Op: "dataset query", Err: err}
	}
	size, err := a.provider.DatasetSize(ctx, handle)
	if err != nil {
		return "", 0, &ProviderError{Op: "dataset size", Err: err}
	}
	return handle, size, nil
}

// sample performs the single vectorized sampling call: a point read when the
// buffer is zero, zonal statistics otherwise.
func (a *Analyzer) sample(ctx context.Context, handle domain.DatasetHandle, assets []domain.Asset, params domain.Params) (map[int]domain.Sample, domain.DepthMode, error) {
	points := make([]domain.Point, len(assets))
	for i, asset := range assets {
		points[i] = domain.Point{AssetID: asset.ID, Lon: asset.Lon, Lat: asset.Lat}
	}

	if params.BufferMeters == 0 {
		depths, err := a.provider.SamplePoints(ctx, handle, points)
		if err != nil {
			return nil, "", &ProviderError{Op: "point sampling", Err: err}
		}
		samples := make(map[int]domain.Sample, len(depths))
		for _, d := range depths {
			samples[d.AssetID] = domain.Sample{Mean: d.Depth, Max: d.Depth}
		}
		return samples, domain.DepthModePoint, nil
	}

	stats, err := a.provider.SampleBuffered(ctx, handle, points, params.BufferMeters)
	if err != nil {
		return nil, "", &ProviderError{Op: "buffered sampling", Err: err}
	}
	samples := make(map[int]domain.Sample, len(stats))
	for _, s := range stats {
		samples[s.AssetID] = domain.Sample{Mean: s.Mean, Max: s.Max}
	}
	return samples, domain.DepthModeMax, nil
}

func (a *Analyzer) publish(ctx context.Context, analysis domain.Analysis) {
	if a.publisher == nil {
		return
	}
	if err := a.publisher.Publish(ctx, analysis); err != nil {
		a.metrics.PublishErrors.Inc()
		a.logger.Warn("result publish failed", "error", err)
		return
	}
	a.metrics.ResultsPublished.Inc()
}
