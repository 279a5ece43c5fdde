package domain

import "context"

// DatasetFilter selects inundation layers on the hazard data provider.
// An empty Model means no model filter (the full set for the combination).
type DatasetFilter struct {
	FloodType    string
	Scenario     string
	ReturnPeriod int
	Year         int
	Model        string
}

// DatasetHandle is an opaque reference to a filtered layer set, valid only
// against the provider that issued it.
type DatasetHandle string

// Point is one asset coordinate submitted for sampling, tagged with the
// asset ID so results can be joined back.
type Point struct {
	AssetID int     `json:"id"`
	Lon     float64 `json:"lon"`
	Lat     float64 `json:"lat"`
}

// PointDepth is the flood depth sampled at a single coordinate.
type PointDepth struct {
	AssetID int     `json:"id"`
	Depth   float64 `json:"depth"`
}

// ZonalStats holds aggregate flood depths over a buffered region around a
// coordinate.
type ZonalStats struct {
	AssetID int     `json:"id"`
	Mean    float64 `json:"mean"`
	Max     float64 `json:"max"`
}

// HazardProvider is the external flood-hazard data source. Implementations
// perform vectorized sampling: one call covers all assets of a request.
// Providers may omit points they could not resolve; callers must join
// results by asset ID rather than by position.
type HazardProvider interface {
	// QueryDataset resolves a filter to an opaque dataset handle.
	QueryDataset(ctx context.Context, filter DatasetFilter) (DatasetHandle, error)

	// DatasetSize reports how many layers the handle covers. Zero means the
	// requested combination has no hazard coverage.
	DatasetSize(ctx context.Context, handle DatasetHandle) (int, error)

	// SamplePoints reads the depth at each exact coordinate.
	SamplePoints(ctx context.Context, handle DatasetHandle, points []Point) ([]PointDepth, error)

	// SampleBuffered computes mean and max depth inside a circular buffer of
	// radiusMeters around each coordinate.
	SampleBuffered(ctx context.Context, handle DatasetHandle, points []Point, radiusMeters float64) ([]ZonalStats, error)
}
