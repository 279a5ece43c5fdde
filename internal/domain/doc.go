// Package domain models flood-risk assessment for portfolios of physical assets.
//
// # Hazard Data
//
// Flood depths come from riverine inundation raster layers hosted on an
// external raster analytics service. Each layer is identified by four
// parameters:
//
//	scenario      — emissions pathway, e.g. "rcp4p5", "rcp8p5"
//	year          — projection target year, e.g. 2030, 2050, 2080
//	return period — recurrence interval in years; supported set
//	                {1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}
//	model         — global climate model that forced the hydrological run;
//	                supported set {NorESM1-M, GFDL-ESM2M, HadGEM2-ES, IPSL-CM5A-LR}
//
// The flood type is fixed to riverine inundation ("inunriver"). Raster cell
// values are flood depth in meters. Cells with no value are dry ground, not
// missing data — absent depths normalize to 0 everywhere in this package.
//
// Model coverage is sparse: a scenario/year/return-period combination that is
// valid under one model may have no layers at all under another. Dataset
// selection therefore applies a model fallback: try the model-filtered set
// first, then the full set. An empty full set is a coverage gap, answered
// with sentinel "No Data" records rather than an error.
//
// # Asset Ingestion
//
// Incoming portfolio rows are validated individually. A row is dropped (not
// an error) when its name is blank, its coordinates are outside WGS-84
// bounds, or its value is not a finite non-negative number. Accepted assets
// receive sequential 1-based IDs in input order. Only a fully-empty result
// fails the request. See [ParseAssets].
//
// # Damage Curves
//
// Depth-to-damage conversion uses piecewise-linear curves per asset class
// (industry, commercial), anchored at (0, 0) and saturating at the last
// control point. Ratios are clamped to [0, last ratio]; depths at or below
// zero always produce 0. See [DamageCurve.Ratio].
//
// # Risk Tiers
//
// Financial loss is asset value times damage ratio, compared against an
// absolute threshold of 10,000,000 currency units:
//
//	loss > 10,000,000      High
//	0 < loss ≤ 10,000,000  Medium
//	loss == 0              Low
//	no hazard coverage     No Data
//
// Asset values and the threshold must share one currency unit; the service
// performs no conversion.
package domain
