package domain

import (
	"math"
	"strings"
)

// AssetClass selects the damage curve applied to an asset.
type AssetClass string

const (
	ClassIndustry   AssetClass = "industry"
	ClassCommercial AssetClass = "commercial"
)

// AssetRow is one unvalidated portfolio entry as received from the caller.
// Coordinates may arrive either as separate lat/lon fields or as a
// two-element coords array in [lon, lat] order; coords wins when both are set.
type AssetRow struct {
	Name   string    `json:"name"`
	Lat    *float64  `json:"lat,omitempty"`
	Lon    *float64  `json:"lon,omitempty"`
	Coords []float64 `json:"coords,omitempty"` // [lon, lat]
	Value  *float64  `json:"asset_value"`
	Type   string    `json:"type,omitempty"`
}

// Asset is a validated physical site under assessment. Immutable once built;
// IDs are 1-based and unique within a single request.
type Asset struct {
	ID    int        `json:"id"`
	Name  string     `json:"name"`
	Lat   float64    `json:"lat"`
	Lon   float64    `json:"lon"`
	Value float64    `json:"asset_value"`
	Class AssetClass `json:"asset_class"`
}

// RejectedRow records why an input row was dropped during ingestion.
type RejectedRow struct {
	Index  int    `json:"index"` // 0-based position in the input
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ParseAssets validates portfolio rows one by one. Malformed rows are dropped
// with a reason, never failing the batch; the caller decides what an empty
// result means (the pipeline treats it as a validation error).
func ParseAssets(rows []AssetRow) ([]Asset, []RejectedRow) {
	assets := make([]Asset, 0, len(rows))
	var rejected []RejectedRow

	nextID := 1
	for i, row := range rows {
		asset, reason := validateRow(row)
		if reason != "" {
			rejected = append(rejected, RejectedRow{Index: i, Name: strings.TrimSpace(row.Name), Reason: reason})
			continue
		}
		asset.ID = nextID
		nextID++
		assets = append(assets, asset)
	}

	return assets, rejected
}

// validateRow checks a single row and returns the asset or a rejection reason.
func validateRow(row AssetRow) (Asset, string) {
	name := strings.TrimSpace(row.Name)
	if name == "" {
		return Asset{}, "name is empty"
	}

	lat, lon, ok := resolveCoords(row)
	if !ok {
		return Asset{}, "coordinates missing"
	}
	if lat < -90 || lat > 90 || math.IsNaN(lat) {
		return Asset{}, "latitude out of range"
	}
	if lon < -180 || lon > 180 || math.IsNaN(lon) {
		return Asset{}, "longitude out of range"
	}

	if row.Value == nil {
		return Asset{}, "asset value missing"
	}
	value := *row.Value
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return Asset{}, "asset value is not a non-negative finite number"
	}

	return Asset{
		Name:  name,
		Lat:   lat,
		Lon:   lon,
		Value: value,
		Class: parseClass(row.Type),
	}, ""
}

// resolveCoords prefers the coords pair over separate fields.
func resolveCoords(row AssetRow) (lat, lon float64, ok bool) {
	if len(row.Coords) == 2 {
		return row.Coords[1], row.Coords[0], true
	}
	if row.Lat != nil && row.Lon != nil {
		return *row.Lat, *row.Lon, true
	}
	return 0, 0, false
}

// parseClass maps an input class string to a supported AssetClass.
// Anything other than "commercial" (case-insensitive) is industry.
func parseClass(s string) AssetClass {
	if strings.ToLower(strings.TrimSpace(s)) == string(ClassCommercial) {
		return ClassCommercial
	}
	return ClassIndustry
}
