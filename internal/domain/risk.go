package domain

import "time"

// HighLossThreshold separates Medium from High risk. Absolute currency
// units — asset values in a request must use the same unit.
const HighLossThreshold = 10_000_000

// RiskLevel is the tier assigned to an asset's financial loss.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "High"
	RiskMedium RiskLevel = "Medium"
	RiskLow    RiskLevel = "Low"
	RiskNoData RiskLevel = "No Data"
)

// DepthMode records how the risk-driving depth was obtained.
type DepthMode string

const (
	DepthModePoint DepthMode = "point" // exact coordinate sample
	DepthModeMax   DepthMode = "max"   // worst cell inside the buffer
	DepthModeNone  DepthMode = "none"  // coverage gap, no sampling performed
)

// ModelUsedAll marks records produced from the un-model-filtered dataset
// after model fallback; ModelUsedNone marks coverage-gap records.
const (
	ModelUsedAll  = "all"
	ModelUsedNone = "none"
)

// Sample holds the depths returned for one asset. For point sampling Mean
// and Max both carry the point depth; for buffered sampling they are the
// zonal statistics. Max is always the risk-driving depth: a buffered zone
// can straddle a levee or terrain step, and the worst cell inside an asset's
// footprint is the operative hazard for structural damage.
type Sample struct {
	Mean float64
	Max  float64
}

// RiskRecord is one output row of an analysis: the asset, the depths that
// drove the assessment, and the resulting loss figures. Never mutated after
// creation and never persisted.
type RiskRecord struct {
	ID             int        `json:"id"`
	Name           string     `json:"name"`
	Lat            float64    `json:"lat"`
	Lon            float64    `json:"lon"`
	AssetValue     float64    `json:"asset_value"`
	AssetClass     AssetClass `json:"asset_class"`
	DepthUsed      float64    `json:"depth_used"`
	DepthMean      float64    `json:"depth_mean"`
	DepthMax       float64    `json:"depth_max"`
	DepthMode      DepthMode  `json:"depth_mode"`
	DamageRatio    float64    `json:"damage_ratio"`
	FinancialLoss  float64    `json:"financial_loss"`
	RiskLevel      RiskLevel  `json:"risk_level"`
	ModelUsed      string     `json:"model_used"`
	ReturnPeriod   int        `json:"return_period"`
	BufferDistance float64    `json:"buffer_distance"`
}

// Analysis is the complete result of one risk request.
type Analysis struct {
	GeneratedAt  time.Time    `json:"generated_at"`
	Params       Params       `json:"params"`
	ModelUsed    string       `json:"model_used"`
	CoverageGap  bool         `json:"coverage_gap"`
	RowsReceived int          `json:"rows_received"`
	RowsRejected int          `json:"rows_rejected"`
	Records      []RiskRecord `json:"results"`
}

// ClassifyLoss maps a financial loss to a risk tier.
func ClassifyLoss(loss float64) RiskLevel {
	switch {
	case loss > HighLossThreshold:
		return RiskHigh
	case loss > 0:
		return RiskMedium
	default:
		return RiskLow
	}
}

// AggregateRisk joins sampled depths back to assets and produces one record
// per sampled asset. Assets absent from samples were dropped by the provider
// and are excluded from the output, not defaulted to zero depth.
func AggregateRisk(assets []Asset, samples map[int]Sample, mode DepthMode, p Params, modelUsed string) []RiskRecord {
	records := make([]RiskRecord, 0, len(assets))
	for _, asset := range assets {
		sample, ok := samples[asset.ID]
		if !ok {
			continue
		}

		ratio := CurveFor(asset.Class).Ratio(sample.Max)
		loss := asset.Value * ratio

		records = append(records, RiskRecord{
			ID:             asset.ID,
			Name:           asset.Name,
			Lat:            asset.Lat,
			Lon:            asset.Lon,
			AssetValue:     asset.Value,
			AssetClass:     asset.Class,
			DepthUsed:      sample.Max,
			DepthMean:      sample.Mean,
			DepthMax:       sample.Max,
			DepthMode:      mode,
			DamageRatio:    ratio,
			FinancialLoss:  loss,
			RiskLevel:      ClassifyLoss(loss),
			ModelUsed:      modelUsed,
			ReturnPeriod:   p.ReturnPeriod,
			BufferDistance: p.BufferMeters,
		})
	}
	return records
}

// NoDataRecords produces sentinel records for a coverage gap: zero depths,
// zero loss, risk level "No Data". One per asset, no sampling involved.
func NoDataRecords(assets []Asset, p Params) []RiskRecord {
	records := make([]RiskRecord, 0, len(assets))
	for _, asset := range assets {
		records = append(records, RiskRecord{
			ID:             asset.ID,
			Name:           asset.Name,
			Lat:            asset.Lat,
			Lon:            asset.Lon,
			AssetValue:     asset.Value,
			AssetClass:     asset.Class,
			DepthMode:      DepthModeNone,
			RiskLevel:      RiskNoData,
			ModelUsed:      ModelUsedNone,
			ReturnPeriod:   p.ReturnPeriod,
			BufferDistance: p.BufferMeters,
		})
	}
	return records
}

// NewAnalysis assembles the response envelope, timestamped from the package
// clock so tests can freeze it.
func NewAnalysis(p Params, modelUsed string, coverageGap bool, received, rejected int, records []RiskRecord) Analysis {
	return Analysis{
		GeneratedAt:  clock.Now().UTC(),
		Params:       p,
		ModelUsed:    modelUsed,
		CoverageGap:  coverageGap,
		RowsReceived: received,
		RowsRejected: rejected,
		Records:      records,
	}
}
