package domain

import (
	"math"
	"strings"
)

// Normalization defaults and bounds for hazard query parameters.
const (
	FloodType           = "inunriver"
	DefaultScenario     = "rcp8p5"
	DefaultYear         = 2050
	DefaultReturnPeriod = 100
	DefaultModel        = "NorESM1-M"
	MaxBufferMeters     = 50000
)

// SupportedReturnPeriods is the fixed set of recurrence intervals (years)
// for which inundation layers exist.
var SupportedReturnPeriods = []int{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}

// SupportedModels lists the global climate models with published layers.
var SupportedModels = []string{"NorESM1-M", "GFDL-ESM2M", "HadGEM2-ES", "IPSL-CM5A-LR"}

// RawParams carries unvalidated hazard query parameters as received from the
// caller. Pointer fields distinguish "absent" from zero.
type RawParams struct {
	Scenario     string   `json:"scenario"`
	Year         *float64 `json:"year"`
	ReturnPeriod *float64 `json:"returnPeriod"`
	Model        string   `json:"model"`
	BufferMeters *float64 `json:"bufferMeters"`
}

// Params is the fully-defaulted, range-checked parameter set. Every consumer
// downstream of NormalizeParams sees only this type, never raw input.
type Params struct {
	Scenario     string  `json:"scenario"`
	Year         int     `json:"year"`
	ReturnPeriod int     `json:"return_period"`
	Model        string  `json:"model"`
	BufferMeters float64 `json:"buffer_distance"`
}

// NormalizeParams clamps and defaults every field of a raw parameter set.
// Out-of-set return periods and models are replaced with defaults, never
// passed through as-is.
func NormalizeParams(raw RawParams) Params {
	return Params{
		Scenario:     normalizeScenario(raw.Scenario),
		Year:         normalizeYear(raw.Year),
		ReturnPeriod: normalizeReturnPeriod(raw.ReturnPeriod),
		Model:        normalizeModel(raw.Model),
		BufferMeters: normalizeBuffer(raw.BufferMeters),
	}
}

func normalizeScenario(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultScenario
	}
	return s
}

func normalizeYear(y *float64) int {
	if y == nil || math.IsNaN(*y) || math.IsInf(*y, 0) {
		return DefaultYear
	}
	return int(*y)
}

func normalizeReturnPeriod(rp *float64) int {
	if rp == nil || math.IsNaN(*rp) || math.IsInf(*rp, 0) {
		return DefaultReturnPeriod
	}
	v := int(*rp)
	if float64(v) != *rp {
		return DefaultReturnPeriod
	}
	for _, supported := range SupportedReturnPeriods {
		if v == supported {
			return v
		}
	}
	return DefaultReturnPeriod
}

func normalizeModel(m string) string {
	m = strings.TrimSpace(m)
	for _, supported := range SupportedModels {
		if m == supported {
			return m
		}
	}
	return DefaultModel
}

func normalizeBuffer(b *float64) float64 {
	if b == nil || math.IsNaN(*b) || math.IsInf(*b, 0) || *b < 0 {
		return 0
	}
	if *b > MaxBufferMeters {
		return MaxBufferMeters
	}
	return *b
}
