package domain

// CurvePoint is one control point of a depth-damage curve: flood depth in
// meters mapped to the fraction of asset value destroyed.
type CurvePoint struct {
	Depth float64
	Ratio float64
}

// DamageCurve is an ordered piecewise-linear depth-to-damage conversion.
// Points must be sorted by strictly increasing depth with non-decreasing
// ratios, starting at (0, 0). That is a construction-time invariant of the
// static curves below, not re-checked per evaluation.
type DamageCurve struct {
	Name   string
	Points []CurvePoint
}

// Depth-damage curves per asset class. Derived from aggregated continental
// depth-damage functions for industrial and commercial building stock;
// saturation at 6 m of water.
var (
	industryCurve = DamageCurve{
		Name: string(ClassIndustry),
		Points: []CurvePoint{
			{0, 0}, {0.5, 0.28}, {1.0, 0.48}, {1.5, 0.62}, {2.0, 0.72},
			{3.0, 0.85}, {4.0, 0.92}, {5.0, 0.96}, {6.0, 1.0},
		},
	}

	commercialCurve = DamageCurve{
		Name: string(ClassCommercial),
		Points: []CurvePoint{
			{0, 0}, {0.5, 0.25}, {1.0, 0.40}, {1.5, 0.55}, {2.0, 0.65},
			{3.0, 0.78}, {4.0, 0.88}, {5.0, 0.94}, {6.0, 1.0},
		},
	}
)

// CurveFor returns the damage curve for an asset class. Unrecognized classes
// get the industry curve, matching the ingestion default.
func CurveFor(class AssetClass) DamageCurve {
	if class == ClassCommercial {
		return commercialCurve
	}
	return industryCurve
}

// Ratio converts a flood depth in meters to a damage ratio.
// Depths at or below zero produce 0; depths at or beyond the last control
// point saturate at the last ratio. In between, the bracketing segment is
// interpolated linearly. The result is always within [0, last ratio].
func (c DamageCurve) Ratio(depth float64) float64 {
	if depth <= 0 || len(c.Points) == 0 {
		return 0
	}

	last := c.Points[len(c.Points)-1]
	if depth >= last.Depth {
		return last.Ratio
	}

	for i := 1; i < len(c.Points); i++ {
		p1, p2 := c.Points[i-1], c.Points[i]
		if depth < p2.Depth {
			return p1.Ratio + (depth-p1.Depth)*(p2.Ratio-p1.Ratio)/(p2.Depth-p1.Depth)
		}
	}

	return last.Ratio
}
