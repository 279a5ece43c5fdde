package domain_test

import (
	"testing"

	"github.com/couchcryptid/flood-risk-service/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRatio_ZeroAndNegativeDepths(t *testing.T) {
	curve := domain.CurveFor(domain.ClassIndustry)

	assert.Equal(t, 0.0, curve.Ratio(0))
	assert.Equal(t, 0.0, curve.Ratio(-0.5))
	assert.Equal(t, 0.0, curve.Ratio(-1000))
}

func TestRatio_SaturatesAtLastPoint(t *testing.T) {
	curve := domain.CurveFor(domain.ClassIndustry)
	last := curve.Points[len(curve.Points)-1]

	assert.Equal(t, last.Ratio, curve.Ratio(last.Depth))
	assert.Equal(t, last.Ratio, curve.Ratio(last.Depth+0.001))
	assert.Equal(t, last.Ratio, curve.Ratio(9999))
}

func TestRatio_LinearInterpolation(t *testing.T) {
	curve := domain.DamageCurve{
		Name:   "test",
		Points: []domain.CurvePoint{{0, 0}, {1, 0.5}, {2, 1.0}},
	}

	assert.InDelta(t, 0.25, curve.Ratio(0.5), 1e-9)
	assert.InDelta(t, 0.5, curve.Ratio(1.0), 1e-9)
	assert.InDelta(t, 0.75, curve.Ratio(1.5), 1e-9)
	assert.Equal(t, 1.0, curve.Ratio(2.0))
}

func TestRatio_IndustryCurveWorkedExample(t *testing.T) {
	// 0.9 m sits between (0.5, 0.28) and (1.0, 0.48):
	// 0.28 + 0.4*(0.48-0.28)/0.5 = 0.44
	curve := domain.CurveFor(domain.ClassIndustry)
	assert.InDelta(t, 0.44, curve.Ratio(0.9), 1e-9)
}

func TestRatio_MonotonicNonDecreasing(t *testing.T) {
	for _, class := range []domain.AssetClass{domain.ClassIndustry, domain.ClassCommercial} {
		curve := domain.CurveFor(class)

		prev := -1.0
		for depth := -1.0; depth <= 8.0; depth += 0.01 {
			ratio := curve.Ratio(depth)
			assert.GreaterOrEqual(t, ratio, prev, "curve %s not monotonic at depth %f", curve.Name, depth)
			assert.GreaterOrEqual(t, ratio, 0.0)
			assert.LessOrEqual(t, ratio, curve.Points[len(curve.Points)-1].Ratio)
			prev = ratio
		}
	}
}

func TestRatio_EmptyCurve(t *testing.T) {
	assert.Equal(t, 0.0, domain.DamageCurve{}.Ratio(2.0))
}

func TestCurveFor_UnknownClassDefaultsToIndustry(t *testing.T) {
	assert.Equal(t, domain.CurveFor(domain.ClassIndustry), domain.CurveFor(domain.AssetClass("warehouse")))
	assert.NotEqual(t, domain.CurveFor(domain.ClassIndustry), domain.CurveFor(domain.ClassCommercial))
}
