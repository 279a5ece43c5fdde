package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/flood-risk-service/internal/domain"
)

func testAnalysis() domain.Analysis {
	return domain.Analysis{
		GeneratedAt: time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC),
		Params: domain.Params{
			Scenario:     "rcp8p5",
			Year:         2050,
			ReturnPeriod: 100,
			Model:        "NorESM1-M",
		},
		ModelUsed:    "NorESM1-M",
		RowsReceived: 2,
		Records: []domain.RiskRecord{
			{ID: 1, Name: "Plant A", RiskLevel: domain.RiskMedium},
			{ID: 2, Name: "Plant B", RiskLevel: domain.RiskLow},
		},
	}
}

func TestSerializeAnalysis_Key(t *testing.T) {
	msg, err := serializeAnalysis(testAnalysis())
	require.NoError(t, err)

	assert.Equal(t, "rcp8p5|2050|100", string(msg.Key))
}

func TestSerializeAnalysis_Headers(t *testing.T) {
	msg, err := serializeAnalysis(testAnalysis())
	require.NoError(t, err)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "NorESM1-M", headers["model_used"])
	assert.Equal(t, "2", headers["record_count"])
	assert.Equal(t, "2026-03-14T09:30:00Z", headers["generated_at"])
}

func TestSerializeAnalysis_ValueRoundTrips(t *testing.T) {
	original := testAnalysis()
	msg, err := serializeAnalysis(original)
	require.NoError(t, err)

	var decoded domain.Analysis
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, original.Params, decoded.Params)
	assert.Equal(t, original.Records, decoded.Records)
}
