package spreads

import (
	"testing"

	"FinSpread/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeScenarioIlliquidLegDropped(t *testing.T) {
	m := decodeMap(t, `{"2024-02-16:30": {
		"100.0": [{"description": "C100", "strikePrice": 100, "bid": 2, "ask": 4, "openInterest": 500, "inTheMoney": true, "daysToExpiration": 30}],
		"105.0": [{"description": "C105", "strikePrice": 105, "bid": 1, "ask": 1, "openInterest": 50, "inTheMoney": true, "daysToExpiration": 30}]
	}}`)

	res, err := NewAnalyzer().Analyze(m, DefaultThreshold)
	require.NoError(t, err)
	assert.Empty(t, res.Spreads)
	assert.Equal(t, models.StageCounts{Contracts: 2, Liquid: 1, InTheMoney: 1, Groups: 1}, res.Counts)
}

const scenarioB = `{"2024-02-16:30": {
	"100.0": [{"description": "C100", "strikePrice": 100, "bid": 2, "ask": 4, "last": 10, "delta": 0.8, "theta": -0.05, "openInterest": 100, "inTheMoney": true, "daysToExpiration": 30}],
	"105.0": [{"description": "C105", "strikePrice": 105, "bid": 1, "ask": 1, "last": 0, "delta": 0.6, "theta": -0.07, "openInterest": 100, "inTheMoney": true, "daysToExpiration": 30}],
	"110.0": [{"description": "C110", "strikePrice": 110, "bid": 0.1, "ask": 0.2, "openInterest": 100, "inTheMoney": false, "daysToExpiration": 30}]
}}`

func TestAnalyzeScenarioProfitableSpreadKept(t *testing.T) {
	res, err := NewAnalyzer().Analyze(decodeMap(t, scenarioB), DefaultThreshold)
	require.NoError(t, err)
	require.Len(t, res.Spreads, 1)

	s := res.Spreads[0]
	assert.Equal(t, "C100", s.LongLeg.Description)
	assert.Equal(t, "C105", s.ShortLeg.Description)
	assert.Equal(t, "5", s.SpreadWidth.String())
	assert.Equal(t, "2", s.EstimatedCost.String())
	assert.Equal(t, "1.5", s.ProfitPotentialPct.String())
	assert.Equal(t, 30, s.DaysToExpiration)
}

func TestAnalyzeNeverUsesLastForCost(t *testing.T) {
	// last-price cost would be 10 - 0 = 10, giving (5 - 10) / 10 = -0.5 and no spread
	res, err := NewAnalyzer().Analyze(decodeMap(t, scenarioB), DefaultThreshold)
	require.NoError(t, err)
	require.Len(t, res.Spreads, 1)
	assert.False(t, res.Spreads[0].EstimatedCost.Equal(d("10")))
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	m := decodeMap(t, `{
		"2024-02-16:30": {
			"90.0":  [{"description": "C90",  "strikePrice": 90,  "bid": 12, "ask": 13, "openInterest": 300, "inTheMoney": true, "daysToExpiration": 30}],
			"95.0":  [{"description": "C95",  "strikePrice": 95,  "bid": 2.5, "ask": 3.5,  "openInterest": 300, "inTheMoney": true, "daysToExpiration": 30}],
			"100.0": [{"description": "C100", "strikePrice": 100, "bid": 1,  "ask": 1,  "openInterest": 300, "inTheMoney": true, "daysToExpiration": 30}]
		},
		"2024-01-19:2": {
			"95.0":  [{"description": "W95",  "strikePrice": 95,  "bid": 2,  "ask": 2, "openInterest": 300, "inTheMoney": true, "daysToExpiration": 2}],
			"100.0": [{"description": "W100", "strikePrice": 100, "bid": 0.5, "ask": 0.5, "openInterest": 300, "inTheMoney": true, "daysToExpiration": 2}]
		}
	}`)
	a := NewAnalyzer()
	first, err := a.Analyze(m, DefaultThreshold)
	require.NoError(t, err)
	second, err := a.Analyze(m, DefaultThreshold)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, first.Spreads, 2)
	assert.Equal(t, 2, first.Spreads[0].DaysToExpiration, "groups are emitted in ascending dte order")
}

func TestAnalyzeEmptyChain(t *testing.T) {
	_, err := NewAnalyzer().Analyze(models.ExpirationMap{}, DefaultThreshold)
	require.Error(t, err)
	assert.True(t, models.IsInsufficientData(err))
}

func TestAnalyzeMalformedChain(t *testing.T) {
	_, err := NewAnalyzer().Analyze(decodeMap(t, `{"2024-01-19:2": {"100.0": null}}`), DefaultThreshold)
	require.Error(t, err)
	assert.True(t, models.IsStructural(err))
}
