package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFlattensSpread(t *testing.T) {
	long := Contract{Description: "SPY 95 Call", StrikePrice: decimal.NewFromInt(95), Bid: decimal.NewFromInt(3), Ask: decimal.NewFromInt(4)}
	short := Contract{Description: "SPY 100 Call", StrikePrice: decimal.NewFromInt(100), Bid: decimal.NewFromInt(1), Ask: decimal.NewFromInt(1)}
	s := Spread{
		LongLeg:            long,
		ShortLeg:           short,
		SpreadWidth:        decimal.NewFromInt(5),
		EstimatedCost:      decimal.RequireFromString("2.5"),
		ProfitPotentialPct: decimal.RequireFromString("1"),
		NetDelta:           decimal.RequireFromString("0.2"),
		NetTheta:           decimal.RequireFromString("-0.01"),
		DaysToExpiration:   30,
	}

	r := s.Record()
	assert.Equal(t, 30, r.SpreadDTE)
	assert.Equal(t, 1.0, r.ProfitPotentialPct)
	assert.Equal(t, 2.5, r.EstimatedCost)
	assert.Equal(t, 5.0, r.SpreadWidth)
	assert.Equal(t, "SPY 95 Call", r.LongLegDescription)
	assert.Equal(t, "SPY 100 Call", r.ShortLegDescription)

	var details Contract
	require.NoError(t, json.Unmarshal([]byte(r.LongLegDetails), &details))
	assert.Equal(t, "SPY 95 Call", details.Description)
	assert.True(t, details.Ask.Equal(decimal.NewFromInt(4)))

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"longLegDetails":{`)
	assert.Len(t, Records([]Spread{s, s}), 2)
}

func TestExpirationGroupsDTEsAscending(t *testing.T) {
	g := ExpirationGroups{30: nil, 2: nil, 9: nil}
	assert.Equal(t, []int{2, 9, 30}, g.DTEs())
}

func TestContractMid(t *testing.T) {
	c := Contract{Bid: decimal.RequireFromString("1.05"), Ask: decimal.RequireFromString("1.10")}
	assert.Equal(t, "1.075", c.Mid().String())
}

func TestErrorClassification(t *testing.T) {
	se := &StructuralError{Path: "callExpDateMap", Reason: "missing"}
	assert.Equal(t, "structural error at callExpDateMap: missing", se.Error())
	assert.True(t, IsStructural(se))
	assert.False(t, IsInsufficientData(se))

	ie := &InsufficientDataError{Stage: "liquidity filter"}
	assert.Contains(t, ie.Error(), "liquidity filter")
	assert.True(t, IsInsufficientData(ie))
}
