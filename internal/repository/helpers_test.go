package repository

import (
	"context"
	"time"

	"FinSpread/internal/domain/models"

	"github.com/shopspring/decimal"
)

func sampleResult() *models.ScanResult {
	long := models.Contract{
		Description:      "SPY Jan 19 2024 95 Call",
		StrikePrice:      decimal.NewFromInt(95),
		Bid:              decimal.RequireFromString("7.1"),
		Ask:              decimal.RequireFromString("7.3"),
		OpenInterest:     500,
		InTheMoney:       true,
		DaysToExpiration: 10,
	}
	short := long
	short.Description = "SPY Jan 19 2024 100 Call"
	short.StrikePrice = decimal.NewFromInt(100)

	s := models.Spread{
		LongLeg:            long,
		ShortLeg:           short,
		SpreadWidth:        decimal.NewFromInt(5),
		EstimatedCost:      decimal.RequireFromString("3.1"),
		ProfitPotentialPct: decimal.RequireFromString("0.612"),
		DaysToExpiration:   10,
	}
	return &models.ScanResult{
		Symbol:     "SPY",
		OptionType: models.Call,
		RunAt:      time.Date(2024, 1, 9, 14, 30, 0, 0, time.UTC),
		Spreads:    models.Records([]models.Spread{s}),
	}
}

type recordingSink struct {
	name   string
	err    error
	writes int
	closed bool
}

func (r *recordingSink) Name() string { return r.name }

func (r *recordingSink) Write(context.Context, *models.ScanResult) error {
	r.writes++
	return r.err
}

func (r *recordingSink) Close() error {
	r.closed = true
	return nil
}
