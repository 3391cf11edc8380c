package spreads

import (
	"FinSpread/internal/domain/models"

	"github.com/shopspring/decimal"
)

// GenerateSpreads enumerates every pair (i, j) with i < j inside each expiration
// group. The lower-indexed contract is the long leg. Groups are visited in
// ascending DTE order.
func GenerateSpreads(groups models.ExpirationGroups) []models.Spread {
	var out []models.Spread
	for _, dte := range groups.DTEs() {
		g := groups[dte]
		for i := 0; i < len(g); i++ {
			for j := i + 1; j < len(g); j++ {
				out = append(out, NewSpread(g[i], g[j], dte))
			}
		}
	}
	return out
}

// NewSpread builds a spread with all derived fields. Cost uses bid/ask midpoints;
// the last trade price is never consulted.
func NewSpread(long, short models.Contract, dte int) models.Spread {
	width := short.StrikePrice.Sub(long.StrikePrice)
	cost := long.Mid().Sub(short.Mid())
	return models.Spread{
		LongLeg:            long,
		ShortLeg:           short,
		SpreadWidth:        width,
		EstimatedCost:      cost,
		ProfitPotentialPct: ProfitPotential(width, cost),
		NetDelta:           long.Delta.Sub(short.Delta),
		NetTheta:           long.Theta.Sub(short.Theta),
		DaysToExpiration:   dte,
	}
}

// divisionPlaces bounds the precision of the raw ratio before truncation.
const divisionPlaces = 12

// ProfitPotential returns (width - cost) / cost truncated toward zero to three
// decimal places. A zero cost yields exactly zero.
func ProfitPotential(width, cost decimal.Decimal) decimal.Decimal {
	if cost.IsZero() {
		return decimal.Zero
	}
	return width.Sub(cost).DivRound(cost, divisionPlaces).Truncate(3)
}
