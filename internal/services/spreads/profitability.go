package spreads

import (
	"FinSpread/internal/domain/models"

	"github.com/shopspring/decimal"
)

// DefaultThreshold is the profit potential a spread must strictly exceed to be kept.
var DefaultThreshold = decimal.RequireFromString("0.5")

// FilterProfitable keeps spreads whose profit potential is strictly greater than
// threshold, preserving order. Duplicates are not removed.
func FilterProfitable(ss []models.Spread, threshold decimal.Decimal) []models.Spread {
	out := make([]models.Spread, 0, len(ss))
	for _, s := range ss {
		if s.ProfitPotentialPct.GreaterThan(threshold) {
			out = append(out, s)
		}
	}
	return out
}
