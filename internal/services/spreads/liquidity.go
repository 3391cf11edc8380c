package spreads

import (
	"FinSpread/internal/domain/models"

	"github.com/montanaflynn/stats"
)

// FilterByMeanOpenInterest keeps contracts whose open interest is at least the mean
// open interest of cs (ties kept). The threshold comes from the set being filtered,
// so a chain of uniformly thin contracts still keeps its above-average half.
func FilterByMeanOpenInterest(cs []models.Contract) ([]models.Contract, error) {
	if len(cs) == 0 {
		return nil, &models.InsufficientDataError{Stage: "liquidity filter"}
	}
	ois := make(stats.Float64Data, len(cs))
	for i, c := range cs {
		ois[i] = float64(c.OpenInterest)
	}
	mean, err := ois.Mean()
	if err != nil {
		return nil, &models.InsufficientDataError{Stage: "liquidity filter"}
	}
	out := make([]models.Contract, 0, len(cs))
	for _, c := range cs {
		if float64(c.OpenInterest) >= mean {
			out = append(out, c)
		}
	}
	return out, nil
}
