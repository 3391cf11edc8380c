package spreads

import (
	"testing"

	"FinSpread/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func TestFilterProfitableStrict(t *testing.T) {
	ss := []models.Spread{
		{ProfitPotentialPct: d("0.5"), DaysToExpiration: 1},
		{ProfitPotentialPct: d("0.501"), DaysToExpiration: 2},
		{ProfitPotentialPct: d("3.2"), DaysToExpiration: 3},
		{ProfitPotentialPct: d("-1"), DaysToExpiration: 4},
		{ProfitPotentialPct: d("0.501"), DaysToExpiration: 2},
	}
	out := FilterProfitable(ss, DefaultThreshold)

	var got []int
	for _, s := range out {
		got = append(got, s.DaysToExpiration)
	}
	assert.Equal(t, []int{2, 3, 2}, got, "order kept, duplicates kept")
}

func TestFilterProfitableTruncationBeforeThreshold(t *testing.T) {
	// raw ratio 0.5009 is stored as 0.500 and must not pass
	pot := ProfitPotential(d("15009"), d("10000"))
	assert.Equal(t, "0.5", pot.String())
	assert.Empty(t, FilterProfitable([]models.Spread{{ProfitPotentialPct: pot}}, DefaultThreshold))
}
