package spreads

import (
	"sort"

	"FinSpread/internal/domain/models"
)

// GroupInTheMoney drops out-of-the-money contracts and partitions the rest by
// days to expiration. Each group is sorted ascending by strike; equal strikes keep
// input order. Groups with a single contract are kept.
func GroupInTheMoney(cs []models.Contract) models.ExpirationGroups {
	groups := make(models.ExpirationGroups)
	for _, c := range cs {
		if !c.InTheMoney {
			continue
		}
		groups[c.DaysToExpiration] = append(groups[c.DaysToExpiration], c)
	}
	for _, g := range groups {
		sort.SliceStable(g, func(i, j int) bool {
			return g[i].StrikePrice.LessThan(g[j].StrikePrice)
		})
	}
	return groups
}
