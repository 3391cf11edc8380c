package spreads

import (
	"FinSpread/internal/domain/models"
	domsvc "FinSpread/internal/domain/service"

	"github.com/shopspring/decimal"
)

// Analyzer runs the full spread pipeline over one side of a chain:
// extract, liquidity filter, ITM grouping, pair enumeration and the profit filter.
// It holds no state between calls.
type Analyzer struct{}

var _ domsvc.SpreadAnalyzer = Analyzer{}

func NewAnalyzer() Analyzer { return Analyzer{} }

// Analyze returns the spreads whose profit potential exceeds threshold together with
// per-stage counts. Any stage error aborts the run; no partial result is returned.
func (Analyzer) Analyze(m models.ExpirationMap, threshold decimal.Decimal) (*models.AnalysisResult, error) {
	contracts, err := ExtractContracts(m)
	if err != nil {
		return nil, err
	}
	liquid, err := FilterByMeanOpenInterest(contracts)
	if err != nil {
		return nil, err
	}
	groups := GroupInTheMoney(liquid)
	candidates := GenerateSpreads(groups)
	kept := FilterProfitable(candidates, threshold)

	itm := 0
	for _, g := range groups {
		itm += len(g)
	}
	return &models.AnalysisResult{
		Spreads: kept,
		Counts: models.StageCounts{
			Contracts:  len(contracts),
			Liquid:     len(liquid),
			InTheMoney: itm,
			Groups:     len(groups),
			Candidates: len(candidates),
			Kept:       len(kept),
		},
	}, nil
}
