package service

import (
	"FinSpread/internal/domain/models"

	"github.com/shopspring/decimal"
)

// SpreadAnalyzer turns one side of an option chain into scored vertical spreads,
// keeping those whose profit potential exceeds threshold.
type SpreadAnalyzer interface {
	Analyze(m models.ExpirationMap, threshold decimal.Decimal) (*models.AnalysisResult, error)
}
