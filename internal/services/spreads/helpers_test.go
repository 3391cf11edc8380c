package spreads

import (
	"encoding/json"
	"testing"

	"FinSpread/internal/domain/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func contract(desc, strike, bid, ask string, oi int64, itm bool, dte int) models.Contract {
	return models.Contract{
		Description:      desc,
		StrikePrice:      d(strike),
		Bid:              d(bid),
		Ask:              d(ask),
		OpenInterest:     oi,
		InTheMoney:       itm,
		DaysToExpiration: dte,
	}
}

func decodeMap(t *testing.T, raw string) models.ExpirationMap {
	t.Helper()
	var m models.ExpirationMap
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	return m
}
