package server

import (
	"context"
	"testing"

	"FinSpread/internal/domain/models"
	"FinSpread/internal/services/spreads"
	"FinSpread/internal/usecase"
	"FinSpread/pkg/config"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chainStub map[string]string

func (c chainStub) FetchChain(_ context.Context, symbol string) (*models.OptionChain, error) {
	doc, ok := c[symbol]
	if !ok {
		return nil, models.ErrUnknownSymbol
	}
	return models.DecodeChain([]byte(doc))
}

func TestAppScanIsolatesFailures(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)

	provider := chainStub{"QQQ": `{"status":"SUCCESS","callExpDateMap":{}}`}
	scanner := usecase.NewSpreadScanner(provider, spreads.NewAnalyzer(), nil, nil, nil, decimal.NewFromFloat(0.5), nil)
	app := New(cfg, nil, scanner, nil)

	results := app.Scan(context.Background(), []string{"ZZZZ", "QQQ"}, []models.OptionType{models.Call})
	require.Len(t, results, 2)
	assert.ErrorIs(t, results[0].Err, models.ErrUnknownSymbol)
	assert.True(t, models.IsInsufficientData(results[1].Err))
}

func TestAppShutdownWithoutServe(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)

	app := New(cfg, nil, nil, nil, WithQueue(nil))
	assert.NoError(t, app.shutdown(context.Background()), "nothing started, nothing to stop")
}
