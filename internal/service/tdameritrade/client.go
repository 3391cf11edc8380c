package tdameritrade

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"FinSpread/internal/domain/models"
	"FinSpread/internal/service/ratelimit"
	xhttp "FinSpread/pkg/http"
	"FinSpread/pkg/logger"
)

const (
	DefaultBaseURL = "https://api.tdameritrade.com/v1/marketdata/chains"
	limiterKey     = "tdameritrade"
)

// Options configures Client.
type Options struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	Retries    int
	RatePerSec float64
	Backoff    time.Duration
}

// Client fetches option chains from the TD Ameritrade chains endpoint.
type Client struct {
	opts    Options
	http    *xhttp.Client
	limiter *ratelimit.Limiter
	log     *logger.Logger
}

// New builds a chain client. A nil limiter disables client-side throttling.
func New(opts Options, limiter *ratelimit.Limiter, log *logger.Logger, httpOpts ...xhttp.ClientOption) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Retries <= 0 {
		opts.Retries = 1
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 200 * time.Millisecond
	}
	if log == nil {
		log = logger.Nop()
	}
	httpOpts = append([]xhttp.ClientOption{xhttp.WithTimeout(opts.Timeout)}, httpOpts...)
	return &Client{
		opts:    opts,
		http:    xhttp.NewClient(httpOpts...),
		limiter: limiter,
		log:     log.With(logger.String("component", "tdameritrade")),
	}
}

// FetchChain downloads and decodes the chain for symbol.
func (c *Client) FetchChain(ctx context.Context, symbol string) (*models.OptionChain, error) {
	b, err := c.FetchRaw(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return models.DecodeChain(b)
}

// FetchRaw returns the undecoded chain document, retrying throttled and 5xx answers.
func (c *Client) FetchRaw(ctx context.Context, symbol string) ([]byte, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", models.ErrUnknownSymbol)
	}

	var err error
	for attempt := 1; attempt <= c.opts.Retries; attempt++ {
		var body []byte
		body, err = c.get(ctx, symbol)
		if err == nil {
			return body, nil
		}
		var se *xhttp.StatusError
		if !errors.As(err, &se) || !se.Temporary() || attempt == c.opts.Retries {
			break
		}
		c.log.Warn("chain request failed, retrying",
			logger.String("symbol", symbol),
			logger.Int("attempt", attempt),
			logger.Int("status", se.Code))
		select {
		case <-time.After(time.Duration(attempt) * c.opts.Backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	var se *xhttp.StatusError
	if errors.As(err, &se) {
		if se.Code == 404 {
			return nil, fmt.Errorf("%w: %s", models.ErrUnknownSymbol, symbol)
		}
		return nil, fmt.Errorf("%w: %d for %s", models.ErrProviderStatus, se.Code, symbol)
	}
	return nil, fmt.Errorf("fetch chain %s: %w", symbol, err)
}

func (c *Client) get(ctx context.Context, symbol string) ([]byte, error) {
	if c.limiter != nil && c.opts.RatePerSec > 0 {
		if err := c.limiter.Wait(ctx, limiterKey, c.opts.RatePerSec, c.opts.RatePerSec); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	var body []byte
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.opts.BaseURL,
		Headers: map[string]string{
			"Accept": "application/json",
		},
		QueryParams: map[string][]string{
			"apikey": {c.opts.APIKey},
			"symbol": {symbol},
		},
	}, &body)
	c.log.Debug("chain request",
		logger.String("symbol", symbol),
		logger.Duration("elapsed", time.Since(start)),
		logger.Int("bytes", len(body)),
		logger.Bool("ok", err == nil))
	return body, err
}
