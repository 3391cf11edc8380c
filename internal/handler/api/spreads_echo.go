package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"FinSpread/internal/domain/models"
	domrepo "FinSpread/internal/domain/repository"
	"FinSpread/internal/service/ratelimit"
	"FinSpread/internal/usecase"
	xhttp "FinSpread/pkg/http"
	xlogger "FinSpread/pkg/logger"
	"FinSpread/pkg/queue"
	"FinSpread/pkg/util"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// RateLimit bounds requests per client IP.
type RateLimit struct {
	Burst     float64
	PerSecond float64
}

// SpreadsEchoHandler serves spread analysis over HTTP.
type SpreadsEchoHandler struct {
	logger  *xlogger.Logger
	scanner *usecase.SpreadScanner
	store   domrepo.SpreadStore
	rl      *ratelimit.Limiter
	limit   RateLimit
	queue   queue.Publisher
}

// NewSpreadsEchoHandler builds the handler. store may be nil when history is disabled.
func NewSpreadsEchoHandler(logger *xlogger.Logger, scanner *usecase.SpreadScanner, store domrepo.SpreadStore, rl *ratelimit.Limiter, limit RateLimit) *SpreadsEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &SpreadsEchoHandler{logger: logger, scanner: scanner, store: store, rl: rl, limit: limit}
}

// SetQueue enables POST /api/scans.
func (h *SpreadsEchoHandler) SetQueue(q queue.Publisher) { h.queue = q }

func (h *SpreadsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/spreads", h.Spreads)
	g.GET("/spreads/latest", h.Latest)
	g.POST("/scans", h.EnqueueScans)
	e.GET("/health", h.Health)
}

func (h *SpreadsEchoHandler) allow(c echo.Context, endpoint string) bool {
	if h.rl == nil || h.limit.PerSecond <= 0 {
		return true
	}
	return h.rl.Allow(c.RealIP()+":"+endpoint, h.limit.Burst, h.limit.PerSecond)
}

// Spreads analyzes one side of a symbol's chain on demand.
func (h *SpreadsEchoHandler) Spreads(c echo.Context) error {
	req := &models.SpreadRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, "spreads") {
		h.logger.Warn("spreads rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limited"))
	}

	t, _ := models.ParseOptionType(req.Type)
	symbol := strings.ToUpper(req.Symbol)
	threshold := h.scanner.Threshold()
	if req.MinProfit != nil {
		threshold = decimal.NewFromFloat(*req.MinProfit)
	}
	res, err := h.scanner.Evaluate(c.Request().Context(), symbol, t, threshold)
	if err != nil {
		appErr := FromDomainError(err)
		if appErr.Status >= http.StatusInternalServerError {
			h.logger.Error("spreads usecase error", xlogger.String("symbol", symbol), xlogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, appErr)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, res)
}

// Latest returns stored spreads of the most recent scan.
func (h *SpreadsEchoHandler) Latest(c echo.Context) error {
	req := &models.LatestSpreadsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if h.store == nil {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_UNAVAILABLE", "", "spread history is not enabled", http.StatusServiceUnavailable))
	}
	if !h.allow(c, "latest") {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limited"))
	}

	t, _ := models.ParseOptionType(req.Type)
	rows, err := h.store.Latest(c.Request().Context(), strings.ToUpper(req.Symbol), t, req.Limit)
	if err != nil {
		h.logger.Error("latest spreads store error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("failed to load spreads").WithError(err))
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

// EnqueueScans queues background scans whose results go to the configured sinks.
func (h *SpreadsEchoHandler) EnqueueScans(c echo.Context) error {
	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if h.queue == nil {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_UNAVAILABLE", "", "background scans are not enabled", http.StatusServiceUnavailable))
	}
	if !h.allow(c, "scans") {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limited"))
	}

	types := []models.OptionType{models.Call}
	if len(req.Types) > 0 {
		types = types[:0]
		for _, s := range req.Types {
			t, _ := models.ParseOptionType(s)
			types = append(types, t)
		}
	}
	n, err := usecase.EnqueueScans(c.Request().Context(), h.queue, util.NormalizeSymbols(req.Symbols), types)
	if err != nil {
		h.logger.Error("enqueue scans error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("failed to queue scans").WithError(err))
	}
	return xhttp.DataResponse(c, http.StatusAccepted, map[string]int{"queued": n})
}

// Health reports liveness and, when configured, store reachability.
func (h *SpreadsEchoHandler) Health(c echo.Context) error {
	status := map[string]string{"status": "ok"}
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Health(ctx); err != nil {
			status["status"] = "degraded"
			status["store"] = err.Error()
			return xhttp.DataResponse(c, http.StatusServiceUnavailable, status)
		}
		status["store"] = "ok"
	}
	return xhttp.SuccessResponse(c, status)
}
