package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"FinLens/internal/domain/models"
	icache "FinLens/internal/service/cache"
	"FinLens/internal/service/metrics"
	"FinLens/internal/services/features"
	"FinLens/internal/services/timeseries"
	"FinLens/internal/usecase"
	xhttp "FinLens/pkg/http"
	applogger "FinLens/pkg/logger"
	"FinLens/pkg/util"
)

const defaultCacheTTL = 60 * time.Second

// ChartsHandler serves the chart endpoints. Complete responses are cached
// as encoded JSON keyed by endpoint and canonical query.
type ChartsHandler struct {
	charts *usecase.Charts
	cache  icache.BytesCache
	ttl    time.Duration
	l      *applogger.Logger
}

func NewChartsHandler(charts *usecase.Charts) *ChartsHandler {
	metrics.Register()
	return &ChartsHandler{charts: charts, ttl: defaultCacheTTL, l: applogger.Nop()}
}

// SetCache enables response caching. A non-positive ttl keeps the default.
func (h *ChartsHandler) SetCache(c icache.BytesCache, ttl time.Duration) {
	h.cache = c
	if ttl > 0 {
		h.ttl = ttl
	}
}

// SetLogger injects a structured logger.
func (h *ChartsHandler) SetLogger(l *applogger.Logger) {
	if l != nil {
		h.l = l
	}
}

func (h *ChartsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1/charts")
	g.GET("/prices", h.Prices)
	g.GET("/factors", h.Factors)
	g.GET("/signals", h.Signals)
	g.GET("/strategies", h.Strategies)
	g.GET("/correlation", h.Correlation)
	g.GET("/dashboard", h.Dashboard)
}

func (h *ChartsHandler) Prices(c echo.Context) error {
	req := &models.PriceChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return h.serve(c, "prices", func(ctx context.Context) (interface{}, error) {
		return h.charts.Prices.Get(ctx, usecase.PriceChartParams{
			Assets: util.SplitCSV(req.Assets),
			Field:  req.Field,
			Start:  req.Start,
			End:    req.End,
		})
	})
}

func (h *ChartsHandler) Factors(c echo.Context) error {
	req := &models.FactorChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return h.serve(c, "factors", func(ctx context.Context) (interface{}, error) {
		return h.charts.Factors.Get(ctx, usecase.FactorChartParams{
			Assets:  util.SplitCSV(req.Assets),
			Factors: util.SplitCSV(req.Factors),
			Start:   req.Start,
			End:     req.End,
			Limit:   req.Limit,
		})
	})
}

func (h *ChartsHandler) Signals(c echo.Context) error {
	req := &models.SignalChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return h.serve(c, "signals", func(ctx context.Context) (interface{}, error) {
		return h.charts.Signals.Get(ctx, usecase.SignalChartParams{
			AssetID:    req.Asset,
			Strategies: util.SplitCSV(req.Strategies),
			Start:      req.Start,
			End:        req.End,
			Limit:      req.Limit,
		})
	})
}

func (h *ChartsHandler) Strategies(c echo.Context) error {
	req := &models.StrategyChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return h.serve(c, "strategies", func(ctx context.Context) (interface{}, error) {
		return h.charts.Strategies.Get(ctx, usecase.StrategyChartParams{
			AssetID:    req.Asset,
			Strategies: util.SplitCSV(req.Strategies),
		})
	})
}

func (h *ChartsHandler) Correlation(c echo.Context) error {
	req := &models.CorrelationChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return h.serve(c, "correlation", func(ctx context.Context) (interface{}, error) {
		return h.charts.Correlation.Get(ctx, usecase.CorrelationChartParams{
			Assets: util.SplitCSV(req.Assets),
			Start:  req.Start,
			End:    req.End,
			Window: req.Window,
		})
	})
}

func (h *ChartsHandler) Dashboard(c echo.Context) error {
	req := &models.DashboardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return h.serve(c, "dashboard", func(ctx context.Context) (interface{}, error) {
		return h.charts.Dashboard.Get(ctx, usecase.DashboardParams{Days: req.Days})
	})
}

func (h *ChartsHandler) serve(c echo.Context, endpoint string, build func(ctx context.Context) (interface{}, error)) error {
	start := time.Now()
	defer func() { metrics.ChartLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	ctx := c.Request().Context()
	key := endpoint + "?" + xhttp.CanonicalQuery(c.QueryParams())
	if h.cache != nil {
		b, ok, err := h.cache.GetBytes(ctx, key)
		switch {
		case err != nil:
			h.l.Warn("cache get failed", applogger.String("endpoint", endpoint), applogger.Error(err))
		case ok:
			metrics.CacheResults.WithLabelValues(endpoint, "hit").Inc()
			return xhttp.RawDataResponse(c, b)
		default:
			metrics.CacheResults.WithLabelValues(endpoint, "miss").Inc()
		}
	}

	res, err := build(ctx)
	if err != nil {
		metrics.ChartErrors.WithLabelValues(endpoint).Inc()
		h.l.Error("chart usecase error", applogger.String("endpoint", endpoint), applogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}

	b, err := json.Marshal(res)
	if err != nil {
		metrics.ChartErrors.WithLabelValues(endpoint).Inc()
		h.l.Error("chart encode error", applogger.String("endpoint", endpoint), applogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("chart could not be encoded").WithError(err))
	}
	if h.cache != nil && !partial(res) {
		if err := h.cache.SetBytes(ctx, key, b, h.ttl); err != nil {
			h.l.Warn("cache set failed", applogger.String("endpoint", endpoint), applogger.Error(err))
		}
	}
	return xhttp.RawDataResponse(c, b)
}

// partial reports whether some fetch branch failed while building res.
func partial(res interface{}) bool {
	switch v := res.(type) {
	case *models.PriceChart:
		return len(v.Errors) > 0
	case *models.FactorChart:
		return len(v.Errors) > 0
	case *models.SignalChart:
		return len(v.Errors) > 0
	case *models.StrategyChart:
		return len(v.Errors) > 0
	case *models.Dashboard:
		return len(v.Errors) > 0
	}
	return false
}

func toAppError(err error) *xhttp.AppError {
	var statusErr *xhttp.StatusError
	switch {
	case errors.Is(err, features.ErrNotEnoughAssets):
		return xhttp.BadRequestError("assets", err.Error())
	case errors.Is(err, timeseries.ErrInvalidField):
		return xhttp.BadRequestError("field", err.Error())
	case errors.Is(err, timeseries.ErrInvalidDate), errors.Is(err, usecase.ErrInvalidRange):
		return xhttp.BadRequestError("start", err.Error())
	case errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound:
		return xhttp.NotFoundErrorf("upstream: %s", statusErr.Body).WithError(err)
	case errors.As(err, &statusErr) && statusErr.Code >= http.StatusBadRequest && statusErr.Code < http.StatusInternalServerError:
		return xhttp.BadRequestError("", statusErr.Body).
			WithParam("upstream_status", statusErr.Code).
			WithError(err)
	case errors.Is(err, context.DeadlineExceeded):
		return xhttp.GatewayTimeoutError("upstream timed out").WithError(err)
	default:
		return xhttp.BadGatewayError("upstream request failed").WithError(err)
	}
}
