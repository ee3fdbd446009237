package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinLens/internal/domain/models"
	domrepo "FinLens/internal/domain/repository"
	icache "FinLens/internal/service/cache"
	"FinLens/internal/usecase"
	xhttp "FinLens/pkg/http"
)

// stubSource serves one close per asset and day, and counts price calls.
type stubSource struct {
	priceCalls int32
	failPrices bool
	corr       models.CorrelationRaw
	corrErr    error
}

func (s *stubSource) Assets(context.Context, bool) ([]models.Asset, error) { return nil, nil }
func (s *stubSource) Prices(_ context.Context, q domrepo.PriceQuery) ([]models.PriceDaily, error) {
	atomic.AddInt32(&s.priceCalls, 1)
	if s.failPrices {
		return nil, errors.New("down")
	}
	return []models.PriceDaily{
		{AssetID: q.AssetID, Date: "2024-03-01", Close: 100},
		{AssetID: q.AssetID, Date: "2024-03-04", Close: 102},
	}, nil
}
func (s *stubSource) Factors(context.Context, domrepo.FactorQuery) ([]models.FactorDaily, error) {
	return nil, nil
}
func (s *stubSource) Signals(context.Context, domrepo.SignalQuery) ([]models.SignalDaily, error) {
	return nil, nil
}
func (s *stubSource) Backtests(context.Context, domrepo.BacktestQuery) ([]models.BacktestRun, error) {
	return nil, nil
}
func (s *stubSource) Equity(context.Context, string) ([]models.EquityDaily, error) { return nil, nil }
func (s *stubSource) Trades(context.Context, string) ([]models.TradeLog, error)    { return nil, nil }
func (s *stubSource) Correlation(context.Context, domrepo.CorrelationQuery) (models.CorrelationRaw, error) {
	return s.corr, s.corrErr
}
func (s *stubSource) Health(context.Context) error { return nil }
func (s *stubSource) Close() error                 { return nil }

func newTestServer(src *stubSource, cache icache.BytesCache) *echo.Echo {
	charts := usecase.NewCharts(src, nil, nil, usecase.Settings{
		Assets:     []string{"SPY", "QQQ"},
		Strategies: []string{"momentum"},
		Timeout:    time.Second,
	})
	h := NewChartsHandler(charts)
	if cache != nil {
		h.SetCache(cache, time.Minute)
	}
	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

type envelope struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestPricesEndpoint(t *testing.T) {
	e := newTestServer(&stubSource{}, nil)

	rec := get(e, "/api/v1/charts/prices?assets=SPY,QQQ&start=2024-03-01&end=2024-03-31")
	require.Equal(t, http.StatusOK, rec.Code)

	env := decode(t, rec)
	var chart struct {
		Assets  []string                 `json:"assets"`
		Rows    []map[string]interface{} `json:"rows"`
		Returns []map[string]interface{} `json:"returns"`
		Range   map[string]string        `json:"range"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &chart))
	assert.Equal(t, []string{"SPY", "QQQ"}, chart.Assets)
	require.Len(t, chart.Rows, 2)
	assert.Equal(t, "2024-03-01", chart.Rows[0]["date"])
	assert.Equal(t, 100.0, chart.Returns[0]["SPY"])
	assert.Equal(t, "2024-03-31", chart.Range["end"])
}

func TestPricesEndpointValidation(t *testing.T) {
	e := newTestServer(&stubSource{}, nil)

	rec := get(e, "/api/v1/charts/prices?start=2024/03/01")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var env struct {
		Data []xhttp.ValidationError `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Len(t, env.Data, 2)
}

func TestPricesEndpointField(t *testing.T) {
	e := newTestServer(&stubSource{}, nil)

	rec := get(e, "/api/v1/charts/prices?assets=SPY&field=volume&start=2024-03-01&end=2024-03-31")
	require.Equal(t, http.StatusOK, rec.Code)
	var chart struct {
		Field string `json:"field"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &chart))
	assert.Equal(t, "volume", chart.Field)

	rec = get(e, "/api/v1/charts/prices?assets=SPY&field=vwap")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_ONEOF")
}

func TestPricesEndpointInvertedRange(t *testing.T) {
	e := newTestServer(&stubSource{}, nil)
	rec := get(e, "/api/v1/charts/prices?assets=SPY&start=2024-03-05&end=2024-03-01")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_BAD_REQUEST")
}

func TestResponseCache(t *testing.T) {
	src := &stubSource{}
	e := newTestServer(src, icache.NewTTLCache())

	first := get(e, "/api/v1/charts/prices?assets=SPY&start=2024-03-01&end=2024-03-31")
	second := get(e, "/api/v1/charts/prices?end=2024-03-31&start=2024-03-01&assets=SPY")

	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&src.priceCalls))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestPartialResponsesAreNotCached(t *testing.T) {
	src := &stubSource{failPrices: true}
	e := newTestServer(src, icache.NewTTLCache())

	for i := 0; i < 2; i++ {
		rec := get(e, "/api/v1/charts/prices?assets=SPY&start=2024-03-01&end=2024-03-31")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"errors"`)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&src.priceCalls))
}

func TestCorrelationEndpoint(t *testing.T) {
	src := &stubSource{corr: models.CorrelationRaw{
		AssetIDs: []string{"SPY", "QQQ"},
		Matrix:   [][]float64{{1, -0.5}, {-0.5, 1}},
	}}
	e := newTestServer(src, nil)

	rec := get(e, "/api/v1/charts/correlation?assets=SPY,QQQ")
	require.Equal(t, http.StatusOK, rec.Code)

	var chart models.CorrelationChart
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &chart))
	require.Len(t, chart.Cells, 4)
	assert.Equal(t, "rgb(128, 128, 255)", chart.Cells[1].Color)
	assert.Equal(t, "#1f2937", chart.Cells[1].TextColor)
}

func TestCorrelationEndpointErrors(t *testing.T) {
	e := newTestServer(&stubSource{}, nil)
	rec := get(e, "/api/v1/charts/correlation?assets=SPY")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(e, "/api/v1/charts/correlation?window=2")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	e = newTestServer(&stubSource{corrErr: &xhttp.StatusError{Code: http.StatusServiceUnavailable, Body: "busy"}}, nil)
	rec = get(e, "/api/v1/charts/correlation")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_UPSTREAM")
}

func TestToAppError(t *testing.T) {
	err := toAppError(&xhttp.StatusError{Code: http.StatusNotFound, Body: "no such run"})
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Equal(t, "upstream: no such run", err.Message)

	err = toAppError(fmt.Errorf("fetch: %w", &xhttp.StatusError{Code: http.StatusUnprocessableEntity, Body: "bad window"}))
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, http.StatusUnprocessableEntity, err.Params["upstream_status"])

	err = toAppError(context.DeadlineExceeded)
	assert.Equal(t, http.StatusGatewayTimeout, err.Status)
}
