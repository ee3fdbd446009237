package backend

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"FinLens/internal/domain/models"
	"FinLens/internal/domain/repository"
)

// pageLimit is the largest page the backend serves.
const pageLimit = 5000

// HTTPSource implements repository.MarketSource on top of the research
// backend's REST API.
type HTTPSource struct {
	*HTTPServiceBase
}

var _ repository.MarketSource = (*HTTPSource)(nil)

func NewHTTPSource(base *HTTPServiceBase) *HTTPSource {
	return &HTTPSource{HTTPServiceBase: base}
}

func limitOrPage(n int) int {
	if n <= 0 || n > pageLimit {
		return pageLimit
	}
	return n
}

func (s *HTTPSource) Assets(ctx context.Context, activeOnly bool) ([]models.Asset, error) {
	q := url.Values{}
	if activeOnly {
		q.Set("is_active", strconv.FormatBool(true))
	}
	var out []models.Asset
	if err := s.GetJSON(ctx, "/v1/assets", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *HTTPSource) Prices(ctx context.Context, q repository.PriceQuery) ([]models.PriceDaily, error) {
	if q.AssetID == "" {
		return nil, fmt.Errorf("prices: asset id is required")
	}
	p := params{}.str("asset_id", q.AssetID).
		date("start_date", q.Start).
		date("end_date", q.End).
		num("limit", limitOrPage(q.Limit))
	var out []models.PriceDaily
	if err := s.GetJSON(ctx, "/v1/prices/daily", url.Values(p), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *HTTPSource) Factors(ctx context.Context, q repository.FactorQuery) ([]models.FactorDaily, error) {
	p := params{}.str("asset_id", q.AssetID).
		str("factor_name", q.FactorName).
		date("start_date", q.Start).
		date("end_date", q.End).
		num("limit", limitOrPage(q.Limit))
	var out []models.FactorDaily
	if err := s.GetJSON(ctx, "/v1/factors", url.Values(p), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *HTTPSource) Signals(ctx context.Context, q repository.SignalQuery) ([]models.SignalDaily, error) {
	p := params{}.str("asset_id", q.AssetID).
		str("strategy_id", q.StrategyID).
		date("start_date", q.Start).
		date("end_date", q.End).
		num("limit", limitOrPage(q.Limit))
	var out []models.SignalDaily
	if err := s.GetJSON(ctx, "/v1/signals", url.Values(p), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *HTTPSource) Backtests(ctx context.Context, q repository.BacktestQuery) ([]models.BacktestRun, error) {
	p := params{}.str("asset_id", q.AssetID).
		str("strategy_id", q.StrategyID).
		num("limit", q.Limit)
	var out []models.BacktestRun
	if err := s.GetJSON(ctx, "/v1/backtests", url.Values(p), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *HTTPSource) Equity(ctx context.Context, runID string) ([]models.EquityDaily, error) {
	var out []models.EquityDaily
	if err := s.GetJSON(ctx, "/v1/backtests/"+url.PathEscape(runID)+"/equity", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *HTTPSource) Trades(ctx context.Context, runID string) ([]models.TradeLog, error) {
	var out []models.TradeLog
	if err := s.GetJSON(ctx, "/v1/backtests/"+url.PathEscape(runID)+"/trades", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *HTTPSource) Correlation(ctx context.Context, q repository.CorrelationQuery) (models.CorrelationRaw, error) {
	p := params{}.str("asset_ids", strings.Join(q.AssetIDs, ",")).
		date("start_date", q.Start).
		date("end_date", q.End).
		num("window", q.Window)
	var out models.CorrelationRaw
	if err := s.GetJSON(ctx, "/v1/correlation", url.Values(p), &out); err != nil {
		return models.CorrelationRaw{}, err
	}
	return out, nil
}

func (s *HTTPSource) Health(ctx context.Context) error {
	return s.GetJSON(ctx, "/v1/health", nil, nil)
}

func (s *HTTPSource) Close() error { return nil }
