package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"FinLens/internal/domain/models"
	domrepo "FinLens/internal/domain/repository"
	"FinLens/internal/services/features"
	"FinLens/internal/services/timeseries"
	pkgch "FinLens/pkg/clickhouse"
	applogger "FinLens/pkg/logger"
)

// CHMarketStore implements MarketSource backed by a ClickHouse mirror of the
// research database. Correlation is computed locally from daily closes.
type CHMarketStore struct {
	ch       *pkgch.Client
	db       *sql.DB
	database string
	l        *applogger.Logger
}

var _ domrepo.MarketSource = (*CHMarketStore)(nil)

func NewCHMarketStore(ch *pkgch.Client) *CHMarketStore {
	return &CHMarketStore{ch: ch, db: ch.DB(), database: ch.Database(), l: applogger.Nop()}
}

// SetLogger injects a structured logger.
func (s *CHMarketStore) SetLogger(l *applogger.Logger) {
	if l != nil {
		s.l = l
	}
}

func (s *CHMarketStore) table(name string) string {
	if s.database == "" {
		return name
	}
	return s.database + "." + name
}

// filter accumulates AND-ed WHERE conditions with positional args. Empty
// values are skipped.
type filter struct {
	conds []string
	args  []any
}

func (f *filter) eq(col, v string) *filter {
	if v != "" {
		f.conds = append(f.conds, col+" = ?")
		f.args = append(f.args, v)
	}
	return f
}

func (f *filter) in(col string, vs []string) *filter {
	if len(vs) > 0 {
		f.conds = append(f.conds, col+" IN ("+strings.TrimSuffix(strings.Repeat("?, ", len(vs)), ", ")+")")
		for _, v := range vs {
			f.args = append(f.args, v)
		}
	}
	return f
}

func (f *filter) between(col string, from, to models.CalendarDate) *filter {
	if from != "" {
		f.conds = append(f.conds, col+" >= ?")
		f.args = append(f.args, string(from))
	}
	if to != "" {
		f.conds = append(f.conds, col+" <= ?")
		f.args = append(f.args, string(to))
	}
	return f
}

func (f *filter) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(f.conds, " AND ")
}

func selectRows[T any](ctx context.Context, s *CHMarketStore, op, q string, args []any, scan func(*sql.Rows) (T, error)) ([]T, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		s.l.Error("clickhouse query error", applogger.String("op", op), applogger.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]T, 0, 256)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			s.l.Error("clickhouse scan error", applogger.String("op", op), applogger.Error(err))
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		s.l.Error("clickhouse rows error", applogger.String("op", op), applogger.Error(err))
		return nil, fmt.Errorf("%s rows: %w", op, err)
	}
	s.l.Debug("clickhouse query ok",
		applogger.String("op", op),
		applogger.Int("rows", len(out)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return out, nil
}

func limitOf(n int) int {
	if n <= 0 || n > 5000 {
		return 5000
	}
	return n
}

func decodeJSON(raw string) map[string]any {
	if raw == "" {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil
	}
	return m
}

func (s *CHMarketStore) Assets(ctx context.Context, activeOnly bool) ([]models.Asset, error) {
	q := fmt.Sprintf(`SELECT asset_id, name, category, is_active FROM %s`, s.table("asset_master"))
	if activeOnly {
		q += ` WHERE is_active = 1`
	}
	q += ` ORDER BY asset_id`
	return selectRows(ctx, s, "assets", q, nil, func(r *sql.Rows) (models.Asset, error) {
		var a models.Asset
		err := r.Scan(&a.AssetID, &a.Name, &a.Category, &a.IsActive)
		return a, err
	})
}

// Prices returns newest first, like the backend API.
func (s *CHMarketStore) Prices(ctx context.Context, pq domrepo.PriceQuery) ([]models.PriceDaily, error) {
	if pq.AssetID == "" {
		return nil, fmt.Errorf("prices: asset id is required")
	}
	f := (&filter{}).eq("asset_id", pq.AssetID).between("date", pq.Start, pq.End)
	q := fmt.Sprintf(`
        SELECT asset_id, toString(date), open, high, low, close, toFloat64(volume), source
        FROM %s
        %s
        ORDER BY date DESC
        LIMIT ?`, s.table("price_daily"), f.where())
	return selectRows(ctx, s, "prices", q, append(f.args, limitOf(pq.Limit)), func(r *sql.Rows) (models.PriceDaily, error) {
		var p models.PriceDaily
		err := r.Scan(&p.AssetID, &p.Date, &p.Open, &p.High, &p.Low, &p.Close, &p.Volume, &p.Source)
		return p, err
	})
}

func (s *CHMarketStore) Factors(ctx context.Context, fq domrepo.FactorQuery) ([]models.FactorDaily, error) {
	f := (&filter{}).eq("asset_id", fq.AssetID).eq("factor_name", fq.FactorName).between("date", fq.Start, fq.End)
	q := fmt.Sprintf(`
        SELECT asset_id, toString(date), factor_name, version, value
        FROM %s
        %s
        ORDER BY date DESC
        LIMIT ?`, s.table("factor_daily"), f.where())
	return selectRows(ctx, s, "factors", q, append(f.args, limitOf(fq.Limit)), func(r *sql.Rows) (models.FactorDaily, error) {
		var v models.FactorDaily
		err := r.Scan(&v.AssetID, &v.Date, &v.FactorName, &v.Version, &v.Value)
		return v, err
	})
}

// signalsQuery pages newest dates first but keeps rows of one date in id
// order, so the last written row of a date comes last.
func (s *CHMarketStore) signalsQuery(f *filter) string {
	return fmt.Sprintf(`
        SELECT id, asset_id, toString(date), strategy_id, signal, score, action, meta_json
        FROM %s
        %s
        ORDER BY date DESC, id ASC
        LIMIT ?`, s.table("signal_daily"), f.where())
}

func (s *CHMarketStore) Signals(ctx context.Context, sq domrepo.SignalQuery) ([]models.SignalDaily, error) {
	f := (&filter{}).eq("asset_id", sq.AssetID).eq("strategy_id", sq.StrategyID).between("date", sq.Start, sq.End)
	q := s.signalsQuery(f)
	return selectRows(ctx, s, "signals", q, append(f.args, limitOf(sq.Limit)), func(r *sql.Rows) (models.SignalDaily, error) {
		var (
			v      models.SignalDaily
			score  sql.NullFloat64
			action sql.NullString
			meta   sql.NullString
		)
		if err := r.Scan(&v.ID, &v.AssetID, &v.Date, &v.StrategyID, &v.Signal, &score, &action, &meta); err != nil {
			return v, err
		}
		if score.Valid {
			v.Score = &score.Float64
		}
		if action.Valid {
			v.Action = &action.String
		}
		v.Meta = decodeJSON(meta.String)
		return v, nil
	})
}

func (s *CHMarketStore) Backtests(ctx context.Context, bq domrepo.BacktestQuery) ([]models.BacktestRun, error) {
	f := (&filter{}).eq("asset_id", bq.AssetID).eq("strategy_id", bq.StrategyID)
	q := fmt.Sprintf(`
        SELECT toString(run_id), strategy_id, asset_id, status, config_json, metrics_json, started_at, ended_at
        FROM %s
        %s
        ORDER BY started_at DESC
        LIMIT ?`, s.table("backtest_run"), f.where())
	return selectRows(ctx, s, "backtests", q, append(f.args, limitOf(bq.Limit)), func(r *sql.Rows) (models.BacktestRun, error) {
		var (
			v       models.BacktestRun
			cfg     sql.NullString
			metrics sql.NullString
			ended   sql.NullTime
		)
		if err := r.Scan(&v.RunID, &v.StrategyID, &v.AssetID, &v.Status, &cfg, &metrics, &v.StartedAt, &ended); err != nil {
			return v, err
		}
		v.Config = decodeJSON(cfg.String)
		v.Metrics = decodeJSON(metrics.String)
		if ended.Valid {
			v.EndedAt = &ended.Time
		}
		return v, nil
	})
}

func (s *CHMarketStore) Equity(ctx context.Context, runID string) ([]models.EquityDaily, error) {
	q := fmt.Sprintf(`
        SELECT toString(run_id), toString(date), equity, drawdown
        FROM %s
        WHERE toString(run_id) = ?
        ORDER BY date ASC`, s.table("backtest_equity_curve"))
	return selectRows(ctx, s, "equity", q, []any{runID}, func(r *sql.Rows) (models.EquityDaily, error) {
		var v models.EquityDaily
		err := r.Scan(&v.RunID, &v.Date, &v.Equity, &v.Drawdown)
		return v, err
	})
}

func (s *CHMarketStore) Trades(ctx context.Context, runID string) ([]models.TradeLog, error) {
	q := fmt.Sprintf(`
        SELECT id, toString(run_id), asset_id, toString(entry_date), entry_price,
               if(isNull(exit_date), NULL, toString(exit_date)), exit_price, side, shares, pnl, cost
        FROM %s
        WHERE toString(run_id) = ?
        ORDER BY entry_date ASC`, s.table("backtest_trade_log"))
	return selectRows(ctx, s, "trades", q, []any{runID}, func(r *sql.Rows) (models.TradeLog, error) {
		var (
			v                    models.TradeLog
			exitDate             sql.NullString
			exitPrice, pnl, cost sql.NullFloat64
		)
		if err := r.Scan(&v.ID, &v.RunID, &v.AssetID, &v.EntryDate, &v.EntryPrice, &exitDate, &exitPrice, &v.Side, &v.Shares, &pnl, &cost); err != nil {
			return v, err
		}
		if exitDate.Valid {
			v.ExitDate = &exitDate.String
		}
		v.ExitPrice = nullFloat(exitPrice)
		v.PnL = nullFloat(pnl)
		v.Cost = nullFloat(cost)
		return v, nil
	})
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

// Correlation aligns the latest window+1 closes of every asset and
// correlates their simple returns. An empty asset list means all active
// assets.
func (s *CHMarketStore) Correlation(ctx context.Context, cq domrepo.CorrelationQuery) (models.CorrelationRaw, error) {
	assets := cq.AssetIDs
	if len(assets) == 0 {
		list, err := s.Assets(ctx, true)
		if err != nil {
			return models.CorrelationRaw{}, err
		}
		for _, a := range list {
			assets = append(assets, a.AssetID)
		}
	}

	var all []models.PriceDaily
	for _, a := range assets {
		rows, err := s.Prices(ctx, domrepo.PriceQuery{AssetID: a, Start: cq.Start, End: cq.End, Limit: cq.Window + 1})
		if err != nil {
			return models.CorrelationRaw{}, err
		}
		all = append(all, rows...)
	}
	set, _ := timeseries.NormalizePrices(all)
	m, err := features.Correlation(timeseries.Merge(set), assets, cq.Window)
	if err != nil {
		return models.CorrelationRaw{}, err
	}
	return models.CorrelationRaw{
		AssetIDs: m.AssetIDs,
		Matrix:   m.Matrix,
		Period: models.CorrelationPeriodRaw{
			Start:  string(m.Period.Start),
			End:    string(m.Period.End),
			Window: m.Period.Window,
		},
	}, nil
}

func (s *CHMarketStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHMarketStore) Close() error {
	if s.ch == nil {
		return nil
	}
	return s.ch.Close()
}
