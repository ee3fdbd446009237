package usecase

import (
	"context"
	"time"

	"FinLens/internal/domain/models"
	domrepo "FinLens/internal/domain/repository"
	"FinLens/internal/services/timeseries"
	applogger "FinLens/pkg/logger"
)

// runsPerStrategy bounds how many recent runs are scanned for a success.
const runsPerStrategy = 20

// StrategyChartUseCase compares the latest successful backtest of several
// strategies on one asset.
type StrategyChartUseCase struct {
	chartBase
}

func NewStrategyChartUseCase(src domrepo.MarketSource, m domrepo.Metrics, l *applogger.Logger, s Settings) *StrategyChartUseCase {
	return &StrategyChartUseCase{chartBase: newChartBase(src, m, l, s)}
}

type StrategyChartParams struct {
	AssetID    string
	Strategies []string
}

func (uc *StrategyChartUseCase) Get(ctx context.Context, p StrategyChartParams) (*models.StrategyChart, error) {
	defer uc.observe("strategies", time.Now())
	strategies := orDefault(p.Strategies, uc.set.Strategies)

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	runs := make([]*models.BacktestRun, len(strategies))
	f := uc.fanout()
	for i, s := range strategies {
		f.Go(ctx, s, "backtests", func(ctx context.Context) error {
			list, err := uc.src.Backtests(ctx, domrepo.BacktestQuery{AssetID: p.AssetID, StrategyID: s, Limit: runsPerStrategy})
			if err != nil {
				return err
			}
			runs[i] = latestSuccess(list)
			return nil
		})
	}
	errs := f.Wait()

	equity := make([][]models.EquityDaily, len(strategies))
	trades := make([][]models.TradeLog, len(strategies))
	f = uc.fanout()
	for i, run := range runs {
		if run == nil {
			continue
		}
		label := strategies[i]
		f.Go(ctx, label+":equity", "equity", func(ctx context.Context) error {
			rows, err := uc.src.Equity(ctx, run.RunID)
			equity[i] = rows
			return err
		})
		f.Go(ctx, label+":trades", "trades", func(ctx context.Context) error {
			rows, err := uc.src.Trades(ctx, run.RunID)
			trades[i] = rows
			return err
		})
	}
	errs = mergeErrors(errs, f.Wait())

	res := &models.StrategyChart{
		AssetID: p.AssetID,
		Runs:    []models.StrategyRun{},
		Labels:  []string{},
		Errors:  errs,
	}
	var eq, dd models.SeriesSet
	for i, run := range runs {
		if run == nil {
			continue
		}
		label := strategies[i]
		e, d, rep := timeseries.NormalizeEquity(label, equity[i])
		uc.logSkipped("equity", rep)
		eq = append(eq, e)
		dd = append(dd, d)

		tr, rep := timeseries.NormalizeTrades(trades[i])
		uc.logSkipped("trades", rep)
		res.Labels = append(res.Labels, label)
		res.Runs = append(res.Runs, models.StrategyRun{
			RunID:      run.RunID,
			StrategyID: run.StrategyID,
			Label:      label,
			Metrics:    timeseries.AggregateMetrics(run.Metrics),
			Trades:     tr,
		})
	}
	res.Equity = timeseries.Merge(eq)
	res.Drawdown = timeseries.Merge(dd)
	uc.metrics.RecordRows("strategies", len(res.Equity))
	return res, nil
}

// latestSuccess returns the most recently started successful run.
func latestSuccess(runs []models.BacktestRun) *models.BacktestRun {
	var best *models.BacktestRun
	for i := range runs {
		r := &runs[i]
		if r.Status != models.RunStatusSuccess {
			continue
		}
		if best == nil || r.StartedAt.After(best.StartedAt) {
			best = r
		}
	}
	return best
}

func mergeErrors(a, b map[string]string) map[string]string {
	if len(b) == 0 {
		return a
	}
	if a == nil {
		return b
	}
	for k, v := range b {
		a[k] = v
	}
	return a
}
