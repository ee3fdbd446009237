package usecase

import (
	"context"
	"time"

	"FinLens/internal/domain/models"
	domrepo "FinLens/internal/domain/repository"
	"FinLens/internal/services/timeseries"
	applogger "FinLens/pkg/logger"
)

// SignalChartUseCase overlays strategy signals on an asset's closes and
// reports the latest signal of every strategy.
type SignalChartUseCase struct {
	chartBase
}

func NewSignalChartUseCase(src domrepo.MarketSource, m domrepo.Metrics, l *applogger.Logger, s Settings) *SignalChartUseCase {
	return &SignalChartUseCase{chartBase: newChartBase(src, m, l, s)}
}

type SignalChartParams struct {
	AssetID    string
	Strategies []string
	Start      string
	End        string
	Limit      int
}

func (uc *SignalChartUseCase) Get(ctx context.Context, p SignalChartParams) (*models.SignalChart, error) {
	defer uc.observe("signals", time.Now())
	rng, err := uc.resolveRange(p.Start, p.End)
	if err != nil {
		return nil, err
	}
	strategies := orDefault(p.Strategies, uc.set.Strategies)
	limit := p.Limit
	if limit <= 0 || limit > fetchLimit {
		limit = fetchLimit
	}

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	var prices []models.PriceDaily
	signals := make([][]models.SignalDaily, len(strategies))
	f := uc.fanout()
	f.Go(ctx, "prices", "prices", func(ctx context.Context) error {
		rows, err := uc.src.Prices(ctx, domrepo.PriceQuery{AssetID: p.AssetID, Start: rng.Start, End: rng.End, Limit: fetchLimit})
		prices = rows
		return err
	})
	for i, s := range strategies {
		f.Go(ctx, s, "signals", func(ctx context.Context) error {
			rows, err := uc.src.Signals(ctx, domrepo.SignalQuery{
				AssetID: p.AssetID, StrategyID: s, Start: rng.Start, End: rng.End, Limit: limit,
			})
			signals[i] = rows
			return err
		})
	}
	errs := f.Wait()

	set, rep := timeseries.NormalizePrices(prices)
	uc.logSkipped("prices", rep)
	closes := models.Series{Key: p.AssetID}
	for _, s := range set {
		if s.Key == p.AssetID {
			closes = s
		}
	}

	res := &models.SignalChart{
		Range:    rng,
		AssetID:  p.AssetID,
		Overlays: make(map[string][]models.OverlayPoint, len(strategies)),
		Matrix:   make([]models.StrategySignal, 0, len(strategies)),
		Errors:   errs,
	}
	for i, s := range strategies {
		recs, rep := timeseries.NormalizeSignals(signals[i])
		uc.logSkipped("signals", rep)
		recs = timeseries.FilterSignals(recs, p.AssetID, s)
		res.Overlays[s] = timeseries.BuildOverlay(closes, recs)
		uc.metrics.RecordRows("signals", len(res.Overlays[s]))
		res.Matrix = append(res.Matrix, strategySignal(s, recs))
	}
	return res, nil
}

func strategySignal(strategy string, recs []models.SignalRecord) models.StrategySignal {
	out := models.StrategySignal{StrategyID: strategy, Direction: models.DirectionNone}
	if latest, ok := timeseries.LatestSignal(recs); ok {
		out.Date = latest.Date
		out.Direction = latest.Direction
		out.Score = latest.Score
		out.Action = latest.Action
	}
	return out
}
