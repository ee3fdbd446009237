package usecase

import (
	"context"
	"time"

	"FinLens/internal/domain/models"
	domrepo "FinLens/internal/domain/repository"
	"FinLens/internal/services/features"
	"FinLens/internal/services/timeseries"
	applogger "FinLens/pkg/logger"
)

// DashboardUseCase summarizes the configured watch list: latest close,
// change versus the previous close, a mini chart and the latest signal of
// every configured strategy.
type DashboardUseCase struct {
	chartBase
}

func NewDashboardUseCase(src domrepo.MarketSource, m domrepo.Metrics, l *applogger.Logger, s Settings) *DashboardUseCase {
	return &DashboardUseCase{chartBase: newChartBase(src, m, l, s)}
}

type DashboardParams struct {
	Days int
}

func (uc *DashboardUseCase) Get(ctx context.Context, p DashboardParams) (*models.Dashboard, error) {
	defer uc.observe("dashboard", time.Now())
	days := p.Days
	if days <= 0 {
		days = 45
	}
	end := timeseries.DateOf(uc.now().UTC())
	rng := models.DateRange{Start: timeseries.DateOf(uc.now().UTC().AddDate(0, 0, -days)), End: end}
	assets := uc.set.Assets
	strategies := uc.set.Strategies

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	var names map[string]string
	prices := make([][]models.PriceDaily, len(assets))
	signals := make([][]models.SignalDaily, len(assets)*len(strategies))
	f := uc.fanout()
	f.Go(ctx, "assets", "assets", func(ctx context.Context) error {
		list, err := uc.src.Assets(ctx, false)
		if err != nil {
			return err
		}
		names = make(map[string]string, len(list))
		for _, a := range list {
			names[a.AssetID] = a.Name
		}
		return nil
	})
	for i, a := range assets {
		f.Go(ctx, a, "prices", func(ctx context.Context) error {
			rows, err := uc.src.Prices(ctx, domrepo.PriceQuery{AssetID: a, Start: rng.Start, End: rng.End, Limit: fetchLimit})
			prices[i] = rows
			return err
		})
		for j, s := range strategies {
			slot := i*len(strategies) + j
			f.Go(ctx, a+":"+s, "signals", func(ctx context.Context) error {
				rows, err := uc.src.Signals(ctx, domrepo.SignalQuery{AssetID: a, StrategyID: s, Start: rng.Start, End: rng.End, Limit: fetchLimit})
				signals[slot] = rows
				return err
			})
		}
	}
	errs := f.Wait()

	res := &models.Dashboard{Range: rng, Assets: make([]models.AssetSummary, 0, len(assets)), Errors: errs}
	for i, a := range assets {
		set, rep := timeseries.NormalizePrices(prices[i])
		uc.logSkipped("prices", rep)
		rows := timeseries.Merge(complete(set, []string{a})[:1])

		sum := models.AssetSummary{AssetID: a, Name: names[a], Mini: rows}
		if sum.Name == "" {
			sum.Name = a
		}
		sum.LatestPrice, sum.PriceChangePct = features.ChangePct(rows, a)

		for j, s := range strategies {
			recs, _ := timeseries.NormalizeSignals(signals[i*len(strategies)+j])
			recs = timeseries.FilterSignals(recs, a, s)
			latest, ok := timeseries.LatestSignal(recs)
			if !ok {
				continue
			}
			if sum.LatestSignals == nil {
				sum.LatestSignals = make(map[string]string, len(strategies))
			}
			sum.LatestSignals[s] = latest.Direction.String()
		}
		res.Assets = append(res.Assets, sum)
	}
	uc.metrics.RecordRows("dashboard", len(res.Assets))
	return res, nil
}
