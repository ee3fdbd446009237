package usecase

import (
	"context"
	"time"

	"FinLens/internal/domain/models"
	domrepo "FinLens/internal/domain/repository"
	"FinLens/internal/services/timeseries"
	applogger "FinLens/pkg/logger"
)

// PriceChartUseCase builds the close price and normalized return tables for
// a set of assets.
type PriceChartUseCase struct {
	chartBase
}

func NewPriceChartUseCase(src domrepo.MarketSource, m domrepo.Metrics, l *applogger.Logger, s Settings) *PriceChartUseCase {
	return &PriceChartUseCase{chartBase: newChartBase(src, m, l, s)}
}

type PriceChartParams struct {
	Assets []string
	Field  string
	Start  string
	End    string
}

func (uc *PriceChartUseCase) Get(ctx context.Context, p PriceChartParams) (*models.PriceChart, error) {
	defer uc.observe("prices", time.Now())
	rng, err := uc.resolveRange(p.Start, p.End)
	if err != nil {
		return nil, err
	}
	field, err := timeseries.ParsePriceField(p.Field)
	if err != nil {
		return nil, err
	}
	assets := orDefault(p.Assets, uc.set.Assets)

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	results := make([][]models.PriceDaily, len(assets))
	f := uc.fanout()
	for i, a := range assets {
		f.Go(ctx, a, "prices", func(ctx context.Context) error {
			rows, err := uc.src.Prices(ctx, domrepo.PriceQuery{AssetID: a, Start: rng.Start, End: rng.End, Limit: fetchLimit})
			results[i] = rows
			return err
		})
	}
	errs := f.Wait()

	var all []models.PriceDaily
	for _, rows := range results {
		all = append(all, rows...)
	}
	set, rep := timeseries.PriceSeries(all, field)
	uc.logSkipped("prices", rep)
	set = complete(set, assets)

	returns, excluded := timeseries.NormalizedReturns(set)
	res := &models.PriceChart{
		Range:    rng,
		Field:    string(field),
		Assets:   assets,
		Rows:     timeseries.Merge(set),
		Returns:  timeseries.Merge(returns),
		Excluded: excluded,
		Errors:   errs,
	}
	uc.metrics.RecordRows("prices", len(res.Rows))
	uc.metrics.RecordExcluded("prices", len(excluded))
	return res, nil
}
