package usecase

import (
	"context"
	"time"

	"FinLens/internal/domain/models"
	domrepo "FinLens/internal/domain/repository"
	"FinLens/internal/services/timeseries"
	applogger "FinLens/pkg/logger"
)

// macdFactor names the factor that triggers the MACD chart.
const macdFactor = "macd"

// FactorChartUseCase aligns factor series across assets and builds the MACD
// chart and the latest-value comparison table.
type FactorChartUseCase struct {
	chartBase
}

func NewFactorChartUseCase(src domrepo.MarketSource, m domrepo.Metrics, l *applogger.Logger, s Settings) *FactorChartUseCase {
	return &FactorChartUseCase{chartBase: newChartBase(src, m, l, s)}
}

type FactorChartParams struct {
	Assets  []string
	Factors []string
	Start   string
	End     string
	Limit   int
}

func (uc *FactorChartUseCase) Get(ctx context.Context, p FactorChartParams) (*models.FactorChart, error) {
	defer uc.observe("factors", time.Now())
	rng, err := uc.resolveRange(p.Start, p.End)
	if err != nil {
		return nil, err
	}
	assets := orDefault(p.Assets, uc.set.Assets)
	factors := orDefault(p.Factors, uc.set.TableFactors)
	limit := p.Limit
	if limit <= 0 || limit > fetchLimit {
		limit = fetchLimit
	}

	fetch := append([]string{}, factors...)
	withMACD := contains(factors, macdFactor)
	if withMACD && !contains(factors, uc.set.MACDSignalFactor) {
		fetch = append(fetch, uc.set.MACDSignalFactor)
	}

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	// one slot per (asset, factor), asset-major
	results := make([][]models.FactorDaily, len(assets)*len(fetch))
	f := uc.fanout()
	for i, a := range assets {
		for j, name := range fetch {
			slot := i*len(fetch) + j
			f.Go(ctx, a+":"+name, "factors", func(ctx context.Context) error {
				rows, err := uc.src.Factors(ctx, domrepo.FactorQuery{
					AssetID: a, FactorName: name, Start: rng.Start, End: rng.End, Limit: limit,
				})
				results[slot] = rows
				return err
			})
		}
	}
	errs := f.Wait()

	res := &models.FactorChart{
		Range:   rng,
		Assets:  assets,
		Factors: make(map[string][]models.WideRow, len(factors)),
		Errors:  errs,
	}

	// per factor: series keyed by asset
	for j, name := range factors {
		var rows []models.FactorDaily
		for i := range assets {
			rows = append(rows, results[i*len(fetch)+j]...)
		}
		set, rep := timeseries.NormalizeFactors(rows, timeseries.ByAsset)
		uc.logSkipped("factors", rep)
		res.Factors[name] = timeseries.Merge(set)
		uc.metrics.RecordRows("factors", len(res.Factors[name]))
	}

	// per asset: series keyed by factor
	var table []timeseries.FactorSeries
	for i, a := range assets {
		var rows []models.FactorDaily
		for j := range fetch {
			rows = append(rows, results[i*len(fetch)+j]...)
		}
		set, _ := timeseries.NormalizeFactors(rows, timeseries.ByFactor)
		byName := make(map[string]models.Series, len(set))
		for _, s := range set {
			byName[s.Key] = s
			if contains(factors, s.Key) {
				table = append(table, timeseries.FactorSeries{
					Key:     timeseries.FactorKey{AssetID: a, Factor: s.Key},
					Records: s.Records,
				})
			}
		}
		if withMACD {
			if res.MACD == nil {
				res.MACD = make(map[string][]models.MACDPoint, len(assets))
			}
			res.MACD[a] = timeseries.MACDChart(byName[macdFactor], byName[uc.set.MACDSignalFactor])
		}
	}
	res.Table = timeseries.BuildFactorTable(assets, factors, timeseries.LatestValues(table))
	return res, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
