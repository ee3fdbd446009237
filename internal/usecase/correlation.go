package usecase

import (
	"context"
	"fmt"
	"time"

	"FinLens/internal/domain/models"
	domrepo "FinLens/internal/domain/repository"
	"FinLens/internal/services/features"
	"FinLens/internal/services/timeseries"
	applogger "FinLens/pkg/logger"
)

// CorrelationChartUseCase fetches a return correlation matrix and colours it
// for the heatmap.
type CorrelationChartUseCase struct {
	chartBase
}

func NewCorrelationChartUseCase(src domrepo.MarketSource, m domrepo.Metrics, l *applogger.Logger, s Settings) *CorrelationChartUseCase {
	return &CorrelationChartUseCase{chartBase: newChartBase(src, m, l, s)}
}

type CorrelationChartParams struct {
	Assets []string
	Start  string
	End    string
	Window int
}

func (uc *CorrelationChartUseCase) Get(ctx context.Context, p CorrelationChartParams) (*models.CorrelationChart, error) {
	defer uc.observe("correlation", time.Now())
	q := domrepo.CorrelationQuery{AssetIDs: orDefault(p.Assets, uc.set.Assets), Window: p.Window}
	if q.Window <= 0 {
		q.Window = uc.set.CorrelationWindow
	}
	if p.Start != "" || p.End != "" {
		rng, err := uc.resolveRange(p.Start, p.End)
		if err != nil {
			return nil, err
		}
		q.Start, q.End = rng.Start, rng.End
	}
	if len(q.AssetIDs) == 1 {
		return nil, features.ErrNotEnoughAssets
	}

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	raw, err := uc.src.Correlation(ctx, q)
	uc.metrics.RecordFetch("correlation", time.Since(start).Seconds())
	if err != nil {
		uc.metrics.RecordError("correlation")
		return nil, fmt.Errorf("fetch correlation: %w", err)
	}
	m, err := timeseries.NormalizeCorrelation(raw)
	if err != nil {
		uc.metrics.RecordError("correlation")
		return nil, err
	}
	if m.Size() < 2 {
		return nil, features.ErrNotEnoughAssets
	}
	cells := timeseries.Heatmap(m)
	uc.metrics.RecordRows("correlation", len(cells))
	return &models.CorrelationChart{Matrix: m, Cells: cells}, nil
}
