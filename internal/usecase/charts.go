package usecase

import (
	domrepo "FinLens/internal/domain/repository"
	applogger "FinLens/pkg/logger"
)

// Charts groups the chart use cases served by the HTTP API.
type Charts struct {
	Prices      *PriceChartUseCase
	Factors     *FactorChartUseCase
	Signals     *SignalChartUseCase
	Strategies  *StrategyChartUseCase
	Correlation *CorrelationChartUseCase
	Dashboard   *DashboardUseCase
}

func NewCharts(src domrepo.MarketSource, m domrepo.Metrics, l *applogger.Logger, s Settings) *Charts {
	return &Charts{
		Prices:      NewPriceChartUseCase(src, m, l, s),
		Factors:     NewFactorChartUseCase(src, m, l, s),
		Signals:     NewSignalChartUseCase(src, m, l, s),
		Strategies:  NewStrategyChartUseCase(src, m, l, s),
		Correlation: NewCorrelationChartUseCase(src, m, l, s),
		Dashboard:   NewDashboardUseCase(src, m, l, s),
	}
}
