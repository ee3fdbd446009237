package models

// Requests for chart HTTP endpoints. List parameters are comma separated.

type PriceChartRequest struct {
	Assets string `query:"assets" json:"assets" validate:"required"`
	Field  string `query:"field" json:"field" default:"close" validate:"oneof=open high low close volume"`
	Start  string `query:"start" json:"start" validate:"omitempty,datetime=2006-01-02"`
	End    string `query:"end" json:"end" validate:"omitempty,datetime=2006-01-02"`
}

type FactorChartRequest struct {
	Assets  string `query:"assets" json:"assets" validate:"required"`
	Factors string `query:"factors" json:"factors" default:"rsi_14,macd" validate:"required"`
	Start   string `query:"start" json:"start" validate:"omitempty,datetime=2006-01-02"`
	End     string `query:"end" json:"end" validate:"omitempty,datetime=2006-01-02"`
	Limit   int    `query:"limit" json:"limit" default:"500" validate:"gte=1,lte=5000"`
}

type SignalChartRequest struct {
	Asset      string `query:"asset" json:"asset" validate:"required"`
	Strategies string `query:"strategies" json:"strategies" default:"momentum"`
	Start      string `query:"start" json:"start" validate:"omitempty,datetime=2006-01-02"`
	End        string `query:"end" json:"end" validate:"omitempty,datetime=2006-01-02"`
	Limit      int    `query:"limit" json:"limit" default:"500" validate:"gte=1,lte=5000"`
}

type StrategyChartRequest struct {
	Asset      string `query:"asset" json:"asset" validate:"required"`
	Strategies string `query:"strategies" json:"strategies" default:"momentum"`
}

type CorrelationChartRequest struct {
	Assets string `query:"assets" json:"assets"`
	Start  string `query:"start" json:"start" validate:"omitempty,datetime=2006-01-02"`
	End    string `query:"end" json:"end" validate:"omitempty,datetime=2006-01-02"`
	Window int    `query:"window" json:"window" default:"60" validate:"gte=5,lte=500"`
}

type DashboardRequest struct {
	Days int `query:"days" json:"days" default:"45" validate:"gte=2,lte=365"`
}
