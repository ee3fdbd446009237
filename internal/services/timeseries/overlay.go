package timeseries

import "FinLens/internal/domain/models"

// SignalIndex indexes signals for one asset+strategy by date.
func SignalIndex(signals []models.SignalRecord) *DateIndex[models.SignalRecord] {
	ix := NewDateIndex[models.SignalRecord](len(signals))
	for _, s := range signals {
		ix.Put(s.Date, s)
	}
	return ix
}

// FilterSignals keeps the signals of one asset and strategy.
func FilterSignals(signals []models.SignalRecord, assetID, strategyID string) []models.SignalRecord {
	out := make([]models.SignalRecord, 0, len(signals))
	for _, s := range signals {
		if s.AssetID == assetID && s.StrategyID == strategyID {
			out = append(out, s)
		}
	}
	return out
}

// BuildOverlay emits one point per price date (deduplicated, ascending) and
// attaches the signal of that date when its direction is non-zero. A date
// whose price is unknown keeps its point with a null price. Signals on dates
// outside the price series are dropped.
func BuildOverlay(prices models.Series, signals []models.SignalRecord) []models.OverlayPoint {
	ix := SignalIndex(signals)
	records := Dedupe(prices).Records
	out := make([]models.OverlayPoint, 0, len(records))
	for _, p := range records {
		pt := models.OverlayPoint{Date: p.Date, Price: p.Value}
		if s, ok := ix.Get(p.Date); ok && s.Direction != models.DirectionNone {
			pt.Signal = &models.OverlaySignal{
				Direction: s.Direction,
				Score:     s.Score.Ptr(),
				Action:    s.Action,
			}
		}
		out = append(out, pt)
	}
	return out
}

// LatestSignal returns the chronologically latest signal, later input
// winning on equal dates.
func LatestSignal(signals []models.SignalRecord) (models.SignalRecord, bool) {
	_, s, ok := SignalIndex(signals).Latest()
	return s, ok
}
