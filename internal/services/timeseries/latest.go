package timeseries

import "FinLens/internal/domain/models"

// FactorKey identifies one derived series in the comparison table.
type FactorKey struct {
	AssetID string
	Factor  string
}

// FactorSeries is one (asset, factor) series.
type FactorSeries struct {
	Key     FactorKey
	Records []models.DatedRecord
}

// LatestValue selects the chronologically latest known record of one series.
// Equal dates resolve to the later record in input order.
func LatestValue(records []models.DatedRecord) (models.DatedRecord, bool) {
	ix := NewDateIndex[models.DatedRecord](len(records))
	for _, r := range records {
		if r.Value.Valid {
			ix.Put(r.Date, r)
		}
	}
	_, r, ok := ix.Latest()
	return r, ok
}

// LatestValues reduces each (asset, factor) key to its latest value as
// assetID -> factor -> value. Series sharing a key are pooled before the
// latest date is chosen. Keys without a known value are absent.
func LatestValues(series []FactorSeries) map[string]map[string]float64 {
	byKey := make(map[FactorKey]*DateIndex[models.DatedRecord])
	for _, s := range series {
		ix, ok := byKey[s.Key]
		if !ok {
			ix = NewDateIndex[models.DatedRecord](len(s.Records))
			byKey[s.Key] = ix
		}
		for _, r := range s.Records {
			if r.Value.Valid {
				ix.Put(r.Date, r)
			}
		}
	}

	out := make(map[string]map[string]float64)
	for k, ix := range byKey {
		_, r, ok := ix.Latest()
		if !ok {
			continue
		}
		byFactor, ok := out[k.AssetID]
		if !ok {
			byFactor = make(map[string]float64)
			out[k.AssetID] = byFactor
		}
		byFactor[k.Factor] = r.Value.Value
	}
	return out
}

// BuildFactorTable lays latest values out as one row per factor (in factors
// order) with one column per asset. Rows where no asset has a value are
// omitted.
func BuildFactorTable(assets, factors []string, latest map[string]map[string]float64) models.FactorTable {
	table := models.FactorTable{Assets: append([]string{}, assets...), Rows: []models.FactorRow{}}
	for _, f := range factors {
		row := models.FactorRow{Factor: f, Values: make(map[string]float64)}
		for _, a := range assets {
			if v, ok := latest[a][f]; ok {
				row.Values[a] = v
			}
		}
		if len(row.Values) == 0 {
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}
