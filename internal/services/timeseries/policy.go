package timeseries

import (
	"sort"

	"FinLens/internal/domain/models"
)

// DateIndex is the single merge policy for date-keyed data: one value per
// date, and a later Put for the same date replaces the earlier one. The
// merger, the signal index and the latest-value selector all go through it.
type DateIndex[T any] struct {
	items map[models.CalendarDate]T
}

func NewDateIndex[T any](sizeHint int) *DateIndex[T] {
	return &DateIndex[T]{items: make(map[models.CalendarDate]T, sizeHint)}
}

// Put stores v for d, overwriting any previous value.
func (ix *DateIndex[T]) Put(d models.CalendarDate, v T) {
	ix.items[d] = v
}

func (ix *DateIndex[T]) Get(d models.CalendarDate) (T, bool) {
	v, ok := ix.items[d]
	return v, ok
}

func (ix *DateIndex[T]) Len() int { return len(ix.items) }

// Dates returns the indexed dates in ascending order.
func (ix *DateIndex[T]) Dates() []models.CalendarDate {
	out := make([]models.CalendarDate, 0, len(ix.items))
	for d := range ix.items {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Latest returns the value on the greatest date.
func (ix *DateIndex[T]) Latest() (models.CalendarDate, T, bool) {
	var (
		best  models.CalendarDate
		value T
		found bool
	)
	for d, v := range ix.items {
		if !found || best.Before(d) {
			best, value, found = d, v, true
		}
	}
	return best, value, found
}
