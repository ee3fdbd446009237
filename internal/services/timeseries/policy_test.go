package timeseries

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"FinLens/internal/domain/models"
)

func TestDateIndex(t *testing.T) {
	ix := NewDateIndex[int](0)
	ix.Put("2024-01-02", 1)
	ix.Put("2024-01-01", 2)
	ix.Put("2024-01-02", 3)

	assert.Equal(t, 2, ix.Len())
	assert.Equal(t, []models.CalendarDate{"2024-01-01", "2024-01-02"}, ix.Dates())

	v, ok := ix.Get("2024-01-02")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	d, v, ok := ix.Latest()
	assert.True(t, ok)
	assert.Equal(t, models.CalendarDate("2024-01-02"), d)
	assert.Equal(t, 3, v)

	_, _, ok = NewDateIndex[int](0).Latest()
	assert.False(t, ok)
}
