package report

import (
	"github.com/stretchr/testify/assert"
	"sdvn-backend/internal/storage"
	"testing"
)

func TestDeriveCategories_RatiosSumToHundred(t *testing.T) {
	cats := storage.Categories{
		Operation: 8.0,
		SmallStop: 1.0,
		Break:     1.0,
	}

	details, pie, total := DeriveCategories(cats)

	assert.Equal(t, 10.0, total)
	assert.Len(t, details, 11)
	assert.Len(t, pie, 11)

	byLabel := map[string]CategoryDetail{}
	for _, d := range details {
		byLabel[d.Label] = d
	}

	assert.Equal(t, 80.0, byLabel["Operation"].Ratio)
	assert.Equal(t, "80.00%", byLabel["Operation"].RatioText)
	assert.Equal(t, 10.0, byLabel["SmallStop"].Ratio)
	assert.Equal(t, 10.0, byLabel["Break"].Ratio)
	assert.Equal(t, 0.0, byLabel["Fault"].Ratio)

	var sum float64
	for _, d := range details {
		sum += d.Ratio
	}
	assert.InDelta(t, 100.0, sum, 0.01)
}

func TestDeriveCategories_AllZeroUsesSentinelDenominator(t *testing.T) {
	details, _, total := DeriveCategories(storage.Categories{})

	// total hours of 0 become 1.0 so every ratio is 0%, not a division error
	assert.Equal(t, 1.0, total)
	for _, d := range details {
		assert.Equal(t, 0.0, d.Ratio)
		assert.Equal(t, "0.00%", d.RatioText)
	}
}

func TestDeriveCategories_Order(t *testing.T) {
	details, _, _ := DeriveCategories(storage.Categories{Operation: 1})

	labels := make([]string, 0, len(details))
	for _, d := range details {
		labels = append(labels, d.Label)
	}
	assert.Equal(t, CategoryOrder, labels)
}

func TestHoursText(t *testing.T) {
	assert.Equal(t, "8h 30m", HoursText(8.5))
	assert.Equal(t, "0h 0m", HoursText(0))
	assert.Equal(t, "1h 15m", HoursText(1.25))
	assert.Equal(t, "2h 1m", HoursText(2.0167))
}

func TestDeriveProduct(t *testing.T) {
	p := DeriveProduct(&storage.ProductionOutput{Total: 200, OK: 150, NG: 50})

	assert.Equal(t, 200, p.Total)
	assert.Equal(t, 150, p.OK)
	assert.Equal(t, 50, p.NG)
	assert.Equal(t, 75.0, p.Ratio)
	assert.Equal(t, "75.00%", p.RatioText)
}

func TestDeriveProduct_ZeroTotal(t *testing.T) {
	p := DeriveProduct(&storage.ProductionOutput{Total: 0, OK: 0, NG: 0})
	assert.Equal(t, 0.0, p.Ratio)

	// no output row at all behaves the same
	p = DeriveProduct(nil)
	assert.Equal(t, 0.0, p.Ratio)
	assert.Equal(t, 0, p.Total)
}

func TestPercentages(t *testing.T) {
	pct := Percentages(storage.Categories{Operation: 6, Fault: 2})

	assert.Equal(t, 75.0, pct.Operation)
	assert.Equal(t, 25.0, pct.Fault)
	assert.Equal(t, 0.0, pct.Break)
}

func TestPercentages_EmptyDayStaysZero(t *testing.T) {
	pct := Percentages(storage.Categories{})
	assert.Equal(t, storage.Categories{}, pct)
}

func TestDaysInMonth(t *testing.T) {
	// February is pinned to 28 regardless of leap years
	assert.Equal(t, 28, DaysInMonth(2))

	assert.Equal(t, 31, DaysInMonth(1))
	assert.Equal(t, 30, DaysInMonth(4))
	assert.Equal(t, 30, DaysInMonth(6))
	assert.Equal(t, 30, DaysInMonth(9))
	assert.Equal(t, 30, DaysInMonth(11))
	assert.Equal(t, 31, DaysInMonth(12))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 33.33, Round2(100.0/3.0))
	assert.Equal(t, 0.0, Round2(0))
}
