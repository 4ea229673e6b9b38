package report

import (
	"github.com/stretchr/testify/assert"
	"sdvn-backend/internal/storage"
	"testing"
	"time"
)

func TestFillMonthRatios_DenseSeries(t *testing.T) {
	rows := []storage.DayRatios{
		{
			Date:   time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
			Ratios: storage.Ratios{OEE: 85.5, OKRatio: 99.1, OutputRatio: 90.0, ActivityRatio: 80.0},
		},
		{
			Date:   time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC),
			Ratios: storage.Ratios{OEE: 70.0},
		},
	}

	days := FillMonthRatios(2025, 6, rows)

	assert.Len(t, days, 30)
	for i, d := range days {
		assert.Equal(t, i+1, d.Day)
	}

	assert.Equal(t, "2025-06-03", days[2].Date)
	assert.Equal(t, 85.5, days[2].OEE)
	assert.Equal(t, 70.0, days[16].OEE)

	// day without a stored row is a zero-valued placeholder
	assert.Equal(t, "2025-06-01", days[0].Date)
	assert.Equal(t, 0.0, days[0].OEE)
	assert.Equal(t, 0.0, days[0].OKRatio)
}

func TestFillMonthRatios_FebruaryAlwaysTwentyEight(t *testing.T) {
	days := FillMonthRatios(2024, 2, nil)
	assert.Len(t, days, 28)
	assert.Equal(t, "2024-02-28", days[27].Date)
}

func TestFillYearRatios_TwelveMonths(t *testing.T) {
	rows := []storage.MonthRatios{
		{Month: 5, Ratios: storage.Ratios{OEE: 60.0}},
	}

	months := FillYearRatios(rows)

	assert.Len(t, months, 12)
	for i, m := range months {
		assert.Equal(t, i+1, m.Month)
	}
	assert.Equal(t, 60.0, months[4].OEE)
	assert.Equal(t, 0.0, months[0].OEE)
	assert.Equal(t, 0.0, months[11].OEE)
}

func TestFillMonthCategories_Totals(t *testing.T) {
	rows := []storage.DayCategories{
		{
			Date:       time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
			Categories: storage.Categories{Operation: 8, Break: 1},
		},
		{
			Date:       time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
			Categories: storage.Categories{Operation: 7.5, Fault: 0.255},
		},
	}

	days, totals := FillMonthCategories(2025, 1, rows)

	assert.Len(t, days, 31)
	assert.Equal(t, 8.0, days[1].Categories.Operation)
	assert.Equal(t, storage.Categories{}, days[0].Categories)

	assert.Equal(t, 15.5, totals.Operation)
	assert.Equal(t, 1.0, totals.Break)
	assert.Equal(t, 0.26, totals.Fault)
}

func TestFillYearCategories_TwelveMonths(t *testing.T) {
	months := FillYearCategories([]storage.MonthCategories{
		{Month: 3, Categories: storage.Categories{Operation: 100}},
	})

	assert.Len(t, months, 12)
	assert.Equal(t, 100.0, months[2].Categories.Operation)
	assert.Equal(t, storage.Categories{}, months[0].Categories)
}

func TestFillYearExport_TwelveMonths(t *testing.T) {
	months := FillYearExport([]storage.MonthExportRow{
		{Month: 7, Ratios: storage.Ratios{OEE: 50}, Categories: storage.Categories{Operation: 12}},
	})

	assert.Len(t, months, 12)
	assert.Equal(t, 50.0, months[6].Ratios.OEE)
	assert.Equal(t, 12.0, months[6].Categories.Operation)
	assert.Equal(t, storage.MonthExportRow{Month: 1}, months[0])
}
