package report

import (
	"fmt"
	"sdvn-backend/internal/storage"
)

// RatioDay is one dense month-series point. Days without a stored row carry
// all-zero ratios.
type RatioDay struct {
	Day  int    `json:"day"`
	Date string `json:"date"`
	storage.Ratios
}

// RatioMonth is one dense year-series point (month 1..12).
type RatioMonth struct {
	Month int `json:"month"`
	storage.Ratios
}

type CategoryDay struct {
	Day        int                `json:"day"`
	Date       string             `json:"date"`
	Categories storage.Categories `json:"categories"`
}

type CategoryMonth struct {
	Month      int                `json:"month"`
	Categories storage.Categories `json:"categories"`
}

func dateString(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// FillMonthRatios produces exactly DaysInMonth(month) entries indexed 1..N,
// zero-valued where the query returned no row for that day.
func FillMonthRatios(year, month int, rows []storage.DayRatios) []RatioDay {
	byDay := make(map[int]storage.DayRatios, len(rows))
	for _, r := range rows {
		byDay[r.Date.Day()] = r
	}

	n := DaysInMonth(month)
	days := make([]RatioDay, 0, n)
	for d := 1; d <= n; d++ {
		point := RatioDay{Day: d, Date: dateString(year, month, d)}
		if r, ok := byDay[d]; ok {
			point.Ratios = r.Ratios
		}
		days = append(days, point)
	}

	return days
}

// FillYearRatios produces exactly 12 entries, one per month.
func FillYearRatios(rows []storage.MonthRatios) []RatioMonth {
	byMonth := make(map[int]storage.MonthRatios, len(rows))
	for _, r := range rows {
		byMonth[r.Month] = r
	}

	months := make([]RatioMonth, 0, 12)
	for m := 1; m <= 12; m++ {
		point := RatioMonth{Month: m}
		if r, ok := byMonth[m]; ok {
			point.Ratios = r.Ratios
		}
		months = append(months, point)
	}

	return months
}

// FillMonthCategories densifies a month of category rows and accumulates the
// monthly totals, rounded to 2 decimals.
func FillMonthCategories(year, month int, rows []storage.DayCategories) ([]CategoryDay, storage.Categories) {
	byDay := make(map[int]storage.DayCategories, len(rows))
	var totals storage.Categories
	for _, r := range rows {
		byDay[r.Date.Day()] = r
		r.Categories.AddTo(&totals)
	}

	n := DaysInMonth(month)
	days := make([]CategoryDay, 0, n)
	for d := 1; d <= n; d++ {
		point := CategoryDay{Day: d, Date: dateString(year, month, d)}
		if r, ok := byDay[d]; ok {
			point.Categories = r.Categories
		}
		days = append(days, point)
	}

	return days, roundCategories(totals)
}

// FillYearCategories produces exactly 12 category entries, one per month.
func FillYearCategories(rows []storage.MonthCategories) []CategoryMonth {
	byMonth := make(map[int]storage.MonthCategories, len(rows))
	for _, r := range rows {
		byMonth[r.Month] = r
	}

	months := make([]CategoryMonth, 0, 12)
	for m := 1; m <= 12; m++ {
		point := CategoryMonth{Month: m}
		if r, ok := byMonth[m]; ok {
			point.Categories = r.Categories
		}
		months = append(months, point)
	}

	return months
}

// FillYearExport densifies the combined ratio+category export rows.
func FillYearExport(rows []storage.MonthExportRow) []storage.MonthExportRow {
	byMonth := make(map[int]storage.MonthExportRow, len(rows))
	for _, r := range rows {
		byMonth[r.Month] = r
	}

	months := make([]storage.MonthExportRow, 0, 12)
	for m := 1; m <= 12; m++ {
		point := storage.MonthExportRow{Month: m}
		if r, ok := byMonth[m]; ok {
			point = r
		}
		months = append(months, point)
	}

	return months
}
