package report

import (
	"fmt"
	"math"
	"sdvn-backend/internal/storage"
)

// CategoryOrder is the fixed display order of the day time categories. The
// dashboard pie and the export columns both rely on it.
var CategoryOrder = []string{
	"Operation",
	"SmallStop",
	"Fault",
	"Break",
	"Maintenance",
	"Eat",
	"Waiting",
	"MachineryEdit",
	"ChangeProductCode",
	"Glue_CleaningPaper",
	"Others",
}

var categoryColors = map[string]string{
	"Operation":          "#00a03e",
	"SmallStop":          "#f97316",
	"Fault":              "#ef4444",
	"Break":              "#eab308",
	"Maintenance":        "#6b21a8",
	"Eat":                "#22c55e",
	"Waiting":            "#0ea5e9",
	"MachineryEdit":      "#1d4ed8",
	"ChangeProductCode":  "#a855f7",
	"Glue_CleaningPaper": "#fb7185",
	"Others":             "#6b7280",
}

// CategoryValues lists the category durations in display order.
func CategoryValues(c storage.Categories) []float64 {
	return []float64{
		c.Operation, c.SmallStop, c.Fault, c.Break, c.Maintenance, c.Eat,
		c.Waiting, c.MachineryEdit, c.ChangeProductCode, c.GlueCleaningPaper, c.Others,
	}
}

// DaysInMonth returns the day count used for zero-filling month series.
// February is pinned to 28: the stored data has never carried Feb 29 and the
// dashboard grids are built for 28 columns.
func DaysInMonth(month int) int {
	switch month {
	case 2:
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// HoursText renders a duration in hours as "8h 30m".
func HoursText(hours float64) string {
	h := int(math.Floor(hours))
	m := int(math.Round((hours - float64(h)) * 60))
	return fmt.Sprintf("%dh %dm", h, m)
}

type CategoryDetail struct {
	Label     string  `json:"label"`
	Value     float64 `json:"value"`
	Time      string  `json:"time"`
	Ratio     float64 `json:"ratio"`
	RatioText string  `json:"ratio_text"`
	Color     string  `json:"color"`
}

type PiePoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// DeriveCategories turns raw category hours into the detail table and pie
// points. A non-positive total is replaced by 1.0 so every ratio comes out as
// 0% instead of a division error; that sentinel is long-standing dashboard
// behavior.
func DeriveCategories(c storage.Categories) ([]CategoryDetail, []PiePoint, float64) {
	total := c.Total()
	if total <= 0 {
		total = 1.0
	}

	values := CategoryValues(c)

	details := make([]CategoryDetail, 0, len(CategoryOrder))
	pie := make([]PiePoint, 0, len(CategoryOrder))

	for i, label := range CategoryOrder {
		hours := values[i]
		ratio := Round2(hours / total * 100.0)

		details = append(details, CategoryDetail{
			Label:     label,
			Value:     hours,
			Time:      HoursText(hours),
			Ratio:     ratio,
			RatioText: fmt.Sprintf("%.2f%%", ratio),
			Color:     categoryColors[label],
		})
		pie = append(pie, PiePoint{
			Name:  label,
			Value: ratio,
			Color: categoryColors[label],
		})
	}

	return details, pie, total
}

type Product struct {
	Total     int     `json:"total"`
	OK        int     `json:"ok"`
	NG        int     `json:"ng"`
	Ratio     float64 `json:"ratio"`
	RatioText string  `json:"ratio_text"`
}

// DeriveProduct computes the OK-product ratio; zero or missing output counts
// give a 0 ratio, not an error.
func DeriveProduct(p *storage.ProductionOutput) Product {
	var total, okCnt, ng float64
	if p != nil {
		total, okCnt, ng = p.Total, p.OK, p.NG
	}

	var ratio float64
	if total > 0 {
		ratio = okCnt * 100.0 / total
	}

	return Product{
		Total:     int(total),
		OK:        int(okCnt),
		NG:        int(ng),
		Ratio:     Round2(ratio),
		RatioText: fmt.Sprintf("%.2f%%", ratio),
	}
}

// Percentages converts category hours into per-category percentages of the
// day total. Used by the exports, where an empty day stays all-zero rather
// than going through the sentinel denominator.
func Percentages(c storage.Categories) storage.Categories {
	total := c.Total()
	if total <= 0 {
		return storage.Categories{}
	}

	pct := func(v float64) float64 {
		return Round2(v * 100.0 / total)
	}

	return storage.Categories{
		Operation:         pct(c.Operation),
		SmallStop:         pct(c.SmallStop),
		Fault:             pct(c.Fault),
		Break:             pct(c.Break),
		Maintenance:       pct(c.Maintenance),
		Eat:               pct(c.Eat),
		Waiting:           pct(c.Waiting),
		MachineryEdit:     pct(c.MachineryEdit),
		ChangeProductCode: pct(c.ChangeProductCode),
		GlueCleaningPaper: pct(c.GlueCleaningPaper),
		Others:            pct(c.Others),
	}
}

func roundCategories(c storage.Categories) storage.Categories {
	return storage.Categories{
		Operation:         Round2(c.Operation),
		SmallStop:         Round2(c.SmallStop),
		Fault:             Round2(c.Fault),
		Break:             Round2(c.Break),
		Maintenance:       Round2(c.Maintenance),
		Eat:               Round2(c.Eat),
		Waiting:           Round2(c.Waiting),
		MachineryEdit:     Round2(c.MachineryEdit),
		ChangeProductCode: Round2(c.ChangeProductCode),
		GlueCleaningPaper: Round2(c.GlueCleaningPaper),
		Others:            Round2(c.Others),
	}
}
