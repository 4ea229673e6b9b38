package storage

import "time"

// Categories holds the fixed set of per-day time allocations, in hours.
// The DB column for MachineryEdit is CheckMachinery; queries alias it back.
type Categories struct {
	Operation         float64 `json:"Operation"`
	SmallStop         float64 `json:"SmallStop"`
	Fault             float64 `json:"Fault"`
	Break             float64 `json:"Break"`
	Maintenance       float64 `json:"Maintenance"`
	Eat               float64 `json:"Eat"`
	Waiting           float64 `json:"Waiting"`
	MachineryEdit     float64 `json:"MachineryEdit"`
	ChangeProductCode float64 `json:"ChangeProductCode"`
	GlueCleaningPaper float64 `json:"Glue_CleaningPaper"`
	Others            float64 `json:"Others"`
}

func (c Categories) Total() float64 {
	return c.Operation + c.SmallStop + c.Fault + c.Break + c.Maintenance +
		c.Eat + c.Waiting + c.MachineryEdit + c.ChangeProductCode +
		c.GlueCleaningPaper + c.Others
}

func (c *Categories) AddTo(dst *Categories) {
	dst.Operation += c.Operation
	dst.SmallStop += c.SmallStop
	dst.Fault += c.Fault
	dst.Break += c.Break
	dst.Maintenance += c.Maintenance
	dst.Eat += c.Eat
	dst.Waiting += c.Waiting
	dst.MachineryEdit += c.MachineryEdit
	dst.ChangeProductCode += c.ChangeProductCode
	dst.GlueCleaningPaper += c.GlueCleaningPaper
	dst.Others += c.Others
}

// DayValues is one dayvalues row for a single machine and calendar day.
type DayValues struct {
	Days       time.Time
	PowerRun   float64
	Categories Categories
}

// Ratios are the four precomputed dashboard ratios stored on dayvalues.
type Ratios struct {
	OEE           float64 `json:"oee"`
	OKRatio       float64 `json:"ok_ratio"`
	OutputRatio   float64 `json:"output_ratio"`
	ActivityRatio float64 `json:"activity_ratio"`
}

// DayRatios is a ratio aggregate keyed by a calendar day within a month.
type DayRatios struct {
	Date time.Time
	Ratios
}

// MonthRatios is a ratio aggregate keyed by month number (1..12).
type MonthRatios struct {
	Month int
	Ratios
}

// DayCategories is a category aggregate keyed by a calendar day.
type DayCategories struct {
	Date       time.Time
	Categories Categories
}

// MonthCategories is a category aggregate keyed by month number (1..12).
type MonthCategories struct {
	Month      int
	Categories Categories
}

// MonthExportRow carries everything one export row needs: averaged ratios
// plus summed category hours for a month of a machine.
type MonthExportRow struct {
	Month      int
	Ratios     Ratios
	Categories Categories
}

// DayExportRow is the month-export counterpart, one row per stored day.
type DayExportRow struct {
	Date       time.Time
	Ratios     Ratios
	Categories Categories
}

type ProductionOutput struct {
	Total float64
	OK    float64
	NG    float64
}

// DayValuesInsert mirrors the CSV loader columns. Nil pointers become SQL
// NULL: an empty cell means "no data", not a zero duration.
type DayValuesInsert struct {
	MachineID         int64
	Days              string
	PowerRun          *float64
	Operation         *float64
	SmallStop         *float64
	Fault             *float64
	Break             *float64
	Maintenance       *float64
	Eat               *float64
	Waiting           *float64
	CheckMachinery    *float64
	ChangeProductCode *float64
	GlueCleaningPaper *float64
	Others            *float64
	TargetDayHours    *float64
	OEERatio          *float64
	OKProductRatio    *float64
	OutputRatio       *float64
	ActivityRatio     *float64
	Note              string
}
