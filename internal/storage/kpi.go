package storage

// LineKPI aggregates one production line over a month: averaged ratios,
// summed category hours and summed output counts across the line's machines.
type LineKPI struct {
	LineID     int64      `json:"line_id"`
	LineName   string     `json:"line_name"`
	Ratios     Ratios     `json:"ratios"`
	Categories Categories `json:"categories"`
	Output     KPIOutput  `json:"output"`
}

// MachineKPI is the per-machine breakdown used by the workbook export.
type MachineKPI struct {
	MachineID   int64
	MachineName string
	Ratios      Ratios
	Categories  Categories
}

type KPIOutput struct {
	Total float64 `json:"total"`
	OK    float64 `json:"ok"`
	NG    float64 `json:"ng"`
}
