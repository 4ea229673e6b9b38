package storage

type PlanProduction struct {
	PlanID        int64   `json:"plan_id"`
	MachineID     int64   `json:"machine_id"`
	MachineName   string  `json:"machine_name"`
	Date          string  `json:"date"`
	DayPlan       float64 `json:"day_plan"`
	TargetProduct int64   `json:"target_product"`
	StartShift1   *string `json:"startShift1"`
	EndShift1     *string `json:"endShift1"`
	StartShift2   *string `json:"startShift2"`
	EndShift2     *string `json:"endShift2"`
	CycleTime     float64 `json:"cycle_time"`
}

// PlanEdit is one element of a bulk-update request body. CycleTime comes in
// as a string: empty means "keep the machine's stored cycle time".
type PlanEdit struct {
	PlanID      int64  `json:"plan_id"`
	MachineID   int64  `json:"machine_id"`
	Date        string `json:"date"`
	StartShift1 string `json:"startShift1"`
	EndShift1   string `json:"endShift1"`
	StartShift2 string `json:"startShift2"`
	EndShift2   string `json:"endShift2"`
	CycleTime   string `json:"cycleTime"`
}

// PlanUpdate is a fully derived edit ready to be written. NewCycleTime is
// non-nil only when the request supplied a cycle time, in which case it is
// also persisted onto the machine row.
type PlanUpdate struct {
	PlanID        int64
	MachineID     int64
	DayPlan       float64
	TargetProduct int64
	StartShift1   *string
	EndShift1     *string
	StartShift2   *string
	EndShift2     *string
	NewCycleTime  *float64
}

// DayPlanDefaults drives the lazy creation of missing plan_production rows.
// The day path seeds a 16 hour plan, the month backfill seeds 0 hours.
type DayPlanDefaults struct {
	DayPlan     float64
	StartShift1 string
	EndShift1   string
	StartShift2 string
	EndShift2   string
}
