package storage

type Line struct {
	LineID   int64  `json:"idline"`
	LineName string `json:"ten_line"`
}

type Machine struct {
	MachineID   int64  `json:"id"`
	MachineName string `json:"name"`
}
