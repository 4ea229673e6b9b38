package storage

import "time"

// ErrorStat is one grouped row of the error history: all occurrences of an
// error code on a machine inside the requested window.
type ErrorStat struct {
	MachineID    int64
	MachineName  string
	ErrorCode    string
	ErrorName    string
	Count        int64
	FirstStart   time.Time
	LastEnd      time.Time
	TotalSeconds float64
}
