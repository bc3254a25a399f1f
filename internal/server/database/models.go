package database

import "time"

const countersTable = "quota_counters"

// CounterRow is one row of the quota_counters table.
type CounterRow struct {
	Key       string
	MB        float64
	ExpiresAt time.Time
}

// Stats holds aggregate quota statistics.
type Stats struct {
	ActiveCounters int64
	TotalMB        float64
}
