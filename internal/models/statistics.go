package models

import "time"

// RatingTotals aggregates rated cells.
type RatingTotals struct {
	Records    int     `json:"records"`
	RatedCells int     `json:"rated_cells"`
	FullMarks  int     `json:"full_marks"`
	Zeroes     int     `json:"zeroes"`
	Notes      int     `json:"notes"`
	Average    float64 `json:"average"`
	Compliance float64 `json:"compliance"`
}

// BusinessCompliance is the compliance breakdown of one business unit.
type BusinessCompliance struct {
	BusinessUnitID int64  `json:"business_unit_id"`
	BusinessUnit   string `json:"business_unit"`
	RatingTotals
}

// ShiftCompliance is the compliance breakdown of one shift category.
type ShiftCompliance struct {
	Shift string `json:"shift"`
	RatingTotals
}

// DailyCompliance is the compliance of one day.
type DailyCompliance struct {
	Date time.Time `json:"date"`
	RatingTotals
}

// ComplianceStatistics summarises ratings over a period.
type ComplianceStatistics struct {
	From           time.Time            `json:"from"`
	To             time.Time            `json:"to"`
	Totals         RatingTotals         `json:"totals"`
	ByBusinessUnit []BusinessCompliance `json:"by_business_unit"`
	ByShift        []ShiftCompliance    `json:"by_shift"`
	Daily          []DailyCompliance    `json:"daily"`
	Novedades      int                  `json:"novedades"`
	GeneratedAt    time.Time            `json:"generated_at"`
}

// CountBucket is one grouped count.
type CountBucket struct {
	Key   string `db:"bucket" json:"key"`
	Count int    `db:"total" json:"count"`
}

// NovedadStatistics summarises novedades over a period.
type NovedadStatistics struct {
	From           time.Time     `json:"from"`
	To             time.Time     `json:"to"`
	Total          int           `json:"total"`
	ByType         []CountBucket `json:"by_type"`
	ByBusinessUnit []CountBucket `json:"by_business_unit"`
	Daily          []CountBucket `json:"daily"`
	GeneratedAt    time.Time     `json:"generated_at"`
}

// StatisticsFilter scopes statistics queries.
type StatisticsFilter struct {
	BusinessUnitID *int64
	From           time.Time
	To             time.Time
}

// SystemMetrics is a lightweight snapshot of process instrumentation.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	GridSaves                uint64    `json:"grid_saves"`
	FailedRecordWrites       uint64    `json:"failed_record_writes"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
