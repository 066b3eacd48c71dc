package models

import (
	"time"

	"github.com/renoa-ops/renoa-api/internal/grid"
)

// ShiftRecord is a persisted cumplido row with its bookkeeping columns.
type ShiftRecord struct {
	grid.Record
	BusinessUnitID int64     `db:"id_unidad" json:"business_unit_id"`
	PostName       string    `db:"nombre_puesto" json:"post_name"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// ShiftRecordFilter selects records over an inclusive date range, optionally
// restricted to one business unit.
type ShiftRecordFilter struct {
	BusinessUnitID *int64
	From           time.Time
	To             time.Time
}

// GridRecords strips bookkeeping columns for the grid loader.
func GridRecords(records []ShiftRecord) []grid.Record {
	out := make([]grid.Record, len(records))
	for i, rec := range records {
		out[i] = rec.Record
	}
	return out
}
