package models

import (
	"time"

	"github.com/renoa-ops/renoa-api/internal/grid"
)

// ShiftConfiguration is a date-effective count of reportable slots per
// shift category for one business unit (configuración de cumplidos).
type ShiftConfiguration struct {
	ID             int64     `db:"id_configuracion" json:"id"`
	BusinessUnitID int64     `db:"id_unidad" json:"business_unit_id"`
	StartDate      time.Time `db:"fecha_inicio" json:"start_date"`
	grid.SlotCounts
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ToGrid converts the row into the grid column model input.
func (c ShiftConfiguration) ToGrid() grid.Configuration {
	return grid.Configuration{ID: c.ID, StartDate: c.StartDate, Counts: c.SlotCounts}
}
