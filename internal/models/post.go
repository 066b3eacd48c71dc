package models

import (
	"time"

	"github.com/renoa-ops/renoa-api/internal/grid"
)

// Post is a staffed position (puesto) inside a business unit.
type Post struct {
	ID               int64      `db:"id_puesto" json:"id"`
	Name             string     `db:"nombre" json:"name"`
	BusinessUnitID   int64      `db:"id_unidad" json:"business_unit_id"`
	BusinessUnitName string     `db:"nombre_unidad" json:"business_unit_name"`
	Active           bool       `db:"activo" json:"active"`
	StartDate        *time.Time `db:"fecha_inicio" json:"start_date,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// ToGrid converts the post into its grid view.
func (p Post) ToGrid() grid.Post {
	return grid.Post{
		ID:             p.ID,
		Name:           p.Name,
		BusinessUnitID: p.BusinessUnitID,
		BusinessUnit:   p.BusinessUnitName,
		Active:         p.Active,
		StartDate:      p.StartDate,
	}
}

// PostFilter captures filters for listing posts.
type PostFilter struct {
	BusinessUnitID *int64
	Active         *bool
	Search         string
	Page           int
	PageSize       int
}
