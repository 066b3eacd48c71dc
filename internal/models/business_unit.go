package models

// BusinessUnit groups posts (unidad de negocio).
type BusinessUnit struct {
	ID     int64  `db:"id_unidad" json:"id"`
	Name   string `db:"nombre" json:"name"`
	Active bool   `db:"activo" json:"active"`
}
