package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/renoa-ops/renoa-api/internal/models"
)

// BusinessUnitRepository reads business units (unidades de negocio).
type BusinessUnitRepository struct {
	db *sqlx.DB
}

// NewBusinessUnitRepository constructs the repository.
func NewBusinessUnitRepository(db *sqlx.DB) *BusinessUnitRepository {
	return &BusinessUnitRepository{db: db}
}

// List returns business units ordered by name.
func (r *BusinessUnitRepository) List(ctx context.Context, activeOnly bool) ([]models.BusinessUnit, error) {
	query := `SELECT id_unidad, nombre, activo FROM unidades_negocio`
	if activeOnly {
		query += ` WHERE activo = TRUE`
	}
	query += ` ORDER BY nombre ASC`
	var units []models.BusinessUnit
	if err := r.db.SelectContext(ctx, &units, query); err != nil {
		return nil, fmt.Errorf("list business units: %w", err)
	}
	return units, nil
}

// FindByID fetches one business unit.
func (r *BusinessUnitRepository) FindByID(ctx context.Context, id int64) (*models.BusinessUnit, error) {
	const query = `SELECT id_unidad, nombre, activo FROM unidades_negocio WHERE id_unidad = $1`
	var unit models.BusinessUnit
	if err := r.db.GetContext(ctx, &unit, query, id); err != nil {
		return nil, err
	}
	return &unit, nil
}
