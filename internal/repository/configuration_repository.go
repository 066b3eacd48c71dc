package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/renoa-ops/renoa-api/internal/models"
)

const configurationColumns = `id_configuracion, id_unidad, fecha_inicio, cantidad_diurno, cantidad_turno_b, cantidad_nocturno, created_at`

// ConfigurationRepository persists date-effective slot configurations.
type ConfigurationRepository struct {
	db *sqlx.DB
}

// NewConfigurationRepository constructs the repository.
func NewConfigurationRepository(db *sqlx.DB) *ConfigurationRepository {
	return &ConfigurationRepository{db: db}
}

// ListByBusiness returns every configuration of a business unit, newest first.
func (r *ConfigurationRepository) ListByBusiness(ctx context.Context, businessID int64) ([]models.ShiftConfiguration, error) {
	query := `SELECT ` + configurationColumns + ` FROM configuraciones_cumplidos WHERE id_unidad = $1 ORDER BY fecha_inicio DESC`
	var configs []models.ShiftConfiguration
	if err := r.db.SelectContext(ctx, &configs, query, businessID); err != nil {
		return nil, fmt.Errorf("list configurations: %w", err)
	}
	return configs, nil
}

// FindByID fetches one configuration.
func (r *ConfigurationRepository) FindByID(ctx context.Context, id int64) (*models.ShiftConfiguration, error) {
	query := `SELECT ` + configurationColumns + ` FROM configuraciones_cumplidos WHERE id_configuracion = $1`
	var cfg models.ShiftConfiguration
	if err := r.db.GetContext(ctx, &cfg, query, id); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Create inserts a configuration, replacing any row with the same start date.
func (r *ConfigurationRepository) Create(ctx context.Context, cfg *models.ShiftConfiguration) error {
	cfg.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO configuraciones_cumplidos (id_unidad, fecha_inicio, cantidad_diurno, cantidad_turno_b, cantidad_nocturno, created_at)
VALUES (:id_unidad, :fecha_inicio, :cantidad_diurno, :cantidad_turno_b, :cantidad_nocturno, :created_at)
ON CONFLICT (id_unidad, fecha_inicio)
DO UPDATE SET cantidad_diurno = EXCLUDED.cantidad_diurno, cantidad_turno_b = EXCLUDED.cantidad_turno_b,
              cantidad_nocturno = EXCLUDED.cantidad_nocturno
RETURNING id_configuracion`
	rows, err := r.db.NamedQueryContext(ctx, query, cfg)
	if err != nil {
		return fmt.Errorf("create configuration: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&cfg.ID); err != nil {
			return fmt.Errorf("scan configuration id: %w", err)
		}
	}
	return rows.Err()
}

// Delete removes a configuration.
func (r *ConfigurationRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM configuraciones_cumplidos WHERE id_configuracion = $1`, id)
	if err != nil {
		return fmt.Errorf("delete configuration: %w", err)
	}
	return expectAffected(res)
}
