package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/renoa-ops/renoa-api/internal/models"
)

const novedadSelect = `SELECT n.id, n.id_unidad, COALESCE(u.nombre, '') AS nombre_unidad, n.id_puesto, p.nombre AS nombre_puesto, n.fecha_hora, n.tipo,
       n.descripcion, n.reportado_por, n.evidencias, n.notificado_en, n.created_at, n.updated_at
FROM novedades n
LEFT JOIN unidades_negocio u ON u.id_unidad = n.id_unidad
LEFT JOIN puestos p ON p.id_puesto = n.id_puesto`

// NovedadRepository persists incident reports.
type NovedadRepository struct {
	db *sqlx.DB
}

// NewNovedadRepository constructs the repository.
func NewNovedadRepository(db *sqlx.DB) *NovedadRepository {
	return &NovedadRepository{db: db}
}

// List returns novedades matching the filter, newest first, with the total count.
func (r *NovedadRepository) List(ctx context.Context, filter models.NovedadFilter) ([]models.Novedad, int, error) {
	var p predicates
	if filter.BusinessUnitID != nil {
		p.add("n.id_unidad = ?", *filter.BusinessUnitID)
	}
	if filter.PostID != nil {
		p.add("n.id_puesto = ?", *filter.PostID)
	}
	if filter.Type != nil {
		p.add("n.tipo = ?", *filter.Type)
	}
	if filter.From != nil {
		p.add("n.fecha_hora >= ?", *filter.From)
	}
	if filter.To != nil {
		p.add("n.fecha_hora < ?", *filter.To)
	}
	where, args := p.where(), p.args

	_, size, offset := pageBounds(filter.Page, filter.PageSize, 20, 200)
	query := fmt.Sprintf("%s%s ORDER BY n.fecha_hora DESC LIMIT %d OFFSET %d", novedadSelect, where, size, offset)

	var items []models.Novedad
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list novedades: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM novedades n"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count novedades: %w", err)
	}
	return items, total, nil
}

// FindByID fetches a novedad.
func (r *NovedadRepository) FindByID(ctx context.Context, id string) (*models.Novedad, error) {
	query := novedadSelect + ` WHERE n.id = $1`
	var item models.Novedad
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a novedad.
func (r *NovedadRepository) Create(ctx context.Context, item *models.Novedad) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.Evidence == nil {
		item.Evidence = models.EvidenceFiles{}
	}
	const query = `INSERT INTO novedades (id, id_unidad, id_puesto, fecha_hora, tipo, descripcion, reportado_por, evidencias, created_at, updated_at)
VALUES (:id, :id_unidad, :id_puesto, :fecha_hora, :tipo, :descripcion, :reportado_por, :evidencias, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create novedad: %w", err)
	}
	return nil
}

// AppendEvidence adds a file reference to the novedad's evidence list.
func (r *NovedadRepository) AppendEvidence(ctx context.Context, id string, file models.EvidenceFile) error {
	payload, err := models.EvidenceFiles{file}.Value()
	if err != nil {
		return err
	}
	const query = `UPDATE novedades SET evidencias = COALESCE(evidencias, '[]'::jsonb) || $2::jsonb, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, payload, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("append evidence: %w", err)
	}
	return expectAffected(res)
}

// MarkNotified stamps the time the notification email went out.
func (r *NovedadRepository) MarkNotified(ctx context.Context, id string, at time.Time) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE novedades SET notificado_en = $2 WHERE id = $1`, id, at); err != nil {
		return fmt.Errorf("mark novedad notified: %w", err)
	}
	return nil
}

// Delete removes a novedad.
func (r *NovedadRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM novedades WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete novedad: %w", err)
	}
	return expectAffected(res)
}
