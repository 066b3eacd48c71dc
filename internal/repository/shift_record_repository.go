package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/renoa-ops/renoa-api/internal/grid"
	"github.com/renoa-ops/renoa-api/internal/models"
)

const shiftRecordSelect = `SELECT c.id_cumplido, c.id_puesto, c.fecha, c.id_tipo_turno, COALESCE(c.nombre_colaborador, '') AS nombre_colaborador,
       c.calificaciones, COALESCE(c.observaciones, '') AS observaciones, p.id_unidad, p.nombre AS nombre_puesto, c.created_at, c.updated_at
FROM cumplidos c JOIN puestos p ON p.id_puesto = c.id_puesto`

// ShiftRecordRepository persists cumplidos.
type ShiftRecordRepository struct {
	db *sqlx.DB
}

// NewShiftRecordRepository constructs the repository.
func NewShiftRecordRepository(db *sqlx.DB) *ShiftRecordRepository {
	return &ShiftRecordRepository{db: db}
}

// ListByBusinessDate returns every record of the business unit's posts on date.
func (r *ShiftRecordRepository) ListByBusinessDate(ctx context.Context, businessID int64, date time.Time) ([]models.ShiftRecord, error) {
	query := shiftRecordSelect + ` WHERE p.id_unidad = $1 AND c.fecha = $2 ORDER BY c.id_puesto, c.id_tipo_turno`
	var records []models.ShiftRecord
	if err := r.db.SelectContext(ctx, &records, query, businessID, dateOnly(date)); err != nil {
		return nil, fmt.Errorf("list shift records: %w", err)
	}
	return records, nil
}

// ListByRange returns records over an inclusive date range.
func (r *ShiftRecordRepository) ListByRange(ctx context.Context, filter models.ShiftRecordFilter) ([]models.ShiftRecord, error) {
	conditions := []string{"c.fecha BETWEEN $1 AND $2"}
	args := []interface{}{dateOnly(filter.From), dateOnly(filter.To)}
	if filter.BusinessUnitID != nil {
		args = append(args, *filter.BusinessUnitID)
		conditions = append(conditions, fmt.Sprintf("p.id_unidad = $%d", len(args)))
	}
	query := fmt.Sprintf("%s WHERE %s ORDER BY c.fecha, p.nombre, c.id_tipo_turno", shiftRecordSelect, strings.Join(conditions, " AND "))
	var records []models.ShiftRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list shift records by range: %w", err)
	}
	return records, nil
}

// FindByID fetches a record.
func (r *ShiftRecordRepository) FindByID(ctx context.Context, id int64) (*models.ShiftRecord, error) {
	query := shiftRecordSelect + ` WHERE c.id_cumplido = $1`
	var record models.ShiftRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// Create inserts a record and returns its identifier. A concurrent insert of
// the same (post, date, shift) key is merged into the existing row.
func (r *ShiftRecordRepository) Create(ctx context.Context, record *grid.Record) (int64, error) {
	ratings := record.Ratings
	if ratings == nil {
		ratings = grid.Ratings{}
	}
	const query = `INSERT INTO cumplidos (id_puesto, fecha, id_tipo_turno, nombre_colaborador, calificaciones, observaciones, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
ON CONFLICT (id_puesto, fecha, id_tipo_turno)
DO UPDATE SET calificaciones = EXCLUDED.calificaciones,
              nombre_colaborador = CASE WHEN EXCLUDED.nombre_colaborador <> '' THEN EXCLUDED.nombre_colaborador ELSE cumplidos.nombre_colaborador END,
              updated_at = EXCLUDED.updated_at
RETURNING id_cumplido`
	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		record.PostID, dateOnly(record.Date), int(record.Shift), record.Collaborator, ratings, record.Notes, time.Now().UTC(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create shift record: %w", err)
	}
	record.ID = id
	return id, nil
}

// UpdateRatings overwrites the ratings of a record and, when collaborator is
// non-nil, its collaborator name.
func (r *ShiftRecordRepository) UpdateRatings(ctx context.Context, id int64, ratings grid.Ratings, collaborator *string) error {
	if ratings == nil {
		ratings = grid.Ratings{}
	}
	query := `UPDATE cumplidos SET calificaciones = $2, updated_at = $3`
	args := []interface{}{id, ratings, time.Now().UTC()}
	if collaborator != nil {
		args = append(args, *collaborator)
		query += fmt.Sprintf(", nombre_colaborador = $%d", len(args))
	}
	query += ` WHERE id_cumplido = $1`
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update shift record ratings: %w", err)
	}
	return expectAffected(res)
}

// UpdateNote sets or clears the note of one rating cell, keeping its value.
// The read-modify-write runs in one transaction with the row locked.
func (r *ShiftRecordRepository) UpdateNote(ctx context.Context, id int64, slot, clock string, note *string) (grid.Cell, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return grid.Cell{}, fmt.Errorf("begin note tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var ratings grid.Ratings
	if err = tx.GetContext(ctx, &ratings, `SELECT calificaciones FROM cumplidos WHERE id_cumplido = $1 FOR UPDATE`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return grid.Cell{}, err
		}
		return grid.Cell{}, fmt.Errorf("lock shift record: %w", err)
	}
	if ratings == nil {
		ratings = grid.Ratings{}
	}

	cell, _ := ratings.Get(slot, clock)
	cell.Note = note
	if cell.IsEmpty() {
		ratings.Delete(slot, clock)
	} else {
		ratings.Put(slot, clock, cell)
	}

	if _, err = tx.ExecContext(ctx, `UPDATE cumplidos SET calificaciones = $2, updated_at = $3 WHERE id_cumplido = $1`, id, ratings, time.Now().UTC()); err != nil {
		return grid.Cell{}, fmt.Errorf("write note: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return grid.Cell{}, fmt.Errorf("commit note tx: %w", err)
	}
	return cell, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
