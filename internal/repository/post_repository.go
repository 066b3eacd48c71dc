package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/renoa-ops/renoa-api/internal/models"
)

const postSelect = `SELECT p.id_puesto, p.nombre, p.id_unidad, COALESCE(u.nombre, '') AS nombre_unidad, p.activo, p.fecha_inicio, p.created_at, p.updated_at
FROM puestos p LEFT JOIN unidades_negocio u ON u.id_unidad = p.id_unidad`

// PostRepository manages puestos.
type PostRepository struct {
	db *sqlx.DB
}

// NewPostRepository constructs the repository.
func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

// List returns posts matching the filter with the total count.
func (r *PostRepository) List(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.BusinessUnitID != nil {
		args = append(args, *filter.BusinessUnitID)
		conditions = append(conditions, fmt.Sprintf("p.id_unidad = $%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		conditions = append(conditions, fmt.Sprintf("p.activo = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("LOWER(p.nombre) LIKE $%d", len(args)))
	}
	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	_, size, offset := pageBounds(filter.Page, filter.PageSize, 100, 500)
	query := fmt.Sprintf("%s%s ORDER BY p.nombre ASC LIMIT %d OFFSET %d", postSelect, where, size, offset)

	var posts []models.Post
	if err := r.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM puestos p"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}
	return posts, total, nil
}

// ListByBusiness returns every post of a business unit, inactive ones included,
// so the grid can keep showing posts that already carry records.
func (r *PostRepository) ListByBusiness(ctx context.Context, businessID int64) ([]models.Post, error) {
	query := postSelect + ` WHERE p.id_unidad = $1 ORDER BY p.nombre ASC`
	var posts []models.Post
	if err := r.db.SelectContext(ctx, &posts, query, businessID); err != nil {
		return nil, fmt.Errorf("list posts by business: %w", err)
	}
	return posts, nil
}

// FindByID fetches a post.
func (r *PostRepository) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	query := postSelect + ` WHERE p.id_puesto = $1`
	var post models.Post
	if err := r.db.GetContext(ctx, &post, query, id); err != nil {
		return nil, err
	}
	return &post, nil
}

// Create inserts a post and fills its identifier.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	const query = `INSERT INTO puestos (nombre, id_unidad, activo, fecha_inicio, created_at, updated_at)
VALUES (:nombre, :id_unidad, :activo, :fecha_inicio, :created_at, :updated_at) RETURNING id_puesto`
	rows, err := r.db.NamedQueryContext(ctx, query, post)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&post.ID); err != nil {
			return fmt.Errorf("scan post id: %w", err)
		}
	}
	return rows.Err()
}

// Update modifies a post.
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now().UTC()
	const query = `UPDATE puestos SET nombre = :nombre, id_unidad = :id_unidad, activo = :activo, fecha_inicio = :fecha_inicio, updated_at = :updated_at
WHERE id_puesto = :id_puesto`
	res, err := r.db.NamedExecContext(ctx, query, post)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return expectAffected(res)
}

// Deactivate hides a post from future grids. Records stay attached.
func (r *PostRepository) Deactivate(ctx context.Context, id int64) error {
	const query = `UPDATE puestos SET activo = FALSE, updated_at = $2 WHERE id_puesto = $1`
	res, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate post: %w", err)
	}
	return expectAffected(res)
}
