package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/renoa-ops/renoa-api/internal/models"
)

// NovedadGrouping selects the bucket expression of grouped novedad counts.
type NovedadGrouping string

const (
	GroupByType         NovedadGrouping = "type"
	GroupByBusinessUnit NovedadGrouping = "business_unit"
	GroupByDay          NovedadGrouping = "day"
)

var novedadBuckets = map[NovedadGrouping]string{
	GroupByType:         "n.tipo",
	GroupByBusinessUnit: "COALESCE(u.nombre, n.id_unidad::text)",
	GroupByDay:          "to_char(n.fecha_hora, 'YYYY-MM-DD')",
}

// StatisticsRepository runs aggregate queries for the statistics endpoints.
type StatisticsRepository struct {
	db *sqlx.DB
}

// NewStatisticsRepository constructs the repository.
func NewStatisticsRepository(db *sqlx.DB) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

// CountNovedades returns novedad counts grouped by the given bucket.
func (r *StatisticsRepository) CountNovedades(ctx context.Context, filter models.StatisticsFilter, grouping NovedadGrouping) ([]models.CountBucket, error) {
	bucket, ok := novedadBuckets[grouping]
	if !ok {
		return nil, fmt.Errorf("unknown novedad grouping %q", grouping)
	}
	conditions := []string{"n.fecha_hora >= $1", "n.fecha_hora < $2"}
	args := []interface{}{dateOnly(filter.From), dateOnly(filter.To).AddDate(0, 0, 1)}
	if filter.BusinessUnitID != nil {
		args = append(args, *filter.BusinessUnitID)
		conditions = append(conditions, fmt.Sprintf("n.id_unidad = $%d", len(args)))
	}
	query := fmt.Sprintf(`SELECT %s AS bucket, COUNT(*) AS total
FROM novedades n LEFT JOIN unidades_negocio u ON u.id_unidad = n.id_unidad
WHERE %s GROUP BY bucket ORDER BY bucket`, bucket, strings.Join(conditions, " AND "))

	var buckets []models.CountBucket
	if err := r.db.SelectContext(ctx, &buckets, query, args...); err != nil {
		return nil, fmt.Errorf("count novedades by %s: %w", grouping, err)
	}
	return buckets, nil
}
