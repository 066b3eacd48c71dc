package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renoa-ops/renoa-api/internal/grid"
	"github.com/renoa-ops/renoa-api/internal/models"
)

var configurationRowColumns = []string{"id_configuracion", "id_unidad", "fecha_inicio", "cantidad_diurno", "cantidad_turno_b", "cantidad_nocturno", "created_at"}

func TestConfigurationRepositoryListByBusiness(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewConfigurationRepository(db)

	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(configurationRowColumns).
		AddRow(int64(2), int64(5), start, 2, 1, 2, start).
		AddRow(int64(1), int64(5), start.AddDate(0, -3, 0), 1, 0, 1, start)
	mock.ExpectQuery("FROM configuraciones_cumplidos WHERE id_unidad = \\$1 ORDER BY fecha_inicio DESC").
		WithArgs(int64(5)).
		WillReturnRows(rows)

	configs, err := repo.ListByBusiness(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, configs, 2)
	assert.Equal(t, grid.SlotCounts{Day: 2, ShiftB: 1, Night: 2}, configs[0].SlotCounts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigurationRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewConfigurationRepository(db)

	mock.ExpectQuery("INSERT INTO configuraciones_cumplidos").
		WillReturnRows(sqlmock.NewRows([]string{"id_configuracion"}).AddRow(int64(9)))

	cfg := &models.ShiftConfiguration{BusinessUnitID: 5, StartDate: time.Now(), SlotCounts: grid.SlotCounts{Day: 3}}
	require.NoError(t, repo.Create(context.Background(), cfg))
	assert.Equal(t, int64(9), cfg.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigurationRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewConfigurationRepository(db)

	mock.ExpectExec("DELETE FROM configuraciones_cumplidos").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 3)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
