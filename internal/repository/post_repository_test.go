package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renoa-ops/renoa-api/internal/models"
)

var postRowColumns = []string{"id_puesto", "nombre", "id_unidad", "nombre_unidad", "activo", "fecha_inicio", "created_at", "updated_at"}

func TestPostRepositoryListByBusinessIncludesInactive(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPostRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(postRowColumns).
		AddRow(int64(1), "Dock", int64(5), "North", false, nil, now, now).
		AddRow(int64(2), "Gate", int64(5), "North", true, now, now, now)
	mock.ExpectQuery("FROM puestos p LEFT JOIN unidades_negocio u ON u.id_unidad = p.id_unidad WHERE p.id_unidad = \\$1").
		WithArgs(int64(5)).
		WillReturnRows(rows)

	posts, err := repo.ListByBusiness(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.False(t, posts[0].Active)
	assert.Nil(t, posts[0].StartDate)
	assert.Equal(t, "North", posts[1].ToGrid().BusinessUnit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepositoryListSearch(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPostRepository(db)

	active := true
	mock.ExpectQuery("WHERE p.activo = \\$1 AND LOWER\\(p.nombre\\) LIKE \\$2 ORDER BY p.nombre ASC LIMIT 100 OFFSET 0").
		WithArgs(true, "%gate%").
		WillReturnRows(sqlmock.NewRows(postRowColumns))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM puestos p WHERE").
		WithArgs(true, "%gate%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	posts, total, err := repo.List(context.Background(), models.PostFilter{Active: &active, Search: "Gate"})
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPostRepository(db)

	mock.ExpectQuery("INSERT INTO puestos").
		WillReturnRows(sqlmock.NewRows([]string{"id_puesto"}).AddRow(int64(12)))

	post := &models.Post{Name: "Lobby", BusinessUnitID: 5, Active: true}
	require.NoError(t, repo.Create(context.Background(), post))
	assert.Equal(t, int64(12), post.ID)
	assert.False(t, post.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBusinessUnitRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBusinessUnitRepository(db)

	mock.ExpectQuery("SELECT id_unidad, nombre, activo FROM unidades_negocio WHERE activo = TRUE ORDER BY nombre ASC").
		WillReturnRows(sqlmock.NewRows([]string{"id_unidad", "nombre", "activo"}).AddRow(int64(5), "North", true))

	units, err := repo.List(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, []models.BusinessUnit{{ID: 5, Name: "North", Active: true}}, units)
	assert.NoError(t, mock.ExpectationsWereMet())
}
