package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renoa-ops/renoa-api/internal/dto"
	"github.com/renoa-ops/renoa-api/internal/models"
	appErrors "github.com/renoa-ops/renoa-api/pkg/errors"
)

type postRepoStub struct {
	posts      map[int64]*models.Post
	lastFilter models.PostFilter
	nextID     int64
}

func newPostRepoStub(posts ...models.Post) *postRepoStub {
	s := &postRepoStub{posts: map[int64]*models.Post{}, nextID: 100}
	for i := range posts {
		p := posts[i]
		s.posts[p.ID] = &p
	}
	return s
}

func (s *postRepoStub) List(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error) {
	s.lastFilter = filter
	var out []models.Post
	for _, p := range s.posts {
		if filter.BusinessUnitID == nil || p.BusinessUnitID == *filter.BusinessUnitID {
			out = append(out, *p)
		}
	}
	return out, len(out), nil
}

func (s *postRepoStub) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	p, ok := s.posts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := *p
	return &out, nil
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	s.nextID++
	post.ID = s.nextID
	stored := *post
	s.posts[post.ID] = &stored
	return nil
}

func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	if _, ok := s.posts[post.ID]; !ok {
		return sql.ErrNoRows
	}
	stored := *post
	s.posts[post.ID] = &stored
	return nil
}

func (s *postRepoStub) Deactivate(ctx context.Context, id int64) error {
	p, ok := s.posts[id]
	if !ok {
		return sql.ErrNoRows
	}
	p.Active = false
	return nil
}

func TestPostServiceListScopesToOwnBusiness(t *testing.T) {
	repo := newPostRepoStub(models.Post{ID: 1, BusinessUnitID: 1}, models.Post{ID: 2, BusinessUnitID: 2})
	svc := NewPostService(repo, &auditStub{}, nil, nil)

	posts, page, err := svc.List(context.Background(), scopedClaims(2), dto.PostQuery{Search: "  gate "})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, int64(2), posts[0].ID)
	assert.Equal(t, "gate", repo.lastFilter.Search)
	assert.Equal(t, &models.Pagination{Page: 1, PageSize: 100, TotalCount: 1}, page)
}

func TestPostServiceCreateAndUpdate(t *testing.T) {
	repo := newPostRepoStub()
	audit := &auditStub{}
	svc := NewPostService(repo, audit, nil, nil)
	ctx := context.Background()

	post, err := svc.Create(ctx, adminClaims(), dto.PostRequest{Name: " Gate ", BusinessUnitID: 1, StartDate: strPtr("2024-05-01")})
	require.NoError(t, err)
	assert.Equal(t, "Gate", post.Name)
	assert.True(t, post.Active)
	require.NotNil(t, post.StartDate)

	repo.posts[post.ID].Active = false
	updated, err := svc.Update(ctx, adminClaims(), post.ID, dto.PostRequest{Name: "Main gate", BusinessUnitID: 1})
	require.NoError(t, err)
	assert.Equal(t, "Main gate", updated.Name)
	assert.False(t, updated.Active)
	assert.Equal(t, []string{models.AuditActionPostWrite, models.AuditActionPostWrite}, audit.actions())
}

func TestPostServiceDeleteDeactivates(t *testing.T) {
	repo := newPostRepoStub(models.Post{ID: 1, BusinessUnitID: 1, Active: true})
	svc := NewPostService(repo, &auditStub{}, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), nil, 1))
	assert.False(t, repo.posts[1].Active)

	err := svc.Delete(context.Background(), scopedClaims(2), 1)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)

	err = svc.Delete(context.Background(), nil, 7)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestPostServiceValidation(t *testing.T) {
	svc := NewPostService(newPostRepoStub(), &auditStub{}, nil, nil)

	_, err := svc.Create(context.Background(), nil, dto.PostRequest{BusinessUnitID: 1})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
