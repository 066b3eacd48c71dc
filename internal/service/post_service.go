package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/renoa-ops/renoa-api/internal/dto"
	"github.com/renoa-ops/renoa-api/internal/models"
	appErrors "github.com/renoa-ops/renoa-api/pkg/errors"
)

type postRepository interface {
	List(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error)
	FindByID(ctx context.Context, id int64) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	Deactivate(ctx context.Context, id int64) error
}

// PostService manages puestos.
type PostService struct {
	repo      postRepository
	audit     auditLogger
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPostService constructs a PostService.
func NewPostService(repo postRepository, audit auditLogger, validate *validator.Validate, logger *zap.Logger) *PostService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// List returns posts matching the query.
func (s *PostService) List(ctx context.Context, actor *models.JWTClaims, query dto.PostQuery) ([]models.Post, *models.Pagination, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid post query")
	}
	business, err := scopedBusiness(actor, query.BusinessID)
	if err != nil {
		return nil, nil, err
	}
	filter := models.PostFilter{
		BusinessUnitID: business,
		Active:         query.Active,
		Search:         strings.TrimSpace(query.Search),
		Page:           query.Page,
		PageSize:       query.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 100
	}
	posts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list posts")
	}
	return posts, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Create inserts a post.
func (s *PostService) Create(ctx context.Context, actor *models.JWTClaims, req dto.PostRequest) (*models.Post, error) {
	post, err := s.fromRequest(actor, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create post")
	}
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionPostWrite, "post", int64ID(post.ID), post)
	return post, nil
}

// Update modifies a post.
func (s *PostService) Update(ctx context.Context, actor *models.JWTClaims, id int64, req dto.PostRequest) (*models.Post, error) {
	existing, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	post, err := s.fromRequest(actor, req)
	if err != nil {
		return nil, err
	}
	post.ID = existing.ID
	post.CreatedAt = existing.CreatedAt
	if req.Active == nil {
		post.Active = existing.Active
	}
	if err := s.repo.Update(ctx, post); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "post not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update post")
	}
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionPostWrite, "post", int64ID(post.ID), post)
	return post, nil
}

// Delete deactivates a post; its records remain.
func (s *PostService) Delete(ctx context.Context, actor *models.JWTClaims, id int64) error {
	if _, err := s.find(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate post")
	}
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionPostWrite, "post", int64ID(id), map[string]bool{"active": false})
	return nil
}

func (s *PostService) find(ctx context.Context, actor *models.JWTClaims, id int64) (*models.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "post not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load post")
	}
	if err := ensureBusinessAccess(actor, post.BusinessUnitID); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) fromRequest(actor *models.JWTClaims, req dto.PostRequest) (*models.Post, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid post payload")
	}
	if err := ensureBusinessAccess(actor, req.BusinessUnitID); err != nil {
		return nil, err
	}
	post := &models.Post{
		Name:           strings.TrimSpace(req.Name),
		BusinessUnitID: req.BusinessUnitID,
		Active:         true,
	}
	if req.Active != nil {
		post.Active = *req.Active
	}
	if req.StartDate != nil && *req.StartDate != "" {
		start, err := parseDate("startDate", *req.StartDate)
		if err != nil {
			return nil, err
		}
		post.StartDate = &start
	}
	return post, nil
}
