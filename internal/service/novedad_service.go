package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/renoa-ops/renoa-api/internal/dto"
	"github.com/renoa-ops/renoa-api/internal/models"
	appErrors "github.com/renoa-ops/renoa-api/pkg/errors"
)

type novedadRepository interface {
	List(ctx context.Context, filter models.NovedadFilter) ([]models.Novedad, int, error)
	FindByID(ctx context.Context, id string) (*models.Novedad, error)
	Create(ctx context.Context, item *models.Novedad) error
	AppendEvidence(ctx context.Context, id string, file models.EvidenceFile) error
	Delete(ctx context.Context, id string) error
}

type evidenceStorage interface {
	SaveStream(name string, r io.Reader, limit int64) (int64, error)
	Open(name string) (*os.File, error)
	Delete(name string) error
}

type evidenceSigner interface {
	Generate(ownerID, relPath string) (string, time.Time, error)
	Parse(token string) (ownerID, relPath string, expiresAt time.Time, err error)
}

type novedadNotifier interface {
	Enqueue(ctx context.Context, novedadID string, recipients []string) (string, error)
}

// EvidenceUpload carries an uploaded evidence file.
type EvidenceUpload struct {
	Filename string
	Size     int64
	MimeType string
	Content  io.ReadSeeker
}

// EvidenceDownload is an opened evidence file ready to stream.
type EvidenceDownload struct {
	File      *os.File
	Filename  string
	MimeType  string
	SizeBytes int64
}

// NovedadServiceConfig holds evidence limits.
type NovedadServiceConfig struct {
	MaxFileSize  int64
	AllowedMIMEs []string
	APIPrefix    string
}

// NovedadService manages incident reports and their evidence files.
type NovedadService struct {
	repo      novedadRepository
	storage   evidenceStorage
	signer    evidenceSigner
	notifier  novedadNotifier
	audit     auditLogger
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
	cfg       NovedadServiceConfig
	mimeSet   map[string]struct{}
}

// NewNovedadService constructs the service. A nil notifier disables emails.
func NewNovedadService(repo novedadRepository, storage evidenceStorage, signer evidenceSigner, notifier novedadNotifier, audit auditLogger, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger, cfg NovedadServiceConfig) *NovedadService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 10 * 1024 * 1024
	}
	if len(cfg.AllowedMIMEs) == 0 {
		cfg.AllowedMIMEs = []string{"image/jpeg", "image/png", "application/pdf"}
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}
	mimeSet := make(map[string]struct{}, len(cfg.AllowedMIMEs))
	for _, mt := range cfg.AllowedMIMEs {
		mimeSet[strings.ToLower(mt)] = struct{}{}
	}
	return &NovedadService{
		repo:      repo,
		storage:   storage,
		signer:    signer,
		notifier:  notifier,
		audit:     audit,
		cache:     cache,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		mimeSet:   mimeSet,
	}
}

// List returns novedades matching the query, newest first.
func (s *NovedadService) List(ctx context.Context, actor *models.JWTClaims, query dto.NovedadQuery) ([]models.Novedad, *models.Pagination, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid novedad query")
	}
	business, err := scopedBusiness(actor, query.BusinessID)
	if err != nil {
		return nil, nil, err
	}
	filter := models.NovedadFilter{
		BusinessUnitID: business,
		PostID:         query.PostID,
		Page:           query.Page,
		PageSize:       query.PageSize,
	}
	if query.Type != nil {
		kind := models.NovedadType(*query.Type)
		filter.Type = &kind
	}
	if query.From != nil {
		from, err := parseDate("from", *query.From)
		if err != nil {
			return nil, nil, err
		}
		filter.From = &from
	}
	if query.To != nil {
		to, err := parseDate("to", *query.To)
		if err != nil {
			return nil, nil, err
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "to must not be before from")
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list novedades")
	}
	return items, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get returns a novedad with signed links to its evidence.
func (s *NovedadService) Get(ctx context.Context, actor *models.JWTClaims, id string) (*dto.NovedadResponse, error) {
	item, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.withLinks(item), nil
}

// Create stores a novedad and, when requested, queues its notification.
func (s *NovedadService) Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateNovedadRequest) (*dto.NovedadResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid novedad payload")
	}
	if err := ensureBusinessAccess(actor, req.BusinessUnitID); err != nil {
		return nil, err
	}
	item := &models.Novedad{
		BusinessUnitID: req.BusinessUnitID,
		PostID:         req.PostID,
		OccurredAt:     req.OccurredAt.UTC(),
		Type:           models.NovedadType(req.Type),
		Description:    strings.TrimSpace(req.Description),
		ReportedBy:     reporterName(actor),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create novedad")
	}
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionNovedadWrite, "novedad", item.ID, item)
	s.invalidateStatistics(ctx)

	if req.Notify {
		if _, err := s.enqueue(ctx, item.ID, nil); err != nil {
			s.logger.Warn("novedad notification not queued", zap.String("novedad_id", item.ID), zap.Error(err))
		}
	}
	return s.withLinks(item), nil
}

// Delete removes a novedad and its stored evidence.
func (s *NovedadService) Delete(ctx context.Context, actor *models.JWTClaims, id string) error {
	item, err := s.find(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "novedad not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete novedad")
	}
	for _, file := range item.Evidence {
		if err := s.storage.Delete(file.Path); err != nil {
			s.logger.Warn("failed to remove evidence file", zap.String("path", file.Path), zap.Error(err))
		}
	}
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionNovedadWrite, "novedad", id, map[string]bool{"deleted": true})
	s.invalidateStatistics(ctx)
	return nil
}

// AddEvidence stores an uploaded file and attaches it to the novedad.
func (s *NovedadService) AddEvidence(ctx context.Context, actor *models.JWTClaims, id string, upload EvidenceUpload) (*dto.NovedadResponse, error) {
	item, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if upload.Content == nil || upload.Size <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}
	if upload.Size > s.cfg.MaxFileSize {
		return nil, appErrors.Clone(appErrors.ErrPayloadTooLarge, fmt.Sprintf("file exceeds %d bytes limit", s.cfg.MaxFileSize))
	}
	mimeType, err := detectMime(upload)
	if err != nil {
		return nil, err
	}
	if _, ok := s.mimeSet[strings.ToLower(mimeType)]; !ok {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedMedia, "mime type not allowed")
	}

	name := sanitizeFilename(upload.Filename)
	relPath := path.Join(item.ID, fmt.Sprintf("%d_%s", time.Now().UnixNano(), name))
	size, err := s.storage.SaveStream(relPath, upload.Content, s.cfg.MaxFileSize)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store evidence")
	}
	file := models.EvidenceFile{Name: name, Path: relPath, ContentType: mimeType, Size: size, UploadedAt: time.Now().UTC()}
	if err := s.repo.AppendEvidence(ctx, item.ID, file); err != nil {
		_ = s.storage.Delete(relPath)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to attach evidence")
	}
	item.Evidence = append(item.Evidence, file)
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionNovedadWrite, "novedad", item.ID, map[string]string{"evidence": file.Name})
	return s.withLinks(item), nil
}

// OpenEvidence validates a signed token and opens the referenced file.
func (s *NovedadService) OpenEvidence(ctx context.Context, id, token string) (*EvidenceDownload, error) {
	ownerID, relPath, _, err := s.signer.Parse(token)
	if err != nil || ownerID != id {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired token")
	}
	item, err := s.find(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	var match *models.EvidenceFile
	for i := range item.Evidence {
		if item.Evidence[i].Path == relPath {
			match = &item.Evidence[i]
			break
		}
	}
	if match == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "evidence not found")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open evidence")
	}
	info, err := file.Stat()
	if err != nil {
		file.Close() //nolint:errcheck
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read evidence metadata")
	}
	return &EvidenceDownload{File: file, Filename: match.Name, MimeType: match.ContentType, SizeBytes: info.Size()}, nil
}

// Notify queues the notification email of a novedad.
func (s *NovedadService) Notify(ctx context.Context, actor *models.JWTClaims, id string, req dto.NotifyNovedadRequest) (*dto.NotifyNovedadResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid recipients")
	}
	if _, err := s.find(ctx, actor, id); err != nil {
		return nil, err
	}
	jobID, err := s.enqueue(ctx, id, req.Recipients)
	if err != nil {
		return nil, err
	}
	return &dto.NotifyNovedadResponse{JobID: jobID}, nil
}

func (s *NovedadService) enqueue(ctx context.Context, id string, recipients []string) (string, error) {
	if s.notifier == nil {
		return "", appErrors.Clone(appErrors.ErrPreconditionFailed, "notifications are disabled")
	}
	jobID, err := s.notifier.Enqueue(ctx, id, recipients)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue notification")
	}
	return jobID, nil
}

func (s *NovedadService) find(ctx context.Context, actor *models.JWTClaims, id string) (*models.Novedad, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "novedad not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load novedad")
	}
	if err := ensureBusinessAccess(actor, item.BusinessUnitID); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *NovedadService) withLinks(item *models.Novedad) *dto.NovedadResponse {
	resp := &dto.NovedadResponse{Novedad: *item, EvidenceLinks: make([]dto.EvidenceLink, 0, len(item.Evidence))}
	if s.signer == nil {
		return resp
	}
	base := strings.TrimRight(s.cfg.APIPrefix, "/")
	for _, file := range item.Evidence {
		token, expiresAt, err := s.signer.Generate(item.ID, file.Path)
		if err != nil {
			s.logger.Warn("failed to sign evidence link", zap.String("novedad_id", item.ID), zap.Error(err))
			continue
		}
		resp.EvidenceLinks = append(resp.EvidenceLinks, dto.EvidenceLink{
			Name:      file.Name,
			URL:       fmt.Sprintf("%s/novedades/%s/evidence?token=%s", base, item.ID, url.QueryEscape(token)),
			ExpiresAt: expiresAt,
		})
	}
	return resp
}

func (s *NovedadService) invalidateStatistics(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, statisticsCachePattern)
	}
}

func detectMime(upload EvidenceUpload) (string, error) {
	if upload.MimeType != "" && upload.MimeType != "application/octet-stream" {
		return upload.MimeType, nil
	}
	header := make([]byte, 512)
	n, err := upload.Content.Read(header)
	if err != nil && err != io.EOF {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect file")
	}
	if _, err := upload.Content.Seek(0, io.SeekStart); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset upload stream")
	}
	if n == 0 {
		return "", appErrors.Clone(appErrors.ErrValidation, "empty file")
	}
	return http.DetectContentType(header[:n]), nil
}

func sanitizeFilename(raw string) string {
	base := filepath.Base(strings.TrimSpace(raw))
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	name := strings.Trim(b.String(), "._")
	if name == "" {
		return "evidence.bin"
	}
	return name
}

func reporterName(actor *models.JWTClaims) string {
	if actor == nil {
		return "system"
	}
	if actor.FullName != "" {
		return actor.FullName
	}
	return actor.UserID
}
