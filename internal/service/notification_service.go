package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/renoa-ops/renoa-api/internal/models"
	"github.com/renoa-ops/renoa-api/pkg/export"
	"github.com/renoa-ops/renoa-api/pkg/jobs"
	"github.com/renoa-ops/renoa-api/pkg/mailer"
)

const notifyJobType = "novedad.notify"

type notificationStore interface {
	FindByID(ctx context.Context, id string) (*models.Novedad, error)
	MarkNotified(ctx context.Context, id string, at time.Time) error
}

type mailSender interface {
	Send(ctx context.Context, msg mailer.Message) error
}

type pdfRenderer interface {
	Render(report export.Report) ([]byte, error)
}

// NotifyPayload is the queued job body.
type NotifyPayload struct {
	NovedadID  string
	Recipients []string
}

// NotificationServiceConfig configures the notification worker pool.
type NotificationServiceConfig struct {
	Recipients []string
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
}

var novedadEmail = template.Must(template.New("novedad").Parse(`<h2>Novedad {{.Type}}</h2>
<p><strong>Unidad:</strong> {{.BusinessUnitName}}{{if .PostName}} / {{.PostName}}{{end}}</p>
<p><strong>Fecha:</strong> {{.OccurredAt.Format "2006-01-02 15:04"}}</p>
<p><strong>Reportado por:</strong> {{.ReportedBy}}</p>
<p>{{.Description}}</p>
{{if .Evidence}}<p>{{len .Evidence}} evidence file(s) attached to the report.</p>{{end}}`))

// NotificationService emails novedad reports from a background queue.
type NotificationService struct {
	repo    notificationStore
	mailer  mailSender
	pdf     pdfRenderer
	metrics *MetricsService
	logger  *zap.Logger
	cfg     NotificationServiceConfig
	queue   *jobs.Queue
}

// NewNotificationService constructs the service and its queue. Call Start
// before enqueueing.
func NewNotificationService(repo notificationStore, sender mailSender, pdf pdfRenderer, metrics *MetricsService, logger *zap.Logger, cfg NotificationServiceConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	s := &NotificationService{repo: repo, mailer: sender, pdf: pdf, metrics: metrics, logger: logger, cfg: cfg}
	s.queue = jobs.NewQueue("notifications", s.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
		OnFailure:  s.onFailure,
	})
	if err := metrics.RegisterQueue("notifications", s.queue.Stats); err != nil {
		logger.Warn("notification queue metrics not registered", zap.Error(err))
	}
	return s
}

// Start launches the workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop waits for in-flight jobs to finish.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// Enqueue schedules the email of one novedad. Empty recipients fall back to
// the configured list.
func (s *NotificationService) Enqueue(ctx context.Context, novedadID string, recipients []string) (string, error) {
	recipients = recipientsOrDefault(recipients, s.cfg.Recipients)
	if len(recipients) == 0 {
		return "", fmt.Errorf("no notification recipients configured")
	}
	return s.queue.Enqueue(ctx, jobs.Job{
		Type:    notifyJobType,
		Payload: NotifyPayload{NovedadID: novedadID, Recipients: recipients},
	})
}

func (s *NotificationService) handle(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(NotifyPayload)
	if !ok {
		return jobs.Permanent(fmt.Errorf("unexpected payload %T", job.Payload))
	}
	item, err := s.repo.FindByID(ctx, payload.NovedadID)
	if errors.Is(err, sql.ErrNoRows) {
		return jobs.Permanent(fmt.Errorf("novedad %s no longer exists", payload.NovedadID))
	}
	if err != nil {
		return fmt.Errorf("load novedad %s: %w", payload.NovedadID, err)
	}
	msg, err := s.message(item, payload.Recipients)
	if err != nil {
		return jobs.Permanent(err)
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return err
	}
	if err := s.repo.MarkNotified(ctx, item.ID, time.Now().UTC()); err != nil {
		s.logger.Warn("failed to stamp novedad notification", zap.String("novedad_id", item.ID), zap.Error(err))
	}
	s.metrics.IncNotification(true)
	s.logger.Info("novedad notification sent", zap.String("novedad_id", item.ID), zap.Int("recipients", len(payload.Recipients)))
	return nil
}

func (s *NotificationService) message(item *models.Novedad, recipients []string) (mailer.Message, error) {
	var body bytes.Buffer
	if err := novedadEmail.Execute(&body, item); err != nil {
		return mailer.Message{}, fmt.Errorf("render notification: %w", err)
	}
	report, err := s.pdf.Render(novedadReport(item))
	if err != nil {
		return mailer.Message{}, fmt.Errorf("render novedad pdf: %w", err)
	}
	return mailer.Message{
		To:       recipients,
		Subject:  fmt.Sprintf("[RENOA] Novedad %s - %s", item.Type, item.BusinessUnitName),
		HTMLBody: body.String(),
		TextBody: item.Description,
		Attachments: []mailer.Attachment{{
			Filename:    fmt.Sprintf("novedad_%s.pdf", item.ID),
			ContentType: "application/pdf",
			Data:        report,
		}},
	}, nil
}

func (s *NotificationService) onFailure(job jobs.Job, err error) {
	s.metrics.IncNotification(false)
	id := ""
	if payload, ok := job.Payload.(NotifyPayload); ok {
		id = payload.NovedadID
	}
	s.logger.Error("novedad notification failed", zap.String("job_id", job.ID), zap.String("novedad_id", id), zap.Error(err))
}

func novedadReport(item *models.Novedad) export.Report {
	post := "-"
	if item.PostName != nil {
		post = *item.PostName
	}
	report := export.Report{
		Title: "Novedad " + string(item.Type),
		Fields: []export.Field{
			{Label: "Unidad", Value: item.BusinessUnitName},
			{Label: "Puesto", Value: post},
			{Label: "Fecha", Value: item.OccurredAt.Format("2006-01-02 15:04")},
			{Label: "Reportado por", Value: item.ReportedBy},
		},
		Body: item.Description,
	}
	if len(item.Evidence) > 0 {
		table := export.Dataset{Name: "Evidence", Headers: []string{"File", "Type", "Size"}}
		for _, file := range item.Evidence {
			table.Rows = append(table.Rows, map[string]string{
				"File": file.Name,
				"Type": file.ContentType,
				"Size": fmt.Sprintf("%d", file.Size),
			})
		}
		report.Table = &table
	}
	return report
}

// recipientsOrDefault trims blanks from recipients and falls back when
// nothing is left.
func recipientsOrDefault(recipients, fallback []string) []string {
	out := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
