package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/renoa-ops/renoa-api/internal/dto"
	"github.com/renoa-ops/renoa-api/internal/models"
	appErrors "github.com/renoa-ops/renoa-api/pkg/errors"
	"github.com/renoa-ops/renoa-api/pkg/export"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv; charset=utf-8"
)

var (
	detailHeaders  = []string{"Date", "Business unit", "Post", "Shift", "Collaborator", "Slot", "Time", "Rating", "Note"}
	summaryHeaders = []string{"Date", "Records", "Rated cells", "Full marks", "Zeroes", "Average", "Compliance %"}
)

type exportRecordReader interface {
	ListByRange(ctx context.Context, filter models.ShiftRecordFilter) ([]models.ShiftRecord, error)
}

type exportBusinessReader interface {
	FindByID(ctx context.Context, id int64) (*models.BusinessUnit, error)
}

type xlsxRenderer interface {
	Render(sheets ...export.Dataset) ([]byte, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportServiceConfig bounds exports.
type ExportServiceConfig struct {
	MaxRangeDays int
}

// ExportService renders shift records of a day or a date range into
// spreadsheets.
type ExportService struct {
	records   exportRecordReader
	units     exportBusinessReader
	xlsx      xlsxRenderer
	csv       csvRenderer
	audit     auditLogger
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ExportServiceConfig
}

// NewExportService constructs an ExportService.
func NewExportService(records exportRecordReader, units exportBusinessReader, audit auditLogger, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg ExportServiceConfig, xlsx xlsxRenderer, csv csvRenderer) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxRangeDays <= 0 {
		cfg.MaxRangeDays = 93
	}
	if xlsx == nil {
		xlsx = export.NewXLSXExporter()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	return &ExportService{
		records:   records,
		units:     units,
		xlsx:      xlsx,
		csv:       csv,
		audit:     audit,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Export renders the requested period. It fails with NO_DATA when the
// period holds no records.
func (s *ExportService) Export(ctx context.Context, actor *models.JWTClaims, req dto.ExportRequest) (*dto.ExportFile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}
	if err := ensureBusinessAccess(actor, req.BusinessID); err != nil {
		return nil, err
	}
	from, to, err := s.period(req)
	if err != nil {
		return nil, err
	}
	format := req.Format
	if format == "" {
		format = dto.ExportFormatXLSX
	}

	business := req.BusinessID
	records, err := s.records.ListByRange(ctx, models.ShiftRecordFilter{BusinessUnitID: &business, From: from, To: to})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load shift records")
	}
	if len(records) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoData, "no records for the requested period")
	}

	unitName := strconv.FormatInt(req.BusinessID, 10)
	if unit, err := s.units.FindByID(ctx, req.BusinessID); err == nil {
		unitName = unit.Name
	} else {
		s.logger.Warn("export business unit lookup failed", zap.Int64("business_id", req.BusinessID), zap.Error(err))
	}

	detail := detailDataset(unitName, records)
	file := &dto.ExportFile{Filename: exportFilename(unitName, req.Mode, from, to, format)}
	switch format {
	case dto.ExportFormatCSV:
		file.ContentType = contentTypeCSV
		file.Data, err = s.csv.Render(detail)
	default:
		file.ContentType = contentTypeXLSX
		file.Data, err = s.xlsx.Render(detail, summaryDataset(records))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	s.metrics.IncExport(req.Mode, format)
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionExport, "export", int64ID(req.BusinessID), map[string]interface{}{
		"mode": req.Mode, "from": from.Format(dateLayout), "to": to.Format(dateLayout), "format": format, "records": len(records),
	})
	return file, nil
}

func (s *ExportService) period(req dto.ExportRequest) (time.Time, time.Time, error) {
	if req.Mode == dto.ExportModeDay {
		if req.Date == "" {
			return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "date is required in day mode")
		}
		date, err := parseDate("date", req.Date)
		return date, date, err
	}
	if req.From == "" || req.To == "" {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "from and to are required in range mode")
	}
	from, err := parseDate("from", req.From)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseDate("to", req.To)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "to must not be before from")
	}
	if days := int(to.Sub(from).Hours()/24) + 1; days > s.cfg.MaxRangeDays {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("range exceeds %d days", s.cfg.MaxRangeDays))
	}
	return from, to, nil
}

func detailDataset(unitName string, records []models.ShiftRecord) export.Dataset {
	data := export.Dataset{Name: "Compliance", Headers: detailHeaders}
	for _, rec := range records {
		base := map[string]string{
			"Date":          rec.Date.Format(dateLayout),
			"Business unit": unitName,
			"Post":          rec.PostName,
			"Shift":         rec.Shift.String(),
			"Collaborator":  rec.Collaborator,
		}
		slots := make([]string, 0, len(rec.Ratings))
		for slot := range rec.Ratings {
			slots = append(slots, slot)
		}
		sort.Slice(slots, func(i, j int) bool { return slotLess(slots[i], slots[j]) })

		written := false
		for _, slot := range slots {
			for _, clock := range rec.Ratings.Times(slot) {
				cell, _ := rec.Ratings.Get(slot, clock)
				if cell.IsEmpty() {
					continue
				}
				row := copyRow(base)
				row["Slot"] = slot
				row["Time"] = clock
				if cell.Value != nil {
					row["Rating"] = strconv.Itoa(*cell.Value)
				}
				if cell.Note != nil {
					row["Note"] = *cell.Note
				}
				data.Rows = append(data.Rows, row)
				written = true
			}
		}
		if !written {
			data.Rows = append(data.Rows, copyRow(base))
		}
	}
	return data
}

func summaryDataset(records []models.ShiftRecord) export.Dataset {
	byDay := make(map[string]*ratingTally)
	var days []string
	for _, rec := range records {
		key := rec.Date.Format(dateLayout)
		t, ok := byDay[key]
		if !ok {
			t = &ratingTally{}
			byDay[key] = t
			days = append(days, key)
		}
		t.add(rec.Record)
	}
	sort.Strings(days)

	data := export.Dataset{Name: "Summary", Headers: summaryHeaders}
	for _, day := range days {
		totals := byDay[day].finish()
		data.Rows = append(data.Rows, map[string]string{
			"Date":         day,
			"Records":      strconv.Itoa(totals.Records),
			"Rated cells":  strconv.Itoa(totals.RatedCells),
			"Full marks":   strconv.Itoa(totals.FullMarks),
			"Zeroes":       strconv.Itoa(totals.Zeroes),
			"Average":      strconv.FormatFloat(totals.Average, 'f', 2, 64),
			"Compliance %": strconv.FormatFloat(totals.Compliance, 'f', 2, 64),
		})
	}
	return data
}

// slotLess orders R2 before R10.
func slotLess(a, b string) bool {
	na, errA := strconv.Atoi(strings.TrimPrefix(a, "R"))
	nb, errB := strconv.Atoi(strings.TrimPrefix(b, "R"))
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}

func copyRow(src map[string]string) map[string]string {
	out := make(map[string]string, len(src)+4)
	for k, v := range src {
		out[k] = v
	}
	return out
}

func exportFilename(unitName, mode string, from, to time.Time, format string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return unicode.ToLower(r)
		case r == ' ' || r == '-' || r == '_':
			return '_'
		}
		return -1
	}, unitName)
	if slug == "" {
		slug = "unit"
	}
	period := from.Format(dateLayout)
	if mode == dto.ExportModeRange {
		period += "_" + to.Format(dateLayout)
	}
	return fmt.Sprintf("cumplidos_%s_%s.%s", slug, period, format)
}
