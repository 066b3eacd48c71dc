package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/renoa-ops/renoa-api/internal/dto"
	"github.com/renoa-ops/renoa-api/internal/grid"
	"github.com/renoa-ops/renoa-api/internal/models"
	appErrors "github.com/renoa-ops/renoa-api/pkg/errors"
)

func newExportServiceForTest(records *recordStore, audit *auditStub) *ExportService {
	units := &businessUnitStub{units: []models.BusinessUnit{{ID: 1, Name: "Planta Norte", Active: true}}}
	return NewExportService(records, units, audit, NewMetricsService(), nil, nil, ExportServiceConfig{MaxRangeDays: 31}, nil, nil)
}

func exportFixture() *recordStore {
	noted := rated("R1", "08:00", 9)
	noted.Put("R1", "12:00", grid.Cell{Note: strPtr("relieved early")})
	return newRecordStore(
		shiftRecord(1, 10, 1, testDay, grid.ShiftDay, "Ana", noted),
		shiftRecord(2, 10, 1, testDay, grid.ShiftNight, "Luis", rated("R3", "23:00", 0)),
		shiftRecord(3, 11, 1, testDay.AddDate(0, 0, 1), grid.ShiftDay, "Sol", rated("R10", "09:00", 10)),
		shiftRecord(4, 11, 1, testDay.AddDate(0, 0, 1), grid.ShiftB, "Eva", nil),
		shiftRecord(5, 20, 2, testDay, grid.ShiftDay, "Other", rated("R1", "08:00", 5)),
	)
}

func TestExportServiceDayCSV(t *testing.T) {
	audit := &auditStub{}
	svc := newExportServiceForTest(exportFixture(), audit)

	file, err := svc.Export(context.Background(), adminClaims(), dto.ExportRequest{
		BusinessID: 1, Mode: dto.ExportModeDay, Date: "2024-05-10", Format: dto.ExportFormatCSV,
	})
	require.NoError(t, err)
	assert.Equal(t, "cumplidos_planta_norte_2024-05-10.csv", file.Filename)
	assert.Equal(t, contentTypeCSV, file.ContentType)

	body := strings.TrimPrefix(string(file.Data), "\ufeff")
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, strings.Join(detailHeaders, ","), lines[0])
	assert.Contains(t, body, "2024-05-10,Planta Norte,Post 10,day,Ana,R1,08:00,9,")
	assert.Contains(t, body, "R1,12:00,,relieved early")
	assert.Contains(t, body, "night,Luis,R3,23:00,0,")
	assert.NotContains(t, body, "Other")
	assert.Equal(t, []string{models.AuditActionExport}, audit.actions())
}

func TestExportServiceRangeXLSX(t *testing.T) {
	svc := newExportServiceForTest(exportFixture(), &auditStub{})

	file, err := svc.Export(context.Background(), nil, dto.ExportRequest{
		BusinessID: 1, Mode: dto.ExportModeRange, From: "2024-05-10", To: "2024-05-11",
	})
	require.NoError(t, err)
	assert.Equal(t, "cumplidos_planta_norte_2024-05-10_2024-05-11.xlsx", file.Filename)

	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	assert.Equal(t, []string{"Compliance", "Summary"}, f.GetSheetList())
	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2024-05-10", "2", "2", "0", "1", "4.50", "45.00"}, rows[1])
	assert.Equal(t, "2024-05-11", rows[2][0])

	detail, err := f.GetRows("Compliance")
	require.NoError(t, err)
	// Eva's record has no rated cells and still gets a row.
	assert.Len(t, detail, 6)
}

func TestExportServiceNoData(t *testing.T) {
	svc := newExportServiceForTest(exportFixture(), &auditStub{})

	_, err := svc.Export(context.Background(), nil, dto.ExportRequest{BusinessID: 1, Mode: dto.ExportModeDay, Date: "2024-06-01"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNoData.Code, appErr.Code)
}

func TestExportServiceValidatesPeriod(t *testing.T) {
	svc := newExportServiceForTest(exportFixture(), &auditStub{})
	ctx := context.Background()

	cases := []dto.ExportRequest{
		{BusinessID: 1, Mode: dto.ExportModeDay},
		{BusinessID: 1, Mode: dto.ExportModeRange, From: "2024-05-10"},
		{BusinessID: 1, Mode: dto.ExportModeRange, From: "2024-05-10", To: "2024-05-01"},
		{BusinessID: 1, Mode: dto.ExportModeRange, From: "2024-01-01", To: "2024-05-01"},
		{BusinessID: 1, Mode: "week", Date: "2024-05-10"},
	}
	for _, req := range cases {
		_, err := svc.Export(ctx, nil, req)
		var appErr *appErrors.Error
		require.ErrorAs(t, err, &appErr, "%+v", req)
		assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code, "%+v", req)
	}
}

func TestExportServiceRejectsForeignBusiness(t *testing.T) {
	svc := newExportServiceForTest(exportFixture(), &auditStub{})

	_, err := svc.Export(context.Background(), scopedClaims(2), dto.ExportRequest{BusinessID: 1, Mode: dto.ExportModeDay, Date: "2024-05-10"})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestSlotLessOrdersNumerically(t *testing.T) {
	assert.True(t, slotLess("R2", "R10"))
	assert.False(t, slotLess("R10", "R9"))
}
