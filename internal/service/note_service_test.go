package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renoa-ops/renoa-api/internal/dto"
	"github.com/renoa-ops/renoa-api/internal/grid"
	"github.com/renoa-ops/renoa-api/internal/models"
	appErrors "github.com/renoa-ops/renoa-api/pkg/errors"
)

func TestNoteServiceSetKeepsValue(t *testing.T) {
	store := newRecordStore(shiftRecord(1, 10, 1, testDay, grid.ShiftDay, "Ana", rated("R1", "08:00", 0)))
	audit := &auditStub{}
	svc := NewNoteService(store, audit, nil, nil)

	cell, err := svc.Set(context.Background(), adminClaims(), dto.NoteRequest{RecordID: 1, Slot: "R1", Time: "08:00", Note: strPtr("  relieved at 09:10 ")})
	require.NoError(t, err)
	require.NotNil(t, cell.Value)
	assert.Equal(t, 0, *cell.Value)
	assert.Equal(t, "relieved at 09:10", *cell.Note)
	assert.Equal(t, []string{models.AuditActionNoteUpdate}, audit.actions())

	cell, err = svc.Set(context.Background(), nil, dto.NoteRequest{RecordID: 1, Slot: "R1", Time: "08:00", Note: strPtr("   ")})
	require.NoError(t, err)
	assert.Nil(t, cell.Note)
	assert.Equal(t, 0, *cell.Value)
}

func TestNoteServiceSetOnEmptyCell(t *testing.T) {
	store := newRecordStore(shiftRecord(1, 10, 1, testDay, grid.ShiftDay, "Ana", nil))
	svc := NewNoteService(store, &auditStub{}, nil, nil)

	_, err := svc.Set(context.Background(), nil, dto.NoteRequest{RecordID: 1, Slot: "R2", Time: "10:00", Note: strPtr("post unattended")})
	require.NoError(t, err)

	rec, _ := store.FindByID(context.Background(), 1)
	cell, ok := rec.Ratings.Get("R2", "10:00")
	require.True(t, ok)
	assert.Nil(t, cell.Value)

	_, err = svc.Set(context.Background(), nil, dto.NoteRequest{RecordID: 1, Slot: "R2", Time: "10:00"})
	require.NoError(t, err)
	rec, _ = store.FindByID(context.Background(), 1)
	assert.True(t, rec.Ratings.Empty())
}

func TestNoteServiceSetErrors(t *testing.T) {
	store := newRecordStore(shiftRecord(1, 10, 1, testDay, grid.ShiftDay, "Ana", nil))
	svc := NewNoteService(store, &auditStub{}, nil, nil)
	ctx := context.Background()

	cases := []struct {
		name  string
		actor *models.JWTClaims
		req   dto.NoteRequest
		code  string
	}{
		{"bad time", nil, dto.NoteRequest{RecordID: 1, Slot: "R1", Time: "25:00"}, appErrors.ErrValidation.Code},
		{"missing record", nil, dto.NoteRequest{RecordID: 9, Slot: "R1", Time: "08:00"}, appErrors.ErrNotFound.Code},
		{"foreign business", scopedClaims(3), dto.NoteRequest{RecordID: 1, Slot: "R1", Time: "08:00"}, appErrors.ErrForbidden.Code},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Set(ctx, tc.actor, tc.req)
			var appErr *appErrors.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tc.code, appErr.Code)
		})
	}
}
