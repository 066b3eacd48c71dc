package dto

import (
	"time"

	"github.com/renoa-ops/renoa-api/internal/grid"
)

// GridQuery captures GET /grid parameters.
type GridQuery struct {
	BusinessID int64  `form:"businessId" validate:"required,gt=0"`
	Date       string `form:"date" validate:"required,datetime=2006-01-02"`
	View       string `form:"view" validate:"omitempty,oneof=all day night shiftB shift_b"`
}

// RecordsQuery captures GET /records parameters.
type RecordsQuery struct {
	BusinessID int64  `form:"businessId" validate:"required,gt=0"`
	Date       string `form:"date" validate:"required,datetime=2006-01-02"`
}

// ConfigurationSummary is the applicable configuration shown with a grid.
type ConfigurationSummary struct {
	ID        int64           `json:"id"`
	StartDate time.Time       `json:"startDate"`
	Counts    grid.SlotCounts `json:"counts"`
}

// GridRow is one post of the grid with its loaded records.
type GridRow struct {
	Post    grid.Post    `json:"post"`
	Day     *grid.Record `json:"day,omitempty"`
	ShiftB  *grid.Record `json:"shiftB,omitempty"`
	Night   *grid.Record `json:"night,omitempty"`
	Ratings grid.Ratings `json:"ratings"`
}

// GridResponse is the loaded grid for one business and date.
type GridResponse struct {
	BusinessID    int64                 `json:"businessId"`
	Date          string                `json:"date"`
	View          grid.View             `json:"view"`
	Configuration *ConfigurationSummary `json:"configuration,omitempty"`
	Columns       []grid.Column         `json:"columns"`
	Unbound       []string              `json:"unbound"`
	Rows          []GridRow             `json:"rows"`
}

// ColumnBinding assigns a clock time to a column key.
type ColumnBinding struct {
	Key  string `json:"key" validate:"required"`
	Time string `json:"time"`
}

// CollaboratorNames carries edited collaborator names; nil means untouched.
type CollaboratorNames struct {
	Day    *string `json:"day,omitempty"`
	ShiftB *string `json:"shiftB,omitempty"`
	Night  *string `json:"night,omitempty"`
}

// PendingChange is one post's uncommitted edits as sent by the client.
type PendingChange struct {
	PostID        int64             `json:"postId" validate:"required,gt=0"`
	Collaborators CollaboratorNames `json:"collaborators"`
	Ratings       grid.Ratings      `json:"ratings"`
}

// ToGrid converts the payload into a grid change.
func (p PendingChange) ToGrid() grid.Change {
	change := grid.Change{PostID: p.PostID, Ratings: p.Ratings.Clone()}
	names := map[grid.Shift]*string{
		grid.ShiftDay:   p.Collaborators.Day,
		grid.ShiftB:     p.Collaborators.ShiftB,
		grid.ShiftNight: p.Collaborators.Night,
	}
	for shift, name := range names {
		if name == nil {
			continue
		}
		if change.Collaborators == nil {
			change.Collaborators = make(map[grid.Shift]string)
		}
		change.Collaborators[shift] = *name
	}
	return change
}

// SaveGridRequest is the POST /grid/save payload.
type SaveGridRequest struct {
	BusinessID int64           `json:"businessId" validate:"required,gt=0"`
	Date       string          `json:"date" validate:"required,datetime=2006-01-02"`
	Columns    []ColumnBinding `json:"columns" validate:"dive"`
	Changes    []PendingChange `json:"changes" validate:"required,min=1,dive"`
}

// RecordResult is the outcome of one record write.
type RecordResult struct {
	PostID   int64       `json:"postId"`
	Shift    grid.Shift  `json:"shift"`
	Kind     grid.OpKind `json:"kind"`
	RecordID int64       `json:"recordId,omitempty"`
	OK       bool        `json:"ok"`
	Error    string      `json:"error,omitempty"`
}

// SaveGridResponse reports per-record outcomes and the reloaded grid.
type SaveGridResponse struct {
	Results []RecordResult `json:"results"`
	Grid    *GridResponse  `json:"grid,omitempty"`
}

// CreateRecordRequest creates a shift record explicitly.
type CreateRecordRequest struct {
	PostID       int64        `json:"postId" validate:"required,gt=0"`
	Date         string       `json:"date" validate:"required,datetime=2006-01-02"`
	Shift        grid.Shift   `json:"shiftCategoryId" validate:"required"`
	Collaborator string       `json:"collaboratorName" validate:"max=150"`
	Ratings      grid.Ratings `json:"ratings"`
}

// UpdateRatingsRequest overwrites the ratings of one record.
type UpdateRatingsRequest struct {
	Ratings      grid.Ratings `json:"ratings" validate:"required"`
	Collaborator *string      `json:"collaboratorName,omitempty" validate:"omitempty,max=150"`
}

// NoteRequest sets or clears the note of one rating cell.
type NoteRequest struct {
	RecordID int64   `json:"recordId" validate:"required,gt=0"`
	Slot     string  `json:"slot" validate:"required,max=10"`
	Time     string  `json:"time" validate:"required"`
	Note     *string `json:"note" validate:"omitempty,max=500"`
}
