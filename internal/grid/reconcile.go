package grid

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrUnboundColumns is returned when a save is attempted while a column
	// has no bound time.
	ErrUnboundColumns = errors.New("columns without assigned time")
	// ErrInvalidCell is returned for out-of-range values or malformed time keys.
	ErrInvalidCell = errors.New("invalid rating cell")
)

// OpKind distinguishes writes against existing records from lazy creation.
type OpKind string

const (
	OpUpdate OpKind = "update"
	OpCreate OpKind = "create"
)

// WriteOp is one per-record write derived from a pending change.
type WriteOp struct {
	Kind         OpKind  `json:"kind"`
	PostID       int64   `json:"post_id"`
	Shift        Shift   `json:"shift"`
	RecordID     int64   `json:"record_id,omitempty"`
	Collaborator *string `json:"collaborator,omitempty"`
	Ratings      Ratings `json:"ratings"`
}

// WritePlan is the full set of writes for one save.
type WritePlan struct {
	Ops     []WriteOp
	PostIDs []int64
}

// Reconcile routes every pending rating to the record of the shift its clock
// time classifies into. A shift B rating falls back to the day record when the
// post has no shift B record on the date. Existing records are rewritten with
// their complete category payload; missing day/night records are created.
func Reconcile(changes []Change, columns []Column, snapshot Snapshot) (WritePlan, error) {
	if unbound := Unbound(columns); len(unbound) > 0 {
		return WritePlan{}, fmt.Errorf("%w: %s", ErrUnboundColumns, strings.Join(unbound, ", "))
	}
	plan := WritePlan{}
	for _, change := range changes {
		ops, err := reconcileChange(change, snapshot.Post(change.PostID))
		if err != nil {
			return WritePlan{}, fmt.Errorf("post %d: %w", change.PostID, err)
		}
		plan.PostIDs = append(plan.PostIDs, change.PostID)
		plan.Ops = append(plan.Ops, ops...)
	}
	return plan, nil
}

// routeShift returns the category that stores ratings classified as shift.
// Shift B falls back to day when the post has no shift B record.
func routeShift(records *PostRecords, shift Shift) Shift {
	if shift == ShiftB && records.Get(ShiftB) == nil {
		return ShiftDay
	}
	return shift
}

func reconcileChange(change Change, records *PostRecords) ([]WriteOp, error) {
	payloads := map[Shift]Ratings{ShiftDay: {}, ShiftB: {}, ShiftNight: {}}
	for slot, times := range change.Ratings {
		for clock, cell := range times {
			if cell.IsEmpty() {
				continue
			}
			if _, err := ParseClock(clock); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCell, slot, err)
			}
			if err := cell.Validate(); err != nil {
				return nil, fmt.Errorf("%w: %s %s: %v", ErrInvalidCell, slot, clock, err)
			}
			shift := routeShift(records, Classify(clock))
			payloads[shift].Put(slot, clock, cell.clone())
		}
	}

	var ops []WriteOp
	for _, shift := range Shifts {
		payload := payloads[shift]
		name, edited := change.Collaborator(shift)
		rec := records.Get(shift)
		if rec != nil {
			renamed := edited && name != rec.Collaborator
			if payload.Empty() && rec.Ratings.Empty() && !renamed {
				continue
			}
			op := WriteOp{Kind: OpUpdate, PostID: change.PostID, Shift: shift, RecordID: rec.ID, Ratings: payload}
			if renamed {
				op.Collaborator = &name
			}
			ops = append(ops, op)
			continue
		}
		named := edited && name != ""
		if payload.Empty() && !named {
			continue
		}
		op := WriteOp{Kind: OpCreate, PostID: change.PostID, Shift: shift, Ratings: payload}
		if edited {
			op.Collaborator = &name
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// Writer persists reconciled writes.
type Writer interface {
	CreateRecord(ctx context.Context, date time.Time, op WriteOp) (int64, error)
	UpdateRecord(ctx context.Context, op WriteOp) error
}

// OpResult is the outcome of one write.
type OpResult struct {
	Op       WriteOp `json:"op"`
	RecordID int64   `json:"record_id"`
	Err      error   `json:"-"`
}

// SaveResult aggregates per-record outcomes of a save.
type SaveResult struct {
	Results []OpResult
}

// OK reports whether every write succeeded.
func (r SaveResult) OK() bool {
	return len(r.Failed()) == 0
}

// Failed returns the results that carry an error.
func (r SaveResult) Failed() []OpResult {
	var failed []OpResult
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// Err joins every write error, or returns nil.
func (r SaveResult) Err() error {
	var errs []error
	for _, res := range r.Failed() {
		errs = append(errs, fmt.Errorf("post %d %s: %w", res.Op.PostID, res.Op.Shift, res.Err))
	}
	return errors.Join(errs...)
}

// Execute issues every write of plan concurrently, at most limit at a time,
// and waits for all of them to settle. Writes are independent: one failure
// does not cancel the others.
func Execute(ctx context.Context, date time.Time, plan WritePlan, writer Writer, limit int) SaveResult {
	results := make([]OpResult, len(plan.Ops))
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, op := range plan.Ops {
		g.Go(func() error {
			res := OpResult{Op: op, RecordID: op.RecordID}
			switch op.Kind {
			case OpCreate:
				res.RecordID, res.Err = writer.CreateRecord(ctx, date, op)
			default:
				res.Err = writer.UpdateRecord(ctx, op)
			}
			results[i] = res
			return res.Err
		})
	}
	_ = g.Wait()
	return SaveResult{Results: results}
}
