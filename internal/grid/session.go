package grid

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// State is the editing state of a Session.
type State int

const (
	StateViewing State = iota
	StateEditing
	StateSaving
)

func (s State) String() string {
	switch s {
	case StateViewing:
		return "viewing"
	case StateEditing:
		return "editing"
	case StateSaving:
		return "saving"
	default:
		return "unknown"
	}
}

var (
	ErrUnsavedChanges = errors.New("grid has unsaved changes")
	ErrNotEditing     = errors.New("grid is not in edit mode")
	ErrSaveInProgress = errors.New("grid save in progress")
	ErrPostSaving     = errors.New("post is being saved")
	ErrUnknownColumn  = errors.New("unknown column")
	ErrNotLoaded      = errors.New("grid not loaded")
)

// Loader fetches the raw grid source for a business and date.
type Loader interface {
	Load(ctx context.Context, businessID int64, date time.Time) (Source, error)
}

// SessionConfig tunes a Session.
type SessionConfig struct {
	// Concurrency bounds in-flight record writes during Save. Zero is unbounded.
	Concurrency int
}

// Session owns the state of one grid editing session: the loaded grid, the
// column time bindings and the pending edits. All mutations go through it.
type Session struct {
	mu      sync.Mutex
	loader  Loader
	writer  Writer
	cfg     SessionConfig
	loaded  bool
	biz     int64
	grid    Grid
	columns []Column
	state   State
	pending *PendingMap
	saving  map[int64]struct{}
}

// NewSession builds an idle session.
func NewSession(loader Loader, writer Writer, cfg SessionConfig) *Session {
	return &Session{
		loader:  loader,
		writer:  writer,
		cfg:     cfg,
		pending: NewPendingMap(nil),
		saving:  make(map[int64]struct{}),
	}
}

// Open loads the grid for businessID and date. Pending edits must have been
// saved or discarded. On failure the grid is left empty.
func (s *Session) Open(ctx context.Context, businessID int64, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSaving {
		return ErrSaveInProgress
	}
	if s.pending.Len() > 0 {
		return ErrUnsavedChanges
	}
	s.biz = businessID
	return s.loadLocked(ctx, date)
}

func (s *Session) loadLocked(ctx context.Context, date time.Time) error {
	src, err := s.loader.Load(ctx, s.biz, date)
	if err != nil {
		s.grid = Grid{Date: truncateDay(date), Snapshot: Snapshot{}}
		s.columns = nil
		s.loaded = false
		s.pending = NewPendingMap(nil)
		s.state = StateViewing
		return fmt.Errorf("load grid: %w", err)
	}
	s.grid = Assemble(date, src)
	s.columns = append([]Column(nil), s.grid.Columns...)
	s.pending.Rebase(s.grid.Snapshot)
	s.loaded = true
	if s.pending.Len() == 0 {
		s.state = StateViewing
	} else {
		s.state = StateEditing
	}
	return nil
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Date returns the loaded grid date.
func (s *Session) Date() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Date
}

// Columns returns the columns visible under view with their current bindings.
func (s *Session) Columns(view View) []Column {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FilterColumns(s.columns, view)
}

// Posts returns the visible posts.
func (s *Session) Posts() []Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Post(nil), s.grid.Posts...)
}

// Records returns the loaded records of postID.
func (s *Session) Records(postID int64) *PostRecords {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Snapshot.Post(postID)
}

// Pending returns the uncommitted changes.
func (s *Session) Pending() []Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending.All()
}

// Saving reports whether postID is part of an in-flight save.
func (s *Session) Saving(postID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.saving[postID]
	return ok
}

// StartEdit enters edit mode.
func (s *Session) StartEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}
	switch s.state {
	case StateSaving:
		return ErrSaveInProgress
	case StateViewing:
		s.state = StateEditing
	}
	return nil
}

func (s *Session) editableLocked(postID int64) error {
	if s.state == StateViewing {
		return ErrNotEditing
	}
	if _, ok := s.saving[postID]; ok {
		return ErrPostSaving
	}
	return nil
}

func (s *Session) columnLocked(key string) (int, error) {
	for i, col := range s.columns {
		if col.Key == key {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrUnknownColumn, key)
}

func (s *Session) boundColumnLocked(key string) (Column, error) {
	idx, err := s.columnLocked(key)
	if err != nil {
		return Column{}, err
	}
	col := s.columns[idx]
	if !col.Bound() {
		return Column{}, fmt.Errorf("%w: %s", ErrUnboundColumns, col.Label)
	}
	return col, nil
}

// SetRating edits the rating of postID in column. A nil value unsets it.
func (s *Session) SetRating(postID int64, columnKey string, value *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(postID); err != nil {
		return err
	}
	col, err := s.boundColumnLocked(columnKey)
	if err != nil {
		return err
	}
	if value != nil {
		if err := Valued(*value).Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidCell, err)
		}
	}
	s.pending.SetRating(postID, col.Key, col.Time, value)
	return nil
}

// SetNote attaches or clears the note of postID in column.
func (s *Session) SetNote(postID int64, columnKey string, note *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(postID); err != nil {
		return err
	}
	col, err := s.boundColumnLocked(columnKey)
	if err != nil {
		return err
	}
	s.pending.SetNote(postID, col.Key, col.Time, note)
	return nil
}

// SetCollaborator edits the collaborator name for one shift of postID.
func (s *Session) SetCollaborator(postID int64, shift Shift, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(postID); err != nil {
		return err
	}
	if !shift.Valid() {
		return fmt.Errorf("invalid shift %d", int(shift))
	}
	s.pending.SetCollaborator(postID, shift, name)
	return nil
}

// SetColumnTime binds column to clock. Ratings already recorded under the
// previous time move to the new one for every post.
func (s *Session) SetColumnTime(columnKey, clock string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateViewing {
		return ErrNotEditing
	}
	if s.state == StateSaving {
		return ErrSaveInProgress
	}
	if _, err := ParseClock(clock); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCell, err)
	}
	idx, err := s.columnLocked(columnKey)
	if err != nil {
		return err
	}
	previous := s.columns[idx].Time
	s.columns[idx].Time = clock
	if previous != "" {
		s.pending.MoveTime(s.columns[idx].Key, previous, clock)
	}
	return nil
}

// Autocomplete stamps the default rating into column for every visible post
// not marked N/A for the column's shift. It returns the updated post ids.
func (s *Session) Autocomplete(columnKey string) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateViewing {
		return nil, ErrNotEditing
	}
	col, err := s.boundColumnLocked(columnKey)
	if err != nil {
		return nil, err
	}
	posts := make([]Post, 0, len(s.grid.Posts))
	for _, p := range s.grid.Posts {
		if _, busy := s.saving[p.ID]; !busy {
			posts = append(posts, p)
		}
	}
	return s.pending.Autocomplete(col, posts, DefaultAutocompleteValue), nil
}

// Save reconciles and writes every pending change. On full success the
// saved posts' changes are cleared and the grid is reloaded; on any failure
// the pending changes are kept and the session returns to edit mode.
func (s *Session) Save(ctx context.Context) (SaveResult, error) {
	s.mu.Lock()
	switch s.state {
	case StateViewing:
		s.mu.Unlock()
		return SaveResult{}, ErrNotEditing
	case StateSaving:
		s.mu.Unlock()
		return SaveResult{}, ErrSaveInProgress
	}
	if s.pending.Len() == 0 {
		s.state = StateViewing
		s.mu.Unlock()
		return SaveResult{}, nil
	}
	plan, err := Reconcile(s.pending.All(), s.columns, s.grid.Snapshot)
	if err != nil {
		s.mu.Unlock()
		return SaveResult{}, err
	}
	date := s.grid.Date
	s.state = StateSaving
	for _, id := range plan.PostIDs {
		s.saving[id] = struct{}{}
	}
	s.mu.Unlock()

	result := Execute(ctx, date, plan, s.writer, s.cfg.Concurrency)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range plan.PostIDs {
		delete(s.saving, id)
	}
	if !result.OK() {
		s.state = StateEditing
		return result, result.Err()
	}
	s.pending.Clear(plan.PostIDs...)
	if err := s.loadLocked(ctx, date); err != nil {
		return result, err
	}
	return result, nil
}

// Cancel leaves edit mode. Pending changes are only dropped when discard is
// set; otherwise ErrUnsavedChanges is returned and nothing changes.
func (s *Session) Cancel(discard bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSaving {
		return ErrSaveInProgress
	}
	if s.pending.Len() > 0 && !discard {
		return ErrUnsavedChanges
	}
	s.pending.Clear()
	s.columns = append([]Column(nil), s.grid.Columns...)
	s.state = StateViewing
	return nil
}

// ChangeDate loads another date, guarded like Cancel.
func (s *Session) ChangeDate(ctx context.Context, date time.Time, discard bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSaving {
		return ErrSaveInProgress
	}
	if s.pending.Len() > 0 && !discard {
		return ErrUnsavedChanges
	}
	s.pending.Clear()
	return s.loadLocked(ctx, date)
}
