package grid

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
)

const (
	MinRating = 0
	MaxRating = 10
)

// Cell is one rating entry. A nil Value means the cell is unset; a zero
// Value is a real rating. Note may be present with or without a value.
type Cell struct {
	Value *int    `json:"valor"`
	Note  *string `json:"nota"`
}

// Valued builds a cell holding v.
func Valued(v int) Cell {
	return Cell{Value: &v}
}

// IsEmpty reports whether the cell carries neither a value nor a note.
func (c Cell) IsEmpty() bool {
	return c.Value == nil && (c.Note == nil || *c.Note == "")
}

// HasNote reports whether a non-empty note is attached.
func (c Cell) HasNote() bool {
	return c.Note != nil && *c.Note != ""
}

// Validate rejects values outside the rating scale.
func (c Cell) Validate() error {
	if c.Value == nil {
		return nil
	}
	if *c.Value < MinRating || *c.Value > MaxRating {
		return fmt.Errorf("rating %d out of range %d..%d", *c.Value, MinRating, MaxRating)
	}
	return nil
}

func (c Cell) clone() Cell {
	out := Cell{}
	if c.Value != nil {
		v := *c.Value
		out.Value = &v
	}
	if c.Note != nil {
		n := *c.Note
		out.Note = &n
	}
	return out
}

// Ratings maps slot label -> clock time -> cell. It is stored as JSONB.
type Ratings map[string]map[string]Cell

// Clone returns a deep copy.
func (r Ratings) Clone() Ratings {
	out := make(Ratings, len(r))
	for slot, times := range r {
		copied := make(map[string]Cell, len(times))
		for clock, cell := range times {
			copied[clock] = cell.clone()
		}
		out[slot] = copied
	}
	return out
}

// Merge copies every cell of other into r, overwriting collisions.
func (r Ratings) Merge(other Ratings) {
	for slot, times := range other {
		for clock, cell := range times {
			r.Put(slot, clock, cell.clone())
		}
	}
}

// Get returns the cell at slot/clock.
func (r Ratings) Get(slot, clock string) (Cell, bool) {
	times, ok := r[slot]
	if !ok {
		return Cell{}, false
	}
	cell, ok := times[clock]
	return cell, ok
}

// Put stores cell at slot/clock.
func (r Ratings) Put(slot, clock string, cell Cell) {
	times, ok := r[slot]
	if !ok {
		times = make(map[string]Cell)
		r[slot] = times
	}
	times[clock] = cell
}

// Delete removes slot/clock and drops the slot when it becomes empty.
func (r Ratings) Delete(slot, clock string) {
	times, ok := r[slot]
	if !ok {
		return
	}
	delete(times, clock)
	if len(times) == 0 {
		delete(r, slot)
	}
}

// Move relocates the cell at slot/from to slot/to. It reports whether a cell
// was moved. Any cell already at the destination is replaced.
func (r Ratings) Move(slot, from, to string) bool {
	if from == to {
		return false
	}
	cell, ok := r.Get(slot, from)
	if !ok {
		return false
	}
	r.Delete(slot, from)
	r.Put(slot, to, cell)
	return true
}

// Empty reports whether no slot holds a non-empty cell.
func (r Ratings) Empty() bool {
	for _, times := range r {
		for _, cell := range times {
			if !cell.IsEmpty() {
				return false
			}
		}
	}
	return true
}

// Validate checks every clock key and cell.
func (r Ratings) Validate() error {
	for slot, times := range r {
		for clock, cell := range times {
			if _, err := ParseClock(clock); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidCell, slot, err)
			}
			if err := cell.Validate(); err != nil {
				return fmt.Errorf("%w: %s %s: %v", ErrInvalidCell, slot, clock, err)
			}
		}
	}
	return nil
}

// Times returns the sorted distinct clock keys recorded for slot.
func (r Ratings) Times(slot string) []string {
	times := make([]string, 0, len(r[slot]))
	for clock := range r[slot] {
		times = append(times, clock)
	}
	sort.Strings(times)
	return times
}

// Value implements driver.Valuer for JSONB columns.
func (r Ratings) Value() (driver.Value, error) {
	if r == nil {
		return []byte("{}"), nil
	}
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal ratings: %w", err)
	}
	return payload, nil
}

// Scan implements sql.Scanner for JSONB columns.
func (r *Ratings) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*r = Ratings{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported ratings source %T", src)
	}
	if len(raw) == 0 {
		*r = Ratings{}
		return nil
	}
	decoded := Ratings{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("decode ratings: %w", err)
	}
	*r = decoded
	return nil
}
