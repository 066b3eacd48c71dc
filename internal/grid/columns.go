package grid

import (
	"fmt"
	"sort"
	"time"
)

// SlotCounts is the number of reportable slots per shift category.
type SlotCounts struct {
	Day    int `json:"day" db:"cantidad_diurno"`
	ShiftB int `json:"shift_b" db:"cantidad_turno_b"`
	Night  int `json:"night" db:"cantidad_nocturno"`
}

// Total returns the number of columns the counts produce.
func (c SlotCounts) Total() int {
	return max(c.Day, 0) + max(c.ShiftB, 0) + max(c.Night, 0)
}

// Column is one reportable time slot of the grid. Time is shared by every
// post on the grid date and stays empty until the operator binds it.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Shift Shift  `json:"shift"`
	Time  string `json:"time"`
}

// Bound reports whether the column has an assigned clock time.
func (c Column) Bound() bool {
	return c.Time != ""
}

// EffectiveShift is the shift the column's ratings are routed to: the
// classification of the bound time, or the declared shift when unbound.
func (c Column) EffectiveShift() Shift {
	if !c.Bound() {
		return c.Shift
	}
	return Classify(c.Time)
}

// View restricts which columns are rendered.
type View string

const (
	ViewAll    View = "all"
	ViewDay    View = "day"
	ViewNight  View = "night"
	ViewShiftB View = "shiftB"
)

// ParseView normalises a view filter, defaulting to all.
func ParseView(raw string) (View, error) {
	switch raw {
	case "", "all", "todos":
		return ViewAll, nil
	case "day", "diurno":
		return ViewDay, nil
	case "night", "nocturno":
		return ViewNight, nil
	case "shiftB", "shift_b", "b":
		return ViewShiftB, nil
	}
	return "", fmt.Errorf("unknown view %q", raw)
}

// BuildColumns generates the ordered column list. Slot numbers run across
// shift categories: day first, then shift B, then night.
func BuildColumns(counts SlotCounts) []Column {
	columns := make([]Column, 0, counts.Total())
	n := 0
	appendShift := func(shift Shift, count int) {
		for i := 0; i < count; i++ {
			n++
			label := fmt.Sprintf("R%d", n)
			columns = append(columns, Column{Key: label, Label: label, Shift: shift})
		}
	}
	appendShift(ShiftDay, counts.Day)
	appendShift(ShiftB, counts.ShiftB)
	appendShift(ShiftNight, counts.Night)
	return columns
}

// FilterColumns returns the columns visible under view. The input is not modified.
func FilterColumns(columns []Column, view View) []Column {
	if view == ViewAll || view == "" {
		out := make([]Column, len(columns))
		copy(out, columns)
		return out
	}
	want := map[View]Shift{ViewDay: ShiftDay, ViewNight: ShiftNight, ViewShiftB: ShiftB}[view]
	out := make([]Column, 0, len(columns))
	for _, col := range columns {
		if col.Shift == want {
			out = append(out, col)
		}
	}
	return out
}

// Unbound lists the labels of columns without a bound time.
func Unbound(columns []Column) []string {
	var labels []string
	for _, col := range columns {
		if !col.Bound() {
			labels = append(labels, col.Label)
		}
	}
	return labels
}

// BindTimes assigns each unbound column the earliest time recorded for its
// slot label in used.
func BindTimes(columns []Column, used UsedTimes) []Column {
	out := make([]Column, len(columns))
	copy(out, columns)
	for i := range out {
		if out[i].Bound() {
			continue
		}
		if times := used[out[i].Key]; len(times) > 0 {
			out[i].Time = times[0]
		}
	}
	return out
}

// Configuration is a date-effective slot configuration for one business.
type Configuration struct {
	ID        int64
	StartDate time.Time
	Counts    SlotCounts
}

// Applicable returns the configuration with the latest start date on or
// before date.
func Applicable(configs []Configuration, date time.Time) (Configuration, bool) {
	day := truncateDay(date)
	candidates := make([]Configuration, 0, len(configs))
	for _, cfg := range configs {
		if !truncateDay(cfg.StartDate).After(day) {
			candidates = append(candidates, cfg)
		}
	}
	if len(candidates) == 0 {
		return Configuration{}, false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].StartDate.Equal(candidates[j].StartDate) {
			return candidates[i].ID > candidates[j].ID
		}
		return candidates[i].StartDate.After(candidates[j].StartDate)
	})
	return candidates[0], true
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
