package grid

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Shift identifies the underlying shift record category a rating belongs to.
// Values match the category ids stored on cumplidos rows.
type Shift int

const (
	ShiftDay   Shift = 1
	ShiftNight Shift = 2
	ShiftB     Shift = 3
)

const (
	dayStart   = 6 * 60
	shiftBFrom = 14 * 60
	nightStart = 22 * 60
	minutesDay = 24 * 60
)

// Shifts lists the categories in grid order.
var Shifts = []Shift{ShiftDay, ShiftB, ShiftNight}

// Valid reports whether s is a known category.
func (s Shift) Valid() bool {
	switch s {
	case ShiftDay, ShiftNight, ShiftB:
		return true
	default:
		return false
	}
}

// String returns the wire name of the shift.
func (s Shift) String() string {
	switch s {
	case ShiftDay:
		return "day"
	case ShiftNight:
		return "night"
	case ShiftB:
		return "shift_b"
	default:
		return fmt.Sprintf("shift(%d)", int(s))
	}
}

// MarshalJSON encodes the shift by wire name.
func (s Shift) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts a wire name or the numeric category id.
func (s *Shift) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		var id int
		if errID := json.Unmarshal(data, &id); errID != nil {
			return fmt.Errorf("decode shift: %w", err)
		}
		name = strconv.Itoa(id)
	}
	parsed, err := ParseShift(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseShift accepts either the wire name or the numeric category id.
func ParseShift(raw string) (Shift, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "day", "diurno", "1":
		return ShiftDay, nil
	case "night", "nocturno", "2":
		return ShiftNight, nil
	case "shift_b", "shiftb", "b", "turno_b", "3":
		return ShiftB, nil
	}
	return 0, fmt.Errorf("unknown shift %q", raw)
}

// ParseClock converts a canonical HH:MM clock into minutes since midnight.
// Only the zero-padded form is accepted so each time has exactly one key.
func ParseClock(clock string) (int, error) {
	if len(clock) != 5 || clock[2] != ':' || !isDigits(clock[:2]) || !isDigits(clock[3:]) {
		return 0, fmt.Errorf("invalid clock %q: expected HH:MM", clock)
	}
	hours := int(clock[0]-'0')*10 + int(clock[1]-'0')
	minutes := int(clock[3]-'0')*10 + int(clock[4]-'0')
	if hours > 23 {
		return 0, fmt.Errorf("invalid clock %q: hour out of range", clock)
	}
	if minutes > 59 {
		return 0, fmt.Errorf("invalid clock %q: minute out of range", clock)
	}
	return hours*60 + minutes, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatClock renders minutes since midnight as HH:MM.
func FormatClock(minutes int) string {
	minutes = ((minutes % minutesDay) + minutesDay) % minutesDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Classify maps a clock time to its shift category. Missing or malformed
// times fall back to day.
func Classify(clock string) Shift {
	if strings.TrimSpace(clock) == "" {
		return ShiftDay
	}
	minutes, err := ParseClock(clock)
	if err != nil {
		return ShiftDay
	}
	return ClassifyMinutes(minutes)
}

// ClassifyMinutes maps minutes since midnight to a shift category.
func ClassifyMinutes(minutes int) Shift {
	minutes = ((minutes % minutesDay) + minutesDay) % minutesDay
	switch {
	case minutes >= dayStart && minutes < shiftBFrom:
		return ShiftDay
	case minutes >= shiftBFrom && minutes < nightStart:
		return ShiftB
	default:
		return ShiftNight
	}
}
