package grid

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyMinutesCoversWholeDay(t *testing.T) {
	for m := 0; m < minutesDay; m++ {
		got := ClassifyMinutes(m)
		switch {
		case m >= 360 && m < 840:
			require.Equal(t, ShiftDay, got, "minute %d", m)
		case m >= 840 && m < 1320:
			require.Equal(t, ShiftB, got, "minute %d", m)
		default:
			require.Equal(t, ShiftNight, got, "minute %d", m)
		}
	}
}

func TestClassifyBoundaries(t *testing.T) {
	cases := map[string]Shift{
		"05:59": ShiftNight,
		"06:00": ShiftDay,
		"13:59": ShiftDay,
		"14:00": ShiftB,
		"21:59": ShiftB,
		"22:00": ShiftNight,
		"23:59": ShiftNight,
		"00:00": ShiftNight,
	}
	for clock, want := range cases {
		assert.Equal(t, want, Classify(clock), clock)
	}
}

func TestClassifyFallsBackToDay(t *testing.T) {
	assert.Equal(t, ShiftDay, Classify(""))
	assert.Equal(t, ShiftDay, Classify("  "))
	assert.Equal(t, ShiftDay, Classify("25:00"))
	assert.Equal(t, ShiftDay, Classify("noon"))
	assert.Equal(t, ShiftDay, Classify("5:30"))
}

func TestParseClock(t *testing.T) {
	minutes, err := ParseClock("08:30")
	require.NoError(t, err)
	assert.Equal(t, 510, minutes)

	for _, bad := range []string{"", "8", "08:3", "24:00", "12:60", "aa:bb", "123:00",
		"8:00", "+8:00", "-0:00", " 08:00", "08:00 ", "08-00", "0x:00"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
	assert.Equal(t, "08:30", FormatClock(510))
	assert.Equal(t, "00:10", FormatClock(minutesDay+10))
}

func TestShiftJSON(t *testing.T) {
	payload, err := json.Marshal(ShiftB)
	require.NoError(t, err)
	assert.JSONEq(t, `"shift_b"`, string(payload))

	var s Shift
	require.NoError(t, json.Unmarshal([]byte(`"night"`), &s))
	assert.Equal(t, ShiftNight, s)
	require.NoError(t, json.Unmarshal([]byte(`3`), &s))
	assert.Equal(t, ShiftB, s)
	assert.Error(t, json.Unmarshal([]byte(`"evening"`), &s))
}
