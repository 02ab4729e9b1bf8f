package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGoWeekday(t *testing.T) {
	assert.Equal(t, 0, GoWeekday(time.Monday))
	assert.Equal(t, 4, GoWeekday(time.Friday))
	assert.Equal(t, 5, GoWeekday(time.Saturday))
	assert.Equal(t, 6, GoWeekday(time.Sunday))
}

func TestWeekdayName(t *testing.T) {
	assert.Equal(t, "Monday", WeekdayName(0))
	assert.Equal(t, "Sunday", WeekdayName(6))
	assert.Equal(t, "Unknown", WeekdayName(7))
	assert.Equal(t, "Unknown", WeekdayName(-1))
}

func TestMinuteOfDay(t *testing.T) {
	cases := []struct {
		clock  string
		minute int
		ok     bool
	}{
		{"00:00", 0, true},
		{"09:30", 570, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"9:30am", 0, false},
		{"", 0, false},
	}

	for _, tc := range cases {
		minute, err := MinuteOfDay(tc.clock)
		if tc.ok {
			assert.NoError(t, err, tc.clock)
			assert.Equal(t, tc.minute, minute, tc.clock)
		} else {
			assert.Error(t, err, tc.clock)
		}
	}
}

func TestClockFromMinute(t *testing.T) {
	assert.Equal(t, "00:00", ClockFromMinute(0))
	assert.Equal(t, "09:30", ClockFromMinute(570))
	assert.Equal(t, "23:59", ClockFromMinute(1439))
}
