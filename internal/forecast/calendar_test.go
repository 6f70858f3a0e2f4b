package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShapeOf(t *testing.T) {
	tests := []struct {
		year     int
		month    time.Month
		days     int
		weekdays int
		weekends int
	}{
		{2025, time.September, 30, 22, 8}, // starts on a Monday
		{2025, time.August, 31, 21, 10},
		{2024, time.February, 29, 21, 8}, // leap year
		{2025, time.February, 28, 20, 8},
	}
	for _, tc := range tests {
		s := ShapeOf(tc.year, tc.month)
		assert.Equal(t, tc.days, s.DaysInMonth, "%v %d days", tc.month, tc.year)
		assert.Equal(t, tc.weekdays, s.Weekdays, "%v %d weekdays", tc.month, tc.year)
		assert.Equal(t, tc.weekends, s.WeekendDays, "%v %d weekend days", tc.month, tc.year)
		assert.Equal(t, s.DaysInMonth, s.Weekdays+s.WeekendDays)
	}
}

func TestPosition(t *testing.T) {
	elapsed, remaining, pct := Position(10, 30)
	assert.Equal(t, 10, elapsed)
	assert.Equal(t, 20, remaining)
	assert.InDelta(t, 33.333, pct, 0.001)

	// degenerate months never divide by zero
	elapsed, remaining, pct = Position(5, 0)
	assert.Zero(t, elapsed)
	assert.Zero(t, remaining)
	assert.Zero(t, pct)

	// day clamps to the month
	elapsed, remaining, _ = Position(40, 30)
	assert.Equal(t, 30, elapsed)
	assert.Equal(t, 0, remaining)
}
