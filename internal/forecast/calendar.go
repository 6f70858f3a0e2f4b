package forecast

import "time"

// MonthShape is the calendar layout of a single month.
type MonthShape struct {
	Year        int
	Month       time.Month
	DaysInMonth int
	Weekdays    int
	WeekendDays int
}

// ShapeOf counts the Mon-Fri and Sat-Sun dates of the given month.
func ShapeOf(year int, month time.Month) MonthShape {
	s := MonthShape{Year: year, Month: month}
	// day 0 of the next month is the last day of this one
	s.DaysInMonth = time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	for d := 1; d <= s.DaysInMonth; d++ {
		switch time.Date(year, month, d, 0, 0, 0, 0, time.UTC).Weekday() {
		case time.Saturday, time.Sunday:
			s.WeekendDays++
		default:
			s.Weekdays++
		}
	}
	return s
}

// CurrentShape is ShapeOf for the month containing t.
func CurrentShape(t time.Time) MonthShape {
	return ShapeOf(t.Year(), t.Month())
}

// Position returns elapsed days, remaining days and percent complete for
// day-of-month d within a month of total days. Zero totals yield zeros.
func Position(d, total int) (elapsed, remaining int, pctComplete float64) {
	if total <= 0 {
		return 0, 0, 0
	}
	if d < 0 {
		d = 0
	}
	if d > total {
		d = total
	}
	return d, total - d, float64(d) / float64(total) * 100
}
