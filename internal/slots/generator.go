// Package slots generates the canonical grid of bookable interview times.
package slots

import (
	"grantdesk/internal/model"
)

// Grid describes the bookable time-of-day grid within business hours.
type Grid struct {
	Start       model.TimeOfDay // inclusive
	End         model.TimeOfDay // exclusive
	StepMinutes int
}

// DefaultGrid is the standard office grid: 09:00 through 17:00 exclusive
// in 30-minute steps, 16 slots per business day.
func DefaultGrid() Grid {
	return Grid{
		Start:       model.TimeOfDay{Hour: 9},
		End:         model.TimeOfDay{Hour: 17},
		StepMinutes: 30,
	}
}

// Times returns the ordered slot times for a date. Weekends are
// categorically non-bookable and yield an empty sequence. The result is a
// pure function of the date; no holiday calendar is modeled.
func (g Grid) Times(date model.Date) []model.TimeOfDay {
	if date.IsWeekend() {
		return nil
	}

	step := g.StepMinutes
	if step <= 0 {
		step = 30
	}

	var times []model.TimeOfDay
	for cursor := g.Start; cursor.Before(g.End); cursor = cursor.AddMinutes(step) {
		times = append(times, cursor)
	}
	return times
}

// SlotsPerDay returns the number of slots on a business day.
func (g Grid) SlotsPerDay() int {
	step := g.StepMinutes
	if step <= 0 {
		step = 30
	}
	span := g.End.Minutes() - g.Start.Minutes()
	if span <= 0 {
		return 0
	}
	return (span + step - 1) / step
}
