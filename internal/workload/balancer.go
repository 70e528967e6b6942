// Package workload balances interview assignments across the roster.
package workload

import (
	"context"
	"time"

	"grantdesk/internal/model"
)

// WeeklyCounter provides per-interviewer booking counts for a date range.
type WeeklyCounter interface {
	CountActiveByInterviewer(ctx context.Context, from, to model.Date) (map[string]int, error)
}

// Balancer picks the least-loaded interviewer for a week.
type Balancer struct {
	counter WeeklyCounter
}

// NewBalancer creates a balancer over the given counter.
func NewBalancer(counter WeeklyCounter) *Balancer {
	return &Balancer{counter: counter}
}

// WeekOf returns the Monday and Sunday of the ISO week containing ref.
func WeekOf(ref model.Date) (monday, sunday model.Date) {
	wd := ref.Weekday()
	// time.Weekday has Sunday = 0; ISO weeks start on Monday.
	offset := int(wd) - int(time.Monday)
	if wd == time.Sunday {
		offset = 6
	}
	monday = ref.AddDays(-offset)
	sunday = monday.AddDays(6)
	return monday, sunday
}

// LeastLoaded returns the roster interviewer with the fewest occupying
// bookings in the ISO week containing ref. Interviewers absent from the
// count map have zero bookings. Ties go to the earliest roster entry.
// Returns nil for an empty roster.
func (b *Balancer) LeastLoaded(ctx context.Context, roster []model.Interviewer, ref model.Date) (*model.Interviewer, error) {
	if len(roster) == 0 {
		return nil, nil
	}

	monday, sunday := WeekOf(ref)
	counts, err := b.counter.CountActiveByInterviewer(ctx, monday, sunday)
	if err != nil {
		return nil, err
	}

	best := roster[0]
	bestCount := counts[best.ID]
	for _, iv := range roster[1:] {
		if counts[iv.ID] < bestCount {
			best = iv
			bestCount = counts[iv.ID]
		}
	}
	return &best, nil
}
