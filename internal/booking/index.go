// Package booking indexes persisted interview schedules by slot for
// occupancy checks during grid filtering.
package booking

import (
	"context"

	"grantdesk/internal/model"
)

// ScheduleLister is the storage read used to build an index.
type ScheduleLister interface {
	ListActiveSchedules(ctx context.Context, from, to model.Date, typ model.InterviewType, interviewerID string) ([]model.InterviewSchedule, error)
}

// Index holds the set of occupied (date, time) keys for a date range.
// It is rebuilt from storage on every query; the index is advisory and
// can go stale between query and commit. The commit-time conflict check
// closes that race, not the index.
type Index struct {
	occupied map[model.SlotKey]struct{}
}

// Load builds an index over [from, to] inclusive. Only schedules with an
// occupying status count. The type and interviewer filters narrow which
// schedules occupy, but keys are (date, time) only.
func Load(ctx context.Context, lister ScheduleLister, from, to model.Date, typ model.InterviewType, interviewerID string) (*Index, error) {
	schedules, err := lister.ListActiveSchedules(ctx, from, to, typ, interviewerID)
	if err != nil {
		return nil, err
	}

	occupied := make(map[model.SlotKey]struct{}, len(schedules))
	for _, s := range schedules {
		occupied[model.SlotKey{Date: s.Date, Time: s.Time}] = struct{}{}
	}
	return &Index{occupied: occupied}, nil
}

// Occupied reports whether the slot at date+time is taken.
func (ix *Index) Occupied(date model.Date, tod model.TimeOfDay) bool {
	_, ok := ix.occupied[model.SlotKey{Date: date, Time: tod}]
	return ok
}

// Len returns the number of occupied slots.
func (ix *Index) Len() int {
	return len(ix.occupied)
}
