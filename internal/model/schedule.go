package model

import "time"

// Status represents the lifecycle state of a persisted interview schedule.
type Status string

const (
	StatusScheduled   Status = "scheduled"
	StatusRescheduled Status = "rescheduled"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
	StatusNoShow      Status = "no_show"
)

// ActiveStatuses are the statuses that occupy a slot. Completed, cancelled
// and no-show records free the slot.
var ActiveStatuses = []Status{StatusScheduled, StatusRescheduled}

// Occupies reports whether a schedule in this status blocks its slot.
func (s Status) Occupies() bool {
	return s == StatusScheduled || s == StatusRescheduled
}

// InterviewSchedule is a committed interview booking.
type InterviewSchedule struct {
	ID            int64         `json:"id"`
	ApplicationID int64         `json:"application_id"`
	InterviewerID string        `json:"interviewer_id"`
	Date          Date          `json:"date"`
	Time          TimeOfDay     `json:"time"`
	Type          InterviewType `json:"interview_type"`
	Location      string        `json:"location,omitempty"`
	MeetingLink   string        `json:"meeting_link,omitempty"`
	Status        Status        `json:"status"`
	Notes         string        `json:"notes,omitempty"`
	ReminderSent  bool          `json:"reminder_sent"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Key returns the occupancy key of the schedule.
func (s *InterviewSchedule) Key() SlotKey {
	return SlotKey{Date: s.Date, Time: s.Time, InterviewerID: s.InterviewerID}
}

// StartTime returns the interview start as an absolute instant.
func (s *InterviewSchedule) StartTime(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(s.Date.Year, s.Date.Month, s.Date.Day, s.Time.Hour, s.Time.Minute, 0, 0, loc)
}

// AuditEvent records a state transition on a schedule.
type AuditEvent struct {
	ID            int64     `json:"id"`
	ScheduleID    int64     `json:"schedule_id"`
	ApplicationID int64     `json:"application_id"`
	Action        string    `json:"action"`
	Detail        string    `json:"detail,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
