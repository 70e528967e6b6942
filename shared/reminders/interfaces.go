package reminders

import (
	"context"
	"time"

	"grantdesk/internal/model"
)

// ScheduleStore provides the schedule reads and writes reminders need.
type ScheduleStore interface {
	// ListUpcoming returns active schedules starting within the window
	// that have no reminder sent yet.
	ListUpcoming(ctx context.Context, now time.Time, within time.Duration) ([]model.InterviewSchedule, error)

	// MarkReminderSent flags a schedule as reminded.
	MarkReminderSent(ctx context.Context, id int64) error
}

// Sender delivers a reminder. Delivery transport lives outside this core;
// implementations hand the payload to whatever dispatch the caller runs.
type Sender interface {
	SendReminder(ctx context.Context, schedule model.InterviewSchedule) error
}

// Logger for reminder operations.
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	Debug(msg string, fields ...interface{})
}
