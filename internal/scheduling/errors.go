package scheduling

import (
	"fmt"

	"grantdesk/internal/model"
)

// IneligibleApplicationError means auto-assign or booking was attempted on
// an application that fails the eligibility predicate. Not retryable until
// the application is corrected upstream.
type IneligibleApplicationError struct {
	ApplicationID int64
}

func (e *IneligibleApplicationError) Error() string {
	return fmt.Sprintf("application %d is not eligible for an interview", e.ApplicationID)
}

// NoAvailableSlotsError means no open slot exists in the search window.
// Callers may retry with different preferences or a wider window.
type NoAvailableSlotsError struct {
	WindowDays int
	Type       model.InterviewType
}

func (e *NoAvailableSlotsError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("no available %s slots within %d days", e.Type, e.WindowDays)
	}
	return fmt.Sprintf("no available slots within %d days", e.WindowDays)
}

// SchedulingConflictError means the chosen slot was taken at commit time.
// Callers should re-fetch available slots and retry.
type SchedulingConflictError struct {
	Key model.SlotKey
}

func (e *SchedulingConflictError) Error() string {
	return fmt.Sprintf("slot %s is already booked", e.Key)
}
