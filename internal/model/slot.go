package model

import (
	"fmt"
	"time"
)

// InterviewType determines how the interview is conducted.
type InterviewType string

const (
	TypeInPerson InterviewType = "in_person"
	TypeOnline   InterviewType = "online"
	TypePhone    InterviewType = "phone"
)

// Valid reports whether the type is one of the known interview types.
func (t InterviewType) Valid() bool {
	switch t {
	case TypeInPerson, TypeOnline, TypePhone:
		return true
	}
	return false
}

// Date is a calendar date without a time component. It is comparable and
// safe to use as a map key, unlike time.Time.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf extracts the calendar date from t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q; expected YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

// Time returns midnight of the date in the given location.
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns the date n calendar days later (or earlier for negative n).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time(time.UTC).AddDate(0, 0, n))
}

// Weekday returns the day of week.
func (d Date) Weekday() time.Weekday {
	return d.Time(time.UTC).Weekday()
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Before reports whether d is earlier than o.
func (d Date) Before(o Date) bool {
	return d.Time(time.UTC).Before(o.Time(time.UTC))
}

// DaysUntil returns the number of calendar days from d to o.
// Negative when o is earlier than d.
func (d Date) DaysUntil(o Date) int {
	return int(o.Time(time.UTC).Sub(d.Time(time.UTC)) / (24 * time.Hour))
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	return d.Time(time.UTC).Format("2006-01-02")
}

// TimeOfDay is a wall-clock time at minute granularity.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses an HH:MM string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time %q; expected HH:MM", s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// Minutes returns minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// AddMinutes returns the time m minutes later.
func (t TimeOfDay) AddMinutes(m int) TimeOfDay {
	total := t.Minutes() + m
	return TimeOfDay{Hour: total / 60, Minute: total % 60}
}

// Before reports whether t is earlier than o.
func (t TimeOfDay) Before(o TimeOfDay) bool {
	return t.Minutes() < o.Minutes()
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// SlotKey identifies a bookable slot. InterviewerID is empty when the
// occupancy dimension being tracked does not distinguish interviewers.
type SlotKey struct {
	Date          Date
	Time          TimeOfDay
	InterviewerID string
}

func (k SlotKey) String() string {
	if k.InterviewerID == "" {
		return fmt.Sprintf("%s %s", k.Date, k.Time)
	}
	return fmt.Sprintf("%s %s (%s)", k.Date, k.Time, k.InterviewerID)
}

// InterviewSlot is a bookable slot descriptor. Slots are generated on
// demand and never persisted; booking one creates an InterviewSchedule.
type InterviewSlot struct {
	Date        Date          `json:"date"`
	Time        TimeOfDay     `json:"time"`
	Type        InterviewType `json:"interview_type"`
	Location    string        `json:"location,omitempty"`
	MeetingLink string        `json:"meeting_link,omitempty"`

	// Score is computed during optimal selection only; it is not part of
	// the slot's identity.
	Score int `json:"score,omitempty"`
}

// Key returns the occupancy key for the slot.
func (s InterviewSlot) Key(interviewerID string) SlotKey {
	return SlotKey{Date: s.Date, Time: s.Time, InterviewerID: interviewerID}
}
