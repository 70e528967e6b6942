package model

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input    string
		expected Date
		wantErr  bool
	}{
		{"2026-09-07", Date{Year: 2026, Month: time.September, Day: 7}, false},
		{"2026-01-01", Date{Year: 2026, Month: time.January, Day: 1}, false},
		{"07.09.2026", Date{}, true},
		{"2026-13-01", Date{}, true},
		{"", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestDateArithmetic(t *testing.T) {
	d := Date{Year: 2026, Month: time.September, Day: 7}

	if got := d.AddDays(7); got != (Date{Year: 2026, Month: time.September, Day: 14}) {
		t.Errorf("AddDays(7): got %v", got)
	}
	if got := d.AddDays(-7); got != (Date{Year: 2026, Month: time.August, Day: 31}) {
		t.Errorf("AddDays(-7) across month: got %v", got)
	}
	if got := d.DaysUntil(d.AddDays(3)); got != 3 {
		t.Errorf("DaysUntil forward: got %d", got)
	}
	if got := d.DaysUntil(d.AddDays(-2)); got != -2 {
		t.Errorf("DaysUntil backward: got %d", got)
	}
	if !d.Before(d.AddDays(1)) || d.AddDays(1).Before(d) {
		t.Error("Before ordering broken")
	}
}

func TestDateWeekend(t *testing.T) {
	tests := []struct {
		date     Date
		expected bool
	}{
		{Date{Year: 2026, Month: time.September, Day: 7}, false},  // Monday
		{Date{Year: 2026, Month: time.September, Day: 11}, false}, // Friday
		{Date{Year: 2026, Month: time.September, Day: 12}, true},  // Saturday
		{Date{Year: 2026, Month: time.September, Day: 13}, true},  // Sunday
	}
	for _, tt := range tests {
		if got := tt.date.IsWeekend(); got != tt.expected {
			t.Errorf("IsWeekend(%s) = %v, expected %v", tt.date, got, tt.expected)
		}
	}
}

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("09:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (TimeOfDay{Hour: 9, Minute: 30}) {
		t.Errorf("got %v", got)
	}
	if got.String() != "09:30" {
		t.Errorf("String(): got %s", got.String())
	}

	for _, bad := range []string{"9:30am", "25:00", "12", ""} {
		if _, err := ParseTimeOfDay(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestTimeOfDayAddMinutes(t *testing.T) {
	start := TimeOfDay{Hour: 9}
	if got := start.AddMinutes(30); got != (TimeOfDay{Hour: 9, Minute: 30}) {
		t.Errorf("got %v", got)
	}
	if got := start.AddMinutes(90); got != (TimeOfDay{Hour: 10, Minute: 30}) {
		t.Errorf("hour carry: got %v", got)
	}
}

func TestSlotKeyComparable(t *testing.T) {
	a := SlotKey{Date: Date{Year: 2026, Month: time.September, Day: 7}, Time: TimeOfDay{Hour: 9}}
	b := SlotKey{Date: Date{Year: 2026, Month: time.September, Day: 7}, Time: TimeOfDay{Hour: 9}}

	m := map[SlotKey]struct{}{a: {}}
	if _, ok := m[b]; !ok {
		t.Error("equal keys must collide in a map")
	}

	c := a
	c.InterviewerID = "iv-1"
	if _, ok := m[c]; ok {
		t.Error("interviewer-qualified key must be distinct")
	}
}

func TestStatusOccupies(t *testing.T) {
	occupying := map[Status]bool{
		StatusScheduled:   true,
		StatusRescheduled: true,
		StatusCompleted:   false,
		StatusCancelled:   false,
		StatusNoShow:      false,
	}
	for status, expected := range occupying {
		if got := status.Occupies(); got != expected {
			t.Errorf("Occupies(%s) = %v, expected %v", status, got, expected)
		}
	}
}

func TestInterviewTypeValid(t *testing.T) {
	for _, typ := range []InterviewType{TypeInPerson, TypeOnline, TypePhone} {
		if !typ.Valid() {
			t.Errorf("expected %s to be valid", typ)
		}
	}
	if InterviewType("fax").Valid() {
		t.Error("unknown type must be invalid")
	}
	if InterviewType("").Valid() {
		t.Error("empty type must be invalid")
	}
}
