package slots

import (
	"testing"
	"time"

	"grantdesk/internal/model"
)

func TestGridTimes(t *testing.T) {
	grid := DefaultGrid()

	tests := []struct {
		name          string
		date          model.Date
		expectedCount int
	}{
		{
			name:          "monday full grid",
			date:          model.DateOf(time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)),
			expectedCount: 16,
		},
		{
			name:          "friday full grid",
			date:          model.DateOf(time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC)),
			expectedCount: 16,
		},
		{
			name:          "saturday no slots",
			date:          model.DateOf(time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)),
			expectedCount: 0,
		},
		{
			name:          "sunday no slots",
			date:          model.DateOf(time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC)),
			expectedCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			times := grid.Times(tt.date)
			if len(times) != tt.expectedCount {
				t.Fatalf("expected %d slots, got %d", tt.expectedCount, len(times))
			}
		})
	}
}

func TestGridTimesBounds(t *testing.T) {
	grid := DefaultGrid()
	monday := model.DateOf(time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC))

	times := grid.Times(monday)
	if len(times) == 0 {
		t.Fatal("expected slots on a business day")
	}

	if got := times[0].String(); got != "09:00" {
		t.Errorf("first slot: expected 09:00, got %s", got)
	}
	if got := times[len(times)-1].String(); got != "16:30" {
		t.Errorf("last slot: expected 16:30, got %s", got)
	}

	// Strictly ascending
	for i := 1; i < len(times); i++ {
		if !times[i-1].Before(times[i]) {
			t.Errorf("slots not ascending at index %d: %s then %s", i, times[i-1], times[i])
		}
	}
}

func TestGridTimesIdempotent(t *testing.T) {
	grid := DefaultGrid()
	date := model.DateOf(time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC))

	first := grid.Times(date)
	second := grid.Times(date)

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("slot %d differs: %s vs %s", i, first[i], second[i])
		}
	}
}

func TestGridCustomStep(t *testing.T) {
	grid := Grid{
		Start:       model.TimeOfDay{Hour: 10},
		End:         model.TimeOfDay{Hour: 12},
		StepMinutes: 60,
	}
	wednesday := model.DateOf(time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC))

	times := grid.Times(wednesday)
	if len(times) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(times))
	}
	if times[0].String() != "10:00" || times[1].String() != "11:00" {
		t.Errorf("unexpected slots: %v", times)
	}
}

func TestSlotsPerDay(t *testing.T) {
	if got := DefaultGrid().SlotsPerDay(); got != 16 {
		t.Errorf("expected 16 slots per day, got %d", got)
	}
}
