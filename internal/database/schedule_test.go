package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grantdesk/internal/model"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testSchedule(appID int64, interviewerID string, day, hour, minute int) *model.InterviewSchedule {
	return &model.InterviewSchedule{
		ApplicationID: appID,
		InterviewerID: interviewerID,
		Date:          model.Date{Year: 2026, Month: 9, Day: day},
		Time:          model.TimeOfDay{Hour: hour, Minute: minute},
		Type:          model.TypeOnline,
		Location:      "Online",
		Status:        model.StatusScheduled,
	}
}

func TestCreateScheduleIfFree(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	s := testSchedule(1, "iv-1", 7, 10, 0)
	created, err := db.CreateScheduleIfFree(ctx, s)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, s.ID)

	// Same slot, same interviewer: rejected.
	dup := testSchedule(2, "iv-1", 7, 10, 0)
	created, err = db.CreateScheduleIfFree(ctx, dup)
	require.NoError(t, err)
	assert.False(t, created)

	// Same slot, different interviewer: allowed.
	other := testSchedule(3, "iv-2", 7, 10, 0)
	created, err = db.CreateScheduleIfFree(ctx, other)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestHasActiveSchedule(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	s := testSchedule(1, "iv-1", 7, 10, 0)
	created, err := db.CreateScheduleIfFree(ctx, s)
	require.NoError(t, err)
	require.True(t, created)

	taken, err := db.HasActiveSchedule(ctx, s.Date, s.Time, "")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = db.HasActiveSchedule(ctx, s.Date, model.TimeOfDay{Hour: 11}, "")
	require.NoError(t, err)
	assert.False(t, taken)

	// Finished statuses free the slot.
	for _, status := range []model.Status{model.StatusCancelled, model.StatusCompleted, model.StatusNoShow} {
		require.NoError(t, db.UpdateScheduleStatus(ctx, s.ID, status, ""))
		taken, err = db.HasActiveSchedule(ctx, s.Date, s.Time, "")
		require.NoError(t, err)
		assert.False(t, taken, "status %s must not occupy the slot", status)
	}
}

func TestListActiveSchedules(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seed := []*model.InterviewSchedule{
		testSchedule(1, "iv-1", 7, 9, 0),
		testSchedule(2, "iv-2", 8, 10, 30),
		testSchedule(3, "iv-1", 9, 14, 0),
	}
	for _, s := range seed {
		created, err := db.CreateScheduleIfFree(ctx, s)
		require.NoError(t, err)
		require.True(t, created)
	}
	// Cancelled schedules drop out of the active listing.
	require.NoError(t, db.UpdateScheduleStatus(ctx, seed[2].ID, model.StatusCancelled, ""))

	from := model.Date{Year: 2026, Month: 9, Day: 7}
	to := model.Date{Year: 2026, Month: 9, Day: 13}

	all, err := db.ListActiveSchedules(ctx, from, to, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byInterviewer, err := db.ListActiveSchedules(ctx, from, to, "", "iv-2")
	require.NoError(t, err)
	require.Len(t, byInterviewer, 1)
	assert.Equal(t, int64(2), byInterviewer[0].ApplicationID)
	assert.Equal(t, "10:30", byInterviewer[0].Time.String())

	// Range excludes dates outside [from, to].
	narrow, err := db.ListActiveSchedules(ctx, from, model.Date{Year: 2026, Month: 9, Day: 7}, "", "")
	require.NoError(t, err)
	assert.Len(t, narrow, 1)
}

func TestRescheduleIfFree(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	s := testSchedule(1, "iv-1", 7, 10, 0)
	created, err := db.CreateScheduleIfFree(ctx, s)
	require.NoError(t, err)
	require.True(t, created)

	blocker := testSchedule(2, "iv-1", 8, 11, 0)
	created, err = db.CreateScheduleIfFree(ctx, blocker)
	require.NoError(t, err)
	require.True(t, created)

	// Target slot taken by the same interviewer: rejected, nothing changes.
	moved, err := db.RescheduleIfFree(ctx, s.ID, blocker.Date, blocker.Time)
	require.NoError(t, err)
	assert.False(t, moved)

	got, err := db.GetSchedule(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusScheduled, got.Status)
	assert.Equal(t, "10:00", got.Time.String())

	// Free target: moved, status flips, reminder resets.
	require.NoError(t, db.MarkReminderSent(ctx, s.ID))
	moved, err = db.RescheduleIfFree(ctx, s.ID, model.Date{Year: 2026, Month: 9, Day: 9}, model.TimeOfDay{Hour: 15, Minute: 30})
	require.NoError(t, err)
	assert.True(t, moved)

	got, err = db.GetSchedule(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRescheduled, got.Status)
	assert.Equal(t, "2026-09-09", got.Date.String())
	assert.Equal(t, "15:30", got.Time.String())
	assert.False(t, got.ReminderSent)
}

func TestUpdateScheduleStatus(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	s := testSchedule(1, "iv-1", 7, 10, 0)
	created, err := db.CreateScheduleIfFree(ctx, s)
	require.NoError(t, err)
	require.True(t, created)

	require.NoError(t, db.UpdateScheduleStatus(ctx, s.ID, model.StatusCompleted, "went well"))
	got, err := db.GetSchedule(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)
	assert.Equal(t, "went well", got.Notes)

	// Empty notes keep existing ones.
	require.NoError(t, db.UpdateScheduleStatus(ctx, s.ID, model.StatusCancelled, ""))
	got, err = db.GetSchedule(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "went well", got.Notes)

	err = db.UpdateScheduleStatus(ctx, 9999, model.StatusCancelled, "")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCountActiveByInterviewer(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seed := []*model.InterviewSchedule{
		testSchedule(1, "iv-1", 7, 9, 0),
		testSchedule(2, "iv-1", 7, 10, 0),
		testSchedule(3, "iv-2", 8, 9, 0),
	}
	for _, s := range seed {
		created, err := db.CreateScheduleIfFree(ctx, s)
		require.NoError(t, err)
		require.True(t, created)
	}
	require.NoError(t, db.UpdateScheduleStatus(ctx, seed[1].ID, model.StatusNoShow, ""))

	counts, err := db.CountActiveByInterviewer(ctx,
		model.Date{Year: 2026, Month: 9, Day: 7},
		model.Date{Year: 2026, Month: 9, Day: 13},
	)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"iv-1": 1, "iv-2": 1}, counts)
}

func TestListUpcomingAndMarkReminder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	now := time.Now()
	tomorrow := model.DateOf(now.AddDate(0, 0, 1))

	s := &model.InterviewSchedule{
		ApplicationID: 1,
		InterviewerID: "iv-1",
		Date:          tomorrow,
		Time:          model.TimeOfDay{Hour: 10},
		Type:          model.TypeOnline,
		Status:        model.StatusScheduled,
	}
	created, err := db.CreateScheduleIfFree(ctx, s)
	require.NoError(t, err)
	require.True(t, created)

	upcoming, err := db.ListUpcoming(ctx, now, 48*time.Hour)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, s.ID, upcoming[0].ID)

	require.NoError(t, db.MarkReminderSent(ctx, s.ID))
	upcoming, err = db.ListUpcoming(ctx, now, 48*time.Hour)
	require.NoError(t, err)
	assert.Empty(t, upcoming)
}

func TestDeleteFinishedBefore(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	yesterday := model.DateOf(time.Now().AddDate(0, 0, -1))
	old := &model.InterviewSchedule{
		ApplicationID: 1,
		InterviewerID: "iv-1",
		Date:          yesterday,
		Time:          model.TimeOfDay{Hour: 10},
		Type:          model.TypeOnline,
		Status:        model.StatusScheduled,
	}
	created, err := db.CreateScheduleIfFree(ctx, old)
	require.NoError(t, err)
	require.True(t, created)

	// Still active: retention must not touch it.
	deleted, err := db.DeleteFinishedBefore(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	require.NoError(t, db.UpdateScheduleStatus(ctx, old.ID, model.StatusCompleted, ""))
	deleted, err = db.DeleteFinishedBefore(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestAuditEventsAndExportData(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	s := testSchedule(1, "iv-1", 7, 10, 0)
	created, err := db.CreateScheduleIfFree(ctx, s)
	require.NoError(t, err)
	require.True(t, created)

	err = db.InsertAuditEvent(ctx, model.AuditEvent{
		ScheduleID:    s.ID,
		ApplicationID: s.ApplicationID,
		Action:        "scheduled",
		Detail:        "auto",
	})
	require.NoError(t, err)

	names, err := db.GetTableNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, AuditTableNames, names)

	data, columns, err := db.GetTableData(ctx, "scheduling_audit")
	require.NoError(t, err)
	assert.Contains(t, columns, "action")
	require.Len(t, data, 1)
	assert.EqualValues(t, "scheduled", data[0]["action"])

	_, _, err = db.GetTableData(ctx, "sqlite_master")
	assert.Error(t, err)
}
