package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"grantdesk/internal/model"
)

const scheduleColumns = `id, application_id, interviewer_id, interview_date, interview_time,
       interview_type, location, meeting_link, status, notes, reminder_sent,
       created_at, updated_at`

// ListActiveSchedules returns schedules with an occupying status
// (scheduled/rescheduled) in [from, to] inclusive, optionally filtered by
// interview type and interviewer.
func (db *DB) ListActiveSchedules(ctx context.Context, from, to model.Date, typ model.InterviewType, interviewerID string) ([]model.InterviewSchedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM interview_schedules
		WHERE interview_date >= ? AND interview_date <= ?
		AND status IN ('scheduled', 'rescheduled')`
	args := []any{from.String(), to.String()}

	if typ != "" {
		query += " AND interview_type = ?"
		args = append(args, string(typ))
	}
	if interviewerID != "" {
		query += " AND interviewer_id = ?"
		args = append(args, interviewerID)
	}
	query += " ORDER BY interview_date, interview_time"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []model.InterviewSchedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, *s)
	}
	return schedules, rows.Err()
}

// HasActiveSchedule reports whether an occupying schedule exists at the
// exact date and time, additionally filtered by interviewer when provided.
// This is the authoritative conflict check used right before commit.
func (db *DB) HasActiveSchedule(ctx context.Context, date model.Date, tod model.TimeOfDay, interviewerID string) (bool, error) {
	query := `
		SELECT COUNT(*) FROM interview_schedules
		WHERE interview_date = ? AND interview_time = ?
		AND status IN ('scheduled', 'rescheduled')`
	args := []any{date.String(), tod.String()}
	if interviewerID != "" {
		query += " AND interviewer_id = ?"
		args = append(args, interviewerID)
	}

	var count int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateScheduleIfFree re-checks the slot and inserts the schedule in a
// single transaction. Returns false when the slot is already taken; the
// partial unique index on active slots backs this up against races the
// transaction alone cannot see.
func (db *DB) CreateScheduleIfFree(ctx context.Context, s *model.InterviewSchedule) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		SELECT COUNT(*) FROM interview_schedules
		WHERE interview_date = ? AND interview_time = ?
		AND status IN ('scheduled', 'rescheduled')`
	args := []any{s.Date.String(), s.Time.String()}
	if s.InterviewerID != "" {
		query += " AND interviewer_id = ?"
		args = append(args, s.InterviewerID)
	}

	var count int
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("conflict check: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	now := time.Now()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO interview_schedules (
			application_id, interviewer_id, interview_date, interview_time,
			interview_type, location, meeting_link, status, notes,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ApplicationID, s.InterviewerID, s.Date.String(), s.Time.String(),
		string(s.Type), s.Location, s.MeetingLink, string(s.Status), s.Notes,
		now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert schedule: %w", err)
	}
	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("commit: %w", err)
	}

	s.ID, _ = res.LastInsertId()
	s.CreatedAt = now
	s.UpdatedAt = now
	return true, nil
}

// RescheduleIfFree moves a schedule to a new slot and flips its status to
// rescheduled, re-checking the target slot inside the transaction.
func (db *DB) RescheduleIfFree(ctx context.Context, id int64, date model.Date, tod model.TimeOfDay) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var interviewerID string
	if err := tx.QueryRowContext(ctx,
		"SELECT interviewer_id FROM interview_schedules WHERE id = ?", id,
	).Scan(&interviewerID); err != nil {
		return false, fmt.Errorf("load schedule %d: %w", id, err)
	}

	query := `
		SELECT COUNT(*) FROM interview_schedules
		WHERE interview_date = ? AND interview_time = ?
		AND status IN ('scheduled', 'rescheduled') AND id != ?`
	args := []any{date.String(), tod.String(), id}
	if interviewerID != "" {
		query += " AND interviewer_id = ?"
		args = append(args, interviewerID)
	}

	var count int
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("conflict check: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE interview_schedules
		SET interview_date = ?, interview_time = ?, status = 'rescheduled',
		    reminder_sent = 0, updated_at = ?
		WHERE id = ?`,
		date.String(), tod.String(), time.Now(), id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("update schedule: %w", err)
	}
	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}

// GetSchedule returns a schedule by ID.
func (db *DB) GetSchedule(ctx context.Context, id int64) (*model.InterviewSchedule, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+scheduleColumns+`
		FROM interview_schedules WHERE id = ?`, id)
	return scanSchedule(row)
}

// UpdateScheduleStatus sets the status and optional notes for a schedule.
func (db *DB) UpdateScheduleStatus(ctx context.Context, id int64, status model.Status, notes string) error {
	res, err := db.ExecContext(ctx, `
		UPDATE interview_schedules
		SET status = ?, notes = CASE WHEN ? != '' THEN ? ELSE notes END, updated_at = ?
		WHERE id = ?`,
		string(status), notes, notes, time.Now(), id,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountActiveByInterviewer returns occupying-schedule counts per
// interviewer within [from, to] inclusive. Interviewers with no bookings
// are simply absent from the map.
func (db *DB) CountActiveByInterviewer(ctx context.Context, from, to model.Date) (map[string]int, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT interviewer_id, COUNT(*)
		FROM interview_schedules
		WHERE interview_date >= ? AND interview_date <= ?
		AND status IN ('scheduled', 'rescheduled')
		GROUP BY interviewer_id`,
		from.String(), to.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// ListUpcoming returns active schedules starting within the look-ahead
// window that have not had a reminder sent yet.
func (db *DB) ListUpcoming(ctx context.Context, now time.Time, within time.Duration) ([]model.InterviewSchedule, error) {
	from := model.DateOf(now)
	to := model.DateOf(now.Add(within))

	schedules, err := db.ListActiveSchedules(ctx, from, to, "", "")
	if err != nil {
		return nil, err
	}

	horizon := now.Add(within)
	var upcoming []model.InterviewSchedule
	for _, s := range schedules {
		if s.ReminderSent {
			continue
		}
		start := s.StartTime(now.Location())
		if start.After(now) && start.Before(horizon) {
			upcoming = append(upcoming, s)
		}
	}
	return upcoming, nil
}

// MarkReminderSent flags a schedule as reminded.
func (db *DB) MarkReminderSent(ctx context.Context, id int64) error {
	_, err := db.ExecContext(ctx,
		"UPDATE interview_schedules SET reminder_sent = 1, updated_at = ? WHERE id = ?",
		time.Now(), id,
	)
	return err
}

// DeleteFinishedBefore removes completed/cancelled/no-show schedules older
// than the retention window. Active schedules are never touched.
func (db *DB) DeleteFinishedBefore(ctx context.Context, olderThan time.Duration) (int64, error) {
	before := model.DateOf(time.Now().Add(-olderThan))
	res, err := db.ExecContext(ctx, `
		DELETE FROM interview_schedules
		WHERE interview_date < ?
		AND status IN ('completed', 'cancelled', 'no_show')`,
		before.String(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner) (*model.InterviewSchedule, error) {
	var s model.InterviewSchedule
	var date, tod, typ, status string
	var location, meetingLink, notes sql.NullString

	err := row.Scan(
		&s.ID, &s.ApplicationID, &s.InterviewerID, &date, &tod,
		&typ, &location, &meetingLink, &status, &notes, &s.ReminderSent,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if s.Date, err = model.ParseDate(date); err != nil {
		return nil, err
	}
	if s.Time, err = model.ParseTimeOfDay(tod); err != nil {
		return nil, err
	}
	s.Type = model.InterviewType(typ)
	s.Status = model.Status(status)
	if location.Valid {
		s.Location = location.String
	}
	if meetingLink.Valid {
		s.MeetingLink = meetingLink.String
	}
	if notes.Valid {
		s.Notes = notes.String
	}
	return &s, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}
