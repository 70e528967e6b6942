package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps sql.DB for the interview scheduling service.
type DB struct {
	*sql.DB
}

// NewDB opens the database at path and runs migrations.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := createTables(db); err != nil {
		return nil, err
	}
	return &DB{db}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		// Committed interview bookings. Slots themselves are never stored.
		`CREATE TABLE IF NOT EXISTS interview_schedules (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            application_id INTEGER NOT NULL,
            interviewer_id TEXT NOT NULL DEFAULT '',
            interview_date TEXT NOT NULL,
            interview_time TEXT NOT NULL,
            interview_type TEXT NOT NULL,
            location TEXT,
            meeting_link TEXT,
            status TEXT NOT NULL DEFAULT 'scheduled',
            notes TEXT,
            reminder_sent BOOLEAN NOT NULL DEFAULT 0,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,

		// Audit trail of scheduling state transitions.
		`CREATE TABLE IF NOT EXISTS scheduling_audit (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            schedule_id INTEGER NOT NULL,
            application_id INTEGER NOT NULL,
            action TEXT NOT NULL,
            detail TEXT,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,

		// Two concurrent commits for the same slot race at this index;
		// the losing insert fails instead of double-booking.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_schedules_active_slot
            ON interview_schedules(interview_date, interview_time, interviewer_id)
            WHERE status IN ('scheduled', 'rescheduled')`,

		`CREATE INDEX IF NOT EXISTS idx_schedules_range
            ON interview_schedules(interview_date, interview_type, status)`,
		`CREATE INDEX IF NOT EXISTS idx_schedules_status
            ON interview_schedules(status)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_schedule
            ON scheduling_audit(schedule_id)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("exec migration %s: %w", trimSQL(q), err)
		}
	}
	return nil
}

func trimSQL(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 60 {
		return s[:60] + "..."
	}
	return s
}
