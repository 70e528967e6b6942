package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"grantdesk/internal/model"
)

// AuditTableNames are the tables included in audit exports.
var AuditTableNames = []string{
	"interview_schedules",
	"scheduling_audit",
}

// InsertAuditEvent records a scheduling state transition.
func (db *DB) InsertAuditEvent(ctx context.Context, e model.AuditEvent) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO scheduling_audit (schedule_id, application_id, action, detail, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		e.ScheduleID, e.ApplicationID, e.Action, e.Detail, time.Now(),
	)
	return err
}

// GetTableNames returns the list of table names to export.
func (db *DB) GetTableNames(ctx context.Context) ([]string, error) {
	return AuditTableNames, nil
}

// GetTableData returns all rows from a table as maps.
func (db *DB) GetTableData(ctx context.Context, tableName string) (data []map[string]interface{}, columns []string, err error) {
	// Validate table name to prevent SQL injection
	validTable := false
	for _, t := range AuditTableNames {
		if t == tableName {
			validTable = true
			break
		}
	}
	if !validTable {
		return nil, nil, fmt.Errorf("invalid table name: %s", tableName)
	}

	var rows *sql.Rows
	rows, err = db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", tableName))
	if err != nil {
		return nil, nil, err
	}
	for rows.Next() {
		var cid int
		var name, typeName string
		var notNull, pk int
		var dfltValue sql.NullString
		if err = rows.Scan(&cid, &name, &typeName, &notNull, &dfltValue, &pk); err != nil {
			rows.Close()
			return nil, nil, err
		}
		columns = append(columns, name)
	}
	rows.Close()

	if len(columns) == 0 {
		return nil, nil, fmt.Errorf("table %s has no columns", tableName)
	}

	rows, err = db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s", tableName))
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err = rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		data = append(data, row)
	}
	return data, columns, rows.Err()
}

// GetDB returns the underlying sql.DB for custom export queries.
func (db *DB) GetDB() *sql.DB {
	return db.DB
}
