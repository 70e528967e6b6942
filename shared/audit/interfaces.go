package audit

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"
)

// TableExporter provides access to database tables for export.
type TableExporter interface {
	// GetTableNames returns list of table names to export.
	GetTableNames(ctx context.Context) ([]string, error)

	// GetTableData returns rows for a table as maps.
	GetTableData(ctx context.Context, tableName string) ([]map[string]interface{}, []string, error)

	// GetDB returns underlying sql.DB for custom queries.
	GetDB() *sql.DB
}

// ExcelWriter writes data to Excel format.
type ExcelWriter interface {
	// AddSheet adds a new sheet with the given name.
	AddSheet(name string) error

	// WriteHeader writes column headers to current sheet.
	WriteHeader(columns []string) error

	// WriteRow writes a data row to current sheet.
	WriteRow(row []interface{}) error

	// Save writes the Excel file to the writer.
	Save(w io.Writer) error

	// SaveToFile writes the Excel file to disk.
	SaveToFile(path string) error
}

// DataCleaner interface for cleaning old data.
type DataCleaner interface {
	// DeleteFinishedBefore deletes finished schedules older than the
	// retention window. Returns the number of rows removed.
	DeleteFinishedBefore(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Logger for audit operations.
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	Debug(msg string, fields ...interface{})
}

// GenerateFilename creates a filename like "scheduling_2026-08.xlsx".
func GenerateFilename(t time.Time) string {
	return fmt.Sprintf("scheduling_%04d-%02d.xlsx", t.Year(), int(t.Month()))
}

// GenerateFilenameForPreviousMonth creates the filename for last month.
func GenerateFilenameForPreviousMonth(now time.Time) string {
	return GenerateFilename(now.AddDate(0, -1, 0))
}
