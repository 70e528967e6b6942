package audit

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestGenerateFilename(t *testing.T) {
	ts := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "scheduling_2026-08.xlsx", GenerateFilename(ts))
	assert.Equal(t, "scheduling_2026-07.xlsx", GenerateFilenameForPreviousMonth(ts))

	// Year boundary.
	jan := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "scheduling_2025-12.xlsx", GenerateFilenameForPreviousMonth(jan))
}

func TestExcelizeWriterRoundTrip(t *testing.T) {
	w := NewExcelizeWriter()

	require.NoError(t, w.AddSheet("interview_schedules"))
	require.NoError(t, w.WriteHeader([]string{"id", "status"}))
	require.NoError(t, w.WriteRow([]interface{}{int64(1), "scheduled"}))
	require.NoError(t, w.WriteRow([]interface{}{int64(2), "cancelled"}))

	require.NoError(t, w.AddSheet("scheduling_audit"))
	require.NoError(t, w.WriteHeader([]string{"action"}))
	require.NoError(t, w.WriteRow([]interface{}{"scheduled"}))

	var buf bytes.Buffer
	require.NoError(t, w.Save(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	// The default sheet was renamed, not left behind.
	assert.ElementsMatch(t, []string{"interview_schedules", "scheduling_audit"}, f.GetSheetList())

	rows, err := f.GetRows("interview_schedules")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"id", "status"}, rows[0])
	assert.Equal(t, []string{"2", "cancelled"}, rows[2])
}

func TestExcelizeWriterRequiresSheet(t *testing.T) {
	w := NewExcelizeWriter()
	assert.Error(t, w.WriteHeader([]string{"a"}))
	assert.Error(t, w.WriteRow([]interface{}{"b"}))
}

type fakeExporter struct {
	tables map[string][]map[string]interface{}
	cols   map[string][]string
}

func (f *fakeExporter) GetTableNames(context.Context) ([]string, error) {
	names := make([]string, 0, len(f.tables))
	for name := range f.cols {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeExporter) GetTableData(_ context.Context, name string) ([]map[string]interface{}, []string, error) {
	return f.tables[name], f.cols[name], nil
}

func (f *fakeExporter) GetDB() *sql.DB { return nil }

type fakeCleaner struct {
	deleted   int64
	gotWindow time.Duration
	called    bool
}

func (f *fakeCleaner) DeleteFinishedBefore(_ context.Context, olderThan time.Duration) (int64, error) {
	f.called = true
	f.gotWindow = olderThan
	return f.deleted, nil
}

func TestServiceExport(t *testing.T) {
	dir := t.TempDir()
	exporter := &fakeExporter{
		tables: map[string][]map[string]interface{}{
			"interview_schedules": {{"id": int64(1), "status": "completed"}},
		},
		cols: map[string][]string{
			"interview_schedules": {"id", "status"},
		},
	}
	cleaner := &fakeCleaner{deleted: 3}

	svc := NewService(
		&Config{RetentionDays: 30, ExportDir: dir},
		exporter,
		func() ExcelWriter { return NewExcelizeWriter() },
		cleaner,
		nil,
	)

	svc.RunExportAndCleanup()

	path := filepath.Join(dir, GenerateFilenameForPreviousMonth(time.Now()))
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("interview_schedules")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1", "completed"}, rows[1])

	assert.True(t, cleaner.called)
	assert.Equal(t, 30*24*time.Hour, cleaner.gotWindow)
}

type failingExporter struct{ fakeExporter }

func (f *failingExporter) GetTableNames(context.Context) ([]string, error) {
	return nil, assert.AnError
}

func TestServiceCleanupSkippedOnExportFailure(t *testing.T) {
	cleaner := &fakeCleaner{}
	svc := NewService(
		&Config{ExportDir: t.TempDir()},
		&failingExporter{},
		func() ExcelWriter { return NewExcelizeWriter() },
		cleaner,
		nil,
	)

	svc.RunExportAndCleanup()
	assert.False(t, cleaner.called, "cleanup must not run when the export fails")
}
