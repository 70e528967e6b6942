// Package audit exports scheduling tables to Excel workbooks on a monthly
// cadence and prunes finished records past retention.
package audit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config holds configuration for the audit service.
type Config struct {
	// RetentionDays is how many days finished schedules are kept.
	// Default: 365 days.
	RetentionDays int

	// ExportDir is where workbooks land. Default: "exports".
	ExportDir string

	// ExportOnStart if true, runs an export immediately on service start.
	ExportOnStart bool
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays: 365,
		ExportDir:     "exports",
	}
}

// Service handles monthly audit exports and data cleanup.
type Service struct {
	config   *Config
	exporter TableExporter
	writer   func() ExcelWriter // factory for creating new Excel writers
	cleaner  DataCleaner
	logger   Logger
	stopCh   chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	running  bool
}

// NewService creates a new audit service.
func NewService(
	config *Config,
	exporter TableExporter,
	writerFactory func() ExcelWriter,
	cleaner DataCleaner,
	logger Logger,
) *Service {
	if config == nil {
		config = DefaultConfig()
	}
	if config.RetentionDays <= 0 {
		config.RetentionDays = 365
	}
	if config.ExportDir == "" {
		config.ExportDir = "exports"
	}

	return &Service{
		config:   config,
		exporter: exporter,
		writer:   writerFactory,
		cleaner:  cleaner,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the audit scheduler.
func (s *Service) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	if s.config.ExportOnStart {
		go s.RunExportAndCleanup()
	}

	s.wg.Add(1)
	go s.loop()

	if s.logger != nil {
		s.logger.Info("Audit service started",
			"retention_days", s.config.RetentionDays,
			"export_dir", s.config.ExportDir,
		)
	}
}

// Stop gracefully stops the audit service.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()

	if s.logger != nil {
		s.logger.Info("Audit service stopped")
	}
}

func (s *Service) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	lastExportMonth := time.Now().Month()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			if m := time.Now().Month(); m != lastExportMonth {
				lastExportMonth = m
				s.RunExportAndCleanup()
			}
		}
	}
}

// RunExportAndCleanup exports all audit tables to a workbook and then
// deletes finished schedules past retention.
func (s *Service) RunExportAndCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := s.Export(ctx); err != nil {
		if s.logger != nil {
			s.logger.Error("Audit export failed", "error", err)
		}
		// Cleanup is skipped when the export fails; data is only pruned
		// after it has been written out.
		return
	}

	retention := time.Duration(s.config.RetentionDays) * 24 * time.Hour
	deleted, err := s.cleaner.DeleteFinishedBefore(ctx, retention)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("Audit cleanup failed", "error", err)
		}
		return
	}
	if s.logger != nil && deleted > 0 {
		s.logger.Info("Audit cleanup removed old schedules", "count", deleted)
	}
}

// Export writes one sheet per audit table into a monthly workbook.
func (s *Service) Export(ctx context.Context) error {
	if err := os.MkdirAll(s.config.ExportDir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	tables, err := s.exporter.GetTableNames(ctx)
	if err != nil {
		return fmt.Errorf("get table names: %w", err)
	}

	writer := s.writer()
	for _, table := range tables {
		data, columns, err := s.exporter.GetTableData(ctx, table)
		if err != nil {
			return fmt.Errorf("get data for %s: %w", table, err)
		}

		if err := writer.AddSheet(table); err != nil {
			return err
		}
		if err := writer.WriteHeader(columns); err != nil {
			return err
		}
		for _, row := range data {
			values := make([]interface{}, len(columns))
			for i, col := range columns {
				values[i] = row[col]
			}
			if err := writer.WriteRow(values); err != nil {
				return err
			}
		}
	}

	path := filepath.Join(s.config.ExportDir, GenerateFilenameForPreviousMonth(time.Now()))
	if err := writer.SaveToFile(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Audit export written", "path", path, "tables", len(tables))
	}
	return nil
}
