// Package sheets mirrors confirmed interview schedules into a Google
// Sheet for the scholarship office.
package sheets

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/oauth2/google"
	gsheets "google.golang.org/api/sheets/v4"
	"google.golang.org/api/option"

	"grantdesk/internal/model"
)

const scheduleSheetName = "Interviews"

// SheetsService writes interview schedules to a spreadsheet.
type SheetsService struct {
	srv           *gsheets.Service
	spreadsheetID string

	mu       sync.Mutex
	rowCache map[int64]int // schedule ID -> sheet row
}

// NewSheetsService authenticates with a service-account credentials file.
func NewSheetsService(ctx context.Context, credentialsFile, spreadsheetID string) (*SheetsService, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	conf, err := google.JWTConfigFromJSON(data, gsheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	srv, err := gsheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}

	return &SheetsService{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		rowCache:      make(map[int64]int),
	}, nil
}

// SyncWeek rewrites the sheet with the active schedules of the week
// containing ref. Cancelled and finished schedules are not mirrored.
func (s *SheetsService) SyncWeek(ctx context.Context, schedules []model.InterviewSchedule) error {
	active := s.filterActiveSchedules(schedules)

	values := [][]interface{}{scheduleHeaderValues()}
	for i := range active {
		values = append(values, scheduleRowValues(&active[i]))
		s.setCachedRow(active[i].ID, len(values))
	}

	clearReq := &gsheets.ClearValuesRequest{}
	if _, err := s.srv.Spreadsheets.Values.
		Clear(s.spreadsheetID, scheduleSheetName, clearReq).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet: %w", err)
	}

	body := &gsheets.ValueRange{Values: values}
	_, err := s.srv.Spreadsheets.Values.
		Update(s.spreadsheetID, scheduleSheetName+"!A1", body).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write sheet: %w", err)
	}
	return nil
}

// filterActiveSchedules keeps only slot-occupying schedules.
func (s *SheetsService) filterActiveSchedules(schedules []model.InterviewSchedule) []model.InterviewSchedule {
	var active []model.InterviewSchedule
	for _, sch := range schedules {
		if sch.Status.Occupies() {
			active = append(active, sch)
		}
	}
	return active
}

func scheduleHeaderValues() []interface{} {
	return []interface{}{
		"ID", "Application", "Interviewer", "Date", "Time",
		"Type", "Location", "Meeting link", "Status", "Created",
	}
}

func scheduleRowValues(sch *model.InterviewSchedule) []interface{} {
	return []interface{}{
		sch.ID,
		sch.ApplicationID,
		sch.InterviewerID,
		sch.Date.String(),
		sch.Time.String(),
		string(sch.Type),
		sch.Location,
		sch.MeetingLink,
		string(sch.Status),
		sch.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// prepareDateHeaders builds a header row of DD.MM columns for the range.
func (s *SheetsService) prepareDateHeaders(startDate, endDate time.Time) ([]interface{}, int) {
	headers := []interface{}{"Interviewer"}
	cols := 0
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		headers = append(headers, d.Format("02.01"))
		cols++
	}
	return headers, cols
}

func (s *SheetsService) getCachedRow(id int64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rowCache[id]
	return row, ok
}

func (s *SheetsService) setCachedRow(id int64, row int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rowCache[id] = row
}

func (s *SheetsService) deleteCacheRow(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rowCache, id)
}

// ClearCache drops the row cache, forcing a full resync next write.
func (s *SheetsService) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rowCache = make(map[int64]int)
}
