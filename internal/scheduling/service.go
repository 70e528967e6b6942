// Package scheduling orchestrates slot generation, occupancy filtering,
// workload balancing and scored assignment of interview slots.
package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"grantdesk/internal/booking"
	"grantdesk/internal/metrics"
	"grantdesk/internal/model"
	"grantdesk/internal/selector"
	"grantdesk/internal/slots"
	"grantdesk/internal/workload"
)

// ScheduleStore is the persistence boundary for interview schedules.
type ScheduleStore interface {
	booking.ScheduleLister
	workload.WeeklyCounter

	HasActiveSchedule(ctx context.Context, date model.Date, tod model.TimeOfDay, interviewerID string) (bool, error)
	CreateScheduleIfFree(ctx context.Context, s *model.InterviewSchedule) (bool, error)
	RescheduleIfFree(ctx context.Context, id int64, date model.Date, tod model.TimeOfDay) (bool, error)
	GetSchedule(ctx context.Context, id int64) (*model.InterviewSchedule, error)
	UpdateScheduleStatus(ctx context.Context, id int64, status model.Status, notes string) error
	InsertAuditEvent(ctx context.Context, e model.AuditEvent) error
}

// ApplicationDirectory supplies read-only application context from the
// application-tracking service.
type ApplicationDirectory interface {
	GetApplication(ctx context.Context, id int64) (*model.Application, error)
}

// RosterProvider returns the current interviewer roster. The roster is
// static configuration; providers may hot-reload it behind this function.
type RosterProvider func() []model.Interviewer

// Config holds scheduling policy.
type Config struct {
	Grid            slots.Grid
	WindowDays      int
	OfficeLocation  string
	MeetingLinkBase string
	Policy          selector.Policy
	Location        *time.Location
}

func (c Config) withDefaults() Config {
	if c.Grid.StepMinutes == 0 && c.Grid.Start == (model.TimeOfDay{}) {
		c.Grid = slots.DefaultGrid()
	}
	if c.WindowDays <= 0 {
		c.WindowDays = 7
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	return c
}

// Service is the scheduling facade.
type Service struct {
	store    ScheduleStore
	apps     ApplicationDirectory
	roster   RosterProvider
	selector *selector.Selector
	balancer *workload.Balancer
	cfg      Config
	logger   *zerolog.Logger
}

// NewService wires the scheduling facade.
func NewService(store ScheduleStore, apps ApplicationDirectory, roster RosterProvider, cfg Config, logger *zerolog.Logger) *Service {
	cfg = cfg.withDefaults()
	return &Service{
		store:    store,
		apps:     apps,
		roster:   roster,
		selector: selector.New(cfg.Policy),
		balancer: workload.NewBalancer(store),
		cfg:      cfg,
		logger:   logger,
	}
}

// GetAvailableSlots returns the open slots for a date, filtered by
// interview type and optionally an interviewer. Weekends yield no slots.
func (s *Service) GetAvailableSlots(ctx context.Context, date model.Date, typ model.InterviewType, interviewerID string) ([]model.InterviewSlot, error) {
	if typ != "" && !typ.Valid() {
		return nil, fmt.Errorf("invalid interview type %q", typ)
	}

	times := s.cfg.Grid.Times(date)
	if len(times) == 0 {
		return nil, nil
	}

	index, err := booking.Load(ctx, s.store, date, date, typ, interviewerID)
	if err != nil {
		return nil, fmt.Errorf("load booking index: %w", err)
	}

	var open []model.InterviewSlot
	for _, tod := range times {
		if index.Occupied(date, tod) {
			continue
		}
		open = append(open, model.InterviewSlot{
			Date:     date,
			Time:     tod,
			Type:     typ,
			Location: s.locationFor(typ),
		})
	}
	return open, nil
}

// ScheduleRequest is a manual booking of a specific slot.
type ScheduleRequest struct {
	ApplicationID int64
	Date          model.Date
	Time          model.TimeOfDay
	Type          model.InterviewType
	InterviewerID string
	Notes         string
}

// ScheduleInterview books a caller-chosen slot. The conflict check and the
// insert happen in one transaction; a lost race surfaces as
// SchedulingConflictError rather than a double booking.
func (s *Service) ScheduleInterview(ctx context.Context, req ScheduleRequest) (*model.InterviewSchedule, error) {
	if !req.Type.Valid() {
		return nil, fmt.Errorf("invalid interview type %q", req.Type)
	}
	if req.Date.IsWeekend() {
		return nil, fmt.Errorf("date %s falls on a weekend", req.Date)
	}

	app, err := s.apps.GetApplication(ctx, req.ApplicationID)
	if err != nil {
		return nil, fmt.Errorf("get application %d: %w", req.ApplicationID, err)
	}
	if !app.CanProceedToInterview() {
		return nil, &IneligibleApplicationError{ApplicationID: req.ApplicationID}
	}

	schedule := s.buildSchedule(req.ApplicationID, req.InterviewerID, req.Date, req.Time, req.Type, req.Notes)
	if err := s.commit(ctx, schedule, "manual"); err != nil {
		return nil, err
	}
	return schedule, nil
}

// AutoAssign finds and books the best open slot for an application across
// the search window. The window is bounded; widening it is a caller-level
// retry policy.
func (s *Service) AutoAssign(ctx context.Context, now time.Time, applicationID int64, prefs selector.Preferences) (*model.InterviewSchedule, error) {
	app, err := s.apps.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("get application %d: %w", applicationID, err)
	}
	if !app.CanProceedToInterview() {
		return nil, &IneligibleApplicationError{ApplicationID: applicationID}
	}

	typ := prefs.Type
	if typ == "" {
		if s.cfg.Policy.FavorsInPerson(app.Category()) {
			typ = model.TypeInPerson
		} else {
			typ = model.TypeOnline
		}
	}
	if !typ.Valid() {
		return nil, fmt.Errorf("invalid interview type %q", typ)
	}

	interviewerID := prefs.InterviewerID
	if interviewerID == "" {
		iv, err := s.balancer.LeastLoaded(ctx, s.roster(), model.DateOf(now))
		if err != nil {
			return nil, fmt.Errorf("pick interviewer: %w", err)
		}
		if iv != nil {
			interviewerID = iv.ID
		}
	}

	candidates, err := s.openSlotsInWindow(ctx, now, typ, interviewerID)
	if err != nil {
		return nil, err
	}
	best := s.selector.SelectBest(now, candidates, app, prefs)
	if best == nil {
		metrics.IncEmptyWindow()
		return nil, &NoAvailableSlotsError{WindowDays: s.cfg.WindowDays, Type: typ}
	}

	schedule := s.buildSchedule(applicationID, interviewerID, best.Date, best.Time, typ, "")
	if err := s.commit(ctx, schedule, "auto"); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("application_id", applicationID).
		Str("slot", schedule.Key().String()).
		Int("score", best.Score).
		Msg("interview auto-assigned")
	return schedule, nil
}

// openSlotsInWindow gathers open slots across the next WindowDays calendar
// days starting from now's date, skipping weekends.
func (s *Service) openSlotsInWindow(ctx context.Context, now time.Time, typ model.InterviewType, interviewerID string) ([]model.InterviewSlot, error) {
	start := model.DateOf(now)
	end := start.AddDays(s.cfg.WindowDays - 1)

	index, err := booking.Load(ctx, s.store, start, end, typ, interviewerID)
	if err != nil {
		return nil, fmt.Errorf("load booking index: %w", err)
	}

	var open []model.InterviewSlot
	for day := 0; day < s.cfg.WindowDays; day++ {
		date := start.AddDays(day)
		for _, tod := range s.cfg.Grid.Times(date) {
			if index.Occupied(date, tod) {
				continue
			}
			open = append(open, model.InterviewSlot{
				Date:     date,
				Time:     tod,
				Type:     typ,
				Location: s.locationFor(typ),
			})
		}
	}
	return open, nil
}

// HasConflict reports whether the exact slot is taken. This is the
// authoritative existence check, distinct from the advisory booking index.
func (s *Service) HasConflict(ctx context.Context, date model.Date, tod model.TimeOfDay, interviewerID string) (bool, error) {
	return s.store.HasActiveSchedule(ctx, date, tod, interviewerID)
}

// Cancel releases a schedule's slot.
func (s *Service) Cancel(ctx context.Context, id int64, reason string) error {
	return s.transition(ctx, id, model.StatusCancelled, reason)
}

// Complete marks an interview as held.
func (s *Service) Complete(ctx context.Context, id int64) error {
	return s.transition(ctx, id, model.StatusCompleted, "")
}

// MarkNoShow records that the applicant did not attend.
func (s *Service) MarkNoShow(ctx context.Context, id int64) error {
	return s.transition(ctx, id, model.StatusNoShow, "")
}

// Reschedule moves an active schedule to a new slot, re-running the
// conflict check transactionally.
func (s *Service) Reschedule(ctx context.Context, id int64, date model.Date, tod model.TimeOfDay) error {
	if date.IsWeekend() {
		return fmt.Errorf("date %s falls on a weekend", date)
	}

	schedule, err := s.store.GetSchedule(ctx, id)
	if err != nil {
		return fmt.Errorf("get schedule %d: %w", id, err)
	}
	if !schedule.Status.Occupies() {
		return fmt.Errorf("cannot reschedule interview with status %s", schedule.Status)
	}

	ok, err := s.store.RescheduleIfFree(ctx, id, date, tod)
	if err != nil {
		return fmt.Errorf("reschedule %d: %w", id, err)
	}
	if !ok {
		metrics.IncConflict()
		return &SchedulingConflictError{Key: model.SlotKey{Date: date, Time: tod, InterviewerID: schedule.InterviewerID}}
	}

	metrics.IncStatusTransition(string(model.StatusRescheduled))
	s.audit(ctx, model.AuditEvent{
		ScheduleID:    id,
		ApplicationID: schedule.ApplicationID,
		Action:        "rescheduled",
		Detail:        fmt.Sprintf("%s -> %s %s", schedule.Key(), date, tod),
	})
	return nil
}

func (s *Service) transition(ctx context.Context, id int64, status model.Status, notes string) error {
	schedule, err := s.store.GetSchedule(ctx, id)
	if err != nil {
		return fmt.Errorf("get schedule %d: %w", id, err)
	}
	if !schedule.Status.Occupies() {
		return fmt.Errorf("cannot set status %s on interview with status %s", status, schedule.Status)
	}

	if err := s.store.UpdateScheduleStatus(ctx, id, status, notes); err != nil {
		return fmt.Errorf("update schedule %d: %w", id, err)
	}

	metrics.IncStatusTransition(string(status))
	s.audit(ctx, model.AuditEvent{
		ScheduleID:    id,
		ApplicationID: schedule.ApplicationID,
		Action:        string(status),
		Detail:        notes,
	})
	return nil
}

func (s *Service) buildSchedule(applicationID int64, interviewerID string, date model.Date, tod model.TimeOfDay, typ model.InterviewType, notes string) *model.InterviewSchedule {
	schedule := &model.InterviewSchedule{
		ApplicationID: applicationID,
		InterviewerID: interviewerID,
		Date:          date,
		Time:          tod,
		Type:          typ,
		Location:      s.locationFor(typ),
		Status:        model.StatusScheduled,
		Notes:         notes,
	}
	if typ == model.TypeOnline {
		schedule.MeetingLink = s.newMeetingLink()
	}
	return schedule
}

func (s *Service) commit(ctx context.Context, schedule *model.InterviewSchedule, mode string) error {
	ok, err := s.store.CreateScheduleIfFree(ctx, schedule)
	if err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	if !ok {
		metrics.IncConflict()
		return &SchedulingConflictError{Key: schedule.Key()}
	}

	metrics.IncScheduled(mode)
	s.audit(ctx, model.AuditEvent{
		ScheduleID:    schedule.ID,
		ApplicationID: schedule.ApplicationID,
		Action:        "scheduled",
		Detail:        fmt.Sprintf("%s %s", mode, schedule.Key()),
	})
	return nil
}

// audit is informational; a failed audit write is logged, never allowed to
// mask or replace the operation's own result.
func (s *Service) audit(ctx context.Context, e model.AuditEvent) {
	if err := s.store.InsertAuditEvent(ctx, e); err != nil {
		s.logger.Error().Err(err).Int64("schedule_id", e.ScheduleID).Msg("audit write failed")
	}
}

func (s *Service) locationFor(typ model.InterviewType) string {
	switch typ {
	case model.TypeInPerson:
		return s.cfg.OfficeLocation
	case model.TypeOnline:
		return "Online"
	case model.TypePhone:
		return "Phone"
	}
	return ""
}

func (s *Service) newMeetingLink() string {
	base := s.cfg.MeetingLinkBase
	if base == "" {
		base = "https://meet.grantdesk.example/"
	}
	return base + uuid.NewString()
}
