package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"grantdesk/internal/metrics"
	"grantdesk/internal/model"
	"grantdesk/internal/scheduling"
	"grantdesk/internal/selector"
)

// AvailableSlotsRequest is the request body for POST /api/v1/slots/available.
type AvailableSlotsRequest struct {
	Date          string `json:"date"` // Format: YYYY-MM-DD
	InterviewType string `json:"interview_type,omitempty"`
	InterviewerID string `json:"interviewer_id,omitempty"`
}

// AvailableSlotsResponse lists open slots for the requested date.
type AvailableSlotsResponse struct {
	Date  string     `json:"date"`
	Slots []SlotView `json:"slots"`
}

// SlotView is the wire form of an open slot.
type SlotView struct {
	Date          string `json:"date"`
	Time          string `json:"time"`
	InterviewType string `json:"interview_type,omitempty"`
	Location      string `json:"location,omitempty"`
}

func (s *HTTPServer) handleAvailableSlots(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("slots_available")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req AvailableSlotsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	date, err := model.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	slots, err := s.scheduler.GetAvailableSlots(r.Context(), date, model.InterviewType(req.InterviewType), req.InterviewerID)
	if err != nil {
		s.writeSchedulingError(w, r, err)
		return
	}

	resp := AvailableSlotsResponse{Date: req.Date, Slots: make([]SlotView, 0, len(slots))}
	for _, slot := range slots {
		resp.Slots = append(resp.Slots, SlotView{
			Date:          slot.Date.String(),
			Time:          slot.Time.String(),
			InterviewType: string(slot.Type),
			Location:      slot.Location,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// ScheduleInterviewRequest books a specific slot.
type ScheduleInterviewRequest struct {
	ApplicationID int64  `json:"application_id"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	InterviewType string `json:"interview_type"`
	InterviewerID string `json:"interviewer_id,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

func (s *HTTPServer) handleScheduleInterview(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("interviews_create")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req ScheduleInterviewRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ApplicationID <= 0 {
		writeError(w, http.StatusBadRequest, "application_id is required")
		return
	}

	date, err := model.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tod, err := model.ParseTimeOfDay(req.Time)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	schedule, err := s.scheduler.ScheduleInterview(r.Context(), scheduling.ScheduleRequest{
		ApplicationID: req.ApplicationID,
		Date:          date,
		Time:          tod,
		Type:          model.InterviewType(req.InterviewType),
		InterviewerID: req.InterviewerID,
		Notes:         req.Notes,
	})
	if err != nil {
		s.writeSchedulingError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, schedule)
}

// AutoAssignRequest asks for the best open slot across the search window.
type AutoAssignRequest struct {
	ApplicationID int64  `json:"application_id"`
	InterviewType string `json:"interview_type,omitempty"`
	InterviewerID string `json:"interviewer_id,omitempty"`
	PreferredDate string `json:"preferred_date,omitempty"`
	PreferredTime string `json:"preferred_time,omitempty"`
}

func (s *HTTPServer) handleAutoAssign(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("interviews_auto_assign")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req AutoAssignRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ApplicationID <= 0 {
		writeError(w, http.StatusBadRequest, "application_id is required")
		return
	}

	prefs := selector.Preferences{
		Type:          model.InterviewType(req.InterviewType),
		InterviewerID: req.InterviewerID,
	}
	if req.PreferredDate != "" {
		d, err := model.ParseDate(req.PreferredDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		prefs.PreferredDate = &d
	}
	if req.PreferredTime != "" {
		t, err := model.ParseTimeOfDay(req.PreferredTime)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		prefs.PreferredTime = &t
	}

	schedule, err := s.scheduler.AutoAssign(r.Context(), time.Now(), req.ApplicationID, prefs)
	if err != nil {
		s.writeSchedulingError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, schedule)
}

// TransitionRequest targets an existing schedule by ID.
type TransitionRequest struct {
	ID     int64  `json:"id"`
	Reason string `json:"reason,omitempty"`
	Date   string `json:"date,omitempty"`
	Time   string `json:"time,omitempty"`
}

func (s *HTTPServer) handleCancel(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("interviews_cancel")
	s.handleTransition(w, r, func(req TransitionRequest) error {
		return s.scheduler.Cancel(r.Context(), req.ID, req.Reason)
	})
}

func (s *HTTPServer) handleComplete(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("interviews_complete")
	s.handleTransition(w, r, func(req TransitionRequest) error {
		return s.scheduler.Complete(r.Context(), req.ID)
	})
}

func (s *HTTPServer) handleNoShow(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("interviews_no_show")
	s.handleTransition(w, r, func(req TransitionRequest) error {
		return s.scheduler.MarkNoShow(r.Context(), req.ID)
	})
}

func (s *HTTPServer) handleReschedule(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("interviews_reschedule")
	s.handleTransition(w, r, func(req TransitionRequest) error {
		date, err := model.ParseDate(req.Date)
		if err != nil {
			return err
		}
		tod, err := model.ParseTimeOfDay(req.Time)
		if err != nil {
			return err
		}
		return s.scheduler.Reschedule(r.Context(), req.ID, date, tod)
	})
}

func (s *HTTPServer) handleTransition(w http.ResponseWriter, r *http.Request, apply func(TransitionRequest) error) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req TransitionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ID <= 0 {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := apply(req); err != nil {
		s.writeSchedulingError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// writeSchedulingError maps the scheduling error taxonomy onto HTTP.
// Conflicts and empty windows are retryable; ineligibility is a blocking
// validation failure requiring upstream correction.
func (s *HTTPServer) writeSchedulingError(w http.ResponseWriter, r *http.Request, err error) {
	var ineligible *scheduling.IneligibleApplicationError
	var noSlots *scheduling.NoAvailableSlotsError
	var conflict *scheduling.SchedulingConflictError

	switch {
	case errors.As(err, &ineligible):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &noSlots):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &conflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("scheduling request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
