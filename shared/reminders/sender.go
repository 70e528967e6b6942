package reminders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"grantdesk/internal/model"
)

// WebhookSender posts reminder payloads to the notification dispatch
// endpoint. What happens past that endpoint (email, SMS) is not this
// core's concern.
type WebhookSender struct {
	url        string
	httpClient *http.Client
}

// NewWebhookSender creates a sender posting to the given URL.
func NewWebhookSender(url string) *WebhookSender {
	return &WebhookSender{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type reminderPayload struct {
	ScheduleID    int64  `json:"schedule_id"`
	ApplicationID int64  `json:"application_id"`
	InterviewerID string `json:"interviewer_id,omitempty"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	InterviewType string `json:"interview_type"`
	Location      string `json:"location,omitempty"`
	MeetingLink   string `json:"meeting_link,omitempty"`
}

// SendReminder implements Sender.
func (s *WebhookSender) SendReminder(ctx context.Context, schedule model.InterviewSchedule) error {
	payload := reminderPayload{
		ScheduleID:    schedule.ID,
		ApplicationID: schedule.ApplicationID,
		InterviewerID: schedule.InterviewerID,
		Date:          schedule.Date.String(),
		Time:          schedule.Time.String(),
		InterviewType: string(schedule.Type),
		Location:      schedule.Location,
		MeetingLink:   schedule.MeetingLink,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post reminder: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("reminder webhook returned %d", resp.StatusCode)
	}
	return nil
}
