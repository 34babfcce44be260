// Package google wraps the Google Calendar and Gmail collaborators behind
// small clients that speak the internal models.
package google

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"meetsched/internal/models"

	"github.com/google/uuid"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// CalendarClient provides a client for interacting with the Google Calendar API.
type CalendarClient struct {
	service    *calendar.Service
	logger     *slog.Logger
	calendarID string
	timezone   string

	reminderEmailMinutes int
	reminderPopupMinutes int
}

// NewCalendarClient creates a new Google Calendar client on top of an
// already-authenticated HTTP client.
func NewCalendarClient(ctx context.Context, logger *slog.Logger, httpClient *http.Client, calendarID, timezone string, reminderEmailMin, reminderPopupMin int) (*CalendarClient, error) {
	service, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return &CalendarClient{
		service:              service,
		logger:               logger,
		calendarID:           calendarID,
		timezone:             timezone,
		reminderEmailMinutes: reminderEmailMin,
		reminderPopupMinutes: reminderPopupMin,
	}, nil
}

// CreateMeeting inserts a calendar event for the request, asking Google to
// attach a Meet conference and to notify attendees. The returned event
// carries the provider's ID and the extracted video link.
func (c *CalendarClient) CreateMeeting(ctx context.Context, req *models.MeetingRequest, recurrenceCount int) (*models.ScheduledEvent, error) {
	c.logger.Debug("Creating calendar event", "topic", req.Topic, "start", req.Start, "attendees", len(req.Attendees))

	event, err := c.buildEvent(req, recurrenceCount)
	if err != nil {
		return nil, err
	}

	created, err := c.service.Events.Insert(c.calendarID, event).
		ConferenceDataVersion(1).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar event: %w", err)
	}

	id := created.Id
	if id == "" {
		id = uuid.NewString()
	}

	meetLink := ""
	if created.ConferenceData != nil {
		meetLink = SelectEntryPoint(created.ConferenceData.EntryPoints)
	}

	c.logger.Info("Calendar event created", "id", id, "meetLink", meetLink)
	return &models.ScheduledEvent{
		ID:         id,
		MeetLink:   meetLink,
		StartLocal: req.Start,
		EndLocal:   req.End(),
	}, nil
}

// buildEvent converts a MeetingRequest into the Calendar API event body.
func (c *CalendarClient) buildEvent(req *models.MeetingRequest, recurrenceCount int) (*calendar.Event, error) {
	var attendees []*calendar.EventAttendee
	for _, email := range req.Attendees {
		attendees = append(attendees, &calendar.EventAttendee{Email: email})
	}

	event := &calendar.Event{
		Summary:     req.Topic,
		Description: req.Description,
		Location:    req.Location,
		Start: &calendar.EventDateTime{
			DateTime: req.Start.Format("2006-01-02T15:04:05"),
			TimeZone: c.timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: req.End().Format("2006-01-02T15:04:05"),
			TimeZone: c.timezone,
		},
		Attendees: attendees,
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: uuid.NewString(),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		},
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "email", Minutes: int64(c.reminderEmailMinutes)},
				{Method: "popup", Minutes: int64(c.reminderPopupMinutes)},
			},
			// UseDefault must reach the wire even though it is false.
			ForceSendFields: []string{"UseDefault"},
		},
	}

	rule, err := req.Recurrence.Rule(recurrenceCount)
	if err != nil {
		return nil, fmt.Errorf("failed to encode recurrence: %w", err)
	}
	if rule != "" {
		event.Recurrence = []string{rule}
	}
	return event, nil
}

// SelectEntryPoint picks the video-conferencing link out of the entry points
// Google returns: the first entry typed "video", else the first entry, else
// the empty string. It is total; malformed conference data cannot fail it.
func SelectEntryPoint(entries []*calendar.EntryPoint) string {
	for _, ep := range entries {
		if ep != nil && ep.EntryPointType == "video" {
			return ep.Uri
		}
	}
	for _, ep := range entries {
		if ep != nil {
			return ep.Uri
		}
	}
	return ""
}
