// Package scheduler orchestrates one scheduling run: create the calendar
// event, then mail every attendee an invitation.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"meetsched/internal/config"
	"meetsched/internal/ics"
	"meetsched/internal/models"
)

// ErrNoAttendees is returned when a request arrives with an empty attendee
// list; nothing is scheduled in that case.
var ErrNoAttendees = errors.New("no attendees uploaded")

// EventCreator creates a calendar event for a meeting request.
type EventCreator interface {
	CreateMeeting(ctx context.Context, req *models.MeetingRequest, recurrenceCount int) (*models.ScheduledEvent, error)
}

// InviteMailer resolves the organizer address and delivers invitation emails.
type InviteMailer interface {
	SenderAddress(ctx context.Context) (string, error)
	SendInvite(ctx context.Context, to, subject, htmlBody, icsText string) error
}

// Scheduler runs the scheduling sequence against the two collaborators.
type Scheduler struct {
	logger   *slog.Logger
	calendar EventCreator
	mailer   InviteMailer
	cfg      *config.Config
}

// New creates a Scheduler.
func New(logger *slog.Logger, calendar EventCreator, mailer InviteMailer, cfg *config.Config) *Scheduler {
	return &Scheduler{
		logger:   logger,
		calendar: calendar,
		mailer:   mailer,
		cfg:      cfg,
	}
}

// Schedule creates the calendar event and, unless sendEmails is false, sends
// one invite email per attendee in order. A failed send aborts the remaining
// attendees; the event and already-sent emails stand, there is no rollback.
func (s *Scheduler) Schedule(ctx context.Context, req *models.MeetingRequest, sendEmails bool) (*models.ScheduledEvent, error) {
	if len(req.Attendees) == 0 {
		return nil, ErrNoAttendees
	}

	s.logger.Info("Scheduling meeting", "topic", req.Topic, "start", req.Start, "attendees", len(req.Attendees))

	event, err := s.calendar.CreateMeeting(ctx, req, s.cfg.RecurrenceCount)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule meeting: %w", err)
	}

	if !sendEmails {
		s.logger.Info("Skipping invitation emails", "event", event.ID)
		return event, nil
	}

	organizer, err := s.mailer.SenderAddress(ctx)
	if err != nil {
		return event, fmt.Errorf("failed to resolve organizer address: %w", err)
	}

	// The local zone is a fixed offset for the purposes of the invite; take
	// it from the meeting's own start instant.
	_, offsetSeconds := req.Start.Zone()

	icsText := ics.BuildInvite(ics.Invite{
		Summary:        req.Topic,
		Description:    req.Description,
		Location:       req.Location,
		OrganizerEmail: organizer,
		Attendees:      req.Attendees,
		StartLocal:     req.Start,
		EndLocal:       req.End(),
		UID:            event.ID,
		MeetLink:       event.MeetLink,
		TZOffsetMin:    offsetSeconds / 60,
		TZLabel:        s.cfg.Timezone,
	})

	htmlBody, err := renderInviteHTML(req, event)
	if err != nil {
		return event, fmt.Errorf("failed to render invite email: %w", err)
	}

	subject := "Meeting Invite: " + req.Topic
	for _, email := range req.Attendees {
		if err := s.mailer.SendInvite(ctx, email, subject, htmlBody, icsText); err != nil {
			return event, fmt.Errorf("failed to send invite to %s: %w", email, err)
		}
		s.logger.Info("Custom email sent", "to", email)
	}

	return event, nil
}
