package scheduler_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"meetsched/internal/config"
	"meetsched/internal/models"
	"meetsched/internal/scheduler"
)

type fakeCalendar struct {
	event *models.ScheduledEvent
	err   error

	calls           int
	gotRecurrenceCt int
}

func (f *fakeCalendar) CreateMeeting(ctx context.Context, req *models.MeetingRequest, recurrenceCount int) (*models.ScheduledEvent, error) {
	f.calls++
	f.gotRecurrenceCt = recurrenceCount
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

type sentMail struct {
	to      string
	subject string
	html    string
	ics     string
}

type fakeMailer struct {
	sender    string
	senderErr error
	failOn    string // recipient whose send fails

	senderCalls int
	sent        []sentMail
}

func (f *fakeMailer) SenderAddress(ctx context.Context) (string, error) {
	f.senderCalls++
	if f.senderErr != nil {
		return "", f.senderErr
	}
	return f.sender, nil
}

func (f *fakeMailer) SendInvite(ctx context.Context, to, subject, htmlBody, icsText string) error {
	if to == f.failOn {
		return fmt.Errorf("smtp rejected %s", to)
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, html: htmlBody, ics: icsText})
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		Timezone:        "Asia/Kolkata",
		RecurrenceCount: 5,
	}
}

func testRequest() *models.MeetingRequest {
	loc := time.FixedZone("IST", 330*60)
	return &models.MeetingRequest{
		Start:           time.Date(2024, 1, 10, 9, 0, 0, 0, loc),
		DurationMinutes: 30,
		Topic:           "Team Sync",
		Attendees:       []string{"a@x.com", "b@x.com", "c@x.com"},
		Recurrence:      models.RecurNone,
	}
}

func testEvent() *models.ScheduledEvent {
	loc := time.FixedZone("IST", 330*60)
	return &models.ScheduledEvent{
		ID:         "evt-123",
		MeetLink:   "https://meet.example/a-b-c",
		StartLocal: time.Date(2024, 1, 10, 9, 0, 0, 0, loc),
		EndLocal:   time.Date(2024, 1, 10, 9, 30, 0, 0, loc),
	}
}

func TestScheduleNoAttendees(t *testing.T) {
	cal := &fakeCalendar{event: testEvent()}
	mailer := &fakeMailer{sender: "me@x.com"}
	s := scheduler.New(testLogger(), cal, mailer, testConfig())

	req := testRequest()
	req.Attendees = nil

	if _, err := s.Schedule(context.Background(), req, true); !errors.Is(err, scheduler.ErrNoAttendees) {
		t.Errorf("expected ErrNoAttendees, got %v", err)
	}
	if cal.calls != 0 {
		t.Error("no event may be created without attendees")
	}
}

func TestScheduleSendsToEveryAttendee(t *testing.T) {
	cal := &fakeCalendar{event: testEvent()}
	mailer := &fakeMailer{sender: "me@x.com"}
	s := scheduler.New(testLogger(), cal, mailer, testConfig())

	event, err := s.Schedule(context.Background(), testRequest(), true)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if event.ID != "evt-123" {
		t.Errorf("event ID = %q, want evt-123", event.ID)
	}
	if cal.gotRecurrenceCt != 5 {
		t.Errorf("recurrence count = %d, want 5", cal.gotRecurrenceCt)
	}

	if len(mailer.sent) != 3 {
		t.Fatalf("expected 3 invites, got %d", len(mailer.sent))
	}
	for i, want := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		if mailer.sent[i].to != want {
			t.Errorf("invite %d went to %q, want %q", i, mailer.sent[i].to, want)
		}
	}

	first := mailer.sent[0]
	if first.subject != "Meeting Invite: Team Sync" {
		t.Errorf("subject = %q", first.subject)
	}
	if !strings.Contains(first.ics, "UID:evt-123") {
		t.Error("invite UID must equal the scheduled event ID")
	}
	if !strings.Contains(first.ics, "DTSTART:20240110T033000Z") {
		t.Errorf("invite start not converted to UTC:\n%s", first.ics)
	}
	if !strings.Contains(first.html, "https://meet.example/a-b-c") {
		t.Error("HTML body must carry the meet link")
	}
	if !strings.Contains(first.html, "Team Sync") {
		t.Error("HTML body must carry the topic")
	}

	// Every attendee gets the same document.
	for _, m := range mailer.sent[1:] {
		if m.ics != first.ics || m.html != first.html {
			t.Error("all attendees must receive identical invite content")
		}
	}
}

func TestScheduleCalendarFailureAborts(t *testing.T) {
	cal := &fakeCalendar{err: errors.New("calendar API unavailable")}
	mailer := &fakeMailer{sender: "me@x.com"}
	s := scheduler.New(testLogger(), cal, mailer, testConfig())

	if _, err := s.Schedule(context.Background(), testRequest(), true); err == nil {
		t.Fatal("expected an error when event creation fails")
	}
	if mailer.senderCalls != 0 || len(mailer.sent) != 0 {
		t.Error("no email activity may happen when the event was not created")
	}
}

func TestScheduleSendFailureAbortsRemaining(t *testing.T) {
	cal := &fakeCalendar{event: testEvent()}
	mailer := &fakeMailer{sender: "me@x.com", failOn: "b@x.com"}
	s := scheduler.New(testLogger(), cal, mailer, testConfig())

	event, err := s.Schedule(context.Background(), testRequest(), true)
	if err == nil {
		t.Fatal("expected an error when a send fails")
	}
	// The event stands and earlier sends are not rolled back.
	if event == nil || event.ID != "evt-123" {
		t.Errorf("event = %+v, want the created event back", event)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].to != "a@x.com" {
		t.Errorf("sent = %+v, want only a@x.com before the failure", mailer.sent)
	}
}

func TestScheduleSenderAddressFailure(t *testing.T) {
	cal := &fakeCalendar{event: testEvent()}
	mailer := &fakeMailer{senderErr: errors.New("profile unavailable")}
	s := scheduler.New(testLogger(), cal, mailer, testConfig())

	event, err := s.Schedule(context.Background(), testRequest(), true)
	if err == nil {
		t.Fatal("expected an error when the organizer address cannot be resolved")
	}
	if event == nil {
		t.Error("the created event is still returned")
	}
	if len(mailer.sent) != 0 {
		t.Error("no invites may go out without an organizer address")
	}
}

func TestScheduleSkipEmails(t *testing.T) {
	cal := &fakeCalendar{event: testEvent()}
	mailer := &fakeMailer{sender: "me@x.com"}
	s := scheduler.New(testLogger(), cal, mailer, testConfig())

	event, err := s.Schedule(context.Background(), testRequest(), false)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if event.ID != "evt-123" {
		t.Errorf("event ID = %q", event.ID)
	}
	if mailer.senderCalls != 0 || len(mailer.sent) != 0 {
		t.Error("skip-email run must not touch the mailer")
	}
}

func TestScheduleOrganizerInInvite(t *testing.T) {
	cal := &fakeCalendar{event: testEvent()}
	mailer := &fakeMailer{sender: "organizer@x.com"}
	s := scheduler.New(testLogger(), cal, mailer, testConfig())

	if _, err := s.Schedule(context.Background(), testRequest(), true); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if !strings.Contains(mailer.sent[0].ics, "ORGANIZER:mailto:organizer@x.com") {
		t.Errorf("invite organizer missing:\n%s", mailer.sent[0].ics)
	}
}
