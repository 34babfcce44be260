package models

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// MeetingRequest describes one meeting to be scheduled.
// It is built once from user input and read-only afterwards.
type MeetingRequest struct {
	Start           time.Time // Local wall-clock start of the meeting
	DurationMinutes int       // Meeting length in minutes
	Topic           string    // Summary shown in the calendar and the email subject
	Description     string    // Free-form body text
	Location        string    // Physical or virtual location
	Attendees       []string  // Attendee emails, deduplicated, order preserved
	Recurrence      Recurrence
}

// End returns the local wall-clock end of the meeting.
func (m *MeetingRequest) End() time.Time {
	return m.Start.Add(time.Duration(m.DurationMinutes) * time.Minute)
}

// ScheduledEvent is what the calendar provider hands back after creating
// an event. Read-only once produced.
type ScheduledEvent struct {
	ID         string    // Opaque event identifier from the provider
	MeetLink   string    // Video-conferencing link, may be empty
	StartLocal time.Time // Local start, echoed back from the request
	EndLocal   time.Time // Local end, echoed back from the request
}

// ParseStart combines a date (2006-01-02) and a clock time (15:04) into a
// wall-clock time in the given location.
func ParseStart(date, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid meeting date/time %q %q: %w", date, clock, err)
	}
	return t, nil
}

// Recurrence is the user-facing repeat choice for a meeting.
type Recurrence string

const (
	RecurNone    Recurrence = "none"
	RecurDaily   Recurrence = "daily"
	RecurWeekly  Recurrence = "weekly"
	RecurMonthly Recurrence = "monthly"
)

// ParseRecurrence maps a CLI flag value onto a Recurrence.
func ParseRecurrence(s string) (Recurrence, error) {
	switch Recurrence(s) {
	case RecurNone, RecurDaily, RecurWeekly, RecurMonthly:
		return Recurrence(s), nil
	case "":
		return RecurNone, nil
	default:
		return "", fmt.Errorf("unknown recurrence %q (want none, daily, weekly or monthly)", s)
	}
}

// Rule renders the recurrence as an RFC 5545 RRULE line with the given
// occurrence count, e.g. "RRULE:FREQ=WEEKLY;COUNT=5". RecurNone yields "".
func (r Recurrence) Rule(count int) (string, error) {
	var freq rrule.Frequency
	switch r {
	case RecurNone:
		return "", nil
	case RecurDaily:
		freq = rrule.DAILY
	case RecurWeekly:
		freq = rrule.WEEKLY
	case RecurMonthly:
		freq = rrule.MONTHLY
	default:
		return "", fmt.Errorf("unknown recurrence %q", string(r))
	}

	opt := rrule.ROption{Freq: freq, Count: count}
	return "RRULE:" + opt.RRuleString(), nil
}
