// Package ics builds iCalendar meeting-request documents (method REQUEST)
// suitable for attaching to invitation emails.
package ics

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// utcTimestampLayout is the basic UTC form mandated for DTSTAMP/DTSTART/DTEND.
const utcTimestampLayout = "20060102T150405Z"

// Invite holds everything needed to serialize one meeting request.
// All fields are pre-validated by the caller; BuildInvite never fails.
type Invite struct {
	Summary        string
	Description    string
	Location       string
	OrganizerEmail string
	Attendees      []string
	StartLocal     time.Time // Wall-clock time in the organizer's zone
	EndLocal       time.Time
	UID            string // Defaults to a fresh UUID when empty
	MeetLink       string // Omitted from the body when empty
	TZOffsetMin    int    // Fixed offset of the local zone from UTC, in minutes
	TZLabel        string // Human-readable zone name, e.g. "Asia/Kolkata"
}

// BuildInvite serializes the invite as a single VCALENDAR document with one
// VEVENT, lines joined with CRLF as RFC 5545 requires.
func BuildInvite(inv Invite) string {
	uid := inv.UID
	if uid == "" {
		uid = uuid.NewString()
	}

	dtstamp := time.Now().UTC().Format(utcTimestampLayout)
	dtstart := toUTC(inv.StartLocal, inv.TZOffsetMin).Format(utcTimestampLayout)
	dtend := toUTC(inv.EndLocal, inv.TZOffsetMin).Format(utcTimestampLayout)

	// The description is a single property; embedded line breaks use the
	// literal \n escape sequence rather than real newlines.
	descLines := []string{inv.Description}
	if inv.MeetLink != "" {
		descLines = append(descLines, "Google Meet: "+inv.MeetLink)
	}
	descLines = append(descLines, fmt.Sprintf("Local Timezone: %s (%s)",
		inv.TZLabel, inv.StartLocal.Format("2006-01-02 15:04")))
	desc := strings.Join(descLines, `\n`)

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"METHOD:REQUEST",
		"BEGIN:VEVENT",
		"UID:" + uid,
		"DTSTAMP:" + dtstamp,
		"DTSTART:" + dtstart,
		"DTEND:" + dtend,
		"SUMMARY:" + inv.Summary,
		"DESCRIPTION:" + desc,
		"LOCATION:" + inv.Location,
		"ORGANIZER:mailto:" + inv.OrganizerEmail,
	}
	for _, a := range inv.Attendees {
		lines = append(lines, "ATTENDEE;ROLE=REQ-PARTICIPANT;RSVP=TRUE:mailto:"+a)
	}
	lines = append(lines, "END:VEVENT", "END:VCALENDAR")

	return strings.Join(lines, "\r\n")
}

// toUTC shifts a wall-clock time by the fixed zone offset. The arithmetic is
// done on the wall-clock fields so the surrounding location (and any DST
// rules it carries) cannot leak into the result.
func toUTC(local time.Time, offsetMinutes int) time.Time {
	wall := time.Date(local.Year(), local.Month(), local.Day(),
		local.Hour(), local.Minute(), local.Second(), 0, time.UTC)
	return wall.Add(-time.Duration(offsetMinutes) * time.Minute)
}
