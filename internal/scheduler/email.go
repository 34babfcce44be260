package scheduler

import (
	"html/template"
	"strings"

	"meetsched/internal/models"
)

var inviteTemplate = template.Must(template.New("invite").Parse(`<html>
<body style="font-family:Arial, sans-serif; color:#333;">
  <h2 style="color:#2d89ef;">&#128197; {{.Topic}}</h2>
  <p><b>Date:</b> {{.Date}}<br>
  <b>Time:</b> {{.Time}}<br>
  <b>Duration:</b> {{.DurationMinutes}} minutes<br>
  <b>Google Meet:</b> <a href="{{.MeetLink}}">{{.MeetLink}}</a></p>

  <hr>
  <p style="font-size:12px;color:gray;">This is an automated invite.</p>
</body>
</html>
`))

type inviteData struct {
	Topic           string
	Date            string
	Time            string
	DurationMinutes int
	MeetLink        string
}

// renderInviteHTML produces the branded HTML body of the invitation email.
func renderInviteHTML(req *models.MeetingRequest, event *models.ScheduledEvent) (string, error) {
	var sb strings.Builder
	err := inviteTemplate.Execute(&sb, inviteData{
		Topic:           req.Topic,
		Date:            req.Start.Format("2006-01-02"),
		Time:            req.Start.Format("15:04"),
		DurationMinutes: req.DurationMinutes,
		MeetLink:        event.MeetLink,
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}
