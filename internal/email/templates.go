package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/nexhub-community/nexhub-api/internal/submission"
	"github.com/nexhub-community/nexhub-api/internal/ticket"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// TeamName signs every outgoing message.
const TeamName = "NexHub Community"

type registrationView struct {
	ID            string
	Name          string
	EventName     string
	EventDate     string
	EventTime     string
	EventLocation string
	QRCode        template.URL
	Team          string
}

type applicationView struct {
	ID         string
	FullName   string
	Email      string
	Phone      string
	Portfolio  string
	Role       string
	Experience string
	Message    string
	Submitted  string
	Team       string
}

// ComposeRegistration renders the registrant's confirmation with the QR hall ticket.
// A ticket that cannot be encoded is left out rather than failing the message.
func ComposeRegistration(rec submission.Record) (submission.Message, error) {
	view := registrationView{
		ID:            rec.ID,
		Name:          rec.Field("name"),
		EventName:     rec.Field("eventName"),
		EventDate:     rec.Field("eventDate"),
		EventTime:     rec.Field("eventTime"),
		EventLocation: rec.Field("eventLocation"),
		Team:          TeamName + " Team",
	}

	var warnings []error
	if qr, err := ticket.DataURL(ticket.PayloadFor(rec)); err != nil {
		warnings = append(warnings, fmt.Errorf("qr ticket omitted: %w", err))
	} else {
		view.QRCode = template.URL(qr)
	}

	html, err := render("registration.html", view)
	if err != nil {
		return submission.Message{}, err
	}

	return submission.Message{
		To:       rec.Field("email"),
		Subject:  "Registration Confirmation for " + view.EventName,
		HTMLBody: html,
		TextBody: fmt.Sprintf(
			"Hello %s,\n\nThank you for registering for %s.\nRegistration ID: %s\nDate: %s\nTime: %s\nLocation: %s\n\nBest regards,\n%s\n",
			view.Name, view.EventName, view.ID, view.EventDate, view.EventTime, view.EventLocation, view.Team),
		Warnings: warnings,
	}, nil
}

// ComposeApplication renders the applicant's confirmation.
func ComposeApplication(rec submission.Record) (submission.Message, error) {
	view := applicationViewFor(rec)

	html, err := render("application.html", view)
	if err != nil {
		return submission.Message{}, err
	}

	return submission.Message{
		To:       view.Email,
		Subject:  "Application Confirmation - NexHub Team",
		HTMLBody: html,
		TextBody: fmt.Sprintf(
			"Hello %s,\n\nThank you for applying to join the NexHub team as a %s.\nApplication ID: %s\n\nOur team will review your application and get back to you soon.\n",
			view.FullName, view.Role, view.ID),
	}, nil
}

// TeamApplicationNotice returns a composer for the internal "new application" notice
// sent to recipient.
func TeamApplicationNotice(recipient string) submission.Composer {
	return func(rec submission.Record) (submission.Message, error) {
		view := applicationViewFor(rec)

		html, err := render("team_application.html", view)
		if err != nil {
			return submission.Message{}, err
		}

		return submission.Message{
			To:       recipient,
			ReplyTo:  view.Email,
			Subject:  "New Team Application: " + view.Role,
			HTMLBody: html,
		}, nil
	}
}

func applicationViewFor(rec submission.Record) applicationView {
	return applicationView{
		ID:         rec.ID,
		FullName:   rec.Field("fullName"),
		Email:      rec.Field("email"),
		Phone:      rec.Field("phone"),
		Portfolio:  rec.Field("portfolio"),
		Role:       rec.Field("role"),
		Experience: rec.Field("experience"),
		Message:    rec.Field("message"),
		Submitted:  rec.CreatedAt.Format("January 2, 2006"),
		Team:       TeamName,
	}
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
