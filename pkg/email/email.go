package email

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"io"
	texttemplate "text/template"
	"time"
)

// Link is an outbound contact link listed in the acknowledgment mail.
type Link struct {
	Name string
	URL  string
}

// Profile is the static part of the acknowledgment mail: who signs it and
// where the visitor can follow up.
type Profile struct {
	OwnerName  string
	OwnerTitle string
	Links      []Link
}

// DefaultProfile returns the site owner's signature block and links.
func DefaultProfile() Profile {
	return Profile{
		OwnerName:  "Manikanta Ruppa",
		OwnerTitle: "Senior Data Scientist | GenAI Engineer | Agentic AI Specialist",
		Links: []Link{
			{Name: "LinkedIn", URL: "https://linkedin.com/in/manikanta-ruppa-496102217"},
			{Name: "GitHub", URL: "https://github.com/manikantaruppa"},
			{Name: "Medium", URL: "https://medium.com/@manikantaruppa"},
			{Name: "Kaggle", URL: "https://kaggle.com/manikantaruppa"},
		},
	}
}

// ResponseWindow is the service-level expectation quoted to the visitor.
const ResponseWindow = "24-48 hours"

// ContactEmailData holds the data for contact form emails
type ContactEmailData struct {
	FirstName string
	LastName  string
	Email     string
	Subject   string
	Message   string
}

// Document is one rendered mail: subject plus HTML and plain-text bodies.
type Document struct {
	Subject string
	HTML    string
	Text    string
}

// Renderer produces the admin notification and the acknowledgment documents.
// It is safe for concurrent use.
type Renderer struct {
	profile Profile

	adminHTML *htmltemplate.Template
	adminText *texttemplate.Template
	ackHTML   *htmltemplate.Template
	ackText   *texttemplate.Template
}

// NewRenderer parses the templates once. Templates are compiled in, so a
// parse failure is a programming error and panics.
func NewRenderer(profile Profile) *Renderer {
	if profile.OwnerName == "" {
		profile.OwnerName = DefaultProfile().OwnerName
	}
	if len(profile.Links) == 0 {
		profile.Links = DefaultProfile().Links
	}

	return &Renderer{
		profile:   profile,
		adminHTML: htmltemplate.Must(htmltemplate.New("admin_html").Parse(adminNotificationHTML)),
		adminText: texttemplate.Must(texttemplate.New("admin_text").Parse(adminNotificationText)),
		ackHTML:   htmltemplate.Must(htmltemplate.New("ack_html").Parse(acknowledgmentHTML)),
		ackText:   texttemplate.Must(texttemplate.New("ack_text").Parse(acknowledgmentText)),
	}
}

// Profile returns the signature profile the renderer was built with.
func (r *Renderer) Profile() Profile {
	return r.profile
}

type adminView struct {
	ContactEmailData
	SentAt string
}

type ackView struct {
	FirstName      string
	ResponseWindow string
	Profile
}

// AdminNotification renders the mail sent to the site owner. The message is
// HTML-escaped in the HTML body and kept verbatim in the text body; line
// breaks survive in both.
func (r *Renderer) AdminNotification(data ContactEmailData, sentAt time.Time) (Document, error) {
	view := adminView{
		ContactEmailData: data,
		SentAt:           FormatTimestamp(sentAt),
	}

	htmlBody, err := execute(r.adminHTML, view)
	if err != nil {
		return Document{}, err
	}
	textBody, err := execute(r.adminText, view)
	if err != nil {
		return Document{}, err
	}

	return Document{
		Subject: fmt.Sprintf("Contact Form: %s", data.Subject),
		HTML:    htmlBody,
		Text:    textBody,
	}, nil
}

// Acknowledgment renders the auto-reply. Only the first name is interpolated.
func (r *Renderer) Acknowledgment(firstName string) (Document, error) {
	view := ackView{
		FirstName:      firstName,
		ResponseWindow: ResponseWindow,
		Profile:        r.profile,
	}

	htmlBody, err := execute(r.ackHTML, view)
	if err != nil {
		return Document{}, err
	}
	textBody, err := execute(r.ackText, view)
	if err != nil {
		return Document{}, err
	}

	return Document{
		Subject: fmt.Sprintf("Thanks for reaching out - %s", r.profile.OwnerName),
		HTML:    htmlBody,
		Text:    textBody,
	}, nil
}

// FormatTimestamp is the human-readable form used in mail bodies.
func FormatTimestamp(t time.Time) string {
	return t.Format("Monday, January 2, 2006 at 3:04 PM MST")
}

type templateExecutor interface {
	Execute(wr io.Writer, data any) error
}

func execute(tmpl templateExecutor, data any) (string, error) {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return body.String(), nil
}
