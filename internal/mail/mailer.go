package mail

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates
var templateFS embed.FS

var (
	ErrEmptySubject = errors.New("cannot send email with empty subject")
	ErrEmptyText    = errors.New("cannot send email with empty text")
)

// Template names used by the publish workflow.
const (
	TemplateInstructory  = "instructory"
	TemplateReview       = "review"
	TemplateConfirmation = "confirmation"
)

// Mailer delivers a rendered template set to recipients. Implementations are
// best-effort collaborators: callers treat failures as log-worthy, not fatal.
type Mailer interface {
	SendTemplate(ctx context.Context, templateName string, data any, recipients []string) error
}

// Message is a fully rendered email. HTML may be empty; subject and text may
// not.
type Message struct {
	Subject    string
	Text       string
	HTML       string
	Sender     string
	Recipients []string
}

// InstructoryContext feeds the welcome email sent to a recruiter after
// submission.
type InstructoryContext struct {
	JobTitle    string
	CompanyName string
	EditURL     string
	Contact     string
}

// ReviewContext feeds the review-request email sent to the admin. ReplyTo
// embeds the review token so a plain "ok" reply publishes the job.
type ReviewContext struct {
	JobID       int64
	JobTitle    string
	CompanyName string
	NewOrUpdate string
	ReplyTo     string
	EditURL     string
}

// ReplyToProvider marks template data that carries a Reply-To address.
type ReplyToProvider interface {
	ReplyToAddress() string
}

func (c ReviewContext) ReplyToAddress() string { return c.ReplyTo }

// ConfirmationContext feeds the email sent to the recruiter once the job is
// published.
type ConfirmationContext struct {
	JobTitle    string
	CompanyName string
	JobURL      string
}

// RenderTemplate renders the subject/text/html parts of a named template
// set. A missing part file means the part is absent; an empty subject or
// empty text is rejected before any delivery attempt.
func RenderTemplate(templateName string, data any) (Message, error) {
	subject, _, err := renderPart(templateName, "subject", data)
	if err != nil {
		return Message{}, err
	}
	text, _, err := renderPart(templateName, "text", data)
	if err != nil {
		return Message{}, err
	}
	html, _, err := renderPart(templateName, "html", data)
	if err != nil {
		return Message{}, err
	}

	subject = strings.TrimSpace(subject)
	if subject == "" {
		return Message{}, fmt.Errorf("%w: template %s", ErrEmptySubject, templateName)
	}
	if strings.TrimSpace(text) == "" {
		return Message{}, fmt.Errorf("%w: template %s", ErrEmptyText, templateName)
	}

	return Message{Subject: subject, Text: text, HTML: html}, nil
}

func renderPart(templateName, part string, data any) (string, bool, error) {
	path := fmt.Sprintf("templates/%s/%s.tmpl", templateName, part)
	raw, err := templateFS.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}

	tmpl, err := template.New(part).Parse(string(raw))
	if err != nil {
		return "", false, fmt.Errorf("parse template %s: %w", path, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", false, fmt.Errorf("render template %s: %w", path, err)
	}
	return buf.String(), true, nil
}
