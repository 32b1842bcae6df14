package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jobber/internal/config"
	"jobber/internal/mail"
	"jobber/internal/model"

	"go.uber.org/zap"
)

// Notifier builds and sends the workflow emails around a job listing. Every
// send is best effort; a lost email never blocks the workflow that triggered
// it.
type Notifier struct {
	mailer  mail.Mailer
	cfg     config.MailConfig
	baseURL string
	logger  *zap.SugaredLogger
}

func New(mailer mail.Mailer, cfg config.MailConfig, baseURL string, logger *zap.SugaredLogger) *Notifier {
	return &Notifier{
		mailer:  mailer,
		cfg:     cfg,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// SendInstructory mails the recruiter their edit link right after submission.
func (n *Notifier) SendInstructory(ctx context.Context, job *model.Job) error {
	contact := job.ContactEmail
	if job.ContactMethod == model.ContactMethodLink {
		contact = job.ContactURL
	}
	data := mail.InstructoryContext{
		JobTitle:    job.Title,
		CompanyName: companyName(job),
		EditURL:     n.baseURL + job.EditURLPath(),
		Contact:     contact,
	}
	return n.mailer.SendTemplate(ctx, mail.TemplateInstructory, data, []string{job.RecruiterEmail})
}

// SendReviewRequest asks the admin to review an unpublished job. The reply-to
// address embeds the review token so answering "ok" publishes the listing.
// Already-published jobs are skipped.
func (n *Notifier) SendReviewRequest(ctx context.Context, job *model.Job, token *model.ReviewToken) error {
	if job.Published {
		return nil
	}

	newOrUpdate := "newly updated"
	if time.Since(job.Created) < 5*time.Minute {
		newOrUpdate = "brand new"
	}

	data := mail.ReviewContext{
		JobID:       job.ID,
		JobTitle:    job.Title,
		CompanyName: companyName(job),
		NewOrUpdate: newOrUpdate,
		ReplyTo:     n.replyTo(token.Token),
		EditURL:     n.baseURL + job.EditURLPath(),
	}
	return n.mailer.SendTemplate(ctx, mail.TemplateReview, data, []string{n.cfg.AdminRecipient})
}

// SendConfirmation tells the recruiter their listing went live.
func (n *Notifier) SendConfirmation(ctx context.Context, job *model.Job) error {
	data := mail.ConfirmationContext{
		JobTitle:    job.Title,
		CompanyName: companyName(job),
		JobURL:      n.baseURL + job.URLPath(),
	}
	return n.mailer.SendTemplate(ctx, mail.TemplateConfirmation, data, []string{job.RecruiterEmail})
}

// replyTo splices the review token into the review inbox address:
// review@jobs.example becomes review+<token>@jobs.example.
func (n *Notifier) replyTo(token string) string {
	local, domain, ok := strings.Cut(n.cfg.ReviewInbox, "@")
	if !ok {
		return n.cfg.ReviewInbox
	}
	return fmt.Sprintf("%s+%s@%s", local, token, domain)
}

func companyName(job *model.Job) string {
	if job.Company == nil {
		return ""
	}
	return job.Company.Name
}
