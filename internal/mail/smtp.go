package mail

import (
	"context"
	"strings"

	"jobber/internal/config"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// SMTPMailer delivers rendered templates over SMTP.
type SMTPMailer struct {
	client *gomail.Client
	sender string
	logger *zap.SugaredLogger
}

func NewSMTPMailer(cfg config.MailConfig, logger *zap.SugaredLogger) (*SMTPMailer, error) {
	client, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return nil, err
	}
	return &SMTPMailer{client: client, sender: cfg.DefaultSender, logger: logger}, nil
}

func (m *SMTPMailer) SendTemplate(ctx context.Context, templateName string, data any, recipients []string) error {
	msg, err := RenderTemplate(templateName, data)
	if err != nil {
		return err
	}
	msg.Sender = m.sender
	msg.Recipients = recipients

	out := gomail.NewMsg()
	if err := out.From(msg.Sender); err != nil {
		return err
	}
	if err := out.To(msg.Recipients...); err != nil {
		return err
	}
	if rp, ok := data.(ReplyToProvider); ok && rp.ReplyToAddress() != "" {
		if err := out.ReplyTo(rp.ReplyToAddress()); err != nil {
			return err
		}
	}
	out.Subject(msg.Subject)
	out.SetBodyString(gomail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		out.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	}

	if err := m.client.DialAndSendWithContext(ctx, out); err != nil {
		return err
	}

	m.logger.Infow("email sent",
		"template", templateName,
		"from", msg.Sender,
		"to", strings.Join(msg.Recipients, ","),
		"subject", msg.Subject,
	)
	return nil
}
