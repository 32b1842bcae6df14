package mail

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// LogMailer renders templates but only logs them, for development setups
// without an SMTP server.
type LogMailer struct {
	logger *zap.SugaredLogger
}

func NewLogMailer(logger *zap.SugaredLogger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendTemplate(_ context.Context, templateName string, data any, recipients []string) error {
	msg, err := RenderTemplate(templateName, data)
	if err != nil {
		return err
	}
	m.logger.Infow("email (log only)",
		"template", templateName,
		"to", strings.Join(recipients, ","),
		"subject", msg.Subject,
		"text", msg.Text,
	)
	return nil
}
