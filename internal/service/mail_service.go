package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/darsapp/dars-api/pkg/config"
	"github.com/darsapp/dars-api/pkg/mailer"
)

// MailService sends transactional mail using the runtime SMTP settings. It
// satisfies the notifier interfaces of the auth and feedback services.
type MailService struct {
	settings *SettingsService
	sender   mailer.Sender
	cfg      config.MailConfig
	logger   *zap.Logger
}

// NewMailService constructs a MailService.
func NewMailService(settings *SettingsService, sender mailer.Sender, cfg config.MailConfig, logger *zap.Logger) *MailService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MailService{settings: settings, sender: sender, cfg: cfg, logger: logger}
}

// SendVerification delivers the account verification link.
func (s *MailService) SendVerification(ctx context.Context, email, token string) error {
	smtp, err := s.settings.SMTPConfig(ctx)
	if err != nil {
		return err
	}
	return s.sender.Send(*smtp, email, "Подтверждение email", mailer.VerificationBody(s.cfg.FrontendURL, token))
}

// SendFeedbackReply notifies a thread owner about an admin reply.
func (s *MailService) SendFeedbackReply(ctx context.Context, email, subject string) error {
	smtp, err := s.settings.SMTPConfig(ctx)
	if err != nil {
		return err
	}
	return s.sender.Send(*smtp, email, "Ответ на ваше обращение", mailer.FeedbackReplyBody(s.cfg.FrontendURL, subject))
}
