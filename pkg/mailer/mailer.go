package mailer

import (
	"fmt"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// SMTPConfig is the resolved SMTP configuration loaded from system settings.
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	UseSSL      bool
	FromName    string
	FromAddress string
}

// From formats the sender header.
func (c SMTPConfig) From() string {
	if c.FromName == "" {
		return c.FromAddress
	}
	return fmt.Sprintf("%s <%s>", c.FromName, c.FromAddress)
}

// Sender delivers transactional mail over SMTP.
type Sender interface {
	Send(cfg SMTPConfig, to, subject, htmlBody string) error
}

// SMTPSender sends mail through gomail.
type SMTPSender struct {
	logger *zap.Logger
}

// NewSMTPSender constructs an SMTPSender.
func NewSMTPSender(logger *zap.Logger) *SMTPSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPSender{logger: logger}
}

// Send delivers a single HTML message. Credentials come from the caller on
// every call because admins can change them at runtime.
func (s *SMTPSender) Send(cfg SMTPConfig, to, subject, htmlBody string) error {
	if cfg.Host == "" || cfg.FromAddress == "" {
		return fmt.Errorf("smtp is not configured")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", cfg.From())
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.SSL = cfg.UseSSL

	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	s.logger.Info("mail_sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// VerificationBody renders the account verification email.
func VerificationBody(frontendURL, token string) string {
	return fmt.Sprintf(
		`<p>Assalamu alaikum!</p>
<p>Подтвердите ваш email, перейдя по ссылке:</p>
<p><a href="%s/verify?token=%s">Подтвердить email</a></p>
<p>Если вы не регистрировались, просто проигнорируйте это письмо.</p>`,
		frontendURL, token)
}

// TestBody renders the probe message used to verify SMTP settings.
func TestBody() string {
	return `<p>Настройки почты работают корректно.</p>`
}

// FeedbackReplyBody renders the notification sent when an admin replies to a
// feedback thread.
func FeedbackReplyBody(frontendURL, subject string) string {
	return fmt.Sprintf(
		`<p>Assalamu alaikum!</p>
<p>Администратор ответил на ваше обращение «%s».</p>
<p><a href="%s/feedback">Открыть переписку</a></p>`,
		subject, frontendURL)
}
