package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/darsapp/dars-api/internal/crypto"
	"github.com/darsapp/dars-api/internal/models"
	appErrors "github.com/darsapp/dars-api/pkg/errors"
	"github.com/darsapp/dars-api/pkg/mailer"
)

type settingsRepository interface {
	GetMany(ctx context.Context, keys []string) (map[string]models.SystemSetting, error)
	Upsert(ctx context.Context, setting *models.SystemSetting) error
}

// SMTPSettingsRequest is the admin payload for configuring outbound mail.
// An empty password keeps the stored one.
type SMTPSettingsRequest struct {
	Host        string `json:"host" validate:"required,max=255"`
	Port        int    `json:"port" validate:"required,gte=1,lte=65535"`
	Username    string `json:"username" validate:"omitempty,max=255"`
	Password    string `json:"password" validate:"omitempty,max=255"`
	UseSSL      bool   `json:"use_ssl"`
	FromName    string `json:"from_name" validate:"omitempty,max=255"`
	FromAddress string `json:"from_address" validate:"required,email"`
}

// SMTPSettingsView is the admin read model; the password is never returned.
type SMTPSettingsView struct {
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Username    string `json:"username"`
	HasPassword bool   `json:"has_password"`
	UseSSL      bool   `json:"use_ssl"`
	FromName    string `json:"from_name"`
	FromAddress string `json:"from_address"`
}

// TestMailRequest asks for a probe mail to the given address.
type TestMailRequest struct {
	To string `json:"to" validate:"required,email"`
}

var smtpSettingKeys = []string{
	models.SettingSMTPHost,
	models.SettingSMTPPort,
	models.SettingSMTPUser,
	models.SettingSMTPPassword,
	models.SettingSMTPUseSSL,
	models.SettingSMTPFromName,
	models.SettingSMTPFromAddr,
}

// SettingsService manages runtime SMTP configuration. The password is stored
// encrypted and only ever decrypted to build a dialer.
type SettingsService struct {
	repo      settingsRepository
	box       *crypto.Box
	sender    mailer.Sender
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(repo settingsRepository, box *crypto.Box, sender mailer.Sender, validate *validator.Validate, logger *zap.Logger) *SettingsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, box: box, sender: sender, validator: validate, logger: logger}
}

// GetSMTP returns the stored SMTP configuration without the password.
func (s *SettingsService) GetSMTP(ctx context.Context) (*SMTPSettingsView, error) {
	settings, err := s.repo.GetMany(ctx, smtpSettingKeys)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings")
	}

	port, _ := strconv.Atoi(settings[models.SettingSMTPPort].Value)
	return &SMTPSettingsView{
		Host:        settings[models.SettingSMTPHost].Value,
		Port:        port,
		Username:    settings[models.SettingSMTPUser].Value,
		HasPassword: settings[models.SettingSMTPPassword].Value != "",
		UseSSL:      settings[models.SettingSMTPUseSSL].Value == "true",
		FromName:    settings[models.SettingSMTPFromName].Value,
		FromAddress: settings[models.SettingSMTPFromAddr].Value,
	}, nil
}

// UpdateSMTP writes SMTP settings, encrypting the password at rest.
func (s *SettingsService) UpdateSMTP(ctx context.Context, req SMTPSettingsRequest) (*SMTPSettingsView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload")
	}

	plain := map[string]string{
		models.SettingSMTPHost:     strings.TrimSpace(req.Host),
		models.SettingSMTPPort:     strconv.Itoa(req.Port),
		models.SettingSMTPUser:     strings.TrimSpace(req.Username),
		models.SettingSMTPUseSSL:   strconv.FormatBool(req.UseSSL),
		models.SettingSMTPFromName: strings.TrimSpace(req.FromName),
		models.SettingSMTPFromAddr: strings.TrimSpace(req.FromAddress),
	}
	for key, value := range plain {
		if err := s.repo.Upsert(ctx, &models.SystemSetting{Key: key, Value: value}); err != nil {
			return nil, err
		}
	}

	if req.Password != "" {
		encrypted, err := s.box.Encrypt(req.Password)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encrypt password")
		}
		setting := &models.SystemSetting{Key: models.SettingSMTPPassword, Value: encrypted, IsEncrypted: true}
		if err := s.repo.Upsert(ctx, setting); err != nil {
			return nil, err
		}
	}
	return s.GetSMTP(ctx)
}

// SendTestMail sends a probe message using the stored configuration.
func (s *SettingsService) SendTestMail(ctx context.Context, req TestMailRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid test mail payload")
	}
	cfg, err := s.SMTPConfig(ctx)
	if err != nil {
		return err
	}
	if err := s.sender.Send(*cfg, req.To, "Проверка настроек почты", mailer.TestBody()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "test mail could not be sent")
	}
	return nil
}

// SMTPConfig assembles a ready-to-dial configuration, decrypting the stored
// password. It fails when no host is configured.
func (s *SettingsService) SMTPConfig(ctx context.Context) (*mailer.SMTPConfig, error) {
	settings, err := s.repo.GetMany(ctx, smtpSettingKeys)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings")
	}
	host := settings[models.SettingSMTPHost].Value
	if host == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "smtp is not configured")
	}

	password := settings[models.SettingSMTPPassword].Value
	if password != "" && settings[models.SettingSMTPPassword].IsEncrypted {
		password, err = s.box.Decrypt(password)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decrypt smtp password")
		}
	}

	port, _ := strconv.Atoi(settings[models.SettingSMTPPort].Value)
	if port == 0 {
		port = 587
	}
	return &mailer.SMTPConfig{
		Host:        host,
		Port:        port,
		Username:    settings[models.SettingSMTPUser].Value,
		Password:    password,
		UseSSL:      settings[models.SettingSMTPUseSSL].Value == "true",
		FromName:    settings[models.SettingSMTPFromName].Value,
		FromAddress: settings[models.SettingSMTPFromAddr].Value,
	}, nil
}
