package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darsapp/dars-api/internal/crypto"
	"github.com/darsapp/dars-api/internal/models"
	appErrors "github.com/darsapp/dars-api/pkg/errors"
	"github.com/darsapp/dars-api/pkg/mailer"
)

type mockSettingsRepo struct {
	rows map[string]models.SystemSetting
}

func (m *mockSettingsRepo) GetMany(ctx context.Context, keys []string) (map[string]models.SystemSetting, error) {
	out := map[string]models.SystemSetting{}
	for _, key := range keys {
		if row, ok := m.rows[key]; ok {
			out[key] = row
		}
	}
	return out, nil
}

func (m *mockSettingsRepo) Upsert(ctx context.Context, setting *models.SystemSetting) error {
	m.rows[setting.Key] = *setting
	return nil
}

type mockSender struct {
	sent []string
	cfgs []mailer.SMTPConfig
	err  error
}

func (m *mockSender) Send(cfg mailer.SMTPConfig, to, subject, htmlBody string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	m.cfgs = append(m.cfgs, cfg)
	return nil
}

func newSettingsFixture(t *testing.T) (*SettingsService, *mockSettingsRepo, *mockSender) {
	t.Helper()
	box, err := crypto.NewBox("settings-test-passphrase")
	require.NoError(t, err)
	repo := &mockSettingsRepo{rows: map[string]models.SystemSetting{}}
	sender := &mockSender{}
	return NewSettingsService(repo, box, sender, nil, nil), repo, sender
}

func TestSettingsServiceUpdateEncryptsPassword(t *testing.T) {
	svc, repo, _ := newSettingsFixture(t)

	view, err := svc.UpdateSMTP(context.Background(), SMTPSettingsRequest{
		Host:        "smtp.example.com",
		Port:        465,
		Username:    "robot",
		Password:    "s3cret",
		UseSSL:      true,
		FromAddress: "noreply@example.com",
	})
	require.NoError(t, err)
	assert.True(t, view.HasPassword)

	stored := repo.rows[models.SettingSMTPPassword]
	assert.True(t, stored.IsEncrypted)
	assert.NotEqual(t, "s3cret", stored.Value)
	assert.NotContains(t, stored.Value, "s3cret")
}

func TestSettingsServiceEmptyPasswordKeepsStored(t *testing.T) {
	svc, repo, _ := newSettingsFixture(t)

	_, err := svc.UpdateSMTP(context.Background(), SMTPSettingsRequest{
		Host:        "smtp.example.com",
		Port:        587,
		Password:    "s3cret",
		FromAddress: "noreply@example.com",
	})
	require.NoError(t, err)
	original := repo.rows[models.SettingSMTPPassword].Value

	_, err = svc.UpdateSMTP(context.Background(), SMTPSettingsRequest{
		Host:        "smtp.other.com",
		Port:        587,
		FromAddress: "noreply@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, original, repo.rows[models.SettingSMTPPassword].Value)
}

func TestSettingsServiceSMTPConfigDecryptsPassword(t *testing.T) {
	svc, _, _ := newSettingsFixture(t)

	_, err := svc.UpdateSMTP(context.Background(), SMTPSettingsRequest{
		Host:        "smtp.example.com",
		Port:        465,
		Username:    "robot",
		Password:    "s3cret",
		UseSSL:      true,
		FromAddress: "noreply@example.com",
	})
	require.NoError(t, err)

	cfg, err := svc.SMTPConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com", cfg.Host)
	assert.Equal(t, 465, cfg.Port)
	assert.Equal(t, "s3cret", cfg.Password)
	assert.True(t, cfg.UseSSL)
}

func TestSettingsServiceSMTPConfigRequiresHost(t *testing.T) {
	svc, _, _ := newSettingsFixture(t)

	_, err := svc.SMTPConfig(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSettingsServiceSendTestMail(t *testing.T) {
	svc, _, sender := newSettingsFixture(t)

	_, err := svc.UpdateSMTP(context.Background(), SMTPSettingsRequest{
		Host:        "smtp.example.com",
		Port:        587,
		FromAddress: "noreply@example.com",
	})
	require.NoError(t, err)

	err = svc.SendTestMail(context.Background(), TestMailRequest{To: "admin@example.com"})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "admin@example.com", sender.sent[0])
	assert.Equal(t, 587, sender.cfgs[0].Port)
}
