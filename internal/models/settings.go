package models

import "time"

// Well-known system setting keys.
const (
	SettingSMTPHost     = "smtp_host"
	SettingSMTPPort     = "smtp_port"
	SettingSMTPUser     = "smtp_username"
	SettingSMTPPassword = "smtp_password"
	SettingSMTPUseSSL   = "smtp_use_ssl"
	SettingSMTPFromName = "smtp_from_name"
	SettingSMTPFromAddr = "smtp_from_address"
)

// SystemSetting is a single key/value row. Encrypted values hold an AES-GCM
// token rather than the plaintext.
type SystemSetting struct {
	ID          int64     `db:"id" json:"id"`
	Key         string    `db:"key" json:"key"`
	Value       string    `db:"value" json:"value"`
	IsEncrypted bool      `db:"is_encrypted" json:"is_encrypted"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
