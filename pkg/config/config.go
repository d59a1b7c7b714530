package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Log        LogConfig
	Audio      AudioConfig
	Statistics StatisticsConfig
	Mail       MailConfig
	Secrets    SecretsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AudioConfig controls audio storage and upload processing.
type AudioConfig struct {
	StorageDir        string
	MaxUploadBytes    int64
	FFmpegPath        string
	FFprobePath       string
	TranscodeBitrate  string
	TranscodeTimeout  time.Duration
	LoudnessNormalize bool
}

// StatisticsConfig tunes caching of the aggregate statistics payload.
type StatisticsConfig struct {
	CacheTTL time.Duration
}

// MailConfig carries the static pieces of outbound mail; SMTP credentials
// live in system_settings and are managed at runtime by admins.
type MailConfig struct {
	FrontendURL string
}

// SecretsConfig holds the key used to encrypt stored SMTP passwords.
type SecretsConfig struct {
	EncryptionKey string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	maxUpload := v.GetInt64("AUDIO_MAX_UPLOAD_BYTES")
	if maxUpload <= 0 {
		maxUpload = 200 * 1024 * 1024
	}
	cfg.Audio = AudioConfig{
		StorageDir:        v.GetString("AUDIO_STORAGE_DIR"),
		MaxUploadBytes:    maxUpload,
		FFmpegPath:        v.GetString("AUDIO_FFMPEG_PATH"),
		FFprobePath:       v.GetString("AUDIO_FFPROBE_PATH"),
		TranscodeBitrate:  v.GetString("AUDIO_TRANSCODE_BITRATE"),
		TranscodeTimeout:  parseDuration(v.GetString("AUDIO_TRANSCODE_TIMEOUT"), 10*time.Minute),
		LoudnessNormalize: v.GetBool("AUDIO_LOUDNESS_NORMALIZE"),
	}

	cfg.Statistics = StatisticsConfig{
		CacheTTL: parseDuration(v.GetString("STATISTICS_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Mail = MailConfig{
		FrontendURL: v.GetString("MAIL_FRONTEND_URL"),
	}

	cfg.Secrets = SecretsConfig{
		EncryptionKey: v.GetString("SETTINGS_ENCRYPTION_KEY"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "dars")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("AUDIO_STORAGE_DIR", "./audio")
	v.SetDefault("AUDIO_MAX_UPLOAD_BYTES", 200*1024*1024)
	v.SetDefault("AUDIO_FFMPEG_PATH", "ffmpeg")
	v.SetDefault("AUDIO_FFPROBE_PATH", "ffprobe")
	v.SetDefault("AUDIO_TRANSCODE_BITRATE", "64k")
	v.SetDefault("AUDIO_TRANSCODE_TIMEOUT", "10m")
	v.SetDefault("AUDIO_LOUDNESS_NORMALIZE", true)

	v.SetDefault("STATISTICS_CACHE_TTL", "5m")

	v.SetDefault("MAIL_FRONTEND_URL", "http://localhost:3000")

	v.SetDefault("SETTINGS_ENCRYPTION_KEY", "")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
