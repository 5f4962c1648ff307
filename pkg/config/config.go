package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// SessionSecret signs both mobile bearer tokens and console session
	// cookies. Startup fails when it is unset.
	SessionSecret string
	TokenTTL      time.Duration
	ConsoleTTL    time.Duration
	TokenIssuer   string

	// Attachment store.
	UploadRoot     string
	UploadFsync    bool
	MaxUploadBytes int64

	// Remote mirror (Google Drive).
	RemoteStorageEnabled    bool
	DriveCredentialsFile    string
	DriveRootFolderID       string
	ResumableThresholdBytes int64
	MirrorRetryCron         string

	// AdvanceCeiling caps outstanding liabilities plus a new advance
	// request. Zero disables the check.
	AdvanceCeiling float64

	PosthogAPIKey string
}

const (
	defaultTokenTTL       = 30 * 24 * time.Hour
	defaultConsoleTTL     = 12 * time.Hour
	defaultMaxUploadBytes = 500 << 20 // 500 MiB
	defaultResumableBytes = 50 << 20  // 50 MiB
)

// LoadConfig loads configuration from environment variables and .env file if
// present. It returns an error when SESSION_SECRET is missing; main turns
// that into a non-zero exit.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("SESSION_SECRET", "")
	viper.SetDefault("TOKEN_TTL", "720h")
	viper.SetDefault("CONSOLE_SESSION_TTL", "12h")
	viper.SetDefault("TOKEN_ISSUER", "employee-requests-app")
	viper.SetDefault("UPLOAD_ROOT", "./data")
	viper.SetDefault("UPLOAD_FSYNC", false)
	viper.SetDefault("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)
	viper.SetDefault("REMOTE_STORAGE_ENABLED", false)
	viper.SetDefault("DRIVE_CREDENTIALS_FILE", "")
	viper.SetDefault("DRIVE_ROOT_FOLDER_ID", "")
	viper.SetDefault("RESUMABLE_THRESHOLD_BYTES", defaultResumableBytes)
	viper.SetDefault("MIRROR_RETRY_CRON", "@every 30m")
	viper.SetDefault("ADVANCE_CEILING", 0.0)
	viper.SetDefault("POSTHOG_API_KEY", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.SessionSecret = viper.GetString("SESSION_SECRET")
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is required")
	}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	tokenTTLStr := viper.GetString("TOKEN_TTL")
	tokenTTL, err := time.ParseDuration(tokenTTLStr)
	if err != nil {
		tokenTTL = defaultTokenTTL
		if tokenTTLStr != "" {
			log.Printf("Warning: Invalid value for TOKEN_TTL ('%s'). Defaulting to %s.\n", tokenTTLStr, tokenTTL)
		}
	}
	cfg.TokenTTL = tokenTTL

	consoleTTLStr := viper.GetString("CONSOLE_SESSION_TTL")
	consoleTTL, err := time.ParseDuration(consoleTTLStr)
	if err != nil {
		consoleTTL = defaultConsoleTTL
		if consoleTTLStr != "" {
			log.Printf("Warning: Invalid value for CONSOLE_SESSION_TTL ('%s'). Defaulting to %s.\n", consoleTTLStr, consoleTTL)
		}
	}
	cfg.ConsoleTTL = consoleTTL

	cfg.TokenIssuer = viper.GetString("TOKEN_ISSUER")

	cfg.UploadRoot = viper.GetString("UPLOAD_ROOT")
	cfg.UploadFsync = viper.GetBool("UPLOAD_FSYNC")
	cfg.MaxUploadBytes = viper.GetInt64("MAX_UPLOAD_BYTES")
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}

	cfg.RemoteStorageEnabled = viper.GetBool("REMOTE_STORAGE_ENABLED")
	cfg.DriveCredentialsFile = viper.GetString("DRIVE_CREDENTIALS_FILE")
	cfg.DriveRootFolderID = viper.GetString("DRIVE_ROOT_FOLDER_ID")
	if cfg.RemoteStorageEnabled && cfg.DriveCredentialsFile == "" {
		log.Println("Warning: REMOTE_STORAGE_ENABLED is set but DRIVE_CREDENTIALS_FILE is empty. Remote mirroring will be disabled.")
		cfg.RemoteStorageEnabled = false
	}
	cfg.ResumableThresholdBytes = viper.GetInt64("RESUMABLE_THRESHOLD_BYTES")
	if cfg.ResumableThresholdBytes <= 0 {
		cfg.ResumableThresholdBytes = defaultResumableBytes
	}
	cfg.MirrorRetryCron = viper.GetString("MIRROR_RETRY_CRON")

	cfg.AdvanceCeiling = viper.GetFloat64("ADVANCE_CEILING")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	return cfg, nil
}
