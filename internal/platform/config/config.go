package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// ErrMissingCredentials is returned when no Google service account is configured.
var ErrMissingCredentials = errors.New("no google credentials found")

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	AllowedOrigins string
	Timezone       string

	FirebaseProjectID string
	GoogleCredsBase64 string
	GoogleCredsFile   string
	SpreadsheetID     string
	FilmDataRange     string
	FilmDevRange      string

	PythonAPIURL string

	YalecomAPIURL string
	YalecomAPIKey string

	FacebookAccessToken string
	FacebookAdAccountID string

	SetAPIURL string
	SetAPIKey string

	RosterFile     string
	PollingEnabled bool
	ContactsTTL    time.Duration
}

// LoadDotEnv loads .env.local and .env when present. Variables already set
// in the environment win.
func LoadDotEnv() {
	for _, f := range []string{".env.local", ".env"} {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}
}

// Load reads environment variables into a Config with sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "release"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")),
		Timezone:       getEnv("TIMEZONE", "Asia/Bangkok"),

		FirebaseProjectID: strings.TrimSpace(os.Getenv("FIREBASE_PROJECT_ID")),
		GoogleCredsBase64: strings.TrimSpace(os.Getenv("GOOGLE_CREDS_BASE64")),
		GoogleCredsFile:   strings.TrimSpace(os.Getenv("GOOGLE_CREDS_FILE")),
		SpreadsheetID:     strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID")),
		FilmDataRange:     getEnv("FILM_DATA_RANGE", "Film data!A:Z"),
		FilmDevRange:      getEnv("FILM_DEV_RANGE", "Film_dev!A:AZ"),

		PythonAPIURL: strings.TrimRight(strings.TrimSpace(os.Getenv("PYTHON_API_URL")), "/"),

		YalecomAPIURL: strings.TrimSpace(os.Getenv("YALECOM_API_URL")),
		YalecomAPIKey: strings.TrimSpace(os.Getenv("YALECOM_API_KEY")),

		FacebookAccessToken: strings.TrimSpace(os.Getenv("FACEBOOK_ACCESS_TOKEN")),
		FacebookAdAccountID: strings.TrimSpace(os.Getenv("FACEBOOK_AD_ACCOUNT_ID")),

		SetAPIURL: strings.TrimRight(strings.TrimSpace(os.Getenv("SET_API_URL")), "/"),
		SetAPIKey: strings.TrimSpace(os.Getenv("SET_API_KEY")),

		RosterFile: strings.TrimSpace(os.Getenv("ROSTER_FILE")),
	}

	polling, err := parseBoolEnv("POLLING_ENABLED", true)
	if err != nil {
		return Config{}, fmt.Errorf("parse POLLING_ENABLED: %w", err)
	}
	cfg.PollingEnabled = polling

	ttl, err := parseDurationEnv("CONTACTS_CACHE_TTL", 10*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse CONTACTS_CACHE_TTL: %w", err)
	}
	cfg.ContactsTTL = ttl

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.FirebaseProjectID == "" {
		return errors.New("FIREBASE_PROJECT_ID is required")
	}
	if c.GoogleCredsBase64 == "" && c.GoogleCredsFile == "" {
		return errors.New("provide GOOGLE_CREDS_BASE64 or GOOGLE_CREDS_FILE for Google auth")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the clinic time zone, falling back to UTC+7.
func (c Config) Location() *time.Location {
	if loc, err := time.LoadLocation(c.Timezone); err == nil {
		return loc
	}
	return time.FixedZone("ICT", 7*3600)
}

// ClinicLocation reads TIMEZONE alone, for tools that need no other settings.
func ClinicLocation() *time.Location {
	return Config{Timezone: getEnv("TIMEZONE", "Asia/Bangkok")}.Location()
}

// GoogleCredentialsJSON returns the service account JSON bytes and the source
// used. The same account serves Firestore and Sheets.
func (c Config) GoogleCredentialsJSON() ([]byte, string, error) {
	if c.GoogleCredsBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(c.GoogleCredsBase64)
		if err != nil {
			return nil, "base64", fmt.Errorf("decode GOOGLE_CREDS_BASE64: %w", err)
		}
		return decoded, "base64", nil
	}
	if c.GoogleCredsFile != "" {
		data, err := os.ReadFile(c.GoogleCredsFile)
		if err != nil {
			return nil, "file", fmt.Errorf("read GOOGLE_CREDS_FILE: %w", err)
		}
		return data, "file", nil
	}
	return nil, "", ErrMissingCredentials
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnv(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

func parseBoolEnv(key string, defaultVal bool) (bool, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal, nil
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return false, err
	}
	return parsed, nil
}

func parseDurationEnv(key string, defaultVal time.Duration) (time.Duration, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(val)
}
