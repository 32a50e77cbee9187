package config

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PORT", "9090")
	t.Setenv("FIREBASE_PROJECT_ID", "clinic-dash")
	t.Setenv("GOOGLE_CREDS_BASE64", base64.StdEncoding.EncodeToString([]byte(`{"type":"service_account"}`)))
	t.Setenv("GOOGLE_CREDS_FILE", "")
	t.Setenv("TIMEZONE", "")
	t.Setenv("POLLING_ENABLED", "")
	t.Setenv("CONTACTS_CACHE_TTL", "")
	t.Setenv("PYTHON_API_URL", "http://py.local/")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" || cfg.Timezone != "Asia/Bangkok" {
		t.Errorf("unexpected port/timezone: %q %q", cfg.Port, cfg.Timezone)
	}
	if !cfg.PollingEnabled {
		t.Errorf("polling should default to enabled")
	}
	if cfg.ContactsTTL != 10*time.Second {
		t.Errorf("contacts ttl = %v", cfg.ContactsTTL)
	}
	if cfg.PythonAPIURL != "http://py.local" {
		t.Errorf("python api url not trimmed: %q", cfg.PythonAPIURL)
	}
	if got := cfg.Origins(); len(got) != 2 || got[1] != "https://b.example" {
		t.Errorf("origins = %v", got)
	}

	creds, source, err := cfg.GoogleCredentialsJSON()
	if err != nil || source != "base64" || string(creds) != `{"type":"service_account"}` {
		t.Errorf("GoogleCredentialsJSON = %q %q %v", creds, source, err)
	}
}

func TestLoadRequiresCredentials(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("GOOGLE_CREDS_BASE64", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error without credentials")
	}
}

func TestLoadRejectsBadBool(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("POLLING_ENABLED", "sometimes")

	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestCredentialsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sa.json")
	if err := os.WriteFile(path, []byte(`{"k":1}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := Config{GoogleCredsFile: path}
	data, source, err := cfg.GoogleCredentialsJSON()
	if err != nil || source != "file" || string(data) != `{"k":1}` {
		t.Fatalf("GoogleCredentialsJSON = %q %q %v", data, source, err)
	}

	if _, _, err := (Config{}).GoogleCredentialsJSON(); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestLocationFallback(t *testing.T) {
	loc := Config{Timezone: "Not/AZone"}.Location()
	_, offset := time.Date(2025, 3, 1, 0, 0, 0, 0, loc).Zone()
	if offset != 7*3600 {
		t.Errorf("fallback offset = %d", offset)
	}
}

func TestClinicLocationDefault(t *testing.T) {
	t.Setenv("TIMEZONE", "")
	loc := ClinicLocation()
	_, offset := time.Date(2025, 3, 5, 12, 0, 0, 0, loc).Zone()
	if offset != 7*3600 {
		t.Fatalf("offset = %d, want +7h", offset)
	}
}
