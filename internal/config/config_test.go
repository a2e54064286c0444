// Package config tests document how tubelens settings are resolved.
//
// Test requirements (this file serves as documentation):
// - Defaults alone produce a valid configuration (API key optional at load)
// - YAML file overrides defaults, environment overrides the file
// - Comma-separated env values become slices
// - Invalid values are rejected with a message naming the field
// - Secrets never appear in the redacted copy
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tubelens.yaml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAC700_Defaults_AreValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate, got: %v", err)
	}
	if cfg.Analysis.ViralMultiplier != 3 {
		t.Errorf("viral multiplier = %v, want 3", cfg.Analysis.ViralMultiplier)
	}
	if cfg.Analysis.WindowDays != 30 {
		t.Errorf("window days = %d, want 30", cfg.Analysis.WindowDays)
	}
	if cfg.YouTube.MaxVideos != 50 {
		t.Errorf("max videos = %d, want 50", cfg.YouTube.MaxVideos)
	}
	if cfg.Analysis.TopSlots != 5 {
		t.Errorf("top slots = %d, want 5", cfg.Analysis.TopSlots)
	}
}

func TestAC701_Load_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
analysis:
  window_days: 14
  shift_threshold: 0.4
youtube:
  timeout: 3s
`)
	t.Setenv(PathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Analysis.WindowDays != 14 {
		t.Errorf("window days = %d, want 14 from file", cfg.Analysis.WindowDays)
	}
	if cfg.Analysis.ShiftThreshold != 0.4 {
		t.Errorf("shift threshold = %v, want 0.4 from file", cfg.Analysis.ShiftThreshold)
	}
	if cfg.YouTube.Timeout != 3*time.Second {
		t.Errorf("timeout = %v, want 3s from file", cfg.YouTube.Timeout)
	}
	if cfg.Analysis.TopWords != 10 {
		t.Errorf("unset values keep defaults, top words = %d", cfg.Analysis.TopWords)
	}
}

func TestAC702_Load_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "analysis:\n  window_days: 14\n")
	t.Setenv(PathEnvVar, path)
	t.Setenv("TUBELENS_WINDOW_DAYS", "7")
	t.Setenv("YOUTUBE_API_KEY", "key-from-env")
	t.Setenv("TUBELENS_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Analysis.WindowDays != 7 {
		t.Errorf("window days = %d, want 7 from env", cfg.Analysis.WindowDays)
	}
	if cfg.YouTube.APIKey != "key-from-env" {
		t.Errorf("api key should come from YOUTUBE_API_KEY")
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example" {
		t.Errorf("cors origins = %v, want two trimmed entries", cfg.Server.CORSOrigins)
	}
}

func TestAC703_Load_RejectsInvalidValues(t *testing.T) {
	t.Setenv(PathEnvVar, writeConfigFile(t, "analysis:\n  timezone: Mars/Olympus\n  viral_multiplier: 0.5\n"))

	_, err := Load()
	if err == nil {
		t.Fatal("invalid configuration should fail to load")
	}
	msg := err.Error()
	if !strings.Contains(msg, "Analysis.Timezone") {
		t.Errorf("error should name the time zone field, got: %v", err)
	}
	if !strings.Contains(msg, "Analysis.ViralMultiplier") {
		t.Errorf("error should name the viral multiplier field, got: %v", err)
	}
}

func TestAC704_RequireAPIKey(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.RequireAPIKey(); err != ErrMissingAPIKey {
		t.Errorf("missing key should return ErrMissingAPIKey, got %v", err)
	}
	cfg.YouTube.APIKey = "k"
	if err := cfg.RequireAPIKey(); err != nil {
		t.Errorf("configured key should pass, got %v", err)
	}
}

func TestAC705_Redacted_HidesAPIKey(t *testing.T) {
	cfg := defaultConfig()
	cfg.YouTube.APIKey = "AIzaSuperSecret"

	red := cfg.Redacted()
	if strings.Contains(red.YouTube.APIKey, "AIza") {
		t.Errorf("redacted copy leaks the key: %q", red.YouTube.APIKey)
	}
	if cfg.YouTube.APIKey != "AIzaSuperSecret" {
		t.Error("redacting must not modify the original")
	}
}

func TestAC706_Location_ResolvesTimezone(t *testing.T) {
	cfg := defaultConfig()
	cfg.Analysis.Timezone = "Asia/Tokyo"
	if got := cfg.Location().String(); got != "Asia/Tokyo" {
		t.Errorf("location = %s, want Asia/Tokyo", got)
	}
}

func TestAC707_Dump_RendersRedactedConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.YouTube.APIKey = "AIzaSuperSecret"

	out, err := cfg.Dump("yaml")
	if err != nil {
		t.Fatalf("yaml dump failed: %v", err)
	}
	if strings.Contains(string(out), "AIzaSuperSecret") {
		t.Error("dump must not print the API key")
	}
	for _, want := range []string{"youtube:", "viral_multiplier: 3", "timezone: UTC"} {
		if !strings.Contains(string(out), want) {
			t.Errorf("yaml dump should contain %q, got:\n%s", want, out)
		}
	}

	out, err = cfg.Dump("json")
	if err != nil {
		t.Fatalf("json dump failed: %v", err)
	}
	if !strings.Contains(string(out), `"window_days": 30`) {
		t.Errorf("json dump should use config file keys, got:\n%s", out)
	}

	if _, err := cfg.Dump("toml"); err == nil {
		t.Error("unsupported formats should fail")
	}
}
