// Package config loads tubelens configuration.
//
// Precedence (highest wins): environment variables, YAML config file,
// built-in defaults. A .env file in the working directory is loaded into the
// process environment before any of this runs (see cmd/tubelens).
package config

import (
	"errors"
	"time"

	"github.com/gauthierbraillon/tubelens/internal/logging"
)

// ErrMissingAPIKey is returned by RequireAPIKey when no key is configured.
var ErrMissingAPIKey = errors.New("missing YouTube API key: set YOUTUBE_API_KEY or youtube.api_key")

// Config is the root configuration.
type Config struct {
	YouTube  YouTubeConfig  `koanf:"youtube"`
	Analysis AnalysisConfig `koanf:"analysis"`
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// YouTubeConfig configures the outbound YouTube Data API client.
type YouTubeConfig struct {
	APIKey            string        `koanf:"api_key"`
	BaseURL           string        `koanf:"base_url" validate:"required,url"`
	Timeout           time.Duration `koanf:"timeout" validate:"gt=0"`
	MaxVideos         int           `koanf:"max_videos" validate:"min=1,max=500"`
	TrendVideos       int           `koanf:"trend_videos" validate:"min=1,max=50"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gte=0"`
	Burst             int           `koanf:"burst" validate:"min=1"`
	Breaker           BreakerConfig `koanf:"breaker"`
}

// BreakerConfig configures the circuit breaker around the API client.
type BreakerConfig struct {
	Enabled      bool          `koanf:"enabled"`
	MinRequests  uint32        `koanf:"min_requests" validate:"min=1"`
	FailureRatio float64       `koanf:"failure_ratio" validate:"gt=0,lte=1"`
	Interval     time.Duration `koanf:"interval" validate:"gte=0"`
	Timeout      time.Duration `koanf:"timeout" validate:"gt=0"`
}

// AnalysisConfig holds the heuristics' tunables.
type AnalysisConfig struct {
	ViralMultiplier float64 `koanf:"viral_multiplier" validate:"gt=1"`
	WindowDays      int     `koanf:"window_days" validate:"min=1,max=365"`
	ShiftThreshold  float64 `koanf:"shift_threshold" validate:"gt=0"`
	TopSlots        int     `koanf:"top_slots" validate:"min=1,max=168"`
	TopWords        int     `koanf:"top_words" validate:"min=1,max=100"`
	Timezone        string  `koanf:"timezone" validate:"required,timezone"`
}

// ServerConfig configures the HTTP service started by `tubelens serve`.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout       time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout      time.Duration `koanf:"write_timeout" validate:"gt=0"`
	AnalyzeTimeout    time.Duration `koanf:"analyze_timeout" validate:"gt=0"`
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig configures internal/logging.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

func defaultConfig() *Config {
	return &Config{
		YouTube: YouTubeConfig{
			BaseURL:           "https://www.googleapis.com",
			Timeout:           10 * time.Second,
			MaxVideos:         50,
			TrendVideos:       25,
			RequestsPerSecond: 5,
			Burst:             5,
			Breaker: BreakerConfig{
				Enabled:      true,
				MinRequests:  5,
				FailureRatio: 0.6,
				Interval:     time.Minute,
				Timeout:      30 * time.Second,
			},
		},
		Analysis: AnalysisConfig{
			ViralMultiplier: 3,
			WindowDays:      30,
			ShiftThreshold:  0.25,
			TopSlots:        5,
			TopWords:        10,
			Timezone:        "UTC",
		},
		Server: ServerConfig{
			Host:              "127.0.0.1",
			Port:              8080,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      60 * time.Second,
			AnalyzeTimeout:    45 * time.Second,
			RateLimitRequests: 30,
			RateLimitWindow:   time.Minute,
			CORSOrigins:       []string{},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// RequireAPIKey fails when no API key is configured. Commands that call the
// YouTube API check this; `tubelens config` does not.
func (c *Config) RequireAPIKey() error {
	if c.YouTube.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// Location resolves the analysis time zone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Analysis.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Redacted returns a copy with secrets hidden, safe to print or log.
func (c *Config) Redacted() Config {
	out := *c
	out.YouTube.APIKey = logging.Redact(c.YouTube.APIKey)
	out.Server.CORSOrigins = append([]string(nil), c.Server.CORSOrigins...)
	return out
}

// LoggingSettings converts the logging section for logging.Init.
func (c *Config) LoggingSettings() logging.Config {
	return logging.Config{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
		Caller: c.Logging.Caller,
	}
}
