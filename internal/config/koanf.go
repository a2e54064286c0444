package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// PathEnvVar overrides the config file location.
const PathEnvVar = "TUBELENS_CONFIG"

// DefaultPaths are searched in order when PathEnvVar is unset.
var DefaultPaths = []string{
	"tubelens.yaml",
	"tubelens.yml",
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	"youtube_api_key":                "youtube.api_key",
	"tubelens_youtube_api_key":       "youtube.api_key",
	"tubelens_api_url":               "youtube.base_url",
	"tubelens_youtube_timeout":       "youtube.timeout",
	"tubelens_max_videos":            "youtube.max_videos",
	"tubelens_trend_videos":          "youtube.trend_videos",
	"tubelens_requests_per_second":   "youtube.requests_per_second",
	"tubelens_burst":                 "youtube.burst",
	"tubelens_breaker_enabled":       "youtube.breaker.enabled",
	"tubelens_breaker_min_requests":  "youtube.breaker.min_requests",
	"tubelens_breaker_failure_ratio": "youtube.breaker.failure_ratio",
	"tubelens_breaker_timeout":       "youtube.breaker.timeout",
	"tubelens_viral_multiplier":      "analysis.viral_multiplier",
	"tubelens_window_days":           "analysis.window_days",
	"tubelens_shift_threshold":       "analysis.shift_threshold",
	"tubelens_top_slots":             "analysis.top_slots",
	"tubelens_top_words":             "analysis.top_words",
	"tubelens_timezone":              "analysis.timezone",
	"tubelens_host":                  "server.host",
	"tubelens_port":                  "server.port",
	"tubelens_analyze_timeout":       "server.analyze_timeout",
	"tubelens_rate_limit_requests":   "server.rate_limit_requests",
	"tubelens_rate_limit_window":     "server.rate_limit_window",
	"tubelens_cors_origins":          "server.cors_origins",
	"log_level":                      "logging.level",
	"log_format":                     "logging.format",
	"log_caller":                     "logging.caller",
}

// sliceConfigPaths are split on commas when they arrive as strings (env).
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// Load builds the configuration from defaults, the optional YAML file and
// the environment, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if path := os.Getenv(PathEnvVar); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	for _, path := range DefaultPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := []string{}
		for _, p := range strings.Split(strVal, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// Dump renders the redacted configuration as "yaml" or "json", keyed the same
// way a config file is.
func (c *Config) Dump(format string) ([]byte, error) {
	redacted := c.Redacted()

	k := koanf.New(".")
	if err := k.Load(structs.Provider(&redacted, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to flatten configuration: %w", err)
	}

	switch format {
	case "yaml", "":
		return k.Marshal(yaml.Parser())
	case "json":
		return json.MarshalIndent(k.Raw(), "", "  ")
	default:
		return nil, fmt.Errorf("unsupported format %q: must be yaml or json", format)
	}
}
