// Package main provides the tubelens CLI entry point.
package main

import (
	"errors"
	"io/fs"
	"os"
	"runtime/debug"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/tubelens/internal/aggregator"
	"github.com/gauthierbraillon/tubelens/internal/config"
	"github.com/gauthierbraillon/tubelens/internal/logging"
	"github.com/gauthierbraillon/tubelens/internal/youtube"
)

// version is injected at build time:
//
//	go build -ldflags="-X main.version=$(git describe --tags --always --dirty)" ./cmd/tubelens
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveVersion prefers the ldflags version and falls back to the module
// version recorded by `go install`. An empty -X value counts as unset.
func resolveVersion(ldflags string, info *debug.BuildInfo) string {
	if ldflags != "dev" && ldflags != "" {
		return ldflags
	}
	if info == nil || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "dev"
	}
	return info.Main.Version
}

func currentVersion() string {
	info, _ := debug.ReadBuildInfo()
	return resolveVersion(version, info)
}

// newRootCmd creates the root command for tubelens CLI.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "tubelens",
		Short:        "Analyze YouTube channel performance",
		Long:         "Tubelens fetches a YouTube channel's recent uploads and reports what makes its videos perform: viral factors, timing, titles, engagement, algorithm shifts and predictions.",
		Version:      currentVersion(),
		SilenceUsage: true,
	}

	rootCmd.SetVersionTemplate("tubelens version {{.Version}}\n")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// loadConfig reads .env, then the layered configuration, and configures
// logging from it.
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logging.Init(cfg.LoggingSettings())
	return cfg, nil
}

// newAnalyzer builds the YouTube client stack and the aggregator on top.
func newAnalyzer(cfg *config.Config) *aggregator.Aggregator {
	client := youtube.NewClient(cfg.YouTube.APIKey,
		youtube.WithBaseURL(cfg.YouTube.BaseURL),
		youtube.WithTimeout(cfg.YouTube.Timeout),
		youtube.WithRateLimit(cfg.YouTube.RequestsPerSecond, cfg.YouTube.Burst),
	)

	var source aggregator.Source = client
	if b := cfg.YouTube.Breaker; b.Enabled {
		source = youtube.NewBreakerClient(client, youtube.BreakerSettings{
			Name:         youtube.DefaultBreakerSettings().Name,
			MinRequests:  b.MinRequests,
			FailureRatio: b.FailureRatio,
			Interval:     b.Interval,
			Timeout:      b.Timeout,
		})
	}

	return aggregator.New(source,
		aggregator.WithMaxVideos(cfg.YouTube.MaxVideos),
		aggregator.WithTrendVideos(cfg.YouTube.TrendVideos),
		aggregator.WithOptions(aggregator.Options{
			ViralMultiplier: cfg.Analysis.ViralMultiplier,
			WindowDays:      cfg.Analysis.WindowDays,
			ShiftThreshold:  cfg.Analysis.ShiftThreshold,
			TopSlots:        cfg.Analysis.TopSlots,
			TopWords:        cfg.Analysis.TopWords,
			Location:        cfg.Location(),
		}),
	)
}
