package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/tubelens/internal/aggregator"
	"github.com/gauthierbraillon/tubelens/internal/api"
	"github.com/gauthierbraillon/tubelens/internal/display"
	"github.com/gauthierbraillon/tubelens/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// newAnalyzeCmd creates the analyze subcommand.
func newAnalyzeCmd() *cobra.Command {
	var format string
	var maxVideos int

	cmd := &cobra.Command{
		Use:   "analyze <channel-id>",
		Short: "Analyze a YouTube channel",
		Long:  "Fetch a channel's recent uploads and print its performance report.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("requires exactly one channel id argument, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("invalid format %q: must be 'text' or 'json'", format)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireAPIKey(); err != nil {
				return err
			}
			if maxVideos > 0 {
				cfg.YouTube.MaxVideos = maxVideos
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, cfg.Server.AnalyzeTimeout)
			defer cancel()
			ctx = logging.ContextWithRequestID(ctx, logging.GenerateRequestID())

			report, err := newAnalyzer(cfg).Analyze(ctx, args[0])
			if err != nil {
				return describeError(args[0], err)
			}

			if format == "json" {
				data, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode report: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), display.NewTerminalFormatter().FormatReport(report))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json)")
	cmd.Flags().IntVarP(&maxVideos, "max-videos", "n", 0, "Maximum number of recent uploads to analyze (default from config)")

	return cmd
}

// describeError turns analysis errors into one actionable line. The YouTube
// client already phrases auth, quota and rate limit failures.
func describeError(channelID string, err error) error {
	var fe *aggregator.FetchError
	switch {
	case errors.Is(err, aggregator.ErrNotFound):
		return fmt.Errorf("channel %q not found", channelID)
	case errors.As(err, &fe) && fe.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("YouTube rejected the request, check the API key (YOUTUBE_API_KEY): %w", err)
	default:
		return err
	}
}

// newServeCmd creates the serve subcommand.
func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve channel analyses over HTTP",
		Long:  "Start an HTTP server exposing /api/v1/channels/{channelID}/analysis, /api/v1/health and /metrics.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireAPIKey(); err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}

			server := api.NewServer(newAnalyzer(cfg), api.Config{
				AnalyzeTimeout:    cfg.Server.AnalyzeTimeout,
				RateLimitRequests: cfg.Server.RateLimitRequests,
				RateLimitWindow:   cfg.Server.RateLimitWindow,
				CORSOrigins:       cfg.Server.CORSOrigins,
				Version:           currentVersion(),
			})

			httpServer := &http.Server{
				Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
				Handler:           server.Handler(),
				ReadTimeout:       cfg.Server.ReadTimeout,
				ReadHeaderTimeout: cfg.Server.ReadTimeout,
				WriteTimeout:      cfg.Server.WriteTimeout,
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServer(ctx, httpServer)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")

	return cmd
}

// runServer serves until ctx is cancelled, then drains in-flight requests.
func runServer(ctx context.Context, srv *http.Server) error {
	log := logging.WithComponent("server")

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}
	return nil
}

// newConfigCmd creates the config subcommand.
func newConfigCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long:  "Print the configuration resolved from defaults, tubelens.yaml and the environment. The API key is redacted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			out, err := cfg.Dump(format)
			if err != nil {
				return err
			}
			if len(out) > 0 && out[len(out)-1] != '\n' {
				out = append(out, '\n')
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format (yaml, json)")

	return cmd
}
