package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/gauthierbraillon/tubelens/internal/logging"
	"github.com/gauthierbraillon/tubelens/internal/metrics"
)

// BreakerSettings configures the circuit breaker wrapped around a Client.
type BreakerSettings struct {
	Name         string
	MinRequests  uint32
	FailureRatio float64
	Interval     time.Duration
	Timeout      time.Duration
}

// DefaultBreakerSettings opens the circuit when 60% of at least 5 calls
// within a minute fail, and probes again after 30 seconds.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:         "youtube-api",
		MinRequests:  5,
		FailureRatio: 0.6,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
	}
}

// BreakerClient wraps Client so that a failing YouTube API is not hammered.
// Not-found answers and client errors other than 429 do not count as
// failures; they describe the request, not the upstream's health.
type BreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[any]
	name   string
}

// NewBreakerClient wraps client with a circuit breaker.
func NewBreakerClient(client *Client, settings BreakerSettings) *BreakerClient {
	if settings.Name == "" {
		settings.Name = DefaultBreakerSettings().Name
	}
	name := settings.Name

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= settings.FailureRatio {
				logging.Warn().
					Str("breaker", name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio*100).
					Msg("opening circuit")
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
		IsSuccessful: isBreakerSuccess,
	})

	return &BreakerClient{client: client, cb: cb, name: name}
}

// State reports the breaker's current state.
func (b *BreakerClient) State() gobreaker.State {
	return b.cb.State()
}

// FetchChannel retrieves channel metadata with circuit breaker protection.
func (b *BreakerClient) FetchChannel(ctx context.Context, channelID string) (*Channel, error) {
	return castResult[Channel](b.execute(func() (any, error) {
		return b.client.FetchChannel(ctx, channelID)
	}))
}

// FetchRecentVideos retrieves recent uploads with circuit breaker protection.
func (b *BreakerClient) FetchRecentVideos(ctx context.Context, channelID string, limit int) ([]Video, error) {
	result, err := b.execute(func() (any, error) {
		return b.client.FetchRecentVideos(ctx, channelID, limit)
	})
	if err != nil {
		return nil, err
	}
	videos, ok := result.([]Video)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return videos, nil
}

// FetchTrendWindow retrieves the trend window with circuit breaker protection.
func (b *BreakerClient) FetchTrendWindow(ctx context.Context, channelID string, since time.Time, limit int) (*TrendWindow, error) {
	return castResult[TrendWindow](b.execute(func() (any, error) {
		return b.client.FetchTrendWindow(ctx, channelID, since, limit)
	}))
}

func (b *BreakerClient) execute(fn func() (any, error)) (any, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			logging.Warn().Str("breaker", b.name).Err(err).Msg("request rejected by circuit breaker")
			return nil, fmt.Errorf("YouTube API unavailable: %w", err)
		}
		return nil, err
	}
	return result, nil
}

func castResult[T any](result any, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func isBreakerSuccess(err error) bool {
	if err == nil || IsNotFound(err) || errors.Is(err, context.Canceled) {
		return true
	}
	status := StatusCode(err)
	return status >= 400 && status < 500 && status != http.StatusTooManyRequests
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
