package aggregator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gauthierbraillon/tubelens/internal/logging"
	"github.com/gauthierbraillon/tubelens/internal/metrics"
	"github.com/gauthierbraillon/tubelens/internal/youtube"
)

const (
	defaultMaxVideos   = 50
	defaultTrendVideos = 25
)

var channelIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{2,64}$`)

// ValidChannelID reports whether id looks like a YouTube channel id.
func ValidChannelID(id string) bool {
	return channelIDPattern.MatchString(id)
}

// Source fetches the raw channel data. *youtube.Client and
// *youtube.BreakerClient both satisfy it.
type Source interface {
	FetchChannel(ctx context.Context, channelID string) (*youtube.Channel, error)
	FetchRecentVideos(ctx context.Context, channelID string, limit int) ([]youtube.Video, error)
	FetchTrendWindow(ctx context.Context, channelID string, since time.Time, limit int) (*youtube.TrendWindow, error)
}

// Option configures the Aggregator.
type Option func(*Aggregator)

// WithMaxVideos caps how many recent uploads are analyzed.
func WithMaxVideos(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.maxVideos = n
		}
	}
}

// WithTrendVideos caps how many trend window hits are fetched.
func WithTrendVideos(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.trendVideos = n
		}
	}
}

// WithOptions sets the report computation options.
func WithOptions(opts Options) Option {
	return func(a *Aggregator) {
		a.opts = opts.normalized()
	}
}

// WithClock replaces time.Now (useful for testing).
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// Aggregator fetches a channel snapshot and builds its report. It holds no
// per-analysis state, so one instance can serve concurrent calls.
type Aggregator struct {
	source      Source
	maxVideos   int
	trendVideos int
	opts        Options
	now         func() time.Time
	logger      zerolog.Logger
}

// New creates a new Aggregator reading from source.
func New(source Source, opts ...Option) *Aggregator {
	a := &Aggregator{
		source:      source,
		maxVideos:   defaultMaxVideos,
		trendVideos: defaultTrendVideos,
		opts:        DefaultOptions(),
		now:         time.Now,
		logger:      logging.WithComponent("aggregator"),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Analyze fetches the channel, its recent uploads and its trend window
// concurrently, then builds the report. Any fetch failure aborts the whole
// analysis: there is no partial report.
func (a *Aggregator) Analyze(ctx context.Context, channelID string) (*Report, error) {
	start := time.Now()
	log := a.logger.With().Str("channel_id", channelID).Logger()
	if id := logging.RequestIDFromContext(ctx); id != "" {
		log = log.With().Str("request_id", id).Logger()
	}

	report, err := a.analyze(ctx, channelID)

	elapsed := time.Since(start)
	metrics.AnalysisDuration.Observe(elapsed.Seconds())
	metrics.Analyses.WithLabelValues(resultLabel(err)).Inc()

	if err != nil {
		log.Warn().Err(err).Dur("duration", elapsed).Msg("channel analysis failed")
		return nil, err
	}

	log.Info().
		Int("videos", len(report.Videos)).
		Int("confidence", report.Insights.Confidence).
		Dur("duration", elapsed).
		Msg("channel analysis complete")
	return report, nil
}

func (a *Aggregator) analyze(ctx context.Context, channelID string) (*Report, error) {
	if !ValidChannelID(channelID) {
		return nil, &NotFoundError{ChannelID: channelID, Err: errors.New("malformed channel id")}
	}

	a.logger.Debug().Str("channel_id", channelID).Msg("starting channel analysis")

	snapshot, err := a.fetchSnapshot(ctx, channelID)
	if err != nil {
		return nil, err
	}

	return Build(*snapshot, a.opts, a.now())
}

// fetchSnapshot runs the three fetches in parallel. The first failure
// cancels the others and is the only error returned.
func (a *Aggregator) fetchSnapshot(ctx context.Context, channelID string) (*Snapshot, error) {
	var (
		channel *youtube.Channel
		videos  []youtube.Video
		trend   *youtube.TrendWindow
	)
	since := a.now().AddDate(0, 0, -a.opts.WindowDays)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		c, err := a.source.FetchChannel(gctx, channelID)
		if err != nil {
			return classify("channel", channelID, err)
		}
		if c == nil {
			return &NotFoundError{ChannelID: channelID, Err: youtube.ErrChannelNotFound}
		}
		channel = c
		return nil
	})

	g.Go(func() error {
		v, err := a.source.FetchRecentVideos(gctx, channelID, a.maxVideos)
		if err != nil {
			return classify("videos", channelID, err)
		}
		videos = v
		return nil
	})

	g.Go(func() error {
		t, err := a.source.FetchTrendWindow(gctx, channelID, since, a.trendVideos)
		if err != nil {
			return classify("trend window", channelID, err)
		}
		trend = t
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	snapshot := &Snapshot{Channel: *channel, Videos: videos}
	if trend != nil {
		snapshot.Trend = *trend
	}
	return snapshot, nil
}

// classify maps a source error onto the aggregator's error types. Only the
// channel lookup can report a missing channel; a 404 elsewhere is a fetch
// failure.
func classify(op, channelID string, err error) error {
	if op == "channel" && youtube.IsNotFound(err) {
		return &NotFoundError{ChannelID: channelID, Err: err}
	}
	return &FetchError{Op: op, StatusCode: youtube.StatusCode(err), Err: err}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrFetch):
		return "fetch_error"
	default:
		return "error"
	}
}

// Build computes a report from a snapshot. It is deterministic: the same
// snapshot and options yield the same report apart from GeneratedAt.
func Build(s Snapshot, opts Options, now time.Time) (*Report, error) {
	opts = opts.normalized()

	avg := AverageViews(s.Videos)
	videos := byNewest(analyzeVideos(s.Videos, avg))

	insights := Insights{
		ViralFactors:      analyzeViralFactors(videos, avg, opts),
		OptimalTiming:     analyzeTiming(videos, opts),
		TitlePatterns:     analyzeTitlePatterns(videos),
		EngagementDrivers: analyzeEngagementDrivers(s.Channel, videos),
		AlgorithmShifts:   analyzeAlgorithmShifts(s.Channel, videos, opts),
	}
	insights.Recommendations = insightRecommendations(insights)
	insights.Confidence = Confidence(nonEmptyCategories(insights))

	report := &Report{
		Channel:       s.Channel,
		Videos:        videos,
		AverageViews:  avg,
		Insights:      insights,
		Predictions:   predict(videos, insights, opts),
		Optimizations: optimizations(insights, s.Trend),
		GeneratedAt:   now.UTC(),
	}

	if err := checkFinite(report); err != nil {
		return nil, err
	}
	return report, nil
}

// checkFinite rejects reports carrying NaN or Inf in headline numbers.
// The metric code guards every division, so this only fires on a bug.
func checkFinite(r *Report) error {
	values := map[string]float64{
		"average views":        r.AverageViews,
		"expected views":       r.Predictions.NextVideoViews.Expected,
		"projected views":      r.Predictions.GrowthProjection.ProjectedViews,
		"like to view ratio":   r.Insights.EngagementDrivers.LikeToViewRatio,
		"duration correlation": r.Insights.EngagementDrivers.DurationEngagementCorrelation,
	}
	for name, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &ComputationError{Op: name, Err: fmt.Errorf("non-finite value %v", v)}
		}
	}
	return nil
}
