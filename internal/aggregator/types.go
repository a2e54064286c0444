// Package aggregator turns a channel snapshot into an analytics report.
//
// This package enables tubelens to:
// - Fetch a channel, its recent uploads and its trend window concurrently
// - Derive per-video engagement metrics
// - Group videos into viral, timing, title, engagement and shift insights
// - Produce predictions and optimization suggestions from those insights
package aggregator

import (
	"time"

	"github.com/gauthierbraillon/tubelens/internal/youtube"
)

// Snapshot is everything a report is computed from.
type Snapshot struct {
	Channel youtube.Channel     `json:"channel"`
	Videos  []youtube.Video     `json:"videos"`
	Trend   youtube.TrendWindow `json:"trend"`
}

// Options tunes report computation.
type Options struct {
	ViralMultiplier float64
	WindowDays      int
	ShiftThreshold  float64
	TopSlots        int
	TopWords        int
	Location        *time.Location
}

// DefaultOptions returns the stock analysis settings.
func DefaultOptions() Options {
	return Options{
		ViralMultiplier: 3,
		WindowDays:      30,
		ShiftThreshold:  0.25,
		TopSlots:        5,
		TopWords:        10,
		Location:        time.UTC,
	}
}

// normalized fills zero values with defaults.
func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.ViralMultiplier <= 0 {
		o.ViralMultiplier = d.ViralMultiplier
	}
	if o.WindowDays <= 0 {
		o.WindowDays = d.WindowDays
	}
	if o.ShiftThreshold <= 0 {
		o.ShiftThreshold = d.ShiftThreshold
	}
	if o.TopSlots <= 0 {
		o.TopSlots = d.TopSlots
	}
	if o.TopWords <= 0 {
		o.TopWords = d.TopWords
	}
	if o.Location == nil {
		o.Location = d.Location
	}
	return o
}

// AnalyzedVideo is a video with its derived metrics.
type AnalyzedVideo struct {
	youtube.Video
	EngagementScore float64 `json:"engagement_score"`
	ViewRatio       float64 `json:"view_ratio"`
}

// Report is the immutable result of one analysis.
type Report struct {
	Channel       youtube.Channel `json:"channel"`
	Videos        []AnalyzedVideo `json:"videos"`
	AverageViews  float64         `json:"average_views"`
	Insights      Insights        `json:"insights"`
	Predictions   Predictions     `json:"predictions"`
	Optimizations []Optimization  `json:"optimizations"`
	GeneratedAt   time.Time       `json:"generated_at"`
}

// Insights groups the five analysis categories.
type Insights struct {
	ViralFactors      ViralFactors      `json:"viral_factors"`
	OptimalTiming     OptimalTiming     `json:"optimal_timing"`
	TitlePatterns     TitlePatterns     `json:"title_patterns"`
	EngagementDrivers EngagementDrivers `json:"engagement_drivers"`
	AlgorithmShifts   AlgorithmShifts   `json:"algorithm_shifts"`
	Recommendations   []Recommendation  `json:"recommendations"`
	// Confidence is a coarse 0-95 heuristic that only counts how many
	// categories produced a result. It is not a statistical estimate.
	Confidence int `json:"confidence"`
}

// WordCount is a title token and the number of titles containing it.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// DurationRange is the interquartile spread of video lengths, in minutes.
type DurationRange struct {
	MinMinutes    float64 `json:"min_minutes"`
	MaxMinutes    float64 `json:"max_minutes"`
	MedianMinutes float64 `json:"median_minutes"`
}

// PublishingPatterns counts uploads per weekday (Sunday first) and hour.
type PublishingPatterns struct {
	ByWeekday [7]int  `json:"by_weekday"`
	ByHour    [24]int `json:"by_hour"`
}

// EngagementRatios are aggregate interaction ratios over a set of videos.
type EngagementRatios struct {
	LikeToView    float64 `json:"like_to_view"`
	CommentToView float64 `json:"comment_to_view"`
	MeanScore     float64 `json:"mean_score"`
}

// ViralFactors describes what the channel's outliers have in common.
type ViralFactors struct {
	Threshold          float64            `json:"threshold"`
	VideoIDs           []string           `json:"video_ids"`
	CommonTitleWords   []WordCount        `json:"common_title_words"`
	OptimalLength      *DurationRange     `json:"optimal_length,omitempty"`
	PublishingPatterns PublishingPatterns `json:"publishing_patterns"`
	EngagementRatios   EngagementRatios   `json:"engagement_ratios"`
}

// TimeBucket aggregates the videos published in one weekday/hour slot.
type TimeBucket struct {
	Weekday         time.Weekday `json:"weekday"`
	Hour            int          `json:"hour"`
	VideoCount      int          `json:"video_count"`
	TotalViews      int64        `json:"total_views"`
	TotalEngagement float64      `json:"total_engagement"`
	AvgViews        float64      `json:"avg_views"`
	AvgEngagement   float64      `json:"avg_engagement"`
}

// OptimalTiming ranks publishing slots by average views.
type OptimalTiming struct {
	Slots          []TimeBucket `json:"slots"`
	Recommendation string       `json:"recommendation,omitempty"`
}

// Title feature names.
const (
	FeatureNumber      = "number"
	FeatureQuestion    = "question"
	FeatureExclamation = "exclamation"
	FeatureAllCaps     = "all_caps"
	FeatureEmotional   = "emotional"
)

// FeatureEffect compares videos whose titles have a feature to those
// whose titles do not.
type FeatureEffect struct {
	Feature         string  `json:"feature"`
	WithCount       int     `json:"with_count"`
	WithoutCount    int     `json:"without_count"`
	WithAvgViews    float64 `json:"with_avg_views"`
	WithoutAvgViews float64 `json:"without_avg_views"`
	Lift            float64 `json:"lift"`
}

// LengthBucket holds mean views for one title-length band.
type LengthBucket struct {
	Band     string  `json:"band"`
	Count    int     `json:"count"`
	AvgViews float64 `json:"avg_views"`
}

// TitlePatterns summarises how title choices relate to views.
type TitlePatterns struct {
	Features      []FeatureEffect `json:"features"`
	LengthImpact  []LengthBucket  `json:"length_impact"`
	BestPractices []string        `json:"best_practices"`
}

// EngagementDrivers are channel-wide interaction statistics.
type EngagementDrivers struct {
	SampleSize                    int     `json:"sample_size"`
	LikeToViewRatio               float64 `json:"like_to_view_ratio"`
	CommentToViewRatio            float64 `json:"comment_to_view_ratio"`
	DurationEngagementCorrelation float64 `json:"duration_engagement_correlation"`
	SubscriberConversion          float64 `json:"subscriber_conversion"`
}

// WindowStats summarises one trailing window of uploads.
type WindowStats struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	VideoCount      int       `json:"video_count"`
	AvgViews        float64   `json:"avg_views"`
	AvgEngagement   float64   `json:"avg_engagement"`
	ReachEfficiency float64   `json:"reach_efficiency"`
}

// ShiftChange is a significant window-over-window move in one metric.
type ShiftChange struct {
	Metric      string    `json:"metric"`
	WindowStart time.Time `json:"window_start"`
	Previous    float64   `json:"previous"`
	Current     float64   `json:"current"`
	Delta       float64   `json:"delta"`
}

// AlgorithmShifts tracks performance drift across trailing windows.
// Windows are ordered oldest first.
type AlgorithmShifts struct {
	Windows         []WindowStats `json:"windows"`
	Changes         []ShiftChange `json:"changes"`
	Recommendations []string      `json:"recommendations"`
}

// Priority levels for recommendations and optimizations.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Recommendation is an actionable insight.
type Recommendation struct {
	Type     string `json:"type"`
	Priority string `json:"priority"`
	Message  string `json:"message"`
}

// ViewForecast brackets the expected views of the next upload.
type ViewForecast struct {
	SampleSize int     `json:"sample_size"`
	Low        float64 `json:"low"`
	Expected   float64 `json:"expected"`
	High       float64 `json:"high"`
}

// Strategy is the combination of choices the insights favour.
type Strategy struct {
	BestSlot      *TimeBucket    `json:"best_slot,omitempty"`
	Duration      *DurationRange `json:"duration,omitempty"`
	TitleFeatures []string       `json:"title_features"`
}

// Growth trend labels.
const (
	TrendGrowing   = "growing"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// GrowthProjection extrapolates per-video views one window ahead.
type GrowthProjection struct {
	SlopePerDay    float64 `json:"slope_per_day"`
	ProjectedViews float64 `json:"projected_views"`
	Trend          string  `json:"trend"`
	Summary        string  `json:"summary"`
}

// Risk codes.
const (
	RiskLowSample         = "low_sample"
	RiskDecliningViews    = "declining_views"
	RiskEngagementDrop    = "engagement_drop"
	RiskViralDependence   = "viral_dependence"
	RiskIrregularSchedule = "irregular_schedule"
)

// Risk is a condition that makes the predictions less reliable or signals
// trouble for the channel.
type Risk struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Predictions are forward-looking estimates derived from the insights.
type Predictions struct {
	NextVideoViews   ViewForecast     `json:"next_video_views"`
	OptimalStrategy  Strategy         `json:"optimal_strategy"`
	GrowthProjection GrowthProjection `json:"growth_projection"`
	RiskFactors      []Risk           `json:"risk_factors"`
}

// Optimization areas.
const (
	AreaContent  = "content"
	AreaTiming   = "timing"
	AreaTitles   = "titles"
	AreaDuration = "duration"
	AreaStrategy = "strategy"
)

// Optimization is a concrete change the channel could make.
type Optimization struct {
	Area       string `json:"area"`
	Priority   string `json:"priority"`
	Suggestion string `json:"suggestion"`
}
