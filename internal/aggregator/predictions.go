package aggregator

import (
	"sort"

	"github.com/gauthierbraillon/tubelens/internal/advice"
)

const (
	forecastSample      = 10
	lowSample           = 10
	growthBand          = 0.05 // share of mean views per window
	viralDependenceRate = 0.5
)

// byNewest returns a copy of videos sorted newest first, ties by id.
func byNewest(videos []AnalyzedVideo) []AnalyzedVideo {
	sorted := make([]AnalyzedVideo, len(videos))
	copy(sorted, videos)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].PublishedAt.Equal(sorted[j].PublishedAt) {
			return sorted[i].PublishedAt.After(sorted[j].PublishedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

func forecastNextVideo(videos []AnalyzedVideo) ViewForecast {
	recent := byNewest(videos)
	if len(recent) > forecastSample {
		recent = recent[:forecastSample]
	}
	views := make([]float64, 0, len(recent))
	for _, v := range recent {
		views = append(views, float64(v.ViewCount))
	}
	return ViewForecast{
		SampleSize: len(views),
		Low:        percentile(views, 0.25),
		Expected:   mean(views),
		High:       percentile(views, 0.75),
	}
}

func optimalStrategy(in Insights) Strategy {
	strategy := Strategy{TitleFeatures: []string{}}
	if len(in.OptimalTiming.Slots) > 0 {
		best := in.OptimalTiming.Slots[0]
		strategy.BestSlot = &best
	}
	if in.ViralFactors.OptimalLength != nil {
		d := *in.ViralFactors.OptimalLength
		strategy.Duration = &d
	}
	for _, f := range in.TitlePatterns.Features {
		if f.WithCount > 0 && f.WithoutCount > 0 && f.Lift >= minLift {
			strategy.TitleFeatures = append(strategy.TitleFeatures, f.Feature)
		}
	}
	return strategy
}

// projectGrowth fits views against publish day and extrapolates one window
// past the newest upload.
func projectGrowth(videos []AnalyzedVideo, windowDays int) GrowthProjection {
	g := GrowthProjection{Trend: TrendStable}
	videos = datedVideos(videos)
	if len(videos) == 0 {
		g.Summary = advice.GrowthSummary(g.Trend, 0)
		return g
	}

	anchor := newestPublish(videos)
	days := make([]float64, 0, len(videos))
	views := make([]float64, 0, len(videos))
	for _, v := range videos {
		days = append(days, v.PublishedAt.Sub(anchor).Hours()/24)
		views = append(views, float64(v.ViewCount))
	}

	g.SlopePerDay = linearSlope(days, views)
	avg := mean(views)
	intercept := avg - g.SlopePerDay*mean(days)
	g.ProjectedViews = max(0, intercept+g.SlopePerDay*float64(windowDays))

	perWindow := g.SlopePerDay * float64(windowDays)
	switch {
	case avg > 0 && perWindow > growthBand*avg:
		g.Trend = TrendGrowing
	case avg > 0 && perWindow < -growthBand*avg:
		g.Trend = TrendDeclining
	}
	g.Summary = advice.GrowthSummary(g.Trend, g.ProjectedViews)
	return g
}

// uploadGaps returns the hours between consecutive uploads.
func uploadGaps(videos []AnalyzedVideo) []float64 {
	sorted := byNewest(datedVideos(videos))
	gaps := make([]float64, 0, len(sorted))
	for i := 1; i < len(sorted); i++ {
		gaps = append(gaps, sorted[i-1].PublishedAt.Sub(sorted[i].PublishedAt).Hours())
	}
	return gaps
}

func identifyRisks(videos []AnalyzedVideo, in Insights, growth GrowthProjection, windowDays int) []Risk {
	risks := []Risk{}
	add := func(code, severity string, value float64) {
		risks = append(risks, Risk{Code: code, Severity: severity, Message: advice.RiskMessage(code, value)})
	}

	if len(videos) < lowSample {
		add(RiskLowSample, PriorityMedium, float64(len(videos)))
	}

	if growth.Trend == TrendDeclining {
		add(RiskDecliningViews, PriorityHigh, growth.SlopePerDay*float64(windowDays))
	}

	if windows := in.AlgorithmShifts.Windows; len(windows) >= 2 {
		latest := windows[len(windows)-1].Start
		for _, c := range in.AlgorithmShifts.Changes {
			if c.Metric == "engagement" && c.Delta < 0 && c.WindowStart.Equal(latest) {
				add(RiskEngagementDrop, PriorityHigh, c.Delta)
				break
			}
		}
	}

	var total, viral int64
	viralIDs := make(map[string]struct{}, len(in.ViralFactors.VideoIDs))
	for _, id := range in.ViralFactors.VideoIDs {
		viralIDs[id] = struct{}{}
	}
	for _, v := range videos {
		total += v.ViewCount
		if _, ok := viralIDs[v.ID]; ok {
			viral += v.ViewCount
		}
	}
	if share := ratio(viral, total); share > viralDependenceRate {
		add(RiskViralDependence, PriorityMedium, share)
	}

	if gaps := uploadGaps(videos); len(gaps) >= 2 && stddev(gaps) > mean(gaps) {
		add(RiskIrregularSchedule, PriorityLow, stddev(gaps))
	}

	return risks
}

func predict(videos []AnalyzedVideo, in Insights, opts Options) Predictions {
	growth := projectGrowth(videos, opts.WindowDays)
	return Predictions{
		NextVideoViews:   forecastNextVideo(videos),
		OptimalStrategy:  optimalStrategy(in),
		GrowthProjection: growth,
		RiskFactors:      identifyRisks(videos, in, growth, opts.WindowDays),
	}
}
