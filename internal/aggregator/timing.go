package aggregator

import (
	"sort"
	"time"

	"github.com/gauthierbraillon/tubelens/internal/advice"
)

type slotKey struct {
	weekday time.Weekday
	hour    int
}

// rankTimeBuckets groups videos by publish weekday and hour in loc and
// orders the buckets by average views, then average engagement, then
// weekday and hour. The order is total, so equal inputs rank identically.
func rankTimeBuckets(videos []AnalyzedVideo, loc *time.Location) []TimeBucket {
	buckets := make(map[slotKey]*TimeBucket)
	for _, v := range datedVideos(videos) {
		local := v.PublishedAt.In(loc)
		key := slotKey{weekday: local.Weekday(), hour: local.Hour()}
		b, ok := buckets[key]
		if !ok {
			b = &TimeBucket{Weekday: key.weekday, Hour: key.hour}
			buckets[key] = b
		}
		b.VideoCount++
		b.TotalViews += v.ViewCount
		b.TotalEngagement += v.EngagementScore
	}

	ranked := make([]TimeBucket, 0, len(buckets))
	for _, b := range buckets {
		b.AvgViews = float64(b.TotalViews) / float64(b.VideoCount)
		b.AvgEngagement = b.TotalEngagement / float64(b.VideoCount)
		ranked = append(ranked, *b)
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.AvgViews != b.AvgViews {
			return a.AvgViews > b.AvgViews
		}
		if a.AvgEngagement != b.AvgEngagement {
			return a.AvgEngagement > b.AvgEngagement
		}
		if a.Weekday != b.Weekday {
			return a.Weekday < b.Weekday
		}
		return a.Hour < b.Hour
	})
	return ranked
}

func analyzeTiming(videos []AnalyzedVideo, opts Options) OptimalTiming {
	ranked := rankTimeBuckets(videos, opts.Location)
	if len(ranked) > opts.TopSlots {
		ranked = ranked[:opts.TopSlots]
	}

	timing := OptimalTiming{Slots: ranked}
	if len(ranked) > 0 {
		best := ranked[0]
		timing.Recommendation = advice.TimingRecommendation(best.Weekday, best.Hour, best.AvgViews)
	}
	return timing
}
