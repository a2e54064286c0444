package aggregator

import (
	"math"
	"sort"
	"time"

	"github.com/gauthierbraillon/tubelens/internal/advice"
	"github.com/gauthierbraillon/tubelens/internal/youtube"
)

// datedVideos returns the videos that carry a publish time. Timing, windows
// and growth are computed over this subset only.
func datedVideos(videos []AnalyzedVideo) []AnalyzedVideo {
	out := make([]AnalyzedVideo, 0, len(videos))
	for _, v := range videos {
		if !v.PublishedAt.IsZero() {
			out = append(out, v)
		}
	}
	return out
}

// newestPublish is the anchor for all trailing windows. Anchoring on the
// data instead of the wall clock keeps reports reproducible.
func newestPublish(videos []AnalyzedVideo) time.Time {
	var newest time.Time
	for _, v := range videos {
		if v.PublishedAt.After(newest) {
			newest = v.PublishedAt
		}
	}
	return newest
}

// windowStats splits videos into consecutive windowDays-long windows ending
// at anchor and summarises every non-empty one, oldest first.
func windowStats(videos []AnalyzedVideo, anchor time.Time, windowDays int, subscribers int64) []WindowStats {
	span := time.Duration(windowDays) * 24 * time.Hour
	groups := make(map[int][]AnalyzedVideo)
	for _, v := range videos {
		idx := int(anchor.Sub(v.PublishedAt) / span)
		if idx < 0 {
			idx = 0
		}
		groups[idx] = append(groups[idx], v)
	}

	indexes := make([]int, 0, len(groups))
	for idx := range groups {
		indexes = append(indexes, idx)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(indexes)))

	stats := make([]WindowStats, 0, len(indexes))
	for _, idx := range indexes {
		group := groups[idx]
		views := make([]float64, 0, len(group))
		scores := make([]float64, 0, len(group))
		for _, v := range group {
			views = append(views, float64(v.ViewCount))
			scores = append(scores, v.EngagementScore)
		}

		ws := WindowStats{
			Start:         anchor.Add(-time.Duration(idx+1) * span),
			End:           anchor.Add(-time.Duration(idx) * span),
			VideoCount:    len(group),
			AvgViews:      mean(views),
			AvgEngagement: mean(scores),
		}
		if subscribers > 0 {
			ws.ReachEfficiency = ws.AvgViews / float64(subscribers)
		}
		stats = append(stats, ws)
	}
	return stats
}

// significantChanges compares each window with the one before it. A move
// counts when its relative size exceeds threshold; a zero baseline is
// skipped since no relative change exists.
func significantChanges(windows []WindowStats, threshold float64) []ShiftChange {
	changes := []ShiftChange{}
	for i := 1; i < len(windows); i++ {
		prev, cur := windows[i-1], windows[i]
		metrics := []struct {
			name      string
			prev, cur float64
		}{
			{"views", prev.AvgViews, cur.AvgViews},
			{"engagement", prev.AvgEngagement, cur.AvgEngagement},
		}
		for _, m := range metrics {
			if m.prev == 0 {
				continue
			}
			delta := (m.cur - m.prev) / m.prev
			if math.Abs(delta) > threshold {
				changes = append(changes, ShiftChange{
					Metric:      m.name,
					WindowStart: cur.Start,
					Previous:    m.prev,
					Current:     m.cur,
					Delta:       delta,
				})
			}
		}
	}
	return changes
}

func analyzeAlgorithmShifts(channel youtube.Channel, videos []AnalyzedVideo, opts Options) AlgorithmShifts {
	shifts := AlgorithmShifts{
		Windows:         []WindowStats{},
		Changes:         []ShiftChange{},
		Recommendations: []string{},
	}
	videos = datedVideos(videos)
	if len(videos) == 0 {
		return shifts
	}

	subscribers := channel.SubscriberCount
	if channel.HiddenSubscriberCount {
		subscribers = 0
	}

	shifts.Windows = windowStats(videos, newestPublish(videos), opts.WindowDays, subscribers)
	shifts.Changes = significantChanges(shifts.Windows, opts.ShiftThreshold)
	for _, c := range shifts.Changes {
		shifts.Recommendations = append(shifts.Recommendations, advice.ShiftAdaptation(c.Metric, c.Delta))
	}
	return shifts
}
