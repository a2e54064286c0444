package aggregator

import (
	"math"
	"sort"

	"github.com/gauthierbraillon/tubelens/internal/youtube"
)

// EngagementScore weighs comments double: ((likes + 2*comments) / views) * 100.
// Videos without views score 0.
func EngagementScore(v youtube.Video) float64 {
	if v.ViewCount <= 0 {
		return 0
	}
	return float64(v.LikeCount+2*v.CommentCount) / float64(v.ViewCount) * 100
}

// ViewRatio is a video's views relative to the channel average, 0 when the
// average is 0.
func ViewRatio(v youtube.Video, avg float64) float64 {
	if avg <= 0 {
		return 0
	}
	return float64(v.ViewCount) / avg
}

// AverageViews is the arithmetic mean view count, 0 for no videos.
func AverageViews(videos []youtube.Video) float64 {
	if len(videos) == 0 {
		return 0
	}
	var total int64
	for _, v := range videos {
		total += v.ViewCount
	}
	return float64(total) / float64(len(videos))
}

func analyzeVideos(videos []youtube.Video, avg float64) []AnalyzedVideo {
	out := make([]AnalyzedVideo, 0, len(videos))
	for _, v := range videos {
		out = append(out, AnalyzedVideo{
			Video:           v,
			EngagementScore: EngagementScore(v),
			ViewRatio:       ViewRatio(v, avg),
		})
	}
	return out
}

// Numeric helpers shared by the insight builders.

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		ss += (x - m) * (x - m)
	}
	return math.Sqrt(ss / float64(len(xs)))
}

// percentile uses linear interpolation between closest ranks. p is in [0,1].
func percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// pearson returns the correlation coefficient of xs and ys, or 0 when it is
// undefined (fewer than two points or zero variance).
func pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return 0
	}
	mx, my := mean(xs), mean(ys)
	var cov, vx, vy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return 0
	}
	return cov / math.Sqrt(vx*vy)
}

// linearSlope is the least-squares slope of ys over xs, 0 when undefined.
func linearSlope(xs, ys []float64) float64 {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return 0
	}
	mx, my := mean(xs), mean(ys)
	var num, den float64
	for i := range xs {
		num += (xs[i] - mx) * (ys[i] - my)
		den += (xs[i] - mx) * (xs[i] - mx)
	}
	if den == 0 {
		return 0
	}
	return num / den
}

func ratio(num, den int64) float64 {
	if den <= 0 {
		return 0
	}
	return float64(num) / float64(den)
}
