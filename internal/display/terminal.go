// Package display provides terminal output formatting for tubelens.
package display

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gauthierbraillon/tubelens/internal/advice"
	"github.com/gauthierbraillon/tubelens/internal/aggregator"
)

const (
	separator   = " • "
	titleWidth  = 60
	topVideos   = 5
	sectionRule = "────────────────────────────────────────"
)

// TerminalFormatter formats analysis reports for terminal display.
type TerminalFormatter struct{}

// NewTerminalFormatter creates a new terminal formatter.
func NewTerminalFormatter() *TerminalFormatter {
	return &TerminalFormatter{}
}

// FormatReport renders a full report.
func (f *TerminalFormatter) FormatReport(r *aggregator.Report) string {
	if r == nil {
		return "No report to display.\n"
	}

	sections := []string{
		f.formatHeader(r),
		f.formatTopVideos(r),
		f.formatInsights(r.Insights),
		f.formatPredictions(r.Predictions),
		f.formatOptimizations(r.Optimizations),
	}

	var out []string
	for _, s := range sections {
		if s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "\n"+sectionRule+"\n\n")
}

func (f *TerminalFormatter) formatHeader(r *aggregator.Report) string {
	var lines []string

	c := r.Channel
	lines = append(lines, fmt.Sprintf("[YOUTUBE] %s", c.Title))

	var stats []string
	if !c.HiddenSubscriberCount {
		stats = append(stats, fmt.Sprintf("%s subscribers", advice.CompactCount(float64(c.SubscriberCount))))
	}
	stats = append(stats,
		fmt.Sprintf("%s views", advice.CompactCount(float64(c.ViewCount))),
		fmt.Sprintf("%d videos", c.VideoCount),
	)
	lines = append(lines, "  "+strings.Join(stats, separator))
	lines = append(lines, fmt.Sprintf("  %d videos analyzed%saverage %s views%sconfidence %d/100",
		len(r.Videos), separator, advice.CompactCount(r.AverageViews), separator, r.Insights.Confidence))
	lines = append(lines, fmt.Sprintf("  generated %s", r.GeneratedAt.Format(time.RFC3339)))

	return strings.Join(lines, "\n") + "\n"
}

func (f *TerminalFormatter) formatTopVideos(r *aggregator.Report) string {
	if len(r.Videos) == 0 {
		return "No videos to analyze.\n"
	}

	ranked := make([]aggregator.AnalyzedVideo, len(r.Videos))
	copy(ranked, r.Videos)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ViewRatio > ranked[j].ViewRatio
	})
	if len(ranked) > topVideos {
		ranked = ranked[:topVideos]
	}

	lines := []string{"Top videos"}
	for _, v := range ranked {
		lines = append(lines, "  "+f.FormatVideo(v))
	}
	return strings.Join(lines, "\n") + "\n"
}

// FormatVideo formats a single analyzed video on one line plus its URL.
func (f *TerminalFormatter) FormatVideo(v aggregator.AnalyzedVideo) string {
	parts := []string{
		f.TruncateText(v.Title, titleWidth),
		fmt.Sprintf("%s views", advice.CompactCount(float64(v.ViewCount))),
		fmt.Sprintf("%.1fx avg", v.ViewRatio),
		fmt.Sprintf("engagement %.2f", v.EngagementScore),
		f.FormatTimestamp(v.PublishedAt),
	}
	line := strings.Join(parts, separator)
	if v.URL != "" {
		line += "\n    " + v.URL
	}
	return line
}

func (f *TerminalFormatter) formatInsights(in aggregator.Insights) string {
	var lines []string
	lines = append(lines, "Insights")

	vf := in.ViralFactors
	if len(vf.VideoIDs) > 0 {
		lines = append(lines, fmt.Sprintf("  Viral videos: %d above %s views", len(vf.VideoIDs), advice.CompactCount(vf.Threshold)))
		if len(vf.CommonTitleWords) > 0 {
			words := make([]string, 0, len(vf.CommonTitleWords))
			for _, w := range vf.CommonTitleWords {
				words = append(words, fmt.Sprintf("%s (%d)", w.Word, w.Count))
			}
			lines = append(lines, "    common words: "+strings.Join(words, ", "))
		}
	} else {
		lines = append(lines, "  Viral videos: none")
	}

	if len(in.OptimalTiming.Slots) > 0 {
		slots := make([]string, 0, len(in.OptimalTiming.Slots))
		for _, s := range in.OptimalTiming.Slots {
			slots = append(slots, fmt.Sprintf("%s (%s)", advice.SlotLabel(s.Weekday, s.Hour), advice.CompactCount(s.AvgViews)))
		}
		lines = append(lines, "  Best slots: "+strings.Join(slots, ", "))
	}

	d := in.EngagementDrivers
	if d.SampleSize > 0 {
		lines = append(lines, fmt.Sprintf("  Engagement: %.2f%% likes%s%.2f%% comments%sduration correlation %.2f",
			d.LikeToViewRatio*100, separator, d.CommentToViewRatio*100, separator, d.DurationEngagementCorrelation))
	}

	for _, c := range in.AlgorithmShifts.Changes {
		lines = append(lines, fmt.Sprintf("  Shift: %s %+.0f%% in window from %s", c.Metric, c.Delta*100, c.WindowStart.Format("Jan 2, 2006")))
	}

	for _, p := range in.TitlePatterns.BestPractices {
		lines = append(lines, "  Title: "+p)
	}

	for _, rec := range in.Recommendations {
		lines = append(lines, fmt.Sprintf("  [%s] %s", strings.ToUpper(rec.Priority), rec.Message))
	}

	return strings.Join(lines, "\n") + "\n"
}

func (f *TerminalFormatter) formatPredictions(p aggregator.Predictions) string {
	var lines []string
	lines = append(lines, "Predictions")

	nv := p.NextVideoViews
	if nv.SampleSize > 0 {
		lines = append(lines, fmt.Sprintf("  Next video: %s views (range %s to %s, from %d videos)",
			advice.CompactCount(nv.Expected), advice.CompactCount(nv.Low), advice.CompactCount(nv.High), nv.SampleSize))
	}
	if p.GrowthProjection.Summary != "" {
		lines = append(lines, "  Growth: "+p.GrowthProjection.Summary)
	}
	for _, r := range p.RiskFactors {
		lines = append(lines, fmt.Sprintf("  Risk (%s): %s", r.Severity, r.Message))
	}

	return strings.Join(lines, "\n") + "\n"
}

func (f *TerminalFormatter) formatOptimizations(opts []aggregator.Optimization) string {
	if len(opts) == 0 {
		return ""
	}

	lines := []string{"Optimizations"}
	for _, o := range opts {
		lines = append(lines, fmt.Sprintf("  [%s/%s] %s", o.Area, o.Priority, o.Suggestion))
	}
	return strings.Join(lines, "\n") + "\n"
}

// FormatTimestamp formats a timestamp as relative time.
func (f *TerminalFormatter) FormatTimestamp(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return pluralize(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return pluralize(int(diff.Hours()), "hour")
	case diff < 7*24*time.Hour:
		return pluralize(int(diff.Hours()/24), "day")
	default:
		return t.Format("Jan 2, 2006")
	}
}

// pluralize returns "N unit ago" or "N units ago" based on count.
func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// TruncateText truncates text to maxLen runes, adding "..." if truncated.
func (f *TerminalFormatter) TruncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(runes[:maxLen-3]) + "..."
}
