// Package advice turns computed channel statistics into human-readable
// recommendations. Every function is pure: values in, sentence out.
package advice

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// WeekdayName returns the English name of a weekday.
func WeekdayName(d time.Weekday) string {
	return d.String()
}

// SlotLabel renders a publishing slot as "Tuesday 14:00".
func SlotLabel(d time.Weekday, hour int) string {
	return fmt.Sprintf("%s %02d:00", WeekdayName(d), hour)
}

// CompactCount abbreviates large counts: 950, 1.2K, 3.4M, 1.1B.
func CompactCount(n float64) string {
	abs := math.Abs(n)
	switch {
	case abs >= 1e9:
		return trimZero(fmt.Sprintf("%.1f", n/1e9)) + "B"
	case abs >= 1e6:
		return trimZero(fmt.Sprintf("%.1f", n/1e6)) + "M"
	case abs >= 1e3:
		return trimZero(fmt.Sprintf("%.1f", n/1e3)) + "K"
	default:
		return fmt.Sprintf("%.0f", n)
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}

// Minutes renders a duration in minutes as "8m30s"-style text.
func Minutes(m float64) string {
	s := time.Duration(m * float64(time.Minute)).Round(time.Second).String()
	if strings.HasSuffix(s, "m0s") {
		s = strings.TrimSuffix(s, "0s")
	}
	return s
}

// DurationRecommendation suggests a target length from the viral videos'
// duration spread.
func DurationRecommendation(minMinutes, maxMinutes, medianMinutes float64) string {
	return fmt.Sprintf("Aim for videos between %s and %s long; your breakout videos cluster around %s.",
		Minutes(minMinutes), Minutes(maxMinutes), Minutes(medianMinutes))
}

// TimingRecommendation names the best publishing slot.
func TimingRecommendation(d time.Weekday, hour int, avgViews float64) string {
	return fmt.Sprintf("Publish on %s: uploads in this slot average %s views.",
		SlotLabel(d, hour), CompactCount(avgViews))
}

var featurePhrases = map[string]string{
	"number":      "include a number",
	"question":    "ask a question",
	"exclamation": "end with an exclamation mark",
	"all_caps":    "emphasise one word in capitals",
	"emotional":   "use an emotionally charged word",
}

// FeaturePhrase describes a title feature as an imperative fragment.
func FeaturePhrase(feature string) string {
	if p, ok := featurePhrases[feature]; ok {
		return p
	}
	return "use " + strings.ReplaceAll(feature, "_", " ")
}

// TitlePractice recommends a title feature that lifts views.
func TitlePractice(feature string, lift float64) string {
	phrase := FeaturePhrase(feature)
	return fmt.Sprintf("Titles that %s get %s more views on average.",
		phrase, percent(lift))
}

// LengthPractice recommends a title length band.
func LengthPractice(band string, avgViews float64) string {
	return fmt.Sprintf("%s titles perform best here, averaging %s views.",
		capitalize(band), CompactCount(avgViews))
}

// ShiftAdaptation reacts to a window-over-window change in a metric.
func ShiftAdaptation(metric string, delta float64) string {
	switch {
	case metric == "views" && delta < 0:
		return fmt.Sprintf("Average views fell %s versus the previous window; revisit topics and thumbnails that worked before the drop.", percent(-delta))
	case metric == "views":
		return fmt.Sprintf("Average views rose %s versus the previous window; double down on the formats published in this window.", percent(delta))
	case metric == "engagement" && delta < 0:
		return fmt.Sprintf("Engagement fell %s versus the previous window; add clearer calls to comment and like.", percent(-delta))
	default:
		return fmt.Sprintf("Engagement rose %s versus the previous window; keep the interaction prompts you are using now.", percent(delta))
	}
}

// RiskMessage explains a risk factor. value carries the measurement that
// triggered it (sample size, ratio or slope) and is formatted per code.
func RiskMessage(code string, value float64) string {
	switch code {
	case "low_sample":
		return fmt.Sprintf("Only %.0f videos were analyzed; treat these predictions as rough.", value)
	case "declining_views":
		return fmt.Sprintf("Views per video are trending down by about %s per window.", CompactCount(-value))
	case "engagement_drop":
		return fmt.Sprintf("Engagement dropped %s in the latest window.", percent(-value))
	case "viral_dependence":
		return fmt.Sprintf("%s of all views come from a handful of viral videos.", percent(value))
	case "irregular_schedule":
		return "Upload gaps vary more than their average length; a steadier schedule helps the algorithm."
	default:
		return strings.ReplaceAll(code, "_", " ")
	}
}

// TrendVocabulary suggests reusing words from recent top performers.
func TrendVocabulary(words []string) string {
	if len(words) == 0 {
		return ""
	}
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = fmt.Sprintf("%q", w)
	}
	return fmt.Sprintf("Recent top performers use %s in their titles; consider them for upcoming uploads.",
		strings.Join(quoted, ", "))
}

// GrowthSummary describes the projected per-video views trend.
func GrowthSummary(trend string, projected float64) string {
	return fmt.Sprintf("Views are %s; the next window projects about %s views per video.",
		trend, CompactCount(projected))
}

func percent(ratio float64) string {
	return fmt.Sprintf("%.0f%%", ratio*100)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
