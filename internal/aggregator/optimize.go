package aggregator

import (
	"github.com/gauthierbraillon/tubelens/internal/advice"
	"github.com/gauthierbraillon/tubelens/internal/youtube"
)

const trendWords = 5

// trendVocabulary returns the words shared by the most titles in the trend
// window.
func trendVocabulary(window youtube.TrendWindow) []string {
	titles := make([]string, 0, len(window.Videos))
	for _, v := range window.Videos {
		titles = append(titles, v.Title)
	}
	counts := commonTitleWords(titles, trendWords)
	words := make([]string, 0, len(counts))
	for _, wc := range counts {
		words = append(words, wc.Word)
	}
	return words
}

func optimizations(in Insights, trend youtube.TrendWindow) []Optimization {
	opts := []Optimization{}

	if words := trendVocabulary(trend); len(words) > 0 {
		opts = append(opts, Optimization{
			Area:       AreaContent,
			Priority:   PriorityMedium,
			Suggestion: advice.TrendVocabulary(words),
		})
	}

	for i, rec := range in.AlgorithmShifts.Recommendations {
		priority := PriorityMedium
		if in.AlgorithmShifts.Changes[i].Delta < 0 {
			priority = PriorityHigh
		}
		opts = append(opts, Optimization{Area: AreaStrategy, Priority: priority, Suggestion: rec})
	}

	for _, practice := range in.TitlePatterns.BestPractices {
		opts = append(opts, Optimization{Area: AreaTitles, Priority: PriorityMedium, Suggestion: practice})
	}

	for _, rec := range in.Recommendations {
		area := AreaTiming
		if rec.Type == "duration" {
			area = AreaDuration
		}
		opts = append(opts, Optimization{Area: area, Priority: rec.Priority, Suggestion: rec.Message})
	}

	return opts
}
