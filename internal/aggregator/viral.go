package aggregator

import (
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "but": {},
	"by": {}, "do": {}, "for": {}, "from": {}, "has": {}, "have": {}, "how": {},
	"i": {}, "if": {}, "in": {}, "into": {}, "is": {}, "it": {}, "its": {}, "my": {},
	"no": {}, "not": {}, "of": {}, "on": {}, "or": {}, "so": {}, "that": {}, "the": {},
	"this": {}, "to": {}, "up": {}, "vs": {}, "was": {}, "we": {}, "what": {}, "when": {},
	"why": {}, "will": {}, "with": {}, "you": {}, "your": {},
}

// titleTokens lower-cases a title and splits it on anything that is not a
// letter or digit.
func titleTokens(title string) []string {
	return strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// commonTitleWords counts in how many titles each word appears, ignoring
// stop words and single characters, and returns the top n.
func commonTitleWords(titles []string, n int) []WordCount {
	counts := make(map[string]int)
	for _, title := range titles {
		seen := make(map[string]struct{})
		for _, tok := range titleTokens(title) {
			if utf8.RuneCountInString(tok) < 2 {
				continue
			}
			if _, stop := stopWords[tok]; stop {
				continue
			}
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			counts[tok]++
		}
	}

	words := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		words = append(words, WordCount{Word: w, Count: c})
	}
	sort.Slice(words, func(i, j int) bool {
		if words[i].Count != words[j].Count {
			return words[i].Count > words[j].Count
		}
		return words[i].Word < words[j].Word
	})
	if len(words) > n {
		words = words[:n]
	}
	return words
}

// durationRange returns the 25th/50th/75th percentile of positive
// durations in minutes, or nil when there are none.
func durationRange(durations []time.Duration) *DurationRange {
	minutes := make([]float64, 0, len(durations))
	for _, d := range durations {
		if d > 0 {
			minutes = append(minutes, d.Minutes())
		}
	}
	if len(minutes) == 0 {
		return nil
	}
	return &DurationRange{
		MinMinutes:    percentile(minutes, 0.25),
		MaxMinutes:    percentile(minutes, 0.75),
		MedianMinutes: percentile(minutes, 0.5),
	}
}

func engagementRatios(videos []AnalyzedVideo) EngagementRatios {
	var views, likes, comments int64
	scores := make([]float64, 0, len(videos))
	for _, v := range videos {
		views += v.ViewCount
		likes += v.LikeCount
		comments += v.CommentCount
		scores = append(scores, v.EngagementScore)
	}
	return EngagementRatios{
		LikeToView:    ratio(likes, views),
		CommentToView: ratio(comments, views),
		MeanScore:     mean(scores),
	}
}

// viralSubset returns the videos strictly above multiplier times the
// average, preserving order.
func viralSubset(videos []AnalyzedVideo, avg, multiplier float64) []AnalyzedVideo {
	threshold := avg * multiplier
	var out []AnalyzedVideo
	for _, v := range videos {
		if float64(v.ViewCount) > threshold {
			out = append(out, v)
		}
	}
	return out
}

func analyzeViralFactors(videos []AnalyzedVideo, avg float64, opts Options) ViralFactors {
	viral := viralSubset(videos, avg, opts.ViralMultiplier)

	factors := ViralFactors{
		Threshold:        avg * opts.ViralMultiplier,
		VideoIDs:         make([]string, 0, len(viral)),
		CommonTitleWords: []WordCount{},
	}
	if len(viral) == 0 {
		return factors
	}

	titles := make([]string, 0, len(viral))
	durations := make([]time.Duration, 0, len(viral))
	for _, v := range viral {
		factors.VideoIDs = append(factors.VideoIDs, v.ID)
		titles = append(titles, v.Title)
		durations = append(durations, v.Duration)

		if v.PublishedAt.IsZero() {
			continue
		}
		local := v.PublishedAt.In(opts.Location)
		factors.PublishingPatterns.ByWeekday[local.Weekday()]++
		factors.PublishingPatterns.ByHour[local.Hour()]++
	}

	factors.CommonTitleWords = commonTitleWords(titles, opts.TopWords)
	factors.OptimalLength = durationRange(durations)
	factors.EngagementRatios = engagementRatios(viral)
	return factors
}
