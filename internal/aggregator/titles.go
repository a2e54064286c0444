package aggregator

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gauthierbraillon/tubelens/internal/advice"
)

// minLift is the smallest lift worth recommending.
const minLift = 0.10

var emotionalWords = map[string]struct{}{
	"amazing": {}, "best": {}, "crazy": {}, "epic": {}, "incredible": {},
	"insane": {}, "shocking": {}, "secret": {}, "ultimate": {}, "unbelievable": {},
	"worst": {}, "never": {}, "must": {}, "mistake": {}, "mistakes": {},
	"truth": {}, "finally": {}, "perfect": {}, "easy": {}, "fast": {},
}

type titleFeature struct {
	name   string
	detect func(title string) bool
}

var titleFeatures = []titleFeature{
	{FeatureNumber, hasDigit},
	{FeatureQuestion, func(t string) bool { return strings.ContainsAny(t, "?？") }},
	{FeatureExclamation, func(t string) bool { return strings.ContainsAny(t, "!！") }},
	{FeatureAllCaps, hasAllCapsWord},
	{FeatureEmotional, hasEmotionalWord},
}

func hasDigit(title string) bool {
	return strings.IndexFunc(title, unicode.IsDigit) >= 0
}

// hasAllCapsWord reports a word of two or more letters written entirely in
// upper case.
func hasAllCapsWord(title string) bool {
	for _, word := range strings.Fields(title) {
		letters, upper := 0, 0
		for _, r := range word {
			if unicode.IsLetter(r) {
				letters++
				if unicode.IsUpper(r) {
					upper++
				}
			}
		}
		if letters >= 2 && letters == upper {
			return true
		}
	}
	return false
}

func hasEmotionalWord(title string) bool {
	for _, tok := range titleTokens(title) {
		if _, ok := emotionalWords[tok]; ok {
			return true
		}
	}
	return false
}

func featureEffect(name string, videos []AnalyzedVideo, detect func(string) bool) FeatureEffect {
	var with, without []float64
	for _, v := range videos {
		if detect(v.Title) {
			with = append(with, float64(v.ViewCount))
		} else {
			without = append(without, float64(v.ViewCount))
		}
	}

	effect := FeatureEffect{
		Feature:         name,
		WithCount:       len(with),
		WithoutCount:    len(without),
		WithAvgViews:    mean(with),
		WithoutAvgViews: mean(without),
	}
	if len(with) > 0 && len(without) > 0 && effect.WithoutAvgViews > 0 {
		effect.Lift = effect.WithAvgViews/effect.WithoutAvgViews - 1
	}
	return effect
}

func titleLengthBand(title string) string {
	n := utf8.RuneCountInString(title)
	switch {
	case n < 30:
		return "short"
	case n <= 60:
		return "medium"
	default:
		return "long"
	}
}

func lengthImpact(videos []AnalyzedVideo) []LengthBucket {
	bands := []string{"short", "medium", "long"}
	views := make(map[string][]float64, len(bands))
	for _, v := range videos {
		band := titleLengthBand(v.Title)
		views[band] = append(views[band], float64(v.ViewCount))
	}

	out := make([]LengthBucket, 0, len(bands))
	for _, band := range bands {
		out = append(out, LengthBucket{
			Band:     band,
			Count:    len(views[band]),
			AvgViews: mean(views[band]),
		})
	}
	return out
}

func analyzeTitlePatterns(videos []AnalyzedVideo) TitlePatterns {
	patterns := TitlePatterns{
		Features:      make([]FeatureEffect, 0, len(titleFeatures)),
		BestPractices: []string{},
	}
	for _, f := range titleFeatures {
		effect := featureEffect(f.name, videos, f.detect)
		patterns.Features = append(patterns.Features, effect)
		if effect.WithCount > 0 && effect.WithoutCount > 0 && effect.Lift >= minLift {
			patterns.BestPractices = append(patterns.BestPractices, advice.TitlePractice(effect.Feature, effect.Lift))
		}
	}

	patterns.LengthImpact = lengthImpact(videos)

	var best *LengthBucket
	populated := 0
	for i := range patterns.LengthImpact {
		b := &patterns.LengthImpact[i]
		if b.Count == 0 {
			continue
		}
		populated++
		if best == nil || b.AvgViews > best.AvgViews {
			best = b
		}
	}
	if populated > 1 && best != nil {
		patterns.BestPractices = append(patterns.BestPractices, advice.LengthPractice(best.Band, best.AvgViews))
	}
	return patterns
}

// hasComparableFeature reports whether any feature split the videos into
// two non-empty groups.
func (p TitlePatterns) hasComparableFeature() bool {
	for _, f := range p.Features {
		if f.WithCount > 0 && f.WithoutCount > 0 {
			return true
		}
	}
	return false
}
