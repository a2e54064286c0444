package aggregator

import "github.com/gauthierbraillon/tubelens/internal/advice"

func insightRecommendations(in Insights) []Recommendation {
	recs := []Recommendation{}

	if r := in.ViralFactors.OptimalLength; r != nil {
		recs = append(recs, Recommendation{
			Type:     "duration",
			Priority: PriorityHigh,
			Message:  advice.DurationRecommendation(r.MinMinutes, r.MaxMinutes, r.MedianMinutes),
		})
	}

	if in.OptimalTiming.Recommendation != "" {
		recs = append(recs, Recommendation{
			Type:     "timing",
			Priority: PriorityHigh,
			Message:  in.OptimalTiming.Recommendation,
		})
	}

	return recs
}
