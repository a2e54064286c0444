package aggregator

const (
	maxConfidence        = 95
	confidencePerInsight = 19
	insightCategories    = 5
)

// Confidence maps the number of non-empty insight categories to a 0-95
// score: min(95, 19*n). This is a low-rigor heuristic that reflects how
// much the report had to work with. It says nothing about statistical
// significance.
func Confidence(nonEmpty int) int {
	if nonEmpty < 0 {
		nonEmpty = 0
	}
	if nonEmpty > insightCategories {
		nonEmpty = insightCategories
	}
	return min(maxConfidence, confidencePerInsight*nonEmpty)
}

// nonEmptyCategories counts insight categories that produced a result.
func nonEmptyCategories(in Insights) int {
	n := 0
	if len(in.ViralFactors.VideoIDs) > 0 {
		n++
	}
	if len(in.OptimalTiming.Slots) > 0 {
		n++
	}
	if in.TitlePatterns.hasComparableFeature() {
		n++
	}
	if in.EngagementDrivers.SampleSize > 0 {
		n++
	}
	if len(in.AlgorithmShifts.Changes) > 0 {
		n++
	}
	return n
}
