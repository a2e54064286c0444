package aggregator

import "github.com/gauthierbraillon/tubelens/internal/youtube"

func analyzeEngagementDrivers(channel youtube.Channel, videos []AnalyzedVideo) EngagementDrivers {
	var views, likes, comments int64
	var durations, scores []float64
	sample := 0
	for _, v := range videos {
		views += v.ViewCount
		likes += v.LikeCount
		comments += v.CommentCount
		if v.ViewCount == 0 {
			continue
		}
		sample++
		if v.Duration > 0 {
			durations = append(durations, v.Duration.Minutes())
			scores = append(scores, v.EngagementScore)
		}
	}

	drivers := EngagementDrivers{
		SampleSize:                    sample,
		LikeToViewRatio:               ratio(likes, views),
		CommentToViewRatio:            ratio(comments, views),
		DurationEngagementCorrelation: pearson(durations, scores),
	}
	if channel.ViewCount > 0 && !channel.HiddenSubscriberCount {
		drivers.SubscriberConversion = float64(channel.SubscriberCount) / float64(channel.ViewCount) * 100
	}
	return drivers
}
