// Package youtube provides a client for the YouTube Data API v3.
//
// This package enables tubelens to:
// - Fetch a channel's snippet and statistics
// - List a channel's most recent uploads with per-video statistics
// - List the channel's top-viewed uploads inside a trailing trend window
package youtube

import "time"

// Channel is a snapshot of a channel's metadata and aggregate statistics,
// taken verbatim from the channels endpoint.
type Channel struct {
	ID                    string    `json:"id"`
	Title                 string    `json:"title"`
	Description           string    `json:"description"`
	CustomURL             string    `json:"custom_url,omitempty"`
	Country               string    `json:"country,omitempty"`
	Thumbnail             string    `json:"thumbnail,omitempty"`
	PublishedAt           time.Time `json:"published_at"`
	SubscriberCount       int64     `json:"subscriber_count"`
	HiddenSubscriberCount bool      `json:"hidden_subscriber_count"`
	ViewCount             int64     `json:"view_count"`
	VideoCount            int64     `json:"video_count"`
}

// Video represents a YouTube video with its statistics.
type Video struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	ChannelID    string        `json:"channel_id"`
	ChannelTitle string        `json:"channel_title"`
	Thumbnail    string        `json:"thumbnail"`
	PublishedAt  time.Time     `json:"published_at"`
	Duration     time.Duration `json:"duration"`
	RawDuration  string        `json:"raw_duration"`
	ViewCount    int64         `json:"view_count"`
	LikeCount    int64         `json:"like_count"`
	CommentCount int64         `json:"comment_count"`
	URL          string        `json:"url"`
}

// TrendVideo is a search hit inside the trend window. Search results carry no
// statistics, only ordering by view count.
type TrendVideo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
}

// TrendWindow lists the channel's top-viewed uploads published after Since,
// most viewed first.
type TrendWindow struct {
	Since  time.Time    `json:"since"`
	Videos []TrendVideo `json:"videos"`
}
