// Package contracts holds recorded YouTube Data API v3 response bodies.
//
// The payloads follow the resource schemas published in Google's discovery
// document (channels.list, search.list, videos.list and the standard error
// body). Client tests and the CLI's black-box tests serve them from fake
// servers so that parsing is checked against the real wire shape rather than
// against structs written by hand.
package contracts

// ChannelID is the channel every contract describes.
const ChannelID = "UCtest123"

// ChannelListContract is a channels.list response for part=snippet,statistics.
const ChannelListContract = `{
  "kind": "youtube#channelListResponse",
  "etag": "x5QbJ1rS0Jx9c7Hkz3J0aQ",
  "pageInfo": {"totalResults": 1, "resultsPerPage": 5},
  "items": [
    {
      "kind": "youtube#channel",
      "etag": "d1Y0rMxv1bq2zHqfQwIhWw",
      "id": "UCtest123",
      "snippet": {
        "title": "Gopher Academy",
        "description": "Talks and tutorials about Go.",
        "customUrl": "@gopheracademy",
        "publishedAt": "2015-03-01T00:00:00Z",
        "thumbnails": {
          "default": {"url": "https://yt3.ggpht.com/gopher=s88", "width": 88, "height": 88}
        },
        "country": "US"
      },
      "statistics": {
        "viewCount": "3400000",
        "subscriberCount": "12500",
        "hiddenSubscriberCount": false,
        "videoCount": "2"
      }
    }
  ]
}`

// EmptyChannelListContract is what channels.list answers for an unknown id.
const EmptyChannelListContract = `{
  "kind": "youtube#channelListResponse",
  "etag": "RuuXzTIr0OoDqI4S0RU6n4FqKEM",
  "pageInfo": {"totalResults": 0, "resultsPerPage": 5}
}`

// SearchListContract is a search.list response for type=video, newest first.
const SearchListContract = `{
  "kind": "youtube#searchListResponse",
  "etag": "q7Hh1c0m9cN6h0o2w1jz2A",
  "regionCode": "US",
  "pageInfo": {"totalResults": 2, "resultsPerPage": 50},
  "items": [
    {
      "kind": "youtube#searchResult",
      "etag": "m0m3yX9l0iV0h7J1kE2ZqQ",
      "id": {"kind": "youtube#video", "videoId": "v1"},
      "snippet": {
        "publishedAt": "2024-06-04T09:00:00Z",
        "channelId": "UCtest123",
        "title": "How to Build CLI Tools in Go",
        "description": "Cobra, flags and config.",
        "thumbnails": {
          "default": {"url": "https://i.ytimg.com/vi/v1/default.jpg", "width": 120, "height": 90}
        },
        "channelTitle": "Gopher Academy",
        "liveBroadcastContent": "none",
        "publishTime": "2024-06-04T09:00:00Z"
      }
    },
    {
      "kind": "youtube#searchResult",
      "etag": "Jb7c3k1Yh0fQ2l9pX8wVbA",
      "id": {"kind": "youtube#video", "videoId": "v2"},
      "snippet": {
        "publishedAt": "2024-06-01T18:00:00Z",
        "channelId": "UCtest123",
        "title": "Concurrency Patterns",
        "description": "Pipelines and fan-out.",
        "thumbnails": {
          "default": {"url": "https://i.ytimg.com/vi/v2/default.jpg", "width": 120, "height": 90}
        },
        "channelTitle": "Gopher Academy",
        "liveBroadcastContent": "none",
        "publishTime": "2024-06-01T18:00:00Z"
      }
    }
  ]
}`

// VideoListContract is a videos.list response for part=statistics,contentDetails.
// favoriteCount is always "0" since the API deprecated it; v2 hides likes.
const VideoListContract = `{
  "kind": "youtube#videoListResponse",
  "etag": "Zp3Vt6p7n0W1rVw4n7J2bg",
  "pageInfo": {"totalResults": 2, "resultsPerPage": 2},
  "items": [
    {
      "kind": "youtube#video",
      "etag": "c2mXcM5oHq0Zb1oHq8C3zQ",
      "id": "v1",
      "contentDetails": {
        "duration": "PT12M",
        "dimension": "2d",
        "definition": "hd",
        "caption": "false",
        "licensedContent": true,
        "projection": "rectangular"
      },
      "statistics": {
        "viewCount": "9000",
        "likeCount": "450",
        "favoriteCount": "0",
        "commentCount": "90"
      }
    },
    {
      "kind": "youtube#video",
      "etag": "t2kYl7s0Ue8rQ4oXh6P1dA",
      "id": "v2",
      "contentDetails": {
        "duration": "PT8M30S",
        "dimension": "2d",
        "definition": "hd",
        "caption": "true",
        "licensedContent": true,
        "projection": "rectangular"
      },
      "statistics": {
        "viewCount": "1000",
        "favoriteCount": "0",
        "commentCount": "5"
      }
    }
  ]
}`

// KeyInvalidErrorContract is the error body for a rejected API key.
const KeyInvalidErrorContract = `{
  "error": {
    "code": 400,
    "message": "API key not valid. Please pass a valid API key.",
    "errors": [
      {
        "message": "API key not valid. Please pass a valid API key.",
        "domain": "global",
        "reason": "badRequest"
      }
    ],
    "status": "INVALID_ARGUMENT",
    "details": [
      {
        "@type": "type.googleapis.com/google.rpc.ErrorInfo",
        "reason": "API_KEY_INVALID",
        "domain": "googleapis.com"
      }
    ]
  }
}`

// QuotaExceededErrorContract is the error body once the daily quota is spent.
const QuotaExceededErrorContract = `{
  "error": {
    "code": 403,
    "message": "The request cannot be completed because you have exceeded your <a href=\"/youtube/v3/getting-started#quota\">quota</a>.",
    "errors": [
      {
        "message": "The request cannot be completed because you have exceeded your <a href=\"/youtube/v3/getting-started#quota\">quota</a>.",
        "domain": "youtube.quota",
        "reason": "quotaExceeded"
      }
    ]
  }
}`

// All returns every contract by name.
func All() map[string]string {
	return map[string]string{
		"ChannelList":        ChannelListContract,
		"EmptyChannelList":   EmptyChannelListContract,
		"SearchList":         SearchListContract,
		"VideoList":          VideoListContract,
		"KeyInvalidError":    KeyInvalidErrorContract,
		"QuotaExceededError": QuotaExceededErrorContract,
	}
}
