// Package youtube tests document the expected behavior of the YouTube client.
//
// TDD Cycle: RED -> GREEN -> REFACTOR
//
// Test requirements (this file serves as documentation):
// - Client authenticates with an API key sent as the key query parameter
// - Client fetches channel snippet and statistics
// - Client fetches a channel's newest uploads with statistics and durations
// - Client pages through search results and batches video lookups by 50
// - Client fetches the trend window (most viewed uploads since a date)
// - Client drops search hits whose publish time cannot be parsed
// - Client handles API errors gracefully and never leaks the API key
package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// TestNewClient documents client creation requirements:
// - An API key is all that is needed
// - Returns configured client ready to make API calls
func TestNewClient(t *testing.T) {
	client := NewClient("test-key")

	if client == nil {
		t.Fatal("client should not be nil")
	}
	if client.baseURL != defaultBaseURL {
		t.Errorf("expected default base URL %q, got %q", defaultBaseURL, client.baseURL)
	}
	if client.timeout != defaultTimeout {
		t.Errorf("expected default timeout %v, got %v", defaultTimeout, client.timeout)
	}
}

// TestClient_FetchChannel documents channel fetching:
// - Calls channels with part=snippet,statistics
// - Sends the API key as a query parameter
// - Parses string statistics into integers
func TestClient_FetchChannel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/youtube/v3/channels" {
			t.Errorf("expected /youtube/v3/channels, got %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("key") != "test-key" {
			t.Errorf("expected key query parameter, got %q", q.Get("key"))
		}
		if q.Get("part") != "snippet,statistics" {
			t.Errorf("expected part=snippet,statistics, got %q", q.Get("part"))
		}
		if q.Get("id") != "UC123" {
			t.Errorf("expected id=UC123, got %q", q.Get("id"))
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("API key auth must not send an Authorization header")
		}

		writeJSON(w, map[string]interface{}{
			"items": []map[string]interface{}{
				{
					"id": "UC123",
					"snippet": map[string]interface{}{
						"title":       "Test Channel",
						"description": "A test channel",
						"customUrl":   "@test",
						"publishedAt": "2015-03-01T00:00:00Z",
					},
					"statistics": map[string]interface{}{
						"viewCount":       "1500000",
						"subscriberCount": "25000",
						"videoCount":      "120",
					},
				},
			},
		})
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	channel, err := client.FetchChannel(context.Background(), "UC123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if channel.Title != "Test Channel" {
		t.Errorf("expected title 'Test Channel', got %q", channel.Title)
	}
	if channel.SubscriberCount != 25000 {
		t.Errorf("expected 25000 subscribers, got %d", channel.SubscriberCount)
	}
	if channel.ViewCount != 1500000 {
		t.Errorf("expected 1500000 views, got %d", channel.ViewCount)
	}
	if channel.VideoCount != 120 {
		t.Errorf("expected 120 videos, got %d", channel.VideoCount)
	}
	if channel.PublishedAt.Year() != 2015 {
		t.Errorf("expected channel published in 2015, got %v", channel.PublishedAt)
	}
}

// TestClient_FetchChannel_NotFound documents the missing channel case:
// - An empty items list is ErrChannelNotFound
func TestClient_FetchChannel_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{"items": []interface{}{}})
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	_, err := client.FetchChannel(context.Background(), "UCmissing")
	if !errors.Is(err, ErrChannelNotFound) {
		t.Fatalf("expected ErrChannelNotFound, got %v", err)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound should recognise ErrChannelNotFound")
	}
}

// TestClient_FetchRecentVideos documents recent video fetching:
// - Takes a channel ID and returns recent videos
// - Videos are sorted by publish date (newest first)
// - Includes statistics and parsed duration
func TestClient_FetchRecentVideos(t *testing.T) {
	searchResponse := map[string]interface{}{
		"items": []map[string]interface{}{
			{
				"id": map[string]interface{}{"videoId": "older"},
				"snippet": map[string]interface{}{
					"title":        "Older Video",
					"channelId":    "UC123",
					"channelTitle": "Test Channel",
					"publishedAt":  "2024-01-10T12:00:00Z",
				},
			},
			{
				"id": map[string]interface{}{"videoId": "video123"},
				"snippet": map[string]interface{}{
					"title":        "Test Video",
					"description":  "A test video",
					"channelId":    "UC123",
					"channelTitle": "Test Channel",
					"publishedAt":  "2024-01-15T12:00:00Z",
					"thumbnails": map[string]interface{}{
						"default": map[string]interface{}{"url": "https://example.com/video-thumb.jpg"},
					},
				},
			},
		},
	}

	videoResponse := map[string]interface{}{
		"items": []map[string]interface{}{
			{
				"id":             "video123",
				"statistics":     map[string]interface{}{"viewCount": "1000", "likeCount": "50", "commentCount": "10"},
				"contentDetails": map[string]interface{}{"duration": "PT10M30S"},
			},
			{
				"id":             "older",
				"statistics":     map[string]interface{}{"viewCount": "400"},
				"contentDetails": map[string]interface{}{"duration": "PT45S"},
			},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/youtube/v3/search":
			q := r.URL.Query()
			if q.Get("order") != "date" {
				t.Errorf("expected order=date, got %q", q.Get("order"))
			}
			if q.Get("channelId") != "UC123" {
				t.Errorf("expected channelId=UC123, got %q", q.Get("channelId"))
			}
			writeJSON(w, searchResponse)
		case "/youtube/v3/videos":
			if got := r.URL.Query().Get("part"); got != "statistics,contentDetails" {
				t.Errorf("expected part=statistics,contentDetails, got %q", got)
			}
			writeJSON(w, videoResponse)
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	videos, err := client.FetchRecentVideos(context.Background(), "UC123", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(videos) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(videos))
	}

	if videos[0].ID != "video123" {
		t.Errorf("expected newest video first, got %q", videos[0].ID)
	}
	if videos[0].ViewCount != 1000 || videos[0].LikeCount != 50 || videos[0].CommentCount != 10 {
		t.Errorf("expected 1000/50/10 statistics, got %d/%d/%d", videos[0].ViewCount, videos[0].LikeCount, videos[0].CommentCount)
	}
	if videos[0].Duration != 10*time.Minute+30*time.Second {
		t.Errorf("expected 10m30s duration, got %v", videos[0].Duration)
	}
	if videos[0].URL != "https://www.youtube.com/watch?v=video123" {
		t.Errorf("unexpected watch URL %q", videos[0].URL)
	}
	if videos[1].LikeCount != 0 {
		t.Errorf("missing likeCount should read as 0, got %d", videos[1].LikeCount)
	}
}

// TestClient_FetchRecentVideos_PaginatesAndBatches documents large fetches:
// - Search is paged with pageToken until the limit is reached
// - maxResults never exceeds 50
// - Videos are looked up in batches of at most 50 ids
func TestClient_FetchRecentVideos_PaginatesAndBatches(t *testing.T) {
	const limit = 120
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	var searchCalls, videoCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch r.URL.Path {
		case "/youtube/v3/search":
			page := int(atomic.AddInt32(&searchCalls, 1)) - 1
			if n, err := strconv.Atoi(q.Get("maxResults")); err != nil || n < 1 || n > 50 {
				t.Errorf("maxResults must be between 1 and 50, got %q", q.Get("maxResults"))
			}
			if page > 0 && q.Get("pageToken") != fmt.Sprintf("page-%d", page) {
				t.Errorf("expected pageToken page-%d, got %q", page, q.Get("pageToken"))
			}
			items := make([]map[string]interface{}, 0, 50)
			for i := 0; i < 50; i++ {
				n := page*50 + i
				items = append(items, map[string]interface{}{
					"id": map[string]interface{}{"videoId": fmt.Sprintf("v%03d", n)},
					"snippet": map[string]interface{}{
						"title":       fmt.Sprintf("Video %d", n),
						"publishedAt": base.Add(-time.Duration(n) * time.Hour).Format(time.RFC3339),
					},
				})
			}
			writeJSON(w, map[string]interface{}{
				"nextPageToken": fmt.Sprintf("page-%d", page+1),
				"items":         items,
			})
		case "/youtube/v3/videos":
			atomic.AddInt32(&videoCalls, 1)
			ids := strings.Split(q.Get("id"), ",")
			if len(ids) > 50 {
				t.Errorf("videos call must carry at most 50 ids, got %d", len(ids))
			}
			items := make([]map[string]interface{}, 0, len(ids))
			for _, id := range ids {
				items = append(items, map[string]interface{}{
					"id":             id,
					"statistics":     map[string]interface{}{"viewCount": "10"},
					"contentDetails": map[string]interface{}{"duration": "PT1M"},
				})
			}
			writeJSON(w, map[string]interface{}{"items": items})
		}
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	videos, err := client.FetchRecentVideos(context.Background(), "UC123", limit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(videos) != limit {
		t.Fatalf("expected %d videos, got %d", limit, len(videos))
	}
	if got := atomic.LoadInt32(&searchCalls); got != 3 {
		t.Errorf("expected 3 search pages, got %d", got)
	}
	if got := atomic.LoadInt32(&videoCalls); got != 3 {
		t.Errorf("expected 3 video batches, got %d", got)
	}
	for i := 1; i < len(videos); i++ {
		if videos[i].PublishedAt.After(videos[i-1].PublishedAt) {
			t.Fatalf("videos must be newest first, index %d is newer than %d", i, i-1)
		}
	}
}

// TestClient_FetchRecentVideos_StopsWithoutNextPage documents short channels:
// - A missing nextPageToken ends pagination early
func TestClient_FetchRecentVideos_StopsWithoutNextPage(t *testing.T) {
	var searchCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/youtube/v3/search":
			atomic.AddInt32(&searchCalls, 1)
			writeJSON(w, map[string]interface{}{
				"items": []map[string]interface{}{
					{"id": map[string]interface{}{"videoId": "only"}, "snippet": map[string]interface{}{"title": "Only", "publishedAt": "2024-01-01T00:00:00Z"}},
				},
			})
		case "/youtube/v3/videos":
			writeJSON(w, map[string]interface{}{"items": []map[string]interface{}{
				{"id": "only", "statistics": map[string]interface{}{"viewCount": "5"}},
			}})
		}
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	videos, err := client.FetchRecentVideos(context.Background(), "UC123", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("expected 1 video, got %d", len(videos))
	}
	if atomic.LoadInt32(&searchCalls) != 1 {
		t.Errorf("expected a single search call, got %d", atomic.LoadInt32(&searchCalls))
	}
	if videos[0].Duration != 0 {
		t.Errorf("missing duration should read as 0, got %v", videos[0].Duration)
	}
}

// TestClient_FetchTrendWindow documents trend window fetching:
// - Orders search by viewCount
// - Sends publishedAfter in RFC 3339
// - Makes no videos call
func TestClient_FetchTrendWindow(t *testing.T) {
	since := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/youtube/v3/search" {
			t.Errorf("trend window must only call search, got %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("order") != "viewCount" {
			t.Errorf("expected order=viewCount, got %q", q.Get("order"))
		}
		if q.Get("publishedAfter") != "2024-05-01T00:00:00Z" {
			t.Errorf("expected publishedAfter=2024-05-01T00:00:00Z, got %q", q.Get("publishedAfter"))
		}
		writeJSON(w, map[string]interface{}{
			"items": []map[string]interface{}{
				{"id": map[string]interface{}{"videoId": "hit"}, "snippet": map[string]interface{}{"title": "Big Hit", "publishedAt": "2024-05-10T00:00:00Z"}},
				{"id": map[string]interface{}{"kind": "youtube#playlist"}, "snippet": map[string]interface{}{"title": "Not a video"}},
			},
		})
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	window, err := client.FetchTrendWindow(context.Background(), "UC123", since, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !window.Since.Equal(since) {
		t.Errorf("expected since %v, got %v", since, window.Since)
	}
	if len(window.Videos) != 1 {
		t.Fatalf("expected 1 trend video (non-video hits skipped), got %d", len(window.Videos))
	}
	if window.Videos[0].Title != "Big Hit" {
		t.Errorf("expected 'Big Hit', got %q", window.Videos[0].Title)
	}
}

// TestClient_APIError documents error handling:
// - Returns an *APIError carrying the status and Google's reason
func TestClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		writeJSON(w, map[string]interface{}{
			"error": map[string]interface{}{
				"code":    403,
				"message": "The request cannot be completed because you have exceeded your quota.",
				"errors":  []map[string]interface{}{{"reason": "quotaExceeded"}},
			},
		})
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	_, err := client.FetchChannel(context.Background(), "UC123")
	if err == nil {
		t.Fatal("expected error for quota exhaustion")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", apiErr.StatusCode)
	}
	if apiErr.Reason != "quotaExceeded" {
		t.Errorf("expected reason quotaExceeded, got %q", apiErr.Reason)
	}
	if !strings.Contains(strings.ToLower(err.Error()), "quota") {
		t.Errorf("error should mention quota, got: %v", err)
	}
}

// TestClient_Timeout documents timeout handling:
// - Respects context deadline
// - The per-call timeout bounds a slow upstream
func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	t.Run("context deadline", func(t *testing.T) {
		client := NewClient("test-key", WithBaseURL(server.URL))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := client.FetchChannel(ctx, "UC123")
		if err == nil {
			t.Fatal("expected timeout error")
		}
		if ctx.Err() != context.DeadlineExceeded {
			t.Errorf("expected DeadlineExceeded, got %v", ctx.Err())
		}
	})

	t.Run("per-call timeout", func(t *testing.T) {
		client := NewClient("test-key", WithBaseURL(server.URL), WithTimeout(10*time.Millisecond))

		_, err := client.FetchChannel(context.Background(), "UC123")
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected DeadlineExceeded from per-call timeout, got %v", err)
		}
	})
}

func TestClient_RateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{"items": []interface{}{}})
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL), WithRateLimit(1, 1))

	_, _ = client.FetchChannel(context.Background(), "UC1")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.FetchChannel(ctx, "UC2")
	if err == nil || errors.Is(err, ErrChannelNotFound) {
		t.Fatalf("second call within the same second should wait on the limiter and fail, got %v", err)
	}
}

func TestClient_FetchRecentVideos_URLEncodesChannelID(t *testing.T) {
	var capturedURL string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedURL = r.URL.RawQuery
		writeJSON(w, map[string]interface{}{"items": []interface{}{}})
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	// Channel ID with characters that require URL encoding
	_, _ = client.FetchRecentVideos(context.Background(), "UC+special/id", 5)

	if strings.Contains(capturedURL, "UC+special/id") {
		t.Error("channel ID must be URL-encoded in the query string to prevent parameter injection")
	}
}

func TestClient_TransportErrorRedactsKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient("super-secret-key", WithBaseURL(server.URL))

	_, err := client.FetchChannel(context.Background(), "UC123")
	if err == nil {
		t.Fatal("expected transport error against a closed server")
	}
	if strings.Contains(err.Error(), "super-secret-key") {
		t.Errorf("API key leaked into error: %v", err)
	}
}

// TestClient_FetchRecentVideos_DropsUndatedHits documents timestamp guarding:
// - A search hit with a malformed publishedAt is dropped, not zero-dated
// - Its statistics are never requested
func TestClient_FetchRecentVideos_DropsUndatedHits(t *testing.T) {
	var requestedIDs string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/youtube/v3/search":
			writeJSON(w, map[string]interface{}{
				"items": []map[string]interface{}{
					{
						"id":      map[string]interface{}{"videoId": "good"},
						"snippet": map[string]interface{}{"title": "Good", "publishedAt": "2024-06-04T09:00:00Z"},
					},
					{
						"id":      map[string]interface{}{"videoId": "bad"},
						"snippet": map[string]interface{}{"title": "Bad", "publishedAt": "not-a-timestamp"},
					},
				},
			})
		case "/youtube/v3/videos":
			requestedIDs = r.URL.Query().Get("id")
			writeJSON(w, map[string]interface{}{
				"items": []map[string]interface{}{
					{"id": "good", "statistics": map[string]interface{}{"viewCount": "100"}},
					{"id": "bad", "statistics": map[string]interface{}{"viewCount": "9000"}},
				},
			})
		}
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	videos, err := client.FetchRecentVideos(context.Background(), "UC123", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(videos) != 1 || videos[0].ID != "good" {
		t.Fatalf("expected only the dated video, got %+v", videos)
	}
	if videos[0].PublishedAt.IsZero() {
		t.Error("kept video should carry its publish time")
	}
	if requestedIDs != "good" {
		t.Errorf("statistics should only be requested for dated hits, got id=%q", requestedIDs)
	}

	window, err := client.FetchTrendWindow(context.Background(), "UC123", time.Time{}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(window.Videos) != 1 || window.Videos[0].ID != "good" {
		t.Errorf("trend window should drop undated hits, got %+v", window.Videos)
	}
}
