package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/gauthierbraillon/tubelens/internal/logging"
	"github.com/gauthierbraillon/tubelens/internal/metrics"
)

const (
	defaultBaseURL = "https://www.googleapis.com"
	defaultTimeout = 10 * time.Second

	// maxPageSize is the API's upper bound for maxResults and for the number
	// of ids accepted by a single videos call.
	maxPageSize = 50

	maxErrorBodySize = 64 * 1024
)

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithTimeout bounds every individual API call.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit caps outgoing requests per second. rps <= 0 disables it.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// Client is a YouTube Data API client authenticated with an API key.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPClient
	timeout    time.Duration
	limiter    *rate.Limiter
}

// NewClient creates a new YouTube API client. The key is sent as the `key`
// query parameter and is never logged.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
		timeout:    defaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchChannel retrieves a channel's snippet and statistics.
func (c *Client) FetchChannel(ctx context.Context, channelID string) (*Channel, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("id", channelID)

	body, err := c.doRequest(ctx, "channels", params)
	if err != nil {
		return nil, err
	}

	var response channelsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse channels response: %w", err)
	}

	if len(response.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrChannelNotFound, channelID)
	}

	item := response.Items[0]
	publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
	if err != nil {
		logging.Debug().Str("channel_id", item.ID).Str("published_at", item.Snippet.PublishedAt).Msg("unparseable channel creation time")
		publishedAt = time.Time{}
	}

	return &Channel{
		ID:                    item.ID,
		Title:                 item.Snippet.Title,
		Description:           item.Snippet.Description,
		CustomURL:             item.Snippet.CustomURL,
		Country:               item.Snippet.Country,
		Thumbnail:             item.Snippet.Thumbnails.Default.URL,
		PublishedAt:           publishedAt,
		SubscriberCount:       parseCount(item.Statistics.SubscriberCount),
		HiddenSubscriberCount: item.Statistics.HiddenSubscriberCount,
		ViewCount:             parseCount(item.Statistics.ViewCount),
		VideoCount:            parseCount(item.Statistics.VideoCount),
	}, nil
}

// FetchRecentVideos retrieves up to limit of a channel's newest uploads,
// newest first, with statistics resolved for exactly that id set.
func (c *Client) FetchRecentVideos(ctx context.Context, channelID string, limit int) ([]Video, error) {
	if limit <= 0 {
		return []Video{}, nil
	}

	hits, err := c.searchChannel(ctx, channelID, limit, "date", time.Time{})
	if err != nil {
		return nil, err
	}

	published := make(map[string]time.Time, len(hits))
	dated := hits[:0]
	for _, hit := range hits {
		t, ok := parsePublishedAt(hit)
		if !ok {
			continue
		}
		published[hit.ID.VideoID] = t
		dated = append(dated, hit)
	}
	hits = dated

	if len(hits) == 0 {
		return []Video{}, nil
	}

	videoIDs := make([]string, 0, len(hits))
	for _, hit := range hits {
		videoIDs = append(videoIDs, hit.ID.VideoID)
	}

	details, err := c.fetchVideoDetails(ctx, videoIDs)
	if err != nil {
		return nil, err
	}

	videos := make([]Video, 0, len(hits))
	for _, hit := range hits {
		d := details[hit.ID.VideoID]

		videos = append(videos, Video{
			ID:           hit.ID.VideoID,
			Title:        hit.Snippet.Title,
			Description:  hit.Snippet.Description,
			ChannelID:    hit.Snippet.ChannelID,
			ChannelTitle: hit.Snippet.ChannelTitle,
			Thumbnail:    hit.Snippet.Thumbnails.Default.URL,
			PublishedAt:  published[hit.ID.VideoID],
			Duration:     d.duration,
			RawDuration:  d.rawDuration,
			ViewCount:    d.viewCount,
			LikeCount:    d.likeCount,
			CommentCount: d.commentCount,
			URL:          fmt.Sprintf("https://www.youtube.com/watch?v=%s", hit.ID.VideoID),
		})
	}

	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].PublishedAt.After(videos[j].PublishedAt)
	})

	return videos, nil
}

// FetchTrendWindow lists the channel's most viewed uploads published after
// since. Only search snippets are fetched; no statistics call is made.
func (c *Client) FetchTrendWindow(ctx context.Context, channelID string, since time.Time, limit int) (*TrendWindow, error) {
	window := &TrendWindow{Since: since, Videos: []TrendVideo{}}
	if limit <= 0 {
		return window, nil
	}

	hits, err := c.searchChannel(ctx, channelID, limit, "viewCount", since)
	if err != nil {
		return nil, err
	}

	for _, hit := range hits {
		publishedAt, ok := parsePublishedAt(hit)
		if !ok {
			continue
		}
		window.Videos = append(window.Videos, TrendVideo{
			ID:          hit.ID.VideoID,
			Title:       hit.Snippet.Title,
			PublishedAt: publishedAt,
		})
	}

	return window, nil
}

// searchChannel pages through search results until limit hits are collected
// or the API reports no further page.
func (c *Client) searchChannel(ctx context.Context, channelID string, limit int, order string, publishedAfter time.Time) ([]searchItem, error) {
	hits := make([]searchItem, 0, limit)
	pageToken := ""

	for len(hits) < limit {
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("channelId", channelID)
		params.Set("maxResults", strconv.Itoa(min(maxPageSize, limit-len(hits))))
		params.Set("order", order)
		params.Set("type", "video")
		if !publishedAfter.IsZero() {
			params.Set("publishedAfter", publishedAfter.UTC().Format(time.RFC3339))
		}
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		body, err := c.doRequest(ctx, "search", params)
		if err != nil {
			return nil, err
		}

		var page searchResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("failed to parse search response: %w", err)
		}

		for _, item := range page.Items {
			if item.ID.VideoID == "" {
				continue
			}
			hits = append(hits, item)
			if len(hits) == limit {
				break
			}
		}

		if page.NextPageToken == "" || len(page.Items) == 0 {
			break
		}
		pageToken = page.NextPageToken
	}

	return hits, nil
}

// fetchVideoDetails resolves statistics and content details keyed by id.
// Ids are sent in batches of maxPageSize, the API's per-call limit.
func (c *Client) fetchVideoDetails(ctx context.Context, ids []string) (map[string]videoDetails, error) {
	details := make(map[string]videoDetails, len(ids))

	for start := 0; start < len(ids); start += maxPageSize {
		end := min(start+maxPageSize, len(ids))

		params := url.Values{}
		params.Set("part", "statistics,contentDetails")
		params.Set("id", strings.Join(ids[start:end], ","))
		params.Set("maxResults", strconv.Itoa(end-start))

		body, err := c.doRequest(ctx, "videos", params)
		if err != nil {
			return nil, err
		}

		var response videosResponse
		if err := json.Unmarshal(body, &response); err != nil {
			return nil, fmt.Errorf("failed to parse videos response: %w", err)
		}

		for _, item := range response.Items {
			duration, err := ParseDuration(item.ContentDetails.Duration)
			if err != nil {
				// Live and upcoming broadcasts report P0D or nothing at all.
				logging.Debug().Str("video_id", item.ID).Str("duration", item.ContentDetails.Duration).Msg("unparseable video duration")
				duration = 0
			}
			details[item.ID] = videoDetails{
				viewCount:    parseCount(item.Statistics.ViewCount),
				likeCount:    parseCount(item.Statistics.LikeCount),
				commentCount: parseCount(item.Statistics.CommentCount),
				duration:     duration,
				rawDuration:  item.ContentDetails.Duration,
			}
		}
	}

	return details, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("YouTube API %s: rate limiter: %w", endpoint, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params.Set("key", c.apiKey)
	reqURL := fmt.Sprintf("%s/youtube/v3/%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %s", redactKey(err.Error(), c.apiKey))
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.YouTubeRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.YouTubeRequests.WithLabelValues(endpoint, "transport_error").Inc()
		return nil, fmt.Errorf("YouTube API %s request failed: %w", endpoint, c.scrubError(err))
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.YouTubeRequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleAPIError(endpoint, resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", c.scrubError(err))
	}

	return body, nil
}

func (c *Client) handleAPIError(endpoint string, resp *http.Response) error {
	apiErr := &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	var envelope errorResponse
	if json.Unmarshal(body, &envelope) == nil {
		apiErr.Message = envelope.Error.Message
		if len(envelope.Error.Errors) > 0 {
			apiErr.Reason = envelope.Error.Errors[0].Reason
		}
	}

	logging.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Str("reason", apiErr.Reason).
		Msg("YouTube API returned an error")

	return apiErr
}

// scrubError removes the API key from transport errors, which embed the
// full request URL.
func (c *Client) scrubError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		scrubbed := *urlErr
		scrubbed.URL = redactKey(urlErr.URL, c.apiKey)
		return &scrubbed
	}
	return err
}

func redactKey(s, key string) string {
	if key == "" {
		return s
	}
	s = strings.ReplaceAll(s, url.QueryEscape(key), "REDACTED")
	return strings.ReplaceAll(s, key, "REDACTED")
}

// parsePublishedAt parses a search hit's publish time. Hits without a valid
// RFC 3339 timestamp are dropped: every timing metric depends on it.
func parsePublishedAt(hit searchItem) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, hit.Snippet.PublishedAt)
	if err != nil || t.IsZero() {
		logging.Debug().Str("video_id", hit.ID.VideoID).Str("published_at", hit.Snippet.PublishedAt).Msg("dropping search hit with unparseable publish time")
		return time.Time{}, false
	}
	return t.UTC(), true
}

func parseCount(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

// API response types (private - implementation detail)

type thumbnails struct {
	Default struct {
		URL string `json:"url"`
	} `json:"default"`
}

type channelsResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string     `json:"title"`
			Description string     `json:"description"`
			CustomURL   string     `json:"customUrl"`
			Country     string     `json:"country"`
			PublishedAt string     `json:"publishedAt"`
			Thumbnails  thumbnails `json:"thumbnails"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount             string `json:"viewCount"`
			SubscriberCount       string `json:"subscriberCount"`
			HiddenSubscriberCount bool   `json:"hiddenSubscriberCount"`
			VideoCount            string `json:"videoCount"`
		} `json:"statistics"`
	} `json:"items"`
}

type searchItem struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		Title        string     `json:"title"`
		Description  string     `json:"description"`
		ChannelID    string     `json:"channelId"`
		ChannelTitle string     `json:"channelTitle"`
		PublishedAt  string     `json:"publishedAt"`
		Thumbnails   thumbnails `json:"thumbnails"`
	} `json:"snippet"`
}

type searchResponse struct {
	NextPageToken string       `json:"nextPageToken"`
	Items         []searchItem `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

type videoDetails struct {
	viewCount    int64
	likeCount    int64
	commentCount int64
	duration     time.Duration
	rawDuration  string
}
