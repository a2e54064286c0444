package youtube

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrChannelNotFound is returned when a channel id resolves to no channel.
var ErrChannelNotFound = errors.New("channel not found")

// APIError is a non-2xx response from the YouTube Data API.
type APIError struct {
	Endpoint   string
	StatusCode int
	Reason     string
	Message    string
}

func (e *APIError) Error() string {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return "YouTube API authentication failed - check YOUTUBE_API_KEY"
	case e.StatusCode == http.StatusForbidden && (e.Reason == "quotaExceeded" || e.Reason == "dailyLimitExceeded"):
		return "YouTube API quota exceeded - please try again tomorrow"
	case e.StatusCode == http.StatusForbidden:
		return "YouTube API access denied - check the API key restrictions"
	case e.StatusCode == http.StatusNotFound:
		return fmt.Sprintf("YouTube API %s: resource not found", e.Endpoint)
	case e.StatusCode == http.StatusTooManyRequests:
		return "YouTube API rate limit exceeded - please try again later"
	case e.StatusCode == http.StatusServiceUnavailable:
		return "YouTube API temporarily unavailable - please try again in a few minutes"
	case e.StatusCode >= 500:
		return "YouTube API server error - please try again later"
	default:
		if e.Message != "" {
			return fmt.Sprintf("YouTube API error (status %d): %s", e.StatusCode, e.Message)
		}
		return fmt.Sprintf("YouTube API error (status %d) - please try again", e.StatusCode)
	}
}

// IsNotFound reports whether err means the requested channel does not exist.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrChannelNotFound) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// StatusCode extracts the HTTP status from an APIError, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
