package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/gauthierbraillon/tubelens/internal/aggregator"
	"github.com/gauthierbraillon/tubelens/internal/logging"
)

// Error codes returned in the envelope.
const (
	CodeNotFound    = "NOT_FOUND"
	CodeUpstream    = "UPSTREAM_ERROR"
	CodeInternal    = "INTERNAL_ERROR"
	CodeRateLimited = "RATE_LIMIT_EXCEEDED"
)

// Response is the JSON envelope every endpoint answers with.
//
//	{
//	  "success": false,
//	  "error": {"code": "NOT_FOUND", "message": "channel UCxyz not found"},
//	  "meta": {"timestamp": "2024-06-03T15:00:00Z", "request_id": "..."}
//	}
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	Meta    Meta        `json:"meta"`
}

// Error describes a failed request.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta carries response metadata.
type Meta struct {
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id,omitempty"`
	DurationMS int64     `json:"duration_ms,omitempty"`
}

// respondJSON writes the envelope with the given status.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, resp *Response) {
	resp.Meta.Timestamp = time.Now().UTC()
	resp.Meta.RequestID = logging.RequestIDFromContext(r.Context())

	data, err := json.Marshal(resp)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to write JSON response")
	}
}

func respondData(w http.ResponseWriter, r *http.Request, data interface{}, elapsed time.Duration) {
	respondJSON(w, r, http.StatusOK, &Response{
		Success: true,
		Data:    data,
		Meta:    Meta{DurationMS: elapsed.Milliseconds()},
	})
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	respondJSON(w, r, status, &Response{
		Error: &Error{Code: code, Message: message},
	})
}

// respondAnalysisError maps aggregator errors onto HTTP statuses. Upstream
// details stay in the log; clients get a short message.
func respondAnalysisError(w http.ResponseWriter, r *http.Request, err error) {
	var nf *aggregator.NotFoundError
	var fe *aggregator.FetchError

	switch {
	case errors.As(err, &nf):
		respondError(w, r, http.StatusNotFound, CodeNotFound, "channel "+nf.ChannelID+" not found")
	case errors.As(err, &fe):
		respondError(w, r, http.StatusBadGateway, CodeUpstream, "failed to fetch "+fe.Op+" from YouTube")
	default:
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "analysis failed")
	}
}
