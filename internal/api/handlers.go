package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/gauthierbraillon/tubelens/internal/aggregator"
	"github.com/gauthierbraillon/tubelens/internal/logging"
)

type analysisRequest struct {
	ChannelID string `validate:"required,channel_id"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("channel_id", func(fl validator.FieldLevel) bool {
		return aggregator.ValidChannelID(fl.Field().String())
	})
	return v
}

type healthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Uptime  string `json:"uptime"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, healthStatus{
		Status:  "ok",
		Version: s.config.Version,
		Uptime:  time.Since(s.started).Round(time.Second).String(),
	}, 0)
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	req := analysisRequest{ChannelID: chi.URLParam(r, "channelID")}
	if err := s.validate.Struct(req); err != nil {
		// A malformed id cannot name a channel.
		respondAnalysisError(w, r, &aggregator.NotFoundError{ChannelID: req.ChannelID, Err: err})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.config.AnalyzeTimeout)
	defer cancel()

	start := time.Now()
	report, err := s.analyzer.Analyze(ctx, req.ChannelID)
	if err != nil {
		logging.Ctx(ctx).Warn().
			Str("component", "api").
			Str("channel_id", req.ChannelID).
			Err(err).
			Msg("analysis request failed")
		respondAnalysisError(w, r, err)
		return
	}

	respondData(w, r, report, time.Since(start))
}
