package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/imrishuroy/go-survey-intake/internal/aws"
	"github.com/imrishuroy/go-survey-intake/internal/survey"
	"github.com/imrishuroy/go-survey-intake/internal/validation"
)

// Client-facing messages. Store errors are never echoed.
const (
	MsgSaved         = "Survey response saved successfully"
	MsgInternalError = "Internal server error"
)

// SubmissionPublisher announces stored responses.
type SubmissionPublisher interface {
	PublishSubmission(ctx context.Context, responseID, correlationID string) error
}

// SubmissionMetrics counts submission outcomes.
type SubmissionMetrics interface {
	RecordSubmission(ctx context.Context, outcome string) error
}

// HandlerConfig groups dependencies for the survey handler.
// Publisher, Metrics and NewID are optional.
type HandlerConfig struct {
	Store     survey.Store
	Publisher SubmissionPublisher
	Metrics   SubmissionMetrics
	NewID     func() string
}

// RegisterSurveyRoutes registers POST /api/survey.
func RegisterSurveyRoutes(r gin.IRoutes, cfg HandlerConfig) {
	newID := cfg.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	r.POST("/api/survey", func(c *gin.Context) {
		ctx := c.Request.Context()
		reqID := RequestIDFrom(c)

		answers, err := validation.BindSurveyAnswers(c)
		if err != nil {
			// BindSurveyAnswers already wrote a 400
			log.Warn().Err(err).Str("request_id", reqID).Msg("rejected survey submission body")
			return
		}

		resp := survey.Response{
			ResponseID: newID(),
			Answers:    answers,
		}

		if err := cfg.Store.Insert(ctx, resp); err != nil {
			log.Error().Err(err).
				Str("request_id", reqID).
				Str("response_id", resp.ResponseID).
				Msg("error saving survey response")
			recordOutcome(ctx, cfg.Metrics, aws.OutcomeFailed, reqID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": MsgInternalError})
			return
		}

		recordOutcome(ctx, cfg.Metrics, aws.OutcomeSaved, reqID)
		if cfg.Publisher != nil {
			if err := cfg.Publisher.PublishSubmission(ctx, resp.ResponseID, reqID); err != nil {
				log.Warn().Err(err).
					Str("request_id", reqID).
					Str("response_id", resp.ResponseID).
					Msg("failed to publish survey submission")
			}
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":     MsgSaved,
			"response_id": resp.ResponseID,
		})
	})
}

func recordOutcome(ctx context.Context, m SubmissionMetrics, outcome, reqID string) {
	if m == nil {
		return
	}
	if err := m.RecordSubmission(ctx, outcome); err != nil {
		log.Warn().Err(err).Str("request_id", reqID).Str("outcome", outcome).Msg("failed to record submission metric")
	}
}
