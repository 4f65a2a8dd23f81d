package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/sentiment-watchdog/internal/domain"
	"github.com/jonesrussell/sentiment-watchdog/internal/engine"
)

// AddMessageRequest represents a message ingest request.
type AddMessageRequest struct {
	Content string `binding:"required" json:"content"`
	Channel string `binding:"required" json:"channel"`
}

// MessagesListResponse wraps the message history.
type MessagesListResponse struct {
	Messages []domain.Message `json:"messages"`
	Total    int              `json:"total"`
}

// RootCauseRequest represents a root-cause analysis request. EmotionFilter
// is optional; empty analyzes all negative messages.
type RootCauseRequest struct {
	EmotionFilter string `json:"emotion_filter"`
}

// SaveRuleRequest represents an alert rule create/update request.
type SaveRuleRequest struct {
	ID         string `json:"id"`
	EmotionTag string `binding:"required" json:"emotion_type"`
	Threshold  int    `binding:"required" json:"threshold"`
	TimeWindow int    `binding:"required" json:"time_window"`
	Enabled    bool   `json:"enabled"`
}

// RuleConfigsResponse wraps the alert rule collection.
type RuleConfigsResponse struct {
	Configs []domain.AlertRule `json:"configs"`
}

// AlertsListResponse wraps the alert history.
type AlertsListResponse struct {
	Alerts []domain.Alert `json:"alerts"`
	Total  int            `json:"total"`
}

// respondError maps domain errors to HTTP status codes: invalid input is a
// client error, classifier trouble is a bad gateway, and an empty analysis
// set is unprocessable.
func respondError(c *gin.Context, err error) {
	var (
		validationErr   *domain.ValidationError
		classifyErr     *domain.ClassificationError
		insufficientErr *domain.InsufficientDataError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &classifyErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": classifyErr.Error()})
	case errors.As(err, &insufficientErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": insufficientErr.Error()})
	case errors.Is(err, engine.ErrRuleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
