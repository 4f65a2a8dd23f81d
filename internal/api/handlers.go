// Package api exposes the watchdog engine over HTTP.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/sentiment-watchdog/internal/domain"
	"github.com/jonesrussell/sentiment-watchdog/internal/engine"
	"github.com/jonesrussell/sentiment-watchdog/internal/logging"
)

// workspaceHeader selects the monitored workspace; requests without it go
// to the configured default workspace.
const workspaceHeader = "X-Workspace-ID"

// Handler handles HTTP requests for the watchdog API.
type Handler struct {
	registry         *engine.Registry
	defaultWorkspace string
	serviceName      string
	serviceVersion   string
	logger           logging.Logger
}

// NewHandler creates a new API handler.
func NewHandler(registry *engine.Registry, defaultWorkspace, serviceName, serviceVersion string, logger logging.Logger) *Handler {
	return &Handler{
		registry:         registry,
		defaultWorkspace: defaultWorkspace,
		serviceName:      serviceName,
		serviceVersion:   serviceVersion,
		logger:           logger,
	}
}

func (h *Handler) engine(c *gin.Context) (*engine.Engine, bool) {
	workspace := c.GetHeader(workspaceHeader)
	if workspace == "" {
		workspace = h.defaultWorkspace
	}

	eng, err := h.registry.Get(c.Request.Context(), workspace)
	if err != nil {
		h.logger.Error("Failed to load workspace", "workspace", workspace, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load workspace"})
		return nil, false
	}
	return eng, true
}

// AddMessage handles POST /api/messages.
func (h *Handler) AddMessage(c *gin.Context) {
	var req AddMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid ingest request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eng, ok := h.engine(c)
	if !ok {
		return
	}

	msg, err := eng.AddMessage(c.Request.Context(), req.Content, domain.Channel(req.Channel))
	if err != nil {
		h.logger.Warn("Message ingest rejected", "channel", req.Channel, "error", err)
		respondError(c, err)
		return
	}

	h.logger.Info("Message ingested",
		"message_id", msg.ID,
		"channel", msg.Channel,
		"score", msg.Score,
	)

	c.JSON(http.StatusCreated, msg)
}

// ListMessages handles GET /api/messages.
func (h *Handler) ListMessages(c *gin.Context) {
	eng, ok := h.engine(c)
	if !ok {
		return
	}

	messages := eng.ListMessages()
	c.JSON(http.StatusOK, MessagesListResponse{
		Messages: messages,
		Total:    len(messages),
	})
}

// GetSentimentStats handles GET /api/analytics/sentiment-stats.
func (h *Handler) GetSentimentStats(c *gin.Context) {
	eng, ok := h.engine(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, eng.Stats())
}

// AnalyzeRootCause handles POST /api/analytics/root-cause.
func (h *Handler) AnalyzeRootCause(c *gin.Context) {
	var req RootCauseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid root-cause request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eng, ok := h.engine(c)
	if !ok {
		return
	}

	summary, err := eng.Analyze(c.Request.Context(), domain.Emotion(req.EmotionFilter))
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.Info("Root-cause analysis completed",
		"emotion_filter", req.EmotionFilter,
		"message_count", summary.MessageCount,
	)

	c.JSON(http.StatusOK, summary)
}

// ListRuleConfigs handles GET /api/alerts/config.
func (h *Handler) ListRuleConfigs(c *gin.Context) {
	eng, ok := h.engine(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, RuleConfigsResponse{Configs: eng.ListRules()})
}

// SaveRuleConfig handles POST /api/alerts/config. A request without an id
// creates a rule; with an id it redefines the existing rule.
func (h *Handler) SaveRuleConfig(c *gin.Context) {
	var req SaveRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid rule config request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eng, ok := h.engine(c)
	if !ok {
		return
	}

	rule, err := eng.UpsertRule(c.Request.Context(), domain.AlertRule{
		ID:         req.ID,
		Emotion:    domain.Emotion(req.EmotionTag),
		Threshold:  req.Threshold,
		TimeWindow: req.TimeWindow,
		Enabled:    req.Enabled,
	})
	if err != nil {
		h.logger.Warn("Rule config rejected", "emotion", req.EmotionTag, "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rule)
}

// DeleteRuleConfig handles DELETE /api/alerts/config/:id.
func (h *Handler) DeleteRuleConfig(c *gin.Context) {
	ruleID := c.Param("id")

	eng, ok := h.engine(c)
	if !ok {
		return
	}

	if err := eng.DeleteRule(c.Request.Context(), ruleID); err != nil {
		respondError(c, err)
		return
	}

	h.logger.Info("Alert rule deleted", "rule_id", ruleID)

	c.JSON(http.StatusOK, gin.H{"message": "Rule deleted successfully"})
}

// ListAlerts handles GET /api/alerts.
func (h *Handler) ListAlerts(c *gin.Context) {
	eng, ok := h.engine(c)
	if !ok {
		return
	}

	alerts := eng.ListAlerts()
	c.JSON(http.StatusOK, AlertsListResponse{
		Alerts: alerts,
		Total:  len(alerts),
	})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.serviceName,
		"version": h.serviceVersion,
	})
}

// ReadyCheck handles GET /ready.
func (h *Handler) ReadyCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
