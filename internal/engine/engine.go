// Package engine implements the sentiment watchdog core: message ingest,
// rolling aggregation, alert rule evaluation, and root-cause summarization
// for one monitored workspace.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonesrussell/sentiment-watchdog/internal/classifier"
	"github.com/jonesrussell/sentiment-watchdog/internal/domain"
	"github.com/jonesrussell/sentiment-watchdog/internal/logging"
	"github.com/jonesrussell/sentiment-watchdog/internal/notify"
	"github.com/jonesrussell/sentiment-watchdog/internal/telemetry"
)

// ErrRuleNotFound is returned when an operation references a rule id that
// does not exist in the workspace.
var ErrRuleNotFound = errors.New("rule not found")

// Config holds the collaborators for one workspace engine. Classifier is
// required; everything else is optional (nil Store keeps the engine purely
// in-memory, nil Notifier marks alert delivery as skipped).
type Config struct {
	Workspace  string
	Classifier classifier.Classifier
	Store      Store
	Notifier   notify.Notifier
	Insight    InsightProvider
	Telemetry  *telemetry.Provider
	Logger     logging.Logger
	// Clock is swappable for tests; defaults to time.Now.
	Clock func() time.Time
}

// Engine owns the full in-memory state of one workspace. All mutation
// (ingest, rule changes) is serialized by the write lock so stats and
// alert-firing decisions always see the same view of history; snapshot
// reads take the read lock and observe either the pre- or post-update
// state atomically. Engines for different workspaces are fully independent.
type Engine struct {
	workspace string

	mu            sync.RWMutex
	history       []domain.Message
	lastTimestamp time.Time
	agg           *Aggregator
	rules         *RuleEngine
	alerts        []domain.Alert

	classifier classifier.Classifier
	store      Store
	notifier   notify.Notifier
	summarizer *Summarizer
	telemetry  *telemetry.Provider
	logger     logging.Logger
	clock      func() time.Time
}

// New creates an engine for one workspace.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Engine{
		workspace:  cfg.Workspace,
		agg:        NewAggregator(),
		rules:      NewRuleEngine(),
		classifier: cfg.Classifier,
		store:      cfg.Store,
		notifier:   cfg.Notifier,
		summarizer: NewSummarizer(cfg.Insight, logger),
		telemetry:  cfg.Telemetry,
		logger:     logger.With("workspace", cfg.Workspace),
		clock:      clock,
	}
}

// Hydrate loads persisted state from the store: rules, message history
// (rebuilding the rolling aggregates), and alert history. No alerts are
// re-fired for past windows.
func (e *Engine) Hydrate(ctx context.Context) error {
	if e.store == nil {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	rules, err := e.store.ListRules(ctx, e.workspace)
	if err != nil {
		return fmt.Errorf("hydrate rules: %w", err)
	}
	for i := range rules {
		rule := rules[i]
		e.rules.Upsert(&rule)
	}

	messages, err := e.store.ListMessages(ctx, e.workspace)
	if err != nil {
		return fmt.Errorf("hydrate messages: %w", err)
	}
	for i := range messages {
		e.agg.Update(&messages[i])
	}
	e.history = messages
	if len(messages) > 0 {
		e.lastTimestamp = messages[len(messages)-1].Timestamp
	}

	alerts, err := e.store.ListAlerts(ctx, e.workspace)
	if err != nil {
		return fmt.Errorf("hydrate alerts: %w", err)
	}
	e.alerts = alerts

	e.logger.Info("workspace hydrated",
		"messages", len(messages),
		"rules", len(rules),
		"alerts", len(alerts),
	)
	return nil
}

// AddMessage validates and ingests one customer message: classification,
// identity and timestamp assignment, aggregate update, and rule
// evaluation. Ingest is all-or-nothing; a validation or classification
// failure leaves every aggregate untouched.
func (e *Engine) AddMessage(ctx context.Context, content string, channel domain.Channel) (domain.Message, error) {
	ctx, span := e.startSpan(ctx, "engine.AddMessage")
	defer span.End()

	if strings.TrimSpace(content) == "" {
		e.countIngestFailure("validation")
		return domain.Message{}, domain.NewValidationError("content", "must not be empty")
	}
	if !domain.ValidChannel(channel) {
		e.countIngestFailure("validation")
		return domain.Message{}, domain.NewValidationError("channel", "must be one of chat, email, ticket")
	}

	// Classify outside the lock: the classifier may be slow and must not
	// stall snapshot readers or other work on this workspace.
	classifyStart := time.Now()
	result, err := e.classifier.Classify(ctx, content)
	e.observeClassification(time.Since(classifyStart), err)
	if err != nil {
		var cerr *domain.ClassificationError
		if errors.As(err, &cerr) {
			return domain.Message{}, err
		}
		return domain.Message{}, domain.NewClassificationError(err)
	}

	e.mu.Lock()
	now := e.clock()
	// Timestamps are monotonically non-decreasing in ingest order;
	// collisions are allowed.
	if now.Before(e.lastTimestamp) {
		now = e.lastTimestamp
	}

	msg := domain.Message{
		ID:        uuid.NewString(),
		Content:   content,
		Channel:   channel,
		Emotions:  result.Emotions,
		Score:     result.Score,
		Timestamp: now,
	}

	if e.store != nil {
		if err := e.store.AppendMessage(ctx, e.workspace, &msg); err != nil {
			e.mu.Unlock()
			e.countIngestFailure("storage")
			return domain.Message{}, fmt.Errorf("persist message: %w", err)
		}
	}

	e.history = append(e.history, msg)
	e.lastTimestamp = now
	e.agg.Update(&msg)

	evalStart := time.Now()
	fired := e.rules.Evaluate(now, e.history)
	e.observeRuleEvaluation(time.Since(evalStart))

	for i := range fired {
		alert := &fired[i]
		if e.store != nil {
			if err := e.store.AppendAlert(ctx, e.workspace, alert); err != nil {
				e.logger.Error("failed to persist alert", "alert_id", alert.ID, "error", err)
			}
		}
		e.alerts = append(e.alerts, *alert)
	}
	e.mu.Unlock()

	e.countIngest(channel)
	span.SetAttributes(
		attribute.String("channel", string(channel)),
		attribute.Int("alerts_fired", len(fired)),
	)

	for i := range fired {
		e.countAlert(fired[i].Emotion)
		e.logger.Info("alert fired",
			"alert_id", fired[i].ID,
			"emotion", fired[i].Emotion,
			"message_count", fired[i].MessageCount,
		)
		// Fire-and-forget: delivery must not block or fail ingest.
		go e.dispatch(fired[i])
	}

	return msg, nil
}

// dispatch delivers one alert notification and records the outcome on the
// alert. Delivery failures never invalidate the alert record.
func (e *Engine) dispatch(alert domain.Alert) {
	status := domain.DeliverySkipped
	if e.notifier != nil {
		err := e.notifier.Notify(context.Background(), &alert)
		switch {
		case err == nil:
			status = domain.DeliverySent
			e.countNotification(true)
		case errors.Is(err, notify.ErrDisabled):
			status = domain.DeliverySkipped
		default:
			status = domain.DeliveryFailed
			e.countNotification(false)
			e.logger.Error("alert notification failed", "alert_id", alert.ID, "error", err)
		}
	}

	e.mu.Lock()
	for i := range e.alerts {
		if e.alerts[i].ID == alert.ID {
			e.alerts[i].Delivery = status
			break
		}
	}
	e.mu.Unlock()

	if e.store != nil {
		if err := e.store.SetAlertDelivery(context.Background(), e.workspace, alert.ID, status); err != nil {
			e.logger.Error("failed to record alert delivery", "alert_id", alert.ID, "error", err)
		}
	}
}

// Stats returns the current rolling aggregate without mutation.
func (e *Engine) Stats() domain.SentimentStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.agg.Snapshot()
}

// ListMessages returns the message history, most recent first.
func (e *Engine) ListMessages() []domain.Message {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]domain.Message, len(e.history))
	for i := range e.history {
		out[len(e.history)-1-i] = e.history[i]
	}
	return out
}

// ListAlerts returns the alert history, most recent first.
func (e *Engine) ListAlerts() []domain.Alert {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]domain.Alert, len(e.alerts))
	for i := range e.alerts {
		out[len(e.alerts)-1-i] = e.alerts[i]
	}
	return out
}

// ListRules returns the current alert rule collection.
func (e *Engine) ListRules() []domain.AlertRule {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rules := e.rules.Rules()
	out := make([]domain.AlertRule, 0, len(rules))
	for _, rule := range rules {
		out = append(out, *rule)
	}
	return out
}

// UpsertRule validates and saves a rule; a rule without an id is created
// implicitly. Changing a rule's parameters redefines it: history is
// re-evaluated against the new parameters on the next ingest, with no
// retroactive alerts for past windows.
func (e *Engine) UpsertRule(ctx context.Context, rule domain.AlertRule) (domain.AlertRule, error) {
	if err := rule.Validate(); err != nil {
		return domain.AlertRule{}, err
	}

	now := e.clock()
	if rule.ID == "" {
		rule.ID = uuid.NewString()
		rule.CreatedAt = now
	}
	rule.UpdatedAt = now

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.store != nil {
		if err := e.store.UpsertRule(ctx, e.workspace, &rule); err != nil {
			return domain.AlertRule{}, fmt.Errorf("persist rule: %w", err)
		}
	}
	e.rules.Upsert(&rule)

	e.logger.Info("alert rule saved",
		"rule_id", rule.ID,
		"emotion", rule.Emotion,
		"threshold", rule.Threshold,
		"time_window", rule.TimeWindow,
		"enabled", rule.Enabled,
	)
	return rule, nil
}

// DeleteRule removes a rule from the workspace.
func (e *Engine) DeleteRule(ctx context.Context, ruleID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.rules.Delete(ruleID) {
		return ErrRuleNotFound
	}
	if e.store != nil {
		if err := e.store.DeleteRule(ctx, e.workspace, ruleID); err != nil {
			return fmt.Errorf("delete rule: %w", err)
		}
	}
	return nil
}

// RuleState exposes a rule's evaluation state, mainly for diagnostics.
func (e *Engine) RuleState(ruleID string) RuleState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.rules.State(ruleID)
}

// Analyze runs root-cause analysis over the current negative messages,
// optionally restricted to one emotion. The snapshot is taken under the
// read lock; summarization itself runs outside it.
func (e *Engine) Analyze(ctx context.Context, emotionFilter domain.Emotion) (domain.Summary, error) {
	ctx, span := e.startSpan(ctx, "engine.Analyze")
	defer span.End()

	if emotionFilter != "" && !domain.ValidEmotion(emotionFilter) {
		return domain.Summary{}, domain.NewValidationError("emotion_filter", "unknown emotion tag")
	}

	e.mu.RLock()
	negatives := make([]domain.Message, 0)
	for i := len(e.history) - 1; i >= 0; i-- {
		msg := &e.history[i]
		if !msg.Negative() {
			continue
		}
		if emotionFilter != "" && !msg.HasEmotion(emotionFilter) {
			continue
		}
		negatives = append(negatives, *msg)
	}
	e.mu.RUnlock()

	return e.summarizer.Summarize(ctx, negatives)
}

func (e *Engine) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if e.telemetry == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return e.telemetry.Tracer.Start(ctx, name)
}

func (e *Engine) countIngest(channel domain.Channel) {
	if e.telemetry != nil {
		e.telemetry.Metrics.MessagesIngested.WithLabelValues(string(channel)).Inc()
	}
}

func (e *Engine) countIngestFailure(reason string) {
	if e.telemetry != nil {
		e.telemetry.Metrics.IngestFailures.WithLabelValues(reason).Inc()
	}
}

func (e *Engine) observeClassification(d time.Duration, err error) {
	if e.telemetry == nil {
		return
	}
	e.telemetry.Metrics.ClassificationDuration.Observe(d.Seconds())
	if err != nil {
		e.telemetry.Metrics.ClassificationFailures.Inc()
	}
}

func (e *Engine) observeRuleEvaluation(d time.Duration) {
	if e.telemetry != nil {
		e.telemetry.Metrics.RuleEvaluationDuration.Observe(d.Seconds())
	}
}

func (e *Engine) countAlert(emotion domain.Emotion) {
	if e.telemetry != nil {
		e.telemetry.Metrics.AlertsFired.WithLabelValues(string(emotion)).Inc()
	}
}

func (e *Engine) countNotification(ok bool) {
	if e.telemetry == nil {
		return
	}
	if ok {
		e.telemetry.Metrics.NotificationsSent.Inc()
	} else {
		e.telemetry.Metrics.NotificationsFailed.Inc()
	}
}
