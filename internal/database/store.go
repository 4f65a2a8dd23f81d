package database

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/sentiment-watchdog/internal/domain"
)

// Store composes the repositories into the engine's persistence
// interface.
type Store struct {
	messages *MessagesRepository
	rules    *RulesRepository
	alerts   *AlertsRepository
}

// NewStore creates a store over the given database connection.
func NewStore(db *sqlx.DB) *Store {
	return &Store{
		messages: NewMessagesRepository(db),
		rules:    NewRulesRepository(db),
		alerts:   NewAlertsRepository(db),
	}
}

// AppendMessage persists a classified message.
func (s *Store) AppendMessage(ctx context.Context, workspace string, msg *domain.Message) error {
	return s.messages.Append(ctx, workspace, msg)
}

// ListMessages returns a workspace's messages in ascending ingest order.
func (s *Store) ListMessages(ctx context.Context, workspace string) ([]domain.Message, error) {
	return s.messages.List(ctx, workspace)
}

// UpsertRule persists an alert rule.
func (s *Store) UpsertRule(ctx context.Context, workspace string, rule *domain.AlertRule) error {
	return s.rules.Upsert(ctx, workspace, rule)
}

// DeleteRule removes an alert rule.
func (s *Store) DeleteRule(ctx context.Context, workspace, ruleID string) error {
	return s.rules.Delete(ctx, workspace, ruleID)
}

// ListRules returns a workspace's alert rules.
func (s *Store) ListRules(ctx context.Context, workspace string) ([]domain.AlertRule, error) {
	return s.rules.List(ctx, workspace)
}

// AppendAlert persists a fired alert.
func (s *Store) AppendAlert(ctx context.Context, workspace string, alert *domain.Alert) error {
	return s.alerts.Append(ctx, workspace, alert)
}

// SetAlertDelivery records the delivery outcome for an alert.
func (s *Store) SetAlertDelivery(ctx context.Context, workspace, alertID string, status domain.DeliveryStatus) error {
	return s.alerts.SetDelivery(ctx, workspace, alertID, status)
}

// ListAlerts returns a workspace's alerts in ascending trigger order.
func (s *Store) ListAlerts(ctx context.Context, workspace string) ([]domain.Alert, error) {
	return s.alerts.List(ctx, workspace)
}
