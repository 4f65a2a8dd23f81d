package engine

import (
	"context"

	"github.com/jonesrussell/sentiment-watchdog/internal/domain"
)

// Store is the injectable persistence collaborator. The engine is the
// source of truth for in-memory state; the store provides durability with
// append/list/upsert semantics matching the domain entities. A nil Store
// leaves the engine purely in-memory.
type Store interface {
	AppendMessage(ctx context.Context, workspace string, msg *domain.Message) error
	// ListMessages returns messages in ascending ingest order.
	ListMessages(ctx context.Context, workspace string) ([]domain.Message, error)

	UpsertRule(ctx context.Context, workspace string, rule *domain.AlertRule) error
	DeleteRule(ctx context.Context, workspace, ruleID string) error
	ListRules(ctx context.Context, workspace string) ([]domain.AlertRule, error)

	AppendAlert(ctx context.Context, workspace string, alert *domain.Alert) error
	SetAlertDelivery(ctx context.Context, workspace, alertID string, status domain.DeliveryStatus) error
	// ListAlerts returns alerts in ascending trigger order.
	ListAlerts(ctx context.Context, workspace string) ([]domain.Alert, error)
}
