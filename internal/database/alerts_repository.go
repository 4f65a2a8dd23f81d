package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/sentiment-watchdog/internal/domain"
)

// AlertsRepository handles database operations for fired alerts.
type AlertsRepository struct {
	db *sqlx.DB
}

// NewAlertsRepository creates a new alerts repository.
func NewAlertsRepository(db *sqlx.DB) *AlertsRepository {
	return &AlertsRepository{db: db}
}

// Append inserts a fired alert.
func (r *AlertsRepository) Append(ctx context.Context, workspace string, alert *domain.Alert) error {
	query := r.db.Rebind(`
		INSERT INTO alerts (id, workspace, rule_id, emotion, message_count, time_window, summary, triggered_at, delivery)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(
		ctx,
		query,
		alert.ID,
		workspace,
		alert.RuleID,
		string(alert.Emotion),
		alert.MessageCount,
		alert.TimeWindow,
		alert.Summary,
		alert.TriggeredAt,
		string(alert.Delivery),
	)
	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}

	return nil
}

// SetDelivery records the notification delivery outcome for an alert.
func (r *AlertsRepository) SetDelivery(ctx context.Context, workspace, alertID string, status domain.DeliveryStatus) error {
	query := r.db.Rebind(`UPDATE alerts SET delivery = ? WHERE workspace = ? AND id = ?`)

	result, err := r.db.ExecContext(ctx, query, string(status), workspace, alertID)
	if err != nil {
		return fmt.Errorf("failed to update alert delivery: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("alert not found: %s", alertID)
	}

	return nil
}

// List retrieves all alerts for a workspace in ascending trigger order.
func (r *AlertsRepository) List(ctx context.Context, workspace string) ([]domain.Alert, error) {
	query := r.db.Rebind(`
		SELECT id, rule_id, emotion, message_count, time_window, summary, triggered_at, delivery
		FROM alerts
		WHERE workspace = ?
		ORDER BY triggered_at ASC, id ASC
	`)

	rows, err := r.db.QueryContext(ctx, query, workspace)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var alerts []domain.Alert
	for rows.Next() {
		var alert domain.Alert
		var emotion, delivery string
		if err = rows.Scan(
			&alert.ID,
			&alert.RuleID,
			&emotion,
			&alert.MessageCount,
			&alert.TimeWindow,
			&alert.Summary,
			&alert.TriggeredAt,
			&delivery,
		); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alert.Emotion = domain.Emotion(emotion)
		alert.Delivery = domain.DeliveryStatus(delivery)
		alerts = append(alerts, alert)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alerts: %w", err)
	}

	return alerts, nil
}
