package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/sentiment-watchdog/internal/domain"
)

// RulesRepository handles database operations for alert rules.
type RulesRepository struct {
	db *sqlx.DB
}

// NewRulesRepository creates a new rules repository.
func NewRulesRepository(db *sqlx.DB) *RulesRepository {
	return &RulesRepository{db: db}
}

// Upsert inserts the rule or replaces an existing row with the same id.
func (r *RulesRepository) Upsert(ctx context.Context, workspace string, rule *domain.AlertRule) error {
	query := r.db.Rebind(`
		INSERT INTO alert_rules (id, workspace, emotion, threshold, time_window, enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			emotion = excluded.emotion,
			threshold = excluded.threshold,
			time_window = excluded.time_window,
			enabled = excluded.enabled,
			updated_at = excluded.updated_at
	`)

	_, err := r.db.ExecContext(
		ctx,
		query,
		rule.ID,
		workspace,
		string(rule.Emotion),
		rule.Threshold,
		rule.TimeWindow,
		rule.Enabled,
		rule.CreatedAt,
		rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert rule: %w", err)
	}

	return nil
}

// Delete removes a rule.
func (r *RulesRepository) Delete(ctx context.Context, workspace, ruleID string) error {
	query := r.db.Rebind(`DELETE FROM alert_rules WHERE workspace = ? AND id = ?`)

	result, err := r.db.ExecContext(ctx, query, workspace, ruleID)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("rule not found: %s", ruleID)
	}

	return nil
}

// List retrieves all rules for a workspace in creation order.
func (r *RulesRepository) List(ctx context.Context, workspace string) ([]domain.AlertRule, error) {
	query := r.db.Rebind(`
		SELECT id, emotion, threshold, time_window, enabled, created_at, updated_at
		FROM alert_rules
		WHERE workspace = ?
		ORDER BY created_at ASC, id ASC
	`)

	rows, err := r.db.QueryContext(ctx, query, workspace)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var rules []domain.AlertRule
	for rows.Next() {
		var rule domain.AlertRule
		var emotion string
		if err = rows.Scan(
			&rule.ID,
			&emotion,
			&rule.Threshold,
			&rule.TimeWindow,
			&rule.Enabled,
			&rule.CreatedAt,
			&rule.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rule.Emotion = domain.Emotion(emotion)
		rules = append(rules, rule)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rules: %w", err)
	}

	return rules, nil
}
