package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is portable across PostgreSQL and SQLite: TEXT keys, integer
// scores, timestamps stored as TIMESTAMP. Emotions are stored as a
// comma-joined tag list.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS messages (
		id         TEXT PRIMARY KEY,
		workspace  TEXT NOT NULL,
		content    TEXT NOT NULL,
		channel    TEXT NOT NULL,
		emotions   TEXT NOT NULL,
		score      INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_workspace_created
		ON messages (workspace, created_at)`,

	`CREATE TABLE IF NOT EXISTS alert_rules (
		id          TEXT PRIMARY KEY,
		workspace   TEXT NOT NULL,
		emotion     TEXT NOT NULL,
		threshold   INTEGER NOT NULL,
		time_window INTEGER NOT NULL,
		enabled     BOOLEAN NOT NULL,
		created_at  TIMESTAMP NOT NULL,
		updated_at  TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_alert_rules_workspace
		ON alert_rules (workspace)`,

	`CREATE TABLE IF NOT EXISTS alerts (
		id            TEXT PRIMARY KEY,
		workspace     TEXT NOT NULL,
		rule_id       TEXT NOT NULL,
		emotion       TEXT NOT NULL,
		message_count INTEGER NOT NULL,
		time_window   INTEGER NOT NULL,
		summary       TEXT NOT NULL,
		triggered_at  TIMESTAMP NOT NULL,
		delivery      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_alerts_workspace_triggered
		ON alerts (workspace, triggered_at)`,
}

// Migrate creates the watchdog tables if they do not exist.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
