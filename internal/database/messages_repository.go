package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/sentiment-watchdog/internal/domain"
)

// MessagesRepository handles database operations for ingested messages.
type MessagesRepository struct {
	db *sqlx.DB
}

// NewMessagesRepository creates a new messages repository.
func NewMessagesRepository(db *sqlx.DB) *MessagesRepository {
	return &MessagesRepository{db: db}
}

// Append inserts a classified message.
func (r *MessagesRepository) Append(ctx context.Context, workspace string, msg *domain.Message) error {
	query := r.db.Rebind(`
		INSERT INTO messages (id, workspace, content, channel, emotions, score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(
		ctx,
		query,
		msg.ID,
		workspace,
		msg.Content,
		string(msg.Channel),
		joinEmotions(msg.Emotions),
		msg.Score,
		msg.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	return nil
}

// List retrieves all messages for a workspace in ascending ingest order.
func (r *MessagesRepository) List(ctx context.Context, workspace string) ([]domain.Message, error) {
	query := r.db.Rebind(`
		SELECT id, content, channel, emotions, score, created_at
		FROM messages
		WHERE workspace = ?
		ORDER BY created_at ASC, id ASC
	`)

	rows, err := r.db.QueryContext(ctx, query, workspace)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		var channel, emotions string
		if err = rows.Scan(&msg.ID, &msg.Content, &channel, &emotions, &msg.Score, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.Channel = domain.Channel(channel)
		msg.Emotions = splitEmotions(emotions)
		messages = append(messages, msg)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}

func joinEmotions(emotions []domain.Emotion) string {
	tags := make([]string, len(emotions))
	for i, emotion := range emotions {
		tags[i] = string(emotion)
	}
	return strings.Join(tags, ",")
}

func splitEmotions(joined string) []domain.Emotion {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	emotions := make([]domain.Emotion, len(parts))
	for i, part := range parts {
		emotions[i] = domain.Emotion(part)
	}
	return emotions
}
