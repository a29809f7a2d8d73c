package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/samriddhi-edu/asksamriddhi-api/internal/models"
	apperrors "github.com/samriddhi-edu/asksamriddhi-api/pkg/errors"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/logger"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/metrics"
	"go.uber.org/zap"
)

// InsertChatMessage appends a message to a session
func (c *Client) InsertChatMessage(ctx context.Context, message *models.ChatMessage) (*models.ChatMessage, error) {
	start := time.Now()
	operation := "insertChatMessage"

	query := `
		INSERT INTO chat_messages (session_id, message_text, sender)
		VALUES ($1, $2, $3)
		RETURNING id, session_id, message_text, sender, created_at`

	var result models.ChatMessage
	var sender string
	err := c.pool.QueryRow(ctx, query,
		message.SessionID, message.MessageText, string(message.Sender),
	).Scan(&result.ID, &result.SessionID, &result.MessageText, &sender, &result.CreatedAt)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration,
			zap.Error(err),
			zap.String("session_id", message.SessionID))
		return nil, apperrors.PersistenceError("insert chat message", err)
	}
	result.Sender = models.Sender(sender)

	recordMetrics(operation, "success", duration)
	return &result, nil
}

// ListChatMessagesBySession fetches all messages of a session in insert order
func (c *Client) ListChatMessagesBySession(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	start := time.Now()
	operation := "listChatMessagesBySession"

	query := `
		SELECT id, session_id, message_text, sender, created_at
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := c.pool.Query(ctx, query, sessionID)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	defer rows.Close()

	messages := []models.ChatMessage{}
	for rows.Next() {
		var message models.ChatMessage
		var sender string
		if err := rows.Scan(&message.ID, &message.SessionID, &message.MessageText,
			&sender, &message.CreatedAt); err != nil {
			duration := metrics.MeasureDuration(start)
			recordMetrics(operation, "error", duration)
			return nil, fmt.Errorf("failed to scan chat message row: %w", err)
		}
		message.Sender = models.Sender(sender)
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("error iterating chat message rows: %w", err)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration,
		zap.String("session_id", sessionID),
		zap.Int("count", len(messages)))

	return messages, nil
}

// CountChatMessages returns the total number of persisted messages
func (c *Client) CountChatMessages(ctx context.Context) (int64, error) {
	start := time.Now()
	operation := "countChatMessages"

	var count int64
	err := c.pool.QueryRow(ctx, "SELECT COUNT(*) FROM chat_messages").Scan(&count)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return 0, fmt.Errorf("failed to count chat messages: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return count, nil
}
