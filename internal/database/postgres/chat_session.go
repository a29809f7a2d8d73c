package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/models"
	apperrors "github.com/samriddhi-edu/asksamriddhi-api/pkg/errors"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/logger"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/metrics"
	"go.uber.org/zap"
)

// InsertChatSession creates a chat session row. If the id already exists
// the existing row is returned untouched, so concurrent creates converge
// on one session.
func (c *Client) InsertChatSession(ctx context.Context, session *models.ChatSession) (*models.ChatSession, error) {
	start := time.Now()
	operation := "insertChatSession"

	query := `
		INSERT INTO chat_sessions (id, user_id, user_email, user_role, title)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET id = chat_sessions.id
		RETURNING id, user_id, user_email, user_role, title, created_at, updated_at`

	var result models.ChatSession
	var role string
	err := c.pool.QueryRow(ctx, query,
		session.ID, session.UserID, session.UserEmail, session.UserRole.String(), session.Title,
	).Scan(&result.ID, &result.UserID, &result.UserEmail, &role, &result.Title, &result.CreatedAt, &result.UpdatedAt)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration,
			zap.Error(err),
			zap.String("session_id", session.ID))
		return nil, apperrors.PersistenceError("insert chat session", err)
	}
	result.UserRole = models.Role(role)

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration,
		zap.String("session_id", result.ID),
		zap.String("user_role", role))

	return &result, nil
}

// GetChatSessionByID fetches a single chat session
func (c *Client) GetChatSessionByID(ctx context.Context, id string) (*models.ChatSession, error) {
	start := time.Now()
	operation := "getChatSessionByID"

	query := `
		SELECT id, user_id, user_email, user_role, title, created_at, updated_at
		FROM chat_sessions
		WHERE id = $1`

	var session models.ChatSession
	var role string
	err := c.pool.QueryRow(ctx, query, id).Scan(
		&session.ID, &session.UserID, &session.UserEmail, &role,
		&session.Title, &session.CreatedAt, &session.UpdatedAt)

	duration := metrics.MeasureDuration(start)

	if err == pgx.ErrNoRows {
		recordMetrics(operation, "not_found", duration)
		return nil, fmt.Errorf("chat session %s: %w", id, pgx.ErrNoRows)
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query chat session: %w", err)
	}
	session.UserRole = models.Role(role)

	recordMetrics(operation, "success", duration)
	return &session, nil
}

// ListChatSessionsByUser fetches all sessions owned by a user, newest first
func (c *Client) ListChatSessionsByUser(ctx context.Context, userID string) ([]models.ChatSession, error) {
	start := time.Now()
	operation := "listChatSessionsByUser"

	query := `
		SELECT id, user_id, user_email, user_role, title, created_at, updated_at
		FROM chat_sessions
		WHERE user_id = $1
		ORDER BY updated_at DESC`

	rows, err := c.pool.Query(ctx, query, userID)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query chat sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.ChatSession{}
	for rows.Next() {
		var session models.ChatSession
		var role string
		if err := rows.Scan(&session.ID, &session.UserID, &session.UserEmail, &role,
			&session.Title, &session.CreatedAt, &session.UpdatedAt); err != nil {
			duration := metrics.MeasureDuration(start)
			recordMetrics(operation, "error", duration)
			return nil, fmt.Errorf("failed to scan chat session row: %w", err)
		}
		session.UserRole = models.Role(role)
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("error iterating chat session rows: %w", err)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration, zap.Int("count", len(sessions)))

	return sessions, nil
}

// ListRecentChatSessions fetches the most recently active sessions across
// all users, for the admin dashboard.
func (c *Client) ListRecentChatSessions(ctx context.Context, limit int) ([]models.ChatSession, error) {
	start := time.Now()
	operation := "listRecentChatSessions"

	query := `
		SELECT id, user_id, user_email, user_role, title, created_at, updated_at
		FROM chat_sessions
		ORDER BY updated_at DESC
		LIMIT $1`

	rows, err := c.pool.Query(ctx, query, limit)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query recent chat sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.ChatSession{}
	for rows.Next() {
		var session models.ChatSession
		var role string
		if err := rows.Scan(&session.ID, &session.UserID, &session.UserEmail, &role,
			&session.Title, &session.CreatedAt, &session.UpdatedAt); err != nil {
			duration := metrics.MeasureDuration(start)
			recordMetrics(operation, "error", duration)
			return nil, fmt.Errorf("failed to scan chat session row: %w", err)
		}
		session.UserRole = models.Role(role)
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("error iterating chat session rows: %w", err)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)

	return sessions, nil
}

// UpdateChatSessionTitle replaces a session title
func (c *Client) UpdateChatSessionTitle(ctx context.Context, id, title string) error {
	start := time.Now()
	operation := "updateChatSessionTitle"

	tag, err := c.pool.Exec(ctx,
		"UPDATE chat_sessions SET title = $2, updated_at = NOW() WHERE id = $1",
		id, title)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return apperrors.PersistenceError("update chat session title", err)
	}
	if tag.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return fmt.Errorf("chat session %s: %w", id, pgx.ErrNoRows)
	}

	recordMetrics(operation, "success", duration)
	return nil
}

// TouchChatSession bumps updated_at so the session sorts to the top
func (c *Client) TouchChatSession(ctx context.Context, id string) error {
	start := time.Now()
	operation := "touchChatSession"

	_, err := c.pool.Exec(ctx,
		"UPDATE chat_sessions SET updated_at = NOW() WHERE id = $1", id)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return apperrors.PersistenceError("touch chat session", err)
	}

	recordMetrics(operation, "success", duration)
	return nil
}

// DeleteChatSession removes a session. Messages go with it via the
// foreign key cascade.
func (c *Client) DeleteChatSession(ctx context.Context, id string) error {
	start := time.Now()
	operation := "deleteChatSession"

	tag, err := c.pool.Exec(ctx, "DELETE FROM chat_sessions WHERE id = $1", id)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return apperrors.PersistenceError("delete chat session", err)
	}
	if tag.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return fmt.Errorf("chat session %s: %w", id, pgx.ErrNoRows)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration, zap.String("session_id", id))
	return nil
}

// CountChatSessions returns the total number of persisted sessions
func (c *Client) CountChatSessions(ctx context.Context) (int64, error) {
	start := time.Now()
	operation := "countChatSessions"

	var count int64
	err := c.pool.QueryRow(ctx, "SELECT COUNT(*) FROM chat_sessions").Scan(&count)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return 0, fmt.Errorf("failed to count chat sessions: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return count, nil
}
