package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/models"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/logger"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/metrics"
	"go.uber.org/zap"
)

// GetAccountByEmail fetches login credentials for an email
func (c *Client) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	start := time.Now()
	operation := "getAccountByEmail"

	query := `
		SELECT id, email, password_hash, full_name, created_at
		FROM users
		WHERE LOWER(email) = LOWER($1)`

	var account models.Account
	err := c.pool.QueryRow(ctx, query, email).Scan(
		&account.ID, &account.Email, &account.PasswordHash,
		&account.FullName, &account.CreatedAt)

	duration := metrics.MeasureDuration(start)

	if err == pgx.ErrNoRows {
		recordMetrics(operation, "not_found", duration)
		return nil, fmt.Errorf("account %s: %w", email, pgx.ErrNoRows)
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query account: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return &account, nil
}
