package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/samriddhi-edu/asksamriddhi-api/internal/models"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/repository"
	apperrors "github.com/samriddhi-edu/asksamriddhi-api/pkg/errors"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/httpclient"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/logger"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/metrics"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/storage"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/trigger"
	"go.uber.org/zap"
)

var (
	ErrInvalidDocument  = apperrors.InvalidInputError("document", "malformed or unsupported")
	ErrStorageDisabled  = errors.New("document storage is not configured")
	ErrDocumentNotFound = apperrors.NotFoundError("document")
)

const (
	documentPrefix     = "knowledge-base/"
	recentSessionLimit = 20
)

// DocumentStorage abstracts the object store holding knowledge-base documents.
type DocumentStorage interface {
	UploadDocument(ctx context.Context, key, contentType string, data []byte) (string, error)
	ListDocuments(ctx context.Context, prefix string) ([]storage.Document, error)
	DeleteDocument(ctx context.Context, key string) error
	ValidateDocumentType(contentType string) error
	ValidateDocumentSize(data []byte) error
}

// AdminService backs the admin dashboard: aggregates, roster listings
// and knowledge-base document management.
type AdminService struct {
	stats            repository.StatsDataSource
	documents        DocumentStorage
	ingestWebhookURL string
	httpClient       httpclient.Client
}

// NewAdminService creates a new AdminService. documents may be nil when
// no object store is configured; document operations then fail cleanly.
func NewAdminService(stats repository.StatsDataSource, documents DocumentStorage, ingestWebhookURL string, httpClient httpclient.Client) *AdminService {
	return &AdminService{
		stats:            stats,
		documents:        documents,
		ingestWebhookURL: ingestWebhookURL,
		httpClient:       httpClient,
	}
}

// GetDashboardStats aggregates the counters shown on the dashboard
func (s *AdminService) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	students, err := s.stats.CountStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count students: %w", err)
	}
	teachers, err := s.stats.CountTeachers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count teachers: %w", err)
	}
	sessions, err := s.stats.CountChatSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count chat sessions: %w", err)
	}
	messages, err := s.stats.CountChatMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count chat messages: %w", err)
	}

	return &models.DashboardStats{
		TotalStudents:     students,
		TotalTeachers:     teachers,
		TotalChatSessions: sessions,
		TotalChatMessages: messages,
	}, nil
}

// ListStudents returns the full student roster
func (s *AdminService) ListStudents(ctx context.Context) ([]models.StudentRecord, error) {
	return s.stats.ListStudents(ctx)
}

// ListTeachers returns the full teacher roster
func (s *AdminService) ListTeachers(ctx context.Context) ([]models.TeacherRecord, error) {
	return s.stats.ListTeachers(ctx)
}

// ListRecentSessions returns the most recently active chat sessions
// across all users.
func (s *AdminService) ListRecentSessions(ctx context.Context) ([]models.ChatSession, error) {
	return s.stats.ListRecentChatSessions(ctx, recentSessionLimit)
}

// UploadDocument validates and stores a knowledge-base document, then
// pokes the ingest webhook so the query router re-indexes.
func (s *AdminService) UploadDocument(ctx context.Context, req *models.UploadDocumentRequest) (*models.DocumentInfo, error) {
	if s.documents == nil {
		return nil, ErrStorageDisabled
	}

	data, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		metrics.DocumentUploads.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: content is not valid base64", ErrInvalidDocument)
	}

	if err := s.documents.ValidateDocumentType(req.ContentType); err != nil {
		metrics.DocumentUploads.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: %s", ErrInvalidDocument, err.Error())
	}
	if err := s.documents.ValidateDocumentSize(data); err != nil {
		metrics.DocumentUploads.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: %s", ErrInvalidDocument, err.Error())
	}

	key := documentPrefix + sanitizeFileName(req.FileName)
	if _, err := s.documents.UploadDocument(ctx, key, req.ContentType, data); err != nil {
		metrics.DocumentUploads.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.DocumentUploads.WithLabelValues("success").Inc()

	trigger.CallAsync(s.ingestWebhookURL, key, s.httpClient)

	logger.Info("Knowledge-base document uploaded",
		zap.String("key", key),
		zap.Int("size_bytes", len(data)))

	return &models.DocumentInfo{
		Key:          key,
		SizeBytes:    int64(len(data)),
		LastModified: time.Now(),
	}, nil
}

// ListDocuments returns all stored knowledge-base documents
func (s *AdminService) ListDocuments(ctx context.Context) ([]models.DocumentInfo, error) {
	if s.documents == nil {
		return nil, ErrStorageDisabled
	}

	stored, err := s.documents.ListDocuments(ctx, documentPrefix)
	if err != nil {
		return nil, err
	}

	docs := make([]models.DocumentInfo, 0, len(stored))
	for _, d := range stored {
		docs = append(docs, models.DocumentInfo{
			Key:          d.Key,
			SizeBytes:    d.SizeBytes,
			LastModified: d.LastModified,
		})
	}
	return docs, nil
}

// DeleteDocument removes a document and pokes the ingest webhook
func (s *AdminService) DeleteDocument(ctx context.Context, key string) error {
	if s.documents == nil {
		return ErrStorageDisabled
	}
	if !strings.HasPrefix(key, documentPrefix) {
		return ErrDocumentNotFound
	}

	if err := s.documents.DeleteDocument(ctx, key); err != nil {
		return err
	}

	trigger.CallAsync(s.ingestWebhookURL, key, s.httpClient)
	return nil
}

// sanitizeFileName strips path components so uploads cannot escape the
// document prefix.
func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.ReplaceAll(name, " ", "_")
}
