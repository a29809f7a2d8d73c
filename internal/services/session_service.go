package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/models"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/repository"
	apperrors "github.com/samriddhi-edu/asksamriddhi-api/pkg/errors"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/logger"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	ErrSessionNotFound = apperrors.NotFoundError("chat session")
	ErrNotSessionOwner = apperrors.AccessDeniedError("session belongs to another user")
	ErrInvalidSender   = apperrors.InvalidInputError("sender", "must be user or bot")
)

const asyncWriteTimeout = 10 * time.Second

// SessionService owns chat session and message persistence.
//
// Sessions with a guest-/local- id prefix never touch storage: every
// operation on them is a no-op that succeeds. Asynchronous writes report
// their outcome on the Results channel instead of failing silently.
type SessionService struct {
	chats   repository.ChatDataSource
	group   singleflight.Group
	results chan models.PersistenceResult
}

// NewSessionService creates a new SessionService
func NewSessionService(chats repository.ChatDataSource) *SessionService {
	return &SessionService{
		chats:   chats,
		results: make(chan models.PersistenceResult, 64),
	}
}

// Results delivers the outcomes of asynchronous persistence writes.
// Consume it from a single goroutine; entries are dropped (with a log
// line) if nobody reads.
func (s *SessionService) Results() <-chan models.PersistenceResult {
	return s.results
}

// CreateOrGetSession creates a session, or returns the existing one when
// the id is already taken. Two near-simultaneous sends for the same new
// session collapse into a single insert.
func (s *SessionService) CreateOrGetSession(ctx context.Context, owner *models.UserInfo, sessionID, firstMessage string) (*models.ChatSession, error) {
	title := GenerateChatTitle(firstMessage)

	if models.IsEphemeralSessionID(sessionID) {
		// Client-only session, lives in the caller's memory
		now := time.Now()
		return &models.ChatSession{
			ID:        sessionID,
			UserID:    owner.Email,
			UserEmail: owner.Email,
			UserRole:  owner.Role,
			Title:     title,
			CreatedAt: now,
			UpdatedAt: now,
		}, nil
	}

	result, err, shared := s.group.Do(sessionID, func() (interface{}, error) {
		return s.chats.InsertChatSession(ctx, &models.ChatSession{
			ID:        sessionID,
			UserID:    owner.Email,
			UserEmail: owner.Email,
			UserRole:  owner.Role,
			Title:     title,
		})
	})
	if err != nil {
		return nil, err
	}
	if !shared {
		metrics.ChatSessionsCreated.WithLabelValues(owner.Role.String()).Inc()
	}

	return result.(*models.ChatSession), nil
}

// GetSession fetches a session by id
func (s *SessionService) GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	if models.IsEphemeralSessionID(sessionID) {
		return nil, ErrSessionNotFound
	}

	session, err := s.chats.GetChatSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

// GetOwnedSession fetches a session and checks it belongs to the user
func (s *SessionService) GetOwnedSession(ctx context.Context, sessionID, userEmail string) (*models.ChatSession, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userEmail {
		return nil, ErrNotSessionOwner
	}
	return session, nil
}

// ListSessions returns the user's sessions, most recently active first
func (s *SessionService) ListSessions(ctx context.Context, userEmail string) ([]models.ChatSession, error) {
	return s.chats.ListChatSessionsByUser(ctx, userEmail)
}

// ListMessages returns a session's messages oldest first. A missing or
// ephemeral session yields an empty slice, not an error; callers that
// care about existence check the session separately.
func (s *SessionService) ListMessages(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	if models.IsEphemeralSessionID(sessionID) {
		return []models.ChatMessage{}, nil
	}
	return s.chats.ListChatMessagesBySession(ctx, sessionID)
}

// AppendMessage stores a message and bumps the session's activity time
func (s *SessionService) AppendMessage(ctx context.Context, sessionID, text string, sender models.Sender) (*models.ChatMessage, error) {
	if !sender.IsValid() {
		return nil, ErrInvalidSender
	}

	if models.IsEphemeralSessionID(sessionID) {
		// Not persisted, echo back so the caller can render it
		return &models.ChatMessage{
			SessionID:   sessionID,
			MessageText: text,
			Sender:      sender,
			CreatedAt:   time.Now(),
		}, nil
	}

	message, err := s.chats.InsertChatMessage(ctx, &models.ChatMessage{
		SessionID:   sessionID,
		MessageText: text,
		Sender:      sender,
	})
	if err != nil {
		metrics.ChatMessagesAppended.WithLabelValues(string(sender), "error").Inc()
		return nil, err
	}
	metrics.ChatMessagesAppended.WithLabelValues(string(sender), "success").Inc()

	if err := s.chats.TouchChatSession(ctx, sessionID); err != nil {
		// Sorting staleness only, the message itself is stored
		logger.Warn("Failed to bump session activity",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}

	return message, nil
}

// AppendMessageAsync stores a message without blocking the caller. The
// outcome lands on the Results channel.
func (s *SessionService) AppendMessageAsync(sessionID, text string, sender models.Sender) {
	if sessionID == "" || models.IsEphemeralSessionID(sessionID) {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncWriteTimeout)
		defer cancel()

		_, err := s.AppendMessage(ctx, sessionID, text, sender)
		s.publish(models.PersistenceResult{
			Operation: "append_message",
			SessionID: sessionID,
			Err:       err,
		})
	}()
}

// RenameSession replaces a session title and bumps updatedAt
func (s *SessionService) RenameSession(ctx context.Context, sessionID, title string) error {
	if models.IsEphemeralSessionID(sessionID) {
		return nil
	}

	err := s.chats.UpdateChatSessionTitle(ctx, sessionID, title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}

// ApplySuggestedTitle replaces the session title with a backend-suggested
// one, but only when the current title is a generic placeholder.
func (s *SessionService) ApplySuggestedTitle(ctx context.Context, sessionID, suggested string) {
	if suggested == "" || sessionID == "" || models.IsEphemeralSessionID(sessionID) {
		return
	}

	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		metrics.TitleReplacements.WithLabelValues("error").Inc()
		return
	}
	if !IsGenericTitle(session.Title) {
		metrics.TitleReplacements.WithLabelValues("skipped").Inc()
		return
	}

	if err := s.RenameSession(ctx, sessionID, suggested); err != nil {
		logger.Warn("Failed to apply suggested title",
			zap.String("session_id", sessionID),
			zap.Error(err))
		metrics.TitleReplacements.WithLabelValues("error").Inc()
		return
	}
	metrics.TitleReplacements.WithLabelValues("success").Inc()
}

// DeleteSession removes a session and its messages
func (s *SessionService) DeleteSession(ctx context.Context, sessionID string) error {
	if models.IsEphemeralSessionID(sessionID) {
		return nil
	}

	err := s.chats.DeleteChatSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}

func (s *SessionService) publish(result models.PersistenceResult) {
	select {
	case s.results <- result:
	default:
		logger.Warn("Persistence result channel full, dropping result",
			zap.String("operation", result.Operation),
			zap.String("session_id", result.SessionID),
			zap.Error(result.Err))
	}
}
