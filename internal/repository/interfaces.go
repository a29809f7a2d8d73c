package repository

import (
	"context"

	"github.com/samriddhi-edu/asksamriddhi-api/internal/models"
)

// AccountDataSource defines the interface for credential lookups
type AccountDataSource interface {
	// GetAccountByEmail fetches login credentials for an email
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
}

// RoleDataSource defines the interface for the per-role data tables.
// Role resolution probes these in a fixed order: teacher, student, admin.
type RoleDataSource interface {
	GetTeacherByEmail(ctx context.Context, email string) (*models.TeacherRecord, error)
	GetStudentByEmail(ctx context.Context, email string) (*models.StudentRecord, error)
	GetAdminByEmail(ctx context.Context, email string) (*models.AdminRecord, error)
}

// ChatDataSource defines the interface for chat session and message storage
type ChatDataSource interface {
	InsertChatSession(ctx context.Context, session *models.ChatSession) (*models.ChatSession, error)
	GetChatSessionByID(ctx context.Context, id string) (*models.ChatSession, error)
	ListChatSessionsByUser(ctx context.Context, userID string) ([]models.ChatSession, error)
	UpdateChatSessionTitle(ctx context.Context, id, title string) error
	TouchChatSession(ctx context.Context, id string) error
	DeleteChatSession(ctx context.Context, id string) error

	InsertChatMessage(ctx context.Context, message *models.ChatMessage) (*models.ChatMessage, error)
	ListChatMessagesBySession(ctx context.Context, sessionID string) ([]models.ChatMessage, error)
}

// StatsDataSource defines the interface for the admin dashboard aggregates
type StatsDataSource interface {
	CountChatSessions(ctx context.Context) (int64, error)
	CountChatMessages(ctx context.Context) (int64, error)
	CountTeachers(ctx context.Context) (int64, error)
	CountStudents(ctx context.Context) (int64, error)
	ListTeachers(ctx context.Context) ([]models.TeacherRecord, error)
	ListStudents(ctx context.Context) ([]models.StudentRecord, error)
	ListRecentChatSessions(ctx context.Context, limit int) ([]models.ChatSession, error)
}
