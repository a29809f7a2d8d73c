package services

import (
	"context"

	"github.com/samriddhi-edu/asksamriddhi-api/internal/models"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/jwt"
)

// AuthServiceInterface defines the interface for credential verification
type AuthServiceInterface interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, string, error)
	Logout(token string)
	GetSessionTTL() int
	GetCookieDomain() string
	GetCookieSecure() bool
	GetTokenManager() *jwt.TokenManager
}

// AccessGateServiceInterface defines the interface for gate evaluation
type AccessGateServiceInterface interface {
	Evaluate(ctx context.Context, token string) *models.GateResponse
}

// SessionServiceInterface defines the interface for chat session persistence
type SessionServiceInterface interface {
	CreateOrGetSession(ctx context.Context, owner *models.UserInfo, sessionID, firstMessage string) (*models.ChatSession, error)
	GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error)
	GetOwnedSession(ctx context.Context, sessionID, userEmail string) (*models.ChatSession, error)
	ListSessions(ctx context.Context, userEmail string) ([]models.ChatSession, error)
	ListMessages(ctx context.Context, sessionID string) ([]models.ChatMessage, error)
	AppendMessage(ctx context.Context, sessionID, text string, sender models.Sender) (*models.ChatMessage, error)
	RenameSession(ctx context.Context, sessionID, title string) error
	DeleteSession(ctx context.Context, sessionID string) error
}

// ChatQueryServiceInterface defines the interface for chat turns
type ChatQueryServiceInterface interface {
	Ask(ctx context.Context, user *models.UserInfo, req *models.ChatQueryRequest) (*models.ChatQueryResponse, error)
}

// AdminServiceInterface defines the interface for admin dashboard operations
type AdminServiceInterface interface {
	GetDashboardStats(ctx context.Context) (*models.DashboardStats, error)
	ListStudents(ctx context.Context) ([]models.StudentRecord, error)
	ListTeachers(ctx context.Context) ([]models.TeacherRecord, error)
	ListRecentSessions(ctx context.Context) ([]models.ChatSession, error)
	UploadDocument(ctx context.Context, req *models.UploadDocumentRequest) (*models.DocumentInfo, error)
	ListDocuments(ctx context.Context) ([]models.DocumentInfo, error)
	DeleteDocument(ctx context.Context, key string) error
}

// Ensure services implement their interfaces
var _ AuthServiceInterface = (*AuthService)(nil)
var _ AccessGateServiceInterface = (*AccessGateService)(nil)
var _ SessionServiceInterface = (*SessionService)(nil)
var _ ChatQueryServiceInterface = (*ChatQueryService)(nil)
var _ AdminServiceInterface = (*AdminService)(nil)
var _ RoleResolver = (*RoleService)(nil)
