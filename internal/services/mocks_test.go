package services_test

import (
	"context"

	"github.com/samriddhi-edu/asksamriddhi-api/internal/models"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/logger"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/queryrouter"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/storage"
	"github.com/stretchr/testify/mock"
)

func init() {
	// Services log through the global logger
	_ = logger.Initialize(logger.Config{Level: "error", Environment: "development"})
}

// MockRoleDataSource is a mock implementation of repository.RoleDataSource
type MockRoleDataSource struct {
	mock.Mock
}

func (m *MockRoleDataSource) GetTeacherByEmail(ctx context.Context, email string) (*models.TeacherRecord, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TeacherRecord), args.Error(1)
}

func (m *MockRoleDataSource) GetStudentByEmail(ctx context.Context, email string) (*models.StudentRecord, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StudentRecord), args.Error(1)
}

func (m *MockRoleDataSource) GetAdminByEmail(ctx context.Context, email string) (*models.AdminRecord, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminRecord), args.Error(1)
}

// MockAccountDataSource is a mock implementation of repository.AccountDataSource
type MockAccountDataSource struct {
	mock.Mock
}

func (m *MockAccountDataSource) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

// MockRoleResolver is a mock implementation of services.RoleResolver
type MockRoleResolver struct {
	mock.Mock
}

func (m *MockRoleResolver) Resolve(ctx context.Context, email string) *models.RoleProfile {
	args := m.Called(ctx, email)
	return args.Get(0).(*models.RoleProfile)
}

// MockChatDataSource is a mock implementation of repository.ChatDataSource
type MockChatDataSource struct {
	mock.Mock
}

func (m *MockChatDataSource) InsertChatSession(ctx context.Context, session *models.ChatSession) (*models.ChatSession, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatSession), args.Error(1)
}

func (m *MockChatDataSource) GetChatSessionByID(ctx context.Context, id string) (*models.ChatSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatSession), args.Error(1)
}

func (m *MockChatDataSource) ListChatSessionsByUser(ctx context.Context, userID string) ([]models.ChatSession, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatSession), args.Error(1)
}

func (m *MockChatDataSource) UpdateChatSessionTitle(ctx context.Context, id, title string) error {
	args := m.Called(ctx, id, title)
	return args.Error(0)
}

func (m *MockChatDataSource) TouchChatSession(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockChatDataSource) DeleteChatSession(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockChatDataSource) InsertChatMessage(ctx context.Context, message *models.ChatMessage) (*models.ChatMessage, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatMessage), args.Error(1)
}

func (m *MockChatDataSource) ListChatMessagesBySession(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatMessage), args.Error(1)
}

// MockStatsDataSource is a mock implementation of repository.StatsDataSource
type MockStatsDataSource struct {
	mock.Mock
}

func (m *MockStatsDataSource) CountChatSessions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsDataSource) CountChatMessages(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsDataSource) CountTeachers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsDataSource) CountStudents(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsDataSource) ListTeachers(ctx context.Context) ([]models.TeacherRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TeacherRecord), args.Error(1)
}

func (m *MockStatsDataSource) ListStudents(ctx context.Context) ([]models.StudentRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StudentRecord), args.Error(1)
}

func (m *MockStatsDataSource) ListRecentChatSessions(ctx context.Context, limit int) ([]models.ChatSession, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatSession), args.Error(1)
}

// MockQueryRouterClient is a mock implementation of services.QueryRouterClient
type MockQueryRouterClient struct {
	mock.Mock
}

func (m *MockQueryRouterClient) Query(ctx context.Context, req *queryrouter.QueryRequest) (*queryrouter.QueryResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queryrouter.QueryResponse), args.Error(1)
}

// MockDocumentStorage is a mock implementation of services.DocumentStorage
type MockDocumentStorage struct {
	mock.Mock
}

func (m *MockDocumentStorage) UploadDocument(ctx context.Context, key, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, key, contentType, data)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentStorage) ListDocuments(ctx context.Context, prefix string) ([]storage.Document, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.Document), args.Error(1)
}

func (m *MockDocumentStorage) DeleteDocument(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockDocumentStorage) ValidateDocumentType(contentType string) error {
	args := m.Called(contentType)
	return args.Error(0)
}

func (m *MockDocumentStorage) ValidateDocumentSize(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}
