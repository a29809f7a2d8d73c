package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/samriddhi-edu/asksamriddhi-api/internal/models"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/services"
	apperrors "github.com/samriddhi-edu/asksamriddhi-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func studentUser() *models.UserInfo {
	return &models.UserInfo{
		Email: "s@samriddhi.edu.np",
		Role:  models.RoleStudent,
	}
}

func TestSessionService_CreateOrGetSession_Persists(t *testing.T) {
	chats := new(MockChatDataSource)
	stored := &models.ChatSession{
		ID:        "abc-123",
		UserID:    "s@samriddhi.edu.np",
		UserEmail: "s@samriddhi.edu.np",
		UserRole:  models.RoleStudent,
		Title:     "Course Information",
	}
	chats.On("InsertChatSession", mock.Anything, mock.MatchedBy(func(s *models.ChatSession) bool {
		return s.ID == "abc-123" && s.Title == "Course Information"
	})).Return(stored, nil)

	svc := services.NewSessionService(chats)
	session, err := svc.CreateOrGetSession(context.Background(), studentUser(), "abc-123", "which courses do you offer")

	require.NoError(t, err)
	assert.Equal(t, "abc-123", session.ID)
	assert.Equal(t, "Course Information", session.Title)
	chats.AssertExpectations(t)
}

func TestSessionService_CreateOrGetSession_EphemeralNeverPersists(t *testing.T) {
	chats := new(MockChatDataSource)

	svc := services.NewSessionService(chats)

	for _, id := range []string{"guest-42", "local-99"} {
		session, err := svc.CreateOrGetSession(context.Background(), studentUser(), id, "hello there everyone")
		require.NoError(t, err)
		assert.Equal(t, id, session.ID)
	}

	chats.AssertNotCalled(t, "InsertChatSession")
}

func TestSessionService_CreateOrGetSession_ConcurrentCallsCollapse(t *testing.T) {
	chats := new(MockChatDataSource)
	stored := &models.ChatSession{ID: "race-1", Title: "New Chat"}

	// Hold the insert open long enough for both callers to join the flight
	chats.On("InsertChatSession", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { time.Sleep(50 * time.Millisecond) }).
		Return(stored, nil).
		Once()

	svc := services.NewSessionService(chats)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session, err := svc.CreateOrGetSession(context.Background(), studentUser(), "race-1", "hi")
			assert.NoError(t, err)
			assert.Equal(t, "race-1", session.ID)
		}()
	}
	wg.Wait()

	chats.AssertExpectations(t)
}

func TestSessionService_GetSession_MapsNotFound(t *testing.T) {
	chats := new(MockChatDataSource)
	chats.On("GetChatSessionByID", mock.Anything, "missing").Return(nil, notFound("chat session"))

	svc := services.NewSessionService(chats)
	_, err := svc.GetSession(context.Background(), "missing")

	assert.ErrorIs(t, err, services.ErrSessionNotFound)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSessionService_GetOwnedSession_RejectsOtherOwner(t *testing.T) {
	chats := new(MockChatDataSource)
	chats.On("GetChatSessionByID", mock.Anything, "abc").Return(&models.ChatSession{
		ID:     "abc",
		UserID: "owner@samriddhi.edu.np",
	}, nil)

	svc := services.NewSessionService(chats)
	_, err := svc.GetOwnedSession(context.Background(), "abc", "intruder@samriddhi.edu.np")

	assert.ErrorIs(t, err, services.ErrNotSessionOwner)
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
}

func TestSessionService_ListMessages_EphemeralIsEmpty(t *testing.T) {
	chats := new(MockChatDataSource)

	svc := services.NewSessionService(chats)
	messages, err := svc.ListMessages(context.Background(), "guest-1")

	require.NoError(t, err)
	assert.Empty(t, messages)
	chats.AssertNotCalled(t, "ListChatMessagesBySession")
}

func TestSessionService_AppendMessage_RejectsUnknownSender(t *testing.T) {
	chats := new(MockChatDataSource)

	svc := services.NewSessionService(chats)
	_, err := svc.AppendMessage(context.Background(), "abc", "hi", models.Sender("system"))

	assert.ErrorIs(t, err, services.ErrInvalidSender)
}

func TestSessionService_AppendMessage_TouchesSession(t *testing.T) {
	chats := new(MockChatDataSource)
	chats.On("InsertChatMessage", mock.Anything, mock.Anything).Return(&models.ChatMessage{
		ID:          1,
		SessionID:   "abc",
		MessageText: "hi",
		Sender:      models.SenderUser,
	}, nil)
	chats.On("TouchChatSession", mock.Anything, "abc").Return(nil)

	svc := services.NewSessionService(chats)
	message, err := svc.AppendMessage(context.Background(), "abc", "hi", models.SenderUser)

	require.NoError(t, err)
	assert.Equal(t, int64(1), message.ID)
	chats.AssertExpectations(t)
}

func TestSessionService_AppendMessageAsync_ReportsOnResultChannel(t *testing.T) {
	chats := new(MockChatDataSource)
	chats.On("InsertChatMessage", mock.Anything, mock.Anything).Return(nil, notFound("chat session"))

	svc := services.NewSessionService(chats)
	svc.AppendMessageAsync("abc", "hi", models.SenderBot)

	select {
	case result := <-svc.Results():
		assert.Equal(t, "append_message", result.Operation)
		assert.Equal(t, "abc", result.SessionID)
		assert.Error(t, result.Err)
	case <-time.After(2 * time.Second):
		t.Fatal("no persistence result received")
	}
}

func TestSessionService_ApplySuggestedTitle_OnlyReplacesGeneric(t *testing.T) {
	chats := new(MockChatDataSource)
	chats.On("GetChatSessionByID", mock.Anything, "generic").Return(&models.ChatSession{
		ID:    "generic",
		Title: "New Chat",
	}, nil)
	chats.On("GetChatSessionByID", mock.Anything, "specific").Return(&models.ChatSession{
		ID:    "specific",
		Title: "Course Information",
	}, nil)
	chats.On("UpdateChatSessionTitle", mock.Anything, "generic", "Admission Deadlines").Return(nil)

	svc := services.NewSessionService(chats)

	svc.ApplySuggestedTitle(context.Background(), "generic", "Admission Deadlines")
	svc.ApplySuggestedTitle(context.Background(), "specific", "Admission Deadlines")

	chats.AssertCalled(t, "UpdateChatSessionTitle", mock.Anything, "generic", "Admission Deadlines")
	chats.AssertNumberOfCalls(t, "UpdateChatSessionTitle", 1)
}

func TestSessionService_DeleteSession_Ephemeral_NoOp(t *testing.T) {
	chats := new(MockChatDataSource)

	svc := services.NewSessionService(chats)
	err := svc.DeleteSession(context.Background(), "local-7")

	assert.NoError(t, err)
	chats.AssertNotCalled(t, "DeleteChatSession")
}

func TestSessionService_RenameSession_MapsNotFound(t *testing.T) {
	chats := new(MockChatDataSource)
	chats.On("UpdateChatSessionTitle", mock.Anything, "missing", "Title").Return(notFound("chat session"))

	svc := services.NewSessionService(chats)
	err := svc.RenameSession(context.Background(), "missing", "Title")

	assert.ErrorIs(t, err, services.ErrSessionNotFound)
}
