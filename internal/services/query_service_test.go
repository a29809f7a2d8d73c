package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samriddhi-edu/asksamriddhi-api/internal/models"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/services"
	apperrors "github.com/samriddhi-edu/asksamriddhi-api/pkg/errors"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/queryrouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func guestUser() *models.UserInfo {
	return &models.UserInfo{Email: "guest", Role: models.RoleGuest}
}

// drainResult blocks until one async persistence write reports back.
func drainResult(t *testing.T, sessions *services.SessionService) models.PersistenceResult {
	t.Helper()
	select {
	case result := <-sessions.Results():
		return result
	case <-time.After(2 * time.Second):
		t.Fatal("no persistence result received")
		return models.PersistenceResult{}
	}
}

func TestChatQueryService_Ask_GuestNeverPersists(t *testing.T) {
	chats := new(MockChatDataSource)
	sessions := services.NewSessionService(chats)

	router := new(MockQueryRouterClient)
	router.On("Query", mock.Anything, mock.MatchedBy(func(req *queryrouter.QueryRequest) bool {
		return req.IsGuest && req.UserRole == "guest" && req.SessionID == "guest-7"
	})).Return(&queryrouter.QueryResponse{
		Response:       "Samriddhi offers BCA and BBS programs.",
		SuggestedTitle: "Course Information",
	}, nil)

	resolver := new(MockRoleResolver)
	svc := services.NewChatQueryService(router, sessions, resolver)

	resp, err := svc.Ask(context.Background(), guestUser(), &models.ChatQueryRequest{
		Query:     "which courses do you offer",
		SessionID: "guest-7",
	})

	require.NoError(t, err)
	assert.Equal(t, "Samriddhi offers BCA and BBS programs.", resp.Response)
	assert.Equal(t, "Course Information", resp.SuggestedTitle)
	assert.Equal(t, "guest-7", resp.SessionID)

	chats.AssertNotCalled(t, "InsertChatSession")
	chats.AssertNotCalled(t, "InsertChatMessage")
	resolver.AssertNotCalled(t, "Resolve")
}

func TestChatQueryService_Ask_NetworkFailureServesFallback(t *testing.T) {
	chats := new(MockChatDataSource)
	chats.On("InsertChatSession", mock.Anything, mock.Anything).Return(&models.ChatSession{
		ID:    "sess-1",
		Title: "New Chat",
	}, nil)
	chats.On("InsertChatMessage", mock.Anything, mock.Anything).Return(&models.ChatMessage{ID: 1}, nil)
	chats.On("TouchChatSession", mock.Anything, "sess-1").Return(nil)

	router := new(MockQueryRouterClient)
	router.On("Query", mock.Anything, mock.Anything).
		Return(nil, apperrors.NetworkError("query_router", errors.New("connection refused")))

	resolver := new(MockRoleResolver)
	resolver.On("Resolve", mock.Anything, "s@samriddhi.edu.np").Return(&models.RoleProfile{
		Role: models.RoleStudent,
	})

	sessions := services.NewSessionService(chats)
	svc := services.NewChatQueryService(router, sessions, resolver)

	resp, err := svc.Ask(context.Background(), studentUser(), &models.ChatQueryRequest{
		Query:     "hello",
		SessionID: "sess-1",
	})

	// The turn still succeeds; the fallback answer stands in for the bot
	require.NoError(t, err)
	assert.Equal(t, services.FallbackAnswer, resp.Response)
	assert.Equal(t, "sess-1", resp.SessionID)
	assert.Empty(t, resp.SuggestedTitle)

	result := drainResult(t, sessions)
	assert.Equal(t, "append_message", result.Operation)
	assert.NoError(t, result.Err)
}

func TestChatQueryService_Ask_NonNetworkErrorPropagates(t *testing.T) {
	chats := new(MockChatDataSource)
	sessions := services.NewSessionService(chats)

	router := new(MockQueryRouterClient)
	router.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("malformed response"))

	resolver := new(MockRoleResolver)
	svc := services.NewChatQueryService(router, sessions, resolver)

	_, err := svc.Ask(context.Background(), guestUser(), &models.ChatQueryRequest{
		Query:     "hello",
		SessionID: "guest-7",
	})

	assert.Error(t, err)
}

func TestChatQueryService_Ask_MintsSessionIDForAuthenticatedUser(t *testing.T) {
	chats := new(MockChatDataSource)
	stored := &models.ChatSession{}
	chats.On("InsertChatSession", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { *stored = *args.Get(1).(*models.ChatSession) }).
		Return(stored, nil)
	chats.On("InsertChatMessage", mock.Anything, mock.Anything).Return(&models.ChatMessage{ID: 1}, nil)
	chats.On("TouchChatSession", mock.Anything, mock.Anything).Return(nil)
	chats.On("GetChatSessionByID", mock.Anything, mock.Anything).Return(&models.ChatSession{Title: "Hello"}, nil)

	router := new(MockQueryRouterClient)
	router.On("Query", mock.Anything, mock.Anything).Return(&queryrouter.QueryResponse{
		Response: "hi there",
	}, nil)

	resolver := new(MockRoleResolver)
	resolver.On("Resolve", mock.Anything, "s@samriddhi.edu.np").Return(&models.RoleProfile{
		Role: models.RoleStudent,
	})

	sessions := services.NewSessionService(chats)
	svc := services.NewChatQueryService(router, sessions, resolver)

	resp, err := svc.Ask(context.Background(), studentUser(), &models.ChatQueryRequest{
		Query: "hello",
	})

	require.NoError(t, err)
	assert.Len(t, resp.SessionID, 36) // server-minted UUID

	result := drainResult(t, sessions)
	assert.NoError(t, result.Err)
}

func TestChatQueryService_Ask_AppliesSuggestedTitleToGenericSession(t *testing.T) {
	chats := new(MockChatDataSource)
	chats.On("InsertChatSession", mock.Anything, mock.Anything).Return(&models.ChatSession{
		ID:    "sess-2",
		Title: "New Chat",
	}, nil)
	chats.On("InsertChatMessage", mock.Anything, mock.Anything).Return(&models.ChatMessage{ID: 1}, nil)
	chats.On("TouchChatSession", mock.Anything, "sess-2").Return(nil)
	chats.On("GetChatSessionByID", mock.Anything, "sess-2").Return(&models.ChatSession{
		ID:    "sess-2",
		Title: "New Chat",
	}, nil)
	chats.On("UpdateChatSessionTitle", mock.Anything, "sess-2", "Admission Deadlines").Return(nil)

	router := new(MockQueryRouterClient)
	router.On("Query", mock.Anything, mock.Anything).Return(&queryrouter.QueryResponse{
		Response:         "Admissions close in two weeks.",
		AccessRestricted: true,
		SuggestedTitle:   "Admission Deadlines",
	}, nil)

	resolver := new(MockRoleResolver)
	resolver.On("Resolve", mock.Anything, "s@samriddhi.edu.np").Return(&models.RoleProfile{
		Role: models.RoleStudent,
	})

	sessions := services.NewSessionService(chats)
	svc := services.NewChatQueryService(router, sessions, resolver)

	resp, err := svc.Ask(context.Background(), studentUser(), &models.ChatQueryRequest{
		Query:     "hi",
		SessionID: "sess-2",
	})

	require.NoError(t, err)
	assert.True(t, resp.AccessRestricted)
	assert.Equal(t, "Admission Deadlines", resp.SuggestedTitle)

	drainResult(t, sessions)
	chats.AssertCalled(t, "UpdateChatSessionTitle", mock.Anything, "sess-2", "Admission Deadlines")
}
