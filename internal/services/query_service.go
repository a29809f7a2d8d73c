package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/models"
	apperrors "github.com/samriddhi-edu/asksamriddhi-api/pkg/errors"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/logger"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/queryrouter"
	"go.uber.org/zap"
)

// FallbackAnswer is shown when the query router cannot be reached. The
// user message is still recorded; only the answer is substituted.
const FallbackAnswer = "Sorry, I couldn't get a response from the server."

// QueryRouterClient forwards questions to the query router backend.
type QueryRouterClient interface {
	Query(ctx context.Context, req *queryrouter.QueryRequest) (*queryrouter.QueryResponse, error)
}

// ChatQueryService orchestrates a chat turn: persist the question, ask
// the query router, persist the answer, and maintain the session title.
type ChatQueryService struct {
	router       QueryRouterClient
	sessions     *SessionService
	roleResolver RoleResolver
}

// NewChatQueryService creates a new ChatQueryService
func NewChatQueryService(router QueryRouterClient, sessions *SessionService, roleResolver RoleResolver) *ChatQueryService {
	return &ChatQueryService{
		router:       router,
		sessions:     sessions,
		roleResolver: roleResolver,
	}
}

// Ask runs one chat turn for the given user.
//
// A missing session id means the client is mid-creation; the session is
// created (or fetched, when another request won the race) before the
// question is stored. Router failures degrade to a fallback answer
// instead of an error so the conversation keeps flowing.
func (s *ChatQueryService) Ask(ctx context.Context, user *models.UserInfo, req *models.ChatQueryRequest) (*models.ChatQueryResponse, error) {
	sessionID := req.SessionID
	if sessionID == "" && !user.Role.IsGuest() {
		sessionID = uuid.NewString()
	}

	if sessionID != "" && !models.IsEphemeralSessionID(sessionID) {
		session, err := s.sessions.CreateOrGetSession(ctx, user, sessionID, req.Query)
		if err != nil {
			return nil, err
		}
		sessionID = session.ID
	}

	if sessionID != "" {
		if _, err := s.sessions.AppendMessage(ctx, sessionID, req.Query, models.SenderUser); err != nil {
			return nil, err
		}
	}

	profile := s.profileFor(ctx, user)

	routerReq := &queryrouter.QueryRequest{
		Query:     req.Query,
		UserRole:  profile.Role.String(),
		UserData:  profile.UserData,
		SessionID: sessionID,
		IsGuest:   profile.Role.IsGuest(),
	}

	routerResp, err := s.router.Query(ctx, routerReq)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNetwork) {
			logger.Warn("Query router unreachable, serving fallback answer",
				zap.String("session_id", sessionID),
				zap.Error(err))
			s.sessions.AppendMessageAsync(sessionID, FallbackAnswer, models.SenderBot)
			return &models.ChatQueryResponse{
				Response:  FallbackAnswer,
				SessionID: sessionID,
			}, nil
		}
		return nil, err
	}

	s.sessions.AppendMessageAsync(sessionID, routerResp.Response, models.SenderBot)
	s.sessions.ApplySuggestedTitle(ctx, sessionID, routerResp.SuggestedTitle)

	return &models.ChatQueryResponse{
		Response:         routerResp.Response,
		AccessRestricted: routerResp.AccessRestricted,
		SuggestedTitle:   routerResp.SuggestedTitle,
		SessionID:        sessionID,
	}, nil
}

// profileFor rebuilds the role payload for the query router. Admin and
// guest identities carry no data-table record to flatten.
func (s *ChatQueryService) profileFor(ctx context.Context, user *models.UserInfo) *models.RoleProfile {
	switch user.Role {
	case models.RoleGuest:
		return models.GuestProfile()
	case models.RoleAdmin:
		return &models.RoleProfile{
			Role:     models.RoleAdmin,
			UserData: map[string]any{"email": user.Email},
		}
	default:
		return s.roleResolver.Resolve(ctx, user.Email)
	}
}
