package services

import (
	"context"
	"time"

	"github.com/samriddhi-edu/asksamriddhi-api/internal/cache"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/models"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/jwt"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/logger"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const verifyTimeout = 5 * time.Second

// AccessGateService decides whether a session token may pass, based on
// the two-tier auth cache and background re-validation against the role
// tables.
//
// The gate is the only writer of verification-driven cache transitions;
// login and logout are the only other mutation points. Concurrent
// re-validations for the same token collapse into one flight.
type AccessGateService struct {
	authCache    *cache.AuthCache
	roleResolver RoleResolver
	tokenManager *jwt.TokenManager
	group        singleflight.Group
}

// NewAccessGateService creates a new AccessGateService
func NewAccessGateService(authCache *cache.AuthCache, roleResolver RoleResolver, tokenManager *jwt.TokenManager) *AccessGateService {
	return &AccessGateService{
		authCache:    authCache,
		roleResolver: roleResolver,
		tokenManager: tokenManager,
	}
}

// Evaluate answers the gate question for a session token.
//
// Precedence: the logout flag beats every cached tier; the ephemeral tier
// beats the durable tier; a durable-only hit is allowed optimistically
// while a background re-validation runs. A token with no cached tier is
// verified synchronously before an answer is given.
func (s *AccessGateService) Evaluate(ctx context.Context, token string) *models.GateResponse {
	if token == "" {
		return s.deny(models.AuthStateUnauthenticated)
	}

	if s.authCache.LogoutInProgress(token) {
		// A stale ephemeral buffer from a previous login must not
		// resurrect access mid-logout
		return s.deny(models.AuthStateUnauthenticated)
	}

	claims, err := s.tokenManager.ValidateToken(token)
	if err != nil {
		return s.deny(models.AuthStateUnauthenticated)
	}

	entry, tier := s.authCache.Get(token)

	switch tier {
	case cache.TierEphemeral:
		// Verified moments ago; admin and guest never re-validate
		if !entry.Role.SkipsBackgroundVerification() {
			s.scheduleVerification(token, entry)
		}
		return s.allow(models.AuthStateEphemeralValid, entry)

	case cache.TierDurable:
		if entry.Role.SkipsBackgroundVerification() {
			return s.allow(models.AuthStateDurableValid, entry)
		}
		s.scheduleVerification(token, entry)
		return s.allow(models.AuthStateVerifying, entry)

	default:
		return s.verifyNow(ctx, token, claims)
	}
}

// verifyNow resolves the role synchronously for a token with no cached
// tier and compares it against the token's claims.
func (s *AccessGateService) verifyNow(ctx context.Context, token string, claims *jwt.SessionClaims) *models.GateResponse {
	role := models.Role(claims.Role)
	if role.SkipsBackgroundVerification() {
		// Admin is a static credential pair and guests have no backing
		// record; a valid token is all there is to check
		entry := &models.AuthCacheEntry{
			Email:      claims.Email,
			Role:       role,
			VerifiedAt: time.Now(),
		}
		s.authCache.Set(token, entry)
		return s.allow(models.AuthStateEphemeralValid, entry)
	}

	result, err, _ := s.group.Do(token, func() (interface{}, error) {
		return s.verify(ctx, token, claims.Email, models.Role(claims.Role)), nil
	})
	if err != nil {
		return s.deny(models.AuthStateUnauthenticated)
	}

	entry, ok := result.(*models.AuthCacheEntry)
	if !ok || entry == nil {
		return s.deny(models.AuthStateUnauthenticated)
	}

	return s.allow(models.AuthStateEphemeralValid, entry)
}

// scheduleVerification kicks off a background re-validation. The cached
// identity keeps serving until the flight resolves.
func (s *AccessGateService) scheduleVerification(token string, entry *models.AuthCacheEntry) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
		defer cancel()

		_, _, _ = s.group.Do(token, func() (interface{}, error) {
			return s.verify(ctx, token, entry.Email, entry.Role), nil
		})
	}()
}

// verify re-resolves the role and reconciles the cache. On mismatch the
// cached tiers are cleared so the next evaluation fails closed.
func (s *AccessGateService) verify(ctx context.Context, token, email string, expectedRole models.Role) *models.AuthCacheEntry {
	profile := s.roleResolver.Resolve(ctx, email)

	if profile.Role != expectedRole {
		logger.Warn("Session role mismatch, clearing cached identity",
			zap.String("email", email),
			zap.String("cached_role", expectedRole.String()),
			zap.String("resolved_role", profile.Role.String()))
		metrics.SessionVerifications.WithLabelValues("mismatch").Inc()
		s.authCache.Invalidate(token)
		return nil
	}

	entry := &models.AuthCacheEntry{
		Email:      email,
		Role:       profile.Role,
		VerifiedAt: time.Now(),
	}
	s.authCache.Set(token, entry)
	metrics.SessionVerifications.WithLabelValues("confirmed").Inc()
	return entry
}

func (s *AccessGateService) allow(state models.AuthState, entry *models.AuthCacheEntry) *models.GateResponse {
	metrics.GateDecisions.WithLabelValues(string(models.GateAllow)).Inc()
	return &models.GateResponse{
		Decision: models.GateAllow,
		State:    state,
		User: &models.UserInfo{
			Email: entry.Email,
			Role:  entry.Role,
		},
	}
}

func (s *AccessGateService) deny(state models.AuthState) *models.GateResponse {
	metrics.GateDecisions.WithLabelValues(string(models.GateDeny)).Inc()
	return &models.GateResponse{
		Decision: models.GateDeny,
		State:    state,
	}
}
