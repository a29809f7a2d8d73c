package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samriddhi-edu/asksamriddhi-api/config"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/cache"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/identity"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/models"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/repository"
	apperrors "github.com/samriddhi-edu/asksamriddhi-api/pkg/errors"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/jwt"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/logger"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/metrics"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = apperrors.AuthError("invalid email or password")
	ErrJWTSecretNotSet    = errors.New("JWT secret not configured")
)

// RoleResolver resolves an email to a role profile.
type RoleResolver interface {
	Resolve(ctx context.Context, email string) *models.RoleProfile
}

// AuthService verifies credentials and issues session tokens.
type AuthService struct {
	accounts     repository.AccountDataSource
	roleResolver RoleResolver
	authCache    *cache.AuthCache
	tokenManager *jwt.TokenManager
	config       *config.Config
}

// NewAuthService creates a new AuthService
func NewAuthService(
	accounts repository.AccountDataSource,
	roleResolver RoleResolver,
	authCache *cache.AuthCache,
	cfg *config.Config,
) *AuthService {
	var tokenManager *jwt.TokenManager
	if cfg.Session.JWTSecret != "" {
		tokenManager = jwt.NewTokenManager(
			cfg.Session.JWTSecret,
			cfg.Session.JWTIssuer,
			cfg.Session.SessionTTLHours,
		)
	}

	return &AuthService{
		accounts:     accounts,
		roleResolver: roleResolver,
		authCache:    authCache,
		tokenManager: tokenManager,
		config:       cfg,
	}
}

// Login verifies credentials and returns the identity plus a session token.
//
// The static admin credential pair is checked first and bypasses the role
// resolver entirely: admin identity is configuration, not data. Everyone
// else is verified against the users table and then role-resolved.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, string, error) {
	if s.tokenManager == nil {
		return nil, "", ErrJWTSecretNotSet
	}

	if s.isAdminLogin(req.Email, req.Password) {
		return s.issueSession(models.UserInfo{
			Email:    s.config.Admin.Email,
			FullName: "Administrator",
			Role:     models.RoleAdmin,
		})
	}

	account, err := s.accounts.GetAccountByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Warn("Login attempt for unknown email", zap.String("email", req.Email))
			metrics.LoginAttempts.WithLabelValues("unknown_email").Inc()
			return nil, "", ErrInvalidCredentials
		}
		logger.Error("Failed to load account", zap.String("email", req.Email), zap.Error(err))
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return nil, "", err
	}

	if !identity.VerifyPassword(account.PasswordHash, req.Password) {
		logger.Warn("Login attempt with wrong password", zap.String("email", req.Email))
		metrics.LoginAttempts.WithLabelValues("wrong_password").Inc()
		return nil, "", ErrInvalidCredentials
	}

	profile := s.roleResolver.Resolve(ctx, account.Email)

	return s.issueSession(models.UserInfo{
		Email:    account.Email,
		FullName: account.FullName,
		Role:     profile.Role,
	})
}

// Logout raises the logout flag and drops the cached identity so no
// in-flight verification can resurrect the session.
func (s *AuthService) Logout(token string) {
	s.authCache.MarkLogout(token)
	logger.Info("Session logged out")
}

func (s *AuthService) isAdminLogin(email, password string) bool {
	if s.config.Admin.Email == "" || s.config.Admin.Password == "" {
		return false
	}
	emailOK := jwt.TimingSafeCompare(email, s.config.Admin.Email)
	passwordOK := jwt.TimingSafeCompare(password, s.config.Admin.Password)
	return emailOK && passwordOK
}

func (s *AuthService) issueSession(user models.UserInfo) (*models.LoginResponse, string, error) {
	token, err := s.tokenManager.GenerateToken(user.Email, user.Email, user.Role.String())
	if err != nil {
		logger.Error("Failed to generate session token", zap.Error(err))
		metrics.LoginAttempts.WithLabelValues("token_error").Inc()
		return nil, "", err
	}

	s.authCache.Set(token, &models.AuthCacheEntry{
		Email:      user.Email,
		Role:       user.Role,
		VerifiedAt: time.Now(),
	})

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	logger.Info("Login successful",
		zap.String("email", user.Email),
		zap.String("role", user.Role.String()))

	return &models.LoginResponse{User: user}, token, nil
}

// GetSessionTTL returns the session lifetime in hours
func (s *AuthService) GetSessionTTL() int {
	return s.config.Session.SessionTTLHours
}

// GetCookieDomain returns the cookie domain for session cookies
func (s *AuthService) GetCookieDomain() string {
	return s.config.Session.CookieDomain
}

// GetCookieSecure returns whether session cookies require HTTPS
func (s *AuthService) GetCookieSecure() bool {
	return s.config.Session.CookieSecure
}

// GetTokenManager returns the token manager for middleware use
func (s *AuthService) GetTokenManager() *jwt.TokenManager {
	return s.tokenManager
}
