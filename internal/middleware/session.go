package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/models"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/services"
)

const (
	// SessionCookieName is the name of the session cookie
	SessionCookieName = "asksamriddhi_session"

	// SessionTokenContextKey stores the raw session token in request context
	SessionTokenContextKey = "session_token"

	// UserContextKey stores the authenticated user in request context
	UserContextKey = "session_user"

	// AuthStateContextKey stores the gate's verification state
	AuthStateContextKey = "auth_state"
)

var (
	ErrUserNotFound    = errors.New("user not found in context")
	ErrInvalidUserType = errors.New("invalid user type in context")
)

// SessionMiddleware runs every request through the access gate. A denied
// verdict clears the cookie and answers 401 before the handler runs.
func SessionMiddleware(gate services.AccessGateServiceInterface, cookieDomain string, cookieSecure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(SessionCookieName)
		if err != nil {
			_ = c.Error(fmt.Errorf("missing session cookie")) //nolint:errcheck
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		gateResp := gate.Evaluate(c.Request.Context(), cookie)
		if gateResp.Decision != models.GateAllow {
			_ = c.Error(fmt.Errorf("session denied by access gate")) //nolint:errcheck
			ClearSessionCookie(c, cookieDomain, cookieSecure)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		c.Set(SessionTokenContextKey, cookie)
		c.Set(UserContextKey, gateResp.User)
		c.Set(AuthStateContextKey, gateResp.State)
		c.Next()
	}
}

// OptionalSessionMiddleware is SessionMiddleware for routes guests may
// use. No cookie, or a denied one, degrades to a guest identity instead
// of a 401.
func OptionalSessionMiddleware(gate services.AccessGateServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(SessionCookieName)
		if err != nil || cookie == "" {
			c.Set(UserContextKey, &models.UserInfo{Role: models.RoleGuest})
			c.Set(AuthStateContextKey, models.AuthStateUnauthenticated)
			c.Next()
			return
		}

		gateResp := gate.Evaluate(c.Request.Context(), cookie)
		if gateResp.Decision != models.GateAllow {
			c.Set(UserContextKey, &models.UserInfo{Role: models.RoleGuest})
			c.Set(AuthStateContextKey, models.AuthStateUnauthenticated)
			c.Next()
			return
		}

		c.Set(SessionTokenContextKey, cookie)
		c.Set(UserContextKey, gateResp.User)
		c.Set(AuthStateContextKey, gateResp.State)
		c.Next()
	}
}

// RequireRole allows only the given roles past. Must run after
// SessionMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		user, err := GetUser(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		if _, ok := allowed[user.Role]; !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUser extracts the authenticated user from context
func GetUser(c *gin.Context) (*models.UserInfo, error) {
	val, exists := c.Get(UserContextKey)
	if !exists {
		return nil, ErrUserNotFound
	}

	user, ok := val.(*models.UserInfo)
	if !ok {
		return nil, ErrInvalidUserType
	}

	return user, nil
}

// GetSessionToken extracts the raw session token from context. Empty for
// guest requests that carried no cookie.
func GetSessionToken(c *gin.Context) string {
	val, exists := c.Get(SessionTokenContextKey)
	if !exists {
		return ""
	}
	token, _ := val.(string)
	return token
}

// SetSessionCookie sets the session cookie
func SetSessionCookie(c *gin.Context, token string, ttlSeconds int, domain string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		SessionCookieName,
		token,
		ttlSeconds,
		"/",
		domain,
		secure,
		true, // HttpOnly
	)
}

// ClearSessionCookie clears the session cookie
func ClearSessionCookie(c *gin.Context, domain string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		SessionCookieName,
		"",
		-1,
		"/",
		domain,
		secure,
		true, // HttpOnly
	)
}
