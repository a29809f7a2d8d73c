package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/middleware"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/models"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/services"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	auth services.AuthServiceInterface
	gate services.AccessGateServiceInterface
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth services.AuthServiceInterface, gate services.AccessGateServiceInterface) *AuthHandler {
	return &AuthHandler{
		auth: auth,
		gate: gate,
	}
}

// Login handles POST /api/auth/login
// Verifies credentials, resolves the user's role and sets the session cookie
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	resp, token, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "Invalid email or password", err)
			return
		}
		if errors.Is(err, services.ErrJWTSecretNotSet) {
			respondError(c, http.StatusInternalServerError, "Service temporarily unavailable", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Login failed", err)
		return
	}

	middleware.SetSessionCookie(
		c,
		token,
		h.auth.GetSessionTTL()*3600,
		h.auth.GetCookieDomain(),
		h.auth.GetCookieSecure(),
	)

	c.JSON(http.StatusOK, resp)
}

// Logout handles POST /api/auth/logout
// Flags the session as logged out and clears the cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil && cookie != "" {
		h.auth.Logout(cookie)
	}

	middleware.ClearSessionCookie(
		c,
		h.auth.GetCookieDomain(),
		h.auth.GetCookieSecure(),
	)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Session handles GET /api/auth/session
// Runs the current cookie through the access gate and reports the verdict,
// including the routing verdict for the view the client is about to mount
// (require_auth / admin_only query flags).
func (h *AuthHandler) Session(c *gin.Context) {
	cookie, err := c.Cookie(middleware.SessionCookieName)
	if err != nil {
		cookie = ""
	}

	requireAuth := c.Query("require_auth") != "false"
	adminOnly := c.Query("admin_only") == "true"

	resp := h.gate.Evaluate(c.Request.Context(), cookie)
	route := resp.RouteDecision(requireAuth, adminOnly)

	if resp.Decision != models.GateAllow {
		middleware.ClearSessionCookie(c, h.auth.GetCookieDomain(), h.auth.GetCookieSecure())
		c.JSON(http.StatusUnauthorized, gin.H{"session": resp, "route": route})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": resp, "route": route})
}
