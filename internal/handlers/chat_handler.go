package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/middleware"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/models"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/services"
)

// ChatHandler handles the chat query endpoint and session management
type ChatHandler struct {
	queries  services.ChatQueryServiceInterface
	sessions services.SessionServiceInterface
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(queries services.ChatQueryServiceInterface, sessions services.SessionServiceInterface) *ChatHandler {
	return &ChatHandler{
		queries:  queries,
		sessions: sessions,
	}
}

// Query handles POST /api/query
// Runs one chat turn. Guests are allowed through; their sessions are
// never persisted.
func (h *ChatHandler) Query(c *gin.Context) {
	user, err := middleware.GetUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.ChatQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	resp, err := h.queries.Ask(c.Request.Context(), user, &req)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			respondError(c, http.StatusNotFound, "Session not found", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to process query", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListSessions handles GET /api/chat/sessions
// Returns the authenticated user's sessions, most recently active first
func (h *ChatHandler) ListSessions(c *gin.Context) {
	user, err := middleware.GetUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	sessions, err := h.sessions.ListSessions(c.Request.Context(), user.Email)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list sessions", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// ListMessages handles GET /api/chat/sessions/:id/messages
// Returns the session transcript, oldest message first
func (h *ChatHandler) ListMessages(c *gin.Context) {
	session, ok := h.ownedSession(c)
	if !ok {
		return
	}

	messages, err := h.sessions.ListMessages(c.Request.Context(), session.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list messages", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// RenameSession handles PUT /api/chat/sessions/:id
func (h *ChatHandler) RenameSession(c *gin.Context) {
	session, ok := h.ownedSession(c)
	if !ok {
		return
	}

	var req models.RenameSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	if err := h.sessions.RenameSession(c.Request.Context(), session.ID, req.Title); err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			respondError(c, http.StatusNotFound, "Session not found", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to rename session", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteSession handles DELETE /api/chat/sessions/:id
func (h *ChatHandler) DeleteSession(c *gin.Context) {
	session, ok := h.ownedSession(c)
	if !ok {
		return
	}

	if err := h.sessions.DeleteSession(c.Request.Context(), session.ID); err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			respondError(c, http.StatusNotFound, "Session not found", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to delete session", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ownedSession loads the :id session and checks it belongs to the
// authenticated user. On failure the response has already been written.
func (h *ChatHandler) ownedSession(c *gin.Context) (*models.ChatSession, bool) {
	user, err := middleware.GetUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return nil, false
	}

	sessionID := c.Param("id")
	session, err := h.sessions.GetOwnedSession(c.Request.Context(), sessionID, user.Email)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			respondError(c, http.StatusNotFound, "Session not found", err)
			return nil, false
		}
		if errors.Is(err, services.ErrNotSessionOwner) {
			respondError(c, http.StatusForbidden, "Forbidden", err)
			return nil, false
		}
		respondError(c, http.StatusInternalServerError, "Failed to load session", err)
		return nil, false
	}

	return session, true
}
