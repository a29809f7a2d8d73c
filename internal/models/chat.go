package models

import (
	"strings"
	"time"
)

// Sender identifies who produced a chat message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// IsValid reports whether the sender is one of the known values.
func (s Sender) IsValid() bool {
	return s == SenderUser || s == SenderBot
}

// ChatSession is a row in the chat_sessions table.
type ChatSession struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserEmail string    `json:"user_email"`
	UserRole  Role      `json:"user_role"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChatMessage is a row in the chat_messages table.
type ChatMessage struct {
	ID          int64     `json:"id"`
	SessionID   string    `json:"session_id"`
	MessageText string    `json:"message_text"`
	Sender      Sender    `json:"sender"`
	CreatedAt   time.Time `json:"created_at"`
}

// Ephemeral session id prefixes. Sessions with these prefixes are minted
// client-side for unauthenticated or offline use and must never reach
// the database.
const (
	GuestSessionPrefix = "guest-"
	LocalSessionPrefix = "local-"
)

// IsEphemeralSessionID reports whether the session id belongs to a
// client-only session that is never persisted.
func IsEphemeralSessionID(id string) bool {
	return strings.HasPrefix(id, GuestSessionPrefix) || strings.HasPrefix(id, LocalSessionPrefix)
}

// CreateSessionRequest is the payload for creating (or re-fetching) a
// chat session.
type CreateSessionRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Title     string `json:"title"`
}

// AppendMessageRequest is the payload for appending a message to a session.
type AppendMessageRequest struct {
	MessageText string `json:"message_text" binding:"required"`
	Sender      Sender `json:"sender" binding:"required"`
}

// RenameSessionRequest is the payload for replacing a session title.
type RenameSessionRequest struct {
	Title string `json:"title" binding:"required"`
}

// PersistenceResult reports the outcome of an asynchronous session-store
// write so callers can observe failures instead of losing them.
type PersistenceResult struct {
	Operation string
	SessionID string
	Err       error
}
