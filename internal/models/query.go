package models

// ChatQueryRequest is the payload for POST /api/v1/chat/query.
type ChatQueryRequest struct {
	Query     string `json:"query" binding:"required"`
	SessionID string `json:"session_id"`
}

// ChatQueryResponse is the answer returned to the chat client.
type ChatQueryResponse struct {
	Response         string `json:"response"`
	AccessRestricted bool   `json:"access_restricted,omitempty"`
	SuggestedTitle   string `json:"suggested_title,omitempty"`
	SessionID        string `json:"session_id,omitempty"`
}
