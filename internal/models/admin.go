package models

import "time"

// DashboardStats is the aggregate view shown on the admin dashboard.
type DashboardStats struct {
	TotalStudents     int64 `json:"total_students"`
	TotalTeachers     int64 `json:"total_teachers"`
	TotalChatSessions int64 `json:"total_chat_sessions"`
	TotalChatMessages int64 `json:"total_chat_messages"`
}

// UploadDocumentRequest is the payload for uploading a knowledge-base
// document. Content is base64-encoded by the admin frontend.
type UploadDocumentRequest struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Content     string `json:"content" binding:"required"`
}

// DocumentInfo describes a stored knowledge-base document.
type DocumentInfo struct {
	Key          string    `json:"key"`
	SizeBytes    int64     `json:"size_bytes"`
	LastModified time.Time `json:"last_modified"`
}
