package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/models"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/services"
)

// AdminHandler handles the admin dashboard endpoints
type AdminHandler struct {
	admin services.AdminServiceInterface
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(admin services.AdminServiceInterface) *AdminHandler {
	return &AdminHandler{
		admin: admin,
	}
}

// DashboardStats handles GET /api/admin/stats
func (h *AdminHandler) DashboardStats(c *gin.Context) {
	stats, err := h.admin.GetDashboardStats(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load dashboard stats", err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListStudents handles GET /api/admin/students
func (h *AdminHandler) ListStudents(c *gin.Context) {
	students, err := h.admin.ListStudents(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list students", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"students": students})
}

// ListTeachers handles GET /api/admin/teachers
func (h *AdminHandler) ListTeachers(c *gin.Context) {
	teachers, err := h.admin.ListTeachers(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list teachers", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"teachers": teachers})
}

// ListRecentSessions handles GET /api/admin/sessions
func (h *AdminHandler) ListRecentSessions(c *gin.Context) {
	sessions, err := h.admin.ListRecentSessions(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list recent sessions", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// UploadDocument handles POST /api/admin/documents
// Stores a knowledge-base document and triggers re-ingestion
func (h *AdminHandler) UploadDocument(c *gin.Context) {
	var req models.UploadDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	doc, err := h.admin.UploadDocument(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDocument) {
			respondError(c, http.StatusBadRequest, "Unsupported or oversized document", err)
			return
		}
		if errors.Is(err, services.ErrStorageDisabled) {
			respondError(c, http.StatusServiceUnavailable, "Document storage is not configured", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to upload document", err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// ListDocuments handles GET /api/admin/documents
func (h *AdminHandler) ListDocuments(c *gin.Context) {
	docs, err := h.admin.ListDocuments(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrStorageDisabled) {
			respondError(c, http.StatusServiceUnavailable, "Document storage is not configured", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to list documents", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

// DeleteDocument handles DELETE /api/admin/documents/:key
func (h *AdminHandler) DeleteDocument(c *gin.Context) {
	key := c.Param("key")

	if err := h.admin.DeleteDocument(c.Request.Context(), key); err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			respondError(c, http.StatusNotFound, "Document not found", err)
			return
		}
		if errors.Is(err, services.ErrStorageDisabled) {
			respondError(c, http.StatusServiceUnavailable, "Document storage is not configured", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to delete document", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
