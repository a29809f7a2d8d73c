package services_test

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/samriddhi-edu/asksamriddhi-api/internal/models"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAdminService_GetDashboardStats(t *testing.T) {
	stats := new(MockStatsDataSource)
	stats.On("CountStudents", mock.Anything).Return(int64(420), nil)
	stats.On("CountTeachers", mock.Anything).Return(int64(35), nil)
	stats.On("CountChatSessions", mock.Anything).Return(int64(1200), nil)
	stats.On("CountChatMessages", mock.Anything).Return(int64(8400), nil)

	svc := services.NewAdminService(stats, nil, "", nil)
	result, err := svc.GetDashboardStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(420), result.TotalStudents)
	assert.Equal(t, int64(35), result.TotalTeachers)
	assert.Equal(t, int64(1200), result.TotalChatSessions)
	assert.Equal(t, int64(8400), result.TotalChatMessages)
}

func TestAdminService_ListRecentSessions(t *testing.T) {
	stats := new(MockStatsDataSource)
	stats.On("ListRecentChatSessions", mock.Anything, 20).Return([]models.ChatSession{
		{ID: "sess-1", UserEmail: "s@samriddhi.edu.np", Title: "Course Information"},
		{ID: "sess-2", UserEmail: "t@samriddhi.edu.np", Title: "Exam Routine"},
	}, nil)

	svc := services.NewAdminService(stats, nil, "", nil)
	sessions, err := svc.ListRecentSessions(context.Background())

	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "sess-1", sessions[0].ID)
}

func TestAdminService_UploadDocument_StorageDisabled(t *testing.T) {
	svc := services.NewAdminService(new(MockStatsDataSource), nil, "", nil)

	_, err := svc.UploadDocument(context.Background(), &models.UploadDocumentRequest{
		FileName:    "syllabus.pdf",
		ContentType: "application/pdf",
		Content:     base64.StdEncoding.EncodeToString([]byte("content")),
	})

	assert.ErrorIs(t, err, services.ErrStorageDisabled)
}

func TestAdminService_UploadDocument_InvalidBase64(t *testing.T) {
	docs := new(MockDocumentStorage)
	svc := services.NewAdminService(new(MockStatsDataSource), docs, "", nil)

	_, err := svc.UploadDocument(context.Background(), &models.UploadDocumentRequest{
		FileName:    "syllabus.pdf",
		ContentType: "application/pdf",
		Content:     "not base64!!!",
	})

	assert.ErrorIs(t, err, services.ErrInvalidDocument)
	docs.AssertNotCalled(t, "UploadDocument")
}

func TestAdminService_UploadDocument_SanitizesFileName(t *testing.T) {
	docs := new(MockDocumentStorage)
	docs.On("ValidateDocumentType", "application/pdf").Return(nil)
	docs.On("ValidateDocumentSize", mock.Anything).Return(nil)
	docs.On("UploadDocument", mock.Anything, "knowledge-base/exam_routine.pdf", "application/pdf", mock.Anything).
		Return("https://storage/knowledge-base/exam_routine.pdf", nil)

	svc := services.NewAdminService(new(MockStatsDataSource), docs, "", nil)

	doc, err := svc.UploadDocument(context.Background(), &models.UploadDocumentRequest{
		FileName:    "../../etc/exam routine.pdf",
		ContentType: "application/pdf",
		Content:     base64.StdEncoding.EncodeToString([]byte("pdf bytes")),
	})

	require.NoError(t, err)
	assert.Equal(t, "knowledge-base/exam_routine.pdf", doc.Key)
	docs.AssertExpectations(t)
}

func TestAdminService_DeleteDocument_RejectsForeignKey(t *testing.T) {
	docs := new(MockDocumentStorage)
	svc := services.NewAdminService(new(MockStatsDataSource), docs, "", nil)

	err := svc.DeleteDocument(context.Background(), "other-prefix/file.pdf")

	assert.ErrorIs(t, err, services.ErrDocumentNotFound)
	docs.AssertNotCalled(t, "DeleteDocument")
}
