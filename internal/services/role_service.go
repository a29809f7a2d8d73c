package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/models"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/repository"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/logger"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/metrics"
	"go.uber.org/zap"
)

// RoleService resolves a user's role from the per-role data tables.
type RoleService struct {
	roles repository.RoleDataSource
}

// NewRoleService creates a new RoleService
func NewRoleService(roles repository.RoleDataSource) *RoleService {
	return &RoleService{roles: roles}
}

// Resolve determines the role for an email by probing the role tables in
// priority order: teacher, student, admin. The first match wins. A faulted
// lookup degrades to "not found" for that table only and never aborts the
// remaining probes; only when all three found nothing (or faulted) does the
// user resolve as guest. A broken role table must never lock users out of
// the public chat surface.
func (s *RoleService) Resolve(ctx context.Context, email string) *models.RoleProfile {
	teacher, err := s.roles.GetTeacherByEmail(ctx, email)
	if err == nil {
		metrics.RoleResolutions.WithLabelValues(models.RoleTeacher.String()).Inc()
		return &models.RoleProfile{Role: models.RoleTeacher, UserData: teacher.ToUserData()}
	}
	s.logLookupFault("teachers_data", email, err)

	student, err := s.roles.GetStudentByEmail(ctx, email)
	if err == nil {
		metrics.RoleResolutions.WithLabelValues(models.RoleStudent.String()).Inc()
		return &models.RoleProfile{Role: models.RoleStudent, UserData: student.ToUserData()}
	}
	s.logLookupFault("students_data", email, err)

	admin, err := s.roles.GetAdminByEmail(ctx, email)
	if err == nil {
		metrics.RoleResolutions.WithLabelValues(models.RoleAdmin.String()).Inc()
		return &models.RoleProfile{Role: models.RoleAdmin, UserData: admin.ToUserData()}
	}
	s.logLookupFault("admin_users", email, err)

	logger.Debug("No role record found, resolving as guest",
		zap.String("email", email))
	metrics.RoleResolutions.WithLabelValues(models.RoleGuest.String()).Inc()
	return models.GuestProfile()
}

// logLookupFault records a lookup failure that was not a plain miss.
func (s *RoleService) logLookupFault(table, email string, err error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return
	}
	logger.Error("Role lookup failed, treating as not found",
		zap.String("table", table),
		zap.String("email", email),
		zap.Error(err))
}
