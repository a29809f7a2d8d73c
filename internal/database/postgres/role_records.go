package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samriddhi-edu/asksamriddhi-api/internal/models"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/logger"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/metrics"
	"go.uber.org/zap"
)

// GetTeacherByEmail fetches a teacher record by email
func (c *Client) GetTeacherByEmail(ctx context.Context, email string) (*models.TeacherRecord, error) {
	start := time.Now()
	operation := "getTeacherByEmail"

	query := `
		SELECT id, email, full_name, department, designation, subjects, created_at
		FROM teachers_data
		WHERE LOWER(email) = LOWER($1)`

	var teacher models.TeacherRecord
	err := c.pool.QueryRow(ctx, query, email).Scan(
		&teacher.ID, &teacher.Email, &teacher.FullName,
		&teacher.Department, &teacher.Designation, &teacher.Subjects, &teacher.CreatedAt)

	duration := metrics.MeasureDuration(start)

	if err == pgx.ErrNoRows {
		recordMetrics(operation, "not_found", duration)
		return nil, fmt.Errorf("teacher %s: %w", email, pgx.ErrNoRows)
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query teacher: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return &teacher, nil
}

// GetStudentByEmail fetches a student record by email
func (c *Client) GetStudentByEmail(ctx context.Context, email string) (*models.StudentRecord, error) {
	start := time.Now()
	operation := "getStudentByEmail"

	query := `
		SELECT id, email, full_name, program, semester, roll_number, created_at
		FROM students_data
		WHERE LOWER(email) = LOWER($1)`

	var student models.StudentRecord
	err := c.pool.QueryRow(ctx, query, email).Scan(
		&student.ID, &student.Email, &student.FullName,
		&student.Program, &student.Semester, &student.RollNumber, &student.CreatedAt)

	duration := metrics.MeasureDuration(start)

	if err == pgx.ErrNoRows {
		recordMetrics(operation, "not_found", duration)
		return nil, fmt.Errorf("student %s: %w", email, pgx.ErrNoRows)
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query student: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return &student, nil
}

// GetAdminByEmail fetches an admin record by email
func (c *Client) GetAdminByEmail(ctx context.Context, email string) (*models.AdminRecord, error) {
	start := time.Now()
	operation := "getAdminByEmail"

	query := `
		SELECT id, email, full_name, created_at
		FROM admin_users
		WHERE LOWER(email) = LOWER($1)`

	var admin models.AdminRecord
	err := c.pool.QueryRow(ctx, query, email).Scan(
		&admin.ID, &admin.Email, &admin.FullName, &admin.CreatedAt)

	duration := metrics.MeasureDuration(start)

	if err == pgx.ErrNoRows {
		recordMetrics(operation, "not_found", duration)
		return nil, fmt.Errorf("admin %s: %w", email, pgx.ErrNoRows)
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query admin: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return &admin, nil
}

// ListTeachers fetches all teacher records ordered by name
func (c *Client) ListTeachers(ctx context.Context) ([]models.TeacherRecord, error) {
	start := time.Now()
	operation := "listTeachers"

	query := `
		SELECT id, email, full_name, department, designation, subjects, created_at
		FROM teachers_data
		ORDER BY full_name`

	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query teachers: %w", err)
	}
	defer rows.Close()

	teachers := []models.TeacherRecord{}
	for rows.Next() {
		var teacher models.TeacherRecord
		if err := rows.Scan(&teacher.ID, &teacher.Email, &teacher.FullName,
			&teacher.Department, &teacher.Designation, &teacher.Subjects, &teacher.CreatedAt); err != nil {
			duration := metrics.MeasureDuration(start)
			recordMetrics(operation, "error", duration)
			return nil, fmt.Errorf("failed to scan teacher row: %w", err)
		}
		teachers = append(teachers, teacher)
	}

	if err := rows.Err(); err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("error iterating teacher rows: %w", err)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	return teachers, nil
}

// ListStudents fetches all student records ordered by name
func (c *Client) ListStudents(ctx context.Context) ([]models.StudentRecord, error) {
	start := time.Now()
	operation := "listStudents"

	query := `
		SELECT id, email, full_name, program, semester, roll_number, created_at
		FROM students_data
		ORDER BY full_name`

	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	students := []models.StudentRecord{}
	for rows.Next() {
		var student models.StudentRecord
		if err := rows.Scan(&student.ID, &student.Email, &student.FullName,
			&student.Program, &student.Semester, &student.RollNumber, &student.CreatedAt); err != nil {
			duration := metrics.MeasureDuration(start)
			recordMetrics(operation, "error", duration)
			return nil, fmt.Errorf("failed to scan student row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	return students, nil
}

// CountTeachers returns the number of teacher records
func (c *Client) CountTeachers(ctx context.Context) (int64, error) {
	start := time.Now()
	operation := "countTeachers"

	var count int64
	err := c.pool.QueryRow(ctx, "SELECT COUNT(*) FROM teachers_data").Scan(&count)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return 0, fmt.Errorf("failed to count teachers: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return count, nil
}

// CountStudents returns the number of student records
func (c *Client) CountStudents(ctx context.Context) (int64, error) {
	start := time.Now()
	operation := "countStudents"

	var count int64
	err := c.pool.QueryRow(ctx, "SELECT COUNT(*) FROM students_data").Scan(&count)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return 0, fmt.Errorf("failed to count students: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return count, nil
}
