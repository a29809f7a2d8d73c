package models

import "time"

// Account is a row in the users table. It carries credentials only;
// role membership lives in the per-role data tables.
type Account struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// TeacherRecord is a row in the teachers_data table.
type TeacherRecord struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	Department  string    `json:"department"`
	Designation string    `json:"designation"`
	Subjects    []string  `json:"subjects"`
	CreatedAt   time.Time `json:"created_at"`
}

// StudentRecord is a row in the students_data table.
type StudentRecord struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Program    string    `json:"program"`
	Semester   int       `json:"semester"`
	RollNumber string    `json:"roll_number"`
	CreatedAt  time.Time `json:"created_at"`
}

// AdminRecord is a row in the admin_users table.
type AdminRecord struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

// RoleProfile is the outcome of role resolution: the resolved role plus
// the role-specific payload forwarded to the query router as user_data.
type RoleProfile struct {
	Role     Role           `json:"role"`
	UserData map[string]any `json:"user_data,omitempty"`
}

// GuestProfile returns the profile used when no role record matches or
// resolution fails.
func GuestProfile() *RoleProfile {
	return &RoleProfile{Role: RoleGuest}
}

// ToUserData flattens a teacher record into the query router payload.
func (t *TeacherRecord) ToUserData() map[string]any {
	return map[string]any{
		"email":       t.Email,
		"full_name":   t.FullName,
		"department":  t.Department,
		"designation": t.Designation,
		"subjects":    t.Subjects,
	}
}

// ToUserData flattens a student record into the query router payload.
func (s *StudentRecord) ToUserData() map[string]any {
	return map[string]any{
		"email":       s.Email,
		"full_name":   s.FullName,
		"program":     s.Program,
		"semester":    s.Semester,
		"roll_number": s.RollNumber,
	}
}

// ToUserData flattens an admin record into the query router payload.
func (a *AdminRecord) ToUserData() map[string]any {
	return map[string]any{
		"email":     a.Email,
		"full_name": a.FullName,
	}
}
