package models

import (
	"strings"
	"time"
)

// UserRole is the explicit role tag stored on every account.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleTeacher UserRole = "TEACHER"
	RoleStudent UserRole = "STUDENT"
	RoleTutor   UserRole = "TUTOR"
)

// Valid reports whether the role is one of the supported tags.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent, RoleTutor:
		return true
	default:
		return false
	}
}

// User represents an application user stored in the users table.
type User struct {
	ID           string     `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FirstName    string     `db:"first_name" json:"first_name"`
	LastName     string     `db:"last_name" json:"last_name"`
	Phone        *string    `db:"phone" json:"phone,omitempty"`
	Role         UserRole   `db:"role" json:"role"`
	DeviceToken  *string    `db:"device_token" json:"-"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role     *UserRole
	Search   string
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// TeacherProfile holds teacher specific data.
type TeacherProfile struct {
	UserID    string  `db:"user_id" json:"user_id"`
	Specialty *string `db:"specialty" json:"especialidad,omitempty"`
}

// RegisterUserRequest is the payload for creating teachers, students and tutors.
type RegisterUserRequest struct {
	Username  string  `json:"username" validate:"required,min=3,max=150"`
	Email     string  `json:"email" validate:"omitempty,email"`
	Password  string  `json:"password" validate:"required,min=6"`
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Phone     *string `json:"telefono,omitempty"`
	Specialty *string `json:"especialidad,omitempty"`
}

// DeviceTokenRequest registers a push notification token for the caller.
type DeviceTokenRequest struct {
	Token string `json:"device_token" validate:"required,max=255"`
}

// Person is the compact user representation embedded in academic payloads.
type Person struct {
	ID        string `db:"id" json:"id"`
	Username  string `db:"username" json:"username"`
	FirstName string `db:"first_name" json:"nombre"`
	LastName  string `db:"last_name" json:"apellido"`
	Email     string `db:"email" json:"correo"`
}

// FullName joins first and last name.
func (p Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
