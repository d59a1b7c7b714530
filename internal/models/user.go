package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role levels. Admin routes require RoleAdmin.
const (
	RoleUser  = 1
	RoleAdmin = 2
)

// User is an application account. The login field is email, end to end.
type User struct {
	ID                int64     `db:"id" json:"id"`
	Email             string    `db:"email" json:"email"`
	PasswordHash      string    `db:"password_hash" json:"-"`
	FirstName         *string   `db:"first_name" json:"first_name,omitempty"`
	LastName          *string   `db:"last_name" json:"last_name,omitempty"`
	RoleLevel         int       `db:"role_level" json:"role_level"`
	IsActive          bool      `db:"is_active" json:"is_active"`
	EmailVerified     bool      `db:"email_verified" json:"email_verified"`
	VerificationToken *string   `db:"verification_token" json:"-"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// IsAdmin reports whether the user may access admin routes.
func (u User) IsAdmin() bool {
	return u.RoleLevel >= RoleAdmin
}

// UserFilter captures filtering options for listing users.
type UserFilter struct {
	ListQuery
	RoleLevel *int
}

// JWTClaims is the token payload issued on login.
type JWTClaims struct {
	UserID    int64  `json:"uid"`
	Email     string `json:"email"`
	RoleLevel int    `json:"role_level"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the token belongs to an admin.
func (c *JWTClaims) IsAdmin() bool {
	return c.RoleLevel >= RoleAdmin
}

// Bookmark remembers a user's position inside a lesson.
type Bookmark struct {
	ID              int64     `db:"id" json:"id"`
	UserID          int64     `db:"user_id" json:"user_id"`
	LessonID        int64     `db:"lesson_id" json:"lesson_id"`
	PositionSeconds int       `db:"position_seconds" json:"position_seconds"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
