package models

import "time"

// UserRole scopes what a user may do.
type UserRole string

const (
	RoleStudent     UserRole = "STUDENT"
	RoleMentor      UserRole = "MENTOR"
	RoleCoordinator UserRole = "COORDINATOR"
)

// User is an authenticated account.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	FullName     string    `db:"full_name" json:"full_name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
