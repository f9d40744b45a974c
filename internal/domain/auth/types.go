package auth

// Package auth contains domain-level types for accounts, credentials and roles.
// It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Role represents an application's authorization role.
// Keep string form for easy persistence and token claims.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleReader Role = "reader"
)

// DefaultRole is assigned to accounts created through signup.
const DefaultRole = RoleReader

// Valid reports whether r is one of the closed set of roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleReader:
		return true
	default:
		return false
	}
}

// ParseRole normalizes a role string and reports whether it is supported.
func ParseRole(value string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	if role.Valid() {
		return role, true
	}
	return "", false
}

// TokenType discriminates the two kinds of signed credentials.
type TokenType string

const (
	TokenTypeSession       TokenType = "session"
	TokenTypePasswordReset TokenType = "password-reset"
)

// User is an account record. PasswordHash never leaves the process.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Email        string    `json:"email"     db:"email"`
	Name         string    `json:"name"      db:"name"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	Role         Role      `json:"role"      db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// NewUser carries the fields needed to create an account. Role may be empty,
// in which case the repository assigns DefaultRole.
type NewUser struct {
	Email        string
	Name         string
	PasswordHash string
	Role         Role
}

// PasswordHistoryEntry is a previously used password hash, newest entries first when listed.
type PasswordHistoryEntry struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// Claims is the identity carried by a verified session token.
type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// ResetClaims is the intent carried by a verified password reset token.
type ResetClaims struct {
	UserID string `json:"userId"`
}

// ClaimsFor returns the session identity of u.
func ClaimsFor(u User) Claims {
	return Claims{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}
