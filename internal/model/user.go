package model

import "time"

// Role values stored in users.role. The column is an ENUM so any other
// value is rejected at the storage layer.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an application user record as stored in the
// `users` table. Emails are normalized (trimmed + lowercased) before
// storage and carry a unique index, so there is exactly one record
// per normalized email.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Name         – display name shown in dashboards.
//	Email        – normalized unique email address.
//	PasswordHash – bcrypt hashed password.
//	Role         – "user" or "admin".
//	CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
}

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// RefreshToken models an entry in the `refresh_tokens` table. Each
// refresh token belongs to a user; the plain token is not stored, only
// its SHA-256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
