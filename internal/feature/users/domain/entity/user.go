// Package entity defines the domain entities for the users feature.
package entity

import "time"

// User represents a registered user in the system.
// It contains authentication credentials and metadata for user management.
type User struct {
	// ID is the unique identifier for the user, assigned by the store.
	ID uint `gorm:"primaryKey" json:"id"`

	// Username is the login name used for authentication.
	// Uniqueness is enforced at insert/update time by the repository layer,
	// so the column carries a plain (non-unique) index.
	Username string `gorm:"index;size:30;not null" json:"username"`

	// Email is the user's email address.
	// 254 characters is the recommended maximum length for an email address.
	Email string `gorm:"index;size:254;not null" json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	// This must never store plaintext passwords and is never serialized.
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	// IsActive indicates whether the user may authenticate.
	// Inactive users keep their records but are rejected at token resolution.
	IsActive bool `gorm:"not null;default:true" json:"is_active"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time `json:"updated_at"`
}
