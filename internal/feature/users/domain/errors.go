// Package domain defines domain-level errors for the users feature.
package domain

import "errors"

// Domain errors for user operations.
// These errors represent business logic failures and should be handled appropriately by upper layers.
var (
	// ErrUserNotFound indicates that no user was found with the given criteria.
	// This is returned by lookup, update and delete operations.
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken indicates that a user with the given username already exists.
	// This is returned when creating a user or renaming one to an occupied username.
	ErrUsernameTaken = errors.New("user with this username already exists")

	// ErrInvalidCredentials indicates that the provided credentials are incorrect.
	// It deliberately does not distinguish an unknown username from a wrong password.
	ErrInvalidCredentials = errors.New("incorrect username or password")

	// ErrInactiveUser indicates that the credentials or token were valid
	// but the resolved user has been deactivated.
	ErrInactiveUser = errors.New("inactive user")

	// ErrInvalidToken indicates that a bearer token failed verification
	// or its subject no longer resolves to a user.
	ErrInvalidToken = errors.New("could not validate credentials")
)
