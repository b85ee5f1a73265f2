package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that the account was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that the username or email is already taken
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrChallengeNotFound indicates that no live passkey challenge exists
	// (never issued, already consumed, or expired)
	ErrChallengeNotFound = errors.New("passkey challenge not found")

	// ErrThreadNotFound indicates that no contact thread exists for the email
	ErrThreadNotFound = errors.New("contact thread not found")
)
