package core

import "errors"

// Sentinel errors surfaced by the service layer. Handlers in internal/api map
// these to HTTP status codes; everything else is treated as a store or
// transport failure.
var (
	// ErrValidation marks a submission that failed field validation. The
	// wrapping error names the offending field.
	ErrValidation = errors.New("validation failed")

	// ErrUpload marks an image transfer failure. The submission is aborted
	// before any post is written.
	ErrUpload = errors.New("image upload failed")

	// ErrInvalidCredentials is returned for a wrong email or password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrTooManyAttempts is returned when the identity provider has
	// rate-limited sign-in attempts for the account.
	ErrTooManyAttempts = errors.New("too many failed login attempts")

	// ErrNotAdmin is returned when an authenticated user is not a member of
	// the admins set.
	ErrNotAdmin = errors.New("not authorized as admin")

	// ErrPostNotFound is returned when the referenced post does not exist in
	// the expected queue.
	ErrPostNotFound = errors.New("post not found")

	// ErrUserNotFound is returned when no user record exists for a UID.
	ErrUserNotFound = errors.New("user not found")
)
