package core

import (
	"context"
	"io"

	"bulletin-backend-go/internal/models"
)

// SubmissionService validates and writes new bulletin submissions into the
// pending queue.
type SubmissionService interface {
	// Submit validates the request, uploads the optional image, and appends a
	// pending post. image may be nil when the submission has no attachment.
	Submit(ctx context.Context, req models.SubmitPostRequest, image *ImageUpload) (*models.Post, error)
}

// ImageUpload is an attachment carried alongside a submission. Size must be
// known up front so the limit check happens before any bytes are transferred.
type ImageUpload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

// ModerationService maintains live views of the pending and approved queues
// and performs the review transitions.
type ModerationService interface {
	// Start launches the live subscriptions. It returns immediately; the
	// views fill as the first snapshots arrive and survive until ctx ends.
	Start(ctx context.Context)
	// Pending returns the current pending view, newest first.
	Pending() []*models.Post
	// Approved returns the current approved view, newest first.
	Approved() []*models.Post
	// Stats returns the derived counts of both views.
	Stats() QueueStats
	// Approve moves a pending post into the approved queue.
	Approve(ctx context.Context, postID string) (*models.Post, error)
	// Reject deletes a pending post outright.
	Reject(ctx context.Context, postID string) error
}

// QueueStats is the derived count of each queue, shaped for the dashboard.
type QueueStats struct {
	PendingPosts  int `json:"pendingPosts"`
	ApprovedPosts int `json:"approvedPosts"`
}

// FeedService serves the public, filterable view of approved posts.
type FeedService interface {
	// Query filters the approved view client-side: case-insensitive substring
	// match on title or content, exact category unless "all" or empty, exact
	// priority unless "all" or empty.
	Query(search, category, priority string) []*models.Post
	// Delete removes an approved post. Authorization is enforced by the
	// caller's middleware, not here.
	Delete(ctx context.Context, postID string) error
}

// AuthService is the gate between the identity provider and the admin surface.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	IsAdmin(ctx context.Context, uid string) (bool, error)
	ChangePassword(ctx context.Context, uid, newPassword string) error
}

// LoginResult is a successful sign-in: the backend user record plus the
// provider tokens the client needs for subsequent requests.
type LoginResult struct {
	User         *models.User `json:"user"`
	IDToken      string       `json:"idToken"`
	RefreshToken string       `json:"refreshToken"`
}

// UserService manages backend user records keyed by Firebase Auth UID.
type UserService interface {
	GetByUID(ctx context.Context, uid string) (*models.User, error)
	// EnsureUser retrieves the record for uid, creating it with the given
	// profile fields when absent. Returns the record and whether it was created.
	EnsureUser(ctx context.Context, uid, email, displayName, photoURL string) (*models.User, bool, error)
}

// Uploader transfers an image blob to the object upload collaborator and
// returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

// Notifier is told about accepted submissions. Implementations must not block
// the submission path; failures are the implementation's to log.
type Notifier interface {
	PostSubmitted(post *models.Post) error
}

// Broadcaster pushes a named event with a JSON-serializable payload to every
// connected live-update subscriber.
type Broadcaster interface {
	Broadcast(event string, payload interface{})
}
