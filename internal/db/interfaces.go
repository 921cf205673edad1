package db

import (
	"context"

	"bulletin-backend-go/internal/models"
)

// PostsUpdate is one delivery from a live collection watch: either the full,
// current contents of the watched queue or a subscription error. After an
// error delivery the channel is closed and the caller decides whether to
// re-subscribe.
type PostsUpdate struct {
	Posts []*models.Post
	Err   error
}

// PostRepository defines storage operations for the two post queues.
type PostRepository interface {
	// CreatePending appends a new post to the pending queue with a
	// server-assigned document ID. Returns the new ID.
	CreatePending(ctx context.Context, post *models.Post) (string, error)
	GetPending(ctx context.Context, postID string) (*models.Post, error)
	ListPending(ctx context.Context) ([]*models.Post, error)
	ListApproved(ctx context.Context) ([]*models.Post, error)
	// Approve atomically copies the pending post into the approved queue
	// (status rewritten, new document ID) and deletes the pending document.
	Approve(ctx context.Context, postID string) (*models.Post, error)
	DeletePending(ctx context.Context, postID string) error
	DeleteApproved(ctx context.Context, postID string) error
	// Watch opens a live subscription on one queue. Every committed change to
	// the collection produces a PostsUpdate on the returned channel.
	Watch(ctx context.Context, status models.PostStatus) <-chan PostsUpdate
}

// UserRepository defines storage operations for user records.
type UserRepository interface {
	GetByUID(ctx context.Context, uid string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, uid string) error
	UpdateLastPasswordChange(ctx context.Context, uid string) error
}

// AdminRepository answers membership queries against the admins collection.
type AdminRepository interface {
	IsAdmin(ctx context.Context, uid string) (bool, error)
}
