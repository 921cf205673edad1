package core

import (
	"context"
	"fmt"
	"io"
	"sync"

	"bulletin-backend-go/internal/db"
	"bulletin-backend-go/internal/models"
)

// fakePostRepo is an in-memory PostRepository. Watch behavior is pluggable so
// subscription tests can drive deliveries by hand; by default it blocks.
type fakePostRepo struct {
	mu       sync.Mutex
	nextID   int
	pending  map[string]*models.Post
	approved map[string]*models.Post
	watchFn  func(ctx context.Context, status models.PostStatus) <-chan db.PostsUpdate

	createErr error
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		pending:  make(map[string]*models.Post),
		approved: make(map[string]*models.Post),
	}
}

func (r *fakePostRepo) newID() string {
	r.nextID++
	return fmt.Sprintf("doc-%d", r.nextID)
}

func (r *fakePostRepo) CreatePending(ctx context.Context, post *models.Post) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return "", r.createErr
	}
	post.ID = r.newID()
	stored := *post
	r.pending[post.ID] = &stored
	return post.ID, nil
}

func (r *fakePostRepo) GetPending(ctx context.Context, postID string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.pending[postID]
	if !ok {
		return nil, db.ErrNotFound
	}
	out := *post
	return &out, nil
}

func (r *fakePostRepo) ListPending(ctx context.Context) ([]*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Post, 0, len(r.pending))
	for _, p := range r.pending {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakePostRepo) ListApproved(ctx context.Context) ([]*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Post, 0, len(r.approved))
	for _, p := range r.approved {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakePostRepo) Approve(ctx context.Context, postID string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.pending[postID]
	if !ok {
		return nil, db.ErrNotFound
	}
	approved := *post
	approved.ID = r.newID()
	approved.Status = models.StatusApproved
	r.approved[approved.ID] = &approved
	delete(r.pending, postID)
	out := approved
	return &out, nil
}

func (r *fakePostRepo) DeletePending(ctx context.Context, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pending[postID]; !ok {
		return db.ErrNotFound
	}
	delete(r.pending, postID)
	return nil
}

func (r *fakePostRepo) DeleteApproved(ctx context.Context, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.approved[postID]; !ok {
		return db.ErrNotFound
	}
	delete(r.approved, postID)
	return nil
}

func (r *fakePostRepo) Watch(ctx context.Context, status models.PostStatus) <-chan db.PostsUpdate {
	if r.watchFn != nil {
		return r.watchFn(ctx, status)
	}
	ch := make(chan db.PostsUpdate)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch
}

// fakeUploader records calls and returns a fixed URL or a configured error.
type fakeUploader struct {
	mu    sync.Mutex
	calls []string
	url   string
	err   error
}

func (u *fakeUploader) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	u.mu.Lock()
	u.calls = append(u.calls, filename)
	u.mu.Unlock()
	if u.err != nil {
		return "", u.err
	}
	if u.url != "" {
		return u.url, nil
	}
	return "https://cdn.example.com/" + filename, nil
}

func (u *fakeUploader) callCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.calls)
}

// fakeBroadcaster records every event pushed through it.
type fakeBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (b *fakeBroadcaster) Broadcast(event string, payload interface{}) {
	b.mu.Lock()
	b.events = append(b.events, event)
	b.mu.Unlock()
}

func (b *fakeBroadcaster) seen(event string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range b.events {
		if e == event {
			return true
		}
	}
	return false
}
