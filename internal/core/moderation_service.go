package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"bulletin-backend-go/internal/db"
	"bulletin-backend-go/internal/models"
)

// Websocket event names pushed on every view change.
const (
	EventPendingUpdated    = "pending_updated"
	EventApprovedUpdated   = "approved_updated"
	EventSubscriptionError = "subscription_error"
)

// QueueUpdate is the broadcast payload for a view change.
type QueueUpdate struct {
	Posts []*models.Post `json:"posts"`
	Count int            `json:"count"`
}

// watchRetryDelay is how long a dead subscription waits before re-subscribing.
// The last-known view keeps serving in the meantime.
const watchRetryDelay = 5 * time.Second

// liveView is one queue's in-memory mirror, replaced wholesale on every
// snapshot delivery.
type liveView struct {
	mu    sync.RWMutex
	posts []*models.Post
}

func (v *liveView) set(posts []*models.Post) {
	v.mu.Lock()
	v.posts = posts
	v.mu.Unlock()
}

func (v *liveView) get() []*models.Post {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]*models.Post, len(v.posts))
	copy(out, v.posts)
	return out
}

func (v *liveView) count() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.posts)
}

// moderationService implements the ModerationService interface. It holds the
// live mirrors of both queues and performs the pending -> approved and
// pending -> deleted transitions.
type moderationService struct {
	postRepo    db.PostRepository
	broadcaster Broadcaster
	logger      *zap.Logger
	retryDelay  time.Duration

	pending  liveView
	approved liveView
}

// NewModerationService creates a new ModerationService instance. broadcaster
// may be nil when no live-update transport is wired (tests).
func NewModerationService(postRepo db.PostRepository, broadcaster Broadcaster, logger *zap.Logger) ModerationService {
	return &moderationService{
		postRepo:    postRepo,
		broadcaster: broadcaster,
		logger:      logger,
		retryDelay:  watchRetryDelay,
	}
}

// Start launches one watcher goroutine per queue. Each watcher re-subscribes
// after a failure instead of crashing the view; subscribers keep seeing the
// last-known data until the store recovers.
func (s *moderationService) Start(ctx context.Context) {
	go s.watchQueue(ctx, models.StatusPending, &s.pending, EventPendingUpdated)
	go s.watchQueue(ctx, models.StatusApproved, &s.approved, EventApprovedUpdated)
}

func (s *moderationService) watchQueue(ctx context.Context, st models.PostStatus, view *liveView, event string) {
	for {
		updates := s.postRepo.Watch(ctx, st)
		for update := range updates {
			if update.Err != nil {
				s.logger.Error("Live subscription failed; keeping last-known view",
					zap.String("queue", string(st)), zap.Error(update.Err))
				s.broadcast(EventSubscriptionError, map[string]string{
					"queue":   string(st),
					"message": update.Err.Error(),
				})
				continue
			}

			posts := update.Posts
			sortPostsNewestFirst(posts)
			view.set(posts)
			s.broadcast(event, QueueUpdate{Posts: posts, Count: len(posts)})
		}

		if ctx.Err() != nil {
			return
		}

		select {
		case <-time.After(s.retryDelay):
		case <-ctx.Done():
			return
		}
	}
}

func (s *moderationService) broadcast(event string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(event, payload)
	}
}

// Pending returns the current pending view, newest first.
func (s *moderationService) Pending() []*models.Post {
	return s.pending.get()
}

// Approved returns the current approved view, newest first.
func (s *moderationService) Approved() []*models.Post {
	return s.approved.get()
}

// Stats returns the derived counts of both views.
func (s *moderationService) Stats() QueueStats {
	return QueueStats{
		PendingPosts:  s.pending.count(),
		ApprovedPosts: s.approved.count(),
	}
}

// Approve moves a pending post into the approved queue. The repository makes
// the insert and delete one atomic transition, so the approval is observable
// only once both writes have landed.
func (s *moderationService) Approve(ctx context.Context, postID string) (*models.Post, error) {
	approved, err := s.postRepo.Approve(ctx, postID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: pending post '%s'", ErrPostNotFound, postID)
		}
		return nil, fmt.Errorf("failed to approve post '%s': %w", postID, err)
	}
	s.logger.Info("Post approved", zap.String("pendingID", postID), zap.String("approvedID", approved.ID))
	return approved, nil
}

// Reject deletes a pending post. No trace of it is retained.
func (s *moderationService) Reject(ctx context.Context, postID string) error {
	if err := s.postRepo.DeletePending(ctx, postID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: pending post '%s'", ErrPostNotFound, postID)
		}
		return fmt.Errorf("failed to reject post '%s': %w", postID, err)
	}
	s.logger.Info("Post rejected", zap.String("pendingID", postID))
	return nil
}

// sortPostsNewestFirst orders by createdAt descending, the display order for
// both the dashboard and the public feed.
func sortPostsNewestFirst(posts []*models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}
