package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bulletin-backend-go/internal/db"
	"bulletin-backend-go/internal/models"
)

func pendingPost(id, title string, createdAt time.Time) *models.Post {
	return &models.Post{
		ID:        id,
		Title:     title,
		Author:    "someone",
		Content:   "body",
		Category:  models.CategoryGeneral,
		Priority:  models.PriorityNormal,
		Status:    models.StatusPending,
		CreatedAt: createdAt,
	}
}

// watchHarness hands the test direct control over both queue subscriptions.
type watchHarness struct {
	pendingCh  chan db.PostsUpdate
	approvedCh chan db.PostsUpdate
}

func newWatchHarness(repo *fakePostRepo) *watchHarness {
	h := &watchHarness{
		pendingCh:  make(chan db.PostsUpdate, 4),
		approvedCh: make(chan db.PostsUpdate, 4),
	}
	repo.watchFn = func(ctx context.Context, status models.PostStatus) <-chan db.PostsUpdate {
		if status == models.StatusPending {
			return h.pendingCh
		}
		return h.approvedCh
	}
	return h
}

func TestModerationViewsFollowSnapshots(t *testing.T) {
	repo := newFakePostRepo()
	harness := newWatchHarness(repo)
	broadcaster := &fakeBroadcaster{}
	svc := NewModerationService(repo, broadcaster, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)

	older := pendingPost("p1", "older", time.Now().UTC().Add(-time.Hour))
	newer := pendingPost("p2", "newer", time.Now().UTC())
	harness.pendingCh <- db.PostsUpdate{Posts: []*models.Post{older, newer}}

	require.Eventually(t, func() bool {
		return len(svc.Pending()) == 2
	}, time.Second, 10*time.Millisecond)

	pending := svc.Pending()
	assert.Equal(t, "p2", pending[0].ID, "view must be sorted newest first")
	assert.Equal(t, "p1", pending[1].ID)
	assert.True(t, broadcaster.seen(EventPendingUpdated))

	stats := svc.Stats()
	assert.Equal(t, 2, stats.PendingPosts)
	assert.Equal(t, 0, stats.ApprovedPosts)
}

func TestModerationSubscriptionErrorKeepsLastKnownView(t *testing.T) {
	repo := newFakePostRepo()
	harness := newWatchHarness(repo)
	broadcaster := &fakeBroadcaster{}
	svc := NewModerationService(repo, broadcaster, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)

	harness.pendingCh <- db.PostsUpdate{Posts: []*models.Post{pendingPost("p1", "kept", time.Now().UTC())}}
	require.Eventually(t, func() bool {
		return len(svc.Pending()) == 1
	}, time.Second, 10*time.Millisecond)

	harness.pendingCh <- db.PostsUpdate{Err: errors.New("listen stream broken")}
	require.Eventually(t, func() bool {
		return broadcaster.seen(EventSubscriptionError)
	}, time.Second, 10*time.Millisecond)

	pending := svc.Pending()
	require.Len(t, pending, 1, "error delivery must not clear the view")
	assert.Equal(t, "kept", pending[0].Title)
}

func TestApproveMovesPostBetweenQueues(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewModerationService(repo, nil, zap.NewNop())

	created := time.Now().UTC().Add(-time.Minute)
	post := pendingPost("", "Science fair", created)
	post.Image = "https://cdn.example.com/fair.png"
	pendingID, err := repo.CreatePending(context.Background(), post)
	require.NoError(t, err)

	approved, err := svc.Approve(context.Background(), pendingID)
	require.NoError(t, err)

	assert.NotEqual(t, pendingID, approved.ID, "approved copy gets a fresh document ID")
	assert.Equal(t, models.StatusApproved, approved.Status)
	assert.Equal(t, "Science fair", approved.Title)
	assert.Equal(t, "https://cdn.example.com/fair.png", approved.Image)
	assert.True(t, approved.CreatedAt.Equal(created), "approval must not touch createdAt")

	_, err = repo.GetPending(context.Background(), pendingID)
	assert.True(t, errors.Is(err, db.ErrNotFound), "pending original must be gone")

	approvedList, _ := repo.ListApproved(context.Background())
	assert.Len(t, approvedList, 1)
}

func TestApproveUnknownPost(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewModerationService(repo, nil, zap.NewNop())

	_, err := svc.Approve(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPostNotFound))
}

func TestRejectDeletesPendingPost(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewModerationService(repo, nil, zap.NewNop())

	pendingID, err := repo.CreatePending(context.Background(), pendingPost("", "spam", time.Now().UTC()))
	require.NoError(t, err)

	require.NoError(t, svc.Reject(context.Background(), pendingID))

	_, err = repo.GetPending(context.Background(), pendingID)
	assert.True(t, errors.Is(err, db.ErrNotFound))

	approvedList, _ := repo.ListApproved(context.Background())
	assert.Empty(t, approvedList, "rejection must not copy anything to approved")
}

func TestRejectUnknownPost(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewModerationService(repo, nil, zap.NewNop())

	err := svc.Reject(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPostNotFound))
}

func TestApproveThenRejectSameID(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewModerationService(repo, nil, zap.NewNop())

	pendingID, err := repo.CreatePending(context.Background(), pendingPost("", "once", time.Now().UTC()))
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), pendingID)
	require.NoError(t, err)

	// The losing moderator of a race sees not-found, never a double move.
	err = svc.Reject(context.Background(), pendingID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPostNotFound))

	_, err = svc.Approve(context.Background(), pendingID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPostNotFound))
}
