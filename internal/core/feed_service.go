package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bulletin-backend-go/internal/db"
	"bulletin-backend-go/internal/models"
)

// ApprovedSource supplies the current approved view. The moderation service
// satisfies this, so the feed and the dashboard share one live subscription.
type ApprovedSource interface {
	Approved() []*models.Post
}

// feedService implements the FeedService interface. Filtering is entirely
// client-side over the full approved collection, which holds the whole view in
// memory; fine for a single school's bulletin volume, a scalability ceiling
// beyond that.
type feedService struct {
	source   ApprovedSource
	postRepo db.PostRepository
}

// NewFeedService creates a new FeedService instance.
func NewFeedService(source ApprovedSource, postRepo db.PostRepository) FeedService {
	return &feedService{
		source:   source,
		postRepo: postRepo,
	}
}

// Query filters the approved view. Match semantics: case-insensitive substring
// on title OR content, AND exact category unless "all"/empty, AND exact
// priority unless "all"/empty. The source is already sorted newest first and
// the filter preserves that order, so the same arguments always yield the same
// sequence for the same view.
func (s *feedService) Query(search, category, priority string) []*models.Post {
	posts := s.source.Approved()

	needle := strings.ToLower(strings.TrimSpace(search))
	filterCategory := category != "" && !strings.EqualFold(category, "all")
	filterPriority := priority != "" && !strings.EqualFold(priority, "all")

	out := make([]*models.Post, 0, len(posts))
	for _, post := range posts {
		if needle != "" &&
			!strings.Contains(strings.ToLower(post.Title), needle) &&
			!strings.Contains(strings.ToLower(post.Content), needle) {
			continue
		}
		if filterCategory && string(post.Category) != category {
			continue
		}
		if filterPriority && string(post.Priority) != priority {
			continue
		}
		out = append(out, post)
	}
	return out
}

// Delete removes an approved post from the store. The admin gate is the
// caller's middleware; by the time this runs the identity has been verified
// server-side.
func (s *feedService) Delete(ctx context.Context, postID string) error {
	if err := s.postRepo.DeleteApproved(ctx, postID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: approved post '%s'", ErrPostNotFound, postID)
		}
		return fmt.Errorf("failed to delete approved post '%s': %w", postID, err)
	}
	return nil
}
