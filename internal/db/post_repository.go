package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"bulletin-backend-go/internal/models"
)

const (
	pendingPostsCollection  = "pendingPosts"
	approvedPostsCollection = "approvedPosts"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("document not found")

// firestorePostRepository implements PostRepository on top of the two
// Firestore collections holding the pending and approved queues.
type firestorePostRepository struct {
	client *firestore.Client
}

// NewFirestorePostRepository creates a new instance of firestorePostRepository.
func NewFirestorePostRepository(client *firestore.Client) PostRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for PostRepository.")
	}
	return &firestorePostRepository{client: client}
}

func collectionFor(st models.PostStatus) string {
	if st == models.StatusApproved {
		return approvedPostsCollection
	}
	return pendingPostsCollection
}

// CreatePending adds a new post document to the pending collection with an
// auto-generated ID. Concurrent submitters cannot collide because the key is
// assigned server-side.
func (r *firestorePostRepository) CreatePending(ctx context.Context, post *models.Post) (string, error) {
	docRef := r.client.Collection(pendingPostsCollection).NewDoc()
	post.ID = docRef.ID
	post.Status = models.StatusPending

	if _, err := docRef.Create(ctx, post); err != nil {
		return "", fmt.Errorf("failed to create pending post: %w", err)
	}
	return docRef.ID, nil
}

// GetPending retrieves one post from the pending collection by document ID.
func (r *firestorePostRepository) GetPending(ctx context.Context, postID string) (*models.Post, error) {
	if postID == "" {
		return nil, errors.New("postID cannot be empty for GetPending operation")
	}
	docSnap, err := r.client.Collection(pendingPostsCollection).Doc(postID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("pending post '%s' not found: %w", postID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get pending post '%s': %w", postID, err)
	}

	var post models.Post
	if err := docSnap.DataTo(&post); err != nil {
		return nil, fmt.Errorf("failed to decode pending post '%s': %w", postID, err)
	}
	post.ID = docSnap.Ref.ID
	return &post, nil
}

// ListPending returns the full pending queue ordered newest first.
func (r *firestorePostRepository) ListPending(ctx context.Context) ([]*models.Post, error) {
	return r.list(ctx, pendingPostsCollection)
}

// ListApproved returns the full approved queue ordered newest first.
func (r *firestorePostRepository) ListApproved(ctx context.Context) ([]*models.Post, error) {
	return r.list(ctx, approvedPostsCollection)
}

func (r *firestorePostRepository) list(ctx context.Context, coll string) ([]*models.Post, error) {
	iter := r.client.Collection(coll).OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var posts []*models.Post
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate %s: %w", coll, err)
		}

		var post models.Post
		if err := doc.DataTo(&post); err != nil {
			// A single undecodable document should not take down the whole list.
			log.Printf("Error decoding post %s in %s: %v. Skipping.", doc.Ref.ID, coll, err)
			continue
		}
		post.ID = doc.Ref.ID
		posts = append(posts, &post)
	}
	return posts, nil
}

// Approve moves a post from the pending queue to the approved queue in a
// single Firestore transaction: the approved copy (with a fresh document ID
// and status rewritten) and the pending delete either both land or neither
// does, so two admins racing on the same post cannot produce a duplicate.
func (r *firestorePostRepository) Approve(ctx context.Context, postID string) (*models.Post, error) {
	if postID == "" {
		return nil, errors.New("postID cannot be empty for Approve operation")
	}

	pendingRef := r.client.Collection(pendingPostsCollection).Doc(postID)
	approvedRef := r.client.Collection(approvedPostsCollection).NewDoc()

	var approved models.Post
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnap, err := tx.Get(pendingRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return fmt.Errorf("pending post '%s' not found: %w", postID, ErrNotFound)
			}
			return fmt.Errorf("failed to read pending post '%s': %w", postID, err)
		}
		if err := docSnap.DataTo(&approved); err != nil {
			return fmt.Errorf("failed to decode pending post '%s': %w", postID, err)
		}

		// The approved copy keeps title/author/content/category/priority/image
		// and the original createdAt; only the status and document ID change.
		approved.ID = approvedRef.ID
		approved.Status = models.StatusApproved

		if err := tx.Create(approvedRef, &approved); err != nil {
			return fmt.Errorf("failed to write approved post: %w", err)
		}
		if err := tx.Delete(pendingRef); err != nil {
			return fmt.Errorf("failed to delete pending post '%s': %w", postID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &approved, nil
}

// DeletePending removes a post from the pending queue. Used for rejection;
// no trace of the post is retained.
func (r *firestorePostRepository) DeletePending(ctx context.Context, postID string) error {
	return r.delete(ctx, pendingPostsCollection, postID)
}

// DeleteApproved removes a post from the approved queue.
func (r *firestorePostRepository) DeleteApproved(ctx context.Context, postID string) error {
	return r.delete(ctx, approvedPostsCollection, postID)
}

func (r *firestorePostRepository) delete(ctx context.Context, coll, postID string) error {
	if postID == "" {
		return errors.New("postID cannot be empty for delete operation")
	}
	// Plain deletes succeed even when the document is gone; the Exists
	// precondition turns that into an error so callers can report not-found.
	if _, err := r.client.Collection(coll).Doc(postID).Delete(ctx, firestore.Exists); err != nil {
		if code := status.Code(err); code == codes.NotFound || code == codes.FailedPrecondition {
			return fmt.Errorf("post '%s' not found in %s: %w", postID, coll, ErrNotFound)
		}
		return fmt.Errorf("failed to delete post '%s' from %s: %w", postID, coll, err)
	}
	return nil
}

// Watch opens a snapshot listener on one queue. Firestore pushes every
// committed change on the watched collection; each push is converted into a
// full decoded queue snapshot. The goroutine exits when ctx is cancelled or
// the listener fails, closing the channel either way.
func (r *firestorePostRepository) Watch(ctx context.Context, st models.PostStatus) <-chan PostsUpdate {
	updates := make(chan PostsUpdate, 1)
	coll := collectionFor(st)

	go func() {
		defer close(updates)

		snapIter := r.client.Collection(coll).Snapshots(ctx)
		defer snapIter.Stop()

		for {
			snap, err := snapIter.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled {
					return
				}
				// The iterator is dead after a non-cancel error; report it and
				// let the consumer decide to re-subscribe.
				select {
				case updates <- PostsUpdate{Err: fmt.Errorf("snapshot listener on %s failed: %w", coll, err)}:
				case <-ctx.Done():
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				select {
				case updates <- PostsUpdate{Err: fmt.Errorf("failed to read snapshot of %s: %w", coll, err)}:
				case <-ctx.Done():
				}
				return
			}

			posts := make([]*models.Post, 0, len(docs))
			for _, doc := range docs {
				var post models.Post
				if err := doc.DataTo(&post); err != nil {
					log.Printf("Error decoding post %s in %s snapshot: %v. Skipping.", doc.Ref.ID, coll, err)
					continue
				}
				post.ID = doc.Ref.ID
				posts = append(posts, &post)
			}

			select {
			case updates <- PostsUpdate{Posts: posts}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return updates
}
