package core

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"bulletin-backend-go/internal/db"
	"bulletin-backend-go/internal/models"
)

const (
	// maxContentChars bounds the content field, counted in characters to
	// match what the submission form shows the user.
	maxContentChars = 500
	// maxImageBytes is the attachment ceiling. Checked before the upload call
	// so an oversized file never leaves the client.
	maxImageBytes = 10 << 20
)

// submissionService implements the SubmissionService interface.
type submissionService struct {
	postRepo db.PostRepository
	uploader Uploader
	notifier Notifier
	logger   *zap.Logger
}

// NewSubmissionService creates a new SubmissionService instance. uploader is
// required; notifier may be nil when no moderation inbox is configured.
func NewSubmissionService(postRepo db.PostRepository, uploader Uploader, notifier Notifier, logger *zap.Logger) SubmissionService {
	return &submissionService{
		postRepo: postRepo,
		uploader: uploader,
		notifier: notifier,
		logger:   logger,
	}
}

// Submit validates the request, uploads the optional image, and appends the
// post to the pending queue. On upload failure the whole submission aborts so
// no post is ever written with a dangling image reference.
func (s *submissionService) Submit(ctx context.Context, req models.SubmitPostRequest, image *ImageUpload) (*models.Post, error) {
	if err := validateSubmission(req, image); err != nil {
		return nil, err
	}

	var imageURL string
	if image != nil {
		url, err := s.uploader.Upload(ctx, image.Filename, image.Reader)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpload, err)
		}
		imageURL = url
	}

	post := &models.Post{
		Title:     strings.TrimSpace(req.Title),
		Author:    strings.TrimSpace(req.Author),
		Content:   req.Content,
		Category:  models.PostCategory(req.Category),
		Priority:  models.PostPriority(req.Priority),
		Image:     imageURL,
		Status:    models.StatusPending,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := s.postRepo.CreatePending(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to write submission: %w", err)
	}

	s.logger.Info("Submission accepted",
		zap.String("postID", post.ID),
		zap.String("category", string(post.Category)),
		zap.Bool("hasImage", imageURL != ""),
	)

	if s.notifier != nil {
		// Notification is best-effort and must never fail the submission.
		go func(p models.Post) {
			if err := s.notifier.PostSubmitted(&p); err != nil {
				s.logger.Warn("Submission notification failed", zap.String("postID", p.ID), zap.Error(err))
			}
		}(*post)
	}

	return post, nil
}

func validateSubmission(req models.SubmitPostRequest, image *ImageUpload) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(req.Author) == "" {
		return fmt.Errorf("%w: author is required", ErrValidation)
	}
	if strings.TrimSpace(req.Content) == "" {
		return fmt.Errorf("%w: content is required", ErrValidation)
	}
	if utf8.RuneCountInString(req.Content) > maxContentChars {
		return fmt.Errorf("%w: content exceeds %d characters", ErrValidation, maxContentChars)
	}
	if !models.PostCategory(req.Category).Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, req.Category)
	}
	if !models.PostPriority(req.Priority).Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrValidation, req.Priority)
	}
	if image != nil && image.Size >= maxImageBytes {
		return fmt.Errorf("%w: image must be smaller than 10 MB", ErrValidation)
	}
	return nil
}
