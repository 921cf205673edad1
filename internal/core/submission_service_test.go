package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bulletin-backend-go/internal/models"
)

func validRequest() models.SubmitPostRequest {
	return models.SubmitPostRequest{
		Title:    "Bake sale on Friday",
		Author:   "Student Council",
		Content:  "Cookies and brownies in the main hall at noon.",
		Category: "events",
		Priority: "normal",
	}
}

func newSubmissionFixture() (*fakePostRepo, *fakeUploader, SubmissionService) {
	repo := newFakePostRepo()
	uploader := &fakeUploader{}
	svc := NewSubmissionService(repo, uploader, nil, zap.NewNop())
	return repo, uploader, svc
}

func TestSubmitValidPostLandsPending(t *testing.T) {
	repo, _, svc := newSubmissionFixture()

	before := time.Now().UTC()
	post, err := svc.Submit(context.Background(), validRequest(), nil)
	require.NoError(t, err)
	after := time.Now().UTC()

	assert.NotEmpty(t, post.ID)
	assert.Equal(t, models.StatusPending, post.Status)
	assert.Equal(t, "Bake sale on Friday", post.Title)
	assert.Empty(t, post.Image)
	assert.False(t, post.CreatedAt.Before(before))
	assert.False(t, post.CreatedAt.After(after))

	stored, err := repo.GetPending(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestSubmitTrimsTitleAndAuthor(t *testing.T) {
	_, _, svc := newSubmissionFixture()

	req := validRequest()
	req.Title = "  Chess club tryouts  "
	req.Author = " Ms. Park "

	post, err := svc.Submit(context.Background(), req, nil)
	require.NoError(t, err)
	assert.Equal(t, "Chess club tryouts", post.Title)
	assert.Equal(t, "Ms. Park", post.Author)
}

func TestSubmitValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.SubmitPostRequest)
	}{
		{"missing title", func(r *models.SubmitPostRequest) { r.Title = "   " }},
		{"missing author", func(r *models.SubmitPostRequest) { r.Author = "" }},
		{"missing content", func(r *models.SubmitPostRequest) { r.Content = "" }},
		{"unknown category", func(r *models.SubmitPostRequest) { r.Category = "gossip" }},
		{"unknown priority", func(r *models.SubmitPostRequest) { r.Priority = "critical" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _, svc := newSubmissionFixture()

			req := validRequest()
			tt.mutate(&req)

			_, err := svc.Submit(context.Background(), req, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation), "expected ErrValidation, got %v", err)

			pending, _ := repo.ListPending(context.Background())
			assert.Empty(t, pending, "rejected submission must not be written")
		})
	}
}

func TestSubmitContentLengthBoundary(t *testing.T) {
	_, _, svc := newSubmissionFixture()

	req := validRequest()
	req.Content = strings.Repeat("a", 500)
	_, err := svc.Submit(context.Background(), req, nil)
	assert.NoError(t, err, "exactly 500 characters is allowed")

	req.Content = strings.Repeat("a", 501)
	_, err = svc.Submit(context.Background(), req, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestSubmitContentLengthCountsCharactersNotBytes(t *testing.T) {
	_, _, svc := newSubmissionFixture()

	// 500 multi-byte runes is within the limit even though it is 1500 bytes.
	req := validRequest()
	req.Content = strings.Repeat("日", 500)

	_, err := svc.Submit(context.Background(), req, nil)
	assert.NoError(t, err)
}

func TestSubmitOversizedImageRejectedBeforeUpload(t *testing.T) {
	repo, uploader, svc := newSubmissionFixture()

	image := &ImageUpload{
		Filename: "poster.png",
		Size:     10 << 20,
		Reader:   strings.NewReader("not actually 10MB"),
	}

	_, err := svc.Submit(context.Background(), validRequest(), image)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Zero(t, uploader.callCount(), "oversized image must never reach the uploader")

	pending, _ := repo.ListPending(context.Background())
	assert.Empty(t, pending)
}

func TestSubmitWithImageStoresURL(t *testing.T) {
	_, uploader, svc := newSubmissionFixture()
	uploader.url = "https://res.example.com/image/upload/abc123.png"

	image := &ImageUpload{
		Filename: "poster.png",
		Size:     2048,
		Reader:   strings.NewReader("png bytes"),
	}

	post, err := svc.Submit(context.Background(), validRequest(), image)
	require.NoError(t, err)
	assert.Equal(t, "https://res.example.com/image/upload/abc123.png", post.Image)
	assert.Equal(t, 1, uploader.callCount())
}

func TestSubmitUploadFailureAbortsSubmission(t *testing.T) {
	repo, uploader, svc := newSubmissionFixture()
	uploader.err = errors.New("upstream unavailable")

	image := &ImageUpload{
		Filename: "poster.png",
		Size:     2048,
		Reader:   strings.NewReader("png bytes"),
	}

	_, err := svc.Submit(context.Background(), validRequest(), image)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpload))

	pending, _ := repo.ListPending(context.Background())
	assert.Empty(t, pending, "no post may be written with a failed image upload")
}
