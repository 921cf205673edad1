package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bulletin-backend-go/internal/core"
)

// FeedHandler serves the public feed of approved bulletins.
type FeedHandler struct {
	feedService core.FeedService
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(fs core.FeedService) *FeedHandler {
	return &FeedHandler{feedService: fs}
}

// ListPosts handles GET /api/v1/posts. Filters are optional query parameters;
// "all" (or absence) disables a filter. The result is always sorted newest
// first.
func (h *FeedHandler) ListPosts(c *gin.Context) {
	posts := h.feedService.Query(
		c.Query("search"),
		c.DefaultQuery("category", "all"),
		c.DefaultQuery("priority", "all"),
	)
	c.JSON(http.StatusOK, PostListResponse{Posts: posts, Count: len(posts)})
}

// DeletePost handles DELETE /api/v1/posts/:postId. Reaching this handler
// means the auth middleware already verified an admin identity.
func (h *FeedHandler) DeletePost(c *gin.Context) {
	postID := c.Param("postId")

	if err := h.feedService.Delete(c.Request.Context(), postID); err != nil {
		if errors.Is(err, core.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete post", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Post deleted"})
}
