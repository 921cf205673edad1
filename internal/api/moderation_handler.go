package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bulletin-backend-go/internal/core"
)

// ModerationHandler exposes the admin dashboard: the live pending/approved
// views and the approve/reject transitions.
type ModerationHandler struct {
	moderationService core.ModerationService
}

// NewModerationHandler creates a new ModerationHandler.
func NewModerationHandler(ms core.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: ms}
}

// ListPending handles GET /api/v1/admin/:adminId/pending.
func (h *ModerationHandler) ListPending(c *gin.Context) {
	posts := h.moderationService.Pending()
	c.JSON(http.StatusOK, PostListResponse{Posts: posts, Count: len(posts)})
}

// ListApproved handles GET /api/v1/admin/:adminId/approved.
func (h *ModerationHandler) ListApproved(c *gin.Context) {
	posts := h.moderationService.Approved()
	c.JSON(http.StatusOK, PostListResponse{Posts: posts, Count: len(posts)})
}

// Stats handles GET /api/v1/admin/:adminId/stats.
func (h *ModerationHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.moderationService.Stats())
}

// ApprovePost handles POST /api/v1/admin/:adminId/pending/:postId/approve.
// On success the post has moved to the approved queue; the response carries
// the approved copy with its new document ID.
func (h *ModerationHandler) ApprovePost(c *gin.Context) {
	postID := c.Param("postId")

	approved, err := h.moderationService.Approve(c.Request.Context(), postID)
	if err != nil {
		if errors.Is(err, core.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Pending post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Approve failed", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Post approved", Data: approved})
}

// RejectPost handles POST /api/v1/admin/:adminId/pending/:postId/reject.
func (h *ModerationHandler) RejectPost(c *gin.Context) {
	postID := c.Param("postId")

	if err := h.moderationService.Reject(c.Request.Context(), postID); err != nil {
		if errors.Is(err, core.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Pending post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Reject failed", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Post rejected and removed"})
}
