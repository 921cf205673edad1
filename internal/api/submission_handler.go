package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bulletin-backend-go/internal/core"
	"bulletin-backend-go/internal/models"
)

// SubmissionHandler handles the public bulletin submission endpoint.
type SubmissionHandler struct {
	submissionService core.SubmissionService
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(ss core.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: ss}
}

// SubmitPost handles POST /api/v1/posts. The body is multipart form data:
// the text fields of models.SubmitPostRequest plus an optional "image" file
// part. Anyone may submit; the post lands in the pending queue.
func (h *SubmissionHandler) SubmitPost(c *gin.Context) {
	var req models.SubmitPostRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid submission form", Details: err.Error()})
		return
	}

	var image *core.ImageUpload
	fileHeader, err := c.FormFile("image")
	if err == nil && fileHeader != nil {
		file, openErr := fileHeader.Open()
		if openErr != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unable to read attached image", Details: openErr.Error()})
			return
		}
		defer file.Close()
		image = &core.ImageUpload{
			Filename: fileHeader.Filename,
			Size:     fileHeader.Size,
			Reader:   file,
		}
	}

	post, err := h.submissionService.Submit(c.Request.Context(), req, image)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Submission rejected", Details: err.Error()})
		case errors.Is(err, core.ErrUpload):
			// The collaborator failed; nothing was written.
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Image upload failed", Details: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to store submission", Details: err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, post)
}
