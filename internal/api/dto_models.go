package api

import "bulletin-backend-go/internal/models"

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`             // A high-level error message
	Details string `json:"details,omitempty"` // More specific details, if available
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PostListResponse is the shape of every post-list endpoint: the posts plus
// their derived count, matching what the dashboard statistics display.
type PostListResponse struct {
	Posts []*models.Post `json:"posts"`
	Count int            `json:"count"`
}
