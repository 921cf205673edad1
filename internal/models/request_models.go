package models

// SubmitPostRequest carries the form fields of a new bulletin submission.
// The optional image file travels separately as a multipart part and is not
// bound here.
type SubmitPostRequest struct {
	Title    string `form:"title" json:"title"`
	Author   string `form:"author" json:"author"`
	Content  string `form:"content" json:"content"`
	Category string `form:"category" json:"category"`
	Priority string `form:"priority" json:"priority"`
}

// LoginRequest is the request body for the admin login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest is the request body for the password change endpoint.
type ChangePasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}
