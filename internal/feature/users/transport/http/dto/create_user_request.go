// Package dto defines data transfer objects for the users feature's HTTP transport layer.
package dto

// CreateUserReq represents the request body for the POST /users endpoint.
// It uses Gin's binding tags for validation (required, email format, length limits).
type CreateUserReq struct {
	Username string `json:"username" binding:"required,max=30"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8"`
}
