// Package dto defines Data Transfer Objects for authentication.
package dto

// AdminRole is the only role issued by the login endpoint.
const AdminRole = "admin"

// LoginRequest represents the JSON request body for the login endpoint.
//
// @Description Request to unlock the price administration
// @Example {"password": "hemligt", "name": "johan"}
type LoginRequest struct {
	// Password is the admin password.
	Password string `json:"password" binding:"required" example:"hemligt"`
	// Name identifies who is logging in in the audit log (optional).
	Name string `json:"name,omitempty" binding:"max=64" example:"johan"`
} // @name LoginRequest

// LoginResponse represents the JSON response body for the login endpoint.
//
// @Description Successful authentication response with a JWT access token
type LoginResponse struct {
	// Token is the JWT access token.
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	// TokenType is always "Bearer".
	TokenType string `json:"token_type" example:"Bearer"`
	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int64 `json:"expires_in" example:"1800"`
} // @name LoginResponse

// Claims represents the application part of the JWT claims.
type Claims struct {
	Subject string `json:"subject"`
	Role    string `json:"role"`
}

// Validate performs custom validation on the login request.
func (r *LoginRequest) Validate() error {
	if r.Password == "" {
		return &ValidationError{
			Field:   "password",
			Message: "password is required",
		}
	}
	if len(r.Name) > 64 {
		return &ValidationError{
			Field:   "name",
			Message: "name must be at most 64 characters",
		}
	}
	return nil
}
