package api

// SignupRequest represents a request to create a new account
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// LoginRequest represents a password login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest carries the refresh token used to obtain a new token pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents a successful authentication exchange:
// a fresh token pair plus the authenticated user's profile
type AuthResponse struct {
	AccessToken  string `json:"access_token"`  // short-lived bearer token
	RefreshToken string `json:"refresh_token"` // long-lived token for /refresh
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"` // access token lifetime in seconds
	User         User   `json:"user"`
}

// MessageResponse is returned by endpoints that only acknowledge an action
type MessageResponse struct {
	Message string `json:"message"`
}
