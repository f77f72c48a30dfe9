package api

// User is the server-owned projection of the authenticated identity.
// The client caches it for display only; authorization decisions always
// happen server-side against the bearer token.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	FullName      string `json:"full_name"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	OAuthProvider string `json:"oauth_provider,omitempty"`
	OAuthGithubID string `json:"oauth_github_id,omitempty"`
}

// UpdateProfileRequest represents a profile update. Empty fields are
// left unchanged by the server.
type UpdateProfileRequest struct {
	FullName  string `json:"full_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}
