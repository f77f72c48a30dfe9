package api

// AuthorizeURLResponse is returned when requesting a provider authorization
// URL. The state value must be round-tripped through the provider and
// validated on callback.
type AuthorizeURLResponse struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state"`
}

// CallbackRequest exchanges the provider authorization code for a token pair
type CallbackRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

// LinkedAccountInfo describes the GitHub account linked to the current user
type LinkedAccountInfo struct {
	Provider    string `json:"provider"`
	GithubID    string `json:"github_id"`
	GithubLogin string `json:"github_login"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	ConnectedAt string `json:"connected_at,omitempty"`
}
