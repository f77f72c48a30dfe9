package api

// Repository describes a GitHub repository visible to the user
type Repository struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Description   string `json:"description,omitempty"`
	DefaultBranch string `json:"default_branch"`
	Private       bool   `json:"private"`
	OpenPRCount   int    `json:"open_pr_count,omitempty"`
}

// Organization describes a GitHub organization the user belongs to
type Organization struct {
	ID          int64  `json:"id"`
	Login       string `json:"login"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Description string `json:"description,omitempty"`
}

// PullRequest describes an open pull request eligible for automated merge
type PullRequest struct {
	ID        int64  `json:"id"`
	Number    int    `json:"number"`
	Title     string `json:"title"`
	State     string `json:"state"`
	Author    string `json:"author"`
	HeadRef   string `json:"head_ref"`
	BaseRef   string `json:"base_ref"`
	URL       string `json:"url"`
	Mergeable bool   `json:"mergeable"`
}

// MergeRequest asks the agent to merge a pull request
type MergeRequest struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Number int    `json:"number"`
}

// MergeResponse reports the outcome of an automated merge
type MergeResponse struct {
	Merged  bool   `json:"merged"`
	SHA     string `json:"sha,omitempty"`
	Message string `json:"message"`
}
