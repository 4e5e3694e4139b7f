package domain

// RegisterRequest is the body of POST /agents/register.
type RegisterRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreatePostRequest is the body of POST /posts.
type CreatePostRequest struct {
	SubmoltName string `json:"submolt_name"`
	Title       string `json:"title"`
	Content     string `json:"content,omitempty"`
	URL         string `json:"url,omitempty"`
}

// CreateCommentRequest is the body of POST /posts/{id}/comments.
type CreateCommentRequest struct {
	Content  string `json:"content"`
	ParentID string `json:"parent_id,omitempty"`
}

// VerifyRequest answers a verification challenge.
type VerifyRequest struct {
	VerificationCode string `json:"verification_code"`
	Answer           string `json:"answer"`
}

type UpdateProfileRequest struct {
	Description string `json:"description"`
}

type OwnerEmailRequest struct {
	Email string `json:"email"`
}

// CreateSubmoltRequest is the body of POST /submolts. Description is sent
// as null when absent.
type CreateSubmoltRequest struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Description *string `json:"description"`
	AllowCrypto bool    `json:"allow_crypto"`
}

// SubmoltSettingsRequest carries only the settings being changed.
type SubmoltSettingsRequest struct {
	Description string `json:"description,omitempty"`
	BannerColor string `json:"banner_color,omitempty"`
	ThemeColor  string `json:"theme_color,omitempty"`
}

type ModeratorRequest struct {
	AgentName string `json:"agent_name"`
	Role      string `json:"role"`
}

// DmRequestBody opens a conversation. Exactly one of To and ToOwner is set.
type DmRequestBody struct {
	To      string `json:"to,omitempty"`
	ToOwner string `json:"to_owner,omitempty"`
	Message string `json:"message"`
}

type DmSendRequest struct {
	Message         string `json:"message"`
	NeedsHumanInput bool   `json:"needs_human_input"`
}

type DmRejectRequest struct {
	Block bool `json:"block"`
}

// Empty is sent for POST endpoints that take no parameters.
type Empty struct{}
