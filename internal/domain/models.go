// Package domain holds the Moltbook wire models and the error taxonomy
// shared by the API client and the command layer.
package domain

import (
	"encoding/json"
	"errors"
)

// Agent is a Moltbook account. Counts tolerate string encodings and most
// fields accept both snake_case and camelCase keys.
type Agent struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Karma          *Int            `json:"karma,omitempty"`
	FollowerCount  *Uint           `json:"follower_count,omitempty"`
	FollowingCount *Uint           `json:"following_count,omitempty"`
	IsClaimed      *bool           `json:"is_claimed,omitempty"`
	IsActive       *bool           `json:"is_active,omitempty"`
	CreatedAt      string          `json:"created_at,omitempty"`
	LastActive     string          `json:"last_active,omitempty"`
	ClaimedAt      string          `json:"claimed_at,omitempty"`
	OwnerID        string          `json:"owner_id,omitempty"`
	Owner          *OwnerInfo      `json:"owner,omitempty"`
	AvatarURL      string          `json:"avatar_url,omitempty"`
	Stats          *AgentStats     `json:"stats,omitempty"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
	RecentPosts    []Post          `json:"recent_posts,omitempty"`
}

func (a *Agent) UnmarshalJSON(data []byte) error {
	type plain Agent
	var aux struct {
		plain
		FollowerCountAlt  *Uint  `json:"followerCount"`
		FollowingCountAlt *Uint  `json:"followingCount"`
		IsClaimedAlt      *bool  `json:"isClaimed"`
		IsActiveAlt       *bool  `json:"isActive"`
		CreatedAtAlt      string `json:"createdAt"`
		LastActiveAlt     string `json:"lastActive"`
		ClaimedAtAlt      string `json:"claimedAt"`
		OwnerIDAlt        string `json:"ownerId"`
		AvatarURLAlt      string `json:"avatarUrl"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*a = Agent(aux.plain)
	a.FollowerCount = coalesce(a.FollowerCount, aux.FollowerCountAlt)
	a.FollowingCount = coalesce(a.FollowingCount, aux.FollowingCountAlt)
	a.IsClaimed = coalesce(a.IsClaimed, aux.IsClaimedAlt)
	a.IsActive = coalesce(a.IsActive, aux.IsActiveAlt)
	a.CreatedAt = firstNonEmpty(a.CreatedAt, aux.CreatedAtAlt)
	a.LastActive = firstNonEmpty(a.LastActive, aux.LastActiveAlt)
	a.ClaimedAt = firstNonEmpty(a.ClaimedAt, aux.ClaimedAtAlt)
	a.OwnerID = firstNonEmpty(a.OwnerID, aux.OwnerIDAlt)
	a.AvatarURL = firstNonEmpty(a.AvatarURL, aux.AvatarURLAlt)
	return nil
}

// OwnerInfo describes the human who claimed an agent, imported from X.
type OwnerInfo struct {
	XHandle         string `json:"x_handle,omitempty"`
	XName           string `json:"x_name,omitempty"`
	XAvatar         string `json:"x_avatar,omitempty"`
	XBio            string `json:"x_bio,omitempty"`
	XFollowerCount  *Uint  `json:"x_follower_count,omitempty"`
	XFollowingCount *Uint  `json:"x_following_count,omitempty"`
	XVerified       *bool  `json:"x_verified,omitempty"`
}

func (o *OwnerInfo) UnmarshalJSON(data []byte) error {
	type plain OwnerInfo
	var aux struct {
		plain
		XHandleAlt string `json:"xHandle"`
		XNameAlt   string `json:"xName"`
		XAvatarAlt string `json:"xAvatar"`
		XBioAlt    string `json:"xBio"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*o = OwnerInfo(aux.plain)
	o.XHandle = firstNonEmpty(o.XHandle, aux.XHandleAlt)
	o.XName = firstNonEmpty(o.XName, aux.XNameAlt)
	o.XAvatar = firstNonEmpty(o.XAvatar, aux.XAvatarAlt)
	o.XBio = firstNonEmpty(o.XBio, aux.XBioAlt)
	return nil
}

type AgentStats struct {
	Posts         *Uint `json:"posts,omitempty"`
	Comments      *Uint `json:"comments,omitempty"`
	Subscriptions *Uint `json:"subscriptions,omitempty"`
}

// StatusResponse is returned by GET /agents/status.
type StatusResponse struct {
	Status   string `json:"status,omitempty"`
	Message  string `json:"message,omitempty"`
	NextStep string `json:"next_step,omitempty"`
	Agent    *Agent `json:"agent,omitempty"`
}

// Post is a single post in a feed, a submolt or a detail view.
type Post struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Content         string       `json:"content,omitempty"`
	URL             string       `json:"url,omitempty"`
	Upvotes         Int          `json:"upvotes"`
	Downvotes       Int          `json:"downvotes"`
	CommentCount    *Uint        `json:"comment_count,omitempty"`
	CreatedAt       string       `json:"created_at"`
	Author          Author       `json:"author"`
	Submolt         *SubmoltInfo `json:"submolt,omitempty"`
	SubmoltName     string       `json:"submolt_name,omitempty"`
	YouFollowAuthor *bool        `json:"you_follow_author,omitempty"`
	Type            string       `json:"type,omitempty"`
	AuthorID        string       `json:"author_id,omitempty"`
	Score           *Int         `json:"score,omitempty"`
	HotScore        *float64     `json:"hot_score,omitempty"`
	IsPinned        *bool        `json:"is_pinned,omitempty"`
	IsLocked        *bool        `json:"is_locked,omitempty"`
	IsDeleted       *bool        `json:"is_deleted,omitempty"`
	UpdatedAt       string       `json:"updated_at,omitempty"`
}

// SubmoltLabel returns the community name a post belongs to, falling back
// to submolt_name and finally "unknown".
func (p Post) SubmoltLabel() string {
	if p.Submolt != nil && p.Submolt.Name != "" {
		return p.Submolt.Name
	}
	if p.SubmoltName != "" {
		return p.SubmoltName
	}
	return "unknown"
}

// Author is the compact agent shape embedded in posts, comments and DMs.
type Author struct {
	ID            string     `json:"id,omitempty"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	Karma         *Int       `json:"karma,omitempty"`
	FollowerCount *Uint      `json:"follower_count,omitempty"`
	Owner         *OwnerInfo `json:"owner,omitempty"`
	AvatarURL     string     `json:"avatar_url,omitempty"`
}

func (a *Author) UnmarshalJSON(data []byte) error {
	type plain Author
	var aux struct {
		plain
		FollowerCountAlt *Uint `json:"followerCount"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*a = Author(aux.plain)
	a.FollowerCount = coalesce(a.FollowerCount, aux.FollowerCountAlt)
	return nil
}

type SubmoltInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// SearchResult is a post or comment matched by semantic search.
type SearchResult struct {
	ID         string   `json:"id"`
	Type       string   `json:"type"`
	Title      string   `json:"title,omitempty"`
	Content    string   `json:"content,omitempty"`
	Upvotes    Int      `json:"upvotes"`
	Downvotes  Int      `json:"downvotes"`
	Similarity *float64 `json:"similarity,omitempty"`
	Author     Author   `json:"author"`
	PostID     string   `json:"post_id,omitempty"`
}

func (r *SearchResult) UnmarshalJSON(data []byte) error {
	type plain SearchResult
	var aux struct {
		plain
		Relevance *float64 `json:"relevance"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = SearchResult(aux.plain)
	r.Similarity = coalesce(r.Similarity, aux.Relevance)
	return nil
}

// SubmoltResponse is returned by GET /submolts/{name}.
type SubmoltResponse struct {
	Submolt  Submolt `json:"submolt"`
	YourRole string  `json:"your_role,omitempty"`
}

// Validate implements the decode-time shape check used by the API client.
func (r *SubmoltResponse) Validate() error {
	if r.Submolt.Name == "" {
		return errors.New("missing field `submolt.name`")
	}
	return nil
}

// Submolt is a community.
type Submolt struct {
	ID              string `json:"id,omitempty"`
	Name            string `json:"name"`
	DisplayName     string `json:"display_name"`
	Description     string `json:"description,omitempty"`
	SubscriberCount *Uint  `json:"subscriber_count,omitempty"`
	AllowCrypto     *bool  `json:"allow_crypto,omitempty"`
	CreatorID       string `json:"creator_id,omitempty"`
	CreatedBy       *Agent `json:"created_by,omitempty"`
	PostCount       *Uint  `json:"post_count,omitempty"`
	IsNSFW          *bool  `json:"is_nsfw,omitempty"`
	IsPrivate       *bool  `json:"is_private,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
	LastActivityAt  string `json:"last_activity_at,omitempty"`
}

// DmRequest is a pending request to open a conversation.
type DmRequest struct {
	From           Author `json:"from"`
	Message        string `json:"message,omitempty"`
	MessagePreview string `json:"message_preview,omitempty"`
	ConversationID string `json:"conversation_id"`
}

// Text returns the full message, or the preview when only that was sent.
func (r DmRequest) Text() string {
	return firstNonEmpty(r.Message, r.MessagePreview)
}

type Conversation struct {
	ConversationID string `json:"conversation_id"`
	WithAgent      Author `json:"with_agent"`
	UnreadCount    Uint   `json:"unread_count"`
}

type Message struct {
	FromAgent       Author `json:"from_agent"`
	Message         string `json:"message"`
	FromYou         bool   `json:"from_you"`
	NeedsHumanInput bool   `json:"needs_human_input"`
	CreatedAt       string `json:"created_at"`
}

type FeedContext struct {
	Page  *Uint `json:"page,omitempty"`
	Limit *Uint `json:"limit,omitempty"`
	Total *Uint `json:"total,omitempty"`
}

// FeedResponse is returned by /feed and /posts.
type FeedResponse struct {
	Success  bool         `json:"success"`
	Posts    []Post       `json:"posts"`
	FeedType string       `json:"feed_type,omitempty"`
	Context  *FeedContext `json:"context,omitempty"`
}

func (r *FeedResponse) Validate() error {
	if r.Posts == nil {
		return errors.New("missing field `posts`")
	}
	return nil
}

// DmCheckResponse is returned by /agents/dm/check.
type DmCheckResponse struct {
	HasActivity bool            `json:"has_activity"`
	Summary     string          `json:"summary,omitempty"`
	Requests    *DmRequestsData `json:"requests,omitempty"`
	Messages    *DmMessagesData `json:"messages,omitempty"`
}

type SubmoltFeedResponse struct {
	Posts []Post `json:"posts"`
	Total *Uint  `json:"total,omitempty"`
}

func (r *SubmoltFeedResponse) Validate() error {
	if r.Posts == nil {
		return errors.New("missing field `posts`")
	}
	return nil
}

type DmRequestsData struct {
	Count *Uint       `json:"count,omitempty"`
	Items []DmRequest `json:"items"`
}

type DmMessagesData struct {
	TotalUnread Uint `json:"total_unread"`
}

// RegistrationResponse is returned by POST /agents/register.
type RegistrationResponse struct {
	Success bool            `json:"success"`
	Agent   RegisteredAgent `json:"agent"`
}

func (r *RegistrationResponse) Validate() error {
	if r.Agent.APIKey == "" {
		return errors.New("missing field `agent.api_key`")
	}
	return nil
}

type RegisteredAgent struct {
	Name             string `json:"name"`
	APIKey           string `json:"api_key"`
	ClaimURL         string `json:"claim_url"`
	VerificationCode string `json:"verification_code"`
}

func coalesce[T any](primary, alt *T) *T {
	if primary != nil {
		return primary
	}
	return alt
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
