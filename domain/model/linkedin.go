package model

import (
	"encoding/json"
	"strings"
	"time"
)

// ShareTarget selects whether a post is published as the authenticated member
// or as one of the member's organization pages.
type ShareTarget string

const (
	TargetMember       ShareTarget = "member"
	TargetOrganization ShareTarget = "organization"
)

// ShareMode selects the published content shape.
type ShareMode string

const (
	ShareModeArticle ShareMode = "article"
	ShareModeImage   ShareMode = "image"
)

// Queue item lifecycle. "retry" is equivalent to "scheduled" for selection.
const (
	ShareStatusScheduled  = "scheduled"
	ShareStatusRetry      = "retry"
	ShareStatusProcessing = "processing"
	ShareStatusSuccess    = "success"
	ShareStatusError      = "error"
)

const VisibilityPublic = "PUBLIC"

// LinkedInAccount stores the LinkedIn credentials and identity for one user.
type LinkedInAccount struct {
	ID               int64      `json:"id"`
	UserID           string     `json:"user_id"`
	MemberURN        *string    `json:"member_urn,omitempty"`
	DisplayName      *string    `json:"display_name,omitempty"`
	AccessToken      string     `json:"access_token"`
	RefreshToken     *string    `json:"refresh_token,omitempty"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	Scopes           string     `json:"scopes"`
	OrganizationURNs []string   `json:"organization_urns,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TokenExpired reports whether the access token expiry is known and past now.
func (a *LinkedInAccount) TokenExpired(now time.Time) bool {
	return a.ExpiresAt != nil && a.ExpiresAt.Before(now)
}

// HasScope checks the granted scope list (space-separated, as returned by the
// token endpoint).
func (a *LinkedInAccount) HasScope(scope string) bool {
	for _, s := range strings.Fields(a.Scopes) {
		if s == scope {
			return true
		}
	}
	return false
}

// OAuthState is the ephemeral CSRF/redirect correlation record for one OAuth
// flow. Consumed and deleted on callback; invalid once expired.
type OAuthState struct {
	UserID     string    `json:"user_id"`
	State      string    `json:"state"`
	RedirectTo string    `json:"redirect_to"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// ShareQueueItem is a scheduled unit of share work. Rows are never deleted
// automatically; terminal rows serve as history.
type ShareQueueItem struct {
	ID               int64       `json:"id"`
	UserID           string      `json:"user_id"`
	ArticleID        *int64      `json:"article_id,omitempty"`
	Target           ShareTarget `json:"target"`
	OrganizationURN  *string     `json:"organization_urn,omitempty"`
	Mode             ShareMode   `json:"share_mode"`
	ImageURL         *string     `json:"image_url,omitempty"`
	Visibility       string      `json:"visibility"`
	Message          *string     `json:"message,omitempty"`
	ScheduledAt      time.Time   `json:"scheduled_at"`
	Status           string      `json:"status"`
	ErrorMessage     *string     `json:"error_message,omitempty"`
	ProviderResponse *string     `json:"provider_response,omitempty"`
	ClaimedAt        *time.Time  `json:"claimed_at,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// Due reports whether the item is eligible for claiming at the given instant.
func (i *ShareQueueItem) Due(now time.Time) bool {
	if i.Status != ShareStatusScheduled && i.Status != ShareStatusRetry {
		return false
	}
	return !i.ScheduledAt.After(now)
}

// ShareLogItem is an immutable audit record of one delivery attempt.
type ShareLogItem struct {
	ID               int64       `json:"id"`
	UserID           string      `json:"user_id"`
	ArticleID        *int64      `json:"article_id,omitempty"`
	Target           ShareTarget `json:"target"`
	Mode             ShareMode   `json:"share_mode"`
	Visibility       string      `json:"visibility"`
	Status           string      `json:"status"`
	AuthorURN        *string     `json:"author_urn,omitempty"`
	ShareURN         *string     `json:"share_urn,omitempty"`
	ShareURL         *string     `json:"share_url,omitempty"`
	ProviderResponse *string     `json:"provider_response,omitempty"`
	ErrorMessage     *string     `json:"error_message,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
}

// ShareCreated is the typed result of a successful ugcPosts delivery call.
// ID is the share/ugcPost URN; Activity is present when the provider returns
// the owning activity URN separately.
type ShareCreated struct {
	ID       string          `json:"id"`
	Activity string          `json:"activity,omitempty"`
	Raw      json.RawMessage `json:"-"`
}

// URN returns the content URN to log and later feed into the metrics read APIs.
func (s *ShareCreated) URN() string {
	if s.ID != "" {
		return s.ID
	}
	return s.Activity
}

// UploadSlot is the typed result of an image upload registration.
type UploadSlot struct {
	UploadURL string          `json:"upload_url"`
	AssetURN  string          `json:"asset_urn"`
	Raw       json.RawMessage `json:"-"`
}

// LinkedInProfile is the subset of the userinfo response the pipeline keeps.
type LinkedInProfile struct {
	Sub  string `json:"sub"`
	Name string `json:"name"`
}

// Organization is one organization page the member can act for.
type Organization struct {
	URN  string `json:"urn"`
	Name string `json:"name,omitempty"`
}

// TokenSet is the result of an authorization-code or refresh-token exchange.
type TokenSet struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry"`
	Scope        string    `json:"scope"`
}
