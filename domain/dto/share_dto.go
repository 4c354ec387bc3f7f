package dto

import (
	"time"

	"skallars-social/domain/model"
)

// ScheduleShareRequest creates one share queue item. ScheduledAt defaults to
// now (immediate eligibility); Target defaults to member; Mode to article.
type ScheduleShareRequest struct {
	ArticleID       *int64     `json:"article_id,omitempty"`
	Target          string     `json:"target"`
	OrganizationURN string     `json:"organization_urn,omitempty"`
	Mode            string     `json:"share_mode"`
	ImageURL        string     `json:"image_url,omitempty"`
	Visibility      string     `json:"visibility,omitempty"`
	Message         string     `json:"message,omitempty"`
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"`
}

// RunOutcome reports what happened to one claimed (or skipped) queue item.
type RunOutcome struct {
	ItemID   int64  `json:"item_id"`
	Status   string `json:"status"`
	Skipped  bool   `json:"skipped,omitempty"`
	ShareURL string `json:"share_url,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ShareLogEntry is a log row optionally enriched with fetched metrics.
// Metrics stays null when nothing was found for the share's URN, so callers
// can distinguish "checked, nothing found" from "not checked".
type ShareLogEntry struct {
	Log     *model.ShareLogItem `json:"log"`
	Metrics *model.ShareMetrics `json:"metrics"`
}

// LinkedInStatus describes the stored account for the status endpoint.
type LinkedInStatus struct {
	Connected     bool       `json:"connected"`
	DisplayName   string     `json:"display_name,omitempty"`
	MemberURN     string     `json:"member_urn,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Expired       bool       `json:"expired,omitempty"`
	Refreshed     bool       `json:"refreshed,omitempty"`
	Organizations []string   `json:"organizations,omitempty"`
	Scopes        string     `json:"scopes,omitempty"`
}

// MetricsTarget names one content URN and the author URN it was published
// under; the aggregator groups organization content by the latter.
type MetricsTarget struct {
	URN       string
	AuthorURN string
}
