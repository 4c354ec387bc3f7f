package repository

import (
	"context"

	"skallars-social/domain/model"
)

// ILinkedIn defines the LinkedIn REST surface the pipeline consumes. The
// write path (ugcPosts, asset upload) and the two metrics read paths are
// all bearer-token calls against api.linkedin.com.
type ILinkedIn interface {
	// FetchUserInfo reads the OpenID userinfo document (sub, name).
	FetchUserInfo(ctx context.Context, accessToken string) (*model.LinkedInProfile, error)
	// ListOrganizations returns organization URNs the member administers,
	// preferring the REST organizationAcls endpoint with a legacy v2
	// fallback.
	ListOrganizations(ctx context.Context, accessToken string) ([]model.Organization, error)

	// CreateShare posts a composed payload to ugcPosts.
	CreateShare(ctx context.Context, accessToken string, payload map[string]interface{}) (*model.ShareCreated, error)
	// RegisterUpload reserves an image upload slot owned by ownerURN.
	RegisterUpload(ctx context.Context, accessToken, ownerURN string) (*model.UploadSlot, error)
	// FetchImage downloads the raw bytes of a publicly reachable image.
	FetchImage(ctx context.Context, imageURL string) ([]byte, error)
	// UploadImage PUTs the image bytes to a registered upload URL.
	UploadImage(ctx context.Context, accessToken, uploadURL string, data []byte) error

	// SocialActions batch-fetches like/comment counters for up to 20 URNs.
	SocialActions(ctx context.Context, accessToken string, urns []string) (map[string]model.ShareMetrics, error)
	// OrganizationShareStatistics fetches share statistics for up to 15
	// content URNs belonging to one organization.
	OrganizationShareStatistics(ctx context.Context, accessToken, orgURN string, urns []string) (map[string]model.ShareMetrics, error)
}
