package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"skallars-social/domain/model"
	"skallars-social/domain/repository"
	"skallars-social/infrastructure/logger"
)

const (
	maxSocialActionsBatch = 20
	maxOrgStatisticsBatch = 15
)

// Client talks to api.linkedin.com with a per-call bearer token. Tokens belong
// to user accounts, so the client itself is stateless and shared.
type Client struct {
	httpClient *http.Client
	baseURL    string
	version    string
}

// NewClient creates a LinkedIn REST client. version is the LinkedIn-Version
// header value (YYYYMM).
func NewClient(version string) repository.ILinkedIn {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://api.linkedin.com",
		version:    version,
	}
}

// NewClientWithBaseURL is used by tests to point the client at a local server.
func NewClientWithBaseURL(baseURL, version string) repository.ILinkedIn {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		version:    version,
	}
}

func (c *Client) newRequest(ctx context.Context, method, path, accessToken string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")
	req.Header.Set("LinkedIn-Version", c.version)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// upstreamError wraps a non-2xx response. LinkedIn error bodies carry a
// human-readable "message" field; when present it becomes the error message
// surfaced to the queue row, the audit log and the caller, with fallback as
// the generic default.
func upstreamError(fallback string, statusCode int, raw []byte) *model.UpstreamDeliveryError {
	e := &model.UpstreamDeliveryError{Message: fallback, StatusCode: statusCode, Body: string(raw)}
	var body struct {
		Message string `json:"message"`
	}
	if len(raw) > 0 && json.Unmarshal(raw, &body) == nil && body.Message != "" {
		e.Message = body.Message
	}
	return e
}

func (c *Client) do(req *http.Request) (*http.Response, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, err
	}
	return resp, raw, nil
}

func (c *Client) FetchUserInfo(ctx context.Context, accessToken string) (*model.LinkedInProfile, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/v2/userinfo", accessToken, nil)
	if err != nil {
		return nil, err
	}
	resp, raw, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, upstreamError("userinfo request failed", resp.StatusCode, raw)
	}
	var body userInfoResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decoding userinfo: %w", err)
	}
	name := body.Name
	if name == "" {
		name = strings.TrimSpace(body.GivenName + " " + body.FamilyName)
	}
	return &model.LinkedInProfile{Sub: body.Sub, Name: name}, nil
}

// ListOrganizations prefers the REST organizationAcls endpoint and falls back
// to the legacy v2 endpoint when the REST one is not enabled for the app.
func (c *Client) ListOrganizations(ctx context.Context, accessToken string) ([]model.Organization, error) {
	const query = "?q=roleAssignee&role=ADMINISTRATOR&state=APPROVED"
	orgs, err := c.fetchOrganizationAcls(ctx, accessToken, "/rest/organizationAcls"+query)
	if err == nil {
		return orgs, nil
	}
	logger.GetLogger().WithField("error", err).Info("organizationAcls REST endpoint failed, falling back to v2")
	return c.fetchOrganizationAcls(ctx, accessToken, "/v2/organizationalEntityAcls"+query)
}

func (c *Client) fetchOrganizationAcls(ctx context.Context, accessToken, path string) ([]model.Organization, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, accessToken, nil)
	if err != nil {
		return nil, err
	}
	resp, raw, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, upstreamError("organization list request failed", resp.StatusCode, raw)
	}
	var body organizationAclsResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decoding organization acls: %w", err)
	}
	orgs := make([]model.Organization, 0, len(body.Elements))
	for _, el := range body.Elements {
		urn := el.Organization
		if urn == "" {
			urn = el.OrganizationTarget
		}
		if urn == "" {
			continue
		}
		orgs = append(orgs, model.Organization{URN: urn})
	}
	return orgs, nil
}

// CreateShare posts a composed ugcPosts payload. The created URN comes from
// the response body or, on older deployments, the x-restli-id header.
func (c *Client) CreateShare(ctx context.Context, accessToken string, payload map[string]interface{}) (*model.ShareCreated, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/v2/ugcPosts", accessToken, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	resp, raw, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, upstreamError("share delivery failed", resp.StatusCode, raw)
	}

	created := &model.ShareCreated{Raw: json.RawMessage(raw)}
	var body shareCreatedResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err == nil {
			created.ID = body.ID
			created.Activity = body.Activity
		}
	}
	if created.ID == "" {
		created.ID = resp.Header.Get("x-restli-id")
	}
	if created.URN() == "" {
		return nil, &model.UpstreamDeliveryError{Message: "share created but no URN returned", StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return created, nil
}

func (c *Client) RegisterUpload(ctx context.Context, accessToken, ownerURN string) (*model.UploadSlot, error) {
	payload := map[string]interface{}{
		"registerUploadRequest": map[string]interface{}{
			"recipes": []string{"urn:li:digitalmediaRecipe:feedshare-image"},
			"owner":   ownerURN,
			"serviceRelationships": []map[string]interface{}{
				{"relationshipType": "OWNER", "identifier": "urn:li:userGeneratedContent"},
			},
		},
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/v2/assets?action=registerUpload", accessToken, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	resp, raw, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, upstreamError("image upload registration failed", resp.StatusCode, raw)
	}
	var body registerUploadResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decoding registerUpload response: %w", err)
	}
	slot := &model.UploadSlot{AssetURN: body.Value.Asset, Raw: json.RawMessage(raw)}
	for _, mech := range body.Value.UploadMechanism {
		if mech.UploadURL != "" {
			slot.UploadURL = mech.UploadURL
			break
		}
	}
	if slot.UploadURL == "" || slot.AssetURN == "" {
		return nil, &model.UpstreamDeliveryError{Message: "registerUpload response missing upload url or asset", StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return slot, nil
}

func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, upstreamError("image download failed", resp.StatusCode, raw)
	}
	return raw, nil
}

// UploadImage PUTs raw bytes to the registered upload URL. The URL is absolute
// and points at LinkedIn's media CDN, not the API host.
func (c *Client) UploadImage(ctx context.Context, accessToken, uploadURL string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/octet-stream")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return upstreamError("image upload failed", resp.StatusCode, raw)
	}
	return nil
}

// restliList encodes URNs into the Rest.li 2.0 List(...) syntax. Each URN is
// URL-escaped individually; the surrounding List() stays literal.
func restliList(urns []string) string {
	escaped := make([]string, 0, len(urns))
	for _, urn := range urns {
		escaped = append(escaped, url.QueryEscape(urn))
	}
	return "List(" + strings.Join(escaped, ",") + ")"
}

func (c *Client) SocialActions(ctx context.Context, accessToken string, urns []string) (map[string]model.ShareMetrics, error) {
	if len(urns) == 0 {
		return map[string]model.ShareMetrics{}, nil
	}
	if len(urns) > maxSocialActionsBatch {
		return nil, &model.ValidationError{Reason: fmt.Sprintf("socialActions accepts at most %d ids per call", maxSocialActionsBatch)}
	}
	path := "/v2/socialActions?ids=" + restliList(urns)
	req, err := c.newRequest(ctx, http.MethodGet, path, accessToken, nil)
	if err != nil {
		return nil, err
	}
	resp, raw, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, upstreamError("socialActions request failed", resp.StatusCode, raw)
	}
	var body socialActionsResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decoding socialActions: %w", err)
	}

	out := make(map[string]model.ShareMetrics, len(body.Results))
	for urn, entry := range body.Results {
		likes := entry.LikesSummary.TotalLikes
		comments := entry.CommentsSummary.AggregatedTotalComments
		if comments == 0 {
			comments = entry.CommentsSummary.TotalFirstLevelComments
		}
		out[urn] = model.ShareMetrics{Likes: &likes, Comments: &comments}
	}
	return out, nil
}

func (c *Client) OrganizationShareStatistics(ctx context.Context, accessToken, orgURN string, urns []string) (map[string]model.ShareMetrics, error) {
	if len(urns) == 0 {
		return map[string]model.ShareMetrics{}, nil
	}
	if len(urns) > maxOrgStatisticsBatch {
		return nil, &model.ValidationError{Reason: fmt.Sprintf("organization share statistics accepts at most %d URNs per call", maxOrgStatisticsBatch)}
	}

	shares := make([]string, 0, len(urns))
	ugcPosts := make([]string, 0, len(urns))
	for _, urn := range urns {
		if strings.HasPrefix(urn, "urn:li:ugcPost:") {
			ugcPosts = append(ugcPosts, urn)
		} else {
			shares = append(shares, urn)
		}
	}

	path := "/rest/organizationalEntityShareStatistics?q=organizationalEntity&organizationalEntity=" + url.QueryEscape(orgURN)
	if len(shares) > 0 {
		path += "&shares=" + restliList(shares)
	}
	if len(ugcPosts) > 0 {
		path += "&ugcPosts=" + restliList(ugcPosts)
	}
	req, err := c.newRequest(ctx, http.MethodGet, path, accessToken, nil)
	if err != nil {
		return nil, err
	}
	resp, raw, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, upstreamError("organization share statistics request failed", resp.StatusCode, raw)
	}
	var body orgShareStatisticsResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decoding organization share statistics: %w", err)
	}

	out := make(map[string]model.ShareMetrics, len(body.Elements))
	for _, el := range body.Elements {
		urn := el.Share
		if urn == "" {
			urn = el.UgcPost
		}
		if urn == "" {
			continue
		}
		stats := el.TotalShareStatistics
		likes := stats.LikeCount
		comments := stats.CommentCount
		sharesCount := stats.ShareCount
		impressions := stats.ImpressionCount
		clicks := stats.ClickCount
		engagement := stats.Engagement
		unique := stats.UniqueImpressionsCount
		out[urn] = model.ShareMetrics{
			Likes:             &likes,
			Comments:          &comments,
			Shares:            &sharesCount,
			Impressions:       &impressions,
			Clicks:            &clicks,
			Engagement:        &engagement,
			UniqueImpressions: &unique,
		}
	}
	return out, nil
}
