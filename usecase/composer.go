package usecase

import (
	"context"
	"strings"

	"skallars-social/domain/model"
	"skallars-social/domain/repository"
)

// ComposeInput carries everything the composer needs, fully resolved by the
// caller. The composer never touches storage.
type ComposeInput struct {
	AuthorURN   string
	Visibility  string
	Mode        model.ShareMode
	Commentary  string
	LinkURL     string
	Title       string
	Description string
	ImageURL    string
}

type IComposer interface {
	// Compose builds the ugcPosts payload for the input's mode. Image mode
	// performs the upload flow (register, fetch, PUT) before returning the
	// payload referencing the uploaded asset.
	Compose(ctx context.Context, accessToken string, in ComposeInput) (map[string]interface{}, error)
}

type composer struct {
	linkedinClient repository.ILinkedIn
}

func NewComposer(linkedinClient repository.ILinkedIn) IComposer {
	return &composer{linkedinClient: linkedinClient}
}

func (c *composer) Compose(ctx context.Context, accessToken string, in ComposeInput) (map[string]interface{}, error) {
	if in.AuthorURN == "" {
		return nil, &model.ValidationError{Reason: "Missing LinkedIn author."}
	}
	switch in.Mode {
	case model.ShareModeImage:
		return c.composeImage(ctx, accessToken, in)
	default:
		return c.composeArticle(in)
	}
}

// composeArticle builds a link share. Explicit media title/description are
// attached only when resolved; otherwise LinkedIn unfurls the page itself.
func (c *composer) composeArticle(in ComposeInput) (map[string]interface{}, error) {
	if in.LinkURL == "" {
		return nil, &model.ValidationError{Reason: "Missing share link."}
	}
	media := map[string]interface{}{
		"status":      "READY",
		"originalUrl": in.LinkURL,
	}
	if in.Title != "" {
		media["title"] = map[string]interface{}{"text": in.Title}
	}
	if in.Description != "" {
		media["description"] = map[string]interface{}{"text": in.Description}
	}
	return c.payload(in, "ARTICLE", media), nil
}

// composeImage runs the two-step upload flow and references the uploaded
// asset. The link, when present, is appended to the commentary because image
// shares cannot carry a separate link.
func (c *composer) composeImage(ctx context.Context, accessToken string, in ComposeInput) (map[string]interface{}, error) {
	if in.ImageURL == "" {
		return nil, &model.ValidationError{Reason: "Missing image URL."}
	}
	slot, err := c.linkedinClient.RegisterUpload(ctx, accessToken, in.AuthorURN)
	if err != nil {
		return nil, err
	}
	data, err := c.linkedinClient.FetchImage(ctx, in.ImageURL)
	if err != nil {
		return nil, err
	}
	if err := c.linkedinClient.UploadImage(ctx, accessToken, slot.UploadURL, data); err != nil {
		return nil, err
	}

	if in.LinkURL != "" {
		in.Commentary = strings.TrimSpace(in.Commentary + "\n\n" + in.LinkURL)
	}
	media := map[string]interface{}{
		"status": "READY",
		"media":  slot.AssetURN,
	}
	if in.Title != "" {
		media["title"] = map[string]interface{}{"text": in.Title}
	}
	return c.payload(in, "IMAGE", media), nil
}

func (c *composer) payload(in ComposeInput, category string, media map[string]interface{}) map[string]interface{} {
	visibility := in.Visibility
	if visibility == "" {
		visibility = model.VisibilityPublic
	}
	return map[string]interface{}{
		"author":         in.AuthorURN,
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]interface{}{
			"com.linkedin.ugc.ShareContent": map[string]interface{}{
				"shareCommentary":    map[string]interface{}{"text": in.Commentary},
				"shareMediaCategory": category,
				"media":              []interface{}{media},
			},
		},
		"visibility": map[string]interface{}{
			"com.linkedin.ugc.MemberNetworkVisibility": visibility,
		},
	}
}
