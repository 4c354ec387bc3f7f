package linkedin

import (
	"context"
	"errors"

	"skallars-social/domain/model"
	"skallars-social/infrastructure/configuration"

	"golang.org/x/oauth2"
	oauthlinkedin "golang.org/x/oauth2/linkedin"
)

var baseScopes = []string{"openid", "profile", "w_member_social"}

var organizationScopes = []string{"r_organization_social", "w_organization_social", "rw_organization_admin"}

// OAuth wraps the three-legged authorization code flow against LinkedIn.
type OAuth struct {
	config *oauth2.Config
}

// NewOAuth builds the flow from the app configuration. Organization scopes
// are requested only when enabled; members without page admin rights would
// otherwise see a consent screen they cannot complete.
func NewOAuth(cfg configuration.LinkedIn) *OAuth {
	scopes := append([]string{}, baseScopes...)
	if cfg.OrganizationScopesEnabled {
		scopes = append(scopes, organizationScopes...)
	}
	return &OAuth{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       scopes,
			Endpoint:     oauthlinkedin.Endpoint,
		},
	}
}

// AuthCodeURL returns the consent page URL for the given state nonce.
func (o *OAuth) AuthCodeURL(state string) string {
	return o.config.AuthCodeURL(state)
}

// Exchange trades the authorization code for tokens. Provider rejections are
// mapped to UpstreamAuthError with the response body preserved.
func (o *OAuth) Exchange(ctx context.Context, code string) (*model.TokenSet, error) {
	token, err := o.config.Exchange(ctx, code)
	if err != nil {
		return nil, asAuthError(err)
	}
	return toTokenSet(token), nil
}

// Refresh exchanges a stored refresh token for a fresh access token.
func (o *OAuth) Refresh(ctx context.Context, refreshToken string) (*model.TokenSet, error) {
	src := o.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := src.Token()
	if err != nil {
		return nil, asAuthError(err)
	}
	return toTokenSet(token), nil
}

func asAuthError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return &model.UpstreamAuthError{
			Description: retrieveErr.ErrorDescription,
			Body:        string(retrieveErr.Body),
		}
	}
	return err
}

func toTokenSet(token *oauth2.Token) *model.TokenSet {
	scope, _ := token.Extra("scope").(string)
	return &model.TokenSet{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
		Scope:        scope,
	}
}
