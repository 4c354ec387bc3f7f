package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"skallars-social/domain/dto"
	"skallars-social/domain/model"
	"skallars-social/domain/repository"
	"skallars-social/infrastructure/logger"
)

const oauthStateTTL = 10 * time.Minute

// IOAuthFlow is the authorization-code flow surface the usecase consumes;
// implemented by the LinkedIn OAuth client.
type IOAuthFlow interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*model.TokenSet, error)
	Refresh(ctx context.Context, refreshToken string) (*model.TokenSet, error)
}

type IOAuthUsecase interface {
	// StartConnect stores a state row and returns the consent page URL.
	StartConnect(ctx context.Context, userID, redirectTo string) (string, error)
	// HandleCallback completes the flow and returns the path to redirect the
	// browser to. Failures are silent: the fallback path is returned.
	HandleCallback(ctx context.Context, code, state string) string
	// Status describes the stored account, refreshing an expired token when
	// a refresh token is available.
	Status(ctx context.Context, userID string) (*dto.LinkedInStatus, error)
	// Organizations lists pages the member can act for, live from LinkedIn.
	Organizations(ctx context.Context, userID string) ([]model.Organization, error)
	Disconnect(ctx context.Context, userID string) error
}

type oauthUsecase struct {
	accountRepo    repository.ILinkedInAccount
	stateRepo      repository.IOAuthState
	flow           IOAuthFlow
	linkedinClient repository.ILinkedIn
	fallbackPath   string
}

func NewOAuthUsecase(
	accountRepo repository.ILinkedInAccount,
	stateRepo repository.IOAuthState,
	flow IOAuthFlow,
	linkedinClient repository.ILinkedIn,
	fallbackPath string,
) IOAuthUsecase {
	return &oauthUsecase{
		accountRepo:    accountRepo,
		stateRepo:      stateRepo,
		flow:           flow,
		linkedinClient: linkedinClient,
		fallbackPath:   fallbackPath,
	}
}

func (u *oauthUsecase) StartConnect(ctx context.Context, userID, redirectTo string) (string, error) {
	if redirectTo == "" {
		redirectTo = u.fallbackPath
	}
	state, err := randomState()
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	record := &model.OAuthState{
		UserID:     userID,
		State:      state,
		RedirectTo: redirectTo,
		ExpiresAt:  now.Add(oauthStateTTL),
		CreatedAt:  now,
	}
	if err := u.stateRepo.Create(ctx, record); err != nil {
		return "", err
	}
	// Opportunistic cleanup of abandoned flows.
	if _, err := u.stateRepo.DeleteExpired(ctx); err != nil {
		logger.GetLogger().WithField("error", err).Warn("oauth state cleanup failed")
	}
	return u.flow.AuthCodeURL(state), nil
}

func (u *oauthUsecase) HandleCallback(ctx context.Context, code, state string) string {
	lg := logger.GetLogger()
	record, err := u.stateRepo.Consume(ctx, state)
	if err != nil || record == nil {
		if err != nil {
			lg.WithField("error", err).Error("oauth state lookup failed")
		}
		return u.fallbackPath
	}
	if code == "" {
		return u.fallbackPath
	}

	tokens, err := u.flow.Exchange(ctx, code)
	if err != nil {
		lg.WithField("error", err).Warn("oauth code exchange rejected")
		return u.fallbackPath
	}

	account := &model.LinkedInAccount{
		UserID:      record.UserID,
		AccessToken: tokens.AccessToken,
		Scopes:      tokens.Scope,
	}
	if tokens.RefreshToken != "" {
		v := tokens.RefreshToken
		account.RefreshToken = &v
	}
	if !tokens.Expiry.IsZero() {
		v := tokens.Expiry.UTC()
		account.ExpiresAt = &v
	}

	// Identity and organization lookups are best effort; a failure leaves
	// the fields empty rather than aborting the connection.
	if profile, err := u.linkedinClient.FetchUserInfo(ctx, tokens.AccessToken); err != nil {
		lg.WithField("error", err).Warn("userinfo fetch failed")
	} else {
		if profile.Sub != "" {
			urn := "urn:li:person:" + profile.Sub
			account.MemberURN = &urn
		}
		if profile.Name != "" {
			name := profile.Name
			account.DisplayName = &name
		}
	}
	if orgs, err := u.linkedinClient.ListOrganizations(ctx, tokens.AccessToken); err != nil {
		lg.WithField("error", err).Info("organization list fetch failed")
	} else {
		for _, org := range orgs {
			account.OrganizationURNs = append(account.OrganizationURNs, org.URN)
		}
	}

	if err := u.accountRepo.Upsert(ctx, account); err != nil {
		lg.WithField("error", err).Error("account upsert failed")
		return u.fallbackPath
	}
	return record.RedirectTo
}

func (u *oauthUsecase) Status(ctx context.Context, userID string) (*dto.LinkedInStatus, error) {
	account, err := u.accountRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return &dto.LinkedInStatus{Connected: false}, nil
	}

	status := &dto.LinkedInStatus{
		Connected:     true,
		ExpiresAt:     account.ExpiresAt,
		Organizations: account.OrganizationURNs,
		Scopes:        account.Scopes,
	}
	if account.DisplayName != nil {
		status.DisplayName = *account.DisplayName
	}
	if account.MemberURN != nil {
		status.MemberURN = *account.MemberURN
	}

	if account.TokenExpired(time.Now().UTC()) {
		if account.RefreshToken != nil && *account.RefreshToken != "" {
			if refreshed, err := u.refresh(ctx, account); err != nil {
				logger.GetLogger().WithField("error", err).Warn("token refresh failed")
				status.Expired = true
			} else {
				status.Refreshed = true
				status.ExpiresAt = refreshed.ExpiresAt
			}
		} else {
			status.Expired = true
		}
	}
	return status, nil
}

// refresh exchanges the stored refresh token and persists the renewed
// credentials on the account.
func (u *oauthUsecase) refresh(ctx context.Context, account *model.LinkedInAccount) (*model.LinkedInAccount, error) {
	tokens, err := u.flow.Refresh(ctx, *account.RefreshToken)
	if err != nil {
		return nil, err
	}
	account.AccessToken = tokens.AccessToken
	if tokens.RefreshToken != "" {
		v := tokens.RefreshToken
		account.RefreshToken = &v
	}
	if !tokens.Expiry.IsZero() {
		v := tokens.Expiry.UTC()
		account.ExpiresAt = &v
	}
	if tokens.Scope != "" {
		account.Scopes = tokens.Scope
	}
	if err := u.accountRepo.Upsert(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (u *oauthUsecase) Organizations(ctx context.Context, userID string) ([]model.Organization, error) {
	account, err := u.accountRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, &model.NotConnectedError{UserID: userID}
	}
	orgs, err := u.linkedinClient.ListOrganizations(ctx, account.AccessToken)
	if err != nil {
		// Fall back to the URNs recorded at connect time.
		logger.GetLogger().WithField("error", err).Info("live organization list failed, using stored URNs")
		stored := make([]model.Organization, 0, len(account.OrganizationURNs))
		for _, urn := range account.OrganizationURNs {
			stored = append(stored, model.Organization{URN: urn})
		}
		return stored, nil
	}
	return orgs, nil
}

func (u *oauthUsecase) Disconnect(ctx context.Context, userID string) error {
	return u.accountRepo.Delete(ctx, userID)
}

func randomState() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
