package repository

import (
	"context"

	"skallars-social/domain/model"
)

// ILinkedInAccount persists one LinkedIn account per user.
type ILinkedInAccount interface {
	// Upsert creates or overwrites the account keyed by user id.
	Upsert(ctx context.Context, account *model.LinkedInAccount) error
	// Get returns the stored account, or (nil, nil) when the user has none.
	Get(ctx context.Context, userID string) (*model.LinkedInAccount, error)
	Delete(ctx context.Context, userID string) error
}

// IOAuthState persists ephemeral OAuth correlation records.
type IOAuthState interface {
	Create(ctx context.Context, state *model.OAuthState) error
	// Consume deletes and returns the record for the given state token.
	// Returns (nil, nil) when the state is unknown or already expired;
	// expired records are deleted as a side effect.
	Consume(ctx context.Context, state string) (*model.OAuthState, error)
	// DeleteExpired removes stale records past their expiry.
	DeleteExpired(ctx context.Context) (int64, error)
}
