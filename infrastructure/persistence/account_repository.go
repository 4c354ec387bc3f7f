package persistence

import (
	"context"
	"database/sql"
	"time"

	"skallars-social/domain/model"

	"github.com/lib/pq"
)

// LinkedInAccountRepository persists one LinkedIn account per user (PostgreSQL).
type LinkedInAccountRepository struct{ db *sql.DB }

func NewLinkedInAccountRepository(db *sql.DB) *LinkedInAccountRepository {
	return &LinkedInAccountRepository{db: db}
}

func (r *LinkedInAccountRepository) Upsert(ctx context.Context, a *model.LinkedInAccount) error {
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	q := `INSERT INTO linkedin_accounts (user_id, member_urn, display_name, access_token, refresh_token, expires_at, scopes, organization_urns, created_at, updated_at)
		  VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		  ON CONFLICT (user_id) DO UPDATE SET
			member_urn=EXCLUDED.member_urn,
			display_name=EXCLUDED.display_name,
			access_token=EXCLUDED.access_token,
			refresh_token=EXCLUDED.refresh_token,
			expires_at=EXCLUDED.expires_at,
			scopes=EXCLUDED.scopes,
			organization_urns=EXCLUDED.organization_urns,
			updated_at=EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, q,
		a.UserID, a.MemberURN, a.DisplayName, a.AccessToken, a.RefreshToken,
		a.ExpiresAt, a.Scopes, pq.Array(a.OrganizationURNs), a.CreatedAt, a.UpdatedAt)
	return err
}

func (r *LinkedInAccountRepository) Get(ctx context.Context, userID string) (*model.LinkedInAccount, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, user_id, member_urn, display_name, access_token, refresh_token, expires_at, scopes, organization_urns, created_at, updated_at FROM linkedin_accounts WHERE user_id=$1`, userID)
	a := &model.LinkedInAccount{}
	var memberURN, displayName, refreshToken sql.NullString
	var expiresAt sql.NullTime
	var orgURNs pq.StringArray
	err := row.Scan(&a.ID, &a.UserID, &memberURN, &displayName, &a.AccessToken, &refreshToken, &expiresAt, &a.Scopes, &orgURNs, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if memberURN.Valid {
		v := memberURN.String
		a.MemberURN = &v
	}
	if displayName.Valid {
		v := displayName.String
		a.DisplayName = &v
	}
	if refreshToken.Valid {
		v := refreshToken.String
		a.RefreshToken = &v
	}
	if expiresAt.Valid {
		a.ExpiresAt = &expiresAt.Time
	}
	a.OrganizationURNs = []string(orgURNs)
	return a, nil
}

func (r *LinkedInAccountRepository) Delete(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM linkedin_accounts WHERE user_id=$1`, userID)
	return err
}
