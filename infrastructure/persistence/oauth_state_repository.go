package persistence

import (
	"context"
	"database/sql"
	"time"

	"skallars-social/domain/model"
)

// OAuthStateRepository stores short-lived OAuth state nonces.
type OAuthStateRepository struct{ db *sql.DB }

func NewOAuthStateRepository(db *sql.DB) *OAuthStateRepository {
	return &OAuthStateRepository{db: db}
}

func (r *OAuthStateRepository) Create(ctx context.Context, s *model.OAuthState) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO linkedin_oauth_states (state, user_id, redirect_to, expires_at, created_at) VALUES ($1,$2,$3,$4,$5)`,
		s.State, s.UserID, s.RedirectTo, s.ExpiresAt, s.CreatedAt)
	return err
}

// Consume deletes the state row and returns it. A state is single use; an
// unknown or already-expired state yields nil.
func (r *OAuthStateRepository) Consume(ctx context.Context, state string) (*model.OAuthState, error) {
	row := r.db.QueryRowContext(ctx,
		`DELETE FROM linkedin_oauth_states WHERE state=$1 RETURNING state, user_id, redirect_to, expires_at, created_at`,
		state)
	s := &model.OAuthState{}
	err := row.Scan(&s.State, &s.UserID, &s.RedirectTo, &s.ExpiresAt, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if time.Now().UTC().After(s.ExpiresAt) {
		return nil, nil
	}
	return s, nil
}

func (r *OAuthStateRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM linkedin_oauth_states WHERE expires_at < $1`, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
