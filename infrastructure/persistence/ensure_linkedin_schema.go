package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SchemaCapabilities records which optional columns the deployed schema has.
// Resolved once at startup and injected into the repositories; query shapes
// are never inferred from error text at request time.
type SchemaCapabilities struct {
	// ShareModeColumn is false on older deployments where
	// linkedin_share_queue.share_mode does not exist yet. Queue queries
	// then omit the column and items default to article mode.
	ShareModeColumn bool
}

// EnsureLinkedInSchema creates the pipeline tables if they are missing, adds
// newer columns to pre-existing deployments, and detects optional columns into
// a SchemaCapabilities value. The articles and settings tables belong to the
// CMS and are never created here.
func EnsureLinkedInSchema(db *sql.DB) (SchemaCapabilities, error) {
	caps := SchemaCapabilities{}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ddls := []string{
		`CREATE TABLE IF NOT EXISTS linkedin_accounts (
			id BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL UNIQUE,
			member_urn TEXT,
			display_name TEXT,
			access_token TEXT NOT NULL,
			refresh_token TEXT,
			expires_at TIMESTAMPTZ,
			scopes TEXT NOT NULL DEFAULT '',
			organization_urns TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS linkedin_oauth_states (
			state TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			redirect_to TEXT NOT NULL DEFAULT '',
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS linkedin_share_queue (
			id BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			article_id BIGINT,
			target TEXT NOT NULL DEFAULT 'member',
			organization_urn TEXT,
			share_mode TEXT NOT NULL DEFAULT 'article',
			image_url TEXT,
			visibility TEXT NOT NULL DEFAULT 'PUBLIC',
			message TEXT,
			scheduled_at TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL DEFAULT 'scheduled',
			error_message TEXT,
			provider_response TEXT,
			claimed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS linkedin_share_logs (
			id BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			article_id BIGINT,
			target TEXT NOT NULL,
			share_mode TEXT NOT NULL,
			visibility TEXT NOT NULL,
			status TEXT NOT NULL,
			author_urn TEXT,
			share_urn TEXT,
			share_url TEXT,
			provider_response TEXT,
			error_message TEXT,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_share_queue_due ON linkedin_share_queue (status, scheduled_at)`,
	}
	for _, ddl := range ddls {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return caps, fmt.Errorf("ensuring linkedin schema: %w", err)
		}
	}

	// Older deployments predate the lease column.
	checks := []struct {
		table  string
		column string
		ddl    string
	}{
		{"linkedin_share_queue", "claimed_at", "ALTER TABLE linkedin_share_queue ADD COLUMN claimed_at TIMESTAMPTZ"},
		{"linkedin_share_logs", "author_urn", "ALTER TABLE linkedin_share_logs ADD COLUMN author_urn TEXT"},
	}
	for _, c := range checks {
		exists, err := columnExists(ctx, db, c.table, c.column)
		if err != nil {
			return caps, err
		}
		if !exists {
			if _, err := db.ExecContext(ctx, c.ddl); err != nil {
				return caps, fmt.Errorf("adding column %s.%s failed: %w", c.table, c.column, err)
			}
		}
	}

	// share_mode stays a capability, not a forced migration: hosted
	// deployments that predate it keep running with article-only queues.
	shareMode, err := columnExists(ctx, db, "linkedin_share_queue", "share_mode")
	if err != nil {
		return caps, err
	}
	caps.ShareModeColumn = shareMode
	return caps, nil
}

func columnExists(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	row := db.QueryRowContext(ctx, `SELECT 1 FROM information_schema.columns WHERE table_name=$1 AND column_name=$2`, table, column)
	var one int
	if err := row.Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
