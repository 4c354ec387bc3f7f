package persistence

import (
	"context"
	"database/sql"
	"time"

	"skallars-social/domain/model"
)

// ShareLogRepository is the append-only audit log of delivery attempts.
type ShareLogRepository struct{ db *sql.DB }

func NewShareLogRepository(db *sql.DB) *ShareLogRepository {
	return &ShareLogRepository{db: db}
}

func (r *ShareLogRepository) Insert(ctx context.Context, item *model.ShareLogItem) error {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO linkedin_share_logs (user_id, article_id, target, share_mode, visibility, status, author_urn, share_urn, share_url, provider_response, error_message, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12) RETURNING id`,
		item.UserID, item.ArticleID, item.Target, item.Mode, item.Visibility, item.Status,
		item.AuthorURN, item.ShareURN, item.ShareURL, item.ProviderResponse, item.ErrorMessage, item.CreatedAt)
	return row.Scan(&item.ID)
}

func (r *ShareLogRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*model.ShareLogItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, article_id, target, share_mode, visibility, status, author_urn, share_urn, share_url, provider_response, error_message, created_at
		 FROM linkedin_share_logs WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*model.ShareLogItem, 0)
	for rows.Next() {
		item := &model.ShareLogItem{}
		var articleID sql.NullInt64
		var authorURN, shareURN, shareURL, providerResponse, errMsg sql.NullString
		if err := rows.Scan(&item.ID, &item.UserID, &articleID, &item.Target, &item.Mode, &item.Visibility,
			&item.Status, &authorURN, &shareURN, &shareURL, &providerResponse, &errMsg, &item.CreatedAt); err != nil {
			return nil, err
		}
		if articleID.Valid {
			v := articleID.Int64
			item.ArticleID = &v
		}
		if authorURN.Valid {
			v := authorURN.String
			item.AuthorURN = &v
		}
		if shareURN.Valid {
			v := shareURN.String
			item.ShareURN = &v
		}
		if shareURL.Valid {
			v := shareURL.String
			item.ShareURL = &v
		}
		if providerResponse.Valid {
			v := providerResponse.String
			item.ProviderResponse = &v
		}
		if errMsg.Valid {
			v := errMsg.String
			item.ErrorMessage = &v
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *ShareLogRepository) LastSuccessfulOrgURN(ctx context.Context, userID string) (*string, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT author_urn FROM linkedin_share_logs
		 WHERE user_id=$1 AND target=$2 AND status=$3 AND author_urn IS NOT NULL
		 ORDER BY created_at DESC LIMIT 1`,
		userID, model.TargetOrganization, model.ShareStatusSuccess)
	var urn string
	err := row.Scan(&urn)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &urn, nil
}
