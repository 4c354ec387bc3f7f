package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"skallars-social/domain/model"
)

// ShareQueueRepository persists the durable share queue (PostgreSQL).
//
// The optional share_mode column is resolved once at startup into
// SchemaCapabilities; when absent every row reads back as article mode.
type ShareQueueRepository struct {
	db   *sql.DB
	caps SchemaCapabilities
}

func NewShareQueueRepository(db *sql.DB, caps SchemaCapabilities) *ShareQueueRepository {
	return &ShareQueueRepository{db: db, caps: caps}
}

func (r *ShareQueueRepository) Enqueue(ctx context.Context, item *model.ShareQueueItem) (*model.ShareQueueItem, error) {
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.Status == "" {
		item.Status = model.ShareStatusScheduled
	}

	var row *sql.Row
	if r.caps.ShareModeColumn {
		row = r.db.QueryRowContext(ctx,
			`INSERT INTO linkedin_share_queue (user_id, article_id, target, organization_urn, share_mode, image_url, visibility, message, scheduled_at, status, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12) RETURNING id`,
			item.UserID, item.ArticleID, item.Target, item.OrganizationURN, item.Mode, item.ImageURL,
			item.Visibility, item.Message, item.ScheduledAt, item.Status, item.CreatedAt, item.UpdatedAt)
	} else {
		row = r.db.QueryRowContext(ctx,
			`INSERT INTO linkedin_share_queue (user_id, article_id, target, organization_urn, visibility, message, scheduled_at, status, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10) RETURNING id`,
			item.UserID, item.ArticleID, item.Target, item.OrganizationURN,
			item.Visibility, item.Message, item.ScheduledAt, item.Status, item.CreatedAt, item.UpdatedAt)
	}
	if err := row.Scan(&item.ID); err != nil {
		return nil, err
	}
	return item, nil
}

func (r *ShareQueueRepository) selectColumns() string {
	if r.caps.ShareModeColumn {
		return `id, user_id, article_id, target, organization_urn, share_mode, image_url, visibility, message, scheduled_at, status, error_message, provider_response, claimed_at, created_at, updated_at`
	}
	return `id, user_id, article_id, target, organization_urn, visibility, message, scheduled_at, status, error_message, provider_response, claimed_at, created_at, updated_at`
}

func (r *ShareQueueRepository) scan(rows *sql.Rows) (*model.ShareQueueItem, error) {
	item := &model.ShareQueueItem{}
	var articleID sql.NullInt64
	var orgURN, imageURL, message, errMsg, providerResponse sql.NullString
	var claimedAt sql.NullTime
	var mode sql.NullString

	var err error
	if r.caps.ShareModeColumn {
		err = rows.Scan(&item.ID, &item.UserID, &articleID, &item.Target, &orgURN, &mode, &imageURL,
			&item.Visibility, &message, &item.ScheduledAt, &item.Status, &errMsg, &providerResponse,
			&claimedAt, &item.CreatedAt, &item.UpdatedAt)
	} else {
		err = rows.Scan(&item.ID, &item.UserID, &articleID, &item.Target, &orgURN,
			&item.Visibility, &message, &item.ScheduledAt, &item.Status, &errMsg, &providerResponse,
			&claimedAt, &item.CreatedAt, &item.UpdatedAt)
	}
	if err != nil {
		return nil, err
	}

	item.Mode = model.ShareModeArticle
	if mode.Valid && mode.String != "" {
		item.Mode = model.ShareMode(mode.String)
	}
	if articleID.Valid {
		v := articleID.Int64
		item.ArticleID = &v
	}
	if orgURN.Valid {
		v := orgURN.String
		item.OrganizationURN = &v
	}
	if imageURL.Valid {
		v := imageURL.String
		item.ImageURL = &v
	}
	if message.Valid {
		v := message.String
		item.Message = &v
	}
	if errMsg.Valid {
		v := errMsg.String
		item.ErrorMessage = &v
	}
	if providerResponse.Valid {
		v := providerResponse.String
		item.ProviderResponse = &v
	}
	if claimedAt.Valid {
		item.ClaimedAt = &claimedAt.Time
	}
	return item, nil
}

func (r *ShareQueueRepository) FetchDue(ctx context.Context, userID string, limit int) ([]*model.ShareQueueItem, error) {
	q := fmt.Sprintf(`SELECT %s FROM linkedin_share_queue
		WHERE status IN ('scheduled','retry') AND scheduled_at <= $1`, r.selectColumns())
	args := []interface{}{time.Now().UTC()}
	if userID != "" {
		q += ` AND user_id = $2 ORDER BY scheduled_at ASC LIMIT $3`
		args = append(args, userID, limit)
	} else {
		q += ` ORDER BY scheduled_at ASC LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*model.ShareQueueItem, 0)
	for rows.Next() {
		item, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Claim is the compare-and-set transition into processing. Exactly one runner
// wins per item; losers see zero rows affected.
func (r *ShareQueueRepository) Claim(ctx context.Context, id int64, fromStatus string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE linkedin_share_queue SET status=$1, claimed_at=$2, updated_at=$2 WHERE id=$3 AND status=$4`,
		model.ShareStatusProcessing, time.Now().UTC(), id, fromStatus)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *ShareQueueRepository) MarkResult(ctx context.Context, id int64, status string, errMsg, providerResponse *string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE linkedin_share_queue SET status=$1, error_message=$2, provider_response=$3, updated_at=$4 WHERE id=$5`,
		status, errMsg, providerResponse, time.Now().UTC(), id)
	return err
}

// ReclaimStuck returns crashed-runner items to the queue. Items whose lease
// timestamp is older than the cutoff go back to retry for the next poll.
func (r *ShareQueueRepository) ReclaimStuck(ctx context.Context, claimedBefore time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE linkedin_share_queue SET status=$1, claimed_at=NULL, updated_at=$2 WHERE status=$3 AND claimed_at IS NOT NULL AND claimed_at < $4`,
		model.ShareStatusRetry, time.Now().UTC(), model.ShareStatusProcessing, claimedBefore)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *ShareQueueRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*model.ShareQueueItem, error) {
	q := fmt.Sprintf(`SELECT %s FROM linkedin_share_queue WHERE user_id=$1 ORDER BY scheduled_at DESC LIMIT $2`, r.selectColumns())
	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*model.ShareQueueItem, 0)
	for rows.Next() {
		item, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
