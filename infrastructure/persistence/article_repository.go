package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"skallars-social/domain/model"
)

// ArticleRepository reads the CMS articles table. Title and excerpt are
// stored as JSONB objects keyed by language code.
type ArticleRepository struct{ db *sql.DB }

func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) GetByID(ctx context.Context, id int64) (*model.Article, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, slug, title, excerpt, published, created_at, updated_at FROM articles WHERE id=$1`, id)

	a := &model.Article{}
	var titleRaw, excerptRaw []byte
	err := row.Scan(&a.ID, &a.Slug, &titleRaw, &excerptRaw, &a.Published, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if len(titleRaw) > 0 {
		if err := json.Unmarshal(titleRaw, &a.Title); err != nil {
			return nil, fmt.Errorf("decoding article %d title: %w", id, err)
		}
	}
	if len(excerptRaw) > 0 {
		if err := json.Unmarshal(excerptRaw, &a.Excerpt); err != nil {
			return nil, fmt.Errorf("decoding article %d excerpt: %w", id, err)
		}
	}
	return a, nil
}
