package repository

import (
	"context"

	"skallars-social/domain/model"
)

// IArticle reads CMS articles for share content resolution.
type IArticle interface {
	// GetByID returns the article, or (nil, nil) when it does not exist.
	GetByID(ctx context.Context, id int64) (*model.Article, error)
}

// ISettings reads the CMS key-value settings table.
type ISettings interface {
	// Get returns the value for key, or "" when the key is absent.
	Get(ctx context.Context, key string) (string, error)
}
