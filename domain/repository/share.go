package repository

import (
	"context"
	"time"

	"skallars-social/domain/model"
)

// IShareQueue is the durable, polled work queue of pending shares.
type IShareQueue interface {
	// Enqueue inserts a new item and returns it with id and timestamps set.
	Enqueue(ctx context.Context, item *model.ShareQueueItem) (*model.ShareQueueItem, error)
	// FetchDue returns up to limit items with status scheduled/retry and
	// scheduled_at <= now, ordered by scheduled_at ascending. An empty
	// userID removes the per-user scope (privileged scheduler run).
	FetchDue(ctx context.Context, userID string, limit int) ([]*model.ShareQueueItem, error)
	// Claim transitions the item to processing only if its status still
	// equals fromStatus. Returns false when another runner won the race.
	Claim(ctx context.Context, id int64, fromStatus string) (bool, error)
	// MarkResult writes the terminal status plus error/raw response.
	MarkResult(ctx context.Context, id int64, status string, errMsg, providerResponse *string) error
	// ReclaimStuck resets items stuck in processing with a claim older
	// than the cutoff back to retry. Returns the number of rows reset.
	ReclaimStuck(ctx context.Context, claimedBefore time.Time) (int64, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*model.ShareQueueItem, error)
}

// IShareLog is the append-only audit log of delivery attempts.
type IShareLog interface {
	Insert(ctx context.Context, item *model.ShareLogItem) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*model.ShareLogItem, error)
	// LastSuccessfulOrgURN returns the author URN of the user's most
	// recent successful organization share, or (nil, nil) when none.
	LastSuccessfulOrgURN(ctx context.Context, userID string) (*string, error)
}
