package pubsub

import (
	"context"
	"errors"

	"cloud.google.com/go/pubsub"
)

// NewPubSub creates the Google Pub/Sub client. Credentials come from the
// ambient service account (GOOGLE_APPLICATION_CREDENTIALS).
func NewPubSub(ctx context.Context, projectID string) (*pubsub.Client, error) {
	if projectID == "" {
		return nil, errors.New("pubsub project id is not configured")
	}
	return pubsub.NewClient(ctx, projectID)
}
