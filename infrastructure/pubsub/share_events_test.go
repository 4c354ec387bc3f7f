package pubsub_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"skallars-social/domain/model"
	"skallars-social/infrastructure/pubsub"
)

func TestNewShareEvents(t *testing.T) {
	events := pubsub.NewShareEvents(nil, "share-events")
	assert.NotNil(t, events)
}

// Publishing with no client configured is a silent no-op.
func TestShareEvents_NilClientIsNoop(t *testing.T) {
	events := pubsub.NewShareEvents(nil, "share-events")
	events.PublishOutcome(context.Background(), pubsub.ShareEvent{ItemID: 1, UserID: "7", Status: "success"})
}

func TestFromQueueItem(t *testing.T) {
	errMsg := "Token expired."
	item := &model.ShareQueueItem{ID: 4, UserID: "7", Status: model.ShareStatusError, ErrorMessage: &errMsg}

	event := pubsub.FromQueueItem(item, nil)

	assert.Equal(t, int64(4), event.ItemID)
	assert.Equal(t, "7", event.UserID)
	assert.Equal(t, model.ShareStatusError, event.Status)
	assert.Nil(t, event.ShareURN)
	assert.Equal(t, "Token expired.", *event.Error)
}
