package persistence

import (
	"context"
	"encoding/json"
	"time"

	"skallars-social/infrastructure/logger"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// ResponseArchive keeps raw provider responses in MongoDB for later debugging.
// The archive is best effort and tolerates a nil client; the share pipeline
// never depends on it.
type ResponseArchive struct {
	mongoDb *mongo.Client
}

func NewResponseArchive(client *mongo.Client) *ResponseArchive {
	return &ResponseArchive{mongoDb: client}
}

// Archive stores one raw response document. Failures are logged and swallowed.
func (a *ResponseArchive) Archive(ctx context.Context, userID, kind string, itemID int64, raw json.RawMessage) {
	if a == nil || a.mongoDb == nil {
		return
	}
	doc := bson.D{
		{Key: "user_id", Value: userID},
		{Key: "kind", Value: kind},
		{Key: "item_id", Value: itemID},
		{Key: "raw", Value: string(raw)},
		{Key: "created_at", Value: time.Now().UTC()},
	}
	collection := a.mongoDb.Database("skallars_social").Collection("provider_responses")
	if _, err := collection.InsertOne(ctx, doc); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while archiving provider response")
	}
}
