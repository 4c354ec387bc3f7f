package pubsub

import (
	"context"
	"encoding/json"

	"cloud.google.com/go/pubsub"

	"skallars-social/domain/model"
	"skallars-social/infrastructure/logger"
)

// ShareEvent is the message published after every delivery attempt. Consumers
// (analytics, notifications) subscribe downstream.
type ShareEvent struct {
	ItemID   int64   `json:"item_id"`
	UserID   string  `json:"user_id"`
	Status   string  `json:"status"`
	ShareURN *string `json:"share_urn,omitempty"`
	Error    *string `json:"error,omitempty"`
}

type IShareEvents interface {
	PublishOutcome(ctx context.Context, event ShareEvent)
}

// ShareEvents publishes delivery outcomes to a Google Pub/Sub topic. Best
// effort; a nil client or publish failure never fails the pipeline.
type ShareEvents struct {
	pubSubClient *pubsub.Client
	topicName    string
}

func NewShareEvents(pubSubClient *pubsub.Client, topicName string) IShareEvents {
	return &ShareEvents{pubSubClient: pubSubClient, topicName: topicName}
}

func (s *ShareEvents) PublishOutcome(ctx context.Context, event ShareEvent) {
	if s.pubSubClient == nil || s.topicName == "" {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	topic := s.pubSubClient.Topic(s.topicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Error while checking topic existence")
		return
	}
	if !exists {
		if _, err := s.pubSubClient.CreateTopic(ctx, s.topicName); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Error while creating topic")
			return
		}
	}

	serverId, err := topic.Publish(ctx, &pubsub.Message{Data: payload}).Get(ctx)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Error while publishing share event")
		return
	}
	logger.GetLogger().WithField("server ID", serverId).Info("Share event published")
}

// FromQueueItem builds an event from a finished queue item.
func FromQueueItem(item *model.ShareQueueItem, shareURN *string) ShareEvent {
	return ShareEvent{
		ItemID:   item.ID,
		UserID:   item.UserID,
		Status:   item.Status,
		ShareURN: shareURN,
		Error:    item.ErrorMessage,
	}
}
