package servicebus

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"

	"skallars-social/infrastructure/logger"
)

type IShareEventSender interface {
	SendMessage(ctx context.Context, message []byte) error
}

// ShareEventSender forwards share outcome events to an Azure Service Bus
// queue for the notification worker.
type ShareEventSender struct {
	AzservicebusClient *azservicebus.Client
	Queue              string
}

func NewShareEventSender(azServiceBusClient *azservicebus.Client, queue string) IShareEventSender {
	return &ShareEventSender{AzservicebusClient: azServiceBusClient, Queue: queue}
}

func (s *ShareEventSender) SendMessage(ctx context.Context, message []byte) error {
	if s.AzservicebusClient == nil || s.Queue == "" {
		return nil
	}
	sender, err := s.AzservicebusClient.NewSender(s.Queue, nil)
	if err != nil {
		logger.GetLogger().
			WithField("error", err).
			Error("Error while making new sender service bus.")
		return err
	}
	defer func(sender *azservicebus.Sender, ctx context.Context) {
		err := sender.Close(ctx)
		if err != nil {
			logger.GetLogger().
				WithField("error", err).
				Error("Error while closing sender.")
		}
	}(sender, ctx)

	sbMessage := &azservicebus.Message{Body: message}
	if err := sender.SendMessage(ctx, sbMessage, nil); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while sending message.")
		return err
	}
	return nil
}
