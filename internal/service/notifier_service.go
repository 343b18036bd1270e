package service

import (
	"context"

	"chowbot-be/internal/pkg/logger"
	"chowbot-be/pkg/events"
	pktNats "chowbot-be/pkg/nats"
)

const notifierDurableName = "chowbot-notifier"

type INotifierService interface {
	Start() error
}

// notifierService tails the order lifecycle stream and writes an audit line
// per event. It is the integration point for downstream notification
// channels; today the channel is the isolated event log.
type notifierService struct {
	subscriber *pktNats.Subscriber
	log        logger.ILogger
}

func NewNotifierService(subscriber *pktNats.Subscriber, log logger.ILogger) INotifierService {
	return &notifierService{subscriber: subscriber, log: log}
}

func (s *notifierService) Start() error {
	return s.subscriber.Subscribe("orders.>", notifierDurableName, s.handleEvent)
}

func (s *notifierService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	details := map[string]interface{}{
		"subject":     event.EventType(),
		"occurred_at": event.Timestamp(),
	}
	for _, key := range []string{"order_number", "session_id", "total_amount", "payment_reference"} {
		if v, ok := payload[key]; ok {
			details[key] = v
		}
	}

	s.log.Info("notifier", "Order event received", details)
	return nil
}
