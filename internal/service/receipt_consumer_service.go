package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"chowbot-be/internal/dto"
	"chowbot-be/internal/pkg/logger"
	"chowbot-be/internal/pkg/mailer"
	"chowbot-be/internal/repository/specification"
	"chowbot-be/internal/repository/unitofwork"
)

type IReceiptConsumerService interface {
	Run(ctx context.Context) error
}

// receiptConsumerService drains the receipt queue and sends order receipts
// over SMTP. Mail failures are logged and acked; the payment is already
// settled, a receipt must never block or retry into the webhook path.
type receiptConsumerService struct {
	pubSub     *gochannel.GoChannel
	topic      string
	uowFactory unitofwork.RepositoryFactory
	mailer     mailer.IEmailService
	log        logger.ILogger
}

func NewReceiptConsumerService(
	pubSub *gochannel.GoChannel,
	topic string,
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	log logger.ILogger,
) IReceiptConsumerService {
	return &receiptConsumerService{
		pubSub:     pubSub,
		topic:      topic,
		uowFactory: uowFactory,
		mailer:     emailService,
		log:        log,
	}
}

func (s *receiptConsumerService) Run(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topic)
	if err != nil {
		return err
	}

	s.log.Info("receipt", "Receipt consumer started", map[string]interface{}{
		"topic": s.topic,
	})

	for msg := range messages {
		s.handle(ctx, msg)
		msg.Ack()
	}
	return nil
}

func (s *receiptConsumerService) handle(ctx context.Context, msg *message.Message) {
	var payload dto.PublishReceiptMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.log.Error("receipt", "Malformed receipt message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	order, err := uow.OrderRepository().FindOne(ctx, specification.ByID{ID: payload.OrderId})
	if err != nil || order == nil {
		s.log.Error("receipt", "Order lookup failed for receipt", map[string]interface{}{
			"order_id": payload.OrderId.String(),
		})
		return
	}

	if err := s.mailer.SendOrderReceipt(payload.Email, order); err != nil {
		s.log.Error("receipt", "Failed to send receipt email", map[string]interface{}{
			"order_number": order.OrderNumber,
			"email":        payload.Email,
			"error":        err.Error(),
		})
		return
	}

	s.log.Info("receipt", "Receipt sent", map[string]interface{}{
		"order_number": order.OrderNumber,
		"email":        payload.Email,
	})
}
