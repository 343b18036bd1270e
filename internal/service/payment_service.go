package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"chowbot-be/internal/catalog"
	"chowbot-be/internal/dto"
	"chowbot-be/internal/entity"
	"chowbot-be/internal/pkg/logger"
	"chowbot-be/internal/repository/specification"
	"chowbot-be/internal/repository/unitofwork"
	"chowbot-be/pkg/events"
	pktNats "chowbot-be/pkg/nats"
	"chowbot-be/pkg/paystack"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrInvalidSignature marks a webhook whose payload failed authentication.
// It is the only webhook outcome that surfaces as a non-200 response.
var ErrInvalidSignature = errors.New("invalid webhook signature")

const webhookDedupTTL = 24 * time.Hour

// WebhookDeduper is the slice of the redis API used for webhook delivery
// claims. *redis.Client satisfies it.
type WebhookDeduper interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type IPaymentService interface {
	InitiateCharge(ctx context.Context, email string, order *entity.Order) (*dto.PaymentDataDTO, error)
	HandleWebhook(ctx context.Context, signature string, rawBody []byte) error
	CheckPaymentStatus(ctx context.Context, sessionId, reference string) (*dto.CheckPaymentResponse, error)
}

type paymentService struct {
	uowFactory     unitofwork.RepositoryFactory
	orders         IOrderService
	client         *paystack.Client
	secretKey      string
	publicKey      string
	catalog        *catalog.Catalog
	eventPublisher *pktNats.Publisher
	pubSub         *gochannel.GoChannel
	receiptTopic   string
	redisClient    WebhookDeduper
	log            logger.ILogger
}

func NewPaymentService(
	uowFactory unitofwork.RepositoryFactory,
	orders IOrderService,
	client *paystack.Client,
	secretKey string,
	publicKey string,
	cat *catalog.Catalog,
	eventPublisher *pktNats.Publisher,
	pubSub *gochannel.GoChannel,
	receiptTopic string,
	redisClient WebhookDeduper,
	log logger.ILogger,
) IPaymentService {
	return &paymentService{
		uowFactory:     uowFactory,
		orders:         orders,
		client:         client,
		secretKey:      secretKey,
		publicKey:      publicKey,
		catalog:        cat,
		eventPublisher: eventPublisher,
		pubSub:         pubSub,
		receiptTopic:   receiptTopic,
		redisClient:    redisClient,
		log:            log,
	}
}

// InitiateCharge registers a pending charge with the provider, tagged with
// the order's identity so the webhook can be correlated back. The caller
// persists the returned reference; the order stays pending until the webhook
// confirms payment.
func (s *paymentService) InitiateCharge(ctx context.Context, email string, order *entity.Order) (*dto.PaymentDataDTO, error) {
	res, err := s.client.InitializeTransaction(ctx, &paystack.InitializeRequest{
		Email:  email,
		Amount: order.AmountInKobo(),
		Metadata: paystack.TransactionMetadata{
			OrderId:     order.Id.String(),
			OrderNumber: order.OrderNumber,
			SessionId:   order.SessionId,
			DeviceId:    order.DeviceId,
			Email:       email,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("charge initiation failed: %w", err)
	}

	return &dto.PaymentDataDTO{
		Email:       email,
		Amount:      order.AmountInKobo(),
		Reference:   res.Reference,
		PublicKey:   s.publicKey,
		OrderId:     order.Id.String(),
		OrderNumber: order.OrderNumber,
	}, nil
}

// VerifyWebhookSignature recomputes the keyed HMAC-SHA512 over the raw event
// payload and compares it to the header value in constant time.
func VerifyWebhookSignature(secretKey string, rawBody []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// HandleWebhook authenticates and applies one provider event. Correlation
// misses and amount mismatches are deliberate no-ops: the provider must see
// an acknowledgement, never a retry-triggering failure.
func (s *paymentService) HandleWebhook(ctx context.Context, signature string, rawBody []byte) error {
	if !VerifyWebhookSignature(s.secretKey, rawBody, signature) {
		s.log.Warn("payment", "Webhook signature mismatch", nil)
		return ErrInvalidSignature
	}

	var event dto.PaystackWebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		s.log.Warn("payment", "Webhook payload unmarshal failed", map[string]interface{}{"error": err.Error()})
		return nil
	}

	if !s.claimDelivery(ctx, event.Data.Reference) {
		s.log.Info("payment", "Duplicate webhook delivery skipped", map[string]interface{}{
			"reference": event.Data.Reference,
		})
		return nil
	}

	var applyErr error
	switch event.Event {
	case "charge.success":
		applyErr = s.applyChargeSuccess(ctx, &event.Data)
	case "charge.failed":
		applyErr = s.applyChargeFailed(ctx, &event.Data)
	default:
		s.log.Info("payment", "Ignoring webhook event", map[string]interface{}{"event": event.Event})
		return nil
	}

	if applyErr != nil {
		// The event was not applied; give the claim back so the provider's
		// redelivery gets another attempt instead of a 24h no-op.
		s.releaseDelivery(ctx, event.Data.Reference)
	}
	return applyErr
}

// claimDelivery marks the provider reference as processed; re-deliveries of
// the same event find the claim and back off. Without Redis every delivery
// is treated as first, which is safe but re-runs the no-op checks.
func (s *paymentService) claimDelivery(ctx context.Context, reference string) bool {
	if s.redisClient == nil || reference == "" {
		return true
	}
	ok, err := s.redisClient.SetNX(ctx, "webhook:"+reference, 1, webhookDedupTTL).Result()
	if err != nil {
		// Redis being down must not drop real payment events.
		return true
	}
	return ok
}

func (s *paymentService) releaseDelivery(ctx context.Context, reference string) {
	if s.redisClient == nil || reference == "" {
		return
	}
	if err := s.redisClient.Del(ctx, "webhook:"+reference).Err(); err != nil {
		s.log.Warn("payment", "Failed to release webhook delivery claim", map[string]interface{}{
			"reference": reference,
			"error":     err.Error(),
		})
	}
}

func (s *paymentService) applyChargeSuccess(ctx context.Context, data *dto.PaystackWebhookData) error {
	orderId, err := uuid.Parse(data.Metadata.OrderId)
	if err != nil {
		s.log.Warn("payment", "Webhook metadata missing usable order id", map[string]interface{}{
			"reference": data.Reference,
		})
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	order, err := uow.OrderRepository().FindOne(ctx,
		specification.ByID{ID: orderId},
		specification.LockForUpdate{},
	)
	if err != nil {
		return err
	}
	if order == nil {
		s.log.Warn("payment", "Webhook order not found", map[string]interface{}{
			"order_id":  data.Metadata.OrderId,
			"reference": data.Reference,
		})
		return nil
	}

	if order.AmountInKobo() != data.Amount {
		s.log.Warn("payment", "Webhook amount mismatch, no status change", map[string]interface{}{
			"order_number":    order.OrderNumber,
			"order_amount":    order.AmountInKobo(),
			"declared_amount": data.Amount,
		})
		return nil
	}

	order.Status = entity.OrderStatusPaid
	order.PaymentStatus = entity.PaymentStatusSuccess
	order.PaymentReference = &data.Reference

	if err := uow.OrderRepository().Update(ctx, order); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.log.Info("payment", "Order marked as paid", map[string]interface{}{
		"order_number": order.OrderNumber,
		"reference":    data.Reference,
	})

	s.publishOrderEvent(ctx, events.TypeOrderPaid, order)
	s.enqueueReceipt(order, data.Metadata.Email)
	return nil
}

func (s *paymentService) applyChargeFailed(ctx context.Context, data *dto.PaystackWebhookData) error {
	orderId, err := uuid.Parse(data.Metadata.OrderId)
	if err != nil {
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	order, err := uow.OrderRepository().FindOne(ctx,
		specification.ByID{ID: orderId},
		specification.LockForUpdate{},
	)
	if err != nil {
		return err
	}
	if order == nil {
		s.log.Warn("payment", "Webhook order not found", map[string]interface{}{
			"order_id":  data.Metadata.OrderId,
			"reference": data.Reference,
		})
		return nil
	}

	order.Status = entity.OrderStatusCancelled
	order.PaymentStatus = entity.PaymentStatusFailed
	order.PaymentReference = &data.Reference

	if err := uow.OrderRepository().Update(ctx, order); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.log.Info("payment", "Order cancelled after failed charge", map[string]interface{}{
		"order_number": order.OrderNumber,
		"reference":    data.Reference,
	})

	s.publishOrderEvent(ctx, events.TypeOrderCancelled, order)
	return nil
}

// CheckPaymentStatus backs the client's poll loop. Lookup only: the poll is
// never allowed to flip an order's status, so a client cannot spoof payment
// completion by polling.
func (s *paymentService) CheckPaymentStatus(ctx context.Context, sessionId, reference string) (*dto.CheckPaymentResponse, error) {
	order, err := s.orders.FindBySessionAndReference(ctx, sessionId, reference)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return &dto.CheckPaymentResponse{
			Success:  false,
			Response: "Order not found. Please try again or check order history (98).",
		}, nil
	}

	mainMenu := s.catalog.RenderMainMenu()
	var responseText string
	switch order.Status {
	case entity.OrderStatusPaid:
		responseText = fmt.Sprintf(
			"✅ Payment confirmed for Order %s!\n\nTotal: %s\n\nWhat would you like to do next?\n\n%s",
			order.OrderNumber, catalog.FormatPrice(order.TotalAmount), mainMenu)
	case entity.OrderStatusCancelled:
		responseText = fmt.Sprintf(
			"❌ Payment cancelled for Order %s. Type 99 to try again.\n\nWhat would you like to do next?\n\n%s",
			order.OrderNumber, mainMenu)
	default:
		responseText = fmt.Sprintf(
			"⏳ Payment pending for Order %s. Please check again soon or type 98 for order history.\n\nWhat would you like to do next?\n\n%s",
			order.OrderNumber, mainMenu)
	}

	return &dto.CheckPaymentResponse{
		Success:  true,
		Response: responseText,
		Status:   string(order.Status),
	}, nil
}

func (s *paymentService) publishOrderEvent(ctx context.Context, eventType string, order *entity.Order) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"order_id":     order.Id,
			"order_number": order.OrderNumber,
			"session_id":   order.SessionId,
			"total_amount": order.TotalAmount,
			"status":       string(order.Status),
			"occurred_at":  time.Now(),
		},
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("payment", "Failed to publish order event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func (s *paymentService) enqueueReceipt(order *entity.Order, email string) {
	if s.pubSub == nil || email == "" {
		return
	}
	payload, err := json.Marshal(dto.PublishReceiptMessage{
		OrderId: order.Id,
		Email:   email,
	})
	if err != nil {
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(s.receiptTopic, msg); err != nil {
		s.log.Warn("payment", "Failed to enqueue receipt job", map[string]interface{}{
			"order_number": order.OrderNumber,
			"error":        err.Error(),
		})
	}
}
