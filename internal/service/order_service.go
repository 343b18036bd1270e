package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chowbot-be/internal/entity"
	"chowbot-be/internal/repository/contract"
	"chowbot-be/internal/repository/specification"
	"chowbot-be/internal/repository/unitofwork"
	"chowbot-be/pkg/events"
	pktNats "chowbot-be/pkg/nats"
)

const orderHistoryLimit = 10

type IOrderService interface {
	GetCurrentOrder(ctx context.Context, sessionId string) (*entity.Order, error)
	AddItemToOrder(ctx context.Context, sessionId, deviceId string, item entity.OrderItem) (*entity.Order, error)
	GetOrderHistory(ctx context.Context, sessionId string) ([]*entity.Order, error)
	CancelOrder(ctx context.Context, order *entity.Order) error
	CompleteOrder(ctx context.Context, order *entity.Order, paymentReference *string) error
	FindBySessionAndReference(ctx context.Context, sessionId, reference string) (*entity.Order, error)
	AttachPaymentReference(ctx context.Context, order *entity.Order, reference string) error
}

type orderService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
}

func NewOrderService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pktNats.Publisher) IOrderService {
	return &orderService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
	}
}

// GetCurrentOrder resolves the session's single logically-active order: the
// most recent one still in pending status.
func (s *orderService) GetCurrentOrder(ctx context.Context, sessionId string) (*entity.Order, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.OrderRepository().FindOne(ctx,
		specification.BySessionId{SessionId: sessionId},
		specification.ByStatus{Status: string(entity.OrderStatusPending)},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
}

// AddItemToOrder finds or creates the pending order for the session and
// merges the line into it. The read-modify-write runs inside one transaction
// with the pending row locked, and a partial unique index on
// (session_id, status = pending) backs the create path: a turn that loses the
// create race to another process retries and merges into the winner's order.
func (s *orderService) AddItemToOrder(ctx context.Context, sessionId, deviceId string, item entity.OrderItem) (*entity.Order, error) {
	order, created, err := s.addItemOnce(ctx, sessionId, deviceId, item)
	if errors.Is(err, contract.ErrDuplicateOrder) {
		order, created, err = s.addItemOnce(ctx, sessionId, deviceId, item)
	}
	if err != nil {
		return nil, err
	}

	if created {
		s.publishEvent(ctx, events.TypeOrderCreated, order)
	}
	return order, nil
}

func (s *orderService) addItemOnce(ctx context.Context, sessionId, deviceId string, item entity.OrderItem) (*entity.Order, bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, false, err
	}
	defer uow.Rollback()

	order, err := uow.OrderRepository().FindOne(ctx,
		specification.BySessionId{SessionId: sessionId},
		specification.ByStatus{Status: string(entity.OrderStatusPending)},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.LockForUpdate{},
	)
	if err != nil {
		return nil, false, err
	}

	created := false
	if order == nil {
		orderNumber, err := s.nextOrderNumber(ctx, uow)
		if err != nil {
			return nil, false, err
		}
		order = &entity.Order{
			SessionId:     sessionId,
			DeviceId:      deviceId,
			OrderNumber:   orderNumber,
			Items:         []entity.OrderItem{},
			Status:        entity.OrderStatusPending,
			PaymentStatus: entity.PaymentStatusPending,
		}
		order.MergeItem(item)
		if err := uow.OrderRepository().Create(ctx, order); err != nil {
			return nil, false, err
		}
		created = true
	} else {
		order.MergeItem(item)
		if err := uow.OrderRepository().Update(ctx, order); err != nil {
			return nil, false, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, false, err
	}

	return order, created, nil
}

func (s *orderService) GetOrderHistory(ctx context.Context, sessionId string) ([]*entity.Order, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.OrderRepository().FindAll(ctx,
		specification.BySessionId{SessionId: sessionId},
		specification.ByStatusIn{Statuses: []string{
			string(entity.OrderStatusCompleted),
			string(entity.OrderStatusPaid),
		}},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Limit{Count: orderHistoryLimit},
	)
}

// CancelOrder is a terminal transition; the order becomes immutable history.
func (s *orderService) CancelOrder(ctx context.Context, order *entity.Order) error {
	order.Status = entity.OrderStatusCancelled

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.OrderRepository().Update(ctx, order); err != nil {
		return err
	}

	s.publishEvent(ctx, events.TypeOrderCancelled, order)
	return nil
}

// CompleteOrder marks the order paid when a payment reference is supplied,
// completed otherwise, and stamps the payment status to match.
func (s *orderService) CompleteOrder(ctx context.Context, order *entity.Order, paymentReference *string) error {
	if paymentReference != nil {
		order.Status = entity.OrderStatusPaid
		order.PaymentStatus = entity.PaymentStatusSuccess
		order.PaymentReference = paymentReference
	} else {
		order.Status = entity.OrderStatusCompleted
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.OrderRepository().Update(ctx, order); err != nil {
		return err
	}

	if order.Status == entity.OrderStatusPaid {
		s.publishEvent(ctx, events.TypeOrderPaid, order)
	}
	return nil
}

// FindBySessionAndReference backs the client poll. Scoping by session keeps
// one customer from reading another's order by guessing references.
func (s *orderService) FindBySessionAndReference(ctx context.Context, sessionId, reference string) (*entity.Order, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.OrderRepository().FindOne(ctx,
		specification.BySessionId{SessionId: sessionId},
		specification.ByPaymentReference{Reference: reference},
	)
}

// AttachPaymentReference records the provider reference after charge
// initiation. The order stays pending; payment is asynchronous and only the
// webhook flips the status.
func (s *orderService) AttachPaymentReference(ctx context.Context, order *entity.Order, reference string) error {
	order.PaymentReference = &reference

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.OrderRepository().Update(ctx, order)
}

// nextOrderNumber builds a human-readable number like ORD123456007 from the
// millisecond clock tail and a running count.
func (s *orderService) nextOrderNumber(ctx context.Context, uow unitofwork.UnitOfWork) (string, error) {
	count, err := uow.OrderRepository().Count(ctx)
	if err != nil {
		return "", err
	}
	millis := fmt.Sprintf("%d", time.Now().UnixMilli())
	return fmt.Sprintf("ORD%s%03d", millis[len(millis)-6:], count+1), nil
}

func (s *orderService) publishEvent(ctx context.Context, eventType string, order *entity.Order) {
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
		fmt.Printf("[WARN] Failed to publish %s event: %v\n", eventType, err)
	}
}
