package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chowbot-be/internal/entity"
	"chowbot-be/internal/repository/contract"
)

func jollof(quantity int) entity.OrderItem {
	return entity.OrderItem{
		ItemId:   "M001",
		Name:     "Jollof Rice",
		Price:    2500,
		Quantity: quantity,
		Category: "mains",
	}
}

func TestAddItemCreatesPendingOrder(t *testing.T) {
	factory := newFakeFactory()
	svc := NewOrderService(factory, nil)

	order, err := svc.AddItemToOrder(context.Background(), "s1", "d1", jollof(2))
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.Equal(t, entity.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, int64(5000), order.TotalAmount)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD"))
	assert.Len(t, order.OrderNumber, 12)
}

func TestAddItemMergesSameItem(t *testing.T) {
	factory := newFakeFactory()
	svc := NewOrderService(factory, nil)
	ctx := context.Background()

	_, err := svc.AddItemToOrder(ctx, "s1", "d1", jollof(2))
	require.NoError(t, err)
	order, err := svc.AddItemToOrder(ctx, "s1", "d1", jollof(3))
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, 5, order.Items[0].Quantity)
	assert.Equal(t, int64(12500), order.TotalAmount)
	assert.Len(t, factory.store.orders, 1)
}

func TestAddItemRetriesWhenCreateRaceIsLost(t *testing.T) {
	factory := newFakeFactory()
	svc := NewOrderService(factory, nil)
	ctx := context.Background()

	// Another process creates the session's pending order after our find
	// misses but before our create lands.
	factory.store.beforeOrderCreate = func() {
		winner := &entity.Order{
			SessionId:     "s1",
			DeviceId:      "d1",
			OrderNumber:   "ORD000000001",
			Items:         []entity.OrderItem{},
			Status:        entity.OrderStatusPending,
			PaymentStatus: entity.PaymentStatusPending,
		}
		winner.MergeItem(jollof(1))
		repo := &fakeOrderRepo{store: factory.store}
		require.NoError(t, repo.Create(ctx, winner))
	}

	order, err := svc.AddItemToOrder(ctx, "s1", "d1", jollof(2))
	require.NoError(t, err)

	// The losing turn merged into the winner's order instead of creating a
	// second pending one.
	require.Len(t, factory.store.orders, 1)
	assert.Equal(t, "ORD000000001", order.OrderNumber)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.Equal(t, int64(7500), order.TotalAmount)
}

func TestCreateRejectsSecondPendingOrderForSession(t *testing.T) {
	factory := newFakeFactory()
	ctx := context.Background()
	repo := &fakeOrderRepo{store: factory.store}

	first := &entity.Order{SessionId: "s1", OrderNumber: "ORD000000001", Status: entity.OrderStatusPending}
	require.NoError(t, repo.Create(ctx, first))

	second := &entity.Order{SessionId: "s1", OrderNumber: "ORD000000002", Status: entity.OrderStatusPending}
	assert.ErrorIs(t, repo.Create(ctx, second), contract.ErrDuplicateOrder)

	settled := &entity.Order{SessionId: "s1", OrderNumber: "ORD000000003", Status: entity.OrderStatusPaid}
	assert.NoError(t, repo.Create(ctx, settled))
}

func TestAddDistinctItemsAppendsLines(t *testing.T) {
	factory := newFakeFactory()
	svc := NewOrderService(factory, nil)
	ctx := context.Background()

	_, err := svc.AddItemToOrder(ctx, "s1", "d1", jollof(1))
	require.NoError(t, err)
	order, err := svc.AddItemToOrder(ctx, "s1", "d1", entity.OrderItem{
		ItemId: "D004", Name: "Water", Price: 200, Quantity: 2, Category: "drinks",
	})
	require.NoError(t, err)

	require.Len(t, order.Items, 2)
	assert.Equal(t, int64(2500+400), order.TotalAmount)
	assert.Len(t, factory.store.orders, 1)
}

func TestOrdersAreSessionScoped(t *testing.T) {
	factory := newFakeFactory()
	svc := NewOrderService(factory, nil)
	ctx := context.Background()

	_, err := svc.AddItemToOrder(ctx, "s1", "d1", jollof(1))
	require.NoError(t, err)
	_, err = svc.AddItemToOrder(ctx, "s2", "d2", jollof(1))
	require.NoError(t, err)

	assert.Len(t, factory.store.orders, 2)

	order, err := svc.GetCurrentOrder(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, "s1", order.SessionId)
}

func TestGetCurrentOrderIgnoresSettledOrders(t *testing.T) {
	factory := newFakeFactory()
	svc := NewOrderService(factory, nil)
	ctx := context.Background()

	order, err := svc.AddItemToOrder(ctx, "s1", "d1", jollof(1))
	require.NoError(t, err)
	require.NoError(t, svc.CancelOrder(ctx, order))

	current, err := svc.GetCurrentOrder(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestCompleteOrderWithReferenceMarksPaid(t *testing.T) {
	factory := newFakeFactory()
	svc := NewOrderService(factory, nil)
	ctx := context.Background()

	order, err := svc.AddItemToOrder(ctx, "s1", "d1", jollof(1))
	require.NoError(t, err)

	ref := "ps_ref_123"
	require.NoError(t, svc.CompleteOrder(ctx, order, &ref))

	stored := factory.store.orders[0]
	assert.Equal(t, entity.OrderStatusPaid, stored.Status)
	assert.Equal(t, entity.PaymentStatusSuccess, stored.PaymentStatus)
	require.NotNil(t, stored.PaymentReference)
	assert.Equal(t, ref, *stored.PaymentReference)
}

func TestCompleteOrderWithoutReferenceMarksCompleted(t *testing.T) {
	factory := newFakeFactory()
	svc := NewOrderService(factory, nil)
	ctx := context.Background()

	order, err := svc.AddItemToOrder(ctx, "s1", "d1", jollof(1))
	require.NoError(t, err)
	require.NoError(t, svc.CompleteOrder(ctx, order, nil))

	stored := factory.store.orders[0]
	assert.Equal(t, entity.OrderStatusCompleted, stored.Status)
	assert.Equal(t, entity.PaymentStatusPending, stored.PaymentStatus)
}

func TestOrderHistoryExcludesPendingAndCancelled(t *testing.T) {
	factory := newFakeFactory()
	svc := NewOrderService(factory, nil)
	ctx := context.Background()

	paid, err := svc.AddItemToOrder(ctx, "s1", "d1", jollof(1))
	require.NoError(t, err)
	ref := "ref_paid"
	require.NoError(t, svc.CompleteOrder(ctx, paid, &ref))

	cancelled, err := svc.AddItemToOrder(ctx, "s1", "d1", jollof(1))
	require.NoError(t, err)
	require.NoError(t, svc.CancelOrder(ctx, cancelled))

	_, err = svc.AddItemToOrder(ctx, "s1", "d1", jollof(1))
	require.NoError(t, err)

	history, err := svc.GetOrderHistory(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, paid.Id, history[0].Id)
}

func TestFindBySessionAndReference(t *testing.T) {
	factory := newFakeFactory()
	svc := NewOrderService(factory, nil)
	ctx := context.Background()

	order, err := svc.AddItemToOrder(ctx, "s1", "d1", jollof(1))
	require.NoError(t, err)
	require.NoError(t, svc.AttachPaymentReference(ctx, order, "ps_abc"))

	found, err := svc.FindBySessionAndReference(ctx, "s1", "ps_abc")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, order.Id, found.Id)

	// A different session must not see it.
	missing, err := svc.FindBySessionAndReference(ctx, "s2", "ps_abc")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRecomputeTotal(t *testing.T) {
	order := &entity.Order{Items: []entity.OrderItem{
		{ItemId: "M001", Price: 2500, Quantity: 2},
		{ItemId: "D004", Price: 200, Quantity: 3},
	}}
	order.RecomputeTotal()
	assert.Equal(t, int64(5600), order.TotalAmount)
	assert.Equal(t, int64(560000), order.AmountInKobo())
}
