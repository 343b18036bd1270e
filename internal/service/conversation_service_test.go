package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chowbot-be/internal/catalog"
	"chowbot-be/internal/entity"
	"chowbot-be/internal/repository/memory"
)

func newConversationHarness(t *testing.T) (IConversationService, IOrderService, *fakePaymentGateway, *fakeFactory) {
	t.Helper()
	return newConversationHarnessWithFactory(t, newFakeFactory())
}

func newConversationHarnessWithFactory(t *testing.T, factory *fakeFactory) (IConversationService, IOrderService, *fakePaymentGateway, *fakeFactory) {
	t.Helper()
	orderService := NewOrderService(factory, nil)
	gateway := &fakePaymentGateway{}
	conversationService := NewConversationService(
		factory,
		catalog.New(),
		orderService,
		gateway,
		memory.NewTurnLockRegistry(),
		nopLogger{},
	)
	return conversationService, orderService, gateway, factory
}

func currentStep(t *testing.T, factory *fakeFactory, sessionId string) entity.Step {
	t.Helper()
	for _, c := range factory.store.conversations {
		if c.SessionId == sessionId {
			return c.CurrentStep
		}
	}
	t.Fatalf("conversation for %s not found", sessionId)
	return ""
}

func TestInitChatReturnsMainMenu(t *testing.T) {
	svc, _, _, factory := newConversationHarness(t)

	res, err := svc.InitChat(context.Background(), "session-1")
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Contains(t, res.Response, "Welcome to Our Restaurant!")
	assert.Contains(t, res.Response, "99 - Checkout order")
	assert.Equal(t, entity.StepMainMenu, currentStep(t, factory, "session-1"))
}

func TestInitChatIsIdempotent(t *testing.T) {
	svc, _, _, factory := newConversationHarness(t)

	_, err := svc.InitChat(context.Background(), "session-1")
	require.NoError(t, err)
	_, err = svc.InitChat(context.Background(), "session-1")
	require.NoError(t, err)

	assert.Len(t, factory.store.conversations, 1)
}

func TestFullOrderingFlow(t *testing.T) {
	svc, _, _, factory := newConversationHarness(t)
	ctx := context.Background()
	sessionId := "session-flow"

	_, err := svc.InitChat(ctx, sessionId)
	require.NoError(t, err)

	// Pick the first category.
	res, err := svc.HandleMessage(ctx, sessionId, "1")
	require.NoError(t, err)
	assert.Contains(t, res.Response, "Select item number")
	assert.Equal(t, entity.StepBrowsingMenu, currentStep(t, factory, sessionId))

	// Pick the first item.
	res, err = svc.HandleMessage(ctx, sessionId, "1")
	require.NoError(t, err)
	assert.Contains(t, res.Response, "How many would you like")
	assert.Equal(t, entity.StepSelectingItem, currentStep(t, factory, sessionId))

	// Quantity commits the line and cycles back to the main menu.
	res, err = svc.HandleMessage(ctx, sessionId, "2")
	require.NoError(t, err)
	assert.Contains(t, res.Response, "Added to Order!")
	assert.Contains(t, res.Response, "Current Order Total")
	assert.Equal(t, entity.StepMainMenu, currentStep(t, factory, sessionId))

	require.Len(t, factory.store.orders, 1)
	order := factory.store.orders[0]
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, order.Items[0].Price*2, order.TotalAmount)
}

func TestRepeatSelectionMergesLine(t *testing.T) {
	svc, _, _, factory := newConversationHarness(t)
	ctx := context.Background()
	sessionId := "session-merge"

	_, err := svc.InitChat(ctx, sessionId)
	require.NoError(t, err)

	for _, turn := range []string{"1", "1", "2", "1", "1", "3"} {
		_, err := svc.HandleMessage(ctx, sessionId, turn)
		require.NoError(t, err)
	}

	require.Len(t, factory.store.orders, 1)
	order := factory.store.orders[0]
	require.Len(t, order.Items, 1)
	assert.Equal(t, 5, order.Items[0].Quantity)
	assert.Equal(t, order.Items[0].Price*5, order.TotalAmount)
}

func TestInvalidMainMenuInputReprompts(t *testing.T) {
	svc, _, _, factory := newConversationHarness(t)
	ctx := context.Background()

	_, err := svc.InitChat(ctx, "s")
	require.NoError(t, err)

	for _, input := range []string{"abc", "42", "-1"} {
		res, err := svc.HandleMessage(ctx, "s", input)
		require.NoError(t, err)
		assert.Contains(t, res.Response, "Please select a valid option")
		assert.Equal(t, entity.StepMainMenu, currentStep(t, factory, "s"))
	}
}

func TestInvalidQuantityReprompts(t *testing.T) {
	svc, _, _, factory := newConversationHarness(t)
	ctx := context.Background()

	_, err := svc.InitChat(ctx, "s")
	require.NoError(t, err)
	_, err = svc.HandleMessage(ctx, "s", "1")
	require.NoError(t, err)
	_, err = svc.HandleMessage(ctx, "s", "1")
	require.NoError(t, err)

	for _, input := range []string{"-1", "11", "abc"} {
		res, err := svc.HandleMessage(ctx, "s", input)
		require.NoError(t, err)
		assert.Contains(t, res.Response, "Please enter a valid quantity (1-10)")
		assert.Equal(t, entity.StepSelectingItem, currentStep(t, factory, "s"))
	}

	// 10 is the inclusive top of the range.
	res, err := svc.HandleMessage(ctx, "s", "10")
	require.NoError(t, err)
	assert.Contains(t, res.Response, "Added to Order!")
}

func TestZeroAtQuantityPromptIsCancelCommand(t *testing.T) {
	svc, _, _, factory := newConversationHarness(t)
	ctx := context.Background()

	_, err := svc.InitChat(ctx, "s")
	require.NoError(t, err)
	for _, turn := range []string{"1", "1"} {
		_, err := svc.HandleMessage(ctx, "s", turn)
		require.NoError(t, err)
	}
	require.Equal(t, entity.StepSelectingItem, currentStep(t, factory, "s"))

	// Global commands win over quantity parsing, and nothing has been
	// committed to an order yet.
	res, err := svc.HandleMessage(ctx, "s", "0")
	require.NoError(t, err)
	assert.Contains(t, res.Response, "No Order to Cancel")
	assert.NotContains(t, res.Response, "Please enter a valid quantity")
	assert.Empty(t, factory.store.orders)
}

func TestBackResetsToMainMenu(t *testing.T) {
	svc, _, _, factory := newConversationHarness(t)
	ctx := context.Background()

	_, err := svc.InitChat(ctx, "s")
	require.NoError(t, err)
	_, err = svc.HandleMessage(ctx, "s", "1")
	require.NoError(t, err)

	res, err := svc.HandleMessage(ctx, "s", "back")
	require.NoError(t, err)
	assert.Contains(t, res.Response, "Welcome to Our Restaurant!")
	assert.Equal(t, entity.StepMainMenu, currentStep(t, factory, "s"))
}

func TestCancelWithEmptyCart(t *testing.T) {
	svc, _, _, _ := newConversationHarness(t)
	ctx := context.Background()

	_, err := svc.InitChat(ctx, "s")
	require.NoError(t, err)

	res, err := svc.HandleMessage(ctx, "s", "0")
	require.NoError(t, err)
	assert.Contains(t, res.Response, "No Order to Cancel")
}

func TestCancelMidBrowseKeepsStep(t *testing.T) {
	svc, _, _, factory := newConversationHarness(t)
	ctx := context.Background()

	_, err := svc.InitChat(ctx, "s")
	require.NoError(t, err)

	// Build an order first, then go browsing again.
	for _, turn := range []string{"1", "1", "1", "1"} {
		_, err := svc.HandleMessage(ctx, "s", turn)
		require.NoError(t, err)
	}
	require.Equal(t, entity.StepBrowsingMenu, currentStep(t, factory, "s"))

	res, err := svc.HandleMessage(ctx, "s", "0")
	require.NoError(t, err)
	assert.Contains(t, res.Response, "Order Cancelled")
	assert.Equal(t, entity.StepBrowsingMenu, currentStep(t, factory, "s"))
	assert.Equal(t, entity.OrderStatusCancelled, factory.store.orders[0].Status)
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc, _, _, _ := newConversationHarness(t)
	ctx := context.Background()

	_, err := svc.InitChat(ctx, "s")
	require.NoError(t, err)

	res, err := svc.HandleMessage(ctx, "s", "99")
	require.NoError(t, err)
	assert.Contains(t, res.Response, "No Order to Checkout")
}

func TestCheckoutAsksForEmailThenCharges(t *testing.T) {
	svc, _, gateway, factory := newConversationHarness(t)
	ctx := context.Background()

	_, err := svc.InitChat(ctx, "s")
	require.NoError(t, err)
	for _, turn := range []string{"1", "1", "2"} {
		_, err := svc.HandleMessage(ctx, "s", turn)
		require.NoError(t, err)
	}

	res, err := svc.HandleMessage(ctx, "s", "99")
	require.NoError(t, err)
	assert.Contains(t, res.Response, "Email Needed for Checkout")
	assert.Equal(t, entity.StepAwaitingEmail, currentStep(t, factory, "s"))
	assert.Zero(t, gateway.initiations)

	res, err = svc.HandleMessage(ctx, "s", "not-an-email")
	require.NoError(t, err)
	assert.Contains(t, res.Response, "valid email address")

	res, err = svc.HandleMessage(ctx, "s", "Customer@Example.com")
	require.NoError(t, err)
	assert.Contains(t, res.Response, "Checkout Order")
	require.NotNil(t, res.PaymentData)
	assert.Equal(t, "customer@example.com", gateway.lastEmail)
	assert.Equal(t, 1, gateway.initiations)

	// The provider reference lands on the pending order.
	order := factory.store.orders[0]
	require.NotNil(t, order.PaymentReference)
	assert.Equal(t, "ref_"+order.OrderNumber, *order.PaymentReference)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
}

func TestCheckoutReusesStoredEmail(t *testing.T) {
	svc, _, gateway, _ := newConversationHarness(t)
	ctx := context.Background()

	_, err := svc.InitChat(ctx, "s")
	require.NoError(t, err)
	for _, turn := range []string{"1", "1", "2", "99", "buyer@example.com"} {
		_, err := svc.HandleMessage(ctx, "s", turn)
		require.NoError(t, err)
	}
	require.Equal(t, 1, gateway.initiations)

	// A later checkout skips the email step.
	for _, turn := range []string{"2", "1", "1"} {
		_, err := svc.HandleMessage(ctx, "s", turn)
		require.NoError(t, err)
	}
	res, err := svc.HandleMessage(ctx, "s", "99")
	require.NoError(t, err)
	assert.NotContains(t, res.Response, "Email Needed")
	assert.Equal(t, 2, gateway.initiations)
}

func TestCheckoutProviderFailureKeepsOrderPending(t *testing.T) {
	svc, _, gateway, factory := newConversationHarness(t)
	gateway.failCharge = true
	ctx := context.Background()

	_, err := svc.InitChat(ctx, "s")
	require.NoError(t, err)
	for _, turn := range []string{"1", "1", "2", "99"} {
		_, err := svc.HandleMessage(ctx, "s", turn)
		require.NoError(t, err)
	}

	res, err := svc.HandleMessage(ctx, "s", "payer@example.com")
	require.NoError(t, err)
	assert.Contains(t, res.Response, "Payment Could Not Be Started")
	assert.Nil(t, res.PaymentData)
	assert.Equal(t, entity.StepMainMenu, currentStep(t, factory, "s"))

	order := factory.store.orders[0]
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.Nil(t, order.PaymentReference)
}

func TestViewCurrentOrder(t *testing.T) {
	svc, _, _, _ := newConversationHarness(t)
	ctx := context.Background()

	_, err := svc.InitChat(ctx, "s")
	require.NoError(t, err)

	res, err := svc.HandleMessage(ctx, "s", "97")
	require.NoError(t, err)
	assert.Contains(t, res.Response, "Your cart is empty")

	for _, turn := range []string{"1", "1", "2"} {
		_, err := svc.HandleMessage(ctx, "s", turn)
		require.NoError(t, err)
	}

	res, err = svc.HandleMessage(ctx, "s", "97")
	require.NoError(t, err)
	assert.Contains(t, res.Response, "Your Current Order")
	assert.Contains(t, res.Response, "Qty: 2")
	assert.Contains(t, res.Response, "99 - Checkout this order")
}

func TestOrderHistoryShowsSettledOrdersOnly(t *testing.T) {
	svc, orderService, _, factory := newConversationHarness(t)
	ctx := context.Background()

	_, err := svc.InitChat(ctx, "s")
	require.NoError(t, err)

	res, err := svc.HandleMessage(ctx, "s", "98")
	require.NoError(t, err)
	assert.Contains(t, res.Response, "No Order History")

	for _, turn := range []string{"1", "1", "2"} {
		_, err := svc.HandleMessage(ctx, "s", turn)
		require.NoError(t, err)
	}

	// A pending order is not history.
	res, err = svc.HandleMessage(ctx, "s", "98")
	require.NoError(t, err)
	assert.Contains(t, res.Response, "No Order History")

	order, err := orderService.GetCurrentOrder(ctx, "s")
	require.NoError(t, err)
	ref := "ref_settled"
	require.NoError(t, orderService.CompleteOrder(ctx, order, &ref))
	assert.Equal(t, entity.OrderStatusPaid, factory.store.orders[0].Status)

	res, err = svc.HandleMessage(ctx, "s", "98")
	require.NoError(t, err)
	assert.Contains(t, res.Response, "Your Order History")
	assert.Contains(t, res.Response, order.OrderNumber)
}

func TestUnknownSessionAutoCreates(t *testing.T) {
	svc, _, _, factory := newConversationHarness(t)

	res, err := svc.HandleMessage(context.Background(), "fresh-session", "hello")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Len(t, factory.store.conversations, 1)
}
