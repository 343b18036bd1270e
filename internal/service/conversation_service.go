package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"chowbot-be/internal/catalog"
	"chowbot-be/internal/dto"
	"chowbot-be/internal/entity"
	"chowbot-be/internal/pkg/logger"
	"chowbot-be/internal/repository/memory"
	"chowbot-be/internal/repository/specification"
	"chowbot-be/internal/repository/unitofwork"
)

const (
	minQuantity = 1
	maxQuantity = 10
)

// Matches local-part@domain.tld, nothing fancier. Checkout only needs an
// address the provider will accept.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type IConversationService interface {
	InitChat(ctx context.Context, sessionId string) (*dto.ChatResponse, error)
	HandleMessage(ctx context.Context, sessionId, message string) (*dto.ChatResponse, error)
}

type conversationService struct {
	uowFactory     unitofwork.RepositoryFactory
	catalog        *catalog.Catalog
	orderService   IOrderService
	paymentService IPaymentService
	turnLocks      *memory.TurnLockRegistry
	log            logger.ILogger
}

func NewConversationService(
	uowFactory unitofwork.RepositoryFactory,
	cat *catalog.Catalog,
	orderService IOrderService,
	paymentService IPaymentService,
	turnLocks *memory.TurnLockRegistry,
	log logger.ILogger,
) IConversationService {
	return &conversationService{
		uowFactory:     uowFactory,
		catalog:        cat,
		orderService:   orderService,
		paymentService: paymentService,
		turnLocks:      turnLocks,
		log:            log,
	}
}

// InitChat idempotently creates-or-fetches the conversation and returns the
// welcome menu.
func (s *conversationService) InitChat(ctx context.Context, sessionId string) (*dto.ChatResponse, error) {
	if _, err := s.findOrCreate(ctx, sessionId); err != nil {
		return nil, err
	}
	return &dto.ChatResponse{
		Success:  true,
		Response: s.catalog.RenderMainMenu(),
	}, nil
}

// HandleMessage drives the state machine one turn. Turns for the same
// session are serialized in-process; the storage layer additionally protects
// the order read-modify-write with a row lock.
func (s *conversationService) HandleMessage(ctx context.Context, sessionId, message string) (*dto.ChatResponse, error) {
	release := s.turnLocks.Acquire(sessionId)
	defer release()

	conv, err := s.findOrCreate(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	input := strings.TrimSpace(message)

	// Global commands win over step-local parsing from every state.
	switch strings.ToLower(input) {
	case "0":
		return s.handleCancelOrder(ctx, conv)
	case "97":
		return s.handleCurrentOrder(ctx, conv)
	case "98":
		return s.handleOrderHistory(ctx, conv)
	case "99":
		return s.handleCheckout(ctx, conv)
	case "back", "menu":
		return s.handleBackToMainMenu(ctx, conv)
	}

	switch conv.CurrentStep {
	case entity.StepMainMenu:
		return s.handleMainMenu(ctx, conv, input)
	case entity.StepBrowsingMenu:
		return s.handleMenuBrowsing(ctx, conv, input)
	case entity.StepSelectingItem:
		return s.handleQuantitySelection(ctx, conv, input)
	case entity.StepAwaitingEmail:
		return s.handleAwaitingEmail(ctx, conv, input)
	default:
		// Unknown persisted step: recover by resetting.
		return s.handleBackToMainMenu(ctx, conv)
	}
}

// findOrCreate loads the conversation for the session, creating it on first
// contact. The device id follows the latest request and the activity clock
// is stamped on every turn.
func (s *conversationService) findOrCreate(ctx context.Context, sessionId string) (*entity.Conversation, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ConversationRepository()

	conv, err := repo.FindOne(ctx, specification.BySessionId{SessionId: sessionId})
	if err != nil {
		return nil, err
	}

	if conv == nil {
		conv = &entity.Conversation{
			SessionId:    sessionId,
			DeviceId:     sessionId,
			CurrentStep:  entity.StepMainMenu,
			IsActive:     true,
			LastActivity: time.Now(),
		}
		if err := repo.Create(ctx, conv); err != nil {
			return nil, err
		}
		return conv, nil
	}

	conv.DeviceId = sessionId
	conv.IsActive = true
	conv.LastActivity = time.Now()
	if err := repo.Update(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *conversationService) save(ctx context.Context, conv *entity.Conversation) error {
	conv.LastActivity = time.Now()
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ConversationRepository().Update(ctx, conv)
}

func reply(text string) *dto.ChatResponse {
	return &dto.ChatResponse{Success: true, Response: text}
}

func (s *conversationService) handleMainMenu(ctx context.Context, conv *entity.Conversation, input string) (*dto.ChatResponse, error) {
	categories := s.catalog.ListCategories()

	choice, err := strconv.Atoi(input)
	if err != nil || choice < 1 || choice > len(categories) {
		return reply(fmt.Sprintf(
			"Please select a valid option (1-%d, 0, 97, 98, or 99):\n\n%s",
			len(categories), s.catalog.RenderMainMenu())), nil
	}

	selected := categories[choice-1]
	conv.CurrentStep = entity.StepBrowsingMenu
	conv.CurrentCategory = &selected.Id
	if err := s.save(ctx, conv); err != nil {
		return nil, err
	}

	menu, _ := s.catalog.RenderCategoryMenu(selected.Id)
	return reply(menu), nil
}

func (s *conversationService) handleMenuBrowsing(ctx context.Context, conv *entity.Conversation, input string) (*dto.ChatResponse, error) {
	if conv.CurrentCategory == nil {
		return s.handleBackToMainMenu(ctx, conv)
	}
	items, ok := s.catalog.ListItemsIn(*conv.CurrentCategory)
	if !ok {
		// Stale category reference: recover silently.
		return s.handleBackToMainMenu(ctx, conv)
	}

	choice, err := strconv.Atoi(input)
	if err != nil || choice < 1 || choice > len(items) {
		menu, _ := s.catalog.RenderCategoryMenu(*conv.CurrentCategory)
		return reply(fmt.Sprintf(
			"Please select a valid item number (1-%d) or type 'back':\n\n%s",
			len(items), menu)), nil
	}

	item, _ := s.catalog.ResolveSelection(*conv.CurrentCategory, choice)
	conv.CurrentStep = entity.StepSelectingItem
	conv.SelectedItem = &entity.SelectedItem{
		ItemId:      item.Id,
		Name:        item.Name,
		Price:       item.Price,
		Description: item.Description,
		Category:    item.Category,
	}
	if err := s.save(ctx, conv); err != nil {
		return nil, err
	}

	return reply(fmt.Sprintf(
		"✅ *%s* - %s\n\n%s\n\nHow many would you like to add to your order?\nEnter quantity (1-10) or type 'back' to choose another item.",
		item.Name, catalog.FormatPrice(item.Price), item.Description)), nil
}

func (s *conversationService) handleQuantitySelection(ctx context.Context, conv *entity.Conversation, input string) (*dto.ChatResponse, error) {
	if conv.SelectedItem == nil {
		// Lost the snapshot (stale state): recover silently.
		return s.handleBackToMainMenu(ctx, conv)
	}

	quantity, err := strconv.Atoi(input)
	if err != nil || quantity < minQuantity || quantity > maxQuantity {
		return reply("Please enter a valid quantity (1-10) or type 'back':"), nil
	}

	snapshot := conv.SelectedItem
	order, err := s.orderService.AddItemToOrder(ctx, conv.SessionId, conv.DeviceId, entity.OrderItem{
		ItemId:   snapshot.ItemId,
		Name:     snapshot.Name,
		Price:    snapshot.Price,
		Quantity: quantity,
		Category: snapshot.Category,
	})
	if err != nil {
		return nil, err
	}

	conv.ResetToMainMenu()
	if err := s.save(ctx, conv); err != nil {
		return nil, err
	}

	subtotal := snapshot.Price * int64(quantity)
	return reply(fmt.Sprintf(
		"🎉 *Added to Order!*\n\n%dx %s - %s each\nSubtotal: %s\n\n*Current Order Total: %s*\n\nWhat would you like to do next?\n\n%s",
		quantity, snapshot.Name, catalog.FormatPrice(snapshot.Price),
		catalog.FormatPrice(subtotal), catalog.FormatPrice(order.TotalAmount),
		s.catalog.RenderMainMenu())), nil
}

func (s *conversationService) handleAwaitingEmail(ctx context.Context, conv *entity.Conversation, input string) (*dto.ChatResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input))
	if !emailPattern.MatchString(email) {
		return reply("❌ Please enter a valid email address (e.g. name@example.com):"), nil
	}

	conv.CustomerEmail = &email
	conv.CurrentStep = entity.StepMainMenu
	if err := s.save(ctx, conv); err != nil {
		return nil, err
	}

	// Email was the only thing blocking checkout; resume it immediately.
	return s.handleCheckout(ctx, conv)
}

func (s *conversationService) handleCheckout(ctx context.Context, conv *entity.Conversation) (*dto.ChatResponse, error) {
	order, err := s.orderService.GetCurrentOrder(ctx, conv.SessionId)
	if err != nil {
		return nil, err
	}
	if order == nil || order.IsEmpty() {
		return reply(fmt.Sprintf(
			"❌ *No Order to Checkout*\n\nYour cart is empty. Add some items first!\n\n%s",
			s.catalog.RenderMainMenu())), nil
	}

	if conv.CustomerEmail == nil {
		conv.CurrentStep = entity.StepAwaitingEmail
		if err := s.save(ctx, conv); err != nil {
			return nil, err
		}
		return reply("📧 *Email Needed for Checkout*\n\nPlease enter your email address so we can send your receipt:"), nil
	}

	paymentData, err := s.paymentService.InitiateCharge(ctx, *conv.CustomerEmail, order)
	if err != nil {
		s.log.Error("conversation", "Charge initiation failed", map[string]interface{}{
			"session_id":   conv.SessionId,
			"order_number": order.OrderNumber,
			"error":        err.Error(),
		})
		conv.ResetToMainMenu()
		if saveErr := s.save(ctx, conv); saveErr != nil {
			return nil, saveErr
		}
		// The order stays pending so the customer can retry with 99.
		return reply(fmt.Sprintf(
			"❌ *Payment Could Not Be Started*\n\nPlease try again in a moment (type 99).\n\n%s",
			s.catalog.RenderMainMenu())), nil
	}

	if err := s.orderService.AttachPaymentReference(ctx, order, paymentData.Reference); err != nil {
		return nil, err
	}

	var summary strings.Builder
	fmt.Fprintf(&summary, "💳 *Checkout Order %s*\n\n", order.OrderNumber)
	for _, item := range order.Items {
		lineTotal := item.Price * int64(item.Quantity)
		fmt.Fprintf(&summary, "• %dx %s - %s\n", item.Quantity, item.Name, catalog.FormatPrice(lineTotal))
	}
	fmt.Fprintf(&summary, "\n*Total: %s*\n\n", catalog.FormatPrice(order.TotalAmount))
	summary.WriteString("A secure payment window will open to complete your payment.")

	return &dto.ChatResponse{
		Success:     true,
		Response:    summary.String(),
		PaymentData: paymentData,
	}, nil
}

// handleCancelOrder deliberately leaves the conversation step untouched, the
// same as the 97/98 views, so a cancel mid-browse keeps the browse context.
func (s *conversationService) handleCancelOrder(ctx context.Context, conv *entity.Conversation) (*dto.ChatResponse, error) {
	order, err := s.orderService.GetCurrentOrder(ctx, conv.SessionId)
	if err != nil {
		return nil, err
	}
	if order == nil || order.IsEmpty() {
		return reply(fmt.Sprintf(
			"❌ *No Order to Cancel*\n\nYour cart is already empty.\n\n%s",
			s.catalog.RenderMainMenu())), nil
	}

	if err := s.orderService.CancelOrder(ctx, order); err != nil {
		return nil, err
	}

	return reply(fmt.Sprintf(
		"✅ *Order Cancelled*\n\nYour current order has been cancelled.\n\nWould you like to start a new order?\n\n%s",
		s.catalog.RenderMainMenu())), nil
}

func (s *conversationService) handleCurrentOrder(ctx context.Context, conv *entity.Conversation) (*dto.ChatResponse, error) {
	order, err := s.orderService.GetCurrentOrder(ctx, conv.SessionId)
	if err != nil {
		return nil, err
	}
	if order == nil || order.IsEmpty() {
		return reply(fmt.Sprintf(
			"🛒 *Your cart is empty*\n\nStart by selecting a category to add items:\n\n%s",
			s.catalog.RenderMainMenu())), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🛒 *Your Current Order* (%s)\n\n", order.OrderNumber)
	for i, item := range order.Items {
		lineTotal := item.Price * int64(item.Quantity)
		fmt.Fprintf(&b, "%d. %s\n", i+1, item.Name)
		fmt.Fprintf(&b, "   Qty: %d × %s = %s\n\n", item.Quantity,
			catalog.FormatPrice(item.Price), catalog.FormatPrice(lineTotal))
	}
	fmt.Fprintf(&b, "*Total: %s*\n\n", catalog.FormatPrice(order.TotalAmount))
	b.WriteString("Options:\n")
	b.WriteString("99 - Checkout this order\n")
	b.WriteString("0 - Cancel this order\n")
	b.WriteString("Or select a category to add more items")

	return reply(b.String()), nil
}

func (s *conversationService) handleOrderHistory(ctx context.Context, conv *entity.Conversation) (*dto.ChatResponse, error) {
	history, err := s.orderService.GetOrderHistory(ctx, conv.SessionId)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return reply(fmt.Sprintf(
			"📋 *No Order History*\n\nYou haven't completed any orders yet.\n\n%s",
			s.catalog.RenderMainMenu())), nil
	}

	var b strings.Builder
	b.WriteString("📋 *Your Order History*\n\n")
	for i, order := range history {
		fmt.Fprintf(&b, "%d. Order %s\n", i+1, order.OrderNumber)
		fmt.Fprintf(&b, "   Date: %s\n", order.CreatedAt.Format("1/2/2006"))
		fmt.Fprintf(&b, "   Items: %d\n", len(order.Items))
		fmt.Fprintf(&b, "   Total: %s\n", catalog.FormatPrice(order.TotalAmount))
		fmt.Fprintf(&b, "   Status: %s\n\n", order.Status)
	}
	b.WriteString("Type any number to continue ordering:\n\n")
	b.WriteString(s.catalog.RenderMainMenu())

	return reply(b.String()), nil
}

func (s *conversationService) handleBackToMainMenu(ctx context.Context, conv *entity.Conversation) (*dto.ChatResponse, error) {
	conv.ResetToMainMenu()
	if err := s.save(ctx, conv); err != nil {
		return nil, err
	}
	return reply(s.catalog.RenderMainMenu()), nil
}
