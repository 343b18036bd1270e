package controller

import (
	"chowbot-be/internal/dto"
	"chowbot-be/internal/pkg/logger"
	"chowbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Init(ctx *fiber.Ctx) error
	Message(ctx *fiber.Ctx) error
	CheckPayment(ctx *fiber.Ctx) error
}

type chatController struct {
	conversationService service.IConversationService
	paymentService      service.IPaymentService
	log                 logger.ILogger
}

func NewChatController(
	conversationService service.IConversationService,
	paymentService service.IPaymentService,
	log logger.ILogger,
) IChatController {
	return &chatController{
		conversationService: conversationService,
		paymentService:      paymentService,
		log:                 log,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Post("/init", c.Init)
	h.Post("", c.Message)
	h.Post("/check-payment", c.CheckPayment)
}

func (c *chatController) Init(ctx *fiber.Ctx) error {
	var req dto.InitChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if req.SessionId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Session ID is required")
	}

	res, err := c.conversationService.InitChat(ctx.Context(), req.SessionId)
	if err != nil {
		c.log.Error("chat", "Init failed", map[string]interface{}{
			"session_id": req.SessionId,
			"error":      err.Error(),
		})
		return err
	}
	return ctx.JSON(res)
}

func (c *chatController) Message(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if req.Message == "" || req.SessionId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Message and session ID are required")
	}

	res, err := c.conversationService.HandleMessage(ctx.Context(), req.SessionId, req.Message)
	if err != nil {
		c.log.Error("chat", "Turn failed", map[string]interface{}{
			"session_id": req.SessionId,
			"error":      err.Error(),
		})
		return err
	}
	return ctx.JSON(res)
}

func (c *chatController) CheckPayment(ctx *fiber.Ctx) error {
	var req dto.CheckPaymentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if req.Reference == "" || req.SessionId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Reference and session ID are required")
	}

	res, err := c.paymentService.CheckPaymentStatus(ctx.Context(), req.SessionId, req.Reference)
	if err != nil {
		c.log.Error("chat", "Payment check failed", map[string]interface{}{
			"session_id": req.SessionId,
			"reference":  req.Reference,
			"error":      err.Error(),
		})
		return err
	}
	return ctx.JSON(res)
}
