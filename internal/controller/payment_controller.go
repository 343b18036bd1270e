package controller

import (
	"errors"

	"chowbot-be/internal/pkg/logger"
	"chowbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const signatureHeader = "x-paystack-signature"

type IPaymentController interface {
	RegisterRoutes(r fiber.Router)
	Webhook(ctx *fiber.Ctx) error
}

type paymentController struct {
	paymentService service.IPaymentService
	log            logger.ILogger
}

func NewPaymentController(paymentService service.IPaymentService, log logger.ILogger) IPaymentController {
	return &paymentController{paymentService: paymentService, log: log}
}

func (c *paymentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/webhooks")
	h.Post("/paystack", c.Webhook)
}

// Webhook acknowledges with 200 for every authenticated delivery, including
// ones we discard, so the provider stops retrying. Only a bad signature gets
// a 401.
func (c *paymentController) Webhook(ctx *fiber.Ctx) error {
	signature := ctx.Get(signatureHeader)
	rawBody := ctx.Body()

	err := c.paymentService.HandleWebhook(ctx.Context(), signature, rawBody)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSignature) {
			c.log.Warn("payment", "Webhook signature rejected", map[string]interface{}{
				"ip": ctx.IP(),
			})
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "fail",
				"message": "invalid signature",
			})
		}
		c.log.Error("payment", "Webhook processing failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"status": "success"})
}
