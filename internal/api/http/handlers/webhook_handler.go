package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/service"
	"github.com/spec-kit/complaint-service/internal/whatsapp"
)

// WebhookHandler receives WhatsApp Cloud API callbacks.
type WebhookHandler struct {
	workflow    *service.WorkflowService
	sender      whatsapp.Sender
	verifyToken string
	logger      *zap.Logger
}

// NewWebhookHandler constructs handler.
func NewWebhookHandler(workflow *service.WorkflowService, sender whatsapp.Sender, cfg config.WhatsAppConfig, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		workflow:    workflow,
		sender:      sender,
		verifyToken: cfg.VerifyToken,
		logger:      logger,
	}
}

// Verify handles GET /webhook/whatsapp, the subscription handshake.
func (h *WebhookHandler) Verify(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if answer, ok := whatsapp.VerifyHandshake(mode, token, challenge, h.verifyToken); ok {
		return c.SendString(answer)
	}
	return c.SendStatus(http.StatusForbidden)
}

// Receive handles POST /webhook/whatsapp. The provider retries any
// non-2xx response, so processing failures are logged and acknowledged.
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	var payload whatsapp.WebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		h.logger.Warn("unparseable webhook payload", zap.Error(err))
		return c.JSON(fiber.Map{"status": "ignored"})
	}

	inbound := whatsapp.ParseInbound(payload)
	if inbound == nil {
		return c.JSON(fiber.Map{"status": "ignored"})
	}

	ctx := c.UserContext()
	if err := h.sender.MarkAsRead(ctx, inbound.MessageID); err != nil {
		h.logger.Debug("mark-as-read failed", zap.Error(err))
	}

	reply, err := h.workflow.HandleMessage(ctx, *inbound)
	if err != nil {
		h.logger.Error("failed to process inbound message",
			zap.String("phone", inbound.From), zap.Error(err))
		return c.JSON(fiber.Map{"status": "error"})
	}

	if err := h.sender.SendText(ctx, inbound.From, reply.Text); err != nil {
		h.logger.Error("failed to deliver reply",
			zap.String("phone", inbound.From), zap.Error(err))
	}

	return c.JSON(fiber.Map{"status": "processed"})
}
