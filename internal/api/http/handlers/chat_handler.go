package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/service"
	"github.com/spec-kit/complaint-service/internal/whatsapp"
)

// ChatHandler drives the conversation directly, bypassing WhatsApp.
// Useful for local testing and the dashboard simulator.
type ChatHandler struct {
	workflow *service.WorkflowService
}

// NewChatHandler constructs handler.
func NewChatHandler(workflow *service.WorkflowService) *ChatHandler {
	return &ChatHandler{workflow: workflow}
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Phone == "" {
		return fiber.NewError(http.StatusBadRequest, "phone required")
	}

	inbound := whatsapp.InboundMessage{
		From: req.Phone,
		Type: "text",
		Text: req.Message,
	}
	if req.MediaID != "" {
		inbound.Type = "image"
		inbound.Attachments = []domain.MediaRef{{ID: req.MediaID}}
	}

	reply, err := h.workflow.HandleMessage(c.UserContext(), inbound)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ChatResponse{
		Reply:    reply.Text,
		Language: reply.Language,
		State:    reply.State,
	}})
}

// Messages handles GET /api/messages/:phone.
func (h *ChatHandler) Messages(c *fiber.Ctx) error {
	phone := c.Params("phone")
	limit := parseIntQuery(c, "limit", 50)

	msgs, err := h.workflow.ConversationHistory(c.UserContext(), phone, limit)
	if err != nil {
		return err
	}
	resp := make([]dto.MessageResponse, 0, len(msgs))
	for i := range msgs {
		resp = append(resp, dto.MessageResponse{
			ID:          msgs[i].ID,
			Direction:   msgs[i].Direction,
			MessageType: msgs[i].MessageType,
			Body:        msgs[i].Body,
			MediaID:     msgs[i].MediaID,
			CreatedAt:   msgs[i].CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Customer handles GET /api/customers/:phone.
func (h *ChatHandler) Customer(c *fiber.Ctx) error {
	customer, err := h.workflow.GetCustomer(c.UserContext(), c.Params("phone"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CustomerResponse{
		ID:        customer.ID,
		Phone:     customer.Phone,
		Name:      customer.Name,
		Language:  customer.Language,
		CreatedAt: customer.CreatedAt,
	}})
}
