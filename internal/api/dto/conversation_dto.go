package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// ChatRequest feeds the conversation without going through WhatsApp,
// for local testing and dashboard simulation.
type ChatRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
	// MediaID optionally simulates a photo attachment.
	MediaID string `json:"media_id,omitempty"`
}

// ChatResponse returns the rendered reply.
type ChatResponse struct {
	Reply    string                   `json:"reply"`
	Language domain.Language          `json:"language"`
	State    domain.ConversationState `json:"state"`
}

// MessageResponse is one history entry.
type MessageResponse struct {
	ID          string                  `json:"id"`
	Direction   domain.MessageDirection `json:"direction"`
	MessageType domain.MessageType      `json:"message_type"`
	Body        string                  `json:"body"`
	MediaID     *string                 `json:"media_id,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
}

// CustomerResponse is the customer profile.
type CustomerResponse struct {
	ID        string          `json:"id"`
	Phone     string          `json:"phone"`
	Name      *string         `json:"name,omitempty"`
	Language  domain.Language `json:"language"`
	CreatedAt time.Time       `json:"created_at"`
}
