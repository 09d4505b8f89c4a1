package domain

import "time"

// MessageDirection marks whether a message was received or sent.
type MessageDirection string

const (
	DirectionInbound  MessageDirection = "INBOUND"
	DirectionOutbound MessageDirection = "OUTBOUND"
)

// MessageType distinguishes plain text from media payloads.
type MessageType string

const (
	MessageTypeText  MessageType = "TEXT"
	MessageTypeImage MessageType = "IMAGE"
)

// Message is one entry of the per-customer conversation history.
type Message struct {
	ID            string
	CustomerPhone string
	TicketID      *string
	Direction     MessageDirection
	MessageType   MessageType
	Body          string
	MediaID       *string
	CreatedAt     time.Time
}
