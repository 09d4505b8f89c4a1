package whatsapp

import (
	"github.com/spec-kit/complaint-service/internal/domain"
)

// WebhookPayload mirrors the Cloud API webhook envelope. Only the fields the
// workflow needs are mapped.
type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

type ChangeValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Contacts         []Contact        `json:"contacts"`
	Messages         []WebhookMessage `json:"messages"`
}

type Contact struct {
	WaID    string  `json:"wa_id"`
	Profile Profile `json:"profile"`
}

type Profile struct {
	Name string `json:"name"`
}

type WebhookMessage struct {
	ID          string       `json:"id"`
	From        string       `json:"from"`
	Timestamp   string       `json:"timestamp"`
	Type        string       `json:"type"`
	Text        *TextContent `json:"text,omitempty"`
	Image       *Media       `json:"image,omitempty"`
	Document    *Media       `json:"document,omitempty"`
	Interactive *Interactive `json:"interactive,omitempty"`
}

type TextContent struct {
	Body string `json:"body"`
}

type Media struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type"`
	Caption  string `json:"caption"`
	Filename string `json:"filename,omitempty"`
}

type Interactive struct {
	Type        string       `json:"type"`
	ButtonReply *ReplyOption `json:"button_reply,omitempty"`
	ListReply   *ReplyOption `json:"list_reply,omitempty"`
}

type ReplyOption struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// InboundMessage is the flattened form handed to the workflow.
type InboundMessage struct {
	MessageID   string
	From        string
	ContactName string
	Type        string
	Text        string
	Attachments []domain.MediaRef
}

// VerifyHandshake answers the subscription challenge Meta sends when the
// webhook URL is registered.
func VerifyHandshake(mode, token, challenge, verifyToken string) (string, bool) {
	if mode == "subscribe" && token == verifyToken {
		return challenge, true
	}
	return "", false
}

// ParseInbound extracts the first customer message from a webhook payload.
// Status-only notifications return nil.
func ParseInbound(payload WebhookPayload) *InboundMessage {
	if len(payload.Entry) == 0 {
		return nil
	}
	for _, change := range payload.Entry[0].Changes {
		value := change.Value
		if len(value.Messages) == 0 {
			continue
		}
		msg := value.Messages[0]

		inbound := &InboundMessage{
			MessageID: msg.ID,
			From:      msg.From,
			Type:      msg.Type,
		}
		if len(value.Contacts) > 0 {
			inbound.ContactName = value.Contacts[0].Profile.Name
		}

		switch msg.Type {
		case "text":
			if msg.Text != nil {
				inbound.Text = msg.Text.Body
			}
		case "image":
			if msg.Image != nil {
				inbound.Text = msg.Image.Caption
				inbound.Attachments = append(inbound.Attachments, domain.MediaRef{
					ID:       msg.Image.ID,
					MimeType: msg.Image.MimeType,
					Caption:  msg.Image.Caption,
				})
			}
		case "document":
			if msg.Document != nil {
				inbound.Text = msg.Document.Caption
				inbound.Attachments = append(inbound.Attachments, domain.MediaRef{
					ID:       msg.Document.ID,
					MimeType: msg.Document.MimeType,
					Caption:  msg.Document.Caption,
				})
			}
		case "interactive":
			if msg.Interactive != nil {
				if msg.Interactive.ButtonReply != nil {
					inbound.Text = msg.Interactive.ButtonReply.Title
				} else if msg.Interactive.ListReply != nil {
					inbound.Text = msg.Interactive.ListReply.Title
				}
			}
		}

		return inbound
	}
	return nil
}
