package whatsapp

import (
	"encoding/json"
	"testing"
)

func TestVerifyHandshake(t *testing.T) {
	cases := []struct {
		name          string
		mode          string
		token         string
		wantChallenge string
		wantOK        bool
	}{
		{"valid subscription", "subscribe", "secret", "12345", true},
		{"wrong token", "subscribe", "guess", "", false},
		{"wrong mode", "unsubscribe", "secret", "", false},
		{"empty request", "", "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			challenge, ok := VerifyHandshake(tc.mode, tc.token, "12345", "secret")
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if challenge != tc.wantChallenge {
				t.Errorf("challenge = %q, want %q", challenge, tc.wantChallenge)
			}
		})
	}
}

func decodePayload(t *testing.T, raw string) WebhookPayload {
	t.Helper()
	var payload WebhookPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	return payload
}

func TestParseInboundText(t *testing.T) {
	payload := decodePayload(t, `{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "entry-1",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"contacts": [{"wa_id": "201001234567", "profile": {"name": "Mona"}}],
					"messages": [{
						"id": "wamid.abc",
						"from": "201001234567",
						"timestamp": "1709985600",
						"type": "text",
						"text": {"body": "hello"}
					}]
				}
			}]
		}]
	}`)

	inbound := ParseInbound(payload)
	if inbound == nil {
		t.Fatal("ParseInbound returned nil")
	}
	if inbound.MessageID != "wamid.abc" {
		t.Errorf("message id = %q", inbound.MessageID)
	}
	if inbound.From != "201001234567" {
		t.Errorf("from = %q", inbound.From)
	}
	if inbound.ContactName != "Mona" {
		t.Errorf("contact name = %q", inbound.ContactName)
	}
	if inbound.Type != "text" || inbound.Text != "hello" {
		t.Errorf("type=%q text=%q", inbound.Type, inbound.Text)
	}
	if len(inbound.Attachments) != 0 {
		t.Errorf("attachments = %d, want 0", len(inbound.Attachments))
	}
}

func TestParseInboundImage(t *testing.T) {
	payload := decodePayload(t, `{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "entry-1",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"messages": [{
						"id": "wamid.img",
						"from": "201001234567",
						"type": "image",
						"image": {"id": "media-55", "mime_type": "image/jpeg", "caption": "the damage"}
					}]
				}
			}]
		}]
	}`)

	inbound := ParseInbound(payload)
	if inbound == nil {
		t.Fatal("ParseInbound returned nil")
	}
	if inbound.Type != "image" {
		t.Errorf("type = %q", inbound.Type)
	}
	if inbound.Text != "the damage" {
		t.Errorf("text = %q, want caption", inbound.Text)
	}
	if len(inbound.Attachments) != 1 {
		t.Fatalf("attachments = %d, want 1", len(inbound.Attachments))
	}
	ref := inbound.Attachments[0]
	if ref.ID != "media-55" || ref.MimeType != "image/jpeg" || ref.Caption != "the damage" {
		t.Errorf("attachment = %+v", ref)
	}
}

func TestParseInboundInteractive(t *testing.T) {
	payload := decodePayload(t, `{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "entry-1",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"messages": [{
						"id": "wamid.btn",
						"from": "201001234567",
						"type": "interactive",
						"interactive": {
							"type": "button_reply",
							"button_reply": {"id": "opt-1", "title": "File complaint"}
						}
					}]
				}
			}]
		}]
	}`)

	inbound := ParseInbound(payload)
	if inbound == nil {
		t.Fatal("ParseInbound returned nil")
	}
	if inbound.Text != "File complaint" {
		t.Errorf("text = %q, want button title", inbound.Text)
	}
}

func TestParseInboundStatusOnly(t *testing.T) {
	payload := decodePayload(t, `{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "entry-1",
			"changes": [{
				"field": "messages",
				"value": {"messaging_product": "whatsapp"}
			}]
		}]
	}`)
	if inbound := ParseInbound(payload); inbound != nil {
		t.Errorf("inbound = %+v, want nil for status-only payload", inbound)
	}

	if inbound := ParseInbound(WebhookPayload{}); inbound != nil {
		t.Errorf("inbound = %+v, want nil for empty payload", inbound)
	}
}
