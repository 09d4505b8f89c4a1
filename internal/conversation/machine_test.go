package conversation

import (
	"testing"
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

func newTestSession(state domain.ConversationState, draft domain.Draft) domain.Session {
	sess := domain.NewSession("201000000001", domain.LanguageEnglish, time.Now())
	sess.State = state
	sess.Draft = draft
	return *sess
}

// The full happy path: greeting, menu choice, product, issue, photo skip,
// confirmation. Exactly one ticket-creation effect fires, carrying the
// accumulated draft, and the conversation lands back in idle.
func TestFullComplaintFlow(t *testing.T) {
	m := NewMachine()
	c := NewClassifier(true)
	sess := newTestSession(domain.StateIdle, domain.Draft{})

	step := func(text string, attachments []domain.MediaRef) Outcome {
		in := Inbound{Text: text, Attachments: attachments}
		out := m.Step(sess, c.Classify(sess.State, in), in)
		sess.State = out.Next
		sess.Draft = out.Draft
		sess.Language = out.Language
		return out
	}

	out := step("hello", nil)
	if out.Next != domain.StateAwaitingMenuChoice || out.Reply != KeyWelcome {
		t.Fatalf("greeting: next=%v reply=%v", out.Next, out.Reply)
	}

	out = step("1", nil)
	if out.Next != domain.StateAwaitingProduct || out.Reply != KeyAskProduct {
		t.Fatalf("menu 1: next=%v reply=%v", out.Next, out.Reply)
	}

	out = step("exterior paint", nil)
	if out.Next != domain.StateAwaitingIssue {
		t.Fatalf("product: next=%v", out.Next)
	}

	out = step("the paint is too thick", nil)
	if out.Next != domain.StateAwaitingPhoto {
		t.Fatalf("issue: next=%v", out.Next)
	}

	out = step("", []domain.MediaRef{{ID: "media-9"}})
	if out.Next != domain.StateAwaitingConfirmation || out.Reply != KeyConfirmSummary {
		t.Fatalf("photo: next=%v reply=%v", out.Next, out.Reply)
	}
	if out.Params["product"] != "exterior paint" || out.Params["issue"] != "the paint is too thick" {
		t.Fatalf("summary params = %v", out.Params)
	}

	out = step("yes", nil)
	if out.Effect.Kind != EffectCreateTicket {
		t.Fatalf("confirm: effect=%v, want EffectCreateTicket", out.Effect.Kind)
	}
	if out.Effect.Draft.Product != "exterior paint" || out.Effect.Draft.Issue != "the paint is too thick" {
		t.Fatalf("effect draft = %+v", out.Effect.Draft)
	}
	if len(out.Effect.Draft.Photos) != 1 || out.Effect.Draft.Photos[0] != "media-9" {
		t.Fatalf("effect photos = %v", out.Effect.Draft.Photos)
	}
	if out.Next != domain.StateIdle || out.Reply != KeyTicketCreated {
		t.Fatalf("confirm: next=%v reply=%v", out.Next, out.Reply)
	}
	if !out.Draft.Empty() {
		t.Fatalf("draft not cleared after creation: %+v", out.Draft)
	}
}

// Unknown input never moves the conversation and never fires an effect.
func TestInvalidInputReprompts(t *testing.T) {
	m := NewMachine()

	tests := []struct {
		state domain.ConversationState
		reply TemplateKey
	}{
		{domain.StateAwaitingMenuChoice, KeyUnknown},
		{domain.StateAwaitingPhoto, KeyAskPhotos},
		{domain.StateAwaitingConfirmation, KeyConfirmPrompt},
	}
	for _, tt := range tests {
		sess := newTestSession(tt.state, domain.Draft{Product: "paint"})
		out := m.Step(sess, Intent{Kind: IntentInvalid}, Inbound{})
		if out.Next != tt.state {
			t.Errorf("state %v: moved to %v on invalid input", tt.state, out.Next)
		}
		if out.Effect.Kind != EffectNone {
			t.Errorf("state %v: effect %v on invalid input", tt.state, out.Effect.Kind)
		}
		if out.Reply != tt.reply {
			t.Errorf("state %v: reply %v, want %v", tt.state, out.Reply, tt.reply)
		}
		if out.Draft.Product != sess.Draft.Product || out.Draft.Issue != sess.Draft.Issue {
			t.Errorf("state %v: draft changed on invalid input", tt.state)
		}
	}
}

func TestCancelDiscardsDraft(t *testing.T) {
	m := NewMachine()
	states := []domain.ConversationState{
		domain.StateAwaitingProduct,
		domain.StateAwaitingIssue,
		domain.StateAwaitingPhoto,
		domain.StateAwaitingConfirmation,
	}
	for _, state := range states {
		sess := newTestSession(state, domain.Draft{Product: "paint", Issue: "too thick"})
		out := m.Step(sess, Intent{Kind: IntentCancel}, Inbound{})
		if out.Next != domain.StateIdle {
			t.Errorf("cancel in %v: next=%v", state, out.Next)
		}
		if !out.Draft.Empty() {
			t.Errorf("cancel in %v: draft kept %+v", state, out.Draft)
		}
		if out.Reply != KeyCancelled {
			t.Errorf("cancel in %v: reply=%v", state, out.Reply)
		}
	}
}

func TestConfirmNoRestartsCollection(t *testing.T) {
	m := NewMachine()
	sess := newTestSession(domain.StateAwaitingConfirmation, domain.Draft{Product: "paint", Issue: "separated"})

	out := m.Step(sess, Intent{Kind: IntentConfirmNo}, Inbound{})
	if out.Next != domain.StateAwaitingProduct {
		t.Fatalf("next=%v, want AwaitingProduct", out.Next)
	}
	if !out.Draft.Empty() {
		t.Fatalf("draft kept after rejection: %+v", out.Draft)
	}
	if out.Reply != KeyRestart {
		t.Fatalf("reply=%v, want KeyRestart", out.Reply)
	}
}

// A confirm against a hole in the draft re-prompts for the missing field
// instead of creating a partial ticket.
func TestConfirmWithMissingFieldReprompts(t *testing.T) {
	m := NewMachine()

	sess := newTestSession(domain.StateAwaitingConfirmation, domain.Draft{Issue: "separated"})
	out := m.Step(sess, Intent{Kind: IntentConfirmYes}, Inbound{})
	if out.Effect.Kind != EffectNone {
		t.Fatalf("missing product: effect=%v", out.Effect.Kind)
	}
	if out.Next != domain.StateAwaitingProduct || out.Reply != KeyAskProduct {
		t.Fatalf("missing product: next=%v reply=%v", out.Next, out.Reply)
	}

	sess = newTestSession(domain.StateAwaitingConfirmation, domain.Draft{Product: "paint"})
	out = m.Step(sess, Intent{Kind: IntentConfirmYes}, Inbound{})
	if out.Next != domain.StateAwaitingIssue || out.Reply != KeyAskIssue {
		t.Fatalf("missing issue: next=%v reply=%v", out.Next, out.Reply)
	}
}

func TestSkipPhotosProceedsWithoutPhotos(t *testing.T) {
	m := NewMachine()
	sess := newTestSession(domain.StateAwaitingPhoto, domain.Draft{Product: "paint", Issue: "expired"})

	out := m.Step(sess, Intent{Kind: IntentSkip}, Inbound{})
	if out.Next != domain.StateAwaitingConfirmation {
		t.Fatalf("next=%v", out.Next)
	}
	if len(out.Draft.Photos) != 0 {
		t.Fatalf("photos = %v, want none", out.Draft.Photos)
	}
}

func TestDocumentAttachmentRejected(t *testing.T) {
	m := NewMachine()
	sess := newTestSession(domain.StateAwaitingPhoto, domain.Draft{Product: "paint", Issue: "too thick"})

	out := m.Step(sess, Intent{Kind: IntentPhoto}, Inbound{
		Attachments: []domain.MediaRef{{ID: "media-7", MimeType: "application/pdf"}},
	})
	if out.Next != domain.StateAwaitingPhoto {
		t.Fatalf("next=%v, want AwaitingPhoto", out.Next)
	}
	if out.Reply != KeyPhotoUnsupported {
		t.Fatalf("reply=%v, want KeyPhotoUnsupported", out.Reply)
	}
	if len(out.Draft.Photos) != 0 {
		t.Fatalf("photos = %v, want none", out.Draft.Photos)
	}

	// A mixed bundle keeps the images and drops the rest.
	out = m.Step(sess, Intent{Kind: IntentPhoto}, Inbound{
		Attachments: []domain.MediaRef{
			{ID: "media-7", MimeType: "application/pdf"},
			{ID: "media-8", MimeType: "image/png"},
		},
	})
	if out.Next != domain.StateAwaitingConfirmation {
		t.Fatalf("mixed: next=%v", out.Next)
	}
	if len(out.Draft.Photos) != 1 || out.Draft.Photos[0] != "media-8" {
		t.Fatalf("mixed: photos = %v", out.Draft.Photos)
	}
}

func TestStatusCheckEffects(t *testing.T) {
	m := NewMachine()

	sess := newTestSession(domain.StateIdle, domain.Draft{})
	out := m.Step(sess, Intent{Kind: IntentStatusCheck}, Inbound{})
	if out.Effect.Kind != EffectLookupStatus {
		t.Fatalf("idle status check: effect=%v", out.Effect.Kind)
	}
	if out.Next != domain.StateIdle {
		t.Fatalf("idle status check: next=%v", out.Next)
	}

	sess = newTestSession(domain.StateAwaitingMenuChoice, domain.Draft{})
	out = m.Step(sess, Intent{Kind: IntentMenuSelect, Menu: 2}, Inbound{})
	if out.Effect.Kind != EffectLookupStatus || out.Next != domain.StateIdle {
		t.Fatalf("menu status check: effect=%v next=%v", out.Effect.Kind, out.Next)
	}
}

func TestLanguageSwitchKeepsState(t *testing.T) {
	m := NewMachine()
	draft := domain.Draft{Product: "paint"}
	sess := newTestSession(domain.StateAwaitingIssue, draft)
	sess.Language = domain.LanguageArabic

	out := m.Step(sess, Intent{Kind: IntentLanguageSwitch, Language: domain.LanguageEnglish}, Inbound{})
	if out.Next != domain.StateAwaitingIssue {
		t.Fatalf("language switch moved state to %v", out.Next)
	}
	if out.Language != domain.LanguageEnglish {
		t.Fatalf("language = %v", out.Language)
	}
	if out.Draft.Product != draft.Product {
		t.Fatalf("draft changed on language switch")
	}
	if out.Reply != KeyLanguageChanged {
		t.Fatalf("reply = %v", out.Reply)
	}
}

// Starting a new complaint from the menu wipes any stale draft, so a
// later confirmation can never promote leftovers from an old attempt.
func TestMenuComplaintClearsStaleDraft(t *testing.T) {
	m := NewMachine()
	sess := newTestSession(domain.StateAwaitingMenuChoice, domain.Draft{Product: "old", Issue: "old issue"})

	out := m.Step(sess, Intent{Kind: IntentMenuSelect, Menu: 1}, Inbound{})
	if !out.Draft.Empty() {
		t.Fatalf("stale draft survived: %+v", out.Draft)
	}
}
