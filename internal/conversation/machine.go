package conversation

import (
	"strings"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// EffectKind enumerates side effects the caller must perform after a step.
type EffectKind int

const (
	EffectNone EffectKind = iota
	// EffectCreateTicket promotes the confirmed draft to a ticket.
	EffectCreateTicket
	// EffectLookupStatus fetches the customer's latest ticket for a
	// status report.
	EffectLookupStatus
)

// Effect describes the side effect requested by a step. For
// EffectCreateTicket, Draft carries the confirmed complaint fields.
type Effect struct {
	Kind  EffectKind
	Draft domain.Draft
}

// Outcome is the result of stepping the machine: the next state, the
// updated draft, the reply to send and any effect to perform. The machine
// itself performs no I/O.
type Outcome struct {
	Next     domain.ConversationState
	Draft    domain.Draft
	Language domain.Language
	Reply    TemplateKey
	Params   map[string]string
	Effect   Effect
}

// Machine is the scripted complaint conversation flow. Every transition
// is deterministic given (state, intent, draft); unknown pairs re-prompt
// without a state change.
type Machine struct{}

// NewMachine returns a Machine.
func NewMachine() *Machine {
	return &Machine{}
}

// Step advances the conversation one inbound message.
func (m *Machine) Step(sess domain.Session, intent Intent, in Inbound) Outcome {
	out := Outcome{
		Next:     sess.State,
		Draft:    sess.Draft,
		Language: sess.Language,
	}

	// Cancel and language switches apply in every state.
	switch intent.Kind {
	case IntentCancel:
		out.Next = domain.StateIdle
		out.Draft = domain.Draft{}
		out.Reply = KeyCancelled
		return out
	case IntentLanguageSwitch:
		out.Language = intent.Language
		out.Reply = KeyLanguageChanged
		return out
	}

	switch sess.State {
	case domain.StateIdle:
		return m.stepIdle(out, intent)
	case domain.StateAwaitingMenuChoice:
		return m.stepMenu(out, intent)
	case domain.StateAwaitingProduct:
		return m.stepProduct(out, intent)
	case domain.StateAwaitingIssue:
		return m.stepIssue(out, intent)
	case domain.StateAwaitingPhoto:
		return m.stepPhoto(out, intent, in)
	case domain.StateAwaitingConfirmation:
		return m.stepConfirmation(out, intent)
	default:
		// Unknown persisted state resolves to a fresh menu.
		out.Next = domain.StateAwaitingMenuChoice
		out.Draft = domain.Draft{}
		out.Reply = KeyWelcome
		return out
	}
}

func (m *Machine) stepIdle(out Outcome, intent Intent) Outcome {
	switch intent.Kind {
	case IntentStatusCheck:
		out.Reply = KeyStatusReport
		out.Effect = Effect{Kind: EffectLookupStatus}
	case IntentHelp:
		out.Reply = KeyHelp
	default:
		// Any other message, greeting included, opens the menu.
		out.Next = domain.StateAwaitingMenuChoice
		out.Reply = KeyWelcome
	}
	return out
}

func (m *Machine) stepMenu(out Outcome, intent Intent) Outcome {
	if intent.Kind != IntentMenuSelect {
		out.Reply = KeyUnknown
		return out
	}
	switch intent.Menu {
	case 1:
		out.Next = domain.StateAwaitingProduct
		out.Draft = domain.Draft{}
		out.Reply = KeyAskProduct
	case 2:
		out.Next = domain.StateIdle
		out.Reply = KeyStatusReport
		out.Effect = Effect{Kind: EffectLookupStatus}
	case 3:
		out.Reply = KeyHelp
	default:
		out.Reply = KeyUnknown
	}
	return out
}

func (m *Machine) stepProduct(out Outcome, intent Intent) Outcome {
	if intent.Kind != IntentFreeText {
		out.Reply = KeyAskProduct
		return out
	}
	out.Draft.Product = intent.Text
	out.Next = domain.StateAwaitingIssue
	out.Reply = KeyAskIssue
	return out
}

func (m *Machine) stepIssue(out Outcome, intent Intent) Outcome {
	if intent.Kind != IntentFreeText {
		out.Reply = KeyAskIssue
		return out
	}
	out.Draft.Issue = intent.Text
	out.Next = domain.StateAwaitingPhoto
	out.Reply = KeyAskPhotos
	return out
}

func (m *Machine) stepPhoto(out Outcome, intent Intent, in Inbound) Outcome {
	switch intent.Kind {
	case IntentPhoto:
		// Only images attach to the draft. Refs without a mime type come
		// from the chat simulator and count as images.
		added := 0
		for _, ref := range in.Attachments {
			if ref.MimeType == "" || strings.HasPrefix(ref.MimeType, "image/") {
				out.Draft.Photos = append(out.Draft.Photos, ref.ID)
				added++
			}
		}
		if added == 0 {
			out.Reply = KeyPhotoUnsupported
			return out
		}
	case IntentSkip:
		out.Draft.Photos = nil
	default:
		out.Reply = KeyAskPhotos
		return out
	}
	out.Next = domain.StateAwaitingConfirmation
	out.Reply = KeyConfirmSummary
	out.Params = map[string]string{
		"product": out.Draft.Product,
		"issue":   out.Draft.Issue,
	}
	return out
}

func (m *Machine) stepConfirmation(out Outcome, intent Intent) Outcome {
	switch intent.Kind {
	case IntentConfirmYes:
		// A confirm with missing fields re-prompts for the gap instead
		// of creating a partial ticket.
		if out.Draft.Product == "" {
			out.Next = domain.StateAwaitingProduct
			out.Reply = KeyAskProduct
			return out
		}
		if out.Draft.Issue == "" {
			out.Next = domain.StateAwaitingIssue
			out.Reply = KeyAskIssue
			return out
		}
		out.Effect = Effect{Kind: EffectCreateTicket, Draft: out.Draft}
		out.Next = domain.StateIdle
		out.Draft = domain.Draft{}
		out.Reply = KeyTicketCreated
		return out
	case IntentConfirmNo:
		out.Next = domain.StateAwaitingProduct
		out.Draft = domain.Draft{}
		out.Reply = KeyRestart
		return out
	default:
		out.Reply = KeyConfirmPrompt
		return out
	}
}
