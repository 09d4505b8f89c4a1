package conversation

import "github.com/spec-kit/complaint-service/internal/domain"

// IntentKind classifies an inbound message relative to the current state.
type IntentKind string

const (
	IntentGreeting       IntentKind = "GREETING"
	IntentMenuSelect     IntentKind = "MENU_SELECT"
	IntentFreeText       IntentKind = "FREE_TEXT"
	IntentPhoto          IntentKind = "PHOTO"
	IntentSkip           IntentKind = "SKIP"
	IntentConfirmYes     IntentKind = "CONFIRM_YES"
	IntentConfirmNo      IntentKind = "CONFIRM_NO"
	IntentCancel         IntentKind = "CANCEL"
	IntentLanguageSwitch IntentKind = "LANGUAGE_SWITCH"
	IntentStatusCheck    IntentKind = "STATUS_CHECK"
	IntentHelp           IntentKind = "HELP"
	IntentInvalid        IntentKind = "INVALID"
)

// Intent is the classified form of one inbound message.
type Intent struct {
	Kind IntentKind
	// Menu carries the selected option for IntentMenuSelect.
	Menu int
	// Text carries the verbatim content for IntentFreeText.
	Text string
	// Language carries the requested language for IntentLanguageSwitch.
	Language domain.Language
}

// Inbound is the transport-independent view of one incoming message.
type Inbound struct {
	Text        string
	Attachments []domain.MediaRef
}
