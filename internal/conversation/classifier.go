package conversation

import (
	"strings"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// Keyword sets used for intent matching, Arabic and English. Single-word
// entries match whole tokens; phrases match as substrings.
var (
	greetingKeywords = []string{
		"hello", "hi", "hey", "good morning", "good evening",
		"السلام عليكم", "مرحبا", "اهلا", "صباح الخير", "مساء الخير", "هلا",
	}
	complaintKeywords = []string{
		"complaint", "problem", "issue", "defect", "broken", "damaged",
		"شكوى", "مشكلة", "عطل", "خراب", "تالف", "معيب",
	}
	statusKeywords = []string{
		"status", "track", "follow up", "where",
		"متابعة", "حالة", "تتبع", "فين",
	}
	helpKeywords = []string{
		"help", "assist", "support",
		"مساعدة", "ساعدني", "ازاي",
	}
	yesKeywords = []string{
		"yes", "yeah", "yep", "ok", "okay", "correct", "right", "confirm", "sure",
		"نعم", "اه", "ايه", "ايوه", "صح", "تمام", "موافق", "اكيد", "ماشي",
	}
	noKeywords = []string{
		"no", "nope", "wrong", "incorrect", "change", "edit",
		"لا", "لأ", "غلط", "مش صح", "تعديل", "غير",
	}
	skipKeywords = []string{
		"skip", "no photo", "no photos", "none", "nothing", "done",
		"تخطي", "مفيش", "تم", "بدون", "لا صور",
	}
	cancelKeywords = []string{
		"cancel", "stop", "quit", "exit",
		"الغاء", "الغي", "وقف", "خلاص",
	}
	arabicSwitchKeywords  = []string{"عربي", "العربية", "arabic"}
	englishSwitchKeywords = []string{"english", "انجليزي", "الانجليزية"}
)

var menuAliases = map[string]int{
	"1": 1, "one": 1, "واحد": 1,
	"2": 2, "two": 2, "اتنين": 2,
	"3": 3, "three": 3, "تلاتة": 3,
}

// Classifier maps raw inbound messages to intents. It is pure and never
// fails: unmatched input resolves to FreeText where a free-text slot is
// active and to Invalid where the state requires constrained input.
type Classifier struct {
	// photoOverText decides the tie-break when a photo and text arrive
	// together in the photo-collection state: true means the photo wins.
	photoOverText bool
}

// NewClassifier returns a Classifier with the given tie-break policy.
func NewClassifier(photoOverText bool) *Classifier {
	return &Classifier{photoOverText: photoOverText}
}

// Classify determines the intent of the inbound message given the current
// conversation state.
func (c *Classifier) Classify(state domain.ConversationState, in Inbound) Intent {
	normalized := strings.ToLower(strings.TrimSpace(in.Text))

	// Cancel and language switches are recognized in every state, but
	// only when the whole message is the keyword. A product description
	// mentioning "stop" or "english" must stay free text.
	if matchesWhole(normalized, cancelKeywords) {
		return Intent{Kind: IntentCancel}
	}
	if matchesWhole(normalized, englishSwitchKeywords) {
		return Intent{Kind: IntentLanguageSwitch, Language: domain.LanguageEnglish}
	}
	if matchesWhole(normalized, arabicSwitchKeywords) {
		return Intent{Kind: IntentLanguageSwitch, Language: domain.LanguageArabic}
	}

	switch state {
	case domain.StateAwaitingProduct, domain.StateAwaitingIssue:
		text := strings.TrimSpace(in.Text)
		if text == "" {
			return Intent{Kind: IntentInvalid}
		}
		return Intent{Kind: IntentFreeText, Text: text}

	case domain.StateAwaitingPhoto:
		if len(in.Attachments) > 0 {
			if c.photoOverText || normalized == "" {
				return Intent{Kind: IntentPhoto}
			}
			// Text wins under the alternate policy, falling through to
			// keyword matching; an unrecognized caption still counts as
			// a photo rather than Invalid.
			if matchesAny(normalized, skipKeywords) {
				return Intent{Kind: IntentSkip}
			}
			return Intent{Kind: IntentPhoto}
		}
		if matchesAny(normalized, skipKeywords) {
			return Intent{Kind: IntentSkip}
		}
		return Intent{Kind: IntentInvalid}

	case domain.StateAwaitingConfirmation:
		if matchesAny(normalized, yesKeywords) {
			return Intent{Kind: IntentConfirmYes}
		}
		if matchesAny(normalized, noKeywords) {
			return Intent{Kind: IntentConfirmNo}
		}
		return Intent{Kind: IntentInvalid}

	case domain.StateAwaitingMenuChoice:
		// Numeric input is a menu selection only here, where a menu was
		// just presented.
		if n, ok := menuAliases[normalized]; ok {
			return Intent{Kind: IntentMenuSelect, Menu: n}
		}
		if matchesAny(normalized, complaintKeywords) {
			return Intent{Kind: IntentMenuSelect, Menu: 1}
		}
		if matchesAny(normalized, statusKeywords) {
			return Intent{Kind: IntentMenuSelect, Menu: 2}
		}
		if matchesAny(normalized, helpKeywords) {
			return Intent{Kind: IntentMenuSelect, Menu: 3}
		}
		return Intent{Kind: IntentInvalid}

	default: // StateIdle
		if matchesAny(normalized, statusKeywords) {
			return Intent{Kind: IntentStatusCheck}
		}
		if matchesAny(normalized, helpKeywords) {
			return Intent{Kind: IntentHelp}
		}
		// Anything else in idle, greeting or not, opens the menu.
		return Intent{Kind: IntentGreeting}
	}
}

// matchesAny reports whether the normalized message matches a keyword.
// Multi-word keywords match as substrings; single words must match a
// whole token so that short tokens like "no" do not fire inside words.
// matchesWhole reports whether the entire message, punctuation aside, is
// one of the keywords.
func matchesWhole(normalized string, keywords []string) bool {
	msg := strings.Trim(normalized, ".,!?؟ ")
	for _, kw := range keywords {
		if msg == kw {
			return true
		}
	}
	return false
}

func matchesAny(normalized string, keywords []string) bool {
	if normalized == "" {
		return false
	}
	tokens := strings.Fields(normalized)
	for _, kw := range keywords {
		if strings.Contains(kw, " ") {
			if strings.Contains(normalized, kw) {
				return true
			}
			continue
		}
		for _, tok := range tokens {
			if strings.Trim(tok, ".,!?؟") == kw {
				return true
			}
		}
	}
	return false
}
