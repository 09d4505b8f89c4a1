package conversation

import (
	"testing"

	"github.com/spec-kit/complaint-service/internal/domain"
)

func TestClassifyIdle(t *testing.T) {
	c := NewClassifier(true)

	tests := []struct {
		name string
		text string
		want IntentKind
	}{
		{"arabic greeting", "مرحبا", IntentGreeting},
		{"english greeting", "hello", IntentGreeting},
		{"status keyword", "status", IntentStatusCheck},
		{"arabic status", "حالة الشكوى", IntentStatusCheck},
		{"help keyword", "help", IntentHelp},
		{"random text", "I bought paint yesterday", IntentGreeting},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(domain.StateIdle, Inbound{Text: tt.text})
			if got.Kind != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.text, got.Kind, tt.want)
			}
		})
	}
}

func TestClassifyMenuChoice(t *testing.T) {
	c := NewClassifier(true)

	tests := []struct {
		text string
		want int
	}{
		{"1", 1},
		{"one", 1},
		{"واحد", 1},
		{"2", 2},
		{"3", 3},
	}
	for _, tt := range tests {
		got := c.Classify(domain.StateAwaitingMenuChoice, Inbound{Text: tt.text})
		if got.Kind != IntentMenuSelect {
			t.Fatalf("Classify(%q).Kind = %v, want IntentMenuSelect", tt.text, got.Kind)
		}
		if got.Menu != tt.want {
			t.Errorf("Classify(%q).Menu = %d, want %d", tt.text, got.Menu, tt.want)
		}
	}

	if got := c.Classify(domain.StateAwaitingMenuChoice, Inbound{Text: "blah"}); got.Kind != IntentInvalid {
		t.Errorf("unrecognized menu input = %v, want IntentInvalid", got.Kind)
	}
}

// Digits are only menu selections while the menu is open. In the free-text
// states "1" is a perfectly valid product name.
func TestNumericInputOutsideMenuIsFreeText(t *testing.T) {
	c := NewClassifier(true)
	got := c.Classify(domain.StateAwaitingProduct, Inbound{Text: "1"})
	if got.Kind != IntentFreeText {
		t.Errorf("Classify(product, %q) = %v, want IntentFreeText", "1", got.Kind)
	}
}

func TestClassifyCancelEverywhere(t *testing.T) {
	c := NewClassifier(true)
	states := []domain.ConversationState{
		domain.StateIdle,
		domain.StateAwaitingMenuChoice,
		domain.StateAwaitingProduct,
		domain.StateAwaitingIssue,
		domain.StateAwaitingPhoto,
		domain.StateAwaitingConfirmation,
	}
	for _, state := range states {
		if got := c.Classify(state, Inbound{Text: "cancel"}); got.Kind != IntentCancel {
			t.Errorf("Classify(%s, cancel) = %v, want IntentCancel", state, got.Kind)
		}
		if got := c.Classify(state, Inbound{Text: "الغاء"}); got.Kind != IntentCancel {
			t.Errorf("Classify(%s, arabic cancel) = %v, want IntentCancel", state, got.Kind)
		}
	}
}

// A keyword buried inside a longer message never aborts collection or
// flips the language; only a bare keyword does.
func TestFreeTextKeepsEmbeddedKeywords(t *testing.T) {
	c := NewClassifier(true)

	tests := []struct {
		state domain.ConversationState
		text  string
	}{
		{domain.StateAwaitingProduct, "english oak wood stain"},
		{domain.StateAwaitingIssue, "the sprayer will not stop dripping"},
		{domain.StateAwaitingIssue, "the quit button on the pump is stuck"},
	}
	for _, tt := range tests {
		got := c.Classify(tt.state, Inbound{Text: tt.text})
		if got.Kind != IntentFreeText {
			t.Errorf("Classify(%s, %q) = %v, want IntentFreeText", tt.state, tt.text, got.Kind)
		}
		if got.Text != tt.text {
			t.Errorf("Classify(%s, %q).Text = %q", tt.state, tt.text, got.Text)
		}
	}

	if got := c.Classify(domain.StateAwaitingIssue, Inbound{Text: "cancel!"}); got.Kind != IntentCancel {
		t.Errorf("punctuated bare cancel = %v, want IntentCancel", got.Kind)
	}
	if got := c.Classify(domain.StateAwaitingProduct, Inbound{Text: "english"}); got.Kind != IntentLanguageSwitch {
		t.Errorf("bare language keyword = %v, want IntentLanguageSwitch", got.Kind)
	}
}

func TestClassifyPhotoState(t *testing.T) {
	c := NewClassifier(true)
	photo := []domain.MediaRef{{ID: "media-1", MimeType: "image/jpeg"}}

	if got := c.Classify(domain.StateAwaitingPhoto, Inbound{Attachments: photo}); got.Kind != IntentPhoto {
		t.Errorf("photo attachment = %v, want IntentPhoto", got.Kind)
	}
	if got := c.Classify(domain.StateAwaitingPhoto, Inbound{Text: "skip"}); got.Kind != IntentSkip {
		t.Errorf("skip keyword = %v, want IntentSkip", got.Kind)
	}
	if got := c.Classify(domain.StateAwaitingPhoto, Inbound{Text: "تخطي"}); got.Kind != IntentSkip {
		t.Errorf("arabic skip = %v, want IntentSkip", got.Kind)
	}
	if got := c.Classify(domain.StateAwaitingPhoto, Inbound{Text: "what now"}); got.Kind != IntentInvalid {
		t.Errorf("free text in photo state = %v, want IntentInvalid", got.Kind)
	}
}

func TestPhotoWithCaptionTieBreak(t *testing.T) {
	photo := []domain.MediaRef{{ID: "media-1"}}
	withSkipCaption := Inbound{Text: "skip", Attachments: photo}

	// Under the default policy the attachment wins even when the caption
	// is a recognized keyword.
	preferPhoto := NewClassifier(true)
	if got := preferPhoto.Classify(domain.StateAwaitingPhoto, withSkipCaption); got.Kind != IntentPhoto {
		t.Errorf("photo-over-text policy = %v, want IntentPhoto", got.Kind)
	}

	// Under the alternate policy the caption text is honored first.
	preferText := NewClassifier(false)
	if got := preferText.Classify(domain.StateAwaitingPhoto, withSkipCaption); got.Kind != IntentSkip {
		t.Errorf("text-over-photo policy = %v, want IntentSkip", got.Kind)
	}

	// An unrecognized caption still counts as a photo either way.
	plain := Inbound{Text: "here is the damage", Attachments: photo}
	if got := preferText.Classify(domain.StateAwaitingPhoto, plain); got.Kind != IntentPhoto {
		t.Errorf("unrecognized caption = %v, want IntentPhoto", got.Kind)
	}
}

func TestClassifyConfirmation(t *testing.T) {
	c := NewClassifier(true)

	tests := []struct {
		text string
		want IntentKind
	}{
		{"yes", IntentConfirmYes},
		{"نعم", IntentConfirmYes},
		{"no", IntentConfirmNo},
		{"لا", IntentConfirmNo},
		{"maybe", IntentInvalid},
	}
	for _, tt := range tests {
		if got := c.Classify(domain.StateAwaitingConfirmation, Inbound{Text: tt.text}); got.Kind != tt.want {
			t.Errorf("Classify(confirmation, %q) = %v, want %v", tt.text, got.Kind, tt.want)
		}
	}
}

func TestClassifyLanguageSwitch(t *testing.T) {
	c := NewClassifier(true)

	got := c.Classify(domain.StateIdle, Inbound{Text: "english"})
	if got.Kind != IntentLanguageSwitch || got.Language != domain.LanguageEnglish {
		t.Errorf("english switch = %v/%v", got.Kind, got.Language)
	}
	got = c.Classify(domain.StateAwaitingIssue, Inbound{Text: "عربي"})
	if got.Kind != IntentLanguageSwitch || got.Language != domain.LanguageArabic {
		t.Errorf("arabic switch = %v/%v", got.Kind, got.Language)
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		text string
		want domain.Language
	}{
		{"مرحبا كيف الحال", domain.LanguageArabic},
		{"hello there", domain.LanguageEnglish},
		{"", domain.LanguageArabic},
		{"مشكلة كبيرة في المنتج paint", domain.LanguageArabic},
	}
	for _, tt := range tests {
		if got := DetectLanguage(tt.text); got != tt.want {
			t.Errorf("DetectLanguage(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
