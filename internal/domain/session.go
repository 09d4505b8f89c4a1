package domain

import "time"

// Language selects which variant of a bilingual template is sent.
type Language string

const (
	LanguageArabic  Language = "ar"
	LanguageEnglish Language = "en"
)

// ConversationState enumerates steps of the scripted complaint flow.
type ConversationState string

const (
	StateIdle                 ConversationState = "IDLE"
	StateAwaitingMenuChoice   ConversationState = "AWAITING_MENU_CHOICE"
	StateAwaitingProduct      ConversationState = "AWAITING_PRODUCT"
	StateAwaitingIssue        ConversationState = "AWAITING_ISSUE"
	StateAwaitingPhoto        ConversationState = "AWAITING_PHOTO"
	StateAwaitingConfirmation ConversationState = "AWAITING_CONFIRMATION"
)

// MediaRef points at a media object held by the messaging provider.
type MediaRef struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

// Draft accumulates complaint fields while the flow is in progress. It is
// promoted to a Ticket on confirmation and discarded on cancel or restart.
type Draft struct {
	Product string   `json:"product,omitempty"`
	Issue   string   `json:"issue,omitempty"`
	Photos  []string `json:"photos,omitempty"`
}

// Empty reports whether no field has been collected yet.
func (d Draft) Empty() bool {
	return d.Product == "" && d.Issue == "" && len(d.Photos) == 0
}

// Session is the per-customer conversation state, keyed by phone number.
// Exactly one session exists per phone; the store expires it after the
// configured idle timeout.
type Session struct {
	Phone     string            `json:"phone"`
	State     ConversationState `json:"state"`
	Language  Language          `json:"language"`
	Draft     Draft             `json:"draft"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewSession returns an idle session for the phone number.
func NewSession(phone string, lang Language, now time.Time) *Session {
	return &Session{
		Phone:     phone,
		State:     StateIdle,
		Language:  lang,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
