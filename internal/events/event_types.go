package events

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventDecisionRecorded    EventType = "decision_recorded"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventReviewReminderDue   EventType = "review_reminder_due"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID            string      `json:"id"`
	Type          EventType   `json:"type"`
	TicketID      string      `json:"ticket_id"`
	TicketNumber  string      `json:"ticket_number"`
	CustomerPhone string      `json:"customer_phone"`
	Timestamp     time.Time   `json:"timestamp"`
	Payload       interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Product       string              `json:"product"`
	IssueCategory string              `json:"issue_category"`
	Status        domain.TicketStatus `json:"status"`
	Routing       string              `json:"routing"`
}

// DecisionRecordedPayload payload.
type DecisionRecordedPayload struct {
	Approved     bool                     `json:"approved"`
	Compensation *domain.CompensationType `json:"compensation,omitempty"`
	Notes        string                   `json:"notes,omitempty"`
	ReviewerID   string                   `json:"reviewer_id"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Comment   string              `json:"comment,omitempty"`
}

// ReviewReminderPayload payload.
type ReviewReminderPayload struct {
	PendingSince time.Time `json:"pending_since"`
}
