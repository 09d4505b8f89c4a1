package domain

import "time"

// TicketStatus enumerates lifecycle states for complaint tickets.
type TicketStatus string

const (
	TicketStatusNew         TicketStatus = "NEW"
	TicketStatusUnderReview TicketStatus = "UNDER_REVIEW"
	TicketStatusDecided     TicketStatus = "DECIDED"
	TicketStatusCompleted   TicketStatus = "COMPLETED"
	TicketStatusCancelled   TicketStatus = "CANCELLED"
)

// CompensationType enumerates decided compensation outcomes.
type CompensationType string

const (
	CompensationRefund      CompensationType = "REFUND"
	CompensationReplacement CompensationType = "REPLACEMENT"
)

// Ticket is the aggregate for a confirmed product complaint.
type Ticket struct {
	ID            string
	TicketNumber  string
	CustomerPhone string
	Product       string
	Issue         string
	IssueCategory string
	Photos        []string
	Status        TicketStatus
	Compensation  *CompensationType
	TechnicianID  *string
	ReviewerID    *string
	ReviewNotes   *string
	ReviewedAt    *time.Time
	RemindedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time
}

// IsTerminal reports whether no further status change is allowed.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusCompleted || s == TicketStatusCancelled
}

var allowedTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusNew:         {TicketStatusUnderReview, TicketStatusDecided, TicketStatusCancelled},
	TicketStatusUnderReview: {TicketStatusDecided, TicketStatusCancelled},
	TicketStatusDecided:     {TicketStatusCompleted, TicketStatusCancelled},
	TicketStatusCompleted:   {},
	TicketStatusCancelled:   {},
}

// CanTransition reports whether moving from current to next is a legal,
// forward-only status change.
func CanTransition(current, next TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// StatusHistory records a single ticket status change for audit.
type StatusHistory struct {
	ID        string
	TicketID  string
	OldStatus *TicketStatus
	NewStatus TicketStatus
	ChangedBy string
	Reason    string
	CreatedAt time.Time
}
