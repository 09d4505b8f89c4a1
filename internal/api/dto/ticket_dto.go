package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// TicketListQuery captures dashboard query filters.
type TicketListQuery struct {
	CustomerPhone *string
	TechnicianID  *string
	Statuses      []domain.TicketStatus
	SearchTerm    *string
	Page          int
	PageSize      int
}

// TicketSummary response.
type TicketSummary struct {
	ID            string                   `json:"id"`
	TicketNumber  string                   `json:"ticket_number"`
	CustomerPhone string                   `json:"customer_phone"`
	Product       string                   `json:"product"`
	IssueCategory string                   `json:"issue_category"`
	Status        domain.TicketStatus      `json:"status"`
	Compensation  *domain.CompensationType `json:"compensation,omitempty"`
	TechnicianID  *string                  `json:"technician_id,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	ID            string                   `json:"id"`
	TicketNumber  string                   `json:"ticket_number"`
	CustomerPhone string                   `json:"customer_phone"`
	Product       string                   `json:"product"`
	Issue         string                   `json:"issue"`
	IssueCategory string                   `json:"issue_category"`
	Photos        []string                 `json:"photos"`
	Status        domain.TicketStatus      `json:"status"`
	Compensation  *domain.CompensationType `json:"compensation,omitempty"`
	TechnicianID  *string                  `json:"technician_id,omitempty"`
	ReviewerID    *string                  `json:"reviewer_id,omitempty"`
	ReviewNotes   *string                  `json:"review_notes,omitempty"`
	ReviewedAt    *time.Time               `json:"reviewed_at,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
	CompletedAt   *time.Time               `json:"completed_at,omitempty"`
	History       []StatusHistoryResponse  `json:"history,omitempty"`
}

// StatusHistoryResponse is one audit entry.
type StatusHistoryResponse struct {
	OldStatus *domain.TicketStatus `json:"old_status,omitempty"`
	NewStatus domain.TicketStatus  `json:"new_status"`
	ChangedBy string               `json:"changed_by"`
	Reason    string               `json:"reason,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// DecisionRequest payload for reviewer verdicts.
type DecisionRequest struct {
	Approved     bool                     `json:"approved"`
	Compensation *domain.CompensationType `json:"compensation,omitempty"`
	Notes        string                   `json:"notes"`
}

// AssignRequest payload.
type AssignRequest struct {
	TechnicianID string `json:"technician_id"`
}

// CancelRequest payload.
type CancelRequest struct {
	Reason string `json:"reason"`
}

// TechnicianResponse response.
type TechnicianResponse struct {
	ID              string `json:"id"`
	EmployeeID      string `json:"employee_id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Active          bool   `json:"active"`
	CurrentWorkload int    `json:"current_workload"`
	MaxWorkload     int    `json:"max_workload"`
}

// StatisticsResponse aggregates dashboard counters.
type StatisticsResponse struct {
	ByStatus     map[domain.TicketStatus]int64 `json:"by_status"`
	CreatedToday int64                         `json:"created_today"`
	Open         int64                         `json:"open"`
	Total        int64                         `json:"total"`
}
