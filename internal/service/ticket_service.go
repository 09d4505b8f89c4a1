package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/routing"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// TicketService coordinates complaint ticket workflows.
type TicketService struct {
	tickets     repository.TicketRepository
	technicians repository.TechnicianRepository
	history     repository.StatusHistoryRepository
	router      *routing.Router
	dispatcher  events.Dispatcher
	now         func() time.Time
}

// TicketDependencies bundles collaborators for ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	TechnicianRepo repository.TechnicianRepository
	HistoryRepo    repository.StatusHistoryRepository
	Router         *routing.Router
	Dispatcher     events.Dispatcher
}

// DecisionInput describes a reviewer verdict on a ticket.
type DecisionInput struct {
	Approved     bool
	Compensation *domain.CompensationType
	Notes        string
}

// TicketStatistics aggregates dashboard counters.
type TicketStatistics struct {
	ByStatus     map[domain.TicketStatus]int64
	CreatedToday int64
	Open         int64
	Total        int64
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		technicians: deps.TechnicianRepo,
		history:     deps.HistoryRepo,
		router:      deps.Router,
		dispatcher:  deps.Dispatcher,
		now:         time.Now,
	}
}

// CreateFromDraft promotes a confirmed complaint draft into a ticket. The
// routing rule table fixes the initial status and compensation; tickets
// that need manual review are assigned to the least-loaded technician.
func (s *TicketService) CreateFromDraft(ctx context.Context, phone string, draft domain.Draft) (*domain.Ticket, error) {
	if draft.Product == "" {
		return nil, apperrors.NewIncompleteDraft("product")
	}
	if draft.Issue == "" {
		return nil, apperrors.NewIncompleteDraft("issue")
	}

	number, err := s.nextTicketNumber(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}

	decision := s.router.Route(draft)
	ticket := &domain.Ticket{
		TicketNumber:  number,
		CustomerPhone: phone,
		Product:       strings.TrimSpace(draft.Product),
		Issue:         strings.TrimSpace(draft.Issue),
		IssueCategory: s.router.CategorizeIssue(draft.Issue),
		Photos:        draft.Photos,
		Status:        decision.InitialStatus(),
		Compensation:  decision.Compensation(),
	}

	if ticket.Status == domain.TicketStatusUnderReview {
		if tech, err := s.technicians.PickAvailable(ctx); err == nil {
			ticket.TechnicianID = &tech.ID
		} else if err != pgx.ErrNoRows {
			return nil, apperrors.NewPersistenceFailure(err)
		}
		// No capacity leaves the ticket unassigned in the review queue.
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}
	if ticket.TechnicianID != nil {
		if err := s.technicians.AdjustWorkload(ctx, *ticket.TechnicianID, 1); err != nil {
			return nil, apperrors.NewPersistenceFailure(err)
		}
	}
	if err := s.recordStatusChange(ctx, ticket.ID, nil, ticket.Status, "system", "created"); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:          events.EventTicketCreated,
		TicketID:      ticket.ID,
		TicketNumber:  ticket.TicketNumber,
		CustomerPhone: ticket.CustomerPhone,
		Payload: events.TicketCreatedPayload{
			Product:       ticket.Product,
			IssueCategory: ticket.IssueCategory,
			Status:        ticket.Status,
			Routing:       string(decision),
		},
	})
	return ticket, nil
}

// RecordDecision applies a reviewer verdict. Approval moves the ticket to
// DECIDED with a compensation; rejection cancels it with the notes as
// reason. Terminal tickets reject further decisions.
func (s *TicketService) RecordDecision(ctx context.Context, reviewer *domain.StaffUser, ticketID string, input DecisionInput) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	var next domain.TicketStatus
	if input.Approved {
		next = domain.TicketStatusDecided
	} else {
		next = domain.TicketStatusCancelled
	}
	if !domain.CanTransition(ticket.Status, next) {
		return nil, apperrors.NewConflict("illegal status transition", map[string]any{
			"current": ticket.Status,
			"next":    next,
		})
	}
	if input.Approved && input.Compensation == nil && ticket.Compensation == nil {
		return nil, apperrors.NewValidationError("approval requires a compensation", nil)
	}

	now := s.now()
	old := ticket.Status
	ticket.Status = next
	ticket.ReviewerID = &reviewer.ID
	ticket.ReviewedAt = &now
	if input.Notes != "" {
		notes := input.Notes
		ticket.ReviewNotes = &notes
	}
	if input.Approved && input.Compensation != nil {
		ticket.Compensation = input.Compensation
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.releaseTechnician(ctx, ticket, old); err != nil {
		return nil, err
	}
	if err := s.recordStatusChange(ctx, ticket.ID, &old, ticket.Status, reviewer.ID, "decision"); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:          events.EventDecisionRecorded,
		TicketID:      ticket.ID,
		TicketNumber:  ticket.TicketNumber,
		CustomerPhone: ticket.CustomerPhone,
		Payload: events.DecisionRecordedPayload{
			Approved:     input.Approved,
			Compensation: ticket.Compensation,
			Notes:        input.Notes,
			ReviewerID:   reviewer.ID,
		},
	})
	return ticket, nil
}

// Complete marks a decided ticket as fulfilled.
func (s *TicketService) Complete(ctx context.Context, actorID, ticketID string) (*domain.Ticket, error) {
	return s.transition(ctx, actorID, ticketID, domain.TicketStatusCompleted, "completed")
}

// Cancel aborts a non-terminal ticket.
func (s *TicketService) Cancel(ctx context.Context, actorID, ticketID, reason string) (*domain.Ticket, error) {
	if reason == "" {
		reason = "cancelled"
	}
	return s.transition(ctx, actorID, ticketID, domain.TicketStatusCancelled, reason)
}

func (s *TicketService) transition(ctx context.Context, actorID, ticketID string, next domain.TicketStatus, reason string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !domain.CanTransition(ticket.Status, next) {
		return nil, apperrors.NewConflict("illegal status transition", map[string]any{
			"current": ticket.Status,
			"next":    next,
		})
	}

	old := ticket.Status
	ticket.Status = next
	if next == domain.TicketStatusCompleted {
		now := s.now()
		ticket.CompletedAt = &now
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if next == domain.TicketStatusCancelled {
		if err := s.releaseTechnician(ctx, ticket, old); err != nil {
			return nil, err
		}
	}
	if err := s.recordStatusChange(ctx, ticket.ID, &old, next, actorID, reason); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:          events.EventTicketStatusChanged,
		TicketID:      ticket.ID,
		TicketNumber:  ticket.TicketNumber,
		CustomerPhone: ticket.CustomerPhone,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: old,
			NewStatus: next,
			Comment:   reason,
		},
	})
	return ticket, nil
}

// Assign hands a ticket to a specific technician, replacing any previous
// assignee and adjusting both workloads.
func (s *TicketService) Assign(ctx context.Context, actorID, ticketID, technicianID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !holdsWorkloadUnit(ticket.Status) {
		return nil, apperrors.NewConflict("ticket is not awaiting review", map[string]any{"status": ticket.Status})
	}

	tech, err := s.technicians.GetByID(ctx, technicianID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !tech.HasCapacity() {
		return nil, apperrors.NewConflict("technician has no capacity", map[string]any{
			"technician_id": tech.ID,
		})
	}
	if ticket.TechnicianID != nil && *ticket.TechnicianID == tech.ID {
		return ticket, nil
	}

	if err := s.releaseTechnician(ctx, ticket, ticket.Status); err != nil {
		return nil, err
	}
	ticket.TechnicianID = &tech.ID
	if ticket.Status == domain.TicketStatusNew {
		ticket.Status = domain.TicketStatusUnderReview
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.technicians.AdjustWorkload(ctx, tech.ID, 1); err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}
	if err := s.recordStatusChange(ctx, ticket.ID, nil, ticket.Status, actorID, "assigned to "+tech.Name); err != nil {
		return nil, err
	}
	return ticket, nil
}

// ListOverdue returns review tickets older than the given age.
func (s *TicketService) ListOverdue(ctx context.Context, olderThan time.Duration) ([]domain.Ticket, error) {
	cutoff := s.now().Add(-olderThan)
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		Statuses:  []domain.TicketStatus{domain.TicketStatusUnderReview},
		CreatedTo: &cutoff,
		Limit:     100,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// GetByID fetches one ticket.
func (s *TicketService) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// GetByNumber fetches one ticket by its customer-facing number.
func (s *TicketService) GetByNumber(ctx context.Context, number string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByNumber(ctx, number)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// LatestForCustomer returns the customer's most recent ticket, or nil when
// none exists.
func (s *TicketService) LatestForCustomer(ctx context.Context, phone string) (*domain.Ticket, error) {
	ticket, err := s.tickets.LatestByCustomer(ctx, phone)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// List returns tickets matching dashboard filters.
func (s *TicketService) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// Technicians lists all technicians with their current workloads.
func (s *TicketService) Technicians(ctx context.Context) ([]domain.Technician, error) {
	list, err := s.technicians.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// History returns the audit trail for one ticket.
func (s *TicketService) History(ctx context.Context, ticketID string) ([]domain.StatusHistory, error) {
	entries, err := s.history.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// Statistics aggregates counts for the dashboard.
func (s *TicketService) Statistics(ctx context.Context) (*TicketStatistics, error) {
	byStatus, err := s.tickets.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	// Midnight in the clock's own zone, not UTC.
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	createdToday, err := s.tickets.CountCreatedSince(ctx, midnight)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	stats := &TicketStatistics{ByStatus: byStatus, CreatedToday: createdToday}
	for status, count := range byStatus {
		stats.Total += count
		if !status.IsTerminal() {
			stats.Open += count
		}
	}
	return stats, nil
}

func (s *TicketService) nextTicketNumber(ctx context.Context) (string, error) {
	year := s.now().Year()
	seq, err := s.tickets.Next(ctx, year)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("TKT-%d-%05d", year, seq), nil
}

// holdsWorkloadUnit reports whether an assignment in the given status
// counts against the technician's workload. A DECIDED ticket keeps its
// TechnicianID for the audit trail but its unit was returned when the
// decision was recorded.
func holdsWorkloadUnit(status domain.TicketStatus) bool {
	return status == domain.TicketStatusNew || status == domain.TicketStatusUnderReview
}

func (s *TicketService) releaseTechnician(ctx context.Context, ticket *domain.Ticket, from domain.TicketStatus) error {
	if ticket.TechnicianID == nil || !holdsWorkloadUnit(from) {
		return nil
	}
	if err := s.technicians.AdjustWorkload(ctx, *ticket.TechnicianID, -1); err != nil {
		return apperrors.NewPersistenceFailure(err)
	}
	return nil
}

func (s *TicketService) recordStatusChange(ctx context.Context, ticketID string, old *domain.TicketStatus, next domain.TicketStatus, changedBy, reason string) error {
	entry := &domain.StatusHistory{
		TicketID:  ticketID,
		OldStatus: old,
		NewStatus: next,
		ChangedBy: changedBy,
		Reason:    reason,
	}
	if err := s.history.Create(ctx, entry); err != nil {
		return apperrors.NewPersistenceFailure(err)
	}
	return nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	// Notification failures never roll back the state change.
	_ = s.dispatcher.Publish(ctx, event)
}
