package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/observability"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/service"
	"github.com/spec-kit/complaint-service/internal/whatsapp"
)

// TicketsHandler exposes the staff dashboard endpoints.
type TicketsHandler struct {
	tickets      *service.TicketService
	media        whatsapp.MediaFetcher
	metrics      *observability.Metrics
	overdueAfter time.Duration
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, media whatsapp.MediaFetcher, metrics *observability.Metrics, overdueAfter time.Duration) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, media: media, metrics: metrics, overdueAfter: overdueAfter}
}

// List handles GET /api/tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	filter := parseTicketFilter(c)
	tickets, err := h.tickets.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	resp := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		resp = append(resp, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Get handles GET /api/tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")

	// Customer-facing ticket numbers work here too.
	var ticket *domain.Ticket
	var err error
	if strings.HasPrefix(id, "TKT-") {
		ticket, err = h.tickets.GetByNumber(c.UserContext(), id)
	} else {
		ticket, err = h.tickets.GetByID(c.UserContext(), id)
	}
	if err != nil {
		return err
	}

	history, err := h.tickets.History(c.UserContext(), ticket.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket, history)})
}

// Photo handles GET /api/tickets/:id/photos/:media_id, streaming a
// complaint photo from the Cloud API for the dashboard.
func (h *TicketsHandler) Photo(c *fiber.Ctx) error {
	ticket, err := h.tickets.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	mediaID := c.Params("media_id")
	attached := false
	for _, id := range ticket.Photos {
		if id == mediaID {
			attached = true
			break
		}
	}
	if !attached {
		return fiber.NewError(http.StatusNotFound, "photo not attached to ticket")
	}

	data, err := h.media.DownloadMedia(c.UserContext(), mediaID)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, http.DetectContentType(data))
	return c.Send(data)
}

// Decide handles POST /api/tickets/:id/decision.
func (h *TicketsHandler) Decide(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if !req.Approved && req.Notes == "" {
		return fiber.NewError(http.StatusBadRequest, "rejection requires notes")
	}

	ticket, err := h.tickets.RecordDecision(c.UserContext(), principal.Staff, c.Params("id"), service.DecisionInput{
		Approved:     req.Approved,
		Compensation: req.Compensation,
		Notes:        req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// Complete handles POST /api/tickets/:id/complete.
func (h *TicketsHandler) Complete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	ticket, err := h.tickets.Complete(c.UserContext(), principal.Staff.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// Cancel handles POST /api/tickets/:id/cancel.
func (h *TicketsHandler) Cancel(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	var req dto.CancelRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	ticket, err := h.tickets.Cancel(c.UserContext(), principal.Staff.ID, c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// Assign handles POST /api/tickets/:id/assign.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.TechnicianID == "" {
		return fiber.NewError(http.StatusBadRequest, "technician_id required")
	}
	ticket, err := h.tickets.Assign(c.UserContext(), principal.Staff.ID, c.Params("id"), req.TechnicianID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// Technicians handles GET /api/technicians.
func (h *TicketsHandler) Technicians(c *fiber.Ctx) error {
	list, err := h.tickets.Technicians(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.TechnicianResponse, 0, len(list))
	for i := range list {
		resp = append(resp, dto.TechnicianResponse{
			ID:              list[i].ID,
			EmployeeID:      list[i].EmployeeID,
			Name:            list[i].Name,
			Email:           list[i].Email,
			Active:          list[i].Active,
			CurrentWorkload: list[i].CurrentWorkload,
			MaxWorkload:     list[i].MaxWorkload,
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// TechnicianTickets handles GET /api/technicians/:id/tickets.
func (h *TicketsHandler) TechnicianTickets(c *fiber.Ctx) error {
	techID := c.Params("id")
	tickets, err := h.tickets.List(c.UserContext(), repository.TicketFilter{
		TechnicianID: &techID,
		Statuses:     []domain.TicketStatus{domain.TicketStatusUnderReview},
		Limit:        100,
	})
	if err != nil {
		return err
	}
	resp := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		resp = append(resp, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CustomerTickets handles GET /api/customers/:phone/tickets.
func (h *TicketsHandler) CustomerTickets(c *fiber.Ctx) error {
	phone := c.Params("phone")
	tickets, err := h.tickets.List(c.UserContext(), repository.TicketFilter{
		CustomerPhone: &phone,
		Limit:         50,
	})
	if err != nil {
		return err
	}
	resp := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		resp = append(resp, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Stats handles GET /api/stats.
func (h *TicketsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.tickets.Statistics(c.UserContext())
	if err != nil {
		return err
	}
	_, _, messages := h.metrics.Snapshot()
	return c.JSON(fiber.Map{"data": fiber.Map{
		"tickets": dto.StatisticsResponse{
			ByStatus:     stats.ByStatus,
			CreatedToday: stats.CreatedToday,
			Open:         stats.Open,
			Total:        stats.Total,
		},
		"messages_by_state": messages,
	}})
}

// Overdue handles GET /api/stats/overdue.
func (h *TicketsHandler) Overdue(c *fiber.Ctx) error {
	tickets, err := h.tickets.ListOverdue(c.UserContext(), h.overdueAfter)
	if err != nil {
		return err
	}
	resp := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		resp = append(resp, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

func parseTicketFilter(c *fiber.Ctx) repository.TicketFilter {
	var filter repository.TicketFilter
	if phone := c.Query("customer_phone"); phone != "" {
		filter.CustomerPhone = &phone
	}
	if techID := c.Query("technician_id"); techID != "" {
		filter.TechnicianID = &techID
	}
	if statuses := c.Query("status"); statuses != "" {
		for _, s := range strings.Split(statuses, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.ToUpper(strings.TrimSpace(s))))
		}
	}
	if term := c.Query("search"); term != "" {
		filter.SearchTerm = &term
	}
	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "page_size", 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseIntQuery(c *fiber.Ctx, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultVal
}

func ticketSummary(t *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:            t.ID,
		TicketNumber:  t.TicketNumber,
		CustomerPhone: t.CustomerPhone,
		Product:       t.Product,
		IssueCategory: t.IssueCategory,
		Status:        t.Status,
		Compensation:  t.Compensation,
		TechnicianID:  t.TechnicianID,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func ticketDetail(t *domain.Ticket, history []domain.StatusHistory) dto.TicketDetailResponse {
	resp := dto.TicketDetailResponse{
		ID:            t.ID,
		TicketNumber:  t.TicketNumber,
		CustomerPhone: t.CustomerPhone,
		Product:       t.Product,
		Issue:         t.Issue,
		IssueCategory: t.IssueCategory,
		Photos:        t.Photos,
		Status:        t.Status,
		Compensation:  t.Compensation,
		TechnicianID:  t.TechnicianID,
		ReviewerID:    t.ReviewerID,
		ReviewNotes:   t.ReviewNotes,
		ReviewedAt:    t.ReviewedAt,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
		CompletedAt:   t.CompletedAt,
	}
	for i := range history {
		resp.History = append(resp.History, dto.StatusHistoryResponse{
			OldStatus: history[i].OldStatus,
			NewStatus: history[i].NewStatus,
			ChangedBy: history[i].ChangedBy,
			Reason:    history[i].Reason,
			CreatedAt: history[i].CreatedAt,
		})
	}
	return resp
}
