package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/conversation"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/observability"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/whatsapp"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// WorkflowService drives the complaint conversation: one inbound customer
// message in, one rendered reply out.
type WorkflowService struct {
	sessions   repository.SessionRepository
	customers  repository.CustomerRepository
	messages   repository.MessageRepository
	tickets    *TicketService
	classifier *conversation.Classifier
	machine    *conversation.Machine
	catalog    *conversation.Catalog
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// WorkflowDependencies bundles collaborators for the workflow service.
type WorkflowDependencies struct {
	SessionRepo  repository.SessionRepository
	CustomerRepo repository.CustomerRepository
	MessageRepo  repository.MessageRepository
	Tickets      *TicketService
	Classifier   *conversation.Classifier
	Machine      *conversation.Machine
	Catalog      *conversation.Catalog
	Metrics      *observability.Metrics
	Logger       *zap.Logger
}

// OutboundReply is the rendered response for one inbound message.
type OutboundReply struct {
	Text     string
	Language domain.Language
	State    domain.ConversationState
}

// NewWorkflowService constructs the service.
func NewWorkflowService(deps WorkflowDependencies) *WorkflowService {
	return &WorkflowService{
		sessions:   deps.SessionRepo,
		customers:  deps.CustomerRepo,
		messages:   deps.MessageRepo,
		tickets:    deps.Tickets,
		classifier: deps.Classifier,
		machine:    deps.Machine,
		catalog:    deps.Catalog,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		now:        time.Now,
	}
}

// HandleMessage processes one inbound customer message and returns the
// reply to deliver. Session state is persisted only after every effect of
// the step succeeded, so a storage failure leaves the conversation where
// it was.
func (s *WorkflowService) HandleMessage(ctx context.Context, in whatsapp.InboundMessage) (*OutboundReply, error) {
	customer, err := s.loadOrCreateCustomer(ctx, in)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Get(ctx, in.From)
	if err == repository.ErrSessionNotFound {
		session = domain.NewSession(in.From, customer.Language, s.now())
	} else if err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}

	inbound := conversation.Inbound{Text: in.Text, Attachments: in.Attachments}
	intent := s.classifier.Classify(session.State, inbound)
	outcome := s.machine.Step(*session, intent, inbound)

	params := outcome.Params
	replyKey := outcome.Reply

	switch outcome.Effect.Kind {
	case conversation.EffectCreateTicket:
		ticket, err := s.tickets.CreateFromDraft(ctx, session.Phone, outcome.Effect.Draft)
		if err != nil {
			return nil, err
		}
		params = map[string]string{"ticket_number": ticket.TicketNumber}
	case conversation.EffectLookupStatus:
		ticket, err := s.tickets.LatestForCustomer(ctx, session.Phone)
		if err != nil {
			return nil, err
		}
		if ticket == nil {
			replyKey = conversation.KeyNoTickets
		} else {
			params = map[string]string{
				"ticket_number": ticket.TicketNumber,
				"status":        StatusLabel(ticket.Status, outcome.Language),
				"product":       ticket.Product,
			}
		}
	}

	session.State = outcome.Next
	session.Draft = outcome.Draft
	session.Language = outcome.Language
	session.UpdatedAt = s.now()
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}

	if customer.Language != outcome.Language {
		customer.Language = outcome.Language
		if err := s.customers.Update(ctx, customer); err != nil {
			s.logger.Warn("failed to persist customer language",
				zap.String("phone", customer.Phone), zap.Error(err))
		}
	}

	reply := &OutboundReply{
		Text:     s.catalog.Render(replyKey, outcome.Language, params),
		Language: outcome.Language,
		State:    outcome.Next,
	}
	s.recordHistory(ctx, in, reply)
	s.metrics.RecordMessage(string(outcome.Next))
	return reply, nil
}

// ConversationHistory returns recent messages exchanged with a customer.
func (s *WorkflowService) ConversationHistory(ctx context.Context, phone string, limit int) ([]domain.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	msgs, err := s.messages.ListByCustomer(ctx, phone, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return msgs, nil
}

// GetCustomer fetches a customer profile by phone.
func (s *WorkflowService) GetCustomer(ctx context.Context, phone string) (*domain.Customer, error) {
	customer, err := s.customers.GetByPhone(ctx, phone)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("customer", map[string]any{"phone": phone})
		}
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

func (s *WorkflowService) loadOrCreateCustomer(ctx context.Context, in whatsapp.InboundMessage) (*domain.Customer, error) {
	customer, err := s.customers.GetByPhone(ctx, in.From)
	if err == nil {
		return customer, nil
	}
	if err != pgx.ErrNoRows {
		return nil, apperrors.NewPersistenceFailure(err)
	}

	customer = &domain.Customer{
		Phone:    in.From,
		Language: conversation.DetectLanguage(in.Text),
	}
	if in.ContactName != "" {
		name := in.ContactName
		customer.Name = &name
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}
	return customer, nil
}

// recordHistory persists the exchange. History is best-effort; a write
// failure does not fail the conversation turn.
func (s *WorkflowService) recordHistory(ctx context.Context, in whatsapp.InboundMessage, reply *OutboundReply) {
	inMsg := &domain.Message{
		CustomerPhone: in.From,
		Direction:     domain.DirectionInbound,
		MessageType:   domain.MessageTypeText,
		Body:          in.Text,
	}
	if len(in.Attachments) > 0 {
		inMsg.MessageType = domain.MessageTypeImage
		mediaID := in.Attachments[0].ID
		inMsg.MediaID = &mediaID
	}
	if err := s.messages.Create(ctx, inMsg); err != nil {
		s.logger.Warn("failed to record inbound message",
			zap.String("phone", in.From), zap.Error(err))
	}

	outMsg := &domain.Message{
		CustomerPhone: in.From,
		Direction:     domain.DirectionOutbound,
		MessageType:   domain.MessageTypeText,
		Body:          reply.Text,
	}
	if err := s.messages.Create(ctx, outMsg); err != nil {
		s.logger.Warn("failed to record outbound message",
			zap.String("phone", in.From), zap.Error(err))
	}
}

var statusLabels = map[domain.TicketStatus]map[domain.Language]string{
	domain.TicketStatusNew: {
		domain.LanguageArabic:  "جديدة",
		domain.LanguageEnglish: "New",
	},
	domain.TicketStatusUnderReview: {
		domain.LanguageArabic:  "قيد المراجعة",
		domain.LanguageEnglish: "Under review",
	},
	domain.TicketStatusDecided: {
		domain.LanguageArabic:  "تم البت",
		domain.LanguageEnglish: "Decided",
	},
	domain.TicketStatusCompleted: {
		domain.LanguageArabic:  "مكتملة",
		domain.LanguageEnglish: "Completed",
	},
	domain.TicketStatusCancelled: {
		domain.LanguageArabic:  "ملغاة",
		domain.LanguageEnglish: "Cancelled",
	},
}

// StatusLabel renders a ticket status for customer-facing messages.
func StatusLabel(status domain.TicketStatus, lang domain.Language) string {
	if labels, ok := statusLabels[status]; ok {
		if label, ok := labels[lang]; ok {
			return label
		}
		return labels[domain.LanguageArabic]
	}
	return string(status)
}
