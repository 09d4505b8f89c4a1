package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/conversation"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/whatsapp"
)

// NotificationService pushes proactive WhatsApp messages to customers
// when ticket events fire. Delivery is best-effort: a send failure is
// logged and never propagated back to the state change that caused it.
type NotificationService struct {
	dispatcher events.Dispatcher
	sender     whatsapp.Sender
	customers  repository.CustomerRepository
	catalog    *conversation.Catalog
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, sender whatsapp.Sender, customers repository.CustomerRepository, catalog *conversation.Catalog, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		sender:     sender,
		customers:  customers,
		catalog:    catalog,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventDecisionRecorded, n.handleDecisionRecorded)
	n.dispatcher.Subscribe(events.EventReviewReminderDue, n.handleReviewReminderDue)
}

func (n *NotificationService) handleDecisionRecorded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.DecisionRecordedPayload)
	if !ok {
		n.logger.Warn("unexpected payload for decision event", zap.String("ticket_id", event.TicketID))
		return nil
	}

	key := conversation.KeyRejected
	params := map[string]string{"ticket_number": event.TicketNumber}
	if payload.Approved {
		key = conversation.KeyDecidedRefund
		if payload.Compensation != nil && *payload.Compensation == domain.CompensationReplacement {
			key = conversation.KeyDecidedReplace
		}
	} else {
		params["reason"] = payload.Notes
	}

	n.send(ctx, event.CustomerPhone, key, params)
	return nil
}

func (n *NotificationService) handleReviewReminderDue(ctx context.Context, event events.Event) error {
	n.send(ctx, event.CustomerPhone, conversation.KeyReviewReminder, map[string]string{
		"ticket_number": event.TicketNumber,
	})
	return nil
}

func (n *NotificationService) send(ctx context.Context, phone string, key conversation.TemplateKey, params map[string]string) {
	lang := domain.LanguageArabic
	if customer, err := n.customers.GetByPhone(ctx, phone); err == nil {
		lang = customer.Language
	}

	text := n.catalog.Render(key, lang, params)
	if err := n.sender.SendText(ctx, phone, text); err != nil {
		n.logger.Warn("notification delivery failed",
			zap.String("phone", phone),
			zap.String("template", string(key)),
			zap.Error(err))
		return
	}
	n.logger.Info("notification sent",
		zap.String("phone", phone),
		zap.String("template", string(key)))
}
