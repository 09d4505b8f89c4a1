package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/service"
)

// ReminderWorker periodically finds tickets stuck in review past the
// overdue window and emits a reminder event for each. MarkReminded keeps
// a ticket from being nagged on every sweep.
type ReminderWorker struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	interval   time.Duration
	overdue    time.Duration
}

// NewReminderWorker builds the worker from config.
func NewReminderWorker(cfg config.ReminderConfig, tickets repository.TicketRepository, dispatcher events.Dispatcher, logger *zap.Logger) *ReminderWorker {
	interval := time.Duration(cfg.IntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = time.Hour
	}
	return &ReminderWorker{
		tickets:    tickets,
		dispatcher: dispatcher,
		logger:     logger,
		interval:   interval,
		overdue:    cfg.Overdue(),
	}
}

// Run loops until the context is cancelled.
func (w *ReminderWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("reminder worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("overdue_after", w.overdue))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("reminder worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ReminderWorker) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-w.overdue)
	pending, err := w.tickets.ListPendingOlderThan(ctx, cutoff)
	if err != nil {
		w.logger.Error("reminder sweep failed", zap.Error(err))
		return
	}

	for _, ticket := range pending {
		now := time.Now()
		if err := w.tickets.MarkReminded(ctx, ticket.ID, now); err != nil {
			w.logger.Error("failed to mark ticket reminded",
				zap.String("ticket_id", ticket.ID), zap.Error(err))
			continue
		}
		_ = w.dispatcher.Publish(ctx, events.Event{
			Type:          events.EventReviewReminderDue,
			TicketID:      ticket.ID,
			TicketNumber:  ticket.TicketNumber,
			CustomerPhone: ticket.CustomerPhone,
			Payload: events.ReviewReminderPayload{
				PendingSince: ticket.CreatedAt,
			},
		})
	}

	if len(pending) > 0 {
		w.logger.Info("review reminders dispatched", zap.Int("count", len(pending)))
	}
}

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
