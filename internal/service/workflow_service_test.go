package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/conversation"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/observability"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/whatsapp"
)

type fakeSessionRepo struct {
	sessions map[string]domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]domain.Session)}
}

func (r *fakeSessionRepo) Get(_ context.Context, phone string) (*domain.Session, error) {
	session, ok := r.sessions[phone]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return &session, nil
}

func (r *fakeSessionRepo) Save(_ context.Context, session *domain.Session) error {
	r.sessions[session.Phone] = *session
	return nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, phone string) error {
	delete(r.sessions, phone)
	return nil
}

type fakeCustomerRepo struct {
	customers map[string]domain.Customer
	nextID    int
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[string]domain.Customer)}
}

func (r *fakeCustomerRepo) GetByPhone(_ context.Context, phone string) (*domain.Customer, error) {
	customer, ok := r.customers[phone]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &customer, nil
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *domain.Customer) error {
	r.nextID++
	customer.ID = fmt.Sprintf("customer-%d", r.nextID)
	customer.CreatedAt = time.Now()
	customer.UpdatedAt = customer.CreatedAt
	r.customers[customer.Phone] = *customer
	return nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, customer *domain.Customer) error {
	if _, ok := r.customers[customer.Phone]; !ok {
		return pgx.ErrNoRows
	}
	r.customers[customer.Phone] = *customer
	return nil
}

type fakeMessageRepo struct {
	messages []domain.Message
}

func (r *fakeMessageRepo) Create(_ context.Context, message *domain.Message) error {
	message.ID = "message"
	message.CreatedAt = time.Now()
	r.messages = append(r.messages, *message)
	return nil
}

func (r *fakeMessageRepo) ListByCustomer(_ context.Context, phone string, limit int) ([]domain.Message, error) {
	var result []domain.Message
	for _, msg := range r.messages {
		if msg.CustomerPhone == phone {
			result = append(result, msg)
		}
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

type workflowFixture struct {
	svc       *WorkflowService
	sessions  *fakeSessionRepo
	customers *fakeCustomerRepo
	messages  *fakeMessageRepo
	tickets   *ticketFixture
}

func newWorkflowFixture(technicians ...domain.Technician) *workflowFixture {
	tickets := newTicketFixture(technicians...)
	sessions := newFakeSessionRepo()
	customers := newFakeCustomerRepo()
	messages := &fakeMessageRepo{}
	svc := NewWorkflowService(WorkflowDependencies{
		SessionRepo:  sessions,
		CustomerRepo: customers,
		MessageRepo:  messages,
		Tickets:      tickets.svc,
		Classifier:   conversation.NewClassifier(true),
		Machine:      conversation.NewMachine(),
		Catalog:      conversation.NewCatalog(),
		Metrics:      observability.NewMetrics(),
		Logger:       zap.NewNop(),
	})
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	return &workflowFixture{svc: svc, sessions: sessions, customers: customers, messages: messages, tickets: tickets}
}

func (f *workflowFixture) send(t *testing.T, in whatsapp.InboundMessage) *OutboundReply {
	t.Helper()
	reply, err := f.svc.HandleMessage(context.Background(), in)
	if err != nil {
		t.Fatalf("HandleMessage(%q): %v", in.Text, err)
	}
	return reply
}

func textMessage(phone, text string) whatsapp.InboundMessage {
	return whatsapp.InboundMessage{MessageID: "wamid.x", From: phone, Type: "text", Text: text}
}

func TestHandleMessageFullComplaintFlow(t *testing.T) {
	const phone = "+201001234567"
	fx := newWorkflowFixture(availableTech("tech-1"))

	reply := fx.send(t, whatsapp.InboundMessage{
		MessageID: "wamid.1", From: phone, ContactName: "Mona", Type: "text", Text: "hello",
	})
	if reply.State != domain.StateAwaitingMenuChoice {
		t.Fatalf("state after greeting = %s", reply.State)
	}
	if reply.Language != domain.LanguageEnglish {
		t.Fatalf("language = %s, want en for a latin greeting", reply.Language)
	}

	customer, ok := fx.customers.customers[phone]
	if !ok {
		t.Fatal("customer not created on first contact")
	}
	if customer.Name == nil || *customer.Name != "Mona" {
		t.Errorf("customer name = %v, want Mona", customer.Name)
	}

	fx.send(t, textMessage(phone, "1"))
	fx.send(t, textMessage(phone, "exterior paint"))
	fx.send(t, textMessage(phone, "the paint is too thick"))

	reply = fx.send(t, whatsapp.InboundMessage{
		MessageID: "wamid.5", From: phone, Type: "image",
		Attachments: []domain.MediaRef{{ID: "media-9", MimeType: "image/jpeg"}},
	})
	if reply.State != domain.StateAwaitingConfirmation {
		t.Fatalf("state after photo = %s", reply.State)
	}

	reply = fx.send(t, textMessage(phone, "yes"))
	if reply.State != domain.StateIdle {
		t.Errorf("state after confirmation = %s, want idle", reply.State)
	}
	if !strings.Contains(reply.Text, "TKT-2026-00001") {
		t.Errorf("reply %q does not carry the ticket number", reply.Text)
	}

	ticket, err := fx.tickets.svc.GetByNumber(context.Background(), "TKT-2026-00001")
	if err != nil {
		t.Fatalf("GetByNumber: %v", err)
	}
	if ticket.Product != "exterior paint" || ticket.Issue != "the paint is too thick" {
		t.Errorf("ticket = %+v", ticket)
	}
	if len(ticket.Photos) != 1 || ticket.Photos[0] != "media-9" {
		t.Errorf("photos = %v", ticket.Photos)
	}
	// Thick paint with photo evidence auto-approves a refund.
	if ticket.Status != domain.TicketStatusDecided {
		t.Errorf("ticket status = %s", ticket.Status)
	}

	session := fx.sessions.sessions[phone]
	if !session.Draft.Empty() {
		t.Errorf("draft not cleared after ticket creation: %+v", session.Draft)
	}

	history, err := fx.svc.ConversationHistory(context.Background(), phone, 0)
	if err != nil {
		t.Fatalf("ConversationHistory: %v", err)
	}
	if len(history) != 12 {
		t.Errorf("history length = %d, want 12 (six exchanges)", len(history))
	}
	if history[0].Direction != domain.DirectionInbound {
		t.Errorf("first history entry direction = %s", history[0].Direction)
	}
}

func TestHandleMessageStatusCheckWithoutTickets(t *testing.T) {
	const phone = "+201002223334"
	fx := newWorkflowFixture()

	reply := fx.send(t, textMessage(phone, "status"))
	if reply.State != domain.StateIdle {
		t.Errorf("state = %s, want idle", reply.State)
	}
	if !strings.Contains(reply.Text, "No previous complaints") {
		t.Errorf("reply = %q, want the no-tickets message", reply.Text)
	}
}

func TestHandleMessageStatusCheckReportsLatestTicket(t *testing.T) {
	const phone = "+201002223334"
	fx := newWorkflowFixture()

	if _, err := fx.tickets.svc.CreateFromDraft(context.Background(), phone,
		domain.Draft{Product: "primer", Issue: "it is damaged", Photos: []string{"m1"}}); err != nil {
		t.Fatalf("CreateFromDraft: %v", err)
	}

	reply := fx.send(t, textMessage(phone, "status"))
	if !strings.Contains(reply.Text, "TKT-2026-00001") {
		t.Errorf("reply %q does not name the ticket", reply.Text)
	}
	if !strings.Contains(reply.Text, "primer") {
		t.Errorf("reply %q does not name the product", reply.Text)
	}
}

func TestHandleMessagePersistsLanguageSwitch(t *testing.T) {
	const phone = "+201005556667"
	fx := newWorkflowFixture()

	fx.send(t, textMessage(phone, "hello"))
	reply := fx.send(t, textMessage(phone, "عربي"))
	if reply.Language != domain.LanguageArabic {
		t.Fatalf("language = %s, want ar", reply.Language)
	}
	if got := fx.customers.customers[phone].Language; got != domain.LanguageArabic {
		t.Errorf("customer language = %s, want ar", got)
	}
}

func TestHandleMessageImageRecordedAsMedia(t *testing.T) {
	const phone = "+201007778889"
	fx := newWorkflowFixture()

	fx.send(t, whatsapp.InboundMessage{
		MessageID: "wamid.m", From: phone, Type: "image",
		Attachments: []domain.MediaRef{{ID: "media-3", MimeType: "image/jpeg"}},
	})

	if len(fx.messages.messages) < 1 {
		t.Fatal("no messages recorded")
	}
	inbound := fx.messages.messages[0]
	if inbound.MessageType != domain.MessageTypeImage {
		t.Errorf("message type = %s, want IMAGE", inbound.MessageType)
	}
	if inbound.MediaID == nil || *inbound.MediaID != "media-3" {
		t.Errorf("media id = %v, want media-3", inbound.MediaID)
	}
}

func TestStatusLabelFallsBackToArabic(t *testing.T) {
	if got := StatusLabel(domain.TicketStatusUnderReview, domain.LanguageEnglish); got != "Under review" {
		t.Errorf("label = %q", got)
	}
	if got := StatusLabel(domain.TicketStatusUnderReview, domain.Language("fr")); got != "قيد المراجعة" {
		t.Errorf("fallback label = %q", got)
	}
}
