package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// MessageRepository stores the per-customer conversation history.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	ListByCustomer(ctx context.Context, phone string, limit int) ([]domain.Message, error)
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository instantiates repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	const query = `
        INSERT INTO messages (customer_phone, ticket_id, direction, message_type, body, media_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		message.CustomerPhone,
		message.TicketID,
		message.Direction,
		message.MessageType,
		message.Body,
		message.MediaID,
	).Scan(&message.ID, &message.CreatedAt)
}

func (r *messageRepository) ListByCustomer(ctx context.Context, phone string, limit int) ([]domain.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	const query = `
        SELECT id, customer_phone, ticket_id, direction, message_type, body, media_id, created_at
        FROM messages WHERE customer_phone=$1
        ORDER BY created_at ASC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, phone, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.CustomerPhone,
			&msg.TicketID,
			&msg.Direction,
			&msg.MessageType,
			&msg.Body,
			&msg.MediaID,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}
