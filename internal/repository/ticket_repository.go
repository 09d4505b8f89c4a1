package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// TicketFilter captures dashboard search parameters.
type TicketFilter struct {
	CustomerPhone *string
	TechnicianID  *string
	Statuses      []domain.TicketStatus
	SearchTerm    *string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	Limit         int
	Offset        int
}

// NumberAllocator hands out unique, monotonically increasing ticket
// sequence values per year.
type NumberAllocator interface {
	Next(ctx context.Context, year int) (int64, error)
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	NumberAllocator
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByNumber(ctx context.Context, number string) (*domain.Ticket, error)
	LatestByCustomer(ctx context.Context, phone string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.Ticket, error)
	MarkReminded(ctx context.Context, id string, at time.Time) error
	CountByStatus(ctx context.Context) (map[domain.TicketStatus]int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

// Next reserves the next ticket sequence number for the year. The upsert
// makes allocation atomic, so numbers are unique and strictly increasing.
func (r *ticketRepository) Next(ctx context.Context, year int) (int64, error) {
	const query = `
        INSERT INTO ticket_sequences (year, last_value) VALUES ($1, 1)
        ON CONFLICT (year) DO UPDATE SET last_value = ticket_sequences.last_value + 1
        RETURNING last_value`
	var value int64
	if err := r.pool.QueryRow(ctx, query, year).Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}

const ticketColumns = `id, ticket_number, customer_phone, product, issue, issue_category,
               photos, status, compensation, technician_id, reviewer_id, review_notes,
               reviewed_at, reminded_at, created_at, updated_at, completed_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (ticket_number, customer_phone, product, issue, issue_category, photos, status, compensation, technician_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.TicketNumber,
		ticket.CustomerPhone,
		ticket.Product,
		ticket.Issue,
		ticket.IssueCategory,
		ticket.Photos,
		ticket.Status,
		ticket.Compensation,
		ticket.TechnicianID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET status=$1, compensation=$2, technician_id=$3, reviewer_id=$4,
            review_notes=$5, reviewed_at=$6, reminded_at=$7, completed_at=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Status,
		ticket.Compensation,
		ticket.TechnicianID,
		ticket.ReviewerID,
		ticket.ReviewNotes,
		ticket.ReviewedAt,
		ticket.RemindedAt,
		ticket.CompletedAt,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) GetByNumber(ctx context.Context, number string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE ticket_number=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, number)
}

func (r *ticketRepository) LatestByCustomer(ctx context.Context, phone string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE customer_phone=$1 ORDER BY created_at DESC LIMIT 1`, ticketColumns)
	return r.fetchSingle(ctx, query, phone)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&ticket.ID,
		&ticket.TicketNumber,
		&ticket.CustomerPhone,
		&ticket.Product,
		&ticket.Issue,
		&ticket.IssueCategory,
		&ticket.Photos,
		&ticket.Status,
		&ticket.Compensation,
		&ticket.TechnicianID,
		&ticket.ReviewerID,
		&ticket.ReviewNotes,
		&ticket.ReviewedAt,
		&ticket.RemindedAt,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.CompletedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := fmt.Sprintf(`SELECT %s FROM tickets`, ticketColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CustomerPhone != nil {
		args = append(args, *filter.CustomerPhone)
		clauses = append(clauses, fmt.Sprintf("customer_phone=$%d", len(args)))
	}
	if filter.TechnicianID != nil {
		args = append(args, *filter.TechnicianID)
		clauses = append(clauses, fmt.Sprintf("technician_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(product) LIKE %s OR LOWER(issue) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.Ticket, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM tickets
        WHERE status=$1 AND created_at < $2 AND reminded_at IS NULL
        ORDER BY created_at ASC`, ticketColumns)
	rows, err := r.pool.Query(ctx, query, domain.TicketStatusUnderReview, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) MarkReminded(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE tickets SET reminded_at=$1, updated_at=NOW() WHERE id=$2`
	_, err := r.pool.Exec(ctx, query, at, id)
	return err
}

func (r *ticketRepository) CountByStatus(ctx context.Context) (map[domain.TicketStatus]int64, error) {
	const query = `SELECT status, COUNT(*) FROM tickets GROUP BY status`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.TicketStatus]int64)
	for rows.Next() {
		var status domain.TicketStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *ticketRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE created_at >= $1`
	var count int64
	err := r.pool.QueryRow(ctx, query, since).Scan(&count)
	return count, err
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.TicketNumber,
			&ticket.CustomerPhone,
			&ticket.Product,
			&ticket.Issue,
			&ticket.IssueCategory,
			&ticket.Photos,
			&ticket.Status,
			&ticket.Compensation,
			&ticket.TechnicianID,
			&ticket.ReviewerID,
			&ticket.ReviewNotes,
			&ticket.ReviewedAt,
			&ticket.RemindedAt,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
			&ticket.CompletedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
