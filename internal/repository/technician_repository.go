package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// TechnicianRepository encapsulates technician persistence.
type TechnicianRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Technician, error)
	List(ctx context.Context) ([]domain.Technician, error)
	// PickAvailable returns the active technician with the lowest
	// workload and spare capacity, or pgx.ErrNoRows.
	PickAvailable(ctx context.Context) (*domain.Technician, error)
	AdjustWorkload(ctx context.Context, id string, delta int) error
}

type technicianRepository struct {
	pool *pgxpool.Pool
}

// NewTechnicianRepository instantiates repository.
func NewTechnicianRepository(pool *pgxpool.Pool) TechnicianRepository {
	return &technicianRepository{pool: pool}
}

const technicianColumns = `id, employee_id, name, email, active, current_workload, max_workload, created_at`

func (r *technicianRepository) GetByID(ctx context.Context, id string) (*domain.Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *technicianRepository) PickAvailable(ctx context.Context) (*domain.Technician, error) {
	query := `
        SELECT ` + technicianColumns + `
        FROM technicians
        WHERE active AND current_workload < max_workload
        ORDER BY current_workload ASC
        LIMIT 1`
	var tech domain.Technician
	if err := r.pool.QueryRow(ctx, query).Scan(
		&tech.ID,
		&tech.EmployeeID,
		&tech.Name,
		&tech.Email,
		&tech.Active,
		&tech.CurrentWorkload,
		&tech.MaxWorkload,
		&tech.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &tech, nil
}

func (r *technicianRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Technician, error) {
	var tech domain.Technician
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&tech.ID,
		&tech.EmployeeID,
		&tech.Name,
		&tech.Email,
		&tech.Active,
		&tech.CurrentWorkload,
		&tech.MaxWorkload,
		&tech.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &tech, nil
}

func (r *technicianRepository) List(ctx context.Context) ([]domain.Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Technician
	for rows.Next() {
		var tech domain.Technician
		if err := rows.Scan(
			&tech.ID,
			&tech.EmployeeID,
			&tech.Name,
			&tech.Email,
			&tech.Active,
			&tech.CurrentWorkload,
			&tech.MaxWorkload,
			&tech.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, tech)
	}
	return result, rows.Err()
}

func (r *technicianRepository) AdjustWorkload(ctx context.Context, id string, delta int) error {
	const query = `
        UPDATE technicians
        SET current_workload = GREATEST(0, current_workload + $1)
        WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, delta, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
