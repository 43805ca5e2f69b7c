package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/appearly/facegate/internal/domain"
)

// PgxPool is the subset of pgxpool.Pool the repositories use. Declared here
// so tests can substitute pgxmock.
type PgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type EmployeeRepository struct {
	pool PgxPool
}

func NewEmployeeRepository(pool PgxPool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

func (r *EmployeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	query := `
		INSERT INTO employees (id, name, model, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if employee.ID == uuid.Nil {
		employee.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		employee.ID,
		employee.Name,
		employee.Model,
	).Scan(&employee.CreatedAt, &employee.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return &domain.AppError{
				Code:       "EMPLOYEE_ALREADY_EXISTS",
				Message:    fmt.Sprintf("employee %q is already registered", employee.Name),
				StatusCode: 409,
			}
		}
		return fmt.Errorf("create employee: %w", err)
	}

	return nil
}

func (r *EmployeeRepository) GetByName(ctx context.Context, name string) (*domain.Employee, error) {
	query := `
		SELECT id, name, model, created_at, updated_at
		FROM employees
		WHERE name = $1
	`

	var employee domain.Employee
	err := r.pool.QueryRow(ctx, query, name).Scan(
		&employee.ID,
		&employee.Name,
		&employee.Model,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get employee by name: %w", err)
	}

	return &employee, nil
}

func (r *EmployeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	query := `
		SELECT id, name, model, created_at, updated_at
		FROM employees
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var employees []domain.Employee
	for rows.Next() {
		var employee domain.Employee
		if err := rows.Scan(
			&employee.ID,
			&employee.Name,
			&employee.Model,
			&employee.CreatedAt,
			&employee.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, employee)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}

	return employees, nil
}

// DeleteByName removes the identity row. Deleting a name that was never
// committed locally is not an error.
func (r *EmployeeRepository) DeleteByName(ctx context.Context, name string) error {
	query := `DELETE FROM employees WHERE name = $1`

	if _, err := r.pool.Exec(ctx, query, name); err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}

	return nil
}
