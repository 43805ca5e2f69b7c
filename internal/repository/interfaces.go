package repository

import (
	"context"

	"github.com/appearly/facegate/internal/domain"
)

// EmployeeRepositoryInterface defines operations for employee identity data access
type EmployeeRepositoryInterface interface {
	Create(ctx context.Context, employee *domain.Employee) error
	GetByName(ctx context.Context, name string) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
	DeleteByName(ctx context.Context, name string) error
}
