package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/erp-platform/employee-service/internal/core/domain"
)

// EmployeeRepository persists the employee aggregate root.
type EmployeeRepository interface {
	Create(ctx context.Context, e *domain.Employee) error
	// FindByID returns domain.ErrEmployeeNotFound when no employee has the id.
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error)
	List(ctx context.Context) ([]*domain.Employee, error)
	// Update replaces the employee's own fields. Work hours and allocations
	// are left untouched.
	Update(ctx context.Context, e *domain.Employee) error
	// Delete removes the employee together with its work hours and allocations.
	Delete(ctx context.Context, id uuid.UUID) error
}

// LedgerRepository persists the work-hour and allocation records owned by an
// employee. Every write is a single atomic operation.
type LedgerRepository interface {
	AddWorkHours(ctx context.Context, r *domain.WorkHourRecord) error
	// FindWorkHours returns domain.ErrWorkHoursNotFound when the record does
	// not exist or belongs to another employee.
	FindWorkHours(ctx context.Context, employeeID, id uuid.UUID) (*domain.WorkHourRecord, error)
	UpdateWorkHours(ctx context.Context, r *domain.WorkHourRecord) error
	ListWorkHours(ctx context.Context, employeeID uuid.UUID) ([]domain.WorkHourRecord, error)

	AddAllocation(ctx context.Context, a *domain.AllocationRecord) error
	ListAllocations(ctx context.Context, employeeID uuid.UUID) ([]domain.AllocationRecord, error)
}
