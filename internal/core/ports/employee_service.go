package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp-platform/employee-service/internal/core/domain"
)

// EmployeeInput carries the full set of employee fields for create and update.
type EmployeeInput struct {
	UserID                uuid.NullUUID
	FirstName             string
	LastName              string
	SocialInsuranceNumber string
	BirthDate             *time.Time
	HireDate              time.Time
	TerminationDate       *time.Time
	EmploymentType        domain.EmploymentType
	Address               *domain.Address
	Salary                decimal.NullDecimal
	PayFrequency          string
	HourlyRate            decimal.NullDecimal
	BenefitsCostMonthly   decimal.NullDecimal
	Actor                 string
}

type EmployeeService interface {
	Create(ctx context.Context, in EmployeeInput) (*domain.Employee, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Employee, error)
	List(ctx context.Context) ([]*domain.Employee, error)
	Update(ctx context.Context, id uuid.UUID, in EmployeeInput) (*domain.Employee, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// WorkHoursInput is the DTO passed from the transport layer to LedgerService.
// ID is only used on update.
type WorkHoursInput struct {
	ID           uuid.UUID
	EmployeeID   uuid.UUID
	ProjectID    *int64
	CostCenterID *int64
	WorkDate     time.Time
	HoursWorked  decimal.NullDecimal
	Description  string
	Actor        string
}

type AllocationInput struct {
	EmployeeID  uuid.UUID
	ProjectID   int64
	StartDate   time.Time
	EndDate     *time.Time
	Description string
	Actor       string
}

// LedgerService records time and project allocations against employees.
type LedgerService interface {
	RegisterWorkHours(ctx context.Context, in WorkHoursInput) (*domain.WorkHourRecord, error)
	UpdateWorkHours(ctx context.Context, in WorkHoursInput) (*domain.WorkHourRecord, error)
	ListWorkHours(ctx context.Context, employeeID uuid.UUID) ([]domain.WorkHourRecord, error)
	Allocate(ctx context.Context, in AllocationInput) (*domain.AllocationRecord, error)
	AllocationHistory(ctx context.Context, employeeID uuid.UUID) ([]domain.AllocationRecord, error)
}
