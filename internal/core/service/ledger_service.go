package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/erp-platform/employee-service/internal/api/metrics"
	"github.com/erp-platform/employee-service/internal/core/domain"
	"github.com/erp-platform/employee-service/internal/core/ports"
)

const (
	recordWorkHours  = "work_hours"
	recordAllocation = "allocation"
)

type LedgerService struct {
	employees ports.EmployeeRepository
	ledger    ports.LedgerRepository
	logger    zerolog.Logger
	now       func() time.Time
}

func NewLedgerService(employees ports.EmployeeRepository, ledger ports.LedgerRepository, logger zerolog.Logger) *LedgerService {
	return &LedgerService{employees: employees, ledger: ledger, logger: logger, now: time.Now}
}

// RegisterWorkHours validates a new entry, derives its cost from the owning
// employee's hourly rate and stores it.
func (s *LedgerService) RegisterWorkHours(ctx context.Context, in ports.WorkHoursInput) (*domain.WorkHourRecord, error) {
	// 1. Resolve the owner once; the record keeps a reference to it.
	employee, err := s.employees.FindByID(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}

	// 2. Validate and derive cost immediately before the write.
	r := &domain.WorkHourRecord{
		ID:           uuid.New(),
		ProjectID:    in.ProjectID,
		CostCenterID: in.CostCenterID,
		WorkDate:     in.WorkDate,
		HoursWorked:  in.HoursWorked,
		Description:  in.Description,
	}
	if err := domain.PrepareWorkHours(r, employee); err != nil {
		s.reject(recordWorkHours, in.EmployeeID, err)
		return nil, err
	}
	r.Touch(in.Actor, s.now().UTC())

	// 3. Persist in a single write.
	if err := s.ledger.AddWorkHours(ctx, r); err != nil {
		return nil, fmt.Errorf("register work hours: %w", err)
	}

	metrics.WorkHoursCostTotal.Add(r.CalculatedCost.InexactFloat64())
	s.logger.Info().
		Str("employee_id", employee.ID.String()).
		Str("work_hours_id", r.ID.String()).
		Str("hours", r.HoursWorked.Decimal.String()).
		Str("cost", r.CalculatedCost.StringFixed(2)).
		Msg("work hours registered")
	return r, nil
}

// UpdateWorkHours replaces an existing entry. The owning employee cannot
// change and the cost is derived again from the current hourly rate.
func (s *LedgerService) UpdateWorkHours(ctx context.Context, in ports.WorkHoursInput) (*domain.WorkHourRecord, error) {
	employee, err := s.employees.FindByID(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	existing, err := s.ledger.FindWorkHours(ctx, in.EmployeeID, in.ID)
	if err != nil {
		return nil, err
	}

	r := &domain.WorkHourRecord{
		ID:           existing.ID,
		ProjectID:    in.ProjectID,
		CostCenterID: in.CostCenterID,
		WorkDate:     in.WorkDate,
		HoursWorked:  in.HoursWorked,
		Description:  in.Description,
		Audit:        existing.Audit,
	}
	if err := domain.PrepareWorkHours(r, employee); err != nil {
		s.reject(recordWorkHours, in.EmployeeID, err)
		return nil, err
	}
	r.Touch(in.Actor, s.now().UTC())

	if err := s.ledger.UpdateWorkHours(ctx, r); err != nil {
		return nil, fmt.Errorf("update work hours: %w", err)
	}

	s.logger.Info().
		Str("employee_id", employee.ID.String()).
		Str("work_hours_id", r.ID.String()).
		Msg("work hours updated")
	return r, nil
}

func (s *LedgerService) ListWorkHours(ctx context.Context, employeeID uuid.UUID) ([]domain.WorkHourRecord, error) {
	if _, err := s.employees.FindByID(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.ledger.ListWorkHours(ctx, employeeID)
}

// Allocate assigns the employee to a project. The period must be ordered and
// must not overlap another allocation on the same project.
func (s *LedgerService) Allocate(ctx context.Context, in ports.AllocationInput) (*domain.AllocationRecord, error) {
	employee, err := s.employees.FindByID(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	existing, err := s.ledger.ListAllocations(ctx, in.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("allocate: %w", err)
	}

	a := &domain.AllocationRecord{
		ID:          uuid.New(),
		ProjectID:   in.ProjectID,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Description: in.Description,
	}
	if err := domain.PrepareAllocation(a, employee, existing); err != nil {
		s.reject(recordAllocation, in.EmployeeID, err)
		return nil, err
	}
	a.Touch(in.Actor, s.now().UTC())

	if err := s.ledger.AddAllocation(ctx, a); err != nil {
		return nil, fmt.Errorf("allocate: %w", err)
	}

	s.logger.Info().
		Str("employee_id", employee.ID.String()).
		Int64("project_id", a.ProjectID).
		Msg("employee allocated")
	return a, nil
}

func (s *LedgerService) AllocationHistory(ctx context.Context, employeeID uuid.UUID) ([]domain.AllocationRecord, error) {
	if _, err := s.employees.FindByID(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.ledger.ListAllocations(ctx, employeeID)
}

func (s *LedgerService) reject(record string, employeeID uuid.UUID, err error) {
	reason := rejectionReason(err)
	metrics.LedgerRejectionsTotal.WithLabelValues(record, reason).Inc()
	s.logger.Warn().
		Err(err).
		Str("record", record).
		Str("reason", reason).
		Str("employee_id", employeeID.String()).
		Msg("ledger write rejected")
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidAllocationTarget):
		return "invalid_target"
	case errors.Is(err, domain.ErrInvalidHours):
		return "invalid_hours"
	case errors.Is(err, domain.ErrInvalidProject):
		return "invalid_project"
	case errors.Is(err, domain.ErrInvalidPeriod):
		return "invalid_period"
	case errors.Is(err, domain.ErrOverlappingAllocation):
		return "overlap"
	default:
		return "invalid"
	}
}
