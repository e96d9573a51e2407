package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/erp-platform/employee-service/internal/api/metrics"
	"github.com/erp-platform/employee-service/internal/core/domain"
	"github.com/erp-platform/employee-service/internal/core/ports"
)

type EmployeeService struct {
	repo   ports.EmployeeRepository
	ledger ports.LedgerRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewEmployeeService(repo ports.EmployeeRepository, ledger ports.LedgerRepository, logger zerolog.Logger) *EmployeeService {
	return &EmployeeService{repo: repo, ledger: ledger, logger: logger, now: time.Now}
}

// Create registers a new employee with a server-generated id.
func (s *EmployeeService) Create(ctx context.Context, in ports.EmployeeInput) (*domain.Employee, error) {
	e := &domain.Employee{ID: uuid.New()}
	applyEmployeeInput(e, in)
	if err := e.Validate(); err != nil {
		return nil, err
	}
	e.Touch(in.Actor, s.now().UTC())

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}

	metrics.EmployeesCreatedTotal.WithLabelValues(string(e.EmploymentType)).Inc()
	s.logger.Info().Str("employee_id", e.ID.String()).Str("actor", e.CreatedBy).Msg("employee created")
	return e, nil
}

func (s *EmployeeService) Get(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *EmployeeService) List(ctx context.Context) ([]*domain.Employee, error) {
	return s.repo.List(ctx)
}

// Update replaces the employee's own fields. Identity, creation audit and
// owned records are kept, so repeating the same update converges.
func (s *EmployeeService) Update(ctx context.Context, id uuid.UUID, in ports.EmployeeInput) (*domain.Employee, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyEmployeeInput(e, in)
	if err := e.Validate(); err != nil {
		return nil, err
	}
	e.Touch(in.Actor, s.now().UTC())

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("update employee: %w", err)
	}

	s.logger.Info().Str("employee_id", e.ID.String()).Str("actor", e.LastModifiedBy).Msg("employee updated")
	return e, nil
}

// Delete removes an employee and its records. Employees with an allocation
// that has not ended yet cannot be deleted.
func (s *EmployeeService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	allocations, err := s.ledger.ListAllocations(ctx, id)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	today := domain.Today(s.now())
	for _, a := range allocations {
		if a.ActiveOn(today) {
			s.logger.Warn().Str("employee_id", id.String()).Str("allocation_id", a.ID.String()).Msg("delete refused, active allocation")
			return domain.ErrEmployeeHasActiveAllocations
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}

	s.logger.Info().Str("employee_id", id.String()).Msg("employee deleted")
	return nil
}

func applyEmployeeInput(e *domain.Employee, in ports.EmployeeInput) {
	e.UserID = in.UserID
	e.FirstName = in.FirstName
	e.LastName = in.LastName
	e.SocialInsuranceNumber = in.SocialInsuranceNumber
	e.BirthDate = in.BirthDate
	e.HireDate = in.HireDate
	e.TerminationDate = in.TerminationDate
	e.EmploymentType = in.EmploymentType
	e.Address = in.Address
	e.Salary = in.Salary
	e.PayFrequency = in.PayFrequency
	e.HourlyRate = in.HourlyRate
	e.BenefitsCostMonthly = in.BenefitsCostMonthly
}
