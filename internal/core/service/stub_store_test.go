package service

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/erp-platform/employee-service/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub store implementing EmployeeRepository and LedgerRepository
// ---------------------------------------------------------------------------

type stubStore struct {
	employees   map[uuid.UUID]*domain.Employee
	workHours   map[uuid.UUID][]domain.WorkHourRecord
	allocations map[uuid.UUID][]domain.AllocationRecord

	createErr error // if set, Create returns this error
	writes    int   // number of ledger writes that reached the store
}

func newStubStore() *stubStore {
	return &stubStore{
		employees:   make(map[uuid.UUID]*domain.Employee),
		workHours:   make(map[uuid.UUID][]domain.WorkHourRecord),
		allocations: make(map[uuid.UUID][]domain.AllocationRecord),
	}
}

func (s *stubStore) seed(e domain.Employee) *domain.Employee {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	clone := e
	s.employees[e.ID] = &clone
	return &e
}

func (s *stubStore) Create(_ context.Context, e *domain.Employee) error {
	if s.createErr != nil {
		return s.createErr
	}
	clone := *e
	s.employees[e.ID] = &clone
	return nil
}

func (s *stubStore) FindByID(_ context.Context, id uuid.UUID) (*domain.Employee, error) {
	e, ok := s.employees[id]
	if !ok {
		return nil, domain.EmployeeNotFound(id)
	}
	clone := *e
	return &clone, nil
}

func (s *stubStore) List(_ context.Context) ([]*domain.Employee, error) {
	out := make([]*domain.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		clone := *e
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastName < out[j].LastName })
	return out, nil
}

func (s *stubStore) Update(_ context.Context, e *domain.Employee) error {
	if _, ok := s.employees[e.ID]; !ok {
		return domain.EmployeeNotFound(e.ID)
	}
	clone := *e
	s.employees[e.ID] = &clone
	return nil
}

func (s *stubStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.employees[id]; !ok {
		return domain.EmployeeNotFound(id)
	}
	delete(s.employees, id)
	delete(s.workHours, id)
	delete(s.allocations, id)
	return nil
}

func (s *stubStore) AddWorkHours(_ context.Context, r *domain.WorkHourRecord) error {
	s.writes++
	s.workHours[r.EmployeeID] = append(s.workHours[r.EmployeeID], *r)
	return nil
}

func (s *stubStore) FindWorkHours(_ context.Context, employeeID, id uuid.UUID) (*domain.WorkHourRecord, error) {
	for _, r := range s.workHours[employeeID] {
		if r.ID == id {
			clone := r
			return &clone, nil
		}
	}
	return nil, domain.WorkHoursNotFound(id)
}

func (s *stubStore) UpdateWorkHours(_ context.Context, r *domain.WorkHourRecord) error {
	s.writes++
	records := s.workHours[r.EmployeeID]
	for i := range records {
		if records[i].ID == r.ID {
			records[i] = *r
			return nil
		}
	}
	return domain.WorkHoursNotFound(r.ID)
}

func (s *stubStore) ListWorkHours(_ context.Context, employeeID uuid.UUID) ([]domain.WorkHourRecord, error) {
	return append([]domain.WorkHourRecord(nil), s.workHours[employeeID]...), nil
}

func (s *stubStore) AddAllocation(_ context.Context, a *domain.AllocationRecord) error {
	s.writes++
	s.allocations[a.EmployeeID] = append(s.allocations[a.EmployeeID], *a)
	return nil
}

func (s *stubStore) ListAllocations(_ context.Context, employeeID uuid.UUID) ([]domain.AllocationRecord, error) {
	return append([]domain.AllocationRecord(nil), s.allocations[employeeID]...), nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()
