package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/erp-platform/employee-service/internal/core/domain"
)

// EmployeeStore persists employees and their ledger in PostgreSQL. It
// satisfies both ports.EmployeeRepository and ports.LedgerRepository.
type EmployeeStore struct {
	pool *pgxpool.Pool
}

func NewEmployeeStore(pool *pgxpool.Pool) *EmployeeStore {
	return &EmployeeStore{pool: pool}
}

// Ping reports whether the database answers.
func (s *EmployeeStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// addressRow is the JSONB shape of an employee address.
type addressRow struct {
	Street     string `json:"street,omitempty"`
	Number     string `json:"number,omitempty"`
	City       string `json:"city,omitempty"`
	Province   string `json:"province,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

const employeeColumns = `id, user_id, first_name, last_name, social_insurance_number,
	birth_date, hire_date, termination_date, employment_type, address,
	salary, pay_frequency, hourly_rate, benefits_cost_monthly,
	created_by, created_at, last_modified_by, last_modified_at`

// --- Employees ---

func (s *EmployeeStore) Create(ctx context.Context, e *domain.Employee) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx, `INSERT INTO employees (`+employeeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		e.ID, e.UserID, e.FirstName, e.LastName, nullString(e.SocialInsuranceNumber),
		e.BirthDate, e.HireDate, e.TerminationDate, string(e.EmploymentType), toAddressRow(e.Address),
		e.Salary, nullString(e.PayFrequency), e.HourlyRate, e.BenefitsCostMonthly,
		e.CreatedBy, e.CreatedAt, e.LastModifiedBy, e.LastModifiedAt,
	)
	return translateError(err, nil)
}

func (s *EmployeeStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := s.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
	e, err := scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.EmployeeNotFound(id)
	}
	return e, err
}

func (s *EmployeeStore) List(ctx context.Context) ([]*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *EmployeeStore) Update(ctx context.Context, e *domain.Employee) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `UPDATE employees SET
		user_id = $2, first_name = $3, last_name = $4, social_insurance_number = $5,
		birth_date = $6, hire_date = $7, termination_date = $8, employment_type = $9, address = $10,
		salary = $11, pay_frequency = $12, hourly_rate = $13, benefits_cost_monthly = $14,
		last_modified_by = $15, last_modified_at = $16
		WHERE id = $1`,
		e.ID, e.UserID, e.FirstName, e.LastName, nullString(e.SocialInsuranceNumber),
		e.BirthDate, e.HireDate, e.TerminationDate, string(e.EmploymentType), toAddressRow(e.Address),
		e.Salary, nullString(e.PayFrequency), e.HourlyRate, e.BenefitsCostMonthly,
		e.LastModifiedBy, e.LastModifiedAt,
	)
	if err != nil {
		return translateError(err, nil)
	}
	if tag.RowsAffected() == 0 {
		return domain.EmployeeNotFound(e.ID)
	}
	return nil
}

// Delete removes the employee. Work hours and allocations go with it through
// ON DELETE CASCADE.
func (s *EmployeeStore) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.EmployeeNotFound(id)
	}
	return nil
}

// --- Work hours ---

const workHoursColumns = `id, employee_id, project_id, cost_center_id, work_date,
	hours_worked, calculated_cost, description,
	created_by, created_at, last_modified_by, last_modified_at`

func (s *EmployeeStore) AddWorkHours(ctx context.Context, r *domain.WorkHourRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx, `INSERT INTO work_hours (`+workHoursColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		r.ID, r.EmployeeID, r.ProjectID, r.CostCenterID, r.WorkDate,
		r.HoursWorked, r.CalculatedCost, nullString(r.Description),
		r.CreatedBy, r.CreatedAt, r.LastModifiedBy, r.LastModifiedAt,
	)
	return translateError(err, domain.EmployeeNotFound(r.EmployeeID))
}

func (s *EmployeeStore) FindWorkHours(ctx context.Context, employeeID, id uuid.UUID) (*domain.WorkHourRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := s.pool.QueryRow(ctx, `SELECT `+workHoursColumns+` FROM work_hours
		WHERE id = $1 AND employee_id = $2`, id, employeeID)
	r, err := scanWorkHours(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.WorkHoursNotFound(id)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *EmployeeStore) UpdateWorkHours(ctx context.Context, r *domain.WorkHourRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `UPDATE work_hours SET
		project_id = $3, cost_center_id = $4, work_date = $5,
		hours_worked = $6, calculated_cost = $7, description = $8,
		last_modified_by = $9, last_modified_at = $10
		WHERE id = $1 AND employee_id = $2`,
		r.ID, r.EmployeeID, r.ProjectID, r.CostCenterID, r.WorkDate,
		r.HoursWorked, r.CalculatedCost, nullString(r.Description),
		r.LastModifiedBy, r.LastModifiedAt,
	)
	if err != nil {
		return translateError(err, nil)
	}
	if tag.RowsAffected() == 0 {
		return domain.WorkHoursNotFound(r.ID)
	}
	return nil
}

func (s *EmployeeStore) ListWorkHours(ctx context.Context, employeeID uuid.UUID) ([]domain.WorkHourRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, `SELECT `+workHoursColumns+` FROM work_hours
		WHERE employee_id = $1 ORDER BY work_date, created_at`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.WorkHourRecord{}
	for rows.Next() {
		r, err := scanWorkHours(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// --- Allocations ---

const allocationColumns = `id, employee_id, project_id, start_date, end_date, description,
	created_by, created_at, last_modified_by, last_modified_at`

func (s *EmployeeStore) AddAllocation(ctx context.Context, a *domain.AllocationRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx, `INSERT INTO allocations (`+allocationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.EmployeeID, a.ProjectID, a.StartDate, a.EndDate, nullString(a.Description),
		a.CreatedBy, a.CreatedAt, a.LastModifiedBy, a.LastModifiedAt,
	)
	return translateError(err, domain.EmployeeNotFound(a.EmployeeID))
}

func (s *EmployeeStore) ListAllocations(ctx context.Context, employeeID uuid.UUID) ([]domain.AllocationRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, `SELECT `+allocationColumns+` FROM allocations
		WHERE employee_id = $1 ORDER BY start_date, created_at`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.AllocationRecord{}
	for rows.Next() {
		var (
			a           domain.AllocationRecord
			description *string
		)
		if err := rows.Scan(
			&a.ID, &a.EmployeeID, &a.ProjectID, &a.StartDate, &a.EndDate, &description,
			&a.CreatedBy, &a.CreatedAt, &a.LastModifiedBy, &a.LastModifiedAt,
		); err != nil {
			return nil, err
		}
		a.Description = deref(description)
		out = append(out, a)
	}
	return out, rows.Err()
}

// --- scanning ---

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var (
		e            domain.Employee
		sin, payFreq *string
		employment   string
		address      *addressRow
	)
	err := row.Scan(
		&e.ID, &e.UserID, &e.FirstName, &e.LastName, &sin,
		&e.BirthDate, &e.HireDate, &e.TerminationDate, &employment, &address,
		&e.Salary, &payFreq, &e.HourlyRate, &e.BenefitsCostMonthly,
		&e.CreatedBy, &e.CreatedAt, &e.LastModifiedBy, &e.LastModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	e.SocialInsuranceNumber = deref(sin)
	e.PayFrequency = deref(payFreq)
	e.EmploymentType = domain.EmploymentType(employment)
	e.Address = address.toDomain()
	return &e, nil
}

func scanWorkHours(row pgx.Row) (domain.WorkHourRecord, error) {
	var (
		r           domain.WorkHourRecord
		cost        decimal.Decimal
		description *string
	)
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.ProjectID, &r.CostCenterID, &r.WorkDate,
		&r.HoursWorked, &cost, &description,
		&r.CreatedBy, &r.CreatedAt, &r.LastModifiedBy, &r.LastModifiedAt,
	)
	if err != nil {
		return domain.WorkHourRecord{}, err
	}
	r.CalculatedCost = cost.Round(2)
	r.Description = deref(description)
	return r, nil
}

func toAddressRow(a *domain.Address) *addressRow {
	if a == nil {
		return nil
	}
	return &addressRow{
		Street:     a.Street,
		Number:     a.Number,
		City:       a.City,
		Province:   a.Province,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

func (r *addressRow) toDomain() *domain.Address {
	if r == nil {
		return nil
	}
	return &domain.Address{
		Street:     r.Street,
		Number:     r.Number,
		City:       r.City,
		Province:   r.Province,
		PostalCode: r.PostalCode,
		Country:    r.Country,
	}
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
