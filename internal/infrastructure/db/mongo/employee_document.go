package mongo

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/erp-platform/employee-service/internal/core/domain"
)

// employeeDocument is the stored shape of an employee. Work hours and
// allocations are embedded so every ledger write is a single-document update.
type employeeDocument struct {
	ID          string               `bson:"_id"`
	Fields      employeeFields       `bson:",inline"`
	WorkHours   []workHoursDocument  `bson:"work_hours"`
	Allocations []allocationDocument `bson:"allocations"`
}

// employeeFields are the columns replaced by an update. Optional values are
// stored as null rather than omitted so $set clears them.
type employeeFields struct {
	UserID                *string               `bson:"user_id"`
	FirstName             string                `bson:"first_name"`
	LastName              string                `bson:"last_name"`
	SocialInsuranceNumber *string               `bson:"social_insurance_number"`
	BirthDate             *time.Time            `bson:"birth_date"`
	HireDate              time.Time             `bson:"hire_date"`
	TerminationDate       *time.Time            `bson:"termination_date"`
	EmploymentType        string                `bson:"employment_type"`
	Address               *addressDocument      `bson:"address"`
	Salary                *primitive.Decimal128 `bson:"salary"`
	PayFrequency          string                `bson:"pay_frequency"`
	HourlyRate            *primitive.Decimal128 `bson:"hourly_rate"`
	BenefitsCostMonthly   *primitive.Decimal128 `bson:"benefits_cost_monthly"`
	Audit                 auditDocument         `bson:",inline"`
}

type addressDocument struct {
	Street     string `bson:"street"`
	Number     string `bson:"number"`
	City       string `bson:"city"`
	Province   string `bson:"province"`
	PostalCode string `bson:"postal_code"`
	Country    string `bson:"country"`
}

type auditDocument struct {
	CreatedBy      string    `bson:"created_by"`
	CreatedAt      time.Time `bson:"created_at"`
	LastModifiedBy string    `bson:"last_modified_by"`
	LastModifiedAt time.Time `bson:"last_modified_at"`
}

type workHoursDocument struct {
	ID             string               `bson:"_id"`
	ProjectID      *int64               `bson:"project_id"`
	CostCenterID   *int64               `bson:"cost_center_id"`
	WorkDate       time.Time            `bson:"work_date"`
	HoursWorked    primitive.Decimal128 `bson:"hours_worked"`
	CalculatedCost primitive.Decimal128 `bson:"calculated_cost"`
	Description    string               `bson:"description"`
	Audit          auditDocument        `bson:",inline"`
}

type allocationDocument struct {
	ID          string        `bson:"_id"`
	ProjectID   int64         `bson:"project_id"`
	StartDate   time.Time     `bson:"start_date"`
	EndDate     *time.Time    `bson:"end_date"`
	Description string        `bson:"description"`
	Audit       auditDocument `bson:",inline"`
}

// --- domain → document ---

func newEmployeeDocument(e *domain.Employee) (employeeDocument, error) {
	fields, err := toEmployeeFields(e)
	if err != nil {
		return employeeDocument{}, err
	}
	return employeeDocument{
		ID:          e.ID.String(),
		Fields:      fields,
		WorkHours:   []workHoursDocument{},
		Allocations: []allocationDocument{},
	}, nil
}

func toEmployeeFields(e *domain.Employee) (employeeFields, error) {
	f := employeeFields{
		FirstName:       e.FirstName,
		LastName:        e.LastName,
		BirthDate:       utcPtr(e.BirthDate),
		HireDate:        e.HireDate.UTC(),
		TerminationDate: utcPtr(e.TerminationDate),
		EmploymentType:  string(e.EmploymentType),
		PayFrequency:    e.PayFrequency,
		Audit:           toAuditDocument(e.Audit),
	}
	if e.UserID.Valid {
		s := e.UserID.UUID.String()
		f.UserID = &s
	}
	if e.SocialInsuranceNumber != "" {
		s := e.SocialInsuranceNumber
		f.SocialInsuranceNumber = &s
	}
	if a := e.Address; a != nil {
		f.Address = &addressDocument{
			Street:     a.Street,
			Number:     a.Number,
			City:       a.City,
			Province:   a.Province,
			PostalCode: a.PostalCode,
			Country:    a.Country,
		}
	}

	var err error
	if f.Salary, err = toDecimal128(e.Salary); err != nil {
		return employeeFields{}, fmt.Errorf("salary: %w", err)
	}
	if f.HourlyRate, err = toDecimal128(e.HourlyRate); err != nil {
		return employeeFields{}, fmt.Errorf("hourly rate: %w", err)
	}
	if f.BenefitsCostMonthly, err = toDecimal128(e.BenefitsCostMonthly); err != nil {
		return employeeFields{}, fmt.Errorf("benefits cost: %w", err)
	}
	return f, nil
}

func toWorkHoursDocument(r *domain.WorkHourRecord) (workHoursDocument, error) {
	hours, err := primitive.ParseDecimal128(r.HoursWorked.Decimal.String())
	if err != nil {
		return workHoursDocument{}, fmt.Errorf("hours worked: %w", err)
	}
	cost, err := primitive.ParseDecimal128(r.CalculatedCost.StringFixed(2))
	if err != nil {
		return workHoursDocument{}, fmt.Errorf("calculated cost: %w", err)
	}
	return workHoursDocument{
		ID:             r.ID.String(),
		ProjectID:      r.ProjectID,
		CostCenterID:   r.CostCenterID,
		WorkDate:       r.WorkDate.UTC(),
		HoursWorked:    hours,
		CalculatedCost: cost,
		Description:    r.Description,
		Audit:          toAuditDocument(r.Audit),
	}, nil
}

func toAllocationDocument(a *domain.AllocationRecord) allocationDocument {
	return allocationDocument{
		ID:          a.ID.String(),
		ProjectID:   a.ProjectID,
		StartDate:   a.StartDate.UTC(),
		EndDate:     utcPtr(a.EndDate),
		Description: a.Description,
		Audit:       toAuditDocument(a.Audit),
	}
}

func toAuditDocument(a domain.Audit) auditDocument {
	return auditDocument{
		CreatedBy:      a.CreatedBy,
		CreatedAt:      a.CreatedAt.UTC(),
		LastModifiedBy: a.LastModifiedBy,
		LastModifiedAt: a.LastModifiedAt.UTC(),
	}
}

// --- document → domain ---

func (d employeeDocument) toDomain() (*domain.Employee, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("employee id %q: %w", d.ID, err)
	}
	f := d.Fields
	e := &domain.Employee{
		ID:              id,
		FirstName:       f.FirstName,
		LastName:        f.LastName,
		BirthDate:       f.BirthDate,
		HireDate:        f.HireDate,
		TerminationDate: f.TerminationDate,
		EmploymentType:  domain.EmploymentType(f.EmploymentType),
		PayFrequency:    f.PayFrequency,
		Audit:           f.Audit.toDomain(),
	}
	if f.UserID != nil {
		uid, err := uuid.Parse(*f.UserID)
		if err != nil {
			return nil, fmt.Errorf("user id %q: %w", *f.UserID, err)
		}
		e.UserID = uuid.NullUUID{UUID: uid, Valid: true}
	}
	if f.SocialInsuranceNumber != nil {
		e.SocialInsuranceNumber = *f.SocialInsuranceNumber
	}
	if a := f.Address; a != nil {
		e.Address = &domain.Address{
			Street:     a.Street,
			Number:     a.Number,
			City:       a.City,
			Province:   a.Province,
			PostalCode: a.PostalCode,
			Country:    a.Country,
		}
	}
	if e.Salary, err = fromDecimal128(f.Salary); err != nil {
		return nil, fmt.Errorf("salary: %w", err)
	}
	if e.HourlyRate, err = fromDecimal128(f.HourlyRate); err != nil {
		return nil, fmt.Errorf("hourly rate: %w", err)
	}
	if e.BenefitsCostMonthly, err = fromDecimal128(f.BenefitsCostMonthly); err != nil {
		return nil, fmt.Errorf("benefits cost: %w", err)
	}
	return e, nil
}

func (d workHoursDocument) toDomain(employeeID uuid.UUID) (domain.WorkHourRecord, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.WorkHourRecord{}, fmt.Errorf("work hours id %q: %w", d.ID, err)
	}
	hours, err := fromDecimal128(&d.HoursWorked)
	if err != nil {
		return domain.WorkHourRecord{}, fmt.Errorf("hours worked: %w", err)
	}
	cost, err := fromDecimal128(&d.CalculatedCost)
	if err != nil {
		return domain.WorkHourRecord{}, fmt.Errorf("calculated cost: %w", err)
	}
	return domain.WorkHourRecord{
		ID:             id,
		EmployeeID:     employeeID,
		ProjectID:      d.ProjectID,
		CostCenterID:   d.CostCenterID,
		WorkDate:       d.WorkDate,
		HoursWorked:    hours,
		CalculatedCost: cost.Decimal,
		Description:    d.Description,
		Audit:          d.Audit.toDomain(),
	}, nil
}

func (d allocationDocument) toDomain(employeeID uuid.UUID) (domain.AllocationRecord, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.AllocationRecord{}, fmt.Errorf("allocation id %q: %w", d.ID, err)
	}
	return domain.AllocationRecord{
		ID:          id,
		EmployeeID:  employeeID,
		ProjectID:   d.ProjectID,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		Description: d.Description,
		Audit:       d.Audit.toDomain(),
	}, nil
}

func (d auditDocument) toDomain() domain.Audit {
	return domain.Audit{
		CreatedBy:      d.CreatedBy,
		CreatedAt:      d.CreatedAt,
		LastModifiedBy: d.LastModifiedBy,
		LastModifiedAt: d.LastModifiedAt,
	}
}

// --- helpers ---

func toDecimal128(d decimal.NullDecimal) (*primitive.Decimal128, error) {
	if !d.Valid {
		return nil, nil
	}
	v, err := primitive.ParseDecimal128(d.Decimal.String())
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func fromDecimal128(v *primitive.Decimal128) (decimal.NullDecimal, error) {
	if v == nil {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
