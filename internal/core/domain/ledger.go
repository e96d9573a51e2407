package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// MaxHoursPerEntry bounds a single work-hour entry to one day.
	MaxHoursPerEntry = 24
	// moneyScale is the number of decimal places kept for hours and amounts.
	moneyScale = 2
)

var maxHours = decimal.NewFromInt(MaxHoursPerEntry)

// WorkHourRecord is time booked by an employee against exactly one of a
// project or a cost center.
type WorkHourRecord struct {
	ID             uuid.UUID
	EmployeeID     uuid.UUID
	ProjectID      *int64
	CostCenterID   *int64
	WorkDate       time.Time
	HoursWorked    decimal.NullDecimal
	CalculatedCost decimal.Decimal
	Description    string
	Audit
}

// Validate checks target exclusivity and the hours bound. It does not look at
// the owning employee.
func (r WorkHourRecord) Validate() error {
	hasProject := r.ProjectID != nil
	hasCostCenter := r.CostCenterID != nil
	if hasProject == hasCostCenter {
		return NewValidationError(ErrInvalidAllocationTarget, map[string]string{
			"projectId":    "exactly one of projectId or costCenterId is required",
			"costCenterId": "exactly one of projectId or costCenterId is required",
		})
	}
	if hasProject && *r.ProjectID <= 0 {
		return NewValidationError(ErrInvalidAllocationTarget, map[string]string{
			"projectId": "must be a positive identifier",
		})
	}
	if hasCostCenter && *r.CostCenterID <= 0 {
		return NewValidationError(ErrInvalidAllocationTarget, map[string]string{
			"costCenterId": "must be a positive identifier",
		})
	}

	switch {
	case !r.HoursWorked.Valid:
		return NewValidationError(ErrInvalidHours, map[string]string{"hoursWorked": "is required"})
	case !r.HoursWorked.Decimal.IsPositive():
		return NewValidationError(ErrInvalidHours, map[string]string{"hoursWorked": "must be greater than zero"})
	case r.HoursWorked.Decimal.GreaterThan(maxHours):
		return NewValidationError(ErrInvalidHours, map[string]string{"hoursWorked": "must not exceed 24"})
	case !r.HoursWorked.Decimal.Equal(r.HoursWorked.Decimal.Round(moneyScale)):
		return NewValidationError(ErrInvalidHours, map[string]string{"hoursWorked": "must have at most 2 decimal places"})
	}

	if r.WorkDate.IsZero() {
		return NewValidationError(nil, map[string]string{"workDate": "is required"})
	}
	return nil
}

// DeriveCost returns hours × rate rounded half-up to two places, or zero when
// the rate is absent or not positive.
func DeriveCost(hours decimal.Decimal, rate decimal.NullDecimal) decimal.Decimal {
	if !rate.Valid || !rate.Decimal.IsPositive() {
		return decimal.New(0, -moneyScale)
	}
	return hours.Mul(rate.Decimal).Round(moneyScale)
}

// PrepareWorkHours validates r and binds it to employee, deriving its cost
// from the employee's hourly rate. r is left untouched on error.
func PrepareWorkHours(r *WorkHourRecord, employee *Employee) error {
	if err := r.Validate(); err != nil {
		return err
	}
	r.EmployeeID = employee.ID
	r.CalculatedCost = DeriveCost(r.HoursWorked.Decimal, employee.HourlyRate)
	return nil
}

// AllocationRecord assigns an employee to a project over a date range. A nil
// EndDate means the allocation is open-ended.
type AllocationRecord struct {
	ID          uuid.UUID
	EmployeeID  uuid.UUID
	ProjectID   int64
	StartDate   time.Time
	EndDate     *time.Time
	Description string
	Audit
}

func (a AllocationRecord) Validate() error {
	if a.ProjectID <= 0 {
		return NewValidationError(ErrInvalidProject, map[string]string{"projectId": "must be a positive identifier"})
	}
	if a.StartDate.IsZero() {
		return NewValidationError(ErrInvalidPeriod, map[string]string{"startDate": "is required"})
	}
	if a.EndDate != nil && a.EndDate.Before(a.StartDate) {
		return NewValidationError(ErrInvalidPeriod, map[string]string{"endDate": "must not be before startDate"})
	}
	return nil
}

// Overlaps reports whether a and b cover at least one common day on the same project.
func (a AllocationRecord) Overlaps(b AllocationRecord) bool {
	if a.ProjectID != b.ProjectID {
		return false
	}
	if a.EndDate != nil && a.EndDate.Before(b.StartDate) {
		return false
	}
	if b.EndDate != nil && b.EndDate.Before(a.StartDate) {
		return false
	}
	return true
}

// ActiveOn reports whether the allocation has not ended before day.
func (a AllocationRecord) ActiveOn(day time.Time) bool {
	return a.EndDate == nil || !a.EndDate.Before(day)
}

// PrepareAllocation validates a against the employee's existing allocations
// and binds it to employee.
func PrepareAllocation(a *AllocationRecord, employee *Employee, existing []AllocationRecord) error {
	if err := a.Validate(); err != nil {
		return err
	}
	for _, other := range existing {
		if other.ID != a.ID && a.Overlaps(other) {
			return NewValidationError(ErrOverlappingAllocation, map[string]string{
				"startDate": "overlaps allocation " + other.ID.String(),
			})
		}
	}
	a.EmployeeID = employee.ID
	return nil
}

// Today truncates t to its UTC calendar day.
func Today(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
