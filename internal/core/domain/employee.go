package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmploymentType is the contractual relationship between an employee and the company.
type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "FULL_TIME"
	EmploymentPartTime   EmploymentType = "PART_TIME"
	EmploymentContractor EmploymentType = "CONTRACTOR"
	EmploymentIntern     EmploymentType = "INTERN"
	EmploymentTemporary  EmploymentType = "TEMPORARY"
)

func (t EmploymentType) Valid() bool {
	switch t {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContractor, EmploymentIntern, EmploymentTemporary:
		return true
	}
	return false
}

// SystemActor is recorded in audit fields when a write happens without a principal.
const SystemActor = "system"

// Audit tracks who created and last modified a record.
type Audit struct {
	CreatedBy      string
	CreatedAt      time.Time
	LastModifiedBy string
	LastModifiedAt time.Time
}

// Touch records a modification by actor at now. Creation fields are filled
// only the first time.
func (a *Audit) Touch(actor string, now time.Time) {
	if actor == "" {
		actor = SystemActor
	}
	if a.CreatedAt.IsZero() {
		a.CreatedBy = actor
		a.CreatedAt = now
	}
	a.LastModifiedBy = actor
	a.LastModifiedAt = now
}

type Address struct {
	Street     string
	Number     string
	City       string
	Province   string
	PostalCode string
	Country    string
}

// Employee is the aggregate root that owns work-hour and allocation records.
type Employee struct {
	ID                    uuid.UUID
	UserID                uuid.NullUUID
	FirstName             string
	LastName              string
	SocialInsuranceNumber string
	BirthDate             *time.Time
	HireDate              time.Time
	TerminationDate       *time.Time
	EmploymentType        EmploymentType
	Address               *Address
	Salary                decimal.NullDecimal
	PayFrequency          string
	HourlyRate            decimal.NullDecimal
	BenefitsCostMonthly   decimal.NullDecimal
	Audit
}

// Validate checks the employment type and that every amount is non-negative
// with at most two decimal places.
func (e Employee) Validate() error {
	fields := make(map[string]string)
	var kind error

	if !e.EmploymentType.Valid() {
		fields["employmentType"] = "must be one of: FULL_TIME PART_TIME CONTRACTOR INTERN TEMPORARY"
	}
	for name, amount := range map[string]decimal.NullDecimal{
		"salary":              e.Salary,
		"hourlyRate":          e.HourlyRate,
		"benefitsCostMonthly": e.BenefitsCostMonthly,
	} {
		if msg := checkAmount(amount); msg != "" {
			fields[name] = msg
			kind = ErrInvalidAmount
		}
	}

	if len(fields) > 0 {
		return NewValidationError(kind, fields)
	}
	return nil
}

func checkAmount(amount decimal.NullDecimal) string {
	switch {
	case !amount.Valid:
		return ""
	case amount.Decimal.IsNegative():
		return "must be at least 0"
	case !amount.Decimal.Equal(amount.Decimal.Round(moneyScale)):
		return "must have at most 2 decimal places"
	}
	return ""
}
