package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Money and hours are rendered as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// --- Request / Response types ---

type addressRequest struct {
	Street     string `json:"street"     validate:"max=255"`
	Number     string `json:"number"     validate:"max=20"`
	City       string `json:"city"       validate:"max=100"`
	Province   string `json:"province"   validate:"max=100"`
	PostalCode string `json:"postalCode" validate:"max=20"`
	Country    string `json:"country"    validate:"max=100"`
}

// employeeRequest is the body of both create and full-replace update.
type employeeRequest struct {
	UserID                *uuid.UUID       `json:"userId"`
	FirstName             string           `json:"firstName"             validate:"required,max=50"`
	LastName              string           `json:"lastName"              validate:"required,max=100"`
	SocialInsuranceNumber string           `json:"socialInsuranceNumber" validate:"max=50"`
	BirthDate             string           `json:"birthDate"             validate:"omitempty,datetime=2006-01-02,pastdate"`
	HireDate              string           `json:"hireDate"              validate:"required,datetime=2006-01-02,notfuture"`
	TerminationDate       string           `json:"terminationDate"       validate:"omitempty,datetime=2006-01-02,notfuture"`
	EmploymentType        string           `json:"employmentType"        validate:"required,oneof=FULL_TIME PART_TIME CONTRACTOR INTERN TEMPORARY"`
	Address               *addressRequest  `json:"address"`
	Salary                *decimal.Decimal `json:"salary"                validate:"omitempty,gte=0,lt=100000000"`
	PayFrequency          string           `json:"payFrequency"          validate:"max=20"`
	HourlyRate            *decimal.Decimal `json:"hourlyRate"            validate:"omitempty,gte=0,lt=100000000"`
	BenefitsCostMonthly   *decimal.Decimal `json:"benefitsCostMonthly"   validate:"omitempty,gte=0,lt=100000000"`
}

type addressResponse struct {
	Street     string `json:"street,omitempty"`
	Number     string `json:"number,omitempty"`
	City       string `json:"city,omitempty"`
	Province   string `json:"province,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

type auditResponse struct {
	CreatedBy      string    `json:"createdBy"`
	CreatedAt      time.Time `json:"createdAt"`
	LastModifiedBy string    `json:"lastModifiedBy"`
	LastModifiedAt time.Time `json:"lastModifiedAt"`
}

type employeeResponse struct {
	ID                    uuid.UUID        `json:"id"`
	UserID                *uuid.UUID       `json:"userId,omitempty"`
	FirstName             string           `json:"firstName"`
	LastName              string           `json:"lastName"`
	SocialInsuranceNumber string           `json:"socialInsuranceNumber,omitempty"`
	BirthDate             string           `json:"birthDate,omitempty"`
	HireDate              string           `json:"hireDate"`
	TerminationDate       string           `json:"terminationDate,omitempty"`
	EmploymentType        string           `json:"employmentType"`
	Address               *addressResponse `json:"address,omitempty"`
	Salary                *decimal.Decimal `json:"salary,omitempty"`
	PayFrequency          string           `json:"payFrequency,omitempty"`
	HourlyRate            *decimal.Decimal `json:"hourlyRate,omitempty"`
	BenefitsCostMonthly   *decimal.Decimal `json:"benefitsCostMonthly,omitempty"`
	auditResponse
}
