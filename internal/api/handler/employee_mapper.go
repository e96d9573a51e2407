package handler

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp-platform/employee-service/internal/core/domain"
	"github.com/erp-platform/employee-service/internal/core/ports"
)

// --- Request → Service input ---

func toEmployeeInput(req employeeRequest, actor string) ports.EmployeeInput {
	in := ports.EmployeeInput{
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		SocialInsuranceNumber: req.SocialInsuranceNumber,
		BirthDate:             parseOptionalDate(req.BirthDate),
		HireDate:              parseDate(req.HireDate),
		TerminationDate:       parseOptionalDate(req.TerminationDate),
		EmploymentType:        domain.EmploymentType(req.EmploymentType),
		Salary:                toNullDecimal(req.Salary),
		PayFrequency:          req.PayFrequency,
		HourlyRate:            toNullDecimal(req.HourlyRate),
		BenefitsCostMonthly:   toNullDecimal(req.BenefitsCostMonthly),
		Actor:                 actor,
	}
	if req.UserID != nil {
		in.UserID = uuid.NullUUID{UUID: *req.UserID, Valid: true}
	}
	if req.Address != nil {
		in.Address = &domain.Address{
			Street:     req.Address.Street,
			Number:     req.Address.Number,
			City:       req.Address.City,
			Province:   req.Address.Province,
			PostalCode: req.Address.PostalCode,
			Country:    req.Address.Country,
		}
	}
	return in
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

// --- Domain → Response ---

func toEmployeeResponse(e *domain.Employee) employeeResponse {
	resp := employeeResponse{
		ID:                    e.ID,
		FirstName:             e.FirstName,
		LastName:              e.LastName,
		SocialInsuranceNumber: e.SocialInsuranceNumber,
		BirthDate:             formatOptionalDate(e.BirthDate),
		HireDate:              formatDate(e.HireDate),
		TerminationDate:       formatOptionalDate(e.TerminationDate),
		EmploymentType:        string(e.EmploymentType),
		Salary:                fromNullDecimal(e.Salary),
		PayFrequency:          e.PayFrequency,
		HourlyRate:            fromNullDecimal(e.HourlyRate),
		BenefitsCostMonthly:   fromNullDecimal(e.BenefitsCostMonthly),
		auditResponse:         toAuditResponse(e.Audit),
	}
	if e.UserID.Valid {
		id := e.UserID.UUID
		resp.UserID = &id
	}
	if e.Address != nil {
		resp.Address = &addressResponse{
			Street:     e.Address.Street,
			Number:     e.Address.Number,
			City:       e.Address.City,
			Province:   e.Address.Province,
			PostalCode: e.Address.PostalCode,
			Country:    e.Address.Country,
		}
	}
	return resp
}

func fromNullDecimal(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func toAuditResponse(a domain.Audit) auditResponse {
	return auditResponse{
		CreatedBy:      a.CreatedBy,
		CreatedAt:      a.CreatedAt,
		LastModifiedBy: a.LastModifiedBy,
		LastModifiedAt: a.LastModifiedAt,
	}
}
