package handler

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// workHoursRequest is the body of both create and update. Target exclusivity
// and the hours bound are enforced by the ledger rules, not by tags.
type workHoursRequest struct {
	EmployeeID   *uuid.UUID       `json:"employeeId"`
	ProjectID    *int64           `json:"projectId"`
	CostCenterID *int64           `json:"costCenterId"`
	WorkDate     string           `json:"workDate"     validate:"required,datetime=2006-01-02"`
	HoursWorked  *decimal.Decimal `json:"hoursWorked"`
	Description  string           `json:"description"  validate:"max=500"`
}

type workHoursResponse struct {
	ID             uuid.UUID       `json:"id"`
	EmployeeID     uuid.UUID       `json:"employeeId"`
	ProjectID      *int64          `json:"projectId,omitempty"`
	CostCenterID   *int64          `json:"costCenterId,omitempty"`
	WorkDate       string          `json:"workDate"`
	HoursWorked    decimal.Decimal `json:"hoursWorked"`
	CalculatedCost decimal.Decimal `json:"calculatedCost"`
	Description    string          `json:"description,omitempty"`
	auditResponse
}

type allocationRequest struct {
	EmployeeID  *uuid.UUID `json:"employeeId"`
	ProjectID   *int64     `json:"projectId"   validate:"required"`
	StartDate   string     `json:"startDate"   validate:"required,datetime=2006-01-02"`
	EndDate     string     `json:"endDate"     validate:"omitempty,datetime=2006-01-02"`
	Description string     `json:"description" validate:"max=500"`
}

type allocationResponse struct {
	ID          uuid.UUID `json:"id"`
	EmployeeID  uuid.UUID `json:"employeeId"`
	ProjectID   int64     `json:"projectId"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate,omitempty"`
	Description string    `json:"description,omitempty"`
	auditResponse
}
