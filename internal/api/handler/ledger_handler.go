package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/erp-platform/employee-service/internal/core/domain"
	"github.com/erp-platform/employee-service/internal/core/ports"
)

// LedgerHandler handles work-hour and allocation requests nested under an employee.
type LedgerHandler struct {
	service ports.LedgerService
	log     zerolog.Logger
}

func NewLedgerHandler(service ports.LedgerService, log zerolog.Logger) *LedgerHandler {
	return &LedgerHandler{service: service, log: log}
}

// RegisterWorkHours handles POST /api/employees/:employeeId/work-hours.
func (h *LedgerHandler) RegisterWorkHours(c echo.Context) error {
	employeeID, err := pathUUID(c, "employeeId")
	if err != nil {
		return err
	}
	var req workHoursRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	h.warnBodyEmployee(c, employeeID, req.EmployeeID)

	r, err := h.service.RegisterWorkHours(c.Request().Context(), toWorkHoursInput(req, employeeID, uuid.Nil, actor(c)))
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, c.Request().URL.Path+"/"+r.ID.String())
	return c.JSON(http.StatusCreated, toWorkHoursResponse(*r))
}

// UpdateWorkHours handles PUT /api/employees/:employeeId/work-hours/:id.
func (h *LedgerHandler) UpdateWorkHours(c echo.Context) error {
	employeeID, err := pathUUID(c, "employeeId")
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req workHoursRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	h.warnBodyEmployee(c, employeeID, req.EmployeeID)

	r, err := h.service.UpdateWorkHours(c.Request().Context(), toWorkHoursInput(req, employeeID, id, actor(c)))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toWorkHoursResponse(*r))
}

// ListWorkHours handles GET /api/employees/:employeeId/work-hours.
func (h *LedgerHandler) ListWorkHours(c echo.Context) error {
	employeeID, err := pathUUID(c, "employeeId")
	if err != nil {
		return err
	}

	records, err := h.service.ListWorkHours(c.Request().Context(), employeeID)
	if err != nil {
		return err
	}

	resp := make([]workHoursResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, toWorkHoursResponse(r))
	}
	return c.JSON(http.StatusOK, resp)
}

// Allocate handles POST /api/employees/:employeeId/allocations.
func (h *LedgerHandler) Allocate(c echo.Context) error {
	employeeID, err := pathUUID(c, "employeeId")
	if err != nil {
		return err
	}
	var req allocationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	h.warnBodyEmployee(c, employeeID, req.EmployeeID)

	a, err := h.service.Allocate(c.Request().Context(), ports.AllocationInput{
		EmployeeID:  employeeID,
		ProjectID:   *req.ProjectID,
		StartDate:   parseDate(req.StartDate),
		EndDate:     parseOptionalDate(req.EndDate),
		Description: req.Description,
		Actor:       actor(c),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toAllocationResponse(*a))
}

// AllocationHistory handles GET /api/employees/:employeeId/allocations/history.
func (h *LedgerHandler) AllocationHistory(c echo.Context) error {
	employeeID, err := pathUUID(c, "employeeId")
	if err != nil {
		return err
	}

	records, err := h.service.AllocationHistory(c.Request().Context(), employeeID)
	if err != nil {
		return err
	}

	resp := make([]allocationResponse, 0, len(records))
	for _, a := range records {
		resp = append(resp, toAllocationResponse(a))
	}
	return c.JSON(http.StatusOK, resp)
}

// warnBodyEmployee logs a body employeeId that disagrees with the path. The
// path always wins.
func (h *LedgerHandler) warnBodyEmployee(c echo.Context, pathID uuid.UUID, bodyID *uuid.UUID) {
	if bodyID != nil && *bodyID != pathID {
		h.log.Warn().
			Str("path_employee_id", pathID.String()).
			Str("body_employee_id", bodyID.String()).
			Str("path", c.Path()).
			Msg("employeeId in body ignored, using path")
	}
}

func toWorkHoursInput(req workHoursRequest, employeeID, id uuid.UUID, actor string) ports.WorkHoursInput {
	return ports.WorkHoursInput{
		ID:           id,
		EmployeeID:   employeeID,
		ProjectID:    req.ProjectID,
		CostCenterID: req.CostCenterID,
		WorkDate:     parseDate(req.WorkDate),
		HoursWorked:  toNullDecimal(req.HoursWorked),
		Description:  req.Description,
		Actor:        actor,
	}
}

func toWorkHoursResponse(r domain.WorkHourRecord) workHoursResponse {
	return workHoursResponse{
		ID:             r.ID,
		EmployeeID:     r.EmployeeID,
		ProjectID:      r.ProjectID,
		CostCenterID:   r.CostCenterID,
		WorkDate:       formatDate(r.WorkDate),
		HoursWorked:    r.HoursWorked.Decimal,
		CalculatedCost: r.CalculatedCost,
		Description:    r.Description,
		auditResponse:  toAuditResponse(r.Audit),
	}
}

func toAllocationResponse(a domain.AllocationRecord) allocationResponse {
	return allocationResponse{
		ID:            a.ID,
		EmployeeID:    a.EmployeeID,
		ProjectID:     a.ProjectID,
		StartDate:     formatDate(a.StartDate),
		EndDate:       formatOptionalDate(a.EndDate),
		Description:   a.Description,
		auditResponse: toAuditResponse(a.Audit),
	}
}
