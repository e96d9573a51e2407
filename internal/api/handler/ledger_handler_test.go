package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/erp-platform/employee-service/internal/core/domain"
	"github.com/erp-platform/employee-service/internal/core/ports"
)

type stubLedgerService struct {
	registerFn func(ctx context.Context, in ports.WorkHoursInput) (*domain.WorkHourRecord, error)
	updateFn   func(ctx context.Context, in ports.WorkHoursInput) (*domain.WorkHourRecord, error)
	listFn     func(ctx context.Context, employeeID uuid.UUID) ([]domain.WorkHourRecord, error)
	allocateFn func(ctx context.Context, in ports.AllocationInput) (*domain.AllocationRecord, error)
	historyFn  func(ctx context.Context, employeeID uuid.UUID) ([]domain.AllocationRecord, error)
}

func (s *stubLedgerService) RegisterWorkHours(ctx context.Context, in ports.WorkHoursInput) (*domain.WorkHourRecord, error) {
	return s.registerFn(ctx, in)
}

func (s *stubLedgerService) UpdateWorkHours(ctx context.Context, in ports.WorkHoursInput) (*domain.WorkHourRecord, error) {
	return s.updateFn(ctx, in)
}

func (s *stubLedgerService) ListWorkHours(ctx context.Context, employeeID uuid.UUID) ([]domain.WorkHourRecord, error) {
	return s.listFn(ctx, employeeID)
}

func (s *stubLedgerService) Allocate(ctx context.Context, in ports.AllocationInput) (*domain.AllocationRecord, error) {
	return s.allocateFn(ctx, in)
}

func (s *stubLedgerService) AllocationHistory(ctx context.Context, employeeID uuid.UUID) ([]domain.AllocationRecord, error) {
	return s.historyFn(ctx, employeeID)
}

func withEmployee(c echo.Context, employeeID uuid.UUID, extra ...string) {
	names := []string{"employeeId"}
	values := []string{employeeID.String()}
	for i := 0; i+1 < len(extra); i += 2 {
		names = append(names, extra[i])
		values = append(values, extra[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
}

// ---------------------------------------------------------------------------
// Work hours
// ---------------------------------------------------------------------------

func TestLedgerHandler_RegisterWorkHours_Success(t *testing.T) {
	employeeID := uuid.New()
	recordID := uuid.New()
	stub := &stubLedgerService{
		registerFn: func(ctx context.Context, in ports.WorkHoursInput) (*domain.WorkHourRecord, error) {
			if in.EmployeeID != employeeID {
				t.Fatalf("expected path employee, got %s", in.EmployeeID)
			}
			if in.ProjectID == nil || *in.ProjectID != 12 || in.CostCenterID != nil {
				t.Fatalf("unexpected targets: %v %v", in.ProjectID, in.CostCenterID)
			}
			if !in.HoursWorked.Decimal.Equal(decimal.RequireFromString("7.5")) {
				t.Fatalf("unexpected hours: %s", in.HoursWorked.Decimal)
			}
			if in.Actor != "alice" {
				t.Fatalf("expected actor alice, got %q", in.Actor)
			}
			return &domain.WorkHourRecord{
				ID:             recordID,
				EmployeeID:     in.EmployeeID,
				ProjectID:      in.ProjectID,
				WorkDate:       in.WorkDate,
				HoursWorked:    in.HoursWorked,
				CalculatedCost: decimal.New(26625, -2),
			}, nil
		},
	}
	h := NewLedgerHandler(stub, zerolog.Nop())

	// The body employeeId disagrees with the path and is ignored.
	c, rec := newContext(http.MethodPost, "/api/employees/"+employeeID.String()+"/work-hours",
		`{"employeeId":"`+uuid.NewString()+`","projectId":12,"workDate":"2024-06-14","hoursWorked":7.5}`)
	withEmployee(c, employeeID)

	if err := h.RegisterWorkHours(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); !strings.HasSuffix(loc, "/work-hours/"+recordID.String()) {
		t.Fatalf("unexpected Location: %q", loc)
	}

	var resp struct {
		EmployeeID     uuid.UUID       `json:"employeeId"`
		WorkDate       string          `json:"workDate"`
		CalculatedCost decimal.Decimal `json:"calculatedCost"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.EmployeeID != employeeID || resp.WorkDate != "2024-06-14" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp.CalculatedCost.StringFixed(2) != "266.25" {
		t.Fatalf("expected cost 266.25, got %s", resp.CalculatedCost)
	}
}

func TestLedgerHandler_RegisterWorkHours_MissingDate(t *testing.T) {
	stub := &stubLedgerService{
		registerFn: func(ctx context.Context, in ports.WorkHoursInput) (*domain.WorkHourRecord, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewLedgerHandler(stub, zerolog.Nop())

	c, _ := newContext(http.MethodPost, "/", `{"projectId":1,"hoursWorked":8,"workDate":"June 14"}`)
	withEmployee(c, uuid.New())

	fields := validationFields(t, h.RegisterWorkHours(c))
	if fields["workDate"] != "must be a date formatted as YYYY-MM-DD" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestLedgerHandler_RegisterWorkHours_LedgerRejection(t *testing.T) {
	stub := &stubLedgerService{
		registerFn: func(ctx context.Context, in ports.WorkHoursInput) (*domain.WorkHourRecord, error) {
			return nil, domain.NewValidationError(domain.ErrInvalidAllocationTarget, map[string]string{
				"projectId": "exactly one of projectId or costCenterId is required",
			})
		},
	}
	h := NewLedgerHandler(stub, zerolog.Nop())

	c, _ := newContext(http.MethodPost, "/", `{"projectId":1,"costCenterId":2,"hoursWorked":8,"workDate":"2024-06-14"}`)
	withEmployee(c, uuid.New())

	err := h.RegisterWorkHours(c)
	if !errors.Is(err, domain.ErrInvalidAllocationTarget) {
		t.Fatalf("expected ErrInvalidAllocationTarget, got %v", err)
	}
}

func TestLedgerHandler_UpdateWorkHours_PassesRecordID(t *testing.T) {
	employeeID, recordID := uuid.New(), uuid.New()
	stub := &stubLedgerService{
		updateFn: func(ctx context.Context, in ports.WorkHoursInput) (*domain.WorkHourRecord, error) {
			if in.ID != recordID || in.EmployeeID != employeeID {
				t.Fatalf("unexpected ids: %s %s", in.ID, in.EmployeeID)
			}
			return &domain.WorkHourRecord{ID: in.ID, EmployeeID: in.EmployeeID, WorkDate: in.WorkDate, HoursWorked: in.HoursWorked}, nil
		},
	}
	h := NewLedgerHandler(stub, zerolog.Nop())

	c, rec := newContext(http.MethodPut, "/", `{"costCenterId":3,"hoursWorked":4,"workDate":"2024-06-10"}`)
	withEmployee(c, employeeID, "id", recordID.String())

	if err := h.UpdateWorkHours(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestLedgerHandler_ListWorkHours_NotFound(t *testing.T) {
	employeeID := uuid.New()
	stub := &stubLedgerService{
		listFn: func(ctx context.Context, id uuid.UUID) ([]domain.WorkHourRecord, error) {
			return nil, domain.EmployeeNotFound(id)
		},
	}
	h := NewLedgerHandler(stub, zerolog.Nop())

	c, _ := newContext(http.MethodGet, "/", "")
	withEmployee(c, employeeID)

	if err := h.ListWorkHours(c); !errors.Is(err, domain.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Allocations
// ---------------------------------------------------------------------------

func TestLedgerHandler_Allocate_Success(t *testing.T) {
	employeeID := uuid.New()
	stub := &stubLedgerService{
		allocateFn: func(ctx context.Context, in ports.AllocationInput) (*domain.AllocationRecord, error) {
			if in.ProjectID != 9 {
				t.Fatalf("unexpected project %d", in.ProjectID)
			}
			if in.EndDate == nil || !in.EndDate.Equal(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)) {
				t.Fatalf("unexpected end date %v", in.EndDate)
			}
			return &domain.AllocationRecord{
				ID:         uuid.New(),
				EmployeeID: in.EmployeeID,
				ProjectID:  in.ProjectID,
				StartDate:  in.StartDate,
				EndDate:    in.EndDate,
			}, nil
		},
	}
	h := NewLedgerHandler(stub, zerolog.Nop())

	c, rec := newContext(http.MethodPost, "/", `{"projectId":9,"startDate":"2024-01-01","endDate":"2024-12-31"}`)
	withEmployee(c, employeeID)

	if err := h.Allocate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"endDate":"2024-12-31"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestLedgerHandler_Allocate_MissingProject(t *testing.T) {
	h := NewLedgerHandler(&stubLedgerService{}, zerolog.Nop())

	c, _ := newContext(http.MethodPost, "/", `{"startDate":"2024-01-01"}`)
	withEmployee(c, uuid.New())

	fields := validationFields(t, h.Allocate(c))
	if fields["projectId"] != "is required" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestLedgerHandler_AllocationHistory_OpenEnded(t *testing.T) {
	employeeID := uuid.New()
	stub := &stubLedgerService{
		historyFn: func(ctx context.Context, id uuid.UUID) ([]domain.AllocationRecord, error) {
			return []domain.AllocationRecord{{
				ID:         uuid.New(),
				EmployeeID: id,
				ProjectID:  4,
				StartDate:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			}}, nil
		},
	}
	h := NewLedgerHandler(stub, zerolog.Nop())

	c, rec := newContext(http.MethodGet, "/", "")
	withEmployee(c, employeeID)

	if err := h.AllocationHistory(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.Contains(rec.Body.String(), "endDate") {
		t.Fatalf("open-ended allocation must omit endDate: %s", rec.Body.String())
	}
}
