package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrEmployeeNotFound             = errors.New("employee not found")
	ErrWorkHoursNotFound            = errors.New("work hours record not found")
	ErrConflict                     = errors.New("data integrity violation")
	ErrEmployeeHasActiveAllocations = errors.New("employee has active allocations")
	ErrUnauthenticated              = errors.New("authentication required")
	ErrForbidden                    = errors.New("access denied")
)

// Identity service failures.
var (
	ErrIdentityNotFound    = errors.New("identity not found")
	ErrIdentityUnavailable = errors.New("identity service unavailable")
	ErrIdentityTimeout     = errors.New("identity service timeout")
)

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("validation failed")

// Ledger rule violations. Each is carried as the Kind of a *ValidationError.
var (
	ErrInvalidAllocationTarget = errors.New("exactly one of projectId or costCenterId must be set")
	ErrInvalidHours            = errors.New("hoursWorked must be greater than 0 and at most 24")
	ErrInvalidProject          = errors.New("projectId must be a positive identifier")
	ErrInvalidPeriod           = errors.New("endDate must not be before startDate")
	ErrOverlappingAllocation   = errors.New("allocation overlaps an existing allocation for the same project")
	ErrInvalidAmount           = errors.New("amounts must not be negative and have at most 2 decimal places")
)

// ValidationError reports one or more rejected input fields. Kind, when set,
// names the rule that failed.
type ValidationError struct {
	Kind   error
	Fields map[string]string
}

func NewValidationError(kind error, fields map[string]string) *ValidationError {
	if fields == nil {
		fields = map[string]string{}
	}
	return &ValidationError{Kind: kind, Fields: fields}
}

func (e *ValidationError) Error() string {
	if e.Kind != nil {
		return e.Kind.Error()
	}
	return ErrValidation.Error()
}

func (e *ValidationError) Unwrap() []error {
	if e.Kind == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Kind}
}

func EmployeeNotFound(id uuid.UUID) error {
	return fmt.Errorf("%w: %s", ErrEmployeeNotFound, id)
}

func WorkHoursNotFound(id uuid.UUID) error {
	return fmt.Errorf("%w: %s", ErrWorkHoursNotFound, id)
}
