package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64p(v int64) *int64 { return &v }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayp(s string) *time.Time {
	t := day(s)
	return &t
}

func hours(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func validWorkHours() WorkHourRecord {
	return WorkHourRecord{
		ProjectID:   int64p(101),
		WorkDate:    day("2024-03-04"),
		HoursWorked: hours("7.5"),
	}
}

func TestWorkHourRecord_Validate_TargetExclusivity(t *testing.T) {
	both := validWorkHours()
	both.CostCenterID = int64p(202)

	neither := validWorkHours()
	neither.ProjectID = nil

	costCenterOnly := validWorkHours()
	costCenterOnly.ProjectID = nil
	costCenterOnly.CostCenterID = int64p(202)

	tests := []struct {
		name    string
		record  WorkHourRecord
		wantErr error
	}{
		{"project only", validWorkHours(), nil},
		{"cost center only", costCenterOnly, nil},
		{"both targets", both, ErrInvalidAllocationTarget},
		{"no target", neither, ErrInvalidAllocationTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestWorkHourRecord_Validate_Hours(t *testing.T) {
	tests := []struct {
		name  string
		hours decimal.NullDecimal
		ok    bool
	}{
		{"absent", decimal.NullDecimal{}, false},
		{"zero", hours("0"), false},
		{"negative", hours("-1"), false},
		{"above a day", hours("24.01"), false},
		{"three decimals", hours("1.125"), false},
		{"trailing zeros", hours("7.500"), true},
		{"full day", hours("24"), true},
		{"smallest", hours("0.01"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validWorkHours()
			r.HoursWorked = tt.hours
			err := r.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidHours)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Contains(t, ve.Fields, "hoursWorked")
		})
	}
}

func TestDeriveCost(t *testing.T) {
	tests := []struct {
		name  string
		hours string
		rate  decimal.NullDecimal
		want  string
	}{
		{"rate times hours", "7.5", hours("35.50"), "266.25"},
		{"absent rate", "7.5", decimal.NullDecimal{}, "0.00"},
		{"zero rate", "7.5", hours("0"), "0.00"},
		{"negative rate", "7.5", hours("-10"), "0.00"},
		{"rounds half up", "0.25", hours("10.10"), "2.53"},
		{"rounds down below half", "0.33", hours("10.01"), "3.30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveCost(decimal.RequireFromString(tt.hours), tt.rate)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestPrepareWorkHours_BindsEmployeeAndCost(t *testing.T) {
	employee := &Employee{ID: uuid.New(), HourlyRate: hours("35.50")}
	r := validWorkHours()

	require.NoError(t, PrepareWorkHours(&r, employee))
	assert.Equal(t, employee.ID, r.EmployeeID)
	assert.True(t, r.CalculatedCost.Equal(decimal.RequireFromString("266.25")))
}

func TestPrepareWorkHours_RejectedRecordUntouched(t *testing.T) {
	employee := &Employee{ID: uuid.New(), HourlyRate: hours("35.50")}
	r := validWorkHours()
	r.CostCenterID = int64p(202)

	err := PrepareWorkHours(&r, employee)
	assert.ErrorIs(t, err, ErrInvalidAllocationTarget)
	assert.Equal(t, uuid.Nil, r.EmployeeID)
	assert.True(t, r.CalculatedCost.IsZero())
}

func TestAllocationRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		record  AllocationRecord
		wantErr error
	}{
		{"open ended", AllocationRecord{ProjectID: 7, StartDate: day("2024-01-01")}, nil},
		{"single day", AllocationRecord{ProjectID: 7, StartDate: day("2024-01-01"), EndDate: dayp("2024-01-01")}, nil},
		{"missing project", AllocationRecord{StartDate: day("2024-01-01")}, ErrInvalidProject},
		{"missing start", AllocationRecord{ProjectID: 7}, ErrInvalidPeriod},
		{"end before start", AllocationRecord{ProjectID: 7, StartDate: day("2024-02-01"), EndDate: dayp("2024-01-31")}, ErrInvalidPeriod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPrepareAllocation_Overlap(t *testing.T) {
	employee := &Employee{ID: uuid.New()}
	existing := []AllocationRecord{
		{ID: uuid.New(), ProjectID: 7, StartDate: day("2024-01-01"), EndDate: dayp("2024-03-31")},
		{ID: uuid.New(), ProjectID: 9, StartDate: day("2024-01-01")},
	}

	tests := []struct {
		name    string
		record  AllocationRecord
		wantErr error
	}{
		{"same project after end", AllocationRecord{ProjectID: 7, StartDate: day("2024-04-01")}, nil},
		{"other project same period", AllocationRecord{ProjectID: 8, StartDate: day("2024-02-01")}, nil},
		{"same project inside", AllocationRecord{ProjectID: 7, StartDate: day("2024-02-01"), EndDate: dayp("2024-02-28")}, ErrOverlappingAllocation},
		{"touches last day", AllocationRecord{ProjectID: 7, StartDate: day("2024-03-31")}, ErrOverlappingAllocation},
		{"open ended existing", AllocationRecord{ProjectID: 9, StartDate: day("2030-01-01")}, ErrOverlappingAllocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.record
			err := PrepareAllocation(&a, employee, existing)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, employee.ID, a.EmployeeID)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAllocationRecord_ActiveOn(t *testing.T) {
	today := day("2024-06-15")

	assert.True(t, AllocationRecord{StartDate: day("2024-01-01")}.ActiveOn(today))
	assert.True(t, AllocationRecord{StartDate: day("2024-01-01"), EndDate: dayp("2024-06-15")}.ActiveOn(today))
	assert.False(t, AllocationRecord{StartDate: day("2024-01-01"), EndDate: dayp("2024-06-14")}.ActiveOn(today))
}

func TestAudit_Touch(t *testing.T) {
	var a Audit
	first := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	a.Touch("alice", first)
	a.Touch("", second)

	assert.Equal(t, "alice", a.CreatedBy)
	assert.Equal(t, first, a.CreatedAt)
	assert.Equal(t, SystemActor, a.LastModifiedBy)
	assert.Equal(t, second, a.LastModifiedAt)
}
