package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func submitted(employeeID, date string, hours float64) *Report {
	return &Report{
		ID:         ReportID(employeeID, date),
		EmployeeID: employeeID,
		Date:       date,
		TotalHours: hours,
		Status:     StatusSubmitted,
	}
}

func TestComputeStats_Empty(t *testing.T) {
	got := ComputeStats(nil, 5, "2024-01-15")

	assert.Equal(t, DashboardStats{
		TotalSubmissions: 0,
		PendingEODs:      5,
		ActiveEmployees:  5,
		AverageHours:     0,
	}, got)
}

func TestComputeStats_AveragesTodaysSubmissions(t *testing.T) {
	reports := []*Report{
		submitted("e1", "2024-01-15", 8),
		submitted("e2", "2024-01-15", 6),
		submitted("e3", "2024-01-15", 7),
	}

	got := ComputeStats(reports, 5, "2024-01-15")

	assert.Equal(t, 3, got.TotalSubmissions)
	assert.Equal(t, 2, got.PendingEODs)
	assert.Equal(t, 5, got.ActiveEmployees)
	assert.InDelta(t, 7.0, got.AverageHours, 1e-9)
}

func TestComputeStats_IgnoresDraftsAndOtherDays(t *testing.T) {
	draft := submitted("e4", "2024-01-15", 12)
	draft.Status = StatusDraft

	reports := []*Report{
		submitted("e1", "2024-01-15", 8),
		draft,
		submitted("e2", "2024-01-14", 2),
	}

	got := ComputeStats(reports, 3, "2024-01-15")

	assert.Equal(t, 1, got.TotalSubmissions)
	assert.Equal(t, 2, got.PendingEODs)
	assert.InDelta(t, 8.0, got.AverageHours, 1e-9)
}

func TestComputeStats_PendingNeverNegative(t *testing.T) {
	reports := []*Report{
		submitted("e1", "2024-01-15", 8),
		submitted("e2", "2024-01-15", 8),
	}

	got := ComputeStats(reports, 1, "2024-01-15")
	assert.Equal(t, 0, got.PendingEODs)
}

func TestComputeStats_RecomputesFromShifts(t *testing.T) {
	r := submitted("e1", "2024-01-15", 99)
	r.Shifts = []WorkShift{{StartTime: "22:00", EndTime: "06:00", BreakMinutes: 30}}

	got := ComputeStats([]*Report{r}, 1, "2024-01-15")
	assert.InDelta(t, 7.5, got.AverageHours, 1e-9)
}

func TestComputeStats_IdempotentAndNonMutating(t *testing.T) {
	reports := []*Report{
		submitted("e2", "2024-01-15", 6),
		submitted("e1", "2024-01-15", 8),
	}
	before := *reports[0]

	first := ComputeStats(reports, 4, "2024-01-15")
	second := ComputeStats(reports, 4, "2024-01-15")

	assert.Equal(t, first, second)
	assert.Equal(t, before, *reports[0])
	assert.Equal(t, "e2", reports[0].EmployeeID)
}
