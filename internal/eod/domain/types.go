// Package domain holds the EOD report model and the pure calculations over it:
// shift durations, dashboard statistics and CSV export.
package domain

import "time"

// Status is the lifecycle state of a report
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
)

// WorkShift is one continuous work interval. EndTime before StartTime means
// the shift crosses midnight.
type WorkShift struct {
	ID           string `json:"id"`
	StartTime    string `json:"startTime" validate:"required,hhmm"`
	EndTime      string `json:"endTime" validate:"required,hhmm"`
	BreakMinutes int    `json:"breakMinutes,omitempty" validate:"min=0"`
	Description  string `json:"description,omitempty" validate:"max=500"`
}

// Report is one employee's end-of-day report for a single date
type Report struct {
	ID          string      `json:"id"`
	EmployeeID  string      `json:"employeeId"`
	CompanyID   string      `json:"companyId"`
	Date        string      `json:"date"`
	Summary     string      `json:"summary"`
	Shifts      []WorkShift `json:"shifts"`
	TotalHours  float64     `json:"totalHours"`
	Status      Status      `json:"status"`
	SubmittedAt *time.Time  `json:"submittedAt,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`

	// Older documents stored their total under this name.
	HoursWorked float64 `json:"hoursWorked,omitempty"`
}

// ReportID is the identity of the report for an employee on a date
func ReportID(employeeID, date string) string {
	return employeeID + "-" + date
}

// DashboardStats summarises a company's submissions for one day
type DashboardStats struct {
	TotalSubmissions int     `json:"totalSubmissions"`
	PendingEODs      int     `json:"pendingEODs"`
	ActiveEmployees  int     `json:"activeEmployees"`
	AverageHours     float64 `json:"averageHours"`
}

// Filter narrows a report listing. Empty fields match everything.
// StartDate and EndDate are inclusive YYYY-MM-DD bounds.
type Filter struct {
	EmployeeID string
	StartDate  string
	EndDate    string
	Status     Status
}

// Match reports whether r passes the filter
func (f Filter) Match(r *Report) bool {
	if f.EmployeeID != "" && r.EmployeeID != f.EmployeeID {
		return false
	}
	if f.StartDate != "" && r.Date < f.StartDate {
		return false
	}
	if f.EndDate != "" && r.Date > f.EndDate {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	return true
}
