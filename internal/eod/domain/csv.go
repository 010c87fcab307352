package domain

import (
	"fmt"
	"sort"
	"strings"
)

// CSVHeader is the first line of every export
const CSVHeader = "Date,Employee,Total Hours,Shifts,Summary,Status"

// NameLookup resolves an employee id to a display name
type NameLookup func(employeeID string) (string, bool)

// ToCSV renders reports newest first. Free-text columns are always quoted.
// The header always ends with a newline; rows are newline separated with
// none after the last one.
func ToCSV(reports []*Report, lookup NameLookup) string {
	sorted := make([]*Report, len(reports))
	copy(sorted, reports)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date > sorted[j].Date })

	var b strings.Builder
	b.WriteString(CSVHeader)
	b.WriteByte('\n')

	for i, r := range sorted {
		if i > 0 {
			b.WriteByte('\n')
		}

		name := "Unknown"
		if lookup != nil {
			if n, ok := lookup(r.EmployeeID); ok {
				name = n
			}
		}

		fmt.Fprintf(&b, "%s,%s,%.2f,%s,%s,%s",
			r.Date,
			quote(name),
			ReportHours(r),
			quote(formatShifts(r.Shifts)),
			quote(r.Summary),
			r.Status,
		)
	}

	return b.String()
}

// FormatShift renders "09:00-17:00 (30min break) - Description"
func FormatShift(s WorkShift) string {
	out := s.StartTime + "-" + s.EndTime
	if s.BreakMinutes > 0 {
		out += fmt.Sprintf(" (%dmin break)", s.BreakMinutes)
	}
	if s.Description != "" {
		out += " - " + s.Description
	}
	return out
}

func formatShifts(shifts []WorkShift) string {
	parts := make([]string, len(shifts))
	for i, s := range shifts {
		parts[i] = FormatShift(s)
	}
	return strings.Join(parts, "; ")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
