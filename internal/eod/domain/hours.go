package domain

import (
	"github.com/looply/looply-backend/pkg/errors"
)

const minutesPerDay = 24 * 60

// ParseClock converts a strict "HH:MM" string to minutes since midnight
func ParseClock(s string) (int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}

	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// ShiftMinutes is the worked duration of a shift in minutes, never negative.
// An end before the start wraps past midnight; equal times are zero.
func ShiftMinutes(s WorkShift) (int, error) {
	start, ok := ParseClock(s.StartTime)
	if !ok {
		return 0, errors.InvalidTimeFormat("startTime", s.StartTime)
	}
	end, ok := ParseClock(s.EndTime)
	if !ok {
		return 0, errors.InvalidTimeFormat("endTime", s.EndTime)
	}
	if s.BreakMinutes < 0 {
		return 0, errors.Validation(map[string]string{"breakMinutes": "must not be negative"})
	}

	if end < start {
		end += minutesPerDay
	}

	worked := end - start - s.BreakMinutes
	if worked < 0 {
		return 0, nil
	}
	return worked, nil
}

// ShiftHours is ShiftMinutes in decimal hours
func ShiftHours(s WorkShift) (float64, error) {
	m, err := ShiftMinutes(s)
	if err != nil {
		return 0, err
	}
	return float64(m) / 60, nil
}

// ComputeHours sums the worked hours of all shifts. The first malformed
// shift fails the whole computation.
func ComputeHours(shifts []WorkShift) (float64, error) {
	total := 0
	for _, s := range shifts {
		m, err := ShiftMinutes(s)
		if err != nil {
			return 0, err
		}
		total += m
	}
	return float64(total) / 60, nil
}

// ReportHours is the canonical hours for a stored report: recomputed from
// shifts when they are present and valid, otherwise the stored total.
func ReportHours(r *Report) float64 {
	if len(r.Shifts) > 0 {
		if h, err := ComputeHours(r.Shifts); err == nil {
			return h
		}
	}
	if r.TotalHours > 0 {
		return r.TotalHours
	}
	if r.HoursWorked > 0 {
		return r.HoursWorked
	}
	return 0
}
