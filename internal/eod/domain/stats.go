package domain

// ComputeStats derives the dashboard numbers for asOfDate. Only submitted
// reports dated asOfDate count; drafts and other days are ignored.
func ComputeStats(reports []*Report, activeEmployees int, asOfDate string) DashboardStats {
	stats := DashboardStats{ActiveEmployees: activeEmployees}

	var totalHours float64
	for _, r := range reports {
		if r.Date != asOfDate || r.Status != StatusSubmitted {
			continue
		}
		stats.TotalSubmissions++
		totalHours += ReportHours(r)
	}

	if pending := activeEmployees - stats.TotalSubmissions; pending > 0 {
		stats.PendingEODs = pending
	}
	if stats.TotalSubmissions > 0 {
		stats.AverageHours = totalHours / float64(stats.TotalSubmissions)
	}
	return stats
}
