package dto

// AdminDashboardResponse aggregates headline numbers for the admin landing page.
type AdminDashboardResponse struct {
	TotalStudents        int64   `json:"total_students"`
	TotalEmployees       int64   `json:"total_employees"`
	TotalBranches        int     `json:"total_branches"`
	CollectedFees        float64 `json:"collected_fees"`
	PendingCompensations int64   `json:"pending_compensations"`
}

// ParentChildSummary pairs a child with their attendance breakdown.
type ParentChildSummary struct {
	Student StudentResponse           `json:"student"`
	Summary AttendanceSummaryResponse `json:"attendance_summary"`
}

// ParentDashboardResponse is the parent landing page payload.
type ParentDashboardResponse struct {
	Children []ParentChildSummary `json:"children"`
}
