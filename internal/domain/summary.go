package domain

import "github.com/google/uuid"

// WorkspaceDailySummary is the per-status headcount of a workspace for one
// calendar day. It is recomputed on demand and never persisted.
type WorkspaceDailySummary struct {
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Date        string    `json:"date"`
	Headcount   int       `json:"headcount"`
	ClockedIn   int       `json:"clocked_in"`
	Late        int       `json:"late"`
	OnBreak     int       `json:"on_break"`
	ClockedOut  int       `json:"clocked_out"`
}

// SummarizeDay folds attendance records into per-status counts. Zero records
// yield zero counts.
func SummarizeDay(workspaceID uuid.UUID, date string, records []AttendanceRecord) WorkspaceDailySummary {
	summary := WorkspaceDailySummary{
		WorkspaceID: workspaceID,
		Date:        date,
		Headcount:   len(records),
	}
	for _, r := range records {
		switch r.Status {
		case StatusClockedIn:
			summary.ClockedIn++
		case StatusLate:
			summary.Late++
		case StatusOnBreak:
			summary.OnBreak++
		case StatusClockedOut:
			summary.ClockedOut++
		}
	}
	return summary
}
