package handler

import (
	"net/http"
	"time"

	"github.com/workpulse/workpulse/internal/api/middleware"
	"github.com/workpulse/workpulse/internal/api/response"
	"github.com/workpulse/workpulse/internal/service"
)

// AttendanceHandler handles attendance endpoints
type AttendanceHandler struct {
	attendanceService *service.AttendanceService
	summaryService    *service.SummaryService
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(attendanceService *service.AttendanceService, summaryService *service.SummaryService) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
		summaryService:    summaryService,
	}
}

// Today returns the current day's attendance status
func (h *AttendanceHandler) Today(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return
	}

	status, err := h.attendanceService.TodayStatus(r.Context(), userID, workspaceID)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.OK(w, status)
}

// ClockIn starts the current day's attendance record
func (h *AttendanceHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return
	}

	record, err := h.attendanceService.ClockIn(r.Context(), userID, workspaceID)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.Created(w, record)
}

// StartBreak opens a break on the current day's record
func (h *AttendanceHandler) StartBreak(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return
	}

	record, err := h.attendanceService.StartBreak(r.Context(), userID, workspaceID)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.OK(w, record)
}

// EndBreak closes the open break on the current day's record
func (h *AttendanceHandler) EndBreak(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return
	}

	record, err := h.attendanceService.EndBreak(r.Context(), userID, workspaceID)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.OK(w, record)
}

// ClockOut closes the current day's record
func (h *AttendanceHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return
	}

	record, err := h.attendanceService.ClockOut(r.Context(), userID, workspaceID)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.OK(w, record)
}

// Summary returns the workspace's per-status headcount for a day. The date
// query parameter defaults to today.
func (h *AttendanceHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		date = h.attendanceService.Today()
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		response.BadRequest(w, "invalid date, expected YYYY-MM-DD")
		return
	}

	summary, err := h.summaryService.WorkspaceSummary(r.Context(), userID, workspaceID, date)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.OK(w, summary)
}
