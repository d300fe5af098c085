package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/workpulse/workpulse/internal/api/middleware"
	"github.com/workpulse/workpulse/internal/api/response"
	"github.com/workpulse/workpulse/internal/domain"
	"github.com/workpulse/workpulse/internal/service"
)

func uuidURLParam(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

// ShiftHandler handles shift endpoints
type ShiftHandler struct {
	shiftService *service.ShiftService
}

// NewShiftHandler creates a new shift handler
func NewShiftHandler(shiftService *service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftService: shiftService}
}

// Create handles shift creation
func (h *ShiftHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var input domain.ShiftCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if _, err := time.Parse("15:04", input.StartTime); err != nil {
		response.BadRequest(w, "invalid start_time, expected HH:MM")
		return
	}
	if _, err := time.Parse("15:04", input.EndTime); err != nil {
		response.BadRequest(w, "invalid end_time, expected HH:MM")
		return
	}

	shift, err := h.shiftService.Create(r.Context(), userID, workspaceID, input)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.Created(w, shift)
}

// List returns the workspace's shifts
func (h *ShiftHandler) List(w http.ResponseWriter, r *http.Request) {
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

	shifts, err := h.shiftService.ListByWorkspace(r.Context(), userID, workspaceID)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.OK(w, shifts)
}

// Get returns a single shift
func (h *ShiftHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	shiftID, err := uuidURLParam(r, "shiftID")
	if err != nil {
		response.BadRequest(w, "invalid shift ID")
		return
	}

	shift, err := h.shiftService.GetByID(r.Context(), userID, workspaceID, shiftID)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.OK(w, shift)
}

// Update handles shift updates
func (h *ShiftHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	shiftID, err := uuidURLParam(r, "shiftID")
	if err != nil {
		response.BadRequest(w, "invalid shift ID")
		return
	}

	var input domain.ShiftUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if input.StartTime != nil {
		if _, err := time.Parse("15:04", *input.StartTime); err != nil {
			response.BadRequest(w, "invalid start_time, expected HH:MM")
			return
		}
	}
	if input.EndTime != nil {
		if _, err := time.Parse("15:04", *input.EndTime); err != nil {
			response.BadRequest(w, "invalid end_time, expected HH:MM")
			return
		}
	}

	shift, err := h.shiftService.Update(r.Context(), userID, workspaceID, shiftID, input)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.OK(w, shift)
}

// Delete handles shift deletion
func (h *ShiftHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	shiftID, err := uuidURLParam(r, "shiftID")
	if err != nil {
		response.BadRequest(w, "invalid shift ID")
		return
	}

	if err := h.shiftService.Delete(r.Context(), userID, workspaceID, shiftID); err != nil {
		response.DomainError(w, err)
		return
	}

	response.NoContent(w)
}
