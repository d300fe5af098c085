package handler

import (
	"net/http"

	"github.com/workpulse/workpulse/internal/api/response"
	"github.com/workpulse/workpulse/internal/domain"
	"github.com/workpulse/workpulse/internal/service"
)

// PermissionHandler handles permission catalog endpoints
type PermissionHandler struct {
	permissionService *service.PermissionService
}

// NewPermissionHandler creates a new permission handler
func NewPermissionHandler(permissionService *service.PermissionService) *PermissionHandler {
	return &PermissionHandler{permissionService: permissionService}
}

// List returns the permission catalog, optionally filtered by role
func (h *PermissionHandler) List(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role != "" && role != domain.RoleOwner && role != domain.RoleAdmin && role != domain.RoleMember {
		response.BadRequest(w, "unknown role")
		return
	}

	permissions, err := h.permissionService.List(r.Context(), role)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.OK(w, permissions)
}
