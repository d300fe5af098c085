package service

import (
	"context"

	"github.com/workpulse/workpulse/internal/domain"
)

// PermissionService lists the seeded permission catalog
type PermissionService struct {
	permissionRepo domain.PermissionRepository
}

// NewPermissionService creates a new permission service
func NewPermissionService(permissionRepo domain.PermissionRepository) *PermissionService {
	return &PermissionService{permissionRepo: permissionRepo}
}

// List retrieves the permission catalog, optionally filtered by role
func (s *PermissionService) List(ctx context.Context, role string) ([]domain.Permission, error) {
	if role != "" {
		return s.permissionRepo.ListForRole(ctx, role)
	}
	return s.permissionRepo.List(ctx)
}
