package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/workpulse/workpulse/internal/domain"
)

// WorkspaceService handles workspace operations
type WorkspaceService struct {
	workspaceRepo domain.WorkspaceRepository
}

// NewWorkspaceService creates a new workspace service
func NewWorkspaceService(workspaceRepo domain.WorkspaceRepository) *WorkspaceService {
	return &WorkspaceService{workspaceRepo: workspaceRepo}
}

// Create creates a new workspace and adds the creator as owner
func (s *WorkspaceService) Create(ctx context.Context, userID uuid.UUID, input domain.WorkspaceCreate) (*domain.Workspace, error) {
	now := time.Now()
	workspace := &domain.Workspace{
		ID:        uuid.New(),
		Name:      input.Name,
		Settings:  input.Settings,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.workspaceRepo.Create(ctx, workspace); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	member := &domain.WorkspaceMember{
		WorkspaceID: workspace.ID,
		UserID:      userID,
		Role:        domain.RoleOwner,
		CreatedAt:   now,
	}

	if err := s.workspaceRepo.AddMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return workspace, nil
}

// GetByID retrieves a workspace by ID with access check
func (s *WorkspaceService) GetByID(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.Workspace, error) {
	isMember, err := s.workspaceRepo.IsMember(ctx, workspaceID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !isMember {
		return nil, domain.ErrAccessDenied
	}

	workspace, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	if workspace == nil {
		return nil, domain.ErrNotFound
	}

	return workspace, nil
}

// ListByUser retrieves all workspaces for a user
func (s *WorkspaceService) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Workspace, error) {
	workspaces, err := s.workspaceRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return workspaces, nil
}

// Update updates a workspace (admin or owner)
func (s *WorkspaceService) Update(ctx context.Context, userID, workspaceID uuid.UUID, input domain.WorkspaceUpdate) (*domain.Workspace, error) {
	member, err := s.workspaceRepo.GetMember(ctx, workspaceID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil || (member.Role != domain.RoleOwner && member.Role != domain.RoleAdmin) {
		return nil, domain.ErrAccessDenied
	}

	if err := s.workspaceRepo.Update(ctx, workspaceID, &input); err != nil {
		return nil, fmt.Errorf("failed to update workspace: %w", err)
	}

	return s.workspaceRepo.GetByID(ctx, workspaceID)
}

// Delete deletes a workspace (owner only)
func (s *WorkspaceService) Delete(ctx context.Context, userID, workspaceID uuid.UUID) error {
	member, err := s.workspaceRepo.GetMember(ctx, workspaceID, userID)
	if err != nil {
		return fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil || member.Role != domain.RoleOwner {
		return domain.ErrAccessDenied
	}

	return s.workspaceRepo.Delete(ctx, workspaceID)
}

// AddMember adds a member to a workspace (admin or owner)
func (s *WorkspaceService) AddMember(ctx context.Context, requesterID, workspaceID, userID uuid.UUID, role string) error {
	member, err := s.workspaceRepo.GetMember(ctx, workspaceID, requesterID)
	if err != nil {
		return fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil || (member.Role != domain.RoleOwner && member.Role != domain.RoleAdmin) {
		return domain.ErrAccessDenied
	}

	if role != domain.RoleMember && role != domain.RoleAdmin {
		return errors.New("invalid role")
	}

	newMember := &domain.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        role,
		CreatedAt:   time.Now(),
	}

	return s.workspaceRepo.AddMember(ctx, newMember)
}

// RemoveMember removes a member from a workspace (admin or owner; owners
// cannot be removed)
func (s *WorkspaceService) RemoveMember(ctx context.Context, requesterID, workspaceID, userID uuid.UUID) error {
	member, err := s.workspaceRepo.GetMember(ctx, workspaceID, requesterID)
	if err != nil {
		return fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil || (member.Role != domain.RoleOwner && member.Role != domain.RoleAdmin) {
		return domain.ErrAccessDenied
	}

	target, err := s.workspaceRepo.GetMember(ctx, workspaceID, userID)
	if err != nil {
		return fmt.Errorf("failed to get target member: %w", err)
	}
	if target != nil && target.Role == domain.RoleOwner {
		return fmt.Errorf("%w: owner cannot be removed", domain.ErrAccessDenied)
	}

	return s.workspaceRepo.RemoveMember(ctx, workspaceID, userID)
}
