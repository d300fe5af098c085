package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/workpulse/workpulse/internal/domain"
)

// ShiftService handles shift definition management
type ShiftService struct {
	shiftRepo     domain.ShiftRepository
	workspaceRepo domain.WorkspaceRepository
}

// NewShiftService creates a new shift service
func NewShiftService(shiftRepo domain.ShiftRepository, workspaceRepo domain.WorkspaceRepository) *ShiftService {
	return &ShiftService{shiftRepo: shiftRepo, workspaceRepo: workspaceRepo}
}

func (s *ShiftService) requireAdmin(ctx context.Context, workspaceID, userID uuid.UUID) error {
	member, err := s.workspaceRepo.GetMember(ctx, workspaceID, userID)
	if err != nil {
		return fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil {
		return domain.ErrAccessDenied
	}
	if member.Role != domain.RoleOwner && member.Role != domain.RoleAdmin {
		return domain.ErrAccessDenied
	}
	return nil
}

// Create creates a new shift (admin only). Making it the default clears any
// previous default first.
func (s *ShiftService) Create(ctx context.Context, userID, workspaceID uuid.UUID, input domain.ShiftCreate) (*domain.Shift, error) {
	if err := s.requireAdmin(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	if _, err := time.Parse("15:04", input.StartTime); err != nil {
		return nil, fmt.Errorf("invalid start time %q: %w", input.StartTime, err)
	}
	if _, err := time.Parse("15:04", input.EndTime); err != nil {
		return nil, fmt.Errorf("invalid end time %q: %w", input.EndTime, err)
	}

	if input.IsDefault {
		if err := s.shiftRepo.ClearDefault(ctx, workspaceID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	shift := &domain.Shift{
		ID:           uuid.New(),
		WorkspaceID:  workspaceID,
		Name:         input.Name,
		StartTime:    input.StartTime,
		EndTime:      input.EndTime,
		TotalHours:   input.TotalHours,
		BreakMinutes: input.BreakMinutes,
		GraceMinutes: input.GraceMinutes,
		IsActive:     true,
		IsDefault:    input.IsDefault,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if input.Overtime != nil {
		shift.Overtime = *input.Overtime
	}

	if err := s.shiftRepo.Create(ctx, shift); err != nil {
		return nil, err
	}

	return shift, nil
}

// GetByID retrieves a shift with access check
func (s *ShiftService) GetByID(ctx context.Context, userID, workspaceID, shiftID uuid.UUID) (*domain.Shift, error) {
	isMember, err := s.workspaceRepo.IsMember(ctx, workspaceID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !isMember {
		return nil, domain.ErrAccessDenied
	}

	shift, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if shift == nil || shift.WorkspaceID != workspaceID {
		return nil, domain.ErrShiftNotFound
	}

	return shift, nil
}

// ListByWorkspace retrieves all shifts of a workspace
func (s *ShiftService) ListByWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) ([]domain.Shift, error) {
	isMember, err := s.workspaceRepo.IsMember(ctx, workspaceID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !isMember {
		return nil, domain.ErrAccessDenied
	}

	return s.shiftRepo.ListByWorkspace(ctx, workspaceID)
}

// Update applies a partial update to a shift (admin only)
func (s *ShiftService) Update(ctx context.Context, userID, workspaceID, shiftID uuid.UUID, input domain.ShiftUpdate) (*domain.Shift, error) {
	if err := s.requireAdmin(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	shift, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if shift == nil || shift.WorkspaceID != workspaceID {
		return nil, domain.ErrShiftNotFound
	}

	if input.StartTime != nil {
		if _, err := time.Parse("15:04", *input.StartTime); err != nil {
			return nil, fmt.Errorf("invalid start time %q: %w", *input.StartTime, err)
		}
	}
	if input.EndTime != nil {
		if _, err := time.Parse("15:04", *input.EndTime); err != nil {
			return nil, fmt.Errorf("invalid end time %q: %w", *input.EndTime, err)
		}
	}

	if input.IsDefault != nil && *input.IsDefault && !shift.IsDefault {
		if err := s.shiftRepo.ClearDefault(ctx, workspaceID); err != nil {
			return nil, err
		}
	}

	if err := s.shiftRepo.Update(ctx, shiftID, &input); err != nil {
		return nil, err
	}

	return s.shiftRepo.GetByID(ctx, shiftID)
}

// Delete removes a shift (admin only). Existing attendance records keep
// their pinned shift ID.
func (s *ShiftService) Delete(ctx context.Context, userID, workspaceID, shiftID uuid.UUID) error {
	if err := s.requireAdmin(ctx, workspaceID, userID); err != nil {
		return err
	}

	shift, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return err
	}
	if shift == nil || shift.WorkspaceID != workspaceID {
		return domain.ErrShiftNotFound
	}

	return s.shiftRepo.Delete(ctx, shiftID)
}
