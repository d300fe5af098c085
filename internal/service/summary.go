package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/workpulse/workpulse/internal/domain"
	"github.com/workpulse/workpulse/internal/repository/redis"
)

// SummaryService folds a workspace's attendance records for one day into
// per-status counts. Read-only; a short-TTL Redis cache absorbs dashboard
// polling, and cache failures degrade to direct reads.
type SummaryService struct {
	attendanceRepo domain.AttendanceRepository
	workspaceRepo  domain.WorkspaceRepository
	cache          *redis.SummaryCache
}

// NewSummaryService creates a new summary service. cache may be nil.
func NewSummaryService(
	attendanceRepo domain.AttendanceRepository,
	workspaceRepo domain.WorkspaceRepository,
	cache *redis.SummaryCache,
) *SummaryService {
	return &SummaryService{
		attendanceRepo: attendanceRepo,
		workspaceRepo:  workspaceRepo,
		cache:          cache,
	}
}

// WorkspaceSummary computes the per-status counts for a workspace and day.
// Zero records yield zero counts, never an error.
func (s *SummaryService) WorkspaceSummary(ctx context.Context, userID, workspaceID uuid.UUID, date string) (*domain.WorkspaceDailySummary, error) {
	isMember, err := s.workspaceRepo.IsMember(ctx, workspaceID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !isMember {
		return nil, domain.ErrAccessDenied
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, workspaceID, date); err == nil && cached != nil {
			return cached, nil
		}
	}

	records, err := s.attendanceRepo.ListForWorkspaceDay(ctx, workspaceID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	summary := domain.SummarizeDay(workspaceID, date, records)

	if s.cache != nil {
		if err := s.cache.Set(ctx, &summary); err != nil {
			log.Warn().Err(err).Msg("failed to cache workspace summary")
		}
	}

	return &summary, nil
}
