package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/workpulse/workpulse/internal/domain"
)

// AttendanceService owns the lifecycle of daily attendance records: it
// validates actions against the record's current status, applies them as
// compare-and-swap transitions and derives live totals on reads.
//
// Serialization of concurrent mutations happens at the store: the unique
// (user, workspace, date) index decides clock-in races and the status CAS
// decides transition races. A lost CAS is retried once end to end.
type AttendanceService struct {
	attendanceRepo domain.AttendanceRepository
	shiftRepo      domain.ShiftRepository
	workspaceRepo  domain.WorkspaceRepository
	loc            *time.Location
	now            func() time.Time
}

// NewAttendanceService creates a new attendance service. loc decides which
// calendar day a clock event belongs to.
func NewAttendanceService(
	attendanceRepo domain.AttendanceRepository,
	shiftRepo domain.ShiftRepository,
	workspaceRepo domain.WorkspaceRepository,
	loc *time.Location,
) *AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		shiftRepo:      shiftRepo,
		workspaceRepo:  workspaceRepo,
		loc:            loc,
		now:            time.Now,
	}
}

// SetClock overrides the time source. Tests use this for determinism.
func (s *AttendanceService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *AttendanceService) dayKey(now time.Time) (time.Time, string) {
	local := now.In(s.loc)
	return local, local.Format("2006-01-02")
}

// Today returns the current date key in the attendance timezone.
func (s *AttendanceService) Today() string {
	_, date := s.dayKey(s.now())
	return date
}

func (s *AttendanceService) requireMember(ctx context.Context, workspaceID, userID uuid.UUID) error {
	isMember, err := s.workspaceRepo.IsMember(ctx, workspaceID, userID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !isMember {
		return domain.ErrAccessDenied
	}
	return nil
}

// ClockIn creates today's record. The effective shift is pinned here and
// never re-evaluated; lateness is decided once against the shift's grace
// window.
func (s *AttendanceService) ClockIn(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.AttendanceRecord, error) {
	if err := s.requireMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	now := s.now()
	localNow, date := s.dayKey(now)

	existing, err := s.attendanceRepo.GetForDay(ctx, userID, workspaceID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get today's record: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrAlreadyClockedIn
	}

	shift, err := s.shiftRepo.GetDefault(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get default shift: %w", err)
	}
	if shift == nil {
		return nil, domain.ErrShiftNotFound
	}

	status := domain.StatusClockedIn
	if domain.IsLate(shift, localNow, localNow) {
		status = domain.StatusLate
	}

	record := &domain.AttendanceRecord{
		ID:          uuid.New(),
		UserID:      userID,
		WorkspaceID: workspaceID,
		Date:        date,
		ShiftID:     shift.ID,
		Status:      status,
		ClockIn:     &now,
		Breaks:      []domain.BreakPeriod{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// The unique index resolves the concurrent clock-in race: the loser's
	// insert comes back as ErrAlreadyClockedIn.
	if err := s.attendanceRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("workspace_id", workspaceID.String()).
		Str("date", date).
		Str("status", string(status)).
		Msg("clocked in")

	return record, nil
}

// transition runs one read-then-act cycle: load today's record, let apply
// compute the patch from the observed state, then CAS it in. A lost CAS
// (another mutation landed in between) retries the whole cycle exactly once.
func (s *AttendanceService) transition(
	ctx context.Context,
	userID, workspaceID uuid.UUID,
	apply func(record *domain.AttendanceRecord, now time.Time) (domain.TransitionPatch, error),
) (*domain.AttendanceRecord, error) {
	if err := s.requireMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		now := s.now()
		_, date := s.dayKey(now)

		record, err := s.attendanceRepo.GetForDay(ctx, userID, workspaceID, date)
		if err != nil {
			return nil, fmt.Errorf("failed to get today's record: %w", err)
		}
		if record == nil {
			return nil, domain.ErrNoActiveAttendance
		}

		patch, err := apply(record, now)
		if err != nil {
			return nil, err
		}

		updated, err := s.attendanceRepo.ApplyTransition(ctx, record.ID, record.Status, patch)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, domain.ErrStoreConflict) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

// StartBreak opens a break on today's record
func (s *AttendanceService) StartBreak(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.AttendanceRecord, error) {
	return s.transition(ctx, userID, workspaceID, func(record *domain.AttendanceRecord, now time.Time) (domain.TransitionPatch, error) {
		if record.Status != domain.StatusClockedIn && record.Status != domain.StatusLate {
			return domain.TransitionPatch{}, domain.ErrInvalidTransition
		}
		if record.OpenBreak() != nil {
			return domain.TransitionPatch{}, domain.ErrInvalidTransition
		}

		breaks := append(append([]domain.BreakPeriod{}, record.Breaks...), domain.BreakPeriod{Start: now})

		return domain.TransitionPatch{
			Status:         domain.StatusOnBreak,
			PreBreakStatus: record.Status,
			Breaks:         breaks,
		}, nil
	})
}

// EndBreak closes the open break. The status reverts to what it was before
// the break; lateness is never re-derived.
func (s *AttendanceService) EndBreak(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.AttendanceRecord, error) {
	return s.transition(ctx, userID, workspaceID, func(record *domain.AttendanceRecord, now time.Time) (domain.TransitionPatch, error) {
		if record.Status != domain.StatusOnBreak {
			return domain.TransitionPatch{}, domain.ErrInvalidTransition
		}

		breaks := append([]domain.BreakPeriod{}, record.Breaks...)
		closed := false
		for i := range breaks {
			if breaks[i].End == nil {
				end := now
				breaks[i].End = &end
				closed = true
				break
			}
		}
		if !closed {
			return domain.TransitionPatch{}, domain.ErrInvalidTransition
		}

		restored := record.PreBreakStatus
		if restored != domain.StatusClockedIn && restored != domain.StatusLate {
			restored = domain.StatusClockedIn
		}

		return domain.TransitionPatch{
			Status: restored,
			Breaks: breaks,
		}, nil
	})
}

// ClockOut closes today's record and freezes its final work time. Clocking
// out while on break closes the open break at the same instant.
func (s *AttendanceService) ClockOut(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.AttendanceRecord, error) {
	record, err := s.transition(ctx, userID, workspaceID, func(record *domain.AttendanceRecord, now time.Time) (domain.TransitionPatch, error) {
		if record.Status == domain.StatusClockedOut {
			return domain.TransitionPatch{}, domain.ErrInvalidTransition
		}

		breaks := append([]domain.BreakPeriod{}, record.Breaks...)
		for i := range breaks {
			if breaks[i].End == nil {
				end := now
				breaks[i].End = &end
			}
		}

		closed := *record
		closed.Breaks = breaks
		workSeconds := int64(closed.WorkTime(now) / time.Second)
		clockOut := now

		return domain.TransitionPatch{
			Status:      domain.StatusClockedOut,
			ClockOut:    &clockOut,
			Breaks:      breaks,
			WorkSeconds: &workSeconds,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("workspace_id", workspaceID.String()).
		Int64("work_seconds", record.WorkSeconds).
		Msg("clocked out")

	return record, nil
}

// TodayStatus reports the current day's record, the shift in force, the legal
// actions and live derived times. Reads never block on writers; a record
// observed mid-transition is reported as found.
func (s *AttendanceService) TodayStatus(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.TodayStatus, error) {
	if err := s.requireMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	now := s.now()
	_, date := s.dayKey(now)

	record, err := s.attendanceRepo.GetForDay(ctx, userID, workspaceID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get today's record: %w", err)
	}

	if record == nil {
		// Not started: surface the default shift for display, if any.
		shift, err := s.shiftRepo.GetDefault(ctx, workspaceID)
		if err != nil {
			return nil, fmt.Errorf("failed to get default shift: %w", err)
		}
		return &domain.TodayStatus{
			Shift:            shift,
			AvailableActions: domain.ActionsForStatus(domain.StatusNotStarted),
		}, nil
	}

	shift, err := s.shiftRepo.GetByID(ctx, record.ShiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get shift: %w", err)
	}

	return &domain.TodayStatus{
		Record:           record,
		Shift:            shift,
		AvailableActions: record.AvailableActions(),
		WorkSeconds:      int64(record.WorkTime(now) / time.Second),
		BreakSeconds:     int64(record.BreakTime(now) / time.Second),
		ExpectedClockOut: domain.ExpectedClockOut(record, shift),
	}, nil
}
