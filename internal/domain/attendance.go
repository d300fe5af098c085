package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AttendanceStatus is the lifecycle state of a daily attendance record.
type AttendanceStatus string

const (
	// StatusNotStarted is virtual: no record exists for the day yet.
	StatusNotStarted AttendanceStatus = "not_started"
	StatusClockedIn  AttendanceStatus = "clocked_in"
	StatusLate       AttendanceStatus = "late"
	StatusOnBreak    AttendanceStatus = "on_break"
	// StatusClockedOut is terminal; the record accepts no further transitions.
	StatusClockedOut AttendanceStatus = "clocked_out"
)

// AttendanceAction is an operation a user may perform on today's record.
type AttendanceAction string

const (
	ActionClockIn    AttendanceAction = "clock_in"
	ActionStartBreak AttendanceAction = "start_break"
	ActionEndBreak   AttendanceAction = "end_break"
	ActionClockOut   AttendanceAction = "clock_out"
)

// BreakPeriod is one break interval. End is absent while the break is open.
type BreakPeriod struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
}

// Duration returns the elapsed time of the break, measuring an open break
// against now.
func (b BreakPeriod) Duration(now time.Time) time.Duration {
	if b.End != nil {
		return b.End.Sub(b.Start)
	}
	if now.Before(b.Start) {
		return 0
	}
	return now.Sub(b.Start)
}

// AttendanceRecord is the single per-user-per-day row tracking clock-in,
// breaks and clock-out. At most one record exists per (user, workspace, date);
// the store enforces this with a unique index.
type AttendanceRecord struct {
	ID          uuid.UUID        `json:"id"`
	UserID      uuid.UUID        `json:"user_id"`
	WorkspaceID uuid.UUID        `json:"workspace_id"`
	Date        string           `json:"date"` // YYYY-MM-DD in the attendance timezone
	ShiftID     uuid.UUID        `json:"shift_id"`
	Status      AttendanceStatus `json:"status"`
	// PreBreakStatus remembers clocked_in vs late across a break so that
	// ending a break restores it without re-deriving lateness.
	PreBreakStatus AttendanceStatus `json:"-"`
	ClockIn        *time.Time       `json:"clock_in,omitempty"`
	ClockOut       *time.Time       `json:"clock_out,omitempty"`
	Breaks         []BreakPeriod    `json:"breaks"`
	// WorkSeconds is the final total, written once at clock-out and never
	// recomputed afterward.
	WorkSeconds int64     `json:"work_seconds"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OpenBreak returns the break without an end, or nil. The state machine
// guarantees at most one.
func (r *AttendanceRecord) OpenBreak() *BreakPeriod {
	for i := range r.Breaks {
		if r.Breaks[i].End == nil {
			return &r.Breaks[i]
		}
	}
	return nil
}

// BreakTime sums closed breaks and, if one is open, its elapsed time to now.
func (r *AttendanceRecord) BreakTime(now time.Time) time.Duration {
	var total time.Duration
	for _, b := range r.Breaks {
		total += b.Duration(now)
	}
	return total
}

// WorkTime computes elapsed work time net of breaks. For a closed record the
// persisted total is returned verbatim so history stays stable; for an open
// record it is recomputed against now on every call. Negative results from
// clock skew are clamped to zero.
func (r *AttendanceRecord) WorkTime(now time.Time) time.Duration {
	if r.Status == StatusClockedOut {
		return time.Duration(r.WorkSeconds) * time.Second
	}
	if r.ClockIn == nil {
		return 0
	}
	work := now.Sub(*r.ClockIn) - r.BreakTime(now)
	if work < 0 {
		return 0
	}
	return work
}

// AvailableActions projects the record's status onto the set of legal actions.
func (r *AttendanceRecord) AvailableActions() []AttendanceAction {
	if r == nil {
		return ActionsForStatus(StatusNotStarted)
	}
	return ActionsForStatus(r.Status)
}

// ActionsForStatus returns the actions legal from a status.
func ActionsForStatus(status AttendanceStatus) []AttendanceAction {
	switch status {
	case StatusNotStarted:
		return []AttendanceAction{ActionClockIn}
	case StatusClockedIn, StatusLate:
		return []AttendanceAction{ActionStartBreak, ActionClockOut}
	case StatusOnBreak:
		return []AttendanceAction{ActionEndBreak}
	default: // clocked_out
		return []AttendanceAction{}
	}
}

// IsLate reports whether a clock-in on the given day missed the shift's grace
// window. The boundary is inclusive: clocking in exactly at start+grace is on
// time. A shift with an unparseable start time never marks anyone late.
func IsLate(shift *Shift, day time.Time, clockIn time.Time) bool {
	if shift == nil {
		return false
	}
	start, err := shift.StartOn(day)
	if err != nil {
		return false
	}
	return clockIn.After(start.Add(shift.Grace()))
}

// ExpectedClockOut estimates when the user completes the shift: the shift
// duration offset from the actual clock-in, so the estimate stays accurate
// for late arrivals. Nil for closed records or before clock-in.
func ExpectedClockOut(r *AttendanceRecord, shift *Shift) *time.Time {
	if r == nil || shift == nil || r.ClockIn == nil || r.Status == StatusClockedOut {
		return nil
	}
	t := r.ClockIn.Add(shift.Duration())
	return &t
}

// TransitionPatch is the record mutation applied atomically by the store,
// conditioned on the status observed when the transition was computed.
type TransitionPatch struct {
	Status         AttendanceStatus
	PreBreakStatus AttendanceStatus // empty clears the field
	ClockOut       *time.Time
	Breaks         []BreakPeriod
	WorkSeconds    *int64
}

// TodayStatus is the read projection for the current day: the record (nil
// before first clock-in), the shift in force, the legal actions and live
// derived times.
type TodayStatus struct {
	Record           *AttendanceRecord  `json:"record"`
	Shift            *Shift             `json:"shift,omitempty"`
	AvailableActions []AttendanceAction `json:"available_actions"`
	WorkSeconds      int64              `json:"work_seconds"`
	BreakSeconds     int64              `json:"break_seconds"`
	ExpectedClockOut *time.Time         `json:"expected_clock_out,omitempty"`
}

// AttendanceRepository defines the interface for attendance storage.
//
// Create must fail with ErrAlreadyClockedIn when a record already exists for
// the same (user, workspace, date). ApplyTransition must update the record
// only if its status still equals expected, failing with ErrStoreConflict
// otherwise; this is the compare-and-swap that serializes concurrent
// mutations across service instances.
type AttendanceRepository interface {
	Create(ctx context.Context, record *AttendanceRecord) error
	GetForDay(ctx context.Context, userID, workspaceID uuid.UUID, date string) (*AttendanceRecord, error)
	ApplyTransition(ctx context.Context, id uuid.UUID, expected AttendanceStatus, patch TransitionPatch) (*AttendanceRecord, error)
	ListForWorkspaceDay(ctx context.Context, workspaceID uuid.UUID, date string) ([]AttendanceRecord, error)
}
