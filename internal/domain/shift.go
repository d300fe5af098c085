package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OvertimePolicy describes whether and how overtime is counted for a shift.
type OvertimePolicy struct {
	Enabled    bool    `json:"enabled"`
	MaxHours   float64 `json:"max_hours"`
	Multiplier float64 `json:"multiplier"`
}

// Shift describes an expected work schedule. The attendance core consumes
// shifts read-only; a record pins its shift at clock-in and never
// re-evaluates it.
type Shift struct {
	ID           uuid.UUID      `json:"id"`
	WorkspaceID  uuid.UUID      `json:"workspace_id"`
	Name         string         `json:"name"`
	StartTime    string         `json:"start_time"` // "15:04"
	EndTime      string         `json:"end_time"`
	TotalHours   float64        `json:"total_hours"`
	BreakMinutes int            `json:"break_minutes"`
	GraceMinutes int            `json:"grace_minutes"`
	Overtime     OvertimePolicy `json:"overtime"`
	IsActive     bool           `json:"is_active"`
	IsDefault    bool           `json:"is_default"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// StartOn resolves the shift's nominal start instant on the given calendar
// day, in that day's location.
func (s *Shift) StartOn(day time.Time) (time.Time, error) {
	t, err := time.Parse("15:04", s.StartTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid shift start time %q: %w", s.StartTime, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}

// Duration returns the expected working duration of the shift.
func (s *Shift) Duration() time.Duration {
	return time.Duration(s.TotalHours * float64(time.Hour))
}

// Grace returns the permitted lateness window after the nominal start.
func (s *Shift) Grace() time.Duration {
	return time.Duration(s.GraceMinutes) * time.Minute
}

// ShiftCreate represents shift creation data
type ShiftCreate struct {
	Name         string          `json:"name" validate:"required,max=255"`
	StartTime    string          `json:"start_time" validate:"required,len=5"`
	EndTime      string          `json:"end_time" validate:"required,len=5"`
	TotalHours   float64         `json:"total_hours" validate:"required,gt=0,lte=24"`
	BreakMinutes int             `json:"break_minutes" validate:"gte=0,lte=480"`
	GraceMinutes int             `json:"grace_minutes" validate:"gte=0,lte=240"`
	Overtime     *OvertimePolicy `json:"overtime,omitempty"`
	IsDefault    bool            `json:"is_default"`
}

// ShiftUpdate represents shift update data
type ShiftUpdate struct {
	Name         *string         `json:"name,omitempty" validate:"omitempty,max=255"`
	StartTime    *string         `json:"start_time,omitempty" validate:"omitempty,len=5"`
	EndTime      *string         `json:"end_time,omitempty" validate:"omitempty,len=5"`
	TotalHours   *float64        `json:"total_hours,omitempty" validate:"omitempty,gt=0,lte=24"`
	BreakMinutes *int            `json:"break_minutes,omitempty" validate:"omitempty,gte=0,lte=480"`
	GraceMinutes *int            `json:"grace_minutes,omitempty" validate:"omitempty,gte=0,lte=240"`
	Overtime     *OvertimePolicy `json:"overtime,omitempty"`
	IsActive     *bool           `json:"is_active,omitempty"`
	IsDefault    *bool           `json:"is_default,omitempty"`
}

// ShiftRepository defines the interface for shift storage
type ShiftRepository interface {
	Create(ctx context.Context, shift *Shift) error
	GetByID(ctx context.Context, id uuid.UUID) (*Shift, error)
	GetDefault(ctx context.Context, workspaceID uuid.UUID) (*Shift, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]Shift, error)
	Update(ctx context.Context, id uuid.UUID, update *ShiftUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	ClearDefault(ctx context.Context, workspaceID uuid.UUID) error
}
