package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/workpulse/workpulse/internal/domain"
)

var (
	testUserID      = uuid.New()
	testWorkspaceID = uuid.New()
	testDate        = "2026-03-02"
)

func clockAt(hour, min, sec int) time.Time {
	return time.Date(2026, time.March, 2, hour, min, sec, 0, time.UTC)
}

func timePtr(t time.Time) *time.Time { return &t }

func dayShift() *domain.Shift {
	return &domain.Shift{
		ID:           uuid.New(),
		WorkspaceID:  testWorkspaceID,
		Name:         "Day Shift",
		StartTime:    "09:00",
		EndTime:      "17:00",
		TotalHours:   8,
		GraceMinutes: 10,
		IsActive:     true,
		IsDefault:    true,
	}
}

func newTestAttendanceService(att *MockAttendanceRepository, shifts *MockShiftRepository, ws *MockWorkspaceRepository, now time.Time) *AttendanceService {
	svc := NewAttendanceService(att, shifts, ws, time.UTC)
	svc.SetClock(func() time.Time { return now })
	return svc
}

func expectMember(ws *MockWorkspaceRepository) {
	ws.On("IsMember", mock.Anything, testWorkspaceID, testUserID).Return(true, nil)
}

func TestClockIn_OnTime(t *testing.T) {
	att := new(MockAttendanceRepository)
	shifts := new(MockShiftRepository)
	ws := new(MockWorkspaceRepository)
	expectMember(ws)

	shift := dayShift()
	att.On("GetForDay", mock.Anything, testUserID, testWorkspaceID, testDate).Return(nil, nil)
	shifts.On("GetDefault", mock.Anything, testWorkspaceID).Return(shift, nil)
	att.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.AttendanceRecord) bool {
		return r.Status == domain.StatusClockedIn && r.ShiftID == shift.ID && r.Date == testDate && r.ClockIn != nil
	})).Return(nil)

	svc := newTestAttendanceService(att, shifts, ws, clockAt(9, 5, 0))
	record, err := svc.ClockIn(context.Background(), testUserID, testWorkspaceID)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusClockedIn, record.Status)
	att.AssertExpectations(t)
}

func TestClockIn_PastGraceIsLate(t *testing.T) {
	att := new(MockAttendanceRepository)
	shifts := new(MockShiftRepository)
	ws := new(MockWorkspaceRepository)
	expectMember(ws)

	att.On("GetForDay", mock.Anything, testUserID, testWorkspaceID, testDate).Return(nil, nil)
	shifts.On("GetDefault", mock.Anything, testWorkspaceID).Return(dayShift(), nil)
	att.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.AttendanceRecord) bool {
		return r.Status == domain.StatusLate
	})).Return(nil)

	// One second past the 10 minute grace window.
	svc := newTestAttendanceService(att, shifts, ws, clockAt(9, 10, 1))
	record, err := svc.ClockIn(context.Background(), testUserID, testWorkspaceID)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusLate, record.Status)
}

func TestClockIn_AtGraceBoundaryIsOnTime(t *testing.T) {
	att := new(MockAttendanceRepository)
	shifts := new(MockShiftRepository)
	ws := new(MockWorkspaceRepository)
	expectMember(ws)

	att.On("GetForDay", mock.Anything, testUserID, testWorkspaceID, testDate).Return(nil, nil)
	shifts.On("GetDefault", mock.Anything, testWorkspaceID).Return(dayShift(), nil)
	att.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.AttendanceRecord) bool {
		return r.Status == domain.StatusClockedIn
	})).Return(nil)

	svc := newTestAttendanceService(att, shifts, ws, clockAt(9, 10, 0))
	record, err := svc.ClockIn(context.Background(), testUserID, testWorkspaceID)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusClockedIn, record.Status)
}

func TestClockIn_Duplicate(t *testing.T) {
	att := new(MockAttendanceRepository)
	shifts := new(MockShiftRepository)
	ws := new(MockWorkspaceRepository)
	expectMember(ws)

	existing := &domain.AttendanceRecord{ID: uuid.New(), Status: domain.StatusClockedIn}
	att.On("GetForDay", mock.Anything, testUserID, testWorkspaceID, testDate).Return(existing, nil)

	svc := newTestAttendanceService(att, shifts, ws, clockAt(10, 0, 0))
	_, err := svc.ClockIn(context.Background(), testUserID, testWorkspaceID)

	assert.ErrorIs(t, err, domain.ErrAlreadyClockedIn)
	att.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestClockIn_InsertRaceLost(t *testing.T) {
	att := new(MockAttendanceRepository)
	shifts := new(MockShiftRepository)
	ws := new(MockWorkspaceRepository)
	expectMember(ws)

	// The read sees no record but another instance inserts first; the unique
	// index turns our insert into ErrAlreadyClockedIn.
	att.On("GetForDay", mock.Anything, testUserID, testWorkspaceID, testDate).Return(nil, nil)
	shifts.On("GetDefault", mock.Anything, testWorkspaceID).Return(dayShift(), nil)
	att.On("Create", mock.Anything, mock.Anything).Return(domain.ErrAlreadyClockedIn)

	svc := newTestAttendanceService(att, shifts, ws, clockAt(9, 0, 0))
	_, err := svc.ClockIn(context.Background(), testUserID, testWorkspaceID)

	assert.ErrorIs(t, err, domain.ErrAlreadyClockedIn)
}

func TestClockIn_NoDefaultShift(t *testing.T) {
	att := new(MockAttendanceRepository)
	shifts := new(MockShiftRepository)
	ws := new(MockWorkspaceRepository)
	expectMember(ws)

	att.On("GetForDay", mock.Anything, testUserID, testWorkspaceID, testDate).Return(nil, nil)
	shifts.On("GetDefault", mock.Anything, testWorkspaceID).Return(nil, nil)

	svc := newTestAttendanceService(att, shifts, ws, clockAt(9, 0, 0))
	_, err := svc.ClockIn(context.Background(), testUserID, testWorkspaceID)

	assert.ErrorIs(t, err, domain.ErrShiftNotFound)
}

func TestClockIn_NotAMember(t *testing.T) {
	att := new(MockAttendanceRepository)
	shifts := new(MockShiftRepository)
	ws := new(MockWorkspaceRepository)
	ws.On("IsMember", mock.Anything, testWorkspaceID, testUserID).Return(false, nil)

	svc := newTestAttendanceService(att, shifts, ws, clockAt(9, 0, 0))
	_, err := svc.ClockIn(context.Background(), testUserID, testWorkspaceID)

	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestStartBreak(t *testing.T) {
	att := new(MockAttendanceRepository)
	shifts := new(MockShiftRepository)
	ws := new(MockWorkspaceRepository)
	expectMember(ws)

	record := &domain.AttendanceRecord{
		ID:      uuid.New(),
		Status:  domain.StatusLate,
		ClockIn: timePtr(clockAt(9, 30, 0)),
	}
	updated := &domain.AttendanceRecord{ID: record.ID, Status: domain.StatusOnBreak}

	att.On("GetForDay", mock.Anything, testUserID, testWorkspaceID, testDate).Return(record, nil)
	att.On("ApplyTransition", mock.Anything, record.ID, domain.StatusLate, mock.MatchedBy(func(p domain.TransitionPatch) bool {
		return p.Status == domain.StatusOnBreak &&
			p.PreBreakStatus == domain.StatusLate &&
			len(p.Breaks) == 1 && p.Breaks[0].End == nil
	})).Return(updated, nil)

	svc := newTestAttendanceService(att, shifts, ws, clockAt(12, 0, 0))
	got, err := svc.StartBreak(context.Background(), testUserID, testWorkspaceID)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusOnBreak, got.Status)
	att.AssertExpectations(t)
}

func TestStartBreak_AlreadyOnBreak(t *testing.T) {
	att := new(MockAttendanceRepository)
	shifts := new(MockShiftRepository)
	ws := new(MockWorkspaceRepository)
	expectMember(ws)

	record := &domain.AttendanceRecord{
		ID:     uuid.New(),
		Status: domain.StatusOnBreak,
		Breaks: []domain.BreakPeriod{{Start: clockAt(12, 0, 0)}},
	}
	att.On("GetForDay", mock.Anything, testUserID, testWorkspaceID, testDate).Return(record, nil)

	svc := newTestAttendanceService(att, shifts, ws, clockAt(12, 5, 0))
	_, err := svc.StartBreak(context.Background(), testUserID, testWorkspaceID)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestStartBreak_NoRecord(t *testing.T) {
	att := new(MockAttendanceRepository)
	shifts := new(MockShiftRepository)
	ws := new(MockWorkspaceRepository)
	expectMember(ws)

	att.On("GetForDay", mock.Anything, testUserID, testWorkspaceID, testDate).Return(nil, nil)

	svc := newTestAttendanceService(att, shifts, ws, clockAt(12, 0, 0))
	_, err := svc.StartBreak(context.Background(), testUserID, testWorkspaceID)

	assert.ErrorIs(t, err, domain.ErrNoActiveAttendance)
}

func TestEndBreak_RestoresPreBreakStatus(t *testing.T) {
	att := new(MockAttendanceRepository)
	shifts := new(MockShiftRepository)
	ws := new(MockWorkspaceRepository)
	expectMember(ws)

	record := &domain.AttendanceRecord{
		ID:             uuid.New(),
		Status:         domain.StatusOnBreak,
		PreBreakStatus: domain.StatusLate,
		ClockIn:        timePtr(clockAt(9, 30, 0)),
		Breaks:         []domain.BreakPeriod{{Start: clockAt(12, 0, 0)}},
	}
	updated := &domain.AttendanceRecord{ID: record.ID, Status: domain.StatusLate}

	// Lateness is restored from the stored pre-break status, never re-derived.
	att.On("GetForDay", mock.Anything, testUserID, testWorkspaceID, testDate).Return(record, nil)
	att.On("ApplyTransition", mock.Anything, record.ID, domain.StatusOnBreak, mock.MatchedBy(func(p domain.TransitionPatch) bool {
		return p.Status == domain.StatusLate &&
			p.PreBreakStatus == "" &&
			len(p.Breaks) == 1 && p.Breaks[0].End != nil && p.Breaks[0].End.Equal(clockAt(12, 30, 0))
	})).Return(updated, nil)

	svc := newTestAttendanceService(att, shifts, ws, clockAt(12, 30, 0))
	got, err := svc.EndBreak(context.Background(), testUserID, testWorkspaceID)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusLate, got.Status)
}

func TestEndBreak_NoOpenBreak(t *testing.T) {
	att := new(MockAttendanceRepository)
	shifts := new(MockShiftRepository)
	ws := new(MockWorkspaceRepository)
	expectMember(ws)

	record := &domain.AttendanceRecord{
		ID:      uuid.New(),
		Status:  domain.StatusClockedIn,
		ClockIn: timePtr(clockAt(9, 0, 0)),
	}
	att.On("GetForDay", mock.Anything, testUserID, testWorkspaceID, testDate).Return(record, nil)

	svc := newTestAttendanceService(att, shifts, ws, clockAt(12, 0, 0))
	_, err := svc.EndBreak(context.Background(), testUserID, testWorkspaceID)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestClockOut_ComputesFinalWorkTime(t *testing.T) {
	att := new(MockAttendanceRepository)
	shifts := new(MockShiftRepository)
	ws := new(MockWorkspaceRepository)
	expectMember(ws)

	// Clock-in 09:00, break 12:00-12:30, clock-out 17:00 -> 7h30m.
	record := &domain.AttendanceRecord{
		ID:      uuid.New(),
		Status:  domain.StatusClockedIn,
		ClockIn: timePtr(clockAt(9, 0, 0)),
		Breaks:  []domain.BreakPeriod{{Start: clockAt(12, 0, 0), End: timePtr(clockAt(12, 30, 0))}},
	}
	wantSeconds := int64((7*time.Hour + 30*time.Minute) / time.Second)
	updated := &domain.AttendanceRecord{ID: record.ID, Status: domain.StatusClockedOut, WorkSeconds: wantSeconds}

	att.On("GetForDay", mock.Anything, testUserID, testWorkspaceID, testDate).Return(record, nil)
	att.On("ApplyTransition", mock.Anything, record.ID, domain.StatusClockedIn, mock.MatchedBy(func(p domain.TransitionPatch) bool {
		return p.Status == domain.StatusClockedOut &&
			p.ClockOut != nil && p.ClockOut.Equal(clockAt(17, 0, 0)) &&
			p.WorkSeconds != nil && *p.WorkSeconds == wantSeconds
	})).Return(updated, nil)

	svc := newTestAttendanceService(att, shifts, ws, clockAt(17, 0, 0))
	got, err := svc.ClockOut(context.Background(), testUserID, testWorkspaceID)

	require.NoError(t, err)
	assert.Equal(t, wantSeconds, got.WorkSeconds)
}

func TestClockOut_AutoClosesOpenBreak(t *testing.T) {
	att := new(MockAttendanceRepository)
	shifts := new(MockShiftRepository)
	ws := new(MockWorkspaceRepository)
	expectMember(ws)

	record := &domain.AttendanceRecord{
		ID:             uuid.New(),
		Status:         domain.StatusOnBreak,
		PreBreakStatus: domain.StatusClockedIn,
		ClockIn:        timePtr(clockAt(9, 0, 0)),
		Breaks:         []domain.BreakPeriod{{Start: clockAt(12, 0, 0)}},
	}
	// Break runs 12:00 to the 12:30 clock-out -> 3h work.
	wantSeconds := int64(3 * time.Hour / time.Second)
	updated := &domain.AttendanceRecord{ID: record.ID, Status: domain.StatusClockedOut, WorkSeconds: wantSeconds}

	att.On("GetForDay", mock.Anything, testUserID, testWorkspaceID, testDate).Return(record, nil)
	att.On("ApplyTransition", mock.Anything, record.ID, domain.StatusOnBreak, mock.MatchedBy(func(p domain.TransitionPatch) bool {
		return p.Status == domain.StatusClockedOut &&
			len(p.Breaks) == 1 && p.Breaks[0].End != nil && p.Breaks[0].End.Equal(clockAt(12, 30, 0)) &&
			p.WorkSeconds != nil && *p.WorkSeconds == wantSeconds
	})).Return(updated, nil)

	svc := newTestAttendanceService(att, shifts, ws, clockAt(12, 30, 0))
	got, err := svc.ClockOut(context.Background(), testUserID, testWorkspaceID)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusClockedOut, got.Status)
}

func TestClockOut_Terminal(t *testing.T) {
	att := new(MockAttendanceRepository)
	shifts := new(MockShiftRepository)
	ws := new(MockWorkspaceRepository)
	expectMember(ws)

	record := &domain.AttendanceRecord{ID: uuid.New(), Status: domain.StatusClockedOut}
	att.On("GetForDay", mock.Anything, testUserID, testWorkspaceID, testDate).Return(record, nil)

	svc := newTestAttendanceService(att, shifts, ws, clockAt(18, 0, 0))
	_, err := svc.ClockOut(context.Background(), testUserID, testWorkspaceID)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestTransition_RetriesOnceOnConflict(t *testing.T) {
	att := new(MockAttendanceRepository)
	shifts := new(MockShiftRepository)
	ws := new(MockWorkspaceRepository)
	expectMember(ws)

	record := &domain.AttendanceRecord{
		ID:      uuid.New(),
		Status:  domain.StatusClockedIn,
		ClockIn: timePtr(clockAt(9, 0, 0)),
	}
	updated := &domain.AttendanceRecord{ID: record.ID, Status: domain.StatusOnBreak}

	att.On("GetForDay", mock.Anything, testUserID, testWorkspaceID, testDate).Return(record, nil).Twice()
	att.On("ApplyTransition", mock.Anything, record.ID, domain.StatusClockedIn, mock.Anything).
		Return(nil, domain.ErrStoreConflict).Once()
	att.On("ApplyTransition", mock.Anything, record.ID, domain.StatusClockedIn, mock.Anything).
		Return(updated, nil).Once()

	svc := newTestAttendanceService(att, shifts, ws, clockAt(12, 0, 0))
	got, err := svc.StartBreak(context.Background(), testUserID, testWorkspaceID)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusOnBreak, got.Status)
	att.AssertExpectations(t)
}

func TestTransition_SurfacesConflictAfterRetry(t *testing.T) {
	att := new(MockAttendanceRepository)
	shifts := new(MockShiftRepository)
	ws := new(MockWorkspaceRepository)
	expectMember(ws)

	record := &domain.AttendanceRecord{
		ID:      uuid.New(),
		Status:  domain.StatusClockedIn,
		ClockIn: timePtr(clockAt(9, 0, 0)),
	}

	att.On("GetForDay", mock.Anything, testUserID, testWorkspaceID, testDate).Return(record, nil).Twice()
	att.On("ApplyTransition", mock.Anything, record.ID, domain.StatusClockedIn, mock.Anything).
		Return(nil, domain.ErrStoreConflict).Twice()

	svc := newTestAttendanceService(att, shifts, ws, clockAt(12, 0, 0))
	_, err := svc.StartBreak(context.Background(), testUserID, testWorkspaceID)

	assert.ErrorIs(t, err, domain.ErrStoreConflict)
	att.AssertExpectations(t)
}

func TestTodayStatus_NotStarted(t *testing.T) {
	att := new(MockAttendanceRepository)
	shifts := new(MockShiftRepository)
	ws := new(MockWorkspaceRepository)
	expectMember(ws)

	shift := dayShift()
	att.On("GetForDay", mock.Anything, testUserID, testWorkspaceID, testDate).Return(nil, nil)
	shifts.On("GetDefault", mock.Anything, testWorkspaceID).Return(shift, nil)

	svc := newTestAttendanceService(att, shifts, ws, clockAt(8, 0, 0))
	status, err := svc.TodayStatus(context.Background(), testUserID, testWorkspaceID)

	require.NoError(t, err)
	assert.Nil(t, status.Record)
	assert.Equal(t, shift, status.Shift)
	assert.Equal(t, []domain.AttendanceAction{domain.ActionClockIn}, status.AvailableActions)
	assert.Zero(t, status.WorkSeconds)
	assert.Nil(t, status.ExpectedClockOut)
}

func TestTodayStatus_OpenRecord(t *testing.T) {
	att := new(MockAttendanceRepository)
	shifts := new(MockShiftRepository)
	ws := new(MockWorkspaceRepository)
	expectMember(ws)

	shift := dayShift()
	record := &domain.AttendanceRecord{
		ID:      uuid.New(),
		Status:  domain.StatusClockedIn,
		ShiftID: shift.ID,
		ClockIn: timePtr(clockAt(9, 0, 0)),
		Breaks:  []domain.BreakPeriod{{Start: clockAt(12, 0, 0), End: timePtr(clockAt(12, 30, 0))}},
	}
	att.On("GetForDay", mock.Anything, testUserID, testWorkspaceID, testDate).Return(record, nil)
	shifts.On("GetByID", mock.Anything, shift.ID).Return(shift, nil)

	svc := newTestAttendanceService(att, shifts, ws, clockAt(14, 0, 0))
	status, err := svc.TodayStatus(context.Background(), testUserID, testWorkspaceID)

	require.NoError(t, err)
	assert.Equal(t, int64((4*time.Hour+30*time.Minute)/time.Second), status.WorkSeconds)
	assert.Equal(t, int64(30*time.Minute/time.Second), status.BreakSeconds)
	require.NotNil(t, status.ExpectedClockOut)
	assert.True(t, status.ExpectedClockOut.Equal(clockAt(17, 0, 0)))
	assert.Equal(t, []domain.AttendanceAction{domain.ActionStartBreak, domain.ActionClockOut}, status.AvailableActions)
}
