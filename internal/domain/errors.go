package domain

import "errors"

// Sentinel errors recovered at the API boundary. Repositories and services
// wrap these with context; handlers match them with errors.Is.
var (
	// ErrNoActiveAttendance means a break or clock-out action was attempted
	// with no attendance record open for the day.
	ErrNoActiveAttendance = errors.New("no active attendance record for today")

	// ErrAlreadyClockedIn means a second clock-in was attempted for the same
	// user, workspace and day.
	ErrAlreadyClockedIn = errors.New("already clocked in today")

	// ErrInvalidTransition means the action is not legal from the record's
	// current status.
	ErrInvalidTransition = errors.New("action not allowed in current status")

	// ErrShiftNotFound means no shift could be resolved at clock-in.
	ErrShiftNotFound = errors.New("shift not found")

	// ErrStoreConflict means a concurrent mutation won the race; the
	// read-then-act sequence may be retried once.
	ErrStoreConflict = errors.New("attendance record was modified concurrently")

	ErrNotFound     = errors.New("not found")
	ErrAccessDenied = errors.New("access denied")
	ErrEmailTaken   = errors.New("email already registered")
	ErrInvalidLogin = errors.New("invalid credentials")
)
