package domain

import "errors"

var (
	ErrForbidden     = errors.New("access forbidden")
	ErrValidation    = errors.New("validation failed")
	ErrInvalidRole   = errors.New("invalid role")
	ErrUserNotFound  = errors.New("user not found")
	ErrBoardNotFound = errors.New("board not found")
	ErrConflict      = errors.New("board was modified concurrently")
)

// Structural errors: the intent does not fit the current board. The board is
// left unchanged whenever one of these is returned.
var (
	ErrColumnNotFound  = errors.New("column not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrStaleIntent     = errors.New("task is not at the reported position")
	ErrStatusImmutable = errors.New("status follows column membership and cannot be set directly")
	ErrDuplicateTask   = errors.New("task id already exists")
)

// ErrInvariantViolation means a transition produced a board whose columns and
// tasks disagree. It always indicates a bug.
var ErrInvariantViolation = errors.New("board invariant violated")

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrSnapshotCorrupt  = errors.New("snapshot is corrupt")
)
