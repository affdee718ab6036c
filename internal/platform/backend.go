package platform

import "github.com/1broseidon/quadtile/internal/geometry"

// WindowID is a platform-neutral window identifier. Handles are borrowed
// from the window system: the owning window can close at any time, so
// validity must be re-checked before every operation.
type WindowID uint32

// Window contains metadata and geometry for a visible top-level window.
type Window struct {
	ID     WindowID
	PID    int
	Class  string
	Title  string
	Bounds geometry.Rect
}

// MoveStatus classifies the outcome of a positioning call.
type MoveStatus int

const (
	MoveOK MoveStatus = iota
	// MoveAccessDenied means the window system refused the operation on
	// permission grounds (elevation / integrity boundary). Handles that
	// report this are never worth retrying.
	MoveAccessDenied
	// MoveFailed covers every other failure, including handles that went
	// invalid between enumeration and the call. Possibly transient.
	MoveFailed
)

// MoveResult is the typed result of a positioning call. Code carries the
// raw platform error code when one is available (0 otherwise).
type MoveResult struct {
	Status MoveStatus
	Code   int
}

// OK reports whether the call succeeded.
func (r MoveResult) OK() bool { return r.Status == MoveOK }

// Backend abstracts window-system operations so the matcher, mover and
// scheduler can be exercised against fakes.
type Backend interface {
	// WorkArea returns the primary display's usable work area.
	WorkArea() (geometry.Rect, error)

	// ListWindows returns every currently visible top-level window.
	// Handles that become invalid mid-enumeration are skipped silently.
	// Enumeration order is unspecified.
	ListWindows() ([]Window, error)

	// SetWindowPos is the primary positioning call: it applies the
	// geometry without changing z-order and without stealing focus.
	SetWindowPos(id WindowID, bounds geometry.Rect) MoveResult

	// MoveResizeRepaint is the first fallback: a combined
	// move+resize+repaint primitive that some window classes honor when
	// SetWindowPos is ignored.
	MoveResizeRepaint(id WindowID, bounds geometry.Rect) MoveResult

	// RaiseSetWindowPos is the second fallback: restore, bring to the top
	// of the stack without activating, then apply the geometry.
	RaiseSetWindowPos(id WindowID, bounds geometry.Rect) MoveResult

	// IsMinimized reports whether the window is currently iconified.
	IsMinimized(id WindowID) bool

	// Restore deiconifies a minimized window (best effort).
	Restore(id WindowID) error

	// ProcessImageBase returns the lowercase basename of the executable
	// backing pid, or "" when it cannot be determined.
	ProcessImageBase(pid int) string

	// ProcessSessionID maps pid to its login session, or -1 when it
	// cannot be determined.
	ProcessSessionID(pid int) int
}
