package mover

import (
	"log/slog"
	"sync"

	"github.com/1broseidon/quadtile/internal/geometry"
	"github.com/1broseidon/quadtile/internal/platform"
)

// Outcome is the result of a move attempt. Moves never return errors to the
// caller; every failure mode collapses into an outcome plus a log line.
type Outcome int

const (
	// Placed means the window geometry was applied.
	Placed Outcome = iota
	// Denied means the target rejected the request with an access error,
	// typically an elevated process owning the window. The handle is
	// remembered and never touched again.
	Denied
	// Failed means all rungs of the fallback ladder were exhausted.
	Failed
	// Skipped means the handle was already known unmanageable and no
	// request was issued at all.
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Placed:
		return "placed"
	case Denied:
		return "denied"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Mover applies window geometry through a ladder of progressively more
// forceful requests. It tracks handles that denied access so an elevated
// window is probed at most once per process lifetime.
type Mover struct {
	backend platform.Backend
	logger  *slog.Logger

	mu           sync.Mutex
	unmanageable map[platform.WindowID]struct{}
}

// New creates a Mover. logger must not be nil.
func New(backend platform.Backend, logger *slog.Logger) *Mover {
	return &Mover{
		backend:      backend,
		logger:       logger,
		unmanageable: make(map[platform.WindowID]struct{}),
	}
}

// IsUnmanageable reports whether a previous move of this handle was denied.
func (m *Mover) IsUnmanageable(id platform.WindowID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.unmanageable[id]
	return ok
}

func (m *Mover) markUnmanageable(id platform.WindowID) {
	m.mu.Lock()
	m.unmanageable[id] = struct{}{}
	m.mu.Unlock()
}

// Move places the window at target, clamped to the work area. Minimized
// windows are restored first. The ladder runs the plain positioning request,
// then a repainting move, then a raise-and-position; each rung at most once.
// An access denial stops the ladder immediately: escalating against an
// elevated window only produces more denials.
func (m *Mover) Move(id platform.WindowID, target geometry.Rect) Outcome {
	if m.IsUnmanageable(id) {
		m.logger.Debug("skipping unmanageable window", "window", id)
		return Skipped
	}

	work, err := m.backend.WorkArea()
	if err == nil {
		target = geometry.ClampToWorkArea(work, target)
	} else {
		m.logger.Warn("work area lookup failed, moving unclamped", "error", err)
	}

	if m.backend.IsMinimized(id) {
		if err := m.backend.Restore(id); err != nil {
			m.logger.Warn("restore failed", "window", id, "error", err)
		}
	}

	res := m.backend.SetWindowPos(id, target)
	if res.OK() {
		return Placed
	}
	if res.Status == platform.MoveAccessDenied {
		m.markUnmanageable(id)
		m.logger.Warn("window move denied, marking unmanageable",
			"window", id, "code", res.Code)
		return Denied
	}
	m.logger.Debug("primary move failed, trying repaint move",
		"window", id, "code", res.Code)

	res = m.backend.MoveResizeRepaint(id, target)
	if res.OK() {
		return Placed
	}
	if res.Status == platform.MoveAccessDenied {
		m.markUnmanageable(id)
		m.logger.Warn("window move denied, marking unmanageable",
			"window", id, "code", res.Code)
		return Denied
	}
	m.logger.Debug("repaint move failed, trying raise move",
		"window", id, "code", res.Code)

	res = m.backend.RaiseSetWindowPos(id, target)
	if res.OK() {
		return Placed
	}
	if res.Status == platform.MoveAccessDenied {
		m.markUnmanageable(id)
		m.logger.Warn("window move denied, marking unmanageable",
			"window", id, "code", res.Code)
		return Denied
	}

	m.logger.Warn("all move attempts failed", "window", id, "code", res.Code)
	return Failed
}
