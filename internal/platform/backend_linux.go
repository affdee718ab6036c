//go:build linux

package platform

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/1broseidon/quadtile/internal/geometry"
	"github.com/1broseidon/quadtile/internal/x11"
)

// LinuxBackend implements Backend on top of an X11 connection.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend wraps an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay opens a fresh X11 connection.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// XUtil exposes the underlying xgbutil connection for X11-specific callers
// (hotkey registration).
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// WorkArea returns the primary display's usable work area. The x11 layer
// already applies the 1920x1080 fallback when no primary can be determined.
func (b *LinuxBackend) WorkArea() (geometry.Rect, error) {
	wa := b.conn.PrimaryWorkArea()
	return geometry.Rect{X: wa.X, Y: wa.Y, Width: wa.Width, Height: wa.Height}, nil
}

// ListWindows returns every visible top-level window with its metadata.
func (b *LinuxBackend) ListWindows() ([]Window, error) {
	infos, err := b.conn.VisibleTopLevelWindows()
	if err != nil {
		return nil, err
	}

	windows := make([]Window, 0, len(infos))
	for _, info := range infos {
		windows = append(windows, Window{
			ID:    WindowID(info.ID),
			PID:   info.PID,
			Class: info.Class,
			Title: info.Title,
			Bounds: geometry.Rect{
				X:      info.X,
				Y:      info.Y,
				Width:  info.Width,
				Height: info.Height,
			},
		})
	}
	return windows, nil
}

// SetWindowPos applies the geometry via the EWMH moveresize request, which
// leaves stacking order and focus alone.
func (b *LinuxBackend) SetWindowPos(id WindowID, bounds geometry.Rect) MoveResult {
	err := b.conn.MoveResize(xproto.Window(id), bounds.X, bounds.Y, bounds.Width, bounds.Height)
	return classifyMoveError(err)
}

// MoveResizeRepaint configures the window directly, combining move, resize
// and repaint in one call.
func (b *LinuxBackend) MoveResizeRepaint(id WindowID, bounds geometry.Rect) MoveResult {
	err := b.conn.ConfigureMoveResize(xproto.Window(id), bounds.X, bounds.Y, bounds.Width, bounds.Height)
	return classifyMoveError(err)
}

// RaiseSetWindowPos restores the window and raises it without activating.
func (b *LinuxBackend) RaiseSetWindowPos(id WindowID, bounds geometry.Rect) MoveResult {
	err := b.conn.RaiseMoveResize(xproto.Window(id), bounds.X, bounds.Y, bounds.Width, bounds.Height)
	return classifyMoveError(err)
}

// IsMinimized reports whether the window is iconified or hidden.
func (b *LinuxBackend) IsMinimized(id WindowID) bool {
	return b.conn.IsMinimized(xproto.Window(id))
}

// Restore deiconifies a window.
func (b *LinuxBackend) Restore(id WindowID) error {
	return b.conn.Restore(xproto.Window(id))
}

// classifyMoveError maps an X error to a MoveResult. BadAccess is the
// permission boundary; everything else (BadWindow for handles that closed,
// send failures) is reported as a plain failure.
func classifyMoveError(err error) MoveResult {
	if err == nil {
		return MoveResult{Status: MoveOK}
	}
	switch err.(type) {
	case xproto.AccessError:
		return MoveResult{Status: MoveAccessDenied, Code: xproto.BadAccess}
	case xproto.WindowError:
		return MoveResult{Status: MoveFailed, Code: xproto.BadWindow}
	case xproto.DrawableError:
		return MoveResult{Status: MoveFailed, Code: xproto.BadDrawable}
	}
	return MoveResult{Status: MoveFailed}
}
