package x11

import (
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// WindowInfo carries the metadata the matcher filters on.
type WindowInfo struct {
	ID     xproto.Window
	PID    int
	Class  string
	Title  string
	X      int
	Y      int
	Width  int
	Height int
}

// VisibleTopLevelWindows lists every mapped top-level client window with its
// metadata. Handles that become invalid mid-enumeration are dropped silently;
// windows can close at any time and a failed property read just means the
// window is gone.
func (c *Connection) VisibleTopLevelWindows() ([]WindowInfo, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, err
	}

	windows := make([]WindowInfo, 0, len(clients))
	for _, id := range clients {
		attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), id).Reply()
		if err != nil || attrs.MapState != xproto.MapStateViewable {
			continue
		}

		x, y, w, h, ok := c.windowGeometry(id)
		if !ok {
			continue
		}

		info := WindowInfo{
			ID:     id,
			Class:  c.windowClass(id),
			Title:  c.windowTitle(id),
			X:      x,
			Y:      y,
			Width:  w,
			Height: h,
		}
		if pid, err := ewmh.WmPidGet(c.XUtil, id); err == nil {
			info.PID = int(pid)
		}
		windows = append(windows, info)
	}
	return windows, nil
}

// IsMinimized reports whether the window is iconified or hidden.
func (c *Connection) IsMinimized(id xproto.Window) bool {
	if hints, err := icccm.WmStateGet(c.XUtil, id); err == nil {
		if hints.State == icccm.StateIconic {
			return true
		}
	}
	states, err := ewmh.WmStateGet(c.XUtil, id)
	if err != nil {
		return false
	}
	for _, state := range states {
		if state == "_NET_WM_STATE_HIDDEN" {
			return true
		}
	}
	return false
}

// Restore deiconifies a window and clears maximized state so a subsequent
// move is not silently vetoed by the window manager.
func (c *Connection) Restore(id xproto.Window) error {
	if states, err := ewmh.WmStateGet(c.XUtil, id); err == nil {
		for _, state := range states {
			switch state {
			case "_NET_WM_STATE_HIDDEN",
				"_NET_WM_STATE_MAXIMIZED_HORZ",
				"_NET_WM_STATE_MAXIMIZED_VERT":
				ewmh.WmStateReq(c.XUtil, id, 0, state)
			}
		}
	}
	// Deiconify per ICCCM: mapping an iconic window restores it.
	return xproto.MapWindowChecked(c.XUtil.Conn(), id).Check()
}

// MoveResize is the primary positioning call. It asks the window manager to
// move and resize via EWMH, which leaves stacking order and focus untouched.
func (c *Connection) MoveResize(id xproto.Window, x, y, w, h int) error {
	return ewmh.MoveresizeWindow(c.XUtil, id, x, y, w, h)
}

// ConfigureMoveResize bypasses the EWMH request and configures the window
// directly, combining move, resize and repaint in one round trip. Some
// clients that ignore the EWMH request respond to this.
func (c *Connection) ConfigureMoveResize(id xproto.Window, x, y, w, h int) error {
	win := xwindow.New(c.XUtil, id)
	return win.WMMoveResize(x, y, w, h)
}

// RaiseMoveResize restores the window, raises it to the top of the stack
// without activating it, and applies the geometry. The most intrusive rung
// of the ladder.
func (c *Connection) RaiseMoveResize(id xproto.Window, x, y, w, h int) error {
	if err := c.Restore(id); err != nil {
		return err
	}
	return xproto.ConfigureWindowChecked(c.XUtil.Conn(), id,
		xproto.ConfigWindowX|xproto.ConfigWindowY|
			xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|
			xproto.ConfigWindowStackMode,
		[]uint32{
			uint32(int32(x)), uint32(int32(y)),
			uint32(w), uint32(h),
			xproto.StackModeAbove,
		}).Check()
}

func (c *Connection) windowGeometry(id xproto.Window) (x, y, w, h int, ok bool) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(id)).Reply()
	if err != nil {
		return 0, 0, 0, 0, false
	}
	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), id, c.Root, 0, 0).Reply()
	if err != nil {
		return 0, 0, 0, 0, false
	}
	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), true
}

func (c *Connection) windowClass(id xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, id)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}

func (c *Connection) windowTitle(id xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, id); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if title, err := icccm.WmNameGet(c.XUtil, id); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	return ""
}
