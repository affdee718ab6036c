package x11

import (
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// WorkArea is the usable region of the primary display in physical pixels.
type WorkArea struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Fallback dimensions when no primary output can be determined.
const (
	fallbackWidth  = 1920
	fallbackHeight = 1080
)

// PrimaryWorkArea returns the primary monitor's usable work area: the
// primary RandR output's geometry intersected with the EWMH work area
// (which excludes panels and docks). When neither RandR nor EWMH yields
// anything usable it falls back to a 1920x1080 area rooted at the origin.
func (c *Connection) PrimaryWorkArea() WorkArea {
	mon, ok := c.primaryMonitor()
	if !ok {
		mon = WorkArea{Width: fallbackWidth, Height: fallbackHeight}
	}

	wa, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(wa) == 0 {
		return mon
	}

	idx := 0
	if desktop, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(desktop) < len(wa) {
		idx = int(desktop)
	}
	w := wa[idx]

	// Intersect the monitor with the desktop-wide work area.
	x1 := max(mon.X, int(w.X))
	y1 := max(mon.Y, int(w.Y))
	x2 := min(mon.X+mon.Width, int(w.X)+int(w.Width))
	y2 := min(mon.Y+mon.Height, int(w.Y)+int(w.Height))
	if x2 <= x1 || y2 <= y1 {
		return mon
	}
	return WorkArea{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// primaryMonitor queries RandR for the primary output's CRTC geometry.
func (c *Connection) primaryMonitor() (WorkArea, bool) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return WorkArea{}, false
	}

	primary, err := randr.GetOutputPrimary(c.XUtil.Conn(), c.Root).Reply()
	if err != nil || primary.Output == 0 {
		return c.firstActiveCrtc()
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return WorkArea{}, false
	}

	outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), primary.Output, resources.ConfigTimestamp).Reply()
	if err != nil || outputInfo.Crtc == 0 {
		return c.firstActiveCrtc()
	}

	crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), outputInfo.Crtc, resources.ConfigTimestamp).Reply()
	if err != nil || crtcInfo.Width == 0 || crtcInfo.Height == 0 {
		return WorkArea{}, false
	}

	return WorkArea{
		X:      int(crtcInfo.X),
		Y:      int(crtcInfo.Y),
		Width:  int(crtcInfo.Width),
		Height: int(crtcInfo.Height),
	}, true
}

// firstActiveCrtc falls back to the first enabled CRTC when no primary
// output is flagged (common on single-monitor setups with older servers).
func (c *Connection) firstActiveCrtc() (WorkArea, bool) {
	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return WorkArea{}, false
	}

	for _, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}
		return WorkArea{
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		}, true
	}
	return WorkArea{}, false
}
