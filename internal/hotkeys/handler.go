package hotkeys

import (
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/quadtile/internal/config"
	"github.com/1broseidon/quadtile/internal/geometry"
	"github.com/1broseidon/quadtile/internal/placement"
	"github.com/1broseidon/quadtile/internal/platform"
)

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages the global keyboard shortcuts that re-place the last
// placed window into a quadrant.
type Handler struct {
	xu    *xgbutil.XUtil
	root  xproto.Window
	sched *placement.Scheduler
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(backend platform.Backend, sched *placement.Scheduler) *Handler {
	var xu *xgbutil.XUtil
	var root xproto.Window
	if accessor, ok := backend.(x11Accessor); ok {
		xu = accessor.XUtil()
		root = accessor.RootWindow()
	}

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:    xu,
		root:  root,
		sched: sched,
	}
}

// RegisterAll binds the configured quadrant hotkeys. An empty key sequence
// leaves that quadrant unbound.
func (h *Handler) RegisterAll(keys config.Hotkeys) error {
	bindings := []struct {
		seq string
		q   geometry.Quadrant
	}{
		{keys.TopLeft, geometry.TopLeft},
		{keys.TopRight, geometry.TopRight},
		{keys.BottomLeft, geometry.BottomLeft},
		{keys.BottomRight, geometry.BottomRight},
		{keys.Full, geometry.Full},
	}
	for _, b := range bindings {
		if b.seq == "" {
			continue
		}
		q := b.q
		if err := h.RegisterFunc(b.seq, func() {
			h.sched.PlaceLast(q)
		}); err != nil {
			return err
		}
	}
	return nil
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
