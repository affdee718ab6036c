package daemon

import (
	"io"
	"log/slog"
	"testing"

	"github.com/1broseidon/quadtile/internal/config"
	"github.com/1broseidon/quadtile/internal/geometry"
	"github.com/1broseidon/quadtile/internal/launcher"
	"github.com/1broseidon/quadtile/internal/mover"
	"github.com/1broseidon/quadtile/internal/placement"
	"github.com/1broseidon/quadtile/internal/platform"
	"github.com/1broseidon/quadtile/internal/winmatch"
)

type fakeBackend struct {
	windows []platform.Window
}

func (f *fakeBackend) WorkArea() (geometry.Rect, error) {
	return geometry.Rect{Width: 1920, Height: 1080}, nil
}

func (f *fakeBackend) ListWindows() ([]platform.Window, error) { return f.windows, nil }

func (f *fakeBackend) SetWindowPos(platform.WindowID, geometry.Rect) platform.MoveResult {
	return platform.MoveResult{Status: platform.MoveOK}
}

func (f *fakeBackend) MoveResizeRepaint(platform.WindowID, geometry.Rect) platform.MoveResult {
	return platform.MoveResult{Status: platform.MoveOK}
}

func (f *fakeBackend) RaiseSetWindowPos(platform.WindowID, geometry.Rect) platform.MoveResult {
	return platform.MoveResult{Status: platform.MoveOK}
}

func (f *fakeBackend) IsMinimized(platform.WindowID) bool { return false }
func (f *fakeBackend) Restore(platform.WindowID) error    { return nil }
func (f *fakeBackend) ProcessImageBase(int) string        { return "" }
func (f *fakeBackend) ProcessSessionID(int) int           { return -1 }

func TestSweepClearsStaleLastPlaced(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.DefaultConfig()
	backend := &fakeBackend{
		windows: []platform.Window{{
			ID:     7,
			PID:    42,
			Class:  "ConsoleWindowClass",
			Bounds: geometry.Rect{Width: 800, Height: 600},
		}},
	}
	m := winmatch.NewMatcher(backend, cfg.WrapperClass)
	mv := mover.New(backend, logger)
	sched := placement.NewScheduler(backend, m, mv, logger, cfg.PlacementOptions())
	l := launcher.New(backend, sched, cfg, logger)

	prof := placement.DefaultProfile(placement.KindPlain)
	prof.InitialDelay = 0
	prof.PollInterval = 0
	prof.ConfirmDelay = 0
	sched.Run(placement.Request{
		Label:     "tool",
		Quadrant:  geometry.TopLeft,
		Profile:   prof,
		PID:       42,
		SessionID: -1,
	})
	if _, ok := sched.LastPlaced(); !ok {
		t.Fatal("expected a last-placed window")
	}

	j := NewJanitor(JanitorConfig{Logger: logger}, sched, l)

	// Window still alive: entry survives.
	j.SweepNow()
	if _, ok := sched.LastPlaced(); !ok {
		t.Fatal("sweep removed a live window's entry")
	}

	// Window gone: entry cleared.
	backend.windows = nil
	j.SweepNow()
	if _, ok := sched.LastPlaced(); ok {
		t.Fatal("sweep left a stale entry behind")
	}
}
