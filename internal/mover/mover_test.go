package mover

import (
	"io"
	"log/slog"
	"testing"

	"github.com/1broseidon/quadtile/internal/geometry"
	"github.com/1broseidon/quadtile/internal/platform"
)

type moveCall struct {
	method string
	id     platform.WindowID
	rect   geometry.Rect
}

type fakeBackend struct {
	calls []moveCall

	setResult     platform.MoveResult
	repaintResult platform.MoveResult
	raiseResult   platform.MoveResult

	minimized bool
	restored  []platform.WindowID
}

func (f *fakeBackend) WorkArea() (geometry.Rect, error) {
	return geometry.Rect{Width: 1920, Height: 1080}, nil
}

func (f *fakeBackend) ListWindows() ([]platform.Window, error) { return nil, nil }

func (f *fakeBackend) SetWindowPos(id platform.WindowID, r geometry.Rect) platform.MoveResult {
	f.calls = append(f.calls, moveCall{"set", id, r})
	return f.setResult
}

func (f *fakeBackend) MoveResizeRepaint(id platform.WindowID, r geometry.Rect) platform.MoveResult {
	f.calls = append(f.calls, moveCall{"repaint", id, r})
	return f.repaintResult
}

func (f *fakeBackend) RaiseSetWindowPos(id platform.WindowID, r geometry.Rect) platform.MoveResult {
	f.calls = append(f.calls, moveCall{"raise", id, r})
	return f.raiseResult
}

func (f *fakeBackend) IsMinimized(platform.WindowID) bool { return f.minimized }

func (f *fakeBackend) Restore(id platform.WindowID) error {
	f.restored = append(f.restored, id)
	return nil
}

func (f *fakeBackend) ProcessImageBase(int) string { return "" }

func (f *fakeBackend) ProcessSessionID(int) int { return -1 }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ok() platform.MoveResult     { return platform.MoveResult{Status: platform.MoveOK} }
func failed() platform.MoveResult { return platform.MoveResult{Status: platform.MoveFailed} }
func denied() platform.MoveResult { return platform.MoveResult{Status: platform.MoveAccessDenied} }

func TestMovePlacedFirstTry(t *testing.T) {
	backend := &fakeBackend{setResult: ok()}
	m := New(backend, discardLogger())

	got := m.Move(42, geometry.Rect{X: 0, Y: 0, Width: 800, Height: 600})
	if got != Placed {
		t.Fatalf("expected Placed, got %v", got)
	}
	if len(backend.calls) != 1 || backend.calls[0].method != "set" {
		t.Fatalf("expected single set call, got %v", backend.calls)
	}
}

func TestMoveFallbackLadder(t *testing.T) {
	backend := &fakeBackend{
		setResult:     failed(),
		repaintResult: failed(),
		raiseResult:   ok(),
	}
	m := New(backend, discardLogger())

	got := m.Move(42, geometry.Rect{Width: 800, Height: 600})
	if got != Placed {
		t.Fatalf("expected Placed, got %v", got)
	}
	want := []string{"set", "repaint", "raise"}
	if len(backend.calls) != len(want) {
		t.Fatalf("expected %d calls, got %d", len(want), len(backend.calls))
	}
	for i, method := range want {
		if backend.calls[i].method != method {
			t.Fatalf("call %d: expected %s, got %s", i, method, backend.calls[i].method)
		}
	}
}

func TestMoveAllRungsFail(t *testing.T) {
	backend := &fakeBackend{
		setResult:     failed(),
		repaintResult: failed(),
		raiseResult:   failed(),
	}
	m := New(backend, discardLogger())

	if got := m.Move(42, geometry.Rect{Width: 800, Height: 600}); got != Failed {
		t.Fatalf("expected Failed, got %v", got)
	}
	if len(backend.calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", len(backend.calls))
	}
}

func TestMoveDeniedStopsLadder(t *testing.T) {
	backend := &fakeBackend{setResult: denied()}
	m := New(backend, discardLogger())

	if got := m.Move(42, geometry.Rect{Width: 800, Height: 600}); got != Denied {
		t.Fatalf("expected Denied, got %v", got)
	}
	if len(backend.calls) != 1 {
		t.Fatalf("denial must not escalate, got calls %v", backend.calls)
	}
	if !m.IsUnmanageable(42) {
		t.Fatal("denied handle should be marked unmanageable")
	}
}

func TestMoveSkipsKnownUnmanageable(t *testing.T) {
	backend := &fakeBackend{setResult: denied()}
	m := New(backend, discardLogger())

	m.Move(42, geometry.Rect{Width: 800, Height: 600})
	backend.calls = nil

	if got := m.Move(42, geometry.Rect{Width: 800, Height: 600}); got != Skipped {
		t.Fatalf("expected Skipped, got %v", got)
	}
	if len(backend.calls) != 0 {
		t.Fatalf("unmanageable handle must not be probed again, got %v", backend.calls)
	}
}

func TestMoveRestoresMinimizedWindow(t *testing.T) {
	backend := &fakeBackend{setResult: ok(), minimized: true}
	m := New(backend, discardLogger())

	m.Move(42, geometry.Rect{Width: 800, Height: 600})
	if len(backend.restored) != 1 || backend.restored[0] != 42 {
		t.Fatalf("expected restore of window 42, got %v", backend.restored)
	}
}

func TestMoveClampsTarget(t *testing.T) {
	backend := &fakeBackend{setResult: ok()}
	m := New(backend, discardLogger())

	m.Move(42, geometry.Rect{X: 1800, Y: 1000, Width: 800, Height: 600})
	got := backend.calls[0].rect
	if got.X+got.Width > 1920 || got.Y+got.Height > 1080 {
		t.Fatalf("target not clamped to work area: %+v", got)
	}
}
