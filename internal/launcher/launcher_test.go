package launcher

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/1broseidon/quadtile/internal/config"
	"github.com/1broseidon/quadtile/internal/geometry"
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

func newTestLauncher(t *testing.T, cfg *config.Config) (*Launcher, *fakeBackend) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	backend := &fakeBackend{}
	m := winmatch.NewMatcher(backend, cfg.WrapperClass)
	mv := mover.New(backend, logger)
	sched := placement.NewScheduler(backend, m, mv, logger, cfg.PlacementOptions())
	return New(backend, sched, cfg, logger), backend
}

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"":         Plain,
		"plain":    Plain,
		"console":  Console,
		"browser":  Browser,
		"mmc-host": MmcHost,
		"rds-app":  RdsApp,
	}
	for in, want := range cases {
		got, err := ParseKind(in)
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseKind(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseKind("applet"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestKindUsesSnapshot(t *testing.T) {
	if !Browser.UsesSnapshot() || !MmcHost.UsesSnapshot() {
		t.Fatal("browser and mmc-host need the snapshot strategy")
	}
	if Plain.UsesSnapshot() || Console.UsesSnapshot() || RdsApp.UsesSnapshot() {
		t.Fatal("pid-matchable kinds must not use snapshots")
	}
}

func TestNextQuadrantRotation(t *testing.T) {
	l, _ := newTestLauncher(t, config.DefaultConfig())

	want := []geometry.Quadrant{
		geometry.TopLeft, geometry.TopRight,
		geometry.BottomLeft, geometry.BottomRight,
		geometry.TopLeft,
	}
	for i, q := range want {
		if got := l.NextQuadrant(); got != q {
			t.Fatalf("rotation step %d: got %s, want %s", i, got, q)
		}
	}
}

func TestLaunchUnknownTool(t *testing.T) {
	l, _ := newTestLauncher(t, config.DefaultConfig())
	if _, err := l.Launch("no-such-tool", ""); err == nil {
		t.Fatal("expected error for unknown tool")
	}
}

func TestLaunchMonitoredCapturesOutput(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Tools["echo"] = config.ToolConfig{
		Command:  "echo",
		Args:     []string{"hello from child"},
		Quadrant: "tl",
		Monitor:  true,
	}
	l, _ := newTestLauncher(t, cfg)

	pid, err := l.Launch("echo", "")
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	child, ok := l.Child(pid)
	if !ok {
		t.Fatal("monitored child not registered")
	}

	child.WaitOutput()
	lines := child.Queue.Drain()
	if len(lines) != 1 || lines[0].Text != "hello from child" || lines[0].Stream != "stdout" {
		t.Fatalf("unexpected output: %+v", lines)
	}
}

func TestLaunchMonitoredKeepsBurstOutputTail(t *testing.T) {
	// A child that fills the pipe buffer and exits immediately races the
	// reaper against the readers. The reaper must let the readers hit EOF
	// before waiting, or the tail past the pipe buffer is lost.
	cfg := config.DefaultConfig()
	cfg.Tools["burst"] = config.ToolConfig{
		Command:  "sh",
		Args:     []string{"-c", "seq 1 500"},
		Quadrant: "tl",
		Monitor:  true,
	}
	l, _ := newTestLauncher(t, cfg)

	for i := 0; i < 10; i++ {
		pid, err := l.Launch("burst", "")
		if err != nil {
			t.Fatalf("Launch %d: %v", i, err)
		}
		child, ok := l.Child(pid)
		if !ok {
			t.Fatalf("run %d: monitored child not registered", i)
		}

		child.WaitOutput()
		lines := child.Queue.Drain()
		if len(lines) != 500 {
			t.Fatalf("run %d: got %d lines, want 500", i, len(lines))
		}
		if lines[0].Text != "1" || lines[499].Text != "500" {
			t.Fatalf("run %d: lines out of order: first %q, last %q",
				i, lines[0].Text, lines[499].Text)
		}
	}
}

func TestPruneChildrenRemovesDeadDrained(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Tools["true"] = config.ToolConfig{
		Command:  "true",
		Quadrant: "tl",
		Monitor:  true,
	}
	l, _ := newTestLauncher(t, cfg)

	pid, err := l.Launch("true", "")
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	child, _ := l.Child(pid)
	child.WaitOutput()
	child.Queue.Drain()

	// Wait for the reap goroutine to collect the exit status.
	deadline := time.Now().Add(2 * time.Second)
	for child.Alive() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if child.Alive() {
		t.Fatal("child never reaped")
	}
	l.PruneChildren()
	if _, ok := l.Child(pid); ok {
		t.Fatal("dead drained child should be pruned")
	}
}

func TestOutputQueueOrderAndBound(t *testing.T) {
	q := NewOutputQueue(3)
	q.Push(OutputLine{Stream: "stdout", Text: "1"})
	q.Push(OutputLine{Stream: "stdout", Text: "2"})
	q.Push(OutputLine{Stream: "stdout", Text: "3"})
	q.Push(OutputLine{Stream: "stdout", Text: "4"})

	lines := q.Drain()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for i, want := range []string{"2", "3", "4"} {
		if lines[i].Text != want {
			t.Fatalf("line %d = %q, want %q", i, lines[i].Text, want)
		}
	}
	if q.Dropped() != 1 {
		t.Fatalf("dropped = %d, want 1", q.Dropped())
	}
	if len(q.Drain()) != 0 {
		t.Fatal("drain should empty the queue")
	}
}
