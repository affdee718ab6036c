package winmatch

import (
	"testing"

	"github.com/1broseidon/quadtile/internal/geometry"
	"github.com/1broseidon/quadtile/internal/platform"
)

type fakeBackend struct {
	windows  []platform.Window
	images   map[int]string
	sessions map[int]int
}

func (f *fakeBackend) WorkArea() (geometry.Rect, error) {
	return geometry.Rect{Width: 1920, Height: 1080}, nil
}

func (f *fakeBackend) ListWindows() ([]platform.Window, error) {
	return f.windows, nil
}

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

func (f *fakeBackend) Restore(platform.WindowID) error { return nil }

func (f *fakeBackend) ProcessImageBase(pid int) string {
	return f.images[pid]
}

func (f *fakeBackend) ProcessSessionID(pid int) int {
	if s, ok := f.sessions[pid]; ok {
		return s
	}
	return -1
}

func win(id uint32, pid int, class, title string, w, h int) platform.Window {
	return platform.Window{
		ID:     platform.WindowID(id),
		PID:    pid,
		Class:  class,
		Title:  title,
		Bounds: geometry.Rect{X: 10, Y: 10, Width: w, Height: h},
	}
}

func TestFindByPID(t *testing.T) {
	backend := &fakeBackend{
		windows: []platform.Window{
			win(1, 100, "Navigator", "docs", 800, 600),
			win(2, 200, "Navigator", "mail", 800, 600),
		},
	}
	m := NewMatcher(backend, "")

	c := NewCriteria()
	c.PID = 200
	got, err := m.Find(c)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("expected window 2, got %v", got)
	}
}

func TestFindByClassAndTitle(t *testing.T) {
	backend := &fakeBackend{
		windows: []platform.Window{
			win(1, 100, "Navigator", "Release Notes - Mozilla Firefox", 800, 600),
			win(2, 100, "Navigator", "Downloads", 800, 600),
			win(3, 300, "Mmc", "Event Viewer", 800, 600),
		},
	}
	m := NewMatcher(backend, "")

	c := NewCriteria()
	c.ClassNames = []string{"Navigator"}
	c.TitleContains = []string{"firefox"}
	got, err := m.Find(c)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("expected window 1, got %v", got)
	}
}

func TestTitleSubstringsAreORed(t *testing.T) {
	backend := &fakeBackend{
		windows: []platform.Window{
			win(1, 100, "ConsoleWindowClass", "Administrator: cmd", 800, 600),
			win(2, 100, "ConsoleWindowClass", "powershell", 800, 600),
			win(3, 100, "ConsoleWindowClass", "editor", 800, 600),
		},
	}
	m := NewMatcher(backend, "")

	c := NewCriteria()
	c.TitleContains = []string{"cmd", "powershell"}
	got, err := m.Find(c)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(got))
	}
}

func TestWrapperClassBypassesClassAndTitleFilters(t *testing.T) {
	backend := &fakeBackend{
		windows: []platform.Window{
			win(1, 100, "ApplicationFrameWindow", "", 800, 600),
			win(2, 100, "OtherClass", "", 800, 600),
		},
	}
	m := NewMatcher(backend, "")

	c := NewCriteria()
	c.ClassNames = []string{"CalculatorClass"}
	c.TitleContains = []string{"calculator"}
	got, err := m.Find(c)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("expected only the wrapper window, got %v", got)
	}
}

func TestFindByImageName(t *testing.T) {
	backend := &fakeBackend{
		windows: []platform.Window{
			win(1, 100, "A", "one", 800, 600),
			win(2, 200, "B", "two", 800, 600),
		},
		images: map[int]string{100: "firefox", 200: "mmc"},
	}
	m := NewMatcher(backend, "")

	c := NewCriteria()
	c.ImageNames = []string{"MMC"}
	got, err := m.Find(c)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("expected window 2, got %v", got)
	}
}

func TestFindBySession(t *testing.T) {
	backend := &fakeBackend{
		windows: []platform.Window{
			win(1, 100, "A", "one", 800, 600),
			win(2, 200, "A", "two", 800, 600),
		},
		sessions: map[int]int{100: 3, 200: 7},
	}
	m := NewMatcher(backend, "")

	c := NewCriteria()
	c.SessionID = 7
	got, err := m.Find(c)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("expected window 2, got %v", got)
	}
}

func TestMinimumSizeAlwaysApplies(t *testing.T) {
	backend := &fakeBackend{
		windows: []platform.Window{
			win(1, 100, "A", "tooltip", 150, 40),
			win(2, 100, "A", "main", 800, 600),
		},
	}
	m := NewMatcher(backend, "")

	c := NewCriteria()
	c.PID = 100
	got, err := m.Find(c)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("small window should be rejected, got %v", got)
	}
}

func TestEmptyCriteriaMatchesAllLargeWindows(t *testing.T) {
	backend := &fakeBackend{
		windows: []platform.Window{
			win(1, 100, "A", "one", 800, 600),
			win(2, 200, "B", "two", 640, 480),
			win(3, 300, "C", "tiny", 100, 100),
		},
	}
	m := NewMatcher(backend, "")

	got, err := m.Find(NewCriteria())
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(got))
	}
}

func TestLargestByArea(t *testing.T) {
	windows := []platform.Window{
		win(1, 77, "A", "side panel", 400, 300),
		win(2, 77, "A", "main", 1200, 800),
		win(3, 77, "A", "popup", 600, 400),
	}
	best, ok := LargestByArea(windows)
	if !ok {
		t.Fatal("expected a window")
	}
	if best.ID != 2 {
		t.Fatalf("expected window 2, got %d", best.ID)
	}

	if _, ok := LargestByArea(nil); ok {
		t.Fatal("expected no window for empty input")
	}
}
