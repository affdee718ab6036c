package winmatch

import (
	"strings"

	"github.com/1broseidon/quadtile/internal/platform"
)

// Default minimum window dimensions. Anything smaller is a tool palette,
// tray artifact or splash remnant, never the launched application window.
// Empirically tuned; overridable through Criteria.
const (
	DefaultMinWidth  = 200
	DefaultMinHeight = 120
)

// DefaultWrapperClass is the generic app-container wrapper class that hosts
// many packaged applications. A window carrying it is never rejected on
// class or title grounds alone, since the interesting content lives behind
// the wrapper.
const DefaultWrapperClass = "ApplicationFrameWindow"

// Criteria is a conjunction of optional filters. An unset filter (zero
// value / nil slice) is not applied. The minimum-size filter always applies.
type Criteria struct {
	PID           int      // 0 = unset
	ClassNames    []string // exact match, wrapper class carve-out applies
	TitleContains []string // case-insensitive substring, OR semantics
	ImageNames    []string // case-insensitive executable basenames
	SessionID     int      // -1 = unset
	MinWidth      int      // 0 = DefaultMinWidth
	MinHeight     int      // 0 = DefaultMinHeight
}

// NewCriteria returns a Criteria with the session filter unset.
func NewCriteria() Criteria {
	return Criteria{SessionID: -1}
}

// Matcher filters window enumerations by composite criteria. No single
// signal is reliable alone — process ids are absent or shared for
// shell-hosted windows, titles change during startup, classes collide —
// so all provided filters are ANDed and the caller disambiguates
// survivors by area.
type Matcher struct {
	backend      platform.Backend
	wrapperClass string
}

// NewMatcher creates a matcher over the given backend. wrapperClass may be
// empty to use the default.
func NewMatcher(backend platform.Backend, wrapperClass string) *Matcher {
	if wrapperClass == "" {
		wrapperClass = DefaultWrapperClass
	}
	return &Matcher{backend: backend, wrapperClass: wrapperClass}
}

// Find enumerates visible top-level windows and returns those matching the
// criteria. Filters are applied cheapest-first with short-circuiting; the
// order is an optimization, not a correctness requirement. The result is
// unordered; use LargestByArea to disambiguate.
func (m *Matcher) Find(c Criteria) ([]platform.Window, error) {
	windows, err := m.backend.ListWindows()
	if err != nil {
		return nil, err
	}

	var matched []platform.Window
	for _, w := range windows {
		if m.matches(w, c) {
			matched = append(matched, w)
		}
	}
	return matched, nil
}

func (m *Matcher) matches(w platform.Window, c Criteria) bool {
	isWrapper := w.Class == m.wrapperClass

	if len(c.ClassNames) > 0 && !isWrapper {
		if !containsString(c.ClassNames, w.Class) {
			return false
		}
	}

	if c.PID > 0 && w.PID != c.PID {
		return false
	}

	if len(c.TitleContains) > 0 {
		if !titleMatches(w.Title, c.TitleContains) && !isWrapper {
			return false
		}
	}

	if len(c.ImageNames) > 0 {
		image := m.backend.ProcessImageBase(w.PID)
		if !containsFold(c.ImageNames, image) {
			return false
		}
	}

	if c.SessionID >= 0 {
		if m.backend.ProcessSessionID(w.PID) != c.SessionID {
			return false
		}
	}

	minW, minH := c.MinWidth, c.MinHeight
	if minW <= 0 {
		minW = DefaultMinWidth
	}
	if minH <= 0 {
		minH = DefaultMinHeight
	}
	if w.Bounds.Width < minW || w.Bounds.Height < minH {
		return false
	}

	return true
}

// LargestByArea returns the window with the largest area. This is the
// uniform disambiguation policy when several windows survive the filters
// (multi-window console hosts, browser chrome plus devtools): the newly
// created application window is in practice the largest.
func LargestByArea(windows []platform.Window) (platform.Window, bool) {
	if len(windows) == 0 {
		return platform.Window{}, false
	}
	best := windows[0]
	for _, w := range windows[1:] {
		if w.Bounds.Area() > best.Bounds.Area() {
			best = w
		}
	}
	return best, true
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}

func titleMatches(title string, substrings []string) bool {
	lower := strings.ToLower(title)
	for _, s := range substrings {
		if s == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(s)) {
			return true
		}
	}
	return false
}
