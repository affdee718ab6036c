// Package placement drives the find-and-move lifecycle for freshly
// launched windows. Each request polls the window system until a candidate
// matching the request appears, then hands it to the mover, with cadence
// and budget tuned per launch kind.
package placement

import (
	"time"

	"github.com/1broseidon/quadtile/internal/geometry"
	"github.com/1broseidon/quadtile/internal/platform"
)

// State is a placement request's lifecycle position.
type State int

const (
	Pending State = iota
	Searching
	Found
	Placed
	PlaceFailed
	TimedOut
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Searching:
		return "searching"
	case Found:
		return "found"
	case Placed:
		return "placed"
	case PlaceFailed:
		return "place-failed"
	case TimedOut:
		return "timed-out"
	default:
		return "unknown"
	}
}

// Strategy selects how candidates are identified on each poll.
type Strategy int

const (
	// DirectMatch queries by the request's criteria (pid, session, class,
	// title, image) on every poll. Used when the launched process id
	// reliably owns the target window.
	DirectMatch Strategy = iota
	// SnapshotDiff keeps only windows absent from a pre-launch snapshot.
	// Used when the process id is unreliable: browsers handing off to a
	// running background process, singleton console hosts.
	SnapshotDiff
)

func (s Strategy) String() string {
	if s == SnapshotDiff {
		return "snapshot-diff"
	}
	return "direct-match"
}

// KindProfile tunes the polling cadence for one launch kind. Window-class
// registration latency varies wildly between plain executables, console
// hosts and remoted apps, so each kind carries its own delays and budget.
type KindProfile struct {
	InitialDelay     time.Duration
	PollInterval     time.Duration
	SlowPollAfter    int           // attempts before switching interval, 0 = never
	SlowPollInterval time.Duration // interval after SlowPollAfter
	MaxAttempts      int
	ConfirmDelay     time.Duration // re-move delay after a successful place
	Strategy         Strategy
}

// Profile names understood by DefaultProfile.
const (
	KindPlain   = "plain"
	KindConsole = "console"
	KindBrowser = "browser"
	KindMmcHost = "mmc-host"
	KindRdsApp  = "rds-app"
)

// DefaultProfile returns the built-in tuning for a launch kind. Unknown
// kinds get the plain profile.
func DefaultProfile(kind string) KindProfile {
	switch kind {
	case KindConsole:
		return KindProfile{
			InitialDelay: 1200 * time.Millisecond,
			PollInterval: 600 * time.Millisecond,
			MaxAttempts:  20,
			ConfirmDelay: 400 * time.Millisecond,
			Strategy:     DirectMatch,
		}
	case KindBrowser:
		return KindProfile{
			InitialDelay: 300 * time.Millisecond,
			PollInterval: 500 * time.Millisecond,
			MaxAttempts:  20,
			ConfirmDelay: 500 * time.Millisecond,
			Strategy:     SnapshotDiff,
		}
	case KindMmcHost:
		return KindProfile{
			InitialDelay: 1000 * time.Millisecond,
			PollInterval: 600 * time.Millisecond,
			MaxAttempts:  12,
			ConfirmDelay: 500 * time.Millisecond,
			Strategy:     SnapshotDiff,
		}
	case KindRdsApp:
		return KindProfile{
			InitialDelay:     1200 * time.Millisecond,
			PollInterval:     800 * time.Millisecond,
			SlowPollAfter:    10,
			SlowPollInterval: 1000 * time.Millisecond,
			MaxAttempts:      25,
			ConfirmDelay:     300 * time.Millisecond,
			Strategy:         DirectMatch,
		}
	default:
		return KindProfile{
			InitialDelay: 800 * time.Millisecond,
			PollInterval: 500 * time.Millisecond,
			MaxAttempts:  20,
			ConfirmDelay: 400 * time.Millisecond,
			Strategy:     DirectMatch,
		}
	}
}

// Request describes one window to find and place. Zero-value filters are
// unset; SessionID uses -1 for unset.
type Request struct {
	Label      string
	Quadrant   geometry.Quadrant
	Profile    KindProfile
	PID        int
	SessionID  int
	ClassNames []string
	TitleHints []string
	ImageHints []string
	Snapshot   []platform.WindowID // pre-launch window set for SnapshotDiff
}

// LastPlaced identifies the most recently placed window, for re-placement
// without a fresh search.
type LastPlaced struct {
	ID  platform.WindowID
	PID int
}
