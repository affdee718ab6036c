package launcher

import (
	"fmt"

	"github.com/1broseidon/quadtile/internal/placement"
)

// Kind classifies a launch for placement tuning. Each kind carries its own
// polling profile and selection strategy.
type Kind int

const (
	// Plain is an ordinary executable whose process id owns its window.
	Plain Kind = iota
	// Console is a terminal or console-hosted command. Window-class
	// registration lags process creation noticeably for these.
	Console
	// Browser hands the launch off to an already-running background
	// process, making the launched pid useless for matching.
	Browser
	// MmcHost is a console-document host that may reuse a singleton
	// process, like browsers unreliable for pid matching.
	MmcHost
	// RdsApp is a remoted application; its window appears in a different
	// session and takes the longest to materialize.
	RdsApp
)

func (k Kind) String() string {
	switch k {
	case Console:
		return placement.KindConsole
	case Browser:
		return placement.KindBrowser
	case MmcHost:
		return placement.KindMmcHost
	case RdsApp:
		return placement.KindRdsApp
	default:
		return placement.KindPlain
	}
}

// ParseKind maps a config label to a Kind. The empty string is Plain.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", placement.KindPlain:
		return Plain, nil
	case placement.KindConsole:
		return Console, nil
	case placement.KindBrowser:
		return Browser, nil
	case placement.KindMmcHost:
		return MmcHost, nil
	case placement.KindRdsApp:
		return RdsApp, nil
	}
	return Plain, fmt.Errorf("unknown launch kind %q", s)
}

// UsesSnapshot reports whether this kind needs a pre-launch window snapshot
// because its process id cannot identify the target window.
func (k Kind) UsesSnapshot() bool {
	return k == Browser || k == MmcHost
}
