package placement

import (
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/quadtile/internal/geometry"
	"github.com/1broseidon/quadtile/internal/mover"
	"github.com/1broseidon/quadtile/internal/platform"
	"github.com/1broseidon/quadtile/internal/winmatch"
)

// Options carries the geometry tuning shared by every placement.
type Options struct {
	FillRatio       float64
	EdgeMarginRatio float64
	MinWidth        int
	MinHeight       int
}

// Scheduler runs placement requests. Each scheduled request polls
// independently on its own goroutine; the only shared state is the mover's
// unmanageable set and the last-placed registry, both mutex-guarded. There
// is no cancellation: a request that exhausts its budget stops on its own.
type Scheduler struct {
	backend platform.Backend
	matcher *winmatch.Matcher
	mover   *mover.Mover
	logger  *slog.Logger
	opts    Options

	// sleep is swapped in tests to observe cadence without waiting.
	sleep func(time.Duration)

	mu      sync.Mutex
	last    LastPlaced
	hasLast bool

	wg sync.WaitGroup
}

// NewScheduler wires a scheduler over the given backend, matcher and mover.
func NewScheduler(backend platform.Backend, matcher *winmatch.Matcher, mv *mover.Mover, logger *slog.Logger, opts Options) *Scheduler {
	return &Scheduler{
		backend: backend,
		matcher: matcher,
		mover:   mv,
		logger:  logger,
		opts:    opts,
		sleep:   time.Sleep,
	}
}

// Schedule starts a placement request and returns immediately. The outcome
// is delivered through log lines only; nothing is returned to the caller.
func (s *Scheduler) Schedule(req Request) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Run(req)
	}()
}

// Wait blocks until all scheduled requests have finished.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Run executes a request synchronously and returns its terminal state.
// Schedule wraps this; tests call it directly.
func (s *Scheduler) Run(req Request) State {
	prof := req.Profile
	if prof.MaxAttempts <= 0 {
		prof = DefaultProfile(KindPlain)
	}

	s.logger.Info("placement scheduled",
		"label", req.Label,
		"quadrant", req.Quadrant,
		"strategy", prof.Strategy.String(),
		"pid", req.PID)

	s.sleep(prof.InitialDelay)
	s.logger.Debug("placement searching", "label", req.Label)

	snapshot := make(map[platform.WindowID]struct{}, len(req.Snapshot))
	for _, id := range req.Snapshot {
		snapshot[id] = struct{}{}
	}

	for attempt := 1; attempt <= prof.MaxAttempts; attempt++ {
		win, found := s.poll(req, prof, snapshot)
		if found {
			s.logger.Info("placement found",
				"label", req.Label,
				"window", win.ID,
				"pid", win.PID,
				"attempt", attempt)
			state, retry := s.place(req, prof, win)
			if !retry {
				return state
			}
			// The window closed between find and move. Not a real
			// failure: keep searching on the remaining budget.
			s.logger.Info("window closed before placement",
				"label", req.Label, "window", win.ID)
		}

		if attempt == prof.MaxAttempts {
			break
		}
		interval := prof.PollInterval
		if prof.SlowPollAfter > 0 && attempt >= prof.SlowPollAfter {
			interval = prof.SlowPollInterval
		}
		s.sleep(interval)
	}

	s.logger.Warn("placement timed out",
		"label", req.Label,
		"attempts", prof.MaxAttempts)
	return TimedOut
}

// poll runs one matcher pass and picks the largest surviving candidate.
func (s *Scheduler) poll(req Request, prof KindProfile, snapshot map[platform.WindowID]struct{}) (platform.Window, bool) {
	c := winmatch.Criteria{
		ClassNames:    req.ClassNames,
		TitleContains: req.TitleHints,
		ImageNames:    req.ImageHints,
		SessionID:     -1,
		MinWidth:      s.opts.MinWidth,
		MinHeight:     s.opts.MinHeight,
	}
	if prof.Strategy == DirectMatch {
		c.PID = req.PID
		c.SessionID = req.SessionID
	}

	candidates, err := s.matcher.Find(c)
	if err != nil {
		s.logger.Warn("window enumeration failed", "label", req.Label, "error", err)
		return platform.Window{}, false
	}

	if prof.Strategy == SnapshotDiff {
		fresh := candidates[:0]
		for _, w := range candidates {
			if _, pre := snapshot[w.ID]; !pre {
				fresh = append(fresh, w)
			}
		}
		candidates = fresh
	}

	return winmatch.LargestByArea(candidates)
}

// place moves the found window into its quadrant and schedules the
// confirmation re-move. The quadrant rectangle is computed fresh so live
// resolution changes are respected. The second return asks the caller to
// keep searching: the window vanished between find and move.
func (s *Scheduler) place(req Request, prof KindProfile, win platform.Window) (State, bool) {
	target, ok := s.quadrantRect(req.Quadrant)
	if !ok {
		return PlaceFailed, false
	}

	switch s.mover.Move(win.ID, target) {
	case mover.Placed:
	case mover.Failed:
		if !s.windowExists(win.ID) {
			return PlaceFailed, true
		}
		s.logger.Warn("placement failed", "label", req.Label, "window", win.ID)
		return PlaceFailed, false
	default:
		s.logger.Warn("placement failed", "label", req.Label, "window", win.ID)
		return PlaceFailed, false
	}

	s.setLastPlaced(LastPlaced{ID: win.ID, PID: win.PID})
	s.logger.Info("placement placed",
		"label", req.Label,
		"window", win.ID,
		"quadrant", req.Quadrant)

	// Some hosts snap back to a default position shortly after creation;
	// a second move a few hundred milliseconds later corrects it.
	s.sleep(prof.ConfirmDelay)
	if target, ok := s.quadrantRect(req.Quadrant); ok {
		if out := s.mover.Move(win.ID, target); out != mover.Placed {
			s.logger.Debug("confirmation re-move did not apply",
				"label", req.Label, "window", win.ID, "outcome", out.String())
		}
	}
	return Placed, false
}

func (s *Scheduler) quadrantRect(q geometry.Quadrant) (geometry.Rect, bool) {
	work, err := s.backend.WorkArea()
	if err != nil {
		s.logger.Warn("work area lookup failed", "error", err)
		return geometry.Rect{}, false
	}
	return geometry.QuadrantRect(work, q, s.opts.FillRatio, s.opts.EdgeMarginRatio), true
}

func (s *Scheduler) windowExists(id platform.WindowID) bool {
	windows, err := s.backend.ListWindows()
	if err != nil {
		return false
	}
	for _, w := range windows {
		if w.ID == id {
			return true
		}
	}
	return false
}

func (s *Scheduler) setLastPlaced(lp LastPlaced) {
	s.mu.Lock()
	s.last = lp
	s.hasLast = true
	s.mu.Unlock()
}

// LastPlaced returns the most recently placed window, if any.
func (s *Scheduler) LastPlaced() (LastPlaced, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.hasLast
}

// PlaceLast re-places the last placed window into the given quadrant. No
// search happens; the stored handle goes straight through the mover.
func (s *Scheduler) PlaceLast(q geometry.Quadrant) bool {
	lp, ok := s.LastPlaced()
	if !ok {
		s.logger.Info("no window placed yet")
		return false
	}
	target, ok := s.quadrantRect(q)
	if !ok {
		return false
	}
	out := s.mover.Move(lp.ID, target)
	s.logger.Info("re-placed last window",
		"window", lp.ID,
		"quadrant", q,
		"outcome", out.String())
	return out == mover.Placed
}

// PruneLastPlaced clears the registry when its window no longer exists.
// The daemon's janitor calls this periodically.
func (s *Scheduler) PruneLastPlaced() {
	lp, ok := s.LastPlaced()
	if !ok {
		return
	}
	if s.windowExists(lp.ID) {
		return
	}
	s.mu.Lock()
	if s.last == lp {
		s.hasLast = false
		s.last = LastPlaced{}
	}
	s.mu.Unlock()
	s.logger.Debug("cleared stale last-placed window", "window", lp.ID)
}
