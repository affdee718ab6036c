// Package launcher starts configured tools and hands their windows to the
// placement scheduler.
package launcher

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/1broseidon/quadtile/internal/config"
	"github.com/1broseidon/quadtile/internal/geometry"
	"github.com/1broseidon/quadtile/internal/placement"
	"github.com/1broseidon/quadtile/internal/platform"
)

// Child is a monitored launched process. Its output queue is filled by two
// reader goroutines; callers drain it at their leisure.
type Child struct {
	PID   int
	Tool  string
	Queue *OutputQueue

	wg sync.WaitGroup
}

// Alive reports whether the process still exists.
func (c *Child) Alive() bool {
	return unix.Kill(c.PID, 0) == nil
}

// WaitOutput blocks until both reader goroutines have seen EOF.
func (c *Child) WaitOutput() {
	c.wg.Wait()
}

// Launcher resolves tool definitions, spawns them and schedules placements.
// When a launch names no quadrant the launcher rotates through the four
// quadrants in order.
type Launcher struct {
	backend platform.Backend
	sched   *placement.Scheduler
	cfg     *config.Config
	logger  *slog.Logger

	mu       sync.Mutex
	next     geometry.Quadrant
	children map[int]*Child
}

func New(backend platform.Backend, sched *placement.Scheduler, cfg *config.Config, logger *slog.Logger) *Launcher {
	return &Launcher{
		backend:  backend,
		sched:    sched,
		cfg:      cfg,
		logger:   logger,
		next:     geometry.TopLeft,
		children: make(map[int]*Child),
	}
}

// SetConfig swaps the active config, for reloads.
func (l *Launcher) SetConfig(cfg *config.Config) {
	l.mu.Lock()
	l.cfg = cfg
	l.mu.Unlock()
}

func (l *Launcher) config() *config.Config {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cfg
}

// NextQuadrant returns the next rotation slot and advances it.
func (l *Launcher) NextQuadrant() geometry.Quadrant {
	l.mu.Lock()
	defer l.mu.Unlock()
	q := l.next
	l.next = q.Next()
	return q
}

// Launch starts the named tool and schedules its window placement. quadrant
// may be empty: the tool's configured quadrant wins, then the rotation.
// The returned pid is the spawned process; for browser-like kinds it may
// not own the final window.
func (l *Launcher) Launch(toolName, quadrant string) (int, error) {
	cfg := l.config()
	tool, ok := cfg.Tools[toolName]
	if !ok {
		return 0, fmt.Errorf("unknown tool %q", toolName)
	}
	kind, err := ParseKind(tool.Kind)
	if err != nil {
		return 0, err
	}

	q, err := l.resolveQuadrant(quadrant, tool.Quadrant)
	if err != nil {
		return 0, err
	}

	// Snapshot before the process starts, or the new window could land in
	// the "pre-existing" set and never match.
	var snapshot []platform.WindowID
	if kind.UsesSnapshot() {
		snapshot = l.windowSnapshot()
	}

	args := append([]string(nil), tool.Args...)
	var cleanup func()
	if kind == Browser {
		var isolated []string
		isolated, cleanup = browserIsolationArgs()
		args = append(args, isolated...)
	}

	cmd := exec.Command(tool.Command, args...)
	cmd.Env = os.Environ()
	for k, v := range tool.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var child *Child
	if tool.Monitor {
		child, err = l.attachReaders(cmd, toolName)
		if err != nil {
			if cleanup != nil {
				cleanup()
			}
			return 0, err
		}
	}

	if err := cmd.Start(); err != nil {
		if cleanup != nil {
			cleanup()
		}
		return 0, fmt.Errorf("failed to start %q: %w", toolName, err)
	}
	pid := cmd.Process.Pid
	l.logger.Info("launched tool", "tool", toolName, "pid", pid, "kind", kind.String(), "quadrant", q)

	if child != nil {
		child.PID = pid
		l.mu.Lock()
		l.children[pid] = child
		l.mu.Unlock()
	}

	// Reap the child when it exits so it never lingers as a zombie, and
	// drop any temporary browser profile with it. The children entry
	// stays until PruneChildren so buffered output remains drainable.
	// Wait closes the stdout/stderr pipes, so the readers must reach
	// EOF first or buffered tail output is lost.
	go func() {
		if child != nil {
			child.WaitOutput()
		}
		_ = cmd.Wait()
		if cleanup != nil {
			cleanup()
		}
	}()

	sessionID := -1
	if kind == RdsApp {
		sessionID = l.backend.ProcessSessionID(pid)
	}

	l.sched.Schedule(placement.Request{
		Label:      toolName,
		Quadrant:   q,
		Profile:    cfg.ProfileFor(kind.String()),
		PID:        pid,
		SessionID:  sessionID,
		ClassNames: l.classNamesFor(kind, tool),
		TitleHints: tool.TitleHints,
		ImageHints: tool.ImageHints,
		Snapshot:   snapshot,
	})
	return pid, nil
}

// Child returns the monitored child for a pid, if any.
func (l *Launcher) Child(pid int) (*Child, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.children[pid]
	return c, ok
}

// ChildCount returns the number of tracked monitored children.
func (l *Launcher) ChildCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.children)
}

// PruneChildren drops monitored children that have exited and whose output
// has been fully consumed. Called periodically by the daemon.
func (l *Launcher) PruneChildren() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for pid, c := range l.children {
		if c.Alive() {
			continue
		}
		if c.Queue.Len() == 0 {
			delete(l.children, pid)
		}
	}
}

func (l *Launcher) resolveQuadrant(explicit, configured string) (geometry.Quadrant, error) {
	if explicit != "" {
		return geometry.ParseQuadrant(explicit)
	}
	if configured != "" {
		return geometry.ParseQuadrant(configured)
	}
	return l.NextQuadrant(), nil
}

func (l *Launcher) windowSnapshot() []platform.WindowID {
	windows, err := l.backend.ListWindows()
	if err != nil {
		l.logger.Warn("pre-launch snapshot failed", "error", err)
		return nil
	}
	ids := make([]platform.WindowID, 0, len(windows))
	for _, w := range windows {
		ids = append(ids, w.ID)
	}
	return ids
}

func (l *Launcher) classNamesFor(kind Kind, tool config.ToolConfig) []string {
	if len(tool.ClassNames) > 0 {
		return tool.ClassNames
	}
	cfg := l.config()
	switch kind {
	case Console:
		return cfg.ConsoleClasses
	case Browser:
		return cfg.BrowserClasses
	}
	return nil
}

// attachReaders wires stdout/stderr pipes to goroutines that push decoded
// lines into the child's queue. The readers touch nothing but the queue.
func (l *Launcher) attachReaders(cmd *exec.Cmd, tool string) (*Child, error) {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	child := &Child{Tool: tool, Queue: NewOutputQueue(1000)}
	child.wg.Add(2)
	go readLines(stdout, "stdout", child)
	go readLines(stderr, "stderr", child)
	return child, nil
}

func readLines(r io.Reader, stream string, child *Child) {
	defer child.wg.Done()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 512*1024)
	for scanner.Scan() {
		child.Queue.Push(OutputLine{Stream: stream, Text: scanner.Text()})
	}
}

// browserIsolationArgs forces a fresh browser window into the snapshot
// diff. Without the throwaway profile a running browser would open a tab
// in an existing window and the diff would see nothing new.
func browserIsolationArgs() ([]string, func()) {
	dir, err := os.MkdirTemp("", "quadtile-browser-*")
	if err != nil {
		return []string{"--new-window"}, nil
	}
	return []string{"--new-window", "--user-data-dir=" + dir}, func() {
		_ = os.RemoveAll(dir)
	}
}
