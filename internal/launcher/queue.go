package launcher

import "sync"

// OutputLine is one decoded line from a monitored child's output.
type OutputLine struct {
	Stream string // "stdout" or "stderr"
	Text   string
}

// OutputQueue is a bounded line buffer between reader goroutines and
// whoever drains the child's output. When full, the oldest lines are
// dropped; a monitored child must never block on a slow consumer.
type OutputQueue struct {
	mu      sync.Mutex
	lines   []OutputLine
	max     int
	dropped int
}

// NewOutputQueue creates a queue holding at most max lines.
func NewOutputQueue(max int) *OutputQueue {
	if max <= 0 {
		max = 1000
	}
	return &OutputQueue{max: max}
}

// Push appends a line, evicting the oldest when the queue is full.
func (q *OutputQueue) Push(line OutputLine) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.lines) >= q.max {
		q.lines = q.lines[1:]
		q.dropped++
	}
	q.lines = append(q.lines, line)
}

// Drain removes and returns all buffered lines in arrival order.
func (q *OutputQueue) Drain() []OutputLine {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.lines
	q.lines = nil
	return out
}

// Len returns the number of buffered lines.
func (q *OutputQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.lines)
}

// Dropped returns how many lines were evicted since creation.
func (q *OutputQueue) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
