package vpn

import "sync"

// OutputQueue is an unbounded FIFO of OpenVPN output lines.
//
// Producers are the process output writers; the single consumer is the
// supervision loop. Push never blocks. Ready delivers a wake-up after
// pushes so the consumer can wait instead of polling.
type OutputQueue struct {
	mu    sync.Mutex
	lines []string
	head  int
	ready chan struct{}
}

// NewOutputQueue creates an empty queue.
func NewOutputQueue() *OutputQueue {
	return &OutputQueue{ready: make(chan struct{}, 1)}
}

// Push appends a line.
func (q *OutputQueue) Push(line string) {
	q.mu.Lock()
	q.lines = append(q.lines, line)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// TryPop removes the oldest line, if any.
func (q *OutputQueue) TryPop() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head == len(q.lines) {
		return "", false
	}
	line := q.lines[q.head]
	q.lines[q.head] = ""
	q.head++
	if q.head == len(q.lines) {
		q.lines = q.lines[:0]
		q.head = 0
	}
	return line, true
}

// Drain removes every queued line and passes them to fn in order.
// fn runs without the lock held. It returns the number of lines drained.
func (q *OutputQueue) Drain(fn func(string)) int {
	q.mu.Lock()
	batch := q.lines[q.head:]
	q.lines = nil
	q.head = 0
	q.mu.Unlock()

	for _, line := range batch {
		fn(line)
	}
	return len(batch)
}

// Len returns the number of queued lines.
func (q *OutputQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.lines) - q.head
}

// Ready is signalled after Push. A receive may be spurious; always drain.
func (q *OutputQueue) Ready() <-chan struct{} {
	return q.ready
}
