package notification

import (
	"sync"

	"github.com/google/uuid"
)

// Queue is the thread-safe FIFO of pending jobs. The head is the job the
// orchestrator is playing or will play next; everything else waits in
// submission order. All mutation happens under one mutex so producers and
// the orchestrator loop never observe a half-applied change.
type Queue struct {
	mu   sync.Mutex
	jobs []*Notification
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Append adds a job at the tail.
func (q *Queue) Append(n *Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, n)
}

// Head returns the current head without removing it, or nil when empty.
func (q *Queue) Head() *Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.jobs) == 0 {
		return nil
	}
	return q.jobs[0]
}

// RemoveHead drops the head job. Removing from an empty queue is a no-op.
func (q *Queue) RemoveHead() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.jobs) == 0 {
		return
	}
	q.jobs[0] = nil
	q.jobs = q.jobs[1:]
}

// Len reports the number of queued jobs, the playing head included.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// PushFront inserts a job as close to the head as playback allows: in front
// of everything when nothing has started, otherwise directly behind the
// playing head. A job that is mid-playback is never displaced.
func (q *Queue) PushFront(n *Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.insertFront(n)
}

func (q *Queue) insertFront(n *Notification) {
	at := 0
	if len(q.jobs) > 0 && q.jobs[0].active() {
		at = 1
	}
	q.jobs = append(q.jobs, nil)
	copy(q.jobs[at+1:], q.jobs[at:])
	q.jobs[at] = n
}

// MoveToFront pulls the identified job forward so it plays next. It reports
// whether the job was found; moving the playing head is a no-op.
func (q *Queue) MoveToFront(id uuid.UUID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, n := range q.jobs {
		if n.ID != id {
			continue
		}
		if n.active() {
			return true
		}
		q.jobs = append(q.jobs[:i], q.jobs[i+1:]...)
		q.insertFront(n)
		return true
	}
	return false
}
