// Package toast is the process-wide ephemeral message queue for user
// feedback. Messages expire on their own; persistent, retryable failures go
// through inline errors instead.
package toast

import (
	"sync"
	"time"
)

// Level classifies a toast for rendering.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Default visibility windows per level.
const (
	durationSuccess = 4 * time.Second
	durationError   = 6 * time.Second
	durationDefault = 5 * time.Second
)

// maxPending bounds the queue; the oldest message is dropped on overflow.
const maxPending = 20

// Toast is one ephemeral message.
type Toast struct {
	ID       int64
	Message  string
	Level    Level
	Duration time.Duration
	PushedAt time.Time
}

// Queue holds pending toasts and notifies subscribers on push.
type Queue struct {
	mu     sync.Mutex
	nextID int64
	items  []Toast
	subs   map[int]func(Toast)
	subSeq int
	now    func() time.Time
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{
		subs: make(map[int]func(Toast)),
		now:  time.Now,
	}
}

// Push enqueues a message with an explicit level and duration, returning its
// id.
func (q *Queue) Push(message string, level Level, duration time.Duration) int64 {
	q.mu.Lock()
	q.nextID++
	toast := Toast{
		ID:       q.nextID,
		Message:  message,
		Level:    level,
		Duration: duration,
		PushedAt: q.now(),
	}
	q.items = append(q.items, toast)
	if len(q.items) > maxPending {
		q.items = q.items[len(q.items)-maxPending:]
	}
	subs := make([]func(Toast), 0, len(q.subs))
	for _, fn := range q.subs {
		subs = append(subs, fn)
	}
	q.mu.Unlock()

	for _, fn := range subs {
		fn(toast)
	}
	return toast.ID
}

// Success enqueues a success message.
func (q *Queue) Success(message string) int64 {
	return q.Push(message, LevelSuccess, durationSuccess)
}

// Error enqueues an error message.
func (q *Queue) Error(message string) int64 {
	return q.Push(message, LevelError, durationError)
}

// Warning enqueues a warning message.
func (q *Queue) Warning(message string) int64 {
	return q.Push(message, LevelWarning, durationDefault)
}

// Info enqueues an informational message.
func (q *Queue) Info(message string) int64 {
	return q.Push(message, LevelInfo, durationDefault)
}

// Remove discards a toast before it expires.
func (q *Queue) Remove(id int64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, toast := range q.items {
		if toast.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return
		}
	}
}

// Active returns the not-yet-expired toasts, dropping expired ones.
func (q *Queue) Active() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	now := q.now()
	active := q.items[:0]
	for _, toast := range q.items {
		if now.Sub(toast.PushedAt) < toast.Duration {
			active = append(active, toast)
		}
	}
	q.items = active
	out := make([]Toast, len(active))
	copy(out, active)
	return out
}

// Subscribe registers fn for every pushed toast and returns an unsubscribe
// function.
func (q *Queue) Subscribe(fn func(Toast)) func() {
	q.mu.Lock()
	id := q.subSeq
	q.subSeq++
	q.subs[id] = fn
	q.mu.Unlock()
	return func() {
		q.mu.Lock()
		delete(q.subs, id)
		q.mu.Unlock()
	}
}
