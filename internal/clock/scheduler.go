// Package clock provides the virtual scheduler that drives every timer in AXIOM.
//
// Time only moves when Advance is called. Callbacks run synchronously on the
// goroutine calling Advance, so all state mutations they perform are serialized
// with the rest of the event loop and need no locking.
package clock

import (
	"container/heap"
	"time"
)

// Scheduler is a deterministic timer queue over virtual time.
// It is not safe for concurrent use.
type Scheduler struct {
	now   time.Duration
	seq   uint64
	queue timerQueue
}

// Timer is the cancellation token for a scheduled callback.
type Timer struct {
	s       *Scheduler
	seq     uint64
	at      time.Duration
	every   time.Duration
	fn      func()
	index   int
	stopped bool
}

// New creates a scheduler at virtual time zero.
func New() *Scheduler {
	return &Scheduler{}
}

// Now returns the current virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Pending returns the number of timers still scheduled.
func (s *Scheduler) Pending() int {
	return len(s.queue)
}

// AfterFunc schedules fn to run once, d after the current virtual time.
func (s *Scheduler) AfterFunc(d time.Duration, fn func()) *Timer {
	return s.schedule(d, 0, fn)
}

// Every schedules fn to run every d until the returned timer is stopped.
// A non-positive interval is treated as one nanosecond so Advance always terminates.
func (s *Scheduler) Every(d time.Duration, fn func()) *Timer {
	if d <= 0 {
		d = time.Nanosecond
	}
	return s.schedule(d, d, fn)
}

func (s *Scheduler) schedule(d, every time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &Timer{
		s:     s,
		seq:   s.seq,
		at:    s.now + d,
		every: every,
		fn:    fn,
	}
	heap.Push(&s.queue, t)
	return t
}

// Advance moves virtual time forward by d and runs every callback that falls
// due, in deadline order (creation order breaks ties). Timers scheduled by a
// callback run within the same call if their deadline is reached.
func (s *Scheduler) Advance(d time.Duration) {
	if d < 0 {
		return
	}
	target := s.now + d
	for len(s.queue) > 0 {
		next := s.queue[0]
		if next.at > target {
			break
		}
		s.now = next.at
		if next.every > 0 {
			next.at += next.every
			heap.Fix(&s.queue, next.index)
		} else {
			heap.Pop(&s.queue)
			next.stopped = true
		}
		next.fn()
	}
	s.now = target
}

// Stop cancels the timer. It reports whether the timer was still pending.
// Stopping a nil timer is a no-op, which lets owners keep a nil token while idle.
func (t *Timer) Stop() bool {
	if t == nil || t.stopped {
		return false
	}
	t.stopped = true
	if t.index >= 0 && t.index < len(t.s.queue) && t.s.queue[t.index] == t {
		heap.Remove(&t.s.queue, t.index)
	}
	return true
}

// Active reports whether the timer will still fire.
func (t *Timer) Active() bool {
	return t != nil && !t.stopped
}

type timerQueue []*Timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].at == q[j].at {
		return q[i].seq < q[j].seq
	}
	return q[i].at < q[j].at
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*Timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
