// Package notify implements the transient notification queue.
package notify

import (
	"time"

	"axiom/internal/clock"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Kind is the visual category of a notification.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
)

// DefaultVisibleDuration is how long a notification stays after its entry completes.
const DefaultVisibleDuration = 3000 * time.Millisecond

// Notification is a single queued message.
type Notification struct {
	ID      string
	Message string
	Kind    Kind
}

// Pusher is the write side of the queue, used by components that only emit.
type Pusher interface {
	Push(message string, kind Kind) string
}

type entry struct {
	Notification
	dismiss *clock.Timer
}

// Queue holds notifications in insertion order.
type Queue struct {
	sched   *clock.Scheduler
	visible time.Duration
	log     *zap.Logger
	entries []*entry
}

// Option configures a Queue.
type Option func(*Queue)

// WithVisibleDuration overrides the auto-dismiss delay.
func WithVisibleDuration(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.visible = d
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(q *Queue) {
		if l != nil {
			q.log = l
		}
	}
}

// NewQueue creates an empty queue whose auto-dismiss timers run on sched.
func NewQueue(sched *clock.Scheduler, opts ...Option) *Queue {
	q := &Queue{
		sched:   sched,
		visible: DefaultVisibleDuration,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Push appends a notification to the tail and returns its id.
// An empty kind defaults to info.
func (q *Queue) Push(message string, kind Kind) string {
	if kind == "" {
		kind = KindInfo
	}
	e := &entry{Notification: Notification{ID: newID(), Message: message, Kind: kind}}
	q.entries = append(q.entries, e)
	q.log.Debug("notification pushed", zap.String("id", e.ID), zap.String("kind", string(kind)), zap.String("message", message))
	return e.ID
}

// Presented signals that the entry transition for id has completed and starts
// its auto-dismiss countdown. Repeated calls do not restart the countdown.
func (q *Queue) Presented(id string) {
	e := q.find(id)
	if e == nil || e.dismiss != nil {
		return
	}
	e.dismiss = q.sched.AfterFunc(q.visible, func() { q.remove(id, "expired") })
}

// Dismiss removes the notification with id. Unknown ids are ignored.
func (q *Queue) Dismiss(id string) {
	q.remove(id, "dismissed")
}

func (q *Queue) remove(id, reason string) {
	for i, e := range q.entries {
		if e.ID != id {
			continue
		}
		e.dismiss.Stop()
		q.entries = append(q.entries[:i], q.entries[i+1:]...)
		q.log.Debug("notification removed", zap.String("id", id), zap.String("reason", reason))
		return
	}
}

// Items returns the queue in display order.
func (q *Queue) Items() []Notification {
	out := make([]Notification, len(q.entries))
	for i, e := range q.entries {
		out[i] = e.Notification
	}
	return out
}

// Unpresented returns the ids whose countdown has not started yet.
func (q *Queue) Unpresented() []string {
	var ids []string
	for _, e := range q.entries {
		if e.dismiss == nil {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// Len returns the number of queued notifications.
func (q *Queue) Len() int { return len(q.entries) }

// Reset drops every notification and cancels all pending dismissals.
func (q *Queue) Reset() {
	for _, e := range q.entries {
		e.dismiss.Stop()
	}
	q.entries = nil
}

func (q *Queue) find(id string) *entry {
	for _, e := range q.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
