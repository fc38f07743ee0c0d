// Package hold implements hold-to-confirm progress: a linear meter filled by a
// periodic tick while the user keeps holding.
package hold

import (
	"time"

	"axiom/internal/clock"
)

// Full is the progress value at which a hold completes.
const Full = 100.0

// DefaultInterval is the tick period used by both rituals.
const DefaultInterval = 16 * time.Millisecond

// Meter accumulates progress on a scheduler tick. It owns exactly one periodic
// timer, which exists only while the meter is running.
type Meter struct {
	sched    *clock.Scheduler
	interval time.Duration
	step     float64
	progress float64
	ticks    int
	tick     *clock.Timer
}

// NewMeter creates a stopped meter that adds step per interval.
func NewMeter(sched *clock.Scheduler, interval time.Duration, step float64) *Meter {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Meter{sched: sched, interval: interval, step: step}
}

// Start begins filling from zero. done runs exactly once, on the tick that
// reaches Full, after the meter has stopped itself. Start on a running meter
// is a no-op.
func (m *Meter) Start(done func()) {
	if m.tick.Active() {
		return
	}
	m.progress = 0
	m.ticks = 0
	m.tick = m.sched.Every(m.interval, func() {
		m.ticks++
		m.progress += m.step
		if m.progress < Full {
			return
		}
		m.progress = Full
		m.tick.Stop()
		if done != nil {
			done()
		}
	})
}

// Abort stops the tick and resets progress to zero.
func (m *Meter) Abort() {
	m.tick.Stop()
	m.progress = 0
	m.ticks = 0
}

// Stop halts the tick and keeps the current progress.
func (m *Meter) Stop() {
	m.tick.Stop()
}

// Running reports whether the tick is active.
func (m *Meter) Running() bool { return m.tick.Active() }

// Progress returns the current value in [0, Full].
func (m *Meter) Progress() float64 { return m.progress }

// Complete reports whether the meter reached Full.
func (m *Meter) Complete() bool { return m.progress >= Full }

// Ticks returns how many ticks fired since the last Start.
func (m *Meter) Ticks() int { return m.ticks }
