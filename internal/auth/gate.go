// Package auth models the biometric identification ritual.
//
// The gate is a hold-gated machine: idle -> scanning -> success. Letting go
// before the scan completes returns to idle. Success schedules the verified
// callback after a settle delay; closing or resetting the gate cancels it.
package auth

import (
	"time"

	"axiom/internal/clock"
	"axiom/internal/hold"

	"go.uber.org/zap"
)

// ScanState is the gate's local state.
type ScanState int

const (
	ScanIdle ScanState = iota
	ScanScanning
	ScanSuccess
)

func (s ScanState) String() string {
	switch s {
	case ScanIdle:
		return "idle"
	case ScanScanning:
		return "scanning"
	case ScanSuccess:
		return "success"
	}
	return "unknown"
}

// Config holds the gate timings.
type Config struct {
	TickInterval time.Duration
	Step         float64
	SettleDelay  time.Duration
}

// DefaultConfig returns the standard ritual: 2% every 16ms, 1s settle.
func DefaultConfig() Config {
	return Config{
		TickInterval: hold.DefaultInterval,
		Step:         2,
		SettleDelay:  1000 * time.Millisecond,
	}
}

// Gate is the identification machine.
type Gate struct {
	sched    *clock.Scheduler
	cfg      Config
	meter    *hold.Meter
	state    ScanState
	settle   *clock.Timer
	verified func()
	log      *zap.Logger
}

// NewGate builds a gate. verified runs once per completed scan, after the
// settle delay, unless the gate is reset or closed first.
func NewGate(sched *clock.Scheduler, cfg Config, verified func(), log *zap.Logger) *Gate {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Step <= 0 {
		cfg.Step = DefaultConfig().Step
	}
	return &Gate{
		sched:    sched,
		cfg:      cfg,
		meter:    hold.NewMeter(sched, cfg.TickInterval, cfg.Step),
		verified: verified,
		log:      log,
	}
}

// StartHold begins scanning. Valid only from idle.
func (g *Gate) StartHold() bool {
	if g.state != ScanIdle {
		return false
	}
	g.state = ScanScanning
	g.meter.Start(g.complete)
	g.log.Debug("scan started")
	return true
}

// ReleaseHold abandons an unfinished scan, returning to idle with zero progress.
func (g *Gate) ReleaseHold() bool {
	if g.state != ScanScanning || g.meter.Complete() {
		return false
	}
	g.meter.Abort()
	g.state = ScanIdle
	g.log.Debug("scan abandoned")
	return true
}

func (g *Gate) complete() {
	g.state = ScanSuccess
	g.log.Info("identity verified", zap.Int("ticks", g.meter.Ticks()))
	g.settle = g.sched.AfterFunc(g.cfg.SettleDelay, func() {
		g.settle = nil
		if g.verified != nil {
			g.verified()
		}
	})
}

// Reset returns the gate to idle/0 and cancels any tick or pending settle.
// It is called whenever the modal opens or closes.
func (g *Gate) Reset() {
	g.meter.Abort()
	g.settle.Stop()
	g.settle = nil
	g.state = ScanIdle
}

// State returns the scan state.
func (g *Gate) State() ScanState { return g.state }

// Progress returns scan progress in [0,100].
func (g *Gate) Progress() float64 { return g.meter.Progress() }

// Settling reports whether the verified callback is pending.
func (g *Gate) Settling() bool { return g.settle.Active() }

// Status is the caption shown under the scanner.
func (g *Gate) Status() string {
	switch g.state {
	case ScanScanning:
		return "Analyzing Biometrics..."
	case ScanSuccess:
		return "Identity Verified"
	}
	return "Hold to Identify"
}
