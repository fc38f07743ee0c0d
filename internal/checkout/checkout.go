// Package checkout models the hold-to-confirm purchase ritual.
//
// States run idle -> active -> processing -> success -> idle. The machine only
// settles when the vault holds at least one product at the moment processing
// completes; settlement captures a manifest and clears the vault, and the
// success screen closes itself after a fixed delay.
package checkout

import (
	"slices"
	"time"

	"axiom/internal/catalog"
	"axiom/internal/clock"
	"axiom/internal/hold"
	"axiom/internal/notify"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is the checkout machine state.
type State int

const (
	Idle State = iota
	Active
	Processing
	Success
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Processing:
		return "processing"
	case Success:
		return "success"
	}
	return "unknown"
}

// Vault is the slice of the vault the checkout needs.
type Vault interface {
	Items() []catalog.Product
	Len() int
	Total() int64
	Clear()
	SetOpen(open bool)
}

// LineItem is one product on a manifest.
type LineItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
}

// Manifest is the receipt produced when a purchase settles.
type Manifest struct {
	ID        string     `json:"id"`
	Items     []LineItem `json:"items"`
	Total     int64      `json:"total"`
	Member    bool       `json:"member"`
	SettledAt time.Time  `json:"settled_at"`
}

// Count returns the number of line items.
func (m Manifest) Count() int { return len(m.Items) }

// Clone returns a copy that shares no line items with m.
func (m Manifest) Clone() Manifest {
	m.Items = slices.Clone(m.Items)
	return m
}

// Config holds checkout timings and copy.
type Config struct {
	TickInterval    time.Duration
	Step            float64
	CloseDelay      time.Duration
	ManifestMessage string
}

// DefaultConfig returns the standard ritual: 1.5% every 16ms, 4s success screen.
func DefaultConfig() Config {
	return Config{
		TickInterval:    hold.DefaultInterval,
		Step:            1.5,
		CloseDelay:      4000 * time.Millisecond,
		ManifestMessage: "Shipment Manifest Generated",
	}
}

// Options are the optional collaborators of a Machine.
type Options struct {
	// OnSettled receives each manifest at the moment of success.
	OnSettled func(Manifest)
	// Member reports whether the buyer is authenticated.
	Member func() bool
	// Now stamps manifests. Defaults to time.Now.
	Now    func() time.Time
	Logger *zap.Logger
}

// Machine is the checkout state machine.
type Machine struct {
	sched    *clock.Scheduler
	cfg      Config
	vault    Vault
	notify   notify.Pusher
	opts     Options
	meter    *hold.Meter
	state    State
	closer   *clock.Timer
	manifest *Manifest
	log      *zap.Logger
}

// New builds a checkout machine in idle.
func New(sched *clock.Scheduler, cfg Config, v Vault, n notify.Pusher, opts Options) *Machine {
	def := DefaultConfig()
	if cfg.Step <= 0 {
		cfg.Step = def.Step
	}
	if cfg.ManifestMessage == "" {
		cfg.ManifestMessage = def.ManifestMessage
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Machine{
		sched:  sched,
		cfg:    cfg,
		vault:  v,
		notify: n,
		opts:   opts,
		meter:  hold.NewMeter(sched, cfg.TickInterval, cfg.Step),
		log:    log,
	}
}

// Open enters active from idle. An empty vault cannot be checked out, so
// Open with no items is a no-op.
func (m *Machine) Open() bool {
	if m.state != Idle {
		return false
	}
	if m.vault.Len() == 0 {
		m.log.Debug("checkout refused: vault empty")
		return false
	}
	m.state = Active
	m.manifest = nil
	m.log.Info("checkout opened", zap.Int("items", m.vault.Len()), zap.Int64("total", m.vault.Total()))
	return true
}

// StartHold begins the confirmation hold. Valid only from active.
func (m *Machine) StartHold() bool {
	if m.state != Active {
		return false
	}
	m.state = Processing
	m.meter.Start(m.complete)
	return true
}

// ReleaseHold abandons an unfinished hold and returns to active.
func (m *Machine) ReleaseHold() bool {
	if m.state != Processing || m.meter.Complete() {
		return false
	}
	m.meter.Abort()
	m.state = Active
	m.log.Debug("hold abandoned")
	return true
}

func (m *Machine) complete() {
	if m.vault.Len() == 0 {
		// The vault was emptied under the hold; there is nothing to settle.
		m.meter.Abort()
		m.state = Active
		m.log.Warn("hold completed with empty vault")
		return
	}

	manifest := m.capture()
	m.manifest = &manifest
	m.vault.Clear()
	m.state = Success
	m.log.Info("purchase settled",
		zap.String("manifest", manifest.ID),
		zap.Int("items", manifest.Count()),
		zap.Int64("total", manifest.Total))

	if m.opts.OnSettled != nil {
		m.opts.OnSettled(manifest.Clone())
	}
	m.closer = m.sched.AfterFunc(m.cfg.CloseDelay, m.finish)
}

func (m *Machine) capture() Manifest {
	items := m.vault.Items()
	lines := make([]LineItem, len(items))
	for i, p := range items {
		lines[i] = LineItem{ProductID: p.ID, Name: p.Name, Price: p.Price}
	}
	member := false
	if m.opts.Member != nil {
		member = m.opts.Member()
	}
	return Manifest{
		ID:        uuid.NewString(),
		Items:     lines,
		Total:     m.vault.Total(),
		Member:    member,
		SettledAt: m.opts.Now(),
	}
}

func (m *Machine) finish() {
	m.closer = nil
	m.meter.Abort()
	m.state = Idle
	m.vault.SetOpen(false)
	if m.notify != nil {
		m.notify.Push(m.cfg.ManifestMessage, notify.KindSuccess)
	}
	m.log.Debug("success screen closed")
}

// Close forces idle from any state and cancels every pending timer. Closing
// the success screen early skips the closing notification.
func (m *Machine) Close() {
	if m.state == Idle {
		return
	}
	m.meter.Abort()
	m.closer.Stop()
	m.closer = nil
	m.state = Idle
	m.log.Debug("checkout closed")
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Progress returns hold progress in [0,100].
func (m *Machine) Progress() float64 { return m.meter.Progress() }

// Manifest returns a copy of the manifest of the last settlement while its
// success screen is relevant, i.e. until the next Open.
func (m *Machine) Manifest() (Manifest, bool) {
	if m.manifest == nil {
		return Manifest{}, false
	}
	return m.manifest.Clone(), true
}
