// Package store is the application state: one explicit struct composing the
// router, vault, notification queue and the two hold rituals, all driven by a
// single scheduler. The presentation layer mutates it only through the
// command methods below and reads it through Snapshot.
package store

import (
	"fmt"
	"time"

	"axiom/internal/auth"
	"axiom/internal/catalog"
	"axiom/internal/checkout"
	"axiom/internal/clock"
	"axiom/internal/notify"
	"axiom/internal/router"
	"axiom/internal/vault"

	"go.uber.org/zap"
)

// Config carries the ritual timings.
type Config struct {
	Gate                auth.Config
	Checkout            checkout.Config
	NotificationVisible time.Duration
}

// DefaultConfig returns the standard timings.
func DefaultConfig() Config {
	return Config{
		Gate:                auth.DefaultConfig(),
		Checkout:            checkout.DefaultConfig(),
		NotificationVisible: notify.DefaultVisibleDuration,
	}
}

// Hooks are optional observers of one-shot side effects.
type Hooks struct {
	// Settled receives every manifest at checkout success.
	Settled func(checkout.Manifest)
	// AuthChanged runs when the authenticated flag flips.
	AuthChanged func(authenticated bool)
	// Now stamps manifests.
	Now func() time.Time
}

// Store is the application state.
type Store struct {
	sched    *clock.Scheduler
	catalog  *catalog.Catalog
	router   *router.Router
	queue    *notify.Queue
	vault    *vault.Vault
	gate     *auth.Gate
	checkout *checkout.Machine
	hooks    Hooks
	log      *zap.Logger

	authenticated bool
	authModalOpen bool
}

// New constructs the store. Each machine is built once here and owns its timers.
func New(cat *catalog.Catalog, sched *clock.Scheduler, cfg Config, hooks Hooks, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	if sched == nil {
		sched = clock.New()
	}
	s := &Store{
		sched:   sched,
		catalog: cat,
		router:  router.New(),
		hooks:   hooks,
		log:     log,
	}
	s.queue = notify.NewQueue(sched,
		notify.WithVisibleDuration(cfg.NotificationVisible),
		notify.WithLogger(log.Named("notify")))
	s.vault = vault.New(s.queue, log.Named("vault"))
	s.gate = auth.NewGate(sched, cfg.Gate, s.Authenticate, log.Named("auth"))
	s.checkout = checkout.New(sched, cfg.Checkout, s.vault, s.queue, checkout.Options{
		OnSettled: hooks.Settled,
		Member:    func() bool { return s.authenticated },
		Now:       hooks.Now,
		Logger:    log.Named("checkout"),
	})
	return s
}

// Catalog returns the content set the store was built with.
func (s *Store) Catalog() *catalog.Catalog { return s.catalog }

// Advance moves virtual time forward, firing due ticks and deferred effects.
func (s *Store) Advance(d time.Duration) { s.sched.Advance(d) }

// Now returns virtual time.
func (s *Store) Now() time.Duration { return s.sched.Now() }

// --- authentication -------------------------------------------------------

// OpenAuth shows the biometric gate with a fresh scan.
func (s *Store) OpenAuth() {
	s.gate.Reset()
	s.authModalOpen = true
}

// CloseAuth hides the gate and abandons any scan or pending verification.
func (s *Store) CloseAuth() {
	s.authModalOpen = false
	s.gate.Reset()
}

// Authenticate marks the member verified and closes the gate.
func (s *Store) Authenticate() {
	s.CloseAuth()
	s.setAuthenticated(true)
}

// Logout drops membership. No flow calls it automatically.
func (s *Store) Logout() {
	s.setAuthenticated(false)
}

func (s *Store) setAuthenticated(v bool) {
	if s.authenticated == v {
		return
	}
	s.authenticated = v
	s.log.Info("membership changed", zap.Bool("authenticated", v))
	if s.hooks.AuthChanged != nil {
		s.hooks.AuthChanged(v)
	}
}

// Authenticated reports membership.
func (s *Store) Authenticated() bool { return s.authenticated }

// --- checkout -------------------------------------------------------------

// OpenCheckout starts a purchase from the vault. It is refused while the vault is empty.
func (s *Store) OpenCheckout() bool { return s.checkout.Open() }

// CloseCheckout forces checkout back to idle.
func (s *Store) CloseCheckout() { s.checkout.Close() }

// --- hold gestures --------------------------------------------------------

// StartHold routes a hold to the foreground ritual: the gate when it is open,
// otherwise the checkout. It reports whether a machine accepted it.
func (s *Store) StartHold() bool {
	if s.authModalOpen {
		return s.gate.StartHold()
	}
	if s.checkout.State() != checkout.Idle {
		return s.checkout.StartHold()
	}
	return false
}

// ReleaseHold routes a release the same way as StartHold.
func (s *Store) ReleaseHold() bool {
	if s.authModalOpen {
		return s.gate.ReleaseHold()
	}
	if s.checkout.State() != checkout.Idle {
		return s.checkout.ReleaseHold()
	}
	return false
}

// Holding reports whether the foreground ritual is accumulating progress.
func (s *Store) Holding() bool {
	if s.authModalOpen {
		return s.gate.State() == auth.ScanScanning
	}
	return s.checkout.State() == checkout.Processing
}

// --- routing --------------------------------------------------------------

// Navigate clears focus and switches view, as the nav bar does.
func (s *Store) Navigate(v router.View) { s.router.Navigate(v) }

// SetView switches view without touching focus.
func (s *Store) SetView(v router.View) { s.router.SetView(v) }

// Focus focuses the product with id, switching to the product view.
func (s *Store) Focus(id string) error {
	p, ok := s.catalog.Product(id)
	if !ok {
		return fmt.Errorf("unknown product %q", id)
	}
	s.router.Focus(&p)
	return nil
}

// Unfocus clears focus and returns to the collection.
func (s *Store) Unfocus() { s.router.Unfocus() }

// --- vault ----------------------------------------------------------------

// Add secures the product with id. Duplicates are ignored silently.
func (s *Store) Add(id string) (bool, error) {
	p, ok := s.catalog.Product(id)
	if !ok {
		return false, fmt.Errorf("unknown product %q", id)
	}
	return s.vault.Add(p), nil
}

// Remove releases a product from the vault.
func (s *Store) Remove(id string) bool { return s.vault.Remove(id) }

// ToggleVault sets the vault panel to *explicit, or flips it when nil.
func (s *Store) ToggleVault(explicit *bool) { s.vault.Toggle(explicit) }

// --- notifications --------------------------------------------------------

// Push enqueues a notification and returns its id.
func (s *Store) Push(message string, kind notify.Kind) string { return s.queue.Push(message, kind) }

// Dismiss removes a notification.
func (s *Store) Dismiss(id string) { s.queue.Dismiss(id) }

// Presented starts the auto-dismiss countdown of a shown notification.
func (s *Store) Presented(id string) { s.queue.Presented(id) }

// Unpresented lists notifications not yet reported as shown.
func (s *Store) Unpresented() []string { return s.queue.Unpresented() }
