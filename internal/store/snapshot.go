package store

import (
	"time"

	"axiom/internal/auth"
	"axiom/internal/catalog"
	"axiom/internal/checkout"
	"axiom/internal/notify"
	"axiom/internal/router"
)

// Snapshot is a read-only copy of the application state.
type Snapshot struct {
	Now time.Duration

	View    router.View
	Focused *catalog.Product

	Vault     []catalog.Product
	VaultOpen bool
	Total     int64

	Authenticated bool
	AuthModalOpen bool
	Scan          auth.ScanState
	ScanProgress  float64
	ScanStatus    string

	Checkout     checkout.State
	HoldProgress float64
	Manifest     *checkout.Manifest

	Notifications []notify.Notification
}

// Snapshot copies the current state.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		Now:           s.sched.Now(),
		View:          s.router.View(),
		Vault:         s.vault.Items(),
		VaultOpen:     s.vault.IsOpen(),
		Total:         s.vault.Total(),
		Authenticated: s.authenticated,
		AuthModalOpen: s.authModalOpen,
		Scan:          s.gate.State(),
		ScanProgress:  s.gate.Progress(),
		ScanStatus:    s.gate.Status(),
		Checkout:      s.checkout.State(),
		HoldProgress:  s.checkout.Progress(),
		Notifications: s.queue.Items(),
	}
	if p, ok := s.router.Focused(); ok {
		snap.Focused = &p
	}
	if m, ok := s.checkout.Manifest(); ok && snap.Checkout == checkout.Success {
		snap.Manifest = &m
	}
	return snap
}
