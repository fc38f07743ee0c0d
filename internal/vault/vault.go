// Package vault implements the acquisition vault (the cart).
package vault

import (
	"fmt"

	"axiom/internal/catalog"
	"axiom/internal/notify"

	"go.uber.org/zap"
)

// Vault holds products committed to purchase, keyed by product id, in the
// order they were secured. A product appears at most once.
type Vault struct {
	items  []catalog.Product
	open   bool
	notify notify.Pusher
	log    *zap.Logger
}

// New creates an empty, closed vault. Notifications for newly secured items go to n.
func New(n notify.Pusher, log *zap.Logger) *Vault {
	if log == nil {
		log = zap.NewNop()
	}
	return &Vault{notify: n, log: log}
}

// Add secures a product. Adding a product that is already present changes
// nothing and emits nothing; it reports whether the vault changed.
func (v *Vault) Add(p catalog.Product) bool {
	if v.Contains(p.ID) {
		v.log.Debug("duplicate add ignored", zap.String("product", p.ID))
		return false
	}
	v.items = append(v.items, p)
	v.open = true
	if v.notify != nil {
		v.notify.Push(fmt.Sprintf("Secured in Vault: %s", p.Name), notify.KindSuccess)
	}
	v.log.Info("product secured", zap.String("product", p.ID), zap.Int("items", len(v.items)))
	return true
}

// Remove releases the product with id, if present.
func (v *Vault) Remove(id string) bool {
	for i, p := range v.items {
		if p.ID == id {
			v.items = append(v.items[:i], v.items[i+1:]...)
			v.log.Info("product released", zap.String("product", id), zap.Int("items", len(v.items)))
			return true
		}
	}
	return false
}

// Toggle sets panel visibility to *explicit when given, otherwise flips it.
func (v *Vault) Toggle(explicit *bool) {
	if explicit != nil {
		v.open = *explicit
		return
	}
	v.open = !v.open
}

// SetOpen is Toggle with an explicit value.
func (v *Vault) SetOpen(open bool) { v.Toggle(&open) }

// IsOpen reports panel visibility.
func (v *Vault) IsOpen() bool { return v.open }

// Contains reports whether the product id is in the vault.
func (v *Vault) Contains(id string) bool {
	for _, p := range v.items {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Items returns the secured products in insertion order.
func (v *Vault) Items() []catalog.Product {
	out := make([]catalog.Product, len(v.items))
	copy(out, v.items)
	return out
}

// Len returns the number of secured products.
func (v *Vault) Len() int { return len(v.items) }

// Total sums member prices. It is recomputed on every call.
func (v *Vault) Total() int64 {
	var total int64
	for _, p := range v.items {
		total += p.Price
	}
	return total
}

// Clear empties the vault without touching panel visibility.
func (v *Vault) Clear() {
	v.items = nil
}
