// Package router tracks the top-level view and the focused product.
package router

import "axiom/internal/catalog"

// View is a top-level screen.
type View int

const (
	Collection View = iota
	Product
	Atelier
	Journal
)

func (v View) String() string {
	switch v {
	case Collection:
		return "collection"
	case Product:
		return "product"
	case Atelier:
		return "atelier"
	case Journal:
		return "journal"
	}
	return "unknown"
}

// Section is the wayfinder label for the view.
func (v View) Section() string {
	switch v {
	case Product:
		return "Acquire"
	case Atelier:
		return "Atelier"
	case Journal:
		return "Journal"
	}
	return "Archive"
}

// Router holds the current route. Focus and the Product view always change
// together; there is no way to set one without the other.
type Router struct {
	view    View
	focused *catalog.Product
}

// New starts on the collection with nothing focused.
func New() *Router {
	return &Router{view: Collection}
}

// SetView switches the top-level view and leaves focus untouched.
func (r *Router) SetView(v View) {
	r.view = v
}

// Focus sets the focused product and switches to the Product view.
// A nil product clears focus and returns to the collection.
func (r *Router) Focus(p *catalog.Product) {
	if p == nil {
		r.focused = nil
		r.view = Collection
		return
	}
	cp := *p
	r.focused = &cp
	r.view = Product
}

// Unfocus is Focus(nil).
func (r *Router) Unfocus() { r.Focus(nil) }

// Navigate is the nav bar action: clear focus, then show v.
func (r *Router) Navigate(v View) {
	r.Focus(nil)
	r.SetView(v)
}

// View returns the current view.
func (r *Router) View() View { return r.view }

// Focused returns the focused product, if any.
func (r *Router) Focused() (catalog.Product, bool) {
	if r.focused == nil {
		return catalog.Product{}, false
	}
	return *r.focused, true
}
