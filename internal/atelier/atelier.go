// Package atelier holds the material presets of the configurator lab.
package atelier

import "fmt"

// Material is a surface preset for the lab specimen.
type Material struct {
	Name                string
	Transmission        float64
	Roughness           float64
	Metalness           float64
	Color               string
	Thickness           float64
	IOR                 float64
	ChromaticAberration float64
}

var presets = []Material{
	{Name: "obsidian", Transmission: 0, Roughness: 0.1, Metalness: 0.8, Color: "#1a1a1a", Thickness: 0, IOR: 1.5, ChromaticAberration: 0},
	{Name: "chrome", Transmission: 0.2, Roughness: 0.05, Metalness: 1, Color: "#ffffff", Thickness: 2, IOR: 1.2, ChromaticAberration: 0.2},
	{Name: "glass", Transmission: 1, Roughness: 0.1, Metalness: 0, Color: "#ffffff", Thickness: 4, IOR: 1.5, ChromaticAberration: 0.04},
}

// Presets returns the materials in switcher order.
func Presets() []Material {
	out := make([]Material, len(presets))
	copy(out, presets)
	return out
}

// Lookup finds a preset by name.
func Lookup(name string) (Material, bool) {
	for _, m := range presets {
		if m.Name == name {
			return m, true
		}
	}
	return Material{}, false
}

// Lab tracks the selected material. It starts on obsidian.
type Lab struct {
	active int
}

// NewLab returns a lab on the first preset.
func NewLab() *Lab { return &Lab{} }

// Active returns the selected material.
func (l *Lab) Active() Material { return presets[l.active] }

// Select switches to the named preset.
func (l *Lab) Select(name string) error {
	for i, m := range presets {
		if m.Name == name {
			l.active = i
			return nil
		}
	}
	return fmt.Errorf("unknown material %q", name)
}

// Cycle moves to the next preset, wrapping around.
func (l *Lab) Cycle() Material {
	l.active = (l.active + 1) % len(presets)
	return l.Active()
}
