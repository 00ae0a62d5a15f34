// Package cache implements the local reconciliation layer: a per-identifier
// map of the last locally-confirmed product state, patched over full-list
// reads so a server response that omits or trims fields cannot regress
// what the panel already knows.
package cache

import "github.com/JesVite28/products-front/internal/domain/models"

// Overrides is a read-through override map with last-writer-wins
// semantics per identifier. Entries are created on successful create or
// update, removed on successful delete and never expire otherwise.
//
// The map is pure and synchronous. It is not safe for concurrent use;
// the owning controller serializes access.
type Overrides struct {
	entries map[string]models.Product
}

// NewOverrides returns an empty override map.
func NewOverrides() *Overrides {
	return &Overrides{entries: make(map[string]models.Product)}
}

// Apply substitutes every entity in list whose identifier has an
// override with the override's value. Order and length are preserved;
// the input slice is not mutated. Applying twice with an unchanged map
// yields the same result as applying once.
func (o *Overrides) Apply(list []models.Product) []models.Product {
	merged := make([]models.Product, len(list))
	for i, p := range list {
		merged[i] = o.ApplyOne(p)
	}
	return merged
}

// ApplyOne returns the override for p's identifier when one exists,
// otherwise p unchanged.
func (o *Overrides) ApplyOne(p models.Product) models.Product {
	if p.ID == "" {
		return p
	}
	if known, ok := o.entries[p.ID]; ok {
		return known
	}
	return p
}

// Record upserts the override for the entity's identifier. Entities that
// have not been persisted yet carry no identifier and are ignored.
func (o *Overrides) Record(p models.Product) {
	if p.ID == "" {
		return
	}
	o.entries[p.ID] = p
}

// Drop removes the override for an identifier, if present.
func (o *Overrides) Drop(id string) {
	delete(o.entries, id)
}

// Reset discards every override.
func (o *Overrides) Reset() {
	o.entries = make(map[string]models.Product)
}

// Len returns the number of recorded overrides.
func (o *Overrides) Len() int {
	return len(o.entries)
}
