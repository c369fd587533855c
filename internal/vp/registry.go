// internal/vp/registry.go
package vp

import (
	"fmt"
	"sync"
)

// Registry owns the current value of every VP in a schema.
// A Set either commits a fully validated value or leaves the slot untouched.
type Registry struct {
	schema *Schema

	mu     sync.RWMutex
	values []Value // indexed like schema.items
}

// NewRegistry creates a registry initialised from schema defaults.
func NewRegistry(s *Schema) *Registry {
	r := &Registry{
		schema: s,
		values: make([]Value, len(s.items)),
	}
	for i, d := range s.items {
		r.values[i] = d.Default
	}
	return r
}

// Schema returns the table the registry was built from.
func (r *Registry) Schema() *Schema { return r.schema }

// Get returns the current value at addr.
func (r *Registry) Get(addr uint16) (Value, error) {
	i, ok := r.schema.byAddr[addr]
	if !ok {
		return Value{}, fmt.Errorf("%w: 0x%04X", ErrUnknownAddress, addr)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.values[i], nil
}

// GetByName is Get keyed by VP name.
func (r *Registry) GetByName(name string) (Value, error) {
	addr, ok := r.Resolve(name)
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrUnknownName, name)
	}
	return r.Get(addr)
}

// Set validates raw against the descriptor at addr and stores it.
// Strings are truncated to the slot width. The committed value is returned.
func (r *Registry) Set(addr uint16, raw any) (Value, error) {
	i, ok := r.schema.byAddr[addr]
	if !ok {
		return Value{}, fmt.Errorf("%w: 0x%04X", ErrUnknownAddress, addr)
	}

	v, err := coerce(r.schema.items[i], raw)
	if err != nil {
		return Value{}, err
	}

	r.mu.Lock()
	r.values[i] = v
	r.mu.Unlock()

	return v, nil
}

// SetByName is Set keyed by VP name.
func (r *Registry) SetByName(name string, raw any) (Value, error) {
	addr, ok := r.Resolve(name)
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrUnknownName, name)
	}
	return r.Set(addr, raw)
}

// Resolve maps a VP name to its address.
func (r *Registry) Resolve(name string) (uint16, bool) {
	d, ok := r.schema.LookupName(name)
	return d.Address, ok
}

// Name maps an address to its VP name.
func (r *Registry) Name(addr uint16) (string, bool) {
	d, ok := r.schema.Lookup(addr)
	return d.Name, ok
}

// Describe returns the descriptor at addr.
func (r *Registry) Describe(addr uint16) (Descriptor, bool) {
	return r.schema.Lookup(addr)
}

// Snapshot copies all current values, keyed by address.
func (r *Registry) Snapshot() map[uint16]Value {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[uint16]Value, len(r.values))
	for i, d := range r.schema.items {
		out[d.Address] = r.values[i]
	}
	return out
}
